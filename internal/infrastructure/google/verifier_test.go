package google

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func stubVerifier(payload *idtoken.Payload, err error) *Verifier {
	return &Verifier{
		clientID: "client-id",
		validate: func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
			if audience != "client-id" {
				return nil, errors.New("audience mismatch")
			}
			return payload, err
		},
	}
}

func TestVerifyExtractsIdentity(t *testing.T) {
	v := stubVerifier(&idtoken.Payload{
		Subject: "1234",
		Claims: map[string]interface{}{
			"email":          "jane@gmail.com",
			"email_verified": true,
			"name":           "Jane Doe",
			"picture":        "https://example.com/jane.png",
		},
	}, nil)

	id, err := v.Verify(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, &Identity{Subject: "1234", Email: "jane@gmail.com", Name: "Jane Doe", Picture: "https://example.com/jane.png"}, id)
}

func TestVerifyFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload *idtoken.Payload
		err     error
		wantErr error
	}{
		{name: "invalid token", err: errors.New("bad signature")},
		{name: "missing email", payload: &idtoken.Payload{Claims: map[string]interface{}{}}},
		{
			name:    "unverified email",
			payload: &idtoken.Payload{Claims: map[string]interface{}{"email": "x@gmail.com", "email_verified": false}},
			wantErr: ErrEmailNotVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stubVerifier(tt.payload, tt.err).Verify(context.Background(), "token")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
