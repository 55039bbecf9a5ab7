// Package google verifies Google Sign-In ID tokens.
package google

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

var ErrEmailNotVerified = errors.New("google account email is not verified")

// Identity is the subset of ID token claims used to sign a user in.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type Verifier struct {
	clientID string
	validate validateFunc
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{clientID: clientID, validate: idtoken.Validate}
}

// Verify checks the token signature, audience and expiry against Google's
// published keys.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	payload, err := v.validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google id token: %w", err)
	}

	email := stringClaim(payload.Claims, "email")
	if email == "" {
		return nil, errors.New("google id token has no email claim")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, ErrEmailNotVerified
	}

	return &Identity{
		Subject: payload.Subject,
		Email:   email,
		Name:    stringClaim(payload.Claims, "name"),
		Picture: stringClaim(payload.Claims, "picture"),
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
