package comparison

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fourwheeler-backend/internal/infrastructure/gemini"
	appErrors "fourwheeler-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text   string
	err    error
	prompt string
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.text, g.err
}

func validRequest() *CompareRequest {
	return &CompareRequest{
		CarA: map[string]interface{}{"make": "Toyota", "model": "Camry"},
		CarB: map[string]interface{}{"make": "Honda", "model": "Accord"},
	}
}

func TestCompareCars(t *testing.T) {
	gen := &stubGenerator{text: "  The Camry is cheaper.  "}
	res, err := NewService(gen).CompareCars(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "The Camry is cheaper.", res.Comparison)
	assert.Contains(t, gen.prompt, "under 200 words")
	assert.Contains(t, gen.prompt, `Car A: {"make":"Toyota","model":"Camry"}`)
	assert.Contains(t, gen.prompt, `Car B: {"make":"Honda","model":"Accord"}`)
}

func TestCompareCarsFallbackText(t *testing.T) {
	res, err := NewService(&stubGenerator{}).CompareCars(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "No comparison available", res.Comparison)
}

func TestCompareCarsErrors(t *testing.T) {
	tests := []struct {
		name    string
		svc     *Service
		req     *CompareRequest
		wantErr error
	}{
		{"missing carA", NewService(&stubGenerator{}), &CompareRequest{CarB: validRequest().CarB}, appErrors.ErrInvalidInput},
		{"missing carB", NewService(&stubGenerator{}), &CompareRequest{CarA: validRequest().CarA}, appErrors.ErrInvalidInput},
		{"not configured", NewService(nil), validRequest(), appErrors.ErrServiceUnavailable},
		{"upstream status", NewService(&stubGenerator{err: &gemini.StatusError{StatusCode: 400}}), validRequest(), appErrors.ErrUpstream},
		{"retries exhausted", NewService(&stubGenerator{err: fmt.Errorf("%w: 503", gemini.ErrUnavailable)}), validRequest(), appErrors.ErrUpstream},
		{"cancelled", NewService(&stubGenerator{err: context.Canceled}), validRequest(), context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.CompareCars(context.Background(), tt.req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
