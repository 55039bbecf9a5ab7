// Package comparison asks a language model to compare two cars for a
// shopper.
package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fourwheeler-backend/internal/infrastructure/gemini"
	"fourwheeler-backend/internal/logger"
	appErrors "fourwheeler-backend/pkg/errors"

	"go.uber.org/zap"
)

const (
	instructions = "Compare these two cars concisely for a shopper. Highlight performance, " +
		"fuel/energy efficiency, pricing, practicality, safety, and tech. Keep it under 200 words."

	fallbackText = "No comparison available"
)

type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type CompareRequest struct {
	CarA map[string]interface{} `json:"carA"`
	CarB map[string]interface{} `json:"carB"`
}

type CompareResponse struct {
	Comparison string `json:"comparison"`
}

type Service struct {
	generator TextGenerator
}

// NewService creates a comparison service. A nil generator means no API key
// is configured.
func NewService(generator TextGenerator) *Service {
	return &Service{generator: generator}
}

func (s *Service) CompareCars(ctx context.Context, req *CompareRequest) (*CompareResponse, error) {
	if req == nil || len(req.CarA) == 0 || len(req.CarB) == 0 {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "carA and carB are required", appErrors.ErrInvalidInput)
	}
	if s.generator == nil {
		return nil, fmt.Errorf("%w: car comparison is not configured", appErrors.ErrServiceUnavailable)
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "carA and carB must be JSON objects", appErrors.ErrInvalidInput)
	}

	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		var statusErr *gemini.StatusError
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.As(err, &statusErr), errors.Is(err, gemini.ErrUnavailable):
			logger.Error("Car comparison upstream failure",
				zap.Error(err),
				zap.String("event", "car_comparison_failed"),
			)
			return nil, fmt.Errorf("%w: %v", appErrors.ErrUpstream, err)
		default:
			return nil, fmt.Errorf("failed to compare cars: %w", err)
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = fallbackText
	}

	logger.Info("Car comparison generated",
		zap.Int("length", len(text)),
		zap.String("event", "car_comparison_generated"),
	)

	return &CompareResponse{Comparison: text}, nil
}

func buildPrompt(req *CompareRequest) (string, error) {
	a, err := json.Marshal(req.CarA)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(req.CarB)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n\nCar A: %s\n\nCar B: %s", instructions, a, b), nil
}
