package deps

import (
	"context"

	"google.golang.org/genai"
)

// GenerateRequest is one structured generation call
type GenerateRequest struct {
	Model             string
	SystemInstruction string
	Prompt            string
	ResponseSchema    *genai.Schema
}

// Generator abstracts the generation endpoint so tests can substitute it
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
