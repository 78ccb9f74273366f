package ports

import "context"

// GenerateRequest is one non-streaming model call.
type GenerateRequest struct {
	SystemInstruction string
	Prompt            string
	MaxOutputTokens   int32
	Temperature       float32
}

// Generator is the boundary to a hosted generative model.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	// Model names the backing model, for status reporting.
	Model() string
}
