// Package ai defines the model-facing interfaces the rest of the
// application consumes. Concrete providers live in subpackages.
package ai

import "context"

// Generator produces text from a prompt under an optional system
// instruction.
type Generator interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}

// Vision answers a prompt about a single image.
type Vision interface {
	AnalyzeImage(ctx context.Context, prompt, mimeType string, data []byte) (string, error)
}

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, mimeType string, audio []byte) (string, error)
}
