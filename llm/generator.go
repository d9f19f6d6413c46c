package llm

import "context"

// Generator is an opaque text-completion service. The rest of the system
// only ever sends a prompt and reads back text.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
}
