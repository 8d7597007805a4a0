package generation

import "context"

// Generator defines the boundary between the application core and the
// language model transport. Implementations return the raw completion
// text; recovering structured cards from it is the normalizer's concern.
type Generator interface {
	// GenerateCompletion sends the prompt to the model and returns the
	// raw completion text, or an error when the transport fails or the
	// model refuses the content.
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
}
