package ports

import "context"

// Contract for the external text-completion service behind advisories.
type AdvisoryClient interface {
	// Return the completion for a free-text prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}
