package advisory

import (
	"context"
	"fmt"
	"strings"
)

// FixedClient answers from a table of canned responses keyed by a prompt
// substring. Used for offline demos when no completion endpoint is set.
type FixedClient struct {
	rules    []FixedRule
	fallback string
}

type FixedRule struct {
	Contains string
	Reply    string
}

func NewFixedClient(fallback string, rules ...FixedRule) *FixedClient {
	return &FixedClient{rules: rules, fallback: fallback}
}

func (f *FixedClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for _, r := range f.rules {
		if strings.Contains(prompt, r.Contains) {
			return r.Reply, nil
		}
	}
	if f.fallback == "" {
		return "", fmt.Errorf("fixed advisory: no reply for prompt")
	}
	return f.fallback, nil
}
