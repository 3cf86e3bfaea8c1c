// internal/classifier/provider.go
package classifier

import (
	"context"
	"fmt"
	"strings"

	"support-copilot/internal/common/config"
)

// Provider is the single capability a remote language model must expose:
// send one structured classification request and return the raw model text.
// New providers are added as further implementations, never as string
// branches inside the classifier.
type Provider interface {
	Name() string
	SendStructuredRequest(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewProvider resolves the configured provider identifier. Unknown
// identifiers fail here, locally, before any network call could happen.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "openai":
		return newOpenAIProvider(cfg), nil
	case "anthropic":
		return newAnthropicProvider(cfg), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
}
