package embedding

import (
	"context"
	"fmt"
)

// Client is the public entrypoint for computing embeddings.
//
// It hides provider details (inference endpoints, HTTP, auth) from the
// application layer. Application code should depend on *Client, not on
// Provider or InferenceProvider.
type Client struct {
	provider Provider
}

// NewClient constructs a Client from Config. It validates the config and
// internally constructs the inference provider.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	p, err := newInferenceProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create provider: %w", err)
	}

	return &Client{provider: p}, nil
}

// NewClientWithProvider wraps an externally supplied provider.
// Used by tests and by deployments with custom embedding backends.
func NewClientWithProvider(p Provider) *Client {
	return &Client{provider: p}
}

// Embed computes the embedding for a single text. A provider that
// returns no vector for the text is treated as a provider failure.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.provider.Create(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("%w: provider returned no embedding", ErrProvider)
	}
	return vecs[0], nil
}

// EmbedBatch computes embeddings for multiple texts in one request.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return c.provider.Create(ctx, texts...)
}

// Close releases any internal resources held by the provider.
func (c *Client) Close() error {
	if closer, ok := c.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
