package embedding

import (
	"context"
	"errors"
)

// ErrProvider marks any failure of the embedding provider: transport
// errors, non-2xx responses, empty or malformed payloads. Callers branch
// on it with errors.Is and decide whether to retry.
var ErrProvider = errors.New("embedding provider error")

// Provider is the contract an embedding backend must satisfy.
// The returned vectors must have a stable dimension for a given
// provider configuration.
type Provider interface {
	// Create generates one embedding per input text, in input order.
	Create(ctx context.Context, texts ...string) ([][]float32, error)
}
