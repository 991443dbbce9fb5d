package bridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/nexus-evo/algorec/pkg/corpus"
	"github.com/nexus-evo/algorec/pkg/curator"
	"github.com/nexus-evo/algorec/pkg/embedding"
	"github.com/nexus-evo/algorec/pkg/engine"
)

// Stable machine-readable error codes of the v1 contract.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeProvider           = "PROVIDER_ERROR"
	CodeInsufficientCorpus = "INSUFFICIENT_CORPUS"
	CodeTimeout            = "TIMEOUT"
	CodeInternal           = "INTERNAL"
)

// classify maps internal errors onto the wire contract. Unrecognized
// errors become INTERNAL with a generic message, keeping internals out
// of responses.
func classify(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, corpus.ErrValidation):
		return http.StatusBadRequest, CodeValidation, err.Error()
	case errors.Is(err, corpus.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, curator.ErrInsufficientCorpus):
		return http.StatusConflict, CodeInsufficientCorpus, err.Error()
	case errors.Is(err, engine.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout, "request deadline exceeded"
	case errors.Is(err, embedding.ErrProvider):
		return http.StatusBadGateway, CodeProvider, "embedding provider unavailable"
	default:
		return http.StatusInternalServerError, CodeInternal, "internal error"
	}
}
