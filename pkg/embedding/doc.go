// Package embedding turns text into fixed-length vectors via an
// OpenAI-compatible inference endpoint.
//
// The package exposes a small Client facade:
//
//	client, err := embedding.NewClient(embedding.NewConfig())
//	if err != nil { ... }
//	vec, err := client.Embed(ctx, "authenticated symmetric encryption")
//
// Every provider failure (transport error, non-2xx status, empty or
// short payload) wraps ErrProvider, so callers can classify failures
// with errors.Is without inspecting messages. Calls are bounded both by
// the client's HTTP timeout and by the caller's context deadline; when
// the context expires the returned error additionally wraps the context
// error.
//
// The vector dimension is defined by the configured model and must be
// stable across calls for a given configuration; the corpus store
// enforces uniformity on its side.
package embedding
