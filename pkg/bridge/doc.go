// Package bridge is the agent-facing HTTP API.
//
// The v1 contract is frozen: POST /v1/recommend, POST /v1/curate and
// GET /v1/ingestion/status, each with the payload types in contract.go
// and the uniform error envelope with stable machine-readable codes.
// Requests may bound their own latency via timeout_ms; the server maps
// an expired deadline to the TIMEOUT code rather than returning partial
// results.
package bridge
