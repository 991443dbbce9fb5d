// Package logger provides the structured logging layer for the service.
//
// It wraps Uber's Zap logger behind a small surface (Info, Debug, Warn,
// Error, Fatal) where every method takes the message, an optional error,
// and optional field maps:
//
//	log := logger.NewLoggerClient(logger.NewConfig())
//	log.Info("recommendation served", nil, map[string]interface{}{
//	    "candidates": 20,
//	    "top_score":  0.91,
//	})
//
// The package also exposes FXModule for use with go.uber.org/fx; the
// module registers a shutdown hook that flushes buffered log entries.
package logger
