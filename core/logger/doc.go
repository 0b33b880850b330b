// Package logger provides a structured logging facility based on Zap.
//
// It builds a logger for development (debug level) or production and integrates
// with the Fiber web framework used by the status API.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it to the
// log entry, so all logs related to one status request can be correlated. Sync passes
// carry a pass_id field instead.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Poller timer started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
