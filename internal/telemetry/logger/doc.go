// Package logger provides structured logging for xpconnect.
//
// It wraps log/slog with a small Logger interface, a process-wide level
// that can be changed at runtime, and a throttling wrapper for messages
// emitted from the flight loop, which runs once per tick.
//
//   - logger.go: construction, levels and the default logger
//   - context.go: logger and session ID propagation through context
//   - throttle.go: per-message rate limiting
package logger
