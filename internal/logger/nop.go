// Package logger provides no-op and test loggers.
package logger

import "github.com/arcten/timeshard/types"

// NopLogger discards all log messages. It is the default when no logger is
// provided, so components never need nil checks.
type NopLogger struct{}

var _ types.Logger = (*NopLogger)(nil)

// NewNop creates a logger that performs no operations.
func NewNop() *NopLogger {
	return &NopLogger{}
}

// Debug discards the message.
func (n *NopLogger) Debug(_ string, _ ...any) {}

// Info discards the message.
func (n *NopLogger) Info(_ string, _ ...any) {}

// Warn discards the message.
func (n *NopLogger) Warn(_ string, _ ...any) {}

// Error discards the message.
func (n *NopLogger) Error(_ string, _ ...any) {}

// Fatal discards the message. It intentionally does not exit, so tests using
// the nop logger cannot be terminated by a fatal log call.
func (n *NopLogger) Fatal(_ string, _ ...any) {}
