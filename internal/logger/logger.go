package logger

import "ChordDHT/internal/domain"

// Field is a structured logging key/value pair. It keeps call sites free
// of any dependency on the underlying logging library.
type Field struct {
	Key string
	Val any
}

// F builds a single structured field.
func F(key string, val any) Field {
	return Field{Key: key, Val: val}
}

// FNode builds a structured field describing a peer node handle. n may
// be nil, in which case the field logs as absent.
func FNode(key string, n *domain.Node) Field {
	if n == nil {
		return Field{Key: key, Val: nil}
	}
	return Field{Key: key, Val: map[string]any{
		"id":   n.ID.String(),
		"addr": n.Addr,
	}}
}

// FResource builds a structured field describing a stored resource: its
// key in hex and its raw value.
func FResource(key string, r domain.Resource) Field {
	return Field{Key: key, Val: map[string]any{
		"key":   r.Key.String(),
		"value": r.Value,
	}}
}

// Logger is the thin structured-logging interface the rest of the module
// depends on; it is satisfied by the zap adapter in package zap and by
// NopLogger for tests.
type Logger interface {
	Named(name string) Logger
	With(fields ...Field) Logger
	WithNode(n domain.Node) Logger
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// NopLogger discards everything; it is the logger used when logging is
// disabled in configuration and in unit tests.
type NopLogger struct{}

func (NopLogger) Named(string) Logger                 { return NopLogger{} }
func (NopLogger) With(...Field) Logger                { return NopLogger{} }
func (NopLogger) WithNode(domain.Node) Logger          { return NopLogger{} }
func (NopLogger) Debug(string, ...Field)              {}
func (NopLogger) Info(string, ...Field)               {}
func (NopLogger) Warn(string, ...Field)               {}
func (NopLogger) Error(string, ...Field)              {}
