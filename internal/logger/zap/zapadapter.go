package zap

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter adapts a *zap.Logger to the logger.Logger interface used
// throughout the rest of the module.
type ZapAdapter struct {
	L *zap.Logger
}

// NewZapAdapter wraps l, skipping one extra stack frame so that reported
// call sites point at the adapter's caller rather than this file.
func NewZapAdapter(l *zap.Logger) ZapAdapter {
	return ZapAdapter{L: l.WithOptions(zap.AddCallerSkip(1))}
}

func (z ZapAdapter) Named(name string) logger.Logger {
	return ZapAdapter{L: z.L.Named(name)}
}

func (z ZapAdapter) With(fields ...logger.Field) logger.Logger {
	return ZapAdapter{L: z.L.With(toZap(fields)...)}
}

func (z ZapAdapter) WithNode(n domain.Node) logger.Logger {
	return ZapAdapter{L: z.L.With(zap.Any("self", map[string]any{
		"id":   n.ID.String(),
		"addr": n.Addr,
	}))}
}

func (z ZapAdapter) Debug(msg string, fields ...logger.Field) {
	if ce := z.L.Check(zapcore.DebugLevel, msg); ce != nil {
		ce.Write(toZap(fields)...)
	}
}

func (z ZapAdapter) Info(msg string, fields ...logger.Field) {
	if ce := z.L.Check(zapcore.InfoLevel, msg); ce != nil {
		ce.Write(toZap(fields)...)
	}
}

func (z ZapAdapter) Warn(msg string, fields ...logger.Field) {
	if ce := z.L.Check(zapcore.WarnLevel, msg); ce != nil {
		ce.Write(toZap(fields)...)
	}
}

func (z ZapAdapter) Error(msg string, fields ...logger.Field) {
	if ce := z.L.Check(zapcore.ErrorLevel, msg); ce != nil {
		ce.Write(toZap(fields)...)
	}
}

func toZap(fs []logger.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fs))
	for _, f := range fs {
		out = append(out, zap.Any(f.Key, f.Val))
	}
	return out
}
