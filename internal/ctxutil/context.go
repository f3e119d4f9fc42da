package ctxutil

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/trace"
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type hopsKey struct{}

// ContextOption configures NewContext.
type ContextOption func(*ctxConfig)

type ctxConfig struct {
	withTrace bool
	withHops  bool
	nodeID    domain.ID
	timeout   time.Duration
}

// WithTrace attaches a freshly-minted trace ID derived from nodeID.
func WithTrace(nodeID domain.ID) ContextOption {
	return func(c *ctxConfig) {
		c.withTrace = true
		c.nodeID = nodeID
	}
}

// WithTimeout bounds the returned context with a deadline.
func WithTimeout(d time.Duration) ContextOption {
	return func(c *ctxConfig) { c.timeout = d }
}

// WithHops seeds a zero hop counter on the returned context.
func WithHops() ContextOption {
	return func(c *ctxConfig) { c.withHops = true }
}

// NewContext builds a background context configured per opts.
func NewContext(opts ...ContextOption) (context.Context, context.CancelFunc) {
	cfg := &ctxConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	ctx := context.Background()
	cancel := func() {}
	if cfg.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
	}
	if cfg.withTrace {
		ctx, _ = trace.AttachTraceID(ctx, cfg.nodeID)
	}
	if cfg.withHops {
		ctx = context.WithValue(ctx, hopsKey{}, 0)
	}
	return ctx, cancel
}

// TraceIDFromContext returns the trace ID carried on ctx, or "" if none.
func TraceIDFromContext(ctx context.Context) string {
	return trace.GetTraceID(ctx)
}

// EnsureTraceID returns ctx unchanged if it already carries a trace ID,
// otherwise attaches a new one derived from nodeID.
func EnsureTraceID(ctx context.Context, nodeID domain.ID) context.Context {
	if trace.GetTraceID(ctx) != "" {
		return ctx
	}
	ctx, _ = trace.AttachTraceID(ctx, nodeID)
	return ctx
}

// HopsFromContext returns the current routing hop count, or -1 if ctx
// carries none.
func HopsFromContext(ctx context.Context) int {
	v := ctx.Value(hopsKey{})
	if v == nil {
		return -1
	}
	return v.(int)
}

// IncHops returns a derived context with the hop counter incremented by
// one, starting from zero if ctx carries none yet.
func IncHops(ctx context.Context) context.Context {
	n := HopsFromContext(ctx)
	if n < 0 {
		n = 0
	}
	return context.WithValue(ctx, hopsKey{}, n+1)
}

// CheckContext maps a cancelled/expired context into the corresponding
// gRPC status error, or returns nil if ctx is still live.
func CheckContext(ctx context.Context) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.Canceled:
		return status.Error(codes.Canceled, "ctxutil: context canceled")
	case context.DeadlineExceeded:
		return status.Error(codes.DeadlineExceeded, "ctxutil: context deadline exceeded")
	default:
		return ctx.Err()
	}
}
