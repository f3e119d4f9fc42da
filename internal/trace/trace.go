package trace

import (
	"ChordDHT/internal/domain"
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

type traceKey struct{}

// GenerateTraceID mints a globally-unique, time-sortable trace identifier
// prefixed with the originating node's key, so log lines from different
// nodes for the same logical request can be correlated by eye.
func GenerateTraceID(nodeID string) string {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	id := ulid.MustNew(ulid.Timestamp(t), entropy)
	return fmt.Sprintf("%s-%s", nodeID, id.String())
}

// AttachTraceID mints a new trace ID derived from nodeID and attaches it
// to ctx, returning both the derived context and the raw trace ID string.
func AttachTraceID(ctx context.Context, nodeID domain.ID) (context.Context, string) {
	id := GenerateTraceID(nodeID.String())
	return context.WithValue(ctx, traceKey{}, id), id
}

// GetTraceID returns the trace ID carried on ctx, or "" if none.
func GetTraceID(ctx context.Context) string {
	v := ctx.Value(traceKey{})
	if v == nil {
		return ""
	}
	return v.(string)
}
