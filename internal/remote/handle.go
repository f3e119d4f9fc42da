package remote

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/rpc"
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNotFound mirrors a peer's codes.NotFound reply (missing key).
	ErrNotFound = errors.New("remote: resource not found")
	// ErrUnavailable mirrors a peer's codes.Unavailable reply (dead/unreachable).
	ErrUnavailable = errors.New("remote: peer unavailable")
	// ErrTimeout mirrors a peer's codes.DeadlineExceeded reply.
	ErrTimeout = errors.New("remote: deadline exceeded")
)

// normalizeError turns a gRPC status error into one of the sentinels
// above, or returns it unchanged if it carries no recognized status code.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	s, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch s.Code() {
	case codes.NotFound:
		return ErrNotFound
	case codes.Unavailable:
		return ErrUnavailable
	case codes.DeadlineExceeded:
		return ErrTimeout
	default:
		return err
	}
}

// Handle is a RemoteNodeHandle (§4.3): the callable peer protocol bound
// to one address, implemented over a pooled gRPC connection.
type Handle struct {
	node   domain.Node
	client rpc.ChordClient
}

// NewHandle wraps a ChordClient (from Pool.GetFromPool or
// Pool.DialEphemeral) as the peer protocol for node.
func NewHandle(node domain.Node, client rpc.ChordClient) *Handle {
	return &Handle{node: node, client: client}
}

// Node returns the (id, addr) this handle was built for.
func (h *Handle) Node() domain.Node { return h.node }

func toMsg(n domain.Node) rpc.NodeMsg {
	return rpc.NodeMsg{ID: []byte(n.ID), Addr: n.Addr}
}

func fromMsg(m rpc.NodeMsg) domain.Node {
	return domain.Node{ID: domain.ID(m.ID), Addr: m.Addr}
}

// GetNodeKey asks the peer for its own identifier.
func (h *Handle) GetNodeKey(ctx context.Context) (domain.ID, error) {
	reply, err := h.client.GetNodeKey(ctx, &rpc.Empty{})
	if err != nil {
		return nil, normalizeError(err)
	}
	return domain.ID(reply.ID), nil
}

// GetHashLength asks the peer for its configured identifier bit width.
func (h *Handle) GetHashLength(ctx context.Context) (int, error) {
	reply, err := h.client.GetHashLength(ctx, &rpc.Empty{})
	if err != nil {
		return 0, normalizeError(err)
	}
	return int(reply.M), nil
}

// FindSuccessor asks the peer to resolve the successor of target.
func (h *Handle) FindSuccessor(ctx context.Context, target domain.ID) (*domain.Node, error) {
	reply, err := h.client.FindSuccessor(ctx, &rpc.FindSuccessorRequest{ID: []byte(target)})
	if err != nil {
		return nil, normalizeError(err)
	}
	if !reply.Found {
		return nil, nil
	}
	n := fromMsg(reply.Node)
	return &n, nil
}

// GetPredecessor asks the peer for its current predecessor, which may be
// unknown (Found=false, returned as a nil *domain.Node).
func (h *Handle) GetPredecessor(ctx context.Context) (*domain.Node, error) {
	reply, err := h.client.GetPredecessor(ctx, &rpc.Empty{})
	if err != nil {
		return nil, normalizeError(err)
	}
	if !reply.Found {
		return nil, nil
	}
	n := fromMsg(reply.Node)
	return &n, nil
}

// CheckPredecessor notifies the peer that candidate may be its
// predecessor (the stabilization protocol's Notify call).
func (h *Handle) CheckPredecessor(ctx context.Context, candidate domain.Node) error {
	_, err := h.client.CheckPredecessor(ctx, &rpc.NodeMsg{ID: []byte(candidate.ID), Addr: candidate.Addr})
	return normalizeError(err)
}

// GetSuccessorList asks the peer for its current successor list, used to
// refresh this node's own list one position behind the peer's.
func (h *Handle) GetSuccessorList(ctx context.Context) ([]domain.Node, error) {
	reply, err := h.client.GetSuccessorList(ctx, &rpc.Empty{})
	if err != nil {
		return nil, normalizeError(err)
	}
	out := make([]domain.Node, len(reply.Nodes))
	for i, m := range reply.Nodes {
		out[i] = fromMsg(m)
	}
	return out, nil
}

// Get retrieves the value stored at id on the peer. A missing key
// surfaces domain.ErrResourceNotFound, the same sentinel a local lookup
// would return, so callers (the retry harness in particular) cannot
// tell a remote miss from a local one.
func (h *Handle) Get(ctx context.Context, id domain.ID) (string, error) {
	reply, err := h.client.Get(ctx, &rpc.IDRequest{ID: []byte(id)})
	if err != nil {
		return "", normalizeError(err)
	}
	if !reply.Found {
		return "", domain.ErrResourceNotFound
	}
	return reply.Value, nil
}

// Put stores a key/value pair on the peer as primary data.
func (h *Handle) Put(ctx context.Context, res domain.Resource) error {
	_, err := h.client.Put(ctx, &rpc.PutRequest{ID: []byte(res.Key), Value: res.Value})
	return normalizeError(err)
}

// Delete removes id from the peer's primary store.
func (h *Handle) Delete(ctx context.Context, id domain.ID) error {
	_, err := h.client.Delete(ctx, &rpc.IDRequest{ID: []byte(id)})
	return normalizeError(err)
}

// PutBackup stores a key/value pair on the peer as a backup copy (§4.5).
func (h *Handle) PutBackup(ctx context.Context, res domain.Resource) error {
	_, err := h.client.PutBackup(ctx, &rpc.PutRequest{ID: []byte(res.Key), Value: res.Value})
	return normalizeError(err)
}

// RemoveBackup removes id from the peer's backup store.
func (h *Handle) RemoveBackup(ctx context.Context, id domain.ID) error {
	_, err := h.client.RemoveBackup(ctx, &rpc.IDRequest{ID: []byte(id)})
	return normalizeError(err)
}
