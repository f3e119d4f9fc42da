// Package server hosts the Chord peer/client gRPC service on top of a
// node.Node, translating wire messages to and from domain types and
// delegating to the node's state machine.
package server

import (
	"ChordDHT/internal/ctxutil"
	"ChordDHT/internal/domain"
	"ChordDHT/internal/node"
	"ChordDHT/internal/rpc"
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// chordService implements rpc.ChordServer against a node.Node.
type chordService struct {
	rpc.UnimplementedChordServer
	node *node.Node
}

// NewChordService builds the gRPC-facing service bound to n.
func NewChordService(n *node.Node) rpc.ChordServer {
	return &chordService{node: n}
}

func toMsg(n domain.Node) rpc.NodeMsg {
	return rpc.NodeMsg{ID: []byte(n.ID), Addr: n.Addr}
}

func fromMsg(m rpc.NodeMsg) domain.Node {
	return domain.Node{ID: domain.ID(m.ID), Addr: m.Addr}
}

func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrResourceNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, node.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, node.ErrDeparted):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, domain.ErrNotResponsible):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		var hosed *node.NetworkHosedError
		if errors.As(err, &hosed) {
			return status.Error(codes.Unavailable, hosed.Error())
		}
		return status.Error(codes.Internal, err.Error())
	}
}

func (s *chordService) GetNodeKey(ctx context.Context, _ *rpc.Empty) (*rpc.NodeKeyReply, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	return &rpc.NodeKeyReply{ID: []byte(s.node.Self().ID)}, nil
}

func (s *chordService) GetHashLength(ctx context.Context, _ *rpc.Empty) (*rpc.HashLengthReply, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	return &rpc.HashLengthReply{M: int32(s.node.Space().Bits)}, nil
}

func (s *chordService) FindSuccessor(ctx context.Context, req *rpc.FindSuccessorRequest) (*rpc.NodeReply, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	succ, err := s.node.FindSuccessor(ctx, domain.ID(req.ID))
	if err != nil {
		return nil, translateErr(err)
	}
	return &rpc.NodeReply{Found: true, Node: toMsg(succ)}, nil
}

func (s *chordService) GetPredecessor(ctx context.Context, _ *rpc.Empty) (*rpc.NodeReply, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	pred := s.node.FingerTable().GetPredecessor()
	if pred == nil {
		return &rpc.NodeReply{Found: false}, nil
	}
	return &rpc.NodeReply{Found: true, Node: toMsg(*pred)}, nil
}

func (s *chordService) CheckPredecessor(ctx context.Context, req *rpc.NodeMsg) (*rpc.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	if err := s.node.CheckPredecessor(ctx, fromMsg(*req)); err != nil {
		return nil, translateErr(err)
	}
	return &rpc.Empty{}, nil
}

func (s *chordService) GetSuccessorList(ctx context.Context, _ *rpc.Empty) (*rpc.NodeListReply, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	list := s.node.FingerTable().SuccessorList()
	nodes := make([]rpc.NodeMsg, len(list))
	for i, nd := range list {
		nodes[i] = toMsg(*nd)
	}
	return &rpc.NodeListReply{Nodes: nodes}, nil
}

func (s *chordService) Get(ctx context.Context, req *rpc.IDRequest) (*rpc.ValueReply, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	value, err := s.node.GetLocal(domain.ID(req.ID))
	if err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return &rpc.ValueReply{Found: false}, nil
		}
		return nil, translateErr(err)
	}
	return &rpc.ValueReply{Found: true, Value: value}, nil
}

func (s *chordService) Put(ctx context.Context, req *rpc.PutRequest) (*rpc.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	res := domain.Resource{Key: domain.ID(req.ID), Value: req.Value}
	if err := s.node.PutLocal(ctx, res); err != nil {
		return nil, translateErr(err)
	}
	return &rpc.Empty{}, nil
}

func (s *chordService) Delete(ctx context.Context, req *rpc.IDRequest) (*rpc.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	if err := s.node.DeleteLocal(ctx, domain.ID(req.ID)); err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return &rpc.Empty{}, nil
		}
		return nil, translateErr(err)
	}
	return &rpc.Empty{}, nil
}

func (s *chordService) PutBackup(ctx context.Context, req *rpc.PutRequest) (*rpc.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	res := domain.Resource{Key: domain.ID(req.ID), Value: req.Value}
	if err := s.node.PutBackupLocal(res); err != nil {
		return nil, translateErr(err)
	}
	return &rpc.Empty{}, nil
}

func (s *chordService) RemoveBackup(ctx context.Context, req *rpc.IDRequest) (*rpc.Empty, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	if err := s.node.RemoveBackupLocal(domain.ID(req.ID)); err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return &rpc.Empty{}, nil
		}
		return nil, translateErr(err)
	}
	return &rpc.Empty{}, nil
}
