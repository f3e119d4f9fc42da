package server

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/fingertable"
	"ChordDHT/internal/logger"
	"ChordDHT/internal/node"
	"ChordDHT/internal/remote"
	"ChordDHT/internal/rpc"
	"ChordDHT/internal/storage"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestService(t *testing.T) *chordService {
	t.Helper()
	sp, err := domain.NewSpace(8, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	self := domain.Node{ID: sp.NewIdFromString("svc-test"), Addr: "127.0.0.1:9100"}
	ft := fingertable.New(&self, sp, sp.SuccListSize)
	pool := remote.New(50*time.Millisecond, 50*time.Millisecond)
	store := storage.NewMemoryStorage(logger.NopLogger{})
	n := node.New(self, sp, ft, pool, store, 10*time.Millisecond)
	if err := n.Join(context.Background(), nil); err != nil {
		t.Fatalf("Join(nil): %v", err)
	}
	return &chordService{node: n}
}

func TestChordService_GetNodeKeyAndHashLength(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	keyReply, err := s.GetNodeKey(ctx, &rpc.Empty{})
	if err != nil {
		t.Fatalf("GetNodeKey: %v", err)
	}
	if !domain.ID(keyReply.ID).Equal(s.node.Self().ID) {
		t.Errorf("GetNodeKey = %x, want %x", keyReply.ID, []byte(s.node.Self().ID))
	}

	lenReply, err := s.GetHashLength(ctx, &rpc.Empty{})
	if err != nil {
		t.Fatalf("GetHashLength: %v", err)
	}
	if int(lenReply.M) != s.node.Space().Bits {
		t.Errorf("GetHashLength = %d, want %d", lenReply.M, s.node.Space().Bits)
	}
}

func TestChordService_PutGetDelete(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	id := s.node.Space().NewIdFromString("svc-key")

	if _, err := s.Put(ctx, &rpc.PutRequest{ID: []byte(id), Value: "v1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	reply, err := s.Get(ctx, &rpc.IDRequest{ID: []byte(id)})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reply.Found || reply.Value != "v1" {
		t.Errorf("Get = %+v, want Found=true Value=v1", reply)
	}

	if _, err := s.Delete(ctx, &rpc.IDRequest{ID: []byte(id)}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	reply, err = s.Get(ctx, &rpc.IDRequest{ID: []byte(id)})
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if reply.Found {
		t.Errorf("Get after delete found=true, want false")
	}
}

func TestChordService_GetPredecessor_Unknown(t *testing.T) {
	s := newTestService(t)
	reply, err := s.GetPredecessor(context.Background(), &rpc.Empty{})
	if err != nil {
		t.Fatalf("GetPredecessor: %v", err)
	}
	if reply.Found {
		t.Errorf("GetPredecessor on a fresh solo ring found=true, want false")
	}
}

func TestChordService_CheckPredecessor(t *testing.T) {
	s := newTestService(t)
	sp := s.node.Space()
	candidate := domain.Node{ID: sp.NewIdFromString("svc-candidate"), Addr: "127.0.0.1:9101"}

	if _, err := s.CheckPredecessor(context.Background(), &rpc.NodeMsg{ID: []byte(candidate.ID), Addr: candidate.Addr}); err != nil {
		t.Fatalf("CheckPredecessor: %v", err)
	}

	reply, err := s.GetPredecessor(context.Background(), &rpc.Empty{})
	if err != nil {
		t.Fatalf("GetPredecessor: %v", err)
	}
	if !reply.Found || !domain.ID(reply.Node.ID).Equal(candidate.ID) {
		t.Errorf("GetPredecessor = %+v, want candidate %x", reply, []byte(candidate.ID))
	}
}

func TestChordService_PutBackupAndRemoveBackup(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	id := s.node.Space().NewIdFromString("svc-backup-key")

	if _, err := s.PutBackup(ctx, &rpc.PutRequest{ID: []byte(id), Value: "backup-v"}); err != nil {
		t.Fatalf("PutBackup: %v", err)
	}
	reply, err := s.Get(ctx, &rpc.IDRequest{ID: []byte(id)})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reply.Found || reply.Value != "backup-v" {
		t.Errorf("Get after PutBackup = %+v, want Found=true Value=backup-v", reply)
	}

	if _, err := s.RemoveBackup(ctx, &rpc.IDRequest{ID: []byte(id)}); err != nil {
		t.Fatalf("RemoveBackup: %v", err)
	}
	reply, err = s.Get(ctx, &rpc.IDRequest{ID: []byte(id)})
	if err != nil {
		t.Fatalf("Get after RemoveBackup: %v", err)
	}
	if reply.Found {
		t.Errorf("Get after RemoveBackup found=true, want false")
	}
}

func TestTranslateErr_Nil(t *testing.T) {
	if err := translateErr(nil); err != nil {
		t.Errorf("translateErr(nil) = %v, want nil", err)
	}
}

func TestTranslateErr_ResourceNotFound(t *testing.T) {
	err := translateErr(domain.ErrResourceNotFound)
	s, ok := status.FromError(err)
	if !ok {
		t.Fatalf("translateErr did not return a status error: %v", err)
	}
	if s.Code() != codes.NotFound {
		t.Errorf("code = %v, want NotFound", s.Code())
	}
}

func TestTranslateErr_InvalidArgument(t *testing.T) {
	err := translateErr(fmt.Errorf("wrap: %w", node.ErrInvalidArgument))
	s, ok := status.FromError(err)
	if !ok {
		t.Fatalf("translateErr did not return a status error: %v", err)
	}
	if s.Code() != codes.InvalidArgument {
		t.Errorf("code = %v, want InvalidArgument", s.Code())
	}
}

func TestTranslateErr_NotResponsible(t *testing.T) {
	err := translateErr(domain.ErrNotResponsible)
	s, ok := status.FromError(err)
	if !ok {
		t.Fatalf("translateErr did not return a status error: %v", err)
	}
	if s.Code() != codes.FailedPrecondition {
		t.Errorf("code = %v, want FailedPrecondition", s.Code())
	}
}

func TestTranslateErr_Departed(t *testing.T) {
	err := translateErr(node.ErrDeparted)
	s, ok := status.FromError(err)
	if !ok {
		t.Fatalf("translateErr did not return a status error: %v", err)
	}
	if s.Code() != codes.Unavailable {
		t.Errorf("code = %v, want Unavailable", s.Code())
	}
}

func TestTranslateErr_NetworkHosed(t *testing.T) {
	hosed := &node.NetworkHosedError{Attempts: 3, Cause: errors.New("boom")}
	err := translateErr(hosed)
	s, ok := status.FromError(err)
	if !ok {
		t.Fatalf("translateErr did not return a status error: %v", err)
	}
	if s.Code() != codes.Unavailable {
		t.Errorf("code = %v, want Unavailable", s.Code())
	}
}

func TestTranslateErr_Unmapped(t *testing.T) {
	err := translateErr(errors.New("some unrelated failure"))
	s, ok := status.FromError(err)
	if !ok {
		t.Fatalf("translateErr did not return a status error: %v", err)
	}
	if s.Code() != codes.Internal {
		t.Errorf("code = %v, want Internal", s.Code())
	}
}

func TestToMsgFromMsg_RoundTrip(t *testing.T) {
	n := domain.Node{ID: domain.ID{1, 2, 3}, Addr: "127.0.0.1:1234"}
	got := fromMsg(toMsg(n))
	if !got.Equal(n) {
		t.Errorf("round trip = %+v, want %+v", got, n)
	}
}
