package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ChordServer is the peer/client RPC surface a Node implements (§4.3 of
// the specification). join/leave are local-only and have no RPC here by
// design; getNodeKey doubles as the liveness probe, so there is no
// separate Ping method.
type ChordServer interface {
	GetNodeKey(ctx context.Context, in *Empty) (*NodeKeyReply, error)
	GetHashLength(ctx context.Context, in *Empty) (*HashLengthReply, error)
	FindSuccessor(ctx context.Context, in *FindSuccessorRequest) (*NodeReply, error)
	GetPredecessor(ctx context.Context, in *Empty) (*NodeReply, error)
	CheckPredecessor(ctx context.Context, in *NodeMsg) (*Empty, error)
	GetSuccessorList(ctx context.Context, in *Empty) (*NodeListReply, error)
	Get(ctx context.Context, in *IDRequest) (*ValueReply, error)
	Put(ctx context.Context, in *PutRequest) (*Empty, error)
	Delete(ctx context.Context, in *IDRequest) (*Empty, error)
	PutBackup(ctx context.Context, in *PutRequest) (*Empty, error)
	RemoveBackup(ctx context.Context, in *IDRequest) (*Empty, error)
}

// UnimplementedChordServer can be embedded by a ChordServer
// implementation to get forward-compatible errors for methods it does
// not override.
type UnimplementedChordServer struct{}

func (UnimplementedChordServer) GetNodeKey(context.Context, *Empty) (*NodeKeyReply, error) {
	return nil, status.Error(codes.Unimplemented, "method GetNodeKey not implemented")
}
func (UnimplementedChordServer) GetHashLength(context.Context, *Empty) (*HashLengthReply, error) {
	return nil, status.Error(codes.Unimplemented, "method GetHashLength not implemented")
}
func (UnimplementedChordServer) FindSuccessor(context.Context, *FindSuccessorRequest) (*NodeReply, error) {
	return nil, status.Error(codes.Unimplemented, "method FindSuccessor not implemented")
}
func (UnimplementedChordServer) GetPredecessor(context.Context, *Empty) (*NodeReply, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPredecessor not implemented")
}
func (UnimplementedChordServer) CheckPredecessor(context.Context, *NodeMsg) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckPredecessor not implemented")
}
func (UnimplementedChordServer) GetSuccessorList(context.Context, *Empty) (*NodeListReply, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSuccessorList not implemented")
}
func (UnimplementedChordServer) Get(context.Context, *IDRequest) (*ValueReply, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}
func (UnimplementedChordServer) Put(context.Context, *PutRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Put not implemented")
}
func (UnimplementedChordServer) Delete(context.Context, *IDRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Delete not implemented")
}
func (UnimplementedChordServer) PutBackup(context.Context, *PutRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method PutBackup not implemented")
}
func (UnimplementedChordServer) RemoveBackup(context.Context, *IDRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveBackup not implemented")
}

// ChordClient is the client-side stub interface, in the shape
// protoc-gen-go-grpc would have produced.
type ChordClient interface {
	GetNodeKey(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*NodeKeyReply, error)
	GetHashLength(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*HashLengthReply, error)
	FindSuccessor(ctx context.Context, in *FindSuccessorRequest, opts ...grpc.CallOption) (*NodeReply, error)
	GetPredecessor(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*NodeReply, error)
	CheckPredecessor(ctx context.Context, in *NodeMsg, opts ...grpc.CallOption) (*Empty, error)
	GetSuccessorList(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*NodeListReply, error)
	Get(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*ValueReply, error)
	Put(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*Empty, error)
	Delete(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error)
	PutBackup(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*Empty, error)
	RemoveBackup(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error)
}

type chordClient struct {
	cc grpc.ClientConnInterface
}

// NewChordClient builds a ChordClient over an existing connection.
func NewChordClient(cc grpc.ClientConnInterface) ChordClient {
	return &chordClient{cc}
}

func (c *chordClient) GetNodeKey(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*NodeKeyReply, error) {
	out := new(NodeKeyReply)
	if err := c.cc.Invoke(ctx, "/chord.Chord/GetNodeKey", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chordClient) GetHashLength(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*HashLengthReply, error) {
	out := new(HashLengthReply)
	if err := c.cc.Invoke(ctx, "/chord.Chord/GetHashLength", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chordClient) FindSuccessor(ctx context.Context, in *FindSuccessorRequest, opts ...grpc.CallOption) (*NodeReply, error) {
	out := new(NodeReply)
	if err := c.cc.Invoke(ctx, "/chord.Chord/FindSuccessor", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chordClient) GetPredecessor(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*NodeReply, error) {
	out := new(NodeReply)
	if err := c.cc.Invoke(ctx, "/chord.Chord/GetPredecessor", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chordClient) CheckPredecessor(ctx context.Context, in *NodeMsg, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/chord.Chord/CheckPredecessor", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chordClient) GetSuccessorList(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*NodeListReply, error) {
	out := new(NodeListReply)
	if err := c.cc.Invoke(ctx, "/chord.Chord/GetSuccessorList", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chordClient) Get(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*ValueReply, error) {
	out := new(ValueReply)
	if err := c.cc.Invoke(ctx, "/chord.Chord/Get", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chordClient) Put(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/chord.Chord/Put", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chordClient) Delete(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/chord.Chord/Delete", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chordClient) PutBackup(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/chord.Chord/PutBackup", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chordClient) RemoveBackup(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/chord.Chord/RemoveBackup", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterChordServer registers srv's implementation on s.
func RegisterChordServer(s grpc.ServiceRegistrar, srv ChordServer) {
	s.RegisterService(&Chord_ServiceDesc, srv)
}

func _Chord_GetNodeKey_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChordServer).GetNodeKey(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chord.Chord/GetNodeKey"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChordServer).GetNodeKey(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Chord_GetHashLength_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChordServer).GetHashLength(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chord.Chord/GetHashLength"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChordServer).GetHashLength(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Chord_FindSuccessor_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FindSuccessorRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChordServer).FindSuccessor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chord.Chord/FindSuccessor"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChordServer).FindSuccessor(ctx, req.(*FindSuccessorRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Chord_GetPredecessor_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChordServer).GetPredecessor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chord.Chord/GetPredecessor"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChordServer).GetPredecessor(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Chord_CheckPredecessor_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(NodeMsg)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChordServer).CheckPredecessor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chord.Chord/CheckPredecessor"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChordServer).CheckPredecessor(ctx, req.(*NodeMsg))
	}
	return interceptor(ctx, in, info, handler)
}

func _Chord_GetSuccessorList_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChordServer).GetSuccessorList(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chord.Chord/GetSuccessorList"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChordServer).GetSuccessorList(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Chord_Get_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(IDRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChordServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chord.Chord/Get"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChordServer).Get(ctx, req.(*IDRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Chord_Put_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PutRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChordServer).Put(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chord.Chord/Put"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChordServer).Put(ctx, req.(*PutRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Chord_Delete_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(IDRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChordServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chord.Chord/Delete"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChordServer).Delete(ctx, req.(*IDRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Chord_PutBackup_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PutRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChordServer).PutBackup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chord.Chord/PutBackup"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChordServer).PutBackup(ctx, req.(*PutRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Chord_RemoveBackup_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(IDRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChordServer).RemoveBackup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chord.Chord/RemoveBackup"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChordServer).RemoveBackup(ctx, req.(*IDRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Chord_ServiceDesc is the grpc.ServiceDesc a protoc-gen-go-grpc run
// would have produced for the Chord peer/client service.
var Chord_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "chord.Chord",
	HandlerType: (*ChordServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetNodeKey", Handler: _Chord_GetNodeKey_Handler},
		{MethodName: "GetHashLength", Handler: _Chord_GetHashLength_Handler},
		{MethodName: "FindSuccessor", Handler: _Chord_FindSuccessor_Handler},
		{MethodName: "GetPredecessor", Handler: _Chord_GetPredecessor_Handler},
		{MethodName: "CheckPredecessor", Handler: _Chord_CheckPredecessor_Handler},
		{MethodName: "GetSuccessorList", Handler: _Chord_GetSuccessorList_Handler},
		{MethodName: "Get", Handler: _Chord_Get_Handler},
		{MethodName: "Put", Handler: _Chord_Put_Handler},
		{MethodName: "Delete", Handler: _Chord_Delete_Handler},
		{MethodName: "PutBackup", Handler: _Chord_PutBackup_Handler},
		{MethodName: "RemoveBackup", Handler: _Chord_RemoveBackup_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chord.rpc",
}
