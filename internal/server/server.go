package server

import (
	"ChordDHT/internal/logger"
	"ChordDHT/internal/node"
	"ChordDHT/internal/rpc"
	"fmt"
	"net"

	"google.golang.org/grpc"
)

// Server wraps a gRPC server hosting the Chord peer/client service.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	lgr        logger.Logger
}

// New binds a gRPC server to lis and registers the Chord service
// against n. grpcOpts are passed through to grpc.NewServer (interceptors,
// credentials); srvOpts configure the Server wrapper itself.
func New(lis net.Listener, n *node.Node, grpcOpts []grpc.ServerOption, srvOpts ...Option) *Server {
	s := &Server{
		grpcServer: grpc.NewServer(grpcOpts...),
		listener:   lis,
		lgr:        logger.NopLogger{},
	}
	for _, opt := range srvOpts {
		opt(s)
	}
	rpc.RegisterChordServer(s.grpcServer, NewChordService(n))
	return s
}

// Start runs the gRPC server and blocks until it stops.
func (s *Server) Start() error {
	if err := s.grpcServer.Serve(s.listener); err != nil {
		return fmt.Errorf("server: grpc serve: %w", err)
	}
	return nil
}

// Stop immediately terminates the server, dropping in-flight RPCs.
func (s *Server) Stop() { s.grpcServer.Stop() }

// GracefulStop waits for in-flight RPCs to complete before returning.
func (s *Server) GracefulStop() { s.grpcServer.GracefulStop() }
