package server

import "ChordDHT/internal/logger"

// Option is a functional option for configuring the Server wrapper.
type Option func(*Server)

// WithLogger injects a logger used for server lifecycle events.
func WithLogger(lgr logger.Logger) Option {
	return func(s *Server) { s.lgr = lgr }
}
