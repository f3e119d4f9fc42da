package main

import (
	"ChordDHT/internal/bootstrap"
	"ChordDHT/internal/config"
	"ChordDHT/internal/domain"
	"ChordDHT/internal/fingertable"
	"ChordDHT/internal/logger"
	zapfactory "ChordDHT/internal/logger/zap"
	"ChordDHT/internal/node"
	"ChordDHT/internal/remote"
	"ChordDHT/internal/server"
	"ChordDHT/internal/storage"
	"ChordDHT/internal/telemetry"
	"ChordDHT/internal/telemetry/lookuptrace"
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
)

var defaultConfigPath = "config/node/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %q: %v", *configPath, err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Initialize logger
	var lgr logger.Logger
	if cfg.Logger.Active {
		zapLog, err := zapfactory.New(cfg.Logger)
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}
		defer func() { _ = zapLog.Sync() }()
		lgr = zapfactory.NewZapAdapter(zapLog)
	} else {
		lgr = logger.NopLogger{}
	}
	cfg.LogConfig(lgr)

	// Listener (determines the address this node advertises)
	lis, advertised, err := server.Listen(cfg.DHT.Mode, cfg.Node.Bind, cfg.Node.Host, cfg.Node.Port)
	if err != nil {
		lgr.Error("Fatal: failed to initialize listener", logger.F("err", err))
		os.Exit(1)
	}
	defer func() { _ = lis.Close() }()
	addr := lis.Addr().String()
	lgr.Debug("create listener", logger.F("addr", addr))

	// Identifier space
	space, err := domain.NewSpace(cfg.DHT.IDBits, cfg.DHT.FaultTolerance.SuccessorListSize)
	if err != nil {
		lgr.Error("failed to initialize identifier space", logger.F("err", err))
		os.Exit(1)
	}
	lgr.Debug("identifier space initialized", logger.F("bits", space.Bits), logger.F("byteLen", space.ByteLen), logger.F("successorListSize", space.SuccListSize))

	// Local node identity
	var id domain.ID
	if cfg.Node.Id == "" {
		id = space.NewIdFromString(addr)
	} else {
		id, err = space.FromHexString(cfg.Node.Id)
		if err != nil {
			lgr.Error("invalid node ID in configuration", logger.F("err", err))
			os.Exit(1)
		}
	}
	self := domain.Node{ID: id, Addr: advertised}
	lgr.Debug("generated node ID", logger.F("id", id.ToHexString(true)))
	lgr = lgr.Named("node").WithNode(self)
	lgr.Info("new node initializing")

	// Telemetry
	shutdown := telemetry.InitTracer(cfg.Telemetry, "ChordDHT-node", id)
	defer func() { _ = shutdown(context.Background()) }()

	// Finger table
	ft := fingertable.New(&self, space, space.SuccListSize, fingertable.WithLogger(lgr.Named("fingertable")))
	lgr.Debug("initialized finger table")

	// Connection pool
	failureTimeout := cfg.DHT.FaultTolerance.FailureTimeout
	pool := remote.New(failureTimeout, failureTimeout, remote.WithLogger(lgr.Named("pool")))
	lgr.Debug("initialized connection pool")

	// Local storage
	store := storage.NewMemoryStorage(lgr.Named("storage"))
	lgr.Debug("initialized in-memory storage")

	// Node state machine
	var nodeOpts []node.Option
	nodeOpts = append(nodeOpts, node.WithLogger(lgr))
	if cfg.DHT.FaultTolerance.Retries > 0 {
		nodeOpts = append(nodeOpts, node.WithRetries(cfg.DHT.FaultTolerance.Retries))
	}
	n := node.New(self, space, ft, pool, store, cfg.DHT.FaultTolerance.FixFingerInterval, nodeOpts...)
	lgr.Debug("initialized node state machine")

	// gRPC server
	var grpcOpts []grpc.ServerOption
	if cfg.Telemetry.Tracing.Enabled {
		grpcOpts = append(grpcOpts, grpc.ChainUnaryInterceptor(lookuptrace.ServerInterceptor()))
		lgr.Debug("gRPC lookup tracing enabled")
	}
	srv := server.New(lis, n, grpcOpts, server.WithLogger(lgr.Named("server")))
	lgr.Debug("initialized gRPC server")

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()
	lgr.Debug("server started")

	// Resolve bootstrap peers and join the ring (or start a new one)
	var register bootstrap.Bootstrap
	switch cfg.DHT.Bootstrap.Mode {
	case "init":
		register = bootstrap.NewStaticBootstrap(nil)
	case "static":
		register = bootstrap.NewStaticBootstrap(cfg.DHT.Bootstrap.Peers)
	case "dns":
		register = bootstrap.NewDNSBootstrap(cfg.DHT.Bootstrap, lgr.Named("bootstrap"))
	case "route53":
		register, err = bootstrap.NewRoute53Bootstrap(cfg.DHT.Bootstrap.Route53)
		if err != nil {
			lgr.Error("failed to initialize Route53 bootstrap", logger.F("err", err))
			srv.Stop()
			os.Exit(1)
		}
	default:
		lgr.Error("unsupported bootstrap mode", logger.F("mode", cfg.DHT.Bootstrap.Mode))
		srv.Stop()
		os.Exit(1)
	}

	discoverCtx, discoverCancel := context.WithTimeout(context.Background(), 10*time.Second)
	peers, err := register.Discover(discoverCtx)
	discoverCancel()
	if err != nil {
		lgr.Error("failed to resolve bootstrap peers", logger.F("err", err))
		srv.Stop()
		os.Exit(1)
	}
	lgr.Info("resolved bootstrap peers", logger.F("peers", peers))

	joinCtx, joinCancel := context.WithTimeout(context.Background(), 10*time.Second)
	var bootstrapNode *domain.Node
	if len(peers) != 0 {
		bootstrapNode = &domain.Node{Addr: peers[0]}
	}
	if err := n.Join(joinCtx, bootstrapNode); err != nil {
		joinCancel()
		lgr.Error("failed to join ring", logger.F("err", err))
		srv.Stop()
		os.Exit(1)
	}
	joinCancel()
	if bootstrapNode != nil {
		lgr.Info("joined existing ring")
	} else {
		lgr.Info("started new ring")
	}

	// Register this node's address (no-op unless the bootstrap backend
	// maintains a directory, e.g. Route53).
	regCtx, regCancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = register.Register(regCtx, &self)
	regCancel()
	if err != nil {
		lgr.Warn("failed to register node", logger.F("err", err))
	} else {
		defer func() {
			deregCtx, deregCancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := register.Deregister(deregCtx, &self); err != nil {
				lgr.Warn("failed to deregister node", logger.F("err", err))
			}
			deregCancel()
		}()
	}

	// Background maintainer: stabilization, finger repair, backup forwarding
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	n.StartMaintainer(ctx)
	lgr.Debug("maintainer started")

	select {
	case <-ctx.Done():
		lgr.Info("shutdown signal received, stopping gracefully")
		stop()
		n.StopMaintainer()
		n.Leave()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
			lgr.Info("server stopped gracefully")
		case <-shutdownCtx.Done():
			lgr.Warn("graceful stop timed out, forcing shutdown")
			srv.Stop()
		}

	case err := <-serveErr:
		lgr.Error("gRPC server terminated unexpectedly", logger.F("err", err))
		stop()
		n.StopMaintainer()
		n.Leave()
		os.Exit(1)
	}
}
