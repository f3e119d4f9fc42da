package bootstrap

import (
	"ChordDHT/internal/config"
	"ChordDHT/internal/domain"
	"ChordDHT/internal/logger"
	"context"
)

// DNSBootstrap discovers peers via SRV/A/AAAA lookup (ResolveBootstrap).
// It never registers or deregisters this node: DNS-based discovery
// assumes the zone is managed out of band.
type DNSBootstrap struct {
	cfg config.BootstrapConfig
	lgr logger.Logger
}

func NewDNSBootstrap(cfg config.BootstrapConfig, lgr logger.Logger) *DNSBootstrap {
	return &DNSBootstrap{cfg: cfg, lgr: lgr}
}

func (d *DNSBootstrap) Discover(ctx context.Context) ([]string, error) {
	return ResolveBootstrap(d.cfg, d.lgr)
}

func (d *DNSBootstrap) Register(ctx context.Context, node *domain.Node) error { return nil }

func (d *DNSBootstrap) Deregister(ctx context.Context, node *domain.Node) error { return nil }
