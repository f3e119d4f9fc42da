package config

import (
	"ChordDHT/internal/logger"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level node configuration, loaded from YAML and
// overridable via environment variables.
type Config struct {
	Logger    LoggerConfig    `yaml:"logger"`
	DHT       DHTConfig       `yaml:"dht"`
	Node      NodeConfig      `yaml:"node"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DHTConfig governs the Chord ring itself.
type DHTConfig struct {
	IDBits         int                  `yaml:"idBits"`
	Mode           string               `yaml:"mode"` // "public" or "private"
	FaultTolerance FaultToleranceConfig `yaml:"faultTolerance"`
	Storage        StorageConfig        `yaml:"storage"`
	Bootstrap      BootstrapConfig      `yaml:"bootstrap"`
}

// FaultToleranceConfig governs churn-tolerance tuning: the successor list
// depth, the maintainer cadence, and per-RPC timeouts. FixFingerInterval
// is the single maintainer period that drives stabilization, finger
// repair and backup forwarding; StabilizationInterval is validated and
// logged but not read by the node.
type FaultToleranceConfig struct {
	SuccessorListSize    int           `yaml:"successorListSize"`
	StabilizationInterval time.Duration `yaml:"stabilizationInterval"`
	FixFingerInterval     time.Duration `yaml:"fixFingerInterval"`
	FailureTimeout        time.Duration `yaml:"failureTimeout"`
	Retries               int           `yaml:"retries"` // 0 means "default to m+1"
}

// StorageConfig holds the storage repair interval. It is validated and
// logged but not read by the node: backup forwarding runs on every
// maintainer tick (FaultToleranceConfig.FixFingerInterval).
type StorageConfig struct {
	FixInterval time.Duration `yaml:"fixInterval"`
}

// NodeConfig governs this node's own identity and listen address.
type NodeConfig struct {
	Id   string `yaml:"id"` // optional hex override; derived from addr if empty
	Bind string `yaml:"bind"`
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BootstrapConfig governs how this node discovers (and optionally
// registers itself with) its peers.
type BootstrapConfig struct {
	Mode    string   `yaml:"mode"` // "static", "dns", "route53", or "init"
	DNSName string   `yaml:"dnsName"`
	SRV     bool     `yaml:"srv"`
	Service string   `yaml:"service"`
	Proto   string   `yaml:"proto"`
	Resolver string  `yaml:"resolver"`
	Port    int      `yaml:"port"`
	Peers   []string `yaml:"peers"`
	Route53 Route53Config  `yaml:"route53"`
}

// Route53Config governs the AWS Route53 bootstrap/registration backend.
type Route53Config struct {
	HostedZoneID string `yaml:"hostedZoneId"`
	DomainSuffix string `yaml:"domainSuffix"`
	TTL          int64  `yaml:"ttl"`
}

// LoggerConfig governs the structured logging sink.
type LoggerConfig struct {
	Active   bool           `yaml:"active"`
	Level    string         `yaml:"level"`    // debug|info|warn|error
	Encoding string         `yaml:"encoding"` // console|json
	Mode     string         `yaml:"mode"`     // stdout|file
	File     FileLoggerConfig `yaml:"file"`
}

// FileLoggerConfig governs log rotation when Mode == "file".
type FileLoggerConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

// TelemetryConfig governs OpenTelemetry tracing.
type TelemetryConfig struct {
	Tracing TracingConfig `yaml:"tracing"`
}

// TracingConfig selects and configures the trace exporter.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // stdout|jaeger|otlp
	Endpoint string `yaml:"endpoint"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %q: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnvOverrides overlays environment variables on top of whatever was
// loaded from YAML, so deployments can tweak a config file without
// editing it (e.g. in containerized environments).
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NODE_ID"); v != "" {
		c.Node.Id = v
	}
	c.Node.Bind = envOr("NODE_BIND", c.Node.Bind, "0.0.0.0")
	if v := os.Getenv("NODE_HOST"); v != "" {
		c.Node.Host = v
	}
	if v := os.Getenv("NODE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Node.Port = p
		}
	}
	if v := os.Getenv("BOOTSTRAP_MODE"); v != "" {
		c.DHT.Bootstrap.Mode = v
	}
	if v := os.Getenv("BOOTSTRAP_DNSNAME"); v != "" {
		c.DHT.Bootstrap.DNSName = v
	}
	if v := os.Getenv("BOOTSTRAP_SRV"); v != "" {
		c.DHT.Bootstrap.SRV = v == "true" || v == "1"
	}
	if v := os.Getenv("BOOTSTRAP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.DHT.Bootstrap.Port = p
		}
	}
	if v := os.Getenv("BOOTSTRAP_PEERS"); v != "" {
		c.DHT.Bootstrap.Peers = strings.Split(v, ",")
	}
	if v := os.Getenv("REGISTER_ZONE_ID"); v != "" {
		c.DHT.Bootstrap.Route53.HostedZoneID = v
	}
	if v := os.Getenv("REGISTER_SUFFIX"); v != "" {
		c.DHT.Bootstrap.Route53.DomainSuffix = v
	}
	if v := os.Getenv("REGISTER_TTL"); v != "" {
		if t, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.DHT.Bootstrap.Route53.TTL = t
		}
	}
	if v := os.Getenv("TRACE_ENABLED"); v != "" {
		c.Telemetry.Tracing.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("TRACE_EXPORTER"); v != "" {
		c.Telemetry.Tracing.Exporter = v
	}
	if v := os.Getenv("TRACE_ENDPOINT"); v != "" {
		c.Telemetry.Tracing.Endpoint = v
	}
	if v := os.Getenv("LOGGER_ENABLED"); v != "" {
		c.Logger.Active = v == "true" || v == "1"
	}
	if v := os.Getenv("LOGGER_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("LOGGER_ENCODING"); v != "" {
		c.Logger.Encoding = v
	}
	if v := os.Getenv("LOGGER_MODE"); v != "" {
		c.Logger.Mode = v
	}
	if v := os.Getenv("LOGGER_FILE_PATH"); v != "" {
		c.Logger.File.Path = v
	}
}

func envOr(key, current, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if current != "" {
		return current
	}
	return fallback
}

// ValidateConfig accumulates every structural problem it finds (rather
// than failing on the first) so an operator sees the whole list at once.
func (c *Config) ValidateConfig() error {
	var errs []string

	switch c.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logger.level: unsupported value %q", c.Logger.Level))
	}
	switch c.Logger.Encoding {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("logger.encoding: unsupported value %q", c.Logger.Encoding))
	}
	switch c.Logger.Mode {
	case "stdout":
	case "file":
		if c.Logger.File.Path == "" {
			errs = append(errs, "logger.file.path: required when logger.mode=file")
		}
		if c.Logger.File.MaxSize < 0 || c.Logger.File.MaxBackups < 0 || c.Logger.File.MaxAge < 0 {
			errs = append(errs, "logger.file: maxSize/maxBackups/maxAge must be non-negative")
		}
	default:
		errs = append(errs, fmt.Sprintf("logger.mode: unsupported value %q", c.Logger.Mode))
	}

	if c.DHT.IDBits <= 0 {
		errs = append(errs, "dht.idBits: must be positive")
	}
	switch c.DHT.Mode {
	case "public", "private":
	default:
		errs = append(errs, fmt.Sprintf("dht.mode: unsupported value %q", c.DHT.Mode))
	}
	if c.DHT.FaultTolerance.SuccessorListSize <= 0 {
		errs = append(errs, "dht.faultTolerance.successorListSize: must be positive")
	}
	if c.DHT.FaultTolerance.StabilizationInterval <= 0 {
		errs = append(errs, "dht.faultTolerance.stabilizationInterval: must be positive")
	}
	if c.DHT.FaultTolerance.FixFingerInterval <= 0 {
		errs = append(errs, "dht.faultTolerance.fixFingerInterval: must be positive")
	}
	if c.DHT.FaultTolerance.FailureTimeout <= 0 {
		errs = append(errs, "dht.faultTolerance.failureTimeout: must be positive")
	}
	if c.DHT.Storage.FixInterval <= 0 {
		errs = append(errs, "dht.storage.fixInterval: must be positive")
	}

	switch c.DHT.Bootstrap.Mode {
	case "init":
	case "static":
		if len(c.DHT.Bootstrap.Peers) == 0 {
			errs = append(errs, "dht.bootstrap.peers: required when dht.bootstrap.mode=static")
		}
	case "dns":
		if c.DHT.Bootstrap.DNSName == "" {
			errs = append(errs, "dht.bootstrap.dnsName: required when dht.bootstrap.mode=dns")
		}
	case "route53":
		if c.DHT.Bootstrap.Route53.HostedZoneID == "" {
			errs = append(errs, "dht.bootstrap.route53.hostedZoneId: required when dht.bootstrap.mode=route53")
		}
	default:
		errs = append(errs, fmt.Sprintf("dht.bootstrap.mode: unsupported value %q", c.DHT.Bootstrap.Mode))
	}

	if c.Node.Port < 0 || c.Node.Port > 65535 {
		errs = append(errs, "node.port: must be in [0, 65535]")
	}

	if c.Telemetry.Tracing.Enabled {
		switch c.Telemetry.Tracing.Exporter {
		case "stdout":
		case "jaeger", "otlp":
			if c.Telemetry.Tracing.Endpoint == "" {
				errs = append(errs, fmt.Sprintf("telemetry.tracing.endpoint: required for exporter %q", c.Telemetry.Tracing.Exporter))
			}
		default:
			errs = append(errs, fmt.Sprintf("telemetry.tracing.exporter: unsupported value %q", c.Telemetry.Tracing.Exporter))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %d validation error(s): %s", len(errs), strings.Join(errs, "; "))
}

// LogConfig dumps the effective configuration at DEBUG level.
func (c *Config) LogConfig(lgr logger.Logger) {
	lgr.Debug("effective configuration",
		logger.F("dht.idBits", c.DHT.IDBits),
		logger.F("dht.mode", c.DHT.Mode),
		logger.F("dht.faultTolerance.successorListSize", c.DHT.FaultTolerance.SuccessorListSize),
		logger.F("dht.faultTolerance.stabilizationInterval", c.DHT.FaultTolerance.StabilizationInterval),
		logger.F("dht.faultTolerance.fixFingerInterval", c.DHT.FaultTolerance.FixFingerInterval),
		logger.F("dht.faultTolerance.failureTimeout", c.DHT.FaultTolerance.FailureTimeout),
		logger.F("dht.faultTolerance.retries", c.DHT.FaultTolerance.Retries),
		logger.F("dht.storage.fixInterval", c.DHT.Storage.FixInterval),
		logger.F("dht.bootstrap.mode", c.DHT.Bootstrap.Mode),
		logger.F("node.id", c.Node.Id),
		logger.F("node.bind", c.Node.Bind),
		logger.F("node.host", c.Node.Host),
		logger.F("node.port", c.Node.Port),
		logger.F("logger.level", c.Logger.Level),
		logger.F("logger.mode", c.Logger.Mode),
		logger.F("telemetry.tracing.enabled", c.Telemetry.Tracing.Enabled),
		logger.F("telemetry.tracing.exporter", c.Telemetry.Tracing.Exporter),
	)
}
