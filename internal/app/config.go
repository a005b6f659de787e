package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/francais-backend/internal/engine/oaihttp"
	"github.com/yungbote/francais-backend/internal/observability"
	"github.com/yungbote/francais-backend/internal/platform/envutil"
)

const (
	EngineOAIHTTP = "oai_http"
	EngineMock    = "mock"
)

// Duration decodes from YAML as either a Go duration string ("90s") or a
// whole number of seconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" {
		d.Duration = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d.Duration = time.Duration(n) * time.Second
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration must be like \"90s\" or an integer number of seconds: %w", err)
	}
	d.Duration = dd
	return nil
}

type HTTPConfig struct {
	Host               string   `yaml:"host"`
	Port               int      `yaml:"port"`
	ReadHeaderTimeout  Duration `yaml:"read_header_timeout"`
	IdleTimeout        Duration `yaml:"idle_timeout"`
	ShutdownTimeout    Duration `yaml:"shutdown_timeout"`
	MaxRequestBytes    int64    `yaml:"max_request_bytes"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

type UpstreamConfig struct {
	// Engine is "oai_http" (default) or "mock" for local work without a key.
	Engine  string   `yaml:"engine"`
	URL     string   `yaml:"url"`
	Model   string   `yaml:"model"`
	APIKey  string   `yaml:"api_key"`
	Timeout Duration `yaml:"timeout"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type TracingConfig struct {
	Enabled     bool              `yaml:"enabled"`
	ServiceName string            `yaml:"service_name"`
	Endpoint    string            `yaml:"endpoint"`
	Headers     map[string]string `yaml:"headers"`
	Insecure    bool              `yaml:"insecure"`
	SampleRatio float64           `yaml:"sample_ratio"`
}

type Config struct {
	LogMode  string         `yaml:"log_mode"`
	HTTP     HTTPConfig     `yaml:"http"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

func defaultConfig() *Config {
	return &Config{
		LogMode: "development",
		HTTP: HTTPConfig{
			Port:              5000,
			ReadHeaderTimeout: Duration{5 * time.Second},
			IdleTimeout:       Duration{2 * time.Minute},
			ShutdownTimeout:   Duration{15 * time.Second},
			MaxRequestBytes:   1 << 20,
		},
		Upstream: UpstreamConfig{
			Engine:  EngineOAIHTTP,
			URL:     oaihttp.DefaultURL,
			Model:   oaihttp.DefaultModel,
			Timeout: Duration{oaihttp.DefaultTimeout},
		},
		Metrics: MetricsConfig{Addr: ":9090"},
		Tracing: TracingConfig{ServiceName: "francais-backend", SampleRatio: 0.1},
	}
}

// Load builds the process configuration: defaults, then an optional YAML
// file, then .env, then environment variables. It is read once at startup.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// Real environment variables win over .env entries.
	_ = godotenv.Load()

	applyEnv(cfg)
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)

	cfg.HTTP.Host = envutil.String("HOST", cfg.HTTP.Host)
	cfg.HTTP.Port = envutil.Int("PORT", cfg.HTTP.Port)
	cfg.HTTP.MaxRequestBytes = int64(envutil.Int("MAX_REQUEST_BYTES", int(cfg.HTTP.MaxRequestBytes)))
	cfg.HTTP.CORSAllowedOrigins = envutil.CSV("CORS_ALLOWED_ORIGINS", cfg.HTTP.CORSAllowedOrigins)

	cfg.Upstream.Engine = envutil.String("UPSTREAM_ENGINE", cfg.Upstream.Engine)
	cfg.Upstream.URL = envutil.String("UPSTREAM_URL", cfg.Upstream.URL)
	cfg.Upstream.Model = envutil.String("UPSTREAM_MODEL", cfg.Upstream.Model)
	cfg.Upstream.APIKey = envutil.String("OPENROUTER_API_KEY", cfg.Upstream.APIKey)
	cfg.Upstream.Timeout.Duration = envutil.Seconds("UPSTREAM_TIMEOUT_SECONDS", cfg.Upstream.Timeout.Duration)

	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Addr = envutil.String("METRICS_ADDR", cfg.Metrics.Addr)

	cfg.Tracing.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Tracing.ServiceName)
	cfg.Tracing.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Tracing.Insecure)
	cfg.Tracing.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", cfg.Tracing.SampleRatio)
	if h := observability.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")); h != nil {
		cfg.Tracing.Headers = h
	}
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.LogMode) == "" {
		c.LogMode = "development"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.HTTP.Port)
	}
	if c.HTTP.MaxRequestBytes <= 0 {
		c.HTTP.MaxRequestBytes = 1 << 20
	}

	c.Upstream.Engine = strings.ToLower(strings.TrimSpace(c.Upstream.Engine))
	c.Upstream.APIKey = strings.TrimSpace(c.Upstream.APIKey)
	switch c.Upstream.Engine {
	case "", EngineOAIHTTP, "openai_http":
		c.Upstream.Engine = EngineOAIHTTP
		u, err := url.Parse(strings.TrimSpace(c.Upstream.URL))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("upstream url must be absolute, got %q", c.Upstream.URL)
		}
	case EngineMock:
	default:
		return fmt.Errorf("unknown upstream engine %q", c.Upstream.Engine)
	}
	if c.Upstream.Timeout.Duration <= 0 {
		return errors.New("upstream timeout must be positive")
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Addr) == "" {
		return errors.New("metrics enabled without metrics addr")
	}
	return nil
}
