package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "6h" parse directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ServerConfig holds the HTTP listener addresses.
type ServerConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// MinioConfig holds the optional object-store cache settings. An empty
// endpoint disables the persistent cache tier.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Secure    bool   `yaml:"secure"`
}

// MarineConfig holds the marine-data service settings.
type MarineConfig struct {
	BaseURL         string      `yaml:"base_url"`
	APIToken        string      `yaml:"api_token"`
	CurrentsProduct string      `yaml:"currents_product"`
	WindProduct     string      `yaml:"wind_product"`
	CacheTTL        Duration    `yaml:"cache_ttl"`
	Minio           MinioConfig `yaml:"minio"`
}

// SimulationConfig holds engine defaults.
type SimulationConfig struct {
	Workers       int    `yaml:"workers"`
	CoastlinePath string `yaml:"coastline_path"`
}

// KafkaConfig holds the run-completion event settings. No brokers means
// events are disabled.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Marine     MarineConfig     `yaml:"marine"`
	Simulation SimulationConfig `yaml:"simulation"`
	Kafka      KafkaConfig      `yaml:"kafka"`
}

// Default returns the configuration used when no file or overrides are
// present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr:  ":8080",
			MetricsAddr: ":9090",
		},
		Marine: MarineConfig{
			CurrentsProduct: "global-ocean-currents-6h",
			WindProduct:     "global-ocean-wind-1h",
			CacheTTL:        Duration(time.Hour),
			Minio: MinioConfig{
				Bucket: "drift-datasets",
			},
		},
		Simulation: SimulationConfig{
			CoastlinePath: "configs/coastline.json",
		},
		Kafka: KafkaConfig{
			Topic: "drift.run.completed",
		},
	}
}

// Load reads configuration from an optional YAML file and applies
// environment overrides on top. A missing file is not an error; a malformed
// one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %q: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides file values with environment variables, so deployments
// can keep credentials out of the config file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DRIFT_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("DRIFT_METRICS_ADDR"); v != "" {
		cfg.Server.MetricsAddr = v
	}
	if v := os.Getenv("MARINE_BASE_URL"); v != "" {
		cfg.Marine.BaseURL = v
	}
	if v := os.Getenv("MARINE_API_TOKEN"); v != "" {
		cfg.Marine.APIToken = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.Marine.Minio.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.Marine.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.Marine.Minio.SecretKey = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitAndTrim(v)
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
