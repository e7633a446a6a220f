package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Symbol           string  `yaml:"symbol"`
	QuoteSuffix      string  `yaml:"quote_suffix"`
	BucketSeconds    int     `yaml:"bucket_seconds"`
	ValueThreshold   float64 `yaml:"value_threshold"`
	LargeThreshold   float64 `yaml:"large_threshold"`
	BarUnit          float64 `yaml:"bar_unit"`
	BarGlyph         string  `yaml:"bar_glyph"`
	NoiseEpsilon     float64 `yaml:"noise_epsilon"`
	ReconnectSeconds int     `yaml:"reconnect_seconds"`
	Endpoint         string  `yaml:"endpoint"`
	LogLevel         string  `yaml:"log_level"`
	KafkaBrokers     string  `yaml:"kafka_brokers"`
	KafkaTopic       string  `yaml:"kafka_topic"`
}

func defaults() Config {
	return Config{
		Symbol:           "btcusdt",
		QuoteSuffix:      "usdt",
		BucketSeconds:    1,
		ValueThreshold:   100.0,
		LargeThreshold:   1_000_000.0,
		BarUnit:          10_000.0,
		BarGlyph:         "▬",
		NoiseEpsilon:     1e-4,
		ReconnectSeconds: 1,
		Endpoint:         "wss://stream.binance.com:9443/ws",
		LogLevel:         "info",
	}
}

// Load reads the YAML file over the built-in defaults. A missing file
// is not an error: the defaults describe a fully working setup.
func Load(path string) (Config, error) {
	cfg := defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	// Validation & normalization
	if strings.TrimSpace(cfg.Symbol) == "" {
		return cfg, errors.New("symbol must not be empty")
	}
	if cfg.BucketSeconds < 1 {
		return cfg, errors.New("bucket_seconds must be >=1")
	}
	if cfg.ValueThreshold < 0 {
		return cfg, errors.New("value_threshold must be >=0")
	}
	if cfg.BarUnit <= 0 {
		return cfg, errors.New("bar_unit must be >0")
	}
	if cfg.LargeThreshold < cfg.ValueThreshold {
		return cfg, errors.New("large_threshold must be >= value_threshold")
	}
	if cfg.NoiseEpsilon < 0 {
		return cfg, errors.New("noise_epsilon must be >=0")
	}
	if cfg.ReconnectSeconds < 1 {
		return cfg, errors.New("reconnect_seconds must be >=1")
	}
	if cfg.BarGlyph == "" {
		cfg.BarGlyph = "▬"
	}
	return cfg, nil
}

func (c Config) BucketWidth() time.Duration {
	return time.Duration(c.BucketSeconds) * time.Second
}

func (c Config) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectSeconds) * time.Second
}

// Brokers splits the comma-separated broker list; empty means Kafka
// publishing is disabled.
func (c Config) Brokers() []string {
	s := strings.TrimSpace(c.KafkaBrokers)
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func NewLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(h)
}
