package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	BadgeSentry BadgeSentryConfig `yaml:"badgesentry"`
}

// BadgeSentryConfig is the project configuration.
type BadgeSentryConfig struct {
	Input       InputConfig       `yaml:"input"`
	Permissions PermissionsConfig `yaml:"permissions"`
	Watchlist   WatchlistConfig   `yaml:"watchlist"`
	Output      OutputConfig      `yaml:"output"`
	Watch       WatchConfig       `yaml:"watch"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// InputConfig locates the badge event log.
type InputConfig struct {
	Events string `yaml:"events"`
}

// PermissionsConfig controls the permission table source.
type PermissionsConfig struct {
	Mode  string      `yaml:"mode"` // file|redis
	File  string      `yaml:"file"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig controls the Redis-backed permission lookup.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// WatchlistConfig controls Sigma watchlist rules.
type WatchlistConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// OutputConfig controls the report sink.
type OutputConfig struct {
	Mode       string                 `yaml:"mode"` // file|http|clickhouse
	File       FileOutputConfig       `yaml:"file"`
	HTTP       HTTPOutputConfig       `yaml:"http"`
	ClickHouse ClickHouseOutputConfig `yaml:"clickhouse"`
}

// FileOutputConfig config for local JSON report output.
type FileOutputConfig struct {
	Dir string `yaml:"dir"`
}

// HTTPOutputConfig config for remote report output.
type HTTPOutputConfig struct {
	URL     string            `yaml:"url"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers"`
}

// ClickHouseOutputConfig config for ClickHouse HTTP JSONEachRow writes.
type ClickHouseOutputConfig struct {
	URL          string            `yaml:"url"`
	Database     string            `yaml:"database"`
	TravelTable  string            `yaml:"travel_table"`
	CuriousTable string            `yaml:"curious_table"`
	RoomsTable   string            `yaml:"rooms_table"`
	WatchTable   string            `yaml:"watch_table"`
	Username     string            `yaml:"username"`
	Password     string            `yaml:"password"`
	Timeout      time.Duration     `yaml:"timeout"`
	Headers      map[string]string `yaml:"headers"`
}

// WatchConfig controls periodic batch re-execution.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
