package config

import "fmt"

type Config struct {
	Remote        RemoteConfig        `mapstructure:"remote"`
	Session       SessionConfig       `mapstructure:"session"`
	Sync          SyncConfig          `mapstructure:"sync"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Nats          NatsConfig          `mapstructure:"nats"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// RemoteConfig describes the relational store endpoint the sync layer talks to.
type RemoteConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// SessionConfig is the static session used when desksync runs standalone
// (outside an embedding application that provides its own session source).
type SessionConfig struct {
	UserID  string `mapstructure:"user_id"`
	AgentID string `mapstructure:"agent_id"`
	Role    string `mapstructure:"role"`
	Token   string `mapstructure:"token"`
}

type SyncConfig struct {
	Locale string `mapstructure:"locale"`
	// RefreshSeconds is the background refresh interval; 0 disables it.
	RefreshSeconds  int                   `mapstructure:"refresh_seconds"`
	CapabilityCache CapabilityCacheConfig `mapstructure:"capability_cache"`
}

// CapabilityCacheConfig controls the optional redis-backed sharing of probe
// results between sibling processes. In-process memoization is always on.
type CapabilityCacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	KeyPrefix  string `mapstructure:"key_prefix"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

// NatsConfig enables change-event publication when a URL is set.
type NatsConfig struct {
	URL string `mapstructure:"url"`
}

type ObservabilityConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	ServiceName    string  `mapstructure:"service_name"`
	ServiceVersion string  `mapstructure:"service_version"`
	Environment    string  `mapstructure:"environment"`
	OTLPEndpoint   string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure   bool    `mapstructure:"otlp_insecure"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

type LoggingConfig struct {
	Level  string              `mapstructure:"level"`
	Format string              `mapstructure:"format"`
	Output LoggingOutputConfig `mapstructure:"output"`
}

type LoggingOutputConfig struct {
	Stdout bool              `mapstructure:"stdout"`
	File   LoggingFileConfig `mapstructure:"file"`
}

type LoggingFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

func (c *Config) Validate() error {
	if c.Remote.BaseURL == "" {
		return fmt.Errorf("remote.base_url is required")
	}
	if c.Sync.CapabilityCache.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("sync.capability_cache.enabled requires redis.addr")
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "desksync"
	}
	if c.Sync.Locale == "" {
		c.Sync.Locale = "en"
	}
	return nil
}
