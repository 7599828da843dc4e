// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	API           APIConfig          `mapstructure:"api"`
	Realtime      RealtimeConfig     `mapstructure:"realtime"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Engine        EngineConfig       `mapstructure:"engine"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig holds the persistence boundary settings (HTTP+JSON over TLS).
type APIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	AuthToken string `mapstructure:"auth_token"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
}

// RealtimeConfig holds the duplex sync channel settings.
type RealtimeConfig struct {
	URL            string `mapstructure:"url"`
	AuthToken      string `mapstructure:"auth_token"`
	ReconnectDelay int    `mapstructure:"reconnect_delay"` // milliseconds, fixed (no backoff growth)
	WriteTimeout   int    `mapstructure:"write_timeout"`   // milliseconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EngineConfig holds tunables for discovery and location handling.
// Scoring weights are fixed in code and deliberately absent here.
type EngineConfig struct {
	DiscoveryLimit     int `mapstructure:"discovery_limit"`
	LocationTimeout    int `mapstructure:"location_timeout"`     // milliseconds
	LocationStaleAfter int `mapstructure:"location_stale_after"` // milliseconds
}

// NotificationConfig holds settings for the push notification subscriber.
type NotificationConfig struct {
	Push struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"push"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds the metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// GetMetricsAddr returns the listen address for the metrics endpoint.
func (m MetricsConfig) GetMetricsAddr() string {
	return fmt.Sprintf(":%d", m.Port)
}
