// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Artifacts    ArtifactConfig     `mapstructure:"artifacts"`
	Tables       TableConfig        `mapstructure:"tables"`
	Here         HereConfig         `mapstructure:"here"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the liveness HTTP server settings. The port is resolved
// from the PORT environment variable; a non-numeric value is a fatal
// configuration error.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ArtifactConfig points at the serialized classifier artifacts.
type ArtifactConfig struct {
	ModelPath      string `mapstructure:"model_path"`
	VectorizerPath string `mapstructure:"vectorizer_path"`
}

// TableConfig points at the flat lookup-table files.
type TableConfig struct {
	RemediesPath string `mapstructure:"remedies_path"`
	OTCPath      string `mapstructure:"otc_path"`
}

// HereConfig holds settings for the HERE geocoding and discover APIs.
type HereConfig struct {
	APIKey          string `mapstructure:"api_key"`
	GeocodeBaseURL  string `mapstructure:"geocode_base_url"`
	DiscoverBaseURL string `mapstructure:"discover_base_url"`
	Timeout         int    `mapstructure:"timeout"` // milliseconds
	ResultLimit     int    `mapstructure:"result_limit"`
}

// CacheConfig holds the optional Redis geocode cache settings.
type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds
}

// ConversationConfig holds the per-prompt defaults substituted on end of input.
type ConversationConfig struct {
	DefaultSymptom  string `mapstructure:"default_symptom"`
	DefaultLocation string `mapstructure:"default_location"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// TTLDuration converts the cache TTL seconds to time.Duration.
func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}
