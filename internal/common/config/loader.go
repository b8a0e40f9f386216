// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// Enable ENV override like HERE_API_KEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := resolvePort(&cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := resolvePort(&cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the first location that has one. Tests run from
// package directories, so parent paths are tried as well.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars expands ${VAR} placeholders in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills fields that are still empty from well-known
// environment variables.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Here.APIKey == "" {
		if val := os.Getenv("HERE_API_KEY"); val != "" {
			cfg.Here.APIKey = val
		}
	}
	if cfg.Cache.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Cache.Address = val
		}
	}
	if cfg.Cache.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Cache.Password = val
		}
	}
}

// resolvePort applies the PORT environment variable over the configured port.
// A PORT value that does not parse as an integer is a fatal config error.
func resolvePort(cfg *Config) error {
	val := os.Getenv("PORT")
	if val == "" {
		if cfg.Server.Port == 0 {
			cfg.Server.Port = 8080
		}
		return nil
	}

	port, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("PORT environment variable %q is not numeric: %w", val, err)
	}
	cfg.Server.Port = port
	return nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "health-assistant"
	}

	// Artifact defaults mirror the shipped artifact filenames
	if cfg.Artifacts.ModelPath == "" {
		cfg.Artifacts.ModelPath = "data/naive_bayes_model.json.gz"
	}
	if cfg.Artifacts.VectorizerPath == "" {
		cfg.Artifacts.VectorizerPath = "data/tfidf_vectorizer.json"
	}

	if cfg.Tables.RemediesPath == "" {
		cfg.Tables.RemediesPath = "data/REMEDIES.csv"
	}
	if cfg.Tables.OTCPath == "" {
		cfg.Tables.OTCPath = "data/Book1__OTC.csv"
	}

	// HERE API defaults
	if cfg.Here.GeocodeBaseURL == "" {
		cfg.Here.GeocodeBaseURL = "https://geocode.search.hereapi.com"
	}
	if cfg.Here.DiscoverBaseURL == "" {
		cfg.Here.DiscoverBaseURL = "https://discover.search.hereapi.com"
	}
	if cfg.Here.Timeout == 0 {
		cfg.Here.Timeout = 10000
	}
	if cfg.Here.ResultLimit == 0 {
		cfg.Here.ResultLimit = 5
	}

	// Cache defaults
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 86400
	}

	// Conversation defaults substituted when input is exhausted
	if cfg.Conversation.DefaultSymptom == "" {
		cfg.Conversation.DefaultSymptom = "fever"
	}
	if cfg.Conversation.DefaultLocation == "" {
		cfg.Conversation.DefaultLocation = "New York"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", cfg.Server.Port)
	}

	if cfg.Artifacts.ModelPath == "" {
		return fmt.Errorf("artifacts.model_path is required")
	}
	if cfg.Artifacts.VectorizerPath == "" {
		return fmt.Errorf("artifacts.vectorizer_path is required")
	}

	if cfg.Tables.RemediesPath == "" {
		return fmt.Errorf("tables.remedies_path is required")
	}
	if cfg.Tables.OTCPath == "" {
		return fmt.Errorf("tables.otc_path is required")
	}

	if cfg.Cache.Enabled && cfg.Cache.Address == "" {
		return fmt.Errorf("cache.address is required when cache is enabled")
	}

	return nil
}
