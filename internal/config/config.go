package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend" mapstructure:"backend"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Auth    AuthConfig    `yaml:"auth" mapstructure:"auth"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// BackendConfig points at the external scraper backend.
type BackendConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// ScraperURL overrides the base URL for the scrape trigger when the
	// scraper runs as a separate service. Empty means same as BaseURL.
	ScraperURL  string `yaml:"scraper_url" mapstructure:"scraper_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	// ScrapeSettleSecs is how long to wait between triggering a scrape and
	// fetching the refreshed list. The backend gives no completion signal,
	// so this is a timing assumption, not a guarantee.
	ScrapeSettleSecs int     `yaml:"scrape_settle_secs" mapstructure:"scrape_settle_secs"`
	RateLimitRPS     float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// ServerConfig configures the gateway HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// AuthConfig configures session cookie behavior.
type AuthConfig struct {
	CookieSecure bool `yaml:"cookie_secure" mapstructure:"cookie_secure"`
}

// StoreConfig configures the local snapshot database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ExportConfig configures CSV export defaults.
type ExportConfig struct {
	PageSize int `yaml:"page_size" mapstructure:"page_size"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.timeout_secs", 30)
	v.SetDefault("backend.scrape_settle_secs", 3)
	v.SetDefault("backend.rate_limit_rps", 5)
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("store.path", "leads.db")
	v.SetDefault("export.page_size", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
