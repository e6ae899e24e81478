package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:blogroll.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Site struct {
		URL       string `yaml:"url" json:"url" jsonschema:"required,description=Absolute public URL of the site"`
		PublicDir string `yaml:"public_dir" json:"public_dir" jsonschema:"default=./public,description=Directory the discovery document is published to"`
	} `yaml:"site" json:"site" jsonschema:"description=Site configuration"`

	Refresh struct {
		Interval   time.Duration `yaml:"interval" json:"interval" jsonschema:"default=24h,description=Metadata and mention refresh interval"`
		MaxWorkers int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,description=Maximum concurrent metadata fetches"`
	} `yaml:"refresh" json:"refresh" jsonschema:"description=Background refresh configuration"`

	Metadata MetadataConfig `yaml:"metadata" json:"metadata" jsonschema:"description=Site metadata fetching configuration"`

	Mentions MentionsConfig `yaml:"mentions" json:"mentions" jsonschema:"description=External mentions backend configuration"`

	Email EmailConfig `yaml:"email" json:"email" jsonschema:"description=Notification email configuration"`
}

// MetadataConfig holds site metadata fetching settings
type MetadataConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Fetch timeout per site"`
}

// MentionsConfig holds the external mentions backend settings, incoming
// recommendations are disabled when the endpoint is empty
type MentionsConfig struct {
	Endpoint string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=Base URL of the mentions backend (empty disables incoming recommendations)"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
}

// EmailConfig holds notification email settings, notifications are disabled
// when the host is empty
type EmailConfig struct {
	Host       string   `yaml:"host" json:"host" jsonschema:"description=SMTP host (empty disables notifications)"`
	Port       int      `yaml:"port" json:"port" jsonschema:"default=587,description=SMTP port"`
	Username   string   `yaml:"username" json:"username" jsonschema:"description=SMTP username"`
	Password   string   `yaml:"password" json:"password" jsonschema:"description=SMTP password (can use environment variable)"`
	From       string   `yaml:"from" json:"from" jsonschema:"description=Sender address"`
	Recipients []string `yaml:"recipients" json:"recipients" jsonschema:"description=Addresses notified about incoming recommendations"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:blogroll.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for site
	if cfg.Site.PublicDir == "" {
		cfg.Site.PublicDir = "./public"
	}

	// set defaults for refresh
	if cfg.Refresh.Interval == 0 {
		cfg.Refresh.Interval = 24 * time.Hour
	}
	if cfg.Refresh.MaxWorkers == 0 {
		cfg.Refresh.MaxWorkers = 5
	}

	// set defaults for metadata and mentions
	if cfg.Metadata.Timeout == 0 {
		cfg.Metadata.Timeout = 30 * time.Second
	}
	if cfg.Mentions.Timeout == 0 {
		cfg.Mentions.Timeout = 30 * time.Second
	}

	// set defaults for email
	if cfg.Email.Port == 0 {
		cfg.Email.Port = 587
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {

	// validate site config
	if cfg.Site.URL == "" {
		return fmt.Errorf("site.url is required")
	}
	u, err := url.Parse(cfg.Site.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("site.url must be an absolute http(s) URL")
	}

	// validate email config
	if cfg.Email.Host != "" {
		if cfg.Email.From == "" {
			return fmt.Errorf("email.from is required when email is configured")
		}
		if len(cfg.Email.Recipients) == 0 {
			return fmt.Errorf("email.recipients is required when email is configured")
		}
	}

	// validate timings
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Metadata.Timeout < time.Second {
		return fmt.Errorf("metadata timeout must be at least 1 second")
	}
	if cfg.Refresh.Interval < time.Minute {
		return fmt.Errorf("refresh interval must be at least 1 minute")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetPublicDir returns the directory the discovery document is served from
func (c *Config) GetPublicDir() string {
	return c.Site.PublicDir
}

// SiteURL returns the parsed public URL of the site, validation at load time
// guarantees it parses
func (c *Config) SiteURL() *url.URL {
	u, _ := url.Parse(c.Site.URL)
	return u
}

// GetFullConfig returns the full configuration
func (c *Config) GetFullConfig() *Config {
	return c
}
