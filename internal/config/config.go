// Package config reads the web server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"snix.ai/snix-web/internal/contact"
)

// Prefix is prepended to every variable name.
const Prefix = "SNIX_WEB_"

// Config holds all settings of the web server.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENV" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	// DevReload re-parses templates per request and watches the content directory.
	DevReload bool `env:"DEV_RELOAD"`

	TemplatesDir string        `env:"TEMPLATES_DIR" envDefault:"templates"`
	PublicDir    string        `env:"PUBLIC_DIR" envDefault:"public"`
	ContentDir   string        `env:"CONTENT_DIR" envDefault:"content"`
	LocalesDir   string        `env:"LOCALES_DIR" envDefault:"locales"`
	ContentTTL   time.Duration `env:"CONTENT_TTL" envDefault:"5m"`

	SessionKey string `env:"SESSION_KEY"`

	MaxConnections  int           `env:"MAX_CONNECTIONS" envDefault:"512"`
	MaxLiveSessions int           `env:"MAX_LIVE_SESSIONS" envDefault:"256"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:","`

	Contact ContactConfig `envPrefix:"CONTACT_"`
}

// ContactConfig selects the contact submission collaborator.
type ContactConfig struct {
	Submitter      string        `env:"SUBMITTER" envDefault:"simulated"`
	SimulatedDelay time.Duration `env:"SIMULATED_DELAY" envDefault:"1500ms"`
	DisplayFor     time.Duration `env:"DISPLAY_FOR" envDefault:"4s"`
	Endpoint       string        `env:"ENDPOINT"`

	MailgunDomain  string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey  string `env:"MAILGUN_API_KEY"`
	MailgunAPIBase string `env:"MAILGUN_API_BASE"`
	MailFrom       string `env:"MAIL_FROM"`
	MailTo         string `env:"MAIL_TO" envDefault:"hello@snix.ai"`

	PubSubProject string `env:"PUBSUB_PROJECT"`
	PubSubTopic   string `env:"PUBSUB_TOPIC" envDefault:"contact-inquiries"`

	// RatePerMinute bounds contact posts per client address.
	RatePerMinute int `env:"RATE_PER_MINUTE" envDefault:"6"`
	RateBurst     int `env:"RATE_BURST" envDefault:"3"`
}

// Load reads envFile (if present) into the process environment and parses the config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}
	return parse(env.Options{Prefix: Prefix})
}

// FromMap parses the config from an explicit environment, for tests.
func FromMap(environ map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool {
	return strings.EqualFold(c.Environment, "dev") || strings.EqualFold(c.Environment, "development")
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// ContactSettings maps the contact config onto submitter settings.
func (c *Config) ContactSettings() contact.Settings {
	cc := c.Contact
	return contact.Settings{
		Kind:           cc.Submitter,
		SimulatedDelay: cc.SimulatedDelay,
		HTTPEndpoint:   cc.Endpoint,
		Mailgun: contact.MailgunConfig{
			Domain:  cc.MailgunDomain,
			APIKey:  cc.MailgunAPIKey,
			APIBase: cc.MailgunAPIBase,
			From:    cc.MailFrom,
			To:      cc.MailTo,
		},
		PubSubProject: cc.PubSubProject,
		PubSubTopic:   cc.PubSubTopic,
	}
}

func (c *Config) validate() error {
	if !c.IsDev() && len(c.SessionKey) < 32 {
		return errors.New("config: SNIX_WEB_SESSION_KEY must be at least 32 bytes outside dev")
	}
	if c.MaxLiveSessions < 1 {
		return errors.New("config: SNIX_WEB_MAX_LIVE_SESSIONS must be positive")
	}
	if c.Contact.RatePerMinute < 1 || c.Contact.RateBurst < 1 {
		return errors.New("config: contact rate limit must be positive")
	}
	return nil
}
