package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata" // restaurant time zone must resolve on minimal images

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config holds everything the gateway reads from the environment.
type Config struct {
	Port               string        `envconfig:"PORT" default:"8080"`
	BackendBaseURL     string        `envconfig:"BACKEND_BASE_URL" required:"true"`
	BackendTimeout     time.Duration `envconfig:"BACKEND_TIMEOUT" default:"15s"`
	JWTSecret          string        `envconfig:"JWT_SECRET" required:"true"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	SessionStore       string        `envconfig:"SESSION_STORE" default:"memory"`
	SessionTTL         time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	SessionCookie      string        `envconfig:"SESSION_COOKIE" default:"rg_session"`
	SessionSecure      bool          `envconfig:"SESSION_COOKIE_SECURE" default:"false"`
	RedisURL           string        `envconfig:"REDIS_URL"`
	RestaurantTimezone string        `envconfig:"RESTAURANT_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat          string        `envconfig:"LOG_FORMAT" default:"console"`

	location *time.Location
}

// Load reads the environment. Callers load any .env file first.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate reports every invalid setting at once.
func (c *Config) validate() error {
	var errs []error
	parsed, err := url.Parse(c.BackendBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("BACKEND_BASE_URL %q must be an absolute url", c.BackendBaseURL))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.BackendTimeout <= 0 {
		errs = append(errs, errors.New("BACKEND_TIMEOUT must be positive"))
	}

	c.SessionStore = strings.ToLower(strings.TrimSpace(c.SessionStore))
	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when SESSION_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE %q must be %q or %q", c.SessionStore, SessionStoreMemory, SessionStoreRedis))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if strings.TrimSpace(c.SessionCookie) == "" {
		errs = append(errs, errors.New("SESSION_COOKIE must not be empty"))
	}

	loc, err := time.LoadLocation(c.RestaurantTimezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("loading RESTAURANT_TIMEZONE: %w", err))
	}
	c.location = loc

	origins := c.CORSAllowedOrigins[:0]
	for _, o := range c.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSAllowedOrigins = origins
	return multierr.Combine(errs...)
}

// Location is the restaurant's time zone. "Start of day" is measured here.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
