// Package config carga la configuración del relay: un YAML opcional para lo
// operacional y variables de entorno para las credenciales por plataforma.
// Las credenciales nunca van en el YAML.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Session struct {
		// memory | redis | postgres
		Driver string `yaml:"driver"`
		TTL    string `yaml:"ttl"`
		Redis  struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Postgres struct {
			DSN string `yaml:"dsn"`
		} `yaml:"postgres"`
	} `yaml:"session"`

	Upstream struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"upstream"`

	Rate struct {
		Enabled bool   `yaml:"enabled"`
		Limit   int    `yaml:"limit"`
		Window  string `yaml:"window"`
	} `yaml:"rate"`

	Providers struct {
		Twitch  Provider `yaml:"twitch"`
		YouTube Provider `yaml:"youtube"`
		Kick    Provider `yaml:"kick"`
	} `yaml:"providers"`
}

// Provider es la parte declarativa de una plataforma. Las credenciales se
// completan desde el entorno en Load.
type Provider struct {
	Enabled bool     `yaml:"enabled"`
	Scopes  []string `yaml:"scopes"`

	ClientID     string `yaml:"-"`
	ClientSecret string `yaml:"-"`
	RedirectURL  string `yaml:"-"`
}

// Load lee el YAML (si path no está vacío), aplica defaults y superpone el
// entorno. No valida credenciales; eso es Validate.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":4433"
	}
	if c.Session.Driver == "" {
		c.Session.Driver = "memory"
	}
	if c.Session.TTL == "" {
		c.Session.TTL = "10m"
	}
	if c.Upstream.Timeout == "" {
		c.Upstream.Timeout = "10s"
	}
	if c.Rate.Limit == 0 {
		c.Rate.Limit = 60
	}
	if c.Rate.Window == "" {
		c.Rate.Window = "1m"
	}

	// overlays de entorno (lo operacional)
	if v := getenv("APP_ENV"); v != "" {
		c.App.Env = v
	}
	if v := getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("SESSION_DRIVER"); v != "" {
		c.Session.Driver = v
	}
	if v := getenv("SESSION_TTL"); v != "" {
		c.Session.TTL = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Session.Redis.Addr = v
	}
	if v := getenv("POSTGRES_DSN"); v != "" {
		c.Session.Postgres.DSN = v
	}

	// credenciales por plataforma (solo entorno)
	loadCredentials(&c.Providers.Twitch, "TWITCH")
	loadCredentials(&c.Providers.YouTube, "YOUTUBE")
	loadCredentials(&c.Providers.Kick, "KICK")

	return &c, nil
}

// loadCredentials llena las credenciales desde <PREFIX>_CLIENT_ID etc.
// <PREFIX>_ENABLED permite activar una plataforma sin YAML.
func loadCredentials(p *Provider, prefix string) {
	p.ClientID = getenv(prefix + "_CLIENT_ID")
	p.ClientSecret = getenv(prefix + "_CLIENT_SECRET")
	p.RedirectURL = getenv(prefix + "_REDIRECT_URL")

	switch strings.ToLower(getenv(prefix + "_ENABLED")) {
	case "1", "true", "yes":
		p.Enabled = true
	case "0", "false", "no":
		p.Enabled = false
	}
}

// Validate chequea todo de una vez y reporta CADA problema encontrado, no
// solo el primero: un deploy con tres variables faltantes se arregla en un
// intento, no en tres.
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.Session.Driver) {
	case "memory":
	case "redis":
		if c.Session.Redis.Addr == "" {
			problems = append(problems, "session.redis.addr (env REDIS_ADDR) is required for the redis driver")
		}
	case "postgres":
		if c.Session.Postgres.DSN == "" {
			problems = append(problems, "session.postgres.dsn (env POSTGRES_DSN) is required for the postgres driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("session.driver %q is not one of memory|redis|postgres", c.Session.Driver))
	}

	if _, err := time.ParseDuration(c.Session.TTL); err != nil {
		problems = append(problems, fmt.Sprintf("session.ttl %q is not a valid duration", c.Session.TTL))
	}
	if _, err := time.ParseDuration(c.Upstream.Timeout); err != nil {
		problems = append(problems, fmt.Sprintf("upstream.timeout %q is not a valid duration", c.Upstream.Timeout))
	}
	if _, err := time.ParseDuration(c.Rate.Window); err != nil {
		problems = append(problems, fmt.Sprintf("rate.window %q is not a valid duration", c.Rate.Window))
	}
	if c.Rate.Limit < 0 {
		problems = append(problems, "rate.limit must not be negative")
	}

	problems = append(problems, missingCredentials(c.Providers.Twitch, "TWITCH")...)
	problems = append(problems, missingCredentials(c.Providers.YouTube, "YOUTUBE")...)
	problems = append(problems, missingCredentials(c.Providers.Kick, "KICK")...)

	if !c.Providers.Twitch.Enabled && !c.Providers.YouTube.Enabled && !c.Providers.Kick.Enabled {
		problems = append(problems, "no platform is enabled; enable at least one provider")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func missingCredentials(p Provider, prefix string) []string {
	if !p.Enabled {
		return nil
	}
	var missing []string
	if p.ClientID == "" {
		missing = append(missing, "env "+prefix+"_CLIENT_ID is required")
	}
	if p.ClientSecret == "" {
		missing = append(missing, "env "+prefix+"_CLIENT_SECRET is required")
	}
	if p.RedirectURL == "" {
		missing = append(missing, "env "+prefix+"_REDIRECT_URL is required")
	}
	return missing
}

// SessionTTL retorna el TTL parseado. Validate ya garantizó el formato.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.Session.TTL)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// UpstreamTimeout retorna el timeout parseado para llamadas al provider.
func (c *Config) UpstreamTimeout() time.Duration {
	d, err := time.ParseDuration(c.Upstream.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// RateWindow retorna la ventana parseada del rate limiter.
func (c *Config) RateWindow() time.Duration {
	d, err := time.ParseDuration(c.Rate.Window)
	if err != nil {
		return time.Minute
	}
	return d
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
