package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv aísla el test de las variables del entorno real.
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"APP_ENV", "SERVER_ADDR", "SESSION_DRIVER", "SESSION_TTL",
		"REDIS_ADDR", "POSTGRES_DSN",
	}
	for _, prefix := range []string{"TWITCH", "YOUTUBE", "KICK"} {
		vars = append(vars,
			prefix+"_CLIENT_ID", prefix+"_CLIENT_SECRET",
			prefix+"_REDIRECT_URL", prefix+"_ENABLED",
		)
	}
	for _, v := range vars {
		t.Setenv(v, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if c.App.Env != "dev" {
		t.Fatalf("env default: %q", c.App.Env)
	}
	if c.Server.Addr != ":4433" {
		t.Fatalf("addr default: %q", c.Server.Addr)
	}
	if c.Session.Driver != "memory" {
		t.Fatalf("driver default: %q", c.Session.Driver)
	}
	if c.SessionTTL() != 10*time.Minute {
		t.Fatalf("ttl default: %v", c.SessionTTL())
	}
	if c.UpstreamTimeout() != 10*time.Second {
		t.Fatalf("timeout default: %v", c.UpstreamTimeout())
	}
}

func TestLoad_YAMLAndEnvOverlay(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	yaml := `
app:
  env: prod
server:
  addr: ":9999"
session:
  driver: redis
  ttl: 5m
  redis:
    addr: yaml-redis:6379
    prefix: "relay:"
providers:
  twitch:
    enabled: true
    scopes: ["chat:read"]
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	// El entorno pisa al YAML en lo operacional.
	t.Setenv("REDIS_ADDR", "env-redis:6379")
	t.Setenv("TWITCH_CLIENT_ID", "cid")
	t.Setenv("TWITCH_CLIENT_SECRET", "cs")
	t.Setenv("TWITCH_REDIRECT_URL", "http://cb")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if c.App.Env != "prod" || c.Server.Addr != ":9999" {
		t.Fatalf("yaml not applied: %+v", c)
	}
	if c.Session.Redis.Addr != "env-redis:6379" {
		t.Fatalf("env overlay not applied: %q", c.Session.Redis.Addr)
	}
	if c.SessionTTL() != 5*time.Minute {
		t.Fatalf("ttl mismatch: %v", c.SessionTTL())
	}
	if !c.Providers.Twitch.Enabled || c.Providers.Twitch.ClientID != "cid" {
		t.Fatalf("twitch provider incomplete: %+v", c.Providers.Twitch)
	}
	if len(c.Providers.Twitch.Scopes) != 1 || c.Providers.Twitch.Scopes[0] != "chat:read" {
		t.Fatalf("scopes mismatch: %v", c.Providers.Twitch.Scopes)
	}

	if err := c.Validate(); err != nil {
		t.Fatalf("Validate err: %v", err)
	}
}

func TestLoad_EnabledViaEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("KICK_ENABLED", "true")
	t.Setenv("KICK_CLIENT_ID", "cid")
	t.Setenv("KICK_CLIENT_SECRET", "cs")
	t.Setenv("KICK_REDIRECT_URL", "http://cb")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !c.Providers.Kick.Enabled {
		t.Fatalf("KICK_ENABLED not applied")
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate err: %v", err)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	clearEnv(t)
	// Twitch habilitado sin ninguna credencial: las tres faltantes deben
	// aparecer juntas en el mismo error.
	t.Setenv("TWITCH_ENABLED", "true")
	t.Setenv("SESSION_TTL", "not-a-duration")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	err = c.Validate()
	if err == nil {
		t.Fatalf("want validation error")
	}
	msg := err.Error()
	for _, frag := range []string{
		"TWITCH_CLIENT_ID",
		"TWITCH_CLIENT_SECRET",
		"TWITCH_REDIRECT_URL",
		"not-a-duration",
	} {
		if !strings.Contains(msg, frag) {
			t.Fatalf("error %q is missing %q", msg, frag)
		}
	}
}

func TestValidate_DriverRequirements(t *testing.T) {
	clearEnv(t)
	t.Setenv("TWITCH_ENABLED", "true")
	t.Setenv("TWITCH_CLIENT_ID", "a")
	t.Setenv("TWITCH_CLIENT_SECRET", "b")
	t.Setenv("TWITCH_REDIRECT_URL", "c")

	t.Setenv("SESSION_DRIVER", "redis")
	c, _ := Load("")
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "REDIS_ADDR") {
		t.Fatalf("redis without addr must fail: %v", err)
	}

	t.Setenv("SESSION_DRIVER", "postgres")
	c, _ = Load("")
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "POSTGRES_DSN") {
		t.Fatalf("postgres without dsn must fail: %v", err)
	}

	t.Setenv("SESSION_DRIVER", "cassandra")
	c, _ = Load("")
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "cassandra") {
		t.Fatalf("unknown driver must fail: %v", err)
	}
}

func TestValidate_NoPlatformEnabled(t *testing.T) {
	clearEnv(t)

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "no platform is enabled") {
		t.Fatalf("want no-platform error, got %v", err)
	}
}
