package provider

import (
	"sort"
	"strings"

	"github.com/dropDatabas3/relay/internal/provider/kick"
	"github.com/dropDatabas3/relay/internal/provider/twitch"
	"github.com/dropDatabas3/relay/internal/provider/youtube"
	"github.com/dropDatabas3/relay/internal/relay"
)

// Config declares which platforms are enabled. A nil entry means the platform
// is not served by this deployment.
type Config struct {
	Twitch  *Credentials
	YouTube *Credentials
	Kick    *Credentials
}

// Registry implements relay.Registry. The map is built once at startup and
// never mutated afterwards, so lookups need no locking.
type Registry struct {
	providers map[string]relay.Provider
	names     []string
}

// NewRegistry builds the registry from the configured credentials.
func NewRegistry(cfg Config) *Registry {
	m := make(map[string]relay.Provider)

	if c := cfg.Twitch; c != nil {
		m["twitch"] = twitch.New(c.ClientID, c.ClientSecret, c.RedirectURL, c.Scopes)
	}
	if c := cfg.YouTube; c != nil {
		m["youtube"] = youtube.New(c.ClientID, c.ClientSecret, c.RedirectURL, c.Scopes)
	}
	if c := cfg.Kick; c != nil {
		m["kick"] = kick.New(c.ClientID, c.ClientSecret, c.RedirectURL, c.Scopes)
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Registry{providers: m, names: names}
}

// Resolve returns the provider for the platform identifier.
func (r *Registry) Resolve(platform string) (relay.Provider, error) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(platform))]
	if !ok {
		return nil, relay.Errorf(relay.KindUnknownPlatform, "platform is not supported")
	}
	return p, nil
}

// List returns the configured platform names, sorted.
func (r *Registry) List() []string {
	return r.names
}
