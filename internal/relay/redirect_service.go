package relay

import "context"

// RedirectService builds provider authorization redirects.
type RedirectService interface {
	// Redirect resolves the platform, mints a session and returns the
	// authorization URL. Fails with KindUnknownPlatform for unconfigured
	// platforms.
	Redirect(ctx context.Context, platform string) (*RedirectResult, error)
}
