package relay

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/relay/internal/observability/logger"
	"github.com/dropDatabas3/relay/internal/session"
	"github.com/dropDatabas3/relay/internal/util"
)

// redirectService implements RedirectService.
type redirectService struct {
	registry Registry
	sessions session.Store
}

// NewRedirectService creates a new RedirectService.
func NewRedirectService(d Deps) RedirectService {
	return &redirectService{
		registry: d.Registry,
		sessions: d.Sessions,
	}
}

// Redirect mints a session and builds the provider authorization URL.
//
// The session key doubles as the CSRF `state` parameter and as the
// correlation handle for the PKCE verifier. One value serving both roles is
// deliberate: a caller that cannot observe the key cannot complete the
// exchange, and a provider that echoes a different `state` makes the later
// exchange fail closed.
func (s *redirectService) Redirect(ctx context.Context, platform string) (*RedirectResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("relay.redirect"))

	p, err := s.registry.Resolve(platform)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, p.Platform())
	if err != nil {
		log.Error("session create failed", logger.Platform(platform), logger.Err(err))
		return nil, fmt.Errorf("relay: session create: %w", err)
	}

	log.Info("authorization redirect issued",
		logger.Platform(p.Platform()),
		logger.String("session_key", util.MaskKey(sess.Key)),
	)

	return &RedirectResult{
		URL:        p.AuthorizationURL(sess.Key, sess.Challenge),
		SessionKey: sess.Key,
	}, nil
}
