package relay

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/dropDatabas3/relay/internal/observability/logger"
	"github.com/dropDatabas3/relay/internal/session"
	"github.com/dropDatabas3/relay/internal/util"
)

// maxUpstreamBody acota la respuesta del provider (las reales son <1KB).
const maxUpstreamBody = 1 << 20

// exchangeService implements ExchangeService.
type exchangeService struct {
	registry Registry
	sessions session.Store
	http     Doer
}

// NewExchangeService creates a new ExchangeService.
func NewExchangeService(d Deps) ExchangeService {
	return &exchangeService{
		registry: d.Registry,
		sessions: d.Sessions,
		http:     d.HTTP,
	}
}

func (s *exchangeService) Exchange(ctx context.Context, platform string, grant GrantRequest) (*Token, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("relay.exchange"),
		logger.Platform(platform),
		logger.GrantType(string(grant.GrantType)),
	)

	p, err := s.registry.Resolve(platform)
	if err != nil {
		return nil, err
	}

	var verifier string
	switch grant.GrantType {
	case GrantAuthorizationCode:
		// La sesión se consume ANTES de tocar el provider: una key
		// repetida, vencida o forjada nunca genera tráfico upstream.
		st, err := s.sessions.Consume(ctx, grant.SessionKey)
		if err != nil {
			if !session.IsNotFound(err) {
				log.Error("session consume failed", logger.Err(err))
			} else {
				log.Info("rejected unknown session key",
					logger.String("session_key", util.MaskKey(grant.SessionKey)))
			}
			return nil, Errorf(KindInvalidSession, "state is unknown, expired or already used")
		}
		if !strings.EqualFold(st.Platform, p.Platform()) {
			// La sesión ya fue consumida; no se reinserta.
			log.Warn("session platform mismatch", logger.String("session_platform", st.Platform))
			return nil, Errorf(KindInvalidSession, "state is unknown, expired or already used")
		}
		verifier = st.Verifier

	case GrantRefreshToken:
		// Refresh no correlaciona con ninguna sesión.

	default:
		return nil, Errorf(KindUnsupportedGrantType, "grant type %q is not supported", grant.GrantType)
	}

	endpoint, form := p.TokenRequest(grant, verifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, Errorf(KindUpstreamUnreachable, "building upstream request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		// Timeouts, conexión rechazada y DNS caen todos acá.
		log.Warn("upstream unreachable", logger.Err(err))
		return nil, Errorf(KindUpstreamUnreachable, "provider token endpoint unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		log.Warn("upstream body read failed", logger.Err(err))
		return nil, Errorf(KindUpstreamUnreachable, "provider token endpoint unreachable")
	}

	tok, err := p.Normalize(resp.StatusCode, body)
	if err != nil {
		if re, ok := AsError(err); ok {
			log.Info("exchange failed",
				logger.String("kind", string(re.Kind)),
				logger.UpstreamStatus(re.UpstreamStatus),
			)
		}
		return nil, err
	}

	log.Info("exchange completed", logger.UpstreamStatus(resp.StatusCode))
	return tok, nil
}
