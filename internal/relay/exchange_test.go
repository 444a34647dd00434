package relay_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/relay/internal/provider"
	"github.com/dropDatabas3/relay/internal/relay"
	"github.com/dropDatabas3/relay/internal/session"
)

// stubDoer responde lo mismo a todos los requests y cuenta las llamadas.
type stubDoer struct {
	status int
	body   string
	calls  atomic.Int64
	last   atomic.Pointer[http.Request]
}

func (d *stubDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls.Add(1)
	d.last.Store(req)
	return &http.Response{
		StatusCode: d.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(d.body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

type failingDoer struct{ calls atomic.Int64 }

func (d *failingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return nil, io.ErrUnexpectedEOF
}

func newTestServices(t *testing.T, doer relay.Doer) (relay.Services, session.Store) {
	t.Helper()
	store := session.NewMemory(session.DefaultTTL)
	registry := provider.NewRegistry(provider.Config{
		Twitch: &provider.Credentials{
			ClientID:     "cid",
			ClientSecret: "csecret",
			RedirectURL:  "http://localhost:4433/v1/twitch/finalise",
		},
	})
	return relay.NewServices(relay.Deps{
		Registry: registry,
		Sessions: store,
		HTTP:     doer,
	}), store
}

func TestExchange_AuthorizationCode_Success(t *testing.T) {
	doer := &stubDoer{status: 200, body: `{"access_token": "tok", "refresh_token": "ref", "expires_in": 3600, "scope": ["channel:read:stream_key"], "token_type": "bearer"}`}
	svc, _ := newTestServices(t, doer)
	ctx := context.Background()

	res, err := svc.Redirect.Redirect(ctx, "twitch")
	require.NoError(t, err)

	tok, err := svc.Exchange.Exchange(ctx, "twitch", relay.GrantRequest{
		GrantType:  relay.GrantAuthorizationCode,
		SessionKey: res.SessionKey,
		Code:       "provider-code",
	})
	require.NoError(t, err)
	require.Equal(t, "tok", tok.AccessToken)
	require.Equal(t, "ref", tok.RefreshToken)
	require.EqualValues(t, 1, doer.calls.Load())

	// El form upstream lleva el code y el verifier correlacionado por la key.
	req := doer.last.Load()
	require.NotNil(t, req)
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "https://id.twitch.tv/oauth2/token", req.URL.String())
	b, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	form := string(b)
	require.Contains(t, form, "code=provider-code")
	require.Contains(t, form, "grant_type=authorization_code")
	require.Contains(t, form, "code_verifier=")
}

func TestExchange_AuthorizationCode_SessionSingleUse(t *testing.T) {
	doer := &stubDoer{status: 200, body: `{"access_token": "tok"}`}
	svc, _ := newTestServices(t, doer)
	ctx := context.Background()

	res, err := svc.Redirect.Redirect(ctx, "twitch")
	require.NoError(t, err)

	grant := relay.GrantRequest{
		GrantType:  relay.GrantAuthorizationCode,
		SessionKey: res.SessionKey,
		Code:       "c",
	}
	_, err = svc.Exchange.Exchange(ctx, "twitch", grant)
	require.NoError(t, err)

	// El replay muere en el store, sin tráfico upstream adicional.
	_, err = svc.Exchange.Exchange(ctx, "twitch", grant)
	require.Equal(t, relay.KindInvalidSession, relay.KindOf(err))
	require.EqualValues(t, 1, doer.calls.Load())
}

func TestExchange_AuthorizationCode_UnknownState(t *testing.T) {
	doer := &stubDoer{status: 200, body: `{"access_token": "tok"}`}
	svc, _ := newTestServices(t, doer)

	_, err := svc.Exchange.Exchange(context.Background(), "twitch", relay.GrantRequest{
		GrantType:  relay.GrantAuthorizationCode,
		SessionKey: "forged",
		Code:       "c",
	})
	require.Equal(t, relay.KindInvalidSession, relay.KindOf(err))
	require.EqualValues(t, 0, doer.calls.Load())
}

func TestExchange_AuthorizationCode_PlatformMismatch(t *testing.T) {
	doer := &stubDoer{status: 200, body: `{"access_token": "tok"}`}
	store := session.NewMemory(session.DefaultTTL)
	registry := provider.NewRegistry(provider.Config{
		Twitch: &provider.Credentials{ClientID: "a", ClientSecret: "b", RedirectURL: "r"},
		Kick:   &provider.Credentials{ClientID: "a", ClientSecret: "b", RedirectURL: "r"},
	})
	svc := relay.NewServices(relay.Deps{Registry: registry, Sessions: store, HTTP: doer})
	ctx := context.Background()

	res, err := svc.Redirect.Redirect(ctx, "kick")
	require.NoError(t, err)

	// La sesión es de kick; canjearla contra twitch falla y la consume.
	_, err = svc.Exchange.Exchange(ctx, "twitch", relay.GrantRequest{
		GrantType:  relay.GrantAuthorizationCode,
		SessionKey: res.SessionKey,
		Code:       "c",
	})
	require.Equal(t, relay.KindInvalidSession, relay.KindOf(err))
	require.EqualValues(t, 0, doer.calls.Load())

	_, err = store.Consume(ctx, res.SessionKey)
	require.True(t, session.IsNotFound(err), "mismatched session must stay consumed")
}

func TestExchange_RefreshToken_NoSessionNeeded(t *testing.T) {
	doer := &stubDoer{status: 200, body: `{"access_token": "new", "refresh_token": "newref"}`}
	svc, _ := newTestServices(t, doer)

	tok, err := svc.Exchange.Exchange(context.Background(), "twitch", relay.GrantRequest{
		GrantType:    relay.GrantRefreshToken,
		RefreshToken: "oldref",
	})
	require.NoError(t, err)
	require.Equal(t, "new", tok.AccessToken)

	req := doer.last.Load()
	b, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	require.Contains(t, string(b), "refresh_token=oldref")
	require.NotContains(t, string(b), "code_verifier")
}

func TestExchange_RefreshToken_InvalidGrantRewritten(t *testing.T) {
	doer := &stubDoer{status: 401, body: `{"status": 401, "message": "Invalid refresh token"}`}
	svc, _ := newTestServices(t, doer)

	_, err := svc.Exchange.Exchange(context.Background(), "twitch", relay.GrantRequest{
		GrantType:    relay.GrantRefreshToken,
		RefreshToken: "revoked",
	})
	require.Equal(t, relay.KindInvalidGrant, relay.KindOf(err))

	re, ok := relay.AsError(err)
	require.True(t, ok)
	require.NotContains(t, strings.ToLower(re.Description), "refresh token")
	require.Equal(t, 401, re.UpstreamStatus)
}

func TestExchange_UnknownPlatform(t *testing.T) {
	doer := &stubDoer{status: 200, body: `{"access_token": "tok"}`}
	svc, _ := newTestServices(t, doer)

	_, err := svc.Exchange.Exchange(context.Background(), "mixer", relay.GrantRequest{
		GrantType:    relay.GrantRefreshToken,
		RefreshToken: "x",
	})
	require.Equal(t, relay.KindUnknownPlatform, relay.KindOf(err))
	require.EqualValues(t, 0, doer.calls.Load())
}

func TestExchange_UnsupportedGrantType(t *testing.T) {
	doer := &stubDoer{status: 200, body: `{"access_token": "tok"}`}
	svc, _ := newTestServices(t, doer)

	_, err := svc.Exchange.Exchange(context.Background(), "twitch", relay.GrantRequest{
		GrantType: "client_credentials",
	})
	require.Equal(t, relay.KindUnsupportedGrantType, relay.KindOf(err))
	require.EqualValues(t, 0, doer.calls.Load())
}

func TestExchange_UpstreamUnreachable(t *testing.T) {
	doer := &failingDoer{}
	svc, _ := newTestServices(t, doer)

	_, err := svc.Exchange.Exchange(context.Background(), "twitch", relay.GrantRequest{
		GrantType:    relay.GrantRefreshToken,
		RefreshToken: "x",
	})
	require.Equal(t, relay.KindUpstreamUnreachable, relay.KindOf(err))

	// El detalle del fallo de red no se filtra al cliente.
	re, _ := relay.AsError(err)
	require.NotContains(t, re.Description, io.ErrUnexpectedEOF.Error())
}

func TestRedirect_StateAndChallengeInURL(t *testing.T) {
	doer := &stubDoer{status: 200, body: `{}`}
	svc, store := newTestServices(t, doer)
	ctx := context.Background()

	res, err := svc.Redirect.Redirect(ctx, "twitch")
	require.NoError(t, err)
	require.Contains(t, res.URL, "state="+res.SessionKey)
	require.Contains(t, res.URL, "code_challenge_method=S256")
	require.NotContains(t, res.URL, "csecret", "client secret must not appear in the authorization URL")

	// La URL nunca lleva el verifier, solo su challenge.
	st, err := store.Consume(ctx, res.SessionKey)
	require.NoError(t, err)
	require.NotContains(t, res.URL, st.Verifier)
}
