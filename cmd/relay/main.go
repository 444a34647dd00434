package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/relay/internal/config"
	healthctrl "github.com/dropDatabas3/relay/internal/http/controllers/health"
	pagesctrl "github.com/dropDatabas3/relay/internal/http/controllers/pages"
	relayctrl "github.com/dropDatabas3/relay/internal/http/controllers/relay"
	"github.com/dropDatabas3/relay/internal/http/router"
	"github.com/dropDatabas3/relay/internal/observability/logger"
	"github.com/dropDatabas3/relay/internal/provider"
	"github.com/dropDatabas3/relay/internal/rate"
	"github.com/dropDatabas3/relay/internal/relay"
	"github.com/dropDatabas3/relay/internal/session"
)

func main() {
	configPath := flag.String("config", "", "ruta al config YAML (opcional)")
	flag.Parse()

	// .env es opcional; en prod las variables vienen del entorno real.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.L().Fatal("config load failed", logger.Err(err))
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: "relay",
	})
	defer func() { _ = logger.Sync() }()

	// Valida TODO de una vez: un deploy mal configurado muere acá, antes de
	// servir un solo request, con la lista completa de problemas.
	if err := cfg.Validate(); err != nil {
		logger.L().Fatal("config validation failed", logger.Err(err))
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		logger.L().Fatal("session store init failed", logger.Err(err))
	}
	defer func() { _ = store.Close() }()

	registry := provider.NewRegistry(providerConfig(cfg))

	services := relay.NewServices(relay.Deps{
		Registry: registry,
		Sessions: store,
		HTTP:     &http.Client{Timeout: cfg.UpstreamTimeout()},
	})

	handler := router.New(router.Deps{
		Relay:   relayctrl.NewControllers(services, registry),
		Pages:   pagesctrl.NewControllers(),
		Health:  healthctrl.NewControllers(store),
		Limiter: newLimiter(cfg),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.L().Info("relay listening",
			logger.String("addr", cfg.Server.Addr),
			logger.Store(cfg.Session.Driver),
			logger.Count(len(registry.List())),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.L().Fatal("relay terminated", logger.Err(err))
	}
	logger.L().Info("relay stopped")
}

// newLimiter arma el rate limiter. Con el driver redis el contador es
// compartido entre réplicas; con memory o postgres el límite es por proceso.
func newLimiter(cfg *config.Config) rate.Limiter {
	if !cfg.Rate.Enabled {
		return nil
	}
	if strings.ToLower(cfg.Session.Driver) == "redis" {
		client := rdb.NewClient(&rdb.Options{
			Addr:     cfg.Session.Redis.Addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       cfg.Session.Redis.DB,
		})
		return rate.NewRedis(client, cfg.Session.Redis.Prefix+"rl:", cfg.Rate.Limit, cfg.RateWindow())
	}
	return rate.NewMemory(cfg.Rate.Limit, cfg.RateWindow())
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	var sc session.Config
	sc.Driver = cfg.Session.Driver
	sc.TTL = cfg.SessionTTL()
	sc.Redis.Addr = cfg.Session.Redis.Addr
	sc.Redis.Password = os.Getenv("REDIS_PASSWORD")
	sc.Redis.DB = cfg.Session.Redis.DB
	sc.Redis.Prefix = cfg.Session.Redis.Prefix
	sc.Postgres.DSN = cfg.Session.Postgres.DSN
	return session.New(sc)
}

func providerConfig(cfg *config.Config) provider.Config {
	var pc provider.Config
	if p := cfg.Providers.Twitch; p.Enabled {
		pc.Twitch = &provider.Credentials{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			Scopes:       p.Scopes,
		}
	}
	if p := cfg.Providers.YouTube; p.Enabled {
		pc.YouTube = &provider.Credentials{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			Scopes:       p.Scopes,
		}
	}
	if p := cfg.Providers.Kick; p.Enabled {
		pc.Kick = &provider.Credentials{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			Scopes:       p.Scopes,
		}
	}
	return pc
}
