// Package app arma el servicio a partir de la configuración: clave de firma,
// store, limiter, métricas, services, controllers y router.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/ezdine/internal/authn"
	"github.com/dropDatabas3/ezdine/internal/config"
	"github.com/dropDatabas3/ezdine/internal/domain/repository"
	"github.com/dropDatabas3/ezdine/internal/http/controllers"
	"github.com/dropDatabas3/ezdine/internal/http/router"
	"github.com/dropDatabas3/ezdine/internal/http/server"
	"github.com/dropDatabas3/ezdine/internal/http/services"
	authsvc "github.com/dropDatabas3/ezdine/internal/http/services/auth"
	healthsvc "github.com/dropDatabas3/ezdine/internal/http/services/health"
	userssvc "github.com/dropDatabas3/ezdine/internal/http/services/users"
	jwtx "github.com/dropDatabas3/ezdine/internal/jwt"
	"github.com/dropDatabas3/ezdine/internal/metrics"
	"github.com/dropDatabas3/ezdine/internal/observability/logger"
	"github.com/dropDatabas3/ezdine/internal/rate"
	"github.com/dropDatabas3/ezdine/internal/security/password"
	"github.com/dropDatabas3/ezdine/internal/store/memory"
	"github.com/dropDatabas3/ezdine/internal/store/pg"
)

// Container tiene las piezas ya construidas. Handler es lo que se sirve.
type Container struct {
	Config   *config.Config
	Keys     *jwtx.KeySet
	Repo     repository.CredentialRepository
	Metrics  *metrics.Metrics
	Services services.Services
	Handler  http.Handler

	closers []func()
}

// redisPinger adapta el cliente de go-redis al health check.
type redisPinger struct{ c rdb.UniversalClient }

func (p redisPinger) Ping(ctx context.Context) error { return p.c.Ping(ctx).Err() }

// New construye el Container. Ante un error cierra lo que haya abierto.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}
	if err := c.build(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	cfg := c.Config
	log := logger.L().With(logger.Component("app"))

	seed, err := jwtx.ParseSeed(cfg.JWT.SigningKey)
	if err != nil {
		return fmt.Errorf("signing key: %w", err)
	}
	if c.Keys, err = jwtx.NewKeySet(seed, cfg.JWT.KID); err != nil {
		return fmt.Errorf("signing key: %w", err)
	}
	codec := jwtx.NewCodec(c.Keys)

	if c.Metrics, err = metrics.New(nil); err != nil {
		return err
	}

	if err := c.openStore(ctx); err != nil {
		return err
	}

	checks := map[string]healthsvc.Pinger{"store": c.Repo}
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		if limiter, err = c.openLimiter(checks); err != nil {
			return err
		}
	}

	blacklist, err := password.LoadBlacklist(cfg.Security.PasswordBlacklistPath)
	if err != nil {
		return fmt.Errorf("password blacklist: %w", err)
	}
	pp := cfg.Security.PasswordPolicy
	policy := password.Policy{
		MinLength:     pp.MinLength,
		MaxLength:     pp.MaxLength,
		RequireUpper:  pp.RequireUpper,
		RequireLower:  pp.RequireLower,
		RequireDigit:  pp.RequireDigit,
		RequireSymbol: pp.RequireSymbol,
		Blacklist:     blacklist,
	}

	issuer := authn.NewIssuer(c.Repo, codec, cfg.SessionTTL())
	gate := authn.NewGate(c.Repo, codec)

	c.Services = services.New(services.Deps{
		Auth: authsvc.Deps{
			Repo:       c.Repo,
			Issuer:     issuer,
			Metrics:    c.Metrics,
			HashParams: password.Default,
		},
		Users: userssvc.Deps{
			Repo:       c.Repo,
			Policy:     policy,
			HashParams: password.Default,
		},
		Health: healthsvc.Deps{
			Checks:     checks,
			SigningKID: c.Keys.KID,
		},
	})

	c.Handler = router.New(router.Deps{
		Controllers:    controllers.New(c.Services, c.Keys),
		Gate:           gate,
		Metrics:        c.Metrics,
		LoginLimiter:   limiter,
		TrustedProxies: cfg.TrustedProxies(),
	})

	log.Info("app wired",
		logger.String("storage", cfg.Storage.Driver),
		logger.Bool("rate_limit", cfg.Rate.Enabled),
		logger.String("kid", c.Keys.KID),
		logger.Any("session_ttl", cfg.SessionTTL()),
	)
	return nil
}

func (c *Container) openStore(ctx context.Context) error {
	cfg := c.Config
	switch cfg.Storage.Driver {
	case "memory":
		c.Repo = memory.New()
		return nil
	case "postgres":
		if cfg.Storage.AutoMigrate {
			if err := pg.Migrate(ctx, cfg.Storage.DSN, "up"); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		st, err := pg.New(ctx, cfg.Storage.DSN, pg.PoolConfig{
			MaxConns:        int32(cfg.Storage.Postgres.MaxConns),
			MinConns:        int32(cfg.Storage.Postgres.MinConns),
			ConnMaxLifetime: cfg.ConnMaxLifetime(),
		})
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		c.closers = append(c.closers, st.Close)
		c.Repo = st
		return c.Metrics.Register(metrics.NewPoolCollector(func() *pgxpool.Pool { return st.Pool() }))
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func (c *Container) openLimiter(checks map[string]healthsvc.Pinger) (rate.Limiter, error) {
	rc := c.Config.Rate
	switch rc.Backend {
	case "memory":
		return rate.NewMemoryLimiter(rc.Login.Limit, c.Config.LoginWindow()), nil
	case "redis":
		client := rdb.NewClient(&rdb.Options{
			Addr:     rc.Redis.Addr,
			DB:       rc.Redis.DB,
			Password: rc.Redis.Password,
		})
		c.closers = append(c.closers, func() { _ = client.Close() })
		checks["redis"] = redisPinger{c: client}
		return rate.NewRedisLimiter(client, rc.Redis.Prefix, rc.Login.Limit, c.Config.LoginWindow()), nil
	default:
		return nil, fmt.Errorf("unknown rate backend %q", rc.Backend)
	}
}

// Run sirve Handler hasta que ctx se cancele.
func (c *Container) Run(ctx context.Context) error {
	srv := server.New(server.Config{
		Addr:            c.Config.Server.Addr,
		ReadTimeout:     c.Config.ReadTimeout(),
		WriteTimeout:    c.Config.WriteTimeout(),
		IdleTimeout:     c.Config.IdleTimeout(),
		ShutdownTimeout: c.Config.ShutdownTimeout(),
	}, c.Handler)
	return srv.Run(ctx)
}

// Close libera conexiones en orden inverso de apertura.
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
