package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/ezdine/internal/audit"
	"github.com/dropDatabas3/ezdine/internal/domain/repository"
	dto "github.com/dropDatabas3/ezdine/internal/http/dto/auth"
	"github.com/dropDatabas3/ezdine/internal/metrics"
	"github.com/dropDatabas3/ezdine/internal/observability/logger"
	"github.com/dropDatabas3/ezdine/internal/security/password"
	"github.com/dropDatabas3/ezdine/internal/util"
)

// LoginService verifica credenciales y emite la sesión.
type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error)
}

// Errores de login
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type loginService struct {
	deps Deps
}

func NewLoginService(deps Deps) LoginService {
	return &loginService{deps: deps}
}

// Login no distingue entre cuenta inexistente y password incorrecto.
// Un login exitoso revoca la sesión anterior de la cuenta.
func (s *loginService) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	p, err := s.deps.Repo.GetByIdentity(ctx, in.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("user not found", logger.String("email", util.MaskEmail(in.Email)))
			audit.Log(ctx, audit.EventLoginFailed, logger.String("email", util.MaskEmail(in.Email)))
			s.deps.Metrics.ObserveLogin(metrics.LoginInvalid)
			return nil, ErrInvalidCredentials
		}
		s.deps.Metrics.ObserveLogin(metrics.LoginError)
		return nil, err
	}
	log = log.With(logger.Identity(p.Identity))

	if !password.Verify(in.Password, p.CredentialHash) {
		log.Debug("password mismatch")
		audit.Log(ctx, audit.EventLoginFailed, logger.String("email", util.MaskEmail(in.Email)))
		s.deps.Metrics.ObserveLogin(metrics.LoginInvalid)
		return nil, ErrInvalidCredentials
	}

	if password.NeedsRehash(s.deps.HashParams, p.CredentialHash) {
		s.rehash(ctx, p.Identity, in.Password)
	}

	sess, err := s.deps.Issuer.Issue(ctx, p.Identity, p.Roles)
	if err != nil {
		s.deps.Metrics.ObserveLogin(metrics.LoginError)
		return nil, err
	}

	s.deps.Metrics.ObserveLogin(metrics.LoginSuccess)
	audit.Log(ctx, audit.EventSessionIssued,
		logger.Identity(p.Identity),
		logger.String("expires_at", sess.ExpiresAt.UTC().Format(time.RFC3339)),
	)

	return &dto.TokenResponse{
		Email:     p.Identity,
		Token:     sess.Token,
		TokenType: "Bearer",
		ExpiresAt: sess.ExpiresAt,
		Roles:     p.Roles.Names(),
	}, nil
}

// rehash migra un hash bcrypt o con parámetros viejos a argon2id. Un fallo
// no corta el login.
func (s *loginService) rehash(ctx context.Context, identity, plain string) {
	log := logger.From(ctx).With(logger.Op("Login.rehash"), logger.Identity(identity))
	h, err := password.Hash(s.deps.HashParams, plain)
	if err == nil {
		err = s.deps.Repo.UpdateCredential(ctx, identity, h)
	}
	if err != nil {
		log.Warn("credential rehash failed", logger.Err(err))
		return
	}
	log.Info("credential rehashed")
}
