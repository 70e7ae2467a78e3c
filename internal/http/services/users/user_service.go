package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dropDatabas3/ezdine/internal/audit"
	"github.com/dropDatabas3/ezdine/internal/domain/repository"
	"github.com/dropDatabas3/ezdine/internal/domain/types"
	dto "github.com/dropDatabas3/ezdine/internal/http/dto/users"
	"github.com/dropDatabas3/ezdine/internal/observability/logger"
	"github.com/dropDatabas3/ezdine/internal/security/password"
)

type UserService interface {
	// Register es el alta pública: sólo crea cuentas ROLE_USER.
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error)
	// Provision es el alta privilegiada (CLI), acepta cualquier rol.
	Provision(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error)
	Current(ctx context.Context, identity string) (*dto.UserResponse, error)
	UpdatePassword(ctx context.Context, identity string, in dto.UpdateRequest) (*dto.UserResponse, error)
	Lookup(ctx context.Context, email string) (*dto.UserResponse, error)
}

var (
	ErrMissingFields  = errors.New("missing required fields")
	ErrInvalidEmail   = errors.New("invalid email")
	ErrRoleNotFound   = errors.New("role not found")
	ErrRoleNotAllowed = errors.New("role not allowed for self registration")
	ErrEmailTaken     = errors.New("email already registered")
	ErrUserNotFound   = errors.New("user not found")
)

// WeakPasswordError lista los motivos por los que Policy rechazó el password.
type WeakPasswordError struct{ Reasons []string }

func (e *WeakPasswordError) Error() string {
	return "weak password: " + strings.Join(e.Reasons, ", ")
}

type userService struct {
	deps Deps
}

func NewUserService(deps Deps) UserService {
	return &userService{deps: deps}
}

func toResponse(p *types.Principal) *dto.UserResponse {
	return &dto.UserResponse{Email: p.Identity, Role: p.Roles.Names()}
}

func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", ErrInvalidEmail
	}
	return s, nil
}

// publicRoles son los roles que se pueden pedir en el alta pública.
var publicRoles = types.NewRoleSet(types.RoleUser)

func (s *userService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	return s.create(ctx, in, publicRoles)
}

func (s *userService) Provision(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	return s.create(ctx, in, types.NewRoleSet(types.RoleUser, types.RoleAdmin))
}

func (s *userService) create(ctx context.Context, in dto.RegisterRequest, allowed types.RoleSet) (*dto.UserResponse, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" || strings.TrimSpace(in.Role) == "" {
		return nil, ErrMissingFields
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	role, err := types.ParseRole(in.Role)
	if err != nil {
		return nil, ErrRoleNotFound
	}
	if !allowed.Has(role) {
		return nil, ErrRoleNotAllowed
	}
	if ok, reasons := s.deps.Policy.Validate(in.Password); !ok {
		return nil, &WeakPasswordError{Reasons: reasons}
	}

	hash, err := password.Hash(s.deps.HashParams, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	p, err := s.deps.Repo.Create(ctx, repository.CreatePrincipalInput{
		Identity:       email,
		CredentialHash: hash,
		Roles:          types.NewRoleSet(role),
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	audit.Log(ctx, audit.EventUserRegistered, logger.Identity(p.Identity), logger.Roles(p.Roles.Names()))
	return toResponse(p), nil
}

func (s *userService) Current(ctx context.Context, identity string) (*dto.UserResponse, error) {
	p, err := s.get(ctx, identity)
	if err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// UpdatePassword cambia el password. Un body sin password no cambia nada.
// La sesión actual sigue vigente.
func (s *userService) UpdatePassword(ctx context.Context, identity string, in dto.UpdateRequest) (*dto.UserResponse, error) {
	p, err := s.get(ctx, identity)
	if err != nil {
		return nil, err
	}
	if in.Password == nil {
		return toResponse(p), nil
	}
	if ok, reasons := s.deps.Policy.Validate(*in.Password); !ok {
		return nil, &WeakPasswordError{Reasons: reasons}
	}
	hash, err := password.Hash(s.deps.HashParams, *in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.deps.Repo.UpdateCredential(ctx, p.Identity, hash); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	audit.Log(ctx, audit.EventPasswordChanged, logger.Identity(p.Identity))
	return toResponse(p), nil
}

func (s *userService) Lookup(ctx context.Context, email string) (*dto.UserResponse, error) {
	p, err := s.get(ctx, email)
	if err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

func (s *userService) get(ctx context.Context, identity string) (*types.Principal, error) {
	p, err := s.deps.Repo.GetByIdentity(ctx, identity)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return p, nil
}
