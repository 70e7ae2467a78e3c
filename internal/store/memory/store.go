// Package memory implementa repository.CredentialRepository en memoria.
// Sirve para desarrollo local y tests; los datos se pierden al reiniciar.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/ezdine/internal/domain/repository"
	"github.com/dropDatabas3/ezdine/internal/domain/types"
)

type Store struct {
	mu      sync.RWMutex
	byEmail map[string]*types.Principal
	now     func() time.Time
}

var _ repository.CredentialRepository = (*Store)(nil)

func New() *Store {
	return &Store{byEmail: make(map[string]*types.Principal), now: time.Now}
}

func key(identity string) string { return strings.ToLower(strings.TrimSpace(identity)) }

func (s *Store) GetByIdentity(_ context.Context, identity string) (*types.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byEmail[key(identity)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *Store) GetByToken(_ context.Context, token string) (*types.Principal, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.byEmail {
		if p.ActiveToken != nil && *p.ActiveToken == token {
			return p.Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) SaveSession(_ context.Context, identity, token string, expiresAt time.Time) error {
	if token == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byEmail[key(identity)]
	if !ok {
		return repository.ErrNotFound
	}
	tok, exp := token, expiresAt
	p.ActiveToken, p.TokenExpiry = &tok, &exp
	return nil
}

func (s *Store) Create(_ context.Context, in repository.CreatePrincipalInput) (*types.Principal, error) {
	k := key(in.Identity)
	if k == "" || in.CredentialHash == "" || in.Roles.Empty() {
		return nil, repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[k]; exists {
		return nil, repository.ErrConflict
	}
	p := &types.Principal{
		ID:             uuid.NewString(),
		Identity:       k,
		CredentialHash: in.CredentialHash,
		Roles:          in.Roles,
		CreatedAt:      s.now().UTC(),
	}
	s.byEmail[k] = p
	return p.Clone(), nil
}

func (s *Store) UpdateCredential(_ context.Context, identity, hash string) error {
	if hash == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byEmail[key(identity)]
	if !ok {
		return repository.ErrNotFound
	}
	p.CredentialHash = hash
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
