package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/ezdine/internal/domain/repository"
	"github.com/dropDatabas3/ezdine/internal/domain/types"
)

var _ repository.CredentialRepository = (*Store)(nil)

const selectPrincipal = `
SELECT u.id::text, u.email, u.password_hash, u.token, u.token_expired_at, u.created_at,
       COALESCE(array_agg(r.name ORDER BY r.id) FILTER (WHERE r.name IS NOT NULL), '{}')
FROM app_user u
LEFT JOIN user_role ur ON ur.user_id = u.id
LEFT JOIN role r ON r.id = ur.role_id
`

func (s *Store) GetByIdentity(ctx context.Context, identity string) (*types.Principal, error) {
	q := selectPrincipal + `WHERE lower(u.email) = lower($1) GROUP BY u.id`
	return scanPrincipal(s.pool.QueryRow(ctx, q, strings.TrimSpace(identity)))
}

func (s *Store) GetByToken(ctx context.Context, token string) (*types.Principal, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	q := selectPrincipal + `WHERE u.token = $1 GROUP BY u.id LIMIT 1`
	return scanPrincipal(s.pool.QueryRow(ctx, q, token))
}

func scanPrincipal(row pgx.Row) (*types.Principal, error) {
	var (
		p     types.Principal
		names []string
	)
	if err := row.Scan(&p.ID, &p.Identity, &p.CredentialHash, &p.ActiveToken, &p.TokenExpiry, &p.CreatedAt, &names); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	roles, err := types.ParseRoleSet(names)
	if err != nil {
		return nil, fmt.Errorf("principal %s: %w", p.Identity, err)
	}
	p.Roles = roles
	if p.TokenExpiry != nil {
		exp := p.TokenExpiry.UTC()
		p.TokenExpiry = &exp
	}
	return &p, nil
}

// SaveSession pisa ambos campos en un único UPDATE.
func (s *Store) SaveSession(ctx context.Context, identity, token string, expiresAt time.Time) error {
	if token == "" {
		return repository.ErrInvalidInput
	}
	const q = `UPDATE app_user SET token = $2, token_expired_at = $3 WHERE lower(email) = lower($1)`
	tag, err := s.pool.Exec(ctx, q, strings.TrimSpace(identity), token, expiresAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) Create(ctx context.Context, in repository.CreatePrincipalInput) (*types.Principal, error) {
	email := strings.ToLower(strings.TrimSpace(in.Identity))
	if email == "" || in.CredentialHash == "" || in.Roles.Empty() {
		return nil, repository.ErrInvalidInput
	}
	p := &types.Principal{
		ID:             uuid.NewString(),
		Identity:       email,
		CredentialHash: in.CredentialHash,
		Roles:          in.Roles,
	}
	names := in.Roles.Names()

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		const qUser = `INSERT INTO app_user (id, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`
		if err := tx.QueryRow(ctx, qUser, p.ID, email, in.CredentialHash).Scan(&p.CreatedAt); err != nil {
			if isUniqueViolation(err) {
				return repository.ErrConflict
			}
			return err
		}
		const qRoles = `INSERT INTO user_role (user_id, role_id) SELECT $1, id FROM role WHERE name = ANY($2)`
		tag, err := tx.Exec(ctx, qRoles, p.ID, names)
		if err != nil {
			return err
		}
		if int(tag.RowsAffected()) != len(names) {
			return fmt.Errorf("%w: roles %v not seeded", repository.ErrInvalidInput, names)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) UpdateCredential(ctx context.Context, identity, hash string) error {
	if hash == "" {
		return repository.ErrInvalidInput
	}
	const q = `UPDATE app_user SET password_hash = $2 WHERE lower(email) = lower($1)`
	tag, err := s.pool.Exec(ctx, q, strings.TrimSpace(identity), hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
