package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xela07ax/crm-backend/internal/domain"
	"github.com/xela07ax/crm-backend/internal/infra"
)

// poolIface — минимальный срез пула, который нужен репозиторию.
// В тестах подменяется pgxmock-ом.
type poolIface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type UserRepo struct {
	pool poolIface
}

// NewUserRepo создает репозиторий поверх готового пула
func NewUserRepo(pool poolIface) *UserRepo {
	return &UserRepo{pool: pool}
}

// Connect собирает pgx-пул по конфигу и оборачивает его в репозиторий.
func Connect(ctx context.Context, cfg infra.DatabaseConfig) (*UserRepo, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid database url: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	return NewUserRepo(pool), nil
}

// FindByEmail ищет пользователя по email, отфильтровывая soft-deleted записи.
// Отсутствие пользователя — не ошибка: возвращаем (nil, nil),
// интерпретацию оставляем сервисному слою.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, role, department_id, team_id, is_admin, is_deleted, created_at, updated_at
		FROM users WHERE email = $1 AND is_deleted = FALSE`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.DepartmentID, &u.TeamID, &u.IsAdmin, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *UserRepo) Close() {
	r.pool.Close()
}
