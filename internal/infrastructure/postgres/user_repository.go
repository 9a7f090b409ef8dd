package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mokpokpo/supply-api/internal/domain"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implements UserRepository over PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository builds the adapter.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, username, first_name, last_name, email, phone, address, role, active, password_hash, created_at, updated_at`

// Create persists a user. ErrDuplicate when the username is taken.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Username, user.FirstName, user.LastName, user.Email,
		user.Phone, user.Address, user.Role, user.Active, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username %s", domain.ErrDuplicate, user.Username)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email,
		&u.Phone, &u.Address, &u.Role, &u.Active, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// GetByID returns a user by ID, nil when missing.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.q.QueryRow(context.Background(), query, id))
}

// GetByUsername returns a user by username, nil when missing.
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.q.QueryRow(context.Background(), query, username))
}

// ListByRole returns users of one role, active first.
func (r *UserRepo) ListByRole(role string, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1
		ORDER BY active DESC, username LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, role, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email,
			&u.Phone, &u.Address, &u.Role, &u.Active, &u.PasswordHash,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Update writes a user's mutable fields.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, phone = $5,
		    address = $6, role = $7, active = $8, password_hash = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		user.ID, user.FirstName, user.LastName, user.Email, user.Phone,
		user.Address, user.Role, user.Active, user.PasswordHash, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, user.ID)
	}
	return nil
}
