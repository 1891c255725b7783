package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/taskmaster/todoboard/internal/domain/entities"
	"github.com/taskmaster/todoboard/internal/ports"
)

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]entities.User, error) {
	query := `
		SELECT id, first_name, last_name, created_at
		FROM users
		ORDER BY first_name ASC, id ASC`

	var records []UserRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]entities.User, 0, len(records))
	for _, rec := range records {
		users = append(users, UserFromRecord(rec))
	}
	return users, nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	query := r.db.Rebind(`SELECT id, first_name, last_name, created_at FROM users WHERE id = ?`)

	var rec UserRecord
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	user := UserFromRecord(rec)
	return &user, nil
}
