package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/joao-fontenele/retail-ledger/internal/domain"
	"github.com/joao-fontenele/retail-ledger/internal/store"
)

type UserRepository struct {
	db *store.DB
}

func NewUserRepository(db *store.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and returns its id. credential is stored as given.
func (r *UserRepository) Create(ctx context.Context, username, credential string, role domain.Role) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO users (username, password, role)
		VALUES (?, ?, ?)
		RETURNING user_id
	`), username, credential, role).Scan(&id)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return 0, domain.ErrDuplicateUsername
		}
		return 0, err
	}

	return id, nil
}

// GetByUsername returns nil when no user has that exact username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT user_id, username, password, role
		FROM users
		WHERE username = ?
	`), username).Scan(&user.ID, &user.Username, &user.Password, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}
