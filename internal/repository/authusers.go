package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caminoadmin/comunidades-go/internal/models"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already taken")

type AuthUserRepository struct {
	db *pgxpool.Pool
}

func NewAuthUserRepository(db *pgxpool.Pool) *AuthUserRepository {
	return &AuthUserRepository{db: db}
}

// GetByEmail retrieves a login account by email (case-insensitive).
func (r *AuthUserRepository) GetByEmail(ctx context.Context, email string) (*models.AuthUser, error) {
	query := `
		SELECT id, email, display_name, password_hash, is_admin, login_enabled, last_login, created_at, updated_at
		FROM auth_users
		WHERE LOWER(email) = LOWER($1)
	`

	var user models.AuthUser
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.LoginEnabled,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// EmailExists checks if an email is already registered.
func (r *AuthUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM auth_users WHERE LOWER(email) = LOWER($1))`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	return exists, err
}

// Create registers a new login account.
func (r *AuthUserRepository) Create(ctx context.Context, user *models.AuthUser) error {
	exists, err := r.EmailExists(ctx, user.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailTaken
	}

	query := `
		INSERT INTO auth_users (id, email, display_name, password_hash, is_admin, login_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	return r.db.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.IsAdmin,
		user.LoginEnabled,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

// TouchLastLogin records a successful login.
func (r *AuthUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE auth_users SET last_login = NOW() WHERE id = $1`, id)
	return err
}
