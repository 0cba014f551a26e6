package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mkovalenko/lostfound-backend/internal/models"
)

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = errors.New("user not found")

// ErrProfileNotFound возвращается, когда профиль пользователя не найден.
var ErrProfileNotFound = errors.New("profile not found")

// UserRepository отвечает за работу с таблицами users, profiles и user_sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового пользователя вместе с профилем.
// Обе записи пишутся в одной транзакции: пользователь не может
// существовать без строки в profiles.
func (r *UserRepository) Create(ctx context.Context, user *models.User, profile *models.Profile) error {
	return withTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO users (email, username, password_hash, is_active)
			VALUES ($1, $2, $3, TRUE)
			RETURNING id, created_at, updated_at
		`, user.Email, user.Username, user.PasswordHash,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return fmt.Errorf("user repository: create user %w", err)
		}

		profile.UserID = user.ID
		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO profiles (user_id, phone, dormitory)
			VALUES ($1, $2, $3)
			RETURNING updated_at
		`, profile.UserID, profile.Phone, profile.Dormitory,
		).Scan(&profile.UpdatedAt); err != nil {
			return fmt.Errorf("user repository: create profile %w", err)
		}

		return nil
	})
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getByField(ctx, "email", email)
}

// GetByUsername возвращает пользователя по имени.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getByField(ctx, "username", username)
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getByField(ctx, "id", id)
}

func (r *UserRepository) getByField(ctx context.Context, field string, value interface{}) (*models.User, error) {
	var user models.User
	query := fmt.Sprintf(`
		SELECT id, email, username, password_hash, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE %s = $1
	`, field)
	if err := r.db.GetContext(ctx, &user, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by %s %w", field, err)
	}

	return &user, nil
}

// GetProfile возвращает профиль пользователя.
func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile,
		`SELECT user_id, phone, dormitory, updated_at FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("user repository: get profile %w", err)
	}

	return &profile, nil
}

// UpdateProfile обновляет контактные данные профиля.
func (r *UserRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE profiles
		SET phone = $2, dormitory = $3, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at
	`, profile.UserID, profile.Phone, profile.Dormitory).Scan(&profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("user repository: update profile %w", err)
	}

	return nil
}

// CreateSession сохраняет новую сессию пользователя.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	if err := r.db.QueryRowxContext(ctx, `
		INSERT INTO user_sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`,
		session.UserID,
		session.RefreshToken,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create session %w", err)
	}

	return nil
}

// DeleteSession удаляет сессию по refresh токену.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}

	return nil
}

// UpdateLastLoginAt обновляет время последнего входа пользователя.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("user repository: update last login %w", err)
	}

	return nil
}

// withTransaction выполняет функцию внутри транзакции.
func withTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
