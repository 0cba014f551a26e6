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

// ErrLostItemNotFound возвращается, когда заявка о потере не найдена.
var ErrLostItemNotFound = errors.New("lost item not found")

// ErrFoundItemNotFound возвращается, когда заявка о находке не найдена.
var ErrFoundItemNotFound = errors.New("found item not found")

// ItemRepository отвечает за работу с таблицами lost_items и found_items.
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository создаёт экземпляр репозитория.
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// CreateLost сохраняет заявку о потерянной вещи.
func (r *ItemRepository) CreateLost(ctx context.Context, item *models.LostItem) error {
	if err := r.db.QueryRowxContext(ctx, `
		INSERT INTO lost_items (user_id, name, description, features, photo_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date_reported
	`, item.UserID, item.Name, item.Description, item.Features, item.PhotoID,
	).Scan(&item.ID, &item.DateReported); err != nil {
		return fmt.Errorf("item repository: create lost %w", err)
	}

	return nil
}

// CreateFound сохраняет заявку о найденной вещи.
func (r *ItemRepository) CreateFound(ctx context.Context, item *models.FoundItem) error {
	if err := r.db.QueryRowxContext(ctx, `
		INSERT INTO found_items (user_id, name, description, features, photo_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date_reported
	`, item.UserID, item.Name, item.Description, item.Features, item.PhotoID,
	).Scan(&item.ID, &item.DateReported); err != nil {
		return fmt.Errorf("item repository: create found %w", err)
	}

	return nil
}

// GetLostByID возвращает заявку о потере по идентификатору.
func (r *ItemRepository) GetLostByID(ctx context.Context, id uuid.UUID) (*models.LostItem, error) {
	var item models.LostItem
	if err := r.db.GetContext(ctx, &item, `SELECT * FROM lost_items WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLostItemNotFound
		}
		return nil, fmt.Errorf("item repository: get lost by id %w", err)
	}

	return &item, nil
}

// GetFoundByID возвращает заявку о находке по идентификатору.
func (r *ItemRepository) GetFoundByID(ctx context.Context, id uuid.UUID) (*models.FoundItem, error) {
	var item models.FoundItem
	if err := r.db.GetContext(ctx, &item, `SELECT * FROM found_items WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFoundItemNotFound
		}
		return nil, fmt.Errorf("item repository: get found by id %w", err)
	}

	return &item, nil
}

// ListLostByUser возвращает заявки пользователя о потерях, новые первыми.
func (r *ItemRepository) ListLostByUser(ctx context.Context, userID uuid.UUID) ([]models.LostItem, error) {
	var items []models.LostItem
	if err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM lost_items WHERE user_id = $1 ORDER BY date_reported DESC, id
	`, userID); err != nil {
		return nil, fmt.Errorf("item repository: list lost by user %w", err)
	}

	return items, nil
}

// ListFoundByUser возвращает заявки пользователя о находках, новые первыми.
func (r *ItemRepository) ListFoundByUser(ctx context.Context, userID uuid.UUID) ([]models.FoundItem, error) {
	var items []models.FoundItem
	if err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM found_items WHERE user_id = $1 ORDER BY date_reported DESC, id
	`, userID); err != nil {
		return nil, fmt.Errorf("item repository: list found by user %w", err)
	}

	return items, nil
}

// ListLost возвращает все заявки о потерях для общей ленты.
func (r *ItemRepository) ListLost(ctx context.Context, limit, offset int) ([]models.LostItem, error) {
	var items []models.LostItem
	if err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM lost_items ORDER BY date_reported DESC, id LIMIT $1 OFFSET $2
	`, limit, offset); err != nil {
		return nil, fmt.Errorf("item repository: list lost %w", err)
	}

	return items, nil
}

// ListFound возвращает все заявки о находках для общей ленты.
func (r *ItemRepository) ListFound(ctx context.Context, limit, offset int) ([]models.FoundItem, error) {
	var items []models.FoundItem
	if err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM found_items ORDER BY date_reported DESC, id LIMIT $1 OFFSET $2
	`, limit, offset); err != nil {
		return nil, fmt.Errorf("item repository: list found %w", err)
	}

	return items, nil
}

// ListFoundByOtherUsers возвращает пул кандидатов для поиска совпадений:
// все находки, принадлежащие другим пользователям. Порядок фиксирован
// (новые первыми) и не зависит от похожести.
func (r *ItemRepository) ListFoundByOtherUsers(ctx context.Context, userID uuid.UUID) ([]models.FoundItem, error) {
	var items []models.FoundItem
	if err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM found_items WHERE user_id <> $1 ORDER BY date_reported DESC, id
	`, userID); err != nil {
		return nil, fmt.Errorf("item repository: list found by other users %w", err)
	}

	return items, nil
}

// ListLostByOtherUsers возвращает заявки о потерях других пользователей.
// Используется при регистрации находки, чтобы известить владельцев.
func (r *ItemRepository) ListLostByOtherUsers(ctx context.Context, userID uuid.UUID) ([]models.LostItem, error) {
	var items []models.LostItem
	if err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM lost_items WHERE user_id <> $1 ORDER BY date_reported DESC, id
	`, userID); err != nil {
		return nil, fmt.Errorf("item repository: list lost by other users %w", err)
	}

	return items, nil
}

// DeleteLost удаляет заявку о потере, принадлежащую пользователю.
func (r *ItemRepository) DeleteLost(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lost_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("item repository: delete lost %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLostItemNotFound
	}

	return nil
}

// DeleteFound удаляет заявку о находке, принадлежащую пользователю.
func (r *ItemRepository) DeleteFound(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM found_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("item repository: delete found %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFoundItemNotFound
	}

	return nil
}

// CountLostByUser возвращает количество заявок пользователя о потерях.
func (r *ItemRepository) CountLostByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM lost_items WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("item repository: count lost by user %w", err)
	}

	return count, nil
}

// CountFoundByUser возвращает количество заявок пользователя о находках.
func (r *ItemRepository) CountFoundByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM found_items WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("item repository: count found by user %w", err)
	}

	return count, nil
}
