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

// ErrDecisionNotFound возвращается, когда решение по паре не найдено.
var ErrDecisionNotFound = errors.New("match decision not found")

// DecisionRepository — журнал решений по кандидатам.
// Только этот репозиторий пишет в таблицу match_decisions.
type DecisionRepository struct {
	db *sqlx.DB
}

// NewDecisionRepository создаёт экземпляр репозитория.
func NewDecisionRepository(db *sqlx.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// Get возвращает решение по тройке (lost, found, user).
func (r *DecisionRepository) Get(ctx context.Context, lostID, foundID, userID uuid.UUID) (*models.MatchDecision, error) {
	var decision models.MatchDecision
	if err := r.db.GetContext(ctx, &decision, `
		SELECT * FROM match_decisions
		WHERE lost_item_id = $1 AND found_item_id = $2 AND notified_user_id = $3
	`, lostID, foundID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDecisionNotFound
		}
		return nil, fmt.Errorf("decision repository: get %w", err)
	}

	return &decision, nil
}

// ListDecidedFoundIDs возвращает идентификаторы находок, по которым
// пользователь уже принял решение для данной потерянной вещи.
// Используется как фильтр исключения при поиске совпадений.
func (r *DecisionRepository) ListDecidedFoundIDs(ctx context.Context, lostID, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, `
		SELECT found_item_id FROM match_decisions
		WHERE lost_item_id = $1 AND notified_user_id = $2
	`, lostID, userID); err != nil {
		return nil, fmt.Errorf("decision repository: list decided found ids %w", err)
	}

	decided := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		decided[id] = struct{}{}
	}

	return decided, nil
}

// Upsert создаёт запись или безусловно перезаписывает статус и время.
// Повторное решение по той же тройке не является ошибкой: последняя
// запись побеждает, уникальный ключ гарантирует единственность строки.
func (r *DecisionRepository) Upsert(ctx context.Context, decision *models.MatchDecision) error {
	if err := r.db.QueryRowxContext(ctx, `
		INSERT INTO match_decisions (lost_item_id, found_item_id, notified_user_id, status, date_updated)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (lost_item_id, found_item_id, notified_user_id) DO UPDATE
		SET status = EXCLUDED.status,
			date_updated = NOW()
		RETURNING date_updated
	`, decision.LostItemID, decision.FoundItemID, decision.NotifiedUserID, decision.Status,
	).Scan(&decision.DateUpdated); err != nil {
		return fmt.Errorf("decision repository: upsert %w", err)
	}

	return nil
}
