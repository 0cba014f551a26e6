package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы решения по паре (потерянная вещь, найденная вещь).
// PENDING существует только логически: запись в match_decisions
// появляется лишь после явного действия пользователя.
const (
	DecisionStatusPending  = "PENDING"
	DecisionStatusAccepted = "ACCEPTED"
	DecisionStatusIgnored  = "IGNORED"
)

// MatchDecision — решение уведомлённого пользователя по кандидату.
// На тройку (lost_item_id, found_item_id, notified_user_id) существует
// не более одной записи; повторное действие перезаписывает статус.
type MatchDecision struct {
	LostItemID     uuid.UUID `db:"lost_item_id" json:"lost_item_id"`
	FoundItemID    uuid.UUID `db:"found_item_id" json:"found_item_id"`
	NotifiedUserID uuid.UUID `db:"notified_user_id" json:"notified_user_id"`
	Status         string    `db:"status" json:"status"`
	DateUpdated    time.Time `db:"date_updated" json:"date_updated"`
}
