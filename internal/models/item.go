package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ItemKindLost  = "lost"
	ItemKindFound = "found"
)

// LostItem описывает заявку о потерянной вещи.
type LostItem struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	Name         string     `db:"name" json:"name"`
	Description  string     `db:"description" json:"description"`
	Features     string     `db:"features" json:"features"`
	PhotoID      *uuid.UUID `db:"photo_id" json:"photo_id,omitempty"`
	DateReported time.Time  `db:"date_reported" json:"date_reported"`
}

// FoundItem описывает заявку о найденной вещи.
type FoundItem struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	Name         string     `db:"name" json:"name"`
	Description  string     `db:"description" json:"description"`
	Features     string     `db:"features" json:"features"`
	PhotoID      *uuid.UUID `db:"photo_id" json:"photo_id,omitempty"`
	DateReported time.Time  `db:"date_reported" json:"date_reported"`
}
