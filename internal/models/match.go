package models

import (
	"github.com/google/uuid"
)

// NotificationTypeLostMatch — тег уведомления о кандидате для потерянной вещи.
const NotificationTypeLostMatch = "LOST_MATCH"

// PhoneUnknown подставляется, когда в профиле нашедшего нет телефона.
const PhoneUnknown = "N/A"

// MatchCandidate — кандидат на совпадение пары (потеряно, найдено).
// Структура живёт в рамках одного запроса: оценка похожести считается
// заново при каждом обращении и нигде не кэшируется.
type MatchCandidate struct {
	LostItemID     uuid.UUID `json:"lost_item_id"`
	LostItemName   string    `json:"lost_item_name"`
	FoundItemID    uuid.UUID `json:"found_item_id"`
	FoundItemName  string    `json:"found_item_name"`
	FoundUserName  string    `json:"found_user_name"`
	FoundUserEmail string    `json:"found_user_email"`
	FoundUserPhone string    `json:"found_user_phone"`
	FoundPhotoID   string    `json:"found_item_photo_id"`
	Score          int       `json:"score"`
}

// NotificationEntry — запись ленты уведомлений дашборда.
type NotificationEntry struct {
	Type          string    `json:"type"`
	MyItemID      uuid.UUID `json:"my_item_id"`
	MyItemName    string    `json:"my_item_name"`
	MatchItemID   uuid.UUID `json:"match_id"`
	MatchItemName string    `json:"match_item_name"`
	MatchUser     string    `json:"match_user"`
	Score         int       `json:"score"`
}
