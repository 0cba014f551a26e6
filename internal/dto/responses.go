package dto

import (
	"github.com/mkovalenko/lostfound-backend/internal/models"
)

// ErrorResponse is a standardized error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standardized success payload
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ReportLostResponse carries the created report plus the immediate match check
type ReportLostResponse struct {
	Item             *models.LostItem `json:"item"`
	PotentialMatches int              `json:"potential_matches"`
}

// IndexResponse is the public feed of reports
type IndexResponse struct {
	LostItems  []models.LostItem  `json:"lost_items"`
	FoundItems []models.FoundItem `json:"found_items"`
}

// DashboardResponse combines the user's reports with the notification feed
type DashboardResponse struct {
	LostItems         []models.LostItem          `json:"lost_items"`
	FoundItems        []models.FoundItem         `json:"found_items"`
	Notifications     []models.NotificationEntry `json:"notifications"`
	NotificationCount int                        `json:"notification_count"`
}

// MatchDetailResponse is the detail view of one candidate pair.
// Status is ACCEPTED/IGNORED when a decision exists, PENDING otherwise;
// DateUpdated accompanies a recorded decision.
type MatchDetailResponse struct {
	LostItem    *models.LostItem  `json:"lost_item"`
	FoundItem   *models.FoundItem `json:"found_item"`
	Score       int               `json:"match_score"`
	FoundUser   *FinderContact    `json:"found_user"`
	Status      string            `json:"status"`
	DateUpdated *string           `json:"date_updated,omitempty"`
}

// FinderContact is the reporter contact snapshot shown to the owner
type FinderContact struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// DecidedMatchResponse is returned when the pair was already decided
type DecidedMatchResponse struct {
	Status      string `json:"status"`
	DateUpdated string `json:"date_updated"`
}
