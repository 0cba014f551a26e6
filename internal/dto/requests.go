package dto

// RegisterRequest represents the request to create an account
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required"`
	Username  string  `json:"username"`
	Password  string  `json:"password" binding:"required"`
	Phone     *string `json:"phone"`
	Dormitory *string `json:"dormitory"`
}

// LoginRequest represents the request to log in.
// Login accepts either an email or a username.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to rotate a token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ReportItemRequest represents the request to report a lost or found item
type ReportItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Features    string  `json:"features"`
	PhotoID     *string `json:"photo_id"`
}

// UpdateProfileRequest represents the request to update contact info
type UpdateProfileRequest struct {
	Phone     *string `json:"phone"`
	Dormitory *string `json:"dormitory"`
}

// DecideMatchRequest represents the accept/ignore action on a candidate
type DecideMatchRequest struct {
	Action string `json:"action" binding:"required"`
}
