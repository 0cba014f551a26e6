package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkovalenko/lostfound-backend/internal/dto"
	"github.com/mkovalenko/lostfound-backend/internal/http/handlers/common"
	"github.com/mkovalenko/lostfound-backend/internal/models"
	"github.com/mkovalenko/lostfound-backend/internal/repository"
	"github.com/mkovalenko/lostfound-backend/internal/validation"
)

// ProfileHandler отвечает за работу с профилем.
type ProfileHandler struct {
	users *repository.UserRepository
}

// NewProfileHandler создаёт экземпляр.
func NewProfileHandler(users *repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// GetMe возвращает пользователя и профиль текущего пользователя.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			c.Error(err)
			return
		}
		// Профиль создаётся вместе с пользователем, но на случай
		// старых записей возвращаем пустой.
		profile = &models.Profile{UserID: userID}
	}

	common.RespondJSON(c, http.StatusOK, gin.H{
		"user":    user,
		"profile": profile,
	})
}

// UpdateMe обновляет контактные данные текущего пользователя.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if req.Phone != nil {
		if err := validation.ValidatePhone(*req.Phone); err != nil {
			common.RespondBadRequest(c, err.Error())
			return
		}
	}

	profile := &models.Profile{
		UserID:    userID,
		Phone:     req.Phone,
		Dormitory: req.Dormitory,
	}

	if err := h.users.UpdateProfile(c.Request.Context(), profile); err != nil {
		c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, profile)
}
