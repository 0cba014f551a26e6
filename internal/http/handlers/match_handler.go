package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkovalenko/lostfound-backend/internal/dto"
	"github.com/mkovalenko/lostfound-backend/internal/http/handlers/common"
	"github.com/mkovalenko/lostfound-backend/internal/models"
	"github.com/mkovalenko/lostfound-backend/internal/service"
)

// MatchHandler обслуживает дашборд, карточки совпадений и решения.
type MatchHandler struct {
	matches *service.MatchService
	items   *service.ItemService
}

// NewMatchHandler создаёт хэндлер.
func NewMatchHandler(matches *service.MatchService, items *service.ItemService) *MatchHandler {
	return &MatchHandler{matches: matches, items: items}
}

// Dashboard обрабатывает GET /dashboard: заявки пользователя вместе с
// лентой уведомлений о совпадениях.
func (h *MatchHandler) Dashboard(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	lost, found, err := h.items.ListMine(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	notifications, err := h.matches.BuildNotifications(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.DashboardResponse{
		LostItems:         lost,
		FoundItems:        found,
		Notifications:     notifications,
		NotificationCount: len(notifications),
	})
}

// Notifications обрабатывает GET /matches/notifications — только лента
// совпадений, без заявок.
func (h *MatchHandler) Notifications(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	notifications, err := h.matches.BuildNotifications(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// GetMatch обрабатывает GET /matches/lost/:lostId/found/:foundId —
// карточка пары с контактами нашедшего.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	lostID, err := common.ParseUUIDParam(c, "lostId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	foundID, err := common.ParseUUIDParam(c, "foundId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	detail, err := h.matches.GetMatchDetail(c.Request.Context(), lostID, foundID, userID)
	if err != nil {
		c.Error(err)
		return
	}

	resp := dto.MatchDetailResponse{
		LostItem:  detail.LostItem,
		FoundItem: detail.FoundItem,
		Score:     detail.Score,
		FoundUser: &dto.FinderContact{
			Username: detail.FoundUser.Username,
			Email:    detail.FoundUser.Email,
			Phone:    detail.Phone,
		},
		Status: models.DecisionStatusPending,
	}
	if detail.Decision != nil {
		resp.Status = detail.Decision.Status
		updated := detail.Decision.DateUpdated.Format(time.RFC3339)
		resp.DateUpdated = &updated
	}

	common.RespondJSON(c, http.StatusOK, resp)
}

// Decide обрабатывает POST /matches/lost/:lostId/found/:foundId/decision.
// Действие accept или ignore; повторное решение перезаписывает прежнее.
func (h *MatchHandler) Decide(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	lostID, err := common.ParseUUIDParam(c, "lostId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	foundID, err := common.ParseUUIDParam(c, "foundId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.DecideMatchRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	status := req.Action
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "accept":
		status = models.DecisionStatusAccepted
	case "ignore":
		status = models.DecisionStatusIgnored
	}

	decision, err := h.matches.Decide(c.Request.Context(), lostID, foundID, userID, status)
	if err != nil {
		c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.DecidedMatchResponse{
		Status:      decision.Status,
		DateUpdated: decision.DateUpdated.Format(time.RFC3339),
	})
}
