package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mkovalenko/lostfound-backend/internal/dto"
	"github.com/mkovalenko/lostfound-backend/internal/http/handlers/common"
	"github.com/mkovalenko/lostfound-backend/internal/repository"
	"github.com/mkovalenko/lostfound-backend/internal/service"
)

// ItemHandler обслуживает заявки о потерянных и найденных вещах.
type ItemHandler struct {
	items *service.ItemService
}

// NewItemHandler создаёт хэндлер.
func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// parsePhotoID превращает необязательный строковый идентификатор
// фотографии в UUID.
func parsePhotoID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, errors.New("некорректный идентификатор фотографии")
	}
	return &id, nil
}

// ReportLost обрабатывает POST /items/lost. В ответе, помимо созданной
// заявки, сразу возвращается количество потенциальных совпадений.
func (h *ItemHandler) ReportLost(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.ReportItemRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	photoID, err := parsePhotoID(req.PhotoID)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, matchCount, err := h.items.ReportLost(c.Request.Context(), userID, service.ReportItemInput{
		Name:        req.Name,
		Description: req.Description,
		Features:    req.Features,
		PhotoID:     photoID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, dto.ReportLostResponse{
		Item:             item,
		PotentialMatches: matchCount,
	})
}

// ReportFound обрабатывает POST /items/found.
func (h *ItemHandler) ReportFound(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.ReportItemRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	photoID, err := parsePhotoID(req.PhotoID)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.items.ReportFound(c.Request.Context(), userID, service.ReportItemInput{
		Name:        req.Name,
		Description: req.Description,
		Features:    req.Features,
		PhotoID:     photoID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, item)
}

// Index обрабатывает GET /items — общая лента заявок.
func (h *ItemHandler) Index(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	lost, found, err := h.items.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.IndexResponse{
		LostItems:  lost,
		FoundItems: found,
	})
}

// ListMine обрабатывает GET /items/mine — заявки текущего пользователя.
func (h *ItemHandler) ListMine(c *gin.Context) {
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

	common.RespondJSON(c, http.StatusOK, dto.IndexResponse{
		LostItems:  lost,
		FoundItems: found,
	})
}

// Counts обрабатывает GET /items/counts — счётчики для форм заявок.
func (h *ItemHandler) Counts(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	lostCount, foundCount, err := h.items.Counts(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{
		"lost_count":  lostCount,
		"found_count": foundCount,
	})
}

// DeleteLost обрабатывает DELETE /items/lost/:id.
func (h *ItemHandler) DeleteLost(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.items.DeleteLost(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrLostItemNotFound) {
			common.RespondNotFound(c, "заявка о потере не найдена")
			return
		}
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteFound обрабатывает DELETE /items/found/:id.
func (h *ItemHandler) DeleteFound(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.items.DeleteFound(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrFoundItemNotFound) {
			common.RespondNotFound(c, "заявка о находке не найдена")
			return
		}
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
