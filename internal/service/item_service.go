package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkovalenko/lostfound-backend/internal/goroutine"
	"github.com/mkovalenko/lostfound-backend/internal/models"
	"github.com/mkovalenko/lostfound-backend/internal/validation"
)

// ItemMediaRepository проверяет принадлежность фотографий.
type ItemMediaRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error)
}

// ItemStoreRepository описывает зависимость сервиса от хранилища заявок.
type ItemStoreRepository interface {
	CreateLost(ctx context.Context, item *models.LostItem) error
	CreateFound(ctx context.Context, item *models.FoundItem) error
	GetLostByID(ctx context.Context, id uuid.UUID) (*models.LostItem, error)
	GetFoundByID(ctx context.Context, id uuid.UUID) (*models.FoundItem, error)
	ListLostByUser(ctx context.Context, userID uuid.UUID) ([]models.LostItem, error)
	ListFoundByUser(ctx context.Context, userID uuid.UUID) ([]models.FoundItem, error)
	ListLost(ctx context.Context, limit, offset int) ([]models.LostItem, error)
	ListFound(ctx context.Context, limit, offset int) ([]models.FoundItem, error)
	DeleteLost(ctx context.Context, id, userID uuid.UUID) error
	DeleteFound(ctx context.Context, id, userID uuid.UUID) error
	CountLostByUser(ctx context.Context, userID uuid.UUID) (int, error)
	CountFoundByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// ItemMatchChecker — немедленная проверка совпадений при создании заявки.
type ItemMatchChecker interface {
	FindMatches(ctx context.Context, lostItem *models.LostItem) ([]models.MatchCandidate, error)
	NotifyFoundReported(ctx context.Context, foundItem *models.FoundItem)
}

// ItemService управляет заявками о потерянных и найденных вещах.
type ItemService struct {
	items   ItemStoreRepository
	media   ItemMediaRepository
	matches ItemMatchChecker
}

// ReportItemInput содержит данные новой заявки.
type ReportItemInput struct {
	Name        string
	Description string
	Features    string
	PhotoID     *uuid.UUID
}

// NewItemService создаёт сервис заявок.
func NewItemService(items ItemStoreRepository, media ItemMediaRepository, matches ItemMatchChecker) *ItemService {
	return &ItemService{
		items:   items,
		media:   media,
		matches: matches,
	}
}

// validateInput проверяет поля заявки и принадлежность фотографии.
func (s *ItemService) validateInput(ctx context.Context, userID uuid.UUID, in ReportItemInput) error {
	if err := validation.ValidateItemName(in.Name); err != nil {
		return fmt.Errorf("item service: %w", err)
	}
	if err := validation.ValidateItemDescription(in.Description); err != nil {
		return fmt.Errorf("item service: %w", err)
	}
	if err := validation.ValidateItemFeatures(in.Features); err != nil {
		return fmt.Errorf("item service: %w", err)
	}

	if in.PhotoID != nil {
		media, err := s.media.GetByID(ctx, *in.PhotoID)
		if err != nil {
			return fmt.Errorf("item service: фотография не найдена: %w", err)
		}
		if media.UserID == nil || *media.UserID != userID {
			return fmt.Errorf("item service: фотография принадлежит другому пользователю")
		}
	}

	return nil
}

// ReportLost создаёт заявку о потере и сразу возвращает количество
// потенциальных совпадений для показа пользователю.
func (s *ItemService) ReportLost(ctx context.Context, userID uuid.UUID, in ReportItemInput) (*models.LostItem, int, error) {
	if err := s.validateInput(ctx, userID, in); err != nil {
		return nil, 0, err
	}

	item := &models.LostItem{
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Features:    in.Features,
		PhotoID:     in.PhotoID,
	}

	if err := s.items.CreateLost(ctx, item); err != nil {
		return nil, 0, err
	}

	matches, err := s.matches.FindMatches(ctx, item)
	if err != nil {
		// Заявка уже создана, проверка совпадений — вспомогательный шаг.
		return item, 0, nil
	}

	return item, len(matches), nil
}

// ReportFound создаёт заявку о находке. Владельцы похожих потерянных
// вещей получают уведомление в фоне.
func (s *ItemService) ReportFound(ctx context.Context, userID uuid.UUID, in ReportItemInput) (*models.FoundItem, error) {
	if err := s.validateInput(ctx, userID, in); err != nil {
		return nil, err
	}

	item := &models.FoundItem{
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Features:    in.Features,
		PhotoID:     in.PhotoID,
	}

	if err := s.items.CreateFound(ctx, item); err != nil {
		return nil, err
	}

	goroutine.SafeGoWithContext(context.WithoutCancel(ctx), func(ctx context.Context) {
		s.matches.NotifyFoundReported(ctx, item)
	})

	return item, nil
}

// ListMine возвращает заявки пользователя обоих видов, новые первыми.
func (s *ItemService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.LostItem, []models.FoundItem, error) {
	lost, err := s.items.ListLostByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	found, err := s.items.ListFoundByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return lost, found, nil
}

// ListAll возвращает общую ленту заявок.
func (s *ItemService) ListAll(ctx context.Context, limit, offset int) ([]models.LostItem, []models.FoundItem, error) {
	lost, err := s.items.ListLost(ctx, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	found, err := s.items.ListFound(ctx, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	return lost, found, nil
}

// DeleteLost удаляет заявку о потере, принадлежащую пользователю.
func (s *ItemService) DeleteLost(ctx context.Context, id, userID uuid.UUID) error {
	return s.items.DeleteLost(ctx, id, userID)
}

// DeleteFound удаляет заявку о находке, принадлежащую пользователю.
func (s *ItemService) DeleteFound(ctx context.Context, id, userID uuid.UUID) error {
	return s.items.DeleteFound(ctx, id, userID)
}

// Counts возвращает количество заявок пользователя для форм отчёта.
func (s *ItemService) Counts(ctx context.Context, userID uuid.UUID) (lostCount, foundCount int, err error) {
	lostCount, err = s.items.CountLostByUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	foundCount, err = s.items.CountFoundByUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	return lostCount, foundCount, nil
}
