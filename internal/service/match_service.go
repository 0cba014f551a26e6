package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mkovalenko/lostfound-backend/internal/logger"
	"github.com/mkovalenko/lostfound-backend/internal/matching"
	"github.com/mkovalenko/lostfound-backend/internal/models"
	"github.com/mkovalenko/lostfound-backend/internal/pkg/apperror"
	"github.com/mkovalenko/lostfound-backend/internal/repository"
)

// ErrMissingOwner возвращается для заявки без владельца.
var ErrMissingOwner = errors.New("match service: lost item has no owner")

// MatchItemRepository описывает зависимость сервиса от заявок.
type MatchItemRepository interface {
	GetLostByID(ctx context.Context, id uuid.UUID) (*models.LostItem, error)
	GetFoundByID(ctx context.Context, id uuid.UUID) (*models.FoundItem, error)
	ListLostByUser(ctx context.Context, userID uuid.UUID) ([]models.LostItem, error)
	ListFoundByOtherUsers(ctx context.Context, userID uuid.UUID) ([]models.FoundItem, error)
	ListLostByOtherUsers(ctx context.Context, userID uuid.UUID) ([]models.LostItem, error)
}

// MatchUserRepository описывает зависимость сервиса от пользователей.
type MatchUserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// MatchDecisionRepository описывает зависимость сервиса от журнала решений.
type MatchDecisionRepository interface {
	Get(ctx context.Context, lostID, foundID, userID uuid.UUID) (*models.MatchDecision, error)
	ListDecidedFoundIDs(ctx context.Context, lostID, userID uuid.UUID) (map[uuid.UUID]struct{}, error)
	Upsert(ctx context.Context, decision *models.MatchDecision) error
}

// MatchEventBroadcaster доставляет событие пользователю (WebSocket hub).
type MatchEventBroadcaster interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// MatchService ищет совпадения между потерянными и найденными вещами
// и ведёт журнал решений пользователей.
type MatchService struct {
	items     MatchItemRepository
	users     MatchUserRepository
	decisions MatchDecisionRepository
	hub       MatchEventBroadcaster
}

// NewMatchService создаёт сервис поиска совпадений.
func NewMatchService(items MatchItemRepository, users MatchUserRepository, decisions MatchDecisionRepository) *MatchService {
	return &MatchService{
		items:     items,
		users:     users,
		decisions: decisions,
	}
}

// SetHub подключает WebSocket hub для живых уведомлений о кандидатах.
func (s *MatchService) SetHub(hub MatchEventBroadcaster) {
	s.hub = hub
}

// FindMatches возвращает кандидатов для потерянной вещи: находки других
// пользователей, по которым владелец ещё не принял решение. Кандидаты
// идут в порядке перечисления пула и сопровождаются оценкой похожести.
// Порог не применяется: возвращаются все кандидаты независимо от оценки.
func (s *MatchService) FindMatches(ctx context.Context, lostItem *models.LostItem) ([]models.MatchCandidate, error) {
	if lostItem == nil || lostItem.UserID == uuid.Nil {
		return nil, ErrMissingOwner
	}

	pool, err := s.items.ListFoundByOtherUsers(ctx, lostItem.UserID)
	if err != nil {
		return nil, err
	}

	decided, err := s.decisions.ListDecidedFoundIDs(ctx, lostItem.ID, lostItem.UserID)
	if err != nil {
		return nil, err
	}

	lostText := matching.CombinedText(lostItem.Name, lostItem.Description, lostItem.Features)

	matches := make([]models.MatchCandidate, 0, len(pool))
	for i := range pool {
		foundItem := &pool[i]

		// Пара уже решена — не показываем повторно.
		if _, ok := decided[foundItem.ID]; ok {
			continue
		}

		foundText := matching.CombinedText(foundItem.Name, foundItem.Description, foundItem.Features)
		score := matching.Score(lostText, foundText)

		candidate, err := s.buildCandidate(ctx, lostItem, foundItem, score)
		if err != nil {
			// Пользователь находки исчез между выборками: кандидата
			// пропускаем, остальных это не касается.
			logger.WithComponent("match").WithError(err).
				WithField("found_item_id", foundItem.ID).
				Warn("не удалось собрать кандидата, пропускаем")
			continue
		}

		matches = append(matches, *candidate)
	}

	return matches, nil
}

// FindMatchesByLostID загружает заявку и ищет кандидатов для неё.
func (s *MatchService) FindMatchesByLostID(ctx context.Context, lostID uuid.UUID) ([]models.MatchCandidate, error) {
	lostItem, err := s.items.GetLostByID(ctx, lostID)
	if err != nil {
		return nil, err
	}

	return s.FindMatches(ctx, lostItem)
}

// buildCandidate собирает карточку кандидата с контактами нашедшего.
func (s *MatchService) buildCandidate(ctx context.Context, lostItem *models.LostItem, foundItem *models.FoundItem, score int) (*models.MatchCandidate, error) {
	foundUser, err := s.users.GetByID(ctx, foundItem.UserID)
	if err != nil {
		return nil, err
	}

	// Телефон берётся из профиля; отсутствие профиля или телефона
	// не является ошибкой — подставляется "N/A".
	phone := models.PhoneUnknown
	if profile, err := s.users.GetProfile(ctx, foundUser.ID); err == nil && profile.Phone != nil && *profile.Phone != "" {
		phone = *profile.Phone
	}

	photoID := ""
	if foundItem.PhotoID != nil {
		photoID = foundItem.PhotoID.String()
	}

	return &models.MatchCandidate{
		LostItemID:     lostItem.ID,
		LostItemName:   lostItem.Name,
		FoundItemID:    foundItem.ID,
		FoundItemName:  foundItem.Name,
		FoundUserName:  foundUser.Username,
		FoundUserEmail: foundUser.Email,
		FoundUserPhone: phone,
		FoundPhotoID:   photoID,
		Score:          score,
	}, nil
}

// BuildNotifications собирает ленту уведомлений пользователя: кандидаты
// для каждой его потерянной вещи, новые заявки первыми. Лента считается
// заново при каждом вызове, дедупликации сверх журнала решений нет.
func (s *MatchService) BuildNotifications(ctx context.Context, userID uuid.UUID) ([]models.NotificationEntry, error) {
	lostItems, err := s.items.ListLostByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.NotificationEntry, 0)
	for i := range lostItems {
		matches, err := s.FindMatches(ctx, &lostItems[i])
		if err != nil {
			return nil, err
		}

		for _, match := range matches {
			entries = append(entries, models.NotificationEntry{
				Type:          models.NotificationTypeLostMatch,
				MyItemID:      match.LostItemID,
				MyItemName:    match.LostItemName,
				MatchItemID:   match.FoundItemID,
				MatchItemName: match.FoundItemName,
				MatchUser:     match.FoundUserName,
				Score:         match.Score,
			})
		}
	}

	return entries, nil
}

// MatchDetail — карточка пары для страницы уведомления.
type MatchDetail struct {
	LostItem  *models.LostItem
	FoundItem *models.FoundItem
	Score     int
	FoundUser *models.User
	Phone     string
	Decision  *models.MatchDecision
}

// GetMatchDetail возвращает карточку пары (потеряно, найдено) с заново
// вычисленной оценкой. Заявка о потере должна принадлежать пользователю.
// Если по паре уже есть решение, оно возвращается вместе с карточкой.
func (s *MatchService) GetMatchDetail(ctx context.Context, lostID, foundID, userID uuid.UUID) (*MatchDetail, error) {
	lostItem, err := s.items.GetLostByID(ctx, lostID)
	if err != nil {
		return nil, err
	}
	if lostItem.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	foundItem, err := s.items.GetFoundByID(ctx, foundID)
	if err != nil {
		return nil, err
	}

	score := matching.Score(
		matching.CombinedText(lostItem.Name, lostItem.Description, lostItem.Features),
		matching.CombinedText(foundItem.Name, foundItem.Description, foundItem.Features),
	)

	foundUser, err := s.users.GetByID(ctx, foundItem.UserID)
	if err != nil {
		return nil, err
	}

	phone := models.PhoneUnknown
	if profile, err := s.users.GetProfile(ctx, foundUser.ID); err == nil && profile.Phone != nil && *profile.Phone != "" {
		phone = *profile.Phone
	}

	detail := &MatchDetail{
		LostItem:  lostItem,
		FoundItem: foundItem,
		Score:     score,
		FoundUser: foundUser,
		Phone:     phone,
	}

	decision, err := s.decisions.Get(ctx, lostID, foundID, userID)
	switch {
	case err == nil:
		detail.Decision = decision
	case errors.Is(err, repository.ErrDecisionNotFound):
		// Решения ещё нет: пара в состоянии PENDING, запись не создаётся.
	default:
		return nil, err
	}

	return detail, nil
}

// Decide фиксирует решение пользователя по паре. Статус вне множества
// {ACCEPTED, IGNORED} отклоняется. Запись создаётся при первом решении
// и безусловно перезаписывается при повторном.
func (s *MatchService) Decide(ctx context.Context, lostID, foundID, userID uuid.UUID, status string) (*models.MatchDecision, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != models.DecisionStatusAccepted && status != models.DecisionStatusIgnored {
		return nil, apperror.ErrInvalidStatus
	}

	// Защита от решений по несуществующим заявкам.
	lostItem, err := s.items.GetLostByID(ctx, lostID)
	if err != nil {
		return nil, err
	}
	if lostItem.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	if _, err := s.items.GetFoundByID(ctx, foundID); err != nil {
		return nil, err
	}

	decision := &models.MatchDecision{
		LostItemID:     lostID,
		FoundItemID:    foundID,
		NotifiedUserID: userID,
		Status:         status,
	}

	if err := s.decisions.Upsert(ctx, decision); err != nil {
		return nil, err
	}

	return decision, nil
}

// NotifyFoundReported извещает владельцев потерянных вещей о новой
// находке через WebSocket. Ошибки доставки только логируются: заявка
// уже сохранена, уведомление — побочный эффект.
func (s *MatchService) NotifyFoundReported(ctx context.Context, foundItem *models.FoundItem) {
	if s.hub == nil {
		return
	}

	lostItems, err := s.items.ListLostByOtherUsers(ctx, foundItem.UserID)
	if err != nil {
		logger.WithComponent("match").WithError(err).
			Warn("не удалось получить заявки для уведомления о находке")
		return
	}

	foundText := matching.CombinedText(foundItem.Name, foundItem.Description, foundItem.Features)

	for i := range lostItems {
		lostItem := &lostItems[i]

		decided, err := s.decisions.ListDecidedFoundIDs(ctx, lostItem.ID, lostItem.UserID)
		if err != nil {
			logger.WithComponent("match").WithError(err).
				WithField("lost_item_id", lostItem.ID).
				Warn("не удалось проверить журнал решений")
			continue
		}
		if _, ok := decided[foundItem.ID]; ok {
			continue
		}

		score := matching.Score(
			matching.CombinedText(lostItem.Name, lostItem.Description, lostItem.Features),
			foundText,
		)

		payload := map[string]any{
			"lost_item_id":    lostItem.ID,
			"lost_item_name":  lostItem.Name,
			"found_item_id":   foundItem.ID,
			"found_item_name": foundItem.Name,
			"score":           score,
		}

		if err := s.hub.BroadcastToUser(lostItem.UserID, "match.candidate", payload); err != nil {
			logger.WithComponent("match").WithError(err).
				WithField("user_id", lostItem.UserID).
				Warn(fmt.Sprintf("не удалось отправить событие о находке %s", foundItem.ID))
		}
	}
}
