package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mkovalenko/lostfound-backend/internal/models"
	"github.com/mkovalenko/lostfound-backend/internal/pkg/apperror"
	"github.com/mkovalenko/lostfound-backend/internal/repository"
)

// mockMatchItemRepository реализует MatchItemRepository для тестов.
type mockMatchItemRepository struct {
	lost  map[uuid.UUID]*models.LostItem
	found map[uuid.UUID]*models.FoundItem
	// порядок перечисления находок
	foundOrder []uuid.UUID
}

func newMockMatchItemRepository() *mockMatchItemRepository {
	return &mockMatchItemRepository{
		lost:  make(map[uuid.UUID]*models.LostItem),
		found: make(map[uuid.UUID]*models.FoundItem),
	}
}

func (m *mockMatchItemRepository) addLost(item *models.LostItem) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.lost[item.ID] = item
}

func (m *mockMatchItemRepository) addFound(item *models.FoundItem) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.found[item.ID] = item
	m.foundOrder = append(m.foundOrder, item.ID)
}

func (m *mockMatchItemRepository) GetLostByID(ctx context.Context, id uuid.UUID) (*models.LostItem, error) {
	if item, ok := m.lost[id]; ok {
		return item, nil
	}
	return nil, repository.ErrLostItemNotFound
}

func (m *mockMatchItemRepository) GetFoundByID(ctx context.Context, id uuid.UUID) (*models.FoundItem, error) {
	if item, ok := m.found[id]; ok {
		return item, nil
	}
	return nil, repository.ErrFoundItemNotFound
}

func (m *mockMatchItemRepository) ListLostByUser(ctx context.Context, userID uuid.UUID) ([]models.LostItem, error) {
	var items []models.LostItem
	for _, item := range m.lost {
		if item.UserID == userID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (m *mockMatchItemRepository) ListFoundByOtherUsers(ctx context.Context, userID uuid.UUID) ([]models.FoundItem, error) {
	var items []models.FoundItem
	for _, id := range m.foundOrder {
		if item := m.found[id]; item.UserID != userID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (m *mockMatchItemRepository) ListLostByOtherUsers(ctx context.Context, userID uuid.UUID) ([]models.LostItem, error) {
	var items []models.LostItem
	for _, item := range m.lost {
		if item.UserID != userID {
			items = append(items, *item)
		}
	}
	return items, nil
}

// mockMatchUserRepository реализует MatchUserRepository для тестов.
type mockMatchUserRepository struct {
	users    map[uuid.UUID]*models.User
	profiles map[uuid.UUID]*models.Profile
}

func newMockMatchUserRepository() *mockMatchUserRepository {
	return &mockMatchUserRepository{
		users:    make(map[uuid.UUID]*models.User),
		profiles: make(map[uuid.UUID]*models.Profile),
	}
}

func (m *mockMatchUserRepository) addUser(username, email string) *models.User {
	user := &models.User{ID: uuid.New(), Username: username, Email: email}
	m.users[user.ID] = user
	return user
}

func (m *mockMatchUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockMatchUserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if profile, ok := m.profiles[userID]; ok {
		return profile, nil
	}
	return nil, repository.ErrProfileNotFound
}

// mockDecisionRepository реализует MatchDecisionRepository для тестов.
type mockDecisionRepository struct {
	decisions map[string]*models.MatchDecision
}

func newMockDecisionRepository() *mockDecisionRepository {
	return &mockDecisionRepository{decisions: make(map[string]*models.MatchDecision)}
}

func decisionKey(lostID, foundID, userID uuid.UUID) string {
	return fmt.Sprintf("%s|%s|%s", lostID, foundID, userID)
}

func (m *mockDecisionRepository) Get(ctx context.Context, lostID, foundID, userID uuid.UUID) (*models.MatchDecision, error) {
	if d, ok := m.decisions[decisionKey(lostID, foundID, userID)]; ok {
		return d, nil
	}
	return nil, repository.ErrDecisionNotFound
}

func (m *mockDecisionRepository) ListDecidedFoundIDs(ctx context.Context, lostID, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	ids := make(map[uuid.UUID]struct{})
	for _, d := range m.decisions {
		if d.LostItemID == lostID && d.NotifiedUserID == userID {
			ids[d.FoundItemID] = struct{}{}
		}
	}
	return ids, nil
}

func (m *mockDecisionRepository) Upsert(ctx context.Context, decision *models.MatchDecision) error {
	decision.DateUpdated = time.Now()
	copied := *decision
	m.decisions[decisionKey(decision.LostItemID, decision.FoundItemID, decision.NotifiedUserID)] = &copied
	return nil
}

func newMatchServiceForTest() (*MatchService, *mockMatchItemRepository, *mockMatchUserRepository, *mockDecisionRepository) {
	items := newMockMatchItemRepository()
	users := newMockMatchUserRepository()
	decisions := newMockDecisionRepository()
	return NewMatchService(items, users, decisions), items, users, decisions
}

func TestMatchService_FindMatches_NoThreshold(t *testing.T) {
	service, items, users, _ := newMatchServiceForTest()
	ctx := context.Background()

	owner := users.addUser("ivanov", "ivanov@example.com")
	finder := users.addUser("petrov", "petrov@example.com")

	lost := &models.LostItem{UserID: owner.ID, Name: "iPhone 13", Description: "black, cracked screen", Features: ""}
	items.addLost(lost)

	// Очень похожая находка и совершенно непохожая.
	items.addFound(&models.FoundItem{UserID: finder.ID, Name: "iPhone13", Description: "black cracked screen", Features: ""})
	items.addFound(&models.FoundItem{UserID: finder.ID, Name: "красный зонт", Description: "в горошек", Features: ""})

	matches, err := service.FindMatches(ctx, lost)
	if err != nil {
		t.Fatalf("FindMatches вернул ошибку: %v", err)
	}

	// Порога нет: возвращаются оба кандидата независимо от оценки.
	if len(matches) != 2 {
		t.Fatalf("ожидали 2 кандидатов, получили %d", len(matches))
	}

	if matches[0].Score <= 85 {
		t.Fatalf("похожая находка должна иметь высокую оценку, получили %d", matches[0].Score)
	}
	if matches[1].Score >= matches[0].Score {
		t.Fatalf("непохожая находка не должна оцениваться выше похожей")
	}
}

func TestMatchService_FindMatches_ExcludesOwnItems(t *testing.T) {
	service, items, users, _ := newMatchServiceForTest()
	ctx := context.Background()

	owner := users.addUser("ivanov", "ivanov@example.com")

	lost := &models.LostItem{UserID: owner.ID, Name: "кошелёк", Description: "чёрный", Features: ""}
	items.addLost(lost)

	// Собственная находка пользователя не должна попадать в кандидаты.
	items.addFound(&models.FoundItem{UserID: owner.ID, Name: "кошелёк", Description: "чёрный", Features: ""})

	matches, err := service.FindMatches(ctx, lost)
	if err != nil {
		t.Fatalf("FindMatches вернул ошибку: %v", err)
	}

	if len(matches) != 0 {
		t.Fatalf("собственные находки исключаются, получили %d кандидатов", len(matches))
	}
}

func TestMatchService_FindMatches_ExcludesDecidedPairs(t *testing.T) {
	service, items, users, _ := newMatchServiceForTest()
	ctx := context.Background()

	owner := users.addUser("ivanov", "ivanov@example.com")
	finder := users.addUser("petrov", "petrov@example.com")

	lost := &models.LostItem{UserID: owner.ID, Name: "ключи", Description: "синий брелок", Features: ""}
	items.addLost(lost)

	found := &models.FoundItem{UserID: finder.ID, Name: "ключи", Description: "брелок синий", Features: ""}
	items.addFound(found)

	matches, err := service.FindMatches(ctx, lost)
	if err != nil {
		t.Fatalf("FindMatches вернул ошибку: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("до решения кандидат должен показываться, получили %d", len(matches))
	}

	if _, err := service.Decide(ctx, lost.ID, found.ID, owner.ID, models.DecisionStatusIgnored); err != nil {
		t.Fatalf("Decide вернул ошибку: %v", err)
	}

	matches, err = service.FindMatches(ctx, lost)
	if err != nil {
		t.Fatalf("FindMatches вернул ошибку: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("после решения кандидат исключается, получили %d", len(matches))
	}
}

func TestMatchService_FindMatches_PhoneFallback(t *testing.T) {
	service, items, users, _ := newMatchServiceForTest()
	ctx := context.Background()

	owner := users.addUser("ivanov", "ivanov@example.com")
	finder := users.addUser("petrov", "petrov@example.com")

	lost := &models.LostItem{UserID: owner.ID, Name: "зонт", Description: "красный", Features: ""}
	items.addLost(lost)
	items.addFound(&models.FoundItem{UserID: finder.ID, Name: "зонт", Description: "красный", Features: ""})

	// Профиля с телефоном нет — подставляется "N/A".
	matches, err := service.FindMatches(ctx, lost)
	if err != nil {
		t.Fatalf("FindMatches вернул ошибку: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("ожидали одного кандидата, получили %d", len(matches))
	}
	if matches[0].FoundUserPhone != models.PhoneUnknown {
		t.Fatalf("ожидали %q, получили %q", models.PhoneUnknown, matches[0].FoundUserPhone)
	}

	// С телефоном в профиле подставляется настоящий номер.
	phone := "+79990001122"
	users.profiles[finder.ID] = &models.Profile{UserID: finder.ID, Phone: &phone}

	matches, err = service.FindMatches(ctx, lost)
	if err != nil {
		t.Fatalf("FindMatches вернул ошибку: %v", err)
	}
	if matches[0].FoundUserPhone != phone {
		t.Fatalf("ожидали %q, получили %q", phone, matches[0].FoundUserPhone)
	}
}

func TestMatchService_FindMatches_MissingOwner(t *testing.T) {
	service, _, _, _ := newMatchServiceForTest()

	if _, err := service.FindMatches(context.Background(), nil); !errors.Is(err, ErrMissingOwner) {
		t.Fatalf("ожидали ErrMissingOwner, получили %v", err)
	}

	item := &models.LostItem{ID: uuid.New()}
	if _, err := service.FindMatches(context.Background(), item); !errors.Is(err, ErrMissingOwner) {
		t.Fatalf("ожидали ErrMissingOwner для заявки без владельца, получили %v", err)
	}
}

func TestMatchService_BuildNotifications_Empty(t *testing.T) {
	service, _, users, _ := newMatchServiceForTest()

	user := users.addUser("ivanov", "ivanov@example.com")

	entries, err := service.BuildNotifications(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("BuildNotifications вернул ошибку: %v", err)
	}

	if entries == nil {
		t.Fatalf("лента должна быть пустым срезом, а не nil")
	}
	if len(entries) != 0 {
		t.Fatalf("без заявок лента пуста, получили %d записей", len(entries))
	}
}

func TestMatchService_BuildNotifications_FlattensAllLostItems(t *testing.T) {
	service, items, users, _ := newMatchServiceForTest()
	ctx := context.Background()

	owner := users.addUser("ivanov", "ivanov@example.com")
	finder := users.addUser("petrov", "petrov@example.com")

	items.addLost(&models.LostItem{UserID: owner.ID, Name: "кошелёк", Description: "чёрный", Features: ""})
	items.addLost(&models.LostItem{UserID: owner.ID, Name: "ключи", Description: "брелок", Features: ""})
	items.addFound(&models.FoundItem{UserID: finder.ID, Name: "кошелёк", Description: "чёрный", Features: ""})

	entries, err := service.BuildNotifications(ctx, owner.ID)
	if err != nil {
		t.Fatalf("BuildNotifications вернул ошибку: %v", err)
	}

	// По одной записи на каждую пару (потеряно, найдено): 2 x 1.
	if len(entries) != 2 {
		t.Fatalf("ожидали 2 записи, получили %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Type != models.NotificationTypeLostMatch {
			t.Fatalf("ожидали тип %q, получили %q", models.NotificationTypeLostMatch, entry.Type)
		}
		if entry.MatchUser != "petrov" {
			t.Fatalf("ожидали имя нашедшего petrov, получили %q", entry.MatchUser)
		}
	}
}

func TestMatchService_Decide_InvalidStatus(t *testing.T) {
	service, items, users, _ := newMatchServiceForTest()
	ctx := context.Background()

	owner := users.addUser("ivanov", "ivanov@example.com")
	lost := &models.LostItem{UserID: owner.ID, Name: "зонт", Description: "красный", Features: ""}
	items.addLost(lost)

	for _, status := range []string{"", "MAYBE", "pending", "PENDING"} {
		if _, err := service.Decide(ctx, lost.ID, uuid.New(), owner.ID, status); !errors.Is(err, apperror.ErrInvalidStatus) {
			t.Fatalf("статус %q должен отклоняться, получили %v", status, err)
		}
	}
}

func TestMatchService_Decide_LowercaseAccepted(t *testing.T) {
	service, items, users, _ := newMatchServiceForTest()
	ctx := context.Background()

	owner := users.addUser("ivanov", "ivanov@example.com")
	finder := users.addUser("petrov", "petrov@example.com")

	lost := &models.LostItem{UserID: owner.ID, Name: "зонт", Description: "красный", Features: ""}
	items.addLost(lost)
	found := &models.FoundItem{UserID: finder.ID, Name: "зонт", Description: "красный", Features: ""}
	items.addFound(found)

	decision, err := service.Decide(ctx, lost.ID, found.ID, owner.ID, "accepted")
	if err != nil {
		t.Fatalf("Decide вернул ошибку: %v", err)
	}
	if decision.Status != models.DecisionStatusAccepted {
		t.Fatalf("статус нормализуется к верхнему регистру, получили %q", decision.Status)
	}
}

func TestMatchService_Decide_OverwritesPreviousDecision(t *testing.T) {
	service, items, users, decisions := newMatchServiceForTest()
	ctx := context.Background()

	owner := users.addUser("ivanov", "ivanov@example.com")
	finder := users.addUser("petrov", "petrov@example.com")

	lost := &models.LostItem{UserID: owner.ID, Name: "ключи", Description: "брелок", Features: ""}
	items.addLost(lost)
	found := &models.FoundItem{UserID: finder.ID, Name: "ключи", Description: "брелок", Features: ""}
	items.addFound(found)

	if _, err := service.Decide(ctx, lost.ID, found.ID, owner.ID, models.DecisionStatusIgnored); err != nil {
		t.Fatalf("первое решение вернуло ошибку: %v", err)
	}

	// Повторное решение безусловно перезаписывает прежнее.
	if _, err := service.Decide(ctx, lost.ID, found.ID, owner.ID, models.DecisionStatusAccepted); err != nil {
		t.Fatalf("повторное решение вернуло ошибку: %v", err)
	}

	stored, err := decisions.Get(ctx, lost.ID, found.ID, owner.ID)
	if err != nil {
		t.Fatalf("решение должно существовать: %v", err)
	}
	if stored.Status != models.DecisionStatusAccepted {
		t.Fatalf("ожидали ACCEPTED после перезаписи, получили %q", stored.Status)
	}
	if len(decisions.decisions) != 1 {
		t.Fatalf("на тройку существует не более одной записи, получили %d", len(decisions.decisions))
	}
}

func TestMatchService_Decide_ForeignLostItem(t *testing.T) {
	service, items, users, _ := newMatchServiceForTest()
	ctx := context.Background()

	owner := users.addUser("ivanov", "ivanov@example.com")
	stranger := users.addUser("sidorov", "sidorov@example.com")

	lost := &models.LostItem{UserID: owner.ID, Name: "зонт", Description: "красный", Features: ""}
	items.addLost(lost)

	if _, err := service.Decide(ctx, lost.ID, uuid.New(), stranger.ID, models.DecisionStatusAccepted); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("чужая заявка должна отклоняться, получили %v", err)
	}
}

func TestMatchService_Decide_MissingItems(t *testing.T) {
	service, items, users, _ := newMatchServiceForTest()
	ctx := context.Background()

	owner := users.addUser("ivanov", "ivanov@example.com")
	lost := &models.LostItem{UserID: owner.ID, Name: "зонт", Description: "красный", Features: ""}
	items.addLost(lost)

	if _, err := service.Decide(ctx, uuid.New(), uuid.New(), owner.ID, models.DecisionStatusAccepted); !errors.Is(err, repository.ErrLostItemNotFound) {
		t.Fatalf("несуществующая заявка о потере должна отклоняться, получили %v", err)
	}

	if _, err := service.Decide(ctx, lost.ID, uuid.New(), owner.ID, models.DecisionStatusAccepted); !errors.Is(err, repository.ErrFoundItemNotFound) {
		t.Fatalf("несуществующая находка должна отклоняться, получили %v", err)
	}
}

func TestMatchService_GetMatchDetail(t *testing.T) {
	service, items, users, _ := newMatchServiceForTest()
	ctx := context.Background()

	owner := users.addUser("ivanov", "ivanov@example.com")
	finder := users.addUser("petrov", "petrov@example.com")

	lost := &models.LostItem{UserID: owner.ID, Name: "iPhone 13", Description: "black, cracked screen", Features: ""}
	items.addLost(lost)
	found := &models.FoundItem{UserID: finder.ID, Name: "iPhone13", Description: "black cracked screen", Features: ""}
	items.addFound(found)

	detail, err := service.GetMatchDetail(ctx, lost.ID, found.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetMatchDetail вернул ошибку: %v", err)
	}

	if detail.Score <= 85 {
		t.Fatalf("оценка должна пересчитываться, получили %d", detail.Score)
	}
	if detail.FoundUser.Username != "petrov" {
		t.Fatalf("ожидали контакты нашедшего, получили %q", detail.FoundUser.Username)
	}
	if detail.Phone != models.PhoneUnknown {
		t.Fatalf("без телефона в профиле ожидали %q, получили %q", models.PhoneUnknown, detail.Phone)
	}
	if detail.Decision != nil {
		t.Fatalf("до решения пара в состоянии PENDING, решение nil")
	}

	// Чужая заявка о потере недоступна.
	if _, err := service.GetMatchDetail(ctx, lost.ID, found.ID, finder.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("чужая заявка должна отклоняться, получили %v", err)
	}

	// После решения карточка содержит статус.
	if _, err := service.Decide(ctx, lost.ID, found.ID, owner.ID, models.DecisionStatusAccepted); err != nil {
		t.Fatalf("Decide вернул ошибку: %v", err)
	}

	detail, err = service.GetMatchDetail(ctx, lost.ID, found.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetMatchDetail вернул ошибку: %v", err)
	}
	if detail.Decision == nil || detail.Decision.Status != models.DecisionStatusAccepted {
		t.Fatalf("после решения карточка содержит статус ACCEPTED")
	}
}
