package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkovalenko/lostfound-backend/internal/models"
	"github.com/mkovalenko/lostfound-backend/internal/repository"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	usersByEmail    map[string]*models.User
	usersByUsername map[string]*models.User
	usersByID       map[uuid.UUID]*models.User
	profiles        map[uuid.UUID]*models.Profile
	sessions        map[string]*models.Session
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail:    make(map[string]*models.User),
		usersByUsername: make(map[string]*models.User),
		usersByID:       make(map[uuid.UUID]*models.User),
		profiles:        make(map[uuid.UUID]*models.Profile),
		sessions:        make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User, profile *models.Profile) error {
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true
	m.usersByEmail[user.Email] = user
	m.usersByUsername[user.Username] = user
	m.usersByID[user.ID] = user

	// Профиль создаётся в той же транзакции, что и пользователь.
	profile.UserID = user.ID
	profile.UpdatedAt = now
	m.profiles[user.ID] = profile
	return nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := m.usersByUsername[username]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if profile, ok := m.profiles[userID]; ok {
		return profile, nil
	}
	return nil, repository.ErrProfileNotFound
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	delete(m.sessions, refreshToken)
	return nil
}

func (m *mockAuthRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if user, ok := m.usersByID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	service := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	phone := "+79990001122"
	res, err := service.Register(ctx, RegisterInput{
		Email:    "student@example.com",
		Password: "Password123",
		Phone:    &phone,
	}, map[string]string{"ip": "127.0.0.1"})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if res.User.ID == uuid.Nil {
		t.Fatalf("user ID должен быть установлен")
	}

	if res.User.Username != "student" {
		t.Fatalf("имя пользователя выводится из email, получили %q", res.User.Username)
	}

	if res.Profile == nil || res.Profile.Phone == nil || *res.Profile.Phone != phone {
		t.Fatalf("профиль с телефоном должен быть создан вместе с пользователем")
	}

	if len(repo.sessions) != 1 {
		t.Fatalf("ожидалась одна сессия, получили %d", len(repo.sessions))
	}

	loginRes, err := service.Login(ctx, LoginInput{
		Login:    "student@example.com",
		Password: "Password123",
	}, nil)
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}

	if loginRes.TokenPair.AccessToken == "" {
		t.Fatalf("ожидался access токен")
	}
}

func TestAuthService_LoginByUsername(t *testing.T) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	service := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	if _, err := service.Register(ctx, RegisterInput{
		Email:    "ivanov@example.com",
		Password: "Password123",
		Username: "ivanov",
	}, nil); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	// Логин по имени пользователя вместо email.
	res, err := service.Login(ctx, LoginInput{Login: "ivanov", Password: "Password123"}, nil)
	if err != nil {
		t.Fatalf("login by username returned error: %v", err)
	}
	if res.User.Email != "ivanov@example.com" {
		t.Fatalf("найден не тот пользователь: %q", res.User.Email)
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	service := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	if _, err := service.Register(ctx, RegisterInput{
		Email:    "dup@example.com",
		Password: "Password123",
	}, nil); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if _, err := service.Register(ctx, RegisterInput{
		Email:    "dup@example.com",
		Password: "Password123",
	}, nil); err == nil {
		t.Fatalf("повторная регистрация с тем же email должна отклоняться")
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	service := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	if _, err := service.Register(ctx, RegisterInput{
		Email:    "user@example.com",
		Password: "Password123",
	}, nil); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if _, err := service.Login(ctx, LoginInput{Login: "user@example.com", Password: "wrong"}, nil); err == nil {
		t.Fatalf("неверный пароль должен отклоняться")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	service := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		Username:     "user",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	repo.usersByEmail[user.Email] = user
	repo.usersByID[user.ID] = user

	tokenPair, refreshExp, err := tokenManager.GeneratePair(user)
	if err != nil {
		t.Fatalf("не удалось сгенерировать токены: %v", err)
	}

	repo.sessions[tokenPair.RefreshToken] = &models.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}

	newPair, err := service.Refresh(ctx, tokenPair.RefreshToken, nil)
	if err != nil {
		t.Fatalf("refresh вернул ошибку: %v", err)
	}

	if newPair.RefreshToken == tokenPair.RefreshToken {
		t.Fatalf("ожидался новый refresh токен")
	}

	if _, ok := repo.sessions[tokenPair.RefreshToken]; ok {
		t.Fatalf("старая сессия должна быть удалена")
	}
}
