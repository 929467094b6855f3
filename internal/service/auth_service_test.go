package service

import (
	"context"
	"testing"
	"time"

	"aura-server/internal/model"
	"aura-server/pkg/jwt"
)

// fakeUserRepo implements the full UserStore surface.
type fakeUserRepo struct {
	nextID int64
	users  map[int64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*model.User{}}
}

func (s *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	s.nextID++
	user.ID = s.nextID
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *fakeUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	user, err := s.GetByEmail(ctx, email)
	return user != nil, err
}

func (s *fakeUserRepo) UpdateFields(_ context.Context, id int64, fields map[string]interface{}) error {
	user, ok := s.users[id]
	if !ok {
		return nil
	}
	if v, ok := fields["password_hash"]; ok {
		user.PasswordHash = v.(string)
	}
	if v, ok := fields["last_active_at"]; ok {
		at := v.(time.Time)
		user.LastActiveAt = &at
	}
	if v, ok := fields["name"]; ok {
		user.Name = v.(string)
	}
	if v, ok := fields["activity_level"]; ok {
		user.ActivityLevel = v.(string)
	}
	return nil
}

// fakeTokenCache implements TokenCache in memory.
type fakeTokenCache struct {
	blacklist map[string]bool
	attempts  map[string]int
}

func newFakeTokenCache() *fakeTokenCache {
	return &fakeTokenCache{blacklist: map[string]bool{}, attempts: map[string]int{}}
}

func (c *fakeTokenCache) BlacklistToken(_ context.Context, tokenHash string, _ time.Time) error {
	c.blacklist[tokenHash] = true
	return nil
}

func (c *fakeTokenCache) IsTokenBlacklisted(_ context.Context, tokenHash string) bool {
	return c.blacklist[tokenHash]
}

func (c *fakeTokenCache) LoginAttempts(_ context.Context, email string) (int, error) {
	return c.attempts[email], nil
}

func (c *fakeTokenCache) RecordLoginFailure(_ context.Context, email string) error {
	c.attempts[email]++
	return nil
}

func (c *fakeTokenCache) ClearLoginAttempts(_ context.Context, email string) error {
	delete(c.attempts, email)
	return nil
}

func (c *fakeTokenCache) LoginAttemptLimit() int { return 5 }

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeTokenCache) {
	users := newFakeUserRepo()
	tokenCache := newFakeTokenCache()
	jwtService := jwt.NewJWTService("test-secret-at-least-32-characters!", time.Hour, 24*time.Hour)
	return NewAuthService(users, tokenCache, jwtService), users, tokenCache
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	user, tokens, err := svc.Register(ctx, RegisterInput{
		Name:     "María",
		Email:    "maria@example.com",
		Password: "contraseña-segura",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user id to be assigned")
	}
	if user.ActivityLevel != model.ActivityLevelModerate {
		t.Fatalf("activity level should default to moderate, got %q", user.ActivityLevel)
	}
	if user.PasswordHash == "contraseña-segura" {
		t.Fatalf("password must be stored hashed")
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected both tokens")
	}

	loggedIn, _, err := svc.Login(ctx, "maria@example.com", "contraseña-segura")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.LastActiveAt == nil {
		t.Fatalf("login should refresh last_active_at")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "12345678"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, _, err := svc.Register(ctx, RegisterInput{Name: "B", Email: "a@example.com", Password: "12345678"}); err != ErrEmailTaken {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginLockoutAfterFailures(t *testing.T) {
	svc, _, tokenCache := newAuthFixture()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "12345678"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, _, err := svc.Login(ctx, "a@example.com", "incorrecta"); err != ErrInvalidCredentials {
			t.Fatalf("attempt %d: err = %v, want ErrInvalidCredentials", i, err)
		}
	}

	// Even the right password is rejected while locked.
	if _, _, err := svc.Login(ctx, "a@example.com", "12345678"); err != ErrTooManyAttempts {
		t.Fatalf("err = %v, want ErrTooManyAttempts", err)
	}

	// Clearing the window unlocks the account and a good login resets it.
	tokenCache.attempts = map[string]int{}
	if _, _, err := svc.Login(ctx, "a@example.com", "12345678"); err != nil {
		t.Fatalf("Login after unlock failed: %v", err)
	}
	if tokenCache.attempts["a@example.com"] != 0 {
		t.Fatalf("successful login should clear the counter")
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	svc, _, tokenCache := newAuthFixture()
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "12345678"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.Logout(ctx, tokens.AccessToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if !tokenCache.IsTokenBlacklisted(ctx, HashToken(tokens.AccessToken)) {
		t.Fatalf("access token should be blacklisted after logout")
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _, tokenCache := newAuthFixture()
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "12345678"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	fresh, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if fresh.AccessToken == "" || fresh.RefreshToken == "" {
		t.Fatalf("expected a full token pair")
	}
	if !tokenCache.IsTokenBlacklisted(ctx, HashToken(tokens.RefreshToken)) {
		t.Fatalf("used refresh token should be revoked")
	}

	// The revoked refresh token cannot be replayed.
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); err == nil {
		t.Fatalf("replayed refresh token should be rejected")
	}

	// An access token is not a refresh token.
	if _, err := svc.Refresh(ctx, tokens.AccessToken); err == nil {
		t.Fatalf("access token must not refresh")
	}
}
