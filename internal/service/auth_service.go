package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"aura-server/internal/model"
	"aura-server/pkg/jwt"
	"aura-server/pkg/util"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrUserNotFound       = errors.New("user not found")
)

// UserStore is the persistence surface for users.
// *repository.UserRepository implements it.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
}

// TokenCache covers the Redis operations the auth flow needs: token
// revocation and the login-attempt limiter. *cache.RedisCache implements it.
type TokenCache interface {
	BlacklistToken(ctx context.Context, tokenHash string, expireAt time.Time) error
	IsTokenBlacklisted(ctx context.Context, tokenHash string) bool
	LoginAttempts(ctx context.Context, email string) (int, error)
	RecordLoginFailure(ctx context.Context, email string) error
	ClearLoginAttempts(ctx context.Context, email string) error
	LoginAttemptLimit() int
}

// AuthService implements registration, login, logout and token refresh.
type AuthService struct {
	users UserStore
	cache TokenCache
	jwt   *jwt.JWTService

	now func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(users UserStore, cache TokenCache, jwtService *jwt.JWTService) *AuthService {
	return &AuthService{
		users: users,
		cache: cache,
		jwt:   jwtService,
		now:   time.Now,
	}
}

// RegisterInput carries the fields collected at registration.
type RegisterInput struct {
	Name                  string
	Email                 string
	Password              string
	BirthDate             *time.Time
	Gender                string
	MedicalConditions     *string
	Interests             *string
	ActivityLevel         string
	EmergencyContactName  string
	EmergencyContactPhone string
	Preferences           map[string]interface{}
}

// TokenPair is the result of a successful authentication.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime in seconds
}

// Register creates a user account and logs the user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, *TokenPair, error) {
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailTaken
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	activityLevel := input.ActivityLevel
	if activityLevel == "" {
		activityLevel = model.ActivityLevelModerate
	}

	user := &model.User{
		Name:                  input.Name,
		Email:                 input.Email,
		PasswordHash:          hash,
		BirthDate:             input.BirthDate,
		Gender:                input.Gender,
		MedicalConditions:     input.MedicalConditions,
		Interests:             input.Interests,
		ActivityLevel:         activityLevel,
		EmergencyContactName:  input.EmergencyContactName,
		EmergencyContactPhone: input.EmergencyContactPhone,
		Preferences:           input.Preferences,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Login verifies the credentials and issues tokens. Failed attempts are
// counted per email; past the limit the account is locked until the window
// expires.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	attempts, err := s.cache.LoginAttempts(ctx, email)
	if err == nil && attempts >= s.cache.LoginAttemptLimit() {
		return nil, nil, ErrTooManyAttempts
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !util.CheckPassword(password, user.PasswordHash) {
		// Counting failures for unknown emails too keeps enumeration
		// equally expensive.
		_ = s.cache.RecordLoginFailure(ctx, email)
		return nil, nil, ErrInvalidCredentials
	}

	_ = s.cache.ClearLoginAttempts(ctx, email)

	now := s.now()
	if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{"last_active_at": now}); err != nil {
		return nil, nil, err
	}
	user.LastActiveAt = &now

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Logout revokes the presented access token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		// An invalid or already expired token needs no revocation.
		return nil
	}
	return s.cache.BlacklistToken(ctx, HashToken(tokenString), claims.ExpiresAt.Time)
}

// Refresh exchanges a valid refresh token for a fresh token pair and revokes
// the used refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if s.cache.IsTokenBlacklisted(ctx, HashToken(refreshToken)) {
		return nil, jwt.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.cache.BlacklistToken(ctx, HashToken(refreshToken), claims.ExpiresAt.Time); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *model.User) (*TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwt.GetAccessExpire().Seconds()),
	}, nil
}

// HashToken returns the hex SHA256 of a token. Blacklist keys store the hash
// rather than the raw token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
