// Package handler implements the HTTP endpoints on top of the service
// layer.
package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"aura-server/internal/middleware"
	"aura-server/internal/service"
	"aura-server/pkg/response"
)

// birthDateLayout is the wire format for birth dates and entry dates.
const birthDateLayout = "2006-01-02"

// AuthHandler handles registration, login, logout and token refresh.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Name                  string                 `json:"name" binding:"required,max=255"`
	Email                 string                 `json:"email" binding:"required,email"`
	Password              string                 `json:"password" binding:"required,min=8"`
	BirthDate             string                 `json:"birth_date" binding:"omitempty"`
	Gender                string                 `json:"gender" binding:"omitempty,oneof=male female other"`
	MedicalConditions     *string                `json:"medical_conditions"`
	Interests             *string                `json:"interests"`
	ActivityLevel         string                 `json:"activity_level" binding:"omitempty,oneof=low moderate high"`
	EmergencyContactName  string                 `json:"emergency_contact_name"`
	EmergencyContactPhone string                 `json:"emergency_contact_phone"`
	Preferences           map[string]interface{} `json:"preferences"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	User   interface{}        `json:"user,omitempty"`
	Tokens *service.TokenPair `json:"tokens"`
}

// Register creates a new account.
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "datos de registro inválidos: "+err.Error())
		return
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		parsed, err := time.Parse(birthDateLayout, req.BirthDate)
		if err != nil {
			response.ValidationError(c, "fecha de nacimiento inválida, usa el formato AAAA-MM-DD")
			return
		}
		birthDate = &parsed
	}

	user, tokens, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:                  req.Name,
		Email:                 req.Email,
		Password:              req.Password,
		BirthDate:             birthDate,
		Gender:                req.Gender,
		MedicalConditions:     req.MedicalConditions,
		Interests:             req.Interests,
		ActivityLevel:         req.ActivityLevel,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		Preferences:           req.Preferences,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.UserExists(c)
		default:
			response.InternalError(c, "no se pudo completar el registro")
		}
		return
	}

	response.CreatedWithMessage(c, "registro exitoso", AuthResponse{User: user, Tokens: tokens})
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the credentials and issues a token pair.
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "datos de acceso inválidos")
		return
	}

	user, tokens, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTooManyAttempts):
			response.TooManyRequests(c, "demasiados intentos fallidos, inténtalo más tarde")
		case errors.Is(err, service.ErrInvalidCredentials):
			response.PasswordWrong(c)
		default:
			response.InternalError(c, "no se pudo iniciar sesión")
		}
		return
	}

	response.SuccessWithMessage(c, "inicio de sesión exitoso", AuthResponse{User: user, Tokens: tokens})
}

// Logout blacklists the current access token.
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.GetToken(c)
	if token == "" {
		response.BadRequest(c, "no se encontró el token de la sesión")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		response.InternalError(c, "no se pudo cerrar la sesión")
		return
	}

	response.SuccessWithMessage(c, "sesión cerrada", nil)
}

// RefreshRequest is the token refresh payload.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a refresh token for a new token pair.
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "se requiere el refresh token")
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Unauthorized(c, "refresh token inválido o expirado")
		return
	}

	response.Success(c, AuthResponse{Tokens: tokens})
}
