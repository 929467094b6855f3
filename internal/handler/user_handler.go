package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"aura-server/internal/middleware"
	"aura-server/internal/service"
	"aura-server/pkg/response"
)

// UserHandler handles profile management.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns the authenticated user's profile.
// @Router /api/v1/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.UserNotFound(c)
			return
		}
		response.InternalError(c, "no se pudo cargar el perfil")
		return
	}
	response.Success(c, user)
}

// UpdateProfileRequest carries the updatable profile fields. Absent fields
// are left unchanged.
type UpdateProfileRequest struct {
	Name                  *string                `json:"name" binding:"omitempty,max=255"`
	BirthDate             *string                `json:"birth_date"`
	Gender                *string                `json:"gender" binding:"omitempty,oneof=male female other"`
	MedicalConditions     *string                `json:"medical_conditions"`
	Interests             *string                `json:"interests"`
	ActivityLevel         *string                `json:"activity_level" binding:"omitempty,oneof=low moderate high"`
	EmergencyContactName  *string                `json:"emergency_contact_name"`
	EmergencyContactPhone *string                `json:"emergency_contact_phone"`
	Preferences           map[string]interface{} `json:"preferences"`
}

// UpdateProfile applies a partial profile update.
// @Router /api/v1/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "datos de perfil inválidos: "+err.Error())
		return
	}

	var birthDate *time.Time
	if req.BirthDate != nil {
		parsed, err := time.Parse(birthDateLayout, *req.BirthDate)
		if err != nil {
			response.ValidationError(c, "fecha de nacimiento inválida, usa el formato AAAA-MM-DD")
			return
		}
		birthDate = &parsed
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), service.UpdateProfileInput{
		Name:                  req.Name,
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
		if errors.Is(err, service.ErrUserNotFound) {
			response.UserNotFound(c)
			return
		}
		response.InternalError(c, "no se pudo actualizar el perfil")
		return
	}

	response.SuccessWithMessage(c, "perfil actualizado", user)
}

// ChangePasswordRequest is the password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword verifies the current password and replaces it.
// @Router /api/v1/profile/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "la nueva contraseña debe tener al menos 8 caracteres")
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), middleware.GetUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			response.PasswordWrong(c)
		case errors.Is(err, service.ErrUserNotFound):
			response.UserNotFound(c)
		default:
			response.InternalError(c, "no se pudo cambiar la contraseña")
		}
		return
	}

	response.SuccessWithMessage(c, "contraseña actualizada", nil)
}
