package service

import (
	"context"
	"errors"
	"time"

	"aura-server/internal/model"
	"aura-server/pkg/util"
)

// ErrWrongPassword is returned when the current password does not match on a
// password change.
var ErrWrongPassword = errors.New("current password is incorrect")

// UserService implements profile management.
type UserService struct {
	users UserStore
}

// NewUserService creates a UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// GetProfile returns a user's profile.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfileInput carries the updatable profile fields. Nil means "leave
// unchanged".
type UpdateProfileInput struct {
	Name                  *string
	BirthDate             *time.Time
	Gender                *string
	MedicalConditions     *string
	Interests             *string
	ActivityLevel         *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	Preferences           map[string]interface{}
}

// UpdateProfile applies the non-nil fields and returns the updated profile.
// Email is not updatable.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.BirthDate != nil {
		fields["birth_date"] = *input.BirthDate
	}
	if input.Gender != nil {
		fields["gender"] = *input.Gender
	}
	if input.MedicalConditions != nil {
		fields["medical_conditions"] = *input.MedicalConditions
	}
	if input.Interests != nil {
		fields["interests"] = *input.Interests
	}
	if input.ActivityLevel != nil {
		fields["activity_level"] = *input.ActivityLevel
	}
	if input.EmergencyContactName != nil {
		fields["emergency_contact_name"] = *input.EmergencyContactName
	}
	if input.EmergencyContactPhone != nil {
		fields["emergency_contact_phone"] = *input.EmergencyContactPhone
	}
	if input.Preferences != nil {
		fields["preferences"] = input.Preferences
	}

	if len(fields) == 0 {
		return user, nil
	}

	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// ChangePassword verifies the current password and stores a new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !util.CheckPassword(currentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdateFields(ctx, userID, map[string]interface{}{"password_hash": hash})
}
