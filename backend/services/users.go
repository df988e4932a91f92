package services

import (
	"errors"
	"fmt"
	"strings"

	"pathtracker/backend/models"

	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Ensure returns the user row backing the given identity, creating it on
// first sight. Every use-case calls this once at the top; the row is never
// created implicitly anywhere else.
func (s *UserService) Ensure(identity *models.Identity) (*models.User, error) {
	if identity == nil || identity.ExternalID == "" {
		return nil, ErrUnauthenticated
	}

	var user models.User
	err := s.DB.Where("external_id = ?", identity.ExternalID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	user = models.User{
		ExternalID: identity.ExternalID,
		Email:      identity.Email,
		Name:       displayName(identity),
		ImageURL:   identity.ImageURL,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &user, nil
}

func displayName(identity *models.Identity) *string {
	name := strings.TrimSpace(strings.TrimSpace(identity.FirstName) + " " + strings.TrimSpace(identity.LastName))
	if name == "" {
		return nil
	}
	return &name
}
