package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identity is what the identity provider asserts about the caller of the
// current request. It is not persisted; User is the row it maps onto.
type Identity struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	ImageURL   string
}

type User struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	ExternalID string  `gorm:"uniqueIndex;not null" json:"externalId"`
	Email      string  `json:"email"`
	Name       *string `json:"name"`
	ImageURL   string  `json:"imageUrl"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
