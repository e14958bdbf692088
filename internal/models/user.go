package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account record. Email is the login identity; username is
// the public display handle shown on recipes.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Subscription links a follower to a recipe author. A user follows an
// author at most once.
type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_user_author" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_user_author" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// AuthToken is the opaque bearer token handed out at login. At most one
// live token per user; repeated logins return the same key.
type AuthToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	Key       string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"-"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *AuthToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
