package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite is a (user, recipe) membership row. The composite unique
// index is what makes concurrent adds collapse to a single row.
type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// ShoppingCartItem mirrors Favorite for the shopping cart.
type ShoppingCartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *ShoppingCartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (ShoppingCartItem) TableName() string {
	return "shopping_cart_items"
}
