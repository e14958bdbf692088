package database

import (
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/models"
)

// RunMigrations brings the schema up to date. AutoMigrate covers both
// the postgres deployment and the sqlite databases used in tests.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.AuthToken{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCartItem{},
	)
}
