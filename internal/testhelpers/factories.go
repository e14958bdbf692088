package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/models"
)

// TestPassword is the plaintext behind every factory-created account.
const TestPassword = "testpass123"

// CreateTestUser inserts an active user whose password is TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	user := models.User{
		Email:        email,
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return &user
}

func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient %s: %v", name, err)
	}
	return &ingredient
}

func CreateTestTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Color: "#49B64E", Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create test tag %s: %v", slug, err)
	}
	return &tag
}

// CreateTestRecipe inserts a recipe with one ingredient row and one tag
// directly through the store, bypassing service validation.
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string) *models.Recipe {
	t.Helper()

	ingredient := CreateTestIngredient(t, db, "ingredient for "+name, "g")
	tag := CreateTestTag(t, db, "tag for "+name, fmt.Sprintf("tag-%s", uuid.NewString()))

	recipe := models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "http://example.com/" + name + ".png",
		Text:        "How to cook " + name,
		CookingTime: 10,
		Tags:        []models.Tag{*tag},
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe %s: %v", name, err)
	}
	row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredient.ID, Amount: 100}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to create test recipe ingredient: %v", err)
	}
	return &recipe
}
