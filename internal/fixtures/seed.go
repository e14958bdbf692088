package fixtures

import (
	"fmt"
	"math/rand"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/models"
)

// SeedTags ensures the three standard meal tags exist.
func SeedTags(db *gorm.DB) ([]models.Tag, error) {
	data := []models.Tag{
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
		{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
	}
	tags := make([]models.Tag, 0, len(data))
	for _, want := range data {
		var tag models.Tag
		res := db.Where("slug = ?", want.Slug).Attrs(want).FirstOrCreate(&tag)
		if res.Error != nil {
			return nil, fmt.Errorf("seed tag %q: %w", want.Slug, res.Error)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// SeedTestData creates demo users, tags and recipes for local
// development. It is idempotent for users and tags; recipes are
// created fresh each run.
func SeedTestData(db *gorm.DB) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("testpass123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var users []models.User
	for i := 1; i <= 3; i++ {
		var user models.User
		res := db.Where("username = ?", fmt.Sprintf("user%d", i)).
			Attrs(models.User{
				Email:        fmt.Sprintf("user%d@test.com", i),
				Username:     fmt.Sprintf("user%d", i),
				PasswordHash: string(hashed),
				IsActive:     true,
			}).
			FirstOrCreate(&user)
		if res.Error != nil {
			return fmt.Errorf("seed user %d: %w", i, res.Error)
		}
		users = append(users, user)
	}

	tags, err := SeedTags(db)
	if err != nil {
		return err
	}

	var ingredients []models.Ingredient
	if err := db.Limit(10).Find(&ingredients).Error; err != nil {
		return err
	}
	if len(ingredients) < 3 {
		return fmt.Errorf("not enough ingredients loaded; run the ingredient loader first")
	}

	for i, user := range users {
		recipe := models.Recipe{
			AuthorID:    user.ID,
			Name:        fmt.Sprintf("Test recipe %d", i+1),
			Text:        "A sample recipe created by the seeder.",
			Image:       fmt.Sprintf("https://example.com/recipes/test%d.jpg", i+1),
			CookingTime: 10 + rand.Intn(50),
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&recipe).Error; err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Tags").Replace(tags[:1+rand.Intn(len(tags))]); err != nil {
				return err
			}
			perm := rand.Perm(len(ingredients))
			for _, idx := range perm[:3] {
				row := models.RecipeIngredient{
					RecipeID:     recipe.ID,
					IngredientID: ingredients[idx].ID,
					Amount:       1 + rand.Intn(5),
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("seed recipe for %s: %w", user.Username, err)
		}
	}
	return nil
}
