package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// IngredientService serves the read-only ingredient catalog.
type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// List returns ingredients ordered by name, optionally narrowed by a
// case-insensitive name prefix. Prefix, not substring: "Mil" matches
// "Milk" but not "Almilk".
func (s *IngredientService) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name")
	if namePrefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(namePrefix)) + "%"
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *IngredientService) Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// TagService serves the read-only tag catalog.
type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}
