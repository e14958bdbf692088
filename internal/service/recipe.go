package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/models"
	"github.com/foodgram-app/backend/internal/types"
)

// ImageStore persists a recipe image reference and returns the URL to
// keep on the recipe. A nil store leaves the reference as submitted.
type ImageStore interface {
	Store(ctx context.Context, image string) (string, error)
}

// RecipeService owns the recipe write path: validated, atomic
// persistence of a recipe together with its ingredient rows and tag
// set.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// ingredientLine is a validated (ingredient, amount) pair ready to
// persist.
type ingredientLine struct {
	ingredientID uuid.UUID
	amount       int
}

// Create validates the submitted composition and persists the recipe,
// its ingredient rows and its tag set as one transaction. The author
// is always the authenticated caller, never request payload.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	verr := NewValidationError()
	lines, err := s.resolveIngredients(ctx, req.Ingredients, verr)
	if err != nil {
		return nil, err
	}
	if len(req.Tags) == 0 {
		verr.Add("tags", "at least one tag is required")
	}
	tags, err := s.resolveTags(ctx, req.Tags, verr)
	if err != nil {
		return nil, err
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	image, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return fmt.Errorf("set tags: %w", err)
		}
		return insertIngredientRows(tx, recipe.ID, lines)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

// Update applies a partial update. Nil request fields stay untouched.
// A non-nil ingredient or tag slice replaces the prior association set
// in full, under the same validation rules as Create; the replacement
// happens inside the transaction so no reader sees a recipe with its
// ingredients missing.
func (s *RecipeService) Update(ctx context.Context, callerID, recipeID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != callerID {
		return nil, ErrNotOwner
	}

	verr := NewValidationError()
	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			verr.Add("name", "name must not be blank")
		}
		updates["name"] = *req.Name
	}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.CookingTime != nil {
		if *req.CookingTime < 1 {
			verr.Add("cooking_time", "cooking time must be a positive integer")
		}
		updates["cooking_time"] = *req.CookingTime
	}

	var lines []ingredientLine
	if req.Ingredients != nil {
		var err error
		lines, err = s.resolveIngredients(ctx, *req.Ingredients, verr)
		if err != nil {
			return nil, err
		}
	}
	var tags []models.Tag
	if req.Tags != nil {
		var err error
		tags, err = s.resolveTags(ctx, *req.Tags, verr)
		if err != nil {
			return nil, err
		}
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	if req.Image != nil && *req.Image != "" {
		image, err := s.storeImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		updates["image"] = image
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
				return fmt.Errorf("update recipe: %w", err)
			}
		}
		if req.Tags != nil {
			assoc := tx.Model(&recipe).Association("Tags")
			if len(tags) == 0 {
				if err := assoc.Clear(); err != nil {
					return fmt.Errorf("clear tags: %w", err)
				}
			} else if err := assoc.Replace(tags); err != nil {
				return fmt.Errorf("replace tags: %w", err)
			}
		}
		if req.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("clear ingredients: %w", err)
			}
			return insertIngredientRows(tx, recipe.ID, lines)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipeID)
}

// Get loads a recipe with its author, tags and resolved ingredient
// rows.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns recipes newest first, optionally filtered by author.
// limit <= 0 means no limit.
func (s *RecipeService) List(ctx context.Context, authorID *uuid.UUID, limit, offset int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	query := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("pub_date DESC")
	if authorID != nil {
		query = query.Where("author_id = ?", *authorID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Delete removes the recipe and all rows owned by or joined to it in
// one transaction.
func (s *RecipeService) Delete(ctx context.Context, callerID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != callerID {
		return ErrNotOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.ShoppingCartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// resolveIngredients checks the submitted ingredient lines and records
// every violation it can detect: empty list, repeated ids, non-positive
// amounts, ids that resolve to nothing. Duplicates reject the request
// rather than silently merging amounts.
func (s *RecipeService) resolveIngredients(ctx context.Context, items []types.IngredientAmount, verr *ValidationError) ([]ingredientLine, error) {
	if len(items) == 0 {
		verr.Add("ingredients", "at least one ingredient is required")
		return nil, nil
	}

	seen := make(map[uuid.UUID]bool, len(items))
	reported := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			if !reported[item.ID] {
				verr.Add("ingredients", fmt.Sprintf("ingredient %s is listed more than once", item.ID))
				reported[item.ID] = true
			}
			continue
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
		if item.Amount < 1 {
			verr.Add("ingredients", fmt.Sprintf("amount for ingredient %s must be a positive integer", item.ID))
		}
	}

	var found []models.Ingredient
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("resolve ingredients: %w", err)
	}
	exists := make(map[uuid.UUID]bool, len(found))
	for _, ing := range found {
		exists[ing.ID] = true
	}
	for _, id := range ids {
		if !exists[id] {
			verr.Add("ingredients", fmt.Sprintf("ingredient %s does not exist", id))
		}
	}
	if !verr.Empty() {
		return nil, nil
	}

	lines := make([]ingredientLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, ingredientLine{ingredientID: item.ID, amount: item.Amount})
	}
	return lines, nil
}

// resolveTags checks that every tag id references an existing tag.
// Tags are only referenced here, never created.
func (s *RecipeService) resolveTags(ctx context.Context, ids []uuid.UUID, verr *ValidationError) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}
	exists := make(map[uuid.UUID]bool, len(tags))
	for _, tag := range tags {
		exists[tag.ID] = true
	}
	for _, id := range ids {
		if !exists[id] {
			verr.Add("tags", fmt.Sprintf("tag %s does not exist", id))
		}
	}
	return tags, nil
}

func (s *RecipeService) storeImage(ctx context.Context, image string) (string, error) {
	if s.images == nil {
		return image, nil
	}
	stored, err := s.images.Store(ctx, image)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return stored, nil
}

func insertIngredientRows(tx *gorm.DB, recipeID uuid.UUID, lines []ingredientLine) error {
	rows := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.ingredientID,
			Amount:       line.amount,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert ingredient rows: %w", err)
	}
	return nil
}
