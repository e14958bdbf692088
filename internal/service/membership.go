package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram-app/backend/internal/models"
)

// MembershipService owns the favorite and shopping-cart toggles. Adds
// are upserts on the (user, recipe) unique constraint: a concurrent
// duplicate insert loses the race at the store, not in application
// code. Removes are unconditional and succeed regardless of prior
// state.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// AddFavorite records the membership, reporting created=false when the
// pair already existed.
func (s *MembershipService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Favorite, bool, error) {
	fav := models.Favorite{UserID: userID, RecipeID: recipeID}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoNothing: true,
	}).Create(&fav)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0

	// Re-read into a fresh struct in either case: after a lost insert
	// fav holds a primary key that was never written, which gorm would
	// otherwise fold into the lookup, and the created path still needs
	// the recipe preloaded for the short projection.
	var row models.Favorite
	if err := s.db.WithContext(ctx).Preload("Recipe").
		First(&row, "user_id = ? AND recipe_id = ?", userID, recipeID).Error; err != nil {
		return nil, false, err
	}
	return &row, created, nil
}

// RemoveFavorite deletes the membership if present. The removed flag
// reports whether a row existed; either way the call succeeds.
func (s *MembershipService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	return res.RowsAffected > 0, res.Error
}

// ListFavorites returns the user's favorites with recipes preloaded.
func (s *MembershipService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).Preload("Recipe").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// AddCartItem mirrors AddFavorite for the shopping cart.
func (s *MembershipService) AddCartItem(ctx context.Context, userID, recipeID uuid.UUID) (*models.ShoppingCartItem, bool, error) {
	item := models.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoNothing: true,
	}).Create(&item)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0

	var row models.ShoppingCartItem
	if err := s.db.WithContext(ctx).Preload("Recipe").
		First(&row, "user_id = ? AND recipe_id = ?", userID, recipeID).Error; err != nil {
		return nil, false, err
	}
	return &row, created, nil
}

// RemoveCartItem mirrors RemoveFavorite for the shopping cart.
func (s *MembershipService) RemoveCartItem(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCartItem{})
	return res.RowsAffected > 0, res.Error
}

// ListCartItems returns the user's shopping cart with recipes
// preloaded.
func (s *MembershipService) ListCartItems(ctx context.Context, userID uuid.UUID) ([]models.ShoppingCartItem, error) {
	var items []models.ShoppingCartItem
	err := s.db.WithContext(ctx).Preload("Recipe").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
