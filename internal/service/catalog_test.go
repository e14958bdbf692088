package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-app/backend/internal/models"
	"github.com/foodgram-app/backend/internal/service"
	"github.com/foodgram-app/backend/internal/testhelpers"
)

func TestIngredientPrefixSearch(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewIngredientService(db)
	ctx := context.Background()

	testhelpers.CreateTestIngredient(t, db, "Milk", "ml")
	testhelpers.CreateTestIngredient(t, db, "Mild cheddar", "g")
	testhelpers.CreateTestIngredient(t, db, "Almond milk", "ml")
	testhelpers.CreateTestIngredient(t, db, "Salt", "g")

	t.Run("prefix not substring", func(t *testing.T) {
		found, err := svc.List(ctx, "Mil")
		require.NoError(t, err)
		names := ingredientNames(found)
		assert.Equal(t, []string{"Mild cheddar", "Milk"}, names)
	})

	t.Run("case insensitive", func(t *testing.T) {
		found, err := svc.List(ctx, "mIL")
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("empty prefix returns everything", func(t *testing.T) {
		found, err := svc.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, found, 4)
	})

	t.Run("no match", func(t *testing.T) {
		found, err := svc.List(ctx, "xyz")
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

// LIKE metacharacters in the query are literals, not wildcards.
func TestIngredientSearchEscapesWildcards(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewIngredientService(db)
	ctx := context.Background()

	testhelpers.CreateTestIngredient(t, db, "100% rye flour", "g")
	testhelpers.CreateTestIngredient(t, db, "100g packets", "pcs")

	found, err := svc.List(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100% rye flour", found[0].Name)
}

func TestIngredientGet(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewIngredientService(db)
	ctx := context.Background()

	ingredient := testhelpers.CreateTestIngredient(t, db, "Sugar", "g")

	got, err := svc.Get(ctx, ingredient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sugar", got.Name)
	assert.Equal(t, "g", got.MeasurementUnit)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTagCatalog(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewTagService(db)
	ctx := context.Background()

	breakfast := testhelpers.CreateTestTag(t, db, "Breakfast", "breakfast")
	testhelpers.CreateTestTag(t, db, "Dinner", "dinner")

	tags, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)

	got, err := svc.Get(ctx, breakfast.ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", got.Slug)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func ingredientNames(ingredients []models.Ingredient) []string {
	names := make([]string, 0, len(ingredients))
	for _, in := range ingredients {
		names = append(names, in.Name)
	}
	return names
}
