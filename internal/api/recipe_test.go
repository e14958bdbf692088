package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-app/backend/internal/testhelpers"
	"github.com/foodgram-app/backend/internal/types"
)

func TestRecipeLifecycle(t *testing.T) {
	engine, db := setupAPITest(t)

	testhelpers.CreateTestUser(t, db, "cook@example.com", "cook")
	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")
	tag := testhelpers.CreateTestTag(t, db, "Dinner", "dinner")
	token := loginAs(t, engine, "cook@example.com")

	body := gin.H{
		"name":         "Bread",
		"image":        "http://example.com/bread.png",
		"text":         "Knead and bake.",
		"cooking_time": 90,
		"ingredients":  []gin.H{{"id": flour.ID, "amount": 500}},
		"tags":         []uuid.UUID{tag.ID},
	}

	w := doRequest(t, engine, http.MethodPost, "/api/recipes", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created types.RecipeResponse
	decodeBody(t, w, &created)
	assert.Equal(t, "cook", created.Author)
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, "Flour", created.Ingredients[0].Name)
	assert.Equal(t, 500, created.Ingredients[0].Amount)

	detail := fmt.Sprintf("/api/recipes/%s", created.ID)

	w = doRequest(t, engine, http.MethodGet, detail, "", nil)
	assert.Equal(t, http.StatusOK, w.Code, "recipe detail is public")

	w = doRequest(t, engine, http.MethodPatch, detail, token, gin.H{"name": "Sourdough"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated types.RecipeResponse
	decodeBody(t, w, &updated)
	assert.Equal(t, "Sourdough", updated.Name)
	assert.Equal(t, "Knead and bake.", updated.Text)

	w = doRequest(t, engine, http.MethodDelete, detail, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, engine, http.MethodGet, detail, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeWriteRequiresAuth(t *testing.T) {
	engine, _ := setupAPITest(t)

	w := doRequest(t, engine, http.MethodPost, "/api/recipes", "", gin.H{"name": "Bread"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, engine, http.MethodPost, "/api/recipes", "bogus-token", gin.H{"name": "Bread"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeCreateValidationResponse(t *testing.T) {
	engine, db := setupAPITest(t)
	testhelpers.CreateTestUser(t, db, "cook@example.com", "cook")
	token := loginAs(t, engine, "cook@example.com")

	// Valid at the binding layer, rejected by composition rules.
	w := doRequest(t, engine, http.MethodPost, "/api/recipes", token, gin.H{
		"name":         "Bread",
		"image":        "http://example.com/bread.png",
		"text":         "Knead and bake.",
		"cooking_time": 90,
		"ingredients":  []gin.H{},
		"tags":         []uuid.UUID{},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var fields map[string][]string
	decodeBody(t, w, &fields)
	assert.Contains(t, fields, "ingredients")
	assert.Contains(t, fields, "tags")
}

func TestRecipeUpdateForbiddenForNonAuthor(t *testing.T) {
	engine, db := setupAPITest(t)

	author := testhelpers.CreateTestUser(t, db, "author@example.com", "author")
	testhelpers.CreateTestUser(t, db, "stranger@example.com", "stranger")
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Pilaf")

	token := loginAs(t, engine, "stranger@example.com")
	path := fmt.Sprintf("/api/recipes/%s", recipe.ID)

	w := doRequest(t, engine, http.MethodPatch, path, token, gin.H{"name": "Mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, engine, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFavoriteEndpoints(t *testing.T) {
	engine, db := setupAPITest(t)

	author := testhelpers.CreateTestUser(t, db, "author@example.com", "author")
	testhelpers.CreateTestUser(t, db, "fan@example.com", "fan")
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Ratatouille")

	token := loginAs(t, engine, "fan@example.com")
	path := fmt.Sprintf("/api/recipes/%s/favorite", recipe.ID)

	w := doRequest(t, engine, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var membership types.MembershipResponse
	decodeBody(t, w, &membership)
	assert.Equal(t, "Ratatouille", membership.Recipe.Name)

	// Adding again reports the existing membership.
	w = doRequest(t, engine, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, engine, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Removing an absent membership is still a 204.
	w = doRequest(t, engine, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestShoppingCartEndpoints(t *testing.T) {
	engine, db := setupAPITest(t)

	author := testhelpers.CreateTestUser(t, db, "author@example.com", "author")
	testhelpers.CreateTestUser(t, db, "shopper@example.com", "shopper")
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Goulash")

	token := loginAs(t, engine, "shopper@example.com")
	path := fmt.Sprintf("/api/recipes/%s/shopping_cart", recipe.ID)

	w := doRequest(t, engine, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, engine, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, engine, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMembershipAgainstUnknownRecipe(t *testing.T) {
	engine, db := setupAPITest(t)
	testhelpers.CreateTestUser(t, db, "fan@example.com", "fan")
	token := loginAs(t, engine, "fan@example.com")

	path := fmt.Sprintf("/api/recipes/%s/favorite", uuid.New())
	w := doRequest(t, engine, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, engine, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, engine, http.MethodPost, "/api/recipes/not-a-uuid/favorite", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeListFilterByAuthor(t *testing.T) {
	engine, db := setupAPITest(t)

	alice := testhelpers.CreateTestUser(t, db, "alice@example.com", "alice")
	bob := testhelpers.CreateTestUser(t, db, "bob@example.com", "bob")
	testhelpers.CreateTestRecipe(t, db, alice, "Quiche")
	testhelpers.CreateTestRecipe(t, db, bob, "Stew")

	w := doRequest(t, engine, http.MethodGet, "/api/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Recipes []types.RecipeResponse `json:"recipes"`
	}
	decodeBody(t, w, &listing)
	assert.Len(t, listing.Recipes, 2)

	w = doRequest(t, engine, http.MethodGet, "/api/recipes?author="+alice.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &listing)
	require.Len(t, listing.Recipes, 1)
	assert.Equal(t, "Quiche", listing.Recipes[0].Name)
}
