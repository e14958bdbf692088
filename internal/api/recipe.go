package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram-app/backend/internal/middleware"
	"github.com/foodgram-app/backend/internal/service"
	"github.com/foodgram-app/backend/internal/types"
)

// RecipeHandler serves recipe CRUD plus the favorite and shopping-cart
// toggles.
type RecipeHandler struct {
	recipeService     *service.RecipeService
	membershipService *service.MembershipService
	authService       *service.AuthService
	writeLimiter      *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	membershipService *service.MembershipService,
	authService *service.AuthService,
	writeLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:     recipeService,
		membershipService: membershipService,
		authService:       authService,
		writeLimiter:      writeLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	limited := []gin.HandlerFunc{auth}
	if h.writeLimiter != nil {
		limited = append(limited, h.writeLimiter.RateLimitMiddleware())
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", append(limited, h.CreateRecipe)...)
		recipes.PUT("/:id", append(limited, h.UpdateRecipe)...)
		recipes.PATCH("/:id", append(limited, h.UpdateRecipe)...)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", auth, h.AddFavorite)
		recipes.DELETE("/:id/favorite", auth, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", auth, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", auth, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var authorID *uuid.UUID
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		authorID = &id
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	recipes, err := h.recipeService.List(c.Request.Context(), authorID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, types.NewRecipeResponse(&recipes[i]))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": out})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeResponse(recipe))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	recipe, err := h.recipeService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewRecipeResponse(recipe))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	recipe, err := h.recipeService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeResponse(recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if err := h.recipeService.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddFavorite returns 201 for a new membership and 200 when the pair
// already existed.
func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	recipeID, userID, ok := h.membershipTarget(c)
	if !ok {
		return
	}
	fav, created, err := h.membershipService.AddFavorite(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, types.NewFavoriteResponse(fav))
}

// RemoveFavorite returns 204 whether or not a membership existed.
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	recipeID, userID, ok := h.membershipTarget(c)
	if !ok {
		return
	}
	if _, err := h.membershipService.RemoveFavorite(c.Request.Context(), userID, recipeID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	recipeID, userID, ok := h.membershipTarget(c)
	if !ok {
		return
	}
	item, created, err := h.membershipService.AddCartItem(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, types.NewCartItemResponse(item))
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	recipeID, userID, ok := h.membershipTarget(c)
	if !ok {
		return
	}
	if _, err := h.membershipService.RemoveCartItem(c.Request.Context(), userID, recipeID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// membershipTarget parses the recipe id, confirms the recipe exists
// (unknown recipe is a 404, not a silent no-op) and returns the caller.
func (h *RecipeHandler) membershipTarget(c *gin.Context) (recipeID, userID uuid.UUID, ok bool) {
	recipeID, ok = pathID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	if _, err := h.recipeService.Get(c.Request.Context(), recipeID); err != nil {
		respondServiceError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	userID, _ = middleware.CurrentUserID(c)
	return recipeID, userID, true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
