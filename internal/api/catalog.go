package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-app/backend/internal/service"
	"github.com/foodgram-app/backend/internal/types"
)

// CatalogHandler serves the public ingredient and tag catalogs. Both
// are unpaginated reads.
type CatalogHandler struct {
	ingredientService *service.IngredientService
	tagService        *service.TagService
}

func NewCatalogHandler(ingredientService *service.IngredientService, tagService *service.TagService) *CatalogHandler {
	return &CatalogHandler{ingredientService: ingredientService, tagService: tagService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
	}
}

// ListIngredients filters by case-insensitive name prefix when the
// name query parameter is set.
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredientService.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]types.IngredientResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		out = append(out, types.NewIngredientResponse(ing))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ingredient, err := h.ingredientService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewIngredientResponse(*ingredient))
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]types.TagResponse, 0, len(tags))
	for _, tag := range tags {
		out = append(out, types.NewTagResponse(tag))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	tag, err := h.tagService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewTagResponse(*tag))
}
