package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/foodgram-app/backend/internal/models"
)

type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// RecipeIngredientResponse is one resolved ingredient line of a recipe:
// the catalog fields plus the amount used.
type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeResponse struct {
	ID          uuid.UUID                  `json:"id"`
	Author      string                     `json:"author"`
	Name        string                     `json:"name"`
	Image       string                     `json:"image"`
	Text        string                     `json:"text"`
	Ingredients []RecipeIngredientResponse `json:"ingredients"`
	Tags        []TagResponse              `json:"tags"`
	CookingTime int                        `json:"cooking_time"`
	PubDate     time.Time                  `json:"pub_date"`
}

// ShortRecipeResponse is the reduced view used in favorite and
// shopping-cart payloads.
type ShortRecipeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type MembershipResponse struct {
	ID     uuid.UUID           `json:"id"`
	User   uuid.UUID           `json:"user"`
	Recipe ShortRecipeResponse `json:"recipe"`
}

type UserResponse struct {
	Email        string    `json:"email"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

func NewTagResponse(t models.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func NewIngredientResponse(i models.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// NewRecipeResponse shapes a recipe loaded with its author, tags and
// ingredient rows into the full list/detail view.
func NewRecipeResponse(r *models.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:          r.ID,
		Author:      r.Author.Username,
		Name:        r.Name,
		Image:       r.Image,
		Text:        r.Text,
		Ingredients: make([]RecipeIngredientResponse, 0, len(r.Ingredients)),
		Tags:        make([]TagResponse, 0, len(r.Tags)),
		CookingTime: r.CookingTime,
		PubDate:     r.PubDate,
	}
	for _, row := range r.Ingredients {
		resp.Ingredients = append(resp.Ingredients, RecipeIngredientResponse{
			ID:              row.Ingredient.ID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}
	for _, tag := range r.Tags {
		resp.Tags = append(resp.Tags, NewTagResponse(tag))
	}
	return resp
}

func NewShortRecipeResponse(r *models.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func NewFavoriteResponse(f *models.Favorite) MembershipResponse {
	return MembershipResponse{ID: f.ID, User: f.UserID, Recipe: NewShortRecipeResponse(&f.Recipe)}
}

func NewCartItemResponse(i *models.ShoppingCartItem) MembershipResponse {
	return MembershipResponse{ID: i.ID, User: i.UserID, Recipe: NewShortRecipeResponse(&i.Recipe)}
}

func NewUserResponse(u *models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}
