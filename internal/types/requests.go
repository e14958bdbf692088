package types

import "github.com/google/uuid"

// IngredientAmount is one (ingredient, amount) line of a recipe write.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount"`
}

// CreateRecipeRequest is the body for POST /recipes. Ingredient and tag
// content rules are enforced by the recipe service so that every
// violation is reported at once, not just the first one binding hits.
type CreateRecipeRequest struct {
	Name        string             `json:"name" binding:"required,max=200"`
	Image       string             `json:"image" binding:"required"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time" binding:"required,min=1"`
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []uuid.UUID        `json:"tags"`
}

// UpdateRecipeRequest is the body for PATCH/PUT /recipes/:id. Nil
// fields are left untouched; non-nil ingredient or tag slices replace
// the prior association set in full.
type UpdateRecipeRequest struct {
	Name        *string             `json:"name"`
	Image       *string             `json:"image"`
	Text        *string             `json:"text"`
	CookingTime *int                `json:"cooking_time"`
	Ingredients *[]IngredientAmount `json:"ingredients"`
	Tags        *[]uuid.UUID        `json:"tags"`
}

// LoginRequest carries the credential pair. The login field is email,
// not username; the lookup strategy behind it is fixed at startup.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the body for POST /users.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}
