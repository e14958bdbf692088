package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a catalog entry. The (name, measurement_unit) pair is
// not constrained unique at the store level; the fixture loader
// deduplicates on load instead.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name            string    `gorm:"size:200;not null;index" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name  string    `gorm:"size:200;not null" json:"name"`
	Color string    `gorm:"size:7" json:"color"`
	Slug  string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Recipe owns its RecipeIngredient rows; tags are shared via the
// recipe_tags join table. AuthorID never changes after creation.
type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Image       string    `gorm:"size:500" json:"image"`
	Text        string    `gorm:"type:text" json:"text"`
	CookingTime int       `gorm:"not null;check:cooking_time > 0" json:"cooking_time"`
	PubDate     time.Time `gorm:"autoCreateTime;index" json:"pub_date"`

	Author      User               `gorm:"foreignKey:AuthorID" json:"-"`
	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"tags"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient associates one ingredient and its amount with a
// recipe. An ingredient appears at most once per recipe.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primarykey" json:"-"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	Amount       int       `gorm:"not null;check:amount > 0" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
