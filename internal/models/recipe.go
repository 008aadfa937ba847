package models

import (
	"time"
)

// ShortCodeLength is the fixed length of a recipe short code.
const ShortCodeLength = 8

type Recipe struct {
	ID          uint               `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time          `json:"-"`
	UpdatedAt   time.Time          `json:"-"`
	AuthorID    uint               `gorm:"not null;index" json:"-"`
	Author      User               `gorm:"foreignKey:AuthorID" json:"-"`
	Name        string             `gorm:"size:256;not null" json:"name"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	CookingTime int                `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`
	Image       string             `gorm:"size:255" json:"image"`
	ShortCode   string             `gorm:"size:8;uniqueIndex;not null" json:"-"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
}

// RecipeIngredient binds an ingredient and its amount to a recipe.
type RecipeIngredient struct {
	ID           uint       `gorm:"primarykey"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredients_recipe_ingredient"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredients_recipe_ingredient;index"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID"`
	Amount       int        `gorm:"not null;check:amount >= 1"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// Favorite marks a recipe as favorited by a user.
type Favorite struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UserID    uint   `gorm:"not null;uniqueIndex:idx_favorites_user_recipe"`
	RecipeID  uint   `gorm:"not null;uniqueIndex:idx_favorites_user_recipe;index"`
	Recipe    Recipe `gorm:"foreignKey:RecipeID"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCartItem places a recipe in a user's shopping cart.
type ShoppingCartItem struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UserID    uint   `gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe"`
	RecipeID  uint   `gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe;index"`
	Recipe    Recipe `gorm:"foreignKey:RecipeID"`
}

func (ShoppingCartItem) TableName() string {
	return "shopping_cart"
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Subscription{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCartItem{},
	}
}
