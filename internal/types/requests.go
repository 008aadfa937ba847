package types

// RecipeIngredientInput is one (ingredient, amount) pair of a recipe payload.
type RecipeIngredientInput struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount" validate:"min=1,max=32767"`
}

// RecipeInput is the write payload for create and replace. Scalar fields are
// pointers so an update can tell "absent" from "zero".
type RecipeInput struct {
	Name        *string                 `json:"name" validate:"omitempty,max=256"`
	Text        *string                 `json:"text"`
	CookingTime *int                    `json:"cooking_time" validate:"omitempty,min=1,max=32767"`
	Image       *string                 `json:"image"`
	Tags        []uint                  `json:"tags"`
	Ingredients []RecipeIngredientInput `json:"ingredients" validate:"dive"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

// TagImport and IngredientImport are rows accepted by the data loader.
type TagImport struct {
	Name string `json:"name" validate:"required,max=32"`
	Slug string `json:"slug" validate:"required,max=32,slug"`
}

type IngredientImport struct {
	Name            string `json:"name" validate:"required,max=128"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=64"`
}
