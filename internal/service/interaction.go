package service

import (
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// RecipeList names a per-user recipe collection backed by a join table.
type RecipeList int

const (
	Favorites RecipeList = iota
	ShoppingCart
)

func (l RecipeList) String() string {
	if l == ShoppingCart {
		return "shopping cart"
	}
	return "favorites"
}

func (l RecipeList) row(userID, recipeID uint) interface{} {
	if l == ShoppingCart {
		return &models.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
	}
	return &models.Favorite{UserID: userID, RecipeID: recipeID}
}

func (l RecipeList) model() interface{} {
	if l == ShoppingCart {
		return &models.ShoppingCartItem{}
	}
	return &models.Favorite{}
}

// InteractionService toggles favorites and shopping cart entries.
type InteractionService struct {
	db *gorm.DB
}

func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

// Add puts the recipe on the user's list. Adding a recipe already on the
// list is a conflict.
func (s *InteractionService) Add(ctx context.Context, list RecipeList, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	exists, err := s.exists(ctx, list, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict("Recipe is already in " + list.String() + ".")
	}

	if err := s.db.WithContext(ctx).Create(list.row(userID, recipeID)).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, conflict("Recipe is already in " + list.String() + ".")
		}
		return nil, err
	}

	logging.Ctx(ctx).Debug().Str("list", list.String()).Uint("recipe_id", recipeID).Msg("recipe added")
	return recipe, nil
}

// Remove takes the recipe off the user's list. Removing a recipe that is not
// on the list is an error.
func (s *InteractionService) Remove(ctx context.Context, list RecipeList, userID, recipeID uint) error {
	if _, err := s.recipe(ctx, recipeID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(list.model())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missingRelation("Recipe is not in " + list.String() + ".")
	}
	return nil
}

// RecipeFlags are the viewer-relative booleans rendered with a recipe.
type RecipeFlags struct {
	IsFavorited      bool
	IsInShoppingCart bool
}

// Flags reports, for each recipe id, whether the user has it favorited or in
// the cart. Anonymous viewers (userID 0) get an empty map.
func (s *InteractionService) Flags(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]RecipeFlags, error) {
	out := make(map[uint]RecipeFlags, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}

	var fav, cart []uint
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &fav).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &cart).Error; err != nil {
		return nil, err
	}

	for _, id := range fav {
		f := out[id]
		f.IsFavorited = true
		out[id] = f
	}
	for _, id := range cart {
		f := out[id]
		f.IsInShoppingCart = true
		out[id] = f
	}
	return out, nil
}

func (s *InteractionService) exists(ctx context.Context, list RecipeList, userID, recipeID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(list.model()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

func (s *InteractionService) recipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}
