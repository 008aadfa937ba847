package service_test

import (
	"context"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	images    *testhelpers.MemoryImageStore
	recipes   *service.RecipeService
	interact  *service.InteractionService
	subs      *service.SubscriptionService
	shopping  *service.ShoppingListService
	author    *models.User
	reader    *models.User
	breakfast *models.Tag
	vegan     *models.Tag
	dinner    *models.Tag
	flour     *models.Ingredient
	sugar     *models.Ingredient
	eggs      *models.Ingredient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.SetupSQLite(t).DB
	images := testhelpers.NewMemoryImageStore()

	return &fixture{
		db:        db,
		images:    images,
		recipes:   service.NewRecipeService(db, images),
		interact:  service.NewInteractionService(db),
		subs:      service.NewSubscriptionService(db),
		shopping:  service.NewShoppingListService(db),
		author:    testhelpers.CreateUser(t, db, "author"),
		reader:    testhelpers.CreateUser(t, db, "reader"),
		breakfast: testhelpers.CreateTag(t, db, "Breakfast", "breakfast"),
		vegan:     testhelpers.CreateTag(t, db, "Vegan", "vegan"),
		dinner:    testhelpers.CreateTag(t, db, "Dinner", "dinner"),
		flour:     testhelpers.CreateIngredient(t, db, "flour", "g"),
		sugar:     testhelpers.CreateIngredient(t, db, "sugar", "g"),
		eggs:      testhelpers.CreateIngredient(t, db, "eggs", "pcs"),
	}
}

func ptr[T any](v T) *T { return &v }

func recipeInput(name string, tags []uint, ingredients ...types.RecipeIngredientInput) *types.RecipeInput {
	return &types.RecipeInput{
		Name:        ptr(name),
		Text:        ptr("Mix and bake."),
		CookingTime: ptr(30),
		Image:       ptr(testhelpers.TestPNG),
		Tags:        tags,
		Ingredients: ingredients,
	}
}

func amount(ing *models.Ingredient, n int) types.RecipeIngredientInput {
	return types.RecipeIngredientInput{ID: ing.ID, Amount: n}
}

func (f *fixture) createRecipe(t *testing.T, author *models.User, name string, tags []uint, ingredients ...types.RecipeIngredientInput) *models.Recipe {
	t.Helper()
	r, err := f.recipes.CreateRecipe(context.Background(), author.ID, recipeInput(name, tags, ingredients...))
	require.NoError(t, err)
	return r
}

func actor(u *models.User) *types.AuthUser {
	return &types.AuthUser{ID: u.ID, Username: u.Username, IsStaff: u.IsStaff}
}

func recipeIDs(recipes []models.Recipe) []uint {
	ids := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	return ids
}
