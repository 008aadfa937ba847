package service_test

import (
	"context"
	"testing"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRecipesTagsUnion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pancakes := f.createRecipe(t, f.author, "Pancakes", []uint{f.breakfast.ID}, amount(f.flour, 1))
	salad := f.createRecipe(t, f.author, "Salad", []uint{f.vegan.ID}, amount(f.sugar, 1))
	both := f.createRecipe(t, f.author, "Oats", []uint{f.breakfast.ID, f.vegan.ID}, amount(f.flour, 1))
	f.createRecipe(t, f.author, "Steak", []uint{f.dinner.ID}, amount(f.eggs, 1))

	res, err := f.recipes.ListRecipes(ctx, service.RecipeFilter{Tags: []string{"breakfast", "vegan"}}, service.Page{Number: 1, Size: 10})
	require.NoError(t, err)

	assert.EqualValues(t, 3, res.Count)
	assert.ElementsMatch(t, []uint{pancakes.ID, salad.ID, both.ID}, recipeIDs(res.Items))
}

func TestListRecipesUnknownTagIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.createRecipe(t, f.author, "Pancakes", []uint{f.breakfast.ID}, amount(f.flour, 1))

	res, err := f.recipes.ListRecipes(context.Background(), service.RecipeFilter{Tags: []string{"brekfast"}}, service.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Zero(t, res.Count)
	assert.Empty(t, res.Items)
}

func TestListRecipesFavoritedFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	liked := f.createRecipe(t, f.author, "Liked", []uint{f.vegan.ID}, amount(f.flour, 1))
	f.createRecipe(t, f.author, "Other", []uint{f.vegan.ID}, amount(f.flour, 1))
	_, err := f.interact.Add(ctx, service.Favorites, f.reader.ID, liked.ID)
	require.NoError(t, err)

	page := service.Page{Number: 1, Size: 10}

	res, err := f.recipes.ListRecipes(ctx, service.RecipeFilter{IsFavorited: true, ViewerID: f.reader.ID}, page)
	require.NoError(t, err)
	assert.Equal(t, []uint{liked.ID}, recipeIDs(res.Items))

	// anonymous viewers get the unfiltered listing
	anon, err := f.recipes.ListRecipes(ctx, service.RecipeFilter{IsFavorited: true}, page)
	require.NoError(t, err)
	all, err := f.recipes.ListRecipes(ctx, service.RecipeFilter{}, page)
	require.NoError(t, err)
	assert.Equal(t, recipeIDs(all.Items), recipeIDs(anon.Items))
	assert.EqualValues(t, 2, anon.Count)

	// false is a no-op too
	off, err := f.recipes.ListRecipes(ctx, service.RecipeFilter{IsFavorited: false, ViewerID: f.reader.ID}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, off.Count)
}

func TestListRecipesCartAndAuthorCombine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine := f.createRecipe(t, f.reader, "Mine", []uint{f.vegan.ID}, amount(f.flour, 1))
	theirs := f.createRecipe(t, f.author, "Theirs", []uint{f.vegan.ID}, amount(f.flour, 1))
	for _, id := range []uint{mine.ID, theirs.ID} {
		_, err := f.interact.Add(ctx, service.ShoppingCart, f.reader.ID, id)
		require.NoError(t, err)
	}

	authorID := f.author.ID
	res, err := f.recipes.ListRecipes(ctx, service.RecipeFilter{
		AuthorID:         &authorID,
		IsInShoppingCart: true,
		ViewerID:         f.reader.ID,
	}, service.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint{theirs.ID}, recipeIDs(res.Items))
}

func TestListRecipesPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		f.createRecipe(t, f.author, "Recipe", []uint{f.vegan.ID}, amount(f.flour, 1))
	}

	page := service.Page{}.Normalize(0)
	assert.Equal(t, service.DefaultPageSize, page.Size)

	first, err := f.recipes.ListRecipes(ctx, service.RecipeFilter{}, page)
	require.NoError(t, err)
	assert.Len(t, first.Items, 6)
	assert.True(t, page.HasNext(first.Count))

	page.Number = 2
	second, err := f.recipes.ListRecipes(ctx, service.RecipeFilter{}, page)
	require.NoError(t, err)
	assert.Len(t, second.Items, 1)
	assert.False(t, page.HasNext(second.Count))
	assert.Greater(t, first.Items[0].ID, second.Items[0].ID, "newest first")
}

func TestIngredientNameStartsWith(t *testing.T) {
	db := testhelpers.SetupSQLite(t).DB
	for _, name := range []string{"Rice", "Ice", "Spice", "iceberg lettuce", "100%_juice"} {
		testhelpers.CreateIngredient(t, db, name, "g")
	}
	catalog := service.NewCatalogService(db)
	ctx := context.Background()

	names := func(filter service.IngredientFilter) []string {
		list, err := catalog.ListIngredients(ctx, filter)
		require.NoError(t, err)
		out := make([]string, 0, len(list))
		for _, ing := range list {
			out = append(out, ing.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Ice", "iceberg lettuce"}, names(service.IngredientFilter{Name: "ic"}))
	assert.Equal(t, []string{"Ice", "iceberg lettuce"}, names(service.IngredientFilter{Name: "IC"}))
	assert.Empty(t, names(service.IngredientFilter{Name: "%"}))
	assert.Equal(t, []string{"100%_juice"}, names(service.IngredientFilter{Name: "100%_"}))
	assert.Len(t, names(service.IngredientFilter{}), 5)
}

func TestIngredientNameStartsWithNonASCII(t *testing.T) {
	db := testhelpers.SetupSQLite(t).DB
	for _, name := range []string{"Мука", "мускатный орех", "Сахар", "Яйцо"} {
		testhelpers.CreateIngredient(t, db, name, "г")
	}
	catalog := service.NewCatalogService(db)
	ctx := context.Background()

	tests := []struct {
		query string
		want  []string
	}{
		{"мук", []string{"Мука"}},
		{"Мук", []string{"Мука"}},
		{"МУ", []string{"Мука", "мускатный орех"}},
		{"яЙ", []string{"Яйцо"}},
		{"ахар", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			list, err := catalog.ListIngredients(ctx, service.IngredientFilter{Name: tt.query})
			require.NoError(t, err)
			var got []string
			for _, ing := range list {
				got = append(got, ing.Name)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestIngredientImportStoresFoldedName(t *testing.T) {
	db := testhelpers.SetupSQLite(t).DB
	catalog := service.NewCatalogService(db)
	ctx := context.Background()

	_, err := catalog.ImportIngredients(ctx, []types.IngredientImport{{Name: "Молоко", MeasurementUnit: "мл"}})
	require.NoError(t, err)

	list, err := catalog.ListIngredients(ctx, service.IngredientFilter{Name: "мол"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "молоко", list[0].NameLower)
}

func TestPageNormalize(t *testing.T) {
	p := service.Page{Number: -1, Size: 1000}.Normalize(6)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, service.MaxPageSize, p.Size)
	assert.Equal(t, 0, p.Offset())

	p = service.Page{Number: 3, Size: 0}.Normalize(6)
	assert.Equal(t, 6, p.Size)
	assert.Equal(t, 12, p.Offset())
}
