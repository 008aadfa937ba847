package service_test

import (
	"context"
	"testing"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateShoppingList(t *testing.T) {
	rows := []service.ShoppingListRow{
		{IngredientID: 2, Name: "sugar", MeasurementUnit: "g", Amount: 10},
		{IngredientID: 1, Name: "flour", MeasurementUnit: "g", Amount: 200},
		{IngredientID: 2, Name: "sugar", MeasurementUnit: "g", Amount: 5},
		{IngredientID: 1, Name: "flour", MeasurementUnit: "g", Amount: 300},
		{IngredientID: 3, Name: "milk", MeasurementUnit: "ml", Amount: 250},
	}

	list := service.AggregateShoppingList(rows)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "sugar", list.Items[0].Name)
	assert.Equal(t, 15, list.Items[0].Amount)
	assert.Equal(t, "flour", list.Items[1].Name)
	assert.Equal(t, 500, list.Items[1].Amount)
	assert.Equal(t, "Shopping list:\nsugar: 15 g\nflour: 500 g\nmilk: 250 ml\n", list.Text())
}

func TestAggregateKeysByIngredientIdentity(t *testing.T) {
	list := service.AggregateShoppingList([]service.ShoppingListRow{
		{IngredientID: 1, Name: "salt", MeasurementUnit: "g", Amount: 5},
		{IngredientID: 9, Name: "salt", MeasurementUnit: "g", Amount: 7},
	})
	assert.Len(t, list.Items, 2)
}

func TestEmptyShoppingList(t *testing.T) {
	f := newFixture(t)

	list, err := f.shopping.Build(context.Background(), f.reader.ID)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, "Shopping list:\n", list.Text())
}

func TestBuildShoppingList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	milk := testhelpers.CreateIngredient(t, f.db, "milk", "ml")

	a := f.createRecipe(t, f.author, "Bread", []uint{f.vegan.ID}, amount(f.flour, 200), amount(milk, 100))
	b := f.createRecipe(t, f.author, "Cake", []uint{f.vegan.ID}, amount(f.sugar, 50), amount(f.flour, 300))
	f.createRecipe(t, f.author, "Not in cart", []uint{f.vegan.ID}, amount(f.flour, 1000))

	for _, r := range []uint{a.ID, b.ID} {
		_, err := f.interact.Add(ctx, service.ShoppingCart, f.reader.ID, r)
		require.NoError(t, err)
	}

	list, err := f.shopping.Build(ctx, f.reader.ID)
	require.NoError(t, err)

	want := "Shopping list:\nflour: 500 g\nmilk: 100 ml\nsugar: 50 g\n"
	assert.Equal(t, want, list.Text())

	again, err := f.shopping.Build(ctx, f.reader.ID)
	require.NoError(t, err)
	assert.Equal(t, want, again.Text())
}
