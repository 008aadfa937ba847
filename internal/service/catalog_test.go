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

func TestImportIngredientsDeduplicates(t *testing.T) {
	db := testhelpers.SetupSQLite(t).DB
	catalog := service.NewCatalogService(db)
	ctx := context.Background()

	res, err := catalog.ImportIngredients(ctx, []types.IngredientImport{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "flour", MeasurementUnit: "kg"},
		{Name: "flour", MeasurementUnit: "g"},
	})
	require.NoError(t, err)
	assert.Equal(t, service.ImportResult{Created: 2, Skipped: 1}, res)

	res, err = catalog.ImportIngredients(ctx, []types.IngredientImport{{Name: "flour", MeasurementUnit: "g"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)

	all, err := catalog.ListIngredients(ctx, service.IngredientFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportIngredientsRejectsBadRow(t *testing.T) {
	db := testhelpers.SetupSQLite(t).DB
	catalog := service.NewCatalogService(db)

	_, err := catalog.ImportIngredients(context.Background(), []types.IngredientImport{
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "", MeasurementUnit: "g"},
	})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "row 2")

	all, err := catalog.ListIngredients(context.Background(), service.IngredientFilter{})
	require.NoError(t, err)
	assert.Empty(t, all, "the import is all or nothing")
}

func TestImportTags(t *testing.T) {
	db := testhelpers.SetupSQLite(t).DB
	catalog := service.NewCatalogService(db)
	ctx := context.Background()

	res, err := catalog.ImportTags(ctx, []types.TagImport{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Lunch", Slug: "lunch"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)

	res, err = catalog.ImportTags(ctx, []types.TagImport{{Name: "Breakfast", Slug: "breakfast"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)

	_, err = catalog.ImportTags(ctx, []types.TagImport{{Name: "Bad", Slug: "not a slug"}})
	require.Error(t, err)

	tags, err := catalog.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)

	tag, err := catalog.GetTag(ctx, tags[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch", tag.Slug)

	_, err = catalog.GetTag(ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = catalog.GetIngredient(ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestValidSlug(t *testing.T) {
	assert.True(t, service.ValidSlug("gluten_free2"))
	assert.False(t, service.ValidSlug("gluten-free"))
	assert.False(t, service.ValidSlug(""))
}
