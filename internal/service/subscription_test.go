package service_test

import (
	"context"
	"testing"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		f.createRecipe(t, f.author, "Dish", []uint{f.vegan.ID}, amount(f.flour, 1))
	}

	summary, err := f.subs.Subscribe(ctx, f.reader.ID, f.author.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, f.author.ID, summary.Author.ID)
	assert.Len(t, summary.Recipes, 2)
	assert.EqualValues(t, 3, summary.RecipesCount)

	_, err = f.subs.Subscribe(ctx, f.reader.ID, f.author.ID, 0)
	assert.ErrorIs(t, err, service.ErrConflict)

	set, err := f.subs.SubscribedSet(ctx, f.reader.ID, []uint{f.author.ID, f.reader.ID})
	require.NoError(t, err)
	assert.True(t, set[f.author.ID])
	assert.False(t, set[f.reader.ID])

	// the edge is directed
	set, err = f.subs.SubscribedSet(ctx, f.author.ID, []uint{f.reader.ID})
	require.NoError(t, err)
	assert.False(t, set[f.reader.ID])

	require.NoError(t, f.subs.Unsubscribe(ctx, f.reader.ID, f.author.ID))
	assert.ErrorIs(t, f.subs.Unsubscribe(ctx, f.reader.ID, f.author.ID), service.ErrRelationNotFound)
}

func TestSubscribeToSelfRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.subs.Subscribe(context.Background(), f.reader.ID, f.reader.ID, 0)
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "errors")
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	f := newFixture(t)

	_, err := f.subs.Subscribe(context.Background(), f.reader.ID, 999, 0)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListSubscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chef := testhelpers.CreateUser(t, f.db, "chef")
	f.createRecipe(t, chef, "Soup", []uint{f.dinner.ID}, amount(f.eggs, 1))

	_, err := f.subs.Subscribe(ctx, f.reader.ID, f.author.ID, 0)
	require.NoError(t, err)
	_, err = f.subs.Subscribe(ctx, f.reader.ID, chef.ID, 0)
	require.NoError(t, err)

	res, err := f.subs.ListSubscriptions(ctx, f.reader.ID, service.Page{Number: 1, Size: 1}, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Count)
	require.Len(t, res.Items, 1)
	assert.Equal(t, f.author.ID, res.Items[0].Author.ID)
	assert.Empty(t, res.Items[0].Recipes)

	res, err = f.subs.ListSubscriptions(ctx, f.reader.ID, service.Page{Number: 2, Size: 1}, 0)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, chef.ID, res.Items[0].Author.ID)
	assert.EqualValues(t, 1, res.Items[0].RecipesCount)
}
