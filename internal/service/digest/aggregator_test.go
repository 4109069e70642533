package digest

import (
	"context"
	"errors"
	"testing"

	"github.com/savora/recipedigest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is an in-memory RecipeCatalog for aggregator tests.
type fakeCatalog struct {
	recipes map[int64][]domain.Recipe
	likes   map[int64]int

	recipesErr error
	likesErr   error
}

func (f *fakeCatalog) AuthoredBy(_ context.Context, userID int64) ([]domain.Recipe, error) {
	if f.recipesErr != nil {
		return nil, f.recipesErr
	}
	return f.recipes[userID], nil
}

func (f *fakeCatalog) LikeCount(_ context.Context, recipeID int64) (int, error) {
	if f.likesErr != nil {
		return 0, f.likesErr
	}
	return f.likes[recipeID], nil
}

func TestAggregatorSummarize(t *testing.T) {
	catalog := &fakeCatalog{
		recipes: map[int64][]domain.Recipe{
			7: {
				{ID: 1, AuthorID: 7, Title: "Pasta"},
				{ID: 2, AuthorID: 7, Title: "Soup"},
			},
		},
		likes: map[int64]int{1: 1, 2: 3},
	}

	agg := NewAggregator(catalog)
	summaries, err := agg.Summarize(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, []domain.RecipeEngagement{
		{Title: "Pasta", LikeCount: 1},
		{Title: "Soup", LikeCount: 3},
	}, summaries)
}

func TestAggregatorPreservesCatalogOrder(t *testing.T) {
	catalog := &fakeCatalog{
		recipes: map[int64][]domain.Recipe{
			7: {
				{ID: 9, AuthorID: 7, Title: "Zucchini Bread"},
				{ID: 3, AuthorID: 7, Title: "Apple Pie"},
			},
		},
		likes: map[int64]int{9: 0, 3: 12},
	}

	summaries, err := NewAggregator(catalog).Summarize(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, summaries, 2)
	assert.Equal(t, "Zucchini Bread", summaries[0].Title)
	assert.Equal(t, "Apple Pie", summaries[1].Title)
}

func TestAggregatorNoRecipes(t *testing.T) {
	catalog := &fakeCatalog{recipes: map[int64][]domain.Recipe{}}

	summaries, err := NewAggregator(catalog).Summarize(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestAggregatorCatalogErrors(t *testing.T) {
	boom := errors.New("connection reset")

	t.Run("recipe listing fails", func(t *testing.T) {
		catalog := &fakeCatalog{recipesErr: boom}
		_, err := NewAggregator(catalog).Summarize(context.Background(), 7)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("like count fails", func(t *testing.T) {
		catalog := &fakeCatalog{
			recipes:  map[int64][]domain.Recipe{7: {{ID: 1, AuthorID: 7, Title: "Pasta"}}},
			likesErr: boom,
		}
		_, err := NewAggregator(catalog).Summarize(context.Background(), 7)
		assert.ErrorIs(t, err, boom)
	})
}
