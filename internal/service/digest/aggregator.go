package digest

import (
	"context"
	"fmt"

	"github.com/savora/recipedigest/internal/domain"
)

// Aggregator computes per-recipe engagement for one user. It only reads;
// counts are whatever the catalog observes at query time.
type Aggregator struct {
	catalog RecipeCatalog
}

// NewAggregator creates an aggregator over the given catalog.
func NewAggregator(catalog RecipeCatalog) *Aggregator {
	return &Aggregator{catalog: catalog}
}

// Summarize returns one RecipeEngagement per recipe authored by userID,
// in the catalog's order. A user with no recipes yields an empty slice.
func (a *Aggregator) Summarize(ctx context.Context, userID int64) ([]domain.RecipeEngagement, error) {
	recipes, err := a.catalog.AuthoredBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing recipes for user %d: %w", userID, err)
	}

	summaries := make([]domain.RecipeEngagement, 0, len(recipes))
	for _, r := range recipes {
		count, err := a.catalog.LikeCount(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("counting likes for recipe %d: %w", r.ID, err)
		}
		summaries = append(summaries, domain.RecipeEngagement{
			Title:     r.Title,
			LikeCount: count,
		})
	}
	return summaries, nil
}
