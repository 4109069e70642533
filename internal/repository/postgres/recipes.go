package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/savora/recipedigest/internal/domain"
)

// RecipeRepo implements digest.RecipeCatalog against PostgreSQL.
type RecipeRepo struct{ db *sql.DB }

// NewRecipeRepo creates a Postgres-backed recipe catalog.
func NewRecipeRepo(db *sql.DB) *RecipeRepo { return &RecipeRepo{db: db} }

// AuthoredBy returns the recipes authored by userID ordered by id, which
// is the catalog's natural order and stable within a run.
func (r *RecipeRepo) AuthoredBy(ctx context.Context, userID int64) ([]domain.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, author_id, title
		FROM recipes
		WHERE author_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes for user %d: %w", userID, err)
	}
	defer rows.Close()

	var out []domain.Recipe
	for rows.Next() {
		var rec domain.Recipe
		if err := rows.Scan(&rec.ID, &rec.AuthorID, &rec.Title); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return out, nil
}

// LikeCount returns the number of likes recorded for recipeID. The count
// is a point-in-time snapshot; likes added mid-run may or may not appear.
func (r *RecipeRepo) LikeCount(ctx context.Context, recipeID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM recipe_likes WHERE recipe_id = $1
	`, recipeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes for recipe %d: %w", recipeID, err)
	}
	return count, nil
}
