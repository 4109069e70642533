package digest

import (
	"context"

	"github.com/savora/recipedigest/internal/domain"
)

// UserDirectory is the read-only view of the membership store.
// Implementations must be safe for concurrent use.
type UserDirectory interface {
	// ListAllUsers returns every registered user. The digest run processes
	// the full list with no filtering or pagination.
	ListAllUsers(ctx context.Context) ([]domain.User, error)

	// FindUserIDByEmail resolves an email to a user ID with case-sensitive
	// exact matching. Returns ErrUserNotFound when no user matches and
	// ErrDuplicateEmail when more than one does.
	FindUserIDByEmail(ctx context.Context, email string) (int64, error)
}

// RecipeCatalog is the read-only view of the recipe store.
// Implementations must be safe for concurrent use.
type RecipeCatalog interface {
	// AuthoredBy returns the recipes authored by userID in the catalog's
	// natural order. The order must be stable within one digest run so
	// output is deterministic. A user with no recipes yields an empty
	// slice, not an error.
	AuthoredBy(ctx context.Context, userID int64) ([]domain.Recipe, error)

	// LikeCount returns the number of likes recorded for recipeID at
	// query time. Counts are point-in-time snapshots; no lock is held
	// across a digest run.
	LikeCount(ctx context.Context, recipeID int64) (int, error)
}

// Transport delivers one composed digest message. Implementations return
// an error on delivery failure; suppressing that failure is the
// dispatcher's job, not the transport's.
type Transport interface {
	Send(ctx context.Context, msg *domain.DigestMessage) error
}

// HTMLRenderer renders the optional HTML part of a digest message.
// A render failure only downgrades the message to plain text.
type HTMLRenderer interface {
	RenderDigestHTML(username string, summaries []domain.RecipeEngagement) (string, error)
}

// DedupStore remembers the digest body each user last received, keyed by
// hash, so unchanged digests can be skipped when that behavior is enabled.
type DedupStore interface {
	// Unchanged reports whether bodyHash equals the stored hash for userID.
	Unchanged(ctx context.Context, userID int64, bodyHash string) (bool, error)

	// Remember stores bodyHash as the latest digest delivered to userID.
	Remember(ctx context.Context, userID int64, bodyHash string) error
}
