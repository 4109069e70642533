package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/savora/recipedigest/internal/domain"
)

// EmptyDigestBody is the body sent to users with no recipes.
const EmptyDigestBody = "You have not posted any recipes yet."

// ComposeBody renders the digest body for an ordered list of engagement
// summaries. It is a pure function: identical input yields byte-identical
// output. Lines follow input order; no sorting, no trailing summary.
func ComposeBody(summaries []domain.RecipeEngagement) string {
	if len(summaries) == 0 {
		return EmptyDigestBody
	}

	var b strings.Builder
	for i, s := range summaries {
		word := "likes"
		if s.LikeCount == 1 {
			word = "like"
		}
		fmt.Fprintf(&b, "%d ) Your %s recipe got %d %s\n", i+1, s.Title, s.LikeCount, word)
	}
	return b.String()
}

// BodyHash returns the hash used by the unchanged-digest skip to compare
// a composed body against the previous run's.
func BodyHash(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}
