package domain

// Recipe is a published recipe as the catalog presents it. Every recipe
// has exactly one author; AuthorID is never zero for a persisted row.
type Recipe struct {
	ID       int64  `json:"id" db:"id"`
	AuthorID int64  `json:"author_id" db:"author_id"`
	Title    string `json:"title" db:"title"`
}

// RecipeEngagement is the like count observed for one recipe at query
// time. It is derived per digest run and never persisted.
type RecipeEngagement struct {
	Title     string `json:"title"`
	LikeCount int    `json:"like_count"`
}
