package domain

// User is a registered account as the membership store presents it.
// Email is the unique lookup key and is matched case-sensitively.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
}
