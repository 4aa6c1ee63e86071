package domain

// User is an account that owns diaries, comments and likes.
// Deleting a user removes everything it owns.
type User struct {
	Timestamps
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
