package domain

import "time"

// Like records that a user liked an entry. At most one per (user, entry).
type Like struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EntryID   string    `json:"entry_id"`
	CreatedAt time.Time `json:"created_at"`
}
