package domain

// Comment is a user's remark on an entry.
type Comment struct {
	Timestamps
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	EntryID string `json:"entry_id"`
	Content string `json:"content"`
}
