package domain

import "time"

// Tag is a global label. Names are unique; tags have no owner.
type Tag struct {
	Timestamps
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EntryTag is one row of the entry to tag association. A pair appears at most once.
type EntryTag struct {
	EntryID   string    `json:"entry_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
