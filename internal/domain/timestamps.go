package domain

import "time"

// Timestamps carries the server-assigned creation and modification times.
// Embedded by every mutable entity.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now (UTC).
func (t *Timestamps) InitTimestamps() {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// Touch sets UpdatedAt to now (UTC).
func (t *Timestamps) Touch() {
	t.UpdatedAt = time.Now().UTC()
}
