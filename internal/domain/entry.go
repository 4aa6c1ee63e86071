package domain

// Entry is a piece of content inside a diary. It has no privacy of its own:
// visibility and ownership are read from the parent diary.
type Entry struct {
	Timestamps
	ID      string `json:"id"`
	DiaryID string `json:"diary_id"`
	Content string `json:"content"`

	// Resolved through the parent diary on every read; never written.
	OwnerID      string  `json:"-"`
	DiaryPrivacy Privacy `json:"-"`

	Tags         []*Tag  `json:"tags"`
	LikeCount    int     `json:"like_count"`
	CommentCount int     `json:"comment_count"`
}

// IsPublic reports whether the entry's diary is PUBLIC.
func (e *Entry) IsPublic() bool {
	return e.DiaryPrivacy.IsPublic()
}

// HasTag reports whether tagID is among the loaded tags.
func (e *Entry) HasTag(tagID string) bool {
	for _, t := range e.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}
