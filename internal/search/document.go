// Package search provides full-text search over diary entries using Bleve.
//
// The index is a lookup aid, not a source of truth: callers resolve hits
// against the store and re-check ownership before returning anything.
package search

import (
	"github.com/diaryhq/diary-server/internal/domain"
)

// EntryDocument is the indexed form of an entry.
type EntryDocument struct {
	ID        string
	OwnerID   string
	DiaryID   string
	Content   string
	Tags      []string // tag names
	CreatedAt int64    // Unix millis
}

// NewEntryDocument builds the document for e. e.OwnerID must be resolved.
func NewEntryDocument(e *domain.Entry) *EntryDocument {
	tags := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		tags = append(tags, t.Name)
	}
	return &EntryDocument{
		ID:        e.ID,
		OwnerID:   e.OwnerID,
		DiaryID:   e.DiaryID,
		Content:   e.Content,
		Tags:      tags,
		CreatedAt: e.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *EntryDocument) ToMap() map[string]any {
	m := map[string]any{
		"owner_id":   d.OwnerID,
		"diary_id":   d.DiaryID,
		"content":    d.Content,
		"created_at": d.CreatedAt,
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	return m
}
