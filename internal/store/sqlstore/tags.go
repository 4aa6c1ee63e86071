package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/diaryhq/diary-server/internal/domain"
	"github.com/diaryhq/diary-server/internal/store"
)

// tagColumns must match the scan order in scanTag. tagColumnsT is the same
// list qualified with the "t" alias for joins.
const (
	tagColumns  = `id, name, created_at, updated_at`
	tagColumnsT = `t.id, t.name, t.created_at, t.updated_at`
)

func scanTag(sc scanner) (*domain.Tag, error) {
	var (
		t                    domain.Tag
		createdAt, updatedAt string
	)
	if err := sc.Scan(&t.ID, &t.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts t. Returns store.ErrAlreadyExists on a duplicate name.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.exec(ctx, s.db, `
		INSERT INTO tags (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	return translate(err)
}

// GetTag returns the tag with the given ID.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	t, err := scanTag(s.queryRow(ctx, s.db, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.query(ctx, s.db, `SELECT `+tagColumns+` FROM tags ORDER BY name, id`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// UpdateTag renames t. Returns store.ErrAlreadyExists if the name is taken.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	res, err := s.exec(ctx, s.db, `UPDATE tags SET name = ?, updated_at = ? WHERE id = ?`,
		t.Name, formatTime(t.UpdatedAt), t.ID)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

// DeleteTag removes the tag and detaches it from every entry.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	res, err := s.exec(ctx, s.db, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

// AddEntryTag links an entry and a tag. The primary key on (entry_id, tag_id)
// makes a second insert fail, so concurrent adds of the same pair cannot both
// succeed. Returns store.ErrAlreadyExists for a present pair and
// store.ErrInvalidReference if either side no longer exists.
func (s *Store) AddEntryTag(ctx context.Context, et *domain.EntryTag) error {
	if et.CreatedAt.IsZero() {
		et.CreatedAt = time.Now().UTC()
	}
	_, err := s.exec(ctx, s.db, `
		INSERT INTO entry_tags (entry_id, tag_id, created_at)
		VALUES (?, ?, ?)`,
		et.EntryID, et.TagID, formatTime(et.CreatedAt),
	)
	return translate(err)
}

// RemoveEntryTag unlinks an entry and a tag. Returns store.ErrNotFound if the
// pair was not linked.
func (s *Store) RemoveEntryTag(ctx context.Context, entryID, tagID string) error {
	res, err := s.exec(ctx, s.db, `DELETE FROM entry_tags WHERE entry_id = ? AND tag_id = ?`, entryID, tagID)
	if err != nil {
		return translate(err)
	}
	if err := requireAffected(res); errors.Is(err, store.ErrNotFound) {
		return store.ErrNotFound.WithMessage("tag is not on entry")
	} else if err != nil {
		return err
	}
	return nil
}

// ListEntryTags returns the entry's tags ordered by name.
func (s *Store) ListEntryTags(ctx context.Context, entryID string) ([]*domain.Tag, error) {
	rows, err := s.query(ctx, s.db, `
		SELECT `+tagColumnsT+`
		FROM entry_tags et
		JOIN tags t ON t.id = et.tag_id
		WHERE et.entry_id = ?
		ORDER BY t.name`, entryID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
