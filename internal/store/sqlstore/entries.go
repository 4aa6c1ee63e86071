package sqlstore

import (
	"context"
	"database/sql"

	"github.com/diaryhq/diary-server/internal/domain"
)

// entrySelect resolves owner and privacy through the parent diary.
// Must match the scan order in scanEntry.
const entrySelect = `
	SELECT e.id, e.diary_id, e.content, e.created_at, e.updated_at,
	       d.owner_user_id, d.privacy,
	       (SELECT COUNT(*) FROM likes l WHERE l.entry_id = e.id),
	       (SELECT COUNT(*) FROM comments c WHERE c.entry_id = e.id)
	FROM entries e
	JOIN diaries d ON d.id = e.diary_id`

func scanEntry(sc scanner) (*domain.Entry, error) {
	var (
		e                    domain.Entry
		privacy              string
		createdAt, updatedAt string
	)
	err := sc.Scan(
		&e.ID, &e.DiaryID, &e.Content, &createdAt, &updatedAt,
		&e.OwnerID, &privacy,
		&e.LikeCount, &e.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	e.DiaryPrivacy = domain.Privacy(privacy)
	e.Tags = []*domain.Tag{}

	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEntry inserts e. Owner and privacy on e are ignored; they are
// derived from the diary when the entry is read back.
func (s *Store) CreateEntry(ctx context.Context, e *domain.Entry) error {
	_, err := s.exec(ctx, s.db, `
		INSERT INTO entries (id, diary_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.DiaryID, e.Content, formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	)
	return translate(err)
}

// GetEntry returns the entry with its tags and counts.
func (s *Store) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	e, err := scanEntry(s.queryRow(ctx, s.db, entrySelect+` WHERE e.id = ?`, id))
	if err != nil {
		return nil, translate(err)
	}
	if err := s.attachTags(ctx, []*domain.Entry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// GetEntriesByIDs returns the entries that still exist among ids, in no
// particular order. Missing IDs are skipped.
func (s *Store) GetEntriesByIDs(ctx context.Context, ids []string) ([]*domain.Entry, error) {
	entries := []*domain.Entry{}
	for _, chunk := range chunkIDs(ids) {
		found, err := s.listEntries(ctx, entrySelect+` WHERE e.id IN (`+placeholders(len(chunk))+`)`, stringArgs(chunk)...)
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
	}
	return entries, nil
}

// ListEntriesByDiary returns the diary's entries, oldest first.
func (s *Store) ListEntriesByDiary(ctx context.Context, diaryID string) ([]*domain.Entry, error) {
	return s.listEntries(ctx, entrySelect+` WHERE e.diary_id = ? ORDER BY e.created_at, e.id`, diaryID)
}

// ListEntriesByOwner returns every entry in every diary owned by ownerID.
func (s *Store) ListEntriesByOwner(ctx context.Context, ownerID string) ([]*domain.Entry, error) {
	return s.listEntries(ctx, entrySelect+` WHERE d.owner_user_id = ? ORDER BY e.created_at, e.id`, ownerID)
}

// ListEntriesByTag returns every entry carrying the tag regardless of diary
// privacy. Visibility filtering is the caller's decision.
func (s *Store) ListEntriesByTag(ctx context.Context, tagID string) ([]*domain.Entry, error) {
	return s.listEntries(ctx, entrySelect+`
		JOIN entry_tags et ON et.entry_id = e.id
		WHERE et.tag_id = ?
		ORDER BY e.created_at, e.id`, tagID)
}

// ListEntries returns every entry. Used to repopulate the search index.
func (s *Store) ListEntries(ctx context.Context) ([]*domain.Entry, error) {
	return s.listEntries(ctx, entrySelect+` ORDER BY e.created_at, e.id`)
}

// UpdateEntry stores the content of e.
func (s *Store) UpdateEntry(ctx context.Context, e *domain.Entry) error {
	res, err := s.exec(ctx, s.db, `
		UPDATE entries SET content = ?, updated_at = ?
		WHERE id = ?`,
		e.Content, formatTime(e.UpdatedAt), e.ID,
	)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

// DeleteEntry removes the entry and its tag links, likes and comments.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	res, err := s.exec(ctx, s.db, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

func (s *Store) listEntries(ctx context.Context, query string, args ...any) ([]*domain.Entry, error) {
	entries, err := func() ([]*domain.Entry, error) {
		rows, err := s.query(ctx, s.db, query, args...)
		if err != nil {
			return nil, translate(err)
		}
		defer rows.Close()

		entries := []*domain.Entry{}
		for rows.Next() {
			e, err := scanEntry(rows)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
		return entries, rows.Err()
	}()
	if err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// attachTags loads the tags of all entries, one query per chunk of IDs.
func (s *Store) attachTags(ctx context.Context, entries []*domain.Entry) error {
	byID := make(map[string]*domain.Entry, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	for _, chunk := range chunkIDs(ids) {
		if err := s.attachTagChunk(ctx, byID, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) attachTagChunk(ctx context.Context, byID map[string]*domain.Entry, ids []string) error {
	rows, err := s.query(ctx, s.db, `
		SELECT et.entry_id, `+tagColumnsT+`
		FROM entry_tags et
		JOIN tags t ON t.id = et.tag_id
		WHERE et.entry_id IN (`+placeholders(len(ids))+`)
		ORDER BY t.name`, stringArgs(ids)...)
	if err != nil {
		return translate(err)
	}
	defer rows.Close()

	for rows.Next() {
		var entryID string
		t, err := scanTag(prefixScanner{rows, &entryID})
		if err != nil {
			return err
		}
		if e, ok := byID[entryID]; ok {
			e.Tags = append(e.Tags, t)
		}
	}
	return rows.Err()
}

// prefixScanner scans one leading column into first before handing the rest
// of the row to a scanX function.
type prefixScanner struct {
	rows  *sql.Rows
	first *string
}

func (p prefixScanner) Scan(dest ...any) error {
	return p.rows.Scan(append([]any{p.first}, dest...)...)
}
