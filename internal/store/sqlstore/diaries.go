package sqlstore

import (
	"context"

	"github.com/diaryhq/diary-server/internal/domain"
)

// diarySelect must match the scan order in scanDiary.
const diarySelect = `
	SELECT d.id, d.owner_user_id, d.title, d.privacy, d.created_at, d.updated_at,
	       (SELECT COUNT(*) FROM entries e WHERE e.diary_id = d.id)
	FROM diaries d`

func scanDiary(sc scanner) (*domain.Diary, error) {
	var (
		d                    domain.Diary
		privacy              string
		createdAt, updatedAt string
	)
	if err := sc.Scan(&d.ID, &d.OwnerID, &d.Title, &privacy, &createdAt, &updatedAt, &d.EntryCount); err != nil {
		return nil, err
	}
	d.Privacy = domain.Privacy(privacy)

	var err error
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDiary inserts d. Returns store.ErrInvalidReference if the owner is gone.
func (s *Store) CreateDiary(ctx context.Context, d *domain.Diary) error {
	_, err := s.exec(ctx, s.db, `
		INSERT INTO diaries (id, owner_user_id, title, privacy, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.OwnerID, d.Title, string(d.Privacy), formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
	)
	return translate(err)
}

// GetDiary returns the diary with the given ID.
func (s *Store) GetDiary(ctx context.Context, id string) (*domain.Diary, error) {
	d, err := scanDiary(s.queryRow(ctx, s.db, diarySelect+` WHERE d.id = ?`, id))
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// ListDiariesByOwner returns the owner's diaries, oldest first.
func (s *Store) ListDiariesByOwner(ctx context.Context, ownerID string) ([]*domain.Diary, error) {
	rows, err := s.query(ctx, s.db, diarySelect+` WHERE d.owner_user_id = ? ORDER BY d.created_at, d.id`, ownerID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	diaries := []*domain.Diary{}
	for rows.Next() {
		d, err := scanDiary(rows)
		if err != nil {
			return nil, err
		}
		diaries = append(diaries, d)
	}
	return diaries, rows.Err()
}

// UpdateDiary stores the title and privacy of d.
func (s *Store) UpdateDiary(ctx context.Context, d *domain.Diary) error {
	res, err := s.exec(ctx, s.db, `
		UPDATE diaries SET title = ?, privacy = ?, updated_at = ?
		WHERE id = ?`,
		d.Title, string(d.Privacy), formatTime(d.UpdatedAt), d.ID,
	)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

// DeleteDiary removes the diary and, by cascade, its entries and their
// tags, likes and comments.
func (s *Store) DeleteDiary(ctx context.Context, id string) error {
	res, err := s.exec(ctx, s.db, `DELETE FROM diaries WHERE id = ?`, id)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}
