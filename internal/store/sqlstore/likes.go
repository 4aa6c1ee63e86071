package sqlstore

import (
	"context"

	"github.com/diaryhq/diary-server/internal/domain"
)

// likeColumns must match the scan order in scanLike.
const likeColumns = `id, user_id, entry_id, created_at`

func scanLike(sc scanner) (*domain.Like, error) {
	var (
		l         domain.Like
		createdAt string
	)
	if err := sc.Scan(&l.ID, &l.UserID, &l.EntryID, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLike inserts l. The UNIQUE (user_id, entry_id) constraint turns a
// second like by the same user into store.ErrAlreadyExists.
func (s *Store) CreateLike(ctx context.Context, l *domain.Like) error {
	_, err := s.exec(ctx, s.db, `
		INSERT INTO likes (id, user_id, entry_id, created_at)
		VALUES (?, ?, ?, ?)`,
		l.ID, l.UserID, l.EntryID, formatTime(l.CreatedAt),
	)
	return translate(err)
}

// GetLike returns the like with the given ID.
func (s *Store) GetLike(ctx context.Context, id string) (*domain.Like, error) {
	l, err := scanLike(s.queryRow(ctx, s.db, `SELECT `+likeColumns+` FROM likes WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err)
	}
	return l, nil
}

// ListLikesByEntry returns the entry's likes, oldest first.
func (s *Store) ListLikesByEntry(ctx context.Context, entryID string) ([]*domain.Like, error) {
	rows, err := s.query(ctx, s.db, `SELECT `+likeColumns+` FROM likes WHERE entry_id = ? ORDER BY created_at, id`, entryID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	likes := []*domain.Like{}
	for rows.Next() {
		l, err := scanLike(rows)
		if err != nil {
			return nil, err
		}
		likes = append(likes, l)
	}
	return likes, rows.Err()
}

// DeleteLike removes the like with the given ID.
func (s *Store) DeleteLike(ctx context.Context, id string) error {
	res, err := s.exec(ctx, s.db, `DELETE FROM likes WHERE id = ?`, id)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}
