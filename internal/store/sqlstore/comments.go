package sqlstore

import (
	"context"

	"github.com/diaryhq/diary-server/internal/domain"
)

// commentColumns must match the scan order in scanComment.
const commentColumns = `id, user_id, entry_id, content, created_at, updated_at`

func scanComment(sc scanner) (*domain.Comment, error) {
	var (
		c                    domain.Comment
		createdAt, updatedAt string
	)
	if err := sc.Scan(&c.ID, &c.UserID, &c.EntryID, &c.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment inserts c.
func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	_, err := s.exec(ctx, s.db, `
		INSERT INTO comments (id, user_id, entry_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.EntryID, c.Content, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	return translate(err)
}

// GetComment returns the comment with the given ID.
func (s *Store) GetComment(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := scanComment(s.queryRow(ctx, s.db, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// ListCommentsByEntry returns the entry's comments, oldest first.
func (s *Store) ListCommentsByEntry(ctx context.Context, entryID string) ([]*domain.Comment, error) {
	rows, err := s.query(ctx, s.db, `SELECT `+commentColumns+` FROM comments WHERE entry_id = ? ORDER BY created_at, id`, entryID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateComment stores the content of c.
func (s *Store) UpdateComment(ctx context.Context, c *domain.Comment) error {
	res, err := s.exec(ctx, s.db, `UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`,
		c.Content, formatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

// DeleteComment removes the comment with the given ID.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	res, err := s.exec(ctx, s.db, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}
