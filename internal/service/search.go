package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/diaryhq/diary-server/internal/domain"
	domainerrors "github.com/diaryhq/diary-server/internal/errors"
	"github.com/diaryhq/diary-server/internal/policy"
	"github.com/diaryhq/diary-server/internal/search"
	"github.com/diaryhq/diary-server/internal/store"
)

// SearchService keeps the entry index in step with the store and answers
// full-text queries over the actor's own entries.
//
// Index maintenance is best effort: failures are logged and never fail the
// write that triggered them. Queries re-read hits from the store and re-check
// ownership, so a stale document can only cost a missed result.
type SearchService struct {
	index  *search.EntryIndex
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.EntryIndex, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: orDiscard(logger),
	}
}

// Search returns the actor's entries matching query, best match first.
func (s *SearchService) Search(ctx context.Context, actor *domain.User, query string, limit int) ([]*domain.Entry, error) {
	if err := policy.Authenticated(actorID(actor)); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("Search query cannot be empty")
	}
	if limit < 0 {
		return nil, domainerrors.Validation("Limit must not be negative")
	}

	hits, err := s.index.Search(ctx, actor.ID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	if len(hits) == 0 {
		return []*domain.Entry{}, nil
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	found, err := s.store.GetEntriesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load search hits: %w", err)
	}

	byID := make(map[string]*domain.Entry, len(found))
	for _, e := range policy.OwnedBy(actor.ID, found) {
		byID[e.ID] = e
	}

	results := make([]*domain.Entry, 0, len(byID))
	var stale []string
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			results = append(results, e)
		} else {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		s.logger.Debug("dropping stale search documents", "count", len(stale))
		s.RemoveEntries(stale...)
	}
	return results, nil
}

// IndexEntry adds or refreshes e. e must carry its owner and tags.
func (s *SearchService) IndexEntry(e *domain.Entry) {
	if err := s.index.Index(search.NewEntryDocument(e)); err != nil {
		s.logger.Warn("failed to index entry", "entry_id", e.ID, "error", err)
	}
}

// ReindexEntries re-reads the given entries from the store and refreshes
// their documents.
func (s *SearchService) ReindexEntries(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	entries, err := s.store.GetEntriesByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("failed to load entries for reindex", "count", len(ids), "error", err)
		return
	}
	if err := s.index.IndexBatch(documents(entries)); err != nil {
		s.logger.Warn("failed to reindex entries", "count", len(entries), "error", err)
	}
}

// RemoveEntries drops the documents of deleted entries.
func (s *SearchService) RemoveEntries(ids ...string) {
	if err := s.index.Delete(ids...); err != nil {
		s.logger.Warn("failed to remove entries from index", "count", len(ids), "error", err)
	}
}

// Reindex rebuilds the whole index from the store.
func (s *SearchService) Reindex(ctx context.Context) error {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	if err := s.index.Rebuild(documents(entries)); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	return nil
}

// DocumentCount returns the number of indexed entries.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.Count()
}

func documents(entries []*domain.Entry) []*search.EntryDocument {
	docs := make([]*search.EntryDocument, len(entries))
	for i, e := range entries {
		docs[i] = search.NewEntryDocument(e)
	}
	return docs
}

func entryIDs(entries []*domain.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
