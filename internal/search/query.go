package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Limits for Search.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Hit is one matching entry ID with its relevance score.
type Hit struct {
	ID    string
	Score float64
}

// Search returns entries owned by ownerID whose content or tags match text,
// best match first.
func (x *EntryIndex) Search(ctx context.Context, ownerID, text string, limit int) ([]Hit, error) {
	text = strings.TrimSpace(text)
	if text == "" || ownerID == "" {
		return []Hit{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	req := bleve.NewSearchRequestOptions(buildQuery(ownerID, text), limit, 0, false)
	req.SortBy([]string{"-_score", "-created_at"})

	x.mu.RLock()
	res, err := x.index.SearchInContext(ctx, req)
	x.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}

func buildQuery(ownerID, text string) query.Query {
	contentMatch := bleve.NewMatchQuery(text)
	contentMatch.SetField("content")
	contentMatch.SetBoost(2.0)

	// Typo tolerance on single words.
	fuzzy := bleve.NewFuzzyQuery(strings.ToLower(text))
	fuzzy.SetField("content")
	fuzzy.SetFuzziness(1)
	fuzzy.SetBoost(0.5)

	tagMatch := bleve.NewMatchQuery(text)
	tagMatch.SetField("tags")

	owner := bleve.NewTermQuery(ownerID)
	owner.SetField("owner_id")

	return bleve.NewConjunctionQuery(
		owner,
		bleve.NewDisjunctionQuery(contentMatch, fuzzy, tagMatch),
	)
}
