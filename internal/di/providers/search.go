package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/diaryhq/diary-server/internal/config"
	"github.com/diaryhq/diary-server/internal/logger"
	"github.com/diaryhq/diary-server/internal/search"
	"github.com/diaryhq/diary-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.EntryIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve entry index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewEntryIndex(search.Options{
		DataPath: cfg.Search.IndexPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.Count()
	log.Info("Search index initialized",
		"path", cfg.Search.IndexPath,
		"documents", docCount,
		"created", index.Created(),
	)

	return &SearchIndexHandle{EntryIndex: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(indexHandle.EntryIndex, storeHandle.Store, log.Logger), nil
}

// ReindexIfCreated repopulates a freshly created index from the store. It
// runs before the HTTP server starts, so no write can slip between listing
// the entries and rebuilding. A failure is logged and the server starts
// with whatever the index holds.
func ReindexIfCreated(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	if !indexHandle.Created() {
		return
	}

	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	log.Info("Search index is new, reindexing entries")

	ctx, cancel := context.WithTimeout(context.Background(), reindexTimeout)
	defer cancel()

	if err := searchService.Reindex(ctx); err != nil {
		log.Error("Initial search reindex failed", "error", err)
		return
	}
	count, _ := searchService.DocumentCount()
	log.Info("Initial search reindex completed", "documents", count)
}
