package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// EntryIndex wraps a Bleve index of entry documents.
//
// All methods are safe for concurrent use.
type EntryIndex struct {
	index   bleve.Index
	path    string // empty for an in-memory index
	created bool
	logger  *slog.Logger
	mu      sync.RWMutex // exclusive only while rebuilding
}

// Options configures the entry index.
type Options struct {
	DataPath string       // directory for index storage; empty keeps the index in memory
	Logger   *slog.Logger // uses discard if nil
}

// mappingVersion is bumped whenever buildIndexMapping changes, which forces a
// rebuild on the next start.
const mappingVersion = "1"

// NewEntryIndex opens the index under opts.DataPath, creating it when absent.
// An index with a missing or outdated version file, or one that fails to
// open, is removed and recreated empty; Created then reports true so the
// caller can repopulate it.
func NewEntryIndex(opts Options) (*EntryIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if opts.DataPath == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create memory index: %w", err)
		}
		return &EntryIndex{index: index, created: true, logger: logger}, nil
	}

	if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	indexPath := filepath.Join(opts.DataPath, "entries.bleve")
	versionPath := filepath.Join(opts.DataPath, "entries.version")

	var (
		index        bleve.Index
		err          error
		needsRebuild bool
	)

	_, statErr := os.Stat(indexPath)
	indexExists := statErr == nil

	if indexExists {
		existing, readErr := os.ReadFile(versionPath)
		switch {
		case readErr != nil:
			logger.Info("search index has no version file, rebuilding", "version", mappingVersion)
			needsRebuild = true
		case string(existing) != mappingVersion:
			logger.Info("search index mapping changed, rebuilding",
				"old_version", string(existing),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if indexExists && !needsRebuild {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open search index, recreating", "path", indexPath, "error", err)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
		index = nil
	}

	created := false
	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
			logger.Warn("failed to write search version file", "error", err)
		}
		created = true
		logger.Info("created search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened search index", "path", indexPath)
	}

	return &EntryIndex{index: index, path: indexPath, created: created, logger: logger}, nil
}

// Created reports whether the index started empty in this process.
func (x *EntryIndex) Created() bool {
	return x.created
}

// Close closes the index.
func (x *EntryIndex) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.index.Close()
}

// Index adds or replaces the document for one entry.
func (x *EntryIndex) Index(doc *EntryDocument) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.Index(doc.ID, doc.ToMap())
}

// IndexBatch indexes docs in chunks.
func (x *EntryIndex) IndexBatch(docs []*EntryDocument) error {
	x.mu.RLock()
	defer x.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))

		batch := x.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := x.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// Delete removes the documents with the given IDs. Unknown IDs are ignored.
func (x *EntryIndex) Delete(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	x.mu.RLock()
	defer x.mu.RUnlock()

	batch := x.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	return x.index.Batch(batch)
}

// Count returns the number of indexed documents.
func (x *EntryIndex) Count() (uint64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.DocCount()
}

// Rebuild replaces the index contents with docs. Writes made between
// listing docs and the call are lost, so run it before serving requests.
// When the new index cannot be created the old contents are dropped and an
// empty in-memory index takes over, so the index is never left closed.
func (x *EntryIndex) Rebuild(docs []*EntryDocument) error {
	if err := x.reset(); err != nil {
		return err
	}

	if err := x.IndexBatch(docs); err != nil {
		return err
	}
	x.logger.Info("rebuilt search index", "documents", len(docs))
	return nil
}

func (x *EntryIndex) reset() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.path == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return fmt.Errorf("create index: %w", err)
		}
		if err := x.index.Close(); err != nil {
			x.logger.Warn("failed to close replaced search index", "error", err)
		}
		x.index = index
		return nil
	}

	if err := x.index.Close(); err != nil {
		x.logger.Warn("failed to close search index before rebuild", "error", err)
	}

	err := os.RemoveAll(x.path)
	if err != nil {
		err = fmt.Errorf("remove index: %w", err)
	} else {
		var index bleve.Index
		if index, err = bleve.New(x.path, buildIndexMapping()); err == nil {
			x.index = index
			return nil
		}
		err = fmt.Errorf("create index: %w", err)
	}

	fallback, memErr := bleve.NewMemOnly(buildIndexMapping())
	if memErr != nil {
		return fmt.Errorf("%w; memory fallback: %w", err, memErr)
	}
	x.logger.Error("search index rebuild failed, serving from memory", "path", x.path, "error", err)
	x.index = fallback
	return err
}
