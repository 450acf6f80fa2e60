package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/mwhitfield/snagbook/internal/domain"
)

// =============================================================================
// Report Collection Persistence
// =============================================================================

// CollectionStore persists the full ordered report collection as a single
// JSON object. Every save writes the whole collection, so the stored state
// is always one committed tree, never a partial update.
type CollectionStore struct {
	storage Storage
	key     string
	logger  *slog.Logger
}

// NewCollectionStore creates a CollectionStore backed by the given storage.
func NewCollectionStore(storage Storage, logger *slog.Logger) *CollectionStore {
	return &CollectionStore{
		storage: storage,
		key:     CollectionKey,
		logger:  logger,
	}
}

// Load reads the stored report collection.
//
// A missing collection object is not an error: a fresh deployment has
// nothing saved yet, so Load returns an empty slice.
func (c *CollectionStore) Load(ctx context.Context) ([]domain.Report, error) {
	reader, _, err := c.storage.Get(ctx, c.key)
	if err != nil {
		if IsNotFound(err) {
			return []domain.Report{}, nil
		}
		return nil, fmt.Errorf("failed to load report collection: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read report collection: %w", err)
	}

	var reports []domain.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode report collection: %w", err)
	}

	c.logger.Debug("loaded report collection", "reports", len(reports))

	return reports, nil
}

// Save writes the full report collection, replacing any previous version.
// Order is preserved: reports marshal in the order given.
func (c *CollectionStore) Save(ctx context.Context, reports []domain.Report) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report collection: %w", err)
	}

	err = c.storage.Put(ctx, c.key, bytes.NewReader(data), PutOptions{
		ContentType: "application/json",
		Overwrite:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to save report collection: %w", err)
	}

	c.logger.Debug("saved report collection", "reports", len(reports), "bytes", len(data))

	return nil
}
