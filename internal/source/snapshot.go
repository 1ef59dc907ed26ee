package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"pledgeboard/internal/storage"
)

// SnapshotSource reads one dataset out of the local SQLite snapshot written
// by pledgeboard-import.
type SnapshotSource struct {
	repo    *storage.SnapshotRepository
	dataset string
}

func NewSnapshot(repo *storage.SnapshotRepository, dataset string) *SnapshotSource {
	return &SnapshotSource{repo: repo, dataset: dataset}
}

func (s *SnapshotSource) Records(ctx context.Context) ([]map[string]any, error) {
	body, fetchedAt, err := s.repo.LoadDataset(ctx, s.dataset)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "Loaded dataset from snapshot",
		"dataset", s.dataset, "fetched_at", fetchedAt, "bytes", len(body))

	records, err := decodeRecords(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot dataset %s: %w", s.dataset, err)
	}
	return records, nil
}
