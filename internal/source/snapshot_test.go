package source

import (
	"context"
	"path/filepath"
	"testing"

	"pledgeboard/internal/storage"
)

func TestSnapshotSource(t *testing.T) {
	repo, err := storage.NewSnapshotRepository(filepath.Join(t.TempDir(), "snap.db"))
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.SaveDataset(ctx, storage.DatasetPledges, []byte(sampleDoc)); err != nil {
		t.Fatalf("save: %v", err)
	}

	records, err := NewSnapshot(repo, storage.DatasetPledges).Records(ctx)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 || records[0]["pledge_id"] != "p1" {
		t.Fatalf("unexpected records %v", records)
	}

	if _, err := NewSnapshot(repo, storage.DatasetPayments).Records(ctx); err == nil {
		t.Fatal("expected error for dataset missing from snapshot")
	}
}
