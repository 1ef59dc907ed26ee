package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func newTestRepo(t *testing.T) *SnapshotRepository {
	t.Helper()
	repo, err := NewSnapshotRepository(filepath.Join(t.TempDir(), "snap.db"))
	if err != nil {
		t.Fatalf("NewSnapshotRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSnapshotRoundtrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	body := []byte(`[{"pledge_id":"p1","pledge_created_at":"2023-01-15","contribution_amount":100}]`)
	if err := repo.SaveDataset(ctx, DatasetPledges, body); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}

	got, fetchedAt, err := repo.LoadDataset(ctx, DatasetPledges)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if string(got) != string(body) {
		t.Fatalf("body mismatch: %s", got)
	}
	if fetchedAt.IsZero() {
		t.Fatal("fetched_at not recorded")
	}
}

func TestSnapshotOverwrite(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveDataset(ctx, DatasetPayments, []byte(`[]`)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.SaveDataset(ctx, DatasetPayments, []byte(`[{"pledge_id":"p1"}]`)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, _, err := repo.LoadDataset(ctx, DatasetPayments)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if !strings.Contains(string(got), "p1") {
		t.Fatalf("overwrite did not stick: %s", got)
	}
}

func TestSnapshotMissingDataset(t *testing.T) {
	repo := newTestRepo(t)
	_, _, err := repo.LoadDataset(context.Background(), DatasetPledges)
	if err == nil {
		t.Fatal("expected error for missing dataset")
	}
	if !strings.Contains(err.Error(), "pledgeboard-import") {
		t.Fatalf("error should point at the import tool: %v", err)
	}
}
