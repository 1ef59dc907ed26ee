package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleDoc = `[{"pledge_id":"p1","contribution_amount":100},{"pledge_id":"p2"}]`

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pledges.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	records, err := NewFile(path).Records(context.Background())
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 || records[0]["pledge_id"] != "p1" {
		t.Fatalf("unexpected records %v", records)
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, err := NewFile("/does/not/exist.json").Records(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestHTTPSource(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleDoc))
	}))
	defer ts.Close()

	records, err := NewHTTP(ts.URL, 5*time.Second).Records(context.Background())
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
}

func TestHTTPSourceBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer ts.Close()

	if _, err := NewHTTP(ts.URL, 5*time.Second).Records(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFromLocationDispatch(t *testing.T) {
	if _, ok := FromLocation("https://example.com/p.json", time.Second).(*HTTPSource); !ok {
		t.Fatal("https location should fetch over HTTP")
	}
	if _, ok := FromLocation("./data/p.json", time.Second).(*FileSource); !ok {
		t.Fatal("plain path should read a file")
	}
}

func TestRawDocumentRejectsNonArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"not":"an array"}`), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := RawDocument(context.Background(), path, time.Second); err == nil {
		t.Fatal("expected decode error for non-array document")
	}
}

func TestRawDocumentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	body, err := RawDocument(context.Background(), path, time.Second)
	if err != nil {
		t.Fatalf("RawDocument: %v", err)
	}
	if string(body) != sampleDoc {
		t.Fatal("raw document must be stored verbatim")
	}
}
