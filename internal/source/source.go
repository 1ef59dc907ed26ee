package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// RecordSource is the inbound port for one dataset: a flat JSON array of
// records, wherever it happens to live.
type RecordSource interface {
	Records(ctx context.Context) ([]map[string]any, error)
}

// FromLocation picks an implementation based on the location string: http(s)
// URLs fetch over the network, anything else is treated as a file path.
func FromLocation(location string, timeout time.Duration) RecordSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTP(location, timeout)
	}
	return NewFile(location)
}

// HTTPSource fetches a JSON document over HTTP.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTP(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Records(ctx context.Context) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", s.url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", s.url, resp.StatusCode)
	}

	records, err := decodeRecords(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.url, err)
	}
	return records, nil
}

// FileSource reads a JSON document from the local filesystem.
type FileSource struct {
	path string
}

func NewFile(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Records(_ context.Context) ([]map[string]any, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := decodeRecords(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return records, nil
}

// RawDocument fetches the unparsed JSON document behind a location, after
// verifying it decodes as a flat record array. Used by the snapshot import.
func RawDocument(ctx context.Context, location string, timeout time.Duration) ([]byte, error) {
	var body []byte
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, fmt.Errorf("build request for %s: %w", location, err)
		}
		req.Header.Set("Accept", "application/json")
		client := &http.Client{Timeout: timeout}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", location, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: unexpected status %d", location, resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", location, err)
		}
	} else {
		var err error
		body, err = os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", location, err)
		}
	}

	if _, err := decodeRecords(bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("decode %s: %w", location, err)
	}
	return body, nil
}

func decodeRecords(r io.Reader) ([]map[string]any, error) {
	var records []map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}
