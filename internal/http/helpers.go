package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// parseYears extracts the year filter from the query string. An absent
// parameter means "all years" (nil); an empty parameter means an explicitly
// empty selection. Unparsable entries are ignored.
func parseYears(r *http.Request) []int {
	if !r.URL.Query().Has("years") {
		return nil
	}
	raw := r.URL.Query().Get("years")
	years := []int{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if y, err := strconv.Atoi(part); err == nil {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

// yearsKey canonicalizes a selection for singleflight deduplication.
func yearsKey(years []int) string {
	if years == nil {
		return "all"
	}
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ",")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
