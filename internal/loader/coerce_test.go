package loader

import (
	"testing"
	"time"
)

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{"p1", "p1", true},
		{float64(12), "12", true},
		{12.5, "12.5", true},
		{true, "true", true},
		{nil, "", false},
	}
	for _, tc := range cases {
		got, ok := stringify(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("stringify(%v) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCoerceFloat(t *testing.T) {
	cases := []struct {
		in    any
		want  float64
		valid bool
	}{
		{100.0, 100, true},
		{"40.5", 40.5, true},
		{" 7 ", 7, true},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tc := range cases {
		got := coerceFloat(tc.in)
		if got.Valid != tc.valid {
			t.Fatalf("coerceFloat(%v).Valid = %v, want %v", tc.in, got.Valid, tc.valid)
		}
		if got.Valid && got.Float64 != tc.want {
			t.Fatalf("coerceFloat(%v) = %v, want %v", tc.in, got.Float64, tc.want)
		}
	}
}

func TestCoerceTime(t *testing.T) {
	got := coerceTime("2023-01-15")
	if !got.Valid {
		t.Fatal("expected valid date")
	}
	want := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Time.Equal(want) {
		t.Fatalf("coerceTime = %v, want %v", got.Time, want)
	}

	if !coerceTime("2023-02-01T10:30:00Z").Valid {
		t.Fatal("expected RFC3339 to parse")
	}

	for _, bad := range []any{"not a date", nil, float64(1234), ""} {
		if coerceTime(bad).Valid {
			t.Fatalf("coerceTime(%v) should be missing", bad)
		}
	}
}
