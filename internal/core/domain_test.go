package core

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"
)

func row(id string, year int) Row {
	return Row{
		PledgeID:   id,
		PledgeDate: sql.NullTime{Time: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), Valid: year != 0},
		Year:       year,
	}
}

func TestTableYears(t *testing.T) {
	tbl := Table{Rows: []Row{
		row("a", 2023),
		row("b", 2021),
		row("c", 2023),
		row("d", 0), // coercion failure, no year bucket
	}}
	got := tbl.Years()
	want := []int{2021, 2023}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Years() = %v, want %v", got, want)
	}
}

func TestFilterYears(t *testing.T) {
	tbl := Table{Rows: []Row{row("a", 2021), row("b", 2022), row("c", 2023)}}

	cases := []struct {
		name  string
		years []int
		want  int
	}{
		{"nil means all", nil, 3},
		{"empty selects nothing", []int{}, 0},
		{"subset", []int{2021, 2023}, 2},
		{"absent year", []int{1999}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tbl.FilterYears(tc.years).Len(); got != tc.want {
				t.Fatalf("FilterYears(%v) kept %d rows, want %d", tc.years, got, tc.want)
			}
		})
	}
}

func TestErrorTypes(t *testing.T) {
	var schemaErr *SchemaError
	err := error(&SchemaError{Reason: "no date column"})
	if !errors.As(err, &schemaErr) {
		t.Fatal("expected errors.As to match SchemaError")
	}

	var joinErr *JoinIntegrityError
	err = error(&JoinIntegrityError{Field: "amount"})
	if !errors.As(err, &joinErr) {
		t.Fatal("expected errors.As to match JoinIntegrityError")
	}
	if joinErr.Field != "amount" {
		t.Fatalf("unexpected field %q", joinErr.Field)
	}
}
