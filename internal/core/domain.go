package core

import (
	"database/sql"
	"sort"
)

type (
	// Pledge is one cleaned pledge record. Date is the canonical pledge date
	// selected from the source's recognized date columns; it may be invalid
	// when the raw value failed coercion, in which case Year is 0.
	Pledge struct {
		ID     string
		Date   sql.NullTime
		Amount sql.NullFloat64
		Year   int
	}

	// Payment is one cleaned payment record, keyed by the pledge it pays.
	Payment struct {
		PledgeID string
		Date     sql.NullTime
		Amount   sql.NullFloat64
	}

	// Row is one record of the joined table: a pledge paired with one of its
	// payments, or with empty payment fields when no payment matched.
	Row struct {
		PledgeID      string
		PledgeDate    sql.NullTime
		Contribution  sql.NullFloat64
		Year          int
		PaymentDate   sql.NullTime
		PaymentAmount sql.NullFloat64
		HasPayment    bool
	}

	// Table is the immutable left-join result the whole dashboard derives from.
	Table struct {
		Rows []Row
	}
)

// SchemaError reports that the pledge source carries none of the recognized
// date columns, or lacks another required column.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "schema error: " + e.Reason
}

// JoinIntegrityError reports that an expected field did not survive the join.
type JoinIntegrityError struct {
	Field string
}

func (e *JoinIntegrityError) Error() string {
	return "join integrity error: missing field " + e.Field
}

// Len returns the number of joined rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Years returns the distinct pledge years present, ascending. Rows whose
// pledge date failed coercion (Year 0) are not reported.
func (t Table) Years() []int {
	seen := map[int]struct{}{}
	var out []int
	for _, r := range t.Rows {
		if r.Year == 0 {
			continue
		}
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		out = append(out, r.Year)
	}
	sort.Ints(out)
	return out
}

// FilterYears returns the rows whose year is in the given set. A nil slice
// means no filtering; an empty non-nil slice selects nothing, matching a
// filter control with every option deselected.
func (t Table) FilterYears(years []int) Table {
	if years == nil {
		return t
	}
	want := make(map[int]struct{}, len(years))
	for _, y := range years {
		want[y] = struct{}{}
	}
	out := Table{Rows: make([]Row, 0, len(t.Rows))}
	for _, r := range t.Rows {
		if _, ok := want[r.Year]; ok {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
