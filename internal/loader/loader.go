package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"pledgeboard/internal/core"
	"pledgeboard/internal/source"
)

// Recognized pledge date columns, in preference order. The first one present
// in the pledge source becomes the canonical pledge date.
var pledgeDateColumns = []string{
	"pledge_created_at",
	"pledge_starts_at",
	"pledge_ended_at",
}

const (
	colPledgeID     = "pledge_id"
	colContribution = "contribution_amount"
	colPaymentDate  = "date"
	colPaymentAmt   = "amount"
)

// Load fetches both datasets, cleans them, and left-joins payments onto
// pledges. It fails with *core.SchemaError when the pledge source lacks a
// recognized date column or another required column, and with
// *core.JoinIntegrityError when the payment amount field cannot survive the
// join. Per-cell coercion failures are tolerated: the value becomes missing
// and the row stays.
func Load(ctx context.Context, pledges, payments source.RecordSource) (core.Table, error) {
	pledgeRecs, err := pledges.Records(ctx)
	if err != nil {
		return core.Table{}, fmt.Errorf("load pledges: %w", err)
	}
	paymentRecs, err := payments.Records(ctx)
	if err != nil {
		return core.Table{}, fmt.Errorf("load payments: %w", err)
	}

	pledgeCols := columnSet(pledgeRecs)
	paymentCols := columnSet(paymentRecs)
	slog.InfoContext(ctx, "Parsed source datasets",
		"pledge_records", len(pledgeRecs), "pledge_columns", sortedKeys(pledgeCols),
		"payment_records", len(paymentRecs), "payment_columns", sortedKeys(paymentCols))

	dateCol := ""
	for _, c := range pledgeDateColumns {
		if _, ok := pledgeCols[c]; ok {
			dateCol = c
			break
		}
	}
	if dateCol == "" {
		return core.Table{}, &core.SchemaError{
			Reason: "no suitable pledge date column found (pledge_created_at, pledge_starts_at, or pledge_ended_at)",
		}
	}

	for _, required := range []string{colPledgeID, colContribution} {
		if _, ok := pledgeCols[required]; !ok {
			return core.Table{}, &core.SchemaError{
				Reason: "missing column in pledges dataset: " + required,
			}
		}
	}

	cleanPledges, pledgeWarnings := cleanPledgeRecords(pledgeRecs, dateCol)
	cleanPayments, paymentWarnings := cleanPaymentRecords(paymentRecs)
	if pledgeWarnings+paymentWarnings > 0 {
		slog.DebugContext(ctx, "Tolerated coercion failures",
			"pledge_cells", pledgeWarnings, "payment_cells", paymentWarnings)
	}

	// The payment amount column must be able to survive the join. An issue
	// only when there are payment records at all.
	if len(paymentRecs) > 0 {
		if _, ok := paymentCols[colPaymentAmt]; !ok {
			return core.Table{}, &core.JoinIntegrityError{Field: colPaymentAmt}
		}
	}

	table := join(cleanPledges, cleanPayments)
	slog.InfoContext(ctx, "Joined datasets",
		"pledges", len(cleanPledges), "payments", len(cleanPayments), "rows", table.Len())
	return table, nil
}

// cleanPledgeRecords drops rows without an identifier, normalizes the
// identifier to a string, coerces date and amount, and derives the year.
func cleanPledgeRecords(records []map[string]any, dateCol string) ([]core.Pledge, int) {
	out := make([]core.Pledge, 0, len(records))
	warnings := 0
	for _, rec := range records {
		id, ok := stringify(rec[colPledgeID])
		if !ok {
			continue
		}

		date := coerceTime(rec[dateCol])
		if _, present := rec[dateCol]; present && !date.Valid {
			warnings++
		}
		amount := coerceFloat(rec[colContribution])
		if _, present := rec[colContribution]; present && !amount.Valid {
			warnings++
		}

		year := 0
		if date.Valid {
			year = date.Time.Year()
		}
		out = append(out, core.Pledge{ID: id, Date: date, Amount: amount, Year: year})
	}
	return out, warnings
}

func cleanPaymentRecords(records []map[string]any) ([]core.Payment, int) {
	out := make([]core.Payment, 0, len(records))
	warnings := 0
	for _, rec := range records {
		id, ok := stringify(rec[colPledgeID])
		if !ok {
			continue
		}

		// Payment dates are stringified before parsing; raw values may be
		// non-string.
		date := coerceTime(rec[colPaymentDate])
		if _, present := rec[colPaymentDate]; present && !date.Valid {
			warnings++
		}
		amount := coerceFloat(rec[colPaymentAmt])
		if _, present := rec[colPaymentAmt]; present && !amount.Valid {
			warnings++
		}

		out = append(out, core.Payment{PledgeID: id, Date: date, Amount: amount})
	}
	return out, warnings
}

// join produces the left outer join: every pledge appears once per matching
// payment, or once with empty payment fields; unmatched payments are dropped.
func join(pledges []core.Pledge, payments []core.Payment) core.Table {
	byPledge := make(map[string][]core.Payment, len(payments))
	for _, p := range payments {
		byPledge[p.PledgeID] = append(byPledge[p.PledgeID], p)
	}

	table := core.Table{Rows: make([]core.Row, 0, len(pledges))}
	for _, pl := range pledges {
		matches := byPledge[pl.ID]
		if len(matches) == 0 {
			table.Rows = append(table.Rows, core.Row{
				PledgeID:     pl.ID,
				PledgeDate:   pl.Date,
				Contribution: pl.Amount,
				Year:         pl.Year,
			})
			continue
		}
		for _, pay := range matches {
			table.Rows = append(table.Rows, core.Row{
				PledgeID:      pl.ID,
				PledgeDate:    pl.Date,
				Contribution:  pl.Amount,
				Year:          pl.Year,
				PaymentDate:   pay.Date,
				PaymentAmount: pay.Amount,
				HasPayment:    true,
			})
		}
	}
	return table
}

func columnSet(records []map[string]any) map[string]struct{} {
	cols := map[string]struct{}{}
	for _, rec := range records {
		for k := range rec {
			cols[k] = struct{}{}
		}
	}
	return cols
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
