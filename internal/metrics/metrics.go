// Package metrics derives the dashboard aggregates from the joined table.
// Everything here is a pure function of its input: no I/O, no clocks, no
// mutation of the table.
package metrics

import (
	"database/sql"
	"math"
	"sort"
	"time"

	"pledgeboard/internal/core"
)

type (
	// TrendPoint is one month's summed contribution, bucketed at the first
	// of the month.
	TrendPoint struct {
		Month        time.Time
		Contribution float64
	}

	// FulfillmentPoint carries both monthly sums plus the derived rate.
	FulfillmentPoint struct {
		Month        time.Time
		Contribution float64
		Payment      float64
		Rate         float64
	}

	// ScatterPoint is one joined row's pledge/payment pair, kept per row so
	// the binder can attach the pledge identifier to each chart point.
	ScatterPoint struct {
		PledgeID     string
		Contribution sql.NullFloat64
		Payment      sql.NullFloat64
	}

	// YearSummary is one row of the dashboard's summary table.
	YearSummary struct {
		Year                int
		PledgeCount         int
		TotalContribution   float64
		AverageContribution float64
		TotalPayment        float64
		FulfillmentRate     float64
	}

	// Aggregates is everything the visualization layer needs.
	Aggregates struct {
		Trend        []TrendPoint
		Distribution []float64
		Fulfillment  []FulfillmentPoint
		Scatter      []ScatterPoint
		Yearly       []YearSummary
	}
)

type monthBucket struct {
	contribution float64
	payment      float64
}

type yearBucket struct {
	rows         int
	contribution float64
	contribValid int
	payment      float64
}

// Aggregate computes all dashboard aggregates in one pass over the table.
// An empty table yields empty aggregates, never an error. Rows whose pledge
// date failed coercion contribute to the distribution and scatter series but
// fall outside every month and year bucket.
func Aggregate(t core.Table) Aggregates {
	months := map[time.Time]*monthBucket{}
	years := map[int]*yearBucket{}
	agg := Aggregates{
		Distribution: make([]float64, 0, t.Len()),
		Scatter:      make([]ScatterPoint, 0, t.Len()),
	}

	for _, r := range t.Rows {
		if r.Contribution.Valid {
			agg.Distribution = append(agg.Distribution, r.Contribution.Float64)
		}
		agg.Scatter = append(agg.Scatter, ScatterPoint{
			PledgeID:     r.PledgeID,
			Contribution: r.Contribution,
			Payment:      r.PaymentAmount,
		})

		if !r.PledgeDate.Valid {
			continue
		}

		m := monthStart(r.PledgeDate.Time)
		mb := months[m]
		if mb == nil {
			mb = &monthBucket{}
			months[m] = mb
		}
		yb := years[r.Year]
		if yb == nil {
			yb = &yearBucket{}
			years[r.Year] = yb
		}

		yb.rows++
		if r.Contribution.Valid {
			mb.contribution += r.Contribution.Float64
			yb.contribution += r.Contribution.Float64
			yb.contribValid++
		}
		if r.PaymentAmount.Valid {
			mb.payment += r.PaymentAmount.Float64
			yb.payment += r.PaymentAmount.Float64
		}
	}

	agg.Trend = make([]TrendPoint, 0, len(months))
	agg.Fulfillment = make([]FulfillmentPoint, 0, len(months))
	for m, b := range months {
		agg.Trend = append(agg.Trend, TrendPoint{Month: m, Contribution: b.contribution})
		agg.Fulfillment = append(agg.Fulfillment, FulfillmentPoint{
			Month:        m,
			Contribution: b.contribution,
			Payment:      b.payment,
			Rate:         fulfillmentRate(b.payment, b.contribution),
		})
	}
	sort.Slice(agg.Trend, func(i, j int) bool { return agg.Trend[i].Month.Before(agg.Trend[j].Month) })
	sort.Slice(agg.Fulfillment, func(i, j int) bool {
		return agg.Fulfillment[i].Month.Before(agg.Fulfillment[j].Month)
	})

	agg.Yearly = make([]YearSummary, 0, len(years))
	for y, b := range years {
		avg := 0.0
		if b.contribValid > 0 {
			avg = b.contribution / float64(b.contribValid)
		}
		agg.Yearly = append(agg.Yearly, YearSummary{
			Year:                y,
			PledgeCount:         b.rows,
			TotalContribution:   b.contribution,
			AverageContribution: avg,
			TotalPayment:        b.payment,
			FulfillmentRate:     round2(fulfillmentRate(b.payment, b.contribution)),
		})
	}
	sort.Slice(agg.Yearly, func(i, j int) bool { return agg.Yearly[i].Year < agg.Yearly[j].Year })

	return agg
}

// fulfillmentRate is the percentage of pledged money actually paid. A zero
// denominator yields exactly 0, never NaN or infinity.
func fulfillmentRate(paid, pledged float64) float64 {
	if pledged == 0 {
		return 0
	}
	return 100 * paid / pledged
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
