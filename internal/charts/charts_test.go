package charts

import (
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"pledgeboard/internal/metrics"
)

func sampleAggregates() metrics.Aggregates {
	jan := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	return metrics.Aggregates{
		Trend: []metrics.TrendPoint{
			{Month: jan, Contribution: 100},
			{Month: feb, Contribution: 50},
		},
		Distribution: []float64{100, 50},
		Fulfillment: []metrics.FulfillmentPoint{
			{Month: jan, Contribution: 100, Payment: 40, Rate: 40},
		},
		Scatter: []metrics.ScatterPoint{
			{
				PledgeID:     "p1",
				Contribution: sql.NullFloat64{Float64: 100, Valid: true},
				Payment:      sql.NullFloat64{Float64: 40, Valid: true},
			},
			{
				PledgeID:     "p2",
				Contribution: sql.NullFloat64{Float64: 50, Valid: true},
			},
		},
		Yearly: []metrics.YearSummary{
			{Year: 2023, PledgeCount: 2, TotalContribution: 150, TotalPayment: 40, FulfillmentRate: 26.67},
		},
	}
}

func TestBindShapes(t *testing.T) {
	set := Bind(sampleAggregates())

	cases := []struct {
		name     string
		fig      Figure
		wantType string
		wantMode string
	}{
		{"trend", set.PledgeTrend, "scatter", "lines"},
		{"distribution", set.PledgeDistribution, "histogram", ""},
		{"fulfillment", set.FulfillmentRate, "scatter", "lines"},
		{"scatter", set.PledgePaymentScatter, "scatter", "markers"},
		{"by year", set.ByYear, "bar", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if len(tc.fig.Data) != 1 {
				t.Fatalf("traces = %d, want 1", len(tc.fig.Data))
			}
			tr := tc.fig.Data[0]
			if tr.Type != tc.wantType || tr.Mode != tc.wantMode {
				t.Fatalf("trace type/mode = %q/%q, want %q/%q", tr.Type, tr.Mode, tc.wantType, tc.wantMode)
			}
		})
	}
}

func TestBindPassesValuesThrough(t *testing.T) {
	set := Bind(sampleAggregates())

	// The binder must not recompute: the monthly rate of 40 arrives verbatim.
	if y := set.FulfillmentRate.Data[0].Y; len(y) != 1 || y[0] != 40.0 {
		t.Fatalf("fulfillment Y = %v, want [40]", y)
	}
	if x := set.PledgeTrend.Data[0].X; x[0] != "2023-01-01" {
		t.Fatalf("trend bucket = %v, want 2023-01-01", x[0])
	}
	if y := set.ByYear.Data[0].Y; y[0] != 150.0 {
		t.Fatalf("by-year Y = %v, want 150", y[0])
	}
}

func TestBindScatterHoverMetadata(t *testing.T) {
	set := Bind(sampleAggregates())
	tr := set.PledgePaymentScatter.Data[0]
	if len(tr.Text) != 2 || tr.Text[0] != "p1" || tr.Text[1] != "p2" {
		t.Fatalf("scatter text = %v, want pledge ids", tr.Text)
	}
	// Missing payment serializes as null, leaving a gap.
	b, err := json.Marshal(tr.Y)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[40,null]" {
		t.Fatalf("scatter Y json = %s, want [40,null]", b)
	}
}

func TestBindCombinedGrid(t *testing.T) {
	set := Bind(sampleAggregates())
	c := set.Combined

	if c.Layout.Grid == nil || c.Layout.Grid.Rows != 2 || c.Layout.Grid.Columns != 2 {
		t.Fatalf("combined grid = %+v, want 2x2", c.Layout.Grid)
	}
	if len(c.Data) != 4 {
		t.Fatalf("combined traces = %d, want 4", len(c.Data))
	}
	// First panel stays on the default axes; the rest get their own cell.
	if c.Data[0].XAxis != "" {
		t.Fatalf("first panel axis = %q, want default", c.Data[0].XAxis)
	}
	for i, want := range []string{"x2", "x3", "x4"} {
		if c.Data[i+1].XAxis != want {
			t.Fatalf("panel %d axis = %q, want %q", i+1, c.Data[i+1].XAxis, want)
		}
	}
}

func TestBindEmptyAggregates(t *testing.T) {
	set := Bind(metrics.Aggregates{})
	b, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), "pledge_trend") {
		t.Fatal("figure set json missing chart names")
	}
	if len(set.PledgeTrend.Data) != 1 {
		t.Fatal("empty aggregates still yield figure shells")
	}
}
