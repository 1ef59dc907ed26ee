// Package charts maps computed aggregates onto plotly-style figure
// specifications. It selects shapes and encodings only; every number it
// emits comes straight from the metrics package.
package charts

import (
	"database/sql"

	"pledgeboard/internal/metrics"
)

type (
	// Trace is one data series of a figure, shaped like a plotly trace.
	Trace struct {
		Type          string   `json:"type"`
		Mode          string   `json:"mode,omitempty"`
		Name          string   `json:"name,omitempty"`
		X             []any    `json:"x,omitempty"`
		Y             []any    `json:"y,omitempty"`
		Text          []string `json:"text,omitempty"`
		HoverTemplate string   `json:"hovertemplate,omitempty"`
		XAxis         string   `json:"xaxis,omitempty"`
		YAxis         string   `json:"yaxis,omitempty"`
	}

	// Grid lays out a composite figure's subplot cells.
	Grid struct {
		Rows    int    `json:"rows"`
		Columns int    `json:"columns"`
		Pattern string `json:"pattern"`
	}

	Layout struct {
		Title      string `json:"title,omitempty"`
		Grid       *Grid  `json:"grid,omitempty"`
		ShowLegend *bool  `json:"showlegend,omitempty"`
	}

	Figure struct {
		Data   []Trace `json:"data"`
		Layout Layout  `json:"layout"`
	}

	// FigureSet names every chart the dashboard displays.
	FigureSet struct {
		PledgeTrend          Figure `json:"pledge_trend"`
		PledgeDistribution   Figure `json:"pledge_distribution"`
		FulfillmentRate      Figure `json:"fulfillment_rate"`
		PledgePaymentScatter Figure `json:"pledge_payment_scatter"`
		ByYear               Figure `json:"by_year"`
		Combined             Figure `json:"combined"`
	}
)

const dateLayout = "2006-01-02"

// Bind builds the five dashboard figures plus the combined 2x2 grid from the
// aggregates. Pure mapping; no aggregation happens here.
func Bind(agg metrics.Aggregates) FigureSet {
	trend := Figure{
		Data:   []Trace{trendTrace(agg.Trend)},
		Layout: Layout{Title: "Pledge Amount Trend Over Time"},
	}
	dist := Figure{
		Data:   []Trace{distributionTrace(agg.Distribution)},
		Layout: Layout{Title: "Pledge Amount Distribution"},
	}
	fulfillment := Figure{
		Data:   []Trace{fulfillmentTrace(agg.Fulfillment)},
		Layout: Layout{Title: "Pledge Fulfillment Rate Over Time"},
	}
	scatter := Figure{
		Data:   []Trace{scatterTrace(agg.Scatter)},
		Layout: Layout{Title: "Pledge Amount vs. Payment Amount"},
	}
	byYear := Figure{
		Data:   []Trace{yearTrace(agg.Yearly)},
		Layout: Layout{Title: "Pledges by Year"},
	}

	return FigureSet{
		PledgeTrend:          trend,
		PledgeDistribution:   dist,
		FulfillmentRate:      fulfillment,
		PledgePaymentScatter: scatter,
		ByYear:               byYear,
		Combined:             combine(trend, dist, fulfillment, scatter),
	}
}

// combine places the first trace of each panel into an independent 2x2 grid.
func combine(panels ...Figure) Figure {
	hideLegend := false
	fig := Figure{
		Layout: Layout{
			Title:      "Combined Metrics",
			Grid:       &Grid{Rows: 2, Columns: 2, Pattern: "independent"},
			ShowLegend: &hideLegend,
		},
	}
	for i, p := range panels {
		if len(p.Data) == 0 {
			continue
		}
		tr := p.Data[0]
		if i > 0 {
			axis := string(rune('1' + i))
			tr.XAxis = "x" + axis
			tr.YAxis = "y" + axis
		}
		fig.Data = append(fig.Data, tr)
	}
	return fig
}

func trendTrace(points []metrics.TrendPoint) Trace {
	tr := Trace{Type: "scatter", Mode: "lines", Name: "Pledged"}
	for _, p := range points {
		tr.X = append(tr.X, p.Month.Format(dateLayout))
		tr.Y = append(tr.Y, p.Contribution)
	}
	return tr
}

func distributionTrace(values []float64) Trace {
	tr := Trace{Type: "histogram", Name: "Pledges"}
	for _, v := range values {
		tr.X = append(tr.X, v)
	}
	return tr
}

func fulfillmentTrace(points []metrics.FulfillmentPoint) Trace {
	tr := Trace{Type: "scatter", Mode: "lines", Name: "Fulfillment %"}
	for _, p := range points {
		tr.X = append(tr.X, p.Month.Format(dateLayout))
		tr.Y = append(tr.Y, p.Rate)
	}
	return tr
}

func scatterTrace(points []metrics.ScatterPoint) Trace {
	tr := Trace{
		Type:          "scatter",
		Mode:          "markers",
		Name:          "Pledge vs Payment",
		HoverTemplate: "pledge %{text}<br>pledged %{x}<br>paid %{y}<extra></extra>",
	}
	for _, p := range points {
		tr.X = append(tr.X, nullable(p.Contribution))
		tr.Y = append(tr.Y, nullable(p.Payment))
		tr.Text = append(tr.Text, p.PledgeID)
	}
	return tr
}

func yearTrace(summaries []metrics.YearSummary) Trace {
	tr := Trace{Type: "bar", Name: "Pledged"}
	for _, s := range summaries {
		tr.X = append(tr.X, s.Year)
		tr.Y = append(tr.Y, s.TotalContribution)
	}
	return tr
}

// nullable maps a missing amount to a JSON null so plotly leaves a gap
// instead of plotting zero.
func nullable(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}
