// Package dashboard turns the immutable joined table plus the current year
// selection into everything the UI displays. Render is a pure function; the
// HTTP layer just invokes it on every filter change.
package dashboard

import (
	"pledgeboard/internal/charts"
	"pledgeboard/internal/core"
	"pledgeboard/internal/metrics"
)

// SummaryRow is one row of the yearly summary table.
type SummaryRow struct {
	Year                int     `json:"year"`
	PledgeCount         int     `json:"pledge_count"`
	TotalContribution   float64 `json:"total_contribution_amount"`
	AverageContribution float64 `json:"average_contribution_amount"`
	TotalPayment        float64 `json:"total_payment_amount"`
	FulfillmentRate     float64 `json:"fulfillment_rate"`
}

// ViewModel is the complete derived state for one render.
type ViewModel struct {
	Years    []int            `json:"years"`
	Selected []int            `json:"selected_years"`
	Figures  charts.FigureSet `json:"figures"`
	Summary  []SummaryRow     `json:"summary"`
}

// Render filters the table by year membership, recomputes every aggregate
// from scratch, and binds the figures. A nil selection means all years
// present in the table; an empty selection renders an empty dashboard.
func Render(table core.Table, selected []int) ViewModel {
	if selected == nil {
		selected = table.Years()
	}
	agg := metrics.Aggregate(table.FilterYears(selected))

	summary := make([]SummaryRow, 0, len(agg.Yearly))
	for _, y := range agg.Yearly {
		summary = append(summary, SummaryRow{
			Year:                y.Year,
			PledgeCount:         y.PledgeCount,
			TotalContribution:   y.TotalContribution,
			AverageContribution: y.AverageContribution,
			TotalPayment:        y.TotalPayment,
			FulfillmentRate:     y.FulfillmentRate,
		})
	}

	return ViewModel{
		Years:    table.Years(),
		Selected: selected,
		Figures:  charts.Bind(agg),
		Summary:  summary,
	}
}
