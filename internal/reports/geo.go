package reports

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"olist-dashboard/internal/dataset"
	apperrors "olist-dashboard/internal/errors"
	"olist-dashboard/internal/models"
)

// GeoSales reports total payment value per state, sorted descending, with the
// highest and lowest state and the grand total. Unlike the city and category
// reports this dimension carries only the monetary metric.
func GeoSales(t *dataset.Table) (*models.GeoSalesReport, error) {
	if missing := t.MissingColumns(dataset.ColState, dataset.ColPayment); len(missing) > 0 {
		return nil, apperrors.Computation(
			fmt.Sprintf("geo sales report needs columns: %s", strings.Join(missing, ", ")))
	}

	sums := make(map[string]decimal.Decimal)
	var order []string

	for _, r := range t.Records() {
		if r.State == "" {
			continue
		}
		if _, ok := sums[r.State]; !ok {
			sums[r.State] = decimal.Zero
			order = append(order, r.State)
		}
		if r.Payment.Valid {
			sums[r.State] = sums[r.State].Add(r.Payment.Decimal)
		}
	}

	rep := &models.GeoSalesReport{Total: decimal.Zero}
	if len(order) == 0 {
		rep.NoData = true
		return rep, nil
	}

	states := make([]models.StateRevenue, 0, len(order))
	total := decimal.Zero
	for _, state := range order {
		states = append(states, models.StateRevenue{State: state, Revenue: sums[state]})
		total = total.Add(sums[state])
	}
	slices.SortStableFunc(states, func(a, b models.StateRevenue) int {
		return b.Revenue.Cmp(a.Revenue)
	})

	rep.States = states
	rep.Highest = states[0]
	rep.Lowest = states[len(states)-1]
	rep.Total = total
	return rep, nil
}
