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

// CitySales groups by city and reports volume (row count) and revenue (sum of
// payment value), with the most/least city under each metric.
func CitySales(t *dataset.Table) (*models.SalesReport, error) {
	return salesReport(t, "city", dataset.ColCity, func(r models.OrderRecord) string {
		return r.City
	})
}

// ProductCategory is the same aggregate shaped over the product category
// dimension.
func ProductCategory(t *dataset.Table) (*models.SalesReport, error) {
	return salesReport(t, "product_category", dataset.ColCategory, func(r models.OrderRecord) string {
		return r.Category
	})
}

func salesReport(t *dataset.Table, dimension, keyColumn string, key func(models.OrderRecord) string) (*models.SalesReport, error) {
	if missing := t.MissingColumns(keyColumn, dataset.ColPayment); len(missing) > 0 {
		return nil, apperrors.Computation(
			fmt.Sprintf("%s sales report needs columns: %s", dimension, strings.Join(missing, ", ")))
	}

	groups := groupSales(t.Records(), key)

	rep := &models.SalesReport{Dimension: dimension}
	if len(groups) == 0 {
		rep.NoData = true
		return rep, nil
	}

	// Stable sorts keep first-seen group order on equal values, so the
	// "least" pick on a tie is the group that appeared first in the file.
	byVolume := slices.Clone(groups)
	slices.SortStableFunc(byVolume, func(a, b models.SalesGroup) int {
		return b.Count - a.Count
	})
	byRevenue := slices.Clone(groups)
	slices.SortStableFunc(byRevenue, func(a, b models.SalesGroup) int {
		return b.Revenue.Cmp(a.Revenue)
	})

	rep.ByVolume = byVolume
	rep.ByRevenue = byRevenue
	rep.MostByVolume = byVolume[0]
	rep.LeastByVolume = byVolume[len(byVolume)-1]
	rep.MostByRevenue = byRevenue[0]
	rep.LeastByRevenue = byRevenue[len(byRevenue)-1]
	return rep, nil
}

// groupSales emits groups in first-seen order. Rows with an empty group key
// are dropped from the grouping; rows without a payment value count toward
// volume but contribute nothing to revenue.
func groupSales(records []models.OrderRecord, key func(models.OrderRecord) string) []models.SalesGroup {
	groups := make(map[string]*models.SalesGroup)
	var order []string

	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		g, ok := groups[k]
		if !ok {
			g = &models.SalesGroup{Key: k, Revenue: decimal.Zero}
			groups[k] = g
			order = append(order, k)
		}
		g.Count++
		if r.Payment.Valid {
			g.Revenue = g.Revenue.Add(r.Payment.Decimal)
		}
	}

	out := make([]models.SalesGroup, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out
}
