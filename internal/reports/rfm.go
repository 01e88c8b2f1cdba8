package reports

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"olist-dashboard/internal/dataset"
	apperrors "olist-dashboard/internal/errors"
	"olist-dashboard/internal/models"
)

const (
	distributionTop = 20
	monetaryBins    = 20
)

// RFM segments customers by Recency (whole days since their latest purchase,
// anchored on the table's reference date), Frequency (row count) and Monetary
// (summed payment value). The report carries the three distributional
// summaries the dashboard charts: top-20 recency and frequency value counts
// and a 20-bin equal-width monetary histogram.
func RFM(t *dataset.Table) (*models.RFMReport, error) {
	if missing := t.MissingColumns(dataset.ColCustomerID, dataset.ColPurchasedAt, dataset.ColPayment); len(missing) > 0 {
		return nil, apperrors.Computation(
			fmt.Sprintf("rfm report needs columns: %s", strings.Join(missing, ", ")))
	}

	type accum struct {
		latest   time.Time
		freq     int
		monetary decimal.Decimal
	}
	customers := make(map[string]*accum)
	var order []string

	for _, r := range t.Records() {
		a, ok := customers[r.CustomerID]
		if !ok {
			a = &accum{monetary: decimal.Zero}
			customers[r.CustomerID] = a
			order = append(order, r.CustomerID)
		}
		a.freq++
		if r.PurchasedAt.After(a.latest) {
			a.latest = r.PurchasedAt
		}
		if r.Payment.Valid {
			a.monetary = a.monetary.Add(r.Payment.Decimal)
		}
	}

	rep := &models.RFMReport{
		Customers:     len(order),
		ReferenceDate: t.ReferenceDate(),
	}
	if len(order) == 0 {
		rep.NoData = true
		return rep, nil
	}

	reference := t.ReferenceDate()
	recencyCounts := make(map[int]int)
	frequencyCounts := make(map[int]int)
	monetary := make([]float64, 0, len(order))

	for _, id := range order {
		a := customers[id]
		// Whole days, truncated: the customer with the dataset's most
		// recent purchase lands on exactly 0.
		recency := int(reference.Sub(a.latest) / (24 * time.Hour))
		recencyCounts[recency]++
		frequencyCounts[a.freq]++
		monetary = append(monetary, a.monetary.InexactFloat64())
	}

	rep.RecencyDistribution = topValueCounts(recencyCounts, distributionTop)
	rep.FrequencyDistribution = topValueCounts(frequencyCounts, distributionTop)
	rep.MonetaryHistogram = histogram(monetary, monetaryBins)
	return rep, nil
}

// topValueCounts sorts a frequency table by count descending, ties by value
// ascending, and keeps the first limit entries.
func topValueCounts(counts map[int]int, limit int) []models.ValueCount {
	out := make([]models.ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, models.ValueCount{Value: v, Count: c})
	}
	slices.SortFunc(out, func(a, b models.ValueCount) int {
		if c := b.Count - a.Count; c != 0 {
			return c
		}
		return a.Value - b.Value
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// histogram bins values into equal-width half-open intervals over the
// observed [min, max]; the rightmost bin also includes max. All-equal values
// collapse into a single degenerate bin.
func histogram(values []float64, bins int) []models.HistogramBin {
	if len(values) == 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []models.HistogramBin{{Low: lo, High: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]models.HistogramBin, bins)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	out[bins-1].High = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}
