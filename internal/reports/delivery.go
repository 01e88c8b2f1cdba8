package reports

import (
	"fmt"
	"strings"

	"olist-dashboard/internal/dataset"
	apperrors "olist-dashboard/internal/errors"
	"olist-dashboard/internal/models"
)

const secondsPerDay = 86400

// DeliveryTime reports the mean delivery duration in fractional days over
// rows that carry both timestamps. A row without a delivered timestamp has an
// undefined duration and is excluded, never counted as zero.
func DeliveryTime(t *dataset.Table) (*models.DeliveryTimeReport, error) {
	if missing := t.MissingColumns(dataset.ColPurchasedAt, dataset.ColDeliveredAt); len(missing) > 0 {
		return nil, apperrors.Computation(
			fmt.Sprintf("delivery time report needs columns: %s", strings.Join(missing, ", ")))
	}

	var durations []float64
	excluded := 0
	for _, r := range t.Records() {
		if !r.Delivered() {
			excluded++
			continue
		}
		durations = append(durations, r.DeliveredAt.Sub(r.PurchasedAt).Seconds()/secondsPerDay)
	}

	rep := &models.DeliveryTimeReport{
		Delivered: len(durations),
		Excluded:  excluded,
	}
	if len(durations) == 0 {
		rep.NoData = true
		return rep, nil
	}

	var sum float64
	for _, d := range durations {
		sum += d
	}
	rep.MeanDays = sum / float64(len(durations))
	rep.Histogram = histogram(durations, 20)
	return rep, nil
}
