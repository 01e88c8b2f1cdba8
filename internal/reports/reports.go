// Package reports implements the aggregation engine: six stateless report
// functions, each a pure computation over the loaded base table. Reports
// never mutate the table, so they are safe to run concurrently.
package reports

import (
	"context"
	"fmt"
	"log/slog"

	"olist-dashboard/internal/dataset"
	"olist-dashboard/internal/observability"
)

// Kind selects one of the fixed reports the dashboard can answer.
type Kind string

const (
	KindCitySales       Kind = "city-sales"
	KindProductCategory Kind = "product-category"
	KindDeliveryTime    Kind = "delivery-time"
	KindCategoryRating  Kind = "category-rating"
	KindRFM             Kind = "rfm"
	KindGeoSales        Kind = "geo-sales"
)

func Kinds() []Kind {
	return []Kind{
		KindCitySales,
		KindProductCategory,
		KindDeliveryTime,
		KindCategoryRating,
		KindRFM,
		KindGeoSales,
	}
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown report %q", s)
}

// Service dispatches report computations over one immutable table. Every
// invocation recomputes from the base table; nothing is cached across calls.
type Service struct {
	table  *dataset.Table
	logger *slog.Logger
}

func NewService(table *dataset.Table, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{table: table, logger: logger}
}

func (s *Service) Table() *dataset.Table {
	return s.table
}

// Run computes the selected report. Failures are per-report: a missing
// column surfaces as a COMPUTATION_ERROR and leaves every other report
// usable.
func (s *Service) Run(ctx context.Context, kind Kind) (any, error) {
	_, span := observability.StartSpan(ctx, "report "+string(kind))
	defer span.Finish()
	span.SetTag("report.kind", string(kind))

	var (
		result any
		err    error
	)
	switch kind {
	case KindCitySales:
		result, err = CitySales(s.table)
	case KindProductCategory:
		result, err = ProductCategory(s.table)
	case KindDeliveryTime:
		result, err = DeliveryTime(s.table)
	case KindCategoryRating:
		result, err = CategoryRating(s.table)
	case KindRFM:
		result, err = RFM(s.table)
	case KindGeoSales:
		result, err = GeoSales(s.table)
	default:
		err = fmt.Errorf("unknown report %q", kind)
	}

	if err != nil {
		span.SetError(err)
		s.logger.Warn("report failed", "report", kind, "error", err)
		return nil, err
	}
	return result, nil
}

func (s *Service) Stats() map[string]any {
	return map[string]any{
		"rows":           s.table.Len(),
		"skipped_rows":   s.table.Skipped(),
		"reference_date": s.table.ReferenceDate(),
		"loaded_at":      s.table.LoadedAt(),
		"source":         s.table.Path(),
		"reports":        Kinds(),
	}
}
