// Package export renders report results as XLSX workbooks for download.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"olist-dashboard/internal/models"
	"olist-dashboard/internal/reports"
)

// Workbook builds an XLSX workbook for any report result. The caller owns the
// returned file and must Close it.
func Workbook(kind reports.Kind, result any) (*excelize.File, error) {
	f := excelize.NewFile()

	var err error
	switch rep := result.(type) {
	case *models.SalesReport:
		err = writeSales(f, rep)
	case *models.DeliveryTimeReport:
		err = writeDeliveryTime(f, rep)
	case *models.CategoryRatingReport:
		err = writeCategoryRating(f, rep)
	case *models.RFMReport:
		err = writeRFM(f, rep)
	case *models.GeoSalesReport:
		err = writeGeoSales(f, rep)
	default:
		err = fmt.Errorf("no workbook renderer for report %q", kind)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("render %s workbook: %w", kind, err)
	}
	return f, nil
}

func writeSales(f *excelize.File, rep *models.SalesReport) error {
	header := []any{rep.Dimension, "count", "revenue"}

	rows := make([][]any, 0, len(rep.ByVolume))
	for _, g := range rep.ByVolume {
		rows = append(rows, []any{g.Key, g.Count, g.Revenue.InexactFloat64()})
	}
	if err := writeSheet(f, "By Volume", true, header, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, g := range rep.ByRevenue {
		rows = append(rows, []any{g.Key, g.Count, g.Revenue.InexactFloat64()})
	}
	return writeSheet(f, "By Revenue", false, header, rows)
}

func writeDeliveryTime(f *excelize.File, rep *models.DeliveryTimeReport) error {
	summary := [][]any{
		{"mean_days", rep.MeanDays},
		{"delivered_rows", rep.Delivered},
		{"excluded_rows", rep.Excluded},
	}
	if err := writeSheet(f, "Summary", true, []any{"metric", "value"}, summary); err != nil {
		return err
	}

	rows := make([][]any, 0, len(rep.Histogram))
	for _, b := range rep.Histogram {
		rows = append(rows, []any{b.Low, b.High, b.Count})
	}
	return writeSheet(f, "Histogram", false, []any{"low_days", "high_days", "count"}, rows)
}

func writeCategoryRating(f *excelize.File, rep *models.CategoryRatingReport) error {
	rows := make([][]any, 0, len(rep.Ratings))
	for _, r := range rep.Ratings {
		rows = append(rows, []any{r.Category, r.MeanScore, r.Reviews})
	}
	return writeSheet(f, "Ratings", true, []any{"category", "mean_score", "reviews"}, rows)
}

func writeRFM(f *excelize.File, rep *models.RFMReport) error {
	rows := make([][]any, 0, len(rep.RecencyDistribution))
	for _, vc := range rep.RecencyDistribution {
		rows = append(rows, []any{vc.Value, vc.Count})
	}
	if err := writeSheet(f, "Recency", true, []any{"days", "customers"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, vc := range rep.FrequencyDistribution {
		rows = append(rows, []any{vc.Value, vc.Count})
	}
	if err := writeSheet(f, "Frequency", false, []any{"orders", "customers"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, b := range rep.MonetaryHistogram {
		rows = append(rows, []any{b.Low, b.High, b.Count})
	}
	return writeSheet(f, "Monetary", false, []any{"low", "high", "customers"}, rows)
}

func writeGeoSales(f *excelize.File, rep *models.GeoSalesReport) error {
	rows := make([][]any, 0, len(rep.States)+1)
	for _, s := range rep.States {
		rows = append(rows, []any{s.State, s.Revenue.InexactFloat64()})
	}
	rows = append(rows, []any{"TOTAL", rep.Total.InexactFloat64()})
	return writeSheet(f, "States", true, []any{"state", "revenue"}, rows)
}

// writeSheet writes a header row and data rows cell by cell. The first sheet
// renames the workbook's default sheet instead of adding a new one.
func writeSheet(f *excelize.File, name string, first bool, header []any, rows [][]any) error {
	if first {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return err
		}
	} else {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}
