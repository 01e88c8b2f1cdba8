package export

import (
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"olist-dashboard/internal/models"
	"olist-dashboard/internal/reports"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestWorkbook_Sales(t *testing.T) {
	rep := &models.SalesReport{
		Dimension: "city",
		ByVolume: []models.SalesGroup{
			{Key: "sao paulo", Count: 2, Revenue: dec(30)},
			{Key: "rio de janeiro", Count: 1, Revenue: dec(5)},
		},
		ByRevenue: []models.SalesGroup{
			{Key: "sao paulo", Count: 2, Revenue: dec(30)},
			{Key: "rio de janeiro", Count: 1, Revenue: dec(5)},
		},
	}

	f, err := Workbook(reports.KindCitySales, rep)
	if err != nil {
		t.Fatalf("Workbook() failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	for _, want := range []string{"By Volume", "By Revenue"} {
		if !slices.Contains(sheets, want) {
			t.Errorf("missing sheet %q in %v", want, sheets)
		}
	}

	if got, _ := f.GetCellValue("By Volume", "A1"); got != "city" {
		t.Errorf("A1 = %q, want the dimension header", got)
	}
	if got, _ := f.GetCellValue("By Volume", "A2"); got != "sao paulo" {
		t.Errorf("A2 = %q, want sao paulo", got)
	}
	if got, _ := f.GetCellValue("By Volume", "C2"); got != "30" {
		t.Errorf("C2 = %q, want 30", got)
	}
}

func TestWorkbook_RFM(t *testing.T) {
	rep := &models.RFMReport{
		Customers:     2,
		ReferenceDate: time.Date(2018, 1, 10, 0, 0, 0, 0, time.UTC),
		RecencyDistribution: []models.ValueCount{
			{Value: 0, Count: 1},
			{Value: 6, Count: 1},
		},
		FrequencyDistribution: []models.ValueCount{
			{Value: 1, Count: 2},
		},
		MonetaryHistogram: []models.HistogramBin{
			{Low: 0, High: 25, Count: 1},
			{Low: 25, High: 50, Count: 1},
		},
	}

	f, err := Workbook(reports.KindRFM, rep)
	if err != nil {
		t.Fatalf("Workbook() failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	for _, want := range []string{"Recency", "Frequency", "Monetary"} {
		if !slices.Contains(sheets, want) {
			t.Errorf("missing sheet %q in %v", want, sheets)
		}
	}

	if got, _ := f.GetCellValue("Monetary", "C2"); got != "1" {
		t.Errorf("Monetary!C2 = %q, want 1", got)
	}
}

func TestWorkbook_GeoSalesIncludesTotal(t *testing.T) {
	rep := &models.GeoSalesReport{
		States: []models.StateRevenue{
			{State: "SP", Revenue: dec(150)},
			{State: "RJ", Revenue: dec(30)},
		},
		Highest: models.StateRevenue{State: "SP", Revenue: dec(150)},
		Lowest:  models.StateRevenue{State: "RJ", Revenue: dec(30)},
		Total:   dec(180),
	}

	f, err := Workbook(reports.KindGeoSales, rep)
	if err != nil {
		t.Fatalf("Workbook() failed: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("States", "A4"); got != "TOTAL" {
		t.Errorf("A4 = %q, want the TOTAL row", got)
	}
	if got, _ := f.GetCellValue("States", "B4"); got != "180" {
		t.Errorf("B4 = %q, want 180", got)
	}
}

func TestWorkbook_UnknownResult(t *testing.T) {
	if _, err := Workbook(reports.KindCitySales, struct{}{}); err == nil {
		t.Error("Workbook() should reject unknown result types")
	}
}
