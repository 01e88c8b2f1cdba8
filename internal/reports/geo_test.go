package reports

import (
	"testing"

	"github.com/shopspring/decimal"

	"olist-dashboard/internal/dataset"
	"olist-dashboard/internal/models"
)

func TestGeoSales(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", State: "SP", Payment: pay(100), PurchasedAt: day(0)},
		{OrderID: "o2", CustomerID: "c2", State: "SP", Payment: pay(50), PurchasedAt: day(1)},
		{OrderID: "o3", CustomerID: "c3", State: "RJ", Payment: pay(30), PurchasedAt: day(2)},
		{OrderID: "o4", CustomerID: "c4", State: "AM", Payment: pay(5), PurchasedAt: day(3)},
	}
	rep, err := GeoSales(newTable(t, records))
	if err != nil {
		t.Fatalf("GeoSales() failed: %v", err)
	}

	if rep.Highest.State != "SP" || !rep.Highest.Revenue.Equal(decimal.NewFromInt(150)) {
		t.Errorf("highest = %s (%s), want SP (150)", rep.Highest.State, rep.Highest.Revenue)
	}
	if rep.Lowest.State != "AM" || !rep.Lowest.Revenue.Equal(decimal.NewFromInt(5)) {
		t.Errorf("lowest = %s (%s), want AM (5)", rep.Lowest.State, rep.Lowest.Revenue)
	}
	if !rep.Total.Equal(decimal.NewFromInt(185)) {
		t.Errorf("total = %s, want 185", rep.Total)
	}

	for i := 1; i < len(rep.States); i++ {
		if rep.States[i].Revenue.GreaterThan(rep.States[i-1].Revenue) {
			t.Fatal("states must be sorted descending by revenue")
		}
	}
}

// A state whose only rows lack payment values still appears, with zero
// revenue.
func TestGeoSales_StateWithoutPayments(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", State: "SP", Payment: pay(10), PurchasedAt: day(0)},
		{OrderID: "o2", CustomerID: "c2", State: "AC", PurchasedAt: day(1)},
	}
	rep, err := GeoSales(newTable(t, records))
	if err != nil {
		t.Fatalf("GeoSales() failed: %v", err)
	}

	if len(rep.States) != 2 {
		t.Fatalf("expected 2 states, got %d", len(rep.States))
	}
	if rep.Lowest.State != "AC" || !rep.Lowest.Revenue.IsZero() {
		t.Errorf("lowest = %s (%s), want AC (0)", rep.Lowest.State, rep.Lowest.Revenue)
	}
}

func TestGeoSales_MissingColumn(t *testing.T) {
	table := newTable(t, nil, dataset.ColOrderID, dataset.ColCustomerID, dataset.ColPurchasedAt)
	_, err := GeoSales(table)
	assertComputationError(t, err)
}
