package reports

import (
	"math"
	"testing"
	"time"

	"olist-dashboard/internal/dataset"
	"olist-dashboard/internal/models"
)

func TestDeliveryTime_ExactDays(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", PurchasedAt: day(0), DeliveredAt: day(3)},
	}
	rep, err := DeliveryTime(newTable(t, records))
	if err != nil {
		t.Fatalf("DeliveryTime() failed: %v", err)
	}

	if rep.MeanDays != 3.0 {
		t.Errorf("mean = %v days, want exactly 3.0", rep.MeanDays)
	}
	if rep.Delivered != 1 {
		t.Errorf("delivered rows = %d, want 1", rep.Delivered)
	}
}

func TestDeliveryTime_FractionalDays(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", PurchasedAt: day(0), DeliveredAt: day(0).Add(36 * time.Hour)},
	}
	rep, err := DeliveryTime(newTable(t, records))
	if err != nil {
		t.Fatalf("DeliveryTime() failed: %v", err)
	}

	if math.Abs(rep.MeanDays-1.5) > 1e-9 {
		t.Errorf("mean = %v days, want 1.5", rep.MeanDays)
	}
}

// Rows without a delivered timestamp have an undefined duration: they are
// excluded outright and never pulled toward zero.
func TestDeliveryTime_ExcludesUndelivered(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", PurchasedAt: day(0), DeliveredAt: day(4)},
		{OrderID: "o2", CustomerID: "c2", PurchasedAt: day(0), DeliveredAt: day(2)},
		{OrderID: "o3", CustomerID: "c3", PurchasedAt: day(0)},
	}
	rep, err := DeliveryTime(newTable(t, records))
	if err != nil {
		t.Fatalf("DeliveryTime() failed: %v", err)
	}

	if rep.MeanDays != 3.0 {
		t.Errorf("mean = %v days, want 3.0 over the two delivered rows", rep.MeanDays)
	}
	if rep.Excluded != 1 {
		t.Errorf("excluded rows = %d, want 1", rep.Excluded)
	}

	// Removing an undelivered row must not change the mean.
	rep2, err := DeliveryTime(newTable(t, records[:2]))
	if err != nil {
		t.Fatalf("DeliveryTime() failed: %v", err)
	}
	if rep2.MeanDays != rep.MeanDays {
		t.Errorf("mean changed from %v to %v after dropping an undelivered row",
			rep.MeanDays, rep2.MeanDays)
	}
}

func TestDeliveryTime_NoDeliveredRows(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", PurchasedAt: day(0)},
	}
	rep, err := DeliveryTime(newTable(t, records))
	if err != nil {
		t.Fatalf("DeliveryTime() with no delivered rows must not fail: %v", err)
	}

	if !rep.NoData {
		t.Error("expected a NoData result, not a zero or NaN mean")
	}
	if rep.MeanDays != 0 || math.IsNaN(rep.MeanDays) {
		t.Errorf("mean on NoData should stay zero, got %v", rep.MeanDays)
	}
}

func TestDeliveryTime_MissingColumn(t *testing.T) {
	table := newTable(t, nil, dataset.ColOrderID, dataset.ColCustomerID, dataset.ColPurchasedAt)
	_, err := DeliveryTime(table)
	assertComputationError(t, err)
}
