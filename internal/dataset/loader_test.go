package dataset

import (
	"context"
	stderrors "errors"
	"os"
	"testing"
	"time"

	apperrors "olist-dashboard/internal/errors"
)

const fullHeader = "order_id,customer_unique_id,geolocation_city,geolocation_state," +
	"product_category_name_english,payment_value,review_score," +
	"order_purchase_timestamp,order_delivered_customer_date"

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "orders*.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func assertDataLoadError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a data load error, got nil")
	}
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != apperrors.CodeDataLoad {
		t.Errorf("expected code %s, got %s", apperrors.CodeDataLoad, appErr.Code)
	}
}

func TestLoader_ValidCSV(t *testing.T) {
	csv := fullHeader + "\n" +
		"o1,c1,sao paulo,SP,toys,29.90,5,2018-01-01 10:00:00,2018-01-04 10:00:00\n" +
		"o2,c2,rio de janeiro,RJ,books,15.00,4,2018-01-05 09:30:00,\n"

	path := createTempCSV(t, csv)

	table, err := NewLoader(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}

	first := table.Records()[0]
	if first.City != "sao paulo" || first.State != "SP" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if !first.Payment.Valid || first.Payment.Decimal.String() != "29.9" {
		t.Errorf("payment = %v, want 29.9", first.Payment)
	}
	if !first.Delivered() {
		t.Error("first row has both timestamps, Delivered() should be true")
	}

	second := table.Records()[1]
	if second.Delivered() {
		t.Error("second row has no delivered timestamp, Delivered() should be false")
	}

	wantRef := time.Date(2018, 1, 5, 9, 30, 0, 0, time.UTC)
	if !table.ReferenceDate().Equal(wantRef) {
		t.Errorf("reference date = %v, want %v", table.ReferenceDate(), wantRef)
	}

	for _, col := range []string{ColCity, ColState, ColCategory, ColPayment, ColReviewScore, ColDeliveredAt} {
		if !table.HasColumn(col) {
			t.Errorf("column %s should be present", col)
		}
	}
}

func TestLoader_QuotedFields(t *testing.T) {
	csv := fullHeader + "\n" +
		`o1,c1,"santa barbara d'oeste, centro",SP,toys,10,5,2018-01-01 10:00:00,` + "\n"

	path := createTempCSV(t, csv)

	table, err := NewLoader(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if got := table.Records()[0].City; got != "santa barbara d'oeste, centro" {
		t.Errorf("quoted city parsed as %q", got)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), "does-not-exist.csv")
	assertDataLoadError(t, err)
}

func TestLoader_MissingRequiredColumn(t *testing.T) {
	csv := "customer_unique_id,order_purchase_timestamp\nc1,2018-01-01 10:00:00\n"
	path := createTempCSV(t, csv)

	_, err := NewLoader(nil).Load(context.Background(), path)
	assertDataLoadError(t, err)
}

func TestLoader_EmptyFile(t *testing.T) {
	path := createTempCSV(t, "")
	_, err := NewLoader(nil).Load(context.Background(), path)
	assertDataLoadError(t, err)
}

// A header-only file is schema-valid: it loads as an empty table so every
// report can answer with a "no data" result.
func TestLoader_HeaderOnly(t *testing.T) {
	path := createTempCSV(t, fullHeader+"\n")

	table, err := NewLoader(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() on a header-only file failed: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("expected 0 rows, got %d", table.Len())
	}
}

func TestLoader_SkipsMalformedRows(t *testing.T) {
	csv := fullHeader + "\n" +
		"o1,c1,sao paulo,SP,toys,10,5,not-a-timestamp,\n" +
		"o2,c2,sao paulo,SP,toys,abc,5,2018-01-01 10:00:00,\n" +
		"o3,c3,sao paulo,SP,toys,10,5,2018-01-02 10:00:00,\n"

	path := createTempCSV(t, csv)

	table, err := NewLoader(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if table.Len() != 1 {
		t.Errorf("expected 1 valid row, got %d", table.Len())
	}
	if table.Skipped() != 2 {
		t.Errorf("expected 2 skipped rows, got %d", table.Skipped())
	}
}

// Columns the loader does not require may be absent; they are simply missing
// from the presence set so reports can fail on their own terms.
func TestLoader_OptionalColumnsAbsent(t *testing.T) {
	csv := "order_id,customer_unique_id,order_purchase_timestamp\n" +
		"o1,c1,2018-01-01 10:00:00\n"
	path := createTempCSV(t, csv)

	table, err := NewLoader(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if table.HasColumn(ColCity) {
		t.Error("city column should be absent")
	}
	missing := table.MissingColumns(ColCity, ColPayment, ColOrderID)
	if len(missing) != 2 {
		t.Errorf("MissingColumns = %v, want city and payment", missing)
	}
}

func TestLoader_DateOnlyTimestamps(t *testing.T) {
	csv := fullHeader + "\n" +
		"o1,c1,sao paulo,SP,toys,10,5,2018-01-01,2018-01-03\n"
	path := createTempCSV(t, csv)

	table, err := NewLoader(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	rec := table.Records()[0]
	if rec.DeliveredAt.Sub(rec.PurchasedAt) != 48*time.Hour {
		t.Errorf("delivery duration = %v, want 48h", rec.DeliveredAt.Sub(rec.PurchasedAt))
	}
}
