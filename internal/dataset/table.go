package dataset

import (
	"time"

	"olist-dashboard/internal/models"
)

// Column names are a contract with the source file's header. The loader
// resolves them case-sensitively against the first CSV record.
const (
	ColOrderID     = "order_id"
	ColCustomerID  = "customer_unique_id"
	ColCity        = "geolocation_city"
	ColState       = "geolocation_state"
	ColCategory    = "product_category_name_english"
	ColPayment     = "payment_value"
	ColReviewScore = "review_score"
	ColPurchasedAt = "order_purchase_timestamp"
	ColDeliveredAt = "order_delivered_customer_date"
)

// RequiredColumns must be present in the header for the load to succeed at
// all. The remaining columns are optional at load time; each report checks
// the ones it needs and fails on its own.
var RequiredColumns = []string{ColOrderID, ColCustomerID, ColPurchasedAt}

// Table is the base dataset every report reads from. It is immutable after
// construction, so report functions may run concurrently without locking.
type Table struct {
	records  []models.OrderRecord
	columns  map[string]struct{}
	refDate  time.Time
	path     string
	loadedAt time.Time
	skipped  int
}

// New builds a table directly from records, resolving the reference date
// (maximum purchase timestamp) on the way. Used by tests and by the loader.
func New(records []models.OrderRecord, columns []string) *Table {
	t := &Table{
		records:  records,
		columns:  make(map[string]struct{}, len(columns)),
		loadedAt: time.Now(),
	}
	for _, c := range columns {
		t.columns[c] = struct{}{}
	}
	for _, r := range records {
		if r.PurchasedAt.After(t.refDate) {
			t.refDate = r.PurchasedAt
		}
	}
	return t
}

func (t *Table) Records() []models.OrderRecord {
	return t.records
}

func (t *Table) Len() int {
	return len(t.records)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// MissingColumns returns, in argument order, the requested columns the source
// file did not carry.
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !t.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// ReferenceDate is the maximum purchase timestamp across the whole table, the
// global anchor for RFM recency. Zero for an empty table.
func (t *Table) ReferenceDate() time.Time {
	return t.refDate
}

func (t *Table) Path() string {
	return t.path
}

func (t *Table) LoadedAt() time.Time {
	return t.loadedAt
}

// Skipped is the number of source rows dropped because they could not be
// parsed.
func (t *Table) Skipped() int {
	return t.skipped
}
