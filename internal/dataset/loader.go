package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	apperrors "olist-dashboard/internal/errors"
	"olist-dashboard/internal/models"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Loader reads the flat dataset once per process. The resulting Table is
// treated as immutable; re-reading the file requires a restart.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

type columnIndex map[string]int

// Load parses the CSV at path into a Table. A missing or unreadable file, or
// a header without the required columns, is a fatal DATA_LOAD_ERROR. Rows
// that cannot be parsed are skipped and counted; a header-only file yields an
// empty table, which every report answers with a "no data" result.
func (l *Loader) Load(ctx context.Context, path string) (*Table, error) {
	start := time.Now()
	l.logger.Info("loading dataset", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.DataLoadWrap(err, "open dataset file")
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReaderSize(file, 1<<20))
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.DataLoadWrap(err, "read dataset header")
	}

	idx, present, err := resolveHeader(header)
	if err != nil {
		return nil, err
	}

	records := make([]models.OrderRecord, 0, batchSize)
	batch := make([][]string, 0, batchSize)
	skipped := 0

	flush := func() error {
		converted, dropped, err := l.convertBatch(ctx, batch, idx)
		if err != nil {
			return err
		}
		records = append(records, converted...)
		skipped += dropped
		batch = batch[:0]
		return nil
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.DataLoadWrap(err, "read dataset row")
		}

		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return nil, err
		}
	}

	table := New(records, present)
	table.path = path
	table.skipped = skipped

	duration := time.Since(start)
	l.logger.Info("dataset loaded",
		"rows", len(records),
		"skipped", skipped,
		"columns", len(present),
		"duration", duration,
	)
	if len(records) == 0 {
		l.logger.Warn("dataset has no data rows; all reports will answer with no data")
	}

	return table, nil
}

func resolveHeader(header []string) (columnIndex, []string, error) {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		idx[name] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, apperrors.DataLoad(
			fmt.Sprintf("dataset header missing required columns: %s", strings.Join(missing, ", ")))
	}

	known := []string{
		ColOrderID, ColCustomerID, ColCity, ColState, ColCategory,
		ColPayment, ColReviewScore, ColPurchasedAt, ColDeliveredAt,
	}
	present := make([]string, 0, len(known))
	for _, col := range known {
		if _, ok := idx[col]; ok {
			present = append(present, col)
		}
	}
	return idx, present, nil
}

// convertBatch parses one batch of rows in parallel, writing each result back
// to its input position so the table keeps the file's row order. Sort
// stability downstream depends on that order.
func (l *Loader) convertBatch(ctx context.Context, rows [][]string, idx columnIndex) ([]models.OrderRecord, int, error) {
	out := make([]models.OrderRecord, len(rows))
	valid := make([]bool, len(rows))

	var g errgroup.Group
	g.SetLimit(maxWorkers)

	for i, row := range rows {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec, err := convertRow(row, idx)
			if err != nil {
				return nil // skip malformed rows
			}
			out[i] = rec
			valid[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	records := make([]models.OrderRecord, 0, len(rows))
	skipped := 0
	for i := range out {
		if valid[i] {
			records = append(records, out[i])
		} else {
			skipped++
		}
	}
	return records, skipped, nil
}

func convertRow(row []string, idx columnIndex) (models.OrderRecord, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	purchased, err := parseTimestamp(get(ColPurchasedAt))
	if err != nil {
		return models.OrderRecord{}, fmt.Errorf("purchase timestamp: %w", err)
	}

	rec := models.OrderRecord{
		OrderID:     get(ColOrderID),
		CustomerID:  get(ColCustomerID),
		City:        get(ColCity),
		State:       get(ColState),
		Category:    get(ColCategory),
		PurchasedAt: purchased,
	}
	if rec.OrderID == "" || rec.CustomerID == "" {
		return models.OrderRecord{}, fmt.Errorf("missing order identity")
	}

	// Delivered timestamp is legitimately absent for undelivered orders.
	if v := get(ColDeliveredAt); v != "" {
		delivered, err := parseTimestamp(v)
		if err != nil {
			return models.OrderRecord{}, fmt.Errorf("delivered timestamp: %w", err)
		}
		rec.DeliveredAt = delivered
	}

	if v := get(ColPayment); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return models.OrderRecord{}, fmt.Errorf("payment value: %w", err)
		}
		if d.IsNegative() {
			return models.OrderRecord{}, fmt.Errorf("negative payment value %s", d)
		}
		rec.Payment = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	if v := get(ColReviewScore); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return models.OrderRecord{}, fmt.Errorf("review score: %w", err)
		}
		rec.Review = score
		rec.HasReview = true
	}

	return rec, nil
}

func parseTimestamp(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
