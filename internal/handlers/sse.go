package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"olist-dashboard/internal/models"
	"olist-dashboard/internal/reports"
)

const maxTableRows = 10

var salesTableTemplate = template.Must(template.New("salesTable").Parse(`
<div id="{{.ID}}-content">
<table class="modern-table">
<thead><tr><th>{{.Dimension}}</th><th>Orders</th><th>Revenue</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Key}}</td>
<td>{{.Count}}</td>
<td><strong>${{.Revenue}}</strong></td>
</tr>{{end}}
</tbody>
</table>
<p class="extremes">Most orders: {{.MostByVolume.Key}} ({{.MostByVolume.Count}}) ·
Fewest orders: {{.LeastByVolume.Key}} ({{.LeastByVolume.Count}}) ·
Top revenue: {{.MostByRevenue.Key}} (${{.MostByRevenue.Revenue}}) ·
Lowest revenue: {{.LeastByRevenue.Key}} (${{.LeastByRevenue.Revenue}})</p>
</div>`))

type SSEHandlers struct {
	reports *reports.Service
	logger  *slog.Logger
}

func NewSSEHandlers(svc *reports.Service, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		reports: svc,
		logger:  logger,
	}
}

// HandleReport pushes one report to the dashboard: a rendered table for the
// sales reports, chart signals plus a status element for the rest.
func (h *SSEHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	name := r.PathValue("name")
	kind, err := reports.ParseKind(name)
	if err != nil {
		sse.PatchElements(fmt.Sprintf(`<div id="report-error">unknown report %q</div>`, template.HTMLEscapeString(name)))
		return
	}

	if err := h.patchReport(r.Context(), sse, kind); err != nil {
		h.logger.Error("patch report", "report", kind, "error", err)
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleRefreshAll recomputes and pushes every report in one stream.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	for _, kind := range reports.Kinds() {
		if err := h.patchReport(r.Context(), sse, kind); err != nil {
			h.logger.Error("patch report", "report", kind, "error", err)
		}
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) patchReport(ctx context.Context, sse *datastar.ServerSentEventGenerator, kind reports.Kind) error {
	result, err := h.reports.Run(ctx, kind)
	if err != nil {
		return sse.PatchElements(fmt.Sprintf(
			`<div id="%s-content" class="report-error">%s unavailable: %s</div>`,
			elementID(kind), kind, template.HTMLEscapeString(err.Error())))
	}

	switch rep := result.(type) {
	case *models.SalesReport:
		if rep.NoData {
			return h.patchNoData(sse, kind)
		}
		html, err := h.renderSalesTable(kind, rep)
		if err != nil {
			return err
		}
		return sse.PatchElements(html)
	default:
		if noData(result) {
			return h.patchNoData(sse, kind)
		}
		return h.patchSignal(sse, kind, result)
	}
}

func (h *SSEHandlers) patchSignal(sse *datastar.ServerSentEventGenerator, kind reports.Kind, result any) error {
	signals, err := json.Marshal(map[string]any{
		signalName(kind): result,
	})
	if err != nil {
		return fmt.Errorf("marshal %s signals: %w", kind, err)
	}
	if err := sse.PatchSignals(signals); err != nil {
		return err
	}
	return sse.PatchElements(fmt.Sprintf(
		`<div id="%s-content">✅ %s data loaded</div>`, elementID(kind), kind))
}

func (h *SSEHandlers) patchNoData(sse *datastar.ServerSentEventGenerator, kind reports.Kind) error {
	return sse.PatchElements(fmt.Sprintf(
		`<div id="%s-content" class="report-empty">No data for %s</div>`, elementID(kind), kind))
}

type salesTableData struct {
	ID             string
	Dimension      string
	Rows           []models.SalesGroup
	MostByVolume   models.SalesGroup
	LeastByVolume  models.SalesGroup
	MostByRevenue  models.SalesGroup
	LeastByRevenue models.SalesGroup
}

func (h *SSEHandlers) renderSalesTable(kind reports.Kind, rep *models.SalesReport) (string, error) {
	rows := rep.ByVolume
	if len(rows) > maxTableRows {
		rows = rows[:maxTableRows]
	}

	var buf strings.Builder
	err := salesTableTemplate.Execute(&buf, salesTableData{
		ID:             elementID(kind),
		Dimension:      rep.Dimension,
		Rows:           rows,
		MostByVolume:   rep.MostByVolume,
		LeastByVolume:  rep.LeastByVolume,
		MostByRevenue:  rep.MostByRevenue,
		LeastByRevenue: rep.LeastByRevenue,
	})
	return buf.String(), err
}

func noData(result any) bool {
	switch rep := result.(type) {
	case *models.DeliveryTimeReport:
		return rep.NoData
	case *models.CategoryRatingReport:
		return rep.NoData
	case *models.RFMReport:
		return rep.NoData
	case *models.GeoSalesReport:
		return rep.NoData
	}
	return false
}

func elementID(kind reports.Kind) string {
	return string(kind)
}

// signalName turns a report kind into a datastar signal identifier, e.g.
// "geo-sales" becomes "geoSales".
func signalName(kind reports.Kind) string {
	parts := strings.Split(string(kind), "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
