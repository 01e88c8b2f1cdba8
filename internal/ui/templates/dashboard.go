// Package templates holds the dashboard page as a templ component.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard renders the single-page dashboard shell. Each report panel loads
// itself through its datastar SSE endpoint when the page mounts.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardHTML)
		return err
	})
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Olist E-commerce Reports</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f5f6f8; color: #1f2430; }
header { background: #1f2430; color: #fff; padding: 1rem 2rem; }
main { display: grid; grid-template-columns: repeat(auto-fit, minmax(420px, 1fr)); gap: 1.25rem; padding: 1.5rem 2rem; }
section { background: #fff; border-radius: 8px; padding: 1rem 1.25rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
section h2 { margin-top: 0; font-size: 1.05rem; }
.modern-table { width: 100%; border-collapse: collapse; font-size: .9rem; }
.modern-table th, .modern-table td { text-align: left; padding: .35rem .5rem; border-bottom: 1px solid #e4e7ec; }
.extremes { font-size: .85rem; color: #5b6372; }
.report-error { color: #b42318; }
.report-empty { color: #5b6372; font-style: italic; }
.toolbar { padding: 0 2rem; }
button { cursor: pointer; border: 1px solid #d0d5dd; border-radius: 6px; background: #fff; padding: .4rem .9rem; }
</style>
</head>
<body>
<header>
<h1>Olist E-commerce Reports</h1>
</header>
<div class="toolbar">
<button data-on-click="@get('/sse/refresh-all')">Refresh all</button>
</div>
<main data-on-load="@get('/sse/refresh-all')">
<section>
<h2>City sales</h2>
<div id="city-sales-content">Loading…</div>
<a href="/api/reports/city-sales/export">Download XLSX</a>
</section>
<section>
<h2>Product categories</h2>
<div id="product-category-content">Loading…</div>
<a href="/api/reports/product-category/export">Download XLSX</a>
</section>
<section>
<h2>Delivery time</h2>
<div id="delivery-time-content">Loading…</div>
<a href="/api/reports/delivery-time/export">Download XLSX</a>
</section>
<section>
<h2>Category ratings</h2>
<div id="category-rating-content">Loading…</div>
<a href="/api/reports/category-rating/export">Download XLSX</a>
</section>
<section>
<h2>RFM segmentation</h2>
<div id="rfm-content">Loading…</div>
<a href="/api/reports/rfm/export">Download XLSX</a>
</section>
<section>
<h2>Sales by state</h2>
<div id="geo-sales-content">Loading…</div>
<a href="/api/reports/geo-sales/export">Download XLSX</a>
</section>
</main>
</body>
</html>
`
