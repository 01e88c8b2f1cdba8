package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesGroup is one row of a grouped sales aggregate: volume (row count) and
// revenue (sum of payment value) for a single city, category or state.
type SalesGroup struct {
	Key     string          `json:"key"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SalesReport holds two independently sorted views over the same grouped
// aggregate plus the extremes of each view. Sorts are stable: groups with
// equal metric values keep the order in which they first appear in the
// dataset, which fixes which group "least" picks on ties.
type SalesReport struct {
	Dimension      string       `json:"dimension"`
	ByVolume       []SalesGroup `json:"by_volume"`
	ByRevenue      []SalesGroup `json:"by_revenue"`
	MostByVolume   SalesGroup   `json:"most_by_volume"`
	LeastByVolume  SalesGroup   `json:"least_by_volume"`
	MostByRevenue  SalesGroup   `json:"most_by_revenue"`
	LeastByRevenue SalesGroup   `json:"least_by_revenue"`
	NoData         bool         `json:"no_data"`
}

// HistogramBin is a half-open interval [Low, High); the rightmost bin of a
// histogram also includes High.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

type DeliveryTimeReport struct {
	MeanDays  float64        `json:"mean_days"`
	Delivered int            `json:"delivered_rows"`
	Excluded  int            `json:"excluded_rows"`
	Histogram []HistogramBin `json:"histogram"`
	NoData    bool           `json:"no_data"`
}

type CategoryRating struct {
	Category  string  `json:"category"`
	MeanScore float64 `json:"mean_score"`
	Reviews   int     `json:"reviews"`
}

type CategoryRatingReport struct {
	Ratings []CategoryRating `json:"ratings"`
	Best    CategoryRating   `json:"best"`
	Worst   CategoryRating   `json:"worst"`
	NoData  bool             `json:"no_data"`
}

// ValueCount is one row of a frequency table over an integer-valued metric.
type ValueCount struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

type RFMReport struct {
	Customers             int            `json:"customers"`
	ReferenceDate         time.Time      `json:"reference_date"`
	RecencyDistribution   []ValueCount   `json:"recency_distribution"`
	FrequencyDistribution []ValueCount   `json:"frequency_distribution"`
	MonetaryHistogram     []HistogramBin `json:"monetary_histogram"`
	NoData                bool           `json:"no_data"`
}

type StateRevenue struct {
	State   string          `json:"state"`
	Revenue decimal.Decimal `json:"revenue"`
}

type GeoSalesReport struct {
	States  []StateRevenue  `json:"states"`
	Highest StateRevenue    `json:"highest"`
	Lowest  StateRevenue    `json:"lowest"`
	Total   decimal.Decimal `json:"total"`
	NoData  bool            `json:"no_data"`
}
