package reports

import (
	"math"
	"testing"

	"olist-dashboard/internal/dataset"
	"olist-dashboard/internal/models"
)

func TestCategoryRating_BestAndWorst(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", Category: "toys", Review: 5, HasReview: true, PurchasedAt: day(0)},
		{OrderID: "o2", CustomerID: "c2", Category: "toys", Review: 4, HasReview: true, PurchasedAt: day(1)},
		{OrderID: "o3", CustomerID: "c3", Category: "books", Review: 2, HasReview: true, PurchasedAt: day(2)},
		{OrderID: "o4", CustomerID: "c4", Category: "books", Review: 3, HasReview: true, PurchasedAt: day(3)},
	}
	rep, err := CategoryRating(newTable(t, records))
	if err != nil {
		t.Fatalf("CategoryRating() failed: %v", err)
	}

	if rep.Best.Category != "toys" || math.Abs(rep.Best.MeanScore-4.5) > 1e-9 {
		t.Errorf("best = %s (%.2f), want toys (4.50)", rep.Best.Category, rep.Best.MeanScore)
	}
	if rep.Worst.Category != "books" || math.Abs(rep.Worst.MeanScore-2.5) > 1e-9 {
		t.Errorf("worst = %s (%.2f), want books (2.50)", rep.Worst.Category, rep.Worst.MeanScore)
	}

	// Sorted descending.
	for i := 1; i < len(rep.Ratings); i++ {
		if rep.Ratings[i].MeanScore > rep.Ratings[i-1].MeanScore {
			t.Fatal("ratings must be sorted descending by mean score")
		}
	}
}

// A single review is a valid mean, not an error.
func TestCategoryRating_SingleReview(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", Category: "toys", Review: 3, HasReview: true, PurchasedAt: day(0)},
	}
	rep, err := CategoryRating(newTable(t, records))
	if err != nil {
		t.Fatalf("CategoryRating() failed: %v", err)
	}

	if rep.Best.MeanScore != 3 {
		t.Errorf("single-review mean = %v, want 3", rep.Best.MeanScore)
	}
	if rep.Best.Category != rep.Worst.Category {
		t.Error("a single category must be both best and worst")
	}
}

// Unscored rows are skipped; a category with no scored rows disappears.
func TestCategoryRating_SkipsMissingScores(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", Category: "toys", Review: 4, HasReview: true, PurchasedAt: day(0)},
		{OrderID: "o2", CustomerID: "c2", Category: "toys", PurchasedAt: day(1)},
		{OrderID: "o3", CustomerID: "c3", Category: "furniture", PurchasedAt: day(2)},
	}
	rep, err := CategoryRating(newTable(t, records))
	if err != nil {
		t.Fatalf("CategoryRating() failed: %v", err)
	}

	if len(rep.Ratings) != 1 {
		t.Fatalf("expected 1 rated category, got %d", len(rep.Ratings))
	}
	if rep.Ratings[0].MeanScore != 4 || rep.Ratings[0].Reviews != 1 {
		t.Errorf("toys = %.2f over %d reviews, want 4.00 over 1",
			rep.Ratings[0].MeanScore, rep.Ratings[0].Reviews)
	}
}

func TestCategoryRating_NoScoredRows(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "o1", CustomerID: "c1", Category: "toys", PurchasedAt: day(0)},
	}
	rep, err := CategoryRating(newTable(t, records))
	if err != nil {
		t.Fatalf("CategoryRating() failed: %v", err)
	}
	if !rep.NoData {
		t.Error("expected NoData when no row carries a review score")
	}
}

func TestCategoryRating_MissingColumn(t *testing.T) {
	table := newTable(t, nil, dataset.ColOrderID, dataset.ColCustomerID, dataset.ColPurchasedAt, dataset.ColCategory)
	_, err := CategoryRating(table)
	assertComputationError(t, err)
}
