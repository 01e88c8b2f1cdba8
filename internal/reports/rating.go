package reports

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"olist-dashboard/internal/dataset"
	apperrors "olist-dashboard/internal/errors"
	"olist-dashboard/internal/models"
)

// CategoryRating reports the mean review score per product category, sorted
// descending, with the best and worst category. Rows without a review score
// are skipped; a category with no scored rows at all is omitted.
func CategoryRating(t *dataset.Table) (*models.CategoryRatingReport, error) {
	if missing := t.MissingColumns(dataset.ColCategory, dataset.ColReviewScore); len(missing) > 0 {
		return nil, apperrors.Computation(
			fmt.Sprintf("category rating report needs columns: %s", strings.Join(missing, ", ")))
	}

	type accum struct {
		sum float64
		n   int
	}
	sums := make(map[string]*accum)
	var order []string

	for _, r := range t.Records() {
		if r.Category == "" || !r.HasReview {
			continue
		}
		a, ok := sums[r.Category]
		if !ok {
			a = &accum{}
			sums[r.Category] = a
			order = append(order, r.Category)
		}
		a.sum += r.Review
		a.n++
	}

	rep := &models.CategoryRatingReport{}
	if len(order) == 0 {
		rep.NoData = true
		return rep, nil
	}

	ratings := make([]models.CategoryRating, 0, len(order))
	for _, category := range order {
		a := sums[category]
		ratings = append(ratings, models.CategoryRating{
			Category:  category,
			MeanScore: a.sum / float64(a.n),
			Reviews:   a.n,
		})
	}
	slices.SortStableFunc(ratings, func(a, b models.CategoryRating) int {
		return cmp.Compare(b.MeanScore, a.MeanScore)
	})

	rep.Ratings = ratings
	rep.Best = ratings[0]
	rep.Worst = ratings[len(ratings)-1]
	return rep, nil
}
