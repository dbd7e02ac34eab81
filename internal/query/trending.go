package query

import (
	"cmp"
	"slices"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

// Bounds of the trending selection
const (
	TrendingMin = 3
	TrendingMax = 6
)

// Trending returns the best-funded projects by raised amount, at most
// TrendingMax of them and never more than the catalog holds. Equal amounts
// keep catalog order. The input slice is not modified.
func Trending(catalog []*models.Project) []*models.Project {
	n := len(catalog)
	k := min(max(TrendingMin, min(n, TrendingMax)), n)

	ranked := slices.Clone(catalog)
	slices.SortStableFunc(ranked, func(a, b *models.Project) int {
		return cmp.Compare(b.RaisedAmount, a.RaisedAmount)
	})
	return ranked[:k]
}
