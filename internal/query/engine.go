// Package query evaluates catalog searches: filtering, sorting, facet
// extraction and the trending selection. Every function here is pure and
// safe for concurrent use over an immutable catalog snapshot.
package query

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

// Evaluate filters and orders the catalog according to q.
// A query with no term, no filters and the full funding range yields the
// inactive sentinel result rather than the whole catalog.
func Evaluate(catalog []*models.Project, q models.Query) models.Result {
	if q.IsNoop() {
		return models.Result{Active: false, Projects: []*models.Project{}}
	}

	m := newMatcher(q)
	matched := make([]*models.Project, 0, len(catalog))
	for _, p := range catalog {
		if p != nil && m.match(p) {
			matched = append(matched, p)
		}
	}

	Sort(matched, q.SortField, q.SortOrder)

	return models.Result{
		Active:   true,
		Projects: matched,
		Total:    len(matched),
	}
}

// Sort orders projects in place with a stable sort. Relevance (and any
// unknown field) leaves the slice untouched.
func Sort(projects []*models.Project, field models.SortField, order models.SortOrder) {
	compare := comparator(field)
	if compare == nil {
		return
	}
	if order == models.SortDesc {
		slices.SortStableFunc(projects, func(a, b *models.Project) int {
			return -compare(a, b)
		})
		return
	}
	slices.SortStableFunc(projects, compare)
}

func comparator(field models.SortField) func(a, b *models.Project) int {
	switch field {
	case models.SortTitle:
		// Collators keep internal buffers, so each sort gets its own.
		c := collate.New(language.English)
		return func(a, b *models.Project) int {
			return c.CompareString(a.Title, b.Title)
		}
	case models.SortFundedPercentage:
		return func(a, b *models.Project) int {
			return cmp.Compare(a.FundedPercentage, b.FundedPercentage)
		}
	case models.SortTargetAmount:
		return func(a, b *models.Project) int {
			return cmp.Compare(a.TargetAmount, b.TargetAmount)
		}
	case models.SortRating:
		return func(a, b *models.Project) int {
			return cmp.Compare(a.RatingValue(), b.RatingValue())
		}
	case models.SortTimeLeft:
		return func(a, b *models.Project) int {
			return cmp.Compare(daysKey(a), daysKey(b))
		}
	}
	return nil
}

// daysKey maps a missing or unparseable deadline to +Inf so it sorts last
func daysKey(p *models.Project) float64 {
	if d, ok := p.DaysLeft(); ok {
		return float64(d)
	}
	return math.Inf(1)
}

// matcher holds the normalized filter values of a query
type matcher struct {
	term     string
	category string
	kind     string
	language string
	genre    string
	funding  models.FundingRange
}

func newMatcher(q models.Query) matcher {
	m := matcher{
		term:    strings.ToLower(strings.TrimSpace(q.Term)),
		funding: q.Funding,
	}
	if !models.IsWildcard(q.Category) {
		m.category = strings.TrimSpace(q.Category)
	}
	if !models.IsWildcard(q.Kind) {
		m.kind = strings.TrimSpace(q.Kind)
	}
	if !models.IsWildcard(q.Language) {
		m.language = strings.TrimSpace(q.Language)
	}
	if !models.IsWildcard(q.Genre) {
		m.genre = strings.ToLower(strings.TrimSpace(q.Genre))
	}
	return m
}

func (m matcher) match(p *models.Project) bool {
	return m.matchTerm(p) &&
		(m.category == "" || strings.EqualFold(p.Category, m.category)) &&
		(m.kind == "" || string(p.Kind) == m.kind) &&
		(m.language == "" || strings.EqualFold(p.Language, m.language)) &&
		m.matchGenre(p) &&
		m.funding.Contains(p.FundedPercentage)
}

func (m matcher) matchTerm(p *models.Project) bool {
	if m.term == "" {
		return true
	}
	if containsFold(p.Title, m.term) || containsFold(p.Description, m.term) {
		return true
	}
	for _, tag := range p.Tags {
		if containsFold(tag, m.term) {
			return true
		}
	}
	return containsFold(p.Director, m.term) || containsFold(p.Artist, m.term)
}

// matchGenre uses containment: genre strings are comma-joined lists
func (m matcher) matchGenre(p *models.Project) bool {
	if m.genre == "" {
		return true
	}
	if p.Genre == "" {
		return false
	}
	return containsFold(p.Genre, m.genre)
}

// containsFold reports whether lowerNeedle occurs in s, ignoring case
func containsFold(s, lowerNeedle string) bool {
	if s == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
