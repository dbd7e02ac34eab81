package models

import (
	"fmt"
	"strings"
)

// Wildcard is the filter value that matches every record
const Wildcard = "all"

// SortField names the key a result set is ordered by
type SortField string

const (
	SortRelevance        SortField = "relevance"
	SortTitle            SortField = "title"
	SortFundedPercentage SortField = "fundedPercentage"
	SortTargetAmount     SortField = "targetAmount"
	SortRating           SortField = "rating"
	SortTimeLeft         SortField = "timeLeft"
)

// ParseSortField validates a sort field name (case-insensitive)
func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return SortRelevance, nil
	}
	for _, f := range []SortField{SortRelevance, SortTitle, SortFundedPercentage, SortTargetAmount, SortRating, SortTimeLeft} {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder validates a sort order (accepts asc/desc and ascending/descending)
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(s) {
	case "", "asc", "ascending":
		return SortAsc, nil
	case "desc", "descending":
		return SortDesc, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// FundingRange is a closed interval of funded percentages
type FundingRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FullFundingRange covers every valid funded percentage
var FullFundingRange = FundingRange{Min: 0, Max: 100}

// Contains reports whether v lies in the range (bounds inclusive)
func (r FundingRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// IsFull reports whether the range is the unrestricted [0,100]
func (r FundingRange) IsFull() bool {
	return r == FullFundingRange
}

// Validate checks the range is ordered and within [0,100]
func (r FundingRange) Validate() error {
	if r.Min < 0 || r.Max > 100 {
		return fmt.Errorf("funding range [%g,%g] outside [0,100]", r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("funding range min %g greater than max %g", r.Min, r.Max)
	}
	return nil
}

// Query holds the search, filter and sort parameters of one evaluation.
// A Query is built fresh for every search and never mutated afterwards.
type Query struct {
	Term      string       `json:"term"`
	Category  string       `json:"category"`
	Kind      string       `json:"type"`
	Language  string       `json:"language"`
	Genre     string       `json:"genre"`
	Funding   FundingRange `json:"fundingRange"`
	SortField SortField    `json:"sortBy"`
	SortOrder SortOrder    `json:"sortOrder"`
}

// NewQuery returns a query with every filter at its wildcard value
func NewQuery() Query {
	return Query{
		Category:  Wildcard,
		Kind:      Wildcard,
		Language:  Wildcard,
		Genre:     Wildcard,
		Funding:   FullFundingRange,
		SortField: SortRelevance,
		SortOrder: SortAsc,
	}
}

// IsWildcard reports whether a filter value matches everything.
// The empty string is accepted as a wildcard too.
func IsWildcard(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, Wildcard)
}

// IsNoop reports whether the query has no term, no active filters and
// an unrestricted funding range
func (q Query) IsNoop() bool {
	return strings.TrimSpace(q.Term) == "" &&
		IsWildcard(q.Category) &&
		IsWildcard(q.Kind) &&
		IsWildcard(q.Language) &&
		IsWildcard(q.Genre) &&
		q.Funding.IsFull()
}

// Validate checks the parts of a query an engine cannot degrade gracefully
func (q Query) Validate() error {
	if !IsWildcard(q.Kind) {
		if !Kind(q.Kind).Valid() {
			return fmt.Errorf("unknown project type %q", q.Kind)
		}
	}
	if _, err := ParseSortField(string(q.SortField)); err != nil {
		return err
	}
	if _, err := ParseSortOrder(string(q.SortOrder)); err != nil {
		return err
	}
	return q.Funding.Validate()
}

// Normalize canonicalizes user input: the type filter is lower-cased,
// empty filters become wildcards and sort names are resolved. The result
// is validated.
func (q Query) Normalize() (Query, error) {
	for _, f := range []*string{&q.Category, &q.Kind, &q.Language, &q.Genre} {
		if IsWildcard(*f) {
			*f = Wildcard
		}
	}
	if q.Kind != Wildcard {
		if k, ok := ParseKind(q.Kind); ok {
			q.Kind = string(k)
		}
	}

	field, err := ParseSortField(string(q.SortField))
	if err != nil {
		return q, err
	}
	order, err := ParseSortOrder(string(q.SortOrder))
	if err != nil {
		return q, err
	}
	q.SortField, q.SortOrder = field, order

	return q, q.Validate()
}

// Result is the ordered outcome of a query evaluation.
// Active is false for the "no active search" sentinel.
type Result struct {
	Active   bool       `json:"active"`
	Projects []*Project `json:"projects"`
	Total    int        `json:"total"`
}

// Facets holds the filter choices derived from a catalog
type Facets struct {
	Categories []string `json:"categories"`
	Kinds      []string `json:"types"`
	Languages  []string `json:"languages"`
	Genres     []string `json:"genres"`
}
