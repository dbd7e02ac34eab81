package models

import (
	"strconv"
	"strings"
)

// Kind is the closed set of project types in the catalog
type Kind string

const (
	KindFilm      Kind = "film"
	KindMusic     Kind = "music"
	KindWebseries Kind = "webseries"
)

// Kinds lists every valid kind in display order
var Kinds = []Kind{KindFilm, KindMusic, KindWebseries}

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	switch k {
	case KindFilm, KindMusic, KindWebseries:
		return true
	}
	return false
}

// ParseKind converts a raw string into a Kind (case-insensitive)
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

// Project is a single crowdfunding project in the catalog.
// Records are treated as immutable once they are part of a catalog snapshot.
type Project struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Kind             Kind     `json:"type"`
	Category         string   `json:"category"`
	Language         string   `json:"language"`
	Genre            string   `json:"genre,omitempty"`
	PosterURL        string   `json:"poster"`
	TrailerURL       string   `json:"trailer,omitempty"`
	FundedPercentage float64  `json:"fundedPercentage"`
	TargetAmount     float64  `json:"targetAmount"`
	RaisedAmount     float64  `json:"raisedAmount"`
	TimeLeft         string   `json:"timeLeft,omitempty"` // "<N> days"
	Tags             []string `json:"tags"`
	Director         string   `json:"director,omitempty"`
	Artist           string   `json:"artist,omitempty"`
	Perks            []string `json:"perks"`
	Rating           *float64 `json:"rating,omitempty"`
}

// RatingValue returns the rating, or 0 when the project has none
func (p *Project) RatingValue() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// DaysLeft parses the leading integer of TimeLeft ("8 days" -> 8).
// ok is false when TimeLeft is empty or does not start with a number.
func (p *Project) DaysLeft() (days int, ok bool) {
	s := strings.TrimSpace(p.TimeLeft)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Creator returns the director or artist, whichever is set
func (p *Project) Creator() string {
	if p.Director != "" {
		return p.Director
	}
	return p.Artist
}
