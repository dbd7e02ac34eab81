package poster

import (
	"strings"
	"unicode"
)

// NormalizeTitle builds the fallback-table key for a title: lowercase
// letters and digits only ("KGF: Chapter 3" -> "kgfchapter3")
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DefaultFallbacks maps normalized titles to alternate poster URLs for
// catalog entries whose primary poster is known to be flaky
var DefaultFallbacks = map[string]string{
	"oppenheimer":          "https://upload.wikimedia.org/wikipedia/en/4/4a/Oppenheimer_%28film%29.jpg",
	"barbie":               "https://upload.wikimedia.org/wikipedia/en/0/0b/Barbie_2023_poster.jpg",
	"pathaan2":             "https://images.unsplash.com/photo-1536440136628-849c177e76a1",
	"kgfchapter3":          "https://images.unsplash.com/photo-1489599849927-2ee91cede3ba",
	"arijitsinghunplugged": "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f",
	"rahmansymphony":       "https://images.unsplash.com/photo-1507838153414-b4b713384a76",
	"sacredgames3":         "https://images.unsplash.com/photo-1478720568477-152d9b164e26",
	"panchayat4":           "https://images.unsplash.com/photo-1500382017468-9049fed747ef",
	"monsoonletters":       "https://images.unsplash.com/photo-1428592953211-077101b2021b",
}

// Fallbacks is a lookup table from normalized title to URL
type Fallbacks map[string]string

// Lookup returns the alternate poster for a title
func (f Fallbacks) Lookup(title string) (string, bool) {
	url, ok := f[NormalizeTitle(title)]
	return url, ok && url != ""
}
