package domain

import "strings"

// Category is a resource service type from a fixed set.
type Category string

const (
	MentalHealth  Category = "mental-health"
	EmergencyCare Category = "emergency-care"
	WomensHealth  Category = "womens-health"
	Pharmacy      Category = "pharmacy"
	Dental        Category = "dental"
	Food          Category = "food"
	Shelter       Category = "shelter"
)

// categoryOrder is the canonical display order.
var categoryOrder = []Category{
	MentalHealth,
	EmergencyCare,
	WomensHealth,
	Pharmacy,
	Dental,
	Food,
	Shelter,
}

var categoryLabels = map[Category]string{
	MentalHealth:  "Mental Health",
	EmergencyCare: "Emergency Care",
	WomensHealth:  "Women’s Health",
	Pharmacy:      "Pharmacy",
	Dental:        "Dental",
	Food:          "Food Banks",
	Shelter:       "Shelter",
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// CategoryLabels returns a fresh id-to-label map of every category.
func CategoryLabels() map[Category]string {
	out := make(map[Category]string, len(categoryLabels))
	for c, label := range categoryLabels {
		out[c] = label
	}
	return out
}

// ParseCategory maps an identifier such as "mental-health" to its Category.
// Matching is exact after trimming surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.TrimSpace(s))
	if _, ok := categoryLabels[c]; !ok {
		return "", false
	}
	return c, true
}

// Valid reports whether c belongs to the fixed set.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human-readable name, or the raw identifier for an
// unknown category.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseCategories converts stored identifiers into categories, dropping any
// that are not part of the fixed set. The second return value lists what was
// dropped so callers can log it.
func ParseCategories(ids []string) ([]Category, []string) {
	cats := make([]Category, 0, len(ids))
	var unknown []string
	for _, id := range ids {
		c, ok := ParseCategory(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		cats = append(cats, c)
	}
	return cats, unknown
}

// Selection is the set of categories a search is filtered by.
// The zero value is an empty selection and matches every resource.
type Selection struct {
	known    map[Category]struct{}
	filtered bool
}

// NewSelection builds a selection from request tokens. Blank tokens are
// ignored. Unknown tokens still make the selection non-empty but can never
// match a resource.
func NewSelection(tokens []string) Selection {
	var s Selection
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		s.filtered = true
		if c, ok := ParseCategory(tok); ok {
			if s.known == nil {
				s.known = make(map[Category]struct{})
			}
			s.known[c] = struct{}{}
		}
	}
	return s
}

// SelectCategories builds a selection from known categories.
func SelectCategories(cats ...Category) Selection {
	tokens := make([]string, len(cats))
	for i, c := range cats {
		tokens[i] = string(c)
	}
	return NewSelection(tokens)
}

// Empty reports whether the selection places no restriction on results.
func (s Selection) Empty() bool { return !s.filtered }

// Categories returns the known selected categories in display order.
func (s Selection) Categories() []Category {
	out := make([]Category, 0, len(s.known))
	for _, c := range categoryOrder {
		if _, ok := s.known[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Matches reports whether a resource tagged with cats passes the filter.
func (s Selection) Matches(cats []Category) bool {
	if !s.filtered {
		return true
	}
	for _, c := range cats {
		if _, ok := s.known[c]; ok {
			return true
		}
	}
	return false
}
