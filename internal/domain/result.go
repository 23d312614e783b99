package domain

import "time"

const (
	// DefaultZip is searched when a request does not name one.
	DefaultZip = "94103"

	// LabelUserLocation is the location label for explicit coordinates.
	LabelUserLocation = "Your location"

	// LabelUnknownArea is the location label when no center was resolved.
	LabelUnknownArea = "Unknown area"

	// SourceMock names the built-in catalog in response metadata.
	SourceMock = "mock"
)

// QueryResult is the body of a resource search response.
type QueryResult struct {
	Zip                 string              `json:"zip"`
	LocationLabel       string              `json:"locationLabel"`
	AvailableCategories map[Category]string `json:"availableCategories"`
	Results             []Match             `json:"results"`
	Metadata            Metadata            `json:"metadata"`
}

// Metadata describes how a QueryResult was produced.
type Metadata struct {
	RadiusMiles  float64 `json:"radiusMiles"`
	MatchedCount int     `json:"matchedCount"`
	Centered     bool    `json:"centered"`
	Source       string  `json:"source,omitempty"`
}

// SearchEvent records one search for downstream analytics.
type SearchEvent struct {
	ID           string     `json:"id"`
	Zip          string     `json:"zip"`
	Centered     bool       `json:"centered"`
	Categories   []Category `json:"categories,omitempty"`
	MatchedCount int        `json:"matched_count"`
	Source       string     `json:"source"`
	OccurredAt   time.Time  `json:"occurred_at"`
}
