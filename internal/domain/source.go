package domain

import "context"

// Filter describes what a search needs from a ResourceSource. Sources may use
// Center and RadiusMiles to skip resources that are certainly out of range,
// but must return every category match that has no coordinate.
type Filter struct {
	Categories  []Category
	Center      *Coordinate
	RadiusMiles float64
}

// ResourceSource supplies the resources a search runs over.
type ResourceSource interface {
	// Name identifies the source in response metadata and metrics.
	Name() string

	// Fetch returns candidate resources for the filter. The result is a
	// superset of what the query keeps; Query applies the exact filters.
	Fetch(ctx context.Context, f Filter) ([]Resource, error)
}
