package domain

import "slices"

// RadiusMiles is the maximum distance of a result from a known center.
const RadiusMiles = 60.0

// Match is a resource that passed a query, annotated with its distance from
// the search center. Distance is nil when either side has no coordinate.
type Match struct {
	Resource
	Distance *float64 `json:"distance"`
}

// Query filters resources by category and radius and orders them by distance.
// A nil center disables distance computation, so every category match passes
// the radius filter. The input slice is not modified.
func Query(center *Coordinate, sel Selection, resources []Resource) []Match {
	matches := make([]Match, 0, len(resources))
	for _, r := range resources {
		if !sel.Matches(r.Categories) {
			continue
		}
		dist := distanceTo(center, r.Coordinates)
		if dist != nil && *dist > RadiusMiles {
			continue
		}
		matches = append(matches, Match{Resource: r, Distance: dist})
	}

	slices.SortStableFunc(matches, compareDistance)
	return matches
}

func distanceTo(center, point *Coordinate) *float64 {
	if center == nil || point == nil {
		return nil
	}
	d := HaversineMiles(*center, *point)
	return &d
}

// compareDistance orders defined distances ascending and places undefined
// distances after them. Used with a stable sort, ties keep input order.
func compareDistance(a, b Match) int {
	switch {
	case a.Distance == nil && b.Distance == nil:
		return 0
	case a.Distance == nil:
		return 1
	case b.Distance == nil:
		return -1
	case *a.Distance < *b.Distance:
		return -1
	case *a.Distance > *b.Distance:
		return 1
	default:
		return 0
	}
}
