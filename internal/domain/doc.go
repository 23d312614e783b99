// Package domain models community health resources and the radius query that
// ranks them for a searcher's location.
//
// # Data Source
//
// Resources come from one of three places, chosen at startup: a Postgres
// table, a JSON snapshot in an S3-compatible bucket, or the built-in catalog
// compiled into the binary (optionally replaced by an HCL catalog file). The
// built-in catalog is always available and is what a request falls back to
// when the configured store fails. Responses report it as source "mock".
//
// # Categories
//
// A resource carries one or more tags from a closed set:
//
//	mental-health   Mental Health
//	emergency-care  Emergency Care
//	womens-health   Women’s Health
//	pharmacy        Pharmacy
//	dental          Dental
//	food            Food Banks
//	shelter         Shelter
//
// Category filters use any-match semantics: a resource matches when at least
// one of its tags is selected. An empty selection matches everything. Unknown
// identifiers in a request are kept in the selection but match nothing, so a
// request for only "bogus" returns no results rather than every result.
//
// # Distance
//
// Distances are great-circle miles computed with the haversine formula on a
// sphere of radius 3958.8 miles. A distance is only defined when both the
// search center and the resource have coordinates.
//
// # Radius and Ordering
//
// When a center is known, resources further than [RadiusMiles] are dropped.
// Resources with an undefined distance always pass the radius filter.
//
// Results are ordered by ascending distance. Resources with an undefined
// distance are placed after every resource with a defined one; within each of
// the two groups the input order is kept. See [Query].
package domain
