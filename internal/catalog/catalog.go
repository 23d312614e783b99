// Package catalog holds the static resource directory that every search can
// fall back to: the built-in listings, the zip code table, and an optional
// HCL file that replaces them at startup.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/couchcryptid/community-health-finder/internal/domain"
)

// Catalog is an immutable set of resources and known zip codes.
// It is safe for concurrent use.
type Catalog struct {
	resources []domain.Resource
	zips      map[string]domain.ZipLocation
	index     *index
}

// builtin is built once at process start; the data is compiled in, so a
// validation failure is a programming error.
var builtin = mustNew(builtinResources, builtinZips)

// Builtin returns the catalog compiled into the binary.
func Builtin() *Catalog { return builtin }

func mustNew(resources []domain.Resource, zips []domain.ZipLocation) *Catalog {
	c, err := New(resources, zips)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid builtin data: %v", err))
	}
	return c
}

// New validates resources and zips and builds a catalog from them.
// Resource order is preserved; it is the tie-break order of search results.
func New(resources []domain.Resource, zips []domain.ZipLocation) (*Catalog, error) {
	if err := validateResources(resources); err != nil {
		return nil, err
	}

	byZip := make(map[string]domain.ZipLocation, len(zips))
	for _, z := range zips {
		if z.Zip == "" {
			return nil, errors.New("zip entry without a code")
		}
		if _, dup := byZip[z.Zip]; dup {
			return nil, fmt.Errorf("duplicate zip %q", z.Zip)
		}
		if !z.Point.Valid() {
			return nil, fmt.Errorf("zip %q: coordinate out of range", z.Zip)
		}
		byZip[z.Zip] = z
	}

	owned := make([]domain.Resource, len(resources))
	copy(owned, resources)

	return &Catalog{
		resources: owned,
		zips:      byZip,
		index:     newIndex(owned),
	}, nil
}

func validateResources(resources []domain.Resource) error {
	seen := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		if r.ID == "" {
			return fmt.Errorf("resource %q has no id", r.Name)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate resource id %q", r.ID)
		}
		seen[r.ID] = struct{}{}

		if len(r.Categories) == 0 {
			return fmt.Errorf("resource %q has no categories", r.ID)
		}
		for _, c := range r.Categories {
			if !c.Valid() {
				return fmt.Errorf("resource %q: unknown category %q", r.ID, c)
			}
		}
		if r.Coordinates != nil && !r.Coordinates.Valid() {
			return fmt.Errorf("resource %q: coordinate out of range", r.ID)
		}
	}
	return nil
}

// Resources returns the listings in catalog order.
func (c *Catalog) Resources() []domain.Resource {
	out := make([]domain.Resource, len(c.resources))
	copy(out, c.resources)
	return out
}

// Len returns the number of listings.
func (c *Catalog) Len() int { return len(c.resources) }

// LookupZip returns the center for a known zip code.
func (c *Catalog) LookupZip(zip string) (domain.ZipLocation, bool) {
	z, ok := c.zips[zip]
	return z, ok
}

// Zips returns the zip table sorted by code.
func (c *Catalog) Zips() []domain.ZipLocation {
	out := make([]domain.ZipLocation, 0, len(c.zips))
	for _, z := range c.zips {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Zip < out[j].Zip })
	return out
}

// Candidates returns the listings that can possibly satisfy f, in catalog
// order. With a center and radius, coordinate-bearing listings outside the
// radius bounding box are skipped; listings without coordinates are always
// kept.
func (c *Catalog) Candidates(f domain.Filter) []domain.Resource {
	sel := domain.SelectCategories(f.Categories...)

	var inBox map[int]struct{}
	useIndex := false
	if f.Center != nil {
		inBox, useIndex = c.index.within(*f.Center, f.RadiusMiles)
	}

	out := make([]domain.Resource, 0, len(c.resources))
	for i, r := range c.resources {
		if !sel.Matches(r.Categories) {
			continue
		}
		if useIndex && r.Coordinates != nil {
			if _, ok := inBox[i]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Source serves searches straight from a catalog.
// It implements domain.ResourceSource and never fails.
type Source struct {
	catalog *Catalog
}

// NewSource creates a Source over c.
func NewSource(c *Catalog) *Source {
	return &Source{catalog: c}
}

// Name reports the static catalog as "mock", the label clients already know.
func (s *Source) Name() string { return domain.SourceMock }

func (s *Source) Fetch(_ context.Context, f domain.Filter) ([]domain.Resource, error) {
	return s.catalog.Candidates(f), nil
}

// CheckReadiness always succeeds; the catalog lives in memory.
func (s *Source) CheckReadiness(_ context.Context) error { return nil }
