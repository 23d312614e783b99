package catalog

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/community-health-finder/internal/domain"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// fileSchema is the top-level schema of a catalog file:
//
//	zip "94103" {
//	  city = "San Francisco, CA"
//	  lat  = 37.7749
//	  lng  = -122.4194
//	}
//
//	resource "sf-night-shelter" {
//	  name       = "Hope Shelter"
//	  categories = ["shelter", "food"]
//	  ...
//	}
type fileSchema struct {
	Zips      []zipBlock      `hcl:"zip,block"`
	Resources []resourceBlock `hcl:"resource,block"`
}

type zipBlock struct {
	Code string  `hcl:"code,label"`
	City string  `hcl:"city"`
	Lat  float64 `hcl:"lat"`
	Lng  float64 `hcl:"lng"`
}

type resourceBlock struct {
	ID          string   `hcl:"id,label"`
	Name        string   `hcl:"name"`
	Categories  []string `hcl:"categories"`
	Description string   `hcl:"description,optional"`
	Address     string   `hcl:"address"`
	City        string   `hcl:"city"`
	State       string   `hcl:"state"`
	Zip         string   `hcl:"zip"`
	Phone       string   `hcl:"phone,optional"`
	Website     string   `hcl:"website,optional"`
	Hours       string   `hcl:"hours,optional"`
	Cost        string   `hcl:"cost,optional"`
	Eligibility string   `hcl:"eligibility,optional"`
	Lat         *float64 `hcl:"lat,optional"`
	Lng         *float64 `hcl:"lng,optional"`
	Verified    *bool    `hcl:"verified,optional"`
}

// LoadFile reads a catalog from an HCL file. A file without zip blocks keeps
// the built-in zip table.
func LoadFile(path string) (*Catalog, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, diags)
	}
	c, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}

// Parse reads a catalog from HCL source; filename is used in diagnostics.
func Parse(src []byte, filename string) (*Catalog, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", filename, diags)
	}
	return decode(f)
}

func decode(f *hcl.File) (*Catalog, error) {
	var doc fileSchema
	if diags := gohcl.DecodeBody(f.Body, nil, &doc); diags.HasErrors() {
		return nil, diags
	}

	if len(doc.Resources) == 0 {
		return nil, errors.New("no resource blocks")
	}

	resources := make([]domain.Resource, 0, len(doc.Resources))
	for _, b := range doc.Resources {
		r, err := b.resource()
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}

	zips := builtinZips
	if len(doc.Zips) > 0 {
		zips = make([]domain.ZipLocation, 0, len(doc.Zips))
		for _, z := range doc.Zips {
			zips = append(zips, domain.ZipLocation{
				Zip:   z.Code,
				City:  z.City,
				Point: domain.Coordinate{Lat: z.Lat, Lng: z.Lng},
			})
		}
	}

	return New(resources, zips)
}

func (b resourceBlock) resource() (domain.Resource, error) {
	cats, unknown := domain.ParseCategories(b.Categories)
	if len(unknown) > 0 {
		return domain.Resource{}, fmt.Errorf("resource %q: unknown categories %v", b.ID, unknown)
	}

	r := domain.Resource{
		ID:          b.ID,
		Name:        b.Name,
		Categories:  cats,
		Description: b.Description,
		Address:     b.Address,
		City:        b.City,
		State:       b.State,
		Zip:         b.Zip,
		Phone:       b.Phone,
		Website:     b.Website,
		Hours:       b.Hours,
		Cost:        b.Cost,
		Eligibility: b.Eligibility,
		Verified:    b.Verified,
	}

	switch {
	case b.Lat != nil && b.Lng != nil:
		r.Coordinates = &domain.Coordinate{Lat: *b.Lat, Lng: *b.Lng}
	case b.Lat != nil || b.Lng != nil:
		return domain.Resource{}, fmt.Errorf("resource %q: lat and lng must be set together", b.ID)
	}
	return r, nil
}
