package postgres

import "github.com/couchcryptid/community-health-finder/internal/domain"

// resourceRow mirrors the column order of selectResources.
type resourceRow struct {
	ID          string
	Name        string
	Categories  []string
	Description string
	Address     string
	City        string
	State       string
	Zip         string
	Phone       string
	Website     string
	Hours       string
	Cost        string
	Eligibility string
	Lat         *float64
	Lng         *float64
	Verified    *bool
}

// toResource converts a row, dropping categories outside the known set and
// coordinates that are half-set or out of range. It returns the dropped
// category strings.
func (r resourceRow) toResource() (domain.Resource, []string) {
	cats, unknown := domain.ParseCategories(r.Categories)

	res := domain.Resource{
		ID:          r.ID,
		Name:        r.Name,
		Categories:  cats,
		Description: r.Description,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		Zip:         r.Zip,
		Phone:       r.Phone,
		Website:     r.Website,
		Hours:       r.Hours,
		Cost:        r.Cost,
		Eligibility: r.Eligibility,
		Verified:    r.Verified,
	}
	if r.Lat != nil && r.Lng != nil {
		c := domain.Coordinate{Lat: *r.Lat, Lng: *r.Lng}
		if c.Valid() {
			res.Coordinates = &c
		}
	}
	return res, unknown
}

func fromResource(r domain.Resource) resourceRow {
	cats := make([]string, len(r.Categories))
	for i, c := range r.Categories {
		cats[i] = string(c)
	}

	row := resourceRow{
		ID:          r.ID,
		Name:        r.Name,
		Categories:  cats,
		Description: r.Description,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		Zip:         r.Zip,
		Phone:       r.Phone,
		Website:     r.Website,
		Hours:       r.Hours,
		Cost:        r.Cost,
		Eligibility: r.Eligibility,
		Verified:    r.Verified,
	}
	if r.Coordinates != nil {
		lat, lng := r.Coordinates.Lat, r.Coordinates.Lng
		row.Lat, row.Lng = &lat, &lng
	}
	return row
}
