package domain

// Coordinate is a WGS-84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Resource is a single community health service listing.
type Resource struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Categories  []Category  `json:"categories"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	Zip         string      `json:"zip"`
	Phone       string      `json:"phone,omitempty"`
	Website     string      `json:"website,omitempty"`
	Hours       string      `json:"hours"`
	Cost        string      `json:"cost"`
	Eligibility string      `json:"eligibility"`
	Coordinates *Coordinate `json:"coordinates,omitempty"`
	Verified    *bool       `json:"verified,omitempty"`
}

// ZipLocation is the center used for a known zip code.
type ZipLocation struct {
	Zip   string
	City  string
	Point Coordinate
}
