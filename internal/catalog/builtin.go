package catalog

import "github.com/couchcryptid/community-health-finder/internal/domain"

func coord(lat, lng float64) *domain.Coordinate {
	return &domain.Coordinate{Lat: lat, Lng: lng}
}

var builtinZips = []domain.ZipLocation{
	{Zip: "94103", City: "San Francisco, CA", Point: domain.Coordinate{Lat: 37.7749, Lng: -122.4194}},
	{Zip: "10001", City: "New York, NY", Point: domain.Coordinate{Lat: 40.7128, Lng: -74.006}},
	{Zip: "60601", City: "Chicago, IL", Point: domain.Coordinate{Lat: 41.8781, Lng: -87.6298}},
	{Zip: "30301", City: "Atlanta, GA", Point: domain.Coordinate{Lat: 33.749, Lng: -84.388}},
	{Zip: "78701", City: "Austin, TX", Point: domain.Coordinate{Lat: 30.2672, Lng: -97.7431}},
}

var builtinResources = []domain.Resource{
	{
		ID:          "sf-free-clinic",
		Name:        "San Francisco Free Clinic",
		Categories:  []domain.Category{domain.WomensHealth, domain.Dental},
		Description: "Free and low-cost primary care, women’s health screenings, and dental referrals.",
		Address:     "4900 California St",
		City:        "San Francisco",
		State:       "CA",
		Zip:         "94118",
		Phone:       "(415) 750-9894",
		Website:     "https://www.sffreeclinic.org",
		Hours:       "Mon–Fri 8a–5p",
		Cost:        "Free or sliding scale",
		Eligibility: "Uninsured or underinsured",
		Coordinates: coord(37.7846, -122.4605),
	},
	{
		ID:          "sf-night-shelter",
		Name:        "Hope Shelter",
		Categories:  []domain.Category{domain.Shelter, domain.Food},
		Description: "Overnight beds, warm meals, and case management support.",
		Address:     "101 Mission St",
		City:        "San Francisco",
		State:       "CA",
		Zip:         "94103",
		Phone:       "(415) 555-2901",
		Website:     "https://www.hopeshelter.org",
		Hours:       "Check-in 4p–7p daily",
		Cost:        "Free",
		Eligibility: "Adults; ID requested but not required",
		Coordinates: coord(37.7916, -122.3966),
	},
	{
		ID:          "sf-mental-health",
		Name:        "Community Mental Health Hub",
		Categories:  []domain.Category{domain.MentalHealth},
		Description: "Walk-in counseling, crisis support, and weekly group sessions.",
		Address:     "1250 Market St",
		City:        "San Francisco",
		State:       "CA",
		Zip:         "94103",
		Phone:       "(415) 555-8830",
		Website:     "https://www.cmhhub.org",
		Hours:       "Mon–Sat 10a–8p",
		Cost:        "Free for SF residents",
		Eligibility: "Open to all; priority for SF residents",
		Coordinates: coord(37.7763, -122.4167),
	},
	{
		ID:          "nyc-urgent-care",
		Name:        "CityCare Urgent",
		Categories:  []domain.Category{domain.EmergencyCare, domain.Pharmacy},
		Description: "24/7 urgent care with on-site low-cost pharmacy.",
		Address:     "455 8th Ave",
		City:        "New York",
		State:       "NY",
		Zip:         "10001",
		Phone:       "(212) 555-2200",
		Website:     "https://www.citycareurgent.org",
		Hours:       "24/7",
		Cost:        "Sliding scale",
		Eligibility: "Open to all",
		Coordinates: coord(40.7536, -73.9946),
	},
	{
		ID:          "nyc-womens-health",
		Name:        "Harlem Women’s Health Collective",
		Categories:  []domain.Category{domain.WomensHealth, domain.MentalHealth},
		Description: "Prenatal care, reproductive health, counseling, and support groups.",
		Address:     "250 W 135th St",
		City:        "New York",
		State:       "NY",
		Zip:         "10030",
		Phone:       "(212) 555-3300",
		Website:     "https://www.hwhc.org",
		Hours:       "Mon–Fri 9a–6p",
		Cost:        "Free or low-cost",
		Eligibility: "Women and gender-expansive patients",
		Coordinates: coord(40.8171, -73.946),
	},
	{
		ID:          "chi-dental",
		Name:        "Bright Smiles Clinic",
		Categories:  []domain.Category{domain.Dental},
		Description: "Teeth cleanings, fillings, and preventive care for adults and kids.",
		Address:     "200 W Madison St",
		City:        "Chicago",
		State:       "IL",
		Zip:         "60601",
		Phone:       "(312) 555-1200",
		Website:     "https://www.brightsmiles.org",
		Hours:       "Tue–Sat 9a–5p",
		Cost:        "Sliding scale",
		Eligibility: "Open to all; income-based discount",
		Coordinates: coord(41.8821, -87.6347),
	},
	{
		ID:          "atlanta-food",
		Name:        "Peachtree Food Bank",
		Categories:  []domain.Category{domain.Food},
		Description: "Weekly grocery pickup and hot meals twice daily.",
		Address:     "50 Peachtree St",
		City:        "Atlanta",
		State:       "GA",
		Zip:         "30301",
		Phone:       "(404) 555-9000",
		Website:     "https://www.peachtreefoodbank.org",
		Hours:       "Mon–Sat 8a–7p",
		Cost:        "Free",
		Eligibility: "Proof of address requested",
		Coordinates: coord(33.755, -84.3907),
	},
	{
		ID:          "austin-mental-health",
		Name:        "Austin Mindful Care",
		Categories:  []domain.Category{domain.MentalHealth},
		Description: "Crisis counseling, telehealth sessions, and peer groups.",
		Address:     "300 Congress Ave",
		City:        "Austin",
		State:       "TX",
		Zip:         "78701",
		Phone:       "(512) 555-7770",
		Website:     "https://www.mindfulcareatx.org",
		Hours:       "Mon–Sun 7a–10p",
		Cost:        "Low-cost",
		Eligibility: "Open to all; telehealth across TX",
		Coordinates: coord(30.2654, -97.743),
	},
}
