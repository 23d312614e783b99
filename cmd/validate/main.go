// Command validate checks a resource catalog before it is deployed: the HCL
// file must parse, every resource must carry the fields the directory shows,
// every zip center must have something nearby, and the ranking must hold for
// every zip and category combination.
//
// Usage:
//
//	go run ./cmd/validate -catalog deploy/catalog.hcl
//	go run ./cmd/validate            # checks the built-in catalog
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/couchcryptid/community-health-finder/internal/catalog"
	"github.com/couchcryptid/community-health-finder/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("catalog", "", "path to an HCL catalog file (default: built-in catalog)")
	flag.Parse()

	if code := run(*path); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	fmt.Println("=== Resource Catalog Validation ===")
	fmt.Println()

	cat := catalog.Builtin()
	name := "built-in"
	if path != "" {
		var err error
		cat, err = catalog.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
		name = path
	}

	phases := validateCatalog(cat)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Catalog %s: %d resources, %d zips\n", name, cat.Len(), len(cat.Zips()))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateCatalog(cat *catalog.Catalog) []*phase {
	return []*phase{
		validateFields(cat.Resources()),
		validateZipCoverage(cat),
		validateRanking(cat),
	}
}

// ── Phase 1: listing fields ──

func validateFields(resources []domain.Resource) *phase {
	p := &phase{name: "Phase 1: Listing fields"}
	for _, r := range resources {
		required := map[string]string{
			"name":        r.Name,
			"description": r.Description,
			"address":     r.Address,
			"city":        r.City,
			"state":       r.State,
			"zip":         r.Zip,
			"hours":       r.Hours,
			"cost":        r.Cost,
			"eligibility": r.Eligibility,
		}
		for field, v := range required {
			if strings.TrimSpace(v) == "" {
				p.errorf("%s: missing %s", r.ID, field)
			}
		}
		if r.Phone == "" && r.Website == "" {
			p.errorf("%s: no phone or website", r.ID)
		}
		if r.Website != "" {
			if u, err := url.Parse(r.Website); err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
				p.errorf("%s: website %q is not an absolute http(s) URL", r.ID, r.Website)
			}
		}
		if len(r.State) != 2 {
			p.errorf("%s: state %q is not a two-letter code", r.ID, r.State)
		}
	}
	return p
}

// ── Phase 2: zip coverage ──

func validateZipCoverage(cat *catalog.Catalog) *phase {
	p := &phase{name: "Phase 2: Zip coverage"}
	all := cat.Resources()
	for _, z := range cat.Zips() {
		center := z.Point
		if n := len(domain.Query(&center, domain.Selection{}, all)); n == 0 {
			p.errorf("zip %s (%s): no resource within %.0f miles", z.Zip, z.City, domain.RadiusMiles)
		}
	}
	return p
}

// ── Phase 3: ranking ──

func validateRanking(cat *catalog.Catalog) *phase {
	p := &phase{name: "Phase 3: Ranking per zip and category"}
	all := cat.Resources()

	selections := []domain.Selection{{}}
	for _, c := range domain.Categories() {
		selections = append(selections, domain.SelectCategories(c))
	}

	for _, z := range cat.Zips() {
		center := z.Point
		for _, sel := range selections {
			label := fmt.Sprintf("zip %s %v", z.Zip, sel.Categories())

			candidates := cat.Candidates(domain.Filter{
				Categories:  sel.Categories(),
				Center:      &center,
				RadiusMiles: domain.RadiusMiles,
			})
			fromIndex := domain.Query(&center, sel, candidates)
			fromScan := domain.Query(&center, sel, all)

			if len(fromIndex) != len(fromScan) {
				p.errorf("%s: index prefilter kept %d results, full scan %d", label, len(fromIndex), len(fromScan))
				continue
			}
			for i := range fromScan {
				if fromIndex[i].ID != fromScan[i].ID {
					p.errorf("%s: result %d is %s via index, %s via scan", label, i, fromIndex[i].ID, fromScan[i].ID)
				}
				d := fromScan[i].Distance
				if d != nil && *d > domain.RadiusMiles {
					p.errorf("%s: %s at %.1f miles exceeds radius", label, fromScan[i].ID, *d)
				}
				if i > 0 && d != nil && fromScan[i-1].Distance != nil && *fromScan[i-1].Distance > *d {
					p.errorf("%s: %s ranked after a farther resource", label, fromScan[i].ID)
				}
			}
		}
	}
	return p
}
