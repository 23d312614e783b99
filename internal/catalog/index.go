package catalog

import (
	"math"

	"github.com/couchcryptid/community-health-finder/internal/domain"
	"github.com/dhconnelly/rtreego"
)

const (
	// pointSize is the edge length of the degenerate rectangle stored per point.
	pointSize = 1e-9

	// boxMargin widens search boxes to absorb floating point error.
	boxMargin = 1e-6
)

// indexedPoint is a resource position in an R-tree, keyed by catalog index.
type indexedPoint struct {
	pos  int
	rect rtreego.Rect
}

func (p *indexedPoint) Bounds() rtreego.Rect {
	return p.rect
}

// index is a 2D R-tree over resource coordinates, stored as (lng, lat).
type index struct {
	tree *rtreego.Rtree
}

func newIndex(resources []domain.Resource) *index {
	tree := rtreego.NewTree(2, 25, 50)
	for i, r := range resources {
		if r.Coordinates == nil {
			continue
		}
		rect, err := rtreego.NewRect(rtreego.Point{r.Coordinates.Lng, r.Coordinates.Lat}, []float64{pointSize, pointSize})
		if err != nil {
			continue
		}
		tree.Insert(&indexedPoint{pos: i, rect: rect})
	}
	return &index{tree: tree}
}

// within returns the catalog positions inside the bounding box of a circle of
// radiusMiles around center. ok is false when the box cannot be expressed as
// a single rectangle (it touches a pole or crosses the antimeridian), in which
// case the caller must not prefilter.
func (ix *index) within(center domain.Coordinate, radiusMiles float64) (map[int]struct{}, bool) {
	b, ok := boundingBox(center, radiusMiles)
	if !ok {
		return nil, false
	}

	rect, err := rtreego.NewRect(
		rtreego.Point{b.minLng, b.minLat},
		[]float64{b.maxLng - b.minLng, b.maxLat - b.minLat},
	)
	if err != nil {
		return nil, false
	}

	hits := ix.tree.SearchIntersect(rect)
	out := make(map[int]struct{}, len(hits))
	for _, h := range hits {
		out[h.(*indexedPoint).pos] = struct{}{}
	}
	return out, true
}

type box struct {
	minLat, maxLat float64
	minLng, maxLng float64
}

// boundingBox returns the smallest lat/lng rectangle containing every point
// within radiusMiles of center on the sphere. The longitude half-width is
// asin(sin(d)/cos(lat)), which accounts for great circles bowing poleward.
func boundingBox(center domain.Coordinate, radiusMiles float64) (box, bool) {
	if radiusMiles <= 0 || !center.Valid() {
		return box{}, false
	}

	ang := radiusMiles / domain.EarthRadiusMiles
	lat := center.Lat * math.Pi / 180
	lng := center.Lng * math.Pi / 180

	minLat, maxLat := lat-ang, lat+ang
	if minLat <= -math.Pi/2 || maxLat >= math.Pi/2 {
		return box{}, false
	}

	dLng := math.Asin(math.Sin(ang) / math.Cos(lat))
	minLng, maxLng := lng-dLng, lng+dLng
	if minLng < -math.Pi || maxLng > math.Pi {
		return box{}, false
	}

	toDeg := 180 / math.Pi
	return box{
		minLat: minLat*toDeg - boxMargin,
		maxLat: maxLat*toDeg + boxMargin,
		minLng: minLng*toDeg - boxMargin,
		maxLng: maxLng*toDeg + boxMargin,
	}, true
}
