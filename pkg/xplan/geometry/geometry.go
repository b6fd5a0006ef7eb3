package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/encoding/wkt"

	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
)

// Geometry is the native representation of a decoded geometry. It always
// carries the CRS it was declared in.
type Geometry struct {
	Geom orb.Geometry
	CRS  CRS
}

func New(g orb.Geometry, crs CRS) Geometry {
	return Geometry{Geom: g, CRS: crs}
}

func FromWKB(b []byte, crs CRS) (Geometry, error) {
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to decode wkb: %w", err)
	}
	return New(g, crs), nil
}

func FromWKT(s string, crs CRS) (Geometry, error) {
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to decode wkt: %w", err)
	}
	return New(g, crs), nil
}

func (g Geometry) WKB() ([]byte, error) {
	return wkb.Marshal(g.Geom)
}

func (g Geometry) WKT() string {
	return wkt.MarshalString(g.Geom)
}

func (g Geometry) Kind() catalog.GeometryKind {
	return KindOf(g.Geom)
}

func (g Geometry) Envelope() orb.Bound {
	return g.Geom.Bound()
}

// Equal compares both the coordinates and the CRS
func (g Geometry) Equal(other Geometry) bool {
	return g.CRS == other.CRS && orb.Equal(g.Geom, other.Geom)
}

// KindOf maps a native geometry to the geometry kind used by the type catalog
func KindOf(g orb.Geometry) catalog.GeometryKind {
	switch g.(type) {
	case orb.Point, orb.MultiPoint:
		return catalog.GeometryPoint
	case orb.LineString, orb.MultiLineString:
		return catalog.GeometryLine
	case orb.Polygon, orb.MultiPolygon, orb.Ring:
		return catalog.GeometryPolygon
	default:
		return catalog.GeometryNone
	}
}

// Accepts reports whether a geometry of kind actual may be stored in a member
// of a type declaring kind expected
func Accepts(expected, actual catalog.GeometryKind) bool {
	if actual == catalog.GeometryNone {
		return false
	}
	return expected == catalog.GeometryMixed || expected == actual
}

// Envelope returns the bounding box of all geometries, which must share the same CRS
func Envelope(geometries ...Geometry) (orb.Bound, CRS, error) {
	var bound orb.Bound
	var crs CRS

	for i, g := range geometries {
		if i == 0 {
			bound = g.Envelope()
			crs = g.CRS
			continue
		}
		if g.CRS != crs {
			return orb.Bound{}, CRS{}, fmt.Errorf("cannot compute envelope over %s and %s", crs, g.CRS)
		}
		bound = bound.Union(g.Envelope())
	}

	if len(geometries) == 0 {
		return bound, crs, fmt.Errorf("cannot compute envelope of nothing")
	}

	return bound, crs, nil
}
