package geometry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"

	xerrors "github.com/diwise/xplan-gml/pkg/xplan/errors"
)

const Namespace string = "http://www.opengis.net/gml/3.2"

// IsGeometryElement reports whether el is a GML geometry root element
func IsGeometryElement(el *etree.Element) bool {
	if el == nil || el.NamespaceURI() != Namespace {
		return false
	}
	switch el.Tag {
	case "Point", "LineString", "Curve", "Polygon", "Surface", "MultiPoint", "MultiCurve", "MultiSurface":
		return true
	}
	return false
}

// Decode converts a GML geometry element into its native representation. The
// CRS is taken from the element or, when absent, from the nearest ancestor
// declaring one. A missing CRS yields an error matching ErrMissingCRS, any other
// problem an error matching ErrMalformedGeometry.
func Decode(el *etree.Element) (Geometry, error) {
	srsName, found := lookupSrsName(el)
	if !found {
		return Geometry{}, xerrors.NewMissingCRSError(fmt.Sprintf("no srsName declared for %s or any of its ancestors", el.Tag))
	}

	crs, err := ParseCRS(srsName)
	if err != nil {
		return Geometry{}, xerrors.NewMalformedGeometryError(err.Error())
	}

	d := decoder{}
	g, err := d.geometry(el)
	if err != nil {
		return Geometry{}, xerrors.NewMalformedGeometryError(fmt.Sprintf("%s: %s", el.Tag, err.Error()))
	}

	return New(g, crs), nil
}

func lookupSrsName(el *etree.Element) (string, bool) {
	for e := el; e != nil; e = e.Parent() {
		if v := e.SelectAttrValue("srsName", ""); v != "" {
			return v, true
		}
	}
	return "", false
}

type decoder struct{}

func (d decoder) geometry(el *etree.Element) (orb.Geometry, error) {
	switch el.Tag {
	case "Point":
		return d.point(el)
	case "LineString":
		return d.lineString(el)
	case "Curve":
		return d.curve(el)
	case "Polygon":
		return d.polygon(el)
	case "Surface":
		polygons, err := d.surface(el)
		if err != nil {
			return nil, err
		}
		if len(polygons) == 1 {
			return polygons[0], nil
		}
		return polygons, nil
	case "MultiPoint":
		return d.multiPoint(el)
	case "MultiCurve":
		return d.multiCurve(el)
	case "MultiSurface":
		return d.multiSurface(el)
	default:
		return nil, fmt.Errorf("unsupported geometry element %s", el.Tag)
	}
}

func (d decoder) point(el *etree.Element) (orb.Point, error) {
	points, err := d.positions(el)
	if err != nil {
		return orb.Point{}, err
	}
	if len(points) != 1 {
		return orb.Point{}, fmt.Errorf("a point needs exactly one position, got %d", len(points))
	}
	return points[0], nil
}

func (d decoder) lineString(el *etree.Element) (orb.LineString, error) {
	points, err := d.positions(el)
	if err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("a line string needs at least two positions")
	}
	return orb.LineString(points), nil
}

func (d decoder) curve(el *etree.Element) (orb.LineString, error) {
	segments := child(el, "segments")
	if segments == nil {
		return nil, fmt.Errorf("curve without segments")
	}

	ls := orb.LineString{}
	for _, seg := range segments.ChildElements() {
		if seg.Tag != "LineStringSegment" {
			return nil, fmt.Errorf("unsupported curve segment %s", seg.Tag)
		}
		points, err := d.positions(seg)
		if err != nil {
			return nil, err
		}
		// consecutive segments share their end and start positions
		if len(ls) > 0 && len(points) > 0 && ls[len(ls)-1].Equal(points[0]) {
			points = points[1:]
		}
		ls = append(ls, points...)
	}

	if len(ls) < 2 {
		return nil, fmt.Errorf("a curve needs at least two positions")
	}
	return ls, nil
}

func (d decoder) polygon(el *etree.Element) (orb.Polygon, error) {
	exterior := child(el, "exterior")
	if exterior == nil {
		return nil, fmt.Errorf("polygon without exterior")
	}

	shell, err := d.ring(exterior)
	if err != nil {
		return nil, err
	}

	polygon := orb.Polygon{shell}
	for _, interior := range children(el, "interior") {
		hole, err := d.ring(interior)
		if err != nil {
			return nil, err
		}
		polygon = append(polygon, hole)
	}

	return polygon, nil
}

// ring decodes the LinearRing or Ring held by an exterior or interior element
func (d decoder) ring(boundary *etree.Element) (orb.Ring, error) {
	elements := boundary.ChildElements()
	if len(elements) != 1 {
		return nil, fmt.Errorf("%s must hold exactly one ring", boundary.Tag)
	}

	var points []orb.Point
	var err error

	switch r := elements[0]; r.Tag {
	case "LinearRing":
		points, err = d.positions(r)
	case "Ring":
		for _, member := range children(r, "curveMember") {
			curves := member.ChildElements()
			if len(curves) != 1 {
				return nil, fmt.Errorf("curveMember must hold exactly one curve")
			}
			ls, cerr := d.anyCurve(curves[0])
			if cerr != nil {
				return nil, cerr
			}
			if len(points) > 0 && len(ls) > 0 && points[len(points)-1].Equal(ls[0]) {
				ls = ls[1:]
			}
			points = append(points, ls...)
		}
	default:
		return nil, fmt.Errorf("unsupported ring %s", r.Tag)
	}

	if err != nil {
		return nil, err
	}

	if len(points) < 4 {
		return nil, fmt.Errorf("a ring needs at least four positions")
	}

	ring := orb.Ring(points)
	if !ring.Closed() {
		return nil, fmt.Errorf("ring is not closed")
	}

	return ring, nil
}

func (d decoder) anyCurve(el *etree.Element) (orb.LineString, error) {
	switch el.Tag {
	case "LineString":
		return d.lineString(el)
	case "Curve":
		return d.curve(el)
	default:
		return nil, fmt.Errorf("unsupported curve %s", el.Tag)
	}
}

func (d decoder) surface(el *etree.Element) (orb.MultiPolygon, error) {
	patches := child(el, "patches")
	if patches == nil {
		return nil, fmt.Errorf("surface without patches")
	}

	result := orb.MultiPolygon{}
	for _, patch := range patches.ChildElements() {
		if patch.Tag != "PolygonPatch" {
			return nil, fmt.Errorf("unsupported surface patch %s", patch.Tag)
		}
		p, err := d.polygon(patch)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("surface without polygon patches")
	}
	return result, nil
}

func (d decoder) multiPoint(el *etree.Element) (orb.MultiPoint, error) {
	result := orb.MultiPoint{}
	for _, member := range members(el, "pointMember", "pointMembers") {
		p, err := d.point(member)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("empty multi point")
	}
	return result, nil
}

func (d decoder) multiCurve(el *etree.Element) (orb.MultiLineString, error) {
	result := orb.MultiLineString{}
	for _, member := range members(el, "curveMember", "curveMembers") {
		ls, err := d.anyCurve(member)
		if err != nil {
			return nil, err
		}
		result = append(result, ls)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("empty multi curve")
	}
	return result, nil
}

func (d decoder) multiSurface(el *etree.Element) (orb.MultiPolygon, error) {
	result := orb.MultiPolygon{}
	for _, member := range members(el, "surfaceMember", "surfaceMembers") {
		switch member.Tag {
		case "Polygon":
			p, err := d.polygon(member)
			if err != nil {
				return nil, err
			}
			result = append(result, p)
		case "Surface":
			mp, err := d.surface(member)
			if err != nil {
				return nil, err
			}
			result = append(result, mp...)
		default:
			return nil, fmt.Errorf("unsupported surface %s", member.Tag)
		}
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("empty multi surface")
	}
	return result, nil
}

// positions collects the coordinates of el from gml:pos, gml:posList or
// gml:coordinates children. Coordinates beyond the second dimension are dropped.
func (d decoder) positions(el *etree.Element) ([]orb.Point, error) {
	points := []orb.Point{}

	for _, c := range el.ChildElements() {
		switch c.Tag {
		case "pos":
			values, err := parseFloats(strings.Fields(c.Text()))
			if err != nil {
				return nil, err
			}
			if len(values) < 2 {
				return nil, fmt.Errorf("pos with less than two coordinates")
			}
			points = append(points, orb.Point{values[0], values[1]})
		case "posList":
			dim := dimension(c)
			values, err := parseFloats(strings.Fields(c.Text()))
			if err != nil {
				return nil, err
			}
			if len(values)%dim != 0 {
				return nil, fmt.Errorf("posList length %d is not a multiple of dimension %d", len(values), dim)
			}
			for i := 0; i < len(values); i += dim {
				points = append(points, orb.Point{values[i], values[i+1]})
			}
		case "coordinates":
			for _, tuple := range strings.Fields(c.Text()) {
				values, err := parseFloats(strings.Split(tuple, ","))
				if err != nil {
					return nil, err
				}
				if len(values) < 2 {
					return nil, fmt.Errorf("coordinate tuple with less than two values")
				}
				points = append(points, orb.Point{values[0], values[1]})
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%s has no positions", el.Tag)
	}

	return points, nil
}

func dimension(el *etree.Element) int {
	for e := el; e != nil; e = e.Parent() {
		if v := e.SelectAttrValue("srsDimension", ""); v != "" {
			if dim, err := strconv.Atoi(v); err == nil && dim >= 2 {
				return dim
			}
			return 2
		}
	}
	return 2
}

func parseFloats(fields []string) ([]float64, error) {
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", f)
		}
		values = append(values, v)
	}
	return values, nil
}

func child(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func children(el *etree.Element, tag string) []*etree.Element {
	result := []*etree.Element{}
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			result = append(result, c)
		}
	}
	return result
}

// members returns the geometries held by the singular and plural member
// properties of a multi geometry
func members(el *etree.Element, single, plural string) []*etree.Element {
	result := []*etree.Element{}
	for _, c := range el.ChildElements() {
		switch c.Tag {
		case single, plural:
			result = append(result, c.ChildElements()...)
		}
	}
	return result
}
