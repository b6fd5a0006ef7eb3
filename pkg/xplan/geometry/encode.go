package geometry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
)

// IDFunc returns a new document local identifier for a geometry element
type IDFunc func() string

// Encode converts a geometry into GML elements using the gml prefix. Every
// geometry element gets an identifier from newID and the outermost one carries
// the srsName.
func Encode(g Geometry, newID IDFunc) (*etree.Element, error) {
	if g.CRS.IsZero() {
		return nil, fmt.Errorf("geometry without crs cannot be encoded")
	}

	e := encoder{newID: newID}
	el, err := e.geometry(g.Geom)
	if err != nil {
		return nil, err
	}

	el.CreateAttr("srsName", g.CRS.String())
	return el, nil
}

// EncodeEnvelope builds a gml:Envelope element for a bounding box
func EncodeEnvelope(b orb.Bound, crs CRS) *etree.Element {
	env := etree.NewElement("gml:Envelope")
	env.CreateAttr("srsName", crs.String())
	env.CreateElement("gml:lowerCorner").SetText(formatPoints(b.Min))
	env.CreateElement("gml:upperCorner").SetText(formatPoints(b.Max))
	return env
}

type encoder struct {
	newID IDFunc
}

func (e encoder) element(tag string) *etree.Element {
	el := etree.NewElement("gml:" + tag)
	if e.newID != nil {
		el.CreateAttr("gml:id", e.newID())
	}
	return el
}

func (e encoder) geometry(g orb.Geometry) (*etree.Element, error) {
	switch geom := g.(type) {
	case orb.Point:
		el := e.element("Point")
		el.CreateElement("gml:pos").SetText(formatPoints(geom))
		return el, nil
	case orb.LineString:
		el := e.element("LineString")
		el.CreateElement("gml:posList").SetText(formatPoints(geom...))
		return el, nil
	case orb.Ring:
		return e.polygon(orb.Polygon{geom}), nil
	case orb.Polygon:
		return e.polygon(geom), nil
	case orb.MultiPoint:
		el := e.element("MultiPoint")
		for _, p := range geom {
			member, err := e.geometry(p)
			if err != nil {
				return nil, err
			}
			el.CreateElement("gml:pointMember").AddChild(member)
		}
		return el, nil
	case orb.MultiLineString:
		el := e.element("MultiCurve")
		for _, ls := range geom {
			member, err := e.geometry(ls)
			if err != nil {
				return nil, err
			}
			el.CreateElement("gml:curveMember").AddChild(member)
		}
		return el, nil
	case orb.MultiPolygon:
		el := e.element("MultiSurface")
		for _, p := range geom {
			el.CreateElement("gml:surfaceMember").AddChild(e.polygon(p))
		}
		return el, nil
	default:
		return nil, fmt.Errorf("geometry of type %T cannot be encoded", g)
	}
}

func (e encoder) polygon(p orb.Polygon) *etree.Element {
	el := e.element("Polygon")
	for i, ring := range p {
		boundary := "gml:interior"
		if i == 0 {
			boundary = "gml:exterior"
		}
		el.CreateElement(boundary).
			CreateElement("gml:LinearRing").
			CreateElement("gml:posList").SetText(formatPoints(ring...))
	}
	return el
}

func formatPoints(points ...orb.Point) string {
	values := make([]string, 0, len(points)*2)
	for _, p := range points {
		values = append(values,
			strconv.FormatFloat(p[0], 'f', -1, 64),
			strconv.FormatFloat(p[1], 'f', -1, 64),
		)
	}
	return strings.Join(values, " ")
}
