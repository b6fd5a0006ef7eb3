package coerce

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	"github.com/diwise/xplan-gml/pkg/xplan/enums"
	xerrors "github.com/diwise/xplan-gml/pkg/xplan/errors"
	"github.com/diwise/xplan-gml/pkg/xplan/geometry"
	"github.com/diwise/xplan-gml/pkg/xplan/types"
	"github.com/diwise/xplan-gml/pkg/xplan/types/properties"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

// Coercer converts single wire elements to property values and back according
// to the declared kind of a member
type Coercer struct {
	catalog *catalog.Registry
}

func New(c *catalog.Registry) *Coercer {
	return &Coercer{catalog: c}
}

// Decode converts el into a value for member m of an object of type typeName.
// List kinds append to current, which may be nil. Errors match ErrCoercion,
// ErrMalformedGeometry or, for geometries without any srsName, ErrMissingCRS.
func (c *Coercer) Decode(typeName string, m catalog.Member, el *etree.Element, current types.Property) (types.Property, error) {
	// free text passes through unchanged, all other kinds ignore surrounding whitespace
	raw := el.Text()
	text := strings.TrimSpace(raw)

	switch m.Kind {
	case catalog.KindText:
		return properties.NewTextProperty(raw), nil

	case catalog.KindTextList:
		values := []string{}
		if tlp, ok := current.(*properties.TextListProperty); ok {
			values = append(values, tlp.Val...)
		}
		return properties.NewTextListProperty(append(values, raw)), nil

	case catalog.KindInteger:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, xerrors.NewCoercionError(fmt.Sprintf("%q is not an integer", text))
		}
		return properties.NewIntegerProperty(i), nil

	case catalog.KindNumber:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, xerrors.NewCoercionError(fmt.Sprintf("%q is not a number", text))
		}
		return properties.NewNumberProperty(f, properties.UnitCode(el.SelectAttrValue("uom", m.UoM))), nil

	case catalog.KindBool:
		b, err := parseBool(text)
		if err != nil {
			return nil, err
		}
		return properties.NewBoolProperty(b), nil

	case catalog.KindDate:
		d, err := parseDate(text)
		if err != nil {
			return nil, err
		}
		return properties.NewDateProperty(d), nil

	case catalog.KindDateList:
		d, err := parseDate(text)
		if err != nil {
			return nil, err
		}
		dates := []time.Time{}
		if dlp, ok := current.(*properties.DateListProperty); ok {
			dates = append(dates, dlp.Val...)
		}
		return properties.NewDateListProperty(append(dates, d)...), nil

	case catalog.KindEnum:
		return properties.NewEnumProperty(m.Enum, c.decodeEnum(m.Enum, text)), nil

	case catalog.KindEnumList:
		codes := []string{}
		if elp, ok := current.(*properties.EnumListProperty); ok {
			codes = append(codes, elp.Codes...)
		}
		return properties.NewEnumListProperty(m.Enum, append(codes, c.decodeEnum(m.Enum, text))...), nil

	case catalog.KindGeometry:
		return c.decodeGeometry(typeName, el)

	default:
		return nil, xerrors.NewCoercionError(fmt.Sprintf("members of kind %s have no scalar wire representation", m.Kind))
	}
}

// decodeEnum tries the numeric code first and the symbolic name second. Text
// matching neither is kept verbatim.
func (c *Coercer) decodeEnum(enumName, text string) string {
	e, ok := c.catalog.Enums().Get(enumName)
	if !ok {
		return text
	}
	if v, ok := e.Lookup(text); ok {
		return v.Code
	}
	return text
}

func (c *Coercer) decodeGeometry(typeName string, el *etree.Element) (types.Property, error) {
	var geomEl *etree.Element
	for _, child := range el.ChildElements() {
		if geometry.IsGeometryElement(child) {
			geomEl = child
			break
		}
	}

	if geomEl == nil {
		return nil, xerrors.NewMalformedGeometryError(fmt.Sprintf("%s holds no supported geometry", el.Tag))
	}

	g, err := geometry.Decode(geomEl)
	if err != nil {
		return nil, err
	}

	expected := c.catalog.GeometryKind(typeName)
	if !geometry.Accepts(expected, g.Kind()) {
		return nil, xerrors.NewMalformedGeometryError(fmt.Sprintf("%s expects %s geometry, got %s", typeName, expected, g.Kind()))
	}

	return geometry.NewProperty(g), nil
}

func parseBool(text string) (bool, error) {
	switch strings.ToLower(text) {
	case "", "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, xerrors.NewCoercionError(fmt.Sprintf("%q is not a boolean", text))
	}
}

func parseDate(text string) (time.Time, error) {
	// date times are accepted and reduced to their date
	if len(text) > len(properties.DateFormat) && text[len(properties.DateFormat)] == 'T' {
		text = text[:len(properties.DateFormat)]
	}
	d, err := properties.ParseDate(text)
	if err != nil {
		return time.Time{}, xerrors.NewCoercionError(fmt.Sprintf("%q is not a date", text))
	}
	return d, nil
}

// Value is the wire form of a single scalar or geometry element
type Value struct {
	Text     string
	UoM      string
	Geometry *etree.Element
}

// Encode converts p into the wire values of member m for revision rev. List
// kinds produce one value per entry. Enumeration codes that are not valid in
// rev and have no migration are dropped, so an empty result is not an error.
func (c *Coercer) Encode(m catalog.Member, p types.Property, rev version.Revision, newID geometry.IDFunc) ([]Value, error) {
	mismatch := func() error {
		return xerrors.NewInvalidGraphError(fmt.Sprintf("member %s of kind %s cannot hold a %s value", m.Name, m.Kind, p.Type()))
	}

	switch m.Kind {
	case catalog.KindText:
		tp, ok := p.(*properties.TextProperty)
		if !ok {
			return nil, mismatch()
		}
		return []Value{{Text: tp.Val}}, nil

	case catalog.KindTextList:
		tlp, ok := p.(*properties.TextListProperty)
		if !ok {
			return nil, mismatch()
		}
		values := make([]Value, 0, len(tlp.Val))
		for _, s := range tlp.Val {
			values = append(values, Value{Text: s})
		}
		return values, nil

	case catalog.KindInteger:
		ip, ok := p.(*properties.IntegerProperty)
		if !ok {
			return nil, mismatch()
		}
		return []Value{{Text: strconv.FormatInt(ip.Val, 10)}}, nil

	case catalog.KindNumber:
		np, ok := p.(*properties.NumberProperty)
		if !ok {
			return nil, mismatch()
		}
		uom := np.Unit()
		if uom == "" {
			uom = m.UoM
		}
		return []Value{{Text: strconv.FormatFloat(np.Val, 'f', -1, 64), UoM: uom}}, nil

	case catalog.KindBool:
		bp, ok := p.(*properties.BoolProperty)
		if !ok {
			return nil, mismatch()
		}
		return []Value{{Text: strconv.FormatBool(bp.Val)}}, nil

	case catalog.KindDate:
		dp, ok := p.(*properties.DateProperty)
		if !ok {
			return nil, mismatch()
		}
		return []Value{{Text: dp.String()}}, nil

	case catalog.KindDateList:
		dlp, ok := p.(*properties.DateListProperty)
		if !ok {
			return nil, mismatch()
		}
		values := []Value{}
		for _, s := range dlp.Strings() {
			values = append(values, Value{Text: s})
		}
		return values, nil

	case catalog.KindEnum:
		ep, ok := p.(*properties.EnumProperty)
		if !ok {
			return nil, mismatch()
		}
		values := []Value{}
		if code, ok := c.encodeEnum(ep.Enum, ep.Code, m.Enum, rev); ok {
			values = append(values, Value{Text: code})
		}
		return values, nil

	case catalog.KindEnumList:
		elp, ok := p.(*properties.EnumListProperty)
		if !ok {
			return nil, mismatch()
		}
		values := []Value{}
		for _, code := range elp.Codes {
			if encoded, ok := c.encodeEnum(elp.Enum, code, m.Enum, rev); ok {
				values = append(values, Value{Text: encoded})
			}
		}
		return values, nil

	case catalog.KindGeometry:
		gp, ok := p.(*geometry.Property)
		if !ok {
			return nil, mismatch()
		}
		el, err := geometry.Encode(gp.Val, newID)
		if err != nil {
			return nil, xerrors.NewInvalidGraphError(fmt.Sprintf("member %s: %s", m.Name, err.Error()))
		}
		return []Value{{Geometry: el}}, nil

	default:
		return nil, mismatch()
	}
}

// encodeEnum returns the canonical code of a stored value for the target
// enumeration and revision. Values never resolved on read are written verbatim.
func (c *Coercer) encodeEnum(fromEnum, code, toEnum string, rev version.Revision) (string, bool) {
	registry := c.catalog.Enums()

	if source, ok := registry.Get(fromEnum); ok {
		if _, known := source.ByCode(code); !known {
			return code, true
		}
	} else if fromEnum == "" || fromEnum == toEnum {
		if target, ok := registry.Get(toEnum); ok {
			if _, known := target.ByCode(code); !known {
				return code, true
			}
		}
	}

	v, ok := registry.Migrate(fromEnum, code, toEnum, rev)
	if !ok {
		return "", false
	}
	return v.Code, true
}

// Enums exposes the registry used for canonicalization
func (c *Coercer) Enums() *enums.Registry {
	return c.catalog.Enums()
}
