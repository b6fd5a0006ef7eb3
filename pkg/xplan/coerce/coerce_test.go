package coerce

import (
	"errors"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/matryer/is"
	"github.com/paulmach/orb"

	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	xerrors "github.com/diwise/xplan-gml/pkg/xplan/errors"
	"github.com/diwise/xplan-gml/pkg/xplan/geometry"
	"github.com/diwise/xplan-gml/pkg/xplan/policy"
	"github.com/diwise/xplan-gml/pkg/xplan/types"
	"github.com/diwise/xplan-gml/pkg/xplan/types/properties"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

func TestEnumDecodingPrefersCodeThenName(t *testing.T) {
	is := is.New(t)
	c, p := testSetup()

	m := member(t, p, "BP_BaugebietsTeilFlaeche", "bauweise", version.V5_3)

	v, err := c.Decode("BP_BaugebietsTeilFlaeche", m, el(t, "<bauweise>2000</bauweise>"), nil)
	is.NoErr(err)
	is.Equal(v.Value(), "2000")

	v, err = c.Decode("BP_BaugebietsTeilFlaeche", m, el(t, "<bauweise>GeschlosseneBauweise</bauweise>"), nil)
	is.NoErr(err)
	is.Equal(v.Value(), "2000")

	v, err = c.Decode("BP_BaugebietsTeilFlaeche", m, el(t, "<bauweise>Irgendwie</bauweise>"), nil)
	is.NoErr(err)
	is.Equal(v.Value(), "Irgendwie")

	values, err := c.Encode(m, v, version.V5_3, nil)
	is.NoErr(err)
	is.Equal(values[0].Text, "Irgendwie")
}

func TestEnumCoercionIsIdempotent(t *testing.T) {
	is := is.New(t)
	c, p := testSetup()

	m := member(t, p, "BP_BaugebietsTeilFlaeche", "bauweise", version.V6_0)

	text := "OffeneBauweise"
	for range 3 {
		v, err := c.Decode("BP_BaugebietsTeilFlaeche", m, el(t, "<bauweise>"+text+"</bauweise>"), nil)
		is.NoErr(err)
		values, err := c.Encode(m, v, version.V6_0, nil)
		is.NoErr(err)
		text = values[0].Text
		is.Equal(text, "1000")
	}
}

func TestTextIsPassedThroughUnchanged(t *testing.T) {
	is := is.New(t)
	c, p := testSetup()

	m := member(t, p, "BP_Plan", "beschreibung", version.V6_0)

	v, err := c.Decode("BP_Plan", m, el(t, "<beschreibung>  Zeile 1\nZeile 2\n</beschreibung>"), nil)
	is.NoErr(err)
	is.Equal(v.Value(), "  Zeile 1\nZeile 2\n")

	m = member(t, p, "BP_BaugebietsTeilFlaeche", "bauweise", version.V6_0)

	v, err = c.Decode("BP_BaugebietsTeilFlaeche", m, el(t, "<bauweise> 2000\n</bauweise>"), nil)
	is.NoErr(err)
	is.Equal(v.Value(), "2000")
}

func TestEnumListAccumulatesInDocumentOrder(t *testing.T) {
	is := is.New(t)
	c, p := testSetup()

	m := member(t, p, "BP_Plan", "planArt", version.V5_3)

	var current types.Property
	var err error
	for _, code := range []string{"3000", "1000", "EinfacherBPlan"} {
		current, err = c.Decode("BP_Plan", m, el(t, "<planArt>"+code+"</planArt>"), current)
		is.NoErr(err)
	}

	is.Equal(current.Value(), []string{"3000", "1000", "10000"})

	values, err := c.Encode(m, current, version.V5_3, nil)
	is.NoErr(err)
	is.Equal(len(values), 3)
	is.Equal(values[2].Text, "10000")
}

func TestDateListPreservesOrder(t *testing.T) {
	is := is.New(t)
	c, p := testSetup()

	m := member(t, p, "BP_Plan", "auslegungsStartDatum", version.V6_0)

	var current types.Property
	var err error
	for _, d := range []string{"2020-01-01", "2020-06-15"} {
		current, err = c.Decode("BP_Plan", m, el(t, "<auslegungsStartDatum>"+d+"</auslegungsStartDatum>"), current)
		is.NoErr(err)
	}

	is.Equal(current.Value(), []time.Time{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC),
	})

	values, err := c.Encode(m, current, version.V6_0, nil)
	is.NoErr(err)
	is.Equal(len(values), 2)
	is.Equal(values[0].Text, "2020-01-01")
	is.Equal(values[1].Text, "2020-06-15")
}

func TestBooleans(t *testing.T) {
	is := is.New(t)
	c, p := testSetup()

	m := member(t, p, "BP_Plan", "durchfuehrungsVertrag", version.V6_0)

	for text, expected := range map[string]bool{"true": true, "false": false, "1": true, "0": false, "": true} {
		v, err := c.Decode("BP_Plan", m, el(t, "<durchfuehrungsVertrag>"+text+"</durchfuehrungsVertrag>"), nil)
		is.NoErr(err)
		is.Equal(v.Value(), expected)
	}

	values, err := c.Encode(m, properties.NewBoolProperty(false), version.V6_0, nil)
	is.NoErr(err)
	is.Equal(values[0].Text, "false")
}

func TestUncoercibleValuesFail(t *testing.T) {
	is := is.New(t)
	c, p := testSetup()

	for _, tc := range []struct {
		typeName string
		member   string
		xml      string
	}{
		{"BP_BaugebietsTeilFlaeche", "Z", "<Z>drei</Z>"},
		{"BP_BaugebietsTeilFlaeche", "GRZ", "<GRZ>0,4</GRZ>"},
		{"BP_Plan", "inkrafttretensDatum", "<inkrafttretensDatum>01.02.2020</inkrafttretensDatum>"},
		{"BP_Plan", "durchfuehrungsVertrag", "<durchfuehrungsVertrag>ja</durchfuehrungsVertrag>"},
	} {
		m := member(t, p, tc.typeName, tc.member, version.V6_0)
		_, err := c.Decode(tc.typeName, m, el(t, tc.xml), nil)
		is.True(errors.Is(err, xerrors.ErrCoercion))
	}
}

func TestMeasureCarriesUnit(t *testing.T) {
	is := is.New(t)
	c, p := testSetup()

	m := member(t, p, "BP_BauGrenze", "bautiefe", version.V6_0)

	v, err := c.Decode("BP_BauGrenze", m, el(t, `<bautiefe uom="m">12.5</bautiefe>`), nil)
	is.NoErr(err)
	is.Equal(v.(*properties.NumberProperty).Unit(), "m")

	values, err := c.Encode(m, properties.NewNumberProperty(3), version.V6_0, nil)
	is.NoErr(err)
	is.Equal(values[0].Text, "3")
	is.Equal(values[0].UoM, "m")
}

func TestEnumValuesAreMigratedOrDropped(t *testing.T) {
	is := is.New(t)
	c, p := testSetup()

	typ := member(t, p, "XP_SpezExterneReferenz", "typ", version.V5_3)
	verordnung := properties.NewEnumProperty("XP_ExterneReferenzTyp", "1065")

	values, err := c.Encode(typ, verordnung, version.V6_0, nil)
	is.NoErr(err)
	is.Equal(values[0].Text, "1065")

	values, err = c.Encode(typ, verordnung, version.V5_3, nil)
	is.NoErr(err)
	is.Equal(values[0].Text, "1060")

	rechtscharakter := member(t, p, "FP_BebauungsFlaeche", "rechtscharakter", version.V6_0)
	values, err = c.Encode(rechtscharakter, properties.NewEnumProperty("FP_Rechtscharakter", "1000"), version.V6_0, nil)
	is.NoErr(err)
	is.Equal(values[0].Text, "1500")

	bp := member(t, p, "BP_BauGrenze", "rechtscharakter", version.V5_3)
	values, err = c.Encode(bp, properties.NewEnumProperty("XP_Rechtscharakter", "1800"), version.V5_3, nil)
	is.NoErr(err)
	is.Equal(len(values), 0)
}

func TestGeometryKindIsChecked(t *testing.T) {
	is := is.New(t)
	c, p := testSetup()

	m := member(t, p, "BP_BaugebietsTeilFlaeche", "position", version.V6_0)

	_, err := c.Decode("BP_BaugebietsTeilFlaeche", m, el(t, pointPosition), nil)
	is.True(errors.Is(err, xerrors.ErrMalformedGeometry))

	m = member(t, p, "BP_EinfahrtPunkt", "position", version.V6_0)
	v, err := c.Decode("BP_EinfahrtPunkt", m, el(t, pointPosition), nil)
	is.NoErr(err)
	is.Equal(v.(*geometry.Property).Val.Geom, orb.Point{565000, 5930000})
}

func TestGeometryWithoutCRSIsFatal(t *testing.T) {
	is := is.New(t)
	c, p := testSetup()

	m := member(t, p, "BP_EinfahrtPunkt", "position", version.V6_0)
	_, err := c.Decode("BP_EinfahrtPunkt", m, el(t, pointWithoutCRS), nil)
	is.True(errors.Is(err, xerrors.ErrMissingCRS))
}

func TestEncodeRejectsMismatchedValues(t *testing.T) {
	is := is.New(t)
	c, p := testSetup()

	m := member(t, p, "BP_BaugebietsTeilFlaeche", "GRZ", version.V6_0)
	_, err := c.Encode(m, properties.NewTextProperty("0.4"), version.V6_0, nil)
	is.True(errors.Is(err, xerrors.ErrInvalidGraph))
}

func testSetup() (*Coercer, *policy.Policy) {
	c := catalog.Default()
	return New(c), policy.New(c)
}

func member(t *testing.T, p *policy.Policy, typeName, name string, rev version.Revision) catalog.Member {
	m, ok := p.Member(typeName, name, rev)
	if !ok {
		t.Fatalf("no member %s.%s in %s", typeName, name, rev)
	}
	return m
}

func el(t *testing.T, xml string) *etree.Element {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("failed to parse fixture: %s", err.Error())
	}
	return doc.Root()
}

const pointPosition string = `<xplan:position xmlns:xplan="http://www.xplanung.de/xplangml/6/0" xmlns:gml="http://www.opengis.net/gml/3.2">
  <gml:Point gml:id="GML_p1" srsName="EPSG:25832"><gml:pos>565000 5930000</gml:pos></gml:Point>
</xplan:position>`

const pointWithoutCRS string = `<xplan:position xmlns:xplan="http://www.xplanung.de/xplangml/6/0" xmlns:gml="http://www.opengis.net/gml/3.2">
  <gml:Point gml:id="GML_p1"><gml:pos>565000 5930000</gml:pos></gml:Point>
</xplan:position>`
