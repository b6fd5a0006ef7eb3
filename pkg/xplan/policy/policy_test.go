package policy

import (
	"slices"
	"testing"

	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
	"github.com/matryer/is"
)

func TestMemberOrderPutsBaseMembersFirst(t *testing.T) {
	is := is.New(t)
	p := New(catalog.Default())

	order := p.MemberOrder("BP_Plan", version.V6_0, true)

	is.Equal(order[0], "name")
	is.True(slices.Index(order, "raeumlicherGeltungsbereich") < slices.Index(order, "gemeinde"))
	is.True(slices.Index(order, "bereich") < slices.Index(order, "planArt"))
}

func TestMemberOrderWithoutInheritance(t *testing.T) {
	is := is.New(t)
	p := New(catalog.Default())

	order := p.MemberOrder("XP_Nutzungsschablone", version.V6_0, false)

	is.Equal(order, []string{"spaltenAnz", "zeilenAnz"})
}

func TestMembersRestrictedToOneRevisionAreFiltered(t *testing.T) {
	is := is.New(t)
	p := New(catalog.Default())

	v53 := p.MemberOrder("BP_Plan", version.V5_3, true)
	v60 := p.MemberOrder("BP_Plan", version.V6_0, true)

	is.True(slices.Contains(v53, "bezugshoehe"))
	is.True(!slices.Contains(v60, "bezugshoehe"))
	is.True(slices.Contains(v60, "technischerPlanersteller"))
	is.True(!slices.Contains(v53, "technischerPlanersteller"))
	is.True(!slices.Contains(v60, "veraenderungssperreDatum"))

	is.True(!p.MemberApplies("BP_Plan", "bezugshoehe", version.V6_0))
	is.True(p.MemberApplies("BP_Plan", "bezugshoehe", version.V5_3))
}

func TestRedeclaredMemberAppearsOnceAtMostSpecificPosition(t *testing.T) {
	is := is.New(t)
	p := New(catalog.Default())

	members := p.Members("BP_BaugebietsTeilFlaeche", version.V5_3, true)

	count := 0
	for _, m := range members {
		if m.Name == "rechtscharakter" {
			count++
			is.Equal(m.Declared, "BP_Objekt")
			is.Equal(m.Enum, "BP_Rechtscharakter")
		}
	}
	is.Equal(count, 1)

	m, ok := p.Member("BP_BaugebietsTeilFlaeche", "rechtscharakter", version.V6_0)
	is.True(ok)
	is.Equal(m.Declared, "XP_Objekt")
	is.Equal(m.Enum, "XP_Rechtscharakter")
}

func TestWireNameSelectsLiveMember(t *testing.T) {
	is := is.New(t)
	p := New(catalog.Default())

	is.Equal(p.WireName("BP_Plan", "veraenderungssperreDaten", version.V6_0), "veraenderungssperre")
	is.Equal(p.WireName("BP_Plan", "veraenderungssperre", version.V5_3), "veraenderungssperre")

	m, ok := p.Resolve("BP_Plan", "veraenderungssperre", version.V5_3)
	is.True(ok)
	is.Equal(m.Kind, catalog.KindBool)

	m, ok = p.Resolve("BP_Plan", "veraenderungssperre", version.V6_0)
	is.True(ok)
	is.Equal(m.Name, "veraenderungssperreDaten")
	is.Equal(m.Kind, catalog.KindComposition)
}

func TestWireNameChangesBetweenRevisions(t *testing.T) {
	is := is.New(t)
	p := New(catalog.Default())

	m, ok := p.Resolve("FP_BebauungsFlaeche", "sonderNutzung", version.V5_3)
	is.True(ok)
	is.Equal(m.Kind, catalog.KindEnumList)

	_, ok = p.Resolve("FP_BebauungsFlaeche", "sonderNutzung", version.V6_0)
	is.True(!ok) // renamed to sondernutzung in 6.0

	m, ok = p.Resolve("FP_BebauungsFlaeche", "sondernutzung", version.V6_0)
	is.True(ok)
	is.Equal(m.Target, "FP_KomplexeSondernutzung")
}

func TestUnknownMemberDoesNotApply(t *testing.T) {
	is := is.New(t)
	p := New(catalog.Default())

	is.True(!p.MemberApplies("BP_Plan", "doesNotExist", version.V6_0))
	is.Equal(p.WireName("BP_Plan", "doesNotExist", version.V6_0), "doesNotExist")
}
