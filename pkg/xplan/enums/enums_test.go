package enums

import (
	"testing"

	"github.com/diwise/xplan-gml/pkg/xplan/version"
	"github.com/matryer/is"
)

func TestLookupPrefersNumericCode(t *testing.T) {
	is := is.New(t)
	r := Default()

	e, ok := r.Get("XP_Rechtscharakter")
	is.True(ok)

	v, ok := e.Lookup("1000")
	is.True(ok)
	is.Equal(v.Name, "FestsetzungBPlan")

	v, ok = e.Lookup("hinweis")
	is.True(ok)
	is.Equal(v.Code, "3000")

	_, ok = e.Lookup("NoSuchValue")
	is.True(!ok)
}

func TestValuesDefaultToAllRevisions(t *testing.T) {
	is := is.New(t)
	e, _ := Default().Get("XP_ExterneReferenzTyp")

	v, _ := e.ByCode("1010")
	is.Equal(v.Mask, version.All)

	v, _ = e.ByCode("1065")
	is.True(!v.Mask.Includes(version.V5_3))
}

func TestMigrateWithinEnumeration(t *testing.T) {
	is := is.New(t)
	r := Default()

	v, ok := r.Migrate("XP_ExterneReferenzTyp", "1065", "XP_ExterneReferenzTyp", version.V5_3)
	is.True(ok)
	is.Equal(v.Code, "1060")

	v, ok = r.Migrate("XP_ExterneReferenzTyp", "1065", "XP_ExterneReferenzTyp", version.V6_0)
	is.True(ok)
	is.Equal(v.Code, "1065")
}

func TestRegulationTypesMigrateToStatuteIn53(t *testing.T) {
	is := is.New(t)
	r := Default()

	for _, code := range []string{"1065", "6000"} {
		v, ok := r.Migrate("XP_ExterneReferenzTyp", code, "XP_ExterneReferenzTyp", version.V5_3)
		is.True(ok)
		is.Equal(v.Code, "1060")
	}
}

func TestEveryMigrationAppliesInSomeRevision(t *testing.T) {
	is := is.New(t)
	r := Default()

	for _, m := range migrations() {
		applied := false
		for _, rev := range version.Revisions {
			if v, ok := r.Migrate(m.FromEnum, m.FromCode, m.ToEnum, rev); ok && v.Code == m.ToCode {
				applied = true
			}
		}
		if !applied {
			t.Errorf("migration %s/%s -> %s/%s never applies", m.FromEnum, m.FromCode, m.ToEnum, m.ToCode)
		}
	}
	is.True(!t.Failed())
}

func TestMigrateLegalCharacterBetweenRevisions(t *testing.T) {
	is := is.New(t)
	r := Default()

	v, ok := r.Migrate("BP_Rechtscharakter", "1000", "XP_Rechtscharakter", version.V6_0)
	is.True(ok)
	is.Equal(v.Name, "FestsetzungBPlan")

	v, ok = r.Migrate("XP_Rechtscharakter", "1500", "FP_Rechtscharakter", version.V5_3)
	is.True(ok)
	is.Equal(v.Name, "Darstellung")

	_, ok = r.Migrate("XP_Rechtscharakter", "1800", "BP_Rechtscharakter", version.V5_3)
	is.True(!ok) // no counterpart for land-use content in the 5.3 plan enumeration
}

func TestRegistryDoesNotShareValueSlices(t *testing.T) {
	is := is.New(t)

	values := []Value{{Code: "1", Name: "One"}}
	NewRegistry([]Enumeration{{Name: "E", Values: values}}, nil)

	is.Equal(values[0].Mask, version.None)
}
