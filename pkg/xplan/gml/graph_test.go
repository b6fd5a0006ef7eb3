package gml

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	"github.com/diwise/xplan-gml/pkg/xplan/geometry"
	"github.com/diwise/xplan-gml/pkg/xplan/policy"
	"github.com/diwise/xplan-gml/pkg/xplan/types"
	"github.com/diwise/xplan-gml/pkg/xplan/types/objects"
	"github.com/diwise/xplan-gml/pkg/xplan/types/properties"
	"github.com/diwise/xplan-gml/pkg/xplan/types/relationships"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

// graphBuilder generates objects holding a value for every member that
// applies to a revision
type graphBuilder struct {
	catalog *catalog.Registry
	policy  *policy.Policy
	rev     version.Revision
}

func newGraphBuilder(rev version.Revision) *graphBuilder {
	c := catalog.Default()
	return &graphBuilder{catalog: c, policy: policy.New(c), rev: rev}
}

func (b *graphBuilder) family(typeName string) string {
	return strings.SplitN(typeName, "_", 2)[0]
}

// plan returns a plan of the family of contentType with a single region
// holding one instance of contentType and a presentation object for it
func (b *graphBuilder) plan(t *testing.T, contentType string) (plan, region, content types.Object) {
	family := b.family(contentType)
	if family == "XP" {
		family = "BP"
	}

	content = b.object(t, contentType)
	region = b.object(t, family+"_Bereich")
	plan = b.object(t, family+"_Plan")

	region.SetRelationship("planinhalt", relationships.NewMultiObjectRelationship(relationships.TypeReference, []types.Object{content}))
	plan.SetRelationship("bereich", relationships.NewMultiObjectRelationship(relationships.TypeReference, []types.Object{region}))

	return plan, region, content
}

func (b *graphBuilder) object(t *testing.T, typeName string) *objects.ObjectImpl {
	info, ok := b.catalog.Lookup(typeName)
	if !ok || info.Abstract {
		t.Fatalf("%s is not a concrete type", typeName)
	}

	o := objects.New("", typeName)

	for _, m := range b.policy.Members(typeName, b.rev, true) {
		if m.Inverse || m.Kind == catalog.KindReference {
			continue
		}

		if m.Kind == catalog.KindComposition {
			sub := b.object(t, m.Target)
			if m.Many {
				o.SetRelationship(m.Name, relationships.NewMultiObjectRelationship(relationships.TypeComposition, []types.Object{sub}))
			} else {
				o.SetRelationship(m.Name, relationships.NewSingleObjectRelationship(relationships.TypeComposition, sub))
			}
			continue
		}

		o.SetProperty(m.Name, b.value(t, typeName, m))
	}

	return o
}

func (b *graphBuilder) value(t *testing.T, typeName string, m catalog.Member) types.Property {
	d := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)

	switch m.Kind {
	case catalog.KindText:
		return properties.NewTextProperty("text-" + m.Name)
	case catalog.KindTextList:
		return properties.NewTextListProperty([]string{"first-" + m.Name, "second-" + m.Name})
	case catalog.KindInteger:
		return properties.NewIntegerProperty(7)
	case catalog.KindNumber:
		return properties.NewNumberProperty(1.25, properties.UnitCode(m.UoM))
	case catalog.KindBool:
		return properties.NewBoolProperty(true)
	case catalog.KindDate:
		return properties.NewDateProperty(d)
	case catalog.KindDateList:
		return properties.NewDateListProperty(d, d.AddDate(0, 6, 0))
	case catalog.KindEnum:
		return properties.NewEnumProperty(m.Enum, b.codes(t, m.Enum)[0])
	case catalog.KindEnumList:
		codes := b.codes(t, m.Enum)
		if len(codes) > 2 {
			codes = codes[:2]
		}
		return properties.NewEnumListProperty(m.Enum, codes...)
	case catalog.KindGeometry:
		return geometry.NewProperty(sampleGeometry(b.catalog.GeometryKind(typeName)))
	default:
		t.Fatalf("no sample value for %s", m.Kind)
		return nil
	}
}

func (b *graphBuilder) codes(t *testing.T, enumName string) []string {
	e, ok := b.catalog.Enums().Get(enumName)
	if !ok {
		t.Fatalf("unknown enumeration %s", enumName)
	}
	codes := []string{}
	for _, v := range e.Values {
		if v.Mask.Includes(b.rev) {
			codes = append(codes, v.Code)
		}
	}
	return codes
}

func sampleGeometry(kind catalog.GeometryKind) geometry.Geometry {
	crs := geometry.EPSG(25832)
	switch kind {
	case catalog.GeometryPoint:
		return geometry.New(orb.Point{565010.5, 5930020.25}, crs)
	case catalog.GeometryLine:
		return geometry.New(orb.LineString{{565000, 5930000}, {565100, 5930050}}, crs)
	default:
		return geometry.New(orb.Polygon{{{565000, 5930000}, {565100, 5930000}, {565100, 5930100}, {565000, 5930000}}}, crs)
	}
}

// canonical renders the members of o that apply to rev. Inline data objects
// are compared by value, features by identifier.
func canonical(t *testing.T, p *policy.Policy, o types.Object, rev version.Revision) string {
	contents := map[string]any{"type": o.Type()}

	for _, m := range p.Members(o.Type(), rev, true) {
		if m.Inverse {
			continue
		}

		switch m.Kind {
		case catalog.KindReference:
			ids := []string{}
			for _, target := range objects.Related(o, m.Name) {
				ids = append(ids, target.ID())
			}
			if len(ids) > 0 {
				contents[m.Name] = ids
			}
		case catalog.KindComposition:
			subs := []string{}
			for _, target := range objects.Related(o, m.Name) {
				subs = append(subs, canonical(t, p, target, rev))
			}
			if len(subs) > 0 {
				contents[m.Name] = subs
			}
		default:
			if v, ok := o.Property(m.Name); ok {
				contents[m.Name] = v
			}
		}
	}

	b, err := json.Marshal(contents)
	if err != nil {
		t.Fatalf("failed to marshal %s: %s", o.ID(), err.Error())
	}
	return string(b)
}

func sameGraph(t *testing.T, expected, actual types.Object, rev version.Revision) error {
	p := policy.New(catalog.Default())

	expectedByID := map[string]types.Object{}
	objects.Walk(expected, func(o types.Object) error {
		if info, _ := p.Catalog().Lookup(o.Type()); info.Root.IsFeature() {
			expectedByID[o.ID()] = o
		}
		return nil
	})

	count := 0
	err := objects.Walk(actual, func(o types.Object) error {
		info, _ := p.Catalog().Lookup(o.Type())
		if !info.Root.IsFeature() {
			return nil
		}
		count++

		e, ok := expectedByID[o.ID()]
		if !ok {
			return fmt.Errorf("unexpected feature %s (%s)", o.ID(), o.Type())
		}
		if a, x := canonical(t, p, o, rev), canonical(t, p, e, rev); a != x {
			return fmt.Errorf("feature %s differs:\nexpected %s\nactual   %s", o.ID(), x, a)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if count != len(expectedByID) {
		return fmt.Errorf("expected %d features, got %d", len(expectedByID), count)
	}
	return nil
}
