package catalog

import (
	"fmt"
	"sort"

	"github.com/diwise/xplan-gml/pkg/xplan/enums"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

// Root identifies the taxonomy a type belongs to. Every root forms a single
// discriminated hierarchy where the type name is the discriminator.
type Root int

const (
	RootPlan Root = iota + 1
	RootRegion
	RootContent
	RootPresentation
	RootData
)

func (r Root) String() string {
	switch r {
	case RootPlan:
		return "Plan"
	case RootRegion:
		return "Region"
	case RootContent:
		return "Content"
	case RootPresentation:
		return "Presentation"
	case RootData:
		return "Data"
	default:
		return fmt.Sprintf("Root(%d)", int(r))
	}
}

// IsFeature reports whether instances of the root are written as featureMembers
func (r Root) IsFeature() bool {
	return r != RootData
}

type Kind int

const (
	KindText Kind = iota + 1
	KindTextList
	KindInteger
	KindNumber
	KindBool
	KindDate
	KindDateList
	KindEnum
	KindEnumList
	KindGeometry
	KindBinary
	KindComposition
	KindReference
)

var kindNames = map[Kind]string{
	KindText:        "Text",
	KindTextList:    "TextList",
	KindInteger:     "Integer",
	KindNumber:      "Number",
	KindBool:        "Bool",
	KindDate:        "Date",
	KindDateList:    "DateList",
	KindEnum:        "Enum",
	KindEnumList:    "EnumList",
	KindGeometry:    "Geometry",
	KindBinary:      "Binary",
	KindComposition: "Composition",
	KindReference:   "Reference",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsList reports whether the kind accumulates repeated wire elements
func (k Kind) IsList() bool {
	return k == KindTextList || k == KindDateList || k == KindEnumList
}

type GeometryKind int

const (
	GeometryNone GeometryKind = iota
	GeometryPoint
	GeometryLine
	GeometryPolygon
	GeometryMixed
)

var geometryKindNames = [...]string{"none", "point", "line", "polygon", "mixed"}

func (g GeometryKind) String() string {
	if g >= 0 && int(g) < len(geometryKindNames) {
		return geometryKindNames[g]
	}
	return fmt.Sprintf("GeometryKind(%d)", int(g))
}

// Member is one row of a type's static member table
type Member struct {
	Name     string
	WireName string
	Kind     Kind
	Mask     version.Mask
	Enum     string
	UoM      string
	Target   string
	Many     bool
	Required bool

	// Inverse members are back-references derived from ownership. They are
	// emitted by the writer and never populated by the reader.
	Inverse bool

	// Transient members are held in the object graph but never written to or
	// read from the wire format
	Transient bool

	// Declared is the name of the type whose table holds the member
	Declared string
}

func (m Member) IsAssociation() bool {
	return m.Kind == KindComposition || m.Kind == KindReference
}

func (m Member) Applies(rev version.Revision) bool {
	return !m.Transient && m.Mask.Includes(rev)
}

type TypeInfo struct {
	Name     string
	Parent   string
	Root     Root
	Abstract bool
	Geometry GeometryKind
	Members  []Member

	// Shared types are pre-seeded reference entities deduplicated by value on import
	Shared bool
}

type Registry struct {
	types  map[string]*TypeInfo
	chains map[string][]*TypeInfo
	enums  *enums.Registry
}

// New validates and indexes the given type table. The returned registry is
// read-only and safe for concurrent use.
func New(types []TypeInfo, enumerations *enums.Registry) (*Registry, error) {
	r := &Registry{
		types:  make(map[string]*TypeInfo, len(types)),
		chains: make(map[string][]*TypeInfo, len(types)),
		enums:  enumerations,
	}

	for i := range types {
		t := types[i]
		if _, exists := r.types[t.Name]; exists {
			return nil, fmt.Errorf("type %s declared twice", t.Name)
		}

		t.Members = append([]Member(nil), t.Members...)
		for idx := range t.Members {
			m := &t.Members[idx]
			m.Declared = t.Name
			if m.WireName == "" {
				m.WireName = m.Name
			}
			if m.Mask == version.None {
				m.Mask = version.All
			}
		}

		r.types[t.Name] = &t
	}

	for name, t := range r.types {
		chain := []*TypeInfo{}
		for current := t; current != nil; {
			chain = append([]*TypeInfo{current}, chain...)
			if current.Parent == "" {
				break
			}
			parent, ok := r.types[current.Parent]
			if !ok {
				return nil, fmt.Errorf("type %s has unknown parent %s", current.Name, current.Parent)
			}
			if parent.Root != current.Root {
				return nil, fmt.Errorf("type %s and its parent %s belong to different roots", current.Name, parent.Name)
			}
			if len(chain) > len(r.types) {
				return nil, fmt.Errorf("cyclic inheritance involving %s", name)
			}
			current = parent
		}
		r.chains[name] = chain
	}

	for _, t := range r.types {
		for _, m := range t.Members {
			if err := r.validateMember(t, m); err != nil {
				return nil, err
			}
		}
		if err := r.validateWireNames(t.Name); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// validateWireNames rejects chains where a revision would see two different live
// members under one wire name. A subtype may redeclare a member of the same name,
// in which case the most derived declaration wins.
func (r *Registry) validateWireNames(name string) error {
	for _, rev := range version.Revisions {
		live := map[string]string{}
		chain := r.chains[name]
		for i := len(chain) - 1; i >= 0; i-- {
			for _, m := range chain[i].Members {
				if !m.Applies(rev) {
					continue
				}
				if other, seen := live[m.WireName]; seen && other != m.Name {
					return fmt.Errorf("type %s exposes both %s and %s as %s in revision %s", name, other, m.Name, m.WireName, rev)
				}
				live[m.WireName] = m.Name
			}
		}
	}
	return nil
}

func (r *Registry) validateMember(t *TypeInfo, m Member) error {
	switch m.Kind {
	case KindEnum, KindEnumList:
		if _, ok := r.enums.Get(m.Enum); !ok {
			return fmt.Errorf("member %s.%s references unknown enumeration %s", t.Name, m.Name, m.Enum)
		}
	case KindComposition, KindReference:
		if _, ok := r.types[m.Target]; !ok {
			return fmt.Errorf("member %s.%s references unknown type %s", t.Name, m.Name, m.Target)
		}
	case KindGeometry:
		if r.GeometryKind(t.Name) == GeometryNone {
			return fmt.Errorf("type %s declares geometry member %s without a geometry kind", t.Name, m.Name)
		}
	}
	return nil
}

// Default returns the catalog of the supported plan taxonomies
func Default() *Registry {
	r, err := New(definitions(), enums.Default())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Enums() *enums.Registry {
	return r.enums
}

func (r *Registry) Lookup(name string) (TypeInfo, bool) {
	t, ok := r.types[name]
	if !ok {
		return TypeInfo{}, false
	}
	return *t, true
}

// Chain returns the type and all its ancestors, the root type first
func (r *Registry) Chain(name string) []TypeInfo {
	chain := r.chains[name]
	result := make([]TypeInfo, 0, len(chain))
	for _, t := range chain {
		result = append(result, *t)
	}
	return result
}

// IsA reports whether name is ancestor itself or derives from it
func (r *Registry) IsA(name, ancestor string) bool {
	for _, t := range r.chains[name] {
		if t.Name == ancestor {
			return true
		}
	}
	return false
}

// GeometryKind returns the geometry kind declared closest to the type
func (r *Registry) GeometryKind(name string) GeometryKind {
	chain := r.chains[name]
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Geometry != GeometryNone {
			return chain[i].Geometry
		}
	}
	return GeometryNone
}

// Concrete lists the names of all non abstract types of a root in sorted order
func (r *Registry) Concrete(root Root) []string {
	names := []string{}
	for name, t := range r.types {
		if t.Root == root && !t.Abstract {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
