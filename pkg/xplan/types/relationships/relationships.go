package relationships

import (
	"encoding/json"
	"fmt"

	"github.com/diwise/xplan-gml/pkg/xplan/types"
)

const (
	// TypeComposition marks an inline owned or shared data object
	TypeComposition string = "Composition"
	// TypeReference marks a link to a feature serialized as an xlink reference
	TypeReference string = "Reference"
)

// Finder resolves an object identifier to a materialized object
type Finder func(id string) (types.Object, bool)

type target struct {
	obj types.Object
	id  string
}

func (t target) ID() string {
	if t.obj != nil {
		return t.obj.ID()
	}
	return t.id
}

// RelationshipImpl is a base type for all types of relationships
type RelationshipImpl struct {
	Type string `json:"type"`
}

// SingleObjectRelationship stores information about an object's relation to a single object
type SingleObjectRelationship struct {
	RelationshipImpl
	t target
}

func (sor *SingleObjectRelationship) Type() string {
	return sor.RelationshipImpl.Type
}

func (sor *SingleObjectRelationship) Objects() []types.Object {
	if sor.t.obj == nil {
		return nil
	}
	return []types.Object{sor.t.obj}
}

func (sor *SingleObjectRelationship) Object() types.Object {
	return sor.t.obj
}

// IDs returns the identifier of the target, resolved or not
func (sor *SingleObjectRelationship) IDs() []string {
	if id := sor.t.ID(); id != "" {
		return []string{id}
	}
	return nil
}

func (sor *SingleObjectRelationship) Resolve(find Finder) error {
	if sor.t.obj != nil || sor.t.id == "" {
		return nil
	}
	obj, ok := find(sor.t.id)
	if !ok {
		return fmt.Errorf("no object with id %s", sor.t.id)
	}
	sor.t.obj = obj
	return nil
}

func (sor *SingleObjectRelationship) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Object string `json:"object"`
	}{sor.RelationshipImpl.Type, sor.t.ID()})
}

// NewSingleObjectRelationship accepts a relationship type and a target object
func NewSingleObjectRelationship(relationshipType string, object types.Object) *SingleObjectRelationship {
	return &SingleObjectRelationship{
		RelationshipImpl: RelationshipImpl{Type: relationshipType},
		t:                target{obj: object},
	}
}

// MultiObjectRelationship stores information about an object's relation to multiple objects
type MultiObjectRelationship struct {
	RelationshipImpl
	targets []target
}

func (mor *MultiObjectRelationship) Type() string {
	return mor.RelationshipImpl.Type
}

// Objects returns the resolved targets in their original order
func (mor *MultiObjectRelationship) Objects() []types.Object {
	objects := make([]types.Object, 0, len(mor.targets))
	for _, t := range mor.targets {
		if t.obj != nil {
			objects = append(objects, t.obj)
		}
	}
	return objects
}

func (mor *MultiObjectRelationship) IDs() []string {
	ids := make([]string, 0, len(mor.targets))
	for _, t := range mor.targets {
		ids = append(ids, t.ID())
	}
	return ids
}

func (mor *MultiObjectRelationship) Append(objects ...types.Object) {
	for _, o := range objects {
		mor.targets = append(mor.targets, target{obj: o})
	}
}

func (mor *MultiObjectRelationship) Resolve(find Finder) error {
	for i, t := range mor.targets {
		if t.obj != nil {
			continue
		}
		obj, ok := find(t.id)
		if !ok {
			return fmt.Errorf("no object with id %s", t.id)
		}
		mor.targets[i].obj = obj
	}
	return nil
}

func (mor *MultiObjectRelationship) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string   `json:"type"`
		Object []string `json:"object"`
	}{mor.RelationshipImpl.Type, mor.IDs()})
}

// NewMultiObjectRelationship accepts a relationship type and an array of target objects
func NewMultiObjectRelationship(relationshipType string, objects []types.Object) *MultiObjectRelationship {
	mor := &MultiObjectRelationship{
		RelationshipImpl: RelationshipImpl{Type: relationshipType},
	}
	mor.Append(objects...)
	return mor
}

func IsRelationshipType(t string) bool {
	return t == TypeComposition || t == TypeReference
}

// UnmarshalR returns a relationship whose targets are known by id only. Call
// Resolve to materialize them.
func UnmarshalR(body map[string]any) (types.Relationship, error) {
	relationshipType, _ := body["type"].(string)
	if !IsRelationshipType(relationshipType) {
		return nil, fmt.Errorf("relationship of type %q not supported", relationshipType)
	}

	object, ok := body["object"]
	if !ok {
		return nil, fmt.Errorf("relationships without an object attribute are not supported")
	}

	switch typedObject := object.(type) {
	case string:
		return &SingleObjectRelationship{
			RelationshipImpl: RelationshipImpl{Type: relationshipType},
			t:                target{id: typedObject},
		}, nil
	case []any:
		mor := &MultiObjectRelationship{RelationshipImpl: RelationshipImpl{Type: relationshipType}}
		for _, o := range typedObject {
			if str, ok := o.(string); ok {
				mor.targets = append(mor.targets, target{id: str})
			}
		}
		return mor, nil
	default:
		return nil, fmt.Errorf("support for relationship object of type %T not implemented", typedObject)
	}
}

// Resolve materializes the targets of a relationship returned by UnmarshalR
func Resolve(r types.Relationship, find Finder) error {
	type resolver interface {
		Resolve(Finder) error
	}
	if rr, ok := r.(resolver); ok {
		return rr.Resolve(find)
	}
	return nil
}

// IDs returns the target identifiers of any relationship
func IDs(r types.Relationship) []string {
	type identified interface {
		IDs() []string
	}
	if ir, ok := r.(identified); ok {
		return ir.IDs()
	}
	ids := []string{}
	for _, o := range r.Objects() {
		ids = append(ids, o.ID())
	}
	return ids
}
