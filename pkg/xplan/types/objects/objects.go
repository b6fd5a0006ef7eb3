package objects

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/diwise/xplan-gml/pkg/xplan/geometry"
	"github.com/diwise/xplan-gml/pkg/xplan/types"
	"github.com/diwise/xplan-gml/pkg/xplan/types/properties"
	"github.com/diwise/xplan-gml/pkg/xplan/types/relationships"
)

type ObjectDecoratorFunc func(o *ObjectImpl)

// New creates an object of the given catalog type. An empty id is replaced by
// a new random uuid.
func New(objectID, objectType string, decorators ...ObjectDecoratorFunc) *ObjectImpl {
	if objectID == "" {
		objectID = NewID()
	}

	o := &ObjectImpl{
		objectID:      objectID,
		objectType:    objectType,
		properties:    map[string]types.Property{},
		relationships: map[string]types.Relationship{},
	}

	for _, decorator := range decorators {
		decorator(o)
	}

	return o
}

func NewID() string {
	return uuid.NewString()
}

// NewFromJSON decodes a single object. Relationships are left unresolved and
// only know the identifiers of their targets.
func NewFromJSON(body []byte) (*ObjectImpl, error) {
	o := &ObjectImpl{}
	err := json.Unmarshal(body, o)

	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal object: %w", err)
	}

	if o.ID() == "" || o.Type() == "" {
		return nil, fmt.Errorf("failed to parse object")
	}

	return o, nil
}

type ObjectImpl struct {
	objectID   string
	objectType string

	properties    map[string]types.Property
	relationships map[string]types.Relationship
}

func (o *ObjectImpl) ID() string {
	return o.objectID
}

func (o *ObjectImpl) Type() string {
	return o.objectType
}

func (o *ObjectImpl) Property(name string) (types.Property, bool) {
	p, ok := o.properties[name]
	return p, ok
}

func (o *ObjectImpl) Relationship(name string) (types.Relationship, bool) {
	r, ok := o.relationships[name]
	return r, ok
}

func (o *ObjectImpl) SetProperty(name string, p types.Property) {
	delete(o.relationships, name)
	o.properties[name] = p
}

func (o *ObjectImpl) SetRelationship(name string, r types.Relationship) {
	delete(o.properties, name)
	o.relationships[name] = r
}

func (o *ObjectImpl) RemoveAttribute(name string) {
	delete(o.properties, name)
	delete(o.relationships, name)
}

// ForEachAttribute visits properties and relationships ordered by name
func (o *ObjectImpl) ForEachAttribute(callback func(attributeType, attributeName string, contents any)) error {
	for _, name := range o.attributeNames() {
		if p, ok := o.properties[name]; ok {
			callback(p.Type(), name, p)
		} else {
			r := o.relationships[name]
			callback(r.Type(), name, r)
		}
	}

	return nil
}

func (o *ObjectImpl) attributeNames() []string {
	names := make([]string, 0, len(o.properties)+len(o.relationships))
	for k := range o.properties {
		names = append(names, k)
	}
	for k := range o.relationships {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (o *ObjectImpl) MarshalJSON() ([]byte, error) {
	contents := map[string]any{
		"id":   o.ID(),
		"type": o.Type(),
	}

	for k, p := range o.properties {
		contents[k] = p
	}

	for k, r := range o.relationships {
		contents[k] = r
	}

	return json.Marshal(&contents)
}

func (o *ObjectImpl) UnmarshalJSON(data []byte) error {
	var contents map[string]any
	if err := json.Unmarshal(data, &contents); err != nil {
		return fmt.Errorf("failed to unmarshal object: %w", err)
	}

	o.objectID, _ = contents["id"].(string)
	o.objectType, _ = contents["type"].(string)

	// Delete the attributes we have already dealt with
	delete(contents, "id")
	delete(contents, "type")

	o.properties = map[string]types.Property{}
	o.relationships = map[string]types.Relationship{}

	for k, v := range contents {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}

		objType, ok := obj["type"].(string)
		if !ok {
			continue
		}

		switch {
		case objType == geometry.TypeGeometry:
			p, err := geometry.UnmarshalG(obj)
			if err != nil {
				return fmt.Errorf("attribute %s: %w", k, err)
			}
			o.properties[k] = p
		case relationships.IsRelationshipType(objType):
			r, err := relationships.UnmarshalR(obj)
			if err != nil {
				return fmt.Errorf("attribute %s: %w", k, err)
			}
			o.relationships[k] = r
		default:
			p, err := properties.UnmarshalP(obj)
			if err != nil {
				return fmt.Errorf("attribute %s: %w", k, err)
			}
			o.properties[k] = p
		}
	}

	return nil
}

func P(name string, value types.Property) ObjectDecoratorFunc {
	return func(o *ObjectImpl) { o.properties[name] = value }
}

func R(name string, value types.Relationship) ObjectDecoratorFunc {
	return func(o *ObjectImpl) { o.relationships[name] = value }
}

// Related returns the objects held by the named relationship, if any
func Related(o types.Object, name string) []types.Object {
	r, ok := o.Relationship(name)
	if !ok {
		return nil
	}
	return r.Objects()
}

// Walk visits o and every object reachable from it exactly once, depth first
// in attribute name order
func Walk(o types.Object, visit func(types.Object) error) error {
	seen := map[string]bool{}

	var walk func(types.Object) error
	walk = func(current types.Object) error {
		if seen[current.ID()] {
			return nil
		}
		seen[current.ID()] = true

		if err := visit(current); err != nil {
			return err
		}

		var related []types.Object
		current.ForEachAttribute(func(attributeType, attributeName string, contents any) {
			if r, ok := contents.(types.Relationship); ok {
				related = append(related, r.Objects()...)
			}
		})

		for _, next := range related {
			if err := walk(next); err != nil {
				return err
			}
		}
		return nil
	}

	return walk(o)
}

// ValueKey renders the type and all properties of an object, but not its
// identifier, into a string. Objects with equal keys are equal by value.
func ValueKey(o types.Object) (string, error) {
	b := strings.Builder{}
	b.WriteString(o.Type())

	var err error
	o.ForEachAttribute(func(attributeType, attributeName string, contents any) {
		if err != nil {
			return
		}

		var value []byte
		if r, ok := contents.(types.Relationship); ok {
			value, err = json.Marshal(relationships.IDs(r))
		} else {
			value, err = json.Marshal(contents)
		}

		b.WriteString("|" + attributeName + "=")
		b.Write(value)
	})

	if err != nil {
		return "", fmt.Errorf("failed to compute value key for %s: %w", o.ID(), err)
	}

	return b.String(), nil
}
