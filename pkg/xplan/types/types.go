package types

// Object is a node of the plan object graph. The concrete type is carried as a
// discriminator string that is resolved through the type catalog.
type Object interface {
	ID() string
	Type() string

	Property(name string) (Property, bool)
	Relationship(name string) (Relationship, bool)
	SetProperty(name string, p Property)
	SetRelationship(name string, r Relationship)
	RemoveAttribute(name string)

	ForEachAttribute(func(attributeType, attributeName string, contents any)) error
	MarshalJSON() ([]byte, error)
}

type Property interface {
	Type() string
	Value() any
}

type Relationship interface {
	Type() string
	Objects() []Object
}
