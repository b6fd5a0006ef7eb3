package objects

import (
	"time"

	"github.com/diwise/xplan-gml/pkg/xplan/geometry"
	"github.com/diwise/xplan-gml/pkg/xplan/types"
	"github.com/diwise/xplan-gml/pkg/xplan/types/properties"
	"github.com/diwise/xplan-gml/pkg/xplan/types/relationships"
)

func Text(name, value string) ObjectDecoratorFunc {
	return P(name, properties.NewTextProperty(value))
}

func Integer(name string, value int64) ObjectDecoratorFunc {
	return P(name, properties.NewIntegerProperty(value))
}

func Number(name string, value float64, decorators ...properties.NumberPropertyDecoratorFunc) ObjectDecoratorFunc {
	return P(name, properties.NewNumberProperty(value, decorators...))
}

func Bool(name string, value bool) ObjectDecoratorFunc {
	return P(name, properties.NewBoolProperty(value))
}

func Date(name string, value time.Time) ObjectDecoratorFunc {
	return P(name, properties.NewDateProperty(value))
}

func DateList(name string, values ...time.Time) ObjectDecoratorFunc {
	return P(name, properties.NewDateListProperty(values...))
}

func Enum(name, enum, code string) ObjectDecoratorFunc {
	return P(name, properties.NewEnumProperty(enum, code))
}

func EnumList(name, enum string, codes ...string) ObjectDecoratorFunc {
	return P(name, properties.NewEnumListProperty(enum, codes...))
}

func Geometry(name string, g geometry.Geometry) ObjectDecoratorFunc {
	return P(name, geometry.NewProperty(g))
}

// Compose holds the given data objects inline
func Compose(name string, objs ...types.Object) ObjectDecoratorFunc {
	return R(name, relationships.NewMultiObjectRelationship(relationships.TypeComposition, objs))
}

func ComposeOne(name string, obj types.Object) ObjectDecoratorFunc {
	return R(name, relationships.NewSingleObjectRelationship(relationships.TypeComposition, obj))
}

// Link references the given features
func Link(name string, objs ...types.Object) ObjectDecoratorFunc {
	return R(name, relationships.NewMultiObjectRelationship(relationships.TypeReference, objs))
}

func LinkOne(name string, obj types.Object) ObjectDecoratorFunc {
	return R(name, relationships.NewSingleObjectRelationship(relationships.TypeReference, obj))
}
