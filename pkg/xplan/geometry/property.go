package geometry

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

const TypeGeometry string = "Geometry"

type PropertyImpl struct {
	Type string `json:"type"`
}

// Property wraps a geometry as an object property
type Property struct {
	PropertyImpl
	Val Geometry `json:"-"`
}

func (gp *Property) Type() string {
	return gp.PropertyImpl.Type
}

func (gp *Property) Value() any {
	return gp.Val
}

func (gp *Property) Geometry() Geometry {
	return gp.Val
}

func (gp *Property) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string            `json:"type"`
		CRS   string            `json:"crs"`
		Value *geojson.Geometry `json:"value"`
	}{gp.PropertyImpl.Type, gp.Val.CRS.String(), geojson.NewGeometry(gp.Val.Geom)})
}

func NewProperty(g Geometry) *Property {
	return &Property{
		PropertyImpl: PropertyImpl{Type: TypeGeometry},
		Val:          g,
	}
}

// UnmarshalG decodes a geometry property from its JSON envelope
func UnmarshalG(body map[string]any) (*Property, error) {
	crsName, _ := body["crs"].(string)
	crs, err := ParseCRS(crsName)
	if err != nil {
		return nil, err
	}

	value, ok := body["value"]
	if !ok {
		return nil, fmt.Errorf("geometry properties without a value attribute are not supported")
	}

	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	g, err := geojson.UnmarshalGeometry(b)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal geometry: %w", err)
	}

	return NewProperty(New(g.Geometry(), crs)), nil
}
