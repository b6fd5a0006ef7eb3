package properties

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/diwise/xplan-gml/pkg/xplan/types"
)

const (
	TypeText     string = "Text"
	TypeTextList string = "TextList"
	TypeInteger  string = "Integer"
	TypeNumber   string = "Number"
	TypeBool     string = "Bool"
	TypeDate     string = "Date"
	TypeDateList string = "DateList"
	TypeEnum     string = "Enum"
	TypeEnumList string = "EnumList"
	TypeBinary   string = "Binary"
)

// DateFormat is the fixed wire format of date values
const DateFormat string = "2006-01-02"

// PropertyImpl contains the mandatory Type property
type PropertyImpl struct {
	Type string `json:"type"`
}

// TextProperty stores values of type text
type TextProperty struct {
	PropertyImpl
	Val string `json:"value"`
}

func (tp *TextProperty) Type() string {
	return tp.PropertyImpl.Type
}

func (tp *TextProperty) Value() any {
	return tp.Val
}

// NewTextProperty accepts a value as a string and returns a new TextProperty
func NewTextProperty(value string) *TextProperty {
	return &TextProperty{
		PropertyImpl: PropertyImpl{Type: TypeText},
		Val:          value,
	}
}

// TextListProperty stores values of type text list
type TextListProperty struct {
	PropertyImpl
	Val []string `json:"value"`
}

func (tlp *TextListProperty) Type() string {
	return tlp.PropertyImpl.Type
}

func (tlp *TextListProperty) Value() any {
	return tlp.Val
}

// NewTextListProperty accepts a value as a string array and returns a new TextListProperty
func NewTextListProperty(value []string) *TextListProperty {
	return &TextListProperty{
		PropertyImpl: PropertyImpl{Type: TypeTextList},
		Val:          value,
	}
}

type IntegerProperty struct {
	PropertyImpl
	Val int64 `json:"value"`
}

func (ip *IntegerProperty) Type() string {
	return ip.PropertyImpl.Type
}

func (ip *IntegerProperty) Value() any {
	return ip.Val
}

func NewIntegerProperty(value int64) *IntegerProperty {
	return &IntegerProperty{
		PropertyImpl: PropertyImpl{Type: TypeInteger},
		Val:          value,
	}
}

// NumberProperty holds a float64 Value and an optional unit of measure
type NumberProperty struct {
	PropertyImpl
	Val      float64 `json:"value"`
	UnitCode *string `json:"unitCode,omitempty"`
}

func (np *NumberProperty) Type() string {
	return np.PropertyImpl.Type
}

func (np *NumberProperty) Value() any {
	return np.Val
}

func (np *NumberProperty) Unit() string {
	if np.UnitCode != nil {
		return *np.UnitCode
	}
	return ""
}

type NumberPropertyDecoratorFunc func(np *NumberProperty)

func UnitCode(code string) NumberPropertyDecoratorFunc {
	return func(np *NumberProperty) {
		if code != "" {
			np.UnitCode = &code
		}
	}
}

// NewNumberProperty is a convenience function for creating NumberProperty instances
func NewNumberProperty(value float64, decorators ...NumberPropertyDecoratorFunc) *NumberProperty {
	np := &NumberProperty{
		PropertyImpl: PropertyImpl{Type: TypeNumber},
		Val:          value,
	}

	for _, decorator := range decorators {
		decorator(np)
	}

	return np
}

type BoolProperty struct {
	PropertyImpl
	Val bool `json:"value"`
}

func (bp *BoolProperty) Type() string {
	return bp.PropertyImpl.Type
}

func (bp *BoolProperty) Value() any {
	return bp.Val
}

func NewBoolProperty(value bool) *BoolProperty {
	return &BoolProperty{
		PropertyImpl: PropertyImpl{Type: TypeBool},
		Val:          value,
	}
}

// DateProperty stores a calendar date without time of day
type DateProperty struct {
	PropertyImpl
	Val time.Time `json:"-"`
}

func (dp *DateProperty) Type() string {
	return dp.PropertyImpl.Type
}

func (dp *DateProperty) Value() any {
	return dp.Val
}

func (dp *DateProperty) String() string {
	return dp.Val.Format(DateFormat)
}

func (dp *DateProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{dp.PropertyImpl.Type, dp.String()})
}

// NewDateProperty truncates the time stamp to its date in UTC
func NewDateProperty(value time.Time) *DateProperty {
	return &DateProperty{
		PropertyImpl: PropertyImpl{Type: TypeDate},
		Val:          truncate(value),
	}
}

// NewDatePropertyFromString parses a value in DateFormat
func NewDatePropertyFromString(value string) (*DateProperty, error) {
	t, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return NewDateProperty(t), nil
}

// DateListProperty stores an ordered list of dates
type DateListProperty struct {
	PropertyImpl
	Val []time.Time `json:"-"`
}

func (dlp *DateListProperty) Type() string {
	return dlp.PropertyImpl.Type
}

func (dlp *DateListProperty) Value() any {
	return dlp.Val
}

func (dlp *DateListProperty) Strings() []string {
	values := make([]string, 0, len(dlp.Val))
	for _, d := range dlp.Val {
		values = append(values, d.Format(DateFormat))
	}
	return values
}

func (dlp *DateListProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string   `json:"type"`
		Value []string `json:"value"`
	}{dlp.PropertyImpl.Type, dlp.Strings()})
}

func NewDateListProperty(values ...time.Time) *DateListProperty {
	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		dates = append(dates, truncate(v))
	}
	return &DateListProperty{
		PropertyImpl: PropertyImpl{Type: TypeDateList},
		Val:          dates,
	}
}

// EnumProperty stores the canonical code of an enumeration value. Codes that
// could not be resolved against the enumeration are kept verbatim.
type EnumProperty struct {
	PropertyImpl
	Enum string `json:"enum"`
	Code string `json:"value"`
}

func (ep *EnumProperty) Type() string {
	return ep.PropertyImpl.Type
}

func (ep *EnumProperty) Value() any {
	return ep.Code
}

func NewEnumProperty(enum, code string) *EnumProperty {
	return &EnumProperty{
		PropertyImpl: PropertyImpl{Type: TypeEnum},
		Enum:         enum,
		Code:         code,
	}
}

// EnumListProperty stores an ordered list of codes of a single enumeration
type EnumListProperty struct {
	PropertyImpl
	Enum  string   `json:"enum"`
	Codes []string `json:"value"`
}

func (elp *EnumListProperty) Type() string {
	return elp.PropertyImpl.Type
}

func (elp *EnumListProperty) Value() any {
	return elp.Codes
}

func NewEnumListProperty(enum string, codes ...string) *EnumListProperty {
	return &EnumListProperty{
		PropertyImpl: PropertyImpl{Type: TypeEnumList},
		Enum:         enum,
		Codes:        append([]string{}, codes...),
	}
}

// BinaryProperty carries an already materialized payload, such as the file
// behind an external reference
type BinaryProperty struct {
	PropertyImpl
	Val []byte `json:"value"`
}

func (bp *BinaryProperty) Type() string {
	return bp.PropertyImpl.Type
}

func (bp *BinaryProperty) Value() any {
	return bp.Val
}

func NewBinaryProperty(value []byte) *BinaryProperty {
	return &BinaryProperty{
		PropertyImpl: PropertyImpl{Type: TypeBinary},
		Val:          value,
	}
}

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateFormat, value)
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// UnmarshalP decodes a property from its JSON envelope
func UnmarshalP(body map[string]any) (types.Property, error) {
	propertyType, ok := body["type"].(string)
	if !ok {
		return nil, fmt.Errorf("properties without a type attribute are not supported")
	}

	value, ok := body["value"]
	if !ok {
		return nil, fmt.Errorf("properties without a value attribute are not supported")
	}

	switch propertyType {
	case TypeText:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("text property value not convertible to string")
		}
		return NewTextProperty(str), nil
	case TypeTextList:
		return NewTextListProperty(toStrings(value)), nil
	case TypeInteger:
		f, ok := value.(float64)
		if !ok {
			return nil, fmt.Errorf("integer property value not convertible to a number")
		}
		return NewIntegerProperty(int64(f)), nil
	case TypeNumber:
		f, ok := value.(float64)
		if !ok {
			return nil, fmt.Errorf("number property value not convertible to float64")
		}
		np := NewNumberProperty(f)
		if unit, ok := body["unitCode"].(string); ok {
			np.UnitCode = &unit
		}
		return np, nil
	case TypeBool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("bool property value not convertible to bool")
		}
		return NewBoolProperty(b), nil
	case TypeDate:
		str, _ := value.(string)
		dp, err := NewDatePropertyFromString(str)
		if err != nil {
			return nil, fmt.Errorf("date property holds an invalid date: %w", err)
		}
		return dp, nil
	case TypeDateList:
		dates := []time.Time{}
		for _, s := range toStrings(value) {
			d, err := ParseDate(s)
			if err != nil {
				return nil, fmt.Errorf("date list property holds an invalid date: %w", err)
			}
			dates = append(dates, d)
		}
		return NewDateListProperty(dates...), nil
	case TypeEnum:
		enum, _ := body["enum"].(string)
		code, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("enum property value not convertible to string")
		}
		return NewEnumProperty(enum, code), nil
	case TypeEnumList:
		enum, _ := body["enum"].(string)
		return NewEnumListProperty(enum, toStrings(value)...), nil
	case TypeBinary:
		// []byte values are base64 encoded by encoding/json
		b, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		var payload []byte
		if err := json.Unmarshal(b, &payload); err != nil {
			return nil, fmt.Errorf("binary property value is not base64: %w", err)
		}
		return NewBinaryProperty(payload), nil
	default:
		return nil, fmt.Errorf("property of type %s not supported", propertyType)
	}
}

func toStrings(value any) []string {
	values := []string{}
	list, ok := value.([]any)
	if !ok {
		return values
	}
	for _, v := range list {
		if str, ok := v.(string); ok {
			values = append(values, str)
		}
	}
	return values
}
