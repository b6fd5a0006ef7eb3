package errors

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingCRS = fmt.Errorf("missing coordinate reference system")
var ErrNoPlan = fmt.Errorf("no plan")
var ErrUnknownType = fmt.Errorf("unknown type")
var ErrMissingGeometry = fmt.Errorf("missing geometry")
var ErrUnresolvedReference = fmt.Errorf("unresolved reference")
var ErrCoercion = fmt.Errorf("coercion failed")
var ErrMalformedGeometry = fmt.Errorf("malformed geometry")
var ErrInvalidReference = fmt.Errorf("invalid external reference")
var ErrNotFound = fmt.Errorf("not found")
var ErrInvalidGraph = fmt.Errorf("invalid object graph")

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func NewMissingCRSError(msg string) error {
	return &myError{msg: msg, target: ErrMissingCRS}
}

func NewNoPlanError(msg string) error {
	return &myError{msg: msg, target: ErrNoPlan}
}

func NewUnknownTypeError(typeName string) error {
	return &myError{
		msg:    fmt.Sprintf("type %s is not known to the catalog", typeName),
		target: ErrUnknownType,
	}
}

func NewMissingGeometryError(msg string) error {
	return &myError{msg: msg, target: ErrMissingGeometry}
}

func NewUnresolvedReferenceError(href string) error {
	return &myError{
		msg:    fmt.Sprintf("reference %s could not be resolved", href),
		target: ErrUnresolvedReference,
	}
}

func NewCoercionError(msg string) error {
	return &myError{msg: msg, target: ErrCoercion}
}

func NewMalformedGeometryError(msg string) error {
	return &myError{msg: msg, target: ErrMalformedGeometry}
}

func NewInvalidReferenceError(msg string) error {
	return &myError{msg: msg, target: ErrInvalidReference}
}

func NewNotFoundError(msg string) error {
	return &myError{msg: msg, target: ErrNotFound}
}

func NewInvalidGraphError(msg string) error {
	return &myError{msg: msg, target: ErrInvalidGraph}
}

// Diagnostic is a non-fatal problem found while processing a single node. The
// offending member or object was skipped.
type Diagnostic struct {
	ObjectID string
	Type     string
	Member   string
	Err      error
}

func (d Diagnostic) Error() string {
	b := strings.Builder{}
	b.WriteString(d.Type)
	if d.ObjectID != "" {
		b.WriteString("(" + d.ObjectID + ")")
	}
	if d.Member != "" {
		b.WriteString("." + d.Member)
	}
	b.WriteString(": ")
	if d.Err != nil {
		b.WriteString(d.Err.Error())
	}
	return b.String()
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

type Diagnostics []Diagnostic

func (ds *Diagnostics) Add(objectID, typeName, member string, err error) {
	*ds = append(*ds, Diagnostic{ObjectID: objectID, Type: typeName, Member: member, Err: err})
}

// Count returns the number of diagnostics matching target
func (ds Diagnostics) Count(target error) int {
	n := 0
	for _, d := range ds {
		if errors.Is(d, target) {
			n++
		}
	}
	return n
}

// Err joins all diagnostics into a single error, or nil when there are none
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	errs := make([]error, 0, len(ds))
	for _, d := range ds {
		errs = append(errs, d)
	}
	return errors.Join(errs...)
}
