package enums

import (
	"strings"

	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

// Value is one member of an enumeration. Code is the canonical wire value.
type Value struct {
	Code string
	Name string
	Mask version.Mask
}

type Enumeration struct {
	Name   string
	Values []Value

	byCode map[string]int
	byName map[string]int
}

// ByCode looks a value up by its canonical (usually numeric) code
func (e *Enumeration) ByCode(code string) (Value, bool) {
	idx, ok := e.byCode[strings.TrimSpace(code)]
	if !ok {
		return Value{}, false
	}
	return e.Values[idx], true
}

// ByName looks a value up by its symbolic name, ignoring case
func (e *Enumeration) ByName(name string) (Value, bool) {
	idx, ok := e.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Value{}, false
	}
	return e.Values[idx], true
}

// Lookup tries the numeric code first and falls back to the symbolic name
func (e *Enumeration) Lookup(text string) (Value, bool) {
	if v, ok := e.ByCode(text); ok {
		return v, true
	}
	return e.ByName(text)
}

// Migration maps a value of one enumeration onto its counterpart in another
// (or the same) enumeration, used when the live member for a revision changes domain.
type Migration struct {
	FromEnum string
	FromCode string
	ToEnum   string
	ToCode   string
}

type Registry struct {
	enumerations map[string]*Enumeration
	migrations   map[migrationKey]Migration
}

type migrationKey struct {
	fromEnum, fromCode, toEnum string
}

// NewRegistry builds an immutable registry from the given enumerations and migrations
func NewRegistry(enumerations []Enumeration, migrations []Migration) *Registry {
	r := &Registry{
		enumerations: make(map[string]*Enumeration, len(enumerations)),
		migrations:   make(map[migrationKey]Migration, len(migrations)),
	}

	for i := range enumerations {
		e := enumerations[i]
		e.Values = append([]Value(nil), e.Values...)
		e.byCode = make(map[string]int, len(e.Values))
		e.byName = make(map[string]int, len(e.Values))

		for idx, v := range e.Values {
			if v.Mask == version.None {
				e.Values[idx].Mask = version.All
			}
			e.byCode[v.Code] = idx
			e.byName[strings.ToLower(v.Name)] = idx
		}

		r.enumerations[e.Name] = &e
	}

	for _, m := range migrations {
		r.migrations[migrationKey{m.FromEnum, m.FromCode, m.ToEnum}] = m
	}

	return r
}

// Default returns a registry holding the enumerations of the supported schema revisions
func Default() *Registry {
	return NewRegistry(definitions(), migrations())
}

func (r *Registry) Get(name string) (*Enumeration, bool) {
	e, ok := r.enumerations[name]
	return e, ok
}

// Migrate converts a value of enumeration fromEnum into the enumeration toEnum and
// returns the target value if it is valid for rev. Identical enumerations are
// checked directly against the revision mask of the value.
func (r *Registry) Migrate(fromEnum, code, toEnum string, rev version.Revision) (Value, bool) {
	if fromEnum == toEnum || fromEnum == "" {
		target, ok := r.Get(toEnum)
		if !ok {
			return Value{}, false
		}
		v, ok := target.ByCode(code)
		if ok && v.Mask.Includes(rev) {
			return v, true
		}
		if fromEnum == "" {
			return Value{}, false
		}
	}

	m, ok := r.migrations[migrationKey{fromEnum, code, toEnum}]
	if !ok {
		return Value{}, false
	}

	target, ok := r.Get(m.ToEnum)
	if !ok {
		return Value{}, false
	}

	v, ok := target.ByCode(m.ToCode)
	if !ok || !v.Mask.Includes(rev) {
		return Value{}, false
	}

	return v, true
}
