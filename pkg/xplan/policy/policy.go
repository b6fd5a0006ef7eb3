package policy

import (
	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

// Policy decides which members of a type exist in a schema revision and under
// which wire name. It only reads the catalog and is safe for concurrent use.
type Policy struct {
	catalog *catalog.Registry
}

func New(c *catalog.Registry) *Policy {
	return &Policy{catalog: c}
}

func (p *Policy) Catalog() *catalog.Registry {
	return p.catalog
}

// Member returns the most derived declaration of name that is part of rev
func (p *Policy) Member(typeName, name string, rev version.Revision) (catalog.Member, bool) {
	chain := p.catalog.Chain(typeName)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, m := range chain[i].Members {
			if m.Name == name && m.Applies(rev) {
				return m, true
			}
		}
	}
	return catalog.Member{}, false
}

// MemberApplies reports whether the member is part of the wire format for rev
func (p *Policy) MemberApplies(typeName, name string, rev version.Revision) bool {
	_, ok := p.Member(typeName, name, rev)
	return ok
}

// WireName returns the element name used for the member in rev. Members that do
// not apply to rev keep their own name.
func (p *Policy) WireName(typeName, name string, rev version.Revision) string {
	if m, ok := p.Member(typeName, name, rev); ok {
		return m.WireName
	}
	return name
}

// Resolve finds the live member behind a wire element name, preferring the most
// derived declaration that fits the revision
func (p *Policy) Resolve(typeName, wireName string, rev version.Revision) (catalog.Member, bool) {
	chain := p.catalog.Chain(typeName)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, m := range chain[i].Members {
			if m.WireName == wireName && m.Applies(rev) {
				return m, true
			}
		}
	}
	return catalog.Member{}, false
}

// Members returns the live members of a type in wire order. Base type members
// precede subtype members, and a member redeclared further down the chain is
// kept only at its most specific position.
func (p *Policy) Members(typeName string, rev version.Revision, includeInherited bool) []catalog.Member {
	chain := p.catalog.Chain(typeName)
	if len(chain) == 0 {
		return nil
	}
	if !includeInherited {
		chain = chain[len(chain)-1:]
	}

	candidates := []catalog.Member{}
	for _, t := range chain {
		for _, m := range t.Members {
			if m.Applies(rev) {
				candidates = append(candidates, m)
			}
		}
	}

	lastIndex := make(map[string]int, len(candidates))
	for idx, m := range candidates {
		lastIndex[m.Name] = idx
	}

	members := make([]catalog.Member, 0, len(candidates))
	for idx, m := range candidates {
		if lastIndex[m.Name] == idx {
			members = append(members, m)
		}
	}

	return members
}

// MemberOrder returns the names of the live members of a type in wire order
func (p *Policy) MemberOrder(typeName string, rev version.Revision, includeInherited bool) []string {
	members := p.Members(typeName, rev, includeInherited)
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}
	return names
}
