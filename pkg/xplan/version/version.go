package version

import (
	"fmt"
	"strings"
)

// Revision identifies one of the supported revisions of the PlanGML schema
type Revision string

const (
	V5_3 Revision = "5.3"
	V6_0 Revision = "6.0"
)

const (
	NamespaceV5_3 string = "http://www.xplanung.de/xplangml/5/3"
	NamespaceV6_0 string = "http://www.xplanung.de/xplangml/6/0"

	NamespaceGML   string = "http://www.opengis.net/gml/3.2"
	NamespaceXLink string = "http://www.w3.org/1999/xlink"
	NamespaceWFS   string = "http://www.opengis.net/wfs/2.0"
)

// Revisions lists every supported revision, oldest first
var Revisions = []Revision{V5_3, V6_0}

func (r Revision) String() string {
	return string(r)
}

// Namespace returns the xplan namespace URL bound to the schema prefix for r
func (r Revision) Namespace() string {
	switch r {
	case V5_3:
		return NamespaceV5_3
	case V6_0:
		return NamespaceV6_0
	default:
		return ""
	}
}

func (r Revision) mask() Mask {
	switch r {
	case V5_3:
		return 1 << 0
	case V6_0:
		return 1 << 1
	default:
		return 0
	}
}

// FromNamespace maps a declared xplan namespace URL to its revision
func FromNamespace(url string) (Revision, bool) {
	switch strings.TrimSuffix(strings.TrimSpace(url), "/") {
	case NamespaceV5_3:
		return V5_3, true
	case NamespaceV6_0:
		return V6_0, true
	default:
		return "", false
	}
}

// Parse accepts "5.3", "6.0" and the short forms "53", "60", "6"
func Parse(s string) (Revision, error) {
	switch strings.TrimSpace(s) {
	case "5.3", "53":
		return V5_3, nil
	case "6.0", "60", "6":
		return V6_0, nil
	default:
		return "", fmt.Errorf("unsupported schema revision %q", s)
	}
}

// Mask is a set of revisions a member or enumeration value belongs to
type Mask uint8

const (
	None Mask = 0
	All  Mask = 1<<0 | 1<<1
)

// Only builds a mask containing exactly the given revisions
func Only(revisions ...Revision) Mask {
	var m Mask
	for _, r := range revisions {
		m |= r.mask()
	}
	return m
}

// Includes reports whether r is part of the mask
func (m Mask) Includes(r Revision) bool {
	bit := r.mask()
	return bit != 0 && m&bit == bit
}

func (m Mask) String() string {
	if m == None {
		return "none"
	}

	names := []string{}
	for _, r := range Revisions {
		if m.Includes(r) {
			names = append(names, string(r))
		}
	}
	return strings.Join(names, ",")
}
