package gml

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/diwise/xplan-gml/pkg/xplan/geometry"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

const (
	NamespaceGML   string = geometry.Namespace
	NamespaceXLink string = "http://www.w3.org/1999/xlink"
	NamespaceWFS   string = "http://www.opengis.net/wfs/2.0"

	prefixXPlan string = "xplan"
	idPrefix    string = "GML_"

	rootElement string = "XPlanAuszug"
)

// DocumentID returns the document local identifier of an object id
func DocumentID(objectID string) string {
	return idPrefix + objectID
}

// ObjectID strips the document local prefix from a gml:id
func ObjectID(documentID string) string {
	return strings.TrimPrefix(documentID, idPrefix)
}

// detectRevision finds the XPlanGML namespace declared on the root element
func detectRevision(root *etree.Element) (version.Revision, bool) {
	for _, a := range root.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			if rev, ok := version.FromNamespace(a.Value); ok {
				return rev, true
			}
		}
	}
	return "", false
}

func attrValue(el *etree.Element, namespace, key string) string {
	for i := range el.Attr {
		a := &el.Attr[i]
		if a.Key == key && a.NamespaceURI() == namespace {
			return a.Value
		}
	}
	return ""
}

func gmlID(el *etree.Element) string {
	return attrValue(el, NamespaceGML, "id")
}

func href(el *etree.Element) string {
	return attrValue(el, NamespaceXLink, "href")
}

func in(el *etree.Element, namespace string) bool {
	return el.NamespaceURI() == namespace
}

// index maps document local identifiers to their elements in a single pass
type index map[string]*etree.Element

func buildIndex(root *etree.Element) index {
	idx := index{}

	var visit func(el *etree.Element)
	visit = func(el *etree.Element) {
		if id := gmlID(el); id != "" {
			if _, exists := idx[id]; !exists {
				idx[id] = el
			}
		}
		for _, c := range el.ChildElements() {
			visit(c)
		}
	}
	visit(root)

	return idx
}

// lookup resolves a same document reference of the form #id
func (idx index) lookup(ref string) (*etree.Element, bool) {
	if !strings.HasPrefix(ref, "#") {
		return nil, false
	}
	el, ok := idx[strings.TrimPrefix(ref, "#")]
	return el, ok
}

// featureMembers returns the features wrapped by the member elements of the
// root in document order
func featureMembers(root *etree.Element) []*etree.Element {
	features := []*etree.Element{}
	for _, c := range root.ChildElements() {
		switch {
		case in(c, NamespaceGML) && (c.Tag == "featureMember" || c.Tag == "featureMembers"):
			features = append(features, c.ChildElements()...)
		case in(c, NamespaceWFS) && c.Tag == "member":
			features = append(features, c.ChildElements()...)
		}
	}
	return features
}
