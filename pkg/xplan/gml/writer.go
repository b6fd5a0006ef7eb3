package gml

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/beevik/etree"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel/attribute"

	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	"github.com/diwise/xplan-gml/pkg/xplan/coerce"
	xerrors "github.com/diwise/xplan-gml/pkg/xplan/errors"
	"github.com/diwise/xplan-gml/pkg/xplan/geometry"
	"github.com/diwise/xplan-gml/pkg/xplan/policy"
	"github.com/diwise/xplan-gml/pkg/xplan/types"
	"github.com/diwise/xplan-gml/pkg/xplan/types/objects"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

// ValueOverride may replace the stored value of a member while writing. It
// returns false to keep the stored value and a nil property to omit the member.
type ValueOverride func(o types.Object, m catalog.Member) (types.Property, bool)

type WriterOption func(*Writer)

func WithIndent(spaces int) WriterOption {
	return func(w *Writer) {
		w.indent = spaces
	}
}

func WithValueOverride(override ValueOverride) WriterOption {
	return func(w *Writer) {
		w.override = override
	}
}

// Writer encodes object graphs as XPlanGML documents. It never modifies the
// graph and may be shared between goroutines.
type Writer struct {
	catalog  *catalog.Registry
	policy   *policy.Policy
	coercer  *coerce.Coercer
	indent   int
	override ValueOverride
}

func NewWriter(c *catalog.Registry, options ...WriterOption) *Writer {
	w := &Writer{
		catalog: c,
		policy:  policy.New(c),
		coercer: coerce.New(c),
		indent:  2,
	}

	for _, option := range options {
		option(w)
	}

	return w
}

// Write encodes plan and everything reachable from it for revision rev
func (w *Writer) Write(ctx context.Context, plan types.Object, rev version.Revision, out io.Writer) (err error) {
	ctx, span := tracer.Start(ctx, "write-document")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(attribute.String("revision", rev.String()), attribute.String("plan_id", plan.ID()))

	info, ok := w.catalog.Lookup(plan.Type())
	if !ok {
		err = xerrors.NewUnknownTypeError(plan.Type())
		return err
	}
	if info.Root != catalog.RootPlan || info.Abstract {
		err = xerrors.NewInvalidGraphError(fmt.Sprintf("%s is not a concrete plan type", plan.Type()))
		return err
	}
	if len(objects.Related(plan, "bereich")) == 0 {
		err = xerrors.NewInvalidGraphError(fmt.Sprintf("plan %s has no region", plan.ID()))
		return err
	}

	s := &writeState{
		Writer:   w,
		log:      logging.GetFromContext(ctx).With("revision", rev.String()),
		rev:      rev,
		inverses: map[string]map[string]types.Object{},
		queued:   map[string]bool{},
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(prefixXPlan + ":" + rootElement)
	root.CreateAttr("xmlns:"+prefixXPlan, rev.Namespace())
	root.CreateAttr("xmlns:gml", NamespaceGML)
	root.CreateAttr("xmlns:xlink", NamespaceXLink)
	root.CreateAttr("xmlns:wfs", NamespaceWFS)
	root.CreateAttr("gml:id", DocumentID(objects.NewID()))

	area, ok := geometryOf(plan, "raeumlicherGeltungsbereich")
	if !ok {
		err = xerrors.NewMissingGeometryError(fmt.Sprintf("plan %s has no area of applicability", plan.ID()))
		return err
	}
	root.CreateElement("gml:boundedBy").AddChild(geometry.EncodeEnvelope(area.Envelope(), area.CRS))

	if err = s.collectInverses(plan); err != nil {
		return err
	}

	s.enqueue(plan)
	for len(s.queue) > 0 {
		o := s.queue[0]
		s.queue = s.queue[1:]

		var feature *etree.Element
		feature, err = s.writeFeature(o)
		if err != nil {
			return err
		}
		root.CreateElement("gml:featureMember").AddChild(feature)
	}

	doc.Indent(w.indent)
	if _, err = doc.WriteTo(out); err != nil {
		err = fmt.Errorf("failed to write document: %w", err)
		return err
	}

	s.log.Info("document written", "plan_id", plan.ID(), "features", len(s.queued))

	return nil
}

type writeState struct {
	*Writer

	log *slog.Logger
	rev version.Revision

	// back-references derived from ownership, by target id and member name
	inverses map[string]map[string]types.Object

	queue  []types.Object
	queued map[string]bool
}

func (s *writeState) enqueue(o types.Object) {
	if s.queued[o.ID()] {
		return
	}
	s.queued[o.ID()] = true
	s.queue = append(s.queue, o)
}

// collectInverses records for every feature which owner references it, so that
// back-references can be written without being stored in the graph
func (s *writeState) collectInverses(plan types.Object) error {
	return objects.Walk(plan, func(o types.Object) error {
		info, ok := s.catalog.Lookup(o.Type())
		if !ok {
			return xerrors.NewUnknownTypeError(o.Type())
		}
		if !info.Root.IsFeature() {
			return nil
		}

		for _, m := range s.policy.Members(o.Type(), s.rev, true) {
			if m.Kind != catalog.KindReference || m.Inverse {
				continue
			}
			for _, target := range objects.Related(o, m.Name) {
				inverse, ok := s.inverseMember(target.Type(), o.Type())
				if !ok {
					continue
				}
				if s.inverses[target.ID()] == nil {
					s.inverses[target.ID()] = map[string]types.Object{}
				}
				if _, exists := s.inverses[target.ID()][inverse.Name]; !exists {
					s.inverses[target.ID()][inverse.Name] = o
				}
			}
		}
		return nil
	})
}

func (s *writeState) inverseMember(targetType, ownerType string) (catalog.Member, bool) {
	for _, m := range s.policy.Members(targetType, s.rev, true) {
		if m.Inverse && s.catalog.IsA(ownerType, m.Target) {
			return m, true
		}
	}
	return catalog.Member{}, false
}

func (s *writeState) typeOf(o types.Object) (catalog.TypeInfo, error) {
	info, ok := s.catalog.Lookup(o.Type())
	if !ok {
		return catalog.TypeInfo{}, xerrors.NewUnknownTypeError(o.Type())
	}
	if info.Abstract {
		return catalog.TypeInfo{}, xerrors.NewInvalidGraphError(fmt.Sprintf("object %s has abstract type %s", o.ID(), o.Type()))
	}
	return info, nil
}

func (s *writeState) writeFeature(o types.Object) (*etree.Element, error) {
	info, err := s.typeOf(o)
	if err != nil {
		return nil, err
	}

	switch info.Root {
	case catalog.RootPlan:
		return s.writePlan(o)
	case catalog.RootRegion:
		return s.writeRegion(o)
	case catalog.RootContent:
		return s.writePlanContent(o)
	case catalog.RootPresentation:
		return s.writePresentationObject(o)
	default:
		return nil, xerrors.NewInvalidGraphError(fmt.Sprintf("data object %s of type %s cannot be written as a feature", o.ID(), o.Type()))
	}
}

func (s *writeState) writePlan(o types.Object) (*etree.Element, error) {
	return s.writeFeatureElement(o)
}

func (s *writeState) writeRegion(o types.Object) (*etree.Element, error) {
	return s.writeFeatureElement(o)
}

func (s *writeState) writePlanContent(o types.Object) (*etree.Element, error) {
	return s.writeFeatureElement(o)
}

func (s *writeState) writePresentationObject(o types.Object) (*etree.Element, error) {
	return s.writeFeatureElement(o)
}

func (s *writeState) writeFeatureElement(o types.Object) (*etree.Element, error) {
	el := etree.NewElement(prefixXPlan + ":" + o.Type())
	el.CreateAttr("gml:id", DocumentID(o.ID()))

	if g, ok := s.firstGeometry(o); ok {
		el.CreateElement("gml:boundedBy").AddChild(geometry.EncodeEnvelope(g.Envelope(), g.CRS))
	}

	if err := s.writeAttributes(o, el); err != nil {
		return nil, err
	}

	return el, nil
}

// writeSubObject writes an inline data object such as an external reference
func (s *writeState) writeSubObject(o types.Object) (*etree.Element, error) {
	info, err := s.typeOf(o)
	if err != nil {
		return nil, err
	}
	if info.Root != catalog.RootData {
		return nil, xerrors.NewInvalidGraphError(fmt.Sprintf("feature %s cannot be written inline", o.ID()))
	}

	el := etree.NewElement(prefixXPlan + ":" + o.Type())
	if err := s.writeAttributes(o, el); err != nil {
		return nil, err
	}

	if s.catalog.IsA(o.Type(), "XP_ExterneReferenz") {
		if !hasChild(el, "referenzName") && !hasChild(el, "referenzURL") {
			return nil, xerrors.NewInvalidReferenceError(fmt.Sprintf("external reference %s has neither name nor url", o.ID()))
		}
	}

	return el, nil
}

// writeAttributes writes all members applying to the revision in member order
func (s *writeState) writeAttributes(o types.Object, el *etree.Element) error {
	for _, m := range s.policy.Members(o.Type(), s.rev, true) {
		tag := prefixXPlan + ":" + m.WireName

		switch {
		case m.Inverse:
			if owner, ok := s.inverses[o.ID()][m.Name]; ok {
				el.CreateElement(tag).CreateAttr("xlink:href", "#"+DocumentID(owner.ID()))
			}

		case m.Kind == catalog.KindReference:
			for _, target := range objects.Related(o, m.Name) {
				if _, err := s.typeOf(target); err != nil {
					return err
				}
				el.CreateElement(tag).CreateAttr("xlink:href", "#"+DocumentID(target.ID()))
				s.enqueue(target)
			}

		case m.Kind == catalog.KindComposition:
			for _, target := range objects.Related(o, m.Name) {
				sub, err := s.writeSubObject(target)
				if err != nil {
					return err
				}
				el.CreateElement(tag).AddChild(sub)
			}

		default:
			if err := s.writeValue(o, m, el, tag); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *writeState) writeValue(o types.Object, m catalog.Member, el *etree.Element, tag string) error {
	p, ok := o.Property(m.Name)

	if s.override != nil {
		if replacement, replaced := s.override(o, m); replaced {
			p, ok = replacement, replacement != nil
		}
	}

	if !ok {
		if m.Kind == catalog.KindGeometry && m.Required {
			return xerrors.NewMissingGeometryError(fmt.Sprintf("%s %s has no %s", o.Type(), o.ID(), m.Name))
		}
		return nil
	}

	values, err := s.coercer.Encode(m, p, s.rev, func() string { return DocumentID(objects.NewID()) })
	if err != nil {
		return fmt.Errorf("%s %s: %w", o.Type(), o.ID(), err)
	}

	if len(values) == 0 && (m.Kind == catalog.KindEnum || m.Kind == catalog.KindEnumList) {
		s.log.Debug("enumeration value not valid in revision, skipped", "id", o.ID(), "member", m.Name)
	}

	for _, v := range values {
		child := el.CreateElement(tag)
		if v.Geometry != nil {
			child.AddChild(v.Geometry)
			continue
		}
		if v.UoM != "" {
			child.CreateAttr("uom", v.UoM)
		}
		child.SetText(v.Text)
	}

	return nil
}

// firstGeometry returns the first geometry in member order, used for the
// bounding envelope of a feature
func (s *writeState) firstGeometry(o types.Object) (geometry.Geometry, bool) {
	for _, m := range s.policy.Members(o.Type(), s.rev, true) {
		if m.Kind != catalog.KindGeometry {
			continue
		}
		if g, ok := geometryOf(o, m.Name); ok {
			return g, true
		}
	}
	return geometry.Geometry{}, false
}

func geometryOf(o types.Object, name string) (geometry.Geometry, bool) {
	p, ok := o.Property(name)
	if !ok {
		return geometry.Geometry{}, false
	}
	gp, ok := p.(*geometry.Property)
	if !ok {
		return geometry.Geometry{}, false
	}
	return gp.Val, true
}

func hasChild(el *etree.Element, tag string) bool {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return true
		}
	}
	return false
}
