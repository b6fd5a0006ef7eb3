package gml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/beevik/etree"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	"github.com/diwise/xplan-gml/pkg/xplan/coerce"
	xerrors "github.com/diwise/xplan-gml/pkg/xplan/errors"
	"github.com/diwise/xplan-gml/pkg/xplan/policy"
	"github.com/diwise/xplan-gml/pkg/xplan/types"
	"github.com/diwise/xplan-gml/pkg/xplan/types/objects"
	"github.com/diwise/xplan-gml/pkg/xplan/types/relationships"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

var tracer = otel.Tracer("xplan-gml/gml")

// ExistingObjects finds an already persisted object equal by value to o. It is
// consulted for shared data objects such as municipalities.
type ExistingObjects interface {
	FindExisting(ctx context.Context, o types.Object) (types.Object, bool)
}

type ReaderOption func(*Reader)

func WithExistingObjects(lookup ExistingObjects) ReaderOption {
	return func(r *Reader) {
		r.existing = lookup
	}
}

// WithProgress registers a callback invoked each time a feature has been read
func WithProgress(progress func(done, total int)) ReaderOption {
	return func(r *Reader) {
		r.progress = progress
	}
}

// Reader decodes XPlanGML documents into object graphs. A Reader holds no
// per document state and may be shared between goroutines.
type Reader struct {
	catalog  *catalog.Registry
	policy   *policy.Policy
	coercer  *coerce.Coercer
	existing ExistingObjects
	progress func(done, total int)
}

func NewReader(c *catalog.Registry, options ...ReaderOption) *Reader {
	r := &Reader{
		catalog: c,
		policy:  policy.New(c),
		coercer: coerce.New(c),
	}

	for _, option := range options {
		option(r)
	}

	return r
}

type Result struct {
	Plan        types.Object
	Revision    version.Revision
	Diagnostics xerrors.Diagnostics
}

// Read decodes a single document. Node level problems are collected in the
// diagnostics of the result, document level problems are returned as errors.
func (r *Reader) Read(ctx context.Context, in io.Reader) (result *Result, err error) {
	ctx, span := tracer.Start(ctx, "read-document")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	doc := etree.NewDocument()
	if _, err = doc.ReadFrom(in); err != nil {
		err = fmt.Errorf("failed to parse document: %w", err)
		return nil, err
	}

	root := doc.Root()
	if root == nil {
		err = xerrors.NewNoPlanError("document has no root element")
		return nil, err
	}

	rev, ok := detectRevision(root)
	if !ok {
		err = xerrors.NewNoPlanError("document declares no supported XPlanGML namespace")
		return nil, err
	}

	span.SetAttributes(attribute.String("revision", rev.String()))

	s := &readState{
		Reader:   r,
		ctx:      ctx,
		rev:      rev,
		index:    buildIndex(root),
		features: featureMembers(root),
		seen:     map[*etree.Element]types.Object{},
		shared:   map[string]types.Object{},
	}
	s.log = logging.GetFromContext(ctx).With("revision", rev.String())

	planEl, err := s.findPlan()
	if err != nil {
		return nil, err
	}

	plan, err := s.readFeature(planEl)
	if err != nil {
		return nil, err
	}

	if err = s.attachOrphans(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("diagnostics", len(s.diagnostics)))
	s.log.Info("document read", "plan_id", plan.ID(), "type", plan.Type(), "features", s.done, "diagnostics", len(s.diagnostics))

	return &Result{
		Plan:        plan,
		Revision:    rev,
		Diagnostics: s.diagnostics,
	}, nil
}

type readState struct {
	*Reader

	ctx      context.Context
	log      *slog.Logger
	rev      version.Revision
	index    index
	features []*etree.Element

	// elements already turned into objects, which guarantees no node is read twice
	seen   map[*etree.Element]types.Object
	// shared data objects of this document by value
	shared map[string]types.Object

	diagnostics xerrors.Diagnostics
	done        int
}

func (s *readState) typeOf(el *etree.Element) (catalog.TypeInfo, bool) {
	if !in(el, s.rev.Namespace()) {
		return catalog.TypeInfo{}, false
	}
	info, ok := s.catalog.Lookup(el.Tag)
	if !ok || info.Abstract {
		return catalog.TypeInfo{}, false
	}
	return info, true
}

func (s *readState) findPlan() (*etree.Element, error) {
	var plan *etree.Element
	for _, f := range s.features {
		info, ok := s.typeOf(f)
		if !ok || info.Root != catalog.RootPlan {
			continue
		}
		if plan != nil {
			s.log.Warn("document holds more than one plan, ignoring", "id", gmlID(f))
			continue
		}
		plan = f
	}

	if plan == nil {
		return nil, xerrors.NewNoPlanError("document holds no plan feature")
	}
	return plan, nil
}

// readFeature dispatches on the taxonomy root of the element. The returned
// object is nil for elements that are not known concrete types.
func (s *readState) readFeature(el *etree.Element) (types.Object, error) {
	if o, ok := s.seen[el]; ok {
		return o, nil
	}

	info, ok := s.typeOf(el)
	if !ok {
		s.log.Debug("skipping unknown element", "tag", el.Tag)
		return nil, nil
	}

	o := objects.New(ObjectID(gmlID(el)), info.Name)
	s.seen[el] = o

	if info.Root.IsFeature() {
		s.done++
		if s.progress != nil {
			s.progress(s.done, len(s.features))
		}
	}

	switch info.Root {
	case catalog.RootPlan:
		return o, s.readPlan(o, el)
	case catalog.RootRegion:
		return o, s.readRegion(o, el)
	case catalog.RootContent:
		return o, s.readPlanContent(o, el)
	case catalog.RootPresentation:
		return o, s.readPresentation(o, el)
	default:
		return s.readDataObject(o, el)
	}
}

func (s *readState) readPlan(o *objects.ObjectImpl, el *etree.Element) error {
	return s.readMembers(o, el)
}

func (s *readState) readRegion(o *objects.ObjectImpl, el *etree.Element) error {
	return s.readMembers(o, el)
}

func (s *readState) readPlanContent(o *objects.ObjectImpl, el *etree.Element) error {
	return s.readMembers(o, el)
}

func (s *readState) readPresentation(o *objects.ObjectImpl, el *etree.Element) error {
	return s.readMembers(o, el)
}

// readDataObject reads an inline data object and substitutes shared objects
// by an equal one found in this document or by the existing object lookup
func (s *readState) readDataObject(o *objects.ObjectImpl, el *etree.Element) (types.Object, error) {
	if err := s.readMembers(o, el); err != nil {
		return nil, err
	}

	if s.catalog.IsA(o.Type(), "XP_ExterneReferenz") {
		_, hasName := o.Property("referenzName")
		_, hasURL := o.Property("referenzURL")
		if !hasName && !hasURL {
			s.diagnostics.Add(o.ID(), o.Type(), "", xerrors.NewInvalidReferenceError("external reference has neither name nor url"))
			return nil, nil
		}
	}

	info, _ := s.catalog.Lookup(o.Type())
	if !info.Shared {
		return o, nil
	}

	key, err := objects.ValueKey(o)
	if err != nil {
		return nil, err
	}

	if existing, ok := s.shared[key]; ok {
		return existing, nil
	}

	var result types.Object = o
	if s.existing != nil {
		if existing, ok := s.existing.FindExisting(s.ctx, o); ok {
			s.log.Debug("reusing existing object", "type", o.Type(), "id", existing.ID())
			result = existing
		}
	}

	s.shared[key] = result
	s.seen[el] = result

	return result, nil
}

// readMembers reads all child elements of el in document order
func (s *readState) readMembers(o *objects.ObjectImpl, el *etree.Element) error {
	for _, c := range el.ChildElements() {
		if !in(c, s.rev.Namespace()) {
			// gml:boundedBy, gml:name and friends
			continue
		}

		m, ok := s.policy.Resolve(o.Type(), c.Tag, s.rev)
		if !ok {
			s.log.Debug("skipping unknown member", "type", o.Type(), "member", c.Tag)
			continue
		}

		if m.Inverse {
			continue
		}

		if m.IsAssociation() {
			if err := s.readAssociation(o, m, c); err != nil {
				return err
			}
			continue
		}

		current, _ := o.Property(m.Name)
		value, err := s.coercer.Decode(o.Type(), m, c, current)
		if err != nil {
			if errors.Is(err, xerrors.ErrMissingCRS) {
				return fmt.Errorf("%s %s: %w", o.Type(), o.ID(), err)
			}
			s.diagnostics.Add(o.ID(), o.Type(), m.Name, err)
			continue
		}

		o.SetProperty(m.Name, value)
	}

	return nil
}

func (s *readState) readAssociation(o *objects.ObjectImpl, m catalog.Member, el *etree.Element) error {
	var targets []*etree.Element

	if ref := href(el); ref != "" {
		target, ok := s.index.lookup(ref)
		if !ok {
			s.diagnostics.Add(o.ID(), o.Type(), m.Name, xerrors.NewUnresolvedReferenceError(ref))
			return nil
		}
		targets = append(targets, target)
	} else {
		targets = el.ChildElements()
	}

	for _, target := range targets {
		if !s.catalog.IsA(target.Tag, m.Target) {
			s.log.Debug("skipping association target of unexpected type", "member", m.Name, "tag", target.Tag)
			continue
		}

		related, err := s.readFeature(target)
		if err != nil {
			return err
		}
		if related == nil {
			continue
		}

		s.relate(o, m, related)
	}

	return nil
}

func (s *readState) relate(o types.Object, m catalog.Member, related types.Object) {
	relationshipType := relationships.TypeReference
	if m.Kind == catalog.KindComposition {
		relationshipType = relationships.TypeComposition
	}

	if !m.Many {
		o.SetRelationship(m.Name, relationships.NewSingleObjectRelationship(relationshipType, related))
		return
	}

	if r, ok := o.Relationship(m.Name); ok {
		if mor, ok := r.(*relationships.MultiObjectRelationship); ok {
			for _, existing := range mor.Objects() {
				if existing.ID() == related.ID() {
					return
				}
			}
			mor.Append(related)
			return
		}
	}

	o.SetRelationship(m.Name, relationships.NewMultiObjectRelationship(relationshipType, []types.Object{related}))
}

// attachOrphans reads features that no forward association reaches and links
// them through their back-references. Regions are attached before contents and
// contents before presentation objects.
func (s *readState) attachOrphans() error {
	for _, root := range []catalog.Root{catalog.RootRegion, catalog.RootContent, catalog.RootPresentation} {
		for _, f := range s.features {
			if _, ok := s.seen[f]; ok {
				continue
			}
			info, ok := s.typeOf(f)
			if !ok || info.Root != root {
				continue
			}
			if err := s.attachOrphan(f, info); err != nil {
				return err
			}
		}
	}
	return nil
}

// attachOrphan links el to every owner its back-references resolve to, so a
// presentation object ends up below both its region and its content
func (s *readState) attachOrphan(el *etree.Element, info catalog.TypeInfo) error {
	attached := false

	for _, c := range el.ChildElements() {
		if !in(c, s.rev.Namespace()) {
			continue
		}

		m, ok := s.policy.Resolve(info.Name, c.Tag, s.rev)
		if !ok || !m.Inverse {
			continue
		}

		ownerEl, ok := s.index.lookup(href(c))
		if !ok {
			continue
		}
		owner, ok := s.seen[ownerEl]
		if !ok {
			continue
		}

		forward, ok := s.forwardMember(owner.Type(), info.Name)
		if !ok {
			continue
		}

		o, err := s.readFeature(el)
		if err != nil || o == nil {
			return err
		}

		s.log.Debug("attaching feature through back-reference", "id", o.ID(), "owner", owner.ID(), "member", forward.Name)
		s.relate(owner, forward, o)
		attached = true
	}

	if !attached {
		s.log.Debug("feature is not reachable from the plan", "tag", el.Tag, "id", gmlID(el))
	}
	return nil
}

// forwardMember finds the reference member of ownerType able to hold a feature of featureType
func (s *readState) forwardMember(ownerType, featureType string) (catalog.Member, bool) {
	for _, m := range s.policy.Members(ownerType, s.rev, true) {
		if m.Kind == catalog.KindReference && !m.Inverse && s.catalog.IsA(featureType, m.Target) {
			return m, true
		}
	}
	return catalog.Member{}, false
}
