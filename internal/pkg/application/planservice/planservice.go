package planservice

import (
	"context"
	"fmt"
	"io"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/diwise/xplan-gml/internal/pkg/infrastructure/storage"
	"github.com/diwise/xplan-gml/pkg/xplan/archive"
	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	xerrors "github.com/diwise/xplan-gml/pkg/xplan/errors"
	"github.com/diwise/xplan-gml/pkg/xplan/gml"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

var tracer = otel.Tracer("xplan-gml/planservice")

// PlanService imports plan documents into a store and exports stored plans
// as documents or archives in any supported revision
type PlanService interface {
	Import(ctx context.Context, in io.Reader) (*ImportResult, error)
	Export(ctx context.Context, planID string, rev version.Revision, out io.Writer) error
	ExportArchive(ctx context.Context, planID string, rev version.Revision, out io.Writer) error
	Convert(ctx context.Context, in io.Reader, rev version.Revision, out io.Writer) (*gml.Result, error)
}

type ImportResult struct {
	PlanID      string
	PlanType    string
	Revision    version.Revision
	Diagnostics xerrors.Diagnostics
}

type planService struct {
	cfg     *Config
	catalog *catalog.Registry
	store   storage.Store
}

func New(ctx context.Context, cfg *Config, store storage.Store) (PlanService, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if store == nil {
		return nil, fmt.Errorf("a plan service needs a store")
	}

	svc := &planService{
		cfg:     cfg,
		catalog: catalog.Default(),
		store:   store,
	}

	return svc, nil
}

func (svc *planService) Import(ctx context.Context, in io.Reader) (result *ImportResult, err error) {
	ctx, span := tracer.Start(ctx, "import-plan")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)

	reader := gml.NewReader(svc.catalog,
		gml.WithExistingObjects(svc.store),
		gml.WithProgress(func(done, total int) {
			log.Debug("reading features", "done", done, "total", total)
		}),
	)

	doc, err := reader.Read(ctx, in)
	if err != nil {
		return nil, err
	}

	for _, d := range doc.Diagnostics {
		log.Warn("problem in document", "id", d.ObjectID, "type", d.Type, "member", d.Member, "err", d.Err.Error())
		span.AddEvent("diagnostic", trace.WithAttributes(
			attribute.String("object_id", d.ObjectID),
			attribute.String("member", d.Member),
			attribute.String("err", d.Err.Error()),
		))
	}

	if len(doc.Diagnostics) > 0 && svc.cfg.Import.RejectOnDiagnostics {
		err = fmt.Errorf("plan %s rejected: %w", doc.Plan.ID(), doc.Diagnostics.Err())
		return nil, err
	}

	if err = svc.store.Save(ctx, doc.Plan); err != nil {
		err = fmt.Errorf("failed to store plan %s: %w", doc.Plan.ID(), err)
		return nil, err
	}

	span.SetAttributes(attribute.String("plan_id", doc.Plan.ID()))
	log.Info("plan imported", "plan_id", doc.Plan.ID(), "type", doc.Plan.Type(), "revision", doc.Revision.String())

	return &ImportResult{
		PlanID:      doc.Plan.ID(),
		PlanType:    doc.Plan.Type(),
		Revision:    doc.Revision,
		Diagnostics: doc.Diagnostics,
	}, nil
}

func (svc *planService) Export(ctx context.Context, planID string, rev version.Revision, out io.Writer) (err error) {
	ctx, span := tracer.Start(ctx, "export-plan")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	rev = svc.revisionOrDefault(rev)
	span.SetAttributes(attribute.String("plan_id", planID), attribute.String("revision", rev.String()))

	plan, err := svc.store.RetrievePlan(ctx, planID)
	if err != nil {
		return err
	}

	writer := gml.NewWriter(svc.catalog, gml.WithIndent(svc.cfg.Export.Indent))
	err = writer.Write(ctx, plan, rev, out)

	return err
}

func (svc *planService) ExportArchive(ctx context.Context, planID string, rev version.Revision, out io.Writer) (err error) {
	ctx, span := tracer.Start(ctx, "export-plan-archive")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	rev = svc.revisionOrDefault(rev)
	span.SetAttributes(attribute.String("plan_id", planID), attribute.String("revision", rev.String()))

	plan, err := svc.store.RetrievePlan(ctx, planID)
	if err != nil {
		return err
	}

	exporter := archive.NewExporter(svc.catalog,
		archive.WithPrefix(svc.cfg.Archive.Prefix),
		archive.WithIndent(svc.cfg.Export.Indent),
	)
	err = exporter.Export(ctx, plan, rev, out)

	return err
}

// Convert reads a document in whatever revision it declares and writes it in
// rev without touching the store
func (svc *planService) Convert(ctx context.Context, in io.Reader, rev version.Revision, out io.Writer) (result *gml.Result, err error) {
	ctx, span := tracer.Start(ctx, "convert-document")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	rev = svc.revisionOrDefault(rev)

	doc, err := gml.NewReader(svc.catalog).Read(ctx, in)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("from", doc.Revision.String()), attribute.String("to", rev.String()))

	writer := gml.NewWriter(svc.catalog, gml.WithIndent(svc.cfg.Export.Indent))
	if err = writer.Write(ctx, doc.Plan, rev, out); err != nil {
		return nil, err
	}

	logging.GetFromContext(ctx).Info("document converted", "plan_id", doc.Plan.ID(), "from", doc.Revision.String(), "to", rev.String())

	return doc, nil
}

func (svc *planService) revisionOrDefault(rev version.Revision) version.Revision {
	if rev == "" {
		return svc.cfg.ExportRevision()
	}
	return rev
}
