package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/klauspost/compress/zip"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	"github.com/diwise/xplan-gml/pkg/xplan/gml"
	"github.com/diwise/xplan-gml/pkg/xplan/types"
	"github.com/diwise/xplan-gml/pkg/xplan/types/objects"
	"github.com/diwise/xplan-gml/pkg/xplan/types/properties"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

var tracer = otel.Tracer("xplan-gml/archive")

// DocumentName is the name of the plan document inside an archive
const DocumentName string = "xplan.gml"

type Option func(*Exporter)

// WithPrefix sets the directory inside the archive that external files are stored in
func WithPrefix(prefix string) Option {
	return func(e *Exporter) {
		e.prefix = prefix
	}
}

func WithIndent(spaces int) Option {
	return func(e *Exporter) {
		e.indent = spaces
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

// Exporter bundles a written plan document with the files attached to its
// external references
type Exporter struct {
	catalog *catalog.Registry
	prefix  string
	indent  int
	now     func() time.Time
}

func NewExporter(c *catalog.Registry, options ...Option) *Exporter {
	e := &Exporter{
		catalog: c,
		indent:  2,
		now:     time.Now,
	}

	for _, option := range options {
		option(e)
	}

	return e
}

type attachment struct {
	path string
	data []byte
}

// Export writes a zip archive holding the plan document and one entry per
// external reference carrying a file. The reference URL of those references is
// replaced by the path of the entry, the graph itself is left untouched.
func (e *Exporter) Export(ctx context.Context, plan types.Object, rev version.Revision, out io.Writer) (err error) {
	ctx, span := tracer.Start(ctx, "export-archive")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)

	attachments, err := e.collect(plan)
	if err != nil {
		return err
	}

	span.SetAttributes(attribute.Int("attachments", len(attachments)))

	writer := gml.NewWriter(e.catalog, gml.WithIndent(e.indent), gml.WithValueOverride(
		func(o types.Object, m catalog.Member) (types.Property, bool) {
			if m.Name != "referenzURL" {
				return nil, false
			}
			a, ok := attachments[o.ID()]
			if !ok {
				return nil, false
			}
			return properties.NewTextProperty(a.path), true
		}),
	)

	doc := &bytes.Buffer{}
	if err = writer.Write(ctx, plan, rev, doc); err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	modified := e.now()

	if err = e.add(zw, DocumentName, doc.Bytes(), modified); err != nil {
		return err
	}

	for _, id := range slices.Sorted(maps.Keys(attachments)) {
		a := attachments[id]
		if err = e.add(zw, a.path, a.data, modified); err != nil {
			return err
		}
	}

	if err = zw.Close(); err != nil {
		err = fmt.Errorf("failed to finish archive: %w", err)
		return err
	}

	log.Info("archive exported", "plan_id", plan.ID(), "revision", rev.String(), "attachments", len(attachments))

	return nil
}

func (e *Exporter) add(zw *zip.Writer, name string, data []byte, modified time.Time) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}

	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", name, err)
	}

	return nil
}

// collect assigns an archive path to every external reference of the graph
// that carries file contents, keyed by object id
func (e *Exporter) collect(plan types.Object) (map[string]attachment, error) {
	paths := newNames(e.prefix)
	attachments := map[string]attachment{}

	err := objects.Walk(plan, func(o types.Object) error {
		if !e.catalog.IsA(o.Type(), "XP_ExterneReferenz") {
			return nil
		}

		p, ok := o.Property("file")
		if !ok {
			return nil
		}
		data, ok := p.Value().([]byte)
		if !ok || len(data) == 0 {
			return nil
		}

		attachments[o.ID()] = attachment{
			path: paths.next(textOf(o, "referenzName"), o.ID()),
			data: data,
		}
		return nil
	})

	return attachments, err
}

func textOf(o types.Object, name string) string {
	if p, ok := o.Property(name); ok {
		if s, ok := p.Value().(string); ok {
			return s
		}
	}
	return ""
}
