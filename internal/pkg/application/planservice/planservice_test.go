package planservice

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/matryer/is"

	"github.com/diwise/xplan-gml/internal/pkg/infrastructure/storage"
	"github.com/diwise/xplan-gml/pkg/xplan/archive"
	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	xerrors "github.com/diwise/xplan-gml/pkg/xplan/errors"
	"github.com/diwise/xplan-gml/pkg/xplan/gml"
	"github.com/diwise/xplan-gml/pkg/xplan/types/objects"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

func TestNewRequiresAStore(t *testing.T) {
	is := is.New(t)

	_, err := New(context.Background(), nil, nil)
	is.True(err != nil) // should have returned an error
}

func TestImportAndExport(t *testing.T) {
	is, svc, _ := setupServiceTest(t, DefaultConfig())
	ctx := context.Background()

	result, err := svc.Import(ctx, strings.NewReader(planDocument("p1")))
	is.NoErr(err)
	is.Equal(result.PlanID, "p1")
	is.Equal(result.PlanType, "BP_Plan")
	is.Equal(result.Revision, version.V5_3)
	is.Equal(len(result.Diagnostics), 0)

	buf := &bytes.Buffer{}
	is.NoErr(svc.Export(ctx, "p1", "", buf))

	out := buf.String()
	is.True(strings.Contains(out, version.NamespaceV6_0))
	is.True(strings.Contains(out, "<xplan:rechtscharakter>1000</xplan:rechtscharakter>"))
	is.True(strings.Contains(out, `gml:id="GML_p1"`))
}

func TestImportSharesMunicipalitiesBetweenPlans(t *testing.T) {
	is, svc, store := setupServiceTest(t, DefaultConfig())
	ctx := context.Background()

	_, err := svc.Import(ctx, strings.NewReader(planDocument("p1")))
	is.NoErr(err)
	_, err = svc.Import(ctx, strings.NewReader(planDocument("p2")))
	is.NoErr(err)

	first, err := store.RetrievePlan(ctx, "p1")
	is.NoErr(err)
	second, err := store.RetrievePlan(ctx, "p2")
	is.NoErr(err)

	is.True(first != second)
	is.Equal(objects.Related(first, "gemeinde")[0], objects.Related(second, "gemeinde")[0])
}

func TestImportRejectsDocumentsWithDiagnosticsWhenConfigured(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Import.RejectOnDiagnostics = true

	is, svc, store := setupServiceTest(t, cfg)
	ctx := context.Background()

	doc := strings.Replace(planDocument("p1"), "<xplan:GRZ>0.4</xplan:GRZ>", "<xplan:GRZ>viel</xplan:GRZ>", 1)

	_, err := svc.Import(ctx, strings.NewReader(doc))
	is.True(errors.Is(err, xerrors.ErrCoercion))

	_, err = store.RetrievePlan(ctx, "p1")
	is.True(errors.Is(err, xerrors.ErrNotFound))
}

func TestImportKeepsPlansWithDiagnosticsByDefault(t *testing.T) {
	is, svc, _ := setupServiceTest(t, DefaultConfig())

	doc := strings.Replace(planDocument("p1"), "<xplan:GRZ>0.4</xplan:GRZ>", "<xplan:GRZ>viel</xplan:GRZ>", 1)

	result, err := svc.Import(context.Background(), strings.NewReader(doc))
	is.NoErr(err)
	is.Equal(result.Diagnostics.Count(xerrors.ErrCoercion), 1)
}

func TestExportOfUnknownPlanFails(t *testing.T) {
	is, svc, _ := setupServiceTest(t, DefaultConfig())

	err := svc.Export(context.Background(), "unknown", version.V5_3, &bytes.Buffer{})
	is.True(errors.Is(err, xerrors.ErrNotFound))
}

func TestConvertBetweenRevisions(t *testing.T) {
	is, svc, _ := setupServiceTest(t, DefaultConfig())
	ctx := context.Background()

	buf := &bytes.Buffer{}
	result, err := svc.Convert(ctx, strings.NewReader(planDocument("p1")), version.V6_0, buf)
	is.NoErr(err)
	is.Equal(result.Revision, version.V5_3)

	converted, err := gml.NewReader(catalog.Default()).Read(ctx, buf)
	is.NoErr(err)
	is.Equal(converted.Revision, version.V6_0)
	is.Equal(converted.Plan.ID(), "p1")

	content := objects.Related(objects.Related(converted.Plan, "bereich")[0], "planinhalt")[0]
	rechtscharakter, ok := content.Property("rechtscharakter")
	is.True(ok)
	is.Equal(rechtscharakter.Value(), "1000")
}

func TestExportArchive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Export.Revision = "5.3"

	is, svc, _ := setupServiceTest(t, cfg)
	ctx := context.Background()

	_, err := svc.Import(ctx, strings.NewReader(planDocument("p1")))
	is.NoErr(err)

	buf := &bytes.Buffer{}
	is.NoErr(svc.ExportArchive(ctx, "p1", "", buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	is.NoErr(err)
	is.Equal(len(zr.File), 1)
	is.Equal(zr.File[0].Name, archive.DocumentName)
}

func setupServiceTest(t *testing.T, cfg *Config) (*is.I, PlanService, storage.Store) {
	is := is.New(t)

	store := storage.NewMemoryStore(catalog.Default())
	svc, err := New(context.Background(), cfg, store)
	is.NoErr(err)

	return is, svc, store
}

func planDocument(planID string) string {
	return strings.ReplaceAll(planTemplate, "{planID}", planID)
}

const planTemplate string = `<?xml version="1.0" encoding="UTF-8"?>
<xplan:XPlanAuszug xmlns:xplan="http://www.xplanung.de/xplangml/5/3" xmlns:gml="http://www.opengis.net/gml/3.2"
  xmlns:xlink="http://www.w3.org/1999/xlink" gml:id="GML_doc-{planID}">
  <gml:featureMember>
    <xplan:BP_Plan gml:id="GML_{planID}">
      <xplan:name>Plan {planID}</xplan:name>
      <xplan:raeumlicherGeltungsbereich>
        <gml:Polygon srsName="EPSG:25832">
          <gml:exterior><gml:LinearRing><gml:posList>0 0 100 0 100 100 0 0</gml:posList></gml:LinearRing></gml:exterior>
        </gml:Polygon>
      </xplan:raeumlicherGeltungsbereich>
      <xplan:gemeinde>
        <xplan:XP_Gemeinde>
          <xplan:ags>02000000</xplan:ags>
          <xplan:gemeindeName>Hamburg</xplan:gemeindeName>
        </xplan:XP_Gemeinde>
      </xplan:gemeinde>
      <xplan:planArt>1000</xplan:planArt>
      <xplan:bereich xlink:href="#GML_{planID}-b"/>
    </xplan:BP_Plan>
  </gml:featureMember>
  <gml:featureMember>
    <xplan:BP_Bereich gml:id="GML_{planID}-b">
      <xplan:nummer>0</xplan:nummer>
      <xplan:planinhalt xlink:href="#GML_{planID}-c"/>
    </xplan:BP_Bereich>
  </gml:featureMember>
  <gml:featureMember>
    <xplan:BP_BaugebietsTeilFlaeche gml:id="GML_{planID}-c">
      <xplan:rechtscharakter>1000</xplan:rechtscharakter>
      <xplan:position>
        <gml:Polygon srsName="EPSG:25832">
          <gml:exterior><gml:LinearRing><gml:posList>10 10 50 10 50 50 10 10</gml:posList></gml:LinearRing></gml:exterior>
        </gml:Polygon>
      </xplan:position>
      <xplan:flaechenschluss>true</xplan:flaechenschluss>
      <xplan:GRZ>0.4</xplan:GRZ>
    </xplan:BP_BaugebietsTeilFlaeche>
  </gml:featureMember>
</xplan:XPlanAuszug>`
