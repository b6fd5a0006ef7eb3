package archive

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/matryer/is"
	"github.com/paulmach/orb"

	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	"github.com/diwise/xplan-gml/pkg/xplan/geometry"
	"github.com/diwise/xplan-gml/pkg/xplan/types"
	"github.com/diwise/xplan-gml/pkg/xplan/types/objects"
	"github.com/diwise/xplan-gml/pkg/xplan/types/properties"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

func TestFoldName(t *testing.T) {
	is := is.New(t)

	is.Equal(FoldName("Begründung Entwurf.pdf"), "Begruendung_Entwurf.pdf")
	is.Equal(FoldName("Café Straße"), "Cafe_Strasse")
	is.Equal(FoldName("../etc/passwd"), "etc_passwd")
	is.Equal(FoldName("   "), "")
}

func TestNamesAreUnique(t *testing.T) {
	is := is.New(t)

	n := newNames("/anlagen/")
	is.Equal(n.next("plan.pdf", "a"), "anlagen/plan.pdf")
	is.Equal(n.next("plan.pdf", "b"), "anlagen/plan_2.pdf")
	is.Equal(n.next("plan.pdf", "c"), "anlagen/plan_3.pdf")
	is.Equal(n.next("", "fallback"), "anlagen/fallback")
}

func TestExportBundlesAttachedFiles(t *testing.T) {
	is := is.New(t)

	plan := testPlan()
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	buf := &bytes.Buffer{}
	exporter := NewExporter(catalog.Default(), WithPrefix("anlagen"), WithClock(func() time.Time { return modified }))
	is.NoErr(exporter.Export(context.Background(), plan, version.V6_0, buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	is.NoErr(err)

	names := []string{}
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	is.Equal(names, []string{DocumentName, "anlagen/Begruendung_Entwurf.pdf", "anlagen/Begruendung_Entwurf_2.pdf"})

	doc := string(contents(t, zr.File[0]))
	is.True(strings.Contains(doc, "<xplan:referenzURL>anlagen/Begruendung_Entwurf.pdf</xplan:referenzURL>"))
	is.True(strings.Contains(doc, "<xplan:referenzURL>anlagen/Begruendung_Entwurf_2.pdf</xplan:referenzURL>"))
	is.True(strings.Contains(doc, "<xplan:referenzURL>https://example.org/karte.png</xplan:referenzURL>"))
	is.True(!strings.Contains(doc, "<xplan:file"))

	is.Equal(contents(t, zr.File[1]), []byte("first"))
	is.Equal(contents(t, zr.File[2]), []byte("second"))

	// the graph is not modified by the export
	first := objects.Related(plan, "externeReferenz")[0]
	_, ok := first.Property("referenzURL")
	is.True(!ok)
}

func TestExportWithoutAttachments(t *testing.T) {
	is := is.New(t)

	plan := objects.New("p1", "BP_Plan",
		objects.Text("name", "Plan"),
		objects.EnumList("planArt", "BP_PlanArt", "1000"),
		objects.Geometry("raeumlicherGeltungsbereich", square()),
		objects.Link("bereich", region("b1")),
	)

	buf := &bytes.Buffer{}
	is.NoErr(NewExporter(catalog.Default()).Export(context.Background(), plan, version.V5_3, buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	is.NoErr(err)
	is.Equal(len(zr.File), 1)
	is.Equal(zr.File[0].Name, DocumentName)
}

func TestExportFailsForInvalidGraph(t *testing.T) {
	is := is.New(t)

	plan := objects.New("p1", "BP_Plan", objects.Text("name", "Plan"))

	buf := &bytes.Buffer{}
	err := NewExporter(catalog.Default()).Export(context.Background(), plan, version.V6_0, buf)
	is.True(err != nil)
	is.Equal(buf.Len(), 0)
}

func testPlan() types.Object {
	reference := func(id, name string, file []byte) types.Object {
		return objects.New(id, "XP_SpezExterneReferenz",
			objects.Enum("typ", "XP_ExterneReferenzTyp", "1000"),
			objects.Text("referenzName", name),
			objects.P("file", properties.NewBinaryProperty(file)),
		)
	}

	link := objects.New("ref3", "XP_SpezExterneReferenz",
		objects.Enum("typ", "XP_ExterneReferenzTyp", "1000"),
		objects.Text("referenzURL", "https://example.org/karte.png"),
	)

	return objects.New("p1", "BP_Plan",
		objects.Text("name", "Plan"),
		objects.EnumList("planArt", "BP_PlanArt", "1000"),
		objects.Geometry("raeumlicherGeltungsbereich", square()),
		objects.Compose("externeReferenz",
			reference("ref1", "Begründung Entwurf.pdf", []byte("first")),
			reference("ref2", "Begründung Entwurf.pdf", []byte("second")),
			link,
		),
		objects.Link("bereich", region("b1")),
	)
}

func region(id string) types.Object {
	content := objects.New("c1", "BP_BaugebietsTeilFlaeche",
		objects.Enum("rechtscharakter", "XP_Rechtscharakter", "1000"),
		objects.Geometry("position", square()),
		objects.Bool("flaechenschluss", true),
	)
	return objects.New(id, "BP_Bereich",
		objects.Integer("nummer", 0),
		objects.Link("planinhalt", content),
	)
}

func square() geometry.Geometry {
	return geometry.New(orb.Polygon{orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}, geometry.EPSG(25832))
}

func contents(t *testing.T, f *zip.File) []byte {
	rc, err := f.Open()
	if err != nil {
		t.Fatalf("failed to open %s: %s", f.Name, err.Error())
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("failed to read %s: %s", f.Name, err.Error())
	}
	return b
}
