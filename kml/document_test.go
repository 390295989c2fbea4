package kml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kmleditor/planner"
)

const sampleKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2" xmlns:gx="http://www.google.com/kml/ext/2.2">
  <Document>
    <name>Survey</name>
    <Placemark>
      <name>Sector A</name>
      <description><![CDATA[<img src="http://host/old.jpg" height="200" width="auto" /><br><br>Old notes]]></description>
      <ExtendedData>
        <Data name="gx_media_links">
          <value>http://host/old.jpg</value>
        </Data>
      </ExtendedData>
      <Polygon>
        <outerBoundaryIs>
          <LinearRing>
            <coordinates>35.0,32.0,0 35.2,32.0,0 35.2,32.2,0 35.0,32.2,0 35.0,32.0,0</coordinates>
          </LinearRing>
        </outerBoundaryIs>
      </Polygon>
    </Placemark>
    <Placemark>
      <name>
        Sector B
      </name>
      <Polygon>
        <outerBoundaryIs>
          <LinearRing>
            <coordinates>36.0,33.0,0 36.2,33.0,0 36.1,33.2,0 36.0,33.0,0</coordinates>
          </LinearRing>
        </outerBoundaryIs>
      </Polygon>
    </Placemark>
    <Placemark>
      <name>Checkpoint</name>
      <Point>
        <coordinates>35.5,32.5,0</coordinates>
      </Point>
    </Placemark>
  </Document>
</kml>`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse([]byte(sampleKML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestPolygonNames(t *testing.T) {
	doc := parseSample(t)

	names := doc.PolygonNames()
	// Placemark с точкой не полигон и в список не попадает,
	// имя с переносами строк очищается
	want := []string{"Sector A", "Sector B"}
	if len(names) != len(want) {
		t.Fatalf("PolygonNames = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestPolygon_ReadsContent(t *testing.T) {
	doc := parseSample(t)

	info, err := doc.Polygon("Sector A")
	if err != nil {
		t.Fatalf("Polygon: %v", err)
	}

	if len(info.Images) != 1 || info.Images[0] != "http://host/old.jpg" {
		t.Errorf("Images = %v, want [http://host/old.jpg]", info.Images)
	}
	if info.DescriptionText != "Old notes" {
		t.Errorf("DescriptionText = %q, want %q", info.DescriptionText, "Old notes")
	}
	if len(info.MediaLinks) != 1 || info.MediaLinks[0] != "http://host/old.jpg" {
		t.Errorf("MediaLinks = %v, want [http://host/old.jpg]", info.MediaLinks)
	}
}

func TestPolygon_NotFound(t *testing.T) {
	doc := parseSample(t)
	if _, err := doc.Polygon("Sector Z"); err == nil {
		t.Error("expected error for unknown polygon")
	}
}

func TestApply_RewritesDescriptionAndMediaLink(t *testing.T) {
	doc := parseSample(t)

	plan := planner.UpdatePlan{
		TargetName:       "Sector B",
		NewDescription:   "Fresh notes",
		NewImages:        []string{"http://host/1.jpg", "http://host/2.jpg"},
		PrimaryMediaLink: "http://host/1.jpg",
	}
	if err := doc.Apply(plan); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	info, err := doc.Polygon("Sector B")
	if err != nil {
		t.Fatalf("Polygon after apply: %v", err)
	}

	if len(info.Images) != 2 {
		t.Fatalf("Images = %v, want both embedded", info.Images)
	}
	if info.DescriptionText != "Fresh notes" {
		t.Errorf("DescriptionText = %q, want %q", info.DescriptionText, "Fresh notes")
	}
	if !strings.Contains(info.Description, `height="200" width="auto"`) {
		t.Errorf("Description = %q, want fixed-height auto-width img tags", info.Description)
	}
	if len(info.MediaLinks) != 1 || info.MediaLinks[0] != "http://host/1.jpg" {
		t.Errorf("MediaLinks = %v, want primary link written", info.MediaLinks)
	}
}

func TestApply_RoundTripSurvivesSerialization(t *testing.T) {
	doc := parseSample(t)

	plan := planner.UpdatePlan{
		TargetName:       "Sector A",
		NewDescription:   "After merge",
		NewImages:        []string{"http://host/old.jpg", "http://host/new.jpg"},
		PrimaryMediaLink: "http://host/old.jpg",
	}
	if err := doc.Apply(plan); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	reparsed, err := Parse(doc.Bytes())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	names := reparsed.PolygonNames()
	if len(names) != 2 {
		t.Fatalf("names after round trip = %v", names)
	}

	info, err := reparsed.Polygon("Sector A")
	if err != nil {
		t.Fatalf("Polygon after round trip: %v", err)
	}
	if len(info.Images) != 2 || info.DescriptionText != "After merge" {
		t.Errorf("content lost in round trip: %+v", info)
	}

	// Незатронутый placemark с точкой сохраняется
	if !strings.Contains(string(reparsed.Bytes()), "Checkpoint") {
		t.Error("unrelated placemark lost in round trip")
	}
}

func TestSerialize_KeepsComments(t *testing.T) {
	const source = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <!-- Границы секторов, обновлено 2024 -->
    <name>Survey</name>
    <Placemark>
      <name>Sector A</name>
      <Polygon>
        <outerBoundaryIs>
          <LinearRing>
            <coordinates>35.0,32.0,0 35.2,32.0,0 35.2,32.2,0 35.0,32.0,0</coordinates>
          </LinearRing>
        </outerBoundaryIs>
      </Polygon>
    </Placemark>
  </Document>
</kml>`

	doc, err := Parse([]byte(source))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	out := string(doc.Bytes())
	if !strings.Contains(out, "<!-- Границы секторов, обновлено 2024 -->") {
		t.Errorf("Комментарий потерян при перезаписи:\n%s", out)
	}

	// Комментарий переживает и повторный цикл разбора/записи
	again, err := Parse(doc.Bytes())
	if err != nil {
		t.Fatalf("Re-parse failed: %v", err)
	}
	if !strings.Contains(string(again.Bytes()), "Границы секторов") {
		t.Error("Комментарий потерян при повторном цикле")
	}
}

func TestAddLabelPoints(t *testing.T) {
	doc := parseSample(t)
	doc.AddLabelPoints()

	out := string(doc.Bytes())
	if !strings.Contains(out, "MultiGeometry") {
		t.Fatal("polygons were not wrapped into MultiGeometry")
	}
	if !strings.Contains(out, noIconStyleID) {
		t.Error("shared no-icon style missing")
	}

	// Повторный вызов не дублирует геометрию
	doc.AddLabelPoints()
	if strings.Count(string(doc.Bytes()), "<MultiGeometry>") != 2 {
		t.Error("AddLabelPoints is not idempotent")
	}
}

func TestRingCentroid(t *testing.T) {
	got, err := ringCentroid("0,0,0 2,0,0 2,2,0 0,2,0")
	if err != nil {
		t.Fatalf("ringCentroid: %v", err)
	}
	if got != "1,1,0" {
		t.Errorf("centroid = %q, want %q", got, "1,1,0")
	}

	if _, err := ringCentroid(""); err == nil {
		t.Error("expected error for empty coordinates")
	}
	if _, err := ringCentroid("garbage"); err == nil {
		t.Error("expected error for malformed coordinates")
	}
}

func TestSetBorderColor(t *testing.T) {
	doc := parseSample(t)
	doc.SetBorderColor("#FF0000")

	out := string(doc.Bytes())
	if !strings.Contains(out, "ff0000ff") {
		t.Errorf("expected KML color ff0000ff in output")
	}
	if !strings.Contains(out, sharedPolygonStyleID) {
		t.Error("shared polygon style missing")
	}
}

func TestHTMLColorToKML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#FF0000", "ff0000ff"}, // красный: aabbggrr
		{"#00FF00", "ff00ff00"},
		{"#0000FF", "ffff0000"},
		{"nonsense", "ff0000ff"},
	}
	for _, tt := range tests {
		if got := htmlColorToKML(tt.in); got != tt.want {
			t.Errorf("htmlColorToKML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSave_CreatesBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "area.kml")
	if err := os.WriteFile(path, []byte(sampleKML), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := doc.Save(""); err != nil {
		t.Fatalf("Save: %v", err)
	}

	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("backup not created: %v", err)
	}
	if string(backup) != sampleKML {
		t.Error("backup does not match original content")
	}

	// Сохраненный файл снова разбирается
	if _, err := Load(path); err != nil {
		t.Fatalf("saved file does not parse: %v", err)
	}
}
