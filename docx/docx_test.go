package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func buildAndUnzip(t *testing.T, d *Document) map[string]string {
	t.Helper()
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open part %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read part %s: %v", f.Name, err)
		}
		parts[f.Name] = string(data)
	}
	return parts
}

func TestDocumentParts(t *testing.T) {
	d := New()
	d.SetProperties(CoreProperties{
		Title:   "Converted from PDF",
		Subject: "PDF to Word Conversion",
		Created: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	d.AddParagraph("INTRODUCTION", StyleHeading1)
	d.AddParagraph("Hello & <world>", StyleNormal)
	d.AddPageBreak()
	d.AddParagraph("See below:", StyleHeading2)

	parts := buildAndUnzip(t, d)
	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
		"word/document.xml",
	} {
		if _, ok := parts[name]; !ok {
			t.Fatalf("missing part %s", name)
		}
	}

	doc := parts["word/document.xml"]
	if !strings.Contains(doc, `<w:pStyle w:val="Heading1"/>`) {
		t.Fatalf("heading style missing from document.xml")
	}
	if !strings.Contains(doc, "Hello &amp; &lt;world&gt;") {
		t.Fatalf("text not escaped: %s", doc)
	}
	if got := strings.Count(doc, `<w:br w:type="page"/>`); got != 1 {
		t.Fatalf("expected 1 page break, got %d", got)
	}
	core := parts["docProps/core.xml"]
	if !strings.Contains(core, "<dc:title>Converted from PDF</dc:title>") {
		t.Fatalf("title missing from core properties: %s", core)
	}
	if !strings.Contains(core, "<dc:subject>PDF to Word Conversion</dc:subject>") {
		t.Fatalf("subject missing from core properties")
	}
}

func TestDocumentImages(t *testing.T) {
	d := New()
	pngStub := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	if err := d.AddImage(pngStub, "png", 4.0, 2.0); err != nil {
		t.Fatalf("AddImage() error = %v", err)
	}

	parts := buildAndUnzip(t, d)
	if parts["word/media/image1.png"] != string(pngStub) {
		t.Fatalf("image bytes not preserved")
	}
	if !strings.Contains(parts["word/_rels/document.xml.rels"], `Target="media/image1.png"`) {
		t.Fatalf("image relationship missing")
	}
	doc := parts["word/document.xml"]
	if !strings.Contains(doc, `<wp:extent cx="3657600" cy="1828800"/>`) {
		t.Fatalf("image extent wrong: %s", doc)
	}
	if !strings.Contains(parts["[Content_Types].xml"], `Extension="png"`) {
		t.Fatalf("png content type missing")
	}
}

func TestAddImageRejectsBadInput(t *testing.T) {
	d := New()
	if err := d.AddImage(nil, "png", 1, 1); err == nil {
		t.Fatalf("expected error for empty data")
	}
	if err := d.AddImage([]byte{1}, "bmp", 1, 1); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if err := d.AddImage([]byte{1}, "png", 0, 1); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestSaveLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "out.docx") // parent missing
	d := New()
	d.AddParagraph("text", StyleNormal)
	if err := d.Save(path); err == nil {
		t.Fatalf("expected save failure")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("partial file left behind")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	d := New()
	d.AddParagraph("round trip", StyleNormal)
	if err := d.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("saved file not a zip: %v", err)
	}
	zr.Close()
}
