package docx

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>
      <w:r><w:t>Notice of </w:t></w:r><w:r><w:t>Resignation</w:t></w:r>
    </w:p>
    <w:tbl><w:tr><w:tc><w:p><w:r><w:t>table cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
    <w:p><w:r><w:t>Last</w:t><w:tab/><w:t>working day</w:t></w:r></w:p>
    <w:p/>
  </w:body>
</w:document>`

func writeDocx(t *testing.T, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, body := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file close: %v", err)
	}
	return path
}

func TestExtractJoinsBodyParagraphs(t *testing.T) {
	path := writeDocx(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   sampleDocument,
	})

	text, err := NewExtractor().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := "Notice of Resignation Last\tworking day "
	if text != want {
		t.Fatalf("Extract() = %q, want %q", text, want)
	}
	if strings.Contains(text, "table cell") {
		t.Fatalf("table paragraphs must be skipped: %q", text)
	}
}

func TestExtractMissingDocumentPart(t *testing.T) {
	path := writeDocx(t, map[string]string{"word/styles.xml": `<styles/>`})
	if _, err := NewExtractor().Extract(context.Background(), path); err == nil {
		t.Fatalf("expected error for archive without document part")
	}
}

func TestExtractRejectsNonZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.docx")
	if err := os.WriteFile(path, []byte("plain text"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewExtractor().Extract(context.Background(), path); err == nil {
		t.Fatalf("expected error for non-zip input")
	}
}

func TestParagraphsRejectsMalformedXML(t *testing.T) {
	if _, err := Paragraphs(strings.NewReader(`<w:document xmlns:w="x"><w:body>`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestParagraphsResumeRunAfterTextBox(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:r>
        <w:t>Before </w:t>
        <w:drawing><w:txbxContent><w:p><w:r><w:t>boxed</w:t></w:r></w:p></w:txbxContent></w:drawing>
        <w:t>after</w:t><w:tab/>
      </w:r>
    </w:p>
  </w:body>
</w:document>`
	got, err := Paragraphs(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Paragraphs() error = %v", err)
	}
	if len(got) != 1 || got[0] != "Before after\t" {
		t.Fatalf("Paragraphs() = %q, want [\"Before after\\t\"]", got)
	}
}

func TestParagraphsSkipContentControls(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:sdt><w:sdtContent><w:p><w:r><w:t>Table of contents</w:t></w:r></w:p></w:sdtContent></w:sdt>
    <w:p>
      <w:r><w:t>Dear </w:t></w:r>
      <w:sdt><w:sdtContent><w:r><w:t>Name</w:t></w:r></w:sdtContent></w:sdt>
      <w:hyperlink><w:r><w:t>HR portal</w:t></w:r></w:hyperlink>
    </w:p>
  </w:body>
</w:document>`
	got, err := Paragraphs(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Paragraphs() error = %v", err)
	}
	if len(got) != 1 || got[0] != "Dear HR portal" {
		t.Fatalf("Paragraphs() = %q, want [\"Dear HR portal\"]", got)
	}
}
