package docx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

// buildDocx assembles a minimal in-memory DOCX archive with one run per
// paragraph.
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		doc.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		if err := escapeInto(&doc, p); err != nil {
			t.Fatalf("escape: %v", err)
		}
		doc.WriteString(`</w:t></w:r></w:p>`)
	}
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte(doc.String())); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func escapeInto(b *strings.Builder, s string) error {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	_, err := b.WriteString(r.Replace(s))
	return err
}

func TestExtractTrimsAndDropsEmptyParagraphs(t *testing.T) {
	data := buildDocx(t, "  Hello  ", "", "World")
	got, err := Extract(data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "Hello\nWorld" {
		t.Fatalf("Extract() = %q, want %q", got, "Hello\nWorld")
	}
}

func TestExtractPreservesParagraphOrder(t *testing.T) {
	data := buildDocx(t, "first", "second", "third")
	got, err := Extract(data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "first\nsecond\nthird" {
		t.Fatalf("Extract() = %q", got)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	got, err := Extract(buildDocx(t))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "" {
		t.Fatalf("Extract() = %q, want empty", got)
	}
}

func TestExtractJoinsRunsWithinParagraph(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/document.xml")
	w.Write([]byte(`<?xml version="1.0"?><w:document xmlns:w="x"><w:body>` +
		`<w:p><w:r><w:t>Take </w:t></w:r><w:r><w:t>twice daily</w:t></w:r></w:p>` +
		`</w:body></w:document>`))
	zw.Close()

	got, err := Extract(buf.Bytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "Take twice daily" {
		t.Fatalf("Extract() = %q", got)
	}
}

func TestExtractRejectsNonZip(t *testing.T) {
	if _, err := Extract([]byte("plainly not a zip")); err == nil {
		t.Fatalf("expected error for non-archive input")
	}
}

func TestExtractRejectsArchiveWithoutDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte("<styles/>"))
	zw.Close()

	if _, err := Extract(buf.Bytes()); err == nil {
		t.Fatalf("expected error for missing document part")
	}
}
