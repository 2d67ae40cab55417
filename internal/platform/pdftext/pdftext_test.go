package pdftext

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestExtractPlaintext(t *testing.T) {
	in := "Master Services Agreement\r\n\r\n\r\nSection 1. Term.\r\nThe term begins on the Effective Date.  \n"
	got, err := Extract("contract.txt", []byte(in))
	if err != nil {
		t.Fatalf("extract txt: %v", err)
	}
	want := "Master Services Agreement\n\nSection 1. Term.\nThe term begins on the Effective Date."
	if got != want {
		t.Fatalf("txt: want=%q got=%q", want, got)
	}
}

func TestExtractHTML(t *testing.T) {
	in := `<!DOCTYPE html><html><body><h1>NDA</h1><p>Confidential &amp; proprietary.</p></body></html>`
	got, err := Extract("nda.html", []byte(in))
	if err != nil {
		t.Fatalf("extract html: %v", err)
	}
	if got != "NDA Confidential & proprietary." {
		t.Fatalf("html: got=%q", got)
	}
}

func TestExtractDOCX(t *testing.T) {
	docXML := `<?xml version="1.0"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` +
		`<w:p><w:r><w:t>Service Agreement</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Liability is capped at </w:t></w:r><w:r><w:t>$1,000,000.</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := f.Write([]byte(docXML)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	got, err := Extract("agreement.docx", buf.Bytes())
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	want := "Service Agreement\nLiability is capped at $1,000,000."
	if got != want {
		t.Fatalf("docx: want=%q got=%q", want, got)
	}
}

func TestExtractRejectsUnusable(t *testing.T) {
	var emptyZip bytes.Buffer
	zw := zip.NewWriter(&emptyZip)
	w, _ := zw.Create("other/part.xml")
	_, _ = w.Write([]byte("<x/>"))
	_ = zw.Close()

	cases := []struct {
		name string
		file string
		data []byte
		want string
	}{
		{"empty", "a.txt", nil, "empty file"},
		{"fake pdf", "a.pdf", []byte{0x00, 0x01, 0x02, 'n', 'o', 't'}, "claims pdf"},
		{"binary", "a.bin", []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01, 0x02}, "unsupported file type"},
		{"zip without word parts", "a.docx", emptyZip.Bytes(), "not docx"},
		{"pdf garbage body", "a.pdf", []byte("%PDF-1.4 not really a pdf"), "pdf reader"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract(tc.file, tc.data)
			if err == nil {
				t.Fatalf("%s: expected error", tc.name)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.want)
			}
		})
	}
}
