package pdftext

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// ExtractFile reads path and extracts its plain text. The true file type is
// sniffed from the leading bytes, so a mislabeled extension does not matter.
func ExtractFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return Extract(filepath.Base(path), data)
}

// Extract sniffs the document type from its bytes and extracts plain text.
// Supported: PDF, DOCX, HTML (tags stripped), TXT/MD.
func Extract(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))

	if len(data) == 0 {
		return "", fmt.Errorf("empty file: %s", name)
	}

	if isPDF(data) {
		return extractPDF(data)
	}
	if isZip(data) {
		if !zipHasWordParts(data) {
			return "", fmt.Errorf("unsupported zip container (not docx): %s", name)
		}
		return extractDOCX(data)
	}
	if looksLikeHTML(data) || ext == ".html" || ext == ".htm" {
		return extractHTML(string(data)), nil
	}
	if isProbablyText(data) || ext == ".txt" || ext == ".md" || ext == ".markdown" {
		return normalizeText(string(data)), nil
	}

	// The extension claimed a supported type but the bytes disagree.
	if ext == ".pdf" {
		return "", fmt.Errorf("%s claims pdf but lacks the %%PDF header (head=%s)", name, headHex(data, 16))
	}
	if ext == ".docx" {
		return "", fmt.Errorf("%s claims docx but is not a zip container", name)
	}
	return "", fmt.Errorf("unsupported file type: name=%s head=%s", name, headHex(data, 16))
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func looksLikeHTML(b []byte) bool {
	s := strings.ToLower(string(b[:min(len(b), 2048)]))
	head := strings.TrimSpace(s)
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		return true
	}
	return strings.Contains(s, "<html") && strings.Contains(s, "<body")
}

func isProbablyText(b []byte) bool {
	sample := b[:min(len(b), 4096)]
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func headHex(b []byte, n int) string {
	const digits = "0123456789abcdef"
	n = min(len(b), n)
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		out = append(out, digits[b[i]>>4], digits[b[i]&0x0f])
	}
	return string(out)
}

// extractPDF pulls text page by page, joining pages with blank lines so
// downstream prompts keep some document structure. Pages that fail to
// render are skipped rather than failing the whole document.
func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			pages = append(pages, t)
		}
	}
	out := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if out == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return out, nil
}

func zipHasWordParts(zipBytes []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			return true
		}
	}
	return false
}

// extractDOCX reads word/document.xml and gathers the <w:t> runs, emitting a
// newline at each paragraph boundary.
func extractDOCX(zipBytes []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", fmt.Errorf("docx container: %w", err)
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx missing word/document.xml")
	}
	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	xmlBytes, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				var v string
				_ = dec.DecodeElement(&v, &t)
				out.WriteString(v)
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				out.WriteString("\n")
			}
		}
	}
	s := normalizeText(out.String())
	if s == "" {
		return "", fmt.Errorf("no text extracted from docx")
	}
	return s, nil
}

var htmlTagRe = regexp.MustCompile(`(?s)<[^>]*>`)

func extractHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// normalizeText keeps line structure but trims trailing space and collapses
// runs of blank lines.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, " ", " ")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
