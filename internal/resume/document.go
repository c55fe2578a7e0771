package resume

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

// ExtractText returns the plain text of an uploaded document, chosen by the
// file extension. Anything that is not .docx or .pdf is read as text, with
// invalid UTF-8 dropped.
func ExtractText(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = pdfText(data)
	case ".docx":
		text, err = docxText(data)
	default:
		return string(bytes.ToValidUTF8(data, nil)), nil
	}
	if err != nil {
		return "", domain.ErrUnsupportedDocument.WithError(err)
	}
	return text, nil
}

// pdfText joins the text of every page, one page per line block.
func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	fonts := make(map[string]*pdf.Font)
	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return string(bytes.ToValidUTF8([]byte(strings.Join(pages, "\n")), nil)), nil
}

// docxText joins the top-level paragraphs of the document body, one per
// line. Tables are skipped.
func docxText(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	lines := make([]string, 0, len(doc.Document.Body.Items))
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			lines = append(lines, p.String())
		}
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n"), nil
}
