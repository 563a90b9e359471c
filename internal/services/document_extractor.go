package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Accepted résumé MIME types.
const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type DocumentExtractor interface {
	Extract(data []byte, mimeType string) (string, error)
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

func IsSupportedMimeType(mimeType string) bool {
	switch normalizeMimeType(mimeType) {
	case MimePDF, MimeDOC, MimeDOCX:
		return true
	}
	return false
}

// Extract implements DocumentExtractor.
func (e *documentExtractor) Extract(data []byte, mimeType string) (string, error) {
	var (
		text string
		err  error
	)

	switch normalizeMimeType(mimeType) {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	case MimeDOC:
		text = extractLegacyDOC(data)
	default:
		return "", ErrUnsupportedFileType
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func normalizeMimeType(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i != -1 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		// Row-wise extraction keeps one résumé line per text line.
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				line.WriteString(word.S)
			}
			textBuilder.WriteString(line.String())
			textBuilder.WriteString("\n")
		}
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}
		defer rc.Close()
		return docxParagraphs(rc)
	}

	return "", fmt.Errorf("DOCX has no word/document.xml")
}

// docxParagraphs walks the WordprocessingML tokens: w:t is text, w:tab a tab,
// w:br a line break and every closing w:p ends a line.
func docxParagraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var out strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteString("\t")
			case "br":
				out.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}

	return out.String(), nil
}

// extractLegacyDOC salvages printable runs from a binary Word file. Runs
// shorter than four characters are mostly formatting noise and are dropped.
func extractLegacyDOC(data []byte) string {
	var out, run strings.Builder
	flush := func() {
		if run.Len() >= 4 {
			out.WriteString(run.String())
			out.WriteString("\n")
		}
		run.Reset()
	}

	for _, b := range data {
		switch {
		case b >= 32 && b <= 126, b == '\t':
			run.WriteByte(b)
		default:
			flush()
		}
	}
	flush()

	return out.String()
}

// CleanText normalises line endings and trims every line. Runs of blank
// lines collapse to one; a single blank line is kept since it ends a section.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	cleanedLines := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if blank || len(cleanedLines) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		cleanedLines = append(cleanedLines, line)
	}

	return strings.TrimSpace(strings.Join(cleanedLines, "\n"))
}
