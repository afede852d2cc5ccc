package services

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ExtractedText is the black-box output of the text extractor: normalized
// text plus a page count when the format knows about pages.
type ExtractedText struct {
	Text      string
	PageCount int
}

type TextExtractorService interface {
	ExtractPDF(data []byte) (*ExtractedText, error)
	ExtractDOCX(data []byte) (*ExtractedText, error)
	ExtractPlain(data []byte) *ExtractedText
	Extract(filename string, data []byte) (*ExtractedText, error)
}

type textExtractorService struct{}

func NewTextExtractorService() TextExtractorService {
	return &textExtractorService{}
}

// Extract dispatches on the file extension.
func (t *textExtractorService) Extract(filename string, data []byte) (*ExtractedText, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return t.ExtractPDF(data)
	case strings.HasSuffix(lower, ".docx"):
		return t.ExtractDOCX(data)
	case strings.HasSuffix(lower, ".txt"):
		return t.ExtractPlain(data), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filename)
	}
}

func (t *textExtractorService) ExtractPDF(data []byte) (*ExtractedText, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	text := NormalizeText(textBuilder.String())
	if text == "" {
		return nil, ErrNoTextContent
	}

	return &ExtractedText{Text: text, PageCount: totalPage}, nil
}

func (t *textExtractorService) ExtractDOCX(data []byte) (*ExtractedText, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	text := NormalizeText(stripDocxTags(doc.Editable().GetContent()))
	if text == "" {
		return nil, ErrNoTextContent
	}

	return &ExtractedText{Text: text}, nil
}

func (t *textExtractorService) ExtractPlain(data []byte) *ExtractedText {
	return &ExtractedText{Text: NormalizeText(string(data))}
}

var (
	crlfPattern     = regexp.MustCompile(`\r\n?`)
	blankRunPattern = regexp.MustCompile(`[\t ]+`)
	newlineRun      = regexp.MustCompile(`\n{3,}`)
	docxTagPattern  = regexp.MustCompile(`<[^>]+>`)
)

// NormalizeText flattens line endings, collapses horizontal whitespace and
// caps blank-line runs so downstream character budgets measure content, not
// layout noise.
func NormalizeText(input string) string {
	text := crlfPattern.ReplaceAllString(input, "\n")
	text = blankRunPattern.ReplaceAllString(text, " ")
	text = newlineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// GetContent returns raw document XML; drop the markup and keep the text.
func stripDocxTags(content string) string {
	return docxTagPattern.ReplaceAllString(content, " ")
}
