package services

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

type PDFParserService interface {
	ExtractText(content []byte, filename string) (string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

var (
	sectionBreakRe = regexp.MustCompile(`(?i)\s*(Education|Skills|Projects|Experience|Achievements)\s*`)
	pipeSpacingRe  = regexp.MustCompile(`\s*\|\s*`)
)

// ExtractText implements PDFParserService. It concatenates the plain text of
// every page and applies resume-specific cleanup: scanner artifacts, page
// numbers, link-only lines, and sections smashed into a single line.
func (p *pdfParserService) ExtractText(content []byte, filename string) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF %s: %w", filename, err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	raw := strings.TrimSpace(textBuilder.String())
	if raw == "" {
		return "", fmt.Errorf("no text content found in PDF %s", filename)
	}

	return cleanResumeText(raw), nil
}

// cleanResumeText normalizes extracted text before any heuristic consumes it.
func cleanResumeText(raw string) string {
	raw = cidTokenRe.ReplaceAllString(raw, "")
	raw = cidBareRe.ReplaceAllString(raw, "")

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		l := strings.TrimSpace(multiSpaceRe.ReplaceAllString(line, " "))
		l = pageNumberRe.ReplaceAllString(l, "")
		if l == "" || nonContentRe.MatchString(l) {
			continue
		}
		if linkMarkersRe.MatchString(l) {
			// Keep link lines only when they carry meaningful words too.
			if len(alphaWordRe.FindAllString(l, -1)) < 2 {
				continue
			}
		}
		lines = append(lines, l)
	}

	cleaned := strings.Join(lines, "\n")
	cleaned = pipeSpacingRe.ReplaceAllString(cleaned, " | ")
	cleaned = sectionBreakRe.ReplaceAllString(cleaned, "\n$1\n")

	return cleaned
}
