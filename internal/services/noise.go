package services

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	cidTokenRe    = regexp.MustCompile(`(?i)\(cid:\d+\)`)
	cidBareRe     = regexp.MustCompile(`(?i)\bcid:\d+\b`)
	urlRe         = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)
	emailRe       = regexp.MustCompile(`\b[\w.-]+@[\w.-]+\.\w+\b`)
	phoneRe       = regexp.MustCompile(`\+?\d[\d\-\s]{7,}\d`)
	multiSpaceRe  = regexp.MustCompile(`\s{2,}`)
	lineBreakRe   = regexp.MustCompile(`[\n\r]+`)
	bulletRe      = regexp.MustCompile(`^\s*[-*\d]+[.)]?\s*`)
	headingRe     = regexp.MustCompile(`^(?i)(projects?|experience|work experience|education|skills|achievements|certifications)[:\-]?$`)
	pageNumberRe  = regexp.MustCompile(`^\s*\d{1,3}[.)]?\s+`)
	nonContentRe  = regexp.MustCompile(`^[\d\W_]+$`)
	linkMarkersRe = regexp.MustCompile(`(?i)(https?://|www\.|\.com|\.net|\.org|linkedin\.|github\.|mailto:)`)
	alphaWordRe   = regexp.MustCompile(`[A-Za-z]{4,}`)
)

var contactMarkers = []string{
	"email", "phone", "linkedin", "github", "http", "https", "@",
	"+91", "+1 ", "www.", ".com", ".net", ".org", ".in/", ".io",
}

// IsNoise reports whether a line is contact data, a link, or otherwise too
// low-signal to serve as evidence or as a heading/body candidate.
func IsNoise(line string) bool {
	lower := strings.ToLower(line)

	for _, marker := range contactMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	if len(line) < 25 {
		return true
	}

	separators := 0
	for _, ch := range line {
		if ch == '|' || ch == ':' || ch == '/' || ch == '@' {
			separators++
		}
	}
	if separators >= 3 {
		return true
	}

	letters, digits := 0, 0
	for _, ch := range line {
		switch {
		case unicode.IsLetter(ch):
			letters++
		case unicode.IsDigit(ch):
			digits++
		}
	}
	if letters > 0 && float64(digits)/float64(letters) > 0.7 {
		return true
	}

	return false
}

// StripArtifacts removes scanner tokens, URLs, emails, and phone numbers,
// then collapses runs of whitespace.
func StripArtifacts(text string) string {
	text = cidTokenRe.ReplaceAllString(text, "")
	text = cidBareRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")
	text = phoneRe.ReplaceAllString(text, "")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return text
}

// CleanLines splits text into trimmed lines with leading bullet and
// numbering tokens removed and noisy lines dropped. Section heading lines
// are kept even though they fail the length rule; dropping them would make
// every section body unreachable.
func CleanLines(text string) []string {
	var lines []string
	for _, raw := range lineBreakRe.Split(text, -1) {
		line := strings.TrimSpace(bulletRe.ReplaceAllString(strings.TrimSpace(raw), ""))
		if line == "" {
			continue
		}
		if IsNoise(line) && !headingRe.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

type sectionHeading struct {
	index int
	name  string
}

// findHeadings indexes lines that exactly match a known section heading.
func findHeadings(lines []string) []sectionHeading {
	var headings []sectionHeading
	for i, line := range lines {
		if headingRe.MatchString(line) {
			headings = append(headings, sectionHeading{index: i, name: strings.ToLower(line)})
		}
	}
	return headings
}

// sectionSlice returns the body of the first heading containing name: every
// line between the heading and the next heading, capped at maxLen, with a
// second light cleanup pass.
func sectionSlice(lines []string, headings []sectionHeading, name string, maxLen int) []string {
	start := -1
	for _, h := range headings {
		if strings.Contains(h.name, name) {
			start = h.index + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	end := -1
	for _, h := range headings {
		if h.index > start {
			end = h.index
			break
		}
	}

	var segment []string
	if end >= 0 {
		segment = lines[start:end]
	} else {
		capEnd := start + maxLen
		if capEnd > len(lines) {
			capEnd = len(lines)
		}
		segment = lines[start:capEnd]
	}

	var cleaned []string
	for _, s := range segment {
		s = strings.TrimSpace(emailRe.ReplaceAllString(urlRe.ReplaceAllString(s, ""), ""))
		if s == "" || IsNoise(s) {
			continue
		}
		cleaned = append(cleaned, s)
		if len(cleaned) >= maxLen {
			break
		}
	}
	return cleaned
}
