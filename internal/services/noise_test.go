package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNoise(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		noise bool
	}{
		{"email marker", "Reach me at john.doe@example.test for opportunities", true},
		{"linkedin marker", "See my linkedin profile for more information here", true},
		{"too short", "Skills: Go, SQL", true},
		{"separator heavy", "Go | SQL | Docker | Kubernetes engineering background", true},
		{"digit heavy", "123456789 987654321 11223344 556677 88 phone list 99", true},
		{"clean sentence", "Built distributed data pipelines for analytics teams", false},
		{"clean experience line", "Led migration of the billing platform to new infrastructure", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.noise, IsNoise(tc.line))
		})
	}
}

func TestStripArtifacts(t *testing.T) {
	in := "Senior engineer (cid:127) profile https://example.test/cv contact john@example.test call +1 555-123-4567 now"
	out := StripArtifacts(in)

	assert.NotContains(t, out, "cid:")
	assert.NotContains(t, out, "https://")
	assert.NotContains(t, out, "@")
	assert.NotContains(t, out, "555-123")
	assert.NotContains(t, out, "  ")
}

func TestCleanLinesStripsBulletsAndNoise(t *testing.T) {
	text := "1. Developed the payment reconciliation service in production\n" +
		"- john@example.test\n" +
		"* Maintained infrastructure automation for three product teams\n"

	lines := CleanLines(text)

	require.Len(t, lines, 2)
	assert.Equal(t, "Developed the payment reconciliation service in production", lines[0])
	assert.Equal(t, "Maintained infrastructure automation for three product teams", lines[1])
}

func TestCleanLinesKeepsSectionHeadings(t *testing.T) {
	lines := CleanLines("Education\nBachelor of Science in Computer Engineering, Example University\nSkills:\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "Education", lines[0])
	assert.Equal(t, "Skills:", lines[2])
}

func TestSectionSlice(t *testing.T) {
	lines := CleanLines("Experience\n" +
		"Built the order management system used by enterprise clients\n" +
		"Maintained continuous delivery tooling for the platform group\n" +
		"Education\n" +
		"Bachelor of Technology from Example Institute of Technology\n")
	headings := findHeadings(lines)

	body := sectionSlice(lines, headings, "experience", 15)
	require.Len(t, body, 2)
	assert.Equal(t, "Built the order management system used by enterprise clients", body[0])

	edu := sectionSlice(lines, headings, "education", 12)
	require.Len(t, edu, 1)
	assert.Contains(t, edu[0], "Example Institute of Technology")

	assert.Nil(t, sectionSlice(lines, headings, "certifications", 15))
}
