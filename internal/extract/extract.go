package extract

import (
	"regexp"
	"strings"

	"homewise/internal/domain"
)

// The assistant is prompted to answer with labeled ALL-CAPS sections. This
// package scans a completed response for those labels and recovers a typed
// diagnosis. It is a best-effort scraper over a semi-structured format: sections
// may be missing, reordered, or wrapped in markdown emphasis, and anything that
// does not match is simply left out.

type Result struct {
	// CleanedText is the response with any trailing raw-data payload removed,
	// safe to show in the transcript.
	CleanedText string
	// Diagnosis is nil while the conversation is still going, i.e. whenever the
	// IDENTIFIED ISSUE label (the sole completion signal) is absent.
	Diagnosis *domain.Diagnosis
}

const (
	sectionIssue   = "IDENTIFIED ISSUE"
	sectionSummary = "ISSUE SUMMARY"
	sectionParts   = "REQUIRED PARTS"
	sectionTools   = "REQUIRED TOOLS"
	sectionSteps   = "REPAIR STEPS"
)

// Items must be at least this long and at most maxItemLen to be accepted;
// anything outside the bounds is stray punctuation or a misdetected header.
const (
	minItemLen = 2
	maxItemLen = 99
)

// rawDataMarker is the literal keyword some responses append before a
// machine-readable copy of the diagnosis.
const rawDataMarker = "DIAGNOSIS_DATA"

var (
	// Section labels, optionally wrapped in markdown emphasis, at line start.
	headerRe = regexp.MustCompile(`(?m)^[ \t]*[*_#]{0,3}[ \t]*(IDENTIFIED ISSUE|ISSUE SUMMARY|REQUIRED PARTS|REQUIRED TOOLS|REPAIR STEPS)[ \t]*:?[*_]{0,3}[ \t]*`)

	bulletRe = regexp.MustCompile(`^[-*•]\s+(.+)$`)
	stepRe   = regexp.MustCompile(`^(\d+)[.)]\s+(.+)$`)

	// A JSON object opening whose first field is a known diagnosis field.
	rawJSONRe = regexp.MustCompile(`(?s)\{\s*"(title|parts_needed|partsNeeded)"`)
)

// Parse scans one complete response. It never fails: an unparseable response
// yields the cleaned text and a nil diagnosis.
func Parse(response string) Result {
	cleaned := stripRawPayload(response)

	sections := splitSections(cleaned)
	issueBody, ok := sections[sectionIssue]
	if !ok {
		return Result{CleanedText: cleaned}
	}

	title, rest := firstLine(issueBody)
	title = stripEmphasis(title)
	if title == "" {
		return Result{CleanedText: cleaned}
	}

	summary := stripEmphasis(strings.TrimSpace(sections[sectionSummary]))
	if summary == "" {
		summary = strings.TrimSpace(rest)
	}

	diag := &domain.Diagnosis{
		Title:       title,
		Summary:     summary,
		PartsNeeded: bulletItems(sections[sectionParts]),
		ToolsNeeded: bulletItems(sections[sectionTools]),
		Steps:       stepItems(sections[sectionSteps]),
	}
	return Result{CleanedText: cleaned, Diagnosis: diag}
}

// splitSections locates every known header and slices the body between it and
// the next header (or end of string). Later duplicates win, which tolerates the
// model restating a section.
func splitSections(text string) map[string]string {
	matches := headerRe.FindAllStringSubmatchIndex(text, -1)
	sections := make(map[string]string, len(matches))
	for i, m := range matches {
		name := strings.ToUpper(text[m[2]:m[3]])
		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections[name] = strings.TrimSpace(text[start:end])
	}
	return sections
}

// stripRawPayload truncates the response before any trailing machine-readable
// payload, detected by the literal marker or by a JSON object opening with a
// known field name.
func stripRawPayload(text string) string {
	if idx := strings.Index(text, rawDataMarker); idx >= 0 {
		text = text[:idx]
	}
	if loc := rawJSONRe.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	return strings.TrimSpace(text)
}

// bulletItems extracts list entries line by line. Only bullet-marked lines are
// accepted, trimmed, and length-bounded; a missing section yields an empty
// (not nil) list.
func bulletItems(body string) []string {
	items := []string{}
	for _, line := range strings.Split(body, "\n") {
		m := bulletRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		item := stripEmphasis(m[1])
		if len(item) < minItemLen || len(item) > maxItemLen {
			continue
		}
		items = append(items, item)
	}
	return items
}

// stepItems accepts only lines with a leading integer-dot (or paren) marker.
func stepItems(body string) []string {
	steps := []string{}
	for _, line := range strings.Split(body, "\n") {
		m := stepRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		step := stripEmphasis(m[2])
		if step == "" {
			continue
		}
		steps = append(steps, step)
	}
	return steps
}

func firstLine(body string) (line, rest string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ""
	}
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		return strings.TrimSpace(body[:idx]), body[idx+1:]
	}
	return body, ""
}

func stripEmphasis(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_#`"))
}
