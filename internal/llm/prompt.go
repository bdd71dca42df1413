package llm

import (
	"bytes"
	"strings"
)

// The extractor in internal/extract scans for these exact labels; the prompt
// and the scanner must stay in sync.
const diagnosisInstructions = `You are a home repair expert helping a homeowner diagnose a problem.
Ask clarifying questions while the problem is unclear. Once you are confident
about the diagnosis, answer with exactly these labeled sections:

IDENTIFIED ISSUE: <short issue title on the first line>
ISSUE SUMMARY: <plain-language explanation of the problem and its cause>
REQUIRED PARTS:
- <one part per line>
REQUIRED TOOLS:
- <one tool per line>
REPAIR STEPS:
1. <numbered steps the homeowner can follow>

Keep answers practical and safe. Flag anything that needs a licensed professional.`

// diagnosisPrompt frames the user's message with the section-format
// instructions the extractor depends on.
func diagnosisPrompt(userText string) string {
	var buf bytes.Buffer
	writeSection(&buf, "INSTRUCTIONS", diagnosisInstructions)
	writeSection(&buf, "HOMEOWNER MESSAGE", strings.TrimSpace(userText))
	return strings.TrimSpace(buf.String()) + "\n"
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
