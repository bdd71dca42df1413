package extract

import (
	"strings"
	"testing"

	"homewise/internal/tester"
)

const sampleResponse = `Based on your description and photo, here is what I found.

IDENTIFIED ISSUE: Worn faucet cartridge
ISSUE SUMMARY:
The dripping is caused by a worn cartridge seal inside the faucet body.

REQUIRED PARTS:
- Replacement cartridge (model-specific)
- Plumber's grease

REQUIRED TOOLS:
- Adjustable wrench
- Phillips screwdriver

REPAIR STEPS:
1. Shut off the water supply under the sink.
2. Remove the faucet handle.
3) Pull the old cartridge and install the new one.
`

func TestParseFullResponse(t *testing.T) {
	res := Parse(sampleResponse)

	if res.Diagnosis == nil {
		t.Fatal("expected a diagnosis")
	}
	tester.Eq(t, res.Diagnosis.Title, "Worn faucet cartridge")
	tester.Eq(t, res.Diagnosis.Summary, "The dripping is caused by a worn cartridge seal inside the faucet body.")
	tester.Eq(t, res.Diagnosis.PartsNeeded, []string{"Replacement cartridge (model-specific)", "Plumber's grease"})
	tester.Eq(t, res.Diagnosis.ToolsNeeded, []string{"Adjustable wrench", "Phillips screwdriver"})
	tester.Eq(t, len(res.Diagnosis.Steps), 3)
	tester.Eq(t, res.Diagnosis.Steps[2], "Pull the old cartridge and install the new one.")
}

func TestParseCompactResponse(t *testing.T) {
	res := Parse("IDENTIFIED ISSUE: Leaky faucet\nREQUIRED PARTS:\n- Washer\n- O-ring\nREQUIRED TOOLS:\n- Wrench\nREPAIR STEPS:\n1. Turn off water\n2. Replace washer")

	if res.Diagnosis == nil {
		t.Fatal("expected a diagnosis")
	}
	tester.Eq(t, res.Diagnosis.Title, "Leaky faucet")
	tester.Eq(t, res.Diagnosis.PartsNeeded, []string{"Washer", "O-ring"})
	tester.Eq(t, res.Diagnosis.ToolsNeeded, []string{"Wrench"})
	tester.Eq(t, res.Diagnosis.Steps, []string{"Turn off water", "Replace washer"})
}

func TestParseWithoutIssueHeader(t *testing.T) {
	res := Parse("Could you tell me whether the faucet is a single-handle or two-handle model?")

	tester.True(t, res.Diagnosis == nil, "no header means the conversation is not done")
	tester.True(t, strings.Contains(res.CleanedText, "single-handle"))
}

func TestParseEmptyTitleYieldsNoDiagnosis(t *testing.T) {
	res := Parse("IDENTIFIED ISSUE:\n\n")
	tester.True(t, res.Diagnosis == nil)
}

func TestParseMarkdownWrappedHeaders(t *testing.T) {
	res := Parse("**IDENTIFIED ISSUE:** Clogged drain trap\n**REQUIRED PARTS:**\n- Trap gasket\n")

	if res.Diagnosis == nil {
		t.Fatal("expected a diagnosis")
	}
	tester.Eq(t, res.Diagnosis.Title, "Clogged drain trap")
	tester.Eq(t, res.Diagnosis.PartsNeeded, []string{"Trap gasket"})
}

func TestParseMissingSectionsAreEmptyNotNil(t *testing.T) {
	res := Parse("IDENTIFIED ISSUE: Loose hinge\nTighten the screws.")

	if res.Diagnosis == nil {
		t.Fatal("expected a diagnosis")
	}
	tester.True(t, res.Diagnosis.PartsNeeded != nil, "parts must be empty, not nil")
	tester.Eq(t, len(res.Diagnosis.PartsNeeded), 0)
	tester.True(t, res.Diagnosis.Steps != nil, "steps must be empty, not nil")
	tester.Eq(t, res.Diagnosis.Summary, "Tighten the screws.")
}

func TestParseItemLengthBounds(t *testing.T) {
	long := strings.Repeat("x", 120)
	res := Parse("IDENTIFIED ISSUE: Test\nREQUIRED PARTS:\n- a\n- " + long + "\n- Washer\n")

	if res.Diagnosis == nil {
		t.Fatal("expected a diagnosis")
	}
	tester.Eq(t, res.Diagnosis.PartsNeeded, []string{"Washer"})
}

func TestParseStripsRawPayload(t *testing.T) {
	res := Parse("IDENTIFIED ISSUE: Leaky valve\nReplace it.\n\nDIAGNOSIS_DATA\n{\"title\":\"Leaky valve\"}")

	tester.False(t, strings.Contains(res.CleanedText, "DIAGNOSIS_DATA"))
	tester.False(t, strings.Contains(res.CleanedText, "{"))
	if res.Diagnosis == nil {
		t.Fatal("expected a diagnosis")
	}
	tester.Eq(t, res.Diagnosis.Title, "Leaky valve")
}

func TestParseStripsBareJSONPayload(t *testing.T) {
	res := Parse("IDENTIFIED ISSUE: Leaky valve\n\n{\"title\": \"Leaky valve\", \"parts_needed\": []}")

	tester.False(t, strings.Contains(res.CleanedText, "parts_needed"))
}

func TestParseDuplicateSectionLaterWins(t *testing.T) {
	res := Parse("IDENTIFIED ISSUE: First guess\nIDENTIFIED ISSUE: Corrected diagnosis\n")

	if res.Diagnosis == nil {
		t.Fatal("expected a diagnosis")
	}
	tester.Eq(t, res.Diagnosis.Title, "Corrected diagnosis")
}

func TestParseNonBulletLinesIgnored(t *testing.T) {
	res := Parse("IDENTIFIED ISSUE: Test\nREQUIRED TOOLS:\nYou will need a few things:\n- Hammer\nmaybe a drill\n")

	if res.Diagnosis == nil {
		t.Fatal("expected a diagnosis")
	}
	tester.Eq(t, res.Diagnosis.ToolsNeeded, []string{"Hammer"})
}
