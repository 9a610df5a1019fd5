package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_Text_ContinueWithoutCitations(t *testing.T) {
	r := &Result{
		Claim:       "Water boils at 100C at sea level",
		ClaimNumber: 1,
		TotalClaims: 3,
		Verdict:     VerdictTrue,
		Analysis:    "Verdict: True.",
		NextAction:  NextActionNextClaim,
	}

	want := "Claim: Water boils at 100C at sea level\n" +
		"Status: true\n" +
		"Analysis: Verdict: True.\n" +
		"\n" +
		"Next Action: Continue with next claim"

	assert.Equal(t, want, r.Text())
	assert.NotContains(t, r.Text(), "Citations:")
}

func TestResult_Text_CitationsNumbered(t *testing.T) {
	r := &Result{
		Claim:      "x",
		Verdict:    VerdictFalse,
		Analysis:   "no",
		Citations:  []string{"https://a.example", "https://b.example"},
		NextAction: NextActionNextClaim,
	}

	assert.Contains(t, r.Text(), "Analysis: no\n\nCitations:\n[1] https://a.example\n[2] https://b.example\n\nNext Action: ")
}

func TestResult_Text_ReportInstructionsOnLastClaim(t *testing.T) {
	r := &Result{
		Claim:       "x",
		ClaimNumber: 3,
		TotalClaims: 3,
		Verdict:     VerdictPartiallyTrue,
		Analysis:    "mixed",
		NextAction:  NextActionGenerateReport,
	}

	text := r.Text()
	assert.True(t, strings.HasSuffix(text, "Next Action: "+ReportInstructions))
	assert.Contains(t, text, "1. Executive Summary:")
	assert.Contains(t, text, "2. Detailed Analysis (for each claim):")
	assert.Contains(t, text, "using Markdown for better readability.")
	assert.NotContains(t, text, ContinueInstruction)
}

func TestResult_JSON_ReportInstructionsOnlyWhenLast(t *testing.T) {
	notLast := &Result{Claim: "x", Verdict: VerdictTrue, NextAction: NextActionNextClaim, Citations: []string{}}
	data, err := json.Marshal(notLast)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "report_instructions")
	assert.Contains(t, string(data), `"status":"true"`)

	last := &Result{Claim: "x", Verdict: VerdictTrue, NextAction: NextActionGenerateReport, ReportInstructions: ReportInstructions}
	data, err = json.Marshal(last)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"report_instructions"`)
}

func TestSettings_WithDefaults(t *testing.T) {
	s := Settings{APIKey: "k"}.WithDefaults()
	assert.Empty(t, s.Model)
	assert.Equal(t, DefaultSystemMessage, s.SystemMessage)
	assert.Equal(t, "k", s.APIKey)

	custom := Settings{Model: "sonar-pro", SystemMessage: "be brief"}.WithDefaults()
	assert.Equal(t, "sonar-pro", custom.Model)
	assert.Equal(t, "be brief", custom.SystemMessage)
}

func TestAuthorityTier_MarshalText(t *testing.T) {
	data, err := json.Marshal(CitationCheck{Citation: "u", Authority: TierPrimary})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"authority":"primary"`)
}
