package model

import (
	"fmt"
	"strings"
)

// ReportInstructions is appended to the last claim's result so the caller
// knows how to compile the final report.
const ReportInstructions = "\n" +
	"Please compile a comprehensive fact-checking report with the following structure:\n" +
	"\n" +
	"1. Executive Summary:\n" +
	"   - Brief overview of all claims checked\n" +
	"   - Overall assessment summary\n" +
	"\n" +
	"2. Detailed Analysis (for each claim):\n" +
	"   - Claim statement\n" +
	"   - Verdict (true/false/partially true)\n" +
	"   - Reasoning for the verdict\n" +
	"   - Supporting citations\n" +
	"   \n" +
	"\n" +
	"Format the report in clear, professional language using Markdown for better readability."

// ContinueInstruction is the directive for every claim but the last
const ContinueInstruction = "Continue with next claim"

// Result is the outcome of checking one claim.
//
// Text renders the string form handed to a report-generating model. The JSON
// encoding is the structured form; ReportInstructions is only present when
// NextAction is generate_report.
type Result struct {
	Claim       string     `json:"claim"`
	ClaimNumber int        `json:"claim_number"`
	TotalClaims int        `json:"total_claims"`
	Verdict     Verdict    `json:"status"`
	Analysis    string     `json:"analysis"`
	Citations   []string   `json:"citations"`
	NextAction  NextAction `json:"next_action"`

	ReportInstructions string `json:"report_instructions,omitempty"`

	// Only populated when citation verification is enabled; never rendered in Text
	CitationChecks []CitationCheck `json:"citation_checks,omitempty"`
}

// IsLast reports whether the caller should now generate the final report
func (r *Result) IsLast() bool {
	return r.NextAction == NextActionGenerateReport
}

// Text renders the result in the fixed layout consumed downstream
func (r *Result) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim: %s\nStatus: %s\nAnalysis: %s", r.Claim, r.Verdict, r.Analysis)

	if len(r.Citations) > 0 {
		b.WriteString("\n\nCitations:")
		for i, c := range r.Citations {
			fmt.Fprintf(&b, "\n[%d] %s", i+1, c)
		}
	}

	b.WriteString("\n\nNext Action: ")
	if r.IsLast() {
		b.WriteString(ReportInstructions)
	} else {
		b.WriteString(ContinueInstruction)
	}

	return b.String()
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Text()
}
