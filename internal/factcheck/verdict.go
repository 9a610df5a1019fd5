package factcheck

import (
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// Explicit verdict phrases, checked in this order; the first hit wins
var explicitVerdicts = []struct {
	phrases []string
	verdict model.Verdict
}{
	{[]string{"verdict: true", "claim is true"}, model.VerdictTrue},
	{[]string{"verdict: false", "claim is false"}, model.VerdictFalse},
	{[]string{"verdict: partially true", "claim is partially true"}, model.VerdictPartiallyTrue},
}

var (
	trueIndicators    = []string{"correct", "accurate", "verified"}
	falseIndicators   = []string{"incorrect", "inaccurate", "false"}
	partialIndicators = []string{"partially", "somewhat", "not entirely"}
)

// Classify derives a verdict from the model's analysis text.
//
// Explicit phrases win. Otherwise each indicator counts once if it appears
// anywhere as a substring ("incorrect" also counts as "correct"). Any partial
// indicator gives partially true; otherwise true needs strictly more true than
// false indicators, so ties and texts with no indicators come out false.
func Classify(analysis string) model.Verdict {
	text := strings.ToLower(analysis)

	for _, ev := range explicitVerdicts {
		for _, phrase := range ev.phrases {
			if strings.Contains(text, phrase) {
				return ev.verdict
			}
		}
	}

	if countPresent(text, partialIndicators) > 0 {
		return model.VerdictPartiallyTrue
	}

	if countPresent(text, trueIndicators) > countPresent(text, falseIndicators) {
		return model.VerdictTrue
	}
	return model.VerdictFalse
}

// countPresent counts how many indicators occur at least once
func countPresent(text string, indicators []string) int {
	n := 0
	for _, ind := range indicators {
		if strings.Contains(text, ind) {
			n++
		}
	}
	return n
}
