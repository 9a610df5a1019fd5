package factcheck

import "github.com/ppiankov/factcheck/internal/model"

// NextActionFor tells the caller whether more claims follow
func NextActionFor(claimNumber, totalClaims int) model.NextAction {
	if claimNumber < totalClaims {
		return model.NextActionNextClaim
	}
	return model.NextActionGenerateReport
}

// NewResult assembles the canonical result for one checked claim
func NewResult(req model.Request, answer *model.Answer) *model.Result {
	citations := answer.Citations
	if citations == nil {
		citations = []string{}
	}

	result := &model.Result{
		Claim:       req.Claim,
		ClaimNumber: req.ClaimNumber,
		TotalClaims: req.TotalClaims,
		Verdict:     Classify(answer.Content),
		Analysis:    answer.Content,
		Citations:   citations,
		NextAction:  NextActionFor(req.ClaimNumber, req.TotalClaims),
	}

	if result.IsLast() {
		result.ReportInstructions = model.ReportInstructions
	}

	return result
}

// Format renders a result as the text handed to the report-generating model
func Format(result *model.Result) string {
	return result.Text()
}
