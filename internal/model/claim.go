package model

// Request is a single claim handed to the checker by an orchestrating caller
type Request struct {
	Claim       string `json:"claim"`
	ClaimNumber int    `json:"claim_number"` // 1-based position of this claim
	TotalClaims int    `json:"total_claims"` // Number of claims in the run
}

// Verdict is the truth value derived from the model's analysis
type Verdict string

const (
	VerdictTrue          Verdict = "true"
	VerdictFalse         Verdict = "false"
	VerdictPartiallyTrue Verdict = "partially true"
)

// NextAction tells the orchestrating caller what to do after this claim
type NextAction string

const (
	NextActionNextClaim      NextAction = "next_claim"      // More claims remain
	NextActionGenerateReport NextAction = "generate_report" // Last claim, compile the report
)

// Default settings for the Perplexity sonar endpoint
const (
	DefaultModel         = "sonar"
	DefaultSystemMessage = "Fact check the following claim and provide citations to support your analysis."
)

// Settings are the caller-supplied credentials and model options for one call
type Settings struct {
	APIKey        string `json:"-"`
	Model         string `json:"model,omitempty"`
	SystemMessage string `json:"system_message,omitempty"`
}

// WithDefaults returns a copy with a blank system message replaced by the
// default. A blank model is kept; each provider picks its own.
func (s Settings) WithDefaults() Settings {
	if s.SystemMessage == "" {
		s.SystemMessage = DefaultSystemMessage
	}
	return s
}

// Answer is the parsed reply from the remote service
type Answer struct {
	Content   string   `json:"content"`
	Citations []string `json:"citations"`
}
