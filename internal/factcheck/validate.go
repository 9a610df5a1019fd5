package factcheck

import (
	"fmt"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// Validate checks a request and its settings before any network call.
// Checks run in a fixed order and the first failure is returned.
func Validate(req model.Request, settings model.Settings) error {
	if strings.TrimSpace(req.Claim) == "" {
		return fmt.Errorf("%w: invalid claim provided", ErrInvalidArgument)
	}

	if req.ClaimNumber < 1 {
		return fmt.Errorf("%w: claim_number must be a positive integer", ErrInvalidArgument)
	}

	if req.TotalClaims < 1 {
		return fmt.Errorf("%w: total_claims must be a positive integer", ErrInvalidArgument)
	}

	if req.ClaimNumber > req.TotalClaims {
		return fmt.Errorf("%w: claim_number cannot be greater than total_claims", ErrInvalidArgument)
	}

	if strings.TrimSpace(settings.APIKey) == "" {
		return fmt.Errorf("%w: Perplexity API key is missing", ErrMissingCredential)
	}

	return nil
}
