package factcheck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ppiankov/factcheck/internal/model"
)

type rawParams struct {
	Claim       string          `json:"claim"`
	ClaimNumber json.RawMessage `json:"claim_number"`
	TotalClaims json.RawMessage `json:"total_claims"`
}

// DecodeParams decodes tool-call arguments of the form
// {"claim": "...", "claim_number": 1, "total_claims": 3}.
// Numbers must be JSON integers; 1.5, "1" and missing values are rejected.
// Range checks are left to Validate.
func DecodeParams(data []byte) (model.Request, error) {
	var raw rawParams
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return model.Request{}, fmt.Errorf("%w: decode params: %v", ErrInvalidArgument, err)
	}

	claimNumber, err := decodeInteger("claim_number", raw.ClaimNumber)
	if err != nil {
		return model.Request{}, err
	}

	totalClaims, err := decodeInteger("total_claims", raw.TotalClaims)
	if err != nil {
		return model.Request{}, err
	}

	return model.Request{
		Claim:       raw.Claim,
		ClaimNumber: claimNumber,
		TotalClaims: totalClaims,
	}, nil
}

func decodeInteger(field string, raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidArgument, field)
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil || bytes.HasPrefix(bytes.TrimSpace(raw), []byte(`"`)) {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidArgument, field)
	}

	// 3.0 is an integer value; 3.5 and 1e400 are not
	if n, err := strconv.ParseInt(num.String(), 10, 0); err == nil {
		return int(n), nil
	}
	f, err := num.Float64()
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidArgument, field)
	}
	return int(f), nil
}
