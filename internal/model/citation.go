package model

import "time"

// AuthorityTier represents the classification of source authority
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0 // Not yet classified
	TierPrimary   AuthorityTier = 1 // Laws, statutes, academic papers, official documents
	TierSecondary AuthorityTier = 2 // Encyclopedias, major publishers, reputable media
	TierTertiary  AuthorityTier = 3 // Blogs, personal websites, everything else
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// MarshalText encodes the tier by name so JSON reports stay readable
func (t AuthorityTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// CitationCheck records what we found when following a returned citation
type CitationCheck struct {
	Citation     string        `json:"citation"`
	Skipped      bool          `json:"skipped,omitempty"` // Not an http(s) URL
	IsAccessible bool          `json:"is_accessible"`
	IsDead       bool          `json:"is_dead"`              // 404, 410 or unreachable
	Disallowed   bool          `json:"disallowed,omitempty"` // Blocked by robots.txt
	StatusCode   int           `json:"status_code,omitempty"`
	RedirectURL  string        `json:"redirect_url,omitempty"`
	Title        string        `json:"title,omitempty"`
	LastModified *time.Time    `json:"last_modified,omitempty"`
	IsStale      bool          `json:"is_stale"` // > 1 year old
	Authority    AuthorityTier `json:"authority"`
	Error        string        `json:"error,omitempty"`
}
