package citation

import (
	"testing"

	"github.com/ppiankov/factcheck/internal/model"
)

func TestAuthorityClassifier_Classify(t *testing.T) {
	classifier := NewAuthorityClassifier(&model.AuthorityConfig{
		PrimaryDomains:   []string{"who.int"},
		SecondaryDomains: []string{"wikipedia.org", ".reuters.com"},
		DomainMap:        map[string]string{"blog.who.int": "tertiary"},
	})

	tests := []struct {
		url  string
		want model.AuthorityTier
	}{
		{"https://www.who.int/news", model.TierPrimary},
		{"https://blog.who.int/post", model.TierTertiary},
		{"https://en.wikipedia.org/wiki/Water", model.TierSecondary},
		{"https://www.reuters.com/world", model.TierSecondary},
		{"https://www.cdc.gov/flu", model.TierPrimary},
		{"https://www.ox.ac.uk/research", model.TierPrimary},
		{"https://www.data.gov.uk/dataset", model.TierPrimary},
		{"https://someblog.example.com/p", model.TierTertiary},
		{"not a url", model.TierUnknown},
	}

	for _, tt := range tests {
		if got := classifier.Classify(tt.url); got != tt.want {
			t.Errorf("Classify(%s) = %s, want %s", tt.url, got, tt.want)
		}
	}
}

func TestAuthorityClassifier_DefaultConfig(t *testing.T) {
	classifier := NewAuthorityClassifier(nil)
	if got := classifier.Classify("https://www.britannica.com/topic/x"); got != model.TierSecondary {
		t.Errorf("Expected secondary with defaults, got %s", got)
	}
}
