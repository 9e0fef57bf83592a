package extract

import (
	"strings"

	"github.com/wudi/ocrkit/ocr"
)

// SelectionPolicy decides among competing extraction candidates.
type SelectionPolicy int

const (
	// PolicyLongestText returns the candidate with the greatest trimmed
	// length. Simple and availability-biased: the branch that found more
	// wins, even if a shorter candidate scored higher confidence.
	PolicyLongestText SelectionPolicy = iota
	// PolicyHighestConfidence prefers the candidate with the best mean
	// recognition confidence; unscored candidates lose to scored ones.
	// When no candidate carries a score it falls back to length.
	PolicyHighestConfidence
)

// Select applies the policy over the non-empty candidates and returns the
// winner's trimmed text, or "" when nothing usable was supplied. Ties keep
// the candidate appearing first in the input order under both policies.
func Select(candidates []ocr.Candidate, policy SelectionPolicy) string {
	nonEmpty := candidates[:0:0]
	for _, c := range candidates {
		if !c.Empty() {
			nonEmpty = append(nonEmpty, c)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}

	if policy == PolicyHighestConfidence {
		if best, ok := byConfidence(nonEmpty); ok {
			return best
		}
	}
	return byLength(nonEmpty)
}

func byLength(candidates []ocr.Candidate) string {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Len() > best.Len() {
			best = c
		}
	}
	return trimmed(best)
}

func byConfidence(candidates []ocr.Candidate) (string, bool) {
	var best ocr.Candidate
	found := false
	for _, c := range candidates {
		if !c.HasConfidence {
			continue
		}
		if !found || c.MeanConfidence > best.MeanConfidence {
			best = c
			found = true
		}
	}
	if !found {
		return "", false
	}
	return trimmed(best), true
}

func trimmed(c ocr.Candidate) string {
	return strings.TrimSpace(c.Text)
}
