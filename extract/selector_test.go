package extract

import (
	"testing"

	"github.com/wudi/ocrkit/ocr"
)

func TestSelectLongestWins(t *testing.T) {
	candidates := []ocr.Candidate{
		{Text: "short but very confident", MeanConfidence: 95, HasConfidence: true, Strategy: "printed"},
		{Text: "this one is noticeably longer than the other", MeanConfidence: 40, HasConfidence: true, Strategy: "handwritten"},
	}
	got := Select(candidates, PolicyLongestText)
	if got != "this one is noticeably longer than the other" {
		t.Fatalf("Select() = %q", got)
	}
}

func TestSelectTieKeepsFirst(t *testing.T) {
	candidates := []ocr.Candidate{
		{Text: "abcde"},
		{Text: "vwxyz"},
	}
	if got := Select(candidates, PolicyLongestText); got != "abcde" {
		t.Fatalf("Select() = %q, want the first of equal-length candidates", got)
	}
}

func TestSelectIgnoresEmptyCandidates(t *testing.T) {
	candidates := []ocr.Candidate{
		{Text: "   "},
		{Text: ""},
		{Text: " x "},
	}
	if got := Select(candidates, PolicyLongestText); got != "x" {
		t.Fatalf("Select() = %q", got)
	}
}

func TestSelectAllEmptyReturnsEmptyString(t *testing.T) {
	if got := Select([]ocr.Candidate{{Text: "  "}, {}}, PolicyLongestText); got != "" {
		t.Fatalf("Select() = %q, want empty", got)
	}
	if got := Select(nil, PolicyLongestText); got != "" {
		t.Fatalf("Select(nil) = %q, want empty", got)
	}
}

func TestSelectTrimsWinner(t *testing.T) {
	if got := Select([]ocr.Candidate{{Text: "\n  winner text \n"}}, PolicyLongestText); got != "winner text" {
		t.Fatalf("Select() = %q", got)
	}
}

func TestSelectHighestConfidence(t *testing.T) {
	candidates := []ocr.Candidate{
		{Text: "long but shaky transcription of the page", MeanConfidence: 35, HasConfidence: true},
		{Text: "crisp short read", MeanConfidence: 88, HasConfidence: true},
	}
	if got := Select(candidates, PolicyHighestConfidence); got != "crisp short read" {
		t.Fatalf("Select() = %q", got)
	}
}

func TestSelectConfidencePolicyTieKeepsFirst(t *testing.T) {
	candidates := []ocr.Candidate{
		{Text: "first", MeanConfidence: 70, HasConfidence: true},
		{Text: "second", MeanConfidence: 70, HasConfidence: true},
	}
	if got := Select(candidates, PolicyHighestConfidence); got != "first" {
		t.Fatalf("Select() = %q", got)
	}
}

func TestSelectConfidencePolicyFallsBackToLength(t *testing.T) {
	candidates := []ocr.Candidate{
		{Text: "unscored but longer text here"},
		{Text: "shorter"},
	}
	if got := Select(candidates, PolicyHighestConfidence); got != "unscored but longer text here" {
		t.Fatalf("Select() = %q", got)
	}
}
