package ocr

import (
	"context"
	"strings"
)

// ImageFormat identifies the content type of a recognition input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
)

// SegMode is a page segmentation hypothesis handed to the engine: an
// assumption about how text is laid out on the page.
type SegMode int

const (
	// SegAuto lets the engine segment the page fully automatically.
	SegAuto SegMode = 3
	// SegSingleColumn assumes a single column of text of variable sizes.
	SegSingleColumn SegMode = 4
	// SegUniformBlock assumes one uniform block of text.
	SegUniformBlock SegMode = 6
	// SegSparse looks for sparse, scattered text in no particular order.
	SegSparse SegMode = 11
)

// DefaultSegModes is the ordered list of layout hypotheses the sweep tries.
// The order doubles as the tie-break: on equal confidence the earlier mode
// wins, so automatic segmentation is effectively preferred.
func DefaultSegModes() []SegMode {
	return []SegMode{SegAuto, SegUniformBlock, SegSparse, SegSingleColumn}
}

// Input encapsulates a single image submitted for recognition.
type Input struct {
	// Image is the encoded payload in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/png).
	Format ImageFormat
	// PageSegMode selects the layout hypothesis; zero means engine default.
	PageSegMode SegMode
	// DPI carries the effective dots-per-inch; zero means unknown.
	DPI int
	// Languages is a list of language hints (e.g., "eng") the engine can use
	// to select trained data.
	Languages []string
	// Metadata passes engine-specific knobs (e.g., a character whitelist)
	// without hard-coding them into the API surface.
	Metadata map[string]string
}

// Word is a single recognized token. Confidence is the engine's score in
// [0,100]; negative means the engine reported no data for the token.
type Word struct {
	Text       string
	Confidence float64
}

// Result captures recognition output for one input image.
type Result struct {
	// PlainText contains the linearized text extracted from the image.
	PlainText string
	// Words carries per-token confidences used to score the run.
	Words []Word
}

// MeanConfidence averages the per-word confidences, excluding tokens the
// engine reported no data for. It returns 0 when nothing is scorable.
func (r Result) MeanConfidence() float64 {
	var sum float64
	var n int
	for _, w := range r.Words {
		if w.Confidence < 0 {
			continue
		}
		sum += w.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Engine is the local recognition provider contract: one image in, one
// result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// Candidate is one strategy's proposed text plus its optional confidence,
// prior to final selection. The zero value is a valid "no text" candidate.
type Candidate struct {
	Text           string
	MeanConfidence float64
	HasConfidence  bool
	Strategy       string
}

// Empty reports whether the candidate carries no usable text.
func (c Candidate) Empty() bool { return strings.TrimSpace(c.Text) == "" }

// Len returns the length of the trimmed candidate text.
func (c Candidate) Len() int { return len(strings.TrimSpace(c.Text)) }
