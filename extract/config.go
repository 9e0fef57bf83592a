package extract

import (
	"github.com/wudi/ocrkit/ocr"
	"github.com/wudi/ocrkit/pdf"
	"github.com/wudi/ocrkit/preprocess"
)

// visionAcceptLength is the trimmed length a vision transcription must
// exceed to short-circuit local recognition.
const visionAcceptLength = 20

// Config carries the knobs of one extraction service. The zero value is
// usable; empty fields fall back to defaults. A Config is resolved once at
// construction and never mutated afterwards, so a Service built from it is
// safe for concurrent calls.
type Config struct {
	// Profiles are the preprocessing variants tried by the image pipeline.
	// Default: printed then handwritten.
	Profiles []preprocess.Profile
	// SegModes is the ordered segmentation sweep. Default: ocr.DefaultSegModes.
	SegModes []ocr.SegMode
	// Policy picks among competing candidates. Default: PolicyLongestText.
	Policy SelectionPolicy
	// VisionAcceptLength is the short-circuit threshold for vision results.
	// Zero means the default of 20 characters.
	VisionAcceptLength int
	// DPI is the PDF rasterization resolution. Zero means 300.
	DPI int
	// Languages are hints passed to the recognition engine (e.g., "eng").
	Languages []string
}

func (c Config) withDefaults() Config {
	if len(c.Profiles) == 0 {
		c.Profiles = []preprocess.Profile{preprocess.ProfilePrinted, preprocess.ProfileHandwritten}
	}
	if len(c.SegModes) == 0 {
		c.SegModes = ocr.DefaultSegModes()
	}
	if c.VisionAcceptLength <= 0 {
		c.VisionAcceptLength = visionAcceptLength
	}
	if c.DPI <= 0 {
		c.DPI = pdf.DefaultDPI
	}
	return c
}
