// Package preprocess normalizes raster images for a local recognition engine.
//
// Two profiles are provided. Printed assumes clean machine-set text and is
// aggressive: deskew, strong edge-preserving denoising, adaptive local
// thresholding, morphological closing and sharpening. Handwritten preserves
// stroke shape: no deskew, no closing, gentler denoising, a single global
// Otsu threshold and polarity correction.
//
// Every transform is a pure function of its input; the package holds no
// state and is safe for concurrent use.
package preprocess

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// Profile selects the normalization chain applied before recognition.
type Profile int

const (
	// ProfilePrinted targets machine-printed pages.
	ProfilePrinted Profile = iota
	// ProfileHandwritten targets handwriting and preserves stroke shape.
	ProfileHandwritten
)

func (p Profile) String() string {
	switch p {
	case ProfilePrinted:
		return "printed"
	case ProfileHandwritten:
		return "handwritten"
	default:
		return fmt.Sprintf("profile(%d)", int(p))
	}
}

// MinWidth returns the minimum pixel width enforced for the profile. Inputs
// narrower than this are upscaled before any other transform; inputs already
// wide enough are never resized.
func (p Profile) MinWidth() int {
	if p == ProfileHandwritten {
		return 1500
	}
	return 1000
}

const (
	deskewThresholdDeg = 0.5

	printedClipLimit     = 2.0
	handwrittenClipLimit = 3.0
	claheTiles           = 8

	bilateralDiameter   = 9
	bilateralSigmaColor = 75.0
	bilateralSigmaSpace = 75.0

	adaptiveBlockSize = 15
	adaptiveOffset    = 10
)

// Apply runs the full normalization chain for the profile and returns a
// single-channel bi-level image ready for recognition.
func Apply(src image.Image, profile Profile) *image.Gray {
	scaled := EnsureMinWidth(src, profile.MinWidth())
	gray := ToGray(scaled)

	if profile == ProfileHandwritten {
		enhanced := CLAHE(gray, handwrittenClipLimit, claheTiles)
		denoised := Median3(enhanced)
		binary := OtsuThreshold(denoised)
		return CorrectPolarity(binary)
	}

	if angle := SkewAngle(gray); abs(angle) > deskewThresholdDeg {
		gray = Rotate(gray, -angle)
	}
	enhanced := CLAHE(gray, printedClipLimit, claheTiles)
	denoised := Bilateral(enhanced, bilateralDiameter, bilateralSigmaColor, bilateralSigmaSpace)
	binary := AdaptiveThreshold(denoised, adaptiveBlockSize, adaptiveOffset)
	closed := Close2x2(binary)
	return Sharpen(closed)
}

// PNG encodes the image for handing to a recognition engine.
func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
