package ocr

// Package ocr defines the contract for local recognition engines (for
// example, Tesseract) and the segmentation-mode sweep that turns one image
// into the engine's best extraction candidate. The Engine interface is
// intentionally small and transport-agnostic so providers can be backed by
// native libraries, local binaries, or remote APIs without leaking
// provider-specific concerns into callers.
