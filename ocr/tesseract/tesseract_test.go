package tesseract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/wudi/ocrkit/ocr"
)

// ensureTesseractAvailable checks that the tesseract binary is reachable.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func renderText(t *testing.T, text string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 240, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 45),
	}
	d.DrawString(text)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestRecognize(t *testing.T) {
	ensureTesseractAvailable(t)

	res, err := New().Recognize(context.Background(), ocr.Input{
		Image:       renderText(t, "Hello OCR"),
		Format:      ocr.ImageFormatPNG,
		PageSegMode: ocr.SegUniformBlock,
		DPI:         300,
		Languages:   []string{"eng"},
	})
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if !strings.Contains(res.PlainText, "Hello") {
		t.Fatalf("PlainText = %q, want it to contain %q", res.PlainText, "Hello")
	}
	if len(res.Words) == 0 {
		t.Fatalf("expected word-level confidences")
	}
	if conf := res.MeanConfidence(); conf <= 0 || conf > 100 {
		t.Fatalf("MeanConfidence = %v, want within (0,100]", conf)
	}
}

func TestRecognizeHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Recognize(ctx, ocr.Input{Image: []byte("x")}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRecognizeRejectsBadImage(t *testing.T) {
	ensureTesseractAvailable(t)
	if _, err := New().Recognize(context.Background(), ocr.Input{Image: []byte("not an image")}); err == nil {
		t.Fatalf("expected error for undecodable image")
	}
}
