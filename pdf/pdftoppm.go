package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Pdftoppm rasterizes PDF pages by shelling out to poppler's pdftoppm.
// Scratch files live in a per-call temp directory that is removed before
// returning, so nothing outlives the call.
type Pdftoppm struct {
	// Binary is the executable name or absolute path; empty means "pdftoppm".
	Binary string
}

// NewPdftoppm returns a rasterizer using the pdftoppm binary from PATH.
func NewPdftoppm() *Pdftoppm {
	return &Pdftoppm{Binary: "pdftoppm"}
}

func (p *Pdftoppm) binary() string {
	if p.Binary != "" {
		return p.Binary
	}
	return "pdftoppm"
}

// Available reports whether the pdftoppm binary can be resolved.
func (p *Pdftoppm) Available() bool {
	_, err := exec.LookPath(p.binary())
	return err == nil
}

// Rasterize renders the given 1-based page to a PNG at the requested DPI.
func (p *Pdftoppm) Rasterize(ctx context.Context, pdfData []byte, page, dpi int) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("pdf: page %d out of range", page)
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	dir, err := os.MkdirTemp("", "ocrkit-raster-")
	if err != nil {
		return nil, fmt.Errorf("pdf: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(in, pdfData, 0o600); err != nil {
		return nil, fmt.Errorf("pdf: write scratch file: %w", err)
	}
	prefix := filepath.Join(dir, "page")

	cmd := exec.CommandContext(ctx, p.binary(),
		"-png",
		"-r", strconv.Itoa(dpi),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-singlefile",
		in, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdf: pdftoppm page %d: %w: %s", page, err, out)
	}

	img, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdf: read rasterized page: %w", err)
	}
	return img, nil
}
