// Package pdf reads PDF documents page by page: the embedded text layer is
// returned directly when present, and pages without one are rasterized and
// handed to an image extraction pipeline. Born-digital PDFs therefore never
// touch a recognition engine.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/wudi/ocrkit/observability"
)

// DefaultDPI is the rasterization resolution for scanned pages.
const DefaultDPI = 300

// PageExtractor produces text from one rasterized page image.
type PageExtractor interface {
	ExtractImage(ctx context.Context, image []byte) (string, error)
}

// Rasterizer renders a single page (1-based) of a PDF document to an
// encoded image at the given DPI.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfData []byte, page, dpi int) ([]byte, error)
}

// Reader extracts text from PDFs.
type Reader struct {
	rasterizer Rasterizer
	pipeline   PageExtractor
	dpi        int
	log        observability.Logger
	metrics    observability.Metrics
}

// Option configures a Reader.
type Option func(*Reader)

// WithDPI overrides the rasterization resolution.
func WithDPI(dpi int) Option {
	return func(r *Reader) { r.dpi = dpi }
}

// WithLogger attaches a logger.
func WithLogger(log observability.Logger) Option {
	return func(r *Reader) { r.log = log }
}

// WithMetrics attaches a metrics sink.
func WithMetrics(m observability.Metrics) Option {
	return func(r *Reader) { r.metrics = m }
}

// NewReader constructs a Reader. rasterizer and pipeline may be nil, in
// which case pages without a text layer contribute nothing.
func NewReader(rasterizer Rasterizer, pipeline PageExtractor, opts ...Option) *Reader {
	r := &Reader{
		rasterizer: rasterizer,
		pipeline:   pipeline,
		dpi:        DefaultDPI,
		log:        observability.NopLogger{},
		metrics:    observability.NopMetrics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Extract walks the document's pages in order. Per page, the embedded text
// layer wins when its trimmed content is non-empty; otherwise the page is
// rasterized once and delegated to the pipeline. Pages yielding no text
// through either path contribute nothing. Page results are joined with a
// blank line.
func (r *Reader) Extract(ctx context.Context, data []byte) (string, error) {
	doc, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf: open document: %w", err)
	}

	total := doc.NumPage()
	r.metrics.Incr(observability.MetricPagesTotal, int64(total))

	var pages []string
	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if text := strings.TrimSpace(r.pageText(doc, n)); text != "" {
			pages = append(pages, text)
			continue
		}

		if r.rasterizer == nil || r.pipeline == nil {
			continue
		}
		img, err := r.rasterizer.Rasterize(ctx, data, n, r.dpi)
		if err != nil {
			r.log.Warn("page rasterization failed",
				observability.Int("page", n),
				observability.Error("err", err))
			continue
		}
		r.metrics.Incr(observability.MetricPagesRasterized, 1)
		text, err := r.pipeline.ExtractImage(ctx, img)
		if err != nil {
			return "", fmt.Errorf("pdf: extract page %d: %w", n, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// pageText reads the embedded text layer of one page. Malformed content
// streams are treated as "no text layer" so the page falls through to the
// recognition path.
func (r *Reader) pageText(doc *pdflib.Reader, n int) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn("text layer read panicked",
				observability.Int("page", n),
				observability.String("cause", fmt.Sprint(rec)))
			text = ""
		}
	}()
	page := doc.Page(n)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		r.log.Debug("text layer unavailable",
			observability.Int("page", n),
			observability.Error("err", err))
		return ""
	}
	return text
}
