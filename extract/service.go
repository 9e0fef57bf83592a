// Package extract orchestrates document text extraction: it dispatches an
// input by filename suffix to the PDF page reader, the DOCX paragraph
// reader, or the image pipeline, and combines local recognition sweeps with
// an optional external vision transcription into one plain-text result.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/wudi/ocrkit/docx"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/ocr"
	"github.com/wudi/ocrkit/pdf"
	"github.com/wudi/ocrkit/preprocess"
	"github.com/wudi/ocrkit/vision"
)

// Service is the extraction entry point. It holds only read-only
// configuration and stateless collaborators, so one Service may serve
// concurrent calls.
type Service struct {
	engine      ocr.Engine
	transcriber vision.Transcriber
	pdfReader   *pdf.Reader
	cfg         Config
	log         observability.Logger
	metrics     observability.Metrics
}

// Option configures a Service.
type Option func(*Service, *pdfDeps)

type pdfDeps struct {
	rasterizer pdf.Rasterizer
}

// WithTranscriber attaches the external vision client. Without one the
// pipeline relies on local recognition only.
func WithTranscriber(t vision.Transcriber) Option {
	return func(s *Service, _ *pdfDeps) { s.transcriber = t }
}

// WithRasterizer sets the renderer used for PDF pages lacking a text layer.
func WithRasterizer(r pdf.Rasterizer) Option {
	return func(_ *Service, d *pdfDeps) { d.rasterizer = r }
}

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(s *Service, _ *pdfDeps) { s.cfg = cfg }
}

// WithLogger attaches a logger.
func WithLogger(log observability.Logger) Option {
	return func(s *Service, _ *pdfDeps) { s.log = log }
}

// WithMetrics attaches a metrics sink.
func WithMetrics(m observability.Metrics) Option {
	return func(s *Service, _ *pdfDeps) { s.metrics = m }
}

// New constructs a Service around the given local recognition engine. The
// engine may be nil only when a transcriber is configured; a Service with
// neither can still read DOCX files and digital PDFs.
func New(engine ocr.Engine, opts ...Option) *Service {
	s := &Service{
		engine:  engine,
		log:     observability.NopLogger{},
		metrics: observability.NopMetrics(),
	}
	deps := &pdfDeps{rasterizer: pdf.NewPdftoppm()}
	for _, opt := range opts {
		opt(s, deps)
	}
	s.cfg = s.cfg.withDefaults()
	s.pdfReader = pdf.NewReader(deps.rasterizer, s,
		pdf.WithDPI(s.cfg.DPI),
		pdf.WithLogger(s.log),
		pdf.WithMetrics(s.metrics))
	return s
}

// ExtractText is the main entry point: data is the document content and
// filename supplies the extension that drives dispatch. The result may be
// empty but is never accompanied by a nil-and-error pair; callers get
// either text or one of the named errors.
func (s *Service) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "pdf":
		return s.pdfReader.Extract(ctx, data)
	case "docx":
		return docx.Extract(data)
	case "png", "jpg", "jpeg":
		return s.ExtractImage(ctx, data)
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

// ExtractImage runs the consolidated image pipeline:
//
//  1. a configured vision transcriber goes first and short-circuits the
//     call when its trimmed result exceeds the accept threshold;
//  2. otherwise the recognition engine sweeps segmentation modes once per
//     preprocessing profile;
//  3. the selector picks among the surviving candidates;
//  4. if everything came back empty, the engine runs once more on the
//     unmodified image with default settings — the guaranteed last resort.
//
// Individual strategy failures are logged and dropped; only a failing last
// resort surfaces as *ExtractionError.
func (s *Service) ExtractImage(ctx context.Context, img []byte) (string, error) {
	var candidates []ocr.Candidate

	if s.transcriber != nil {
		s.metrics.Incr(observability.MetricVisionCalls, 1)
		text, err := s.transcriber.Transcribe(ctx, img)
		if err != nil {
			s.log.Warn("vision transcription unavailable", observability.Error("err", err))
			s.metrics.Incr(observability.MetricVisionFailures, 1)
		} else if trimmedText := strings.TrimSpace(text); len(trimmedText) > s.cfg.VisionAcceptLength {
			return trimmedText, nil
		} else if trimmedText != "" {
			candidates = append(candidates, ocr.Candidate{Text: trimmedText, Strategy: "vision"})
		}
	}

	if s.engine != nil {
		if decoded, _, err := image.Decode(bytes.NewReader(img)); err != nil {
			s.log.Warn("image decode failed, skipping preprocessing strategies",
				observability.Error("err", err))
			s.metrics.Incr(observability.MetricStrategyFailures, 1)
		} else {
			for _, profile := range s.cfg.Profiles {
				if cand := s.profileCandidate(ctx, decoded, profile); !cand.Empty() {
					candidates = append(candidates, cand)
				}
			}
		}
	}

	if text := Select(candidates, s.cfg.Policy); text != "" {
		return text, nil
	}
	return s.lastResort(ctx, img)
}

// profileCandidate preprocesses under one profile and sweeps the
// segmentation modes. Any failure, including a panicking transform on a
// degenerate image, yields an empty candidate instead of aborting the call.
func (s *Service) profileCandidate(ctx context.Context, decoded image.Image, profile preprocess.Profile) (cand ocr.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("preprocessing strategy panicked",
				observability.String("profile", profile.String()),
				observability.String("cause", fmt.Sprint(r)))
			s.metrics.Incr(observability.MetricStrategyFailures, 1)
			cand = ocr.Candidate{Strategy: profile.String()}
		}
	}()

	prepped, err := preprocess.PNG(preprocess.Apply(decoded, profile))
	if err != nil {
		s.log.Warn("preprocessing failed",
			observability.String("profile", profile.String()),
			observability.Error("err", err))
		s.metrics.Incr(observability.MetricStrategyFailures, 1)
		return ocr.Candidate{Strategy: profile.String()}
	}
	return ocr.Sweep(ctx, s.engine, prepped, s.cfg.SegModes, profile.String(),
		s.sweepOptions(), s.log, s.metrics)
}

func (s *Service) sweepOptions() []ocr.InputOption {
	if len(s.cfg.Languages) == 0 {
		return nil
	}
	return []ocr.InputOption{ocr.WithLanguages(s.cfg.Languages...)}
}

// lastResort runs the engine on the unmodified image with default
// settings. This is the only place a recognition failure propagates: a
// broken engine installation must not be masked as an empty result.
func (s *Service) lastResort(ctx context.Context, img []byte) (string, error) {
	if s.engine == nil {
		return "", &ExtractionError{Err: errors.New("no recognition engine configured and no strategy produced text")}
	}
	s.metrics.Incr(observability.MetricLastResortRuns, 1)
	res, err := s.engine.Recognize(ctx, ocr.Input{Image: img, Format: sniffFormat(img)})
	if err != nil {
		return "", &ExtractionError{Err: err}
	}
	return strings.TrimSpace(res.PlainText), nil
}

func sniffFormat(img []byte) ocr.ImageFormat {
	if bytes.HasPrefix(img, []byte("\x89PNG")) {
		return ocr.ImageFormatPNG
	}
	return ocr.ImageFormatJPEG
}
