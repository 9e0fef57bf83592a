package ocr

import (
	"context"
	"strings"

	"github.com/wudi/ocrkit/observability"
)

// Sweep runs the engine once per segmentation mode and returns the candidate
// with the strictly highest mean word confidence among modes that produced
// non-empty text. Ties keep the first-encountered mode. A mode whose
// invocation fails is logged and skipped; if every mode fails or yields
// nothing, the returned candidate is empty.
func Sweep(ctx context.Context, engine Engine, image []byte, modes []SegMode, strategy string, opts []InputOption, log observability.Logger, metrics observability.Metrics) Candidate {
	if log == nil {
		log = observability.NopLogger{}
	}
	if metrics == nil {
		metrics = observability.NopMetrics()
	}
	if len(modes) == 0 {
		modes = DefaultSegModes()
	}

	best := Candidate{Strategy: strategy}
	for _, mode := range modes {
		in := Input{Image: image, Format: ImageFormatPNG, PageSegMode: mode}
		for _, opt := range opts {
			opt(&in)
		}
		res, err := engine.Recognize(ctx, in)
		if err != nil {
			log.Warn("segmentation mode failed",
				observability.String("engine", engine.Name()),
				observability.String("strategy", strategy),
				observability.Int("mode", int(mode)),
				observability.Error("err", err))
			metrics.Incr(observability.MetricStrategyFailures, 1)
			continue
		}
		text := strings.TrimSpace(res.PlainText)
		if text == "" {
			continue
		}
		conf := res.MeanConfidence()
		if !best.HasConfidence || conf > best.MeanConfidence {
			best = Candidate{
				Text:           text,
				MeanConfidence: conf,
				HasConfidence:  true,
				Strategy:       strategy,
			}
		}
	}
	if best.HasConfidence {
		metrics.Observe(observability.MetricSweepConfidence, best.MeanConfidence)
	}
	return best
}
