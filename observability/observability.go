package observability

// Package observability defines the logging and metrics hooks the extraction
// pipeline reports through. Implementations are injected; the library never
// writes to a global logger, and every hook has a no-op default so callers
// that do not care pay nothing.

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type float64Field struct {
	key string
	val float64
}

func (f float64Field) Key() string        { return f.key }
func (f float64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field          { return stringField{key, value} }
func Int(key string, value int) Field         { return intField{key, value} }
func Float64(key string, value float64) Field { return float64Field{key, value} }
func Error(key string, err error) Field       { return errorField{key, err} }

type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// Metrics receives counters and gauges emitted while extracting.
type Metrics interface {
	Incr(name string, delta int64)
	Observe(name string, value float64)
}

type nopMetrics struct{}

func (nopMetrics) Incr(string, int64)      {}
func (nopMetrics) Observe(string, float64) {}

// NopMetrics returns a metrics sink that discards everything.
func NopMetrics() Metrics { return nopMetrics{} }

// Standard metric names emitted by the library.
const (
	MetricPagesTotal       = "extract.pages.count"
	MetricPagesRasterized  = "extract.pages.rasterized"
	MetricVisionCalls      = "extract.vision.calls"
	MetricVisionFailures   = "extract.vision.failures"
	MetricSweepConfidence  = "ocr.sweep.confidence"
	MetricStrategyFailures = "extract.strategy.failures"
	MetricLastResortRuns   = "extract.lastresort.runs"
)
