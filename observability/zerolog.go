package observability

import "github.com/rs/zerolog"

// ZerologLogger adapts a zerolog.Logger to the Logger interface. It is the
// implementation the CLI wires in; library code only ever sees the interface.
type ZerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger wraps the given zerolog logger.
func NewZerologLogger(l zerolog.Logger) ZerologLogger {
	return ZerologLogger{l: l}
}

func (z ZerologLogger) Debug(msg string, fields ...Field) { emit(z.l.Debug(), msg, fields) }
func (z ZerologLogger) Info(msg string, fields ...Field)  { emit(z.l.Info(), msg, fields) }
func (z ZerologLogger) Warn(msg string, fields ...Field)  { emit(z.l.Warn(), msg, fields) }
func (z ZerologLogger) Error(msg string, fields ...Field) { emit(z.l.Error(), msg, fields) }

func (z ZerologLogger) With(fields ...Field) Logger {
	ctx := z.l.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key(), f.Value())
	}
	return ZerologLogger{l: ctx.Logger()}
}

func emit(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		switch v := f.Value().(type) {
		case string:
			e = e.Str(f.Key(), v)
		case int:
			e = e.Int(f.Key(), v)
		case float64:
			e = e.Float64(f.Key(), v)
		case error:
			e = e.AnErr(f.Key(), v)
		default:
			e = e.Interface(f.Key(), v)
		}
	}
	e.Msg(msg)
}
