package extract

import (
	"fmt"
	"strings"
)

// AllowedExtensions lists the lowercased filename suffixes the dispatcher
// accepts, in documentation order.
func AllowedExtensions() []string {
	return []string{"pdf", "docx", "png", "jpg", "jpeg"}
}

// UnsupportedFormatError reports a filename suffix outside the supported
// set. It is the only error the dispatcher raises before touching content.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type %q: allowed types are %s",
		e.Ext, strings.Join(AllowedExtensions(), ", "))
}

// ExtractionError reports a total extraction failure: every strategy failed
// and the last-resort recognizer run itself raised. Partial strategy
// failures never surface as errors; they degrade to a shorter (possibly
// empty) result instead.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return "extraction failed: " + e.Err.Error() }

func (e *ExtractionError) Unwrap() error { return e.Err }
