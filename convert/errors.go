package convert

import "fmt"

// SourceOpenError reports an unreadable, corrupt, or missing input document.
// It is fatal to the conversion: no partial output is produced.
type SourceOpenError struct {
	Path string
	Err  error
}

func (e *SourceOpenError) Error() string {
	return fmt.Sprintf("open source document %s: %v", e.Path, e.Err)
}

func (e *SourceOpenError) Unwrap() error { return e.Err }

// OutputWriteError reports an unwritable destination. Fatal to the
// conversion.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("write output document %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }

// ValidationError reports a structural limit violation (zero pages, page cap
// exceeded). Fatal, and detected before any page is processed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// PageError reports a per-page extraction or recognition fault. It is never
// returned from Convert: page faults are absorbed, logged, and the page
// degrades to empty content.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }
