// Package ocr defines the seam between the conversion pipeline and text
// recognition backends. The Engine interface is intentionally small and
// transport-agnostic so recognition can be backed by a native library
// (Tesseract via the tesseract subpackage), a remote API, or a stub in tests
// without leaking provider-specific concerns into callers. The Processor type
// layers image preprocessing and text cleanup on top of an Engine and turns
// every backend failure into an empty, best-effort result.
package ocr
