package ocr

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the recognition backend is missing or
// misconfigured. Engines return it so callers can degrade instead of failing.
var ErrUnavailable = errors.New("ocr backend unavailable")

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
)

// Input encapsulates a single image submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier echoed back in the Result.
	ID string
	// Image is the encoded image payload in the format declared by Format.
	Image []byte
	// Format declares the image content type.
	Format ImageFormat
	// PageIndex links the input back to the zero-based page it came from.
	PageIndex int
	// Languages lists trained-data hints (e.g. "eng"). Empty means engine default.
	Languages []string
	// PSM is the page segmentation mode; zero means the engine default.
	PSM int
	// DPI carries the effective dots-per-inch; zero means unknown.
	DPI int
}

// Word is a single recognized token with the backend's self-reported
// certainty on a 0-100 scale.
type Word struct {
	Text       string
	Confidence float64
}

// Result captures recognition output for one input image.
type Result struct {
	InputID   string
	PlainText string
	Words     []Word
}

// MeanConfidence returns the average confidence over words reporting a
// confidence above zero, or 0 if no word qualifies.
func (r Result) MeanConfidence() float64 {
	var sum float64
	var n int
	for _, w := range r.Words {
		if w.Confidence > 0 {
			sum += w.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Engine is the recognition provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}
