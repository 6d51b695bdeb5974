// Package tesseract implements the ocr.Engine contract over the gosseract
// client. It requires the Tesseract native library and trained data at
// runtime; construction is cheap and does not touch the backend.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/docmill/pdf2word/ocr"
)

// Engine is a Tesseract-backed OCR engine. A fresh client is created per
// recognition call; gosseract clients are not safe for concurrent use.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed engine.
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs a single recognition pass on the input image.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	select {
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	default:
	}

	c := e.clientFactory()
	if c == nil {
		return ocr.Result{}, ocr.ErrUnavailable
	}
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages %q: %w", strings.Join(in.Languages, "+"), err)
		}
	}
	if in.PSM > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(in.PSM)); err != nil {
			return ocr.Result{}, fmt.Errorf("set page segmentation mode: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return ocr.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}

	return ocr.Result{
		InputID:   in.ID,
		PlainText: strings.TrimSpace(text),
		Words:     extractWords(c),
	}, nil
}

// extractWords pulls per-token confidences from the client. Errors are
// ignored: missing word data degrades confidence reporting, not recognition.
func extractWords(c *gosseract.Client) []ocr.Word {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil
	}
	words := make([]ocr.Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, ocr.Word{Text: b.Word, Confidence: b.Confidence})
	}
	return words
}
