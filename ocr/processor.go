package ocr

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/docmill/pdf2word/observability"
	"github.com/docmill/pdf2word/preprocess"
)

// Processor layers preprocessing and cleanup around an Engine and absorbs
// backend failures. Recognition is best-effort infrastructure: a missing or
// broken backend yields empty text and zero confidence, never an error.
type Processor struct {
	engine    Engine
	preopts   preprocess.Options
	languages []string
	psm       int
	log       observability.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithPreprocessOptions overrides the image normalization settings.
func WithPreprocessOptions(opts preprocess.Options) ProcessorOption {
	return func(p *Processor) { p.preopts = opts }
}

// WithProcessorLanguages sets the recognition languages (default "eng").
func WithProcessorLanguages(langs ...string) ProcessorOption {
	return func(p *Processor) { p.languages = append([]string(nil), langs...) }
}

// WithProcessorLogger sets the logger; the default discards output.
func WithProcessorLogger(log observability.Logger) ProcessorOption {
	return func(p *Processor) { p.log = log }
}

// NewProcessor builds a Processor around the given engine. A nil engine is
// treated as an unavailable backend.
func NewProcessor(engine Engine, opts ...ProcessorOption) *Processor {
	p := &Processor{
		engine:    engine,
		preopts:   preprocess.DefaultOptions(),
		languages: []string{"eng"},
		psm:       6, // single uniform block of text
		log:       observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExtractText recognizes text in an encoded image and returns the cleaned-up
// result. Failures degrade to an empty string.
func (p *Processor) ExtractText(ctx context.Context, id string, pageIndex int, encoded []byte) string {
	res, ok := p.recognize(ctx, id, pageIndex, encoded)
	if !ok {
		return ""
	}
	return Cleanup(res.PlainText)
}

// Confidence runs recognition with per-token confidence and returns the mean
// over tokens reporting above zero, on a 0-100 scale. Failures yield 0.
func (p *Processor) Confidence(ctx context.Context, id string, pageIndex int, encoded []byte) float64 {
	res, ok := p.recognize(ctx, id, pageIndex, encoded)
	if !ok {
		return 0
	}
	return res.MeanConfidence()
}

func (p *Processor) recognize(ctx context.Context, id string, pageIndex int, encoded []byte) (Result, bool) {
	if p.engine == nil {
		return Result{}, false
	}
	prepared, err := p.prepare(encoded)
	if err != nil {
		p.log.Warn("image preprocessing failed, using original",
			observability.String("input", id), observability.Error(err))
		prepared = encoded
	}
	in := NewInput(id, pageIndex, prepared,
		WithLanguages(p.languages...),
		WithPSM(p.psm),
	)
	res, err := p.engine.Recognize(ctx, in)
	if err != nil {
		p.log.Warn("recognition failed, degrading to empty result",
			observability.String("engine", p.engine.Name()),
			observability.String("input", id),
			observability.Error(err))
		return Result{}, false
	}
	return res, true
}

func (p *Processor) prepare(encoded []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	return preprocess.EncodePNG(preprocess.Normalize(img, p.preopts))
}
