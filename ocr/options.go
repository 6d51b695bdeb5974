package ocr

// InputOption mutates an Input before it is submitted to an engine.
type InputOption func(*Input)

// WithLanguages sets language hints on the input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithPSM sets the page segmentation mode.
func WithPSM(mode int) InputOption {
	return func(in *Input) { in.PSM = mode }
}

// WithDPI overrides the DPI value on the input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// NewInput builds an Input for an encoded image with the given options applied.
func NewInput(id string, pageIndex int, image []byte, opts ...InputOption) Input {
	in := Input{
		ID:        id,
		Image:     image,
		Format:    ImageFormatPNG,
		PageIndex: pageIndex,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}
