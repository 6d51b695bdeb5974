// Package preprocess normalizes raster images before text recognition.
// The pipeline mirrors what works well for scanned pages: grayscale,
// contrast and sharpness enhancement, light blur to suppress speckle noise,
// and mean-intensity binarization. Inputs are upscaled so small scans reach
// a resolution the recognizer can work with.
package preprocess

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// Options controls the normalization pipeline. Zero values fall back to the
// nominal defaults.
type Options struct {
	Contrast   float64 // multiplicative contrast factor, nominal 2.0
	Sharpness  float64 // sharpness factor, nominal 1.5 (1.0 = unchanged)
	BlurRadius float64 // blur radius, nominal 0.5; <=0 disables
	Scale      int     // integer upscale factor, nominal 2
}

// DefaultOptions returns the nominal pipeline settings.
func DefaultOptions() Options {
	return Options{Contrast: 2.0, Sharpness: 1.5, BlurRadius: 0.5, Scale: 2}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Contrast <= 0 {
		o.Contrast = d.Contrast
	}
	if o.Sharpness <= 0 {
		o.Sharpness = d.Sharpness
	}
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	return o
}

// Normalize runs the full pipeline and returns a binarized grayscale image.
func Normalize(src image.Image, opts Options) *image.Gray {
	opts = opts.withDefaults()
	g := ToGray(src)
	if opts.Scale > 1 {
		g = Upscale(g, opts.Scale)
	}
	g = AdjustContrast(g, opts.Contrast)
	g = Sharpen(g, opts.Sharpness)
	if opts.BlurRadius > 0 {
		g = Blur(g)
	}
	return Binarize(g)
}

// ToGray converts any image to 8-bit grayscale.
func ToGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(src.At(x, y)))
		}
	}
	return g
}

// Upscale resizes the image by an integer factor using Catmull-Rom
// interpolation.
func Upscale(src *image.Gray, factor int) *image.Gray {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// AdjustContrast scales pixel distance from mid-gray by the given factor.
func AdjustContrast(src *image.Gray, factor float64) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	for i, v := range src.Pix {
		dst.Pix[i] = clamp(128 + (float64(v)-128)*factor)
	}
	return dst
}

// smooth is a 3x3 box-weighted kernel used for both blurring and as the
// low-pass reference for sharpening.
var smooth = [9]float64{
	1.0 / 16, 2.0 / 16, 1.0 / 16,
	2.0 / 16, 4.0 / 16, 2.0 / 16,
	1.0 / 16, 2.0 / 16, 1.0 / 16,
}

// Sharpen interpolates between a smoothed copy (factor 0) and the original
// (factor 1); factors above 1 extrapolate, sharpening edges.
func Sharpen(src *image.Gray, factor float64) *image.Gray {
	if factor == 1 {
		return src
	}
	blurred := convolve(src, smooth)
	b := src.Bounds()
	dst := image.NewGray(b)
	for i := range src.Pix {
		orig := float64(src.Pix[i])
		low := float64(blurred.Pix[i])
		dst.Pix[i] = clamp(low + (orig-low)*factor)
	}
	return dst
}

// Blur applies a light gaussian-weighted smoothing pass.
func Blur(src *image.Gray) *image.Gray {
	return convolve(src, smooth)
}

// Binarize thresholds at the mean intensity: pixels above the mean become
// white background, the rest black foreground.
func Binarize(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	if len(src.Pix) == 0 {
		return dst
	}
	var sum uint64
	for _, v := range src.Pix {
		sum += uint64(v)
	}
	mean := uint8(sum / uint64(len(src.Pix)))
	for i, v := range src.Pix {
		if v > mean {
			dst.Pix[i] = 255
		} else {
			dst.Pix[i] = 0
		}
	}
	return dst
}

func convolve(src *image.Gray, k [9]float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					sx, sy := clampInt(x+kx, 0, w-1), clampInt(y+ky, 0, h-1)
					acc += float64(src.GrayAt(sx+b.Min.X, sy+b.Min.Y).Y) * k[(ky+1)*3+(kx+1)]
				}
			}
			dst.SetGray(x+b.Min.X, y+b.Min.Y, color.Gray{Y: clamp(acc)})
		}
	}
	return dst
}

// EncodePNG serializes an image for handoff to a recognition backend.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clamp(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
