// Package docx writes WordprocessingML (.docx) documents. It implements the
// small subset the converter needs: styled paragraphs, inline images with
// explicit sizing, page breaks, and core document properties. The package
// serializes OOXML parts directly into the zip container, so the output has
// no dependency on a template file or an external library.
package docx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// MIMEType is the content type of the produced artifact.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// emuPerInch converts logical inches to English Metric Units, the native
// coordinate space of DrawingML.
const emuPerInch = 914400

// Style names a paragraph style defined in the embedded style sheet.
type Style string

const (
	StyleNormal   Style = ""
	StyleHeading1 Style = "Heading1"
	StyleHeading2 Style = "Heading2"
)

// CoreProperties populate docProps/core.xml.
type CoreProperties struct {
	Title   string
	Subject string
	Creator string
	Created time.Time
}

type blockKind int

const (
	blockParagraph blockKind = iota
	blockImage
	blockPageBreak
)

type block struct {
	kind      blockKind
	text      string
	style     Style
	image     int // index into images for blockImage
	widthEMU  int64
	heightEMU int64
}

type imagePart struct {
	data        []byte
	ext         string
	contentType string
}

// Document is an in-memory .docx under construction. Not safe for
// concurrent use.
type Document struct {
	props  CoreProperties
	blocks []block
	images []imagePart
}

// New creates an empty document.
func New() *Document {
	return &Document{}
}

// SetProperties sets the document metadata. A zero Created defaults to the
// time of serialization.
func (d *Document) SetProperties(p CoreProperties) {
	d.props = p
}

// AddParagraph appends a paragraph with the given style.
func (d *Document) AddParagraph(text string, style Style) {
	d.blocks = append(d.blocks, block{kind: blockParagraph, text: text, style: style})
}

// AddEmptyParagraph appends a spacer paragraph.
func (d *Document) AddEmptyParagraph() {
	d.blocks = append(d.blocks, block{kind: blockParagraph})
}

// AddPageBreak appends a hard page break.
func (d *Document) AddPageBreak() {
	d.blocks = append(d.blocks, block{kind: blockPageBreak})
}

// AddImage appends an inline image sized in logical inches. Supported
// formats are "png" and "jpeg" (as reported by image.DecodeConfig).
func (d *Document) AddImage(data []byte, format string, widthInches, heightInches float64) error {
	if len(data) == 0 {
		return errors.New("empty image data")
	}
	if widthInches <= 0 || heightInches <= 0 {
		return fmt.Errorf("invalid image size %gx%g", widthInches, heightInches)
	}
	var ext, ct string
	switch format {
	case "png":
		ext, ct = "png", "image/png"
	case "jpeg", "jpg":
		ext, ct = "jpeg", "image/jpeg"
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
	d.images = append(d.images, imagePart{data: data, ext: ext, contentType: ct})
	d.blocks = append(d.blocks, block{
		kind:      blockImage,
		image:     len(d.images) - 1,
		widthEMU:  int64(widthInches * emuPerInch),
		heightEMU: int64(heightInches * emuPerInch),
	})
	return nil
}

// BlockCount reports the number of content blocks added so far.
func (d *Document) BlockCount() int {
	return len(d.blocks)
}

// Save serializes the document to path. On error no partial file is left
// behind.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// WriteTo serializes the document as a zip container to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := d.writeArchive(cw); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
