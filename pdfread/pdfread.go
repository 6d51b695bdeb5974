// Package pdfread provides read access to PDF sources for the conversion
// pipeline: per-page plain text, embedded raster images, and structural
// validation. Text extraction runs on github.com/ledongthuc/pdf; structural
// reading and image extraction run on github.com/pdfcpu/pdfcpu. Both are
// pure Go, so the converter deploys as a single binary.
package pdfread

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/tiff"

	"github.com/docmill/pdf2word/observability"
)

// MaxPages is the hard cap on accepted documents. It bounds worst-case
// processing time and memory.
const MaxPages = 100

// PageImage is an embedded raster image pulled from a page.
type PageImage struct {
	Width  int
	Height int
	Format string // decoded format name: "png", "jpeg", "tiff"
	Data   []byte
}

// Document is an open PDF source. It is not safe for concurrent use; each
// conversion run owns exactly one Document.
type Document struct {
	file   *os.File
	reader *pdf.Reader
	ctx    *model.Context // nil when the structural read failed
	log    observability.Logger
}

// Open opens a PDF for page-by-page reading. The structural (pdfcpu) read is
// best-effort: if it fails, text extraction still works and image extraction
// degrades to empty.
func Open(path string, log observability.Logger) (*Document, error) {
	if log == nil {
		log = observability.NopLogger{}
	}
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	d := &Document{file: f, reader: reader, log: log}

	sf, err := os.Open(path)
	if err == nil {
		ctx, rerr := api.ReadValidateAndOptimize(sf, model.NewDefaultConfiguration())
		sf.Close()
		if rerr != nil {
			log.Warn("structural pdf read failed, image extraction disabled",
				observability.String("path", path), observability.Error(rerr))
		} else {
			d.ctx = ctx
		}
	}
	return d, nil
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.reader.NumPage()
}

// PageText extracts the embedded text of the zero-based page. A page without
// a text layer yields an empty string. Parser panics on malformed content
// streams are recovered and reported as errors so a bad page cannot take
// down the whole run.
func (d *Document) PageText(index int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page %d text extraction panicked: %v", index, r)
		}
	}()
	p := d.reader.Page(index + 1)
	if p.V.IsNull() {
		return "", nil
	}
	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d text extraction: %w", index, err)
	}
	return text, nil
}

// PageImages returns the raster images embedded on the zero-based page, in a
// stable order. Images that cannot be decoded are skipped.
func (d *Document) PageImages(index int) ([]PageImage, error) {
	if d.ctx == nil {
		return nil, nil
	}
	pageNr := index + 1
	if len(pdfcpu.ImageObjNrs(d.ctx, pageNr)) == 0 {
		return nil, nil
	}
	extracted, err := pdfcpu.ExtractPageImages(d.ctx, pageNr, false)
	if err != nil {
		return nil, fmt.Errorf("page %d image extraction: %w", index, err)
	}

	objNrs := make([]int, 0, len(extracted))
	for nr := range extracted {
		objNrs = append(objNrs, nr)
	}
	sort.Ints(objNrs)

	var images []PageImage
	for _, nr := range objNrs {
		img := extracted[nr]
		data, rerr := io.ReadAll(img)
		if rerr != nil || len(data) == 0 {
			d.log.Warn("skipping unreadable image",
				observability.Int("page", index), observability.Int("obj", nr))
			continue
		}
		cfg, format, derr := image.DecodeConfig(bytes.NewReader(data))
		if derr != nil {
			d.log.Debug("skipping undecodable image",
				observability.Int("page", index), observability.Int("obj", nr),
				observability.Error(derr))
			continue
		}
		images = append(images, PageImage{
			Width:  cfg.Width,
			Height: cfg.Height,
			Format: format,
			Data:   data,
		})
	}
	return images, nil
}

// Validate checks that the file at path is a readable PDF within the page
// cap. The message reports the exact page count on success.
func Validate(path string) (bool, string) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Sprintf("Invalid PDF file: %v", err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return false, fmt.Sprintf("Invalid PDF file: %v", err)
	}
	switch {
	case ctx.PageCount == 0:
		return false, "PDF file contains no pages"
	case ctx.PageCount > MaxPages:
		return false, fmt.Sprintf("PDF file has too many pages (maximum %d)", MaxPages)
	}
	return true, fmt.Sprintf("Valid PDF with %d pages", ctx.PageCount)
}

// HasPDFExtension reports whether the filename carries the only accepted
// input extension.
func HasPDFExtension(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}
