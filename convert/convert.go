// Package convert drives end-to-end conversion of one PDF document into a
// Word document: page classification, optional OCR for scanned pages,
// embedded image extraction, document assembly, and progress reporting.
package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/docmill/pdf2word/assemble"
	"github.com/docmill/pdf2word/docx"
	"github.com/docmill/pdf2word/observability"
	"github.com/docmill/pdf2word/ocr"
	"github.com/docmill/pdf2word/pdfread"
)

// ProgressFunc receives conversion checkpoints: a percentage in [0,100] and
// a human-readable message naming the current step.
type ProgressFunc func(percent int, message string)

// PageKind classifies a page's content.
type PageKind int

const (
	// TextBearing pages carry a directly extractable text layer.
	TextBearing PageKind = iota
	// Scanned pages have no text layer and require OCR or a placeholder.
	Scanned
)

// PageContent is the analyzed content of one page.
type PageContent struct {
	Index  int
	Kind   PageKind
	Text   string
	Images []pdfread.PageImage
}

// Source abstracts an open input document so the orchestrator can be tested
// without PDF fixtures. pdfread.Document satisfies it.
type Source interface {
	PageCount() int
	PageText(index int) (string, error)
	PageImages(index int) ([]pdfread.PageImage, error)
	Close() error
}

// Options configures a Converter.
type Options struct {
	// Engine is the OCR backend for scanned pages. Nil disables OCR: scanned
	// pages degrade to a diagnostic placeholder.
	Engine ocr.Engine
	// Languages are recognition language hints; default "eng".
	Languages []string
	// ExtractImages enables embedded image pass-through to the output.
	ExtractImages bool
	// MinImagePx is the minimum width and height for an image to be kept;
	// smaller ones are presumed decorative. Default 50.
	MinImagePx int
	// BreakPolicy selects the page-boundary style of the output.
	BreakPolicy assemble.BreakPolicy
	// Logger receives per-page diagnostics; default discards.
	Logger observability.Logger
}

// Converter converts single documents. Safe for concurrent use: each
// Convert call owns all of its mutable state.
type Converter struct {
	opts Options
	proc *ocr.Processor // nil when OCR is disabled
	log  observability.Logger

	// openSource is a seam for tests.
	openSource func(path string) (Source, error)
}

// New builds a Converter.
func New(opts Options) *Converter {
	if opts.Logger == nil {
		opts.Logger = observability.NopLogger{}
	}
	if opts.MinImagePx <= 0 {
		opts.MinImagePx = 50
	}
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"eng"}
	}
	c := &Converter{
		opts: opts,
		log:  opts.Logger,
		openSource: func(path string) (Source, error) {
			return pdfread.Open(path, opts.Logger)
		},
	}
	if opts.Engine != nil {
		c.proc = ocr.NewProcessor(opts.Engine,
			ocr.WithProcessorLanguages(opts.Languages...),
			ocr.WithProcessorLogger(opts.Logger),
		)
	}
	return c
}

// ValidatePDF checks a candidate input without converting it. The message
// reports the exact page count when the document is acceptable.
func ValidatePDF(path string) (bool, string) {
	return pdfread.Validate(path)
}

// Convert converts the PDF at inputPath into a Word document at outputPath,
// reporting progress along the way. Page-level faults are absorbed; only
// document-level failures return an error, and on failure no output file is
// left at outputPath.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string, progress ProgressFunc) error {
	report := func(p int, msg string) {
		if progress != nil {
			progress(p, msg)
		}
	}

	report(15, "Opening PDF document...")
	src, err := c.openSource(inputPath)
	if err != nil {
		report(0, fmt.Sprintf("Error: %v", err))
		return &SourceOpenError{Path: inputPath, Err: err}
	}
	defer src.Close()

	total := src.PageCount()
	if total == 0 || total > pdfread.MaxPages {
		verr := &ValidationError{Reason: fmt.Sprintf("document has %d pages, accepted range is 1-%d", total, pdfread.MaxPages)}
		report(0, fmt.Sprintf("Error: %v", verr))
		return verr
	}

	report(25, "Creating Word document...")
	builder := assemble.NewBuilder(c.opts.BreakPolicy)

	for i := 0; i < total; i++ {
		percent := 25 + int(60*float64(i)/float64(total))
		report(percent, fmt.Sprintf("Processing page %d of %d...", i+1, total))

		content := c.analyzePage(ctx, src, i, total, report)

		var placed []assemble.Image
		if c.opts.ExtractImages {
			for _, img := range content.Images {
				placed = append(placed, assemble.Image{
					Data:     img.Data,
					Format:   img.Format,
					PxWidth:  img.Width,
					PxHeight: img.Height,
				})
			}
		}
		builder.AddPage(content.Text, placed, i == total-1)
	}

	report(90, "Saving Word document...")
	doc := docx.New()
	doc.SetProperties(docx.CoreProperties{
		Title:   "Converted from PDF",
		Subject: "PDF to Word Conversion",
		Creator: "pdf2word",
	})
	writeBlocks(doc, builder.Blocks())
	if err := doc.Save(outputPath); err != nil {
		report(0, fmt.Sprintf("Error: %v", err))
		return &OutputWriteError{Path: outputPath, Err: err}
	}

	report(95, "Cleaning up...")
	report(100, "Conversion completed successfully!")
	return nil
}

// analyzePage classifies one page and produces its content. All faults are
// absorbed: the worst case is an empty page, never an aborted document.
func (c *Converter) analyzePage(ctx context.Context, src Source, index, total int, report ProgressFunc) PageContent {
	content := PageContent{Index: index, Kind: Scanned}

	text, err := src.PageText(index)
	if err != nil {
		c.log.Warn("page text extraction failed",
			observability.Error(&PageError{Page: index, Err: err}))
		text = ""
	}

	if c.opts.ExtractImages || c.proc != nil {
		images, err := src.PageImages(index)
		if err != nil {
			c.log.Warn("page image extraction failed",
				observability.Error(&PageError{Page: index, Err: err}))
			images = nil
		}
		content.Images = filterImages(images, c.opts.MinImagePx)
	}

	if strings.TrimSpace(text) != "" {
		content.Kind = TextBearing
		content.Text = text
		return content
	}

	// No text layer: scanned-page handling.
	if c.proc == nil {
		content.Text = scannedPlaceholder(index)
		return content
	}
	percent := 25 + int(60*float64(index)/float64(total))
	report(percent, fmt.Sprintf("Performing OCR on page %d...", index+1))
	content.Text = c.recognizePage(ctx, index, content.Images)
	return content
}

// recognizePage runs OCR over the page's qualifying raster images and joins
// the results in order. Scanned pages are typically a single full-page
// image, so this recovers the page text without a rasterization step.
func (c *Converter) recognizePage(ctx context.Context, index int, images []pdfread.PageImage) string {
	var parts []string
	for n, img := range images {
		id := fmt.Sprintf("page-%d-img-%d", index, n)
		if txt := c.proc.ExtractText(ctx, id, index, img.Data); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, "\n\n")
}

func filterImages(images []pdfread.PageImage, minPx int) []pdfread.PageImage {
	var kept []pdfread.PageImage
	for _, img := range images {
		if img.Width < minPx || img.Height < minPx {
			continue
		}
		kept = append(kept, img)
	}
	return kept
}

func scannedPlaceholder(index int) string {
	return fmt.Sprintf(
		"[Page %d appears to be a scanned image with no extractable text layer. "+
			"OCR is disabled on this deployment; for best results convert from a text-based PDF.]",
		index+1)
}

func writeBlocks(doc *docx.Document, blocks []assemble.Block) {
	for _, blk := range blocks {
		switch blk.Kind {
		case assemble.BlockParagraph:
			doc.AddParagraph(blk.Text, docxStyle(blk.Style))
		case assemble.BlockImage:
			if err := doc.AddImage(blk.Image, blk.Format, blk.WidthInches, blk.HeightInches); err != nil {
				// A bad image never fails the document.
				continue
			}
		case assemble.BlockSpacer:
			doc.AddEmptyParagraph()
		case assemble.BlockPageBreak:
			doc.AddPageBreak()
		}
	}
}

func docxStyle(s assemble.Style) docx.Style {
	switch s {
	case assemble.StyleHeading1:
		return docx.StyleHeading1
	case assemble.StyleHeading2:
		return docx.StyleHeading2
	default:
		return docx.StyleNormal
	}
}
