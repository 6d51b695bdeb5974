// Package assemble turns per-page extracted content into an ordered sequence
// of output blocks: styled paragraphs, image placements, spacers, and page
// breaks. The text reconstruction heuristics (fragment merging, heading
// inference, noise dropping) live here so they can be tested without a PDF
// or a writer.
package assemble

import (
	"strings"
	"unicode"
)

// Style is a presentation hint for a paragraph, not semantic markup.
type Style int

const (
	StyleBody Style = iota
	StyleHeading1
	StyleHeading2
)

// BlockKind discriminates the Block union.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockImage
	BlockSpacer
	BlockPageBreak
)

// Block is one output directive, consumed in order by the document writer.
type Block struct {
	Kind   BlockKind
	Text   string
	Style  Style
	Image  []byte
	Format string // encoded image format: "png", "jpeg"
	// Placement size in logical inches; only set for image blocks.
	WidthInches  float64
	HeightInches float64
}

// BreakPolicy controls what separates pages in the output.
type BreakPolicy int

const (
	// BreakAlways inserts a hard page break after every page except the last.
	BreakAlways BreakPolicy = iota
	// BreakOnText inserts only a visual separator, and only after pages that
	// contributed non-trivial text. Avoids fragmenting OCR-heavy documents.
	BreakOnText
)

const (
	mergeLimit      = 50  // fragments shorter than this merge into the prior paragraph
	headingLimit    = 80  // upper bound for top-level heading candidates
	subheadingLimit = 150 // upper bound for subheading candidates
	headingWords    = 5   // fewer words than this hints at a heading
	noiseLimit      = 3   // paragraphs this short are dropped
	separatorText   = 100 // minimum page text length to earn a separator

	maxImageWidthInches = 6.0
	pixelsPerInch       = 100.0
)

// Image is a raster image queued for placement, with its pixel dimensions.
type Image struct {
	Data     []byte
	Format   string
	PxWidth  int
	PxHeight int
}

// Paragraphs reconstructs paragraphs from raw page text: candidates split on
// blank lines, internal line breaks collapsed, short terminator-less
// fragments merged into their predecessor, and noise dropped.
func Paragraphs(text string) []string {
	var retained []string
	for _, candidate := range splitCandidates(text) {
		p := collapseWhitespace(candidate)
		if p == "" {
			continue
		}
		if len(retained) > 0 && len(p) < mergeLimit && !endsWithTerminator(p) {
			retained[len(retained)-1] += " " + p
			continue
		}
		retained = append(retained, p)
	}
	kept := retained[:0]
	for _, p := range retained {
		if len(p) <= noiseLimit {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// InferStyle tags a paragraph with a presentation hint. Fully upper-case
// short paragraphs read as headings; short paragraphs ending in a colon read
// as subheadings; very short paragraphs without either signal are still
// likely titles.
func InferStyle(p string) Style {
	if len(p) < headingLimit && isAllUpper(p) {
		return StyleHeading1
	}
	if len(p) < subheadingLimit && strings.HasSuffix(p, ":") {
		return StyleHeading2
	}
	if len(p) < headingLimit && len(strings.Fields(p)) < headingWords {
		return StyleHeading1
	}
	return StyleBody
}

// ScaleImage fits pixel dimensions into the page: at most 6 logical inches
// wide, aspect ratio preserved, assuming a nominal 100px/inch source.
func ScaleImage(pxWidth, pxHeight int) (widthInches, heightInches float64) {
	if pxWidth <= 0 || pxHeight <= 0 {
		return 0, 0
	}
	widthInches = float64(pxWidth) / pixelsPerInch
	if widthInches > maxImageWidthInches {
		widthInches = maxImageWidthInches
	}
	heightInches = widthInches * float64(pxHeight) / float64(pxWidth)
	return widthInches, heightInches
}

// Builder accumulates pages into the final block sequence.
type Builder struct {
	policy BreakPolicy
	blocks []Block
}

// NewBuilder creates a Builder with the given page-boundary policy.
func NewBuilder(policy BreakPolicy) *Builder {
	return &Builder{policy: policy}
}

// AddPage appends one page's content: its paragraphs, then its images (each
// followed by a spacer), then the page boundary demanded by the policy.
func (b *Builder) AddPage(text string, images []Image, last bool) {
	for _, p := range Paragraphs(text) {
		b.blocks = append(b.blocks, Block{
			Kind:  BlockParagraph,
			Text:  p,
			Style: InferStyle(p),
		})
	}
	for _, img := range images {
		w, h := ScaleImage(img.PxWidth, img.PxHeight)
		if w == 0 {
			continue
		}
		b.blocks = append(b.blocks,
			Block{Kind: BlockImage, Image: img.Data, Format: img.Format, WidthInches: w, HeightInches: h},
			Block{Kind: BlockSpacer},
		)
	}
	b.appendBoundary(text, last)
}

func (b *Builder) appendBoundary(text string, last bool) {
	if last {
		return
	}
	switch b.policy {
	case BreakAlways:
		b.blocks = append(b.blocks, Block{Kind: BlockPageBreak})
	case BreakOnText:
		if len(strings.TrimSpace(text)) > separatorText {
			b.blocks = append(b.blocks, Block{Kind: BlockSpacer})
		}
	}
}

// Blocks returns the accumulated sequence in document order.
func (b *Builder) Blocks() []Block {
	return b.blocks
}

func splitCandidates(text string) []string {
	// Blank-line boundaries: a newline, optional horizontal whitespace, and
	// another newline.
	norm := strings.ReplaceAll(text, "\r\n", "\n")
	var candidates []string
	var current []string
	for _, line := range strings.Split(norm, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				candidates = append(candidates, strings.Join(current, "\n"))
				current = current[:0]
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		candidates = append(candidates, strings.Join(current, "\n"))
	}
	return candidates
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func endsWithTerminator(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, ":")
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
