package assemble

import (
	"reflect"
	"strings"
	"testing"
)

func TestParagraphsMergesShortFragments(t *testing.T) {
	text := "A good opening paragraph that stands on its own two feet.\n\nShort line\n\nThis is a longer sentence."
	got := Paragraphs(text)
	want := []string{
		"A good opening paragraph that stands on its own two feet. Short line",
		"This is a longer sentence.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paragraphs() = %q, want %q", got, want)
	}
}

func TestParagraphsKeepsTerminatedShortLines(t *testing.T) {
	text := "First paragraph with enough length to be retained on its own.\n\nSee below:\n\nSecond paragraph."
	got := Paragraphs(text)
	if len(got) != 3 {
		t.Fatalf("expected 3 paragraphs, got %q", got)
	}
	if got[1] != "See below:" {
		t.Fatalf("colon-terminated fragment should stand alone, got %q", got[1])
	}
}

func TestParagraphsCollapsesInternalBreaks(t *testing.T) {
	text := "This  paragraph\nspans   several\nlines with    ragged spacing."
	got := Paragraphs(text)
	want := []string{"This paragraph spans several lines with ragged spacing."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paragraphs() = %q, want %q", got, want)
	}
}

func TestParagraphsDropsNoise(t *testing.T) {
	text := "A leading paragraph long enough to keep around for the test.\n\nab.\n\nAnother real paragraph follows here."
	for _, p := range Paragraphs(text) {
		if len(p) <= 3 {
			t.Fatalf("noise paragraph survived: %q", p)
		}
	}
}

func TestParagraphsLeadingFragmentStandsAlone(t *testing.T) {
	// No prior paragraph to merge into.
	got := Paragraphs("Short start\n\nA full sentence that follows the fragment and is retained.")
	if len(got) != 2 || got[0] != "Short start" {
		t.Fatalf("Paragraphs() = %q", got)
	}
}

func TestInferStyle(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"INTRODUCTION", StyleHeading1},
		{"See below:", StyleHeading2},
		{"Getting Started Guide", StyleHeading1}, // under 5 words
		{"This is a normal sentence that carries ordinary body text through the page.", StyleBody},
		{strings.Repeat("A", 90), StyleBody}, // upper-case but too long for a heading
		{"Prerequisites and installation steps for the toolchain:", StyleHeading2},
	}
	for _, tt := range tests {
		if got := InferStyle(tt.in); got != tt.want {
			t.Fatalf("InferStyle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestScaleImage(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		wantW float64
		wantH float64
	}{
		{"small image keeps native size", 200, 100, 2.0, 1.0},
		{"wide image capped at 6 inches", 1200, 600, 6.0, 3.0},
		{"portrait aspect preserved", 300, 600, 3.0, 6.0},
		{"invalid dimensions", 0, 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ScaleImage(tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("ScaleImage(%d, %d) = (%v, %v), want (%v, %v)", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestBuilderBreakAlways(t *testing.T) {
	b := NewBuilder(BreakAlways)
	b.AddPage("Page one text that is long enough to form a paragraph here.", nil, false)
	b.AddPage("Page two text that is long enough to form a paragraph here.", nil, false)
	b.AddPage("Page three text that is long enough to form a paragraph too.", nil, true)

	var paras, breaks int
	for _, blk := range b.Blocks() {
		switch blk.Kind {
		case BlockParagraph:
			paras++
		case BlockPageBreak:
			breaks++
		}
	}
	if paras != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", paras)
	}
	if breaks != 2 {
		t.Fatalf("expected 2 page breaks (none after last page), got %d", breaks)
	}
}

func TestBuilderBreakOnText(t *testing.T) {
	long := strings.Repeat("meaningful page text ", 10)
	b := NewBuilder(BreakOnText)
	b.AddPage(long, nil, false)
	b.AddPage("tiny", nil, false) // too little text to earn a separator
	b.AddPage(long, nil, true)

	var breaks, spacers int
	for _, blk := range b.Blocks() {
		switch blk.Kind {
		case BlockPageBreak:
			breaks++
		case BlockSpacer:
			spacers++
		}
	}
	if breaks != 0 {
		t.Fatalf("BreakOnText must not emit hard breaks, got %d", breaks)
	}
	if spacers != 1 {
		t.Fatalf("expected exactly 1 separator, got %d", spacers)
	}
}

func TestBuilderPlacesImagesAfterText(t *testing.T) {
	img := Image{Data: []byte{1, 2, 3}, Format: "png", PxWidth: 400, PxHeight: 200}
	b := NewBuilder(BreakAlways)
	b.AddPage("A paragraph of page text that is retained for this test case.", []Image{img}, true)

	blocks := b.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("expected paragraph+image+spacer, got %d blocks", len(blocks))
	}
	if blocks[0].Kind != BlockParagraph || blocks[1].Kind != BlockImage || blocks[2].Kind != BlockSpacer {
		t.Fatalf("unexpected block order: %+v", blocks)
	}
	if blocks[1].WidthInches != 4.0 || blocks[1].HeightInches != 2.0 {
		t.Fatalf("unexpected image size: %v x %v", blocks[1].WidthInches, blocks[1].HeightInches)
	}
}
