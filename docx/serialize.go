package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

func (d *Document) writeArchive(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", d.contentTypes()},
		{"_rels/.rels", packageRels()},
		{"docProps/core.xml", d.coreProps()},
		{"docProps/app.xml", appProps()},
		{"word/_rels/document.xml.rels", d.documentRels()},
		{"word/styles.xml", styleSheet()},
		{"word/document.xml", d.documentXML()},
	}
	for i, img := range d.images {
		parts = append(parts, struct {
			name string
			data []byte
		}{fmt.Sprintf("word/media/image%d.%s", i+1, img.ext), img.data})
	}

	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create part %s: %w", p.name, err)
		}
		if _, err := f.Write(p.data); err != nil {
			return fmt.Errorf("write part %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

func (d *Document) contentTypes() []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	seen := map[string]bool{}
	for _, img := range d.images {
		if seen[img.ext] {
			continue
		}
		seen[img.ext] = true
		fmt.Fprintf(&b, `<Default Extension=%q ContentType=%q/>`, img.ext, img.contentType)
	}
	b.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	b.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	b.WriteString(`</Types>`)
	return []byte(b.String())
}

func packageRels() []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>`)
	b.WriteString(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>`)
	b.WriteString(`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>`)
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}

func (d *Document) documentRels() []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rIdStyles" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	for i, img := range d.images {
		fmt.Fprintf(&b,
			`<Relationship Id="rIdImg%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image%d.%s"/>`,
			i+1, i+1, img.ext)
	}
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}

func (d *Document) coreProps() []byte {
	created := d.props.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, escape(d.props.Title))
	fmt.Fprintf(&b, `<dc:subject>%s</dc:subject>`, escape(d.props.Subject))
	fmt.Fprintf(&b, `<dc:creator>%s</dc:creator>`, escape(d.props.Creator))
	fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`,
		created.UTC().Format("2006-01-02T15:04:05Z"))
	b.WriteString(`</cp:coreProperties>`)
	return []byte(b.String())
}

func appProps() []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">`)
	b.WriteString(`<Application>pdf2word</Application>`)
	b.WriteString(`</Properties>`)
	return []byte(b.String())
}

// styleSheet embeds the three styles the converter emits. Sizes are in
// half-points.
func styleSheet() []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<w:styles xmlns:w=%q>`, nsW)
	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>`)
	b.WriteString(`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:qFormat/><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>`)
	b.WriteString(`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:qFormat/><w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>`)
	b.WriteString(`</w:styles>`)
	return []byte(b.String())
}

func (d *Document) documentXML() []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<w:document xmlns:w=%q xmlns:wp=%q xmlns:r=%q><w:body>`, nsW, nsWP, nsR)
	for _, blk := range d.blocks {
		switch blk.kind {
		case blockParagraph:
			d.writeParagraph(&b, blk)
		case blockPageBreak:
			b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
		case blockImage:
			d.writeImage(&b, blk)
		}
	}
	b.WriteString(`<w:sectPr/></w:body></w:document>`)
	return []byte(b.String())
}

func (d *Document) writeParagraph(b *strings.Builder, blk block) {
	b.WriteString(`<w:p>`)
	if blk.style != StyleNormal {
		fmt.Fprintf(b, `<w:pPr><w:pStyle w:val=%q/></w:pPr>`, string(blk.style))
	}
	if blk.text != "" {
		fmt.Fprintf(b, `<w:r><w:t xml:space="preserve">%s</w:t></w:r>`, escape(blk.text))
	}
	b.WriteString(`</w:p>`)
}

func (d *Document) writeImage(b *strings.Builder, blk block) {
	id := blk.image + 1
	fmt.Fprintf(b, `<w:p><w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`)
	fmt.Fprintf(b, `<wp:extent cx="%d" cy="%d"/>`, blk.widthEMU, blk.heightEMU)
	fmt.Fprintf(b, `<wp:docPr id="%d" name="Picture %d"/>`, id, id)
	fmt.Fprintf(b, `<a:graphic xmlns:a=%q><a:graphicData uri=%q>`, nsA, nsPic)
	fmt.Fprintf(b, `<pic:pic xmlns:pic=%q>`, nsPic)
	fmt.Fprintf(b, `<pic:nvPicPr><pic:cNvPr id="%d" name="Picture %d"/><pic:cNvPicPr/></pic:nvPicPr>`, id, id)
	fmt.Fprintf(b, `<pic:blipFill><a:blip r:embed="rIdImg%d"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`, id)
	fmt.Fprintf(b, `<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, blk.widthEMU, blk.heightEMU)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`)
	b.WriteString(`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`)
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
