package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

const documentPart = "word/document.xml"

// Document is a parsed .docx template held fully in memory. The original
// archive bytes are kept so the output can be rebuilt with every part other
// than word/document.xml untouched.
type Document struct {
	archive *zip.Reader
	raw     string // word/document.xml, mutated by substitution
	paras   []Paragraph
	section Section
}

// Paragraph holds the runs of one w:p element, in document order, including
// runs nested inside hyperlinks.
type Paragraph struct {
	Properties *ParagraphProperties
	Runs       []Run
}

type ParagraphProperties struct {
	Alignment *stringVal `xml:"jc"`
	Spacing   *lineVal   `xml:"spacing"`
	Indent    *indentVal `xml:"ind"`
}

// Run is a w:r element: explicit properties plus its text fragments.
type Run struct {
	Properties *RunProperties `xml:"rPr"`
	Texts      []runText      `xml:"t"`
}

// RunProperties carries only the explicit w:rPr children the extractor
// reads. Styles inherited from paragraph or document defaults are
// deliberately not resolved.
type RunProperties struct {
	Bold      *emptyTag  `xml:"b"`
	Italic    *emptyTag  `xml:"i"`
	Underline *stringVal `xml:"u"`
	Fonts     *fontsTag  `xml:"rFonts"`
	Size      *stringVal `xml:"sz"`
}

type emptyTag struct{}

type stringVal struct {
	Val string `xml:"val,attr"`
}

type lineVal struct {
	Line string `xml:"line,attr"`
}

type indentVal struct {
	Left string `xml:"left,attr"`
}

type fontsTag struct {
	ASCII string `xml:"ascii,attr"`
}

type runText struct {
	Text string `xml:",chardata"`
}

// Section describes the body-level section properties.
type Section struct {
	PageWidth    float64 // points
	PageHeight   float64 // points
	MarginTop    float64 // inches
	MarginBottom float64 // inches
	MarginLeft   float64 // inches
	MarginRight  float64 // inches
	Landscape    bool
}

type sectionXML struct {
	PageSize *struct {
		W      string `xml:"w,attr"`
		H      string `xml:"h,attr"`
		Orient string `xml:"orient,attr"`
	} `xml:"pgSz"`
	Margins *struct {
		Top    string `xml:"top,attr"`
		Bottom string `xml:"bottom,attr"`
		Left   string `xml:"left,attr"`
		Right  string `xml:"right,attr"`
	} `xml:"pgMar"`
}

// Text returns the concatenated text of all fragments in the run.
func (r Run) Text() string {
	var b strings.Builder
	for _, t := range r.Texts {
		b.WriteString(t.Text)
	}
	return b.String()
}

// UnmarshalXML collects pPr and every descendant run in document order, so
// runs wrapped in hyperlinks or smart tags are not missed.
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				var props ParagraphProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				p.Properties = &props
			case "r":
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, run)
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return nil
			}
		}
	}
}

// Open parses template bytes as a .docx archive. It fails with an
// ExtractionError when the archive cannot be opened, the main document part
// is missing, or its markup cannot be parsed.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Reason: "cannot open archive", Err: err}
	}

	var raw []byte
	for _, f := range zr.File {
		if f.Name == documentPart {
			rc, err := f.Open()
			if err != nil {
				return nil, &ExtractionError{Reason: "cannot open " + documentPart, Err: err}
			}
			raw, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, &ExtractionError{Reason: "cannot read " + documentPart, Err: err}
			}
			break
		}
	}
	if raw == nil {
		return nil, &ExtractionError{Reason: documentPart + " not found in archive"}
	}

	paras, section, err := parseDocumentXML(raw)
	if err != nil {
		return nil, &ExtractionError{Reason: "cannot parse " + documentPart, Err: err}
	}

	return &Document{
		archive: zr,
		raw:     string(raw),
		paras:   paras,
		section: section,
	}, nil
}

func parseDocumentXML(data []byte) ([]Paragraph, Section, error) {
	section := defaultSection()
	var paras []Paragraph

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, section, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "p":
			var p Paragraph
			if err := dec.DecodeElement(&p, &start); err != nil {
				return nil, section, err
			}
			paras = append(paras, p)
		case "sectPr":
			var sx sectionXML
			if err := dec.DecodeElement(&sx, &start); err != nil {
				return nil, section, err
			}
			applySection(&section, sx)
		}
	}

	return paras, section, nil
}

func defaultSection() Section {
	// US Letter with one inch margins.
	return Section{
		PageWidth:    612,
		PageHeight:   792,
		MarginTop:    1,
		MarginBottom: 1,
		MarginLeft:   1,
		MarginRight:  1,
	}
}

func applySection(s *Section, sx sectionXML) {
	if sx.PageSize != nil {
		if w := twips(sx.PageSize.W); w > 0 {
			s.PageWidth = w / 20
		}
		if h := twips(sx.PageSize.H); h > 0 {
			s.PageHeight = h / 20
		}
		s.Landscape = sx.PageSize.Orient == "landscape"
	}
	if sx.Margins != nil {
		if v := twips(sx.Margins.Top); v > 0 {
			s.MarginTop = v / 1440
		}
		if v := twips(sx.Margins.Bottom); v > 0 {
			s.MarginBottom = v / 1440
		}
		if v := twips(sx.Margins.Left); v > 0 {
			s.MarginLeft = v / 1440
		}
		if v := twips(sx.Margins.Right); v > 0 {
			s.MarginRight = v / 1440
		}
	}
	if !s.Landscape && s.PageWidth > s.PageHeight {
		s.Landscape = true
	}
}

func twips(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// Section returns the body-level section properties.
func (d *Document) Section() Section {
	return d.section
}

// ParagraphTexts returns the plain text of every paragraph in document
// order. Used by the lossy PDF conversion path.
func (d *Document) ParagraphTexts() []string {
	texts := make([]string, 0, len(d.paras))
	for _, p := range d.paras {
		var b strings.Builder
		for _, r := range p.Runs {
			b.WriteString(r.Text())
		}
		texts = append(texts, b.String())
	}
	return texts
}

// DominantFont reports the most common explicit font family and size across
// runs that carry visible text, falling back to Times New Roman 13 when the
// document declares nothing.
func (d *Document) DominantFont() (string, int) {
	fonts := make(map[string]int)
	sizes := make(map[int]int)
	for _, p := range d.paras {
		for _, r := range p.Runs {
			if strings.TrimSpace(r.Text()) == "" || r.Properties == nil {
				continue
			}
			if r.Properties.Fonts != nil && r.Properties.Fonts.ASCII != "" {
				fonts[r.Properties.Fonts.ASCII]++
			}
			if r.Properties.Size != nil {
				if half, err := strconv.Atoi(r.Properties.Size.Val); err == nil {
					sizes[half/2]++
				}
			}
		}
	}

	family := "Times New Roman"
	if f, n := mostCommon(fonts); n > 0 {
		family = f
	}
	size := 13
	if s, n := mostCommon(sizes); n > 0 {
		size = s
	}
	return family, size
}

func mostCommon[K comparable](counts map[K]int) (K, int) {
	var best K
	bestN := 0
	for k, n := range counts {
		if n > bestN {
			best, bestN = k, n
		}
	}
	return best, bestN
}

// LineSpacing returns the first paragraph's explicit line spacing as a
// multiple of single spacing, or 1.0 when not declared.
func (d *Document) LineSpacing() float64 {
	for _, p := range d.paras {
		if p.Properties == nil || p.Properties.Spacing == nil {
			continue
		}
		if line := twips(p.Properties.Spacing.Line); line > 0 {
			return line / 240
		}
		break
	}
	return 1.0
}
