package docx

import (
	"regexp"
	"strconv"
	"strings"
)

// placeholderPattern matches {{ name }} markers; whitespace around the
// identifier is tolerated.
var placeholderPattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// Formatting is the explicit run styling active where a placeholder starts.
type Formatting struct {
	Bold      bool
	Italic    bool
	Underline bool
	Font      string
	Size      int // whole typographic points
}

// Occurrence is one textual instance of a placeholder marker with its
// position and the formatting captured at that position.
type Occurrence struct {
	Name           string
	ParagraphIndex int
	RunIndex       int
	Formatting     Formatting
	Alignment      string
}

// Placeholders scans every paragraph for placeholder markers and returns one
// occurrence per match in document order. Markers split across runs are
// found by concatenating the paragraph's run texts and mapping each match
// offset back to the run whose cumulative range contains it. Repeated names
// are all recorded; later stages decide how to merge them.
func (d *Document) Placeholders() []Occurrence {
	var occurrences []Occurrence

	for paraIdx, para := range d.paras {
		alignment := ""
		if para.Properties != nil && para.Properties.Alignment != nil {
			alignment = para.Properties.Alignment.Val
		}

		runTexts := make([]string, len(para.Runs))
		for i, r := range para.Runs {
			runTexts[i] = r.Text()
		}
		fullText := strings.Join(runTexts, "")

		// Cumulative start offset of each run within fullText.
		cum := make([]int, len(runTexts)+1)
		for i, rt := range runTexts {
			cum[i+1] = cum[i] + len(rt)
		}

		for _, m := range placeholderPattern.FindAllStringSubmatchIndex(fullText, -1) {
			start := m[0]
			name := fullText[m[2]:m[3]]

			runIdx := -1
			for i := range runTexts {
				if cum[i] <= start && start < cum[i+1] {
					runIdx = i
					break
				}
			}
			if runIdx < 0 {
				continue
			}

			occurrences = append(occurrences, Occurrence{
				Name:           name,
				ParagraphIndex: paraIdx,
				RunIndex:       runIdx,
				Formatting:     runFormatting(para.Runs[runIdx]),
				Alignment:      alignment,
			})
		}
	}

	return occurrences
}

// runFormatting reads the run's explicit properties only; no inheritance
// from paragraph or document defaults is resolved.
func runFormatting(r Run) Formatting {
	var f Formatting
	if r.Properties == nil {
		return f
	}
	f.Bold = r.Properties.Bold != nil
	f.Italic = r.Properties.Italic != nil
	f.Underline = r.Properties.Underline != nil
	if r.Properties.Fonts != nil {
		f.Font = r.Properties.Fonts.ASCII
	}
	if r.Properties.Size != nil {
		if half, err := strconv.Atoi(r.Properties.Size.Val); err == nil {
			// w:sz is in half-points.
			f.Size = half / 2
		}
	}
	return f
}
