package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
)

// maxMarkerText bounds how many text characters a marker scan may consume
// before giving up, so a stray "{{" cannot trigger a runaway match.
const maxMarkerText = 256

// Substitute replaces every {{ name }} marker that has an entry in values
// with the mapped value as plain text. Values are inserted without
// reapplying any captured formatting: the surrounding run's own properties
// already style the inserted text, and restamping formatting risks
// corrupting the template layout.
//
// Markers split across run boundaries are handled by matching marker text
// while skipping over XML tags; the replaced span drops the run-boundary
// tags it crosses, which keeps the markup well formed because only balanced
// </w:t>...<w:t> sequences can appear inside a paragraph's text.
func (d *Document) Substitute(values map[string]string) {
	content := []rune(d.raw)
	var out []rune
	out = make([]rune, 0, len(content))

	i := 0
	inTag := false
	for i < len(content) {
		c := content[i]
		if c == '<' {
			inTag = true
		} else if c == '>' {
			inTag = false
		} else if !inTag && c == '{' {
			if name, end, ok := scanMarker(content, i); ok {
				if value, known := values[name]; known {
					out = append(out, []rune(encodeValue(value))...)
					i = end
					continue
				}
			}
		}
		out = append(out, c)
		i++
	}

	d.raw = string(out)
}

// scanMarker tries to match "{{ name }}" beginning at start, skipping any
// XML tags in between. It returns the marker name and the index just past
// the closing brace.
func scanMarker(content []rune, start int) (string, int, bool) {
	const (
		stateOpen = iota // expecting second '{'
		stateName        // leading spaces / identifier
		stateClose       // trailing spaces then "}}"
	)

	state := stateOpen
	var name []rune
	seen := 0
	closeBraces := 0
	inTag := false

	pos := start + 1 // the caller matched the first '{'
	for pos < len(content) && seen < maxMarkerText {
		c := content[pos]
		if c == '<' {
			inTag = true
			pos++
			continue
		}
		if c == '>' && inTag {
			inTag = false
			pos++
			continue
		}
		if inTag {
			pos++
			continue
		}

		seen++
		switch state {
		case stateOpen:
			if c != '{' {
				return "", 0, false
			}
			state = stateName
		case stateName:
			switch {
			case unicode.IsSpace(c) && len(name) == 0:
				// leading whitespace
			case c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c):
				name = append(name, c)
			case len(name) > 0 && (unicode.IsSpace(c) || c == '}'):
				state = stateClose
				if c == '}' {
					closeBraces = 1
				}
			default:
				return "", 0, false
			}
		case stateClose:
			switch {
			case c == '}':
				closeBraces++
				if closeBraces == 2 {
					return string(name), pos + 1, true
				}
			case unicode.IsSpace(c) && closeBraces == 0:
				// whitespace before the closing braces
			default:
				return "", 0, false
			}
		}
		pos++
	}

	return "", 0, false
}

// encodeValue escapes a plain-text value for insertion inside a w:t element
// and turns newlines into explicit line breaks.
func encodeValue(v string) string {
	v = strings.ReplaceAll(v, "&", "&amp;")
	v = strings.ReplaceAll(v, "<", "&lt;")
	v = strings.ReplaceAll(v, ">", "&gt;")
	return strings.ReplaceAll(v, "\n", `</w:t><w:br/><w:t xml:space="preserve">`)
}

var pgMarPattern = regexp.MustCompile(`<w:pgMar[^>]*/>`)

// OverrideMargins rewrites the first section's page margins, in inches.
// Values of zero or less leave the corresponding margin untouched.
func (d *Document) OverrideMargins(top, bottom, left, right float64) {
	loc := pgMarPattern.FindStringIndex(d.raw)
	if loc == nil {
		return
	}

	tag := d.raw[loc[0]:loc[1]]
	for attr, inches := range map[string]float64{
		"top":    top,
		"bottom": bottom,
		"left":   left,
		"right":  right,
	} {
		if inches <= 0 {
			continue
		}
		attrPattern := regexp.MustCompile(`w:` + attr + `="[^"]*"`)
		tag = attrPattern.ReplaceAllString(tag, fmt.Sprintf(`w:%s="%d"`, attr, int(inches*1440)))
	}

	d.raw = d.raw[:loc[0]] + tag + d.raw[loc[1]:]
}

// Bytes rebuilds the archive with the current document markup. All parts
// other than word/document.xml are copied through untouched.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range d.archive.File {
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, &RenderError{Stage: "archive", Err: err}
		}
		if f.Name == documentPart {
			if _, err := w.Write([]byte(d.raw)); err != nil {
				return nil, &RenderError{Stage: "archive", Err: err}
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &RenderError{Stage: "archive", Err: err}
		}
		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			return nil, &RenderError{Stage: "archive", Err: err}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, &RenderError{Stage: "archive", Err: err}
	}
	return buf.Bytes(), nil
}
