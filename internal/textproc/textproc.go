// Package textproc classifies runs of character data and locates entity
// references inside them. It never mutates the bytes it is given: collapse
// and entity resolution are advisory, applied only by the formatter.
package textproc

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Class is the classification of a text run.
type Class uint32

const (
	// ClassNormal is ordinary character data.
	ClassNormal Class = iota
	// ClassWhitespace means the run is whitespace only.
	ClassWhitespace
	// ClassEntity means the run contains at least one entity reference.
	ClassEntity
	// ClassRawPreserve means the run belongs to a raw-text or
	// whitespace-preserving element and must never be collapsed.
	ClassRawPreserve
)

func (c Class) String() string {
	switch c {
	case ClassNormal:
		return "normal"
	case ClassWhitespace:
		return "whitespace"
	case ClassEntity:
		return "entity"
	case ClassRawPreserve:
		return "raw-preserve"
	}
	return "Invalid(" + strconv.Itoa(int(c)) + ")"
}

// EntityRef records one entity reference found in a text run. Offset is
// absolute in the source buffer; the reference is left undecoded in the
// emitted token, Rune is advisory metadata.
type EntityRef struct {
	Offset int
	Len    int
	Name   string
	Rune   rune
}

// TextRun is the analysis of one span of character data.
type TextRun struct {
	Class    Class
	Entities []EntityRef
}

// Analyze classifies data. base is the absolute offset of data[0] in the
// source buffer. preserve marks whitespace-sensitive enclosing elements;
// raw marks raw-text elements, whose content has no entity references.
func Analyze(data []byte, base int, preserve, raw bool) *TextRun {
	run := &TextRun{}
	if !raw {
		run.Entities = Entities(data, base)
	}
	switch {
	case raw || preserve:
		run.Class = ClassRawPreserve
	case isWhitespace(data):
		run.Class = ClassWhitespace
	case len(run.Entities) > 0:
		run.Class = ClassEntity
	default:
		run.Class = ClassNormal
	}
	return run
}

// Entities locates every recognized entity reference in data. A '&' that
// does not form a recognized reference is literal text, not an error.
func Entities(data []byte, base int) []EntityRef {
	var refs []EntityRef
	for i := 0; i < len(data); i++ {
		if data[i] != '&' {
			continue
		}
		if ref, ok := matchEntity(data[i:]); ok {
			ref.Offset = base + i
			refs = append(refs, ref)
			i += ref.Len - 1
		}
	}
	return refs
}

// matchEntity matches a named or numeric reference at the start of data,
// which begins with '&'. Named references require the terminating ';' and
// membership in the known-name table. Numeric references are lenient:
// terminated by ';' or by the first non-digit.
func matchEntity(data []byte) (EntityRef, bool) {
	if len(data) < 2 {
		return EntityRef{}, false
	}
	if data[1] == '#' {
		return matchNumericEntity(data)
	}
	for j := 1; j < len(data); j++ {
		c := data[j]
		if c == ';' {
			name := string(data[1:j])
			r, ok := namedEntities[name]
			if !ok {
				return EntityRef{}, false
			}
			return EntityRef{Len: j + 1, Name: name, Rune: r}, true
		}
		if !isEntityNameByte(c, j == 1) {
			return EntityRef{}, false
		}
	}
	return EntityRef{}, false
}

func matchNumericEntity(data []byte) (EntityRef, bool) {
	j := 2
	hex := false
	if j < len(data) && (data[j] == 'x' || data[j] == 'X') {
		hex = true
		j++
	}
	start := j
	for j < len(data) && isDigit(data[j], hex) {
		j++
	}
	if j == start {
		return EntityRef{}, false
	}
	base := 10
	if hex {
		base = 16
	}
	n, err := strconv.ParseInt(string(data[start:j]), base, 32)
	r := rune(n)
	if err != nil || !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	length := j
	if j < len(data) && data[j] == ';' {
		length++
	}
	return EntityRef{Len: length, Rune: r}, true
}

func isEntityNameByte(c byte, first bool) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' {
		return true
	}
	if first {
		return false
	}
	return '0' <= c && c <= '9' || c == '-' || c == '.'
}

func isDigit(c byte, hex bool) bool {
	if '0' <= c && c <= '9' {
		return true
	}
	return hex && ('a' <= c && c <= 'f' || 'A' <= c && c <= 'F')
}

func isWhitespace(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, c := range data {
		if !unicode.IsSpace(rune(c)) || c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Collapse rewrites consecutive whitespace as a single space and trims the
// run's edges. Entity references are untouched: collapse only ever removes
// whitespace bytes.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
