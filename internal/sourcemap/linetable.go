package sourcemap

import (
	"sort"
	"unicode/utf8"

	"github.com/neatml/neatml/internal/loc"
)

// LineTable maps byte offsets to line/column positions. Built once per
// source, then each lookup is a binary search over the line starts.
type LineTable struct {
	src    string
	starts []int
}

// GenerateLineTable records the byte offset of the first byte of every line.
func GenerateLineTable(source string) *LineTable {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineTable{src: source, starts: starts}
}

// Position resolves a byte offset to a 1-based line and rune column.
// Offsets past the end of the source resolve to the last position.
func (t *LineTable) Position(offset int) loc.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.src) {
		offset = len(t.src)
	}
	line := sort.Search(len(t.starts), func(i int) bool {
		return t.starts[i] > offset
	})
	start := t.starts[line-1]
	return loc.Position{
		Line:   line,
		Column: utf8.RuneCountInString(t.src[start:offset]) + 1,
	}
}

// Tracker resolves positions for monotonically increasing offsets without
// materializing a table, so the tokenizer can stamp each token as it is
// emitted, even while the buffer is still growing chunk by chunk.
type Tracker struct {
	off  int
	line int
	col  int
}

// Advance moves the tracker forward to offset and returns its position.
// offset must not precede the previous call's offset.
func (tr *Tracker) Advance(buf []byte, offset int) loc.Position {
	if tr.line == 0 {
		tr.line, tr.col = 1, 1
	}
	if offset > len(buf) {
		offset = len(buf)
	}
	for ; tr.off < offset; tr.off++ {
		c := buf[tr.off]
		switch {
		case c == '\n':
			tr.line++
			tr.col = 1
		case c&0xC0 == 0x80:
			// UTF-8 continuation byte: same column.
		default:
			tr.col++
		}
	}
	return loc.Position{Line: tr.line, Column: tr.col}
}
