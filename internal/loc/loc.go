package loc

// Loc is a 0-based byte index from the start of the input.
type Loc struct {
	Start int
}

// Span is a range of bytes in a Tokenizer's buffer. The start is inclusive,
// the end is exclusive.
type Span struct {
	Start, End int
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Range is a located region of the input, used to point diagnostics at the
// construct that triggered them.
type Range struct {
	Loc Loc
	Len int
}

func (r Range) End() int {
	return r.Loc.Start + r.Len
}

// Position is a human-oriented source coordinate. Line and Column are
// 1-based; Column counts runes, not bytes.
type Position struct {
	Line   int
	Column int
}
