// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/neatml/neatml/internal/handler"
	"github.com/neatml/neatml/internal/loc"
	"github.com/neatml/neatml/internal/sourcemap"
	"github.com/neatml/neatml/internal/textproc"
	"golang.org/x/net/html/atom"
)

// A TokenType is the type of a Token.
type TokenType uint32

const (
	// ErrorToken means that an error occurred during tokenization, or
	// that the tokenizer needs more input.
	ErrorToken TokenType = iota
	// TextToken means a text node.
	TextToken
	// A StartTagToken looks like <a>.
	StartTagToken
	// An EndTagToken looks like </a>.
	EndTagToken
	// A CommentToken looks like <!--x-->.
	CommentToken
	// A DoctypeToken looks like <!DOCTYPE x>.
	DoctypeToken
	// A CDataToken looks like <![CDATA[x]]>.
	CDataToken
	// A DeclarationToken is any other <!...> construct.
	DeclarationToken
	// A ProcessingInstructionToken looks like <?x?>.
	ProcessingInstructionToken
)

// String returns a string representation of the TokenType.
func (t TokenType) String() string {
	switch t {
	case ErrorToken:
		return "Error"
	case TextToken:
		return "Text"
	case StartTagToken:
		return "StartTag"
	case EndTagToken:
		return "EndTag"
	case CommentToken:
		return "Comment"
	case DoctypeToken:
		return "Doctype"
	case CDataToken:
		return "CData"
	case DeclarationToken:
		return "Declaration"
	case ProcessingInstructionToken:
		return "ProcessingInstruction"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// AttributeType records how an attribute's value was written in the source.
type AttributeType uint32

const (
	// EmptyAttribute is a valueless (boolean) attribute.
	EmptyAttribute AttributeType = iota
	// DoubleQuotedAttribute is key="value".
	DoubleQuotedAttribute
	// SingleQuotedAttribute is key='value'.
	SingleQuotedAttribute
	// UnquotedAttribute is key=value.
	UnquotedAttribute
)

func (t AttributeType) String() string {
	switch t {
	case EmptyAttribute:
		return "empty"
	case DoubleQuotedAttribute:
		return "double-quoted"
	case SingleQuotedAttribute:
		return "single-quoted"
	case UnquotedAttribute:
		return "unquoted"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// An Attribute is one key-value pair on a tag. Val is the raw source bytes
// of the value, without quotes and without entity decoding. Duplicate marks
// the second and later occurrences of a repeated name; duplicates are
// preserved in order, never dropped.
type Attribute struct {
	Key       string
	KeyLoc    loc.Loc
	Val       string
	ValLoc    loc.Loc
	Type      AttributeType
	Duplicate bool
}

// A Token consists of a TokenType and some Data (tag name for start and end
// tags, content for text, comments, doctypes and the other data tokens).
// Tag tokens may also carry Attributes. Raw spans the token's exact source
// bytes; Loc and Pos locate its first byte. For tag tokens, DataAtom is the
// atom for Data, or zero if Data is not a known tag name.
type Token struct {
	Type        TokenType
	DataAtom    atom.Atom
	Data        string
	Attr        []Attribute
	SelfClosing bool
	// RawText marks tags of elements whose content is not tokenized.
	RawText bool
	Loc     loc.Loc
	Raw     loc.Span
	Pos     loc.Position
	// Run is the text analysis for Text tokens.
	Run *textproc.TextRun
}

// tagString returns a string representation of a tag Token's Data and Attr.
func (t Token) tagString() string {
	if len(t.Attr) == 0 {
		return t.Data
	}
	buf := bytes.NewBufferString(t.Data)
	for _, a := range t.Attr {
		buf.WriteByte(' ')
		buf.WriteString(a.Key)
		switch a.Type {
		case EmptyAttribute:
		case SingleQuotedAttribute:
			buf.WriteString(`='`)
			buf.WriteString(a.Val)
			buf.WriteByte('\'')
		case UnquotedAttribute:
			buf.WriteByte('=')
			buf.WriteString(a.Val)
		default:
			buf.WriteString(`="`)
			buf.WriteString(a.Val)
			buf.WriteByte('"')
		}
	}
	return buf.String()
}

// String returns a string representation of the Token.
func (t Token) String() string {
	switch t.Type {
	case ErrorToken:
		return ""
	case TextToken:
		return t.Data
	case StartTagToken:
		if t.SelfClosing {
			return "<" + t.tagString() + "/>"
		}
		return "<" + t.tagString() + ">"
	case EndTagToken:
		return "</" + t.tagString() + ">"
	case CommentToken:
		return "<!--" + t.Data + "-->"
	case DoctypeToken:
		return "<!DOCTYPE " + t.Data + ">"
	case CDataToken:
		return "<![CDATA[" + t.Data + "]]>"
	case DeclarationToken:
		return "<!" + t.Data + ">"
	case ProcessingInstructionToken:
		return "<?" + t.Data + "?>"
	}
	return "Invalid(" + strconv.Itoa(int(t.Type)) + ")"
}

// ErrMoreInput is the error associated with an ErrorToken when the buffer
// ended in the middle of a token and the input is not final. Feeding the
// next chunk resumes the scan from the suspended token's first byte.
var ErrMoreInput = errors.New("markup: need more input")

// A FatalError aborts a scan. Unlike diagnostics, it is surfaced as an
// error from the tokenizer, not attached to the token stream.
type FatalError struct {
	Code loc.DiagnosticCode
	Text string
}

func (e *FatalError) Error() string {
	return e.Text
}

// A Tokenizer returns a stream of markup Tokens.
type Tokenizer struct {
	opts    Options
	handler *handler.Handler
	// tt is the TokenType of the current token.
	tt TokenType
	// err is the first error encountered during tokenization. It is
	// possible for tt != Error && err != nil to hold: this means that
	// Next returned a valid token but the subsequent Next call will
	// return an error token. ErrMoreInput is the one resettable error:
	// Feed clears it.
	err error
	// buf[raw.Start:raw.End] holds the raw bytes of the current token.
	// buf[raw.End:] is buffered input that will yield future tokens.
	raw loc.Span
	buf []byte
	// final is whether the input is complete; when false, running out
	// of buffer mid-token suspends the scan instead of truncating it.
	final bool
	// buf[data.Start:data.End] holds the raw bytes of the current
	// token's data: a text token's text, a tag token's tag name, etc.
	data loc.Span
	// pendingAttr is the attribute key and value currently being
	// tokenized. When complete, pendingAttr is pushed onto attr.
	pendingAttr     [2]loc.Span
	pendingAttrType AttributeType
	attr            [][2]loc.Span
	attrTypes       []AttributeType
	attrDup         []bool
	nAttrReturned   int
	// selfClosing is whether the current tag ended with "/>".
	selfClosing bool
	// textRaw is whether the current text token is raw-text content.
	textRaw bool
	// rawTag is the "script" in "</script>" that closes the next token.
	// If non-empty, the subsequent call to Next will return a raw text
	// token: one that treats "<p>" as text instead of an element.
	// rawTag's contents are lower-cased.
	rawTag string
	// stack holds the names of open elements, for raw-preserve
	// decisions and the nesting bound.
	stack []string

	tracker  sourcemap.Tracker
	rawText  map[string]bool
	preserve map[string]bool
}

// NewChunkedTokenizer returns a Tokenizer with no input yet; feed it with
// Feed and mark end-of-input with Final. A nil handler discards nothing:
// an anonymous one is created.
func NewChunkedTokenizer(h *handler.Handler, opts Options) *Tokenizer {
	if h == nil {
		h = handler.NewHandler("")
	}
	rawText := elementSet(opts.RawTextElements, DefaultRawTextElements)
	// Raw-text elements always preserve whitespace, whether or not the
	// preserve list is customized.
	preserve := elementSet(opts.PreserveWhitespaceElements, DefaultPreserveWhitespaceElements)
	for name := range rawText {
		preserve[name] = true
	}
	return &Tokenizer{
		opts:     opts,
		handler:  h,
		rawText:  rawText,
		preserve: preserve,
	}
}

// NewTokenizer returns a Tokenizer for the given Reader, consumed whole.
// The input is assumed to be UTF-8 encoded.
func NewTokenizer(r io.Reader, h *handler.Handler, opts Options) *Tokenizer {
	z := NewChunkedTokenizer(h, opts)
	buf := new(bytes.Buffer)
	//nolint
	buf.ReadFrom(r)
	if err := z.Feed(buf.Bytes()); err == nil {
		//nolint
		z.Final()
	}
	return z
}

// Feed appends the next input chunk and clears a pending ErrMoreInput, so
// the suspended token is rescanned from its first byte.
func (z *Tokenizer) Feed(chunk []byte) error {
	if z.final {
		return errors.New("markup: Feed after Final")
	}
	if z.opts.MaxBuffer > 0 && len(z.buf)+len(chunk) > z.opts.MaxBuffer {
		fatal := &FatalError{Code: loc.ERROR_RESOURCE_EXHAUSTED, Text: "max buffer exceeded"}
		z.err = fatal
		z.handler.AppendError(fatal)
		return fatal
	}
	z.buf = append(z.buf, chunk...)
	if z.err == ErrMoreInput {
		z.err = nil
	}
	return nil
}

// Final marks the input complete. Subsequent Next calls scan to true
// end-of-input, truncating any suspended token into its best-effort form.
func (z *Tokenizer) Final() error {
	z.final = true
	if z.err == ErrMoreInput {
		z.err = nil
	}
	if z.opts.StrictEncoding && !utf8.Valid(z.buf) {
		fatal := &FatalError{Code: loc.ERROR_ENCODING, Text: "input is not valid UTF-8"}
		z.err = fatal
		z.handler.AppendError(fatal)
		return fatal
	}
	return nil
}

// Err returns the error associated with the most recent ErrorToken token.
// This is typically io.EOF, meaning the end of tokenization, or
// ErrMoreInput in chunked mode.
func (z *Tokenizer) Err() error {
	if z.tt != ErrorToken {
		return nil
	}
	return z.err
}

// readByte returns the next byte from the input buffer.
// z.buf[z.raw.Start:z.raw.End] remains a contiguous byte
// slice that holds all the bytes read so far for the current token.
// Pre-condition: z.err == nil.
func (z *Tokenizer) readByte() byte {
	if z.raw.End >= len(z.buf) {
		z.err = io.EOF
		return 0
	}
	x := z.buf[z.raw.End]
	z.raw.End++
	return x
}

// Buffered returns a slice containing data buffered but not yet tokenized.
func (z *Tokenizer) Buffered() []byte {
	return z.buf[z.raw.End:]
}

// skipWhiteSpace skips past any white space.
func (z *Tokenizer) skipWhiteSpace() {
	if z.err != nil {
		return
	}
	for {
		c := z.readByte()
		if z.err != nil {
			return
		}
		switch c {
		case ' ', '\n', '\r', '\t', '\f':
		default:
			z.raw.End--
			return
		}
	}
}

// readRawText reads until the end tag matching z.rawTag, ignoring any other
// '<' in between. The content becomes one text token; an embedded "<p>" is
// text, not an element.
func (z *Tokenizer) readRawText() {
loop:
	for {
		c := z.readByte()
		if z.err != nil {
			break loop
		}
		if c != '<' {
			continue loop
		}
		c = z.readByte()
		if z.err != nil {
			break loop
		}
		if c != '/' {
			z.raw.End--
			continue loop
		}
		if z.readRawEndTag() || z.err != nil {
			break loop
		}
	}
	if z.err == io.EOF {
		z.handler.AppendWarning(&loc.ErrorWithRange{
			Code: loc.WARNING_UNTERMINATED_RAW_TEXT,
			Text: fmt.Sprintf("Missing closing </%s> tag", z.rawTag),
			Range: loc.Range{
				Loc: loc.Loc{Start: z.raw.Start},
				Len: z.raw.End - z.raw.Start,
			},
		})
	}
	z.data.End = z.raw.End
	z.rawTag = ""
}

// readRawEndTag attempts to read a tag like "</foo>", where "foo" is
// z.rawTag. If it succeeds, it backs up the input position to reconsume the
// tag and returns true. Otherwise it returns false. The opening "</" has
// already been consumed.
func (z *Tokenizer) readRawEndTag() bool {
	for i := 0; i < len(z.rawTag); i++ {
		c := z.readByte()
		if z.err != nil {
			return false
		}
		if c != z.rawTag[i] && c != z.rawTag[i]-('a'-'A') {
			z.raw.End--
			return false
		}
	}
	c := z.readByte()
	if z.err != nil {
		return false
	}
	switch c {
	case ' ', '\n', '\r', '\t', '\f', '/', '>':
		// The 3 is 2 for the leading "</" plus 1 for the trailing character c.
		z.raw.End -= 3 + len(z.rawTag)
		return true
	}
	z.raw.End--
	return false
}

// readComment reads the next comment token starting with "<!--". The
// opening "<!--" has already been consumed.
func (z *Tokenizer) readComment() {
	start := z.raw.End
	z.data.Start = start
	defer func() {
		if z.data.End < z.data.Start {
			// It's a comment with no data, like <!-->.
			z.data.End = z.data.Start
		}
	}()
	for dashCount := 2; ; {
		c := z.readByte()
		if z.err != nil {
			if z.err == io.EOF {
				z.handler.AppendWarning(&loc.ErrorWithRange{
					Code: loc.WARNING_UNTERMINATED_COMMENT,
					Text: "Unterminated comment",
					Range: loc.Range{
						Loc: loc.Loc{Start: start - len("<!--")},
						Len: len("<!--"),
					},
				})
			}
			// Ignore up to two dashes at EOF.
			if dashCount > 2 {
				dashCount = 2
			}
			z.data.End = z.raw.End - dashCount
			return
		}
		switch c {
		case '-':
			dashCount++
			continue
		case '>':
			if dashCount >= 2 {
				z.data.End = z.raw.End - len("-->")
				return
			}
		case '!':
			if dashCount >= 2 {
				c = z.readByte()
				if z.err != nil {
					z.data.End = z.raw.End
					return
				}
				if c == '>' {
					z.data.End = z.raw.End - len("--!>")
					return
				}
			}
		}
		dashCount = 0
	}
}

// readUntilCloseAngle reads until the next ">".
func (z *Tokenizer) readUntilCloseAngle() {
	z.data.Start = z.raw.End
	for {
		c := z.readByte()
		if z.err != nil {
			z.data.End = z.raw.End
			return
		}
		if c == '>' {
			z.data.End = z.raw.End - len(">")
			return
		}
	}
}

// readMarkupDeclaration reads the token starting with "<!". It might be a
// "<!--comment-->", a "<!DOCTYPE foo>", a "<![CDATA[section]]>" or a bogus
// "<!a declaration". The opening "<!" has already been consumed.
func (z *Tokenizer) readMarkupDeclaration() TokenType {
	z.data.Start = z.raw.End
	var c [2]byte
	for i := 0; i < 2; i++ {
		c[i] = z.readByte()
		if z.err != nil {
			z.data.End = z.raw.End
			return DeclarationToken
		}
	}
	if c[0] == '-' && c[1] == '-' {
		z.readComment()
		return CommentToken
	}
	z.raw.End -= 2
	if z.readDoctype() {
		return DoctypeToken
	}
	if z.opts.AllowCDATA && z.readCDATA() {
		return CDataToken
	}
	z.handler.AppendWarning(&loc.ErrorWithRange{
		Code: loc.WARNING_MALFORMED_TAG,
		Text: "Malformed markup declaration",
		Range: loc.Range{
			Loc: loc.Loc{Start: z.raw.Start},
			Len: len("<!"),
		},
	})
	z.readUntilCloseAngle()
	return DeclarationToken
}

// readDoctype attempts to read a doctype declaration and returns true if
// successful. The opening "<!" has already been consumed.
func (z *Tokenizer) readDoctype() bool {
	const s = "DOCTYPE"
	for i := 0; i < len(s); i++ {
		c := z.readByte()
		if z.err != nil {
			z.data.End = z.raw.End
			return false
		}
		if c != s[i] && c != s[i]+('a'-'A') {
			// Back up to read the fragment of "DOCTYPE" again.
			z.raw.End = z.data.Start
			return false
		}
	}
	if z.skipWhiteSpace(); z.err != nil {
		z.data.Start = z.raw.End
		z.data.End = z.raw.End
		return true
	}
	z.readUntilCloseAngle()
	return true
}

// readCDATA attempts to read a CDATA section and returns true if
// successful. The opening "<!" has already been consumed.
func (z *Tokenizer) readCDATA() bool {
	const s = "[CDATA["
	for i := 0; i < len(s); i++ {
		c := z.readByte()
		if z.err != nil {
			z.data.End = z.raw.End
			return false
		}
		if c != s[i] {
			// Back up to read the fragment of "[CDATA[" again.
			z.raw.End = z.data.Start
			return false
		}
	}
	z.data.Start = z.raw.End
	brackets := 0
	for {
		c := z.readByte()
		if z.err != nil {
			z.data.End = z.raw.End
			return true
		}
		switch c {
		case ']':
			brackets++
		case '>':
			if brackets >= 2 {
				z.data.End = z.raw.End - len("]]>")
				return true
			}
			brackets = 0
		default:
			brackets = 0
		}
	}
}

// readStartTag reads the next start tag token. The opening "<a" has already
// been consumed, where 'a' means anything in [A-Za-z].
func (z *Tokenizer) readStartTag() TokenType {
	z.readTag(true)
	if z.err == nil && z.buf[z.raw.End-2] == '/' {
		z.selfClosing = true
	}
	name := strings.ToLower(string(z.buf[z.data.Start:z.data.End]))
	if z.rawText[name] && !z.selfClosing {
		z.rawTag = name
	}
	return StartTagToken
}

// readTag reads the next tag token and its attributes. If saveAttr, those
// attributes are saved in z.attr, otherwise z.attr is set to an empty
// slice. The opening "<a" or "</a" has already been consumed, where 'a'
// means anything in [A-Za-z].
func (z *Tokenizer) readTag(saveAttr bool) {
	z.attr = z.attr[:0]
	z.attrTypes = z.attrTypes[:0]
	z.attrDup = z.attrDup[:0]
	z.nAttrReturned = 0
	z.readTagName()
	z.skipWhiteSpace()
	for z.err == nil {
		c := z.readByte()
		if z.err != nil || c == '>' {
			break
		}
		z.raw.End--
		z.readTagAttrKey()
		z.readTagAttrVal()
		if z.pendingAttr[0].Start == z.pendingAttr[0].End {
			if z.pendingAttrType != EmptyAttribute {
				// "=value" with no preceding attribute name.
				z.handler.AppendWarning(&loc.ErrorWithRange{
					Code: loc.WARNING_MALFORMED_TAG,
					Text: "Attribute value is missing a name",
					Range: loc.Range{
						Loc: loc.Loc{Start: z.pendingAttr[0].Start},
						Len: z.pendingAttr[1].End - z.pendingAttr[0].Start,
					},
				})
			}
		} else if saveAttr {
			z.saveAttr()
		}
		z.skipWhiteSpace()
	}
	if z.err == io.EOF {
		z.handler.AppendWarning(&loc.ErrorWithRange{
			Code: loc.WARNING_MALFORMED_TAG,
			Text: "Unterminated tag",
			Range: loc.Range{
				Loc: loc.Loc{Start: z.raw.Start},
				Len: z.data.End - z.raw.Start,
			},
		})
	}
}

// saveAttr pushes pendingAttr onto attr, flagging repeated names.
func (z *Tokenizer) saveAttr() {
	z.attr = append(z.attr, z.pendingAttr)
	z.attrTypes = append(z.attrTypes, z.pendingAttrType)
	z.attrDup = append(z.attrDup, false)
	key := z.buf[z.pendingAttr[0].Start:z.pendingAttr[0].End]
	for i := 0; i < len(z.attr)-1; i++ {
		prev := z.buf[z.attr[i][0].Start:z.attr[i][0].End]
		if bytes.EqualFold(prev, key) {
			z.attrDup[len(z.attrDup)-1] = true
			z.handler.AppendWarning(&loc.ErrorWithRange{
				Code: loc.WARNING_DUPLICATE_ATTRIBUTE,
				Text: fmt.Sprintf("Duplicate attribute %q", string(key)),
				Range: loc.Range{
					Loc: loc.Loc{Start: z.pendingAttr[0].Start},
					Len: len(key),
				},
			})
			return
		}
	}
}

// readTagName sets z.data to the "div" in "<div k=v>". The reader
// (z.raw.End) is positioned such that the first byte of the tag name (the
// "d" in "<div") has already been consumed.
func (z *Tokenizer) readTagName() {
	z.data.Start = z.raw.End - 1
	for {
		c := z.readByte()
		if z.err != nil {
			z.data.End = z.raw.End
			return
		}
		switch c {
		case ' ', '\n', '\r', '\t', '\f':
			z.data.End = z.raw.End - 1
			return
		case '/', '>':
			z.raw.End--
			z.data.End = z.raw.End
			return
		}
	}
}

// readTagAttrKey sets z.pendingAttr[0] to the "k" in "<div k=v>".
// Precondition: z.err == nil.
func (z *Tokenizer) readTagAttrKey() {
	z.pendingAttr[0].Start = z.raw.End
	z.pendingAttrType = EmptyAttribute
	for {
		c := z.readByte()
		if z.err != nil {
			z.pendingAttr[0].End = z.raw.End
			return
		}
		switch c {
		case ' ', '\n', '\r', '\t', '\f', '/':
			z.pendingAttr[0].End = z.raw.End - 1
			return
		case '=', '>':
			z.raw.End--
			z.pendingAttr[0].End = z.raw.End
			return
		}
	}
}

// readTagAttrVal sets z.pendingAttr[1] to the "v" in "<div k=v>". A quoted
// value runs to the matching quote, so an embedded '>' does not end the
// tag; an unquoted value runs until whitespace or '>'.
func (z *Tokenizer) readTagAttrVal() {
	z.pendingAttr[1].Start = z.raw.End
	z.pendingAttr[1].End = z.raw.End
	if z.skipWhiteSpace(); z.err != nil {
		return
	}
	c := z.readByte()
	if z.err != nil {
		return
	}
	if c != '=' {
		z.raw.End--
		return
	}
	if z.skipWhiteSpace(); z.err != nil {
		return
	}
	quote := z.readByte()
	if z.err != nil {
		return
	}
	switch quote {
	case '>':
		z.pendingAttrType = UnquotedAttribute
		z.raw.End--
		return
	case '\'', '"':
		z.pendingAttrType = DoubleQuotedAttribute
		if quote == '\'' {
			z.pendingAttrType = SingleQuotedAttribute
		}
		z.pendingAttr[1].Start = z.raw.End
		for {
			c := z.readByte()
			if z.err != nil {
				z.pendingAttr[1].End = z.raw.End
				return
			}
			if c == quote {
				z.pendingAttr[1].End = z.raw.End - 1
				return
			}
		}
	default:
		z.pendingAttrType = UnquotedAttribute
		z.pendingAttr[1].Start = z.raw.End - 1
		for {
			c := z.readByte()
			if z.err != nil {
				z.pendingAttr[1].End = z.raw.End
				return
			}
			switch c {
			case ' ', '\n', '\r', '\t', '\f':
				z.pendingAttr[1].End = z.raw.End - 1
				return
			case '>':
				z.raw.End--
				z.pendingAttr[1].End = z.raw.End
				return
			}
		}
	}
}

// Next scans the next token and returns its type.
func (z *Tokenizer) Next() TokenType {
	if z.err != nil {
		z.tt = ErrorToken
		return z.tt
	}
	savedRawTag := z.rawTag
	savedWarnings := z.handler.WarningCount()
	z.raw.Start = z.raw.End
	z.data.Start = z.raw.End
	z.data.End = z.raw.End
	z.selfClosing = false
	z.textRaw = false

	tt := z.scan()

	if z.err == io.EOF && !z.final {
		// The buffer ended mid-token. Retain the partial token in the
		// buffer, roll back its side effects, and signal for more
		// input; the next Feed resumes from exactly this point.
		z.raw.End = z.raw.Start
		z.data.Start = z.raw.Start
		z.data.End = z.raw.Start
		z.rawTag = savedRawTag
		z.handler.TruncateWarnings(savedWarnings)
		z.err = ErrMoreInput
		z.tt = ErrorToken
		return z.tt
	}
	z.tt = tt
	z.trackNesting()
	return z.tt
}

func (z *Tokenizer) scan() TokenType {
	if z.rawTag != "" {
		if z.rawTag == "plaintext" {
			// Read everything up to EOF.
			for z.err == nil {
				z.readByte()
			}
			z.data.End = z.raw.End
			z.rawTag = ""
		} else {
			z.readRawText()
		}
		if z.data.End > z.data.Start {
			z.textRaw = true
			return TextToken
		}
	}

loop:
	for {
		c := z.readByte()
		if z.err != nil {
			break loop
		}
		if c != '<' {
			continue loop
		}

		// Check if the '<' we have just read is part of a tag, comment
		// or declaration. If not, it's part of the accumulated text token.
		c = z.readByte()
		if z.err != nil {
			// A '<' that ends the input opens nothing: literal text,
			// same as a '<' followed by a non-construct character.
			z.handler.AppendWarning(&loc.ErrorWithRange{
				Code: loc.WARNING_MALFORMED_TAG,
				Text: "Left angle bracket is not part of a tag",
				Hint: `Represent a literal "<" as "&lt;"`,
				Range: loc.Range{
					Loc: loc.Loc{Start: z.raw.End - 1},
					Len: 1,
				},
			})
			break loop
		}

		var tokenType TokenType
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
			tokenType = StartTagToken
		case c == '/':
			tokenType = EndTagToken
		case c == '!':
			tokenType = DeclarationToken
		case c == '?':
			tokenType = ProcessingInstructionToken
		default:
			// A bare '<' opening no construct is literal text.
			z.handler.AppendWarning(&loc.ErrorWithRange{
				Code: loc.WARNING_MALFORMED_TAG,
				Text: "Left angle bracket is not part of a tag",
				Hint: `Represent a literal "<" as "&lt;"`,
				Range: loc.Range{
					Loc: loc.Loc{Start: z.raw.End - 2},
					Len: 1,
				},
			})
			// Reconsume the current character.
			z.raw.End--
			continue loop
		}

		// We have a non-text token, but we might have accumulated some text
		// before that. If so, we return the text first, and return the non-
		// text token on the subsequent call to Next.
		if x := z.raw.End - len("<a"); z.raw.Start < x {
			z.raw.End = x
			z.data.End = x
			return TextToken
		}

		switch tokenType {
		case StartTagToken:
			return z.readStartTag()
		case EndTagToken:
			c = z.readByte()
			if z.err != nil {
				break loop
			}
			if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' {
				z.readTag(false)
				return EndTagToken
			}
			// "</>" or "</ junk>": a bogus comment, per the lenient
			// tokenization rules.
			z.handler.AppendWarning(&loc.ErrorWithRange{
				Code: loc.WARNING_MALFORMED_TAG,
				Text: "Malformed closing tag",
				Range: loc.Range{
					Loc: loc.Loc{Start: z.raw.Start},
					Len: len("</"),
				},
			})
			z.raw.End--
			z.readUntilCloseAngle()
			return CommentToken
		case DeclarationToken:
			return z.readMarkupDeclaration()
		case ProcessingInstructionToken:
			z.readUntilCloseAngle()
			if z.data.End > z.data.Start && z.buf[z.data.End-1] == '?' {
				z.data.End--
			}
			return ProcessingInstructionToken
		}
	}
	if z.raw.Start < z.raw.End {
		z.data.End = z.raw.End
		return TextToken
	}
	return ErrorToken
}

// trackNesting maintains the open-element stack and enforces the nesting
// bound. Void and self-closing elements never open.
func (z *Tokenizer) trackNesting() {
	switch z.tt {
	case StartTagToken:
		if z.selfClosing {
			return
		}
		name := strings.ToLower(string(z.buf[z.data.Start:z.data.End]))
		if VoidElement(name) {
			return
		}
		z.stack = append(z.stack, name)
		if len(z.stack) > z.opts.maxDepth() {
			fatal := &FatalError{
				Code: loc.ERROR_RESOURCE_EXHAUSTED,
				Text: fmt.Sprintf("element nesting exceeds %d", z.opts.maxDepth()),
			}
			z.err = fatal
			z.handler.AppendError(fatal)
		}
	case EndTagToken:
		name := strings.ToLower(string(z.buf[z.data.Start:z.data.End]))
		for i := len(z.stack) - 1; i >= 0; i-- {
			if z.stack[i] == name {
				z.stack = z.stack[:i]
				return
			}
		}
	}
}

// enclosing returns the name of the innermost open element, or "".
func (z *Tokenizer) enclosing() string {
	if len(z.stack) == 0 {
		return ""
	}
	return z.stack[len(z.stack)-1]
}

// Raw returns the unmodified text of the current token. Calling Next,
// Token, Text, TagName or TagAttr may change the contents of the returned
// slice.
//
// The token stream's raw bytes partition the byte stream (up until an
// ErrorToken). There are no overlaps or gaps between two consecutive
// token's raw bytes. One implication is that the byte offset of the current
// token is the sum of the lengths of all previous tokens' raw bytes.
func (z *Tokenizer) Raw() []byte {
	return z.buf[z.raw.Start:z.raw.End]
}

// Text returns the data of a text, comment, doctype, cdata, declaration or
// processing-instruction token. The contents of the returned slice may
// change on the next call to Next.
func (z *Tokenizer) Text() []byte {
	switch z.tt {
	case TextToken, CommentToken, DoctypeToken, CDataToken, DeclarationToken, ProcessingInstructionToken:
		s := z.buf[z.data.Start:z.data.End]
		z.data.Start = z.raw.End
		z.data.End = z.raw.End
		return s
	}
	return nil
}

// TagName returns the name of a tag token as written in the source (the
// `IMG` out of `<IMG SRC="foo">`) and whether the tag has attributes.
// The contents of the returned slice may change on the next call to Next.
func (z *Tokenizer) TagName() (name []byte, hasAttr bool) {
	if z.data.Start < z.data.End {
		switch z.tt {
		case StartTagToken, EndTagToken:
			s := z.buf[z.data.Start:z.data.End]
			z.data.Start = z.raw.End
			z.data.End = z.raw.End
			return s, z.nAttrReturned < len(z.attr)
		}
	}
	return nil, false
}

// TagAttr returns the key and raw value of the next unparsed attribute for
// the current tag token and whether there are more attributes. The value is
// returned byte-for-byte as written: no entity decoding. The contents of
// the returned slices may change on the next call to Next.
func (z *Tokenizer) TagAttr() (key []byte, keyLoc loc.Loc, val []byte, valLoc loc.Loc, attrType AttributeType, duplicate, moreAttr bool) {
	if z.nAttrReturned < len(z.attr) {
		switch z.tt {
		case StartTagToken:
			x := z.attr[z.nAttrReturned]
			attrType := z.attrTypes[z.nAttrReturned]
			duplicate := z.attrDup[z.nAttrReturned]
			z.nAttrReturned++
			key = z.buf[x[0].Start:x[0].End]
			val = z.buf[x[1].Start:x[1].End]
			return key, loc.Loc{Start: x[0].Start}, val, loc.Loc{Start: x[1].Start}, attrType, duplicate, z.nAttrReturned < len(z.attr)
		}
	}
	return nil, loc.Loc{}, nil, loc.Loc{}, EmptyAttribute, false, false
}

// Token returns the current Token. The result's Data and Attr values
// remain valid after subsequent Next calls.
func (z *Tokenizer) Token() Token {
	t := Token{
		Type: z.tt,
		Loc:  loc.Loc{Start: z.raw.Start},
		Raw:  z.raw,
		Pos:  z.tracker.Advance(z.buf, z.raw.Start),
	}
	switch z.tt {
	case TextToken:
		data := z.buf[z.data.Start:z.data.End]
		preserve := z.textRaw || z.preserve[z.enclosing()]
		t.Run = textproc.Analyze(data, z.data.Start, preserve, z.textRaw)
		t.Data = string(z.Text())
	case CommentToken, DoctypeToken, CDataToken, DeclarationToken, ProcessingInstructionToken:
		t.Data = string(z.Text())
	case StartTagToken, EndTagToken:
		name, moreAttr := z.TagName()
		for moreAttr {
			var key, val []byte
			var keyLoc, valLoc loc.Loc
			var attrType AttributeType
			var duplicate bool
			key, keyLoc, val, valLoc, attrType, duplicate, moreAttr = z.TagAttr()
			t.Attr = append(t.Attr, Attribute{string(key), keyLoc, string(val), valLoc, attrType, duplicate})
		}
		t.SelfClosing = z.selfClosing
		lowered := bytes.ToLower(name)
		t.RawText = z.rawText[string(lowered)]
		if a := atom.Lookup(lowered); a != 0 {
			t.DataAtom = a
		}
		if z.opts.TagNameCase == TagNamePreserve {
			t.Data = string(name)
		} else {
			t.Data = string(lowered)
		}
	}
	return t
}
