package loc

import "strconv"

type DiagnosticCode int

const (
	ERROR                    DiagnosticCode = 1000
	ERROR_ENCODING           DiagnosticCode = 1001
	ERROR_RESOURCE_EXHAUSTED DiagnosticCode = 1002

	WARNING                       DiagnosticCode = 2000
	WARNING_MALFORMED_TAG         DiagnosticCode = 2001
	WARNING_DUPLICATE_ATTRIBUTE   DiagnosticCode = 2002
	WARNING_UNTERMINATED_COMMENT  DiagnosticCode = 2003
	WARNING_UNTERMINATED_RAW_TEXT DiagnosticCode = 2004
	// Reserved for a future strict mode; never emitted by default.
	WARNING_UNRECOGNIZED_ENTITY DiagnosticCode = 2005
)

// Kind returns the taxonomy name for a code.
func (c DiagnosticCode) Kind() string {
	switch c {
	case ERROR_ENCODING:
		return "EncodingError"
	case ERROR_RESOURCE_EXHAUSTED:
		return "ResourceExhausted"
	case WARNING_MALFORMED_TAG:
		return "MalformedTag"
	case WARNING_DUPLICATE_ATTRIBUTE:
		return "DuplicateAttribute"
	case WARNING_UNTERMINATED_COMMENT:
		return "UnterminatedComment"
	case WARNING_UNTERMINATED_RAW_TEXT:
		return "UnterminatedRawText"
	case WARNING_UNRECOGNIZED_ENTITY:
		return "UnrecognizedEntity"
	}
	return "Invalid(" + strconv.Itoa(int(c)) + ")"
}

// Fatal codes abort a scan; everything else is collected as a diagnostic
// attached to a still-successful token stream.
func (c DiagnosticCode) Fatal() bool {
	return c > ERROR && c < WARNING
}

type DiagnosticSeverity int

const (
	ErrorType   DiagnosticSeverity = 1
	WarningType DiagnosticSeverity = 2
)

// ErrorWithRange is a diagnostic anchored to a byte range of the input.
type ErrorWithRange struct {
	Code  DiagnosticCode
	Text  string
	Hint  string
	Range Range
}

func (e *ErrorWithRange) Error() string {
	return e.Text
}

// DiagnosticMessage is the resolved, consumer-facing record shape:
// offset, line, column, kind and message.
type DiagnosticMessage struct {
	Code     DiagnosticCode
	Kind     string
	Severity DiagnosticSeverity
	Offset   int
	Line     int
	Column   int
	Length   int
	Text     string
	Hint     string
}

func (e *ErrorWithRange) ToMessage(pos Position) DiagnosticMessage {
	return DiagnosticMessage{
		Code:   e.Code,
		Kind:   e.Code.Kind(),
		Offset: e.Range.Loc.Start,
		Line:   pos.Line,
		Column: pos.Column,
		Length: e.Range.Len,
		Text:   e.Text,
		Hint:   e.Hint,
	}
}
