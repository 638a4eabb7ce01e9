package markup

import "strings"

// TagNameCase selects how tag names are normalized on emitted tokens.
type TagNameCase uint32

const (
	// TagNameLower lower-cases tag names (the default).
	TagNameLower TagNameCase = iota
	// TagNamePreserve keeps the source spelling.
	TagNamePreserve
)

// Options configure one scan. The zero value is usable: nil element lists
// select the defaults below, MaxBuffer of 0 means unlimited, MaxDepth of 0
// selects defaultMaxDepth.
type Options struct {
	// RawTextElements are elements whose content is opaque to
	// tokenization until the literal matching end tag.
	RawTextElements []string
	// PreserveWhitespaceElements are elements whose text is classified
	// raw-preserve and never collapsed. Raw-text elements always
	// preserve, whether listed or not.
	PreserveWhitespaceElements []string
	TagNameCase                TagNameCase
	// AllowCDATA recognizes <![CDATA[...]]> sections; otherwise they
	// tokenize as bogus markup declarations.
	AllowCDATA bool
	// StrictEncoding rejects input that is not valid UTF-8 with a fatal
	// EncodingError. Off by default: encoding resolution is the
	// caller's job.
	StrictEncoding bool
	// MaxBuffer bounds the total buffered input in bytes.
	MaxBuffer int
	// MaxDepth bounds element nesting.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return defaultMaxDepth
}

const defaultMaxDepth = 512

// DefaultRawTextElements matches the set of elements HTML tokenizes as raw
// or RCDATA text.
var DefaultRawTextElements = []string{
	"iframe", "noembed", "noframes", "plaintext", "script", "style",
	"textarea", "title", "xmp",
}

// DefaultPreserveWhitespaceElements is the default whitespace-sensitive set
// beyond the raw-text elements.
var DefaultPreserveWhitespaceElements = []string{"pre", "textarea"}

// HTML void elements:
// https://www.w3.org/TR/2011/WD-html-markup-20110113/syntax.html#syntax-elements
var voidElements = map[string]bool{
	"area":    true,
	"base":    true,
	"br":      true,
	"col":     true,
	"command": true,
	"embed":   true,
	"hr":      true,
	"img":     true,
	"input":   true,
	"keygen":  true,
	"link":    true,
	"meta":    true,
	"param":   true,
	"source":  true,
	"track":   true,
	"wbr":     true,
}

// VoidElement reports whether name is an HTML void element.
func VoidElement(name string) bool {
	return voidElements[name]
}

func elementSet(names, fallback []string) map[string]bool {
	if names == nil {
		names = fallback
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return set
}
