package markup

import (
	"errors"
	"io"

	"github.com/neatml/neatml/internal/handler"
	"github.com/neatml/neatml/internal/loc"
)

// A Result is the outcome of tokenizing a complete document: every token
// scanned, in order, plus the diagnostics raised along the way with their
// positions resolved.
type Result struct {
	Tokens      []Token
	Diagnostics []loc.DiagnosticMessage
}

// Tokenize scans the whole of source and returns every token plus the
// collected diagnostics. A fatal condition (resource limits, encoding when
// strict) aborts the scan: the tokens produced so far are still returned
// alongside the error.
func Tokenize(source string, opts Options) (Result, error) {
	h := handler.NewHandler("")
	z := NewChunkedTokenizer(h, opts)
	var result Result
	if err := z.Feed([]byte(source)); err != nil {
		return result, err
	}
	if err := z.Final(); err != nil {
		return result, err
	}
	for {
		tt := z.Next()
		if tt == ErrorToken {
			result.Diagnostics = h.Diagnostics(source)
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return result, err
			}
			return result, nil
		}
		result.Tokens = append(result.Tokens, z.Token())
	}
}
