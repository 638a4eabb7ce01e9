package test_utils

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/lithammer/dedent"
	"github.com/pkg/diff"
)

func RemoveNewlines(input string) string {
	return strings.ReplaceAll(input, "\n", "")
}

func Dedent(input string) string {
	return dedent.Dedent( // removes any leading whitespace
		strings.ReplaceAll( // compress linebreaks to 1 or 2 lines max
			strings.TrimLeft(
				strings.TrimRight(input, " \n\r"), // remove any trailing whitespace
				" \t\r\n"),                        // remove leading whitespace
			"\n\n\n", "\n\n"),
	)
}

func ANSIDiff(x, y interface{}, opts ...cmp.Option) string {
	escapeCode := func(code int) string {
		return fmt.Sprintf("\x1b[%dm", code)
	}
	d := cmp.Diff(x, y, opts...)
	if d == "" {
		return ""
	}
	ss := strings.Split(d, "\n")
	for i, s := range ss {
		switch {
		case strings.HasPrefix(s, "-"):
			ss[i] = escapeCode(31) + s + escapeCode(0)
		case strings.HasPrefix(s, "+"):
			ss[i] = escapeCode(32) + s + escapeCode(0)
		}
	}
	return strings.Join(ss, "\n")
}

// TextDiff renders a unified diff of two multi-line strings, for failure
// messages where a whole normalized document is compared.
func TextDiff(want, got string) string {
	if want == got {
		return ""
	}
	var sb strings.Builder
	if err := diff.Text("want", "got", want, got, &sb); err != nil {
		return ANSIDiff(want, got)
	}
	return sb.String()
}
