// Package attrsort reorders tag attributes into a canonical,
// configuration-driven order. Sorting is pure and stable: it never adds,
// drops, renames or deduplicates attributes, and attributes tied under the
// configured priority keep their original relative order, so repeated runs
// over already-sorted output are idempotent.
package attrsort

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// Fallback selects the comparator for attributes no pattern matches.
type Fallback uint32

const (
	// FallbackLexicographic orders unmatched attributes by name,
	// case-insensitively.
	FallbackLexicographic Fallback = iota
)

// Config enumerates the ordering rules. Each pattern is an exact name
// ("class"), a prefix ("data-*"), or a regular expression wrapped in
// slashes ("/^aria-/"). Order lists the names that sort first, in the
// listed priority; Trailing lists the names pushed after all unmatched
// attributes, in the listed priority.
type Config struct {
	Order    []string
	Trailing []string
	Fallback Fallback
}

type matcher interface {
	match(name string) bool
}

type exactMatcher string

func (m exactMatcher) match(name string) bool {
	return strings.EqualFold(name, string(m))
}

type prefixMatcher string

func (m prefixMatcher) match(name string) bool {
	return len(name) >= len(m) && strings.EqualFold(name[:len(m)], string(m))
}

type regexMatcher struct {
	re *regexp2.Regexp
}

func (m regexMatcher) match(name string) bool {
	ok, err := m.re.MatchString(name)
	return err == nil && ok
}

// Order is a compiled Config.
type Order struct {
	leading  []matcher
	trailing []matcher
	fallback Fallback
}

// Compile validates the configuration and compiles its patterns.
func Compile(cfg Config) (*Order, error) {
	o := &Order{fallback: cfg.Fallback}
	var err error
	if o.leading, err = compilePatterns(cfg.Order); err != nil {
		return nil, err
	}
	if o.trailing, err = compilePatterns(cfg.Trailing); err != nil {
		return nil, err
	}
	return o, nil
}

func compilePatterns(patterns []string) ([]matcher, error) {
	ms := make([]matcher, 0, len(patterns))
	for _, p := range patterns {
		switch {
		case len(p) > 2 && strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/"):
			re, err := regexp2.Compile(p[1:len(p)-1], regexp2.IgnoreCase)
			if err != nil {
				return nil, fmt.Errorf("attribute pattern %q: %w", p, err)
			}
			ms = append(ms, regexMatcher{re: re})
		case strings.HasSuffix(p, "*"):
			ms = append(ms, prefixMatcher(strings.ToLower(p[:len(p)-1])))
		case p == "":
			return nil, fmt.Errorf("empty attribute pattern")
		default:
			ms = append(ms, exactMatcher(strings.ToLower(p)))
		}
	}
	return ms, nil
}

// rank classes: leading bucket, unmatched, trailing bucket.
const (
	classLeading = iota
	classUnmatched
	classTrailing
)

func (o *Order) rank(name string) (class, bucket int) {
	for i, m := range o.leading {
		if m.match(name) {
			return classLeading, i
		}
	}
	for i, m := range o.trailing {
		if m.match(name) {
			return classTrailing, i
		}
	}
	return classUnmatched, 0
}

// Less reports whether the attribute named a sorts before the one named b.
// Attributes in the same priority bucket are tied; the caller's stable sort
// preserves their original order.
func (o *Order) Less(a, b string) bool {
	ca, ba := o.rank(a)
	cb, bb := o.rank(b)
	if ca != cb {
		return ca < cb
	}
	if ca != classUnmatched {
		return ba < bb
	}
	return strings.ToLower(a) < strings.ToLower(b)
}

// Sorted returns a new slice holding attrs in canonical order. name extracts
// an attribute's name; the attributes themselves are never altered.
func Sorted[T any](attrs []T, name func(T) string, o *Order) []T {
	out := make([]T, len(attrs))
	copy(out, attrs)
	sort.SliceStable(out, func(i, j int) bool {
		return o.Less(name(out[i]), name(out[j]))
	})
	return out
}
