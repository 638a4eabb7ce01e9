package markup

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/neatml/neatml/internal/handler"
	"github.com/neatml/neatml/internal/loc"
	"github.com/neatml/neatml/internal/textproc"
)

func scanAll(t *testing.T, input string, opts Options) ([]Token, *handler.Handler) {
	t.Helper()
	h := handler.NewHandler("test.html")
	z := NewTokenizer(strings.NewReader(input), h, opts)
	var tokens []Token
	for {
		if z.Next() == ErrorToken {
			break
		}
		tokens = append(tokens, z.Token())
	}
	return tokens, h
}

func TestTokenizer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			"doctype",
			`<!DOCTYPE html>`,
			[]TokenType{DoctypeToken},
		},
		{
			"start tag",
			`<html>`,
			[]TokenType{StartTagToken},
		},
		{
			"end tag",
			`</html>`,
			[]TokenType{EndTagToken},
		},
		{
			"self-closing tag",
			`<meta charset="utf-8" />`,
			[]TokenType{StartTagToken},
		},
		{
			"text",
			` `,
			[]TokenType{TextToken},
		},
		{
			"comment",
			`<!-- comment -->`,
			[]TokenType{CommentToken},
		},
		{
			"element with text",
			`<p>hello</p>`,
			[]TokenType{StartTagToken, TextToken, EndTagToken},
		},
		{
			"processing instruction",
			`<?xml version="1.0"?>`,
			[]TokenType{ProcessingInstructionToken},
		},
		{
			"declaration",
			`<!ENTITY nbsp "&#160;">`,
			[]TokenType{DeclarationToken},
		},
		{
			"raw text content is one token",
			`<script>a < b && c</script>`,
			[]TokenType{StartTagToken, TextToken, EndTagToken},
		},
		{
			"bare less-than is text",
			`1 < 2`,
			[]TokenType{TextToken},
		},
		{
			"bogus end tag becomes comment",
			`</>`,
			[]TokenType{CommentToken},
		},
		{
			"document",
			"<!DOCTYPE html>\n<html><head><title>x</title></head><body><p>y</p></body></html>",
			[]TokenType{
				DoctypeToken, TextToken, StartTagToken, StartTagToken, StartTagToken,
				TextToken, EndTagToken, EndTagToken, StartTagToken, StartTagToken,
				TextToken, EndTagToken, EndTagToken, EndTagToken,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, _ := scanAll(t, tt.input, Options{})
			types := make([]TokenType, 0)
			for _, tok := range tokens {
				types = append(types, tok.Type)
			}
			if !reflect.DeepEqual(types, tt.want) {
				t.Errorf("Tokenizer types = %v, want %v", types, tt.want)
			}
		})
	}
}

func TestAttributes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Attribute
	}{
		{
			"quote styles",
			`<div a="1" b='2' c=3 d>`,
			[]Attribute{
				{Key: "a", Val: "1", Type: DoubleQuotedAttribute},
				{Key: "b", Val: "2", Type: SingleQuotedAttribute},
				{Key: "c", Val: "3", Type: UnquotedAttribute},
				{Key: "d", Type: EmptyAttribute},
			},
		},
		{
			"quoted value may contain a right angle bracket",
			`<a title="a > b">`,
			[]Attribute{
				{Key: "title", Val: "a > b", Type: DoubleQuotedAttribute},
			},
		},
		{
			"duplicates are kept in order and flagged",
			`<div class="a" id="x" class="b">`,
			[]Attribute{
				{Key: "class", Val: "a", Type: DoubleQuotedAttribute},
				{Key: "id", Val: "x", Type: DoubleQuotedAttribute},
				{Key: "class", Val: "b", Type: DoubleQuotedAttribute, Duplicate: true},
			},
		},
		{
			"value bytes are not decoded",
			`<a href="?a=1&amp;b=2">`,
			[]Attribute{
				{Key: "href", Val: "?a=1&amp;b=2", Type: DoubleQuotedAttribute},
			},
		},
		{
			"whitespace around equals",
			"<div a =\t'1'>",
			[]Attribute{
				{Key: "a", Val: "1", Type: SingleQuotedAttribute},
			},
		},
	}
	ignoreLocs := cmp.Comparer(func(a, b Attribute) bool {
		return a.Key == b.Key && a.Val == b.Val && a.Type == b.Type && a.Duplicate == b.Duplicate
	})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, _ := scanAll(t, tt.input, Options{})
			if len(tokens) != 1 || tokens[0].Type != StartTagToken {
				t.Fatalf("expected a single start tag, got %v", tokens)
			}
			if diff := cmp.Diff(tt.want, tokens[0].Attr, ignoreLocs); diff != "" {
				t.Errorf("attributes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelfClosing(t *testing.T) {
	tokens, _ := scanAll(t, `<img src="x"/><br>`, Options{})
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if !tokens[0].SelfClosing {
		t.Errorf("expected <img/> to be self-closing")
	}
	if tokens[1].SelfClosing {
		t.Errorf("expected <br> not to be self-closing")
	}
}

func TestRawText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		text  string
	}{
		{"script", `<script>if (a<b) { x("</scr" + "ipt>") }`+ `</script>`, `if (a<b) { x("</scr" + "ipt>") }`},
		{"style", `<style>a>b{color:red}</style>`, `a>b{color:red}`},
		{"textarea keeps markup literal", `<textarea><p>not a tag</p></textarea>`, `<p>not a tag</p>`},
		{"case-insensitive end tag", `<script>x</SCRIPT>`, `x`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, _ := scanAll(t, tt.input, Options{})
			want := []TokenType{StartTagToken, TextToken, EndTagToken}
			types := make([]TokenType, 0)
			for _, tok := range tokens {
				types = append(types, tok.Type)
			}
			if !reflect.DeepEqual(types, want) {
				t.Fatalf("types = %v, want %v", types, want)
			}
			if tokens[1].Data != tt.text {
				t.Errorf("raw text = %q, want %q", tokens[1].Data, tt.text)
			}
			if tokens[1].Run == nil || tokens[1].Run.Class.String() != "raw-preserve" {
				t.Errorf("raw text run should be raw-preserve, got %v", tokens[1].Run)
			}
		})
	}
}

func TestCustomRawTextElements(t *testing.T) {
	opts := Options{RawTextElements: []string{"x-template"}}
	tokens, _ := scanAll(t, `<x-template><p>literal</p></x-template><script><p>tokens</p></script>`, opts)
	want := []TokenType{
		StartTagToken, TextToken, EndTagToken,
		StartTagToken, StartTagToken, TextToken, EndTagToken, EndTagToken,
	}
	types := make([]TokenType, 0)
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	if !reflect.DeepEqual(types, want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
	if tokens[1].Data != `<p>literal</p>` {
		t.Errorf("x-template content = %q", tokens[1].Data)
	}
}

func TestCustomRawTextKeepsDefaultPreserve(t *testing.T) {
	// Customizing the raw-text set must not discard the default
	// preserve-whitespace set (pre, textarea) when that list is nil.
	opts := Options{RawTextElements: []string{"x-template"}}
	tokens, _ := scanAll(t, `<pre>  a   b  </pre><x-template> raw </x-template>`, opts)
	if len(tokens) != 6 {
		t.Fatalf("got %d tokens, want 6", len(tokens))
	}
	for _, i := range []int{1, 4} {
		if tokens[i].Run == nil || tokens[i].Run.Class != textproc.ClassRawPreserve {
			t.Errorf("token %d run = %v, want raw-preserve", i, tokens[i].Run)
		}
	}
}

func TestOptionsSlicesNotMutated(t *testing.T) {
	// The preserve list has spare capacity; building the tokenizer must
	// not write into its backing array.
	preserve := make([]string, 1, 4)
	preserve[0] = "pre"
	raw := []string{"script"}
	opts := Options{PreserveWhitespaceElements: preserve, RawTextElements: raw}
	NewChunkedTokenizer(nil, opts)
	if preserve[0] != "pre" {
		t.Errorf("preserve list changed: %v", preserve)
	}
	for i, s := range preserve[:cap(preserve)][1:] {
		if s != "" {
			t.Errorf("preserve backing array written at %d: %q", i+1, s)
		}
	}
	if raw[0] != "script" {
		t.Errorf("raw list changed: %v", raw)
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		codes []loc.DiagnosticCode
	}{
		{
			"stray left angle bracket",
			`<p>1 < 2</p>`,
			[]loc.DiagnosticCode{loc.WARNING_MALFORMED_TAG},
		},
		{
			"stray left angle bracket at end of input",
			`a <`,
			[]loc.DiagnosticCode{loc.WARNING_MALFORMED_TAG},
		},
		{
			"unterminated tag",
			`<div class="x`,
			[]loc.DiagnosticCode{loc.WARNING_MALFORMED_TAG},
		},
		{
			"unterminated comment",
			`<!-- never closed`,
			[]loc.DiagnosticCode{loc.WARNING_UNTERMINATED_COMMENT},
		},
		{
			"unterminated raw text",
			`<script>var x = 1;`,
			[]loc.DiagnosticCode{loc.WARNING_UNTERMINATED_RAW_TEXT},
		},
		{
			"duplicate attribute",
			`<div a="1" a="2">`,
			[]loc.DiagnosticCode{loc.WARNING_DUPLICATE_ATTRIBUTE},
		},
		{
			"malformed markup declaration",
			`<!bogus>`,
			[]loc.DiagnosticCode{loc.WARNING_MALFORMED_TAG},
		},
		{
			"clean input",
			`<p>fine</p>`,
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := scanAll(t, tt.input, Options{})
			msgs := h.Diagnostics(tt.input)
			var codes []loc.DiagnosticCode
			for _, m := range msgs {
				codes = append(codes, m.Code)
			}
			if !reflect.DeepEqual(codes, tt.codes) {
				t.Errorf("diagnostic codes = %v, want %v", codes, tt.codes)
			}
		})
	}
}

func TestTrailingAngleBracketIsText(t *testing.T) {
	tokens, h := scanAll(t, `a <`, Options{})
	if len(tokens) != 1 || tokens[0].Type != TextToken || tokens[0].Data != "a <" {
		t.Fatalf("expected one text token %q, got %v", "a <", tokens)
	}
	msgs := h.Diagnostics(`a <`)
	if len(msgs) != 1 || msgs[0].Code != loc.WARNING_MALFORMED_TAG || msgs[0].Offset != 2 {
		t.Errorf("diagnostics = %v, want one MalformedTag at offset 2", msgs)
	}
}

func TestUnterminatedTagStillYieldsToken(t *testing.T) {
	tokens, h := scanAll(t, `<div class="x`, Options{})
	if len(tokens) != 1 || tokens[0].Type != StartTagToken {
		t.Fatalf("expected best-effort start tag, got %v", tokens)
	}
	if tokens[0].Data != "div" {
		t.Errorf("tag name = %q, want div", tokens[0].Data)
	}
	if len(tokens[0].Attr) != 1 || tokens[0].Attr[0].Key != "class" || tokens[0].Attr[0].Val != "x" {
		t.Errorf("attributes = %v", tokens[0].Attr)
	}
	if len(h.Diagnostics(`<div class="x`)) != 1 {
		t.Errorf("expected one diagnostic")
	}
}

func TestRawBytesPartitionInput(t *testing.T) {
	inputs := []string{
		`<!DOCTYPE html><p CLASS='a'  id=b>x &amp; y</p><!-- c --><br/>`,
		`text < more <未completed`,
		`<script>a<b</script>trailing`,
	}
	for _, input := range inputs {
		tokens, _ := scanAll(t, input, Options{})
		var sb strings.Builder
		for _, tok := range tokens {
			sb.WriteString(input[tok.Raw.Start:tok.Raw.End])
		}
		if sb.String() != input {
			t.Errorf("raw concatenation = %q, want %q", sb.String(), input)
		}
	}
}

func TestTokenPositions(t *testing.T) {
	input := "<p>a</p>\n<p>é</p>"
	tokens, _ := scanAll(t, input, Options{})
	wantPos := []loc.Position{
		{Line: 1, Column: 1},
		{Line: 1, Column: 4},
		{Line: 1, Column: 5},
		{Line: 1, Column: 9},
		{Line: 2, Column: 1},
		{Line: 2, Column: 4},
		{Line: 2, Column: 5},
	}
	if len(tokens) != len(wantPos) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(wantPos))
	}
	for i, tok := range tokens {
		if tok.Pos != wantPos[i] {
			t.Errorf("token %d position = %v, want %v", i, tok.Pos, wantPos[i])
		}
	}
}

func TestTextEntityMetadata(t *testing.T) {
	tokens, _ := scanAll(t, `<p>foo &amp; bar &#x27; baz</p>`, Options{})
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens", len(tokens))
	}
	run := tokens[1].Run
	if run == nil || len(run.Entities) != 2 {
		t.Fatalf("expected 2 entity references, got %v", run)
	}
	if run.Entities[0].Name != "amp" || run.Entities[0].Rune != '&' {
		t.Errorf("first entity = %+v", run.Entities[0])
	}
	if run.Entities[1].Rune != '\'' {
		t.Errorf("second entity = %+v", run.Entities[1])
	}
}

func TestMaxDepth(t *testing.T) {
	input := strings.Repeat("<div>", 10)
	h := handler.NewHandler("")
	z := NewTokenizer(strings.NewReader(input), h, Options{MaxDepth: 4})
	n := 0
	for z.Next() != ErrorToken {
		n++
	}
	var fatal *FatalError
	if err := z.Err(); err == nil {
		t.Fatal("expected a fatal error")
	} else if !asFatal(err, &fatal) || fatal.Code != loc.ERROR_RESOURCE_EXHAUSTED {
		t.Errorf("err = %v, want resource exhausted", err)
	}
	if n != 5 {
		t.Errorf("tokens before abort = %d, want 5", n)
	}
}

func asFatal(err error, target **FatalError) bool {
	f, ok := err.(*FatalError)
	if ok {
		*target = f
	}
	return ok
}

func TestMaxBuffer(t *testing.T) {
	z := NewChunkedTokenizer(nil, Options{MaxBuffer: 8})
	if err := z.Feed([]byte("0123456789")); err == nil {
		t.Fatal("expected Feed to fail past the buffer cap")
	}
	if z.Next() != ErrorToken {
		t.Error("expected an error token after a fatal error")
	}
}

func TestStrictEncoding(t *testing.T) {
	z := NewChunkedTokenizer(nil, Options{StrictEncoding: true})
	if err := z.Feed([]byte{'<', 'p', '>', 0xff, 0xfe}); err != nil {
		t.Fatal(err)
	}
	if err := z.Final(); err == nil {
		t.Fatal("expected invalid UTF-8 to be rejected")
	}
}

func TestVoidElementsDoNotNest(t *testing.T) {
	input := strings.Repeat("<br>", 100) + strings.Repeat("<img src=x>", 100)
	h := handler.NewHandler("")
	z := NewTokenizer(strings.NewReader(input), h, Options{MaxDepth: 4})
	for z.Next() != ErrorToken {
	}
	if err := z.Err(); err != nil && err.Error() != "EOF" {
		t.Errorf("void elements tripped the nesting bound: %v", err)
	}
}

func TestDoctypeAndCData(t *testing.T) {
	tokens, _ := scanAll(t, `<!DOCTYPE html><![CDATA[x < y]]>`, Options{AllowCDATA: true})
	want := []TokenType{DoctypeToken, CDataToken}
	types := make([]TokenType, 0)
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	if !reflect.DeepEqual(types, want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
	if tokens[0].Data != "html" {
		t.Errorf("doctype data = %q", tokens[0].Data)
	}
	if tokens[1].Data != "x < y" {
		t.Errorf("cdata data = %q", tokens[1].Data)
	}
}

func TestCDataDisabledIsDeclaration(t *testing.T) {
	tokens, _ := scanAll(t, `<![CDATA[x]]>`, Options{})
	if len(tokens) != 1 || tokens[0].Type != DeclarationToken {
		t.Fatalf("expected a declaration token, got %v", tokens)
	}
}

func TestTagNameCase(t *testing.T) {
	tokens, _ := scanAll(t, `<DIV Class="a"></DIV>`, Options{})
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens[0].Data != "div" || tokens[1].Data != "div" {
		t.Errorf("default case should lower tag names, got %q/%q", tokens[0].Data, tokens[1].Data)
	}
	tokens, _ = scanAll(t, `<DIV></DIV>`, Options{TagNameCase: TagNamePreserve})
	if tokens[0].Data != "DIV" || tokens[1].Data != "DIV" {
		t.Errorf("preserve case should keep source spelling, got %q/%q", tokens[0].Data, tokens[1].Data)
	}
}

func TestTokenString(t *testing.T) {
	tokens, _ := scanAll(t, `<a href="x" download>text</a>`, Options{})
	want := []string{`<a href="x" download>`, `text`, `</a>`}
	for i, tok := range tokens {
		if tok.String() != want[i] {
			t.Errorf("String() = %q, want %q", tok.String(), want[i])
		}
	}
}
