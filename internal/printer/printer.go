package printer

import (
	"strings"

	markup "github.com/neatml/neatml/internal"
	"github.com/neatml/neatml/internal/attrsort"
	"github.com/neatml/neatml/internal/textproc"
)

type PrintResult struct {
	Output []byte
}

type printer struct {
	output []byte
}

func (p *printer) print(text string) {
	p.output = append(p.output, text...)
}

func (p *printer) printTokenSource(source string, t markup.Token) {
	p.output = append(p.output, source[t.Raw.Start:t.Raw.End]...)
}

// Normalize renders a token stream in canonical form: attributes reordered
// and re-quoted, the doctype lowercased, and text runs collapsed unless
// they belong to a whitespace-preserving element. Normalizing an already
// normalized stream reproduces it unchanged.
func Normalize(tokens []markup.Token, order *attrsort.Order) PrintResult {
	p := &printer{}
	if order == nil {
		order = attrsort.Default()
	}
	for _, t := range tokens {
		p.printNormalized(t, order)
	}
	return PrintResult{Output: p.output}
}

func (p *printer) printNormalized(t markup.Token, order *attrsort.Order) {
	switch t.Type {
	case markup.TextToken:
		if t.Run != nil && t.Run.Class == textproc.ClassRawPreserve {
			p.print(t.Data)
			return
		}
		p.print(textproc.Collapse(t.Data))
	case markup.StartTagToken:
		p.print("<")
		p.print(t.Data)
		attrs := attrsort.Sorted(t.Attr, func(a markup.Attribute) string { return a.Key }, order)
		for _, a := range attrs {
			p.print(" ")
			p.printAttribute(a)
		}
		if t.SelfClosing {
			p.print("/>")
			return
		}
		p.print(">")
	case markup.EndTagToken:
		p.print("</")
		p.print(t.Data)
		p.print(">")
	case markup.CommentToken:
		p.print("<!--")
		p.print(t.Data)
		p.print("-->")
	case markup.DoctypeToken:
		p.print("<!doctype ")
		p.print(strings.ToLower(t.Data))
		p.print(">")
	case markup.CDataToken:
		p.print("<![CDATA[")
		p.print(t.Data)
		p.print("]]>")
	case markup.DeclarationToken:
		p.print("<!")
		p.print(t.Data)
		p.print(">")
	case markup.ProcessingInstructionToken:
		p.print("<?")
		p.print(t.Data)
		p.print("?>")
	}
}

// printAttribute renders one attribute in canonical form: valueless
// attributes stay bare, everything else is double-quoted unless the value
// itself contains a double quote.
func (p *printer) printAttribute(a markup.Attribute) {
	p.print(a.Key)
	if a.Type == markup.EmptyAttribute {
		return
	}
	if strings.Contains(a.Val, `"`) {
		p.print("='")
		p.print(a.Val)
		p.print("'")
		return
	}
	p.print(`="`)
	p.print(a.Val)
	p.print(`"`)
}
