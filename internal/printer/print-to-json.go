package printer

import (
	"github.com/go-json-experiment/json"
	"github.com/iancoleman/strcase"
	markup "github.com/neatml/neatml/internal"
	"github.com/neatml/neatml/internal/loc"
)

type JSONPoint struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

type JSONAttribute struct {
	Name      string `json:"name"`
	Value     string `json:"value,omitempty"`
	Kind      string `json:"kind"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

type JSONToken struct {
	Type        string          `json:"type"`
	Name        string          `json:"name,omitempty"`
	Value       string          `json:"value,omitempty"`
	Attributes  []JSONAttribute `json:"attributes,omitempty"`
	SelfClosing bool            `json:"selfClosing,omitempty"`
	Position    JSONPoint       `json:"position"`
}

type JSONDiagnostic struct {
	Severity string    `json:"severity"`
	Kind     string    `json:"kind"`
	Text     string    `json:"text"`
	Hint     string    `json:"hint,omitempty"`
	Position JSONPoint `json:"position"`
	Length   int       `json:"length"`
}

type JSONResult struct {
	Tokens      []JSONToken      `json:"tokens"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
}

// PrintToJSON serializes a scan result for machine consumption, with token
// and diagnostic kinds in kebab case ("start-tag", "malformed-tag").
func PrintToJSON(result markup.Result) (PrintResult, error) {
	out := JSONResult{
		Tokens:      make([]JSONToken, 0, len(result.Tokens)),
		Diagnostics: make([]JSONDiagnostic, 0, len(result.Diagnostics)),
	}
	for _, t := range result.Tokens {
		out.Tokens = append(out.Tokens, jsonToken(t))
	}
	for _, d := range result.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, jsonDiagnostic(d))
	}
	output, err := json.Marshal(out)
	if err != nil {
		return PrintResult{}, err
	}
	return PrintResult{Output: output}, nil
}

func jsonToken(t markup.Token) JSONToken {
	node := JSONToken{
		Type: strcase.ToKebab(t.Type.String()),
		Position: JSONPoint{
			Line:   t.Pos.Line,
			Column: t.Pos.Column,
			Offset: t.Loc.Start,
		},
	}
	switch t.Type {
	case markup.StartTagToken, markup.EndTagToken:
		node.Name = t.Data
		node.SelfClosing = t.SelfClosing
		for _, a := range t.Attr {
			node.Attributes = append(node.Attributes, JSONAttribute{
				Name:      a.Key,
				Value:     a.Val,
				Kind:      strcase.ToKebab(a.Type.String()),
				Duplicate: a.Duplicate,
			})
		}
	default:
		node.Value = t.Data
	}
	return node
}

func jsonDiagnostic(d loc.DiagnosticMessage) JSONDiagnostic {
	severity := "warning"
	if d.Severity == loc.ErrorType {
		severity = "error"
	}
	return JSONDiagnostic{
		Severity: severity,
		Kind:     strcase.ToKebab(d.Kind),
		Text:     d.Text,
		Hint:     d.Hint,
		Position: JSONPoint{Line: d.Line, Column: d.Column, Offset: d.Offset},
		Length:   d.Length,
	}
}
