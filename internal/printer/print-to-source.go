package printer

import (
	markup "github.com/neatml/neatml/internal"
)

// PrintToSource reproduces the source text of a token stream byte for
// byte. Because consecutive tokens' raw spans partition the input, the
// concatenation of every token's raw bytes is exactly the input that was
// scanned.
func PrintToSource(source string, tokens []markup.Token) PrintResult {
	p := &printer{}
	for _, t := range tokens {
		p.printTokenSource(source, t)
	}
	return PrintResult{Output: p.output}
}
