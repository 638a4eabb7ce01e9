package main

import (
	"flag"
	"fmt"
	"os"

	markup "github.com/neatml/neatml/internal"
	"github.com/neatml/neatml/internal/printer"
)

var (
	jsonOutput = flag.Bool("json", false, "emit tokens and diagnostics as JSON")
	write      = flag.Bool("write", false, "rewrite files in place in normalized form")
	normalize  = flag.Bool("normalize", false, "print the normalized document to stdout")
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: neatml [-json] [-normalize] [-write] file...")
		os.Exit(2)
	}

	wd, err := os.Getwd()
	if err != nil {
		fatal(err)
	}
	cfg, err := LoadConfig(wd)
	if err != nil {
		fatal(err)
	}
	order, err := cfg.AttrOrder()
	if err != nil {
		fatal(err)
	}
	opts := cfg.Options()

	exitCode := 0
	for _, name := range flag.Args() {
		data, err := os.ReadFile(name)
		if err != nil {
			fatal(err)
		}
		result, err := markup.Tokenize(string(data), opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			exitCode = 1
			continue
		}
		switch {
		case *jsonOutput:
			out, err := printer.PrintToJSON(result)
			if err != nil {
				fatal(err)
			}
			fmt.Println(string(out.Output))
		case *write:
			out := printer.Normalize(result.Tokens, order)
			if err := os.WriteFile(name, out.Output, 0o644); err != nil {
				fatal(err)
			}
		case *normalize:
			out := printer.Normalize(result.Tokens, order)
			os.Stdout.Write(out.Output)
		default:
			for _, d := range result.Diagnostics {
				fmt.Printf("%s:%d:%d %s %s\n", name, d.Line, d.Column, d.Kind, d.Text)
			}
		}
		if len(result.Diagnostics) > 0 {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
