package attrsort

// DefaultConfig is the built-in attribute priority. The leading list keeps
// identity and semantics up front (lang, rel, type, id, class, ...), the
// trailing list pushes framework and event wiring to the end of the tag.
func DefaultConfig() Config {
	return Config{
		Order: []string{
			"lang",
			"rel",
			"as",
			"for",
			"type",
			"id",
			"class",
			"name",
			"itemid",
			"itemscope",
			"itemtype",
			"itemprop",
			"property",
			"content",
			"value",
			"placeholder",
			"checked",
			"href",
			"src",
			"multiple",
			"size",
			"step",
			"sizes",
			"width",
			"height",
			"alt",
			"title",
			"pattern",
			"maxlength",
			"disabled",
			"hidden",
			"readonly",
			"required",
			"autocomplete",
			"autofocus",
			"tabindex",
			"form*",
			"style",
		},
		Trailing: []string{
			"data-*",
			"x-*",
			"@*",
			"on*",
		},
	}
}

// Default is DefaultConfig compiled. The built-in patterns always compile.
func Default() *Order {
	o, err := Compile(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return o
}
