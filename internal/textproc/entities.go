package textproc

// namedEntities is the fixed table of recognized named references. This is
// deliberately the common subset rather than the full HTML5 list: a linter
// only needs to resolve references it may want to report on, and an unknown
// '&' is literal text anyway.
var namedEntities = map[string]rune{
	"amp":    '&',
	"lt":     '<',
	"gt":     '>',
	"quot":   '"',
	"apos":   '\'',
	"nbsp":   '\u00a0',
	"iexcl":  '¡',
	"cent":   '¢',
	"pound":  '£',
	"curren": '¤',
	"yen":    '¥',
	"sect":   '§',
	"copy":   '©',
	"laquo":  '«',
	"reg":    '®',
	"shy":    '\u00ad',
	"deg":    '°',
	"plusmn": '±',
	"micro":  'µ',
	"para":   '¶',
	"middot": '·',
	"raquo":  '»',
	"frac14": '¼',
	"frac12": '½',
	"frac34": '¾',
	"iquest": '¿',
	"times":  '×',
	"divide": '÷',
	"szlig":  'ß',
	"agrave": 'à',
	"aacute": 'á',
	"ccedil": 'ç',
	"egrave": 'è',
	"eacute": 'é',
	"iacute": 'í',
	"ntilde": 'ñ',
	"oacute": 'ó',
	"ouml":   'ö',
	"uacute": 'ú',
	"uuml":   'ü',
	"ensp":   '\u2002',
	"emsp":   '\u2003',
	"thinsp": '\u2009',
	"zwnj":   '\u200c',
	"zwj":    '\u200d',
	"ndash":  '–',
	"mdash":  '—',
	"lsquo":  '‘',
	"rsquo":  '’',
	"ldquo":  '“',
	"rdquo":  '”',
	"dagger": '†',
	"Dagger": '‡',
	"bull":   '•',
	"hellip": '…',
	"permil": '‰',
	"euro":   '€',
	"trade":  '™',
	"larr":   '←',
	"uarr":   '↑',
	"rarr":   '→',
	"darr":   '↓',
	"harr":   '↔',
	"infin":  '∞',
	"ne":     '≠',
	"le":     '≤',
	"ge":     '≥',
}
