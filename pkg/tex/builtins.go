// builtins.go defines the built-in macro table that seeds every Context.
package tex

// Builtin is one entry of the built-in macro table.
type Builtin struct {
	Name       string
	Definition string
}

// builtins is never modified.
var builtins = []Builtin{
	{"url", `<a href="#1">#1</a>`},
	{"'a", "&aacute;"},
	{"'e", "&eacute;"},
	{"'i", "&iacute;"},
	{`'\i`, "&iacute;"},
	{"'o", "&oacute;"},
	{"'u", "&uacute;"},
	{"'c", "&cacute;"},
	{"'n", "&nacute;"},
	{"'y", "&yacute;"},
	{"'A", "&Aacute;"},
	{"'E", "&Eacute;"},
	{"'I", "&Iacute;"},
	{`'\I`, "&Iacute;"},
	{"'O", "&Oacute;"},
	{"'U", "&Uacute;"},
	{"'C", "&Cacute;"},
	{"`a", "&agrave;"},
	{"`e", "&egrave;"},
	{"`i", "&igrave;"},
	{"`\\i", "&igrave;"},
	{"`o", "&ograve;"},
	{"`u", "&ugrave;"},
	{"^a", "&acirc;"},
	{"^e", "&ecirc;"},
	{"^i", "&icirc;"},
	{`^\i`, "&icirc;"},
	{"^o", "&ocirc;"},
	{"^u", "&ucirc;"},
	{`"a`, "&auml;"},
	{`"e`, "&euml;"},
	{`"i`, "&iuml;"},
	{`"\i`, "&iuml;"},
	{`"o`, "&ouml;"},
	{`"u`, "&uuml;"},
	{`"A`, "&Auml;"},
	{`"O`, "&Ouml;"},
	{`"U`, "&Uuml;"},
	{"cc", "&ccedil;"},
	{"cC", "&Ccedil;"},
	{"cs", "&scedil;"},
	{",c", "&ccedil;"},
	{",s", "&scedil;"},
	{"~n", "&ntilde;"},
	{"~N", "&Ntilde;"},
	{"~a", "&atilde;"},
	{"~e", "&etilde;"},
	{"~i", "&itilde;"},
	{`~\i`, "&itilde;"},
	{"~o", "&otilde;"},
	{"~u", "&utilde;"},
	{"l", "&#322;"},
	{"L", "&#321;"},
	{"aa", "&aring;"},
	{"AA", "&Aring;"},
	{"ae", "&aelig;"},
	{"AE", "&AElig;"},
	{"ss", "&szlig;"},
	{"o", "&oslash;"},
	{"O", "&Oslash;"},
	{"i", "&imath;"},
	{"vC", "&Ccaron;"},
	{"vc", "&ccaron;"},
	{"vR", "&Rcaron;"},
	{"vr", "&rcaron;"},
	{"vS", "&Scaron;"},
	{"vs", "&scaron;"},
	{"vZ", "&Zcaron;"},
	{"vz", "&zcaron;"},
	{"textsuperscript", "<span class=ordinal>#1</span>"},
	{"texttt", "<tt>#1</tt>"},
	{"textbf", "<b>#1</b>"},
	{"textit", "<i>#1</i>"},
	{"emph", "<em>#1</em>"},
	{"textsc", "<span class=smallcaps>#1</span>"},
	{"footnotesize", "<small>#1</small>"},
	{"alpha", "&alpha;"},
	{"beta", "&beta;"},
	{"gamma", "&gamma;"},
	{"delta", "&delta;"},
	{"epsilon", "&epsilon;"},
	{"lambda", "&lambda;"},
	{"mu", "&mu;"},
	{"pi", "&pi;"},
	{"rho", "&rho;"},
	{"sigma", "&sigma;"},
	{"tau", "&tau;"},
	{"lfloor", "&lfloor;"},
	{"rfloor", "&rfloor;"},
	{"TeX", "T<sub>E</sub>X"},
	{"LaTeX", "L<sup>A</sup>T<sub>E</sub>X"},
	{"header", `\doctype
<html>
<head>
  <title>\pagetitle</title>
  \urimeta
  \contenttype
  \moremeta
  \style
  \morestyle
</head>
<body>\opening
  \banner
`},
	{"footer", `\closing
</body>
</html>
`},
	{"doctype", "<!DOCTYPE html>"},
	{"pagetitle", `Publications by \author`},
	{"contenttype", `<meta http-equiv="Content-Type" content="text/html; charset=utf-8">`},
	{"moremeta", `<meta name="viewport" content="width=device-width, initial-scale=1">`},
	{"style", `<link href="\stylesheet" type="text/css" rel="stylesheet">`},
	{"morestyle", ""},
	{"uri", ""},
	{"urimeta", ""},
	{"opening", "<div class=paperlist>"},
	{"closing", `</div>\credits`},
	{"credits", `<p class=credits>Generated by bibweb</p>`},
	{"intro", "<h2>Publications</h2>"},
	{"banner", `<h1>Publications by \author</h1>`},
	{"stylesheet", "default.css"},
	{"author", "Unknown Author"},
	{"openpaperlist", "<ul class=pubs>"},
	{"closepaperlist", "</ul>"},
	{"pubformat", `<li>
\authors. \title.
\wherepublished.</li>
`},
}

// descriptions document the special macros and the per-publication
// bindings for listings. They are never defined in a Context.
var descriptions = []Builtin{
	{`\authors`, "(formatted author list)"},
	{`\title`, "(title of this publication)"},
	{`\wherepublished`, "(publication venue and pages)"},
	{`\year`, "(year of this publication)"},
	{`\abstract`, "(abstract of this publication, rendered from Markdown)"},
	{`\ifdef`, "(insert second argument if first is a defined macro)"},
	{`\ifndef`, "(insert second argument if first is not a defined macro)"},
	{`\ifeq`, "(insert third argument if first two are equal)"},
	{`\ifne`, "(insert third argument if first two are not equal)"},
	{`\pubinfo`, `(\pubinfo{key}{attribute} looks up an attribute of the publication with the given key)`},
	{`\setpubinfo`, `(\setpubinfo{key}{attribute}{value} redefines an attribute of the publication with the given key)`},
	{`\def`, `(\def{name}{expansion} defines a new macro; arguments are written #1, #2, etc. in the expansion)`},
	{`\depth`, "(current scope nesting depth)"},
}

// Builtins returns a copy of the built-in macro table in definition order.
func Builtins() []Builtin {
	out := make([]Builtin, len(builtins))
	copy(out, builtins)
	return out
}

// Descriptions returns a copy of the descriptions of the macros that have no
// template. Their names start with a backslash.
func Descriptions() []Builtin {
	out := make([]Builtin, len(descriptions))
	copy(out, descriptions)
	return out
}
