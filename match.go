package peek

import "regexp"

// A directive line is a whole-line comment of the form
//
//	#<sigil>{ label: expression }
//
// where sigil is one of $ " # @ % \ and both label and expression are
// optional. Horizontal whitespace is allowed around the line and inside the
// braces; anything else on the line disqualifies it. Stripping the leading
// # and sigil from a matched line leaves a braced block, which is what keeps
// the grammar unambiguous against ordinary comments.
var directiveRE = regexp.MustCompile(
	`^[ \t]*#(?P<sigil>[%@$\\"#])\{[ \t]*(?P<label>[A-Za-z_]\w*:)?[ \t]*(?P<expr>\S.*\S|\S)?[ \t]*\}[ \t]*$`,
)

var (
	directiveSigil = directiveRE.SubexpIndex("sigil")
	directiveLabel = directiveRE.SubexpIndex("label")
	directiveExpr  = directiveRE.SubexpIndex("expr")
)

// MatchLine reports whether text is a directive line, and if so returns its
// fields. line is the 1-based position of text in the surrounding source and
// becomes the fallback label. MatchLine is pure; a line that does not match
// is passed through by callers untouched.
func MatchLine(text string, line int) (Directive, bool) {
	m := directiveRE.FindStringSubmatch(text)
	if m == nil {
		return Directive{}, false
	}
	return Directive{
		Sigil: Sigil(m[directiveSigil][0]),
		Label: m[directiveLabel],
		Expr:  m[directiveExpr],
		Line:  line,
	}, true
}
