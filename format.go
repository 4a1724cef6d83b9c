package peek

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// formatScalar renders one evaluated scalar under the given context.
// CtxScalarString and CtxScalarNumeric force one face of the value; every
// other context uses the plain scalar rendering.
func formatScalar(v Value, ctx EvalContext) string {
	switch ctx {
	case CtxScalarString:
		return formatAsString(v)
	case CtxScalarNumeric:
		return formatAsNumber(v)
	}

	switch v.Kind {
	case KindString:
		return "'" + v.Str + "'"
	case KindNumber:
		return v.Num
	case KindDual:
		return "'" + v.Str + "' : " + v.Num
	case KindUndef:
		return "undef"
	case KindRef:
		return v.Ref
	case KindBlessed:
		return "blessed(" + v.Class + ")"
	}
	return "undef"
}

// formatAsString renders the string face of a value. Quoting is applied even
// to numeric-looking values; undefined stays a bare undef so the output
// never fabricates an empty string.
func formatAsString(v Value) string {
	switch v.Kind {
	case KindString, KindDual:
		return "'" + v.Str + "'"
	case KindNumber:
		return "'" + v.Num + "'"
	case KindUndef:
		return "undef"
	case KindRef:
		return "'" + v.Ref + "'"
	case KindBlessed:
		return "'blessed(" + v.Class + ")'"
	}
	return "undef"
}

// formatAsNumber renders the numeric face of a value. Plain strings coerce
// through their leading numeric prefix; undefined and references keep their
// scalar rendering rather than inventing a number.
func formatAsNumber(v Value) string {
	switch v.Kind {
	case KindNumber, KindDual:
		return v.Num
	case KindString:
		return numericPrefix(v.Str)
	case KindUndef:
		return "undef"
	case KindRef:
		return v.Ref
	case KindBlessed:
		return "blessed(" + v.Class + ")"
	}
	return "undef"
}

// formatList renders list-context elements comma-joined in parentheses.
func formatList(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatScalar(v, CtxScalar)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// formatPairs renders key/value pairs as 'key' => value in parentheses.
// Hash-shaped results are sorted by key string so the output is
// deterministic; positional (array-shaped) results keep their order.
func formatPairs(pl PairList) string {
	pairs := pl.Pairs
	if !pl.Positional {
		pairs = make([]Pair, len(pl.Pairs))
		copy(pairs, pl.Pairs)
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairKeyString(pairs[i].Key) < pairKeyString(pairs[j].Key)
		})
	}

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = formatScalar(p.Key, CtxScalar) + " => " + formatScalar(p.Val, CtxScalar)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func pairKeyString(k Value) string {
	switch k.Kind {
	case KindNumber:
		return k.Num
	case KindUndef:
		return ""
	}
	return k.Str
}

var leadingNumberRE = regexp.MustCompile(`^[ \t]*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// numericPrefix coerces a string to a number the way loose host languages
// do: the leading numeric prefix counts, anything else is 0.
func numericPrefix(s string) string {
	m := leadingNumberRE.FindString(s)
	if m == "" {
		return "0"
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return "0"
	}
	return formatNumber(n)
}
