package peek

import (
	"fmt"
	"io"
	"math"
	"strconv"
)

// Sigil selects the evaluation context of a directive.
type Sigil byte

// The six legal sigil characters.
const (
	SigilScalar Sigil = '$'
	SigilString Sigil = '"'
	SigilNumber Sigil = '#'
	SigilList   Sigil = '@'
	SigilPairs  Sigil = '%'
	SigilRefs   Sigil = '\\'
)

// EvalContext is the context a directive's expression is evaluated under.
type EvalContext int

const (
	CtxScalar EvalContext = iota
	CtxScalarString
	CtxScalarNumeric
	CtxList
	CtxPairList
	CtxReferenceList
)

// String returns a readable name for the context
func (c EvalContext) String() string {
	switch c {
	case CtxScalar:
		return "scalar"
	case CtxScalarString:
		return "scalar-string"
	case CtxScalarNumeric:
		return "scalar-numeric"
	case CtxList:
		return "list"
	case CtxPairList:
		return "pair-list"
	case CtxReferenceList:
		return "reference-list"
	}
	return "unknown"
}

// Context maps a sigil to its evaluation context. The second return is
// false for any byte outside the sigil set.
func (s Sigil) Context() (EvalContext, bool) {
	switch s {
	case SigilScalar:
		return CtxScalar, true
	case SigilString:
		return CtxScalarString, true
	case SigilNumber:
		return CtxScalarNumeric, true
	case SigilList:
		return CtxList, true
	case SigilPairs:
		return CtxPairList, true
	case SigilRefs:
		return CtxReferenceList, true
	}
	return 0, false
}

// Directive is one matched comment line, broken into its fields.
// It lives only for the single matcher-then-generator pass over its line.
type Directive struct {
	Sigil Sigil
	Label string // includes the trailing colon; empty when not given
	Expr  string // raw expression text, boundary-trimmed; empty when absent
	Line  int    // 1-based position in the original text
}

// DisplayLabel returns the user label, or the synthesized "line N:" form.
func (d Directive) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return fmt.Sprintf("line %d:", d.Line)
}

// ValueKind tags the variants of a rendered scalar.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindDual // observed as both string and number, possibly differing
	KindUndef
	KindRef     // unblessed reference, carries its opaque tag
	KindBlessed // blessed reference, carries its class name
)

// Value is the tagged result of evaluating a directive expression to a
// single scalar. Formatting is a pure function of this struct; the original
// expression text never influences rendering.
type Value struct {
	Kind  ValueKind
	Str   string // string form (KindString, KindDual)
	Num   string // numeric form in natural decimal (KindNumber, KindDual)
	Ref   string // opaque tag, e.g. "ARRAY(0x8228c)" (KindRef)
	Class string // class name (KindBlessed)
}

// StringValue wraps a plain string result.
func StringValue(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NumberValue wraps a numeric result.
func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Num: formatNumber(n)}
}

// DualValue wraps a result observed both as a string and as a number.
func DualValue(str string, num float64) Value {
	return Value{Kind: KindDual, Str: str, Num: formatNumber(num)}
}

// Undef is the undefined value.
func Undef() Value {
	return Value{Kind: KindUndef}
}

// RefValue wraps an unblessed reference by its container kind (ARRAY, HASH,
// SCALAR, CODE) and address.
func RefValue(kind string, addr uintptr) Value {
	return Value{Kind: KindRef, Ref: fmt.Sprintf("%s(0x%x)", kind, addr)}
}

// BlessedValue wraps a blessed reference by its class name.
func BlessedValue(class string) Value {
	return Value{Kind: KindBlessed, Class: class}
}

// formatNumber prints a number in its natural decimal form: integral values
// without a fraction, everything else in shortest round-trip form.
func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// Pair is one key/value entry of a pair-list result.
type Pair struct {
	Key Value
	Val Value
}

// PairList is the result of evaluating under the pair-list context.
// Positional marks array-shaped results (index/value pairs), which keep
// their order; hash-shaped results are sorted by key for determinism.
type PairList struct {
	Pairs      []Pair
	Positional bool
}

// Config holds configuration options for the engine.
type Config struct {
	Debug       bool      // enable diagnostic logging
	Disabled    bool      // pass every line through untouched
	Trace       bool      // echo fully rewritten source to TraceWriter
	Sink        io.Writer // directive output; nil means the process default
	TraceWriter io.Writer // trace echo target; nil means the process default
	Dumper      Dumper    // reference dumper; nil means the spew-backed default
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:    false,
		Disabled: false,
		Trace:    false,
	}
}
