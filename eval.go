package peek

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Evaluator executes directive expressions on behalf of generated actions.
// Each method corresponds to one evaluation context; errors are evaluation
// failures and propagate to the caller untranslated.
type Evaluator interface {
	EvalScalar(expr string) (Value, error)
	EvalList(expr string) ([]Value, error)
	EvalPairs(expr string) (PairList, error)
	EvalRefs(expr string) ([]interface{}, error)
}

// Blessed marks a stored value as belonging to a named class.
type Blessed struct {
	Class string
	Value interface{}
}

// StoreEvaluator is an in-memory variable store with just enough expression
// support to drive the REPL and tests: $name/@name/%name lookups, string and
// number literals, undef, reference-taking with \, and left-to-right numeric
// arithmetic. Hosts embedding the engine supply their own Evaluator instead.
type StoreEvaluator struct {
	scalars map[string]interface{}
	lists   map[string][]interface{}
	hashes  map[string]map[string]interface{}
}

// NewStoreEvaluator creates an empty variable store.
func NewStoreEvaluator() *StoreEvaluator {
	return &StoreEvaluator{
		scalars: make(map[string]interface{}),
		lists:   make(map[string][]interface{}),
		hashes:  make(map[string]map[string]interface{}),
	}
}

// SetScalar binds $name.
func (e *StoreEvaluator) SetScalar(name string, v interface{}) {
	e.scalars[name] = v
}

// SetDual binds $name to a value carrying distinct string and numeric forms.
func (e *StoreEvaluator) SetDual(name, str string, num float64) {
	e.scalars[name] = DualValue(str, num)
}

// SetList binds @name.
func (e *StoreEvaluator) SetList(name string, items ...interface{}) {
	e.lists[name] = items
}

// SetHash binds %name.
func (e *StoreEvaluator) SetHash(name string, m map[string]interface{}) {
	e.hashes[name] = m
}

// EvalScalar evaluates expr in scalar context.
func (e *StoreEvaluator) EvalScalar(expr string) (Value, error) {
	expr = strings.TrimSpace(expr)
	fields := strings.Fields(expr)
	if len(fields) >= 3 && len(fields)%2 == 1 && isOperator(fields[1]) {
		return e.evalArithmetic(fields)
	}
	return e.evalAtom(expr)
}

// EvalList evaluates expr in list context.
func (e *StoreEvaluator) EvalList(expr string) ([]Value, error) {
	expr = strings.TrimSpace(expr)
	if name, ok := varName(expr, '@'); ok {
		items, found := e.lists[name]
		if !found {
			return nil, nil
		}
		vs := make([]Value, len(items))
		for i, it := range items {
			vs[i] = valueOf(it)
		}
		return vs, nil
	}
	if inner, ok := parenInner(expr); ok {
		var vs []Value
		for _, tok := range splitTop(inner) {
			v, err := e.evalAtom(tok)
			if err != nil {
				return nil, err
			}
			vs = append(vs, v)
		}
		return vs, nil
	}
	v, err := e.EvalScalar(expr)
	if err != nil {
		return nil, err
	}
	return []Value{v}, nil
}

// EvalPairs evaluates expr as a key/value pair sequence. Hash variables
// produce key/value pairs; list variables are auto-paired positionally by
// index. Anything else must flatten to an even number of elements.
func (e *StoreEvaluator) EvalPairs(expr string) (PairList, error) {
	expr = strings.TrimSpace(expr)
	if name, ok := varName(expr, '%'); ok {
		h, found := e.hashes[name]
		if !found {
			return PairList{}, nil
		}
		pl := PairList{Pairs: make([]Pair, 0, len(h))}
		for k, v := range h {
			pl.Pairs = append(pl.Pairs, Pair{Key: StringValue(k), Val: valueOf(v)})
		}
		return pl, nil
	}
	if name, ok := varName(expr, '@'); ok {
		items := e.lists[name]
		pl := PairList{Positional: true, Pairs: make([]Pair, 0, len(items))}
		for i, it := range items {
			pl.Pairs = append(pl.Pairs, Pair{Key: NumberValue(float64(i)), Val: valueOf(it)})
		}
		return pl, nil
	}
	if inner, ok := parenInner(expr); ok {
		var pl PairList
		for _, tok := range splitTop(inner) {
			key, val, found := strings.Cut(tok, "=>")
			if !found {
				return PairList{}, fmt.Errorf("pair entry %q is not key => value", strings.TrimSpace(tok))
			}
			key = strings.TrimSpace(key)
			var kv Value
			if isIdent(key) {
				// barewords before => autoquote
				kv = StringValue(key)
			} else {
				var err error
				kv, err = e.evalAtom(key)
				if err != nil {
					return PairList{}, err
				}
			}
			vv, err := e.evalAtom(strings.TrimSpace(val))
			if err != nil {
				return PairList{}, err
			}
			pl.Pairs = append(pl.Pairs, Pair{Key: kv, Val: vv})
		}
		return pl, nil
	}
	vs, err := e.EvalList(expr)
	if err != nil {
		return PairList{}, err
	}
	if len(vs)%2 != 0 {
		return PairList{}, fmt.Errorf("odd number of elements (%d) in pair list: %s", len(vs), expr)
	}
	var pl PairList
	for i := 0; i < len(vs); i += 2 {
		pl.Pairs = append(pl.Pairs, Pair{Key: vs[i], Val: vs[i+1]})
	}
	return pl, nil
}

// EvalRefs evaluates expr as a comma-separated list of references and
// returns the referents themselves, ready for the structured dumper.
func (e *StoreEvaluator) EvalRefs(expr string) ([]interface{}, error) {
	var out []interface{}
	for _, tok := range splitTop(strings.TrimSpace(expr)) {
		tok = strings.TrimSpace(tok)
		if !strings.HasPrefix(tok, "\\") {
			return nil, fmt.Errorf("%q is not a reference expression", tok)
		}
		raw, _, err := e.referent(tok[1:])
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

// referent resolves the target of a \-expression, returning both the raw
// stored value and its container kind.
func (e *StoreEvaluator) referent(target string) (interface{}, string, error) {
	target = strings.TrimSpace(target)
	if name, ok := varName(target, '@'); ok {
		return e.lists[name], "ARRAY", nil
	}
	if name, ok := varName(target, '%'); ok {
		return e.hashes[name], "HASH", nil
	}
	if name, ok := varName(target, '$'); ok {
		return e.scalars[name], "SCALAR", nil
	}
	return nil, "", fmt.Errorf("cannot take a reference to %q", target)
}

// evalAtom evaluates a single term: a literal, a variable, or a reference.
func (e *StoreEvaluator) evalAtom(tok string) (Value, error) {
	tok = strings.TrimSpace(tok)
	switch {
	case tok == "":
		return Undef(), nil
	case tok == "undef":
		return Undef(), nil
	case len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'':
		return StringValue(tok[1 : len(tok)-1]), nil
	case len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"':
		return StringValue(tok[1 : len(tok)-1]), nil
	case tok[0] == '\\':
		raw, kind, err := e.referent(tok[1:])
		if err != nil {
			return Value{}, err
		}
		if b, ok := raw.(Blessed); ok {
			return BlessedValue(b.Class), nil
		}
		return RefValue(kind, reflectAddr(raw)), nil
	}
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return NumberValue(n), nil
	}
	if name, ok := varName(tok, '$'); ok {
		raw, found := e.scalars[name]
		if !found {
			return Undef(), nil
		}
		return valueOf(raw), nil
	}
	if name, ok := varName(tok, '@'); ok {
		// a list in scalar context numifies to its length
		return NumberValue(float64(len(e.lists[name]))), nil
	}
	if name, ok := varName(tok, '%'); ok {
		return NumberValue(float64(len(e.hashes[name]))), nil
	}
	return Value{}, fmt.Errorf("unable to evaluate %q", tok)
}

// evalArithmetic folds operand/operator fields left to right numerically.
func (e *StoreEvaluator) evalArithmetic(fields []string) (Value, error) {
	acc, err := e.atomNumber(fields[0])
	if err != nil {
		return Value{}, err
	}
	for i := 1; i < len(fields); i += 2 {
		op := fields[i]
		if !isOperator(op) {
			return Value{}, fmt.Errorf("unknown operator %q", op)
		}
		rhs, err := e.atomNumber(fields[i+1])
		if err != nil {
			return Value{}, err
		}
		switch op {
		case "+":
			acc += rhs
		case "-":
			acc -= rhs
		case "*":
			acc *= rhs
		case "/":
			if rhs == 0 {
				return Value{}, fmt.Errorf("division by zero in %q", strings.Join(fields, " "))
			}
			acc /= rhs
		}
	}
	return NumberValue(acc), nil
}

func (e *StoreEvaluator) atomNumber(tok string) (float64, error) {
	v, err := e.evalAtom(tok)
	if err != nil {
		return 0, err
	}
	return numberOf(v), nil
}

func isOperator(tok string) bool {
	switch tok {
	case "+", "-", "*", "/":
		return true
	}
	return false
}

// numberOf extracts the numeric face of a value for arithmetic.
func numberOf(v Value) float64 {
	switch v.Kind {
	case KindNumber, KindDual:
		n, _ := strconv.ParseFloat(v.Num, 64)
		return n
	case KindString:
		n, _ := strconv.ParseFloat(numericPrefix(v.Str), 64)
		return n
	}
	return 0
}

// valueOf converts a stored Go value to the tagged scalar form. Values that
// are already tagged (duals in particular) pass through unchanged.
func valueOf(raw interface{}) Value {
	switch x := raw.(type) {
	case Value:
		return x
	case nil:
		return Undef()
	case string:
		return StringValue(x)
	case bool:
		if x {
			return NumberValue(1)
		}
		return NumberValue(0)
	case int:
		return NumberValue(float64(x))
	case int64:
		return NumberValue(float64(x))
	case float64:
		return NumberValue(x)
	case Blessed:
		return BlessedValue(x.Class)
	case *Blessed:
		return BlessedValue(x.Class)
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return RefValue("ARRAY", rv.Pointer())
	case reflect.Map:
		return RefValue("HASH", rv.Pointer())
	case reflect.Func:
		return RefValue("CODE", rv.Pointer())
	case reflect.Ptr:
		return RefValue("SCALAR", rv.Pointer())
	}
	return StringValue(fmt.Sprintf("%v", raw))
}

// reflectAddr derives an implementation-defined address for a referent.
func reflectAddr(raw interface{}) uintptr {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func, reflect.Ptr:
		return rv.Pointer()
	}
	box := &raw
	return reflect.ValueOf(box).Pointer()
}

// varName strips a leading sigil from an identifier-shaped token.
func varName(tok string, sigil byte) (string, bool) {
	if len(tok) < 2 || tok[0] != sigil {
		return "", false
	}
	name := tok[1:]
	if !isIdent(name) {
		return "", false
	}
	return name, true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// parenInner unwraps a parenthesized expression.
func parenInner(expr string) (string, bool) {
	if len(expr) >= 2 && expr[0] == '(' && expr[len(expr)-1] == ')' {
		return expr[1 : len(expr)-1], true
	}
	return "", false
}

// splitTop splits on commas outside quotes and parentheses.
func splitTop(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	last := strings.TrimSpace(s[start:])
	if last != "" || len(parts) > 0 {
		parts = append(parts, last)
	}
	return parts
}
