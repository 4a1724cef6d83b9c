package peek

import (
	"errors"
	"fmt"
	"io"
)

// ErrBadSigil reports a directive whose sigil is outside the legal set.
// MatchLine can never produce one; seeing this error means a Directive was
// constructed by hand and the caller has a defect.
var ErrBadSigil = errors.New("peek: directive sigil outside the legal set")

// Generator turns matched directives into replacement statements (rewrite
// mode) or directly executable actions.
type Generator struct {
	logger *Logger
	dumper Dumper
}

// NewGenerator creates a generator with the default reference dumper.
func NewGenerator(logger *Logger) *Generator {
	if logger == nil {
		logger = NewLogger(false)
	}
	return &Generator{logger: logger, dumper: NewSpewDumper()}
}

// SetDumper replaces the reference dumper used by the \ sigil.
func (g *Generator) SetDumper(d Dumper) {
	if d != nil {
		g.dumper = d
	}
}

// shimName is the runtime shim function invoked by generated statements for
// each evaluation context.
func shimName(ctx EvalContext) string {
	switch ctx {
	case CtxScalar:
		return "scalar"
	case CtxScalarString:
		return "str"
	case CtxScalarNumeric:
		return "num"
	case CtxList:
		return "list"
	case CtxPairList:
		return "pairs"
	case CtxReferenceList:
		return "refs"
	}
	return ""
}

// SourceLine returns the single-line statement that replaces a matched
// directive in rewrite mode. The statement calls the peek:: runtime shim
// with the label, the literal expression text, and the expression itself so
// that it is evaluated in place, under the sigil's context, when control
// reaches the line. Evaluation failures are the host's to report; the
// generated code adds no handling of its own.
func (g *Generator) SourceLine(d Directive) (string, error) {
	ctx, ok := d.Sigil.Context()
	if !ok {
		return "", ErrBadSigil
	}
	label := d.DisplayLabel()
	if d.Expr == "" {
		return fmt.Sprintf("peek::label(q{%s});", label), nil
	}
	return fmt.Sprintf("peek::%s(q{%s}, q{%s}, %s);", shimName(ctx), label, d.Expr, d.Expr), nil
}

// Action is the direct-execution form of a directive: the same semantics as
// the generated statement, packaged as a step to invoke inline.
type Action struct {
	Directive Directive
	ctx       EvalContext
	dumper    Dumper
}

// Action builds the executable form of a matched directive.
func (g *Generator) Action(d Directive) (*Action, error) {
	ctx, ok := d.Sigil.Context()
	if !ok {
		return nil, ErrBadSigil
	}
	return &Action{Directive: d, ctx: ctx, dumper: g.dumper}, nil
}

// Run evaluates the directive's expression against ev and writes one
// formatted line to sink (plus per-referent dumps for the reference-list
// context). Evaluation errors propagate untouched.
func (a *Action) Run(ev Evaluator, sink io.Writer) error {
	label := a.Directive.DisplayLabel()
	expr := a.Directive.Expr

	if expr == "" {
		_, err := fmt.Fprintln(sink, label)
		return err
	}

	switch a.ctx {
	case CtxScalar, CtxScalarString, CtxScalarNumeric:
		v, err := ev.EvalScalar(expr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(sink, "%s %s = %s;\n", label, expr, formatScalar(v, a.ctx))
		return err

	case CtxList:
		vs, err := ev.EvalList(expr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(sink, "%s %s = %s;\n", label, expr, formatList(vs))
		return err

	case CtxPairList:
		pl, err := ev.EvalPairs(expr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(sink, "%s %s = %s;\n", label, expr, formatPairs(pl))
		return err

	case CtxReferenceList:
		refs, err := ev.EvalRefs(expr)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(sink, "%s %s =\n", label, expr); err != nil {
			return err
		}
		for i, r := range refs {
			if err := a.dumper.Dump(sink, i, r); err != nil {
				return err
			}
		}
		return nil
	}
	return ErrBadSigil
}
