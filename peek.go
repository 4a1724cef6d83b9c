// Package peek rewrites specially formatted comment lines into statements
// that print the value of an embedded expression, tagged with a line number
// or user label. A directive line looks like
//
//	#${ $total }
//	#@{ names: @names }
//	#%{ %config }
//
// and is rewritten (or, in direct-execution mode, run on the spot) into a
// print of the evaluated expression. Left unprocessed, directive lines are
// ordinary comments with no effect.
//
// Basic usage:
//
//	p := peek.New(&peek.Config{Trace: true})
//	rewritten := p.Rewrite(source)
//
// or, executing directives immediately against an evaluation backend:
//
//	p := peek.New(nil)
//	p.Execute("#${ $total }", 13)
package peek

import (
	"io"
	"strings"
)

// Peek is an engine instance: matcher, generator and filter wired to one
// configuration.
type Peek struct {
	config *Config
	logger *Logger
	gen    *Generator
	filter *Filter
	eval   Evaluator
}

// New creates an engine. A nil config means defaults: enabled, no trace,
// output to the process default sink (standard error), spew-backed dumper,
// and an empty StoreEvaluator as the evaluation backend.
func New(config *Config) *Peek {
	if config == nil {
		config = DefaultConfig()
	}

	logger := NewLogger(config.Debug)
	gen := NewGenerator(logger)
	gen.SetDumper(config.Dumper)

	return &Peek{
		config: config,
		logger: logger,
		gen:    gen,
		filter: NewFilter(config, logger),
		eval:   NewStoreEvaluator(),
	}
}

// SetEvaluator installs the evaluation backend used by Execute.
func (p *Peek) SetEvaluator(ev Evaluator) {
	if ev != nil {
		p.eval = ev
	}
}

// Evaluator returns the current evaluation backend.
func (p *Peek) Evaluator() Evaluator {
	return p.eval
}

// Rewrite runs the source filter over source text and returns the result.
func (p *Peek) Rewrite(source string) string {
	return p.filter.Rewrite(source)
}

// RewriteReader rewrites everything from r onto w.
func (p *Peek) RewriteReader(r io.Reader, w io.Writer) error {
	return p.filter.RewriteReader(r, w)
}

// Execute matches one line and, if it is a directive, evaluates and prints
// it immediately: the direct-execution form of the rewrite. It reports
// whether the line was a directive. Evaluation failures propagate to the
// caller exactly as the backend raised them.
func (p *Peek) Execute(line string, lineNum int) (bool, error) {
	if p.config.Disabled {
		return false, nil
	}
	d, ok := MatchLine(line, lineNum)
	if !ok {
		return false, nil
	}
	act, err := p.gen.Action(d)
	if err != nil {
		return true, err
	}
	return true, act.Run(p.eval, p.sink())
}

// ExecuteSource runs every directive in source, in order, against the
// configured evaluator. Non-directive lines are ignored.
func (p *Peek) ExecuteSource(source string) error {
	for i, line := range strings.Split(source, "\n") {
		if _, err := p.Execute(line, i+1); err != nil {
			return err
		}
	}
	return nil
}

func (p *Peek) sink() io.Writer {
	if p.config.Sink != nil {
		return p.config.Sink
	}
	return DefaultSink()
}
