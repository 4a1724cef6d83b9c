// Command peek is a source preprocessor: it rewrites debug comment
// directives (#${...}, #@{...}, #%{...} and friends) into print statements,
// or runs them interactively against an in-memory variable store.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/mstern/peek"
)

func main() {
	var (
		configPath  = flag.String("c", "", "YAML configuration file")
		outputPath  = flag.String("o", "", "output file (default standard output)")
		trace       = flag.Bool("t", false, "echo the fully rewritten source to the trace stream")
		disabled    = flag.Bool("n", false, "disable rewriting; text passes through untouched")
		debug       = flag.Bool("d", false, "enable debug logging")
		interactive = flag.Bool("i", false, "start an interactive session")
	)
	flag.Parse()

	cfg := peek.DefaultConfig()
	cfg.Debug = *debug
	cfg.Disabled = *disabled
	cfg.Trace = *trace

	if *configPath != "" {
		fc, err := peek.LoadConfigFile(*configPath)
		if err != nil {
			fatal(err)
		}
		fc.Apply(cfg)
		sink, closeSink, err := resolveSink(fc.Sink)
		if err != nil {
			fatal(err)
		}
		if closeSink != nil {
			defer closeSink()
		}
		cfg.Sink = sink
	}

	p := peek.New(cfg)

	if *interactive {
		if err := runInteractive(p); err != nil {
			fatal(err)
		}
		return
	}

	out := io.Writer(os.Stdout)
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		out = f
	}

	if flag.NArg() == 0 {
		if err := p.RewriteReader(os.Stdin, out); err != nil {
			fatal(err)
		}
		return
	}
	for _, path := range flag.Args() {
		f, err := os.Open(path)
		if err != nil {
			fatal(err)
		}
		err = p.RewriteReader(f, out)
		f.Close()
		if err != nil {
			fatal(err)
		}
	}
}

// resolveSink maps a config sink name to a writer. The returned closer is
// non-nil when a file was opened.
func resolveSink(name string) (io.Writer, func(), error) {
	switch name {
	case "", "stderr":
		return nil, nil, nil // keep the process default
	case "stdout":
		return os.Stdout, nil, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// runInteractive reads lines with liner: directive lines are matched and
// executed immediately, "let" statements bind variables in the store.
func runInteractive(p *peek.Peek) error {
	ev := peek.NewStoreEvaluator()
	p.SetEvaluator(ev)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("peek session: directives run immediately; 'let $x = 42' binds; 'quit' exits")
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	lineNum := 0
	for {
		input, err := ln.Prompt("peek> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		ln.AppendHistory(input)
		lineNum++

		switch {
		case input == "quit" || input == "exit":
			return nil
		case strings.HasPrefix(input, "let "):
			if err := bind(ev, strings.TrimPrefix(input, "let ")); err != nil {
				fmt.Fprintln(os.Stderr, "let:", err)
			}
			continue
		}

		handled, err := p.Execute(input, lineNum)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		if !handled {
			fmt.Fprintln(os.Stderr, "not a directive (try #${ $x } or 'let')")
		}
	}
}

// bind handles "let <var> = <value>" for scalars, lists, and hashes.
func bind(ev *peek.StoreEvaluator, stmt string) error {
	name, rhs, ok := strings.Cut(stmt, "=")
	if !ok {
		return fmt.Errorf("expected <var> = <value>")
	}
	name = strings.TrimSpace(name)
	rhs = strings.TrimSpace(rhs)
	if len(name) < 2 {
		return fmt.Errorf("bad variable %q", name)
	}

	switch name[0] {
	case '$':
		ev.SetScalar(name[1:], scalarLiteral(rhs))
		return nil
	case '@':
		items, err := listLiteral(rhs)
		if err != nil {
			return err
		}
		ev.SetList(name[1:], items...)
		return nil
	case '%':
		m, err := hashLiteral(rhs)
		if err != nil {
			return err
		}
		ev.SetHash(name[1:], m)
		return nil
	}
	return fmt.Errorf("variable %q must start with $, @ or %%", name)
}

func scalarLiteral(s string) interface{} {
	if s == "undef" {
		return nil
	}
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}

func listLiteral(s string) ([]interface{}, error) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("list value must be parenthesized: %q", s)
	}
	var items []interface{}
	for _, tok := range splitCommas(s[1 : len(s)-1]) {
		items = append(items, scalarLiteral(tok))
	}
	return items, nil
}

func hashLiteral(s string) (map[string]interface{}, error) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("hash value must be parenthesized: %q", s)
	}
	m := make(map[string]interface{})
	for _, tok := range splitCommas(s[1 : len(s)-1]) {
		key, val, ok := strings.Cut(tok, "=>")
		if !ok {
			return nil, fmt.Errorf("hash entry %q is not key => value", tok)
		}
		k := scalarLiteral(strings.TrimSpace(key))
		m[fmt.Sprintf("%v", k)] = scalarLiteral(strings.TrimSpace(val))
	}
	return m, nil
}

// splitCommas splits on commas outside quotes.
func splitCommas(s string) []string {
	var parts []string
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
		case c == ',':
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		parts = append(parts, last)
	}
	return parts
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "peek:", err)
	os.Exit(1)
}
