package peek

import (
	"fmt"
	"io"
	"strings"
)

// Filter walks source text line by line and rewrites every directive line
// into its generated statement.
type Filter struct {
	config *Config
	logger *Logger
	gen    *Generator
}

// NewFilter creates a filter over the given configuration.
func NewFilter(config *Config, logger *Logger) *Filter {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = NewLogger(config.Debug)
	}
	gen := NewGenerator(logger)
	gen.SetDumper(config.Dumper)
	return &Filter{config: config, logger: logger, gen: gen}
}

// Rewrite transforms source text. Every matched directive is replaced by
// exactly one statement, so the line numbers of the surrounding text are
// unchanged. With Disabled set the input is returned byte-identical and
// directive lines stay ordinary comments. With Trace set the fully
// rewritten text is echoed to the trace writer.
func (f *Filter) Rewrite(source string) string {
	if f.config.Disabled {
		return source
	}

	lines := strings.Split(source, "\n")
	rewritten := 0
	for i, line := range lines {
		d, ok := MatchLine(line, i+1)
		if !ok {
			continue
		}
		out, err := f.gen.SourceLine(d)
		if err != nil {
			// unreachable through MatchLine; report and pass through
			f.logger.RewriteError(err.Error(), i+1, line)
			continue
		}
		f.logger.Debug("line %d: %c-directive rewritten", i+1, d.Sigil)
		lines[i] = out
		rewritten++
	}

	result := strings.Join(lines, "\n")
	if f.config.Trace && rewritten > 0 {
		fmt.Fprintln(f.traceWriter(), result)
	}
	return result
}

// RewriteReader rewrites everything from r onto w.
func (f *Filter) RewriteReader(r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, f.Rewrite(string(data)))
	return err
}

func (f *Filter) traceWriter() io.Writer {
	if f.config.TraceWriter != nil {
		return f.config.TraceWriter
	}
	return DefaultTraceWriter()
}
