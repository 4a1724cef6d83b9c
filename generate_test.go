package peek

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustMatch(t *testing.T, line string, n int) Directive {
	t.Helper()
	d, ok := MatchLine(line, n)
	if !ok {
		t.Fatalf("%q: expected a directive", line)
	}
	return d
}

// runDirective matches a line, builds its action and runs it against ev,
// returning the captured output.
func runDirective(t *testing.T, ev Evaluator, line string, n int) string {
	t.Helper()
	g := NewGenerator(nil)
	act, err := g.Action(mustMatch(t, line, n))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, act.Run(ev, &buf))
	return buf.String()
}

func TestSourceLinePerSigil(t *testing.T) {
	g := NewGenerator(nil)
	cases := []struct {
		line string
		want string
	}{
		{"#${$s}", "peek::scalar(q{line 13:}, q{$s}, $s);"},
		{`#"{$s}`, "peek::str(q{line 13:}, q{$s}, $s);"},
		{"##{$s}", "peek::num(q{line 13:}, q{$s}, $s);"},
		{"#@{@a}", "peek::list(q{line 13:}, q{@a}, @a);"},
		{"#%{%h}", "peek::pairs(q{line 13:}, q{%h}, %h);"},
		{`#\{\@a}`, `peek::refs(q{line 13:}, q{\@a}, \@a);`},
		{"#${lbl: $s}", "peek::scalar(q{lbl:}, q{$s}, $s);"},
		{"#${label_only:}", "peek::label(q{label_only:});"},
	}
	for _, tc := range cases {
		got, err := g.SourceLine(mustMatch(t, tc.line, 13))
		require.NoError(t, err, tc.line)
		require.Equal(t, tc.want, got, tc.line)
		require.NotContains(t, got, "\n", "replacement must stay on one line")
	}
}

func TestGenerateRejectsForeignSigil(t *testing.T) {
	g := NewGenerator(nil)

	_, err := g.SourceLine(Directive{Sigil: '!', Expr: "$x", Line: 1})
	require.ErrorIs(t, err, ErrBadSigil)

	_, err = g.Action(Directive{Sigil: '!', Expr: "$x", Line: 1})
	require.ErrorIs(t, err, ErrBadSigil)
}

func TestRunScalar(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetScalar("s", "a scalar")

	out := runDirective(t, ev, "#${$s}", 13)
	require.Equal(t, "line 13: $s = 'a scalar';\n", out)
}

func TestRunList(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetList("a", "this", "is", "an", "array")

	out := runDirective(t, ev, "#@{@a}", 2)
	require.Equal(t, "line 2: @a = ('this', 'is', 'an', 'array');\n", out)
}

func TestRunPairsSorted(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetHash("h", map[string]interface{}{
		"key1":  "value1",
		"key2":  "value2",
		"":      "empty",
		"undef": nil,
	})

	out := runDirective(t, ev, "#%{ %h }", 3)
	want := "line 3: %h = ('' => 'empty', 'key1' => 'value1', 'key2' => 'value2', 'undef' => undef);\n"
	require.Equal(t, want, out)
}

func TestRunPairsFromArrayArePositional(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetList("a", "x", "y")

	out := runDirective(t, ev, "#%{ @a }", 4)
	require.Equal(t, "line 4: @a = (0 => 'x', 1 => 'y');\n", out)
}

func TestRunLabeledArithmetic(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetList("a", 1, 2, 3, 4)

	out := runDirective(t, ev, "#${ calc: @a * 2 }", 7)
	require.Equal(t, "calc: @a * 2 = 8;\n", out)
}

func TestRunLabelOnly(t *testing.T) {
	ev := NewStoreEvaluator()

	out := runDirective(t, ev, "#${label_only:}", 9)
	require.Equal(t, "label_only:\n", out)
}

func TestRunDualValue(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetDual("v", " 42 ", 42)

	require.Equal(t, "line 1: $v = ' 42 ' : 42;\n", runDirective(t, ev, "#${$v}", 1))
	require.Equal(t, "line 1: $v = ' 42 ';\n", runDirective(t, ev, `#"{$v}`, 1))
	require.Equal(t, "line 1: $v = 42;\n", runDirective(t, ev, "##{$v}", 1))
}

func TestRunUndefinedScalar(t *testing.T) {
	ev := NewStoreEvaluator()

	out := runDirective(t, ev, "#${$missing}", 5)
	require.Equal(t, "line 5: $missing = undef;\n", out)
}

func TestRunBlessedReference(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetScalar("obj", Blessed{Class: "My::Widget", Value: map[string]interface{}{"id": 7}})

	out := runDirective(t, ev, "#${$obj}", 6)
	require.Equal(t, "line 6: $obj = blessed(My::Widget);\n", out)
}

func TestRunReferenceDump(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetList("a", "one", "two")
	ev.SetHash("h", map[string]interface{}{"k": "v"})

	out := runDirective(t, ev, `#\{ \@a, \%h }`, 8)
	lines := strings.Split(out, "\n")
	require.Equal(t, `line 8: \@a, \%h =`, lines[0])
	require.Contains(t, out, "0 (")
	require.Contains(t, out, "1 (")
	require.Contains(t, out, "one")
	require.Contains(t, out, `"k"`)
}

func TestRunPropagatesEvaluationFailure(t *testing.T) {
	ev := NewStoreEvaluator()
	g := NewGenerator(nil)

	act, err := g.Action(mustMatch(t, "#${ !!! }", 1))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = act.Run(ev, &buf)
	require.Error(t, err)
	require.Zero(t, buf.Len(), "no partial output on evaluation failure")
}

func TestRunPropagatesOddPairFailure(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetScalar("s", "lonely")
	g := NewGenerator(nil)

	act, err := g.Action(mustMatch(t, "#%{ $s }", 1))
	require.NoError(t, err)

	err = act.Run(ev, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "odd number of elements")
}
