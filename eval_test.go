package peek

import (
	"strings"
	"testing"
)

func TestEvalScalarLiterals(t *testing.T) {
	ev := NewStoreEvaluator()

	cases := []struct {
		expr string
		want string
	}{
		{"'hello'", "'hello'"},
		{"42", "42"},
		{"1.25", "1.25"},
		{"undef", "undef"},
	}
	for _, tc := range cases {
		v, err := ev.EvalScalar(tc.expr)
		if err != nil {
			t.Fatalf("%q: %v", tc.expr, err)
		}
		if got := formatScalar(v, CtxScalar); got != tc.want {
			t.Errorf("%q: got %s, want %s", tc.expr, got, tc.want)
		}
	}
}

func TestEvalScalarVariableLookup(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetScalar("name", "paws")

	v, err := ev.EvalScalar("$name")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindString || v.Str != "paws" {
		t.Errorf("got %+v", v)
	}
}

func TestEvalScalarMissingVariableIsUndef(t *testing.T) {
	ev := NewStoreEvaluator()

	v, err := ev.EvalScalar("$nope")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindUndef {
		t.Errorf("got %+v", v)
	}
}

func TestEvalListNumifiesToLength(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetList("a", 1, 2, 3)

	v, err := ev.EvalScalar("@a")
	if err != nil {
		t.Fatal(err)
	}
	if v.Num != "3" {
		t.Errorf("got %+v", v)
	}
}

func TestEvalArithmeticFoldsLeftToRight(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetScalar("x", 10)

	v, err := ev.EvalScalar("$x + 2 * 3")
	if err != nil {
		t.Fatal(err)
	}
	// left-to-right fold, no precedence: (10 + 2) * 3
	if v.Num != "36" {
		t.Errorf("got %+v", v)
	}
}

func TestEvalDivisionByZeroFails(t *testing.T) {
	ev := NewStoreEvaluator()

	_, err := ev.EvalScalar("1 / 0")
	if err == nil || !strings.Contains(err.Error(), "division by zero") {
		t.Errorf("got %v", err)
	}
}

func TestEvalListForms(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetList("a", "x", 2)

	vs, err := ev.EvalList("@a")
	if err != nil {
		t.Fatal(err)
	}
	if formatList(vs) != "('x', 2)" {
		t.Errorf("got %s", formatList(vs))
	}

	vs, err = ev.EvalList("('a', 'b', 3)")
	if err != nil {
		t.Fatal(err)
	}
	if formatList(vs) != "('a', 'b', 3)" {
		t.Errorf("got %s", formatList(vs))
	}
}

func TestEvalPairsLiteral(t *testing.T) {
	ev := NewStoreEvaluator()

	pl, err := ev.EvalPairs("(b => 2, a => 1)")
	if err != nil {
		t.Fatal(err)
	}
	if len(pl.Pairs) != 2 {
		t.Fatalf("got %d pairs", len(pl.Pairs))
	}
}

func TestEvalPairsBadEntryFails(t *testing.T) {
	ev := NewStoreEvaluator()

	if _, err := ev.EvalPairs("('solo')"); err == nil {
		t.Error("expected an error for a pair entry without =>")
	}
}

func TestEvalRefsRequireReferences(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetList("a", 1)

	if _, err := ev.EvalRefs("@a"); err == nil {
		t.Error("expected an error for a bare list in reference context")
	}

	refs, err := ev.EvalRefs(`\@a`)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 {
		t.Fatalf("got %d referents", len(refs))
	}
}

func TestEvalRefValueTag(t *testing.T) {
	ev := NewStoreEvaluator()
	ev.SetList("a", 1, 2)

	v, err := ev.EvalScalar(`\@a`)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindRef || !strings.HasPrefix(v.Ref, "ARRAY(0x") {
		t.Errorf("got %+v", v)
	}
}
