package main

import (
	"strings"
	"testing"

	"github.com/lammm/lammm/ast"
	"github.com/lammm/lammm/ilerr"
	"github.com/lammm/lammm/interp"
	"github.com/lammm/lammm/parser"
	"github.com/lammm/lammm/printer"
	"github.com/lammm/lammm/typectx"
	"github.com/lammm/lammm/typer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeline runs the full parse -> type-check -> interpret -> print pipeline
// against src, mirroring what cmd.RunCmd does for a source file.
func pipeline(src string) ([]string, error) {
	ctx := typectx.New(nil)
	p := parser.New(strings.NewReader(src), ctx)
	prog, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}
	if err := typer.New(ctx, nil).CheckProgram(prog); err != nil {
		return nil, err
	}
	in := interp.New(prog, ast.VarId(p.NVars()), ast.CovarId(p.NCovars()), 100_000, nil)
	results, err := in.Run(prog)
	if err != nil {
		return nil, err
	}
	out := printer.New(true)
	rendered := make([]string, len(results))
	for i, v := range results {
		rendered[i] = out.Producer(v)
	}
	return rendered, nil
}

// TestScenarioArith is P_arith from the scenario catalogue.
func TestScenarioArith(t *testing.T) {
	rendered, err := pipeline(`(- 2 2 (mu' x (ifz x [123 <END>] [x <END>])))`)
	require.NoError(t, err)
	assert.Equal(t, "123", rendered[0])
}

// TestScenarioListMap is grounded on the same shape as P_list_sum (a
// recursive definition rebuilding a Cons list through focusing), simplified
// to increment-by-one so the expected output is easy to verify by hand.
func TestScenarioListMap(t *testing.T) {
	src := `(def incList (l) (k) [l (case ((Nil [(Nil) k]) (Cons (x xs) [(Cons ((mu a (+ x 1 a)) (mu r (incList (xs) (r))))) k])))])
(incList ((Cons (1 (Cons (2 (Nil)))))) (<END>))`
	rendered, err := pipeline(src)
	require.NoError(t, err)
	assert.Equal(t, "(Cons (2 (Cons (3 (Nil)))))", rendered[0])
}

// TestScenarioListSum is P_list_sum: ListMap rebuilds a list by applying a
// Lambda (built with cocase, invoked through its Ap destructor) to each
// element, and PairSum reduces each Pair element via case. This is the
// scenario that exercises both halves of the case/cocase duality together.
func TestScenarioListSum(t *testing.T) {
	src := `(def ListMap (f l) (k) [l (case ((Nil [(Nil) k]) (Cons (x xs) [(Cons ((mu ret [f (Ap (x) (ret))]) (mu r (ListMap (f xs) (r))))) k])))])
(def PairSum (p) (k) [p (case ((Pair (a b) (+ a b k))))])
(ListMap ((cocase ((Ap (p) (then) (PairSum (p) (then)))))
          (Cons ((Pair (1 2)) (Cons ((Pair (3 4)) (Nil))))))
         (<END>))`
	rendered, err := pipeline(src)
	require.NoError(t, err)
	assert.Equal(t, "(Cons (3 (Cons (7 (Nil)))))", rendered[0])
}

// TestScenarioPolyListBad is P_polylist_bad: a list whose elements disagree
// on type must fail type checking, never run.
func TestScenarioPolyListBad(t *testing.T) {
	_, err := pipeline(`[(Cons (1 (Cons ((Nil) (Nil))))) <END>]`)
	assert.Error(t, err, "expected a type error for mismatched list element types")
}

// TestScenarioPolyRecBad is P_polyrec_bad: a definition recursing on itself
// at an incompatible type must be rejected, not silently generalised.
func TestScenarioPolyRecBad(t *testing.T) {
	_, err := pipeline(`(def PolyRec (x) () (PolyRec ((Pair (x x))) ()))`)
	assert.Error(t, err, "expected a type error rejecting polymorphic recursion")
}

// TestScenarioIfzNeg is P_ifz_neg: negative zero equals zero.
func TestScenarioIfzNeg(t *testing.T) {
	rendered, err := pipeline(`(ifz -0 [1 <END>] [2 <END>])`)
	require.NoError(t, err)
	assert.Equal(t, "1", rendered[0])
}

// TestScenarioStuck constructs a well-formed AST by hand (bypassing the
// parser, which would otherwise reject an unbound variable) where a Cut
// reaches a bare Variable: the interpreter must report this as a stuck
// computation rather than panic or loop.
func TestScenarioStuck(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.Cut{Producer: &ast.Variable{VarId: 0, Name: "x"}, Consumer: &ast.End{}},
		},
	}
	in := interp.New(prog, 1, 0, 1000, nil)
	_, err := in.Run(prog)
	require.Error(t, err)
	le, ok := err.(ilerr.LammmError)
	require.True(t, ok)
	assert.Equal(t, ilerr.StuckComputation, le.Code())
}
