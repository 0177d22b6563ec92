package interp

import (
	"strings"
	"testing"

	"github.com/lammm/lammm/ast"
	"github.com/lammm/lammm/ilerr"
	"github.com/lammm/lammm/parser"
	"github.com/lammm/lammm/typectx"
	"github.com/lammm/lammm/typer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runSource parses, type-checks and runs src, failing the test on any error
// short of the one under test.
func runSource(t *testing.T, src string) ([]ast.Producer, error) {
	t.Helper()
	ctx := typectx.New(nil)
	p := parser.New(strings.NewReader(src), ctx)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	require.NoError(t, typer.New(ctx, nil).CheckProgram(prog))
	in := New(prog, ast.VarId(p.NVars()), ast.CovarId(p.NCovars()), 10_000, nil)
	return in.Run(prog)
}

func TestRunArith(t *testing.T) {
	// P_arith: (2 - 2) is 0, so ifz picks the zero branch and yields 123.
	results, err := runSource(t, `(- 2 2 (mu' x (ifz x [123 <END>] [x <END>])))`)
	require.NoError(t, err)
	lit, ok := results[0].(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(123), lit.Value)
}

func TestRunIfzNegativeZero(t *testing.T) {
	results, err := runSource(t, `(ifz -0 [1 <END>] [2 <END>])`)
	require.NoError(t, err)
	lit, ok := results[0].(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(1), lit.Value)
}

func TestRunDivisionByZeroTotalizesToOne(t *testing.T) {
	results, err := runSource(t, `(/ 9 0 <END>)`)
	require.NoError(t, err)
	lit, ok := results[0].(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(1), lit.Value, "div-by-zero should totalise to 1")
}

func TestRunModuloByZeroTotalizesToLeftOperand(t *testing.T) {
	results, err := runSource(t, `(% 9 0 <END>)`)
	require.NoError(t, err)
	lit, ok := results[0].(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(9), lit.Value, "mod-by-zero should totalise to the left operand")
}

func TestRunCaseOverConstructor(t *testing.T) {
	results, err := runSource(t, `[(Nil) (case ((Nil [0 <END>]) (Cons (x xs) [x <END>])))]`)
	require.NoError(t, err)
	lit, ok := results[0].(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(0), lit.Value, "the Nil clause should fire")
}

func TestRunCocaseAppliesMatchingDestructor(t *testing.T) {
	// A Lambda value built with cocase, applied through its sole destructor
	// Ap: this exercises the codata half of the case/cocase duality that
	// TestRunCaseOverConstructor and TestRunCaseOverConsPicksMatchingClause
	// do not touch.
	src := `[(cocase ((Ap (x) (ret) (+ x 1 ret)))) (Ap (41) (<END>))]`
	results, err := runSource(t, src)
	require.NoError(t, err)
	lit, ok := results[0].(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(42), lit.Value)
}

func TestRunCaseOverConsPicksMatchingClause(t *testing.T) {
	src := `[(Cons (7 (Nil))) (case ((Nil [0 <END>]) (Cons (x xs) [x <END>])))]`
	results, err := runSource(t, src)
	require.NoError(t, err)
	lit, ok := results[0].(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(7), lit.Value)
}

func TestRunRecursiveDefinitionCountdown(t *testing.T) {
	src := `(def countdown (n) (k) (ifz n [n k] (countdown ((mu a (- n 1 a))) (k)))) (countdown (3) (<END>))`
	results, err := runSource(t, src)
	require.NoError(t, err)
	lit, ok := results[0].(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(0), lit.Value)
}

func TestRunTwiceFailsWithInterpreterReused(t *testing.T) {
	ctx := typectx.New(nil)
	p := parser.New(strings.NewReader(`[0 <END>]`), ctx)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	in := New(prog, ast.VarId(p.NVars()), ast.CovarId(p.NCovars()), 0, nil)
	_, err = in.Run(prog)
	require.NoError(t, err)

	_, err = in.Run(prog)
	require.Error(t, err)
	le, ok := err.(ilerr.LammmError)
	require.True(t, ok)
	assert.Equal(t, ilerr.InterpreterReused, le.Code())
}

func TestRunExceedsMaxStepsIsStuck(t *testing.T) {
	// A definition that calls itself forever with no base case: with a tiny
	// step budget, Run must report a stuck computation rather than hang.
	src := `(def loop () () (loop () ())) (loop () ())`
	ctx := typectx.New(nil)
	p := parser.New(strings.NewReader(src), ctx)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	require.NoError(t, typer.New(ctx, nil).CheckProgram(prog))

	in := New(prog, ast.VarId(p.NVars()), ast.CovarId(p.NCovars()), 5, nil)
	_, err = in.Run(prog)
	require.Error(t, err)
	le, ok := err.(ilerr.LammmError)
	require.True(t, ok)
	assert.Equal(t, ilerr.StuckComputation, le.Code())
}

func TestIsValueMemoizationInvalidatedBySubstitution(t *testing.T) {
	x := &ast.Variable{VarId: 0}
	ctor := &ast.Constructor{Name: "Cons", Args: []ast.Producer{x, &ast.Constructor{Name: "Nil"}}}
	assert.False(t, IsValue(ctor), "a constructor holding an unsubstituted variable is not a value")
	require.NotNil(t, ctor.IsValue)
	assert.False(t, *ctor.IsValue)

	replaced := ReplaceInStatement(
		&ast.Cut{Producer: ctor, Consumer: &ast.End{}},
		varSubst{0: &ast.IntLiteral{Value: 1}},
		nil,
	).(*ast.Cut)
	replacedCtor := replaced.Producer.(*ast.Constructor)
	assert.Nil(t, replacedCtor.IsValue, "substitution must invalidate the cloned Constructor's IsValue cache")
	assert.True(t, IsValue(replacedCtor), "after substituting a value for the variable, the constructor should be a value")
}

func TestReplaceInStatementDoesNotMutateOriginal(t *testing.T) {
	orig := &ast.Cut{
		Producer: &ast.Variable{VarId: 0, Name: "x"},
		Consumer: &ast.End{},
	}
	_ = ReplaceInStatement(orig, varSubst{0: &ast.IntLiteral{Value: 9}}, nil)
	_, stillVar := orig.Producer.(*ast.Variable)
	assert.True(t, stillVar, "ReplaceInStatement must not mutate its input in place")
}
