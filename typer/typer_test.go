package typer_test

import (
	"strings"
	"testing"

	"github.com/lammm/lammm/ilerr"
	"github.com/lammm/lammm/parser"
	"github.com/lammm/lammm/typectx"
	"github.com/lammm/lammm/typer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkSource(t *testing.T, src string) error {
	t.Helper()
	ctx := typectx.New(nil)
	p := parser.New(strings.NewReader(src), ctx)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	return typer.New(ctx, nil).CheckProgram(prog)
}

func TestCheckProgramArithAccepted(t *testing.T) {
	// P_arith
	assert.NoError(t, checkSource(t, `(- 2 2 (mu' x (ifz x [123 <END>] [x <END>])))`))
}

func TestCheckProgramIfzNegAccepted(t *testing.T) {
	assert.NoError(t, checkSource(t, `(ifz -0 [1 <END>] [2 <END>])`))
}

func TestCheckProgramListMismatchRejected(t *testing.T) {
	// P_polylist_bad: Cons's first element is Integer, second element is
	// itself a List _ (from Nil) -- Integer and List _ cannot unify.
	err := checkSource(t, `[(Cons (1 (Cons ((Nil) (Nil))))) <END>]`)
	require.Error(t, err)
	le, ok := err.(ilerr.MultiTypeError)
	require.True(t, ok)
	assert.True(t, le.HasErrors())
}

func TestCheckProgramPolymorphicRecursionRejected(t *testing.T) {
	// P_polyrec_bad: PolyRec calls itself at (Pair x x), which would require
	// PolyRec's parameter type to unify with "Pair itself", an infinite type.
	assert.Error(t, checkSource(t, `(def PolyRec (x) () (PolyRec ((Pair (x x))) ()))`))
}

func TestCheckProgramWellTypedCallAccepted(t *testing.T) {
	src := `(def id (a) (k) [a k]) (id (5) (<END>))`
	assert.NoError(t, checkSource(t, src))
}

func TestCheckProgramRecursiveDefinitionAccepted(t *testing.T) {
	// A recursive definition called at a single, consistent type should be
	// accepted: this is ordinary (non-polymorphic) recursion, not the
	// polymorphic-recursion case P_polyrec_bad rejects.
	src := `(def countdown (n) (k) (ifz n [0 k] (countdown (n) (k))))`
	assert.NoError(t, checkSource(t, src))
}

func TestCheckProgramCaseOverListAccepted(t *testing.T) {
	src := `[(Nil) (case ((Nil [0 <END>]) (Cons (x xs) [x <END>])))]`
	assert.NoError(t, checkSource(t, src))
}

func TestCheckProgramCocaseOverLambdaAccepted(t *testing.T) {
	// The codata dual of TestCheckProgramCaseOverListAccepted: a cocase
	// builds a Lambda value, applied through its sole destructor Ap.
	src := `[(cocase ((Ap (x) (ret) (+ x 1 ret)))) (Ap (41) (<END>))]`
	assert.NoError(t, checkSource(t, src))
}
