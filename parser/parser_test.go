package parser_test

import (
	"strings"
	"testing"

	"github.com/lammm/lammm/ast"
	"github.com/lammm/lammm/ilerr"
	"github.com/lammm/lammm/parser"
	"github.com/lammm/lammm/typectx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser(src string) *parser.Parser {
	return parser.New(strings.NewReader(src), typectx.New(nil))
}

func TestParseProducerIntLiteral(t *testing.T) {
	p := newParser("42")
	prod, err := p.ParseProducer()
	require.NoError(t, err)
	lit, ok := prod.(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(42), lit.Value)
}

func TestParseProducerNegativeIntLiteral(t *testing.T) {
	p := newParser("-7")
	prod, err := p.ParseProducer()
	require.NoError(t, err)
	lit, ok := prod.(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(-7), lit.Value)
}

func TestParseProducerUnboundVariableFails(t *testing.T) {
	p := newParser("x")
	_, err := p.ParseProducer()
	require.Error(t, err)
	le, ok := err.(ilerr.LammmError)
	require.True(t, ok)
	assert.Equal(t, ilerr.UnknownName, le.Code())
}

func TestParseConsumerEnd(t *testing.T) {
	p := newParser("<END>")
	cons, err := p.ParseConsumer()
	require.NoError(t, err)
	assert.IsType(t, &ast.End{}, cons)
}

func TestParseConstructorNil(t *testing.T) {
	p := newParser("(Nil)")
	prod, err := p.ParseProducer()
	require.NoError(t, err)
	ctor, ok := prod.(*ast.Constructor)
	require.True(t, ok)
	assert.Equal(t, "Nil", ctor.Name)
	assert.Empty(t, ctor.Args)
}

func TestParseProgramArith(t *testing.T) {
	// P_arith from the scenario catalogue.
	src := `(- 2 2 (mu' x (ifz x [123 <END>] [x <END>])))`
	p := newParser(src)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	arith, ok := prog.Statements[0].(*ast.Arithmetic)
	require.True(t, ok)
	assert.Equal(t, ast.OpSub, arith.Op)
}

func TestParseProgramIfzNeg(t *testing.T) {
	src := `(ifz -0 [1 <END>] [2 <END>])`
	p := newParser(src)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	assert.IsType(t, &ast.Ifz{}, prog.Statements[0])
}

func TestParseProgramCompleteCaseOverList(t *testing.T) {
	src := `[(Nil) (case ((Nil [0 <END>]) (Cons (x xs) [x <END>])))]`
	p := newParser(src)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	cut, ok := prog.Statements[0].(*ast.Cut)
	require.True(t, ok)
	cs, ok := cut.Consumer.(*ast.Case)
	require.True(t, ok)
	assert.Len(t, cs.Clauses, 2)
}

func TestParseProgramIncompleteCaseFails(t *testing.T) {
	src := `[(Nil) (case ((Nil [0 <END>])))]`
	p := newParser(src)
	_, err := p.ParseProgram()
	require.Error(t, err)
	le, ok := err.(ilerr.LammmError)
	require.True(t, ok)
	assert.Equal(t, ilerr.ClauseList, le.Code())
}

func TestParseProgramDuplicateDefinitionFails(t *testing.T) {
	src := `(def f () () [0 <END>]) (def f () () [1 <END>])`
	p := newParser(src)
	_, err := p.ParseProgram()
	require.Error(t, err)
	le, ok := err.(ilerr.LammmError)
	require.True(t, ok)
	assert.Equal(t, ilerr.DuplicateDefinition, le.Code())
}

func TestParseProgramReservedNameFails(t *testing.T) {
	src := `(def ifz () () [0 <END>])`
	p := newParser(src)
	_, err := p.ParseProgram()
	require.Error(t, err)
	le, ok := err.(ilerr.LammmError)
	require.True(t, ok)
	assert.Equal(t, ilerr.ReservedName, le.Code())
}

func TestParseProgramUnknownCallFails(t *testing.T) {
	src := `(g (0) ())`
	p := newParser(src)
	_, err := p.ParseProgram()
	require.Error(t, err)
	le, ok := err.(ilerr.LammmError)
	require.True(t, ok)
	assert.Equal(t, ilerr.UnknownName, le.Code())
}

func TestParseProgramCallArityMismatchFails(t *testing.T) {
	src := `(def f (a) () [a <END>]) (f () ())`
	p := newParser(src)
	_, err := p.ParseProgram()
	require.Error(t, err)
	le, ok := err.(ilerr.LammmError)
	require.True(t, ok)
	assert.Equal(t, ilerr.ArityMismatch, le.Code())
}

func TestParseProgramCallArityMatches(t *testing.T) {
	src := `(def f (a) () [a <END>]) (f (7) ())`
	p := newParser(src)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	call, ok := prog.Statements[0].(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "f", call.Name)
	assert.Len(t, call.Args, 1)
}

func TestNVarsNCovarsCountAllocations(t *testing.T) {
	p := newParser(`(def f (a b) (k) [a k])`)
	_, err := p.ParseProgram()
	require.NoError(t, err)
	assert.Equal(t, 2, p.NVars())
	assert.Equal(t, 1, p.NCovars())
}
