package printer

import (
	"strings"
	"testing"

	"github.com/lammm/lammm/ast"
	"github.com/stretchr/testify/assert"
)

func TestProducerRendersIntLiteral(t *testing.T) {
	pr := New(true)
	assert.Equal(t, "42", pr.Producer(&ast.IntLiteral{Value: 42}))
}

func TestProducerRendersConstructorWithArgs(t *testing.T) {
	pr := New(true)
	ctor := &ast.Constructor{
		Name: "Cons",
		Args: []ast.Producer{&ast.IntLiteral{Value: 1}, &ast.Constructor{Name: "Nil"}},
	}
	assert.Equal(t, "(Cons (1 (Nil)))", pr.Producer(ctor))
}

func TestMuSpellingAsciiVsUnicode(t *testing.T) {
	mu := &ast.Mu{CoargName: "a", Body: &ast.Cut{Producer: &ast.IntLiteral{Value: 1}, Consumer: &ast.Covariable{Name: "a"}}}

	ascii := New(true).Producer(mu)
	assert.True(t, strings.HasPrefix(ascii, "(mu "), "ascii rendering = %q", ascii)

	unicode := New(false).Producer(mu)
	assert.True(t, strings.HasPrefix(unicode, "(μ "), "unicode rendering = %q", unicode)
}

func TestClausesRenderInCanonicalOrder(t *testing.T) {
	pr := New(true)
	clauses := []*ast.Clause{
		{StructorName: "Cons", ArgNames: []string{"x", "xs"}, Body: &ast.Cut{Producer: &ast.IntLiteral{Value: 0}, Consumer: &ast.End{}}},
		{StructorName: "Nil", Body: &ast.Cut{Producer: &ast.IntLiteral{Value: 0}, Consumer: &ast.End{}}},
	}
	got := pr.clauses(clauses)
	consIdx := strings.Index(got, "Cons")
	nilIdx := strings.Index(got, "Nil")
	assert.True(t, nilIdx != -1 && consIdx != -1 && consIdx < nilIdx, "Cons should sort by name before Nil regardless of input order, got %q", got)

	// Rendering must not depend on the slice's input order.
	reversed := []*ast.Clause{clauses[1], clauses[0]}
	assert.Equal(t, got, pr.clauses(reversed))
}

func TestStatementRendersCut(t *testing.T) {
	pr := New(true)
	s := &ast.Cut{Producer: &ast.IntLiteral{Value: 7}, Consumer: &ast.End{}}
	assert.Equal(t, "[7 <END>]", pr.Statement(s))
}

func TestProgramRendersDefinitionsThenStatements(t *testing.T) {
	pr := New(true)
	prog := &ast.Program{
		Definitions: []*ast.Definition{
			{Name: "f", Body: &ast.Cut{Producer: &ast.IntLiteral{Value: 0}, Consumer: &ast.End{}}},
		},
		Statements: []ast.Statement{
			&ast.Cut{Producer: &ast.IntLiteral{Value: 1}, Consumer: &ast.End{}},
		},
	}
	got := pr.Program(prog)
	defIdx := strings.Index(got, "(def f")
	stmtIdx := strings.Index(got, "[1 <END>]")
	assert.True(t, defIdx != -1 && stmtIdx != -1 && defIdx < stmtIdx, "definition should render before the statement, got %q", got)
}
