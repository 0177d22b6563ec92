package interp

import "github.com/lammm/lammm/ast"

// focusProducer implements the core focusing transform: given a non-value
// producer p occurring in some context C[p], it returns a fresh variable to
// put in p's place and a wrap function that, given the reconstructed
// statement C[x], produces Cut(p, MuTilde(x, C[x])) — the statement that
// reduces p to a value before resuming C. The choice of which non-value to
// focus on is made by the caller; this just performs the lift once a target
// has been chosen.
func (in *Interpreter) focusProducer(p ast.Producer) (ast.Producer, func(ast.Statement) ast.Statement) {
	x := in.freshVar()
	focused := &ast.Variable{VarId: x}
	wrap := func(inner ast.Statement) ast.Statement {
		return &ast.Cut{Producer: p, Consumer: &ast.MuTilde{ArgId: x, Body: inner}}
	}
	return focused, wrap
}

// firstNonValueProducer returns the index of the leftmost non-value
// producer in args, or -1 if every element is a value.
func firstNonValueProducer(args []ast.Producer) int {
	for i, a := range args {
		if !IsValue(a) {
			return i
		}
	}
	return -1
}
