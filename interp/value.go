package interp

import "github.com/lammm/lammm/ast"

// IsValue reports whether p is a value: an IntLiteral, a Cocase, or a
// Constructor all of whose arguments are values (coargs don't count).
// Variables and Mu are never values. The result is memoised on
// Constructor.IsValue; callers that mutate a Constructor's Args (only
// substitution does) must invalidate that cache first.
func IsValue(p ast.Producer) bool {
	switch n := p.(type) {
	case *ast.IntLiteral:
		return true
	case *ast.Cocase:
		return true
	case *ast.Constructor:
		if n.IsValue != nil {
			return *n.IsValue
		}
		v := true
		for _, a := range n.Args {
			if !IsValue(a) {
				v = false
				break
			}
		}
		n.IsValue = &v
		return v
	default:
		return false
	}
}
