package interp

import "github.com/lammm/lammm/ast"

// varSubst and covarSubst carry a replacement for a bound name. Mu/MuTilde
// and Clause binders shadow their own id by omitting it from the recursive
// call, so the map has to be threaded as a new value per level, not as a
// single owned structure.
type varSubst map[ast.VarId]ast.Producer
type covarSubst map[ast.CovarId]ast.Consumer

func withoutVar(m varSubst, id ast.VarId) varSubst {
	if _, ok := m[id]; !ok {
		return m
	}
	out := make(varSubst, len(m))
	for k, v := range m {
		if k != id {
			out[k] = v
		}
	}
	return out
}

func withoutVars(m varSubst, ids []ast.VarId) varSubst {
	for _, id := range ids {
		m = withoutVar(m, id)
	}
	return m
}

func withoutCovar(m covarSubst, id ast.CovarId) covarSubst {
	if _, ok := m[id]; !ok {
		return m
	}
	out := make(covarSubst, len(m))
	for k, v := range m {
		if k != id {
			out[k] = v
		}
	}
	return out
}

func withoutCovars(m covarSubst, ids []ast.CovarId) covarSubst {
	for _, id := range ids {
		m = withoutCovar(m, id)
	}
	return m
}

// ReplaceInStatement substitutes vars for producers and covars for consumers
// throughout s, returning a deep clone. The original is left untouched: the
// AST is a tree, never a DAG, at any point in the interpreter's execution.
func ReplaceInStatement(s ast.Statement, vars varSubst, covars covarSubst) ast.Statement {
	return replaceStatement(s, vars, covars)
}

func cloneProducer(p ast.Producer) ast.Producer {
	return replaceProducer(p, nil, nil)
}

func cloneConsumer(c ast.Consumer) ast.Consumer {
	return replaceConsumer(c, nil, nil)
}

func replaceProducer(p ast.Producer, vars varSubst, covars covarSubst) ast.Producer {
	switch n := p.(type) {
	case *ast.Variable:
		if repl, ok := vars[n.VarId]; ok {
			return cloneProducer(repl)
		}
		cp := *n
		return &cp
	case *ast.IntLiteral:
		cp := *n
		return &cp
	case *ast.Mu:
		cp := *n
		cp.Body = replaceStatement(n.Body, vars, withoutCovar(covars, n.CoargId))
		return &cp
	case *ast.Constructor:
		cp := *n
		cp.Args = make([]ast.Producer, len(n.Args))
		for i, a := range n.Args {
			cp.Args[i] = replaceProducer(a, vars, covars)
		}
		cp.Coargs = make([]ast.Consumer, len(n.Coargs))
		for i, co := range n.Coargs {
			cp.Coargs[i] = replaceConsumer(co, vars, covars)
		}
		cp.IsValue = nil
		return &cp
	case *ast.Cocase:
		cp := *n
		cp.Clauses = make([]*ast.Clause, len(n.Clauses))
		for i, cl := range n.Clauses {
			cp.Clauses[i] = replaceClause(cl, vars, covars)
		}
		return &cp
	default:
		panic("interp: unreachable producer kind")
	}
}

func replaceConsumer(c ast.Consumer, vars varSubst, covars covarSubst) ast.Consumer {
	switch n := c.(type) {
	case *ast.Covariable:
		if repl, ok := covars[n.CovarId]; ok {
			return cloneConsumer(repl)
		}
		cp := *n
		return &cp
	case *ast.MuTilde:
		cp := *n
		cp.Body = replaceStatement(n.Body, withoutVar(vars, n.ArgId), covars)
		return &cp
	case *ast.Destructor:
		cp := *n
		cp.Args = make([]ast.Producer, len(n.Args))
		for i, a := range n.Args {
			cp.Args[i] = replaceProducer(a, vars, covars)
		}
		cp.Coargs = make([]ast.Consumer, len(n.Coargs))
		for i, co := range n.Coargs {
			cp.Coargs[i] = replaceConsumer(co, vars, covars)
		}
		return &cp
	case *ast.Case:
		cp := *n
		cp.Clauses = make([]*ast.Clause, len(n.Clauses))
		for i, cl := range n.Clauses {
			cp.Clauses[i] = replaceClause(cl, vars, covars)
		}
		return &cp
	case *ast.End:
		cp := *n
		return &cp
	default:
		panic("interp: unreachable consumer kind")
	}
}

func replaceClause(cl *ast.Clause, vars varSubst, covars covarSubst) *ast.Clause {
	cp := *cl
	innerVars := withoutVars(vars, cl.ArgIds)
	innerCovars := withoutCovars(covars, cl.CoargIds)
	cp.Body = replaceStatement(cl.Body, innerVars, innerCovars)
	return &cp
}

func replaceStatement(s ast.Statement, vars varSubst, covars covarSubst) ast.Statement {
	switch n := s.(type) {
	case *ast.Arithmetic:
		cp := *n
		cp.Left = replaceProducer(n.Left, vars, covars)
		cp.Right = replaceProducer(n.Right, vars, covars)
		cp.After = replaceConsumer(n.After, vars, covars)
		return &cp
	case *ast.Ifz:
		cp := *n
		cp.Cond = replaceProducer(n.Cond, vars, covars)
		cp.IfZero = replaceStatement(n.IfZero, vars, covars)
		cp.IfOther = replaceStatement(n.IfOther, vars, covars)
		return &cp
	case *ast.Cut:
		cp := *n
		cp.Producer = replaceProducer(n.Producer, vars, covars)
		cp.Consumer = replaceConsumer(n.Consumer, vars, covars)
		return &cp
	case *ast.Call:
		cp := *n
		cp.Args = make([]ast.Producer, len(n.Args))
		for i, a := range n.Args {
			cp.Args[i] = replaceProducer(a, vars, covars)
		}
		cp.Coargs = make([]ast.Consumer, len(n.Coargs))
		for i, co := range n.Coargs {
			cp.Coargs[i] = replaceConsumer(co, vars, covars)
		}
		return &cp
	default:
		panic("interp: unreachable statement kind")
	}
}
