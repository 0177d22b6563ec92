// Package interp implements the focusing call-by-value operational
// semantics: Step reduces one Statement by one rule, and Run drives a whole
// Program's statements to their terminal values.
package interp

import (
	"context"
	"log/slog"

	"github.com/lammm/lammm/ast"
	"github.com/lammm/lammm/ilerr"
	"github.com/lammm/lammm/printer"
)

// Interpreter runs one Program exactly once; a second call to Run fails.
// It carries the VarId/CovarId counters forward from wherever the parser
// left off, so names it invents for focusing are globally fresh.
type Interpreter struct {
	logger *slog.Logger

	defs map[ast.DefId]*ast.Definition

	nextVarId   ast.VarId
	nextCovarId ast.CovarId

	maxSteps int
	ran      bool
}

// New builds an Interpreter for prog. nextVarId/nextCovarId must be at
// least as large as every id the parser allocated. maxSteps bounds each
// statement's reduction (0 means unbounded); it exists to turn a runaway
// reduction into a reported error instead of a hang.
func New(prog *ast.Program, nextVarId ast.VarId, nextCovarId ast.CovarId, maxSteps int, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	defs := make(map[ast.DefId]*ast.Definition, len(prog.Definitions))
	for i, def := range prog.Definitions {
		defs[ast.DefId(i)] = def
	}
	return &Interpreter{
		logger:      logger.With("section", "interp"),
		defs:        defs,
		nextVarId:   nextVarId,
		nextCovarId: nextCovarId,
		maxSteps:    maxSteps,
	}
}

func (in *Interpreter) freshVar() ast.VarId {
	id := in.nextVarId
	in.nextVarId++
	return id
}

func (in *Interpreter) freshCovar() ast.CovarId {
	id := in.nextCovarId
	in.nextCovarId++
	return id
}

// Run reduces every top-level statement of the program to its terminal
// value (the producer cut against End), in source order.
func (in *Interpreter) Run(prog *ast.Program) ([]ast.Producer, error) {
	if in.ran {
		return nil, ilerr.New(ilerr.InterpreterReusedError{})
	}
	in.ran = true

	results := make([]ast.Producer, 0, len(prog.Statements))
	for _, s := range prog.Statements {
		v, err := in.runToValue(s)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}

// runToValue repeatedly steps s until it reaches Cut(value, End), at which
// point it returns that value. Each step is logged at Debug level, and a
// stuck step's error carries the rendered statement that could not reduce.
func (in *Interpreter) runToValue(s ast.Statement) (ast.Producer, error) {
	steps := 0
	for {
		if cut, ok := s.(*ast.Cut); ok {
			if _, isEnd := cut.Consumer.(*ast.End); isEnd && IsValue(cut.Producer) {
				return cut.Producer, nil
			}
		}
		if in.maxSteps > 0 && steps >= in.maxSteps {
			return nil, ilerr.New(ilerr.StuckComputationError{Rendered: "exceeded max-steps"})
		}
		if in.logger.Enabled(context.Background(), slog.LevelDebug) {
			in.logger.Debug("reduction step", "step", steps, "statement", printer.New(true).Statement(s))
		}
		next, err := in.Step(s)
		if err != nil {
			if stuck, ok := err.(ilerr.StuckComputationError); ok {
				stuck.Rendered += ": " + printer.New(true).Statement(s)
				return nil, stuck
			}
			return nil, err
		}
		s = next
		steps++
	}
}

// Step reduces s by exactly one rule, per the statement's kind.
func (in *Interpreter) Step(s ast.Statement) (ast.Statement, error) {
	switch n := s.(type) {
	case *ast.Arithmetic:
		return in.stepArithmetic(n)
	case *ast.Ifz:
		return in.stepIfz(n)
	case *ast.Cut:
		return in.stepCut(n)
	case *ast.Call:
		return in.stepCall(n)
	default:
		return nil, ilerr.New(ilerr.StuckComputationError{Rendered: "unrecognised statement"})
	}
}

func (in *Interpreter) stepArithmetic(n *ast.Arithmetic) (ast.Statement, error) {
	if !IsValue(n.Left) {
		focused, wrap := in.focusProducer(n.Left)
		n2 := *n
		n2.Left = focused
		return wrap(&n2), nil
	}
	if !IsValue(n.Right) {
		focused, wrap := in.focusProducer(n.Right)
		n2 := *n
		n2.Right = focused
		return wrap(&n2), nil
	}
	left, ok := n.Left.(*ast.IntLiteral)
	if !ok {
		return nil, ilerr.New(ilerr.StuckComputationError{Rendered: "arithmetic on non-integer"})
	}
	right, ok := n.Right.(*ast.IntLiteral)
	if !ok {
		return nil, ilerr.New(ilerr.StuckComputationError{Rendered: "arithmetic on non-integer"})
	}
	result := applyOp(n.Op, left.Value, right.Value)
	return &ast.Cut{Producer: &ast.IntLiteral{Value: result}, Consumer: n.After}, nil
}

// applyOp computes op(l, r). Division and modulus by zero are a deliberate
// totalising rule rather than a runtime error: division by zero yields 1,
// modulus by zero yields the left operand.
func applyOp(op ast.ArithmeticOp, l, r int64) int64 {
	switch op {
	case ast.OpAdd:
		return l + r
	case ast.OpSub:
		return l - r
	case ast.OpMul:
		return l * r
	case ast.OpDiv:
		if r == 0 {
			return 1
		}
		return l / r
	case ast.OpMod:
		if r == 0 {
			return l
		}
		return l % r
	default:
		return 0
	}
}

func (in *Interpreter) stepIfz(n *ast.Ifz) (ast.Statement, error) {
	if !IsValue(n.Cond) {
		focused, wrap := in.focusProducer(n.Cond)
		n2 := *n
		n2.Cond = focused
		return wrap(&n2), nil
	}
	lit, ok := n.Cond.(*ast.IntLiteral)
	if !ok {
		return nil, ilerr.New(ilerr.StuckComputationError{Rendered: "ifz on non-integer"})
	}
	if lit.Value == 0 {
		return n.IfZero, nil
	}
	return n.IfOther, nil
}

func (in *Interpreter) stepCut(n *ast.Cut) (ast.Statement, error) {
	// Rule 1: Cut(Mu(a, body), c) -> body[c/a]
	if mu, ok := n.Producer.(*ast.Mu); ok {
		return ReplaceInStatement(mu.Body, nil, covarSubst{mu.CoargId: n.Consumer}), nil
	}

	if !IsValue(n.Producer) {
		ctor, ok := n.Producer.(*ast.Constructor)
		if !ok {
			return nil, ilerr.New(ilerr.StuckComputationError{Rendered: "non-value producer in cut"})
		}
		i := firstNonValueProducer(ctor.Args)
		focused, wrap := in.focusProducer(ctor.Args[i])
		newCtor := *ctor
		newCtor.Args = append([]ast.Producer{}, ctor.Args...)
		newCtor.Args[i] = focused
		newCtor.IsValue = nil
		inner := &ast.Cut{Producer: &newCtor, Consumer: n.Consumer}
		return wrap(inner), nil
	}

	// Rule 3: Cut(v, MuTilde(x, body)) -> body[v/x]
	if muT, ok := n.Consumer.(*ast.MuTilde); ok {
		return ReplaceInStatement(muT.Body, varSubst{muT.ArgId: n.Producer}, nil), nil
	}

	switch cons := n.Consumer.(type) {
	case *ast.Case:
		ctor, ok := n.Producer.(*ast.Constructor)
		if !ok {
			return nil, ilerr.New(ilerr.StuckComputationError{Rendered: "case applied to non-constructor"})
		}
		cl := findClause(cons.Clauses, ctor.AbstractionId)
		if cl == nil {
			return nil, ilerr.New(ilerr.StuckComputationError{Rendered: "no matching case clause for " + ctor.Name})
		}
		return in.instantiateClause(cl, ctor.Args, ctor.Coargs), nil

	case *ast.Destructor:
		cocase, ok := n.Producer.(*ast.Cocase)
		if !ok {
			return nil, ilerr.New(ilerr.StuckComputationError{Rendered: "destructor applied to non-cocase"})
		}
		if i := firstNonValueProducer(cons.Args); i >= 0 {
			focused, wrap := in.focusProducer(cons.Args[i])
			newDestructor := *cons
			newDestructor.Args = append([]ast.Producer{}, cons.Args...)
			newDestructor.Args[i] = focused
			inner := &ast.Cut{Producer: n.Producer, Consumer: &newDestructor}
			return wrap(inner), nil
		}
		cl := findClause(cocase.Clauses, cons.AbstractionId)
		if cl == nil {
			return nil, ilerr.New(ilerr.StuckComputationError{Rendered: "no matching cocase clause for " + cons.Name})
		}
		return in.instantiateClause(cl, cons.Args, cons.Coargs), nil

	case *ast.End:
		return n, nil

	default:
		return nil, ilerr.New(ilerr.StuckComputationError{Rendered: "no reduction rule for this cut"})
	}
}

func findClause(clauses []*ast.Clause, id ast.AbstractionId) *ast.Clause {
	for _, cl := range clauses {
		if cl.AbstractionId == id {
			return cl
		}
	}
	return nil
}

func (in *Interpreter) instantiateClause(cl *ast.Clause, args []ast.Producer, coargs []ast.Consumer) ast.Statement {
	vars := make(varSubst, len(cl.ArgIds))
	for i, id := range cl.ArgIds {
		vars[id] = args[i]
	}
	covars := make(covarSubst, len(cl.CoargIds))
	for i, id := range cl.CoargIds {
		covars[id] = coargs[i]
	}
	return ReplaceInStatement(cl.Body, vars, covars)
}

func (in *Interpreter) stepCall(n *ast.Call) (ast.Statement, error) {
	for i, a := range n.Args {
		if !IsValue(a) {
			focused, wrap := in.focusProducer(a)
			n2 := *n
			n2.Args = append([]ast.Producer{}, n.Args...)
			n2.Args[i] = focused
			return wrap(&n2), nil
		}
	}
	def, ok := in.defs[n.DefId]
	if !ok {
		return nil, ilerr.New(ilerr.StuckComputationError{Rendered: "unknown definition " + n.Name})
	}
	vars := make(varSubst, len(def.ArgIds))
	for i, id := range def.ArgIds {
		vars[id] = n.Args[i]
	}
	covars := make(covarSubst, len(def.CoargIds))
	for i, id := range def.CoargIds {
		covars[id] = n.Coargs[i]
	}
	return ReplaceInStatement(def.Body, vars, covars), nil
}
