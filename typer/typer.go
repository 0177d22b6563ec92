// Package typer implements Algorithm W specialised to the two-sided
// calculus: producers are checked against an expected type, consumers
// against the type of value they consume, statements for internal
// consistency only. All unification failures are collected into one
// aggregate error rather than aborting at the first.
package typer

import (
	"log/slog"

	"github.com/lammm/lammm/ast"
	"github.com/lammm/lammm/ilerr"
	"github.com/lammm/lammm/typectx"
)

// Typer checks one Program against a shared typectx.Context.
type Typer struct {
	ctx    *typectx.Context
	logger *slog.Logger

	varTypes   map[ast.VarId]ast.TypeHandle
	covarTypes map[ast.CovarId]ast.TypeHandle

	currentDef ast.AbstractionId
	inDef      bool

	// callAbstractionIds maps each Definition's DefId to its AbstractionId.
	// DefIds are allocated by the parser in the same order Definitions
	// appear in the Program, so this is just that correspondence made
	// explicit for Call sites, which only carry a DefId.
	callAbstractionIds map[ast.DefId]ast.AbstractionId

	errs []ilerr.LammmError
}

// New builds a Typer sharing ctx with whatever Parser produced the program.
func New(ctx *typectx.Context, logger *slog.Logger) *Typer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Typer{
		ctx:                ctx,
		logger:             logger.With("section", "typer"),
		varTypes:           make(map[ast.VarId]ast.TypeHandle),
		covarTypes:         make(map[ast.CovarId]ast.TypeHandle),
		callAbstractionIds: make(map[ast.DefId]ast.AbstractionId),
	}
}

// CheckProgram type-checks every definition and top-level statement,
// returning a MultiTypeError aggregating every failure found (nil if none).
func (t *Typer) CheckProgram(prog *ast.Program) error {
	for i, def := range prog.Definitions {
		t.callAbstractionIds[ast.DefId(i)] = def.AbstractionId
	}
	for _, def := range prog.Definitions {
		t.checkDefinition(def)
	}
	for _, stmt := range prog.Statements {
		t.checkStatement(stmt)
	}
	if len(t.errs) == 0 {
		return nil
	}
	return ilerr.MultiTypeError(t.errs)
}

func (t *Typer) fail(context string, err error) {
	if le, ok := err.(ilerr.LammmError); ok {
		t.errs = append(t.errs, le)
		return
	}
	t.errs = append(t.errs, ilerr.New(ilerr.TypeMismatchError{Context: context, Cause: err}))
}

func (t *Typer) unify(a, b ast.TypeHandle, context string) {
	if err := t.ctx.Unify(a, b, context); err != nil {
		t.fail(context, err)
	}
}

func (t *Typer) checkDefinition(def *ast.Definition) {
	abstraction := t.ctx.GetAbstraction(def.AbstractionId)
	for i, id := range def.ArgIds {
		t.varTypes[id] = abstraction.Args[i]
	}
	for i, id := range def.CoargIds {
		t.covarTypes[id] = abstraction.Coargs[i]
	}
	prevDef, prevInDef := t.currentDef, t.inDef
	t.currentDef, t.inDef = def.AbstractionId, true
	t.checkStatement(def.Body)
	t.currentDef, t.inDef = prevDef, prevInDef
}

func (t *Typer) freshVarType(id ast.VarId) ast.TypeHandle {
	if h, ok := t.varTypes[id]; ok {
		return h
	}
	h := t.ctx.FreshTypeVariable().Weak()
	t.varTypes[id] = h
	return h
}

func (t *Typer) freshCovarType(id ast.CovarId) ast.TypeHandle {
	if h, ok := t.covarTypes[id]; ok {
		return h
	}
	h := t.ctx.FreshTypeVariable().Weak()
	t.covarTypes[id] = h
	return h
}

// checkProducer constrains p to have type expected.
func (t *Typer) checkProducer(p ast.Producer, expected ast.TypeHandle) {
	switch n := p.(type) {
	case *ast.Variable:
		actual := t.freshVarType(n.VarId)
		t.unify(expected, actual, "variable "+n.Name)
		n.Type = &actual
	case *ast.IntLiteral:
		t.unify(expected, t.ctx.IntegerTypeHandle(), "integer literal")
		n.Type = &expected
	case *ast.Mu:
		alpha := t.freshCovarType(n.CoargId)
		t.unify(expected, alpha, "mu "+n.CoargName)
		t.checkStatement(n.Body)
		n.Type = &expected
	case *ast.Constructor:
		t.checkStructorInstance(n.AbstractionId, n.Args, n.Coargs, expected, "constructor "+n.Name)
		n.Type = &expected
	case *ast.Cocase:
		for _, cl := range n.Clauses {
			t.checkClause(cl, expected)
		}
		n.Type = &expected
	default:
		t.fail("producer", ilerr.New(ilerr.TypeMismatchError{Context: "producer", First: "known producer", Second: "unrecognised node"}))
	}
}

// checkConsumer constrains c to consume values of type expected.
func (t *Typer) checkConsumer(c ast.Consumer, expected ast.TypeHandle) {
	switch n := c.(type) {
	case *ast.Covariable:
		actual := t.freshCovarType(n.CovarId)
		t.unify(expected, actual, "covariable "+n.Name)
		n.Type = &actual
	case *ast.MuTilde:
		x := t.freshVarType(n.ArgId)
		t.unify(expected, x, "mu~ "+n.ArgName)
		t.checkStatement(n.Body)
		n.Type = &expected
	case *ast.Destructor:
		t.checkStructorInstance(n.AbstractionId, n.Args, n.Coargs, expected, "destructor "+n.Name)
		n.Type = &expected
	case *ast.Case:
		for _, cl := range n.Clauses {
			t.checkClause(cl, expected)
		}
		n.Type = &expected
	case *ast.End:
		n.Type = &expected
	default:
		t.fail("consumer", ilerr.New(ilerr.TypeMismatchError{Context: "consumer", First: "known consumer", Second: "unrecognised node"}))
	}
}

// checkStructorInstance instantiates a structor's signature, pointwise
// unifies it against the actual args/coargs, and unifies its result with
// expected.
func (t *Typer) checkStructorInstance(id ast.AbstractionId, args []ast.Producer, coargs []ast.Consumer, expected ast.TypeHandle, context string) {
	instance := t.ctx.Instantiate(id)
	if instance.Result != nil {
		t.unify(expected, *instance.Result, context)
	}
	for i, a := range args {
		if i < len(instance.Args) {
			t.checkProducer(a, instance.Args[i])
		}
	}
	for i, co := range coargs {
		if i < len(instance.Coargs) {
			t.checkConsumer(co, instance.Coargs[i])
		}
	}
}

func (t *Typer) checkClause(cl *ast.Clause, expected ast.TypeHandle) {
	instance := t.ctx.Instantiate(cl.AbstractionId)
	if instance.Result != nil {
		t.unify(expected, *instance.Result, "clause "+cl.StructorName)
	}
	for i, id := range cl.ArgIds {
		if i < len(instance.Args) {
			t.varTypes[id] = instance.Args[i]
		}
	}
	for i, id := range cl.CoargIds {
		if i < len(instance.Coargs) {
			t.covarTypes[id] = instance.Coargs[i]
		}
	}
	t.checkStatement(cl.Body)
}

func (t *Typer) checkStatement(s ast.Statement) {
	switch n := s.(type) {
	case *ast.Arithmetic:
		integer := t.ctx.IntegerTypeHandle()
		t.checkProducer(n.Left, integer)
		t.checkProducer(n.Right, integer)
		t.checkConsumer(n.After, integer)
	case *ast.Ifz:
		t.checkProducer(n.Cond, t.ctx.IntegerTypeHandle())
		t.checkStatement(n.IfZero)
		t.checkStatement(n.IfOther)
	case *ast.Cut:
		fresh := t.ctx.FreshTypeVariable().Weak()
		t.checkProducer(n.Producer, fresh)
		t.checkConsumer(n.Consumer, fresh)
	case *ast.Call:
		calleeId := t.defAbstraction(n)
		var instance typectx.AbstractionInstance
		if t.inDef && calleeId == t.currentDef {
			instance = t.ctx.GetAbstractionPrototype(calleeId)
		} else {
			instance = t.ctx.Instantiate(calleeId)
		}
		for i, a := range n.Args {
			if i < len(instance.Args) {
				t.checkProducer(a, instance.Args[i])
			}
		}
		for i, co := range n.Coargs {
			if i < len(instance.Coargs) {
				t.checkConsumer(co, instance.Coargs[i])
			}
		}
	default:
		t.fail("statement", ilerr.New(ilerr.TypeMismatchError{Context: "statement", First: "known statement", Second: "unrecognised node"}))
	}
}

// defAbstraction resolves a Call's DefId to the AbstractionId the shared
// Context allocated for that definition's signature.
func (t *Typer) defAbstraction(call *ast.Call) ast.AbstractionId {
	return t.callAbstractionIds[call.DefId]
}
