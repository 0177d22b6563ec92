// Package ast defines the producer/consumer/statement syntax tree shared by
// the parser, typer, interpreter and printer.
package ast

// VarId, CovarId, DefId, AbstractionId and TypeHandle are disjoint,
// densely-allocated integer identifier spaces. They are comparable and safe
// to use as map keys.
type (
	VarId         int
	CovarId       int
	DefId         int
	AbstractionId int
	TypeHandle    int
)

// StrongTypeHandle is a TypeHandle that additionally conveys the right to
// unify at that handle. It carries no extra runtime information and is a
// marker only: typectx.Context.Unify takes plain TypeHandles, so the
// compiler does not keep a plain handle from being unified.
type StrongTypeHandle TypeHandle

// Weak returns the plain TypeHandle view of a StrongTypeHandle.
func (h StrongTypeHandle) Weak() TypeHandle { return TypeHandle(h) }
