package ast

// Producer is the tagged union of value-like terms: variables, integer
// literals, mu-abstractions, constructors and cocases.
type Producer interface {
	producerNode()
}

// Variable is a reference to a VarId introduced by some enclosing binder.
type Variable struct {
	VarId VarId
	Name  string
	Type  *TypeHandle
}

// IntLiteral is a machine integer constant.
type IntLiteral struct {
	Value int64
	Type  *TypeHandle
}

// Mu binds a covariable in a statement, turning it into a producer: "mu a. s"
// stands for the value that, once given a continuation, runs s with that
// continuation substituted for a.
type Mu struct {
	CoargId   CovarId
	CoargName string
	Body      Statement
	Type      *TypeHandle
}

// Constructor introduces a value of a data type: Nil, Cons, Pair, and so on.
// IsValue memoises the value predicate (see interp.IsValue); it is nil until
// first computed and is invalidated by substitution.
type Constructor struct {
	AbstractionId AbstractionId
	Name          string
	Args          []Producer
	Coargs        []Consumer
	IsValue       *bool
	Type          *TypeHandle
}

// Cocase pattern-matches on a destructor applied to it; it is itself always
// a value, deferring computation until it meets a matching Destructor.
type Cocase struct {
	Clauses []*Clause
	Type    *TypeHandle
}

func (*Variable) producerNode()    {}
func (*IntLiteral) producerNode()  {}
func (*Mu) producerNode()          {}
func (*Constructor) producerNode() {}
func (*Cocase) producerNode()      {}
