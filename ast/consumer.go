package ast

// Consumer is the tagged union of continuation-like terms: covariables,
// mu-tilde abstractions, destructors, cases and the terminal End.
type Consumer interface {
	consumerNode()
}

// Covariable is a reference to a CovarId introduced by some enclosing binder.
type Covariable struct {
	CovarId CovarId
	Name    string
	Type    *TypeHandle
}

// MuTilde binds a variable in a statement, turning it into a consumer:
// "mu~ x. s" is the continuation that, once given a value, runs s with that
// value substituted for x.
type MuTilde struct {
	ArgId   VarId
	ArgName string
	Body    Statement
	Type    *TypeHandle
}

// Destructor eliminates a value of a codata type: Head, Tail, Fst, Snd, Ap.
type Destructor struct {
	AbstractionId AbstractionId
	Name          string
	Args          []Producer
	Coargs        []Consumer
	Type          *TypeHandle
}

// Case pattern-matches an incoming Constructor against its clauses.
type Case struct {
	Clauses []*Clause
	Type    *TypeHandle
}

// End is the terminal continuation: cutting a value against End yields that
// value as the result of the enclosing statement.
type End struct {
	Type *TypeHandle
}

func (*Covariable) consumerNode() {}
func (*MuTilde) consumerNode()    {}
func (*Destructor) consumerNode() {}
func (*Case) consumerNode()       {}
func (*End) consumerNode()        {}
