package typectx

import (
	"github.com/benbjohnson/immutable"

	"github.com/lammm/lammm/ast"
)

// TypeId values for the fixed built-in type registry. These indices are
// part of the external contract and must not be reordered.
const (
	Integer TypeId = iota
	List
	Pair
	Stream
	LazyPair
	Lambda
)

// AbstractionId values for the fixed built-in structors.
const (
	ListNil ast.AbstractionId = iota
	ListCons
	PairPair
	StreamHead
	StreamTail
	LazyPairFst
	LazyPairSnd
	LambdaAp
)

func (c *Context) registerBuiltins() {
	integerId := c.AddTypePrototype("Integer", 0)
	listId := c.AddTypePrototype("List", 1)
	pairId := c.AddTypePrototype("Pair", 2)
	streamId := c.AddTypePrototype("Stream", 1)
	lazyPairId := c.AddTypePrototype("LazyPair", 2)
	lambdaId := c.AddTypePrototype("Lambda", 2)
	_ = integerId // Integer has no structors of its own; kept for symmetry.

	builders := map[TypeId]*[]ast.AbstractionId{
		listId:     {},
		pairId:     {},
		streamId:   {},
		lazyPairId: {},
		lambdaId:   {},
	}

	// Nil: () -> List α
	nilId := c.AddStructor("Nil", listId, nil, nil)
	*builders[listId] = append(*builders[listId], nilId)

	// Cons: (α, List α) -> List α
	consId := c.AddStructor("Cons", listId, []Template{Param(0), App(listId, Param(0))}, nil)
	*builders[listId] = append(*builders[listId], consId)

	// Pair: (α, β) -> Pair α β
	pairCtorId := c.AddStructor("Pair", pairId, []Template{Param(0), Param(1)}, nil)
	*builders[pairId] = append(*builders[pairId], pairCtorId)

	// Head: Stream α |- α
	headId := c.AddStructor("Head", streamId, nil, []Template{Param(0)})
	*builders[streamId] = append(*builders[streamId], headId)

	// Tail: Stream α |- Stream α
	tailId := c.AddStructor("Tail", streamId, nil, []Template{App(streamId, Param(0))})
	*builders[streamId] = append(*builders[streamId], tailId)

	// Fst: LazyPair α β |- α
	fstId := c.AddStructor("Fst", lazyPairId, nil, []Template{Param(0)})
	*builders[lazyPairId] = append(*builders[lazyPairId], fstId)

	// Snd: LazyPair α β |- β
	sndId := c.AddStructor("Snd", lazyPairId, nil, []Template{Param(1)})
	*builders[lazyPairId] = append(*builders[lazyPairId], sndId)

	// Ap: Lambda α β, α |- β
	apId := c.AddStructor("Ap", lambdaId, []Template{Param(0)}, []Template{Param(1)})
	*builders[lambdaId] = append(*builders[lambdaId], apId)

	c.structorsOf = make(map[TypeId]immutable.Set[ast.AbstractionId], len(builders))
	for typeId, ids := range builders {
		frozen := immutable.NewSet[ast.AbstractionId](abstractionHasher)
		for _, id := range *ids {
			frozen = frozen.Add(id)
		}
		c.structorsOf[typeId] = frozen
	}

	c.builtinConstructors = map[string]ast.AbstractionId{
		"Nil":  nilId,
		"Cons": consId,
		"Pair": pairCtorId,
	}
	c.builtinDestructors = map[string]ast.AbstractionId{
		"Head": headId,
		"Tail": tailId,
		"Fst":  fstId,
		"Snd":  sndId,
		"Ap":   apId,
	}
}

// Constructors returns the name -> AbstractionId table of built-in data
// structors (producer polarity).
func (c *Context) Constructors() map[string]ast.AbstractionId {
	return c.builtinConstructors
}

// Destructors returns the name -> AbstractionId table of built-in codata
// structors (consumer polarity).
func (c *Context) Destructors() map[string]ast.AbstractionId {
	return c.builtinDestructors
}

// IntegerTypeHandle allocates a fresh concrete Integer slot for callers (the
// typer) that need to unify against Integer directly rather than through a
// structor instance.
func (c *Context) IntegerTypeHandle() ast.TypeHandle {
	return c.allocConcrete(Integer, nil)
}
