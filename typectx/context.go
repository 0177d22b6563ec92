// Package typectx implements the shared type store: a union-find arena of
// type slots (variables, concrete applications, forwarding links), the
// registry of built-in data/codata types and their structors, and
// Robinson unification with an occurs check. The parser and typer share one
// Context; the interpreter only reads it, for rendering.
package typectx

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/benbjohnson/immutable"

	"github.com/lammm/lammm/ast"
)

// TypeId indexes the fixed registry of type constructors (Integer, List,
// Pair, Stream, LazyPair, Lambda, ...). Unlike ast.TypeHandle it never
// indexes the growable type store.
type TypeId int

type slotKind int

const (
	slotVar slotKind = iota
	slotConcrete
	slotForwarded
)

// slot is one entry of the type store: a TypeVar, a ConcreteType or a
// Forwarded link, discriminated by kind.
type slot struct {
	kind   slotKind
	typeId TypeId
	params []ast.TypeHandle
	target ast.TypeHandle
}

type prototype struct {
	name    string
	nParams int
}

// Abstraction is the typing signature of a structor or a top-level
// definition. Structors carry a result Type; definitions do not, since
// their instances are statements, not producers.
type Abstraction struct {
	Type   *ast.TypeHandle
	Name   string
	Args   []ast.TypeHandle
	Coargs []ast.TypeHandle
}

// AbstractionInstance is the result of instantiating (or, for recursive
// self-calls, aliasing) an Abstraction's signature.
type AbstractionInstance struct {
	Result *ast.TypeHandle
	Args   []ast.TypeHandle
	Coargs []ast.TypeHandle
}

var abstractionHasher = immutable.Hasher[ast.AbstractionId](abstractionIdHasher{})

type abstractionIdHasher struct{}

func (abstractionIdHasher) Hash(id ast.AbstractionId) uint32  { return uint32(id) }
func (abstractionIdHasher) Equal(a, b ast.AbstractionId) bool { return a == b }

// Context owns the type store and the abstraction/structor registries for
// the lifetime of one parse+typecheck pass.
type Context struct {
	logger *slog.Logger

	store      []slot
	prototypes []prototype

	abstractions    map[ast.AbstractionId]*Abstraction
	nextAbstraction ast.AbstractionId

	builtinConstructors map[string]ast.AbstractionId
	builtinDestructors  map[string]ast.AbstractionId

	// structorsOf is frozen once the built-in registry finishes
	// construction: every later read (structorsLike, called from the
	// parser's totality check on every case/cocase) only ever looks up an
	// immutable.Set, never mutates one.
	structorsOf map[TypeId]immutable.Set[ast.AbstractionId]
}

// New builds a Context preloaded with the built-in type and structor
// registry described in the data model (Integer, List, Pair, Stream,
// LazyPair, Lambda).
func New(logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Context{
		logger:       logger.With("section", "typectx"),
		abstractions: make(map[ast.AbstractionId]*Abstraction),
	}
	c.registerBuiltins()
	return c
}

func (c *Context) allocVar() ast.TypeHandle {
	h := ast.TypeHandle(len(c.store))
	c.store = append(c.store, slot{kind: slotVar})
	return h
}

// FreshTypeVariable allocates a new, unconstrained type variable.
func (c *Context) FreshTypeVariable() ast.StrongTypeHandle {
	return ast.StrongTypeHandle(c.allocVar())
}

func (c *Context) allocConcrete(typeId TypeId, params []ast.TypeHandle) ast.TypeHandle {
	h := ast.TypeHandle(len(c.store))
	c.store = append(c.store, slot{kind: slotConcrete, typeId: typeId, params: params})
	return h
}

// AddTypePrototype allocates a concrete type prototype with nParams
// parameters and records its name for diagnostics.
func (c *Context) AddTypePrototype(name string, nParams int) TypeId {
	id := TypeId(len(c.prototypes))
	c.prototypes = append(c.prototypes, prototype{name: name, nParams: nParams})
	c.logger.Debug("registered type prototype", "name", name, "typeId", id, "params", nParams)
	return id
}

// AddDefinition allocates fresh type variables for a definition's args and
// coargs; definitions have no result type since their instances are
// statements rather than producers.
func (c *Context) AddDefinition(name string, arity, coarity int) ast.AbstractionId {
	args := make([]ast.TypeHandle, arity)
	for i := range args {
		args[i] = c.allocVar()
	}
	coargs := make([]ast.TypeHandle, coarity)
	for i := range coargs {
		coargs[i] = c.allocVar()
	}
	id := c.nextAbstraction
	c.nextAbstraction++
	c.abstractions[id] = &Abstraction{Name: name, Args: args, Coargs: coargs}
	return id
}

// GetAbstraction returns the raw, unresolved signature of id.
func (c *Context) GetAbstraction(id ast.AbstractionId) *Abstraction {
	return c.abstractions[id]
}

// GetAbstractionPrototype hands out the abstraction's own signature handles
// directly, with no fresh copy. It exists only so that a recursive self-call
// can be checked against its own, non-generalised signature, rejecting
// polymorphic recursion.
func (c *Context) GetAbstractionPrototype(id ast.AbstractionId) AbstractionInstance {
	a := c.abstractions[id]
	return AbstractionInstance{Result: a.Type, Args: a.Args, Coargs: a.Coargs}
}

// Instantiate performs the "copy scheme" step of Hindley-Milner: it clones
// the reachable subgraph of id's signature, replacing every variable
// encountered with a fresh one, the same source variable always mapping to
// the same fresh variable within this one call.
func (c *Context) Instantiate(id ast.AbstractionId) AbstractionInstance {
	a := c.abstractions[id]
	mapping := make(map[ast.TypeHandle]ast.TypeHandle)
	var result *ast.TypeHandle
	if a.Type != nil {
		h := c.cloneHandle(*a.Type, mapping)
		result = &h
	}
	args := make([]ast.TypeHandle, len(a.Args))
	for i, h := range a.Args {
		args[i] = c.cloneHandle(h, mapping)
	}
	coargs := make([]ast.TypeHandle, len(a.Coargs))
	for i, h := range a.Coargs {
		coargs[i] = c.cloneHandle(h, mapping)
	}
	return AbstractionInstance{Result: result, Args: args, Coargs: coargs}
}

func (c *Context) cloneHandle(h ast.TypeHandle, mapping map[ast.TypeHandle]ast.TypeHandle) ast.TypeHandle {
	h = c.deref(h)
	if fresh, ok := mapping[h]; ok {
		return fresh
	}
	s := c.store[h]
	switch s.kind {
	case slotVar:
		fresh := c.allocVar()
		mapping[h] = fresh
		return fresh
	case slotConcrete:
		newParams := make([]ast.TypeHandle, len(s.params))
		for i, p := range s.params {
			newParams[i] = c.cloneHandle(p, mapping)
		}
		fresh := c.allocConcrete(s.typeId, newParams)
		mapping[h] = fresh
		return fresh
	default:
		panic("typectx: deref returned a non-dereferenced slot")
	}
}

// deref follows forwarding links to their end, path-compressing along the
// way, per the union-find discipline.
func (c *Context) deref(h ast.TypeHandle) ast.TypeHandle {
	var visited []ast.TypeHandle
	for c.store[h].kind == slotForwarded {
		visited = append(visited, h)
		h = c.store[h].target
	}
	for _, v := range visited {
		c.store[v] = slot{kind: slotForwarded, target: h}
	}
	return h
}

// StructorsLike returns every structor sharing id's result type, used by
// the parser's totality check.
func (c *Context) StructorsLike(id ast.AbstractionId) immutable.Set[ast.AbstractionId] {
	a := c.abstractions[id]
	if a.Type == nil {
		return immutable.NewSet[ast.AbstractionId](abstractionHasher)
	}
	h := c.deref(*a.Type)
	typeId := c.store[h].typeId
	if s, ok := c.structorsOf[typeId]; ok {
		return s
	}
	return immutable.NewSet[ast.AbstractionId](abstractionHasher)
}

// GetTypeName renders the dereferenced type at h for diagnostics, e.g.
// "List Integer" or "'t3" for a still-free variable.
func (c *Context) GetTypeName(h ast.TypeHandle) string {
	h = c.deref(h)
	s := c.store[h]
	if s.kind == slotVar {
		return fmt.Sprintf("'t%d", h)
	}
	proto := c.prototypes[s.typeId]
	if len(s.params) == 0 {
		return proto.name
	}
	parts := make([]string, len(s.params))
	for i, p := range s.params {
		parts[i] = c.GetTypeName(p)
	}
	return proto.name + " " + strings.Join(parts, " ")
}

// GetTypeInstance is an alias for GetTypeName kept to mirror the spec's
// naming of the two rendering helpers; both describe the same handle.
func (c *Context) GetTypeInstance(h ast.TypeHandle) string {
	return c.GetTypeName(h)
}
