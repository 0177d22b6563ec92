package typectx

import (
	"github.com/lammm/lammm/ast"
	"github.com/lammm/lammm/ilerr"
)

// Unify performs standard Robinson unification over the union-find store:
// both sides are dereferenced, a variable side is forwarded to the other
// after an occurs check, and two concrete sides must share a TypeId and
// unify pointwise on their parameters. context names the enclosing
// syntactic element, for error messages.
func (c *Context) Unify(a, b ast.TypeHandle, context string) error {
	a = c.deref(a)
	b = c.deref(b)
	if a == b {
		return nil
	}
	as, bs := c.store[a], c.store[b]

	if as.kind == slotVar {
		if c.occurs(a, b) {
			return ilerr.New(ilerr.OccursCheckError{Context: context})
		}
		c.store[a] = slot{kind: slotForwarded, target: b}
		c.logger.Debug("unify: forwarded variable", "from", a, "to", b)
		return nil
	}
	if bs.kind == slotVar {
		if c.occurs(b, a) {
			return ilerr.New(ilerr.OccursCheckError{Context: context})
		}
		c.store[b] = slot{kind: slotForwarded, target: a}
		c.logger.Debug("unify: forwarded variable", "from", b, "to", a)
		return nil
	}

	if as.typeId != bs.typeId || len(as.params) != len(bs.params) {
		return ilerr.New(ilerr.TypeMismatchError{
			Context: context,
			First:   c.GetTypeName(a),
			Second:  c.GetTypeName(b),
		})
	}
	for i := range as.params {
		if err := c.Unify(as.params[i], bs.params[i], context); err != nil {
			return err
		}
	}
	return nil
}

// occurs reports whether the variable handle v appears anywhere in the
// reachable subgraph rooted at h. A positive result means unifying v with h
// would close a cycle in the forwarding graph.
func (c *Context) occurs(v, h ast.TypeHandle) bool {
	h = c.deref(h)
	if h == v {
		return true
	}
	s := c.store[h]
	if s.kind != slotConcrete {
		return false
	}
	for _, p := range s.params {
		if c.occurs(v, p) {
			return true
		}
	}
	return false
}
