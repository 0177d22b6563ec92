package typectx

import "github.com/lammm/lammm/ast"

// Template describes the shape of one argument or coargument slot of a
// structor, before the result type's own parameters have been bound to
// fresh variables: either a de Bruijn-style reference to one of those
// parameters, or a concrete application over further templates.
type Template struct {
	isParam    bool
	paramIndex int
	typeId     TypeId
	args       []Template
}

// Param references the i-th parameter of the prototype a structor is being
// registered against, e.g. Param(0) inside List's Cons template refers to
// List's own element type.
func Param(i int) Template {
	return Template{isParam: true, paramIndex: i}
}

// App builds a concrete application template, e.g. App(listId, Param(0)) for
// "List α".
func App(typeId TypeId, args ...Template) Template {
	return Template{typeId: typeId, args: args}
}

func (c *Context) instantiateTemplate(t Template, protoParams []ast.TypeHandle) ast.TypeHandle {
	if t.isParam {
		return protoParams[t.paramIndex]
	}
	args := make([]ast.TypeHandle, len(t.args))
	for i, a := range t.args {
		args[i] = c.instantiateTemplate(a, protoParams)
	}
	return c.allocConcrete(t.typeId, args)
}

// AddStructor registers a constructor or destructor of resultTypeId,
// binding the result's own nParams prototype parameters to fresh variables
// and instantiating argTemplates/coargTemplates against them. It does not
// add the new abstraction to resultTypeId's structor set: registerBuiltins
// builds those sets, used later for totality checks via StructorsLike, from
// the ids it collects for the built-in structors.
func (c *Context) AddStructor(name string, resultTypeId TypeId, argTemplates, coargTemplates []Template) ast.AbstractionId {
	proto := c.prototypes[resultTypeId]
	protoParams := make([]ast.TypeHandle, proto.nParams)
	for i := range protoParams {
		protoParams[i] = c.allocVar()
	}
	resultHandle := c.allocConcrete(resultTypeId, protoParams)

	args := make([]ast.TypeHandle, len(argTemplates))
	for i, t := range argTemplates {
		args[i] = c.instantiateTemplate(t, protoParams)
	}
	coargs := make([]ast.TypeHandle, len(coargTemplates))
	for i, t := range coargTemplates {
		coargs[i] = c.instantiateTemplate(t, protoParams)
	}

	id := c.nextAbstraction
	c.nextAbstraction++
	c.abstractions[id] = &Abstraction{Type: &resultHandle, Name: name, Args: args, Coargs: coargs}
	c.logger.Debug("registered structor", "name", name, "abstractionId", id, "resultType", proto.name)
	return id
}
