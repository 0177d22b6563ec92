// Package parser implements the recursive-descent S-expression parser: it
// tokenizes on the fly (no separate lexing pass), resolves names to fresh
// VarId/CovarId/DefId identifiers via per-name scope stacks, and enforces
// arity, coarity and case/cocase totality against the shared typectx.Context.
package parser

import (
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/hashicorp/go-set/v3"

	"github.com/lammm/lammm/ast"
	"github.com/lammm/lammm/ilerr"
	"github.com/lammm/lammm/typectx"
	"github.com/lammm/lammm/util"
)

type arityInfo struct {
	arity   int
	coarity int
}

// Parser holds all of one parse's mutable state: the cursor, the lexical
// (co)variable scope stacks, and the global definition table. A Parser is
// single-use, mirroring the grammar's single top-level Program.
type Parser struct {
	ctx *typectx.Context
	cur *cursor

	varCtx   map[string]*util.Stack[ast.VarId]
	covarCtx map[string]*util.Stack[ast.CovarId]

	defIds    map[string]ast.DefId
	defArity  map[ast.DefId]arityInfo
	nextDefId ast.DefId

	nextVarId   ast.VarId
	nextCovarId ast.CovarId
}

// New builds a Parser reading from r, sharing ctx with whatever Typer will
// later check the resulting Program.
func New(r io.Reader, ctx *typectx.Context) *Parser {
	return &Parser{
		ctx:      ctx,
		cur:      newCursor(r),
		varCtx:   make(map[string]*util.Stack[ast.VarId]),
		covarCtx: make(map[string]*util.Stack[ast.CovarId]),
		defIds:   make(map[string]ast.DefId),
		defArity: make(map[ast.DefId]arityInfo),
	}
}

// NVars and NCovars report how many (co)variable ids this parse allocated,
// so the interpreter's fresh-id counters can continue from where the parser
// left off.
func (p *Parser) NVars() int   { return int(p.nextVarId) }
func (p *Parser) NCovars() int { return int(p.nextCovarId) }

func (p *Parser) varStack(name string) *util.Stack[ast.VarId] {
	s, ok := p.varCtx[name]
	if !ok {
		s = &util.Stack[ast.VarId]{}
		p.varCtx[name] = s
	}
	return s
}

func (p *Parser) covarStack(name string) *util.Stack[ast.CovarId] {
	s, ok := p.covarCtx[name]
	if !ok {
		s = &util.Stack[ast.CovarId]{}
		p.covarCtx[name] = s
	}
	return s
}

func (p *Parser) pushVar(name string) ast.VarId {
	id := p.nextVarId
	p.nextVarId++
	p.varStack(name).Push(id)
	return id
}

func (p *Parser) popVar(name string) {
	p.varStack(name).Pop()
}

func (p *Parser) pushCovar(name string) ast.CovarId {
	id := p.nextCovarId
	p.nextCovarId++
	p.covarStack(name).Push(id)
	return id
}

func (p *Parser) popCovar(name string) {
	p.covarStack(name).Pop()
}

func (p *Parser) expect(expected rune, context string, startLine int) error {
	r, ok := p.cur.get()
	if !ok {
		return ilerr.New(ilerr.UnexpectedCharError{
			Positions: ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: context},
			IsEOF:     true,
		})
	}
	if r != expected {
		return ilerr.New(ilerr.UnexpectedCharError{
			Positions: ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: context},
			Got:       r,
		})
	}
	return nil
}

func (p *Parser) unexpectedChar(got rune, isEOF bool, context string, startLine int) error {
	return ilerr.New(ilerr.UnexpectedCharError{
		Positions: ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: context},
		Got:       got,
		IsEOF:     isEOF,
	})
}

func (p *Parser) peekOrEOF() (rune, bool) {
	return p.cur.peek()
}

// ParseProgram parses a whole source: an interleaving of definitions and
// top-level statements.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	p.cur.skipWhitespace()
	for {
		r, ok := p.peekOrEOF()
		if !ok {
			break
		}
		if r == symOpenSquare {
			stmt, err := p.parseCut()
			if err != nil {
				return nil, err
			}
			prog.Statements = append(prog.Statements, stmt)
			p.cur.skipWhitespace()
			continue
		}
		startLine := p.cur.currentLine
		if err := p.expect(symOpenParen, astDefOrStmt, startLine); err != nil {
			return nil, err
		}
		word := p.cur.peekWord(3)
		p.cur.unget([]rune{symOpenParen})
		if word == kwDef {
			def, err := p.parseDefinition()
			if err != nil {
				return nil, err
			}
			prog.Definitions = append(prog.Definitions, def)
		} else {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			prog.Statements = append(prog.Statements, stmt)
		}
		p.cur.skipWhitespace()
	}
	return prog, nil
}

func (p *Parser) ParseProducer() (ast.Producer, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	next, ok := p.peekOrEOF()
	if !ok {
		return nil, p.unexpectedChar(0, true, astProducer, startLine)
	}
	if unicode.IsLetter(next) {
		return p.parseVariable()
	}
	if unicode.IsDigit(next) || next == symMinus {
		return p.parseValue()
	}
	if err := p.expect(symOpenParen, astProducer, startLine); err != nil {
		return nil, err
	}
	word := p.cur.peekWord(6)
	p.cur.unget([]rune{symOpenParen})
	switch word {
	case kwMuPAscii, kwMuPUni:
		return p.parseMuP()
	case kwCocase:
		return p.parseCocase()
	default:
		return p.parseConstructor()
	}
}

func (p *Parser) ParseConsumer() (ast.Consumer, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	next, ok := p.peekOrEOF()
	if !ok {
		return nil, p.unexpectedChar(0, true, astConsumer, startLine)
	}
	if unicode.IsLetter(next) {
		return p.parseCovariable()
	}
	if next == rune(kwEnd[0]) {
		return p.parseEnd()
	}
	if err := p.expect(symOpenParen, astConsumer, startLine); err != nil {
		return nil, err
	}
	word := p.cur.peekWord(5)
	p.cur.unget([]rune{symOpenParen})
	switch word {
	case kwMuCAscii, kwMuCUni:
		return p.parseMuC()
	case kwCase:
		return p.parseCase()
	default:
		return p.parseDestructor()
	}
}

func (p *Parser) ParseStatement() (ast.Statement, error) {
	return p.parseStatement()
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if r, ok := p.peekOrEOF(); ok && r == symOpenSquare {
		return p.parseCut()
	}
	if err := p.expect(symOpenParen, astStatement, startLine); err != nil {
		return nil, err
	}
	next, ok := p.peekOrEOF()
	if !ok {
		return nil, p.unexpectedChar(0, true, astStatement, startLine)
	}
	switch next {
	case symPlus, symMinus, symStar, symSlash, symModulo:
		p.cur.unget([]rune{symOpenParen})
		return p.parseArithmetic()
	default:
		if unicode.IsLetter(next) {
			word := p.cur.peekWord(3)
			p.cur.unget([]rune{symOpenParen})
			if word == kwIfz {
				return p.parseIfz()
			}
			return p.parseCall()
		}
		return nil, p.unexpectedChar(next, false, astStatement, startLine)
	}
}

func (p *Parser) parseDefinition() (*ast.Definition, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if err := p.expect(symOpenParen, astDefinition, startLine); err != nil {
		return nil, err
	}
	kw := p.cur.readWord(0)
	if kw != kwDef {
		return nil, p.unexpectedAfterWord(kw, astDefinition, startLine)
	}
	name := p.cur.readWord(0)
	if name == "" {
		return nil, p.unexpectedChar(0, true, astDefinition, startLine)
	}
	if _, exists := p.defIds[name]; exists {
		return nil, ilerr.New(ilerr.DuplicateDefinitionError{
			Positions: ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: astDefinition},
			Name:      name,
		})
	}
	if name == kwIfz {
		return nil, ilerr.New(ilerr.ReservedNameError{
			Positions: ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: astDefinition},
			Name:      name,
		})
	}
	defId := p.nextDefId
	p.nextDefId++
	p.defIds[name] = defId

	argNames, err := p.parseNameList(astParameter)
	if err != nil {
		return nil, err
	}
	coargNames, err := p.parseNameList(astCoparameter)
	if err != nil {
		return nil, err
	}
	argIds := make([]ast.VarId, len(argNames))
	for i, n := range argNames {
		argIds[i] = p.pushVar(n)
	}
	coargIds := make([]ast.CovarId, len(coargNames))
	for i, n := range coargNames {
		coargIds[i] = p.pushCovar(n)
	}
	p.defArity[defId] = arityInfo{arity: len(argIds), coarity: len(coargIds)}
	abstractionId := p.ctx.AddDefinition(name, len(argIds), len(coargIds))

	body, err := p.parseStatement()
	for _, n := range argNames {
		p.popVar(n)
	}
	for _, n := range coargNames {
		p.popCovar(n)
	}
	if err != nil {
		return nil, err
	}
	if err := p.expect(symCloseParen, astDefinition, startLine); err != nil {
		return nil, err
	}
	return &ast.Definition{
		AbstractionId: abstractionId,
		Name:          name,
		ArgNames:      argNames,
		CoargNames:    coargNames,
		ArgIds:        argIds,
		CoargIds:      coargIds,
		Body:          body,
	}, nil
}

func (p *Parser) unexpectedAfterWord(word, context string, startLine int) error {
	if word == "" {
		r, ok := p.peekOrEOF()
		return p.unexpectedChar(r, !ok, context, startLine)
	}
	return p.unexpectedChar(rune(word[0]), false, context, startLine)
}

func (p *Parser) parseVariable() (*ast.Variable, error) {
	name := p.cur.readWord(0)
	if name == "" {
		r, ok := p.peekOrEOF()
		return nil, p.unexpectedChar(r, !ok, astVariable, p.cur.currentLine)
	}
	id, ok := p.varStack(name).Peek()
	if !ok {
		return nil, ilerr.New(ilerr.UnknownNameError{
			Positions:  ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: p.cur.currentLine, Context: astVariable},
			SyntaxKind: astVariable,
			Name:       name,
		})
	}
	return &ast.Variable{VarId: id, Name: name}, nil
}

func (p *Parser) parseValue() (*ast.IntLiteral, error) {
	lit := p.cur.readWord(0)
	if lit == "" {
		r, ok := p.peekOrEOF()
		return nil, p.unexpectedChar(r, !ok, astValue, p.cur.currentLine)
	}
	value, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, ilerr.New(ilerr.InvalidLiteralError{
			Positions: ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: p.cur.currentLine, Context: astValue},
			Literal:   lit,
		})
	}
	return &ast.IntLiteral{Value: value}, nil
}

func (p *Parser) parseMuP() (*ast.Mu, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if err := p.expect(symOpenParen, astMuP, startLine); err != nil {
		return nil, err
	}
	kw := p.cur.readWord(0)
	if kw != kwMuPAscii && kw != kwMuPUni {
		return nil, p.unexpectedAfterWord(kw, astMuP, startLine)
	}
	coargName := p.cur.readWord(0)
	if coargName == "" {
		return nil, p.unexpectedChar(0, true, astMuP, startLine)
	}
	coargId := p.pushCovar(coargName)
	body, err := p.parseStatement()
	p.popCovar(coargName)
	if err != nil {
		return nil, err
	}
	if err := p.expect(symCloseParen, astMuP, startLine); err != nil {
		return nil, err
	}
	return &ast.Mu{CoargId: coargId, CoargName: coargName, Body: body}, nil
}

func (p *Parser) parseConstructor() (*ast.Constructor, error) {
	id, name, args, coargs, err := p.parseStructor(p.ctx.Constructors(), astConstructor)
	if err != nil {
		return nil, err
	}
	return &ast.Constructor{AbstractionId: id, Name: name, Args: args, Coargs: coargs}, nil
}

func (p *Parser) parseCocase() (*ast.Cocase, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if err := p.expect(symOpenParen, astCocase, startLine); err != nil {
		return nil, err
	}
	kw := p.cur.readWord(0)
	if kw != kwCocase {
		return nil, p.unexpectedAfterWord(kw, astCocase, startLine)
	}
	clauses, err := p.parseClauses(producerPolarity, startLine)
	if err != nil {
		return nil, err
	}
	if err := p.expect(symCloseParen, astCocase, startLine); err != nil {
		return nil, err
	}
	return &ast.Cocase{Clauses: clauses}, nil
}

func (p *Parser) parseCovariable() (*ast.Covariable, error) {
	name := p.cur.readWord(0)
	if name == "" {
		r, ok := p.peekOrEOF()
		return nil, p.unexpectedChar(r, !ok, astCovariable, p.cur.currentLine)
	}
	id, ok := p.covarStack(name).Peek()
	if !ok {
		return nil, ilerr.New(ilerr.UnknownNameError{
			Positions:  ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: p.cur.currentLine, Context: astCovariable},
			SyntaxKind: astCovariable,
			Name:       name,
		})
	}
	return &ast.Covariable{CovarId: id, Name: name}, nil
}

func (p *Parser) parseMuC() (*ast.MuTilde, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if err := p.expect(symOpenParen, astMuC, startLine); err != nil {
		return nil, err
	}
	kw := p.cur.readWord(0)
	if kw != kwMuCAscii && kw != kwMuCUni {
		return nil, p.unexpectedAfterWord(kw, astMuC, startLine)
	}
	argName := p.cur.readWord(0)
	if argName == "" {
		return nil, p.unexpectedChar(0, true, astMuC, startLine)
	}
	argId := p.pushVar(argName)
	body, err := p.parseStatement()
	p.popVar(argName)
	if err != nil {
		return nil, err
	}
	if err := p.expect(symCloseParen, astMuC, startLine); err != nil {
		return nil, err
	}
	return &ast.MuTilde{ArgId: argId, ArgName: argName, Body: body}, nil
}

func (p *Parser) parseDestructor() (*ast.Destructor, error) {
	id, name, args, coargs, err := p.parseStructor(p.ctx.Destructors(), astDestructor)
	if err != nil {
		return nil, err
	}
	return &ast.Destructor{AbstractionId: id, Name: name, Args: args, Coargs: coargs}, nil
}

func (p *Parser) parseCase() (*ast.Case, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if err := p.expect(symOpenParen, astCase, startLine); err != nil {
		return nil, err
	}
	kw := p.cur.readWord(0)
	if kw != kwCase {
		return nil, p.unexpectedAfterWord(kw, astCase, startLine)
	}
	clauses, err := p.parseClauses(consumerPolarity, startLine)
	if err != nil {
		return nil, err
	}
	if err := p.expect(symCloseParen, astCase, startLine); err != nil {
		return nil, err
	}
	return &ast.Case{Clauses: clauses}, nil
}

func (p *Parser) parseEnd() (*ast.End, error) {
	p.cur.skipWhitespace()
	kw := p.cur.readWord(0)
	if kw != kwEnd {
		return nil, p.unexpectedAfterWord(kw, astEnd, p.cur.currentLine)
	}
	return &ast.End{}, nil
}

func (p *Parser) parseArithmetic() (*ast.Arithmetic, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if err := p.expect(symOpenParen, astArithmetic, startLine); err != nil {
		return nil, err
	}
	opRune, ok := p.cur.get()
	if !ok {
		return nil, p.unexpectedChar(0, true, astArithmetic, startLine)
	}
	var op ast.ArithmeticOp
	switch opRune {
	case symPlus:
		op = ast.OpAdd
	case symMinus:
		op = ast.OpSub
	case symStar:
		op = ast.OpMul
	case symSlash:
		op = ast.OpDiv
	case symModulo:
		op = ast.OpMod
	default:
		return nil, p.unexpectedChar(opRune, false, astArithmetic, startLine)
	}
	left, err := p.ParseProducer()
	if err != nil {
		return nil, err
	}
	right, err := p.ParseProducer()
	if err != nil {
		return nil, err
	}
	after, err := p.ParseConsumer()
	if err != nil {
		return nil, err
	}
	if err := p.expect(symCloseParen, astArithmetic, startLine); err != nil {
		return nil, err
	}
	return &ast.Arithmetic{Op: op, Left: left, Right: right, After: after}, nil
}

func (p *Parser) parseIfz() (*ast.Ifz, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if err := p.expect(symOpenParen, astIfz, startLine); err != nil {
		return nil, err
	}
	kw := p.cur.readWord(0)
	if kw != kwIfz {
		return nil, p.unexpectedAfterWord(kw, astIfz, startLine)
	}
	cond, err := p.ParseProducer()
	if err != nil {
		return nil, err
	}
	ifZero, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	ifOther, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if err := p.expect(symCloseParen, astIfz, startLine); err != nil {
		return nil, err
	}
	return &ast.Ifz{Cond: cond, IfZero: ifZero, IfOther: ifOther}, nil
}

func (p *Parser) parseCut() (*ast.Cut, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if err := p.expect(symOpenSquare, astCut, startLine); err != nil {
		return nil, err
	}
	prod, err := p.ParseProducer()
	if err != nil {
		return nil, err
	}
	cons, err := p.ParseConsumer()
	if err != nil {
		return nil, err
	}
	if err := p.expect(symCloseSquare, astCut, startLine); err != nil {
		return nil, err
	}
	return &ast.Cut{Producer: prod, Consumer: cons}, nil
}

func (p *Parser) parseCall() (*ast.Call, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if err := p.expect(symOpenParen, astCall, startLine); err != nil {
		return nil, err
	}
	name := p.cur.readWord(0)
	if name == "" {
		return nil, p.unexpectedChar(0, true, astCall, startLine)
	}
	defId, ok := p.defIds[name]
	if !ok {
		return nil, ilerr.New(ilerr.UnknownNameError{
			Positions:  ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: astCall},
			SyntaxKind: astDefinition,
			Name:       name,
		})
	}
	info := p.defArity[defId]
	args, err := p.parseProducerList(astProducer)
	if err != nil {
		return nil, err
	}
	coargs, err := p.parseConsumerList(astConsumer)
	if err != nil {
		return nil, err
	}
	if len(args) != info.arity {
		return nil, ilerr.New(ilerr.ArityMismatchError{
			Positions:  ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: astCall},
			SyntaxName: name, Polarity: ilerr.PolarityProducer, Expected: info.arity, Actual: len(args),
		})
	}
	if len(coargs) != info.coarity {
		return nil, ilerr.New(ilerr.ArityMismatchError{
			Positions:  ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: astCall},
			SyntaxName: name, Polarity: ilerr.PolarityConsumer, Expected: info.coarity, Actual: len(coargs),
		})
	}
	if err := p.expect(symCloseParen, astCall, startLine); err != nil {
		return nil, err
	}
	return &ast.Call{DefId: defId, Name: name, Args: args, Coargs: coargs}, nil
}

type polarity int

const (
	producerPolarity polarity = iota
	consumerPolarity
)

func (p *Parser) parseClause(pol polarity) (*ast.Clause, error) {
	clauseKind := astCocaseClause
	structorKind := astDestructor
	structorIds := p.ctx.Destructors()
	if pol == consumerPolarity {
		clauseKind = astCaseClause
		structorKind = astConstructor
		structorIds = p.ctx.Constructors()
	}
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if err := p.expect(symOpenParen, clauseKind, startLine); err != nil {
		return nil, err
	}
	structorName := p.cur.readWord(0)
	if structorName == "" {
		return nil, p.unexpectedChar(0, true, clauseKind, startLine)
	}
	structorId, ok := structorIds[structorName]
	if !ok {
		return nil, ilerr.New(ilerr.UnknownNameError{
			Positions:  ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: clauseKind},
			SyntaxKind: structorKind, Name: structorName,
		})
	}
	abstraction := p.ctx.GetAbstraction(structorId)

	var argNames []string
	if len(abstraction.Args) > 0 {
		var err error
		argNames, err = p.parseNameList(astParameter)
		if err != nil {
			return nil, err
		}
	}
	if len(argNames) != len(abstraction.Args) {
		return nil, ilerr.New(ilerr.ArityMismatchError{
			Positions:  ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: clauseKind},
			SyntaxName: structorName, Polarity: ilerr.PolarityProducer, Expected: len(abstraction.Args), Actual: len(argNames),
		})
	}
	var coargNames []string
	if len(abstraction.Coargs) > 0 {
		var err error
		coargNames, err = p.parseNameList(astCoparameter)
		if err != nil {
			return nil, err
		}
	}
	if len(coargNames) != len(abstraction.Coargs) {
		return nil, ilerr.New(ilerr.ArityMismatchError{
			Positions:  ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: clauseKind},
			SyntaxName: structorName, Polarity: ilerr.PolarityConsumer, Expected: len(abstraction.Coargs), Actual: len(coargNames),
		})
	}

	argIds := make([]ast.VarId, len(argNames))
	for i, n := range argNames {
		argIds[i] = p.pushVar(n)
	}
	coargIds := make([]ast.CovarId, len(coargNames))
	for i, n := range coargNames {
		coargIds[i] = p.pushCovar(n)
	}
	body, err := p.parseStatement()
	for _, n := range argNames {
		p.popVar(n)
	}
	for _, n := range coargNames {
		p.popCovar(n)
	}
	if err != nil {
		return nil, err
	}
	if err := p.expect(symCloseParen, astClause, startLine); err != nil {
		return nil, err
	}
	return &ast.Clause{
		AbstractionId: structorId,
		StructorName:  structorName,
		ArgNames:      argNames,
		CoargNames:    coargNames,
		ArgIds:        argIds,
		CoargIds:      coargIds,
		Body:          body,
	}, nil
}

func (p *Parser) parseStructor(ids map[string]ast.AbstractionId, kind string) (ast.AbstractionId, string, []ast.Producer, []ast.Consumer, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if err := p.expect(symOpenParen, kind, startLine); err != nil {
		return 0, "", nil, nil, err
	}
	name := p.cur.readWord(0)
	if name == "" {
		return 0, "", nil, nil, p.unexpectedChar(0, true, kind, startLine)
	}
	id, ok := ids[name]
	if !ok {
		return 0, "", nil, nil, ilerr.New(ilerr.UnknownNameError{
			Positions:  ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: kind},
			SyntaxKind: kind, Name: name,
		})
	}
	abstraction := p.ctx.GetAbstraction(id)

	var args []ast.Producer
	if len(abstraction.Args) > 0 {
		var err error
		args, err = p.parseProducerList(astArgument)
		if err != nil {
			return 0, "", nil, nil, err
		}
	}
	if len(args) != len(abstraction.Args) {
		return 0, "", nil, nil, ilerr.New(ilerr.ArityMismatchError{
			Positions:  ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: kind},
			SyntaxName: name, Polarity: ilerr.PolarityProducer, Expected: len(abstraction.Args), Actual: len(args),
		})
	}
	var coargs []ast.Consumer
	if len(abstraction.Coargs) > 0 {
		var err error
		coargs, err = p.parseConsumerList(astCoargument)
		if err != nil {
			return 0, "", nil, nil, err
		}
	}
	if len(coargs) != len(abstraction.Coargs) {
		return 0, "", nil, nil, ilerr.New(ilerr.ArityMismatchError{
			Positions:  ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: kind},
			SyntaxName: name, Polarity: ilerr.PolarityConsumer, Expected: len(abstraction.Coargs), Actual: len(coargs),
		})
	}
	if err := p.expect(symCloseParen, kind, startLine); err != nil {
		return 0, "", nil, nil, err
	}
	return id, name, args, coargs, nil
}

// parseClauses parses a parenthesized, non-empty list of clauses and
// verifies totality: every clause must share the same target data/codata
// type, with no duplicates and no structor of that type missing. The
// "remaining expected structors" bookkeeping uses a short-lived
// github.com/hashicorp/go-set/v3 working set built from the frozen
// immutable.Set the typing context hands back.
func (p *Parser) parseClauses(pol polarity, startLine int) ([]*ast.Clause, error) {
	clauseKind := astCocaseClause
	exprKind := astCocase
	if pol == consumerPolarity {
		clauseKind = astCaseClause
		exprKind = astCase
	}

	list, err := parseList(p, func() (*ast.Clause, error) { return p.parseClause(pol) })
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ilerr.New(ilerr.ClauseListError{
			Positions: ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: exprKind},
			Reason:    fmt.Sprintf("empty %s list", astClause),
		})
	}

	expected := set.New[ast.AbstractionId](8)
	like := p.ctx.StructorsLike(list[0].AbstractionId)
	itr := like.Iterator()
	for !itr.Done() {
		id, _ := itr.Next()
		expected.Insert(id)
	}

	for _, clause := range list {
		if !expected.Contains(clause.AbstractionId) {
			return nil, ilerr.New(ilerr.ClauseListError{
				Positions: ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: exprKind},
				Reason:    fmt.Sprintf("duplicate or mismatched structor: %s", clause.StructorName),
			})
		}
		expected.Remove(clause.AbstractionId)
	}
	if expected.Size() != 0 {
		return nil, ilerr.New(ilerr.ClauseListError{
			Positions: ilerr.Positions{CauseLine: p.cur.currentLine, ContextLine: startLine, Context: exprKind},
			Reason:    fmt.Sprintf("incomplete %s list", clauseKind),
		})
	}
	return list, nil
}

// parseList parses a parenthesized, possibly-empty, whitespace-separated
// list using elem to parse each item. It is a free function rather than a
// method because Go methods cannot carry their own type parameters.
func parseList[T any](p *Parser, elem func() (T, error)) ([]T, error) {
	p.cur.skipWhitespace()
	startLine := p.cur.currentLine
	if err := p.expect(symOpenParen, astProducer, startLine); err != nil {
		return nil, err
	}
	var items []T
	for {
		p.cur.skipWhitespace()
		r, ok := p.peekOrEOF()
		if ok && r == symCloseParen {
			p.cur.get()
			break
		}
		if !ok {
			return nil, p.unexpectedChar(0, true, astProducer, startLine)
		}
		item, err := elem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (p *Parser) parseNameList(context string) ([]string, error) {
	return parseList(p, func() (string, error) {
		name := p.cur.readWord(0)
		if name == "" {
			r, ok := p.peekOrEOF()
			return "", p.unexpectedChar(r, !ok, context, p.cur.currentLine)
		}
		return name, nil
	})
}

func (p *Parser) parseProducerList(context string) ([]ast.Producer, error) {
	return parseList(p, func() (ast.Producer, error) { return p.ParseProducer() })
}

func (p *Parser) parseConsumerList(context string) ([]ast.Consumer, error) {
	return parseList(p, func() (ast.Consumer, error) { return p.ParseConsumer() })
}
