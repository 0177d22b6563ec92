// Package ilerr defines the typed error hierarchy shared by the parser,
// typer and interpreter: ParseError, TypeError and RuntimeError, each with
// a stable ErrCode a programmatic caller can switch on, independent of the
// human-readable message.
package ilerr

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/pkg/errors"
)

// ErrCode identifies the kind of a LammmError independently of its message.
type ErrCode int

const (
	None ErrCode = iota
	// parse errors
	UnexpectedChar
	UnknownName
	ArityMismatch
	DuplicateDefinition
	ReservedName
	ClauseList
	InvalidLiteral
	// type errors
	OccursCheck
	TypeMismatch
	// runtime errors
	StuckComputation
	InterpreterReused
)

// LammmError is implemented by every concrete error in this package.
type LammmError interface {
	error
	Code() ErrCode

	withStack([]byte) LammmError
	getStack() []byte
}

// New attaches a stack trace captured at the call site to err and returns it
// as a LammmError. The stack is captured once, at construction, not on every
// propagation.
func New[E LammmError](err E) LammmError {
	return err.withStack(debug.Stack())
}

// FormatWithCode renders e as "(E%03d) message", prefixed with the call site
// of New when a stack trace was attached.
func FormatWithCode(e LammmError) string {
	if stack := e.getStack(); stack != nil {
		lines := strings.Split(string(stack), "\n")
		if len(lines) > 6 {
			return fmt.Sprintf("%s:(E%03d) %s", strings.TrimSpace(lines[6]), e.Code(), e.Error())
		}
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

// Positions records the line a failure was detected on and the line of the
// syntactic construct that was being parsed when it happened, matching the
// parser's "cause line" / "context line" pair.
type Positions struct {
	CauseLine   int
	ContextLine int
	Context     string
}

func (p Positions) describe() string {
	if p.CauseLine == p.ContextLine {
		return fmt.Sprintf("on line %d, while parsing a %s", p.CauseLine, p.Context)
	}
	return fmt.Sprintf("on line %d, while parsing a %s (starting on line %d)", p.CauseLine, p.Context, p.ContextLine)
}

// --- ParseError kinds -------------------------------------------------

// UnexpectedCharError reports an unexpected byte (or EOF) while parsing.
type UnexpectedCharError struct {
	Positions
	Got   rune
	IsEOF bool
	stack []byte
}

func (e UnexpectedCharError) Error() string {
	if e.IsEOF {
		return fmt.Sprintf("%s: unexpected end of input", e.describe())
	}
	return fmt.Sprintf("%s: unexpected '%c'", e.describe(), e.Got)
}
func (e UnexpectedCharError) Code() ErrCode    { return UnexpectedChar }
func (e UnexpectedCharError) getStack() []byte { return e.stack }
func (e UnexpectedCharError) withStack(s []byte) LammmError {
	e.stack = s
	return e
}

// UnknownNameError reports a use of a variable, covariable, definition or
// structor name with no matching binder or registry entry.
type UnknownNameError struct {
	Positions
	SyntaxKind string
	Name       string
	stack      []byte
}

func (e UnknownNameError) Error() string {
	return fmt.Sprintf("%s: unknown %s: %s", e.describe(), e.SyntaxKind, e.Name)
}
func (e UnknownNameError) Code() ErrCode    { return UnknownName }
func (e UnknownNameError) getStack() []byte { return e.stack }
func (e UnknownNameError) withStack(s []byte) LammmError {
	e.stack = s
	return e
}

// Polarity distinguishes the producer (arity) side from the consumer
// (coarity) side of an arity mismatch.
type Polarity int

const (
	PolarityProducer Polarity = iota
	PolarityConsumer
)

// ArityMismatchError reports a structor or call applied with the wrong
// number of arguments or coarguments.
type ArityMismatchError struct {
	Positions
	SyntaxName string
	Polarity   Polarity
	Expected   int
	Actual     int
	stack      []byte
}

func (e ArityMismatchError) Error() string {
	word := "arity"
	if e.Polarity == PolarityConsumer {
		word = "coarity"
	}
	return fmt.Sprintf("%s: %s mismatch: %s expects %d, got %d", e.describe(), word, e.SyntaxName, e.Expected, e.Actual)
}
func (e ArityMismatchError) Code() ErrCode    { return ArityMismatch }
func (e ArityMismatchError) getStack() []byte { return e.stack }
func (e ArityMismatchError) withStack(s []byte) LammmError {
	e.stack = s
	return e
}

// DuplicateDefinitionError reports a second definition sharing a name with
// an earlier one.
type DuplicateDefinitionError struct {
	Positions
	Name  string
	stack []byte
}

func (e DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("%s: repeated definition of %s", e.describe(), e.Name)
}
func (e DuplicateDefinitionError) Code() ErrCode    { return DuplicateDefinition }
func (e DuplicateDefinitionError) getStack() []byte { return e.stack }
func (e DuplicateDefinitionError) withStack(s []byte) LammmError {
	e.stack = s
	return e
}

// ReservedNameError reports an attempt to use a reserved keyword (currently
// only "ifz") as a definition name.
type ReservedNameError struct {
	Positions
	Name  string
	stack []byte
}

func (e ReservedNameError) Error() string {
	return fmt.Sprintf("%s: %s is a reserved name", e.describe(), e.Name)
}
func (e ReservedNameError) Code() ErrCode    { return ReservedName }
func (e ReservedNameError) getStack() []byte { return e.stack }
func (e ReservedNameError) withStack(s []byte) LammmError {
	e.stack = s
	return e
}

// ClauseListError reports a case/cocase clause list that is empty,
// mismatched against another structor's type, duplicated or incomplete.
type ClauseListError struct {
	Positions
	Reason string
	stack  []byte
}

func (e ClauseListError) Error() string {
	return fmt.Sprintf("%s: %s", e.describe(), e.Reason)
}
func (e ClauseListError) Code() ErrCode    { return ClauseList }
func (e ClauseListError) getStack() []byte { return e.stack }
func (e ClauseListError) withStack(s []byte) LammmError {
	e.stack = s
	return e
}

// InvalidLiteralError reports an integer literal that did not fully parse.
type InvalidLiteralError struct {
	Positions
	Literal string
	stack   []byte
}

func (e InvalidLiteralError) Error() string {
	return fmt.Sprintf("%s: invalid integer literal: %s", e.describe(), e.Literal)
}
func (e InvalidLiteralError) Code() ErrCode    { return InvalidLiteral }
func (e InvalidLiteralError) getStack() []byte { return e.stack }
func (e InvalidLiteralError) withStack(s []byte) LammmError {
	e.stack = s
	return e
}

// --- TypeError kinds ---------------------------------------------------

// OccursCheckError reports that unifying a type variable with a type would
// create an infinite type.
type OccursCheckError struct {
	Context string
	stack   []byte
}

func (e OccursCheckError) Error() string {
	return fmt.Sprintf("while checking %s: occurs check failed", e.Context)
}
func (e OccursCheckError) Code() ErrCode    { return OccursCheck }
func (e OccursCheckError) getStack() []byte { return e.stack }
func (e OccursCheckError) withStack(s []byte) LammmError {
	e.stack = s
	return e
}

// TypeMismatchError reports that two concrete type constructors disagree.
type TypeMismatchError struct {
	Context  string
	First    string
	Second   string
	stack    []byte
	Cause    error
}

func (e TypeMismatchError) Error() string {
	msg := fmt.Sprintf("while checking %s: type mismatch: expected %s, found %s", e.Context, e.First, e.Second)
	if e.Cause != nil {
		return fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}
func (e TypeMismatchError) Code() ErrCode    { return TypeMismatch }
func (e TypeMismatchError) getStack() []byte { return e.stack }
func (e TypeMismatchError) withStack(s []byte) LammmError {
	e.stack = s
	return e
}

// MultiTypeError aggregates every TypeError produced by one typer pass: the
// typer does not stop at the first failure.
type MultiTypeError []LammmError

func (m MultiTypeError) Error() string {
	parts := make([]string, len(m))
	for i, e := range m {
		parts[i] = FormatWithCode(e)
	}
	return strings.Join(parts, "\n")
}
func (m MultiTypeError) HasErrors() bool { return len(m) > 0 }

// --- RuntimeError kinds -------------------------------------------------

// StuckComputationError reports that reduction reached a statement matching
// no reduction rule.
type StuckComputationError struct {
	Rendered string
	stack    []byte
}

func (e StuckComputationError) Error() string {
	return fmt.Sprintf("stuck computation: %s", e.Rendered)
}
func (e StuckComputationError) Code() ErrCode    { return StuckComputation }
func (e StuckComputationError) getStack() []byte { return e.stack }
func (e StuckComputationError) withStack(s []byte) LammmError {
	e.stack = s
	return e
}

// InterpreterReusedError reports a second Run on a single-use interpreter.
type InterpreterReusedError struct {
	stack []byte
}

func (e InterpreterReusedError) Error() string { return "interpreter has already run" }
func (e InterpreterReusedError) Code() ErrCode { return InterpreterReused }
func (e InterpreterReusedError) getStack() []byte { return e.stack }
func (e InterpreterReusedError) withStack(s []byte) LammmError {
	e.stack = s
	return e
}

// Wrap attaches a stack trace to a plain error for places that need to
// cross into the LammmError world from a standard library failure (for
// example os.Open). It is not part of the kind hierarchy above and callers
// should prefer errors.As against the concrete kinds where possible.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, context)
}
