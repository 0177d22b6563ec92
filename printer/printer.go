// Package printer renders a Program, or any single node of it, back into
// the grammar's surface syntax. It exists for tracing ("--trace") and for
// rendering stuck-computation diagnostics; it is not a parser inverse in
// the formal sense (no attempt is made to reuse the original source's
// whitespace), but re-parsing its output reproduces an alpha-equivalent
// tree.
package printer

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/lammm/lammm/ast"
)

// Printer renders nodes using either the ASCII ("mu"/"mu'") or Unicode
// ("μ"/"μ'") spelling of the two binders.
type Printer struct {
	ascii bool
}

// New builds a Printer. ascii selects "mu"/"mu'" over "μ"/"μ'".
func New(ascii bool) *Printer {
	return &Printer{ascii: ascii}
}

func (pr *Printer) muP() string {
	if pr.ascii {
		return "mu"
	}
	return "μ"
}

func (pr *Printer) muC() string {
	if pr.ascii {
		return "mu'"
	}
	return "μ'"
}

// Program renders every definition then every statement, one per line.
func (pr *Printer) Program(prog *ast.Program) string {
	var sb strings.Builder
	for _, def := range prog.Definitions {
		sb.WriteString(pr.Definition(def))
		sb.WriteByte('\n')
	}
	for _, s := range prog.Statements {
		sb.WriteString(pr.Statement(s))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (pr *Printer) Definition(def *ast.Definition) string {
	return fmt.Sprintf("(def %s (%s) (%s) %s)",
		def.Name, strings.Join(def.ArgNames, " "), strings.Join(def.CoargNames, " "), pr.Statement(def.Body))
}

func (pr *Printer) Producer(p ast.Producer) string {
	switch n := p.(type) {
	case *ast.Variable:
		return n.Name
	case *ast.IntLiteral:
		return fmt.Sprintf("%d", n.Value)
	case *ast.Mu:
		return fmt.Sprintf("(%s %s %s)", pr.muP(), n.CoargName, pr.Statement(n.Body))
	case *ast.Constructor:
		return pr.structor(n.Name, n.Args, n.Coargs)
	case *ast.Cocase:
		return fmt.Sprintf("(cocase %s)", pr.clauses(n.Clauses))
	default:
		return "<?producer?>"
	}
}

func (pr *Printer) Consumer(c ast.Consumer) string {
	switch n := c.(type) {
	case *ast.Covariable:
		return n.Name
	case *ast.MuTilde:
		return fmt.Sprintf("(%s %s %s)", pr.muC(), n.ArgName, pr.Statement(n.Body))
	case *ast.Destructor:
		return pr.structor(n.Name, n.Args, n.Coargs)
	case *ast.Case:
		return fmt.Sprintf("(case %s)", pr.clauses(n.Clauses))
	case *ast.End:
		return "<END>"
	default:
		return "<?consumer?>"
	}
}

func (pr *Printer) structor(name string, args []ast.Producer, coargs []ast.Consumer) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(name)
	if len(args) > 0 {
		sb.WriteString(" (")
		for i, a := range args {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(pr.Producer(a))
		}
		sb.WriteByte(')')
	}
	if len(coargs) > 0 {
		sb.WriteString(" (")
		for i, co := range coargs {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(pr.Consumer(co))
		}
		sb.WriteByte(')')
	}
	sb.WriteByte(')')
	return sb.String()
}

// clauses renders a case/cocase's arms in a canonical, structor-name-sorted
// order: totality makes the parsed order immaterial, and sorting keeps
// re-renderings of the same clause set byte-identical regardless of how the
// source happened to list them.
func (pr *Printer) clauses(clauses []*ast.Clause) string {
	sorted := slices.Clone(clauses)
	slices.SortFunc(sorted, func(a, b *ast.Clause) int { return strings.Compare(a.StructorName, b.StructorName) })
	parts := make([]string, len(sorted))
	for i, cl := range sorted {
		var names []string
		if len(cl.ArgNames) > 0 {
			names = append(names, "("+strings.Join(cl.ArgNames, " ")+")")
		}
		if len(cl.CoargNames) > 0 {
			names = append(names, "("+strings.Join(cl.CoargNames, " ")+")")
		}
		parts[i] = fmt.Sprintf("(%s %s %s)", cl.StructorName, strings.Join(names, " "), pr.Statement(cl.Body))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (pr *Printer) Statement(s ast.Statement) string {
	switch n := s.(type) {
	case *ast.Arithmetic:
		return fmt.Sprintf("(%s %s %s %s)", n.Op.String(), pr.Producer(n.Left), pr.Producer(n.Right), pr.Consumer(n.After))
	case *ast.Ifz:
		return fmt.Sprintf("(ifz %s %s %s)", pr.Producer(n.Cond), pr.Statement(n.IfZero), pr.Statement(n.IfOther))
	case *ast.Cut:
		return fmt.Sprintf("[%s %s]", pr.Producer(n.Producer), pr.Consumer(n.Consumer))
	case *ast.Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = pr.Producer(a)
		}
		coargs := make([]string, len(n.Coargs))
		for i, co := range n.Coargs {
			coargs[i] = pr.Consumer(co)
		}
		return fmt.Sprintf("(%s (%s) (%s))", n.Name, strings.Join(args, " "), strings.Join(coargs, " "))
	default:
		return "<?statement?>"
	}
}
