package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/kieli-lang/kieli/internal/cst"
	"github.com/kieli-lang/kieli/internal/source"
)

// Formatter formats kieli source code, grounded on the teacher's
// internal/format/formatter.go (same buffer/indent-tracking shape), re-
// pointed from that package's compiler/lexer+compiler/parser AST onto this
// module's internal/cst.Tree: formatting walks the CST directly rather
// than an AST. Comments and blank lines are not reproduced in the output.
type Formatter struct {
	config *Config
	buf    *bytes.Buffer
	indent int
	tree   *cst.Tree
}

// New creates a new Formatter with the given configuration.
func New(config *Config) *Formatter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Formatter{config: config, buf: new(bytes.Buffer)}
}

// Format parses source and returns its canonically re-rendered form.
func (f *Formatter) Format(src string) (string, error) {
	db := source.NewDatabase()
	id := db.OpenDocument("<format>", src)
	doc := db.Document(id)
	tree := cst.ParseProgram(doc)
	if doc.HasErrors() {
		return "", fmt.Errorf("parse errors: %v", doc.Diagnostics)
	}

	f.buf.Reset()
	f.indent = 0
	f.tree = tree

	root := tree.Get(tree.Root)
	for i, def := range root.Children {
		if i > 0 {
			f.buf.WriteString("\n")
		}
		f.writeIndent()
		f.formatDef(def)
		f.buf.WriteString("\n")
	}
	return f.buf.String(), nil
}

func (f *Formatter) writeIndent() {
	f.buf.WriteString(strings.Repeat(" ", f.indent*f.config.IndentSize))
}

func (f *Formatter) node(id cst.NodeId) cst.Node {
	return f.tree.Get(id)
}

// formatDef renders one top-level (or module-body) definition.
func (f *Formatter) formatDef(id cst.NodeId) {
	n := f.node(id)
	switch n.Kind {
	case cst.KindFnDef:
		f.formatFnDef(n)
	case cst.KindStructDef:
		f.formatStructDef(n)
	case cst.KindEnumDef:
		f.formatEnumDef(n)
	case cst.KindAliasDef:
		f.formatAliasDef(n)
	case cst.KindConceptDef:
		f.formatConceptDef(n)
	case cst.KindImplDef:
		f.formatImplDef(n)
	case cst.KindModuleDef:
		f.formatModuleDef(n)
	case cst.KindImportDef:
		f.formatImportDef(n)
	default:
		f.buf.WriteString(n.Text)
	}
}

func (f *Formatter) splitTemplateAndRest(children []cst.NodeId) (templates, rest []cst.NodeId) {
	i := 0
	for i < len(children) && f.node(children[i]).Kind == cst.KindTemplateParameter {
		i++
	}
	return children[:i], children[i:]
}

func (f *Formatter) formatTemplateParams(templates []cst.NodeId) string {
	if len(templates) == 0 {
		return ""
	}
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = f.node(t).Text
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func (f *Formatter) formatFnDef(n cst.Node) {
	templates, rest := f.splitTemplateAndRest(n.Children)

	hasRet := len(n.Aux) > 0 && n.Aux[0].Present
	body := rest[len(rest)-1]
	rest = rest[:len(rest)-1]
	var ret cst.NodeId
	if hasRet {
		ret = rest[len(rest)-1]
		rest = rest[:len(rest)-1]
	}
	params := rest // remaining children are KindParameter nodes

	f.buf.WriteString("fn ")
	f.buf.WriteString(n.Text)
	f.buf.WriteString(f.formatTemplateParams(templates))
	f.buf.WriteString("(")
	for i, p := range params {
		if i > 0 {
			f.buf.WriteString(", ")
		}
		f.formatParameter(f.node(p))
	}
	f.buf.WriteString(")")
	if hasRet {
		f.buf.WriteString(" -> ")
		f.formatType(ret)
	}
	f.buf.WriteString(" ")
	f.formatExpr(body)
}

func (f *Formatter) formatParameter(p cst.Node) {
	f.buf.WriteString(p.Text)
	f.buf.WriteString(": ")
	f.formatType(p.Children[0])
	if len(p.Aux) > 0 && p.Aux[0].Present {
		f.buf.WriteString(" = ")
		f.formatExpr(p.Children[1])
	}
}

func (f *Formatter) formatStructDef(n cst.Node) {
	templates, fields := f.splitTemplateAndRest(n.Children)
	f.buf.WriteString("struct ")
	f.buf.WriteString(n.Text)
	f.buf.WriteString(f.formatTemplateParams(templates))
	f.buf.WriteString(" {")
	if len(fields) == 0 {
		f.buf.WriteString("}")
		return
	}
	f.buf.WriteString("\n")
	f.indent++
	for _, fld := range fields {
		fn := f.node(fld)
		f.writeIndent()
		f.buf.WriteString(fn.Text)
		f.buf.WriteString(": ")
		f.formatType(fn.Children[0])
		f.buf.WriteString(",\n")
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteString("}")
}

func (f *Formatter) formatEnumDef(n cst.Node) {
	templates, cases := f.splitTemplateAndRest(n.Children)
	f.buf.WriteString("enum ")
	f.buf.WriteString(n.Text)
	f.buf.WriteString(f.formatTemplateParams(templates))
	f.buf.WriteString(" {")
	if len(cases) == 0 {
		f.buf.WriteString("}")
		return
	}
	f.buf.WriteString("\n")
	f.indent++
	for _, c := range cases {
		cn := f.node(c)
		f.writeIndent()
		f.buf.WriteString(cn.Text)
		if len(cn.Children) > 0 {
			f.buf.WriteString("(")
			for i, t := range cn.Children {
				if i > 0 {
					f.buf.WriteString(", ")
				}
				f.formatType(t)
			}
			f.buf.WriteString(")")
		}
		f.buf.WriteString(",\n")
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteString("}")
}

func (f *Formatter) formatAliasDef(n cst.Node) {
	templates, rest := f.splitTemplateAndRest(n.Children)
	f.buf.WriteString("alias ")
	f.buf.WriteString(n.Text)
	f.buf.WriteString(f.formatTemplateParams(templates))
	f.buf.WriteString(" = ")
	f.formatType(rest[0])
}

func (f *Formatter) formatConceptDef(n cst.Node) {
	f.buf.WriteString("concept ")
	f.buf.WriteString(n.Text)
	f.buf.WriteString(" {")
	if len(n.Children) == 0 {
		f.buf.WriteString("}")
		return
	}
	f.buf.WriteString("\n")
	f.indent++
	for _, sig := range n.Children {
		f.writeIndent()
		f.formatDef(sig)
		f.buf.WriteString("\n")
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteString("}")
}

func (f *Formatter) formatImplDef(n cst.Node) {
	templates, rest := f.splitTemplateAndRest(n.Children)
	selfType := rest[0]
	members := rest[1:]
	f.buf.WriteString("impl ")
	f.buf.WriteString(f.formatTemplateParams(templates))
	if len(templates) > 0 {
		f.buf.WriteString(" ")
	}
	f.formatType(selfType)
	f.buf.WriteString(" {")
	if len(members) == 0 {
		f.buf.WriteString("}")
		return
	}
	f.buf.WriteString("\n")
	f.indent++
	for _, m := range members {
		f.writeIndent()
		f.formatDef(m)
		f.buf.WriteString("\n")
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteString("}")
}

func (f *Formatter) formatModuleDef(n cst.Node) {
	f.buf.WriteString("module ")
	f.buf.WriteString(n.Text)
	f.buf.WriteString(" {")
	if len(n.Children) == 0 {
		f.buf.WriteString("}")
		return
	}
	f.buf.WriteString("\n")
	f.indent++
	for _, d := range n.Children {
		f.writeIndent()
		f.formatDef(d)
		f.buf.WriteString("\n")
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteString("}")
}

func (f *Formatter) formatImportDef(n cst.Node) {
	if n.Text == "export" {
		f.buf.WriteString("export import ")
	} else {
		f.buf.WriteString("import ")
	}
	segs := make([]string, len(n.Children))
	for i, s := range n.Children {
		segs[i] = f.node(s).Text
	}
	f.buf.WriteString(strings.Join(segs, "::"))
	f.buf.WriteString(";")
}

// formatType renders a type node as kieli surface syntax directly from the
// CST, mirroring internal/tooling.FormatType's switch but over cst.Kind
// rather than hir.Type since a formatter runs before resolution.
func (f *Formatter) formatType(id cst.NodeId) {
	n := f.node(id)
	switch n.Kind {
	case cst.KindNamedType:
		f.buf.WriteString(n.Text)
		if len(n.Children) > 0 {
			f.buf.WriteString("[")
			for i, a := range n.Children {
				if i > 0 {
					f.buf.WriteString(", ")
				}
				f.formatType(a)
			}
			f.buf.WriteString("]")
		}
	case cst.KindArrayType:
		f.buf.WriteString("[")
		f.formatType(n.Children[0])
		f.buf.WriteString("; ")
		f.formatExpr(n.Children[1])
		f.buf.WriteString("]")
	case cst.KindSliceType:
		f.buf.WriteString("[")
		f.formatType(n.Children[0])
		f.buf.WriteString("]")
	case cst.KindReferenceType:
		f.buf.WriteString("&")
		f.formatType(n.Children[len(n.Children)-1])
	case cst.KindPointerType:
		f.buf.WriteString("*")
		f.formatType(n.Children[len(n.Children)-1])
	case cst.KindTupleType:
		f.buf.WriteString("(")
		for i, e := range n.Children {
			if i > 0 {
				f.buf.WriteString(", ")
			}
			f.formatType(e)
		}
		f.buf.WriteString(")")
	case cst.KindTypeofType:
		f.buf.WriteString("typeof(")
		f.formatExpr(n.Children[0])
		f.buf.WriteString(")")
	case cst.KindFunctionType:
		hasRet := n.Text == "ret"
		params := n.Children
		var ret cst.NodeId
		if hasRet {
			ret = params[len(params)-1]
			params = params[:len(params)-1]
		}
		f.buf.WriteString("fn(")
		for i, p := range params {
			if i > 0 {
				f.buf.WriteString(", ")
			}
			f.formatType(p)
		}
		f.buf.WriteString(")")
		if hasRet {
			f.buf.WriteString(" -> ")
			f.formatType(ret)
		}
	default:
		f.buf.WriteString(n.Text)
	}
}

// formatExpr renders an expression (or a block statement) node.
func (f *Formatter) formatExpr(id cst.NodeId) {
	n := f.node(id)
	switch n.Kind {
	case cst.KindIntLiteral, cst.KindFloatLiteral, cst.KindStringLiteral,
		cst.KindCharLiteral, cst.KindBoolLiteral, cst.KindUnderscoreExpr:
		f.buf.WriteString(n.Text)
	case cst.KindPathExpr:
		f.formatPath(n)
	case cst.KindParenExpr:
		f.buf.WriteString("(")
		f.formatExpr(n.Children[0])
		f.buf.WriteString(")")
	case cst.KindTupleExpr:
		f.buf.WriteString("(")
		for i, e := range n.Children {
			if i > 0 {
				f.buf.WriteString(", ")
			}
			f.formatExpr(e)
		}
		f.buf.WriteString(")")
	case cst.KindBlockExpr:
		f.formatBlock(n)
	case cst.KindUnaryExpr, cst.KindReferenceExpr, cst.KindDerefExpr:
		f.buf.WriteString(n.Text)
		f.formatExpr(n.Children[0])
	case cst.KindBinaryExpr, cst.KindAssignExpr:
		f.formatExpr(n.Children[0])
		f.buf.WriteString(" ")
		f.buf.WriteString(n.Text)
		f.buf.WriteString(" ")
		f.formatExpr(n.Children[1])
	case cst.KindCallExpr:
		f.formatExpr(n.Children[0])
		f.buf.WriteString("(")
		for i, a := range n.Children[1:] {
			if i > 0 {
				f.buf.WriteString(", ")
			}
			f.formatExpr(a)
		}
		f.buf.WriteString(")")
	case cst.KindFieldExpr:
		f.formatExpr(n.Children[0])
		f.buf.WriteString(".")
		f.buf.WriteString(n.Text)
	case cst.KindMethodCallExpr:
		f.formatExpr(n.Children[0])
		f.buf.WriteString(".")
		f.buf.WriteString(n.Text)
		f.buf.WriteString("(")
		for i, a := range n.Children[1:] {
			if i > 0 {
				f.buf.WriteString(", ")
			}
			f.formatExpr(a)
		}
		f.buf.WriteString(")")
	case cst.KindIfExpr:
		f.formatIf(n)
	case cst.KindIfLetExpr:
		f.formatIfLet(n)
	case cst.KindWhileExpr:
		f.buf.WriteString("while ")
		f.formatExpr(n.Children[0])
		f.buf.WriteString(" ")
		f.formatExpr(n.Children[1])
	case cst.KindWhileLetExpr:
		f.buf.WriteString("while let ")
		f.formatPattern(n.Children[0])
		f.buf.WriteString(" = ")
		f.formatExpr(n.Children[1])
		f.buf.WriteString(" ")
		f.formatExpr(n.Children[2])
	case cst.KindLoopExpr:
		f.buf.WriteString("loop ")
		f.formatExpr(n.Children[0])
	case cst.KindBreakExpr:
		f.buf.WriteString("break")
		if len(n.Children) > 0 {
			f.buf.WriteString(" ")
			f.formatExpr(n.Children[0])
		}
	case cst.KindContinueExpr:
		f.buf.WriteString("continue")
	case cst.KindReturnExpr:
		f.buf.WriteString("ret")
		if len(n.Children) > 0 {
			f.buf.WriteString(" ")
			f.formatExpr(n.Children[0])
		}
	case cst.KindMatchExpr:
		f.formatMatch(n)
	case cst.KindLetExpr:
		f.formatLet(n)
	case cst.KindDiscardExpr:
		f.buf.WriteString("_")
	case cst.KindTypeofExpr:
		f.buf.WriteString("typeof(")
		f.formatExpr(n.Children[0])
		f.buf.WriteString(")")
	case cst.KindSizeofExpr:
		f.buf.WriteString("sizeof(")
		f.formatType(n.Children[0])
		f.buf.WriteString(")")
	default:
		f.buf.WriteString(n.Text)
	}
}

func (f *Formatter) formatPath(n cst.Node) {
	if len(n.Children) == 0 {
		f.buf.WriteString(n.Text)
		return
	}
	segs := make([]string, len(n.Children))
	for i, s := range n.Children {
		segs[i] = f.node(s).Text
	}
	f.buf.WriteString(strings.Join(segs, "::"))
}

func (f *Formatter) formatBlock(n cst.Node) {
	f.buf.WriteString("{")
	if len(n.Children) == 0 {
		f.buf.WriteString("}")
		return
	}
	f.buf.WriteString("\n")
	f.indent++
	for _, s := range n.Children {
		f.writeIndent()
		f.formatExpr(s)
		f.buf.WriteString(";\n")
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteString("}")
}

func (f *Formatter) formatIf(n cst.Node) {
	children := n.Children
	f.buf.WriteString("if ")
	f.formatExpr(children[0])
	f.buf.WriteString(" ")
	f.formatExpr(children[1])
	if len(children) > 2 {
		f.buf.WriteString(" else ")
		f.formatExpr(children[2])
	}
}

func (f *Formatter) formatIfLet(n cst.Node) {
	children := n.Children
	f.buf.WriteString("if let ")
	f.formatPattern(children[0])
	f.buf.WriteString(" = ")
	f.formatExpr(children[1])
	f.buf.WriteString(" ")
	f.formatExpr(children[2])
	if len(children) > 3 {
		f.buf.WriteString(" else ")
		f.formatExpr(children[3])
	}
}

func (f *Formatter) formatMatch(n cst.Node) {
	subject, arms := n.Children[0], n.Children[1:]
	f.buf.WriteString("match ")
	f.formatExpr(subject)
	f.buf.WriteString(" {")
	if len(arms) == 0 {
		f.buf.WriteString("}")
		return
	}
	f.buf.WriteString("\n")
	f.indent++
	for _, arm := range arms {
		an := f.node(arm)
		f.writeIndent()
		f.formatPattern(an.Children[0])
		f.buf.WriteString(" -> ")
		f.formatExpr(an.Children[1])
		f.buf.WriteString(",\n")
	}
	f.indent--
	f.writeIndent()
	f.buf.WriteString("}")
}

func (f *Formatter) formatLet(n cst.Node) {
	hasType := len(n.Aux) > 0 && n.Aux[0].Present
	children := n.Children
	f.buf.WriteString("let ")
	f.formatPattern(children[0])
	idx := 1
	if hasType {
		f.buf.WriteString(": ")
		f.formatType(children[1])
		idx = 2
	}
	f.buf.WriteString(" = ")
	f.formatExpr(children[idx])
}

func (f *Formatter) formatPattern(id cst.NodeId) {
	n := f.node(id)
	switch n.Kind {
	case cst.KindWildcardPattern:
		f.buf.WriteString("_")
	case cst.KindLiteralPattern:
		f.buf.WriteString(n.Text)
	case cst.KindNamePattern:
		if len(n.Aux) > 0 && n.Aux[0].Present {
			f.buf.WriteString("mut ")
		}
		f.buf.WriteString(n.Text)
	case cst.KindTuplePattern:
		f.buf.WriteString("(")
		for i, e := range n.Children {
			if i > 0 {
				f.buf.WriteString(", ")
			}
			f.formatPattern(e)
		}
		f.buf.WriteString(")")
	case cst.KindPathPattern:
		path := n.Children[0]
		f.formatExpr(path)
		args := n.Children[1:]
		if len(args) > 0 {
			f.buf.WriteString("(")
			for i, a := range args {
				if i > 0 {
					f.buf.WriteString(", ")
				}
				f.formatPattern(a)
			}
			f.buf.WriteString(")")
		}
	default:
		f.buf.WriteString(n.Text)
	}
}

// FormatFile formats the file at path (used by cmd/kieli's fmt subcommand).
func FormatFile(config *Config, src string) (string, bool, error) {
	out, err := New(config).Format(src)
	if err != nil {
		return "", false, err
	}
	return out, out != src, nil
}
