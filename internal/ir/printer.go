package ir

import (
	"fmt"
	"strings"
)

// Printer provides pretty-printing for IR functions: an indent-tracking
// strings.Builder plus writeLine/write helpers, rendering "function +
// basic blocks" text.
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new IR printer.
func NewPrinter() *Printer { return &Printer{} }

// PrintFunction returns the textual form of fn.
func PrintFunction(fn *Function) string {
	p := NewPrinter()
	p.printFunction(fn)
	return p.output.String()
}

// PrintModule returns the textual form of every global and function in m.
func PrintModule(m *Module) string {
	p := NewPrinter()
	for _, g := range m.Globals {
		p.printGlobal(g)
	}
	if len(m.Globals) > 0 && len(m.Functions) > 0 {
		p.writeLine("")
	}
	for i, fn := range m.Functions {
		if i > 0 {
			p.writeLine("")
		}
		p.printFunction(fn)
	}
	return p.output.String()
}

func (p *Printer) printGlobal(g *Value) {
	attrs := ""
	if g.Global.Align != 0 {
		attrs += fmt.Sprintf(", align %d", g.Global.Align)
	}
	if g.Global.AddrSpace != 0 {
		attrs += fmt.Sprintf(" addrspace(%d)", g.Global.AddrSpace)
	}
	p.writeLine("global @%s : %s%s", g.Global.Name, g.Global.ElemType, attrs)
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printFunction(fn *Function) {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = fmt.Sprintf("%s %%%s", param.Type, param.Name)
	}
	ret := "void"
	if fn.ReturnType != nil {
		ret = fn.ReturnType.String()
	}
	attrs := ""
	if fn.NoImplicitFloat {
		attrs = " noimplicitfloat"
	}
	p.writeLine("func @%s(%s) -> %s%s {", fn.Name, strings.Join(params, ", "), ret, attrs)
	p.indent++
	for _, block := range fn.Blocks {
		p.writeLine("%s:", block.Label)
		p.indent++
		for _, inst := range block.Instructions {
			p.writeLine("%s", inst.String())
		}
		if block.Terminator != nil {
			p.writeLine("%s", block.Terminator.String())
		}
		p.indent--
	}
	p.indent--
	p.writeLine("}")
}
