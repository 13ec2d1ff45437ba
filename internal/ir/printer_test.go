package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintFunctionIncludesSignatureAndBlocks(t *testing.T) {
	fn, b := NewFunctionBuilder("addone")
	i32 := &IntType{Bits: 32}
	p := b.Param("p", &PointerType{ElemType: i32, AddrSpace: 0})
	v := b.CreateLoad("v", i32, p, 4, 0)
	b.Ret(v)

	out := PrintFunction(fn)
	assert.True(t, strings.Contains(out, "func @addone"))
	assert.True(t, strings.Contains(out, "entry:"))
	assert.True(t, strings.Contains(out, "load i32"))
	assert.True(t, strings.Contains(out, "ret %v"))
}

func TestPrintFunctionMarksNoImplicitFloat(t *testing.T) {
	fn, _ := NewFunctionBuilder("f")
	fn.NoImplicitFloat = true
	fn.Entry().Terminator = &RetTerm{}

	out := PrintFunction(fn)
	assert.True(t, strings.Contains(out, "noimplicitfloat"))
}
