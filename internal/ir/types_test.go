package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntTypeString(t *testing.T) {
	assert.Equal(t, "i32", (&IntType{Bits: 32}).String())
	assert.Equal(t, "i8", (&IntType{Bits: 8}).String())
}

func TestVectorTypeSizeInBits(t *testing.T) {
	vt := &VectorType{ElemType: &IntType{Bits: 32}, Len: 4}
	assert.Equal(t, 128, vt.SizeInBits())
	assert.True(t, vt.IsVector())
}

func TestPointerTypeString(t *testing.T) {
	pt := &PointerType{ElemType: &IntType{Bits: 32}, AddrSpace: 0}
	assert.Equal(t, "i32*", pt.String())

	pt1 := &PointerType{ElemType: &IntType{Bits: 32}, AddrSpace: 1}
	assert.Equal(t, "i32 addrspace(1)*", pt1.String())
}

func TestScalarElemType(t *testing.T) {
	i32 := &IntType{Bits: 32}
	assert.Equal(t, i32, ScalarElemType(i32))

	vt := &VectorType{ElemType: i32, Len: 3}
	assert.Equal(t, i32, ScalarElemType(vt))
}

func TestIsValidVectorElement(t *testing.T) {
	assert.True(t, IsValidVectorElement(&IntType{Bits: 32}))
	assert.True(t, IsValidVectorElement(&FloatType{Bits: 32}))
	assert.True(t, IsValidVectorElement(&PointerType{ElemType: &IntType{Bits: 8}}))
	assert.False(t, IsValidVectorElement(&VectorType{ElemType: &IntType{Bits: 32}, Len: 2}))
}

func TestTypesIdentical(t *testing.T) {
	assert.True(t, TypesIdentical(&IntType{Bits: 32}, &IntType{Bits: 32}))
	assert.False(t, TypesIdentical(&IntType{Bits: 32}, &IntType{Bits: 64}))
	assert.False(t, TypesIdentical(&IntType{Bits: 32}, &FloatType{Bits: 32}))

	p1 := &PointerType{ElemType: &IntType{Bits: 32}, AddrSpace: 0}
	p2 := &PointerType{ElemType: &IntType{Bits: 32}, AddrSpace: 0}
	p3 := &PointerType{ElemType: &IntType{Bits: 32}, AddrSpace: 1}
	assert.True(t, TypesIdentical(p1, p2))
	assert.False(t, TypesIdentical(p1, p3))
}
