package oracles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loadvec/internal/ir"
)

func TestGetUnderlyingObjectPeelsGEPsAndBitCasts(t *testing.T) {
	_, b := ir.NewFunctionBuilder("f")
	i32 := &ir.IntType{Bits: 32}
	base := b.Param("base", &ir.PointerType{ElemType: i32, AddrSpace: 0})
	idx := b.CreateConstantInt("idx", i32, 1)
	gep := b.CreateGEP("gep", i32, 0, base, true, idx)
	cast := b.CreateBitCast("cast", &ir.PointerType{ElemType: i32, AddrSpace: 0}, gep)

	assert.Equal(t, base, GetUnderlyingObject(cast))
	assert.Equal(t, base, GetUnderlyingObject(gep))
	assert.Equal(t, base, GetUnderlyingObject(base))
}

func TestSimpleSCEVRecognizesConstantOffsets(t *testing.T) {
	_, b := ir.NewFunctionBuilder("f")
	i32 := &ir.IntType{Bits: 32}
	i := b.Param("i", i32)
	one := b.CreateConstantInt("one", i32, 1)
	iPlus1 := b.CreateBinary("iplus1", i32, "+", i, one, true, false)

	s := NewSimpleSCEV()
	base := s.SCEV(i)
	expected := s.Add(base, s.Constant(1))
	assert.True(t, expected.Equal(s.SCEV(iPlus1)))
}

func TestSimpleSCEVSeesThroughExtension(t *testing.T) {
	_, b := ir.NewFunctionBuilder("f")
	i32 := &ir.IntType{Bits: 32}
	i64 := &ir.IntType{Bits: 64}
	i := b.Param("i", i32)
	sext := b.CreateSExt("sexti", i64, i)

	s := NewSimpleSCEV()
	assert.True(t, s.SCEV(i).Equal(s.SCEV(sext)))
}

func TestKnownBitsZExtExposesHighZeroBits(t *testing.T) {
	_, b := ir.NewFunctionBuilder("f")
	i32 := &ir.IntType{Bits: 32}
	i64 := &ir.IntType{Bits: 64}
	i := b.Param("i", i32)
	zext := b.CreateZExt("zexti", i64, i)

	kb := NewSimpleKnownBits(NewSimpleDataLayout(64))
	zero, _ := kb.Compute(zext, zext.Def)
	assert.True(t, HasZeroHighBitOtherThanSign(zero, 64))
}

func TestKnownBitsConstantIsExact(t *testing.T) {
	_, b := ir.NewFunctionBuilder("f")
	i8 := &ir.IntType{Bits: 8}
	c := b.CreateConstantInt("c", i8, 5) // 0b0000_0101

	kb := NewSimpleKnownBits(NewSimpleDataLayout(64))
	zero, one := kb.Compute(c, c.Def)
	assert.Equal(t, uint64(5), one)
	assert.Equal(t, uint64(0xFA), zero)
}

func TestSimpleAliasOracleDisjointRangesDontAlias(t *testing.T) {
	_, b := ir.NewFunctionBuilder("f")
	base := b.Param("p", &ir.PointerType{ElemType: &ir.IntType{Bits: 32}, AddrSpace: 0})

	o := NewSimpleAliasOracle()
	a := ir.MemLoc{Object: base, Offset: 0, Size: 4}
	c := ir.MemLoc{Object: base, Offset: 4, Size: 4}
	overlap := ir.MemLoc{Object: base, Offset: 2, Size: 4}

	assert.True(t, o.NoAlias(a, c))
	assert.False(t, o.NoAlias(a, overlap))
}

func TestSimpleAliasOracleDistinctRoots(t *testing.T) {
	_, b := ir.NewFunctionBuilder("f")
	p1 := b.Param("p1", &ir.PointerType{ElemType: &ir.IntType{Bits: 32}, AddrSpace: 0})
	p2 := b.Param("p2", &ir.PointerType{ElemType: &ir.IntType{Bits: 32}, AddrSpace: 0})

	o := NewSimpleAliasOracle()
	a := ir.MemLoc{Object: p1, Size: -1}
	c := ir.MemLoc{Object: p2, Size: -1}
	assert.False(t, o.NoAlias(a, c)) // unknown roots: conservative may-alias

	o.MarkDistinct(p1, p2)
	assert.True(t, o.NoAlias(a, c))
}

func TestDominatorTreeLinearBlocks(t *testing.T) {
	fn, b := ir.NewFunctionBuilder("f")
	entry := b.Block()
	mid := fn.NewBlock("mid")
	end := fn.NewBlock("end")

	b.Br(mid)
	b.SetBlock(mid)
	b.Br(end)
	b.SetBlock(end)
	b.Ret(nil)

	dt := BuildDominatorTree(fn)
	require.True(t, dt.BlockDominates(entry, mid))
	require.True(t, dt.BlockDominates(entry, end))
	require.True(t, dt.BlockDominates(mid, end))
	require.False(t, dt.BlockDominates(end, mid))
}

func TestDominatorTreeDiamond(t *testing.T) {
	fn, b := ir.NewFunctionBuilder("f")
	entry := b.Block()
	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	join := fn.NewBlock("join")

	cond := b.CreateConstantInt("cond", &ir.IntType{Bits: 1}, 1)
	b.CondBr(cond, left, right)
	b.SetBlock(left)
	b.Br(join)
	b.SetBlock(right)
	b.Br(join)
	b.SetBlock(join)
	b.Ret(nil)

	dt := BuildDominatorTree(fn)
	assert.True(t, dt.BlockDominates(entry, join))
	assert.False(t, dt.BlockDominates(left, join))
	assert.False(t, dt.BlockDominates(right, join))
}
