package vectorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loadvec/internal/ir"
	"loadvec/internal/oracles"
)

func testAnalyses(fn *ir.Function) *Analyses {
	layout := oracles.NewSimpleDataLayout(64)
	return &Analyses{
		Alias:  oracles.NewSimpleAliasOracle(),
		SCEV:   oracles.NewSimpleSCEV(),
		Dom:    oracles.BuildDominatorTree(fn),
		Target: oracles.NewSimpleTargetInfo(128),
		Layout: layout,
		Known:  oracles.NewSimpleKnownBits(layout),
		Object: oracles.GetUnderlyingObject,
	}
}

func TestConsecutiveConstantOffsetGEPs(t *testing.T) {
	fn, b := ir.NewFunctionBuilder("f")
	i32 := &ir.IntType{Bits: 32}
	p := b.Param("p", &ir.PointerType{ElemType: i32, AddrSpace: 0})
	zero := b.CreateConstantInt("c0", i32, 0)
	one := b.CreateConstantInt("c1", i32, 1)
	g0 := b.CreateGEP("g0", i32, 0, p, true, zero)
	g1 := b.CreateGEP("g1", i32, 0, p, true, one)
	la := b.CreateLoad("a", i32, g0, 4, 0)
	lb := b.CreateLoad("b", i32, g1, 4, 0)

	oracle := newConsecutivityOracle(testAnalyses(fn))
	ma, _ := probe(la.Def)
	mb, _ := probe(lb.Def)
	assert.True(t, oracle.consecutive(ma, mb))
	assert.False(t, oracle.consecutive(mb, ma))
}

func TestConsecutiveRejectsMismatchedAddressSpace(t *testing.T) {
	fn, b := ir.NewFunctionBuilder("f")
	i32 := &ir.IntType{Bits: 32}
	p := b.Param("p", &ir.PointerType{ElemType: i32, AddrSpace: 1})
	zero := b.CreateConstantInt("c0", i32, 0)
	one := b.CreateConstantInt("c1", i32, 1)
	g0 := b.CreateGEP("g0", i32, 0, p, true, zero)
	g1 := b.CreateGEP("g1", i32, 1, p, true, one)
	la := b.CreateLoad("a", i32, g0, 4, 0)
	lb := b.CreateLoad("b", i32, g1, 4, 1)

	oracle := newConsecutivityOracle(testAnalyses(fn))
	ma, _ := probe(la.Def)
	mb, _ := probe(lb.Def)
	assert.False(t, oracle.consecutive(ma, mb))
}

// TestConsecutiveStructuralProbeProvesViaNoSignedWrapFlag checks that two
// GEPs indexed by sext(i)/sext(i+1 nsw) are recognized as consecutive even
// though neither index is a compile-time constant.
func TestConsecutiveStructuralProbeProvesViaNoSignedWrapFlag(t *testing.T) {
	fn, b := ir.NewFunctionBuilder("f")
	i32 := &ir.IntType{Bits: 32}
	i64 := &ir.IntType{Bits: 64}
	p := b.Param("p", &ir.PointerType{ElemType: i32, AddrSpace: 0})
	i := b.Param("i", i32)
	one := b.CreateConstantInt("one", i32, 1)
	iPlus1 := b.CreateBinary("iplus1", i32, "+", i, one, true, false)
	sextI := b.CreateSExt("sexti", i64, i)
	sextIPlus1 := b.CreateSExt("sextiplus1", i64, iPlus1)
	g0 := b.CreateGEP("g0", i32, 0, p, true, sextI)
	g1 := b.CreateGEP("g1", i32, 0, p, true, sextIPlus1)
	la := b.CreateLoad("a", i32, g0, 4, 0)
	lb := b.CreateLoad("b", i32, g1, 4, 0)

	oracle := newConsecutivityOracle(testAnalyses(fn))
	ma, _ := probe(la.Def)
	mb, _ := probe(lb.Def)
	require.True(t, oracle.consecutive(ma, mb))
}

// TestConsecutiveStructuralProbeRejectsMismatchedCastKind exercises the
// negative half: sext on one side and zext on the other never prove
// consecutiveness regardless of the underlying arithmetic.
func TestConsecutiveStructuralProbeRejectsMismatchedCastKind(t *testing.T) {
	fn, b := ir.NewFunctionBuilder("f")
	i32 := &ir.IntType{Bits: 32}
	i64 := &ir.IntType{Bits: 64}
	p := b.Param("p", &ir.PointerType{ElemType: i32, AddrSpace: 0})
	i := b.Param("i", i32)
	one := b.CreateConstantInt("one", i32, 1)
	iPlus1 := b.CreateBinary("iplus1", i32, "+", i, one, true, true)
	sextI := b.CreateSExt("sexti", i64, i)
	zextIPlus1 := b.CreateZExt("zextiplus1", i64, iPlus1)
	g0 := b.CreateGEP("g0", i32, 0, p, true, sextI)
	g1 := b.CreateGEP("g1", i32, 0, p, true, zextIPlus1)
	la := b.CreateLoad("a", i32, g0, 4, 0)
	lb := b.CreateLoad("b", i32, g1, 4, 0)

	oracle := newConsecutivityOracle(testAnalyses(fn))
	ma, _ := probe(la.Def)
	mb, _ := probe(lb.Def)
	assert.False(t, oracle.consecutive(ma, mb))
}
