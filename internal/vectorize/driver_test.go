package vectorize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loadvec/internal/ir"
	"loadvec/internal/oracles"
	"loadvec/internal/vectorize"
)

func newAnalyses(fn *ir.Function) *vectorize.Analyses {
	layout := oracles.NewSimpleDataLayout(64)
	return &vectorize.Analyses{
		Alias:  oracles.NewSimpleAliasOracle(),
		SCEV:   oracles.NewSimpleSCEV(),
		Dom:    oracles.BuildDominatorTree(fn),
		Target: oracles.NewSimpleTargetInfo(128),
		Layout: layout,
		Known:  oracles.NewSimpleKnownBits(layout),
		Object: oracles.GetUnderlyingObject,
	}
}

// buildTwoLoads returns `%a = load i32 [p+0]; %b = load i32 [p+1]` in one
// block: two adjacent i32 loads that should fold into one <2 x i32> load.
func buildTwoLoads(t *testing.T) (*ir.Function, *ir.Value, *ir.Value) {
	t.Helper()
	fn, b := ir.NewFunctionBuilder("sum")
	i32 := &ir.IntType{Bits: 32}
	ptrTy := &ir.PointerType{ElemType: i32, AddrSpace: 0}
	p := b.Param("p", ptrTy)

	zero := b.CreateConstantInt("c0", i32, 0)
	one := b.CreateConstantInt("c1", i32, 1)
	g0 := b.CreateGEP("g0", i32, 0, p, true, zero)
	g1 := b.CreateGEP("g1", i32, 0, p, true, one)
	a := b.CreateLoad("a", i32, g0, 4, 0)
	bb := b.CreateLoad("b", i32, g1, 4, 0)
	sum := b.CreateBinary("s", i32, "+", a, bb, false, false)
	b.Ret(sum)
	return fn, a, bb
}

func TestDriverVectorizesConsecutiveLoads(t *testing.T) {
	fn, a, bLoad := buildTwoLoads(t)
	driver := vectorize.NewDriver(newAnalyses(fn))

	changed, err := driver.Run(fn)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, driver.Counters.VectorInstructions)
	assert.Equal(t, 2, driver.Counters.ScalarsVectorized)

	entry := fn.Entry()
	var loads, wideLoads int
	for _, inst := range entry.Instructions {
		load, ok := inst.(*ir.LoadInst)
		if !ok {
			continue
		}
		loads++
		if load.Result.Type.IsVector() {
			wideLoads++
		}
	}
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, wideLoads)

	// The original loads' results must no longer be directly defined by a
	// scalar load still in the block (they were erased and replaced).
	assert.NotContains(t, entry.Instructions, a.Def)
	assert.NotContains(t, entry.Instructions, bLoad.Def)
}

func TestDriverVectorizesConsecutiveStores(t *testing.T) {
	fn, b := ir.NewFunctionBuilder("fill")
	i32 := &ir.IntType{Bits: 32}
	ptrTy := &ir.PointerType{ElemType: i32, AddrSpace: 0}
	p := b.Param("p", ptrTy)
	zero := b.CreateConstantInt("c0", i32, 0)
	one := b.CreateConstantInt("c1", i32, 1)
	v0 := b.CreateConstantInt("v0", i32, 10)
	v1 := b.CreateConstantInt("v1", i32, 20)
	g0 := b.CreateGEP("g0", i32, 0, p, true, zero)
	g1 := b.CreateGEP("g1", i32, 0, p, true, one)
	b.CreateStore(v0, g0, 4, 0)
	b.CreateStore(v1, g1, 4, 0)
	b.Ret(nil)

	driver := vectorize.NewDriver(newAnalyses(fn))
	changed, err := driver.Run(fn)
	require.NoError(t, err)
	assert.True(t, changed)

	entry := fn.Entry()
	var stores int
	for _, inst := range entry.Instructions {
		st, ok := inst.(*ir.StoreInst)
		if !ok {
			continue
		}
		stores++
		assert.True(t, st.Val.Type.IsVector())
	}
	assert.Equal(t, 1, stores)
}

func TestDriverSkipsNoImplicitFloatFunctions(t *testing.T) {
	fn, _, _ := buildTwoLoads(t)
	fn.NoImplicitFloat = true
	before := ir.PrintFunction(fn)

	driver := vectorize.NewDriver(newAnalyses(fn))
	changed, err := driver.Run(fn)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, ir.PrintFunction(fn))
}

func TestDriverIsIdempotent(t *testing.T) {
	fn, _, _ := buildTwoLoads(t)
	driver := vectorize.NewDriver(newAnalyses(fn))

	changed1, err := driver.Run(fn)
	require.NoError(t, err)
	require.True(t, changed1)

	after1 := ir.PrintFunction(fn)
	changed2, err := vectorize.NewDriver(newAnalyses(fn)).Run(fn)
	require.NoError(t, err)
	assert.False(t, changed2)
	assert.Equal(t, after1, ir.PrintFunction(fn))
}

// TestDriverRejectsWhenInterveningStoreMayAlias checks that a store to an
// unrelated, possibly-aliasing object between two loads blocks the fold.
func TestDriverRejectsWhenInterveningStoreMayAlias(t *testing.T) {
	fn, b := ir.NewFunctionBuilder("f")
	i32 := &ir.IntType{Bits: 32}
	ptrTy := &ir.PointerType{ElemType: i32, AddrSpace: 0}
	p := b.Param("p", ptrTy)
	other := b.Param("other", ptrTy)
	zero := b.CreateConstantInt("c0", i32, 0)
	one := b.CreateConstantInt("c1", i32, 1)
	g0 := b.CreateGEP("g0", i32, 0, p, true, zero)
	g1 := b.CreateGEP("g1", i32, 0, p, true, one)

	a := b.CreateLoad("a", i32, g0, 4, 0)
	v := b.CreateConstantInt("v", i32, 1)
	b.CreateStore(v, other, 4, 0) // unknown-root store: conservatively may-alias
	bb := b.CreateLoad("b", i32, g1, 4, 0)
	sum := b.CreateBinary("s", i32, "+", a, bb, false, false)
	b.Ret(sum)

	driver := vectorize.NewDriver(newAnalyses(fn))
	changed, err := driver.Run(fn)
	require.NoError(t, err)
	assert.False(t, changed)
}

// TestDriverRaisesStackAllocAlignment checks that a chain whose required
// byte count isn't aligned to the pointer's declared alignment is
// accepted when the underlying object is a stack allocation (its
// alignment gets raised), by constructing two halves of an i32 pair at
// align 1 that can't assemble into an 8-byte access without the raise.
func TestDriverRaisesStackAllocAlignment(t *testing.T) {
	fn, b := ir.NewFunctionBuilder("f")
	i32 := &ir.IntType{Bits: 32}
	slot := b.CreateAlloca("slot", &ir.VectorType{ElemType: i32, Len: 2}, 1)
	zero := b.CreateConstantInt("c0", i32, 0)
	one := b.CreateConstantInt("c1", i32, 1)
	g0 := b.CreateGEP("g0", i32, 0, slot, true, zero)
	g1 := b.CreateGEP("g1", i32, 0, slot, true, one)
	a := b.CreateLoad("a", i32, g0, 1, 0)
	bb := b.CreateLoad("b", i32, g1, 1, 0)
	sum := b.CreateBinary("s", i32, "+", a, bb, false, false)
	b.Ret(sum)

	driver := vectorize.NewDriver(newAnalyses(fn))
	changed, err := driver.Run(fn)
	require.NoError(t, err)
	assert.True(t, changed)

	alloca := slot.Def.(*ir.AllocaInst)
	assert.GreaterOrEqual(t, alloca.Align, 4)
}

// TestDriverRejectsGlobalAlignmentRaise checks the negative case: a
// global's alignment may never be raised, so a misaligned-by-declaration
// chain rooted at a global is rejected outright rather than silently
// widened.
func TestDriverRejectsGlobalAlignmentRaise(t *testing.T) {
	fn, b := ir.NewFunctionBuilder("f")
	i32 := &ir.IntType{Bits: 32}
	mod := &ir.Module{}
	g := mod.NewGlobal("slot", &ir.VectorType{ElemType: i32, Len: 2}, 1, 0)
	zero := b.CreateConstantInt("c0", i32, 0)
	one := b.CreateConstantInt("c1", i32, 1)
	g0 := b.CreateGEP("g0", i32, 0, g, true, zero)
	g1 := b.CreateGEP("g1", i32, 0, g, true, one)
	b.CreateLoad("a", i32, g0, 1, 0)
	b.CreateLoad("b", i32, g1, 1, 0)
	b.Ret(nil)

	driver := vectorize.NewDriver(newAnalyses(fn))
	changed, err := driver.Run(fn)
	require.NoError(t, err)
	assert.False(t, changed)
}

// TestDriverVectorizesConsecutiveVectorValuedStores checks that a chain of
// stores whose stored values are themselves vectors (not scalars) folds
// correctly: each member contributes its own lanes to the wider store
// rather than being treated as a single opaque element.
func TestDriverVectorizesConsecutiveVectorValuedStores(t *testing.T) {
	fn, b := ir.NewFunctionBuilder("fillPairs")
	i32 := &ir.IntType{Bits: 32}
	pairTy := &ir.VectorType{ElemType: i32, Len: 2}
	ptrTy := &ir.PointerType{ElemType: pairTy, AddrSpace: 0}
	p := b.Param("p", ptrTy)
	zero := b.CreateConstantInt("c0", i32, 0)
	one := b.CreateConstantInt("c1", i32, 1)
	g0 := b.CreateGEP("g0", pairTy, 0, p, true, zero)
	g1 := b.CreateGEP("g1", pairTy, 0, p, true, one)

	buildPair := func(name string, lo, hi int64) *ir.Value {
		undef := b.CreateUndef(name+".undef", pairTy)
		loVal := b.CreateConstantInt(name+".lo", i32, lo)
		hiVal := b.CreateConstantInt(name+".hi", i32, hi)
		v := b.CreateInsertElement(name+".ins0", undef, loVal, 0)
		return b.CreateInsertElement(name+".ins1", v, hiVal, 1)
	}
	vecA := buildPair("a", 1, 2)
	vecB := buildPair("b", 3, 4)
	b.CreateStore(vecA, g0, 8, 0)
	b.CreateStore(vecB, g1, 8, 0)
	b.Ret(nil)

	driver := vectorize.NewDriver(newAnalyses(fn))
	changed, err := driver.Run(fn)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, driver.Counters.VectorInstructions)
	assert.Equal(t, 2, driver.Counters.ScalarsVectorized)

	entry := fn.Entry()
	var stores int
	for _, inst := range entry.Instructions {
		st, ok := inst.(*ir.StoreInst)
		if !ok {
			continue
		}
		stores++
		vt, ok := st.Val.Type.(*ir.VectorType)
		require.True(t, ok)
		assert.Equal(t, 4, vt.Len)
	}
	assert.Equal(t, 1, stores)
}
