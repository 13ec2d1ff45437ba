// Package oracles provides reference, host-independent implementations of
// the external analyses the core pass consumes as inputs: alias analysis,
// scalar evolution, dominator trees, target-transform-info, data layout,
// and known-bits. A real compiler would inject its own
// implementations behind these same interfaces; these are the ones this
// repo's own tests and cmd/loadvec-cli use, and are not part of the core
// pass (internal/vectorize never reaches past the interfaces into this
// package's internals).
package oracles

import "loadvec/internal/ir"

// AliasOracle answers whether two memory locations can ever refer to
// overlapping memory.
type AliasOracle interface {
	// NoAlias reports true only when a and b are provably disjoint.
	NoAlias(a, b ir.MemLoc) bool
}

// SCEVExpr is a symbolic expression over SSA values, closed under
// addition and constants — enough to express "induction variable plus
// constant offset", the only shape the consecutivity cascade's
// scalar-evolution step needs to recognize.
type SCEVExpr interface {
	// Equal reports structural equality with another SCEVExpr.
	Equal(other SCEVExpr) bool
	String() string
}

// ScalarEvolution computes closed-form symbolic expressions for values.
type ScalarEvolution interface {
	SCEV(v *ir.Value) SCEVExpr
	Add(a, b SCEVExpr) SCEVExpr
	Constant(c int64) SCEVExpr
}

// DominatorTree answers dominance queries within one function.
type DominatorTree interface {
	Dominates(def, use ir.Instruction) bool
}

// TargetTransformInfo reports hardware limits that gate vectorization
// width.
type TargetTransformInfo interface {
	// VecRegBitWidth is the maximum number of bits the target can move in
	// one wide load/store instruction for the given address space.
	VecRegBitWidth(addrSpace int) int
}

// DataLayout answers size/alignment queries about types.
type DataLayout interface {
	PointerSizeInBits(addrSpace int) int
	TypeStoreSize(t ir.Type) int64 // bytes
	ABITypeAlignment(t ir.Type) int // bytes
	TypeSizeInBits(t ir.Type) int
}

// KnownBits reports, for a value at a point dominated by ref, which bits
// are provably zero and which are provably one.
type KnownBits interface {
	Compute(v *ir.Value, ref ir.Instruction) (zero, one uint64)
}
