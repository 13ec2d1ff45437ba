package oracles

import "loadvec/internal/ir"

// SimpleAliasOracle is a reference AliasOracle: two locations provably
// don't alias either when their underlying objects are provably distinct
// (two different roots recorded as a pair via MarkDistinct) or when they
// share an underlying object but their byte ranges are disjoint.
// Anything else — same object with overlapping or unknown-extent ranges,
// or two objects this engine can't prove distinct — is conservatively
// may-alias.
type SimpleAliasOracle struct {
	// DistinctRoots lists pairs of root values known to never alias (e.g.
	// two function parameters marked `noalias`, or two separate stack
	// allocations). Reference-only: a real alias analysis derives this
	// from pointer provenance instead of being told.
	DistinctRoots map[[2]*ir.Value]bool
}

func NewSimpleAliasOracle() *SimpleAliasOracle {
	return &SimpleAliasOracle{DistinctRoots: make(map[[2]*ir.Value]bool)}
}

// MarkDistinct records that a and b are provably distinct roots.
func (o *SimpleAliasOracle) MarkDistinct(a, b *ir.Value) {
	o.DistinctRoots[[2]*ir.Value{a, b}] = true
	o.DistinctRoots[[2]*ir.Value{b, a}] = true
}

func (o *SimpleAliasOracle) NoAlias(a, b ir.MemLoc) bool {
	if a.Object != b.Object {
		if o.DistinctRoots[[2]*ir.Value{a.Object, b.Object}] {
			return true
		}
		return false
	}
	if a.Size < 0 || b.Size < 0 {
		return false
	}
	aEnd := a.Offset + a.Size
	bEnd := b.Offset + b.Size
	return aEnd <= b.Offset || bEnd <= a.Offset
}
