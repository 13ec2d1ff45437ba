// Package vectorize implements the core load/store vectorization pass: a
// single-function, single-threaded rewrite that folds consecutive scalar
// loads and stores into wide vector memory ops. It is deliberately blind to
// how its external analyses are computed — internal/oracles supplies one
// concrete set, but this package only ever reaches through the interfaces
// re-exported below, keeping internal/ir's host-data model separate from
// the analyses that consume it.
package vectorize

import (
	"loadvec/internal/ir"
	"loadvec/internal/oracles"
)

// The interfaces below alias internal/oracles's so call sites in this
// package read in the pass's own vocabulary (AliasOracle, not
// oracles.AliasOracle) without this package ever depending on
// internal/oracles's concrete types.
type (
	AliasOracle         = oracles.AliasOracle
	ScalarEvolution     = oracles.ScalarEvolution
	SCEVExpr            = oracles.SCEVExpr
	DominatorTree       = oracles.DominatorTree
	TargetTransformInfo = oracles.TargetTransformInfo
	DataLayout          = oracles.DataLayout
	KnownBits           = oracles.KnownBits
)

// Analyses bundles the external oracles one run of the pass needs, plus the
// pointer-peeling utility, so NewDriver takes one argument instead of seven.
type Analyses struct {
	Alias   AliasOracle
	SCEV    ScalarEvolution
	Dom     DominatorTree
	Target  TargetTransformInfo
	Layout  DataLayout
	Known   KnownBits
	Object  func(p *ir.Value) *ir.Value // getUnderlyingObject
}
