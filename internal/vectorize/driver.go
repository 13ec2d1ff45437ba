package vectorize

import (
	"loadvec/internal/ir"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("loadvec.vectorize")

// Counters are the pass's two headline statistics. A real pass manager
// would own these; here they live on the Driver so a single process can run
// the pass over many functions/modules and see cumulative totals.
type Counters struct {
	VectorInstructions int
	ScalarsVectorized  int
}

// Driver orchestrates one `run(function)` call: collect, build chains,
// legalize, check legality, and rewrite, in that order, first for loads
// then for stores, per basic block, in post-order of the CFG.
type Driver struct {
	Analyses *Analyses
	Counters Counters
}

func NewDriver(an *Analyses) *Driver {
	return &Driver{Analyses: an}
}

// Run executes the pass on fn, returning whether any instruction was
// rewritten. Host-invariant violations surface as a non-nil error instead
// of a panic escaping this call.
func (d *Driver) Run(fn *ir.Function) (changed bool, err error) {
	defer recoverPassError(&err)

	if fn.NoImplicitFloat {
		log.Debugf("%s: no-implicit-float function, skipping", fn.Name)
		return false, nil
	}

	oracle := newConsecutivityOracle(d.Analyses)
	legalizer := newLegalizer(d.Analyses)
	legality := newLegalityChecker(d.Analyses.Alias, d.Analyses.Object)
	rw := newRewriter(d.Analyses, fn, &d.Counters.VectorInstructions, &d.Counters.ScalarsVectorized)

	before := d.Counters.VectorInstructions
	for _, block := range postOrderBlocks(fn) {
		if d.runOnBlock(block, oracle, legalizer, legality, rw) {
			changed = true
		}
	}
	log.Infof("%s: processed, %d vector instruction(s) formed", fn.Name, d.Counters.VectorInstructions-before)
	return changed, nil
}

// runOnBlock processes loads then stores, independently: a load chain and
// a store chain never interact, so each vectorized set is scoped to its
// own kind.
func (d *Driver) runOnBlock(block *ir.BasicBlock, oracle *consecutivityOracle, lz *legalizer, lc *legalityChecker, rw *rewriter) bool {
	bundles := collect(block, d.Analyses)
	changed := false

	vectorizedLoads := make(map[ir.Instruction]bool)
	vectorizedStores := make(map[ir.Instruction]bool)

	for _, b := range bundles {
		if d.vectorizeKind(block, b.loads, oracle, lz, lc, rw, vectorizedLoads) {
			changed = true
		}
	}
	for _, b := range bundles {
		if d.vectorizeKind(block, b.stores, oracle, lz, lc, rw, vectorizedStores) {
			changed = true
		}
	}
	return changed
}

func (d *Driver) vectorizeKind(block *ir.BasicBlock, ops []memOp, oracle *consecutivityOracle, lz *legalizer, lc *legalityChecker, rw *rewriter, vectorized map[ir.Instruction]bool) bool {
	if len(ops) < 2 {
		return false
	}
	changed := false
	chains := buildChains(ops, oracle, toGenericVectorized(vectorized))
	for _, c := range chains {
		log.Debugf("%s: chain formed with %d member(s)", block.Label, len(c.ops))
		if anyVectorized(c, vectorized) {
			continue
		}
		shapes := lz.legalize(c)
		if len(shapes) == 0 {
			log.Debugf("%s: chain at %v rejected by legalizer", block.Label, c.ops[0].inst.GetID())
			continue
		}
		for _, shape := range shapes {
			if len(shape.ops) < 2 {
				continue
			}
			if !lc.legal(block, &chain{ops: shape.ops}) {
				log.Debugf("%s: chain at %v rejected by legality checker", block.Label, shape.ops[0].inst.GetID())
				continue
			}
			toErase := rw.rewrite(block, shape)
			for _, inst := range toErase {
				vectorized[inst] = true
				block.Remove(inst)
			}
			changed = true
		}
	}
	return changed
}

func anyVectorized(c *chain, vectorized map[ir.Instruction]bool) bool {
	for _, m := range c.ops {
		if vectorized[m.inst] {
			return true
		}
	}
	return false
}

// toGenericVectorized adapts the typed vectorized set to chain.go's
// interface{}-keyed map (ChainBuilder's successor walk only needs identity
// membership, not the instruction's static type).
func toGenericVectorized(vectorized map[ir.Instruction]bool) map[interface{}]bool {
	generic := make(map[interface{}]bool, len(vectorized))
	for k, v := range vectorized {
		generic[k] = v
	}
	return generic
}

// postOrderBlocks walks fn's CFG from the entry block in post-order, so a
// block's successors are always analyzed (and any legalization within them
// settled) before the block itself, consistent with how the dominator tree
// and known-bits oracle expect blocks to be visited.
func postOrderBlocks(fn *ir.Function) []*ir.BasicBlock {
	entry := fn.Entry()
	if entry == nil {
		return nil
	}
	var order []*ir.BasicBlock
	visited := make(map[*ir.BasicBlock]bool)
	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range b.Succs {
			visit(s)
		}
		order = append(order, b)
	}
	visit(entry)
	return order
}
