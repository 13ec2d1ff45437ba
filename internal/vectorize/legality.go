package vectorize

import "loadvec/internal/ir"

// legalityChecker verifies that no aliasing or side-effecting op between a
// chain's first and last member forbids reordering it to the rewrite's
// insertion point (the last member).
type legalityChecker struct {
	alias  AliasOracle
	object func(p *ir.Value) *ir.Value
}

func newLegalityChecker(alias AliasOracle, object func(p *ir.Value) *ir.Value) *legalityChecker {
	return &legalityChecker{alias: alias, object: object}
}

// legal scans block[firstIdx:lastIdx] (inclusive-exclusive, the positions
// of c's first and last members in program order) for intervening memory
// or side-effecting ops, and pairwise-checks each against every chain
// member.
func (lc *legalityChecker) legal(block *ir.BasicBlock, c *chain) bool {
	firstIdx := block.IndexOf(c.ops[0].inst)
	lastIdx := block.IndexOf(c.ops[len(c.ops)-1].inst)
	invariant("legality", firstIdx >= 0 && lastIdx >= 0, "chain member not found in block %s", block.Label)
	inChain := make(map[ir.Instruction]bool, len(c.ops))
	for _, m := range c.ops {
		inChain[m.inst] = true
	}

	for pos := firstIdx; pos < lastIdx; pos++ {
		inst := block.Instructions[pos]
		if inChain[inst] {
			continue
		}
		for _, eff := range inst.GetEffects() {
			if _, ok := eff.(ir.SideEffect); ok {
				return false
			}
		}
		m, isMem := probe(inst)
		if !isMem {
			continue
		}
		m.object = lc.object(m.addr)
		for _, member := range c.ops {
			memberIdx := block.IndexOf(member.inst)
			if !lc.pairSafe(m, pos, member, memberIdx) {
				return false
			}
		}
	}
	return true
}

// pairSafe reports whether intervening op m can be safely ignored for chain
// member c: same-kind accesses never conflict, a store strictly before a
// load (or a load strictly after a store) can't be reordered across each
// other either way, and everything else falls back to alias analysis.
func (lc *legalityChecker) pairSafe(m memOp, mPos int, c memOp, cPos int) bool {
	if m.isLoad && c.isLoad {
		return true
	}
	if !c.isLoad && m.isLoad && cPos < mPos {
		return true // c is a store before m, which is a load
	}
	if c.isLoad && !m.isLoad && mPos < cPos {
		return true // c is a load after m, which is a store
	}
	return lc.alias.NoAlias(memLocOf(m), memLocOf(c))
}

// memLocOf reports a conservative (unknown-extent) MemLoc for a memory op,
// keyed on its underlying object so AliasOracle.NoAlias can compare roots.
func memLocOf(m memOp) ir.MemLoc {
	return ir.MemLoc{Object: m.object, Size: -1}
}
