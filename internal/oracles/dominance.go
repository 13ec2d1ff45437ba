package oracles

import "loadvec/internal/ir"

// SimpleDominatorTree is a reference DominatorTree computed once per
// function with the standard iterative (Cooper/Harvey/Kennedy) algorithm
// over reverse postorder: a small analysis struct with an Analyze-style
// entry point that populates its own state.
type SimpleDominatorTree struct {
	idom  map[*ir.BasicBlock]*ir.BasicBlock
	order map[*ir.BasicBlock]int // reverse postorder index
}

// BuildDominatorTree computes dominance for fn starting from its entry
// block.
func BuildDominatorTree(fn *ir.Function) *SimpleDominatorTree {
	t := &SimpleDominatorTree{idom: make(map[*ir.BasicBlock]*ir.BasicBlock)}
	entry := fn.Entry()
	if entry == nil {
		return t
	}

	var postorder []*ir.BasicBlock
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
		postorder = append(postorder, b)
	}
	visit(entry)

	// reverse postorder index: entry gets 0, its successors later, etc.
	t.order = make(map[*ir.BasicBlock]int, len(postorder))
	for i, b := range postorder {
		t.order[b] = len(postorder) - 1 - i
	}

	t.idom[entry] = entry
	changed := true
	for changed {
		changed = false
		for i := len(postorder) - 2; i >= 0; i-- {
			b := postorder[i]
			var newIdom *ir.BasicBlock
			for _, p := range b.Preds {
				if t.idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = t.intersect(newIdom, p)
			}
			if newIdom != nil && t.idom[b] != newIdom {
				t.idom[b] = newIdom
				changed = true
			}
		}
	}
	return t
}

func (t *SimpleDominatorTree) intersect(a, b *ir.BasicBlock) *ir.BasicBlock {
	for a != b {
		for t.order[a] > t.order[b] {
			a = t.idom[a]
		}
		for t.order[b] > t.order[a] {
			b = t.idom[b]
		}
	}
	return a
}

// BlockDominates reports whether block a dominates block b.
func (t *SimpleDominatorTree) BlockDominates(a, b *ir.BasicBlock) bool {
	if a == b {
		return true
	}
	cur := b
	for {
		idom, ok := t.idom[cur]
		if !ok {
			return false
		}
		if idom == cur {
			return false // reached entry without finding a
		}
		if idom == a {
			return true
		}
		cur = idom
	}
}

// Dominates reports whether def dominates use. Within the same block this
// is purely a program-order comparison (position of def <= position of
// use, def excluded from dominating itself unless it's the same
// instruction); across blocks it delegates to BlockDominates.
func (t *SimpleDominatorTree) Dominates(def, use ir.Instruction) bool {
	if def == use {
		return true
	}
	db, ub := def.GetBlock(), use.GetBlock()
	if db == ub {
		di, ui := db.IndexOf(def), db.IndexOf(use)
		if di < 0 || ui < 0 {
			return false
		}
		return di < ui
	}
	return t.BlockDominates(db, ub)
}
