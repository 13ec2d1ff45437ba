package vectorize

import "loadvec/internal/ir"

// rewriter emits the wide load/store for a legalized shape, splices lane
// values in and out, erases the originals, and repairs dominance.
type rewriter struct {
	an     *Analyses
	dom    DominatorTree
	fn     *ir.Function
	vecInstructions  *int
	scalarsVectorized *int
}

func newRewriter(an *Analyses, fn *ir.Function, vecInstructions, scalarsVectorized *int) *rewriter {
	return &rewriter{an: an, dom: an.Dom, fn: fn, vecInstructions: vecInstructions, scalarsVectorized: scalarsVectorized}
}

// rewrite commits one legal shape's vectorization, returning the
// instructions to erase from block (the Driver does the actual removal
// after dominance repair, so erased GEPs left dangling by earlier shapes in
// the same chain are accounted for once).
func (rw *rewriter) rewrite(block *ir.BasicBlock, shape legalShape) []ir.Instruction {
	if shape.ops[0].isLoad {
		return rw.rewriteLoads(block, shape)
	}
	return rw.rewriteStores(block, shape)
}

// relocateNewRun moves every instruction the builder appended since before
// (the builder only ever appends at the block's tail) to sit immediately
// before anchor, the position of the chain's last member in program order —
// the wide op's required insertion point. Repositioning must happen before
// any use-rewiring so that
// DominatorTree.Dominates — which compares program-order slice positions
// within a block — reasons about the instructions' final locations, not
// their transient tail placement.
func relocateNewRun(block *ir.BasicBlock, before int, anchor ir.Instruction) {
	newRun := append([]ir.Instruction(nil), block.Instructions[before:]...)
	block.Instructions = block.Instructions[:before]
	for _, inst := range newRun {
		block.InsertBefore(anchor, inst)
	}
}

func laneWidth(elemType ir.Type) int {
	if vt, ok := elemType.(*ir.VectorType); ok {
		return vt.Len
	}
	return 1
}

func wideVectorType(elemType ir.Type, lanes int) *ir.VectorType {
	if vt, ok := elemType.(*ir.VectorType); ok {
		return &ir.VectorType{ElemType: vt.ElemType, Len: lanes * vt.Len}
	}
	return &ir.VectorType{ElemType: elemType, Len: lanes}
}

func scalarLaneType(elemType ir.Type) ir.Type {
	if vt, ok := elemType.(*ir.VectorType); ok {
		return vt.ElemType
	}
	return elemType
}

// rewriteStores builds a wide vector out of each store's value (one insert
// per lane, splitting a vector-valued store into its own lanes first), emits
// a single wide store at the chain's tail position, and hands back the
// original stores (plus any now-dead GEP) for removal.
func (rw *rewriter) rewriteStores(block *ir.BasicBlock, shape legalShape) []ir.Instruction {
	first := shape.ops[0]
	last := shape.ops[len(shape.ops)-1]
	before := len(block.Instructions)
	b := ir.NewBuilder(rw.fn, block)
	b.SetBlock(block)

	w := laneWidth(shape.elemType)
	wideType := wideVectorType(shape.elemType, shape.lanes)
	lane := scalarLaneType(shape.elemType)

	undef := b.CreateUndef("vec.undef", wideType)
	vec := undef
	for i, m := range shape.ops {
		store := m.inst.(*ir.StoreInst)
		for j := 0; j < w; j++ {
			src := store.Val
			if w > 1 {
				src = b.CreateExtractElement("vec.lane", src, j)
			}
			if !ir.TypesIdentical(src.Type, lane) {
				src = b.CreateBitCast("vec.cast", lane, src)
			}
			vec = b.CreateInsertElement("vec.ins", vec, src, i*w+j)
		}
	}

	ptrType := &ir.PointerType{ElemType: wideType, AddrSpace: first.addrSpace}
	ptr := b.CreateBitCast("vec.ptr", ptrType, first.addr)
	align := shape.align
	wideStore := b.CreateStore(vec, ptr, align, first.addrSpace)
	wideStore.Metadata = mergeMetadata(shape.ops)

	relocateNewRun(block, before, last.inst)
	rw.recordStats(shape)
	return rw.erasable(shape.ops)
}

// scalarReplacement pairs the value a scalar load's result is replaced by
// with the (possibly deferred) rewiring/removal work still to do once the
// new instructions are relocated into place.
type scalarReplacement struct {
	old *ir.Value
	new *ir.Value
}

// laneReplacement pairs an original constant-index extraction (to be
// deleted) with the wide load's equivalent lane.
type laneReplacement struct {
	extract *ir.ExtractElementInst
	new     *ir.Value
}

// rewriteLoads emits a single wide load at the chain's tail position, then
// replaces each original scalar load's result (or, for a vector-accessed
// member, each of its constant-indexed extractions) with the matching lane
// of the wide load.
func (rw *rewriter) rewriteLoads(block *ir.BasicBlock, shape legalShape) []ir.Instruction {
	first := shape.ops[0]
	before := len(block.Instructions)
	b := ir.NewBuilder(rw.fn, block)
	b.SetBlock(block)

	w := laneWidth(shape.elemType)
	wideType := wideVectorType(shape.elemType, shape.lanes)

	ptrType := &ir.PointerType{ElemType: wideType, AddrSpace: first.addrSpace}
	ptr := b.CreateBitCast("vec.ptr", ptrType, first.addr)
	align := shape.align
	wide := b.CreateLoad("vec.load", wideType, ptr, align, first.addrSpace)
	wide.Def.(*ir.LoadInst).Metadata = mergeMetadata(shape.ops)

	var scalarRepls []scalarReplacement
	var laneRepls []laneReplacement
	for i, m := range shape.ops {
		load := m.inst.(*ir.LoadInst)
		if w == 1 {
			extracted := b.CreateExtractElement("vec.lane", wide, i)
			if !ir.TypesIdentical(extracted.Type, load.Result.Type) {
				extracted = b.CreateBitCast("vec.cast", load.Result.Type, extracted)
			}
			scalarRepls = append(scalarRepls, scalarReplacement{old: load.Result, new: extracted})
			continue
		}
		// Original accessed type is itself a vector: eligible() already
		// guaranteed every user is a constant-indexed extraction, so splice
		// directly into the wide load's lanes.
		for _, use := range load.Result.Uses {
			extract, ok := use.User.(*ir.ExtractElementInst)
			if !ok {
				continue
			}
			newLane := i*w + extract.Index
			replacement := b.CreateExtractElement("vec.lane", wide, newLane)
			if !ir.TypesIdentical(replacement.Type, extract.Result.Type) {
				replacement = b.CreateBitCast("vec.cast", extract.Result.Type, replacement)
			}
			laneRepls = append(laneRepls, laneReplacement{extract: extract, new: replacement})
		}
	}

	last := shape.ops[len(shape.ops)-1].inst
	relocateNewRun(block, before, last)

	for _, r := range scalarRepls {
		rw.replaceAndRepair(r.old, r.new)
	}
	for _, r := range laneRepls {
		rw.replaceAndRepair(r.extract.Result, r.new)
		r.extract.GetBlock().Remove(r.extract)
	}

	rw.recordStats(shape)
	return rw.erasable(shape.ops)
}

// replaceAndRepair rewires every use of old to repl, then repairs any user
// that now textually precedes its new definition.
func (rw *rewriter) replaceAndRepair(old, repl *ir.Value) {
	users := append([]*ir.Use(nil), old.Uses...)
	ir.ReplaceAllUsesWith(old, repl)
	rw.repair(repl, users)
}

// repair walks users snapshotted before the rewire (they must be
// snapshotted by the caller since ReplaceAllUsesWith empties old.Uses), and
// for every non-phi user not dominated by its new operand's definition,
// relocates it immediately after that definition and recurses on its own
// users. This pass's IR has no phi instruction type, so every Instruction
// is a relocation candidate.
func (rw *rewriter) repair(def *ir.Value, users []*ir.Use) {
	if def.Def == nil {
		return
	}
	defInst := def.Def
	for _, u := range users {
		user := u.User
		if rw.dom.Dominates(defInst, user) {
			continue
		}
		userBlock := user.GetBlock()
		userBlock.Remove(user)
		userBlock.InsertAfter(defInst, user)
		if result := user.GetResult(); result != nil {
			rw.repair(result, append([]*ir.Use(nil), result.Uses...))
		}
	}
}

// mergeMetadata unions the chain's per-op metadata (host policy: union, not
// intersection, since a wide access is a superset of each narrow access's
// provenance).
func mergeMetadata(ops []memOp) map[string]string {
	merged := make(map[string]string)
	for _, m := range ops {
		var md map[string]string
		switch inst := m.inst.(type) {
		case *ir.LoadInst:
			md = inst.Metadata
		case *ir.StoreInst:
			md = inst.Metadata
		}
		for k, v := range md {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// erasable returns the chain members plus any GEP pointer operand left with
// no remaining uses once those members are erased.
func (rw *rewriter) erasable(ops []memOp) []ir.Instruction {
	toErase := make([]ir.Instruction, 0, len(ops))
	candidateGEPs := make(map[*ir.GEPInst]bool)
	for _, m := range ops {
		toErase = append(toErase, m.inst)
		if gep, ok := m.addr.Def.(*ir.GEPInst); ok {
			candidateGEPs[gep] = true
		}
	}
	erasing := make(map[ir.Instruction]bool, len(toErase))
	for _, inst := range toErase {
		erasing[inst] = true
	}
	for gep := range candidateGEPs {
		if gepHasOnlyUsesIn(gep, erasing) {
			toErase = append(toErase, gep)
		}
	}
	return toErase
}

func gepHasOnlyUsesIn(gep *ir.GEPInst, erasing map[ir.Instruction]bool) bool {
	for _, use := range gep.Result.Uses {
		if !erasing[use.User] {
			return false
		}
	}
	return true
}

func (rw *rewriter) recordStats(shape legalShape) {
	log.Debugf("rewrite: folded %d scalar access(es) into one %s op", shape.lanes, shape.elemType)
	*rw.vecInstructions++
	*rw.scalarsVectorized += shape.lanes
}
