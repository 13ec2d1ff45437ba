package vectorize

import "loadvec/internal/ir"

// stackAllocAlignTarget is the byte alignment a stack allocation's
// alignment is raised to when the alignment rule would otherwise reject the
// chain. TODO: query this from TargetTransformInfo instead of hardcoding it
// once the target interface grows a preferred-stack-alignment method.
const stackAllocAlignTarget = 4

// legalShape is one surviving, rewrite-ready piece of an original chain
// after Legalizer's splits: the member slice plus the vector element type
// and lane count it was shaped to.
type legalShape struct {
	ops      []memOp
	elemType ir.Type
	lanes    int // C: number of original members folded into this shape
	align    int // resolved effective alignment to emit the wide op with
}

// legalizer chooses a vector width for a chain and recursively splits it
// to satisfy power-of-two, byte-count, and alignment rules.
type legalizer struct {
	an *Analyses
}

func newLegalizer(an *Analyses) *legalizer {
	return &legalizer{an: an}
}

// legalize returns the set of legal shapes a chain decomposes into. A
// chain that is rejected outright (no member survives) returns nil.
func (lz *legalizer) legalize(c *chain) []legalShape {
	return lz.legalizeOps(c.ops)
}

func (lz *legalizer) legalizeOps(ops []memOp) []legalShape {
	if len(ops) < 2 {
		return nil
	}

	elemType := selectElementType(ops, lz.an.Layout)
	sz := lz.an.Layout.TypeSizeInBits(elemType)
	addrSpace := ops[0].addrSpace
	vf := lz.an.Target.VecRegBitWidth(addrSpace) / sz
	c := len(ops)

	if !isPowerOfTwo(sz) || vf < 2 || c < 2 {
		return nil
	}

	bytes := (sz / 8) * c
	if bytes == 3 {
		log.Debugf("legalize: dropping odd trailing member to clear the 3-byte width gap (%d members)", c)
		return lz.legalizeOps(ops[:c-1])
	}
	if bytes > 2 && bytes%4 != 0 {
		numRight := (bytes % 4) / (sz / 8)
		numLeft := c - numRight
		log.Debugf("legalize: splitting %d members at %d to land on a 4-byte boundary", c, numLeft)
		var out []legalShape
		out = append(out, lz.legalizeOps(ops[:numLeft])...)
		out = append(out, lz.legalizeOps(ops[numLeft:])...)
		return out
	}

	if c > vf {
		log.Debugf("legalize: splitting %d members at %d to fit the %d-lane register width", c, vf, vf)
		var out []legalShape
		out = append(out, lz.legalizeOps(ops[:vf])...)
		out = append(out, lz.legalizeOps(ops[vf:])...)
		return out
	}

	align := effectiveAlignment(ops[0], lz.an.Layout)
	if align%bytes == 0 || align%4 == 0 {
		return []legalShape{{ops: ops, elemType: elemType, lanes: c, align: align}}
	}
	if raised, ok := tryRaiseStackAllocAlignment(ops[0], lz.an.Object); ok {
		return []legalShape{{ops: ops, elemType: elemType, lanes: c, align: raised}}
	}
	return nil
}

// selectElementType picks the wide op's element type: first
// integer-or-integer-vector element wins, else first pointer-element (as an
// equal-width integer), else the first member's own type. Favoring integer
// element types keeps the emitted op reusable for both load and store
// rewriting without a separate float path.
func selectElementType(ops []memOp, dl DataLayout) ir.Type {
	for _, m := range ops {
		scalar := ir.ScalarElemType(m.accessed)
		if _, ok := scalar.(*ir.IntType); ok {
			return m.accessed
		}
	}
	for _, m := range ops {
		scalar := ir.ScalarElemType(m.accessed)
		if _, ok := scalar.(*ir.PointerType); ok {
			return &ir.IntType{Bits: dl.TypeSizeInBits(scalar)}
		}
	}
	return ops[0].accessed
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// tryRaiseStackAllocAlignment is the last-resort fallback when the natural
// alignment doesn't clear the bar: if the pointer's underlying object is a
// stack allocation in address space 0, raise its alignment to
// stackAllocAlignTarget and accept; a global (or anything else) cannot
// absorb the raise.
func tryRaiseStackAllocAlignment(m memOp, object func(*ir.Value) *ir.Value) (int, bool) {
	root := object(m.addr)
	if root == nil || root.Def == nil {
		return 0, false
	}
	alloca, ok := root.Def.(*ir.AllocaInst)
	if !ok {
		return 0, false
	}
	if m.addrSpace != 0 {
		return 0, false
	}
	if alloca.Align < stackAllocAlignTarget {
		alloca.Align = stackAllocAlignTarget
	}
	return alloca.Align, true
}
