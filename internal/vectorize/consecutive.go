package vectorize

import "loadvec/internal/ir"

// consecutivityOracle decides whether one memory op's region is immediately
// followed by another's, working through a cascade of increasingly
// expensive tests: a cheap structural reject, then constant-offset GEP
// peeling, then scalar evolution, then a structural probe over symbolic
// GEP indices. It is a thin struct rather than a bare function because the
// later steps need the scalar-evolution and known-bits oracles threaded
// through.
type consecutivityOracle struct {
	an *Analyses
}

func newConsecutivityOracle(an *Analyses) *consecutivityOracle {
	return &consecutivityOracle{an: an}
}

// consecutive reports whether b accesses the memory region immediately
// following a's region, with identical element size and address space.
func (o *consecutivityOracle) consecutive(a, b memOp) bool {
	// 1. Quick reject.
	if a.addrSpace != b.addrSpace {
		return false
	}
	if a.addr == nil || b.addr == nil {
		return false
	}
	if a.addr == b.addr {
		return false
	}
	sizeA := o.an.Layout.TypeStoreSize(a.accessed)
	sizeB := o.an.Layout.TypeStoreSize(b.accessed)
	if sizeA != sizeB {
		return false
	}
	bitsA := o.an.Layout.TypeSizeInBits(a.accessed)
	bitsB := o.an.Layout.TypeSizeInBits(b.accessed)
	if bitsA != bitsB {
		return false
	}

	// 2. Base-relative offset: peel constant in-bounds GEP offsets.
	baseA, offA, _ := peelConstantOffset(a.addr)
	baseB, offB, _ := peelConstantOffset(b.addr)
	s := sizeA
	delta := offB - offA
	if baseA == baseB {
		return delta == s
	}

	// 3. Scalar-evolution probe.
	ea := o.an.SCEV.SCEV(baseA)
	eb := o.an.SCEV.SCEV(baseB)
	want := o.an.SCEV.Add(ea, o.an.SCEV.Constant(s-delta))
	if want.Equal(eb) {
		return true
	}

	// 4. GEP-structural probe.
	return o.structuralProbe(a.addr, b.addr)
}

// peelConstantOffset strips a single constant in-bounds GEP index off p,
// returning the base and the byte offset it contributes. If p is not such
// a GEP, ok is false and p itself is returned as the base with a zero
// offset; consecutive() uses base and offset either way and ignores ok.
func peelConstantOffset(p *ir.Value) (base *ir.Value, offsetBytes int64, ok bool) {
	gep, isGEP := p.Def.(*ir.GEPInst)
	if !isGEP || !gep.Inbounds || len(gep.Indices) != 1 {
		return p, 0, false
	}
	c, isConst := gep.Indices[0].Def.(*ir.ConstantInst)
	if !isConst {
		return p, 0, false
	}
	elemBits := elemSizeBits(gep)
	return gep.Base, c.IntVal * int64(elemBits/8), true
}

func elemSizeBits(g *ir.GEPInst) int {
	pt, ok := g.Result.Type.(*ir.PointerType)
	if !ok {
		return 8
	}
	return pt.ElemType.SizeInBits()
}

// structuralProbe handles induction-variable-indexed GEPs that scalar
// evolution can't see through: both pointers must be GEPs with identical
// operands except the last index, whose operands must be matching-kind
// extensions of values related by "beta == alpha + 1, without wrap".
func (o *consecutivityOracle) structuralProbe(pa, pb *ir.Value) bool {
	gepA, okA := pa.Def.(*ir.GEPInst)
	gepB, okB := pb.Def.(*ir.GEPInst)
	if !okA || !okB {
		return false
	}
	if gepA.Base != gepB.Base || len(gepA.Indices) != len(gepB.Indices) || len(gepA.Indices) == 0 {
		return false
	}
	n := len(gepA.Indices)
	for i := 0; i < n-1; i++ {
		if gepA.Indices[i] != gepB.Indices[i] {
			return false
		}
	}

	lastA := gepA.Indices[n-1]
	lastB := gepB.Indices[n-1]
	castA, okA2 := lastA.Def.(*ir.CastInst)
	castB, okB2 := lastB.Def.(*ir.CastInst)
	if !okA2 || !okB2 || castA.Kind != castB.Kind {
		return false
	}
	if castA.Kind != ir.CastSExt && castA.Kind != ir.CastZExt {
		return false
	}

	alpha, beta := castA.Src, castB.Src
	if !ir.TypesIdentical(alpha.Type, beta.Type) {
		return false
	}

	// (a) beta = alpha + 1 with the matching no-wrap flag.
	if bin, ok := beta.Def.(*ir.BinaryInst); ok && bin.Op == "+" {
		if bin.Left == alpha {
			if rc, ok := bin.Right.Def.(*ir.ConstantInst); ok && rc.IntVal == 1 {
				if castA.Kind == ir.CastSExt && bin.NoSignedWrap {
					return true
				}
				if castA.Kind == ir.CastZExt && bin.NoUnsignedWrap {
					return true
				}
			}
		}
	}

	// (b) known-bits proof of non-overflow, plus SCEV(alpha)+1 == SCEV(beta).
	zero, _ := o.an.Known.Compute(alpha, castA)
	bits := alpha.Type.SizeInBits()
	if !hasZeroHighBitOtherThanSign(zero, bits) {
		return false
	}
	sum := o.an.SCEV.Add(o.an.SCEV.SCEV(alpha), o.an.SCEV.Constant(1))
	return sum.Equal(o.an.SCEV.SCEV(beta))
}

// hasZeroHighBitOtherThanSign is a package-local copy of
// oracles.HasZeroHighBitOtherThanSign's predicate, restated here so this
// package's decision cascade doesn't reach past the KnownBits interface
// into oracles' concrete helpers (it calls the oracle, not the reference
// engine's internals).
func hasZeroHighBitOtherThanSign(knownZero uint64, bits int) bool {
	if bits < 2 {
		return false
	}
	mask := ((uint64(1) << uint(bits-1)) - 1) &^ uint64(1)
	return knownZero&mask != 0
}
