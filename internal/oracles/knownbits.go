package oracles

import "loadvec/internal/ir"

// SimpleKnownBits is a reference bitwise abstract interpreter: the
// consecutivity cascade's structural probe only needs it to show that some
// high bit of an N-bit value other than the sign bit is provably zero, so
// that incrementing by one cannot overflow the
// subsequent sign/zero-extension. This is a small, intentionally
// conservative subset of a real known-bits pass: constants are exact,
// zext propagates its source's known bits and marks the newly added high
// bits known-zero, sext propagates only its source's known bits, and
// everything else is "unknown" (both masks zero).
type SimpleKnownBits struct {
	layout DataLayout
}

func NewSimpleKnownBits(layout DataLayout) *SimpleKnownBits {
	return &SimpleKnownBits{layout: layout}
}

// Compute returns (knownZero, knownOne) bitmasks for v. ref is accepted to
// satisfy the KnownBits interface (a real implementation would need it to
// know which point-in-program facts are valid); this reference
// implementation is flow-insensitive and ignores it.
func (k *SimpleKnownBits) Compute(v *ir.Value, ref ir.Instruction) (zero, one uint64) {
	if v == nil {
		return 0, 0
	}
	bits := v.Type.SizeInBits()
	switch def := v.Def.(type) {
	case *ir.ConstantInst:
		u := uint64(def.IntVal)
		mask := widthMask(bits)
		return (^u) & mask, u & mask
	case *ir.CastInst:
		if def.Kind == ir.CastZExt {
			srcBits := def.Src.Type.SizeInBits()
			srcZero, srcOne := k.Compute(def.Src, ref)
			extra := widthMask(bits) &^ widthMask(srcBits)
			return (srcZero & widthMask(srcBits)) | extra, srcOne & widthMask(srcBits)
		}
		if def.Kind == ir.CastSExt {
			// Sign-extension is exact only when we also know the sign bit;
			// conservatively report no extra known bits beyond the source
			// width, which is enough for the overflow proof this pass needs
			// (it only ever asks about the pre-extension value, never the
			// extended one).
			srcZero, srcOne := k.Compute(def.Src, ref)
			srcBits := def.Src.Type.SizeInBits()
			return srcZero & widthMask(srcBits), srcOne & widthMask(srcBits)
		}
	}
	return 0, 0
}

func widthMask(bits int) uint64 {
	if bits <= 0 {
		return 0
	}
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(bits)) - 1
}

// HasZeroHighBitOtherThanSign reports whether knownZero proves some bit in
// [1, bits-2] (i.e. excluding the low bit and the sign bit at bits-1) is
// zero, which is enough to show that incrementing by one cannot overflow
// into the sign bit.
func HasZeroHighBitOtherThanSign(knownZero uint64, bits int) bool {
	if bits < 2 {
		return false
	}
	mask := widthMask(bits-1) &^ uint64(1) // bits [1, bits-2], excludes the low bit and the sign bit
	return knownZero&mask != 0
}
