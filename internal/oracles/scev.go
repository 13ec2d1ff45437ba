package oracles

import (
	"fmt"

	"loadvec/internal/ir"
)

// scevValue is a leaf expression: "whatever this SSA value evaluates to",
// opaque beyond identity.
type scevValue struct{ v *ir.Value }

func (s *scevValue) Equal(other SCEVExpr) bool {
	o, ok := other.(*scevValue)
	return ok && o.v == s.v
}
func (s *scevValue) String() string { return s.v.String() }

// scevConst is a compile-time-known integer.
type scevConst struct{ c int64 }

func (s *scevConst) Equal(other SCEVExpr) bool {
	o, ok := other.(*scevConst)
	return ok && o.c == s.c
}
func (s *scevConst) String() string { return fmt.Sprintf("%d", s.c) }

// scevAdd is the sum of two sub-expressions. Equality is structural but
// commutative: add(a,b) == add(b,a), matching how an actual SCEV engine
// canonicalizes sums.
type scevAdd struct{ lhs, rhs SCEVExpr }

func (s *scevAdd) Equal(other SCEVExpr) bool {
	o, ok := other.(*scevAdd)
	if !ok {
		return false
	}
	return (s.lhs.Equal(o.lhs) && s.rhs.Equal(o.rhs)) || (s.lhs.Equal(o.rhs) && s.rhs.Equal(o.lhs))
}
func (s *scevAdd) String() string { return fmt.Sprintf("(%s + %s)", s.lhs, s.rhs) }

// SimpleSCEV is a reference ScalarEvolution good enough to recognize
// affine patterns of the shape "induction variable plus constant", which
// is the only shape the consecutivity cascade's base-relative-offset and
// scalar-evolution steps need to see through. It does not
// attempt loop-carried closed forms (no-recurrence modeling); a value
// produced inside a loop without a directly-visible constant-add chain
// just resolves to its own leaf expression, same as an unanalyzable value
// in a real SCEV engine.
type SimpleSCEV struct{}

func NewSimpleSCEV() *SimpleSCEV { return &SimpleSCEV{} }

func (s *SimpleSCEV) Constant(c int64) SCEVExpr { return &scevConst{c: c} }

func (s *SimpleSCEV) Add(a, b SCEVExpr) SCEVExpr {
	if ac, ok := a.(*scevConst); ok {
		if bc, ok := b.(*scevConst); ok {
			return &scevConst{c: ac.c + bc.c}
		}
	}
	return &scevAdd{lhs: a, rhs: b}
}

func (s *SimpleSCEV) SCEV(v *ir.Value) SCEVExpr {
	if v == nil {
		return &scevConst{c: 0}
	}
	switch def := v.Def.(type) {
	case *ir.ConstantInst:
		return &scevConst{c: def.IntVal}
	case *ir.BinaryInst:
		switch def.Op {
		case "+":
			return s.Add(s.SCEV(def.Left), s.SCEV(def.Right))
		case "-":
			rc := s.SCEV(def.Right)
			if c, ok := rc.(*scevConst); ok {
				return s.Add(s.SCEV(def.Left), &scevConst{c: -c.c})
			}
		}
	case *ir.CastInst:
		// sext/zext of an affine expression preserves its shape for the
		// purposes of this reference engine: the structural probe handles
		// overflow separately via KnownBits, so SCEV itself stays
		// optimistic about the extension being value-preserving.
		return s.SCEV(def.Src)
	}
	return &scevValue{v: v}
}
