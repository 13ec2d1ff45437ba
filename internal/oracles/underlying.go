package oracles

import "loadvec/internal/ir"

// GetUnderlyingObject peels GEPs and no-op (bitcast) casts off p, returning
// the root value it can be traced back to. The collector keys its
// per-object bundles on the result.
func GetUnderlyingObject(p *ir.Value) *ir.Value {
	for {
		if p == nil || p.Def == nil {
			return p
		}
		switch def := p.Def.(type) {
		case *ir.GEPInst:
			p = def.Base
			continue
		case *ir.CastInst:
			if def.Kind == ir.CastBitCast {
				p = def.Src
				continue
			}
		}
		return p
	}
}
