package vectorize

import "loadvec/internal/ir"

// bundle is the ordered (program-order) list of eligible memory ops sharing
// one underlying base object, split by kind.
type bundle struct {
	object *ir.Value
	loads  []memOp
	stores []memOp
}

// collect partitions one block's instructions into per-base-object bundles
// of eligible loads and stores. Order within a bundle's load or store list
// is program order; bundle iteration order is first-sighting order of each
// underlying object, so downstream chunking stays deterministic.
func collect(block *ir.BasicBlock, an *Analyses) []*bundle {
	var order []*ir.Value
	byObject := make(map[*ir.Value]*bundle)

	for _, inst := range block.Instructions {
		m, ok := probe(inst)
		if !ok {
			continue
		}
		invariant("collector", m.addr != nil, "%s has a nil pointer operand", inst.String())
		if !eligible(m, an) {
			continue
		}
		obj := an.Object(m.addr)
		m.object = obj
		b, exists := byObject[obj]
		if !exists {
			b = &bundle{object: obj}
			byObject[obj] = b
			order = append(order, obj)
		}
		if m.isLoad {
			b.loads = append(b.loads, m)
		} else {
			b.stores = append(b.stores, m)
		}
	}

	bundles := make([]*bundle, 0, len(order))
	for _, obj := range order {
		bundles = append(bundles, byObject[obj])
	}
	return bundles
}

// eligible reports whether a memory op is a candidate for vectorization at
// all: a simple (non-atomic, non-volatile) access of a vectorizable element
// type, within the register-width budget, whose every user (if it has any)
// is a constant-indexed element extraction when the accessed type is itself
// a vector.
func eligible(m memOp, an *Analyses) bool {
	if !m.simple {
		return false
	}
	scalar := ir.ScalarElemType(m.accessed)
	if !ir.IsValidVectorElement(scalar) {
		return false
	}
	bits := an.Layout.TypeSizeInBits(m.accessed)
	if bits < 8 {
		return false
	}
	vecRegBits := an.Target.VecRegBitWidth(m.addrSpace)
	if bits > vecRegBits/2 {
		return false
	}
	if m.accessed.IsVector() {
		// A store has no result to check uses of; a vector-typed store
		// value has no users by construction, so the per-user check is
		// vacuously satisfied. Only a load's result needs the "every user
		// is a constant-indexed extraction" check.
		if result := m.inst.GetResult(); result != nil {
			for _, use := range result.Uses {
				if _, ok := use.User.(*ir.ExtractElementInst); !ok {
					return false
				}
			}
		}
	}
	return true
}
