package vectorize

import "loadvec/internal/ir"

// memOp is the subset of a LoadInst/StoreInst's shape PointerProbe and
// everything downstream needs, factored out so the rest of this package
// never type-switches on *ir.LoadInst vs *ir.StoreInst directly.
type memOp struct {
	inst      ir.Instruction
	addr      *ir.Value
	object    *ir.Value // getUnderlyingObject(addr), filled in by collect
	align     int
	addrSpace int
	simple    bool
	accessed  ir.Type // the loaded or stored type
	isLoad    bool
}

// probe extracts a memOp view of inst, reporting ok=false for anything that
// isn't a load or a store.
func probe(inst ir.Instruction) (memOp, bool) {
	switch v := inst.(type) {
	case *ir.LoadInst:
		return memOp{
			inst: v, addr: v.Addr, align: v.Align, addrSpace: v.AddrSpace,
			simple: v.Simple, accessed: v.Result.Type, isLoad: true,
		}, true
	case *ir.StoreInst:
		return memOp{
			inst: v, addr: v.Addr, align: v.Align, addrSpace: v.AddrSpace,
			simple: v.Simple, accessed: v.Val.Type, isLoad: false,
		}, true
	default:
		return memOp{}, false
	}
}

// effectiveAlignment returns the op's stated alignment, or, if unstated
// (zero means ABI-natural), the ABI alignment of the accessed type as
// reported by the data-layout oracle.
func effectiveAlignment(m memOp, dl DataLayout) int {
	if m.align != 0 {
		return m.align
	}
	return dl.ABITypeAlignment(m.accessed)
}

// storeSize is the accessed type's size in bytes per the data-layout
// oracle, the unit ConsecutivityOracle compares address deltas against.
func storeSize(m memOp, dl DataLayout) int64 {
	return dl.TypeStoreSize(m.accessed)
}
