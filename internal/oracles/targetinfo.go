package oracles

import "loadvec/internal/ir"

// SimpleTargetInfo is a struct-literal stand-in for a target-transform-info
// query service: the hardware's maximum wide load/store width per address
// space. Every address space without a PerAddrSpace entry uses
// DefaultVecRegBits (this repo's tests and CLI pass 128, a generic 128-bit
// vector register); callers configure others (e.g. a wider global-memory
// address space on a GPU-like target) via PerAddrSpace.
type SimpleTargetInfo struct {
	DefaultVecRegBits int
	PerAddrSpace      map[int]int
}

func NewSimpleTargetInfo(defaultBits int) *SimpleTargetInfo {
	return &SimpleTargetInfo{DefaultVecRegBits: defaultBits, PerAddrSpace: make(map[int]int)}
}

func (t *SimpleTargetInfo) VecRegBitWidth(addrSpace int) int {
	if bits, ok := t.PerAddrSpace[addrSpace]; ok {
		return bits
	}
	return t.DefaultVecRegBits
}

// SimpleDataLayout is a struct-configured stand-in for a data-layout query
// service.
type SimpleDataLayout struct {
	PointerBits int
	// ABIAlign maps a type's bit size to its ABI-natural alignment in
	// bytes; falls back to the type's own byte size (rounded up to a
	// power of two) when no entry is present.
	ABIAlign map[int]int
}

func NewSimpleDataLayout(pointerBits int) *SimpleDataLayout {
	return &SimpleDataLayout{
		PointerBits: pointerBits,
		ABIAlign: map[int]int{
			8:  1,
			16: 2,
			32: 4,
			64: 8,
			128: 16,
		},
	}
}

func (d *SimpleDataLayout) PointerSizeInBits(addrSpace int) int { return d.PointerBits }

func (d *SimpleDataLayout) TypeStoreSize(t ir.Type) int64 {
	bits := d.TypeSizeInBits(t)
	return int64((bits + 7) / 8)
}

func (d *SimpleDataLayout) TypeSizeInBits(t ir.Type) int {
	if t.IsVector() {
		return t.SizeInBits()
	}
	if _, ok := t.(*ir.PointerType); ok {
		return d.PointerBits
	}
	return t.SizeInBits()
}

func (d *SimpleDataLayout) ABITypeAlignment(t ir.Type) int {
	bits := d.TypeSizeInBits(t)
	if align, ok := d.ABIAlign[bits]; ok {
		return align
	}
	bytes := (bits + 7) / 8
	align := 1
	for align < bytes {
		align *= 2
	}
	return align
}
