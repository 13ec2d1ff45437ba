package ir

// BasicBlock is a straight-line sequence of Instructions ending in a
// Terminator, with Label, Predecessors, and Successors. Dominance is an
// external oracle supplied by the caller, not a field this IR caches
// itself.
type BasicBlock struct {
	Label        string
	Function     *Function
	Instructions []Instruction
	Terminator   Terminator
	Preds        []*BasicBlock
	Succs        []*BasicBlock
}

// IndexOf returns inst's position in program order within the block, or
// -1 if inst is not in this block's instruction list. The legality checker
// and chain builder both need program-order positions.
func (b *BasicBlock) IndexOf(inst Instruction) int {
	for i, in := range b.Instructions {
		if in == inst {
			return i
		}
	}
	return -1
}

// InsertAfter splices newInst into the block immediately after anchor.
// Used by dominance repair to re-insert a relocated user right after its
// most recent newly-inserted dependency.
func (b *BasicBlock) InsertAfter(anchor, newInst Instruction) {
	idx := b.IndexOf(anchor)
	if idx < 0 {
		b.Instructions = append(b.Instructions, newInst)
		return
	}
	b.Instructions = append(b.Instructions, nil)
	copy(b.Instructions[idx+2:], b.Instructions[idx+1:])
	b.Instructions[idx+1] = newInst
}

// Remove deletes inst from the block's instruction list. No-op if inst is
// not present.
func (b *BasicBlock) Remove(inst Instruction) {
	idx := b.IndexOf(inst)
	if idx < 0 {
		return
	}
	b.Instructions = append(b.Instructions[:idx], b.Instructions[idx+1:]...)
}

// InsertBefore splices newInst into the block immediately before anchor.
func (b *BasicBlock) InsertBefore(anchor, newInst Instruction) {
	idx := b.IndexOf(anchor)
	if idx < 0 {
		b.Instructions = append(b.Instructions, newInst)
		return
	}
	b.Instructions = append(b.Instructions, nil)
	copy(b.Instructions[idx+1:], b.Instructions[idx:])
	b.Instructions[idx] = newInst
}

// Append adds newInst at the end of the block's instruction list (before
// the terminator, which is tracked separately).
func (b *BasicBlock) Append(inst Instruction) {
	inst.SetBlock(b)
	b.Instructions = append(b.Instructions, inst)
}

// Parameter is a function argument: a Value with no defining Instruction.
type Parameter struct {
	Name  string
	Type  Type
	Value *Value
}

// Function is one function's IR: its parameters and basic blocks in
// reverse-postorder-friendly storage (Blocks[0] is always the entry
// block). NoImplicitFloat marks a function the pass must skip entirely —
// widening could otherwise synthesize a vector op in a context that
// forbids one.
type Function struct {
	Name            string
	Params          []*Parameter
	ReturnType      Type
	Blocks          []*BasicBlock
	NoImplicitFloat bool
	nextValueID     int
	nextInstID      int
}

// Entry returns the function's entry block (by construction, Blocks[0]).
func (f *Function) Entry() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// NewValue allocates a fresh SSA value owned by this function.
func (f *Function) NewValue(name string, typ Type) *Value {
	f.nextValueID++
	return &Value{ID: f.nextValueID, Name: name, Type: typ}
}

// NewBlock creates and appends a new, empty basic block to the function.
func (f *Function) NewBlock(label string) *BasicBlock {
	b := &BasicBlock{Label: label, Function: f}
	f.Blocks = append(f.Blocks, b)
	return b
}

// nextID hands out instruction IDs unique within the function, used only
// for diagnostics and deterministic test output — the pass never relies on
// ID ordering for correctness, only on program order (slice position).
func (f *Function) nextID() int {
	f.nextInstID++
	return f.nextInstID
}

// Module is the top-level compilation unit: a set of Functions. The pass
// operates one Function at a time, so Module exists only to give
// cmd/loadvec-cli and internal/irtext something to parse/print as a unit.
type Module struct {
	Name      string
	Functions []*Function
	Globals   []*Value
}

func (m *Module) FunctionByName(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// NewGlobal creates the address Value for a module-level global and
// registers it on the module. AddrSpace is almost always 0; a nonzero
// space models a global living in e.g. a GPU target's constant memory.
func (m *Module) NewGlobal(name string, elemType Type, align, addrSpace int) *Value {
	v := &Value{
		Name: name,
		Type: &PointerType{ElemType: elemType, AddrSpace: addrSpace},
		Global: &GlobalVar{
			Name:      name,
			ElemType:  elemType,
			Align:     align,
			AddrSpace: addrSpace,
		},
	}
	m.Globals = append(m.Globals, v)
	return v
}
