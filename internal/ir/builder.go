package ir

// Builder provides a fluent construction API for hand-built IR functions,
// used directly by tests and as the target internal/irtext lowers its
// parsed fixtures into: a struct holding the function/block under
// construction plus counters, emitting bare instructions directly since
// this repo's IR has no source language of its own.
type Builder struct {
	fn    *Function
	block *BasicBlock
}

// NewBuilder starts building fn, inserting subsequent instructions at the
// end of block.
func NewBuilder(fn *Function, block *BasicBlock) *Builder {
	return &Builder{fn: fn, block: block}
}

// NewFunctionBuilder creates a function named name with an entry block
// named "entry" and returns a Builder positioned at that block.
func NewFunctionBuilder(name string) (*Function, *Builder) {
	fn := &Function{Name: name}
	entry := fn.NewBlock("entry")
	return fn, NewBuilder(fn, entry)
}

// SetBlock repositions the builder to insert subsequent instructions into
// block.
func (b *Builder) SetBlock(block *BasicBlock) { b.block = block }

// Block returns the block instructions are currently being inserted into.
func (b *Builder) Block() *BasicBlock { return b.block }

func (b *Builder) newValue(name string, typ Type) *Value {
	if name == "" {
		name = "v"
	}
	return b.fn.NewValue(name, typ)
}

func (b *Builder) use(v *Value, user Instruction, operand int) {
	if v != nil {
		v.AddUse(user, operand)
	}
}

// Param adds a parameter to the function and returns its Value.
func (b *Builder) Param(name string, typ Type) *Value {
	v := b.newValue(name, typ)
	b.fn.Params = append(b.fn.Params, &Parameter{Name: name, Type: typ, Value: v})
	return v
}

// CreateLoad emits a load of typ from addr with the given alignment
// (0 = ABI-natural) and address space, appending it to the current block.
func (b *Builder) CreateLoad(name string, typ Type, addr *Value, align, addrSpace int) *Value {
	result := b.newValue(name, typ)
	inst := &LoadInst{
		baseInst:  baseInst{ID: b.fn.nextID()},
		Result:    result,
		Addr:      addr,
		Align:     align,
		AddrSpace: addrSpace,
		Simple:    true,
	}
	result.Def = inst
	b.use(addr, inst, 0)
	b.block.Append(inst)
	return result
}

// CreateStore emits a store of val to addr with the given alignment and
// address space.
func (b *Builder) CreateStore(val, addr *Value, align, addrSpace int) *StoreInst {
	inst := &StoreInst{
		baseInst:  baseInst{ID: b.fn.nextID()},
		Addr:      addr,
		Val:       val,
		Align:     align,
		AddrSpace: addrSpace,
		Simple:    true,
	}
	b.use(addr, inst, 0)
	b.use(val, inst, 1)
	b.block.Append(inst)
	return inst
}

// CreateAlloca emits a stack allocation of allocType in address space 0,
// producing a pointer to it with the given alignment (0 = ABI-natural).
func (b *Builder) CreateAlloca(name string, allocType Type, align int) *Value {
	result := b.newValue(name, &PointerType{ElemType: allocType, AddrSpace: 0})
	inst := &AllocaInst{baseInst: baseInst{ID: b.fn.nextID()}, Result: result, AllocType: allocType, Align: align}
	result.Def = inst
	b.block.Append(inst)
	return result
}

// CreateGEP emits a (possibly inbounds) getelementptr from base through
// indices, producing a pointer to elemType.
func (b *Builder) CreateGEP(name string, elemType Type, addrSpace int, base *Value, inbounds bool, indices ...*Value) *Value {
	result := b.newValue(name, &PointerType{ElemType: elemType, AddrSpace: addrSpace})
	inst := &GEPInst{
		baseInst: baseInst{ID: b.fn.nextID()},
		Result:   result,
		Base:     base,
		Indices:  indices,
		Inbounds: inbounds,
	}
	result.Def = inst
	b.use(base, inst, 0)
	for i, idx := range indices {
		b.use(idx, inst, i+1)
	}
	b.block.Append(inst)
	return result
}

// CreateSExt/CreateZExt emit sign/zero-extensions of src to typ.
func (b *Builder) CreateSExt(name string, typ Type, src *Value) *Value { return b.createCast(name, typ, src, CastSExt) }
func (b *Builder) CreateZExt(name string, typ Type, src *Value) *Value { return b.createCast(name, typ, src, CastZExt) }
func (b *Builder) CreateBitCast(name string, typ Type, src *Value) *Value {
	return b.createCast(name, typ, src, CastBitCast)
}

func (b *Builder) createCast(name string, typ Type, src *Value, kind castKind) *Value {
	result := b.newValue(name, typ)
	inst := &CastInst{baseInst: baseInst{ID: b.fn.nextID()}, Result: result, Kind: kind, Src: src}
	result.Def = inst
	b.use(src, inst, 0)
	b.block.Append(inst)
	return result
}

// CreateBinary emits a binary op; nsw/nuw set the wrap flags the
// ConsecutivityOracle's structural probe inspects.
func (b *Builder) CreateBinary(name string, typ Type, op string, left, right *Value, nsw, nuw bool) *Value {
	result := b.newValue(name, typ)
	inst := &BinaryInst{
		baseInst: baseInst{ID: b.fn.nextID()}, Result: result, Op: op,
		Left: left, Right: right, NoSignedWrap: nsw, NoUnsignedWrap: nuw,
	}
	result.Def = inst
	b.use(left, inst, 0)
	b.use(right, inst, 1)
	b.block.Append(inst)
	return result
}

// CreateConstantInt emits an integer constant.
func (b *Builder) CreateConstantInt(name string, typ Type, v int64) *Value {
	result := b.newValue(name, typ)
	inst := &ConstantInst{baseInst: baseInst{ID: b.fn.nextID()}, Result: result, IntVal: v}
	result.Def = inst
	b.block.Append(inst)
	return result
}

// CreateCall emits a function call.
func (b *Builder) CreateCall(name string, typ Type, callee string, hasSideEffects bool, args ...*Value) *Value {
	var result *Value
	if typ != nil {
		result = b.newValue(name, typ)
	}
	inst := &CallInst{baseInst: baseInst{ID: b.fn.nextID()}, Result: result, Callee: callee, Args: args, HasSideEffects: hasSideEffects}
	if result != nil {
		result.Def = inst
	}
	for i, a := range args {
		b.use(a, inst, i)
	}
	b.block.Append(inst)
	return result
}

// CreateExtractElement extracts lane index from vec.
func (b *Builder) CreateExtractElement(name string, vec *Value, index int) *Value {
	vt := vec.Type.(*VectorType)
	result := b.newValue(name, vt.ElemType)
	inst := &ExtractElementInst{baseInst: baseInst{ID: b.fn.nextID()}, Result: result, Vec: vec, Index: index}
	result.Def = inst
	b.use(vec, inst, 0)
	b.block.Append(inst)
	return result
}

// CreateInsertElement inserts elem into lane index of vec.
func (b *Builder) CreateInsertElement(name string, vec, elem *Value, index int) *Value {
	result := b.newValue(name, vec.Type)
	inst := &InsertElementInst{baseInst: baseInst{ID: b.fn.nextID()}, Result: result, Vec: vec, Elem: elem, Index: index}
	result.Def = inst
	b.use(vec, inst, 0)
	b.use(elem, inst, 1)
	b.block.Append(inst)
	return result
}

// CreateUndef materializes an undef value of typ.
func (b *Builder) CreateUndef(name string, typ Type) *Value {
	result := b.newValue(name, typ)
	inst := &UndefInst{baseInst: baseInst{ID: b.fn.nextID()}, Result: result}
	result.Def = inst
	b.block.Append(inst)
	return result
}

// Ret terminates the current block with a return.
func (b *Builder) Ret(val *Value) {
	term := &RetTerm{baseInst: baseInst{ID: b.fn.nextID()}, Val: val}
	b.use(val, term, 0)
	b.block.Terminator = term
	term.SetBlock(b.block)
}

// Br terminates the current block with an unconditional jump.
func (b *Builder) Br(target *BasicBlock) {
	term := &BrTerm{baseInst: baseInst{ID: b.fn.nextID()}, Target: target}
	term.SetBlock(b.block)
	b.block.Terminator = term
	linkEdge(b.block, target)
}

// CondBr terminates the current block with a conditional branch.
func (b *Builder) CondBr(cond *Value, trueBlock, falseBlock *BasicBlock) {
	term := &CondBrTerm{baseInst: baseInst{ID: b.fn.nextID()}, Cond: cond, True: trueBlock, False: falseBlock}
	b.use(cond, term, 0)
	term.SetBlock(b.block)
	b.block.Terminator = term
	linkEdge(b.block, trueBlock)
	linkEdge(b.block, falseBlock)
}

func linkEdge(from, to *BasicBlock) {
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}
