package ir

import "strconv"

// Instruction is implemented by every IR instruction, memory op or not.
// GetID/GetResult/GetOperands/GetBlock/IsTerminator/String/GetEffects cover
// inspection; SetBlock records block membership, and SetOperand is the one
// operand mutator, which the Rewriter needs to
// patch operands in place during dominance repair without a type switch per
// instruction kind.
type Instruction interface {
	GetID() int
	GetResult() *Value
	GetOperands() []*Value
	SetOperand(i int, v *Value)
	GetBlock() *BasicBlock
	SetBlock(b *BasicBlock)
	IsTerminator() bool
	String() string
	GetEffects() []Effect
}

// Effect classifies what an instruction does to state outside its result.
type Effect interface {
	EffectKind() string
}

// PureEffect indicates the instruction neither reads nor writes memory and
// cannot trap or call out.
type PureEffect struct{}

func (PureEffect) EffectKind() string { return "pure" }

// MemLoc identifies a memory location for effect/alias purposes: an
// underlying object plus a byte range relative to it. Size == -1 means
// "unknown extent" (conservatively aliases with everything on that
// object).
type MemLoc struct {
	Object *Value
	Offset int64
	Size   int64 // in bytes, -1 if unknown
}

// MemoryEffect represents a read or write of a MemLoc.
type MemoryEffect struct {
	Write bool
	Loc   MemLoc
}

func (MemoryEffect) EffectKind() string { return "memory" }

// SideEffect marks an instruction that can't be reordered across at all
// (calls with side effects, fences, traps): LegalityChecker rejects any
// chain with one of these between its first and last member.
type SideEffect struct{ Reason string }

func (SideEffect) EffectKind() string { return "side-effect" }

// baseInst holds the fields every concrete instruction shares (an ID/Block
// pair), embedded by value in each concrete struct instead of repeated per
// struct.
type baseInst struct {
	ID    int
	Block *BasicBlock
}

func (b *baseInst) GetID() int             { return b.ID }
func (b *baseInst) GetBlock() *BasicBlock   { return b.Block }
func (b *baseInst) SetBlock(bb *BasicBlock) { b.Block = bb }
func (b *baseInst) IsTerminator() bool      { return false }

// --- Memory instructions ---

// LoadInst loads Result.Type from Addr. Align is the instruction's stated
// alignment in bytes, 0 meaning "ABI-natural". Simple is false iff the load
// is atomic or volatile.
type LoadInst struct {
	baseInst
	Result    *Value
	Addr      *Value
	Align     int
	AddrSpace int
	Simple    bool
	Metadata  map[string]string
}

func (l *LoadInst) GetResult() *Value     { return l.Result }
func (l *LoadInst) GetOperands() []*Value { return []*Value{l.Addr} }
func (l *LoadInst) SetOperand(i int, v *Value) {
	if i == 0 {
		l.Addr = v
	}
}
func (l *LoadInst) GetEffects() []Effect {
	return []Effect{MemoryEffect{Write: false, Loc: MemLoc{Object: underlyingPlaceholder(l.Addr), Size: -1}}}
}
func (l *LoadInst) String() string {
	return l.Result.String() + " = load " + l.Result.Type.String() + ", " + l.Addr.String() + alignSuffix(l.Align)
}

// StoreInst stores Val to Addr. Same alignment/address-space/simple
// semantics as LoadInst.
type StoreInst struct {
	baseInst
	Addr      *Value
	Val       *Value
	Align     int
	AddrSpace int
	Simple    bool
	Metadata  map[string]string
}

func (s *StoreInst) GetResult() *Value     { return nil }
func (s *StoreInst) GetOperands() []*Value { return []*Value{s.Addr, s.Val} }
func (s *StoreInst) SetOperand(i int, v *Value) {
	switch i {
	case 0:
		s.Addr = v
	case 1:
		s.Val = v
	}
}
func (s *StoreInst) GetEffects() []Effect {
	return []Effect{MemoryEffect{Write: true, Loc: MemLoc{Object: underlyingPlaceholder(s.Addr), Size: -1}}}
}
func (s *StoreInst) String() string {
	return "store " + s.Val.String() + ", " + s.Addr.String() + alignSuffix(s.Align)
}

func alignSuffix(align int) string {
	if align == 0 {
		return ""
	}
	return ", align " + itoa(align)
}

// underlyingPlaceholder exists so LoadInst/StoreInst.GetEffects() can
// report *some* object identity without importing the oracles package
// (which would create an import cycle, since oracles imports ir). Callers that need the real
// underlying object use oracles.GetUnderlyingObject directly; this is only
// used for the default (rarely consulted) Effect value.
func underlyingPlaceholder(p *Value) *Value { return p }

// AllocaInst allocates a stack slot in address space 0. The legalizer's
// alignment fallback is allowed to raise an alloca's alignment because the
// pass is the sole owner of a stack allocation's layout; raising Align here
// is exactly that mutation.
type AllocaInst struct {
	baseInst
	Result    *Value
	AllocType Type
	Align     int
}

func (a *AllocaInst) GetResult() *Value      { return a.Result }
func (a *AllocaInst) GetOperands() []*Value  { return nil }
func (a *AllocaInst) SetOperand(int, *Value) {}
func (a *AllocaInst) GetEffects() []Effect   { return []Effect{PureEffect{}} }
func (a *AllocaInst) String() string {
	return a.Result.String() + " = alloca " + a.AllocType.String() + alignSuffix(a.Align)
}

// --- Pointer arithmetic ---

// GEPInst computes a derived pointer from Base plus a sequence of Indices,
// mirroring LLVM's getelementptr. Inbounds marks that the computation
// never wraps or leaves the allocation, which is what lets
// ConsecutivityOracle treat its offsets as exact integers.
type GEPInst struct {
	baseInst
	Result   *Value
	Base     *Value
	Indices  []*Value
	Inbounds bool
}

func (g *GEPInst) GetResult() *Value     { return g.Result }
func (g *GEPInst) GetOperands() []*Value { return append([]*Value{g.Base}, g.Indices...) }
func (g *GEPInst) SetOperand(i int, v *Value) {
	if i == 0 {
		g.Base = v
		return
	}
	if i-1 < len(g.Indices) {
		g.Indices[i-1] = v
	}
}
func (g *GEPInst) GetEffects() []Effect { return []Effect{PureEffect{}} }
func (g *GEPInst) String() string {
	s := g.Result.String() + " = gep "
	if g.Inbounds {
		s += "inbounds "
	}
	s += g.Base.String()
	for _, idx := range g.Indices {
		s += ", " + idx.String()
	}
	return s
}

// --- Casts ---

type castKind int

const (
	CastBitCast castKind = iota
	CastSExt
	CastZExt
)

// CastInst is a bitcast, sign-extension, or zero-extension. The
// consecutivity cascade's structural probe looks specifically for SExt/ZExt
// on GEP index operands.
type CastInst struct {
	baseInst
	Result *Value
	Kind   castKind
	Src    *Value
	// No wrap flags live here: the structural probe reads
	// BinaryInst.NoSignedWrap/NoUnsignedWrap on the add that produces the
	// cast's input.
}

func (c *CastInst) GetResult() *Value     { return c.Result }
func (c *CastInst) GetOperands() []*Value { return []*Value{c.Src} }
func (c *CastInst) SetOperand(i int, v *Value) {
	if i == 0 {
		c.Src = v
	}
}
func (c *CastInst) GetEffects() []Effect { return []Effect{PureEffect{}} }
func (c *CastInst) String() string {
	name := map[castKind]string{CastBitCast: "bitcast", CastSExt: "sext", CastZExt: "zext"}[c.Kind]
	return c.Result.String() + " = " + name + " " + c.Src.String() + " to " + c.Result.Type.String()
}

// IsSExt / IsZExt let the consecutivity oracle ask "is this a sign or zero
// extension" without importing castKind's unexported values.
func (c *CastInst) IsSExt() bool { return c.Kind == CastSExt }
func (c *CastInst) IsZExt() bool { return c.Kind == CastZExt }

// --- Arithmetic ---

// BinaryInst is a two-operand arithmetic/comparison op. NoSignedWrap and
// NoUnsignedWrap mirror LLVM's nsw/nuw flags, consumed by the consecutivity
// cascade's structural probe.
type BinaryInst struct {
	baseInst
	Result         *Value
	Op             string // "+", "-", "*", "<<", ...
	Left           *Value
	Right          *Value
	NoSignedWrap   bool
	NoUnsignedWrap bool
}

func (b *BinaryInst) GetResult() *Value     { return b.Result }
func (b *BinaryInst) GetOperands() []*Value { return []*Value{b.Left, b.Right} }
func (b *BinaryInst) SetOperand(i int, v *Value) {
	switch i {
	case 0:
		b.Left = v
	case 1:
		b.Right = v
	}
}
func (b *BinaryInst) GetEffects() []Effect { return []Effect{PureEffect{}} }
func (b *BinaryInst) String() string {
	return b.Result.String() + " = " + b.Op + " " + b.Left.String() + ", " + b.Right.String()
}

// --- Constants, vector lane ops, calls ---

// ConstantInst materializes a compile-time constant.
type ConstantInst struct {
	baseInst
	Result *Value
	IntVal int64 // valid when Result.Type is *IntType
}

func (c *ConstantInst) GetResult() *Value     { return c.Result }
func (c *ConstantInst) GetOperands() []*Value { return nil }
func (c *ConstantInst) SetOperand(int, *Value) {}
func (c *ConstantInst) GetEffects() []Effect   { return []Effect{PureEffect{}} }
func (c *ConstantInst) String() string {
	return c.Result.String() + " = const " + itoa64(c.IntVal)
}

// UndefInst materializes an undefined value of the given type, used by the
// Rewriter as the seed for a widened vector before lanes are inserted.
type UndefInst struct {
	baseInst
	Result *Value
}

func (u *UndefInst) GetResult() *Value     { return u.Result }
func (u *UndefInst) GetOperands() []*Value { return nil }
func (u *UndefInst) SetOperand(int, *Value) {}
func (u *UndefInst) GetEffects() []Effect   { return []Effect{PureEffect{}} }
func (u *UndefInst) String() string         { return u.Result.String() + " = undef " + u.Result.Type.String() }

// ExtractElementInst extracts lane Index from Vec. Index is always a
// constant in this pass's usage: eligibility requires every vector-typed
// load's users to be constant-indexed extractions.
type ExtractElementInst struct {
	baseInst
	Result *Value
	Vec    *Value
	Index  int
}

func (e *ExtractElementInst) GetResult() *Value     { return e.Result }
func (e *ExtractElementInst) GetOperands() []*Value { return []*Value{e.Vec} }
func (e *ExtractElementInst) SetOperand(i int, v *Value) {
	if i == 0 {
		e.Vec = v
	}
}
func (e *ExtractElementInst) GetEffects() []Effect { return []Effect{PureEffect{}} }
func (e *ExtractElementInst) String() string {
	return e.Result.String() + " = extractelement " + e.Vec.String() + ", " + itoa(e.Index)
}

// InsertElementInst inserts Elem into lane Index of Vec, producing Result.
type InsertElementInst struct {
	baseInst
	Result *Value
	Vec    *Value
	Elem   *Value
	Index  int
}

func (i2 *InsertElementInst) GetResult() *Value     { return i2.Result }
func (i2 *InsertElementInst) GetOperands() []*Value { return []*Value{i2.Vec, i2.Elem} }
func (i2 *InsertElementInst) SetOperand(i int, v *Value) {
	switch i {
	case 0:
		i2.Vec = v
	case 1:
		i2.Elem = v
	}
}
func (i2 *InsertElementInst) GetEffects() []Effect { return []Effect{PureEffect{}} }
func (i2 *InsertElementInst) String() string {
	return i2.Result.String() + " = insertelement " + i2.Vec.String() + ", " + i2.Elem.String() + ", " + itoa(i2.Index)
}

// CallInst is a function call. HasSideEffects gates the legality checker's
// "side effects -> reject outright" rule; a call known to be
// pure (no writes, doesn't trap, doesn't observe memory ordering) reports
// PureEffect from GetEffects and does not block vectorization; it is not a
// load or store, so the alias-based safety rules do not consider it.
type CallInst struct {
	baseInst
	Result         *Value
	Callee         string
	Args           []*Value
	HasSideEffects bool
}

func (c *CallInst) GetResult() *Value     { return c.Result }
func (c *CallInst) GetOperands() []*Value { return c.Args }
func (c *CallInst) SetOperand(i int, v *Value) {
	if i < len(c.Args) {
		c.Args[i] = v
	}
}
func (c *CallInst) GetEffects() []Effect {
	if c.HasSideEffects {
		return []Effect{SideEffect{Reason: "call @" + c.Callee}}
	}
	return []Effect{PureEffect{}}
}
func (c *CallInst) String() string {
	s := "call @" + c.Callee + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	s += ")"
	if c.Result != nil {
		s = c.Result.String() + " = " + s
	}
	return s
}

// --- Terminators ---

// Terminator ends a BasicBlock. The pass never crosses a block boundary,
// so terminators only matter for Driver's CFG walk.
type Terminator interface {
	Instruction
	Successors() []*BasicBlock
}

// RetTerm returns from the function, optionally with a value.
type RetTerm struct {
	baseInst
	Val *Value
}

func (r *RetTerm) GetResult() *Value { return nil }
func (r *RetTerm) GetOperands() []*Value {
	if r.Val != nil {
		return []*Value{r.Val}
	}
	return nil
}
func (r *RetTerm) SetOperand(i int, v *Value) {
	if i == 0 {
		r.Val = v
	}
}
func (r *RetTerm) IsTerminator() bool      { return true }
func (r *RetTerm) GetEffects() []Effect    { return []Effect{PureEffect{}} }
func (r *RetTerm) Successors() []*BasicBlock { return nil }
func (r *RetTerm) String() string {
	if r.Val != nil {
		return "ret " + r.Val.String()
	}
	return "ret void"
}

// BrTerm is an unconditional jump to Target.
type BrTerm struct {
	baseInst
	Target *BasicBlock
}

func (b *BrTerm) GetResult() *Value          { return nil }
func (b *BrTerm) GetOperands() []*Value      { return nil }
func (b *BrTerm) SetOperand(int, *Value)     {}
func (b *BrTerm) IsTerminator() bool         { return true }
func (b *BrTerm) GetEffects() []Effect       { return []Effect{PureEffect{}} }
func (b *BrTerm) Successors() []*BasicBlock  { return []*BasicBlock{b.Target} }
func (b *BrTerm) String() string             { return "br label " + b.Target.Label }

// CondBrTerm branches to True or False depending on Cond.
type CondBrTerm struct {
	baseInst
	Cond  *Value
	True  *BasicBlock
	False *BasicBlock
}

func (c *CondBrTerm) GetResult() *Value { return nil }
func (c *CondBrTerm) GetOperands() []*Value {
	return []*Value{c.Cond}
}
func (c *CondBrTerm) SetOperand(i int, v *Value) {
	if i == 0 {
		c.Cond = v
	}
}
func (c *CondBrTerm) IsTerminator() bool { return true }
func (c *CondBrTerm) GetEffects() []Effect {
	return []Effect{PureEffect{}}
}
func (c *CondBrTerm) Successors() []*BasicBlock {
	return []*BasicBlock{c.True, c.False}
}
func (c *CondBrTerm) String() string {
	return "br " + c.Cond.String() + ", label " + c.True.Label + ", label " + c.False.Label
}

func itoa(n int) string      { return strconv.Itoa(n) }
func itoa64(n int64) string  { return strconv.FormatInt(n, 10) }
