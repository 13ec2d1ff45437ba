package ir

// Value is an SSA value: either the result of an Instruction or a bare
// function Parameter. Every Value has exactly one definition (Def is nil
// for parameters and other non-instruction values).
type Value struct {
	ID   int
	Name string
	Type Type
	Def  Instruction // nil for parameters and globals
	Uses []*Use

	// Global is non-nil when this Value is the address of a module-level
	// global rather than a parameter or an alloca. GetUnderlyingObject
	// peeling stops here the same way it stops at a bare parameter, and
	// the Legalizer's alignment rule consults it to refuse to raise a
	// global's alignment (only a stack allocation's layout is the pass's
	// to change).
	Global *GlobalVar
}

// GlobalVar describes a module-level global variable's address-producing
// Value: its declared alignment and address space, the two facts the
// Legalizer needs to decide whether this root can absorb an alignment
// raise (it can't — only AllocaInst roots can).
type GlobalVar struct {
	Name      string
	ElemType  Type
	Align     int
	AddrSpace int
}

func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	return "%" + v.Name
}

// AddUse records that user consumes v as its operand-th operand. Rewriter
// and LegalityChecker both walk Uses, so every instruction that reads a
// Value must register a Use for it via the builder.
func (v *Value) AddUse(user Instruction, operand int) *Use {
	u := &Use{Value: v, User: user, Operand: operand}
	v.Uses = append(v.Uses, u)
	return u
}

// RemoveUse deletes the given use from v's use list. It is a no-op if u is
// not present, so removing the same use twice is harmless.
func (v *Value) RemoveUse(u *Use) {
	for i, existing := range v.Uses {
		if existing == u {
			v.Uses = append(v.Uses[:i], v.Uses[i+1:]...)
			return
		}
	}
}

// Use represents one instruction's consumption of one Value at one operand
// position. Operand lets the Rewriter patch an operand in place without
// re-deriving which field of the user instruction pointed at Value.
type Use struct {
	Value   *Value
	User    Instruction
	Operand int
}

// ReplaceAllUsesWith rewires every recorded use of v to point at repl
// instead, updating both the user instruction's operand and repl's use
// list. v.Uses is left empty. Callers snapshot v.Uses before calling this
// if they also need to move the users afterward (dominance repair does).
func ReplaceAllUsesWith(v *Value, repl *Value) {
	uses := v.Uses
	v.Uses = nil
	for _, u := range uses {
		u.User.SetOperand(u.Operand, repl)
		u.Value = repl
		repl.Uses = append(repl.Uses, u)
	}
}
