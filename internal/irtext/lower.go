package irtext

import (
	"fmt"
	"strings"

	"loadvec/internal/ir"
)

// Lower walks a parsed Program and builds the equivalent *ir.Module via
// the ir.Builder API, an "AST plus symbol table" walk that builds
// three-address IR instead of checking a contract AST.
func Lower(prog *Program) (*ir.Module, error) {
	mod := &ir.Module{}
	for _, top := range prog.Elements {
		switch {
		case top.Global != nil:
			lowerGlobal(mod, top.Global)
		case top.Function != nil:
			if err := lowerFunction(mod, top.Function); err != nil {
				return nil, err
			}
		}
	}
	return mod, nil
}

func lowerGlobal(mod *ir.Module, g *GlobalDecl) {
	typ := resolveType(g.Type)
	align := optInt(g.Align, 0)
	addrSpace := optInt(g.AddrSpace, 0)
	mod.NewGlobal(trimSigil(g.Name), typ, align, addrSpace)
}

// funcScope resolves a local or global reference appearing anywhere in
// one function body to its *ir.Value.
type funcScope struct {
	mod    *ir.Module
	values map[string]*ir.Value
	blocks map[string]*ir.BasicBlock
}

func (s *funcScope) local(name string) (*ir.Value, error) {
	if v, ok := s.values[name]; ok {
		return v, nil
	}
	for _, g := range s.mod.Globals {
		if "@"+g.Global.Name == name {
			return g, nil
		}
	}
	return nil, fmt.Errorf("undefined reference %q", name)
}

func (s *funcScope) block(label string) (*ir.BasicBlock, error) {
	if b, ok := s.blocks[label]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("undefined block label %q", label)
}

func lowerFunction(mod *ir.Module, f *FuncDecl) error {
	fn := &ir.Function{Name: trimSigil(f.Name), NoImplicitFloat: f.NoImplicitFloat}
	if f.ReturnType != nil {
		fn.ReturnType = resolveType(f.ReturnType)
	}
	for _, blk := range f.Blocks {
		fn.NewBlock(blk.Label)
	}

	scope := &funcScope{mod: mod, values: map[string]*ir.Value{}, blocks: map[string]*ir.BasicBlock{}}
	for _, b := range fn.Blocks {
		scope.blocks[b.Label] = b
	}

	b := ir.NewBuilder(fn, fn.Blocks[0])
	for _, p := range f.Params {
		scope.values[p.Name] = b.Param(trimSigil(p.Name), resolveType(p.Type))
	}

	for i, blk := range f.Blocks {
		b.SetBlock(fn.Blocks[i])
		for _, inst := range blk.Insts {
			if err := lowerInst(scope, b, inst); err != nil {
				return fmt.Errorf("function %s, block %s: %w", fn.Name, blk.Label, err)
			}
		}
	}

	mod.Functions = append(mod.Functions, fn)
	return nil
}

func lowerInst(s *funcScope, b *ir.Builder, inst *Inst) error {
	switch {
	case inst.Alloca != nil:
		a := inst.Alloca
		s.values[a.Result] = b.CreateAlloca(trimSigil(a.Result), resolveType(a.Type), optInt(a.Align, 0))
		return nil

	case inst.Load != nil:
		l := inst.Load
		addr, err := s.local(l.Addr)
		if err != nil {
			return err
		}
		s.values[l.Result] = b.CreateLoad(trimSigil(l.Result), resolveType(l.Type), addr, optInt(l.Align, 0), optInt(l.AddrSpace, 0))
		return nil

	case inst.Store != nil:
		st := inst.Store
		val, err := s.local(st.Val)
		if err != nil {
			return err
		}
		addr, err := s.local(st.Addr)
		if err != nil {
			return err
		}
		b.CreateStore(val, addr, optInt(st.Align, 0), optInt(st.AddrSpace, 0))
		return nil

	case inst.GEP != nil:
		g := inst.GEP
		base, err := s.local(g.Base)
		if err != nil {
			return err
		}
		indices := make([]*ir.Value, len(g.Indices))
		for i, opnd := range g.Indices {
			v, err := lowerOperand(s, b, opnd, &ir.IntType{Bits: 32})
			if err != nil {
				return err
			}
			indices[i] = v
		}
		addrSpace := 0
		if pt, ok := base.Type.(*ir.PointerType); ok {
			addrSpace = pt.AddrSpace
		}
		s.values[g.Result] = b.CreateGEP(trimSigil(g.Result), resolveType(g.ElemType), addrSpace, base, g.Inbounds, indices...)
		return nil

	case inst.Cast != nil:
		c := inst.Cast
		src, err := s.local(c.Src)
		if err != nil {
			return err
		}
		typ := resolveType(c.Type)
		var result *ir.Value
		switch c.Kind {
		case "sext":
			result = b.CreateSExt(trimSigil(c.Result), typ, src)
		case "zext":
			result = b.CreateZExt(trimSigil(c.Result), typ, src)
		default:
			result = b.CreateBitCast(trimSigil(c.Result), typ, src)
		}
		s.values[c.Result] = result
		return nil

	case inst.Binary != nil:
		bin := inst.Binary
		left, err := s.local(bin.Left)
		if err != nil {
			return err
		}
		typ := resolveType(bin.Type)
		right, err := lowerOperand(s, b, bin.Right, typ)
		if err != nil {
			return err
		}
		s.values[bin.Result] = b.CreateBinary(trimSigil(bin.Result), typ, binaryOp(bin.Op), left, right, bin.NSW, bin.NUW)
		return nil

	case inst.Const != nil:
		c := inst.Const
		s.values[c.Result] = b.CreateConstantInt(trimSigil(c.Result), resolveType(c.Type), int64(c.Value))
		return nil

	case inst.Ret != nil:
		if inst.Ret.Val == nil {
			b.Ret(nil)
			return nil
		}
		val, err := s.local(*inst.Ret.Val)
		if err != nil {
			return err
		}
		b.Ret(val)
		return nil

	case inst.Br != nil:
		target, err := s.block(inst.Br.Target)
		if err != nil {
			return err
		}
		b.Br(target)
		return nil

	case inst.CondBr != nil:
		cb := inst.CondBr
		cond, err := s.local(cb.Cond)
		if err != nil {
			return err
		}
		trueBlk, err := s.block(cb.True)
		if err != nil {
			return err
		}
		falseBlk, err := s.block(cb.False)
		if err != nil {
			return err
		}
		b.CondBr(cond, trueBlk, falseBlk)
		return nil
	}
	return fmt.Errorf("empty instruction node")
}

// lowerOperand resolves an Operand: either a named value, or a bare
// integer literal materialized as a fresh constant of typ.
func lowerOperand(s *funcScope, b *ir.Builder, op *Operand, typ ir.Type) (*ir.Value, error) {
	if op.Int != nil {
		return b.CreateConstantInt("imm", typ, int64(*op.Int)), nil
	}
	return s.local(op.Name)
}

func resolveType(t *TypeRef) ir.Type {
	var base ir.Type
	switch {
	case t.Vector != nil:
		base = &ir.VectorType{ElemType: resolveType(t.Vector.Elem), Len: t.Vector.Len}
	default:
		base = baseType(t.Base)
	}
	if t.Pointer {
		addrSpace := optInt(t.AddrSpace, 0)
		base = &ir.PointerType{ElemType: base, AddrSpace: addrSpace}
	}
	return base
}

func baseType(name string) ir.Type {
	switch name {
	case "i8":
		return &ir.IntType{Bits: 8}
	case "i16":
		return &ir.IntType{Bits: 16}
	case "i32":
		return &ir.IntType{Bits: 32}
	case "i64":
		return &ir.IntType{Bits: 64}
	case "f32":
		return &ir.FloatType{Bits: 32}
	case "f64":
		return &ir.FloatType{Bits: 64}
	default:
		return &ir.IntType{Bits: 32}
	}
}

// binaryOp maps the text grammar's mnemonic to the operator symbol
// BinaryInst.Op carries (the same symbols ir.Printer and the
// ConsecutivityOracle's structural probe compare against).
func binaryOp(mnemonic string) string {
	switch mnemonic {
	case "add":
		return "+"
	case "sub":
		return "-"
	case "mul":
		return "*"
	default:
		return mnemonic
	}
}

func optInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// trimSigil strips the leading '%' or '@' a Local/Global token carries,
// since ir.Value.String() re-adds '%' itself and ir.GlobalVar.Name is
// stored bare.
func trimSigil(name string) string {
	return strings.TrimLeft(name, "%@")
}
