package irtext

// Grammar declares this pass's three-address function text as a set of
// participle-tagged structs: a module is a flat sequence of global
// declarations and function definitions, a function is a sequence of
// labeled blocks, and a block is a sequence of instructions ending in a
// terminator.

// Program is the root grammar node: a slice of top-level elements.
type Program struct {
	Elements []*TopLevel `@@*`
}

// TopLevel is either a global declaration or a function definition.
type TopLevel struct {
	Global   *GlobalDecl `(  @@`
	Function *FuncDecl   ` | @@ )`
}

// GlobalDecl declares a module-level global: `global @name : i32, align 4`
type GlobalDecl struct {
	Name      string `"global" @Global`
	Type      *TypeRef `":" @@`
	AddrSpace *int     `("addrspace" "(" @Integer ")")?`
	Align     *int     `("," "align" @Integer)?`
}

// FuncDecl is one function: `function @name(%p0: i32*) -> i32 { ... }`
type FuncDecl struct {
	NoImplicitFloat bool     `@"noimplicitfloat"?`
	Name            string   `"function" @Global`
	Params          []*Param `"(" (@@ ("," @@)*)? ")"`
	ReturnType      *TypeRef `("->" @@)?`
	Blocks          []*Block `"{" @@+ "}"`
}

// Param is one function parameter: `%name : type`
type Param struct {
	Name string   `@Local`
	Type *TypeRef `":" @@`
}

// Block is a label followed by its straight-line instruction list and
// terminator.
type Block struct {
	Label string   `@Ident ":"`
	Insts []*Inst  `@@*`
}

// TypeRef covers every type this IR's text format needs: integers,
// floats, pointers (possibly address-spaced), and fixed vectors.
type TypeRef struct {
	Vector    *VectorTypeRef `(  @@`
	Base      string         ` | @("i8" | "i16" | "i32" | "i64" | "f32" | "f64") )`
	AddrSpace *int           `("addrspace" "(" @Integer ")")?`
	Pointer   bool           `@"*"?`
}

// VectorTypeRef is `<N x elemtype>`.
type VectorTypeRef struct {
	Len  int      `"<" @Integer`
	Elem *TypeRef `"x" @@ ">"`
}

// Inst is one instruction line. Only a tagged subset is populated per
// line (participle picks the alternative that matches); the rest is nil,
// flattened to avoid an extra wrapper layer per instruction kind.
type Inst struct {
	Alloca    *AllocaInst    `(  @@`
	Load      *LoadInst      ` | @@`
	Store     *StoreInst     ` | @@`
	GEP       *GEPInst       ` | @@`
	Cast      *CastInst      ` | @@`
	Binary    *BinaryInst    ` | @@`
	Const     *ConstInst     ` | @@`
	Ret       *RetInst       ` | @@`
	Br        *BrInst        ` | @@`
	CondBr    *CondBrInst    ` | @@ )`
}

type AllocaInst struct {
	Result string   `@Local "=" "alloca"`
	Type   *TypeRef `@@`
	Align  *int     `("," "align" @Integer)?`
}

type LoadInst struct {
	Result    string   `@Local "=" "load"`
	Type      *TypeRef `@@ ","`
	Addr      string   `@(Local | Global)`
	Align     *int     `("," "align" @Integer)?`
	AddrSpace *int     `("," "addrspace" @Integer)?`
}

type StoreInst struct {
	Val       string   `"store" @Local`
	Addr      string   `"," @Local`
	Align     *int     `("," "align" @Integer)?`
	AddrSpace *int     `("," "addrspace" @Integer)?`
}

type GEPInst struct {
	Result   string     `@Local "=" "gep"`
	Inbounds bool       `@"inbounds"?`
	ElemType *TypeRef   `@@ ","`
	Base     string     `@(Local | Global)`
	Indices  []*Operand `("," @@)*`
}

// Operand is either a local/global reference or an integer literal
// constant used directly as a GEP index.
type Operand struct {
	Name string `(  @(Local | Global)`
	Int  *int   ` | @Integer )`
}

type CastInst struct {
	Result string   `@Local "="`
	Kind   string   `@("sext" | "zext" | "bitcast")`
	Src    string   `@Local`
	Type   *TypeRef `"to" @@`
}

type BinaryInst struct {
	Result string   `@Local "="`
	Op     string   `@("add" | "sub" | "mul")`
	Type   *TypeRef `@@`
	NSW    bool     `@"nsw"?`
	NUW    bool     `@"nuw"?`
	Left   string   `@Local ","`
	Right  *Operand `@@`
}

type ConstInst struct {
	Result string   `@Local "=" "const"`
	Type   *TypeRef `@@`
	Value  int      `@Integer`
}

type RetInst struct {
	Val *string `"ret" @Local?`
}

type BrInst struct {
	Target string `"br" @Ident`
}

type CondBrInst struct {
	Cond  string `"condbr" @Local`
	True  string `"," @Ident`
	False string `"," @Ident`
}
