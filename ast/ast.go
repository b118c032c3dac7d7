// Package ast defines the contractual node shapes the code generator
// consumes. The lexer, parser, and type/identifier tables that produce
// these trees are external collaborators outside this core's scope;
// this package only fixes the interface between them and codegen.
package ast

// Kind tags a Node's concrete shape, letting codegen switch on it
// without a type assertion per node.
type Kind int

const (
	KindIdentifier Kind = iota
	KindIntLiteral
	KindFloatLiteral
	KindStringLiteral
	KindSubscript
	KindMember
	KindIndirection
	KindAddressOf
	KindUnary
	KindIncDec
	KindBinary
	KindLogical
	KindAssign
	KindTernary
	KindCall
	KindCast

	KindCompound
	KindExprStmt
	KindIf
	KindWhile
	KindDoWhile
	KindFor
	KindContinue
	KindBreak
	KindReturn

	KindVarDecl
	KindFuncDecl
	KindProgram
)

// Node is any AST node the code generator walks.
type Node interface {
	Kind() Kind
}

// TypeKind classifies a Type's shape.
type TypeKind int

const (
	TypeChar TypeKind = iota
	TypeInt
	TypeFloat
	TypePointer
	TypeArray
	TypeStruct
	TypeVoid
)

// Type describes an expression's or declaration's static type. Size and
// member layout are what codegen needs to compute displacements and
// element-wise moves; it never re-derives them from a lexer token.
type Type struct {
	Kind TypeKind

	// Elem is the pointed-to/element type for TypePointer/TypeArray.
	Elem *Type
	// ArrayLen is the element count for TypeArray.
	ArrayLen int
	// Members lists field (name, type) pairs in declaration order for
	// TypeStruct.
	Members []Field
}

// Field is one struct member.
type Field struct {
	Name string
	Type *Type
}

// Size returns the type's size in machine words: every scalar and
// pointer is one word except float, which is two words wherever it
// appears (alone, as an array element or as a struct member); arrays
// and structs sum the sizes of their elements and members. codegen's
// member offsets and compound-type assignment use these same sizes.
func (t *Type) Size() int {
	switch t.Kind {
	case TypeFloat:
		return 2
	case TypeArray:
		return t.ArrayLen * t.Elem.Size()
	case TypeStruct:
		total := 0
		for _, m := range t.Members {
			total += m.Type.Size()
		}
		return total
	default:
		return 1
	}
}

// IsArray reports whether t names an array type.
func (t *Type) IsArray() bool {
	return t != nil && t.Kind == TypeArray
}

// --- Expressions ---

// Identifier references a declared variable or function by name; the
// declaration it resolves to is external-collaborator state (the
// symbol/type table), looked up by codegen via Displacement/func tables
// at emission time, not carried on the node itself.
type Identifier struct {
	Name string
	Typ  *Type
}

func (*Identifier) Kind() Kind { return KindIdentifier }

// IntLiteral is an integer constant.
type IntLiteral struct {
	Value int64
}

func (*IntLiteral) Kind() Kind { return KindIntLiteral }

// FloatLiteral is a floating-point constant.
type FloatLiteral struct {
	Value float64
}

func (*FloatLiteral) Kind() Kind { return KindFloatLiteral }

// StringLiteral is a string constant; codegen registers it in the
// string table when it lowers the literal and writes that table after
// the functions.
type StringLiteral struct {
	Value string
}

func (*StringLiteral) Kind() Kind { return KindStringLiteral }

// Subscript is `base[index]`.
type Subscript struct {
	Base  Node
	Index Node
	Typ   *Type
}

func (*Subscript) Kind() Kind { return KindSubscript }

// Member is `base.Name` (Arrow == false) or `base->Name` (Arrow == true).
type Member struct {
	Base  Node
	Name  string
	Arrow bool
	Typ   *Type
}

func (*Member) Kind() Kind { return KindMember }

// Indirection is `*operand`.
type Indirection struct {
	Operand Node
	Typ     *Type
}

func (*Indirection) Kind() Kind { return KindIndirection }

// AddressOf is `&operand`.
type AddressOf struct {
	Operand Node
}

func (*AddressOf) Kind() Kind { return KindAddressOf }

// UnaryOp enumerates unary arithmetic operators with non-trivial
// lowerings (§4.G).
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryLogicalNot
	UnaryAbs
)

// Unary is a unary arithmetic expression.
type Unary struct {
	Op      UnaryOp
	Operand Node
}

func (*Unary) Kind() Kind { return KindUnary }

// IncDecOp distinguishes increment/decrement and pre/post form.
type IncDecOp int

const (
	PreInc IncDecOp = iota
	PreDec
	PostInc
	PostDec
)

// IncDec is `++x`/`--x`/`x++`/`x--`.
type IncDec struct {
	Op      IncDecOp
	Operand Node
}

func (*IncDec) Kind() Kind { return KindIncDec }

// BinaryOp enumerates binary arithmetic/bitwise/comparison operators.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinAnd
	BinOr
	BinXor
	BinShl
	BinShr
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
)

// Binary is a binary arithmetic/bitwise/comparison expression.
type Binary struct {
	Op          BinaryOp
	Left, Right Node
}

func (*Binary) Kind() Kind { return KindBinary }

// LogicalOp distinguishes short-circuit `&&`/`||`.
type LogicalOp int

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

// Logical is a short-circuit `&&`/`||` expression.
type Logical struct {
	Op          LogicalOp
	Left, Right Node
}

func (*Logical) Kind() Kind { return KindLogical }

// Assign is `lhs op= rhs`; Op is BinAdd for plain `=` when Compound is
// false (see below), or the compound operator otherwise.
type Assign struct {
	Lhs      Node
	Rhs      Node
	Op       BinaryOp
	Compound bool
}

func (*Assign) Kind() Kind { return KindAssign }

// Ternary is `cond ? then : els`.
type Ternary struct {
	Cond, Then, Else Node
}

func (*Ternary) Kind() Kind { return KindTernary }

// Call is a function call, user-defined or built-in (Builtin != "").
type Call struct {
	Callee  string
	Args    []Node
	Builtin string
	Typ     *Type
}

func (*Call) Kind() Kind { return KindCall }

// Cast is an explicit type conversion.
type Cast struct {
	Operand Node
	To      *Type
}

func (*Cast) Kind() Kind { return KindCast }

// --- Statements ---

// Compound is a `{ ... }` block.
type Compound struct {
	Stmts []Node
}

func (*Compound) Kind() Kind { return KindCompound }

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Expr Node
}

func (*ExprStmt) Kind() Kind { return KindExprStmt }

// If is `if (Cond) Then [else Else]`.
type If struct {
	Cond       Node
	Then, Else Node
}

func (*If) Kind() Kind { return KindIf }

// While is `while (Cond) Body`.
type While struct {
	Cond Node
	Body Node
}

func (*While) Kind() Kind { return KindWhile }

// DoWhile is `do Body while (Cond);`.
type DoWhile struct {
	Body Node
	Cond Node
}

func (*DoWhile) Kind() Kind { return KindDoWhile }

// For is `for (Init; Cond; Post) Body`; each of Init/Cond/Post may be
// nil.
type For struct {
	Init, Cond, Post Node
	Body             Node
}

func (*For) Kind() Kind { return KindFor }

// Continue is `continue;`.
type Continue struct{}

func (*Continue) Kind() Kind { return KindContinue }

// Break is `break;`.
type Break struct{}

func (*Break) Kind() Kind { return KindBreak }

// Return is `return [Expr];`.
type Return struct {
	Expr Node
}

func (*Return) Kind() Kind { return KindReturn }

// --- Declarations ---

// VarDecl declares a local or global variable.
type VarDecl struct {
	Name   string
	Typ    *Type
	Global bool
	Init   Node
}

func (*VarDecl) Kind() Kind { return KindVarDecl }

// Param is one function parameter.
type Param struct {
	Name string
	Typ  *Type
}

// FuncDecl declares a function: its signature and (if Body != nil) its
// definition.
type FuncDecl struct {
	Name   string
	Params []Param
	Ret    *Type
	Body   *Compound
}

func (*FuncDecl) Kind() Kind { return KindFuncDecl }

// Program is a translation unit's top-level declarations.
type Program struct {
	Decls []Node
}

func (*Program) Kind() Kind { return KindProgram }
