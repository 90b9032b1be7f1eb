package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 2 main classes of nodes: Expressions and Statements.
// All nodes implement the Node interface. The node set is closed: consumers
// switch exhaustively over the concrete types and treat an unknown node as
// an internal error.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Program

// Program is the root node: the full list of top-level statements.
type Program struct {
	node
	Stmts []Stmt
}

// ----------------------------------------------------------------------------
// Expressions

// Name represents an identifier.
type Name struct {
	expr
	Value string
}

// LitKind represents the kind of a literal value.
type LitKind uint8

const (
	NumberLit LitKind = iota // 42, 3.14, -1
	StringLit                // "hello"
	BoolLit                  // true, false
)

// litKindNames maps literal kinds to their string representation.
var litKindNames = [...]string{
	NumberLit: "number",
	StringLit: "string",
	BoolLit:   "boolean",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= BoolLit {
		return litKindNames[k]
	}
	return "LitKind(?)"
}

// BasicLit represents a literal value (number, string, or boolean).
type BasicLit struct {
	expr
	Value string // literal text (decoded for strings)
	Kind  LitKind
}

// Operation represents a unary or binary operation.
// For unary operations (- and not), Y is nil.
// The postfix forms M ^ t and M ^ -1 are represented as _Pow operations
// whose right operand is the string literal "t" or the number -1.
type Operation struct {
	expr
	Op Token // operator token
	X  Expr  // left operand (or only operand for unary)
	Y  Expr  // right operand (nil for unary)
}

// CallExpr represents a function call: Fun(Args...)
type CallExpr struct {
	expr
	Fun  *Name  // called name (builtin or user-defined function)
	Args []Expr // argument list
}

// IndexExpr represents an index expression: X[Index]
type IndexExpr struct {
	expr
	X     *Name // indexed variable
	Index Expr  // index expression
}

// ArrayLit represents an array or matrix literal: [Elems...]
// A matrix literal is an array literal whose elements are array literals.
type ArrayLit struct {
	expr
	Elems []Expr
}

// ----------------------------------------------------------------------------
// Statements

// DeclStmt represents a typed declaration: int x = 1, y = 2, z
// Each declared name carries an optional initializer.
type DeclStmt struct {
	stmt
	Type  Token // _Int, _Long, _Float, _StringKw, _Boolean, _Array, _Matrix
	Items []DeclItem
}

// DeclItem is one name in a declaration list.
type DeclItem struct {
	Name  *Name
	Value Expr // initial value (nil if none)
}

// AssignStmt represents an assignment: LHS = RHS
// LHS is a *Name or an *IndexExpr.
type AssignStmt struct {
	stmt
	LHS Expr
	RHS Expr
}

// PrintStmt represents: print expr, expr, ...
type PrintStmt struct {
	stmt
	Args []Expr
}

// InputStmt represents: input name
type InputStmt struct {
	stmt
	Name *Name
}

// IfStmt represents: if Cond : Then [else : Else] end
type IfStmt struct {
	stmt
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if no else branch
}

// WhileStmt represents: while Cond : Body end
type WhileStmt struct {
	stmt
	Cond Expr
	Body []Stmt
}

// RepeatStmt represents: repeat Count times : Body end
type RepeatStmt struct {
	stmt
	Count Expr
	Body  []Stmt
}

// ForStmt represents: for Init ; Cond ; Post : Body end
type ForStmt struct {
	stmt
	Init Stmt // *DeclStmt or *AssignStmt (nil if omitted)
	Cond Expr
	Post Stmt // *AssignStmt (nil if omitted)
	Body []Stmt
}

// FuncDecl represents: function RetType Name(Params) : Body end
type FuncDecl struct {
	stmt
	RetType Token // type keyword or _Void
	Name    *Name
	Params  []Param
	Body    []Stmt
}

// Param is one typed parameter of a function.
type Param struct {
	Type Token
	Name *Name
}

// ReturnStmt represents: return [Result]
type ReturnStmt struct {
	stmt
	Result Expr // nil for bare return
}

// BranchStmt represents a break or continue statement.
type BranchStmt struct {
	stmt
	Tok Token // _Break or _Continue
}

// ExprStmt represents an expression used as a statement (a call).
type ExprStmt struct {
	stmt
	X Expr
}
