// Package ast defines the syntax tree produced by the slate front end.
//
// Nodes form a strict tree: every child is owned by exactly one parent, and
// nodes are never mutated after construction. Downstream consumers (type
// checking, borrow analysis, formatting) traverse the tree read-only.
package ast

import (
	"github.com/ardnew/slate/lang/token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	// Span returns the source range covered by the node.
	Span() token.Span
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by declaration nodes. Declarations are also
// statements so they may appear inside blocks.
type Decl interface {
	Stmt
	declNode()
}

// Pattern is implemented by match-arm pattern nodes.
type Pattern interface {
	Node
	patternNode()
}

// Type is implemented by type-annotation nodes.
type Type interface {
	Node
	typeNode()
}

// NodeSpan carries the source span for the node embedding it.
type NodeSpan struct {
	Loc token.Span
}

// Span returns the source range covered by the node.
func (n NodeSpan) Span() token.Span { return n.Loc }

// File is the root node for one parsed source buffer.
type File struct {
	NodeSpan
	Filename string
	Stmts    []Stmt
}

// BlockStyle records which delimiting style opened a block.
type BlockStyle uint8

const (
	// StyleBrace marks a block delimited by "{" and "}".
	StyleBrace BlockStyle = iota

	// StyleIndent marks a block delimited by indentation.
	StyleIndent
)

// String returns the block style name.
func (s BlockStyle) String() string {
	if s == StyleIndent {
		return "indent"
	}

	return "brace"
}

// Block is a sequence of statements delimited by braces or indentation.
// The style is exclusive per block: a block opened with "{" is closed only
// by "}", and an indented block only by a dedent. Nested blocks choose
// independently.
//
// Block implements Expr as well as Stmt so it can serve as a match-arm
// body.
type Block struct {
	NodeSpan
	Style BlockStyle
	Stmts []Stmt
}

// ----------------------------------------------------------------------
// Expressions

// BadExpr marks a region recovered from a syntax error. No AST fragment is
// fabricated for the region; its diagnostic carries the detail.
type BadExpr struct {
	NodeSpan
}

// Ident is an identifier reference.
type Ident struct {
	NodeSpan
	Name string
}

// BasicLit is an integer, float, boolean, or plain string literal.
// Value holds the decoded value as produced by the scanner.
type BasicLit struct {
	NodeSpan
	Kind   token.Kind
	Lexeme string
	Value  any
}

// StringPart is one segment of an interpolated string: literal text, or an
// embedded expression when Expr is non-nil.
type StringPart struct {
	NodeSpan
	Text string
	Expr Expr
}

// InterpString is a string literal containing one or more interpolation
// spans.
type InterpString struct {
	NodeSpan
	Parts []StringPart
}

// ArrayLit is an array literal: [a, b, c].
type ArrayLit struct {
	NodeSpan
	Elems []Expr
}

// TupleLit is a tuple literal: (a, b). A one-element tuple requires a
// trailing comma to distinguish it from a parenthesized expression.
type TupleLit struct {
	NodeSpan
	Elems []Expr
}

// Paren is a parenthesized expression. The printer drops redundant
// parentheses, so Paren never affects tree equality.
type Paren struct {
	NodeSpan
	X Expr
}

// Unary is a prefix operator application: !x, -x, +x, ~x.
type Unary struct {
	NodeSpan
	Op token.Kind
	X  Expr
}

// Binary is an infix operator application. Comparison operators also use
// Binary; their non-associativity is enforced by the parser, not the tree.
type Binary struct {
	NodeSpan
	Op   token.Kind
	X, Y Expr
}

// Range is a range expression: low..high or low..=high. Either bound may
// be nil for half-open forms.
type Range struct {
	NodeSpan
	Low, High Expr
	Inclusive bool
}

// Try is the postfix error-propagation operator: x?.
type Try struct {
	NodeSpan
	X Expr
}

// Await is the postfix await form: x.await.
type Await struct {
	NodeSpan
	X Expr
}

// Member is a member access: x.name.
type Member struct {
	NodeSpan
	X    Expr
	Name *Ident
}

// Index is an index expression: x[i].
type Index struct {
	NodeSpan
	X     Expr
	Index Expr
}

// Call is a call expression: f(args), optionally with explicit generic
// type arguments: f<T, U>(args).
type Call struct {
	NodeSpan
	Fn       Expr
	TypeArgs []Type
	Args     []Expr
}

// Instantiate is a generic instantiation without an immediate call:
// Pair<Int, Bool>. It appears when the disambiguator selects the generic
// reading and the next token is "::" rather than "(".
type Instantiate struct {
	NodeSpan
	X        Expr
	TypeArgs []Type
}

// Path is a :: qualified reference: module::name.
type Path struct {
	NodeSpan
	X    Expr
	Name *Ident
}

// If is a conditional. As an expression it requires an else arm; as a
// statement the else arm is optional. Else is a *Block or a nested *If.
type If struct {
	NodeSpan
	Cond Expr
	Then *Block
	Else Node
}

// MatchArm is one arm of a match: pattern => body. Body is an expression;
// a *Block serves as the body for multi-statement arms.
type MatchArm struct {
	NodeSpan
	Pat  Pattern
	Body Expr
}

// Match is a match expression or statement.
type Match struct {
	NodeSpan
	Subject Expr
	Arms    []*MatchArm
}

// MacroCall is a macro invocation: name!(...), name![...], or name!{...}.
// The body is an uninterpreted token tree; expansion is a downstream
// concern.
type MacroCall struct {
	NodeSpan
	Name  *Ident
	Delim token.Kind // opening delimiter kind
	Body  *TokenTree
}

// ----------------------------------------------------------------------
// Statements

// BadStmt marks a statement-level region recovered from a syntax error.
type BadStmt struct {
	NodeSpan
}

// ExprStmt is an expression in statement position.
type ExprStmt struct {
	NodeSpan
	X Expr
}

// Assign is an assignment statement. Op is "=" or a compound assignment
// operator. Assignment is a statement, never a general binary expression.
type Assign struct {
	NodeSpan
	Op     token.Kind
	Target Expr
	Value  Expr
}

// While is a while loop.
type While struct {
	NodeSpan
	Cond Expr
	Body *Block
}

// For is a for-in loop.
type For struct {
	NodeSpan
	Pat  Pattern
	Iter Expr
	Body *Block
}

// Return is a return statement with optional value.
type Return struct {
	NodeSpan
	Value Expr
}

// Break is a break statement.
type Break struct {
	NodeSpan
}

// Continue is a continue statement.
type Continue struct {
	NodeSpan
}

// ----------------------------------------------------------------------
// Declarations

// Let is a variable declaration: let (immutable) or var (mutable), with
// optional type annotation and initializer.
type Let struct {
	NodeSpan
	Mutable bool
	Name    *Ident
	Type    Type
	Value   Expr
}

// Param is one function parameter.
type Param struct {
	NodeSpan
	Name *Ident
	Type Type
}

// Fn is a function declaration. Body is nil for extern signatures.
type Fn struct {
	NodeSpan
	Async      bool
	Name       *Ident
	TypeParams []*Ident
	Params     []*Param
	Result     Type
	Body       *Block
}

// Field is one data-class field.
type Field struct {
	NodeSpan
	Name *Ident
	Type Type
}

// Data is a data-class declaration.
type Data struct {
	NodeSpan
	Name       *Ident
	TypeParams []*Ident
	Fields     []*Field
}

// Extern is an extern block holding foreign function signatures.
type Extern struct {
	NodeSpan
	ABI   string
	Decls []*Fn
}

// Module is a module declaration with a block body.
type Module struct {
	NodeSpan
	Name *Ident
	Body *Block
}

// Import is an import declaration: import a::b::c [as name].
type Import struct {
	NodeSpan
	Path  []*Ident
	Alias *Ident
}

// MacroDecl is a macro definition. Only the syntax is modeled; the body is
// an uninterpreted token tree.
type MacroDecl struct {
	NodeSpan
	Name  *Ident
	Delim token.Kind
	Body  *TokenTree
}

// ----------------------------------------------------------------------
// Patterns

// WildcardPat is the wildcard pattern: _.
type WildcardPat struct {
	NodeSpan
}

// LitPat is a literal pattern. Lit is a *BasicLit or a negated literal.
type LitPat struct {
	NodeSpan
	Lit Expr
}

// BindPat binds the matched value to a name.
type BindPat struct {
	NodeSpan
	Name *Ident
}

// FieldPat is one field of a destructuring pattern. Pat is nil for the
// shorthand form, which binds the field to its own name.
type FieldPat struct {
	NodeSpan
	Name *Ident
	Pat  Pattern
}

// DestructurePat destructures a data-class value, with optional ".." rest
// marker: Point { x, y: py, .. }.
type DestructurePat struct {
	NodeSpan
	Name   *Ident
	Fields []*FieldPat
	Rest   bool
}

// ----------------------------------------------------------------------
// Types

// NamedType is a possibly-qualified, possibly-generic type reference:
// Int, list::List<T>.
type NamedType struct {
	NodeSpan
	Path []*Ident
	Args []Type
}

// ArrayType is an array type: [T].
type ArrayType struct {
	NodeSpan
	Elem Type
}

// TupleType is a tuple type: (A, B).
type TupleType struct {
	NodeSpan
	Elems []Type
}

// FnType is a function type: fn(A, B) -> C.
type FnType struct {
	NodeSpan
	Params []Type
	Result Type
}

// ----------------------------------------------------------------------
// Interface conformance markers

func (*BadExpr) exprNode()      {}
func (*Ident) exprNode()        {}
func (*BasicLit) exprNode()     {}
func (*InterpString) exprNode() {}
func (*ArrayLit) exprNode()     {}
func (*TupleLit) exprNode()     {}
func (*Paren) exprNode()        {}
func (*Unary) exprNode()        {}
func (*Binary) exprNode()       {}
func (*Range) exprNode()        {}
func (*Try) exprNode()          {}
func (*Await) exprNode()        {}
func (*Member) exprNode()       {}
func (*Index) exprNode()        {}
func (*Call) exprNode()         {}
func (*Instantiate) exprNode()  {}
func (*Path) exprNode()         {}
func (*If) exprNode()           {}
func (*Match) exprNode()        {}
func (*MacroCall) exprNode()    {}
func (*Block) exprNode()        {}

func (*BadStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()  {}
func (*Assign) stmtNode()    {}
func (*Block) stmtNode()     {}
func (*If) stmtNode()        {}
func (*Match) stmtNode()     {}
func (*While) stmtNode()     {}
func (*For) stmtNode()       {}
func (*Return) stmtNode()    {}
func (*Break) stmtNode()     {}
func (*Continue) stmtNode()  {}
func (*Let) stmtNode()       {}
func (*Fn) stmtNode()        {}
func (*Data) stmtNode()      {}
func (*Extern) stmtNode()    {}
func (*Module) stmtNode()    {}
func (*Import) stmtNode()    {}
func (*MacroDecl) stmtNode() {}

func (*Let) declNode()       {}
func (*Fn) declNode()        {}
func (*Data) declNode()      {}
func (*Extern) declNode()    {}
func (*Module) declNode()    {}
func (*Import) declNode()    {}
func (*MacroDecl) declNode() {}

func (*WildcardPat) patternNode()    {}
func (*LitPat) patternNode()         {}
func (*BindPat) patternNode()        {}
func (*DestructurePat) patternNode() {}

func (*NamedType) typeNode() {}
func (*ArrayType) typeNode() {}
func (*TupleType) typeNode() {}
func (*FnType) typeNode()    {}
