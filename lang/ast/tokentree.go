package ast

import (
	"github.com/ardnew/slate/lang/token"
)

// TreeIndex addresses a node within a TokenTree arena.
type TreeIndex int

// TreeNode is one element of a macro token tree: either a leaf token or a
// delimited group of child indexes. Groups reference children by arena
// index, so the structure is acyclic by construction even for macros whose
// bodies contain further macro invocations.
type TreeNode struct {
	// Open is the opening delimiter kind for groups, or token.EOF for
	// leaf nodes.
	Open token.Kind

	// Tok is the leaf token. It is meaningful only when Open == token.EOF.
	Tok token.Token

	// Children are the arena indexes of group members, in source order.
	Children []TreeIndex

	// Loc spans the group including its delimiters, or the leaf token.
	Loc token.Span
}

// TokenTree is the uninterpreted body of a macro invocation or definition.
// Nodes are arena-allocated; Nodes[Root] is the outermost group.
type TokenTree struct {
	Nodes []TreeNode
	Root  TreeIndex
}

// Span returns the source range of the root group.
func (t *TokenTree) Span() token.Span {
	if t == nil || len(t.Nodes) == 0 {
		return token.Span{}
	}

	return t.Nodes[t.Root].Loc
}

// Leaf appends a leaf node to the arena and returns its index.
func (t *TokenTree) Leaf(tok token.Token) TreeIndex {
	t.Nodes = append(t.Nodes, TreeNode{
		Open: token.EOF,
		Tok:  tok,
		Loc:  tok.Span,
	})

	return TreeIndex(len(t.Nodes) - 1)
}

// Group appends a delimited group node to the arena and returns its index.
func (t *TokenTree) Group(
	open token.Kind,
	children []TreeIndex,
	loc token.Span,
) TreeIndex {
	t.Nodes = append(t.Nodes, TreeNode{
		Open:     open,
		Children: children,
		Loc:      loc,
	})

	return TreeIndex(len(t.Nodes) - 1)
}

// Tokens returns the flattened leaf tokens of the tree in source order,
// with group delimiters reconstructed.
func (t *TokenTree) Tokens() []token.Token {
	if t == nil || len(t.Nodes) == 0 {
		return nil
	}

	var out []token.Token

	t.flatten(t.Root, &out)

	return out
}

var closerFor = map[token.Kind]token.Kind{
	token.LParen:   token.RParen,
	token.LBracket: token.RBracket,
	token.LBrace:   token.RBrace,
}

func (t *TokenTree) flatten(i TreeIndex, out *[]token.Token) {
	n := t.Nodes[i]

	if n.Open == token.EOF {
		*out = append(*out, n.Tok)

		return
	}

	*out = append(*out, token.Token{
		Kind:   n.Open,
		Lexeme: n.Open.String(),
		Span:   token.Span{Start: n.Loc.Start, End: n.Loc.Start},
	})

	for _, c := range n.Children {
		t.flatten(c, out)
	}

	*out = append(*out, token.Token{
		Kind:   closerFor[n.Open],
		Lexeme: closerFor[n.Open].String(),
		Span:   token.Span{Start: n.Loc.End, End: n.Loc.End},
	})
}
