package ast

// Equal reports whether two trees are structurally equivalent, ignoring
// span information, block-delimiting style, and redundant grouping
// parentheses.
//
// Equality is defined by canonical rendering: both trees are printed in
// brace style and the outputs compared. The printer derives parentheses
// from precedence and drops Paren nodes, so the comparison is insensitive
// to how the source happened to be written.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return Print(a) == Print(b)
}
