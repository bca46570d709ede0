// Package pexp reads and writes trees in the parenthesized expression
// format, the canonical text form of a tree.
//
// # Grammar
//
//	Expr := Leaf | '(' Expr (',' Expr)* ')' [':' Number]
//	Leaf := any run of characters except '(', ')', ',' and ':'
//
// A leaf is written as its label. An internal node is written as its children
// in parentheses followed by ':' and its height. Whitespace around labels and
// numbers is ignored.
//
// # Canonical Form
//
// The canonical form sorts the children at every level by their first leaf
// label, breaking ties by the child's full text, and prints heights in the
// shortest form that round-trips ("5", "2.5"). Two expressions describe the
// same tree exactly when their canonical forms are equal strings:
//
//	pexp.Canonicalize("(d,(c,(a,b):3):13):20", true)
//	// "(((a,b):3,c):13,d):20"
//
// # Parsing Pipeline
//
// Parsing happens in two passes: [Tokenize] turns the text into a flat token
// slice and the recursive-descent parser builds an [Expr] from it. [Parse]
// then materializes the expression as a [tree.Node]. Every syntax failure is a
// [*SyntaxError] carrying the byte offset; it matches [ErrMalformed] with
// errors.Is.
//
// # Text Helpers
//
// [FirstName], [Height], [Children] and [JoinChildren] operate on expression
// strings directly, without building a tree.
package pexp
