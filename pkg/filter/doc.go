// Package filter implements the SCIM filter expression language
// (RFC 7644 section 3.4.2.2): a lexer and recursive-descent parser that
// turn a filter string into an evaluable boolean tree, and an evaluator
// that applies that tree to in-memory resources.
//
// Attribute names are resolved case-insensitively against the resource
// type's schemas at parse time, so evaluation works on canonical paths
// only. A filter that references an unknown attribute or violates the
// grammar fails at parse time with a *ParseError.
package filter
