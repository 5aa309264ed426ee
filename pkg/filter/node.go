package filter

import (
	"fmt"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
)

// Operator is a comparison operator of the filter grammar.
type Operator string

const (
	OpEqual              Operator = "eq"
	OpNotEqual           Operator = "ne"
	OpContains           Operator = "co"
	OpStartsWith         Operator = "sw"
	OpEndsWith           Operator = "ew"
	OpGreaterThan        Operator = "gt"
	OpGreaterThanOrEqual Operator = "ge"
	OpLessThan           Operator = "lt"
	OpLessThanOrEqual    Operator = "le"
	OpPresent            Operator = "pr"
)

// Node is one node of a parsed filter tree.
type Node interface {
	fmt.Stringer
	isNode()
}

// LogicalOp joins two sub-filters.
type LogicalOp string

const (
	LogicalAnd LogicalOp = "and"
	LogicalOr  LogicalOp = "or"
)

// Logical is a binary and/or node.
type Logical struct {
	Op    LogicalOp
	Left  Node
	Right Node
}

func (n *Logical) isNode() {}

func (n *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}

// Not negates its inner filter.
type Not struct {
	Inner Node
}

func (n *Not) isNode() {}

func (n *Not) String() string {
	return fmt.Sprintf("not (%s)", n.Inner)
}

// Compare matches one attribute against a literal value. For OpPresent the
// Value is nil. Path is the canonical (schema-cased) attribute path.
type Compare struct {
	Attribute *schema.Attribute
	Path      string
	Op        Operator
	Value     interface{}
}

func (n *Compare) isNode() {}

func (n *Compare) String() string {
	if n.Op == OpPresent {
		return fmt.Sprintf("%s pr", n.Path)
	}
	return fmt.Sprintf("%s %s %v", n.Path, n.Op, n.Value)
}

// ValuePath matches elements of a multi-valued complex attribute, e.g.
// emails[type eq "work"]. Inner compares use paths relative to one element.
type ValuePath struct {
	Attribute *schema.Attribute
	Path      string
	Inner     Node
}

func (n *ValuePath) isNode() {}

func (n *ValuePath) String() string {
	return fmt.Sprintf("%s[%s]", n.Path, n.Inner)
}

// ParseError reports a malformed filter expression or a reference to an
// attribute the resource type does not define.
type ParseError struct {
	Expression string
	Position   int
	Message    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid filter %q at position %d: %s", e.Expression, e.Position, e.Message)
}
