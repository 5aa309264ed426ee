package filter

import (
	"strings"
	"time"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/resource"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
)

// Apply evaluates the filter tree against every resource and returns the
// matching ones in their original order. A nil tree matches everything.
func Apply(resources []*resource.Node, node Node) []*resource.Node {
	if node == nil {
		return resources
	}
	matched := make([]*resource.Node, 0, len(resources))
	for _, res := range resources {
		if Matches(node, res) {
			matched = append(matched, res)
		}
	}
	return matched
}

// Matches evaluates the filter tree against a single resource.
func Matches(node Node, res *resource.Node) bool {
	return matchesDoc(node, res.Attributes())
}

func matchesDoc(node Node, doc map[string]interface{}) bool {
	switch n := node.(type) {
	case *Logical:
		if n.Op == LogicalAnd {
			return matchesDoc(n.Left, doc) && matchesDoc(n.Right, doc)
		}
		return matchesDoc(n.Left, doc) || matchesDoc(n.Right, doc)
	case *Not:
		return !matchesDoc(n.Inner, doc)
	case *ValuePath:
		for _, v := range valuesAt(doc, n.Path) {
			if elem, ok := v.(map[string]interface{}); ok && matchesDoc(n.Inner, elem) {
				return true
			}
		}
		return false
	case *Compare:
		return matchCompare(n, doc)
	default:
		return false
	}
}

func matchCompare(n *Compare, doc map[string]interface{}) bool {
	values := valuesAt(doc, n.Path)
	if n.Op == OpPresent {
		for _, v := range values {
			if isPresent(v) {
				return true
			}
		}
		return false
	}
	if n.Op == OpNotEqual {
		// ne matches when no candidate value equals the literal,
		// including the case of an absent attribute.
		for _, v := range values {
			if compareValues(n.Attribute, v, n.Value, OpEqual) {
				return false
			}
		}
		return true
	}
	for _, v := range values {
		if compareValues(n.Attribute, v, n.Value, n.Op) {
			return true
		}
	}
	return false
}

// valuesAt resolves a canonical dotted path against a document, flattening
// multi-valued attributes at every step.
func valuesAt(doc map[string]interface{}, path string) []interface{} {
	current := []interface{}{doc}
	for _, part := range strings.Split(path, ".") {
		var next []interface{}
		for _, v := range current {
			obj, ok := v.(map[string]interface{})
			if !ok {
				continue
			}
			child, ok := obj[part]
			if !ok {
				continue
			}
			if arr, ok := child.([]interface{}); ok {
				next = append(next, arr...)
			} else {
				next = append(next, child)
			}
		}
		current = next
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

func isPresent(v interface{}) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case string:
		return tv != ""
	case []interface{}:
		return len(tv) > 0
	case map[string]interface{}:
		return len(tv) > 0
	default:
		return true
	}
}

func compareValues(attr *schema.Attribute, actual, expected interface{}, op Operator) bool {
	if expected == nil {
		return op == OpEqual && actual == nil
	}
	switch exp := expected.(type) {
	case bool:
		act, ok := actual.(bool)
		return ok && op == OpEqual && act == exp
	case string:
		act, ok := actual.(string)
		if !ok {
			return false
		}
		if attr != nil && attr.Type == schema.TypeDateTime {
			return compareDateTime(act, exp, op)
		}
		return compareStrings(act, exp, op, attr != nil && attr.CaseExact)
	case int64, float64:
		act, ok := toFloat(actual)
		if !ok {
			return false
		}
		exp64, _ := toFloat(expected)
		return compareOrdered(numCompare(act, exp64), op)
	default:
		return false
	}
}

func compareStrings(actual, expected string, op Operator, caseExact bool) bool {
	a, e := actual, expected
	if !caseExact {
		a, e = strings.ToLower(a), strings.ToLower(e)
	}
	switch op {
	case OpEqual:
		return a == e
	case OpContains:
		return strings.Contains(a, e)
	case OpStartsWith:
		return strings.HasPrefix(a, e)
	case OpEndsWith:
		return strings.HasSuffix(a, e)
	default:
		return compareOrdered(strings.Compare(a, e), op)
	}
}

func compareDateTime(actual, expected string, op Operator) bool {
	at, err1 := time.Parse(time.RFC3339, actual)
	et, err2 := time.Parse(time.RFC3339, expected)
	if err1 != nil || err2 != nil {
		return false
	}
	return compareOrdered(at.Compare(et), op)
}

func compareOrdered(cmp int, op Operator) bool {
	switch op {
	case OpEqual:
		return cmp == 0
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterThanOrEqual:
		return cmp >= 0
	case OpLessThan:
		return cmp < 0
	case OpLessThanOrEqual:
		return cmp <= 0
	default:
		return false
	}
}

func numCompare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch tv := v.(type) {
	case int64:
		return float64(tv), true
	case float64:
		return tv, true
	case int:
		return float64(tv), true
	default:
		return 0, false
	}
}
