package resource

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Node is the mutable in-flight representation of one resource: the parsed
// JSON document plus typed access to the fields the endpoint core itself
// touches (id, meta, schemas).
type Node struct {
	attrs map[string]interface{}
}

// NewNode creates a Node over the given attribute map. A nil map is replaced
// with an empty one. The map is not copied; the Node owns it from here on.
func NewNode(attrs map[string]interface{}) *Node {
	if attrs == nil {
		attrs = make(map[string]interface{})
	}
	return &Node{attrs: attrs}
}

// Parse reads a raw JSON document into a Node. The top-level value must be
// an object.
func Parse(raw string) (*Node, error) {
	val, err := oj.ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	obj, ok := val.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("resource document must be a JSON object, got %T", val)
	}
	return &Node{attrs: obj}, nil
}

// Attributes returns the underlying attribute map. Callers share ownership
// with the Node; mutations are visible to both.
func (n *Node) Attributes() map[string]interface{} {
	return n.attrs
}

// ID returns the resource id, or "" if unset.
func (n *Node) ID() string {
	id, _ := n.attrs["id"].(string)
	return id
}

// SetID stamps the resource id.
func (n *Node) SetID(id string) {
	n.attrs["id"] = id
}

// ExternalID returns the client-assigned externalId, or "" if unset.
func (n *Node) ExternalID() string {
	id, _ := n.attrs["externalId"].(string)
	return id
}

// Schemas returns the values of the "schemas" attribute.
func (n *Node) Schemas() []string {
	raw, ok := n.attrs["schemas"].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// SetSchemas replaces the "schemas" attribute.
func (n *Node) SetSchemas(uris []string) {
	vals := make([]interface{}, len(uris))
	for i, u := range uris {
		vals[i] = u
	}
	n.attrs["schemas"] = vals
}

// Meta returns the parsed meta block, or nil if the document has none.
func (n *Node) Meta() *Meta {
	raw, ok := n.attrs["meta"].(map[string]interface{})
	if !ok {
		return nil
	}
	return metaFromMap(raw)
}

// SetMeta writes the meta block back into the document. A nil meta removes it.
func (n *Node) SetMeta(m *Meta) {
	if m == nil {
		delete(n.attrs, "meta")
		return
	}
	n.attrs["meta"] = m.toMap()
}

// Get resolves an attribute path like "userName" or "name.givenName" against
// the document. The path is taken literally; case normalization is the
// caller's concern (the schema layer resolves canonical names).
func (n *Node) Get(path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, false
	}
	results := expr.Get(n.attrs)
	if len(results) == 0 {
		return nil, false
	}
	if len(results) == 1 {
		return results[0], true
	}
	return results, true
}

// Clone returns a deep copy of the Node.
func (n *Node) Clone() *Node {
	return &Node{attrs: deepCopyMap(n.attrs)}
}

// JSON serializes the document with stable formatting.
func (n *Node) JSON() string {
	return oj.JSON(n.attrs, &oj.Options{Sort: true})
}

func (n *Node) String() string {
	return n.JSON()
}

func deepCopyMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v interface{}) interface{} {
	switch tv := v.(type) {
	case map[string]interface{}:
		return deepCopyMap(tv)
	case []interface{}:
		out := make([]interface{}, len(tv))
		for i, e := range tv {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

// IsBlank reports whether s is empty or whitespace-only. The protocol treats
// blank strings the same as absent ones.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
