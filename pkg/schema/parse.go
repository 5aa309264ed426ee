package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/ohler55/ojg/oj"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed meta.schema.json
var metaSchemaJSON string

// metaSchema validates the structural shape of SCIM schema documents before
// they are turned into Schema values. Compiled once at package init; the
// embedded document is part of the build, so a compile failure is a bug.
var metaSchema = mustCompileMetaSchema()

func mustCompileMetaSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("meta.schema.json", strings.NewReader(metaSchemaJSON)); err != nil {
		panic(fmt.Sprintf("schema: adding embedded meta schema: %v", err))
	}
	s, err := c.Compile("meta.schema.json")
	if err != nil {
		panic(fmt.Sprintf("schema: compiling embedded meta schema: %v", err))
	}
	return s
}

// ParseString parses a raw JSON schema document.
func ParseString(raw string) (*Schema, error) {
	val, err := oj.ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("schema document is not valid JSON: %w", err)
	}
	doc, ok := val.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("schema document must be a JSON object, got %T", val)
	}
	return Parse(doc)
}

// Parse validates a schema document against the embedded meta schema and
// builds a Schema from it.
func Parse(doc map[string]interface{}) (*Schema, error) {
	if err := metaSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid schema document: %w", err)
	}
	s := &Schema{
		ID:   doc["id"].(string),
		Name: doc["name"].(string),
	}
	if d, ok := doc["description"].(string); ok {
		s.Description = d
	}
	rawAttrs := doc["attributes"].([]interface{})
	s.Attributes = make([]*Attribute, 0, len(rawAttrs))
	seen := make(map[string]bool, len(rawAttrs))
	for _, raw := range rawAttrs {
		attr := parseAttribute(raw.(map[string]interface{}))
		key := strings.ToLower(attr.Name)
		if seen[key] {
			return nil, fmt.Errorf("invalid schema document: duplicate attribute %q", attr.Name)
		}
		seen[key] = true
		s.Attributes = append(s.Attributes, attr)
	}
	return s, nil
}

func parseAttribute(raw map[string]interface{}) *Attribute {
	attr := &Attribute{
		Name: raw["name"].(string),
		Type: Type(raw["type"].(string)),
	}
	if d, ok := raw["description"].(string); ok {
		attr.Description = d
	}
	if b, ok := raw["multiValued"].(bool); ok {
		attr.MultiValued = b
	}
	if b, ok := raw["required"].(bool); ok {
		attr.Required = b
	}
	if b, ok := raw["caseExact"].(bool); ok {
		attr.CaseExact = b
	}
	if m, ok := raw["mutability"].(string); ok {
		attr.Mutability = Mutability(m)
	}
	if r, ok := raw["returned"].(string); ok {
		attr.Returned = Returned(r)
	}
	if u, ok := raw["uniqueness"].(string); ok {
		attr.Uniqueness = Uniqueness(u)
	}
	attr.CanonicalValues = stringSlice(raw["canonicalValues"])
	attr.ReferenceTypes = stringSlice(raw["referenceTypes"])
	if subs, ok := raw["subAttributes"].([]interface{}); ok {
		attr.SubAttributes = make([]*Attribute, 0, len(subs))
		for _, sub := range subs {
			attr.SubAttributes = append(attr.SubAttributes, parseAttribute(sub.(map[string]interface{})))
		}
	}
	return attr
}

func stringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
