package schema

import "strings"

// Schema is one parsed schema document: a URI id plus a flat list of
// top-level attribute definitions.
type Schema struct {
	ID          string
	Name        string
	Description string
	Attributes  []*Attribute
}

// Attribute finds a top-level attribute by name, case-insensitively.
func (s *Schema) Attribute(name string) *Attribute {
	for _, attr := range s.Attributes {
		if strings.EqualFold(attr.Name, name) {
			return attr
		}
	}
	return nil
}

// AttributeByPath resolves a dotted attribute path such as "name.givenName"
// within this schema. It returns the attribute definition and the canonical
// (schema-cased) path, or nil if the path does not exist.
func (s *Schema) AttributeByPath(path string) (*Attribute, string) {
	parts := strings.Split(path, ".")
	attr := s.Attribute(parts[0])
	if attr == nil {
		return nil, ""
	}
	canonical := attr.Name
	for _, part := range parts[1:] {
		attr = attr.SubAttribute(part)
		if attr == nil {
			return nil, ""
		}
		canonical += "." + attr.Name
	}
	return attr, canonical
}

// ToDocument renders the schema as its RFC 7643 section 7 wire shape, as
// served on the /Schemas endpoint.
func (s *Schema) ToDocument() map[string]interface{} {
	doc := map[string]interface{}{
		"schemas": []interface{}{SchemaURISchema},
		"id":      s.ID,
		"name":    s.Name,
		"meta": map[string]interface{}{
			"resourceType": "Schema",
		},
	}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	attrs := make([]interface{}, 0, len(s.Attributes))
	for _, a := range s.Attributes {
		attrs = append(attrs, attributeToMap(a))
	}
	doc["attributes"] = attrs
	return doc
}

func attributeToMap(a *Attribute) map[string]interface{} {
	out := map[string]interface{}{
		"name":        a.Name,
		"type":        string(a.Type),
		"multiValued": a.MultiValued,
		"required":    a.Required,
		"caseExact":   a.CaseExact,
		"mutability":  string(a.EffectiveMutability()),
		"returned":    string(a.EffectiveReturned()),
	}
	if a.Description != "" {
		out["description"] = a.Description
	}
	if a.Type != TypeComplex {
		uniq := a.Uniqueness
		if uniq == "" {
			uniq = UniquenessNone
		}
		out["uniqueness"] = string(uniq)
	}
	if len(a.CanonicalValues) > 0 {
		vals := make([]interface{}, len(a.CanonicalValues))
		for i, v := range a.CanonicalValues {
			vals[i] = v
		}
		out["canonicalValues"] = vals
	}
	if len(a.ReferenceTypes) > 0 {
		vals := make([]interface{}, len(a.ReferenceTypes))
		for i, v := range a.ReferenceTypes {
			vals[i] = v
		}
		out["referenceTypes"] = vals
	}
	if len(a.SubAttributes) > 0 {
		subs := make([]interface{}, len(a.SubAttributes))
		for i, sub := range a.SubAttributes {
			subs[i] = attributeToMap(sub)
		}
		out["subAttributes"] = subs
	}
	return out
}
