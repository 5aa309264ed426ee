package schema

import "strings"

// commonAttributes are the attributes every SCIM resource carries regardless
// of its schema (RFC 7643 section 3.1).
var commonAttributes = []*Attribute{
	{
		Name:       "id",
		Type:       TypeString,
		CaseExact:  true,
		Required:   true,
		Mutability: MutabilityReadOnly,
		Returned:   ReturnedAlways,
		Uniqueness: UniquenessServer,
	},
	{
		Name:      "externalId",
		Type:      TypeString,
		CaseExact: true,
	},
	{
		Name:       "meta",
		Type:       TypeComplex,
		Mutability: MutabilityReadOnly,
		SubAttributes: []*Attribute{
			{Name: "resourceType", Type: TypeString, CaseExact: true, Mutability: MutabilityReadOnly},
			{Name: "created", Type: TypeDateTime, Mutability: MutabilityReadOnly},
			{Name: "lastModified", Type: TypeDateTime, Mutability: MutabilityReadOnly},
			{Name: "location", Type: TypeReference, ReferenceTypes: []string{"uri"}, Mutability: MutabilityReadOnly},
			{Name: "version", Type: TypeString, CaseExact: true, Mutability: MutabilityReadOnly},
		},
	},
}

// CommonAttributes returns the attribute definitions shared by all resource
// types (id, externalId, meta). Callers must not mutate the result.
func CommonAttributes() []*Attribute {
	return commonAttributes
}

// CommonAttribute finds a common attribute definition by name.
func CommonAttribute(name string) *Attribute {
	for _, attr := range commonAttributes {
		if strings.EqualFold(attr.Name, name) {
			return attr
		}
	}
	return nil
}
