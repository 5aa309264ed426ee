package schema

// Well-known schema URIs of the SCIM core and API messages.
const (
	SchemaURISchema       = "urn:ietf:params:scim:schemas:core:2.0:Schema"
	SchemaURIResourceType = "urn:ietf:params:scim:schemas:core:2.0:ResourceType"
	SchemaURIUser         = "urn:ietf:params:scim:schemas:core:2.0:User"
	SchemaURIGroup        = "urn:ietf:params:scim:schemas:core:2.0:Group"

	SchemaURIListResponse  = "urn:ietf:params:scim:api:messages:2.0:ListResponse"
	SchemaURISearchRequest = "urn:ietf:params:scim:api:messages:2.0:SearchRequest"
	SchemaURIError         = "urn:ietf:params:scim:api:messages:2.0:Error"
)

// ResourceType is the immutable descriptor of one registered resource type:
// a unique name, the endpoint path it is served under, its main schema and
// any extension schemas. The descriptor carries no handler; the endpoint
// registry binds handlers to descriptors.
type ResourceType struct {
	Name        string
	Description string

	// Endpoint is the path the type is served under, e.g. "/Users".
	// It uniquely identifies the type within one registry.
	Endpoint string

	// Schema is the main schema of the resource type.
	Schema *Schema

	// Extensions are additional schemas attached to the type.
	Extensions []*Extension

	// Filter, when non-nil, declares framework-side filtering behavior
	// for the list operation.
	Filter *FilterExtension
}

// Extension attaches one extension schema to a resource type.
type Extension struct {
	Schema   *Schema
	Required bool
}

// FilterExtension configures framework-side filtering. With AutoFiltering
// enabled the handler receives no filter on list calls and must return its
// full candidate set; the framework applies the filter afterwards.
type FilterExtension struct {
	AutoFiltering bool
}

// AutoFiltering reports whether the framework applies filters for this type.
func (rt *ResourceType) AutoFiltering() bool {
	return rt.Filter != nil && rt.Filter.AutoFiltering
}

// AllSchemas returns the main schema followed by all extension schemas.
func (rt *ResourceType) AllSchemas() []*Schema {
	schemas := make([]*Schema, 0, 1+len(rt.Extensions))
	if rt.Schema != nil {
		schemas = append(schemas, rt.Schema)
	}
	for _, ext := range rt.Extensions {
		schemas = append(schemas, ext.Schema)
	}
	return schemas
}

// SchemaURIs returns the URIs of the main schema and all extensions.
func (rt *ResourceType) SchemaURIs() []string {
	uris := make([]string, 0, 1+len(rt.Extensions))
	if rt.Schema != nil {
		uris = append(uris, rt.Schema.ID)
	}
	for _, ext := range rt.Extensions {
		uris = append(uris, ext.Schema.ID)
	}
	return uris
}

// SchemaByURI finds the main or an extension schema by its URI.
func (rt *ResourceType) SchemaByURI(uri string) *Schema {
	for _, s := range rt.AllSchemas() {
		if s.ID == uri {
			return s
		}
	}
	return nil
}

// AttributeByPath resolves an attribute path against the common attributes
// (id, externalId, meta), then the main schema, then each extension schema,
// returning the definition and canonical path of the first match.
func (rt *ResourceType) AttributeByPath(path string) (*Attribute, string) {
	common := &Schema{Attributes: commonAttributes}
	if attr, canonical := common.AttributeByPath(path); attr != nil {
		return attr, canonical
	}
	for _, s := range rt.AllSchemas() {
		if attr, canonical := s.AttributeByPath(path); attr != nil {
			return attr, canonical
		}
	}
	return nil, ""
}

// ToDocument renders the descriptor as its RFC 7643 section 6 wire shape,
// as served on the /ResourceTypes endpoint.
func (rt *ResourceType) ToDocument() map[string]interface{} {
	doc := map[string]interface{}{
		"schemas":  []interface{}{SchemaURIResourceType},
		"id":       rt.Name,
		"name":     rt.Name,
		"endpoint": rt.Endpoint,
		"meta": map[string]interface{}{
			"resourceType": "ResourceType",
		},
	}
	if rt.Description != "" {
		doc["description"] = rt.Description
	}
	if rt.Schema != nil {
		doc["schema"] = rt.Schema.ID
	}
	if len(rt.Extensions) > 0 {
		exts := make([]interface{}, 0, len(rt.Extensions))
		for _, ext := range rt.Extensions {
			exts = append(exts, map[string]interface{}{
				"schema":   ext.Schema.ID,
				"required": ext.Required,
			})
		}
		doc["schemaExtensions"] = exts
	}
	return doc
}
