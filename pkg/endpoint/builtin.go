package endpoint

import (
	"github.com/sergei-kljujev/SCIM-SDK/pkg/filter"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/resource"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
)

// The three meta endpoints every SCIM service exposes. They are registered
// before any caller-supplied definition and can be overridden by
// registering the same endpoint path again.

const serviceProviderConfigID = "ServiceProviderConfig"

func serviceProviderConfigDefinition(sp *resource.ServiceProvider) *EndpointDefinition {
	return &EndpointDefinition{
		ResourceType: &schema.ResourceType{
			Name:        "ServiceProviderConfig",
			Description: "the capability configuration of this service",
			Endpoint:    "/ServiceProviderConfig",
			Schema:      serviceProviderConfigSchema(),
		},
		Handler: &serviceProviderConfigHandler{sp: sp},
	}
}

func resourceTypesDefinition(registry *Registry) *EndpointDefinition {
	return &EndpointDefinition{
		ResourceType: &schema.ResourceType{
			Name:        "ResourceType",
			Description: "the resource types registered on this service",
			Endpoint:    "/ResourceTypes",
			Schema:      resourceTypeSchema(),
			Filter:      &schema.FilterExtension{AutoFiltering: true},
		},
		Handler: &resourceTypesHandler{registry: registry},
	}
}

func schemasDefinition(registry *Registry) *EndpointDefinition {
	return &EndpointDefinition{
		ResourceType: &schema.ResourceType{
			Name:        "Schema",
			Description: "the schemas of the registered resource types",
			Endpoint:    "/Schemas",
			Schema:      schemaSchema(),
			Filter:      &schema.FilterExtension{AutoFiltering: true},
		},
		Handler: &schemasHandler{registry: registry},
	}
}

// serviceProviderConfigHandler serves the single configuration document.
// The document is addressed by the fixed id "ServiceProviderConfig".
type serviceProviderConfigHandler struct {
	sp *resource.ServiceProvider
}

var _ ResourceHandler = (*serviceProviderConfigHandler)(nil)

func (h *serviceProviderConfigHandler) Create(*resource.Node) (*resource.Node, error) {
	return nil, nil
}

func (h *serviceProviderConfigHandler) Get(id string) (*resource.Node, error) {
	if id != serviceProviderConfigID {
		return nil, nil
	}
	return h.document(), nil
}

func (h *serviceProviderConfigHandler) List(int64, int, filter.Node, *SortBy, SortOrder) (*resource.PartialListResponse, error) {
	return &resource.PartialListResponse{
		Resources:    []*resource.Node{h.document()},
		TotalResults: 1,
	}, nil
}

func (h *serviceProviderConfigHandler) Update(*resource.Node) (*resource.Node, error) {
	return nil, nil
}

func (h *serviceProviderConfigHandler) Delete(string) error {
	return &NotImplementedError{Operation: "delete", ResourceType: "ServiceProviderConfig"}
}

func (h *serviceProviderConfigHandler) document() *resource.Node {
	doc := h.sp.ToDocument()
	doc["id"] = serviceProviderConfigID
	doc["meta"] = map[string]interface{}{"resourceType": "ServiceProviderConfig"}
	return resource.NewNode(doc)
}

// resourceTypesHandler serves the registry's resource type descriptors,
// addressed by type name.
type resourceTypesHandler struct {
	registry *Registry
}

var _ ResourceHandler = (*resourceTypesHandler)(nil)

func (h *resourceTypesHandler) Create(*resource.Node) (*resource.Node, error) {
	return nil, nil
}

func (h *resourceTypesHandler) Get(id string) (*resource.Node, error) {
	rt := h.registry.ResourceTypeByName(id)
	if rt == nil {
		return nil, nil
	}
	doc := rt.ToDocument()
	doc["id"] = id
	return resource.NewNode(doc), nil
}

func (h *resourceTypesHandler) List(int64, int, filter.Node, *SortBy, SortOrder) (*resource.PartialListResponse, error) {
	types := h.registry.ResourceTypes()
	nodes := make([]*resource.Node, 0, len(types))
	for _, rt := range types {
		nodes = append(nodes, resource.NewNode(rt.ToDocument()))
	}
	return &resource.PartialListResponse{Resources: nodes, TotalResults: int64(len(nodes))}, nil
}

func (h *resourceTypesHandler) Update(*resource.Node) (*resource.Node, error) {
	return nil, nil
}

func (h *resourceTypesHandler) Delete(string) error {
	return &NotImplementedError{Operation: "delete", ResourceType: "ResourceType"}
}

// schemasHandler serves every distinct schema of the registry, addressed
// by schema URI.
type schemasHandler struct {
	registry *Registry
}

var _ ResourceHandler = (*schemasHandler)(nil)

func (h *schemasHandler) Create(*resource.Node) (*resource.Node, error) {
	return nil, nil
}

func (h *schemasHandler) Get(id string) (*resource.Node, error) {
	s := h.registry.SchemaByURI(id)
	if s == nil {
		return nil, nil
	}
	return resource.NewNode(s.ToDocument()), nil
}

func (h *schemasHandler) List(int64, int, filter.Node, *SortBy, SortOrder) (*resource.PartialListResponse, error) {
	all := h.registry.Schemas()
	nodes := make([]*resource.Node, 0, len(all))
	for _, s := range all {
		nodes = append(nodes, resource.NewNode(s.ToDocument()))
	}
	return &resource.PartialListResponse{Resources: nodes, TotalResults: int64(len(nodes))}, nil
}

func (h *schemasHandler) Update(*resource.Node) (*resource.Node, error) {
	return nil, nil
}

func (h *schemasHandler) Delete(string) error {
	return &NotImplementedError{Operation: "delete", ResourceType: "Schema"}
}

func serviceProviderConfigSchema() *schema.Schema {
	supported := func(name, description string) *schema.Attribute {
		return &schema.Attribute{
			Name:        name,
			Type:        schema.TypeComplex,
			Description: description,
			Required:    true,
			Mutability:  schema.MutabilityReadOnly,
			SubAttributes: []*schema.Attribute{
				{Name: "supported", Type: schema.TypeBoolean, Required: true, Mutability: schema.MutabilityReadOnly},
			},
		}
	}
	return &schema.Schema{
		ID:          resource.SchemaURIServiceProviderConfig,
		Name:        "Service Provider Configuration",
		Description: "Schema for representing the service provider's configuration",
		Attributes: []*schema.Attribute{
			{Name: "documentationUri", Type: schema.TypeReference, ReferenceTypes: []string{"external"}, Mutability: schema.MutabilityReadOnly},
			supported("patch", "A complex type that specifies PATCH configuration options"),
			{
				Name:       "bulk",
				Type:       schema.TypeComplex,
				Required:   true,
				Mutability: schema.MutabilityReadOnly,
				SubAttributes: []*schema.Attribute{
					{Name: "supported", Type: schema.TypeBoolean, Required: true, Mutability: schema.MutabilityReadOnly},
					{Name: "maxOperations", Type: schema.TypeInteger, Required: true, Mutability: schema.MutabilityReadOnly},
					{Name: "maxPayloadSize", Type: schema.TypeInteger, Required: true, Mutability: schema.MutabilityReadOnly},
				},
			},
			{
				Name:       "filter",
				Type:       schema.TypeComplex,
				Required:   true,
				Mutability: schema.MutabilityReadOnly,
				SubAttributes: []*schema.Attribute{
					{Name: "supported", Type: schema.TypeBoolean, Required: true, Mutability: schema.MutabilityReadOnly},
					{Name: "maxResults", Type: schema.TypeInteger, Required: true, Mutability: schema.MutabilityReadOnly},
				},
			},
			supported("changePassword", "A complex type that specifies configuration options related to changing a password"),
			supported("sort", "A complex type that specifies sort result options"),
			supported("etag", "A complex type that specifies ETag configuration options"),
			{
				Name:        "authenticationSchemes",
				Type:        schema.TypeComplex,
				MultiValued: true,
				Required:    true,
				Mutability:  schema.MutabilityReadOnly,
				SubAttributes: []*schema.Attribute{
					{Name: "type", Type: schema.TypeString, Required: true, Mutability: schema.MutabilityReadOnly,
						CanonicalValues: []string{"oauth", "oauth2", "oauthbearertoken", "httpbasic", "httpdigest"}},
					{Name: "name", Type: schema.TypeString, Required: true, Mutability: schema.MutabilityReadOnly},
					{Name: "description", Type: schema.TypeString, Required: true, Mutability: schema.MutabilityReadOnly},
					{Name: "specUri", Type: schema.TypeReference, ReferenceTypes: []string{"external"}, Mutability: schema.MutabilityReadOnly},
					{Name: "documentationUri", Type: schema.TypeReference, ReferenceTypes: []string{"external"}, Mutability: schema.MutabilityReadOnly},
					{Name: "primary", Type: schema.TypeBoolean, Mutability: schema.MutabilityReadOnly},
				},
			},
		},
	}
}

func resourceTypeSchema() *schema.Schema {
	return &schema.Schema{
		ID:          schema.SchemaURIResourceType,
		Name:        "ResourceType",
		Description: "Specifies the schema that describes a SCIM resource type",
		Attributes: []*schema.Attribute{
			{Name: "name", Type: schema.TypeString, Required: true, CaseExact: true, Mutability: schema.MutabilityReadOnly},
			{Name: "description", Type: schema.TypeString, CaseExact: true, Mutability: schema.MutabilityReadOnly},
			{Name: "endpoint", Type: schema.TypeReference, ReferenceTypes: []string{"uri"}, Required: true, CaseExact: true, Mutability: schema.MutabilityReadOnly},
			{Name: "schema", Type: schema.TypeReference, ReferenceTypes: []string{"uri"}, Required: true, CaseExact: true, Mutability: schema.MutabilityReadOnly},
			{
				Name:        "schemaExtensions",
				Type:        schema.TypeComplex,
				MultiValued: true,
				Mutability:  schema.MutabilityReadOnly,
				SubAttributes: []*schema.Attribute{
					{Name: "schema", Type: schema.TypeReference, ReferenceTypes: []string{"uri"}, Required: true, CaseExact: true, Mutability: schema.MutabilityReadOnly},
					{Name: "required", Type: schema.TypeBoolean, Required: true, Mutability: schema.MutabilityReadOnly},
				},
			},
		},
	}
}

func schemaSchema() *schema.Schema {
	return &schema.Schema{
		ID:          schema.SchemaURISchema,
		Name:        "Schema",
		Description: "Specifies the schema that describes a SCIM schema",
		Attributes: []*schema.Attribute{
			{Name: "name", Type: schema.TypeString, Required: true, CaseExact: true, Mutability: schema.MutabilityReadOnly},
			{Name: "description", Type: schema.TypeString, CaseExact: true, Mutability: schema.MutabilityReadOnly},
			// attribute definitions nest arbitrarily deep, so they are
			// declared free-form and passed through untouched
			{Name: "attributes", Type: schema.TypeComplex, MultiValued: true, Required: true, Mutability: schema.MutabilityReadOnly},
		},
	}
}
