package endpoint

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/filter"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/logging"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/resource"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/validation"
)

// BaseURLSupplier yields the request's base URL, e.g.
// "https://example.com/scim/v2", used to synthesize meta.location values.
// A nil supplier or a blank result falls back to the statically configured
// base URL of the ServiceProvider.
type BaseURLSupplier func() string

// Service executes the SCIM operations on the registered endpoints. It is
// stateless per call: the registry and the capability configuration are
// populated at construction and read-only afterwards, so one Service is
// safe for unbounded concurrent use.
type Service struct {
	serviceProvider *resource.ServiceProvider
	registry        *Registry
	log             *slog.Logger
}

// NewService creates a Service for the given capability configuration.
// The built-in /ServiceProviderConfig, /ResourceTypes and /Schemas
// endpoints are registered first, then every supplied definition in order;
// a later definition for the same endpoint silently replaces the earlier
// one. At least one caller-supplied definition is required: a service
// without resource endpoints is not a valid instance.
func NewService(sp *resource.ServiceProvider, logger *slog.Logger, definitions ...*EndpointDefinition) (*Service, error) {
	if sp == nil {
		return nil, errors.New("service provider configuration must not be nil")
	}
	if len(definitions) == 0 {
		return nil, errors.New("at least one endpoint definition must be registered")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Service{
		serviceProvider: sp,
		registry:        NewRegistry(),
		log:             logger,
	}
	s.RegisterEndpoint(serviceProviderConfigDefinition(sp))
	s.RegisterEndpoint(resourceTypesDefinition(s.registry))
	s.RegisterEndpoint(schemasDefinition(s.registry))
	for _, def := range definitions {
		s.RegisterEndpoint(def)
	}
	return s, nil
}

// ServiceProvider returns the capability configuration the Service was
// built with.
func (s *Service) ServiceProvider() *resource.ServiceProvider {
	return s.serviceProvider
}

// Registry exposes the endpoint registry, primarily for introspection.
func (s *Service) Registry() *Registry {
	return s.registry
}

// RegisterEndpoint inserts or overwrites the mapping for the definition's
// endpoint path. Registration is meant for startup; callers must serialize
// it with respect to concurrent request handling.
func (s *Service) RegisterEndpoint(def *EndpointDefinition) {
	s.registry.Register(def)
}

// CreateResource runs the create pipeline: resolve the resource type,
// validate the document for the create intent, dispatch to the handler,
// verify the handler's output and wrap it into a response. Every failure
// becomes an *ErrorResponse; no error escapes to the caller.
func (s *Service) CreateResource(endpoint, body, attributes, excludedAttributes string, baseURL BaseURLSupplier) ScimResponse {
	resp, err := s.createResource(endpoint, body, attributes, excludedAttributes, baseURL)
	if err != nil {
		return NewErrorResponse(err)
	}
	return resp
}

func (s *Service) createResource(endpoint, body, attributes, excludedAttributes string, baseURL BaseURLSupplier) (ScimResponse, error) {
	if resource.IsBlank(body) {
		return nil, badRequest(ScimTypeInvalidParameters, "the request body is empty")
	}
	if err := validateProjection(attributes, excludedAttributes); err != nil {
		return nil, err
	}
	rt, handler, err := s.resolve(endpoint)
	if err != nil {
		return nil, err
	}
	node, err := resource.Parse(body)
	if err != nil {
		return nil, badRequest(ScimTypeUnparseableRequest, "%s", err)
	}
	normalized, err := validation.ForRequest(rt, node.Attributes(), validation.IntentCreate)
	if err != nil {
		return nil, err
	}
	if normalized == nil {
		normalized = map[string]interface{}{"schemas": []interface{}{rt.Schema.ID}}
	}
	toCreate := resource.NewNode(normalized)
	toCreate.SetMeta(&resource.Meta{ResourceType: rt.Name})

	created, err := handler.Create(toCreate)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, &NotImplementedError{Operation: "create", ResourceType: rt.Name}
	}
	id := created.ID()
	if resource.IsBlank(id) {
		return nil, internalf("ID attribute not set on created resource")
	}
	location := s.getLocation(rt, id, baseURL)
	meta := created.Meta()
	if meta == nil {
		return nil, internalf("Meta attribute not set on created resource")
	}
	meta.Location = location
	created.SetMeta(meta)

	doc, err := validation.ForResponse(rt, created, normalized, attributes, excludedAttributes)
	if err != nil {
		return nil, responseValidationError(err)
	}
	return &CreateResponse{document: doc, location: location}, nil
}

// GetResource runs the retrieve pipeline for a single resource id.
func (s *Service) GetResource(endpoint, id, attributes, excludedAttributes string, baseURL BaseURLSupplier) ScimResponse {
	resp, err := s.getResource(endpoint, id, attributes, excludedAttributes, baseURL)
	if err != nil {
		return NewErrorResponse(err)
	}
	return resp
}

func (s *Service) getResource(endpoint, id, attributes, excludedAttributes string, baseURL BaseURLSupplier) (ScimResponse, error) {
	if err := validateProjection(attributes, excludedAttributes); err != nil {
		return nil, err
	}
	rt, handler, err := s.resolve(endpoint)
	if err != nil {
		return nil, err
	}
	node, err := handler.Get(id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, &NotFoundError{ResourceType: rt.Name, ID: id}
	}
	// a blank or different id is a handler bug, not a client error
	if resource.IsBlank(node.ID()) || node.ID() != id {
		return nil, internalf("the id of the returned resource does not match the requested id: requested %q, returned %q", id, node.ID())
	}
	location := s.getLocation(rt, id, baseURL)
	s.fillMeta(rt, node, location)

	doc, err := validation.ForResponse(rt, node, nil, attributes, excludedAttributes)
	if err != nil {
		return nil, responseValidationError(err)
	}
	return &GetResponse{document: doc, location: location}, nil
}

// ListResources runs the list/search pipeline. A nil request lists the
// first page with provider defaults.
func (s *Service) ListResources(endpoint string, req *SearchRequest, baseURL BaseURLSupplier) ScimResponse {
	resp, err := s.listResources(endpoint, req, baseURL)
	if err != nil {
		return NewErrorResponse(err)
	}
	return resp
}

// ListResourcesFromBody parses a JSON search-request body (the "/.search"
// form) and runs the list pipeline on it.
func (s *Service) ListResourcesFromBody(endpoint, body string, baseURL BaseURLSupplier) ScimResponse {
	req, err := ParseSearchRequest(body)
	if err != nil {
		return NewErrorResponse(err)
	}
	return s.ListResources(endpoint, req, baseURL)
}

func (s *Service) listResources(endpoint string, req *SearchRequest, baseURL BaseURLSupplier) (ScimResponse, error) {
	if req == nil {
		req = &SearchRequest{}
	}
	if err := validateProjection(req.Attributes, req.ExcludedAttributes); err != nil {
		return nil, err
	}
	rt, handler, err := s.resolve(endpoint)
	if err != nil {
		return nil, err
	}

	effectiveStartIndex := effectiveStartIndex(req.StartIndex)
	effectiveCount := s.effectiveCount(req.Count)
	filterNode, err := s.filterNode(rt, req.Filter)
	if err != nil {
		return nil, err
	}
	autoFiltering := rt.AutoFiltering()
	sortBy, err := s.sortByAttribute(rt, req.SortBy)
	if err != nil {
		return nil, err
	}
	sortOrder, err := s.sortOrdering(req.SortOrder, sortBy)
	if err != nil {
		return nil, err
	}

	// under auto-filtering the framework filters post-hoc, so the
	// handler must not see the filter
	handlerFilter := filterNode
	if autoFiltering {
		handlerFilter = nil
	}
	partial, err := handler.List(effectiveStartIndex, effectiveCount, handlerFilter, sortBy, sortOrder)
	if err != nil {
		return nil, err
	}
	if partial == nil {
		return nil, &NotImplementedError{Operation: "list", ResourceType: rt.Name}
	}

	all := partial.Resources
	filtered := s.filterResources(filterNode, all, rt)

	var totalResults int64
	switch {
	case len(filtered) != len(all):
		totalResults = int64(len(filtered))
	case partial.TotalResults == 0:
		// 0 means the handler did not report a total
		totalResults = int64(len(filtered))
	default:
		totalResults = partial.TotalResults
	}

	// pagination safety net, applied even when the handler already
	// paginated
	page := filtered
	if effectiveStartIndex <= int64(len(filtered)) {
		from := minInt64(effectiveStartIndex-1, int64(len(filtered)-1))
		to := minInt64(effectiveStartIndex-1+int64(effectiveCount), int64(len(filtered)))
		page = filtered[from:to]
	} else {
		page = nil
	}
	if len(page) > effectiveCount {
		s.log.Warn("handler returned more results than allowed, truncating page",
			"resourceType", rt.Name, "returned", len(page), "allowed", effectiveCount)
		page = page[:effectiveCount]
	}

	documents := make([]map[string]interface{}, 0, len(page))
	for _, node := range page {
		location := s.getLocation(rt, node.ID(), baseURL)
		s.fillMeta(rt, node, location)
		doc, err := validation.ForResponse(rt, node, nil, req.Attributes, req.ExcludedAttributes)
		if err != nil {
			return nil, responseValidationError(err)
		}
		documents = append(documents, doc)
	}

	return &ListResponse{
		Resources:    documents,
		TotalResults: totalResults,
		ItemsPerPage: effectiveCount,
		StartIndex:   effectiveStartIndex,
	}, nil
}

// UpdateResource runs the replace (PUT) pipeline for a single resource id.
func (s *Service) UpdateResource(endpoint, id, body, attributes, excludedAttributes string, baseURL BaseURLSupplier) ScimResponse {
	resp, err := s.updateResource(endpoint, id, body, attributes, excludedAttributes, baseURL)
	if err != nil {
		return NewErrorResponse(err)
	}
	return resp
}

func (s *Service) updateResource(endpoint, id, body, attributes, excludedAttributes string, baseURL BaseURLSupplier) (ScimResponse, error) {
	if resource.IsBlank(body) {
		return nil, badRequest(ScimTypeInvalidParameters, "the request body is empty")
	}
	if err := validateProjection(attributes, excludedAttributes); err != nil {
		return nil, err
	}
	rt, handler, err := s.resolve(endpoint)
	if err != nil {
		return nil, err
	}
	node, err := resource.Parse(body)
	if err != nil {
		return nil, badRequest(ScimTypeUnparseableRequest, "%s", err)
	}
	normalized, err := validation.ForRequest(rt, node.Attributes(), validation.IntentUpdate)
	if err != nil {
		return nil, err
	}
	if normalized == nil {
		return nil, badRequest(ScimTypeUnparseableRequest, "the request body does not contain any writable parameters")
	}
	toUpdate := resource.NewNode(normalized)
	toUpdate.SetID(id)
	toUpdate.SetMeta(&resource.Meta{ResourceType: rt.Name})
	location := s.getLocation(rt, id, baseURL)

	updated, err := handler.Update(toUpdate)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &NotFoundError{ResourceType: rt.Name, ID: id}
	}
	returnedID := updated.ID()
	if resource.IsBlank(returnedID) {
		return nil, internalf("ID attribute not set on updated resource")
	}
	if returnedID != id {
		return nil, internalf("the id of the returned resource does not match the requested id: requested %q, returned %q", id, returnedID)
	}
	s.fillMeta(rt, updated, location)

	doc, err := validation.ForResponse(rt, updated, normalized, attributes, excludedAttributes)
	if err != nil {
		return nil, responseValidationError(err)
	}
	return &UpdateResponse{document: doc, location: location}, nil
}

// DeleteResource runs the delete pipeline. The handler's return value is
// the only signal; absence of an error is success and yields an empty
// response.
func (s *Service) DeleteResource(endpoint, id string) ScimResponse {
	_, handler, err := s.resolve(endpoint)
	if err != nil {
		return NewErrorResponse(err)
	}
	if err := handler.Delete(id); err != nil {
		return NewErrorResponse(err)
	}
	return &DeleteResponse{}
}

// filterResources is the single authority for whether the framework or the
// handler filters: the input passes through unchanged unless the resource
// type enables auto-filtering and a filter is present.
func (s *Service) filterResources(node filter.Node, resources []*resource.Node, rt *schema.ResourceType) []*resource.Node {
	if rt.AutoFiltering() && node != nil {
		return filter.Apply(resources, node)
	}
	return resources
}

// filterNode parses the filter expression, or drops it silently when
// filtering is unsupported by configuration.
func (s *Service) filterNode(rt *schema.ResourceType, expression string) (filter.Node, error) {
	if resource.IsBlank(expression) {
		return nil, nil
	}
	if !s.serviceProvider.FilterSupported() {
		s.log.Debug("filter expression ignored, filtering is disabled", "filter", expression)
		return nil, nil
	}
	node, err := filter.Parse(rt, expression)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// sortByAttribute resolves the sortBy path, or drops it silently when
// sorting is unsupported by configuration.
func (s *Service) sortByAttribute(rt *schema.ResourceType, sortBy string) (*SortBy, error) {
	if resource.IsBlank(sortBy) {
		return nil, nil
	}
	if !s.serviceProvider.SortSupported() {
		s.log.Debug("sortBy value ignored, sorting is disabled", "sortBy", sortBy)
		return nil, nil
	}
	attr, canonical := rt.AttributeByPath(strings.TrimSpace(sortBy))
	if attr == nil {
		return nil, badRequest(ScimTypeInvalidPath, "sortBy attribute %q is not defined for resource type %q", sortBy, rt.Name)
	}
	return &SortBy{Attribute: attr, Path: canonical}, nil
}

// sortOrdering resolves the sort direction. A blank value with a resolved
// sortBy defaults to ascending.
func (s *Service) sortOrdering(sortOrder string, sortBy *SortBy) (SortOrder, error) {
	if resource.IsBlank(sortOrder) {
		if sortBy != nil {
			return SortAscending, nil
		}
		return SortOrderNone, nil
	}
	if !s.serviceProvider.SortSupported() {
		s.log.Debug("sortOrder value ignored, sorting is disabled", "sortOrder", sortOrder)
		return SortOrderNone, nil
	}
	order, err := ParseSortOrder(sortOrder)
	if err != nil {
		return SortOrderNone, badRequest(ScimTypeInvalidValue, "%s", err)
	}
	return order, nil
}

// resolve maps an endpoint path to its registration.
func (s *Service) resolve(endpoint string) (*schema.ResourceType, ResourceHandler, error) {
	rt, handler, ok := s.registry.Get(endpoint)
	if !ok {
		return nil, nil, badRequest(ScimTypeUnknownResource, "no resource found for endpoint %q", endpoint)
	}
	return rt, handler, nil
}

// fillMeta supplies a minimal meta block when the handler omitted one and
// always overwrites the location. Handler-supplied audit fields survive.
func (s *Service) fillMeta(rt *schema.ResourceType, node *resource.Node, location string) {
	meta := node.Meta()
	if meta == nil {
		meta = &resource.Meta{ResourceType: rt.Name}
	}
	meta.Location = location
	node.SetMeta(meta)
}

// getLocation builds the meta.location URL for a resource. Resolution
// fails soft: without any base URL the location is empty and a warning is
// logged, since location is cosmetic for some deployments.
func (s *Service) getLocation(rt *schema.ResourceType, id string, baseURL BaseURLSupplier) string {
	base := ""
	if baseURL != nil {
		base = baseURL()
	}
	if resource.IsBlank(base) {
		base = s.serviceProvider.BaseURL
		if resource.IsBlank(base) {
			s.log.Warn("cannot resolve resource location, no base URL configured", "resourceType", rt.Name)
			return ""
		}
	}
	base = strings.TrimSuffix(base, "/")
	return base + rt.Endpoint + "/" + id
}

// effectiveStartIndex clamps the requested start index to at least 1.
func effectiveStartIndex(requested *int64) int64 {
	if requested == nil || *requested < 1 {
		return 1
	}
	return *requested
}

// effectiveCount clamps the requested count into [0, maxPageSize]; an
// omitted count means the provider's default page size.
func (s *Service) effectiveCount(requested *int) int {
	if requested == nil {
		return s.serviceProvider.DefaultPageSize()
	}
	count := *requested
	if count < 0 {
		count = 0
	}
	if max := s.serviceProvider.MaxPageSize(); count > max {
		count = max
	}
	return count
}

// responseValidationError classifies a response-phase validation failure:
// a bad projection parameter is the client's fault, anything else means
// the handler produced a document violating its own schema.
func responseValidationError(err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) && verr.ScimType == validation.ScimTypeInvalidPath {
		return badRequest(ScimTypeInvalidPath, "%s", verr)
	}
	return &InternalError{Message: fmt.Sprintf("response document validation failed: %s", err), Err: err}
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
