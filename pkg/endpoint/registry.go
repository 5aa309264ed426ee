package endpoint

import (
	"sort"
	"strings"
	"sync"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
)

// registration binds one endpoint path to its descriptor and handler.
type registration struct {
	resourceType *schema.ResourceType
	handler      ResourceHandler
}

// Registry maps endpoint paths to registered resource types. It is safe
// for concurrent reads; registration is expected at startup, before
// request traffic, and a later registration for the same path silently
// replaces the earlier one.
type Registry struct {
	mu         sync.RWMutex
	byEndpoint map[string]*registration
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byEndpoint: make(map[string]*registration)}
}

// normalizeEndpoint accepts "Users", "/Users" or "/Users/" as the same path.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	endpoint = strings.TrimSuffix(endpoint, "/")
	if endpoint != "" && !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return endpoint
}

// Register inserts or overwrites the mapping for the definition's endpoint.
// The descriptor's Endpoint is rewritten to its normalized spelling so that
// location synthesis and the /ResourceTypes documents always carry the
// canonical "/Path" form.
func (r *Registry) Register(def *EndpointDefinition) {
	key := normalizeEndpoint(def.ResourceType.Endpoint)
	def.ResourceType.Endpoint = key
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEndpoint[key] = &registration{resourceType: def.ResourceType, handler: def.Handler}
}

// Get looks up the resource type and handler registered for an endpoint.
func (r *Registry) Get(endpoint string) (*schema.ResourceType, ResourceHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.byEndpoint[normalizeEndpoint(endpoint)]
	if !ok {
		return nil, nil, false
	}
	return reg.resourceType, reg.handler, true
}

// ResourceTypes returns all registered descriptors sorted by name.
func (r *Registry) ResourceTypes() []*schema.ResourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*schema.ResourceType, 0, len(r.byEndpoint))
	for _, reg := range r.byEndpoint {
		out = append(out, reg.resourceType)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ResourceTypeByName finds a registered descriptor by its type name.
func (r *Registry) ResourceTypeByName(name string) *schema.ResourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, reg := range r.byEndpoint {
		if strings.EqualFold(reg.resourceType.Name, name) {
			return reg.resourceType
		}
	}
	return nil
}

// Schemas returns the distinct schemas of all registered resource types,
// sorted by URI.
func (r *Registry) Schemas() []*schema.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]*schema.Schema)
	for _, reg := range r.byEndpoint {
		for _, s := range reg.resourceType.AllSchemas() {
			seen[s.ID] = s
		}
	}
	out := make([]*schema.Schema, 0, len(seen))
	for _, s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SchemaByURI finds one registered schema by its URI.
func (r *Registry) SchemaByURI(uri string) *schema.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, reg := range r.byEndpoint {
		for _, s := range reg.resourceType.AllSchemas() {
			if strings.EqualFold(s.ID, uri) {
				return s
			}
		}
	}
	return nil
}

// Count returns the number of registered endpoints.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEndpoint)
}
