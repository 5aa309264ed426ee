package resource

// Default page sizes applied when the configuration leaves them at zero.
const (
	DefaultMaxResults = 100
)

// ServiceProvider holds the capability configuration shared by every request.
// It is read-only after construction.
type ServiceProvider struct {
	// DocumentationURI points to the service documentation, if any.
	DocumentationURI string `json:"documentationUri,omitempty" yaml:"documentationUri,omitempty"`

	// Patch reports PATCH support. The endpoint core does not implement
	// PATCH; the flag is surfaced on /ServiceProviderConfig only.
	Patch Supported `json:"patch" yaml:"patch"`

	// Bulk reports bulk-operation support.
	Bulk BulkConfig `json:"bulk" yaml:"bulk"`

	// Filter controls filtering support and page sizes.
	Filter FilterConfig `json:"filter" yaml:"filter"`

	// ChangePassword reports changePassword support.
	ChangePassword Supported `json:"changePassword" yaml:"changePassword"`

	// Sort controls sorting support.
	Sort Supported `json:"sort" yaml:"sort"`

	// ETag reports version-etag support.
	ETag Supported `json:"etag" yaml:"etag"`

	// AuthenticationSchemes lists the supported authentication mechanisms.
	AuthenticationSchemes []AuthenticationScheme `json:"authenticationSchemes,omitempty" yaml:"authenticationSchemes,omitempty"`

	// BaseURL is an optional statically configured base URL used for
	// meta.location synthesis when no per-request base URL is supplied.
	BaseURL string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
}

// Supported is a single capability flag.
type Supported struct {
	Supported bool `json:"supported" yaml:"supported"`
}

// FilterConfig controls filtering support and the page-size limits that
// apply to every list operation regardless of filtering.
type FilterConfig struct {
	Supported bool `json:"supported" yaml:"supported"`

	// MaxResults is the maximum page size. Zero means DefaultMaxResults.
	MaxResults int `json:"maxResults" yaml:"maxResults"`

	// DefaultResults is the page size used when the client omits count.
	// Zero means "use MaxResults".
	DefaultResults int `json:"defaultResults,omitempty" yaml:"defaultResults,omitempty"`
}

// BulkConfig reports bulk-operation support and its limits.
type BulkConfig struct {
	Supported      bool `json:"supported" yaml:"supported"`
	MaxOperations  int  `json:"maxOperations" yaml:"maxOperations"`
	MaxPayloadSize int  `json:"maxPayloadSize" yaml:"maxPayloadSize"`
}

// AuthenticationScheme describes one supported authentication mechanism
// (RFC 7643 section 5).
type AuthenticationScheme struct {
	Type             string `json:"type" yaml:"type"`
	Name             string `json:"name" yaml:"name"`
	Description      string `json:"description" yaml:"description"`
	SpecURI          string `json:"specUri,omitempty" yaml:"specUri,omitempty"`
	DocumentationURI string `json:"documentationUri,omitempty" yaml:"documentationUri,omitempty"`
	Primary          bool   `json:"primary,omitempty" yaml:"primary,omitempty"`
}

// FilterSupported reports whether filter expressions are evaluated at all.
func (sp *ServiceProvider) FilterSupported() bool {
	return sp.Filter.Supported
}

// SortSupported reports whether sortBy/sortOrder are honored.
func (sp *ServiceProvider) SortSupported() bool {
	return sp.Sort.Supported
}

// MaxPageSize returns the upper bound for the count parameter.
func (sp *ServiceProvider) MaxPageSize() int {
	if sp.Filter.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return sp.Filter.MaxResults
}

// DefaultPageSize returns the page size used when the client omits count.
func (sp *ServiceProvider) DefaultPageSize() int {
	if sp.Filter.DefaultResults <= 0 {
		return sp.MaxPageSize()
	}
	if sp.Filter.DefaultResults > sp.MaxPageSize() {
		return sp.MaxPageSize()
	}
	return sp.Filter.DefaultResults
}

// SchemaURIServiceProviderConfig is the schema URI of the configuration
// document served on /ServiceProviderConfig.
const SchemaURIServiceProviderConfig = "urn:ietf:params:scim:schemas:core:2.0:ServiceProviderConfig"

// ToDocument renders the configuration as the RFC 7643 section 5 wire shape.
func (sp *ServiceProvider) ToDocument() map[string]interface{} {
	doc := map[string]interface{}{
		"schemas": []interface{}{SchemaURIServiceProviderConfig},
		"patch":   map[string]interface{}{"supported": sp.Patch.Supported},
		"bulk": map[string]interface{}{
			"supported":      sp.Bulk.Supported,
			"maxOperations":  int64(sp.Bulk.MaxOperations),
			"maxPayloadSize": int64(sp.Bulk.MaxPayloadSize),
		},
		"filter": map[string]interface{}{
			"supported":  sp.Filter.Supported,
			"maxResults": int64(sp.MaxPageSize()),
		},
		"changePassword": map[string]interface{}{"supported": sp.ChangePassword.Supported},
		"sort":           map[string]interface{}{"supported": sp.Sort.Supported},
		"etag":           map[string]interface{}{"supported": sp.ETag.Supported},
	}
	if sp.DocumentationURI != "" {
		doc["documentationUri"] = sp.DocumentationURI
	}
	schemes := make([]interface{}, 0, len(sp.AuthenticationSchemes))
	for _, s := range sp.AuthenticationSchemes {
		scheme := map[string]interface{}{
			"type":        s.Type,
			"name":        s.Name,
			"description": s.Description,
		}
		if s.SpecURI != "" {
			scheme["specUri"] = s.SpecURI
		}
		if s.DocumentationURI != "" {
			scheme["documentationUri"] = s.DocumentationURI
		}
		if s.Primary {
			scheme["primary"] = true
		}
		schemes = append(schemes, scheme)
	}
	doc["authenticationSchemes"] = schemes
	return doc
}

// PartialListResponse is a handler's answer to a list call: one page of
// resources plus the provider-reported total. A TotalResults of 0 means
// "not reported"; the endpoint core substitutes the filtered size.
type PartialListResponse struct {
	Resources    []*Node
	TotalResults int64
}
