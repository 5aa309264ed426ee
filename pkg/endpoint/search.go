package endpoint

import (
	"encoding/json"
	"strings"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/resource"
)

// SearchRequest carries the parameters of a list/search call. All fields
// are optional; the zero value lists the first page with defaults. The
// same parameters apply whether they arrived as query parameters or as a
// JSON search-request body posted to "/.search".
type SearchRequest struct {
	// StartIndex is the 1-based index of the first result. Values below
	// 1 and absence both mean 1.
	StartIndex *int64 `json:"startIndex,omitempty"`

	// Count is the desired page size. Negative values mean 0; absence
	// means the provider's default page size.
	Count *int `json:"count,omitempty"`

	// Filter is a filter expression (RFC 7644 section 3.4.2.2).
	Filter string `json:"filter,omitempty"`

	// SortBy is the attribute path to sort by.
	SortBy string `json:"sortBy,omitempty"`

	// SortOrder is "ascending" or "descending". Blank with a SortBy
	// defaults to ascending.
	SortOrder string `json:"sortOrder,omitempty"`

	// Attributes is a comma-separated projection whitelist.
	Attributes string `json:"attributes,omitempty"`

	// ExcludedAttributes is a comma-separated projection blacklist.
	ExcludedAttributes string `json:"excludedAttributes,omitempty"`
}

// UnmarshalJSON accepts attributes/excludedAttributes both as the SCIM
// array form and as a comma-separated string.
func (r *SearchRequest) UnmarshalJSON(data []byte) error {
	type alias SearchRequest
	var aux struct {
		alias
		Attributes         interface{} `json:"attributes,omitempty"`
		ExcludedAttributes interface{} `json:"excludedAttributes,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = SearchRequest(aux.alias)
	r.Attributes = joinStringList(aux.Attributes)
	r.ExcludedAttributes = joinStringList(aux.ExcludedAttributes)
	return nil
}

func joinStringList(v interface{}) string {
	switch tv := v.(type) {
	case string:
		return tv
	case []interface{}:
		parts := make([]string, 0, len(tv))
		for _, e := range tv {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// ParseSearchRequest reads a JSON search-request body. A blank body yields
// an all-defaults request; malformed JSON is a bad request.
func ParseSearchRequest(body string) (*SearchRequest, error) {
	req := &SearchRequest{}
	if resource.IsBlank(body) {
		return req, nil
	}
	if err := json.Unmarshal([]byte(body), req); err != nil {
		return nil, badRequest(ScimTypeUnparseableRequest, "invalid search request: %s", err)
	}
	return req, nil
}

// validateProjection rejects a request supplying both projection parameters.
func validateProjection(attributes, excludedAttributes string) error {
	if !resource.IsBlank(attributes) && !resource.IsBlank(excludedAttributes) {
		return badRequest(ScimTypeInvalidParameters,
			"attributes and excludedAttributes must not be supplied together")
	}
	return nil
}
