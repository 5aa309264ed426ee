package endpoint

import (
	"fmt"
	"strings"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/filter"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/resource"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
)

// SortOrder is the direction of a sorted list call.
type SortOrder string

const (
	// SortOrderNone means sorting was not requested or is unsupported.
	SortOrderNone SortOrder = ""
	// SortAscending sorts lowest value first.
	SortAscending SortOrder = "ascending"
	// SortDescending sorts highest value first.
	SortDescending SortOrder = "descending"
)

// ParseSortOrder parses the client's sortOrder value case-insensitively.
func ParseSortOrder(value string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return SortOrderNone, nil
	case "ascending":
		return SortAscending, nil
	case "descending":
		return SortDescending, nil
	default:
		return SortOrderNone, fmt.Errorf("unknown sortOrder value %q", value)
	}
}

// SortBy identifies the attribute a list call sorts on. Path is the
// canonical dotted path within the resource document, e.g. "userName" or
// "name.familyName".
type SortBy struct {
	Attribute *schema.Attribute
	Path      string
}

// ResourceHandler performs the actual storage operations for one resource
// type. The endpoint core never trusts its output: ids, meta blocks and
// page sizes of returned resources are verified or corrected after every
// call.
//
// Absence is signaled by a nil resource with a nil error: from Create and
// List it means "operation not implemented", from Get and Update it means
// "resource not found". Returned errors pass through the pipeline's error
// mapping unchanged when they are protocol errors and are wrapped as
// internal server errors otherwise.
type ResourceHandler interface {
	// Create persists a new resource and returns it with the
	// server-assigned id and meta block set.
	Create(res *resource.Node) (*resource.Node, error)

	// Get returns the resource with the given id, or nil if it does
	// not exist.
	Get(id string) (*resource.Node, error)

	// List returns one page of resources plus the total result count.
	// f is nil when no filter applies or when the resource type uses
	// auto-filtering; under auto-filtering the handler must return its
	// full unfiltered candidate set rather than a pre-paginated page.
	// sortBy is nil when sorting was not requested or is unsupported.
	List(startIndex int64, count int, f filter.Node, sortBy *SortBy, order SortOrder) (*resource.PartialListResponse, error)

	// Update replaces the resource carrying the id stamped on res, or
	// returns nil if it does not exist.
	Update(res *resource.Node) (*resource.Node, error)

	// Delete removes the resource with the given id. Absence of an
	// error is success.
	Delete(id string) error
}

// EndpointDefinition binds a resource-type descriptor to the handler that
// serves it.
type EndpointDefinition struct {
	ResourceType *schema.ResourceType
	Handler      ResourceHandler
}
