package endpoint

import (
	"net/http"
	"strconv"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/filter"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/validation"
)

// ScimResponse is the single return value of every pipeline. Exactly one
// concrete response type is produced per call; failures become an
// *ErrorResponse rather than an error.
type ScimResponse interface {
	// StatusCode is the HTTP status analog of the response.
	StatusCode() int

	// Document is the response body as a JSON-ready map, nil for
	// bodyless responses (delete).
	Document() map[string]interface{}

	// Location is the resource location URL, "" when not applicable.
	Location() string
}

// CreateResponse is the answer to a successful create call.
type CreateResponse struct {
	document map[string]interface{}
	location string
}

func (r *CreateResponse) StatusCode() int                  { return http.StatusCreated }
func (r *CreateResponse) Document() map[string]interface{} { return r.document }
func (r *CreateResponse) Location() string                 { return r.location }

// GetResponse is the answer to a successful retrieve call.
type GetResponse struct {
	document map[string]interface{}
	location string
}

func (r *GetResponse) StatusCode() int                  { return http.StatusOK }
func (r *GetResponse) Document() map[string]interface{} { return r.document }
func (r *GetResponse) Location() string                 { return r.location }

// UpdateResponse is the answer to a successful replace call.
type UpdateResponse struct {
	document map[string]interface{}
	location string
}

func (r *UpdateResponse) StatusCode() int                  { return http.StatusOK }
func (r *UpdateResponse) Document() map[string]interface{} { return r.document }
func (r *UpdateResponse) Location() string                 { return r.location }

// DeleteResponse is the empty answer to a successful delete call.
type DeleteResponse struct{}

func (r *DeleteResponse) StatusCode() int                  { return http.StatusNoContent }
func (r *DeleteResponse) Document() map[string]interface{} { return nil }
func (r *DeleteResponse) Location() string                 { return "" }

// ListResponse is the answer to a successful list/search call.
type ListResponse struct {
	// Resources holds the projected documents of the returned page.
	Resources []map[string]interface{}

	// TotalResults is the total number of matching resources across all
	// pages, not the size of this page.
	TotalResults int64

	// ItemsPerPage is the effective count the page was limited to.
	ItemsPerPage int

	// StartIndex is the effective 1-based start index of the page.
	StartIndex int64
}

func (r *ListResponse) StatusCode() int { return http.StatusOK }

func (r *ListResponse) Document() map[string]interface{} {
	resources := make([]interface{}, len(r.Resources))
	for i, res := range r.Resources {
		resources[i] = res
	}
	return map[string]interface{}{
		"schemas":      []interface{}{schema.SchemaURIListResponse},
		"totalResults": r.TotalResults,
		"itemsPerPage": int64(r.ItemsPerPage),
		"startIndex":   r.StartIndex,
		"Resources":    resources,
	}
}

func (r *ListResponse) Location() string { return "" }

// ErrorResponse converts a pipeline failure into the RFC 7644 section 3.12
// error shape.
type ErrorResponse struct {
	Status   int
	ScimType string
	Detail   string
}

func (r *ErrorResponse) StatusCode() int { return r.Status }

func (r *ErrorResponse) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"schemas": []interface{}{schema.SchemaURIError},
		"status":  strconv.Itoa(r.Status),
	}
	if r.ScimType != "" {
		doc["scimType"] = r.ScimType
	}
	if r.Detail != "" {
		doc["detail"] = r.Detail
	}
	return doc
}

func (r *ErrorResponse) Location() string { return "" }

// NewErrorResponse maps any error onto the wire error shape. Recognized
// protocol errors keep their status and kind; everything else is wrapped as
// an internal server error, preserving only the message.
func NewErrorResponse(err error) *ErrorResponse {
	switch e := err.(type) {
	case *BadRequestError:
		return &ErrorResponse{Status: e.StatusCode(), ScimType: e.ScimType, Detail: e.Message}
	case *NotFoundError:
		return &ErrorResponse{Status: e.StatusCode(), Detail: e.Error()}
	case *NotImplementedError:
		return &ErrorResponse{Status: e.StatusCode(), Detail: e.Error()}
	case *InternalError:
		return &ErrorResponse{Status: e.StatusCode(), Detail: e.Message}
	case *validation.Error:
		return &ErrorResponse{Status: http.StatusBadRequest, ScimType: e.ScimType, Detail: e.Error()}
	case *filter.ParseError:
		return &ErrorResponse{Status: http.StatusBadRequest, ScimType: ScimTypeInvalidFilter, Detail: e.Error()}
	default:
		return &ErrorResponse{Status: http.StatusInternalServerError, Detail: err.Error()}
	}
}
