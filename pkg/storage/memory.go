package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sergei-kljujev/SCIM-SDK/internal/id"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/endpoint"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/filter"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/resource"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
)

// Handler is an in-memory endpoint.ResourceHandler. It is safe for
// concurrent use; every call works on deep copies, so callers can mutate
// returned resources freely.
type Handler struct {
	resourceTypeName string

	mu        sync.RWMutex
	resources map[string]*storedResource
}

type storedResource struct {
	node     *resource.Node
	revision uint64
}

var _ endpoint.ResourceHandler = (*Handler)(nil)

// NewHandler creates an empty store for the named resource type. The name
// only appears in error messages and meta blocks.
func NewHandler(resourceTypeName string) *Handler {
	return &Handler{
		resourceTypeName: resourceTypeName,
		resources:        make(map[string]*storedResource),
	}
}

// Create stores the resource under a fresh server-assigned id. A
// client-supplied id is discarded.
func (h *Handler) Create(res *resource.Node) (*resource.Node, error) {
	stored := res.Clone()
	stored.SetID(id.New())

	now := time.Now().UTC().Truncate(time.Second)
	meta := stored.Meta()
	if meta == nil {
		meta = &resource.Meta{ResourceType: h.resourceTypeName}
	}
	meta.Created = &now
	meta.LastModified = &now
	meta.Version = id.Version(1)
	stored.SetMeta(meta)

	h.mu.Lock()
	h.resources[stored.ID()] = &storedResource{node: stored, revision: 1}
	h.mu.Unlock()

	return stored.Clone(), nil
}

// Get returns a copy of the stored resource, or nil if the id is unknown.
func (h *Handler) Get(resourceID string) (*resource.Node, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	entry, ok := h.resources[resourceID]
	if !ok {
		return nil, nil
	}
	return entry.node.Clone(), nil
}

// List returns the full candidate set, filtered and sorted as requested.
// Pagination is left to the endpoint core, which slices the page out of
// the returned set.
func (h *Handler) List(_ int64, _ int, f filter.Node, sortBy *endpoint.SortBy, order endpoint.SortOrder) (*resource.PartialListResponse, error) {
	h.mu.RLock()
	nodes := make([]*resource.Node, 0, len(h.resources))
	for _, entry := range h.resources {
		nodes = append(nodes, entry.node.Clone())
	}
	h.mu.RUnlock()

	if f != nil {
		nodes = filter.Apply(nodes, f)
	}
	if sortBy != nil {
		sortResources(nodes, sortBy, order)
	} else {
		// deterministic order for unsorted listings
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	}
	return &resource.PartialListResponse{
		Resources:    nodes,
		TotalResults: int64(len(nodes)),
	}, nil
}

// Update replaces the resource carrying the id stamped on res, preserving
// the creation timestamp and bumping the revision.
func (h *Handler) Update(res *resource.Node) (*resource.Node, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, ok := h.resources[res.ID()]
	if !ok {
		return nil, nil
	}

	updated := res.Clone()
	now := time.Now().UTC().Truncate(time.Second)
	revision := entry.revision + 1

	meta := updated.Meta()
	if meta == nil {
		meta = &resource.Meta{ResourceType: h.resourceTypeName}
	}
	if prev := entry.node.Meta(); prev != nil {
		meta.Created = prev.Created
	}
	meta.LastModified = &now
	meta.Version = id.Version(revision)
	updated.SetMeta(meta)

	h.resources[res.ID()] = &storedResource{node: updated, revision: revision}
	return updated.Clone(), nil
}

// Delete removes the resource or reports it as missing.
func (h *Handler) Delete(resourceID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.resources[resourceID]; !ok {
		return &endpoint.NotFoundError{ResourceType: h.resourceTypeName, ID: resourceID}
	}
	delete(h.resources, resourceID)
	return nil
}

// Count returns the number of stored resources.
func (h *Handler) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.resources)
}

// sortResources orders the slice by the sort attribute. Resources missing
// the attribute sort last regardless of direction (RFC 7644 section
// 3.4.2.3).
func sortResources(nodes []*resource.Node, sortBy *endpoint.SortBy, order endpoint.SortOrder) {
	collator := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(nodes, func(i, j int) bool {
		a, aok := sortValue(nodes[i], sortBy.Path)
		b, bok := sortValue(nodes[j], sortBy.Path)
		if !aok {
			return false
		}
		if !bok {
			return true
		}
		c := compareValues(sortBy.Attribute, collator, a, b)
		if order == endpoint.SortDescending {
			return c > 0
		}
		return c < 0
	})
}

// sortValue extracts the sort key; for multi-valued attributes the first
// value wins.
func sortValue(node *resource.Node, path string) (interface{}, bool) {
	v, ok := node.Get(path)
	if !ok || v == nil {
		return nil, false
	}
	if arr, isArr := v.([]interface{}); isArr {
		if len(arr) == 0 {
			return nil, false
		}
		return arr[0], true
	}
	return v, true
}

func compareValues(attr *schema.Attribute, collator *collate.Collator, a, b interface{}) int {
	switch attr.Type {
	case schema.TypeInteger, schema.TypeDecimal:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if aok && bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	case schema.TypeBoolean:
		ab, aok := a.(bool)
		bb, bok := b.(bool)
		if aok && bok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			default:
				return 1
			}
		}
	case schema.TypeDateTime:
		at, aerr := time.Parse(time.RFC3339, fmt.Sprint(a))
		bt, berr := time.Parse(time.RFC3339, fmt.Sprint(b))
		if aerr == nil && berr == nil {
			return at.Compare(bt)
		}
	}
	as := fmt.Sprint(a)
	bs := fmt.Sprint(b)
	if attr.CaseExact {
		return strings.Compare(as, bs)
	}
	return collator.CompareString(as, bs)
}

func toFloat(v interface{}) (float64, bool) {
	switch tv := v.(type) {
	case int64:
		return float64(tv), true
	case int:
		return float64(tv), true
	case float64:
		return tv, true
	default:
		return 0, false
	}
}
