package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/endpoint"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/filter"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/resource"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
)

func userNode(t *testing.T, userName string) *resource.Node {
	t.Helper()
	node, err := resource.Parse(fmt.Sprintf(`{
		"schemas": ["urn:ietf:params:scim:schemas:core:2.0:User"],
		"userName": %q
	}`, userName))
	require.NoError(t, err)
	node.SetMeta(&resource.Meta{ResourceType: "User"})
	return node
}

func TestHandler_Create(t *testing.T) {
	h := NewHandler("User")

	created, err := h.Create(userNode(t, "alice"))
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, created.ID())
	meta := created.Meta()
	require.NotNil(t, meta)
	assert.Equal(t, "User", meta.ResourceType)
	assert.NotNil(t, meta.Created)
	assert.NotNil(t, meta.LastModified)
	assert.Equal(t, `W/"1"`, meta.Version)
	assert.Equal(t, 1, h.Count())
}

func TestHandler_CreateDiscardsClientID(t *testing.T) {
	h := NewHandler("User")
	node := userNode(t, "alice")
	node.SetID("client-chosen")

	created, err := h.Create(node)
	require.NoError(t, err)
	assert.NotEqual(t, "client-chosen", created.ID())
}

func TestHandler_Get(t *testing.T) {
	h := NewHandler("User")
	created, err := h.Create(userNode(t, "alice"))
	require.NoError(t, err)

	got, err := h.Get(created.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	name, _ := got.Get("userName")
	assert.Equal(t, "alice", name)

	missing, err := h.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestHandler_GetReturnsCopy(t *testing.T) {
	h := NewHandler("User")
	created, err := h.Create(userNode(t, "alice"))
	require.NoError(t, err)

	got, err := h.Get(created.ID())
	require.NoError(t, err)
	got.Attributes()["userName"] = "mutated"

	again, err := h.Get(created.ID())
	require.NoError(t, err)
	name, _ := again.Get("userName")
	assert.Equal(t, "alice", name, "mutating a returned resource must not affect the store")
}

func TestHandler_Update(t *testing.T) {
	h := NewHandler("User")
	created, err := h.Create(userNode(t, "alice"))
	require.NoError(t, err)

	replacement := userNode(t, "alice-renamed")
	replacement.SetID(created.ID())

	updated, err := h.Update(replacement)
	require.NoError(t, err)
	require.NotNil(t, updated)

	meta := updated.Meta()
	require.NotNil(t, meta)
	assert.Equal(t, `W/"2"`, meta.Version)
	assert.Equal(t, created.Meta().Created, meta.Created, "creation timestamp survives updates")

	missing := userNode(t, "ghost")
	missing.SetID("nope")
	updated, err = h.Update(missing)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestHandler_Delete(t *testing.T) {
	h := NewHandler("User")
	created, err := h.Create(userNode(t, "alice"))
	require.NoError(t, err)

	require.NoError(t, h.Delete(created.ID()))
	assert.Equal(t, 0, h.Count())

	err = h.Delete(created.ID())
	require.Error(t, err)
	var nf *endpoint.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestHandler_ListFilters(t *testing.T) {
	h := NewHandler("User")
	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := h.Create(userNode(t, name))
		require.NoError(t, err)
	}

	rt := &schema.ResourceType{
		Name: "User",
		Schema: &schema.Schema{
			ID:   schema.SchemaURIUser,
			Name: "User",
			Attributes: []*schema.Attribute{
				{Name: "userName", Type: schema.TypeString},
			},
		},
	}
	f, err := filter.Parse(rt, `userName sw "b"`)
	require.NoError(t, err)

	partial, err := h.List(1, 100, f, nil, endpoint.SortOrderNone)
	require.NoError(t, err)
	require.Len(t, partial.Resources, 1)
	assert.Equal(t, int64(1), partial.TotalResults)
	name, _ := partial.Resources[0].Get("userName")
	assert.Equal(t, "bob", name)
}

func TestHandler_ListSorts(t *testing.T) {
	h := NewHandler("User")
	for _, name := range []string{"Carol", "alice", "Bob"} {
		_, err := h.Create(userNode(t, name))
		require.NoError(t, err)
	}

	sortAttr := &schema.Attribute{Name: "userName", Type: schema.TypeString}
	sortBy := &endpoint.SortBy{Attribute: sortAttr, Path: "userName"}

	partial, err := h.List(1, 100, nil, sortBy, endpoint.SortAscending)
	require.NoError(t, err)
	names := make([]string, 0, len(partial.Resources))
	for _, node := range partial.Resources {
		v, _ := node.Get("userName")
		names = append(names, v.(string))
	}
	assert.Equal(t, []string{"alice", "Bob", "Carol"}, names, "sorting ignores case for non-caseExact attributes")

	partial, err = h.List(1, 100, nil, sortBy, endpoint.SortDescending)
	require.NoError(t, err)
	v, _ := partial.Resources[0].Get("userName")
	assert.Equal(t, "Carol", v)
}

func TestHandler_ListSortsMissingValuesLast(t *testing.T) {
	h := NewHandler("User")
	_, err := h.Create(userNode(t, "alice"))
	require.NoError(t, err)
	empty, err := resource.Parse(`{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"displayName":"anonymous"}`)
	require.NoError(t, err)
	_, err = h.Create(empty)
	require.NoError(t, err)

	sortBy := &endpoint.SortBy{
		Attribute: &schema.Attribute{Name: "userName", Type: schema.TypeString},
		Path:      "userName",
	}
	for _, order := range []endpoint.SortOrder{endpoint.SortAscending, endpoint.SortDescending} {
		partial, err := h.List(1, 100, nil, sortBy, order)
		require.NoError(t, err)
		require.Len(t, partial.Resources, 2)
		_, ok := partial.Resources[1].Get("userName")
		assert.False(t, ok, "resource without the sort attribute must come last (%s)", order)
	}
}

func TestHandler_ConcurrentAccess(t *testing.T) {
	h := NewHandler("User")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := h.Create(userNode(t, fmt.Sprintf("user%d", i)))
			assert.NoError(t, err)
			_, err = h.Get(created.ID())
			assert.NoError(t, err)
			_, err = h.List(1, 100, nil, nil, endpoint.SortOrderNone)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, h.Count())
}
