package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/filter"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/resource"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
)

func defFor(name, endpoint, schemaURI string) *EndpointDefinition {
	return &EndpointDefinition{
		ResourceType: &schema.ResourceType{
			Name:     name,
			Endpoint: endpoint,
			Schema:   &schema.Schema{ID: schemaURI, Name: name},
		},
		Handler: &stubRegistryHandler{},
	}
}

type stubRegistryHandler struct{}

func (*stubRegistryHandler) Create(*resource.Node) (*resource.Node, error) { return nil, nil }
func (*stubRegistryHandler) Get(string) (*resource.Node, error)            { return nil, nil }
func (*stubRegistryHandler) List(int64, int, filter.Node, *SortBy, SortOrder) (*resource.PartialListResponse, error) {
	return nil, nil
}
func (*stubRegistryHandler) Update(*resource.Node) (*resource.Node, error) { return nil, nil }
func (*stubRegistryHandler) Delete(string) error                           { return nil }

func TestRegistry_EndpointNormalization(t *testing.T) {
	r := NewRegistry()
	r.Register(defFor("User", "Users/", "urn:example:User"))

	for _, ep := range []string{"/Users", "/Users/", "Users", " /Users "} {
		_, _, ok := r.Get(ep)
		assert.True(t, ok, "endpoint %q should resolve", ep)
	}
	_, _, ok := r.Get("/Groups")
	assert.False(t, ok)
}

func TestRegistry_CanonicalizesEndpoint(t *testing.T) {
	r := NewRegistry()
	def := defFor("User", "Users", "urn:example:User")
	r.Register(def)

	assert.Equal(t, "/Users", def.ResourceType.Endpoint)
	rt, _, ok := r.Get("/Users")
	require.True(t, ok)
	assert.Equal(t, "/Users", rt.Endpoint)
}

func TestRegistry_Overwrite(t *testing.T) {
	r := NewRegistry()
	r.Register(defFor("User", "/Users", "urn:example:User"))
	r.Register(defFor("Account", "/Users", "urn:example:Account"))

	rt, _, ok := r.Get("/Users")
	require.True(t, ok)
	assert.Equal(t, "Account", rt.Name)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_ResourceTypesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(defFor("Zebra", "/Zebras", "urn:example:Zebra"))
	r.Register(defFor("Ant", "/Ants", "urn:example:Ant"))

	types := r.ResourceTypes()
	require.Len(t, types, 2)
	assert.Equal(t, "Ant", types[0].Name)
	assert.Equal(t, "Zebra", types[1].Name)
}

func TestRegistry_ResourceTypeByName(t *testing.T) {
	r := NewRegistry()
	r.Register(defFor("User", "/Users", "urn:example:User"))

	assert.NotNil(t, r.ResourceTypeByName("user"))
	assert.NotNil(t, r.ResourceTypeByName("USER"))
	assert.Nil(t, r.ResourceTypeByName("Group"))
}

func TestRegistry_SchemasDistinct(t *testing.T) {
	r := NewRegistry()
	shared := &schema.Schema{ID: "urn:example:Shared", Name: "Shared"}
	r.Register(&EndpointDefinition{
		ResourceType: &schema.ResourceType{Name: "A", Endpoint: "/A", Schema: shared},
		Handler:      &stubRegistryHandler{},
	})
	r.Register(&EndpointDefinition{
		ResourceType: &schema.ResourceType{Name: "B", Endpoint: "/B", Schema: shared},
		Handler:      &stubRegistryHandler{},
	})

	schemas := r.Schemas()
	assert.Len(t, schemas, 1)
	assert.NotNil(t, r.SchemaByURI("urn:example:Shared"))
	assert.Nil(t, r.SchemaByURI("urn:example:Other"))
}
