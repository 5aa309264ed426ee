package resource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	node, err := Parse(`{"schemas":["urn:x"],"id":"1","userName":"alice","externalId":"ext-1"}`)
	require.NoError(t, err)

	assert.Equal(t, "1", node.ID())
	assert.Equal(t, "ext-1", node.ExternalID())
	assert.Equal(t, []string{"urn:x"}, node.Schemas())
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{`{"id": `, `[1,2,3]`, `"just a string"`, `42`} {
		_, err := Parse(raw)
		assert.Error(t, err, "input %s", raw)
	}
}

func TestNode_Get(t *testing.T) {
	node, err := Parse(`{"userName":"alice","name":{"givenName":"Alice","familyName":"Smith"}}`)
	require.NoError(t, err)

	v, ok := node.Get("userName")
	require.True(t, ok)
	assert.Equal(t, "alice", v)

	v, ok = node.Get("name.familyName")
	require.True(t, ok)
	assert.Equal(t, "Smith", v)

	_, ok = node.Get("missing")
	assert.False(t, ok)
	_, ok = node.Get("")
	assert.False(t, ok)
}

func TestNode_Meta(t *testing.T) {
	node, err := Parse(`{"meta":{"resourceType":"User","created":"2024-06-01T12:00:00Z","version":"W/\"3\"","location":"https://example.com/Users/1"}}`)
	require.NoError(t, err)

	meta := node.Meta()
	require.NotNil(t, meta)
	assert.Equal(t, "User", meta.ResourceType)
	assert.Equal(t, `W/"3"`, meta.Version)
	assert.Equal(t, "https://example.com/Users/1", meta.Location)
	require.NotNil(t, meta.Created)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), meta.Created.UTC())
	assert.Nil(t, meta.LastModified)
}

func TestNode_MetaAbsent(t *testing.T) {
	node, err := Parse(`{"id":"1"}`)
	require.NoError(t, err)
	assert.Nil(t, node.Meta())
}

func TestNode_SetMeta(t *testing.T) {
	node := NewNode(nil)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	node.SetMeta(&Meta{ResourceType: "User", Created: &now, Location: "https://example.com/Users/1"})

	raw, ok := node.Attributes()["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "User", raw["resourceType"])
	assert.Equal(t, "2024-06-01T12:00:00Z", raw["created"])
	assert.NotContains(t, raw, "lastModified")

	node.SetMeta(nil)
	assert.NotContains(t, node.Attributes(), "meta")
}

func TestNode_Clone(t *testing.T) {
	node, err := Parse(`{"id":"1","emails":[{"value":"a@example.com"}],"name":{"givenName":"Alice"}}`)
	require.NoError(t, err)

	clone := node.Clone()
	clone.SetID("2")
	clone.Attributes()["name"].(map[string]interface{})["givenName"] = "Bob"
	clone.Attributes()["emails"].([]interface{})[0].(map[string]interface{})["value"] = "b@example.com"

	assert.Equal(t, "1", node.ID())
	v, _ := node.Get("name.givenName")
	assert.Equal(t, "Alice", v)
	email, _ := node.Get("emails")
	assert.Equal(t, "a@example.com", email.([]interface{})[0].(map[string]interface{})["value"])
}

func TestNode_JSONStable(t *testing.T) {
	node, err := Parse(`{"b":1,"a":2}`)
	require.NoError(t, err)
	assert.Equal(t, node.JSON(), node.JSON())
	assert.Contains(t, node.JSON(), `"a"`)
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   \t\n"))
	assert.False(t, IsBlank("x"))
	assert.False(t, IsBlank(" x "))
}

func TestServiceProvider_PageSizes(t *testing.T) {
	sp := &ServiceProvider{}
	assert.Equal(t, DefaultMaxResults, sp.MaxPageSize())
	assert.Equal(t, DefaultMaxResults, sp.DefaultPageSize())

	sp.Filter.MaxResults = 20
	assert.Equal(t, 20, sp.MaxPageSize())
	assert.Equal(t, 20, sp.DefaultPageSize())

	sp.Filter.DefaultResults = 5
	assert.Equal(t, 5, sp.DefaultPageSize())

	sp.Filter.DefaultResults = 50
	assert.Equal(t, 20, sp.DefaultPageSize(), "default page size is capped by the maximum")
}

func TestServiceProvider_ToDocument(t *testing.T) {
	sp := &ServiceProvider{
		DocumentationURI: "https://example.com/docs",
		Filter:           FilterConfig{Supported: true, MaxResults: 25},
		Sort:             Supported{Supported: true},
	}
	doc := sp.ToDocument()

	assert.Equal(t, []interface{}{SchemaURIServiceProviderConfig}, doc["schemas"])
	assert.Equal(t, "https://example.com/docs", doc["documentationUri"])
	filterCfg := doc["filter"].(map[string]interface{})
	assert.Equal(t, true, filterCfg["supported"])
	assert.Equal(t, int64(25), filterCfg["maxResults"])
	assert.Equal(t, map[string]interface{}{"supported": true}, doc["sort"])
	assert.Equal(t, map[string]interface{}{"supported": false}, doc["patch"])
}
