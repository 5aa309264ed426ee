package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/resource"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
)

const extensionURI = "urn:example:schemas:extension:2.0:Employee"

func testResourceType() *schema.ResourceType {
	return &schema.ResourceType{
		Name:     "User",
		Endpoint: "/Users",
		Schema: &schema.Schema{
			ID:   schema.SchemaURIUser,
			Name: "User",
			Attributes: []*schema.Attribute{
				{Name: "userName", Type: schema.TypeString, Required: true},
				{Name: "displayName", Type: schema.TypeString},
				{Name: "active", Type: schema.TypeBoolean},
				{Name: "loginCount", Type: schema.TypeInteger},
				{Name: "weight", Type: schema.TypeDecimal},
				{Name: "lastLogin", Type: schema.TypeDateTime},
				{Name: "groups", Type: schema.TypeString, MultiValued: true, Mutability: schema.MutabilityReadOnly},
				{Name: "password", Type: schema.TypeString, Mutability: schema.MutabilityWriteOnly, Returned: schema.ReturnedNever},
				{Name: "secret", Type: schema.TypeString, Returned: schema.ReturnedNever},
				{Name: "bigReport", Type: schema.TypeString, Returned: schema.ReturnedRequest},
				{Name: "emails", Type: schema.TypeComplex, MultiValued: true, SubAttributes: []*schema.Attribute{
					{Name: "value", Type: schema.TypeString, Required: true},
					{Name: "type", Type: schema.TypeString, CanonicalValues: []string{"work", "home", "other"}},
					{Name: "primary", Type: schema.TypeBoolean},
				}},
			},
		},
		Extensions: []*schema.Extension{
			{Schema: &schema.Schema{
				ID:   extensionURI,
				Name: "Employee",
				Attributes: []*schema.Attribute{
					{Name: "employeeNumber", Type: schema.TypeString},
					{Name: "department", Type: schema.TypeString},
				},
			}},
		},
	}
}

func parseDoc(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	node, err := resource.Parse(raw)
	require.NoError(t, err)
	return node.Attributes()
}

func TestForRequest_NormalizesCasing(t *testing.T) {
	doc := parseDoc(t, `{
		"SCHEMAS": ["urn:ietf:params:scim:schemas:core:2.0:User"],
		"USERNAME": "alice",
		"DisplayName": "Alice"
	}`)
	out, err := ForRequest(testResourceType(), doc, IntentCreate)
	require.NoError(t, err)
	assert.Equal(t, "alice", out["userName"])
	assert.Equal(t, "Alice", out["displayName"])
	assert.NotContains(t, out, "USERNAME")
}

func TestForRequest_DropsReadOnlyAndUndeclared(t *testing.T) {
	doc := parseDoc(t, `{
		"schemas": ["urn:ietf:params:scim:schemas:core:2.0:User"],
		"userName": "alice",
		"groups": ["admins"],
		"shoeSize": 42
	}`)
	out, err := ForRequest(testResourceType(), doc, IntentCreate)
	require.NoError(t, err)
	assert.NotContains(t, out, "groups")
	assert.NotContains(t, out, "shoeSize")
}

func TestForRequest_ExternalID(t *testing.T) {
	doc := parseDoc(t, `{
		"schemas": ["urn:ietf:params:scim:schemas:core:2.0:User"],
		"userName": "alice",
		"externalId": "ext-1"
	}`)
	out, err := ForRequest(testResourceType(), doc, IntentCreate)
	require.NoError(t, err)
	assert.Equal(t, "ext-1", out["externalId"])
}

func TestForRequest_SchemasDeclaration(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		scimType string
	}{
		{"missing schemas", `{"userName":"alice"}`, ScimTypeInvalidSyntax},
		{"empty schemas", `{"schemas":[],"userName":"alice"}`, ScimTypeInvalidSyntax},
		{"main schema not declared", `{"schemas":["` + extensionURI + `"],"userName":"alice"}`, ScimTypeInvalidValue},
		{"unknown schema", `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User","urn:example:Nope"],"userName":"alice"}`, ScimTypeInvalidValue},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ForRequest(testResourceType(), parseDoc(t, tc.raw), IntentCreate)
			require.Error(t, err)
			var verr *Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.scimType, verr.ScimType)
		})
	}
}

func TestForRequest_RequiredAttribute(t *testing.T) {
	doc := parseDoc(t, `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"displayName":"x"}`)
	_, err := ForRequest(testResourceType(), doc, IntentCreate)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ScimTypeInvalidValue, verr.ScimType)
	assert.Equal(t, "userName", verr.Attribute)
}

func TestForRequest_TypeChecking(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"string gets number", `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"userName":42}`},
		{"boolean gets string", `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"userName":"a","active":"yes"}`},
		{"integer gets fraction", `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"userName":"a","loginCount":1.5}`},
		{"dateTime gets garbage", `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"userName":"a","lastLogin":"yesterday"}`},
		{"multi-valued gets scalar", `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"userName":"a","emails":{"value":"x"}}`},
		{"canonical value violation", `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"userName":"a","emails":[{"value":"x","type":"office"}]}`},
		{"required sub-attribute missing", `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"userName":"a","emails":[{"type":"work"}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ForRequest(testResourceType(), parseDoc(t, tc.raw), IntentCreate)
			assert.Error(t, err)
		})
	}
}

func TestForRequest_NumericCoercion(t *testing.T) {
	doc := parseDoc(t, `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"userName":"a","loginCount":3,"weight":70}`)
	out, err := ForRequest(testResourceType(), doc, IntentCreate)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out["loginCount"])
	assert.Equal(t, float64(70), out["weight"])
}

func TestForRequest_Extension(t *testing.T) {
	doc := parseDoc(t, `{
		"schemas": ["urn:ietf:params:scim:schemas:core:2.0:User", "`+extensionURI+`"],
		"userName": "alice",
		"`+extensionURI+`": {"employeeNumber": "E-1", "unknown": true}
	}`)
	out, err := ForRequest(testResourceType(), doc, IntentCreate)
	require.NoError(t, err)
	ext, ok := out[extensionURI].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "E-1", ext["employeeNumber"])
	assert.NotContains(t, ext, "unknown")
	assert.Contains(t, out["schemas"], extensionURI)
}

func TestForRequest_RequiredExtensionMissing(t *testing.T) {
	rt := testResourceType()
	rt.Extensions[0].Required = true
	doc := parseDoc(t, `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"userName":"alice"}`)
	_, err := ForRequest(rt, doc, IntentCreate)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ScimTypeInvalidSyntax, verr.ScimType)
}

func TestForRequest_ImmutablePassesThroughUnderBothIntents(t *testing.T) {
	rt := testResourceType()
	rt.Schema.Attributes = append(rt.Schema.Attributes,
		&schema.Attribute{Name: "employeeId", Type: schema.TypeString, Mutability: schema.MutabilityImmutable})
	doc := parseDoc(t, `{
		"schemas": ["urn:ietf:params:scim:schemas:core:2.0:User"],
		"userName": "alice",
		"employeeId": "E-1000"
	}`)

	for _, intent := range []Intent{IntentCreate, IntentUpdate} {
		normalized, err := ForRequest(rt, doc, intent)
		require.NoError(t, err, "intent %q", intent)
		assert.Equal(t, "E-1000", normalized["employeeId"], "intent %q", intent)
	}
}

func TestForRequest_NothingWritable(t *testing.T) {
	rt := testResourceType()
	rt.Schema.Attributes = []*schema.Attribute{
		{Name: "groups", Type: schema.TypeString, MultiValued: true, Mutability: schema.MutabilityReadOnly},
	}
	doc := parseDoc(t, `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"groups":["admins"]}`)
	out, err := ForRequest(rt, doc, IntentUpdate)
	require.NoError(t, err)
	assert.Nil(t, out)
}
