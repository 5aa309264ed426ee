package validation

import (
	"strings"
	"time"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
)

// Intent names the request pipeline a document is validated for.
type Intent string

const (
	// IntentCreate validates the body of a create (POST) request.
	IntentCreate Intent = "create"
	// IntentUpdate validates the body of a replace (PUT) request.
	IntentUpdate Intent = "update"
)

// ForRequest validates and normalizes an inbound resource document. The
// returned map uses canonical attribute casing, contains only declared
// writable attributes, and always carries a rebuilt "schemas" list. It is
// nil when the document holds no writable attributes at all.
//
// Both intents currently normalize identically. The one rule that would
// separate them, RFC 7644 section 3.5.1's treatment of immutable
// attributes on replace, needs the stored values to compare against, and
// this validator never sees the store. Immutable attributes therefore
// pass through under either intent and a handler that enforces
// immutability rejects mismatches itself. The intent parameter stays on
// the signature so that rule can move here without an API change.
func ForRequest(rt *schema.ResourceType, doc map[string]interface{}, intent Intent) (map[string]interface{}, error) {
	if _, err := declaredSchemas(rt, doc); err != nil {
		return nil, err
	}

	normalized := make(map[string]interface{})
	schemas := []interface{}{rt.Schema.ID}

	main, err := requestAttributes(rt.Schema.Attributes, doc)
	if err != nil {
		return nil, err
	}
	for k, v := range main {
		normalized[k] = v
	}

	// externalId is the one writable common attribute.
	if _, v, ok := findKey(doc, "externalId"); ok {
		s, isString := v.(string)
		if !isString {
			return nil, valueError("externalId", "expected a string value")
		}
		normalized["externalId"] = s
	}

	for _, ext := range rt.Extensions {
		_, raw, present := findKey(doc, ext.Schema.ID)
		if !present {
			if ext.Required {
				return nil, syntaxError(ext.Schema.ID, "required schema extension is missing")
			}
			continue
		}
		extDoc, ok := raw.(map[string]interface{})
		if !ok {
			return nil, syntaxError(ext.Schema.ID, "schema extension must be a JSON object")
		}
		extNorm, err := requestAttributes(ext.Schema.Attributes, extDoc)
		if err != nil {
			return nil, err
		}
		if len(extNorm) > 0 {
			normalized[ext.Schema.ID] = extNorm
			schemas = append(schemas, ext.Schema.ID)
		} else if ext.Required {
			return nil, syntaxError(ext.Schema.ID, "required schema extension is empty")
		}
	}

	if err := checkRequired(rt.Schema.Attributes, normalized, ""); err != nil {
		return nil, err
	}
	for _, ext := range rt.Extensions {
		extNorm, ok := normalized[ext.Schema.ID].(map[string]interface{})
		if !ok {
			continue
		}
		if err := checkRequired(ext.Schema.Attributes, extNorm, ext.Schema.ID+":"); err != nil {
			return nil, err
		}
	}

	if len(normalized) == 0 {
		// nothing writable survived normalization
		return nil, nil
	}
	normalized["schemas"] = schemas
	return normalized, nil
}

// declaredSchemas checks the "schemas" attribute of an inbound document: it
// must list the main schema and may list known extensions only.
func declaredSchemas(rt *schema.ResourceType, doc map[string]interface{}) ([]string, error) {
	_, raw, ok := findKey(doc, "schemas")
	if !ok {
		return nil, syntaxError("schemas", "document does not declare its schemas")
	}
	list, ok := raw.([]interface{})
	if !ok || len(list) == 0 {
		return nil, syntaxError("schemas", "schemas must be a non-empty array of schema URIs")
	}
	uris := make([]string, 0, len(list))
	mainFound := false
	for _, e := range list {
		uri, ok := e.(string)
		if !ok {
			return nil, syntaxError("schemas", "schemas must contain only strings")
		}
		if strings.EqualFold(uri, rt.Schema.ID) {
			mainFound = true
		} else if rt.SchemaByURI(uri) == nil {
			return nil, valueError("schemas", "schema %q is not known for resource type %q", uri, rt.Name)
		}
		uris = append(uris, uri)
	}
	if !mainFound {
		return nil, valueError("schemas", "main schema %q is not declared", rt.Schema.ID)
	}
	return uris, nil
}

// requestAttributes normalizes the declared attributes of one schema within
// a request document. readOnly and undeclared attributes are dropped.
func requestAttributes(attrs []*schema.Attribute, doc map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	for _, attr := range attrs {
		_, raw, ok := findKey(doc, attr.Name)
		if !ok {
			continue
		}
		if attr.EffectiveMutability() == schema.MutabilityReadOnly {
			continue
		}
		val, err := checkValue(attr, raw, true)
		if err != nil {
			return nil, err
		}
		out[attr.Name] = val
	}
	return out, nil
}

func checkRequired(attrs []*schema.Attribute, normalized map[string]interface{}, prefix string) error {
	for _, attr := range attrs {
		if !attr.Required || attr.EffectiveMutability() == schema.MutabilityReadOnly {
			continue
		}
		v, ok := normalized[attr.Name]
		if !ok || !isPresentValue(v) {
			return valueError(prefix+attr.Name, "required attribute is missing")
		}
	}
	return nil
}

// checkValue type-checks and canonicalizes a single attribute value.
// request selects the writable view (readOnly sub-attributes dropped);
// the response view instead drops writeOnly and never-returned ones.
func checkValue(attr *schema.Attribute, v interface{}, request bool) (interface{}, error) {
	if attr.MultiValued {
		arr, ok := v.([]interface{})
		if !ok {
			return nil, valueError(attr.Name, "multi-valued attribute expects an array, got %T", v)
		}
		out := make([]interface{}, 0, len(arr))
		for _, elem := range arr {
			val, err := checkSingleValue(attr, elem, request)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	}
	return checkSingleValue(attr, v, request)
}

func checkSingleValue(attr *schema.Attribute, v interface{}, request bool) (interface{}, error) {
	switch attr.Type {
	case schema.TypeComplex:
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil, valueError(attr.Name, "complex attribute expects an object, got %T", v)
		}
		if len(attr.SubAttributes) == 0 {
			// free-form complex attribute, passed through untouched
			return obj, nil
		}
		out := make(map[string]interface{})
		for _, sub := range attr.SubAttributes {
			_, raw, ok := findKey(obj, sub.Name)
			if !ok {
				continue
			}
			if request && sub.EffectiveMutability() == schema.MutabilityReadOnly {
				continue
			}
			if !request && (sub.EffectiveMutability() == schema.MutabilityWriteOnly || sub.EffectiveReturned() == schema.ReturnedNever) {
				continue
			}
			val, err := checkValue(sub, raw, request)
			if err != nil {
				return nil, err
			}
			out[sub.Name] = val
		}
		if request {
			for _, sub := range attr.SubAttributes {
				if sub.Required && sub.EffectiveMutability() != schema.MutabilityReadOnly {
					if _, ok := out[sub.Name]; !ok {
						return nil, valueError(attr.Name+"."+sub.Name, "required sub-attribute is missing")
					}
				}
			}
		}
		return out, nil
	case schema.TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, valueError(attr.Name, "expected a string value, got %T", v)
		}
		if !attr.IsCanonical(s) {
			return nil, valueError(attr.Name, "value %q is not one of the canonical values %v", s, attr.CanonicalValues)
		}
		return s, nil
	case schema.TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, valueError(attr.Name, "expected a boolean value, got %T", v)
		}
		return b, nil
	case schema.TypeInteger:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case float64:
			if n == float64(int64(n)) {
				return int64(n), nil
			}
		}
		return nil, valueError(attr.Name, "expected an integer value, got %v", v)
	case schema.TypeDecimal:
		switch n := v.(type) {
		case int64:
			return float64(n), nil
		case int:
			return float64(n), nil
		case float64:
			return n, nil
		}
		return nil, valueError(attr.Name, "expected a decimal value, got %T", v)
	case schema.TypeDateTime:
		s, ok := v.(string)
		if !ok {
			return nil, valueError(attr.Name, "expected an RFC 3339 timestamp, got %T", v)
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return nil, valueError(attr.Name, "value %q is not an RFC 3339 timestamp", s)
		}
		return s, nil
	case schema.TypeReference, schema.TypeBinary:
		s, ok := v.(string)
		if !ok {
			return nil, valueError(attr.Name, "expected a string value, got %T", v)
		}
		return s, nil
	default:
		return nil, valueError(attr.Name, "unknown attribute type %q", attr.Type)
	}
}

// findKey looks up a map key case-insensitively and returns the actual key.
func findKey(doc map[string]interface{}, name string) (string, interface{}, bool) {
	if v, ok := doc[name]; ok {
		return name, v, true
	}
	for k, v := range doc {
		if strings.EqualFold(k, name) {
			return k, v, true
		}
	}
	return "", nil, false
}

func isPresentValue(v interface{}) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(tv) != ""
	case []interface{}:
		return len(tv) > 0
	case map[string]interface{}:
		return len(tv) > 0
	default:
		return true
	}
}
