package validation

import (
	"strings"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/resource"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/schema"
)

// ScimTypeInvalidPath marks a projection parameter referencing an attribute
// the resource type does not define.
const ScimTypeInvalidPath = "invalidPath"

// ForResponse validates an outbound resource document and applies the
// client's attribute projection. The returned map uses canonical attribute
// casing, never contains writeOnly or never-returned attributes, and is
// trimmed to the requested attributes (or the declared set minus
// excludedAttributes).
//
// requestDoc, when non-nil, is the validated request document of the
// originating create/replace call; attributes with returned=request are kept
// without an explicit projection only if the request supplied them.
func ForResponse(rt *schema.ResourceType, res *resource.Node, requestDoc map[string]interface{}, attributes, excludedAttributes string) (map[string]interface{}, error) {
	src := res.Attributes()
	out := make(map[string]interface{})

	schemas := []interface{}{rt.Schema.ID}
	for _, ext := range rt.Extensions {
		if _, _, ok := findKey(src, ext.Schema.ID); ok {
			schemas = append(schemas, ext.Schema.ID)
		}
	}
	out["schemas"] = schemas

	if s, ok := src["id"].(string); ok && s != "" {
		out["id"] = s
	}
	if s, ok := src["externalId"].(string); ok && s != "" {
		out["externalId"] = s
	}
	if meta, ok := src["meta"].(map[string]interface{}); ok {
		out["meta"] = deepCopy(meta).(map[string]interface{})
	}

	if err := responseAttributes(rt.Schema.Attributes, src, out); err != nil {
		return nil, err
	}
	for _, ext := range rt.Extensions {
		_, raw, ok := findKey(src, ext.Schema.ID)
		if !ok {
			continue
		}
		extDoc, ok := raw.(map[string]interface{})
		if !ok {
			return nil, syntaxError(ext.Schema.ID, "schema extension must be a JSON object")
		}
		extOut := make(map[string]interface{})
		if err := responseAttributes(ext.Schema.Attributes, extDoc, extOut); err != nil {
			return nil, err
		}
		if len(extOut) > 0 {
			out[ext.Schema.ID] = extOut
		}
	}

	if !resource.IsBlank(attributes) {
		return projectRequested(rt, out, attributes)
	}
	dropRequestReturned(rt, out, requestDoc)
	if !resource.IsBlank(excludedAttributes) {
		if err := projectExcluded(rt, out, excludedAttributes); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// responseAttributes copies declared attributes from src into out, dropping
// writeOnly and never-returned ones and enforcing required attributes.
func responseAttributes(attrs []*schema.Attribute, src, out map[string]interface{}) error {
	for _, attr := range attrs {
		if attr.EffectiveMutability() == schema.MutabilityWriteOnly || attr.EffectiveReturned() == schema.ReturnedNever {
			continue
		}
		_, raw, ok := findKey(src, attr.Name)
		if !ok {
			if attr.Required {
				return valueError(attr.Name, "required attribute is missing from the response document")
			}
			continue
		}
		val, err := checkValue(attr, raw, false)
		if err != nil {
			return err
		}
		out[attr.Name] = val
	}
	return nil
}

// projectRequested trims the document to the minimum attribute set plus the
// comma-separated requested paths.
func projectRequested(rt *schema.ResourceType, out map[string]interface{}, attributes string) (map[string]interface{}, error) {
	proj := map[string]interface{}{"schemas": out["schemas"]}
	// the minimum set: every attribute with returned=always
	if id, ok := out["id"]; ok {
		proj["id"] = id
	}
	for _, attr := range rt.Schema.Attributes {
		if attr.EffectiveReturned() == schema.ReturnedAlways {
			if v, ok := out[attr.Name]; ok {
				proj[attr.Name] = deepCopy(v)
			}
		}
	}
	for _, raw := range splitList(attributes) {
		parts, err := resolvePath(rt, raw)
		if err != nil {
			return nil, err
		}
		copyPath(out, proj, parts)
	}
	return proj, nil
}

// projectExcluded removes the comma-separated paths, except attributes with
// returned=always which cannot be suppressed.
func projectExcluded(rt *schema.ResourceType, out map[string]interface{}, excluded string) error {
	for _, raw := range splitList(excluded) {
		parts, err := resolvePath(rt, raw)
		if err != nil {
			return err
		}
		if attr, _ := rt.AttributeByPath(strings.Join(trimExtension(parts), ".")); attr != nil {
			if attr.EffectiveReturned() == schema.ReturnedAlways {
				continue
			}
		}
		delPath(out, parts)
	}
	return nil
}

// dropRequestReturned removes returned=request attributes unless the
// originating request supplied them.
func dropRequestReturned(rt *schema.ResourceType, out map[string]interface{}, requestDoc map[string]interface{}) {
	for _, attr := range rt.Schema.Attributes {
		if attr.EffectiveReturned() != schema.ReturnedRequest {
			continue
		}
		if requestDoc != nil {
			if _, _, ok := findKey(requestDoc, attr.Name); ok {
				continue
			}
		}
		delete(out, attr.Name)
	}
	for _, ext := range rt.Extensions {
		extOut, ok := out[ext.Schema.ID].(map[string]interface{})
		if !ok {
			continue
		}
		extReq, _ := requestDoc[ext.Schema.ID].(map[string]interface{})
		for _, attr := range ext.Schema.Attributes {
			if attr.EffectiveReturned() != schema.ReturnedRequest {
				continue
			}
			if extReq != nil {
				if _, _, ok := findKey(extReq, attr.Name); ok {
					continue
				}
			}
			delete(extOut, attr.Name)
		}
	}
}

// resolvePath turns one projection parameter entry into the key path of the
// rendered document. Attributes of extension schemas live under their schema
// URI key, so their paths gain that prefix.
func resolvePath(rt *schema.ResourceType, raw string) ([]string, error) {
	path := strings.TrimSpace(raw)
	lower := strings.ToLower(path)
	for _, ext := range rt.Extensions {
		prefix := strings.ToLower(ext.Schema.ID)
		if lower == prefix {
			return []string{ext.Schema.ID}, nil
		}
		if strings.HasPrefix(lower, prefix+":") {
			attr, canonical := ext.Schema.AttributeByPath(path[len(prefix)+1:])
			if attr == nil {
				return nil, &Error{ScimType: ScimTypeInvalidPath, Attribute: raw, Message: "attribute is not defined for this resource type"}
			}
			return append([]string{ext.Schema.ID}, strings.Split(canonical, ".")...), nil
		}
	}
	if prefix := strings.ToLower(rt.Schema.ID); strings.HasPrefix(lower, prefix+":") {
		path = path[len(prefix)+1:]
	}
	common := &schema.Schema{Attributes: schema.CommonAttributes()}
	if attr, canonical := common.AttributeByPath(path); attr != nil {
		return strings.Split(canonical, "."), nil
	}
	if attr, canonical := rt.Schema.AttributeByPath(path); attr != nil {
		return strings.Split(canonical, "."), nil
	}
	// extension attribute referenced without its URI prefix
	for _, ext := range rt.Extensions {
		if attr, canonical := ext.Schema.AttributeByPath(path); attr != nil {
			return append([]string{ext.Schema.ID}, strings.Split(canonical, ".")...), nil
		}
	}
	return nil, &Error{ScimType: ScimTypeInvalidPath, Attribute: raw, Message: "attribute is not defined for this resource type"}
}

// trimExtension strips a leading extension URI key from a resolved path so
// it can be looked up as a schema attribute path again.
func trimExtension(parts []string) []string {
	if len(parts) > 1 && strings.Contains(parts[0], ":") {
		return parts[1:]
	}
	return parts
}

func splitList(list string) []string {
	fields := strings.Split(list, ",")
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// copyPath copies the value at the given key path from src into dst,
// descending through objects and element-wise through arrays.
func copyPath(src, dst map[string]interface{}, parts []string) {
	key := parts[0]
	v, ok := src[key]
	if !ok {
		return
	}
	if len(parts) == 1 {
		dst[key] = deepCopy(v)
		return
	}
	switch tv := v.(type) {
	case map[string]interface{}:
		sub, ok := dst[key].(map[string]interface{})
		if !ok {
			sub = make(map[string]interface{})
			dst[key] = sub
		}
		copyPath(tv, sub, parts[1:])
	case []interface{}:
		dstArr, ok := dst[key].([]interface{})
		if !ok || len(dstArr) != len(tv) {
			dstArr = make([]interface{}, len(tv))
			for i := range dstArr {
				dstArr[i] = make(map[string]interface{})
			}
			dst[key] = dstArr
		}
		for i, elem := range tv {
			em, ok := elem.(map[string]interface{})
			if !ok {
				continue
			}
			dm, ok := dstArr[i].(map[string]interface{})
			if !ok {
				continue
			}
			copyPath(em, dm, parts[1:])
		}
	}
}

// delPath removes the value at the given key path, descending element-wise
// through arrays.
func delPath(doc map[string]interface{}, parts []string) {
	key := parts[0]
	if len(parts) == 1 {
		delete(doc, key)
		return
	}
	switch tv := doc[key].(type) {
	case map[string]interface{}:
		delPath(tv, parts[1:])
	case []interface{}:
		for _, elem := range tv {
			if em, ok := elem.(map[string]interface{}); ok {
				delPath(em, parts[1:])
			}
		}
	}
}

func deepCopy(v interface{}) interface{} {
	switch tv := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(tv))
		for k, e := range tv {
			out[k] = deepCopy(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(tv))
		for i, e := range tv {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}
