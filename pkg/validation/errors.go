package validation

import "fmt"

// SCIM scimType values produced by document validation (RFC 7644 section 3.12).
const (
	ScimTypeInvalidSyntax = "invalidSyntax"
	ScimTypeInvalidValue  = "invalidValue"
)

// Error reports a document that violates its resource type's schema.
type Error struct {
	ScimType  string
	Attribute string
	Message   string
}

func (e *Error) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("attribute %q: %s", e.Attribute, e.Message)
	}
	return e.Message
}

func syntaxError(attribute, format string, args ...interface{}) *Error {
	return &Error{ScimType: ScimTypeInvalidSyntax, Attribute: attribute, Message: fmt.Sprintf(format, args...)}
}

func valueError(attribute, format string, args ...interface{}) *Error {
	return &Error{ScimType: ScimTypeInvalidValue, Attribute: attribute, Message: fmt.Sprintf(format, args...)}
}
