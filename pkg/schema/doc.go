// Package schema models SCIM schemas (RFC 7643 section 7): attribute
// definitions, schema documents, and the ResourceType descriptor that binds
// an endpoint path to a main schema and optional extension schemas.
//
// Schema documents supplied as JSON are structurally checked against an
// embedded meta schema before being turned into Schema values, so malformed
// registrations fail at startup rather than at request time.
package schema
