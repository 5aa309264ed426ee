// Package validation checks resource documents against the schemas of their
// resource type.
//
// ForRequest normalizes an inbound create/replace document: it verifies the
// declared schemas, enforces required attributes, type-checks every value,
// canonicalizes attribute casing and strips readOnly and undeclared
// attributes. ForResponse prepares an outbound document: it strips writeOnly
// and never-returned attributes and applies the client's attributes /
// excludedAttributes projection.
package validation
