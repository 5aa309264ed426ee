// Package resource defines the in-flight representation of SCIM resources
// and the service-provider capability configuration.
//
// A Node wraps the parsed JSON document of a single resource. The endpoint
// core mutates a Node only to stamp the id and the meta block; everything
// else belongs to the schema the resource was registered with.
//
// ServiceProvider is the process-wide, read-only capability configuration
// (RFC 7643 section 5). It is constructed once at startup and shared by all
// requests without locking.
package resource
