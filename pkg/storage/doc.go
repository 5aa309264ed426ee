// Package storage provides an in-memory resource handler backing a SCIM
// endpoint. It persists resource documents keyed by server-assigned id,
// stamps meta audit fields and supports handler-side filtering and
// sorting for resource types that leave those to the handler.
//
// The handler holds everything in process memory; it is meant for tests,
// examples and small deployments. Production services implement
// endpoint.ResourceHandler against their own store.
package storage
