// Package id generates the server-assigned identifiers and version etags
// of stored resources.
package id
