// Package config loads the service configuration from JSON or YAML files.
//
// A configuration file declares the service provider capabilities served
// on /ServiceProviderConfig and the logging setup:
//
//	serviceProvider:
//	  baseUrl: https://example.com/scim/v2
//	  filter:
//	    supported: true
//	    maxResults: 50
//	  sort:
//	    supported: true
//	logging:
//	  level: info
//	  format: json
//
// The format is detected from the file extension: .yaml and .yml parse as
// YAML, everything else as JSON.
package config
