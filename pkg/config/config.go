package config

import (
	"fmt"

	"github.com/sergei-kljujev/SCIM-SDK/pkg/logging"
	"github.com/sergei-kljujev/SCIM-SDK/pkg/resource"
)

// Config is the root of a service configuration file.
type Config struct {
	// ServiceProvider is the capability configuration served on
	// /ServiceProviderConfig.
	ServiceProvider resource.ServiceProvider `json:"serviceProvider" yaml:"serviceProvider"`

	// Logging configures the structured logger.
	Logging logging.Config `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// Default returns a configuration with filtering and sorting enabled and
// the standard page-size limits.
func Default() *Config {
	return &Config{
		ServiceProvider: resource.ServiceProvider{
			Filter: resource.FilterConfig{
				Supported:  true,
				MaxResults: resource.DefaultMaxResults,
			},
			Sort: resource.Supported{Supported: true},
		},
		Logging: logging.Config{Level: "info"},
	}
}

// Validate checks the configuration for values the service cannot run
// with.
func (c *Config) Validate() error {
	if c.ServiceProvider.Filter.MaxResults < 0 {
		return fmt.Errorf("serviceProvider.filter.maxResults must not be negative: %d", c.ServiceProvider.Filter.MaxResults)
	}
	if c.ServiceProvider.Filter.DefaultResults < 0 {
		return fmt.Errorf("serviceProvider.filter.defaultResults must not be negative: %d", c.ServiceProvider.Filter.DefaultResults)
	}
	if max := c.ServiceProvider.MaxPageSize(); c.ServiceProvider.Filter.DefaultResults > max {
		return fmt.Errorf("serviceProvider.filter.defaultResults %d exceeds maxResults %d", c.ServiceProvider.Filter.DefaultResults, max)
	}
	if c.ServiceProvider.Bulk.MaxOperations < 0 || c.ServiceProvider.Bulk.MaxPayloadSize < 0 {
		return fmt.Errorf("serviceProvider.bulk limits must not be negative")
	}
	for i, s := range c.ServiceProvider.AuthenticationSchemes {
		if s.Name == "" || s.Type == "" {
			return fmt.Errorf("serviceProvider.authenticationSchemes[%d]: name and type are required", i)
		}
	}
	return nil
}
