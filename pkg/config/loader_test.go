package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := writeFile(t, "scim.yaml", `
serviceProvider:
  documentationUri: https://example.com/docs
  baseUrl: https://example.com/scim/v2
  filter:
    supported: true
    maxResults: 25
    defaultResults: 10
  sort:
    supported: true
  authenticationSchemes:
    - type: httpbasic
      name: HTTP Basic
      description: Basic authentication
logging:
  level: debug
  format: json
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	sp := cfg.ServiceProvider
	assert.Equal(t, "https://example.com/scim/v2", sp.BaseURL)
	assert.True(t, sp.FilterSupported())
	assert.True(t, sp.SortSupported())
	assert.Equal(t, 25, sp.MaxPageSize())
	assert.Equal(t, 10, sp.DefaultPageSize())
	require.Len(t, sp.AuthenticationSchemes, 1)
	assert.Equal(t, "HTTP Basic", sp.AuthenticationSchemes[0].Name)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFile_JSON(t *testing.T) {
	path := writeFile(t, "scim.json", `{
		"serviceProvider": {
			"filter": {"supported": true, "maxResults": 100},
			"sort": {"supported": false},
			"patch": {"supported": false},
			"bulk": {"supported": false, "maxOperations": 0, "maxPayloadSize": 0},
			"changePassword": {"supported": false},
			"etag": {"supported": false}
		}
	}`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.ServiceProvider.FilterSupported())
	assert.False(t, cfg.ServiceProvider.SortSupported())
}

func TestLoadFromFile_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := LoadFromFile(writeFile(t, "empty.yaml", ""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
	t.Run("invalid json", func(t *testing.T) {
		_, err := LoadFromFile(writeFile(t, "bad.json", `{"serviceProvider": `))
		assert.ErrorIs(t, err, ErrInvalidJSON)
	})
	t.Run("invalid yaml", func(t *testing.T) {
		_, err := LoadFromFile(writeFile(t, "bad.yaml", "\t- not yaml"))
		assert.ErrorIs(t, err, ErrInvalidYAML)
	})
	t.Run("directory", func(t *testing.T) {
		_, err := LoadFromFile(t.TempDir())
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.ServiceProvider.Filter.MaxResults = 10
	cfg.ServiceProvider.Filter.DefaultResults = 20
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.ServiceProvider.Filter.MaxResults = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.ServiceProvider.Bulk.MaxOperations = -1
	assert.Error(t, cfg.Validate())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.ServiceProvider.FilterSupported())
	assert.True(t, cfg.ServiceProvider.SortSupported())
	assert.Equal(t, 100, cfg.ServiceProvider.MaxPageSize())
}

func TestLoadSchemaFile(t *testing.T) {
	path := writeFile(t, "user.schema.json", `{
		"id": "urn:ietf:params:scim:schemas:core:2.0:User",
		"name": "User",
		"attributes": [{"name": "userName", "type": "string", "required": true}]
	}`)
	s, err := LoadSchemaFile(path)
	require.NoError(t, err)
	assert.Equal(t, "User", s.Name)
	require.Len(t, s.Attributes, 1)
	assert.True(t, s.Attributes[0].Required)
}

func TestLoadSchemaFile_Invalid(t *testing.T) {
	path := writeFile(t, "bad.schema.json", `{"name": "User"}`)
	_, err := LoadSchemaFile(path)
	assert.Error(t, err)
}
