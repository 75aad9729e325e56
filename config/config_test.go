package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, ".gqldocgen.yml", `
schema:
  - schema.graphql
output: lib/graphql
raw: true
build_runner: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, StringList{"schema.graphql"}, cfg.Schema)
	assert.Equal(t, "lib/graphql", cfg.Output)
	assert.True(t, cfg.Raw)
	assert.True(t, cfg.BuildRunner)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_expandsEnvironment(t *testing.T) {
	t.Setenv("GQLDOCGEN_TEST_TOKEN", "secret")

	dir := t.TempDir()
	path := writeFile(t, dir, ".gqldocgen.yml", `
endpoint:
  url: https://api.example.com/graphql
  headers:
    Authorization: Bearer ${GQLDOCGEN_TEST_TOKEN}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Endpoint)
	assert.Equal(t, "Bearer secret", cfg.Endpoint.Headers["Authorization"])
}

func TestLoad_rejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, ".gqldocgen.yml", "shcema: [a.graphql]\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name: "schema only",
			cfg:  &Config{Schema: StringList{"schema.graphql"}},
		},
		{
			name: "endpoint only",
			cfg:  &Config{Endpoint: &EndpointConfig{URL: "https://example.com/graphql"}},
		},
		{
			name:    "both",
			cfg:     &Config{Schema: StringList{"schema.graphql"}, Endpoint: &EndpointConfig{URL: "https://example.com/graphql"}},
			wantErr: true,
		},
		{
			name:    "neither",
			cfg:     &Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFindConfigFile_walksUp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "gqldocgen.yml", "output: lib/graphql\n")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gqldocgen.yml"), found)
}

func TestLoadSchema_localFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "schema.graphql", `
		type User { id: ID! }
		type Query { user: User }
	`)

	cfg := &Config{Schema: StringList{filepath.Join(dir, "*.graphql")}}
	schema, err := cfg.LoadSchema(context.Background())
	require.NoError(t, err)
	require.NotNil(t, schema.Query)
	assert.NotNil(t, schema.Types["User"])
}

func TestLoadSchema_noMatches(t *testing.T) {
	t.Parallel()

	cfg := &Config{Schema: StringList{filepath.Join(t.TempDir(), "missing", "*.graphql")}}
	_, err := cfg.LoadSchema(context.Background())
	assert.Error(t, err)
}
