// Package config holds the tool configuration, sourced from an optional YAML
// file with CLI flags layered on top, and loads the schema from local SDL
// files or a remote endpoint via introspection.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/gqlgo/gqldocgen/client"
	"github.com/gqlgo/gqldocgen/introspection"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// ConfigFilenames are the file names probed when no explicit config path is
// given, in precedence order.
var ConfigFilenames = []string{".gqldocgen.yml", "gqldocgen.yml", ".gqldocgen.yaml", "gqldocgen.yaml"}

type Config struct {
	// Schema is a list of local SDL file globs; mutually exclusive with
	// Endpoint.
	Schema StringList `yaml:"schema,omitempty"`

	// Output is the directory the documents and fragments are written to.
	Output string `yaml:"output,omitempty"`

	Endpoint *EndpointConfig `yaml:"endpoint,omitempty"`

	// Raw disables skipping of auto-generated CRUD root fields.
	Raw bool `yaml:"raw,omitempty"`

	// BuildRunner runs the Flutter build tool after a successful write.
	BuildRunner bool `yaml:"build_runner,omitempty"`
}

// StringList is a simple array of strings.
type StringList []string

// Has checks if the strings array has a given value.
func (a StringList) Has(file string) bool {
	for _, existing := range a {
		if existing == file {
			return true
		}
	}

	return false
}

// EndpointConfig are the allowed options for the 'endpoint' config.
type EndpointConfig struct {
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// FindConfigFile walks up from dir looking for the closest config file.
func FindConfigFile(dir string) (string, error) {
	var err error
	if dir == "." {
		dir, err = os.Getwd()
	} else {
		_, err = os.Stat(dir)
	}
	if err != nil {
		return "", fmt.Errorf("unable to get directory %q: %w", dir, err)
	}

	cfg := findConfigInDir(dir)
	for cfg == "" && dir != filepath.Dir(dir) {
		dir = filepath.Dir(dir)
		cfg = findConfigInDir(dir)
	}
	if cfg == "" {
		return "", os.ErrNotExist
	}

	return cfg, nil
}

func findConfigInDir(dir string) string {
	for _, name := range ConfigFilenames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Load reads and parses a config file. Environment variables in the file are
// expanded before parsing.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var cfg Config
	content := []byte(os.ExpandEnv(string(b)))
	if err := yaml.UnmarshalWithOptions(content, &cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the config after flag overrides have been applied.
func (c *Config) Validate() error {
	if len(c.Schema) > 0 && c.Endpoint != nil {
		return errors.New("'schema' and 'endpoint' both specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")
	}
	if len(c.Schema) == 0 && c.Endpoint == nil {
		return errors.New("neither 'schema' nor 'endpoint' specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")
	}

	return nil
}

// SchemaFiles resolves the configured schema globs to concrete file paths.
func (c *Config) SchemaFiles() (StringList, error) {
	return expandSchemaGlobs(c.Schema)
}

// LoadSchema loads and parses the schema from local files or a remote server.
func (c *Config) LoadSchema(ctx context.Context) (*ast.Schema, error) {
	if len(c.Schema) > 0 {
		schema, err := c.loadLocalSchema()
		if err != nil {
			return nil, fmt.Errorf("load local schema failed: %w", err)
		}

		return schema, nil
	}

	schema, err := c.loadRemoteSchema(ctx)
	if err != nil {
		return nil, fmt.Errorf("load remote schema failed: %w", err)
	}

	return schema, nil
}

func (c *Config) loadLocalSchema() (*ast.Schema, error) {
	filenames, err := expandSchemaGlobs(c.Schema)
	if err != nil {
		return nil, err
	}
	if len(filenames) == 0 {
		return nil, fmt.Errorf("no schema files matched %v", c.Schema)
	}

	sources := make([]*ast.Source, 0, len(filenames))
	for _, filename := range filenames {
		raw, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("unable to open schema: %w", err)
		}
		sources = append(sources, &ast.Source{Name: filepath.ToSlash(filename), Input: string(raw)})
	}

	schema, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	return schema, nil
}

func (c *Config) loadRemoteSchema(ctx context.Context) (*ast.Schema, error) {
	options := make([]client.Option, 0, len(c.Endpoint.Headers))
	for key, value := range c.Endpoint.Headers {
		options = append(options, client.WithHeader(key, value))
	}
	gqlclient := client.New(c.Endpoint.URL, options...)

	var res introspection.Query
	if err := gqlclient.Post(ctx, "IntrospectionQuery", introspection.QueryDocument, nil, &res); err != nil {
		return nil, fmt.Errorf("introspection query failed: %w", err)
	}

	schema, err := gqlparser.LoadSchema(&ast.Source{
		Name:  c.Endpoint.URL,
		Input: introspection.SDL(res),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse introspected schema: %w", err)
	}

	return schema, nil
}

var path2regex = strings.NewReplacer(
	`.`, `\.`,
	`*`, `.+`,
	`\`, `[\\/]`,
	`/`, `[\\/]`,
)

// expandSchemaGlobs resolves schema file globs; ** matches any number of
// directories in between.
func expandSchemaGlobs(globs StringList) (StringList, error) {
	var filenames StringList
	for _, glob := range globs {
		var matches []string

		if strings.Contains(glob, "**") {
			pathParts := strings.SplitN(glob, "**", 2)
			rest := strings.TrimPrefix(strings.TrimPrefix(pathParts[1], `\`), `/`)
			globRe := regexp.MustCompile(path2regex.Replace(rest) + `$`)

			if err := filepath.Walk(pathParts[0], func(path string, _ os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if globRe.MatchString(strings.TrimPrefix(path, pathParts[0])) {
					matches = append(matches, path)
				}

				return nil
			}); err != nil {
				return nil, fmt.Errorf("failed to walk schema at root %s: %w", pathParts[0], err)
			}
		} else {
			var err error
			matches, err = filepath.Glob(glob)
			if err != nil {
				return nil, fmt.Errorf("failed to glob schema filename %s: %w", glob, err)
			}
		}

		for _, match := range matches {
			if !filenames.Has(match) {
				filenames = append(filenames, match)
			}
		}
	}

	return filenames, nil
}
