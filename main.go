package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gqlgo/gqldocgen/builder"
	"github.com/gqlgo/gqldocgen/config"
	"github.com/gqlgo/gqldocgen/docgen"
	"github.com/gqlgo/gqldocgen/watch"
	"github.com/gqlgo/gqldocgen/writer"
	"github.com/urfave/cli/v2"
)

const version = "0.3.0"

const defaultOutput = "lib/graphql"

var versionCmd = &cli.Command{
	Name:  "version",
	Usage: "print the version",
	Action: func(_ *cli.Context) error {
		fmt.Println(version)

		return nil
	},
}

var generateCmd = &cli.Command{
	Name:  "generate",
	Usage: "generate operation documents and fragments from a graphql schema",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to the configuration file"},
		&cli.StringSliceFlag{Name: "schema", Aliases: []string{"s"}, Usage: "glob of local SDL schema files"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output directory for documents and fragments"},
		&cli.StringFlag{Name: "endpoint", Aliases: []string{"e"}, Usage: "remote endpoint to introspect the schema from"},
		&cli.StringSliceFlag{Name: "header", Aliases: []string{"H"}, Usage: "introspection request header, Key=Value"},
		&cli.BoolFlag{Name: "raw", Usage: "also generate operations for auto-generated CRUD fields"},
		&cli.BoolFlag{Name: "build-runner", Usage: "run the flutter build_runner build after generating"},
		&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "regenerate whenever a schema file changes"},
		&cli.BoolFlag{Name: "verbose", Usage: "enable debug diagnostics"},
	},
	Action: generate,
}

func generate(ctx *cli.Context) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "gqldocgen"})
	if ctx.Bool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err.Error())
		os.Exit(2)
	}

	run := func() error {
		schema, err := cfg.LoadSchema(ctx.Context)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%+v\n", err.Error())
			os.Exit(3)
		}

		w := writer.New(cfg.Output, logger)
		existing, err := w.ReadDocuments()
		if err != nil {
			return fmt.Errorf("failed to read existing documents: %w", err)
		}

		result := docgen.Generate(schema, existing, docgen.Options{Raw: cfg.Raw, Logger: logger})
		if err := w.WriteAll(ctx.Context, result); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		if cfg.BuildRunner {
			if err := builder.Run(ctx.Context, ".", logger); err != nil {
				return err
			}
		}

		return nil
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err.Error())
		os.Exit(4)
	}

	if !ctx.Bool("watch") {
		return nil
	}
	if len(cfg.Schema) == 0 {
		return fmt.Errorf("watch mode requires a local schema")
	}

	files, err := cfg.SchemaFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve schema files: %w", err)
	}

	watchCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := watch.Watch(watchCtx, files, run, logger); err != nil && watchCtx.Err() == nil {
		return err
	}

	return nil
}

// loadConfig reads the config file when one is given or found, then layers
// the CLI flags on top. Flags win.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}

	filename := ctx.String("config")
	if filename == "" {
		found, err := config.FindConfigFile(".")
		if err == nil {
			filename = found
		}
	}
	if filename != "" {
		loaded, err := config.Load(filename)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if schema := ctx.StringSlice("schema"); len(schema) > 0 {
		cfg.Schema = schema
	}
	if output := ctx.String("output"); output != "" {
		cfg.Output = output
	}
	if endpoint := ctx.String("endpoint"); endpoint != "" {
		cfg.Endpoint = &config.EndpointConfig{URL: endpoint, Headers: map[string]string{}}
		for _, header := range ctx.StringSlice("header") {
			key, value, ok := strings.Cut(header, "=")
			if !ok {
				return nil, fmt.Errorf("malformed header %q, want Key=Value", header)
			}
			cfg.Endpoint.Headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	if ctx.Bool("raw") {
		cfg.Raw = true
	}
	if ctx.Bool("build-runner") {
		cfg.BuildRunner = true
	}
	if cfg.Output == "" {
		cfg.Output = defaultOutput
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func main() {
	app := cli.NewApp()
	app.Name = "gqldocgen"
	app.Description = "Generates GraphQL operation documents and fragments from a schema for Flutter/Dart client codegen"
	app.Usage = generateCmd.Usage
	app.DefaultCommand = "generate"
	app.Commands = []*cli.Command{
		versionCmd,
		generateCmd,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprint(os.Stderr, err.Error()+"\n")
		os.Exit(1)
	}
}
