package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/internal/commands"
	staticcmd "github.com/goliatone/go-sitegen/internal/commands/static"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/logging/gologger"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// CLI is the sitegen command line. Build runs when no command is named.
type CLI struct {
	LogLevel  string `name:"log-level" help:"Log level (${enum})" enum:"trace,debug,info,warn,error,fatal" default:"info"`
	LogFormat string `name:"log-format" help:"Log format (${enum})" enum:"console,json,pretty" default:"console"`

	Build BuildCmd `cmd:"" default:"withargs" help:"Build the site (default command)"`
	Clean CleanCmd `cmd:"" help:"Remove the site's output directory"`
}

// BuildCmd builds the site in Path into OutputDir.
type BuildCmd struct {
	Path      string `arg:"" optional:"" default:"." help:"Site directory containing config.toml" type:"path"`
	OutputDir string `arg:"" optional:"" default:"public" help:"Output directory, relative to the site directory"`

	Local   bool `short:"l" help:"Use http://127.0.0.1:1111 as the base URL"`
	Workers int  `short:"w" help:"Parallel page builders (0 uses the CPU count)" default:"0"`
	DryRun  bool `name:"dry-run" help:"Build and render without writing output"`
}

// CleanCmd removes OutputDir.
type CleanCmd struct {
	Path      string `arg:"" optional:"" default:"." help:"Site directory containing config.toml" type:"path"`
	OutputDir string `arg:"" optional:"" default:"public" help:"Output directory, relative to the site directory"`
}

// app carries what the commands need once flags are parsed.
type app struct {
	stdout  io.Writer
	logger  interfaces.Logger
	factory staticcmd.ServiceFactory
}

// factory is swapped in tests.
var factory = func(logLevel, logFormat string) staticcmd.ServiceFactory {
	return sitegen.ServiceFactory(sitegen.WithLogging(logLevel, logFormat))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("sitegen"),
		kong.Description("Build a static site from TOML-fronted markdown and templates."),
		kong.Writers(stdout, stderr),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		fmt.Fprintf(stderr, "sitegen: %v\n", err)
		return 2
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "sitegen: %v\n", err)
		return 2
	}

	logger, err := cliLogger(cli)
	if err != nil {
		fmt.Fprintf(stderr, "sitegen: %v\n", err)
		return 2
	}

	if err := kctx.Run(&app{
		stdout:  stdout,
		logger:  logger,
		factory: factory(cli.LogLevel, cli.LogFormat),
	}); err != nil {
		reportError(stderr, err)
		return 1
	}
	return 0
}

// Run dispatches BuildSiteCommand.
func (c *BuildCmd) Run(ctx context.Context, a *app) error {
	var result *generator.BuildResult
	handler := staticcmd.NewBuildSiteHandler(a.factory, a.logger)
	err := handler.Execute(ctx, staticcmd.BuildSiteCommand{
		SiteDir:   c.Path,
		OutputDir: c.OutputDir,
		Local:     c.Local,
		Workers:   c.Workers,
		DryRun:    c.DryRun,
		ResultCallback: func(env staticcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	if err != nil {
		return err
	}
	reportResult(a.stdout, result)
	return nil
}

// Run dispatches CleanSiteCommand.
func (c *CleanCmd) Run(ctx context.Context, a *app) error {
	handler := staticcmd.NewCleanSiteHandler(a.factory, a.logger)
	if err := handler.Execute(ctx, staticcmd.CleanSiteCommand{
		SiteDir:   c.Path,
		OutputDir: c.OutputDir,
	}); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Cleaned %s\n", c.OutputDir)
	return nil
}

func cliLogger(cli CLI) (interfaces.Logger, error) {
	provider, err := gologger.NewProvider(gologger.Config{
		Level:  cli.LogLevel,
		Format: cli.LogFormat,
	})
	if err != nil {
		return nil, err
	}
	return logging.ModuleLogger(provider, "sitegen.cli"), nil
}

// reportError prints the categorised failure with its underlying cause, which
// carries the offending file path.
func reportError(w io.Writer, err error) {
	cause := errors.Unwrap(err)
	if cause == nil {
		cause = err
	}
	switch {
	case goerrors.IsCategory(err, goerrors.CategoryValidation):
		fmt.Fprintf(w, "sitegen: invalid input [%s]: %v\n", commands.ErrorCode(err), cause)
	default:
		fmt.Fprintf(w, "sitegen: failed [%s]: %v\n", commands.ErrorCode(err), cause)
	}
}

func reportResult(w io.Writer, result *generator.BuildResult) {
	if result == nil {
		return
	}
	verb := "Built"
	if result.DryRun {
		verb = "Rendered (dry run)"
	}
	fmt.Fprintf(w, "%s %d pages, %d taxonomy pages, %d assets and %d static files in %s\n",
		verb, result.PagesBuilt, result.TaxonomyPages, result.AssetsBuilt, result.StaticFiles, result.Duration)
	for _, stats := range result.Shortcodes {
		fmt.Fprintf(w, "  shortcode %s: %d renders, %d errors\n", stats.Name, stats.Renders, stats.Errors)
	}
}
