// Package main provides the hierq binary entry point.
// hierq loads YAML type models and answers hierarchy questions about them:
// supertypes, inherited members, override chains and inherited annotations.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/toyz/hierq/internal/cli"
	"github.com/toyz/hierq/internal/config"
	"github.com/toyz/hierq/internal/loader"
	"github.com/toyz/hierq/internal/utils"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "hierq"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit code
func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := rootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		a.reporter().ReportError(err)
		return 1
	}
	return 0
}

// app carries the global flags and the state built from them
type app struct {
	stdout, stderr io.Writer

	configPath string
	models     []string
	namespace  string
	format     string
	color      string
	strict     bool
	verbose    bool
	quiet      bool
	debug      bool

	cfg  *config.Config
	diag *utils.DiagnosticSystem
}

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Query type hierarchies described in YAML models",
		Long: `hierq loads type models from YAML documents and answers questions about
their inheritance hierarchies:

- the supertypes of a type, in walk order
- the methods, fields and inner types declared anywhere in a hierarchy
- the chain of methods a method overrides
- the annotations an element inherits from its ancestors

Elements are addressed with selectors:

  com.acme.Base                      a type
  com.acme.Base#name                 a field
  com.acme.Base#run(String,int)      a method
  com.acme.Base#run(String,int)@1    a method parameter`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file path (default: ./"+config.DefaultFile+" when present)")
	flags.StringSliceVarP(&a.models, "model", "m", nil, "Model documents, directories, dir/... or glob patterns")
	flags.StringVar(&a.namespace, "namespace", "", "Namespace for bare annotation names")
	flags.StringVarP(&a.format, "output", "o", "", "Output format (table, json, yaml, names)")
	flags.StringVar(&a.color, "color", "", "Colored output (auto, always, never)")
	flags.BoolVar(&a.strict, "strict", false, "Fail on references to undeclared types")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output and detailed error reporting")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Only show errors and results")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug output")

	cmd.AddCommand(
		typesCmd(a),
		describeCmd(a),
		supertypesCmd(a),
		methodsCmd(a),
		fieldsCmd(a),
		innerCmd(a),
		annotationsCmd(a),
		overridesCmd(a),
		serveCmd(a),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// setup loads the configuration and lets command line flags override it
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if len(a.models) > 0 {
		cfg.Models = a.models
	}
	if a.namespace != "" {
		cfg.Namespace = a.namespace
	}
	if a.format != "" {
		cfg.Output.Format = a.format
	}
	if a.color != "" {
		cfg.Output.Color = a.color
	}
	if a.strict {
		cfg.Loader.Strict = true
	}
	switch {
	case a.debug:
		cfg.Output.Level = utils.DiagnosticDebug.String()
	case a.verbose:
		cfg.Output.Level = utils.DiagnosticVerbose.String()
	case a.quiet:
		cfg.Output.Level = utils.DiagnosticError.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.diag = cfg.Diagnostics()
	// results own stdout
	a.diag.SetOutput(a.stderr, a.stderr)
	return nil
}

func (a *app) reporter() *cli.DiagnosticReporter {
	colors := false
	if a.diag != nil {
		colors = a.diag.Colors()
	}
	return cli.NewDiagnosticReporter(a.stderr, a.verbose || a.debug, colors)
}

func (a *app) loaderOptions() loader.Options {
	return loader.Options{Strict: a.cfg.Loader.Strict, Diagnostics: a.diag}
}

// load reads the configured models
func (a *app) load() (*loader.Result, error) {
	if err := a.cfg.RequireModels(); err != nil {
		return nil, err
	}
	result, err := loader.Load(a.cfg.Models, a.loaderOptions())
	if err != nil {
		return nil, err
	}
	a.summarize(result)
	return result, nil
}

func (a *app) summarize(result *loader.Result) {
	a.diag.Verbose("loaded %s types from %s documents (%s)",
		humanize.Comma(int64(result.Index.Len())),
		humanize.Comma(int64(len(result.Files))),
		humanize.Bytes(uint64(result.Bytes)))
	if len(result.Placeholders) > 0 {
		a.diag.Verbose("%s undeclared supertypes replaced by placeholders", humanize.Comma(int64(len(result.Placeholders))))
	}
}
