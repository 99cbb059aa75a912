package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/hierq/internal/cli"
	"github.com/toyz/hierq/internal/config"
	"github.com/toyz/hierq/internal/inspect"
)

// queryFlags binds inspection options to a command's flags
type queryFlags struct {
	opts  inspect.Options
	index int
}

func (f *queryFlags) bind(cmd *cobra.Command, names ...string) {
	fs := cmd.Flags()
	for _, name := range names {
		switch name {
		case "name":
			fs.StringVar(&f.opts.Name, "name", "", "Exact member or qualified type name")
		case "pattern":
			fs.StringVar(&f.opts.Pattern, "pattern", "", "Regular expression the name must match")
		case "simple":
			fs.StringVar(&f.opts.SimpleName, "simple", "", "Simple type name")
		case "modifiers":
			fs.StringSliceVar(&f.opts.Modifiers, "modifiers", nil, "Required modifiers, e.g. public,abstract")
		case "annotation":
			fs.StringVarP(&f.opts.Annotation, "annotation", "a", "", "Required annotation; bare names use the namespace")
		case "identifier":
			fs.StringVar(&f.opts.Identifier, "identifier", "", "Method identifier, e.g. run(java.lang.String,int)")
		case "instance-of":
			fs.StringVar(&f.opts.InstanceOf, "instance-of", "", "Keep types assignable to this qualified name")
		case "scope":
			fs.StringVarP(&f.opts.Scope, "scope", "s", "", "Levels to search: self, classes, interfaces or all")
		case "recursive":
			fs.BoolVarP(&f.opts.Recursive, "recursive", "r", false, "Include inner types of inner types")
		case "exclude-self":
			fs.BoolVar(&f.opts.ExcludeSelf, "exclude-self", false, "Leave out the starting element")
		case "equivalence":
			fs.StringVar(&f.opts.Equivalence, "equivalence", "", "Override matching: identifier or override")
		case "limit":
			fs.IntVar(&f.opts.Limit, "limit", 0, "Maximum number of results")
		case "index":
			fs.IntVar(&f.index, "index", 0, "Print only the n-th result, counting from 0")
		default:
			panic("unknown query flag " + name)
		}
	}
}

// options returns the bound options; --index only applies when given
func (f *queryFlags) options(cmd *cobra.Command) inspect.Options {
	opts := f.opts
	if cmd.Flags().Changed("index") {
		index := f.index
		opts.Index = &index
	}
	return opts
}

func (a *app) printRows(cmd *cobra.Command, rows []inspect.Row) error {
	format, err := cli.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return err
	}
	return cli.NewRenderer(cmd.OutOrStdout(), format).Rows(rows)
}

// typeCommand builds a command taking one qualified type name
func typeCommand(a *app, use, short string, run func(*inspect.Inspector, string, inspect.Options) ([]inspect.Row, error), flags ...string) *cobra.Command {
	qf := &queryFlags{}
	cmd := &cobra.Command{
		Use:   use + " TYPE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.load()
			if err != nil {
				return err
			}
			rows, err := run(inspect.New(result.Index, a.cfg), args[0], qf.options(cmd))
			if err != nil {
				return err
			}
			return a.printRows(cmd, rows)
		},
	}
	qf.bind(cmd, flags...)
	return cmd
}

// selectorCommand builds a command taking one element selector
func selectorCommand(a *app, use, short string, run func(*inspect.Inspector, string, inspect.Options) ([]inspect.Row, error), flags ...string) *cobra.Command {
	cmd := typeCommand(a, use, short, run, flags...)
	cmd.Use = use + " SELECTOR"
	return cmd
}

func typesCmd(a *app) *cobra.Command {
	qf := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the types of the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.load()
			if err != nil {
				return err
			}
			rows, err := inspect.New(result.Index, a.cfg).Types(qf.options(cmd))
			if err != nil {
				return err
			}
			return a.printRows(cmd, rows)
		},
	}
	qf.bind(cmd, "pattern", "simple", "modifiers", "annotation", "instance-of", "limit", "index")
	return cmd
}

func describeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe TYPE",
		Short: "Print the description of a type, inherited from its superclasses when absent",
		Long: fmt.Sprintf(`Print the value of the type's Description annotation in the configured
namespace (default %s.Description). Superclasses are searched when the type
itself has none.`, config.Default().Namespace),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.load()
			if err != nil {
				return err
			}
			text, err := inspect.New(result.Index, a.cfg).Describe(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				a.diag.Warn("%s has no description", args[0])
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func supertypesCmd(a *app) *cobra.Command {
	return typeCommand(a, "supertypes", "List a type and its superclasses and superinterfaces in walk order",
		(*inspect.Inspector).Supertypes,
		"name", "simple", "modifiers", "scope", "exclude-self", "limit", "index")
}

func methodsCmd(a *app) *cobra.Command {
	return typeCommand(a, "methods", "List the methods of a type and, with --scope, of its ancestors",
		(*inspect.Inspector).Methods,
		"name", "pattern", "modifiers", "annotation", "identifier", "scope", "limit", "index")
}

func fieldsCmd(a *app) *cobra.Command {
	return typeCommand(a, "fields", "List the fields of a type and, with --scope, of its ancestors",
		(*inspect.Inspector).Fields,
		"name", "modifiers", "annotation", "scope", "limit", "index")
}

func innerCmd(a *app) *cobra.Command {
	return typeCommand(a, "inner", "List the inner types of a type and, with --scope, of its ancestors",
		(*inspect.Inspector).InnerTypes,
		"name", "simple", "modifiers", "instance-of", "recursive", "scope", "limit", "index")
}

func annotationsCmd(a *app) *cobra.Command {
	return selectorCommand(a, "annotations", "List the annotations of an element and, with --scope, those it inherits",
		(*inspect.Inspector).Annotations,
		"annotation", "scope", "limit", "index")
}

func overridesCmd(a *app) *cobra.Command {
	return selectorCommand(a, "overrides", "List a method and the methods it overrides, most derived first",
		(*inspect.Inspector).Overrides,
		"modifiers", "annotation", "scope", "exclude-self", "equivalence", "limit", "index")
}
