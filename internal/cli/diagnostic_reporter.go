package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/hierq/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting for failed commands
type DiagnosticReporter struct {
	verbose bool
	colors  bool
	out     io.Writer
}

// NewDiagnosticReporter creates a reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose, colors bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, colors: colors, out: out}
}

// ReportWarning prints a single warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	r.paint(color.FgYellow, color.Bold).Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError prints err with its code, location, context and suggestions. A
// MultipleErrors is reported entry by entry.
func (r *DiagnosticReporter) ReportError(err error) {
	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) && len(multi.Errors) > 1 {
		r.paint(color.FgRed, color.Bold).Fprintf(r.out, "\nERROR: %d problems\n", len(multi.Errors))
		fmt.Fprintf(r.out, "%s\n", strings.Repeat("=", 20))
		for i, e := range multi.Errors {
			fmt.Fprintf(r.out, "\n[%d/%d] ", i+1, len(multi.Errors))
			r.report(e)
		}
		fmt.Fprintln(r.out)
		return
	}
	if multi != nil && len(multi.Errors) == 1 {
		err = multi.Errors[0]
	}

	r.paint(color.FgRed, color.Bold).Fprintf(r.out, "\nERROR: ")
	r.report(err)
	fmt.Fprintln(r.out)
}

func (r *DiagnosticReporter) report(err error) {
	var base *errors.BaseError
	if !stderrors.As(err, &base) {
		fmt.Fprintf(r.out, "%s\n", err.Error())
		return
	}

	title := codeTitle(base.Code)
	fmt.Fprintf(r.out, "%s\n%s\n", title, strings.Repeat("-", len(title)))
	fmt.Fprintf(r.out, "Message: %s\n", base.Message)
	if base.Cause != nil {
		fmt.Fprintf(r.out, "Cause: %s\n", rootCause(base.Cause))
	}
	if !base.Loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n", base.Loc.String())
	}
	if len(base.ContextData) > 0 {
		r.printContext(base.ContextData)
	}
	if hints := suggestions(err); len(hints) > 0 {
		r.printSuggestions(hints)
	}
	if r.verbose {
		r.printErrorChain(err)
	}
}

// printContext prints context information; well-known keys come first
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	importantKeys := []string{"name", "selector", "type", "kind", "operation", "path"}
	printed := make(map[string]bool)
	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), value)
			printed[key] = true
		}
	}

	rest := make([]string, 0, len(context))
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}
}

func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintf(r.out, "Error Chain:\n")
	level := 1
	for err != nil {
		fmt.Fprintf(r.out, "   %d. %s\n", level, err.Error())
		err = stderrors.Unwrap(err)
		level++
	}
}

func (r *DiagnosticReporter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.colors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// codeTitle turns LoadError into "Load Error"
func codeTitle(code errors.ErrorCode) string {
	name := code.String()
	var b strings.Builder
	for i, c := range name {
		if i > 0 && c >= 'A' && c <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// suggestions collects the hints of every error in the chain, outermost first
func suggestions(err error) []string {
	var hints []string
	for ; err != nil; err = stderrors.Unwrap(err) {
		if base, ok := err.(*errors.BaseError); ok {
			hints = append(hints, base.Hints...)
		}
	}
	return hints
}

func rootCause(err error) string {
	for {
		next := stderrors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
