package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/toyz/hierq/internal/errors"
	"github.com/toyz/hierq/internal/inspect"
)

// Format selects how rows are printed
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatNames Format = "names"
)

// ParseFormat validates an output format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatNames:
		return f, nil
	case "":
		return FormatTable, nil
	}
	return "", errors.Newf(errors.ConfigurationErrorCode, "unknown output format '%s'", name).
		WithSuggestion("use table, json, yaml or names")
}

// Renderer writes inspection rows in one format
type Renderer struct {
	format Format
	out    io.Writer
}

// NewRenderer creates a renderer
func NewRenderer(out io.Writer, format Format) *Renderer {
	return &Renderer{format: format, out: out}
}

// Rows prints rows
func (r *Renderer) Rows(rows []inspect.Row) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case FormatNames:
		for _, row := range rows {
			if _, err := fmt.Fprintln(r.out, row.Name); err != nil {
				return err
			}
		}
		return nil
	default:
		return r.table(rows)
	}
}

func (r *Renderer) table(rows []inspect.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.out, "no results")
		return err
	}

	described := false
	for _, row := range rows {
		if row.Description != "" {
			described = true
			break
		}
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	header := []string{"KIND", "NAME", "OWNER", "DETAIL"}
	if described {
		header = append(header, "DESCRIPTION")
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, row := range rows {
		cells := []string{row.Kind, row.Name, dash(row.Owner), dash(row.Detail)}
		if described {
			cells = append(cells, dash(row.Description))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
