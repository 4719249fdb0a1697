package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlscript/pkg/core"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	FormatAuto  = "auto"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatAuto, FormatTable, FormatJSON, FormatYAML, FormatCSV}

// ResolveFormat turns "auto" into table for terminals and json otherwise.
func ResolveFormat(format string, w io.Writer) (string, error) {
	switch format {
	case "", FormatAuto:
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return FormatTable, nil
		}
		return FormatJSON, nil
	case FormatTable, FormatJSON, FormatYAML, FormatCSV:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}

// fileResult is the serialized form of one executed file.
type fileResult struct {
	File    string         `json:"file" yaml:"file"`
	Results []resultOutput `json:"results" yaml:"results"`
}

type resultOutput struct {
	Command      string       `json:"command,omitempty" yaml:"command,omitempty"`
	RowsAffected int64        `json:"rows_affected" yaml:"rows_affected"`
	Fields       []core.Field `json:"fields" yaml:"fields"`
	Rows         []*core.Row  `json:"rows" yaml:"-"`
	RowNodes     []*yaml.Node `json:"-" yaml:"rows"`
}

func toOutput(path string, res core.ScriptResult) fileResult {
	out := fileResult{File: path, Results: make([]resultOutput, 0, len(res))}
	for _, r := range res {
		rows := r.Rows
		if rows == nil {
			rows = []*core.Row{}
		}
		out.Results = append(out.Results, resultOutput{
			Command:      r.Command,
			RowsAffected: r.RowsAffected,
			Fields:       r.Fields,
			Rows:         rows,
		})
	}
	return out
}

// renderResults writes the results of one file in the given format.
func renderResults(w io.Writer, format, path string, res core.ScriptResult) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, path, res)
	case FormatYAML:
		return renderYAML(w, path, res)
	case FormatCSV:
		return renderCSV(w, res)
	default:
		return renderTable(w, path, res)
	}
}

func renderTable(w io.Writer, path string, res core.ScriptResult) error {
	_, _ = fmt.Fprintf(w, "-- %s\n", path)
	if len(res) == 0 {
		_, _ = fmt.Fprintln(w, "(no results)")
		return nil
	}

	for i, r := range res {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		if len(r.Fields) == 0 {
			_, _ = fmt.Fprintf(w, "%s (%d rows affected)\n", commandOrDefault(r.Command), r.RowsAffected)
			continue
		}

		cols := columnNames(r)

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)

		headerRow := make(table.Row, len(cols))
		for j, c := range cols {
			headerRow[j] = c
		}
		t.AppendHeader(headerRow)

		for _, row := range r.Rows {
			out := make(table.Row, len(cols))
			for j, c := range cols {
				out[j] = formatValue(row.Value(c))
			}
			t.AppendRow(out)
		}

		t.Render()
		_, _ = fmt.Fprintf(w, "(%d rows)\n", len(r.Rows))
	}
	return nil
}

// columnNames prefers the keys of the first row, which reflect recasing,
// over the field names reported by the engine.
func columnNames(r *core.QueryResult) []string {
	if len(r.Rows) > 0 && r.Rows[0] != nil {
		return r.Rows[0].Keys()
	}
	return r.FieldNames()
}

func renderJSON(w io.Writer, path string, res core.ScriptResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toOutput(path, res))
}

func renderYAML(w io.Writer, path string, res core.ScriptResult) error {
	out := toOutput(path, res)
	for i := range out.Results {
		nodes := make([]*yaml.Node, 0, len(out.Results[i].Rows))
		for _, row := range out.Results[i].Rows {
			n, err := rowNode(row)
			if err != nil {
				return err
			}
			nodes = append(nodes, n)
		}
		out.Results[i].RowNodes = nodes
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

// rowNode builds a mapping node so YAML output keeps column order.
func rowNode(row *core.Row) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range row.All() {
		var val yaml.Node
		if err := val.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode column %q: %w", k, err)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &val)
	}
	return n, nil
}

func renderCSV(w io.Writer, res core.ScriptResult) error {
	cw := csv.NewWriter(w)
	written := 0
	for _, r := range res {
		if len(r.Fields) == 0 {
			continue
		}
		if written > 0 {
			cw.Flush()
			_, _ = fmt.Fprintln(w)
		}
		written++

		cols := columnNames(r)
		if err := cw.Write(cols); err != nil {
			return err
		}
		for _, row := range r.Rows {
			record := make([]string, len(cols))
			for j, c := range cols {
				record[j] = formatValue(row.Value(c))
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

func commandOrDefault(cmd string) string {
	if cmd == "" {
		return "OK"
	}
	return cmd
}
