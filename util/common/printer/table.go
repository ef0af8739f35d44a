package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pterm/pterm"
)

// ColumnMapping defines a mapping between original field names and display names
type ColumnMapping [][]string

// TableOptions provides configuration for table output
type TableOptions struct {
	// Writer is the output destination (defaults to os.Stdout if nil)
	Writer io.Writer
	// ColumnMapping defines custom column ordering and display names
	ColumnMapping ColumnMapping
}

// PrintTableWithOptions prints res, a slice of structs or maps, as a table.
// Rows are taken from the JSON form of res so column names match the json
// output.
func PrintTableWithOptions(res any, options TableOptions) error {
	writer := options.Writer
	if writer == nil {
		writer = os.Stdout
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	data, err := tableData(raw, options.ColumnMapping)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	out, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed(true).
		WithData(data).
		Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	_, err = fmt.Fprintln(writer, out)
	return err
}

func tableData(raw []byte, mapping ColumnMapping) (pterm.TableData, error) {
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var header, fields []string
	if len(mapping) > 0 {
		for _, m := range mapping {
			if len(m) >= 2 {
				fields = append(fields, m[0])
				header = append(header, m[1])
			}
		}
	} else {
		// Fall back to alphabetical order
		for k := range rows[0] {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		header = fields
	}

	table := pterm.TableData{header}
	for _, r := range rows {
		row := make([]string, len(fields))
		for i, field := range fields {
			val, ok := r[field]
			if !ok || val == nil {
				row[i] = "-"
				continue
			}
			row[i] = fmt.Sprint(val)
		}
		table = append(table, row)
	}
	return table, nil
}
