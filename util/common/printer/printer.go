// Package printer renders command results as JSON or as a table.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// PrintOptions combines options for both JSON and table output
type PrintOptions struct {
	// Format specifies the output format ("json" or "table")
	Format string
	// Writer is the output destination (defaults to os.Stdout if nil)
	Writer io.Writer
	// JsonIndent specifies if JSON should be pretty-printed
	JsonIndent bool
	// ColumnMapping defines column ordering and display names for table format
	// Format: [["originalField", "Display Name"], ...]
	ColumnMapping ColumnMapping
}

// DefaultPrintOptions returns standard print options for format
func DefaultPrintOptions(format string) PrintOptions {
	return PrintOptions{
		Format:     format,
		Writer:     os.Stdout,
		JsonIndent: true,
	}
}

// ValidateFormat rejects formats Print cannot render.
func ValidateFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q, must be %q or %q", format, FormatTable, FormatJSON)
	}
}

// Print writes res to w in format using mapping for table columns.
func Print(w io.Writer, format string, res any, mapping ColumnMapping) error {
	options := DefaultPrintOptions(format)
	options.Writer = w
	options.ColumnMapping = mapping
	return PrintWithOptions(res, options)
}

// PrintWithOptions formats and outputs data using the provided options
func PrintWithOptions(res any, options PrintOptions) error {
	if err := ValidateFormat(options.Format); err != nil {
		return err
	}
	if options.Writer == nil {
		options.Writer = os.Stdout
	}

	if options.Format == FormatJSON {
		return writeJSON(options.Writer, res, options.JsonIndent)
	}

	return PrintTableWithOptions(res, TableOptions{
		Writer:        options.Writer,
		ColumnMapping: options.ColumnMapping,
	})
}

func writeJSON(w io.Writer, res any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
