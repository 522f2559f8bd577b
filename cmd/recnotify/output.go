package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by -o.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeFormatted writes v as JSON or YAML, or calls text for plain output.
func writeFormatted(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case "", formatText:
		return text(w)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}
