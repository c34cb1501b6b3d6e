// Package output renders command results as YAML or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format defines the output format for CLI commands.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// current is set by the root command's --output flag.
var current = YAML

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case YAML, JSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// SetFormat sets the process-wide output format.
func SetFormat(f Format) {
	current = f
}

// Current returns the process-wide output format.
func Current() Format {
	return current
}

// Print writes data to stdout in the configured format.
func Print(data any) error {
	return Write(os.Stdout, current, data)
}

// Write writes data to w in the given format.
func Write(w io.Writer, f Format, data any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format: %s", f)
	}
}
