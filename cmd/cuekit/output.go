package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutputFormat(value string) error {
	switch value {
	case "", outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("invalid --output %q (want %s, %s or %s)", value, outputText, outputJSON, outputYAML)
	}
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML encodes v as YAML. Values go through JSON first so field names
// follow the json tags.
func writeYAML(cmd *cobra.Command, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// writeResult prints v in the selected structured format, or calls text for
// the default human output.
func (c *commandContext) writeResult(cmd *cobra.Command, v any, text func(io.Writer) error) error {
	switch c.outputFormat() {
	case outputJSON:
		return writeJSON(cmd, v)
	case outputYAML:
		return writeYAML(cmd, v)
	default:
		return text(cmd.OutOrStdout())
	}
}
