package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cuekit/internal/services"
)

// readInput returns the contents of the file named by args[0], or stdin when
// no file or "-" is given. The second value names the source for logs.
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", services.Wrap(services.ErrNotFound, "cli", "read", args[0], err)
	}
	return string(data), args[0], nil
}
