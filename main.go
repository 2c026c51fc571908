// Command schemadelta compares relational schema snapshots and reports the
// structural changes between them.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	diffcmd "github.com/schemadelta/schemadelta/cmd/diff"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schemadelta",
		Short: "Schema snapshot diff tool",
		Long: `schemadelta computes structural differences between two versions of a
relational schema: added, removed and modified tables, columns and foreign
keys, grouped per table with aggregate change counts.`,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(diffcmd.NewDiffCommand())

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, diffcmd.ErrChangesFound) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}
