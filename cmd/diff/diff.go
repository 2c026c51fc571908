// Package diff implements the "schemadelta diff" command: load two schema
// snapshot files, run the diff calculator, and print the grouped changes.
package diff

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/schemadelta/schemadelta/config"
	schemadiff "github.com/schemadelta/schemadelta/diff"
	difftypes "github.com/schemadelta/schemadelta/diff/types"
	"github.com/schemadelta/schemadelta/snapshot"
)

// ErrChangesFound signals that the diff completed and found changes. The main
// entrypoint maps it to exit code 1, following diff-tool convention.
var ErrChangesFound = errors.New("schema changes found")

const (
	formatFlag        = "format"
	summaryOnlyFlag   = "summary-only"
	ignoreSchemasFlag = "ignore-schemas"
)

var diffFlags = map[string]cobraflags.Flag{
	formatFlag: &cobraflags.StringFlag{
		Name:  formatFlag,
		Value: "text",
		Usage: "Output format (text, json)",
	},
	summaryOnlyFlag: &cobraflags.BoolFlag{
		Name:  summaryOnlyFlag,
		Value: false,
		Usage: "Print only the change counts, not the individual changes",
	},
	ignoreSchemasFlag: &cobraflags.StringFlag{
		Name:  ignoreSchemasFlag,
		Value: "",
		Usage: "Comma-separated schema namespaces to exclude from comparison (default: sys, INFORMATION_SCHEMA)",
	},
}

// NewDiffCommand creates the diff subcommand.
func NewDiffCommand() *cobra.Command {
	diffCmd := &cobra.Command{
		Use:   "diff <original> <current>",
		Short: "Compare two schema snapshot files",
		Long: `Compare two schema snapshot files and print the structural differences.

Snapshots are JSON or YAML files describing tables, columns and foreign keys
with stable entity ids. Entities are matched by id, so renames are reported as
modifications rather than remove/add pairs.

Exit codes:
  0 - snapshots are identical
  1 - changes were found
  2 - an error occurred

Examples:
  schemadelta diff baseline.json working.json
  schemadelta diff baseline.yaml working.yaml --format json
  schemadelta diff baseline.json working.json --summary-only`,
		Args: cobra.ExactArgs(2),
		RunE: diffCommand,
	}

	cobraflags.RegisterMap(diffCmd, diffFlags)
	return diffCmd
}

func diffCommand(cmd *cobra.Command, args []string) error {
	format := diffFlags[formatFlag].GetString()
	summaryOnly := diffFlags[summaryOnlyFlag].GetBool()
	ignoreSchemas := diffFlags[ignoreSchemasFlag].GetString()

	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (use text or json)", format)
	}

	original, err := snapshot.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading original snapshot: %w", err)
	}
	current, err := snapshot.Load(args[1])
	if err != nil {
		return fmt.Errorf("loading current snapshot: %w", err)
	}

	opts := config.DefaultCompareOptions()
	if ignoreSchemas != "" {
		var namespaces []string
		for _, ns := range strings.Split(ignoreSchemas, ",") {
			if trimmed := strings.TrimSpace(ns); trimmed != "" {
				namespaces = append(namespaces, trimmed)
			}
		}
		opts = config.WithIgnoredSchemas(namespaces...)
	}

	result := schemadiff.CalculateWithOptions(original, current, opts)

	cmd.SilenceUsage = true

	if format == "json" {
		if err := printJSON(cmd, result, summaryOnly); err != nil {
			return err
		}
	} else {
		printText(cmd, result, summaryOnly)
	}

	if result.HasChanges {
		return ErrChangesFound
	}
	return nil
}

func printJSON(cmd *cobra.Command, result *difftypes.DiffResult, summaryOnly bool) error {
	var payload any = result
	if summaryOnly {
		payload = result.Summary
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printText(cmd *cobra.Command, result *difftypes.DiffResult, summaryOnly bool) {
	if !result.HasChanges {
		cmd.Println("No schema changes found.")
		return
	}

	if !summaryOnly {
		bold := color.New(color.Bold)
		for _, group := range result.ChangeGroups {
			cmd.Printf("%s (%s)\n", bold.Sprint(group.TableName), group.AggregateState)
			for _, change := range group.Changes {
				cmd.Printf("  %s %s %s%s\n",
					marker(change.ChangeType),
					change.EntityType,
					change.EntityName,
					formatDetails(change.Details))
			}
			cmd.Println()
		}
	}

	s := result.Summary
	cmd.Printf("%d change(s): %d added, %d modified, %d removed\n",
		s.Total,
		s.CountOf(difftypes.Addition),
		s.CountOf(difftypes.Modification),
		s.CountOf(difftypes.Deletion))
}

func marker(ct difftypes.ChangeType) string {
	switch ct {
	case difftypes.Addition:
		return color.GreenString("+")
	case difftypes.Deletion:
		return color.RedString("-")
	default:
		return color.YellowString("~")
	}
}

func formatDetails(details map[string]string) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for key := range details {
		keys = append(keys, key)
	}
	// Sort for consistent output
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, details[key]))
	}
	return " [" + strings.Join(parts, "; ") + "]"
}
