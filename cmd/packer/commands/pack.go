package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/packer/internal/engine/scheduler"
	"go.trai.ch/packer/internal/ui/output"
	"go.trai.ch/packer/internal/ui/style"
)

func (c *CLI) newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack [bundles...]",
		Short: "Write the artifacts of the given bundles, or of all bundles",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options(cmd)
			if err != nil {
				return err
			}

			results, err := c.app.Pack(cmd.Context(), args, opts)
			printResults(cmd.OutOrStdout(), results)
			return err
		},
	}
}

// printResults writes one line per bundle: status icon, name and artifact path.
func printResults(w io.Writer, results []scheduler.Result) {
	out := output.New(w)

	width := 0
	for _, res := range results {
		width = max(width, len(res.Name))
	}

	for _, res := range results {
		failed := res.Err != nil
		icon, color := style.StatusIcon(res.Artifact.Cached, failed)
		mark := out.String(icon).Foreground(out.Color(string(color)))

		if failed {
			_, _ = fmt.Fprintf(w, "%s %s\n", mark, res.Name)
			continue
		}

		path := out.String(displayPath(res.Artifact.Path)).Foreground(out.Color(string(style.Slate)))
		_, _ = fmt.Fprintf(w, "%s %-*s  %s\n", mark, width, res.Name, path)
	}
}

// displayPath shortens path relative to the working directory when it lies below it.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
