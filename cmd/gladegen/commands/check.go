package commands

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/gladegen/errors"
	"github.com/teranos/gladegen/merge"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.glade>",
		Short: "Check if the generated module is up to date",
		Long: `Check if <module>.py.orig matches what the document generates now.

The module is generated in memory and compared with the stored snapshot,
ignoring the generation timestamp. Hand edits to <module>.py do not make it
out of date. No files are written.

Exit codes:
  0 - Module is up to date
  1 - Module is out of date (diff shown) or was never generated
  2 - Usage error`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	w, err := newWriter(sessionFrom(cmd.Context()).cfg, path)
	if err != nil {
		return err
	}

	result, err := merge.Check(w)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Missing {
		return errors.WithHintf(
			errors.Newf("%s has no snapshot, it was never generated", filepath.Base(result.Output)),
			"run 'gladegen generate %s'", path)
	}

	if result.UpToDate {
		pterm.Fprintln(out, pterm.Success.Sprintf("%s is up to date", result.Output))
		if result.HandEdited {
			pterm.Fprintln(out, pterm.Info.Sprintf("%s carries hand edits", result.Output))
		}
		return nil
	}

	pterm.Fprintln(out, pterm.Warning.Sprintf("%s is out of date", result.Output))
	fmt.Fprint(out, result.Diff)
	return errors.WithHintf(
		errors.Newf("%s is out of date", filepath.Base(result.Output)),
		"run 'gladegen generate %s' to regenerate it", path)
}
