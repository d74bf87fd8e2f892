package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/gladegen/codegen"
	"github.com/teranos/gladegen/config"
	"github.com/teranos/gladegen/errors"
	"github.com/teranos/gladegen/merge"
	"github.com/teranos/gladegen/watch"
)

func newGenerateCmd() *cobra.Command {
	var watchDocument bool

	cmd := &cobra.Command{
		Use:   "generate [flags] <file.glade>",
		Short: "Generate or regenerate the Python module for a Glade document",
		Long: `Generate <module>.py next to the document, carrying over hand edits
made since the last run, and write the SimpleGladeApp.py support module
when it is missing or older than gladegen itself.

If <module>.py exists without <module>.py.orig, nothing is regenerated: the
module is backed up to <module>.py.bak and you are asked to remove it.

Examples:
  gladegen generate ui/main_window.glade
  gladegen generate --charset iso-8859-1 --license COPYING ui/main.glade
  gladegen generate --watch ui/main_window.glade`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchDocument {
				return runWatch(cmd, args[0])
			}
			return runGenerate(cmd, args[0])
		},
	}

	cmd.Flags().BoolVarP(&watchDocument, "watch", "w", false, "Regenerate whenever the document changes")
	return cmd
}

func runGenerate(cmd *cobra.Command, path string) error {
	return generate(cmd.Context(), sessionFrom(cmd.Context()).cfg, path, cmd.OutOrStdout())
}

// generate performs one regeneration of path and reports it on out
func generate(ctx context.Context, cfg *config.Config, path string, out io.Writer) error {
	w, err := newWriter(cfg, path)
	if err != nil {
		return err
	}
	driver, err := merge.NewDriver(w, merge.Options{
		DiffCommand:  cfg.Merge.DiffCommand,
		PatchCommand: cfg.Merge.PatchCommand,
		Helper:       cfg.Merge.Helper,
	})
	if err != nil {
		return err
	}

	result, err := driver.Run(ctx)
	if err != nil {
		return err
	}

	switch {
	case result.FirstRun:
		pterm.Fprintln(out, pterm.Success.Sprintf("Wrote %s (%d %s)", result.Output, result.Roots, plural(result.Roots, "window")))
	case result.Patched:
		pterm.Fprintln(out, pterm.Success.Sprintf("Regenerated %s, hand edits kept", result.Output))
	default:
		pterm.Fprintln(out, pterm.Success.Sprintf("Regenerated %s", result.Output))
	}
	if result.Helper != "" {
		pterm.Fprintln(out, pterm.Info.Sprintf("Wrote support module %s", result.Helper))
	}
	return nil
}

// newWriter reads the license and builds a code writer for path.
// Nothing is written yet, so every option error aborts cleanly.
func newWriter(cfg *config.Config, path string) (*codegen.Writer, error) {
	license, err := codegen.ReadLicense(cfg.Generate.License, cfg.Generate.Charset)
	if err != nil {
		return nil, err
	}
	return codegen.NewWriter(path, codegen.Options{
		Charset:     cfg.Generate.Charset,
		Copyright:   cfg.Generate.Copyright,
		License:     license,
		Threads:     cfg.Generate.Threads,
		Interpreter: cfg.Generate.Interpreter,
		Indent:      cfg.Generate.Indent,
	})
}

// runWatch regenerates once, then again after every change to the document
// until interrupted.
func runWatch(cmd *cobra.Command, path string) error {
	cfg := sessionFrom(cmd.Context()).cfg
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	regenerate := func(ctx context.Context) error {
		err := generate(ctx, cfg, path, cmd.OutOrStdout())
		if err != nil {
			PrintError(cmd.ErrOrStderr(), err)
		}
		return err
	}

	// A document mid-edit may be malformed or briefly missing; the other
	// failures will not fix themselves
	if err := generate(ctx, cfg, path, cmd.OutOrStdout()); err != nil {
		if errors.IsUsage(err) || errors.IsMissingTool(err) || errors.IsUnsafeState(err) {
			return err
		}
		PrintError(cmd.ErrOrStderr(), err)
	}

	w, err := watch.New(path, time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, regenerate)
	if err != nil {
		return err
	}
	pterm.Fprintln(cmd.OutOrStdout(), pterm.Info.Sprintf("Watching %s (Ctrl-C to stop)", path))
	return w.Run(ctx)
}
