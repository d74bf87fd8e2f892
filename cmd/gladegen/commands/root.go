// Package commands implements the gladegen command line.
package commands

import (
	"context"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teranos/gladegen/config"
	"github.com/teranos/gladegen/errors"
	"github.com/teranos/gladegen/logger"
)

// sessionKey stores the loaded configuration in the command context
type sessionKey struct{}

type session struct {
	cfg *config.Config
	v   *viper.Viper
}

// Persistent flags that override configuration keys
var flagKeys = []struct {
	flag string
	key  string
}{
	{"charset", "generate.charset"},
	{"copyright", "generate.copyright"},
	{"license", "generate.license"},
	{"threads", "generate.threads"},
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "gladegen [flags] <file.glade>",
		Short: "Generate PyGTK application skeletons from Glade interface files",
		Long: `gladegen turns a Glade-2 interface description into a runnable Python
module: one class per top-level widget, one stub per signal handler and a
main() that instantiates every window.

The module is written next to the document. Regenerating after editing the
interface keeps the code you added to the module: the previous generator
output is stored as <module>.py.orig and your changes are reapplied onto the
new output with diff and patch.

Examples:
  gladegen ui/main_window.glade             # same as 'gladegen generate'
  gladegen generate --watch ui/main.glade   # regenerate on every save
  gladegen check ui/main_window.glade       # exit 1 if the module is stale
  gladegen inspect -o yaml ui/main.glade    # show what would be generated
  gladegen config show --sources            # show effective configuration`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.MarkUsage(errors.WithHintf(
					errors.New("no Glade document given"),
					"usage: %s", cmd.UseLine()))
			}
			return runGenerate(cmd, args[0])
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.MarkUsage(errors.WithHintf(err, "see '%s --help'", cmd.CommandPath()))
	})

	pf := rootCmd.PersistentFlags()
	pf.String("charset", "", "Output encoding and coding line (default: locale codeset, else utf-8)")
	pf.String("copyright", "", `Copyright line (default: "Copyright (C) <year>")`)
	pf.String("license", "", "License text file to include as comments")
	pf.Bool("threads", false, "Initialize GDK threads before entering the main loop")
	pf.StringVar(&cfgFile, "config", "", "Config file (overrides system, user and project files)")
	pf.CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	pf.Bool("log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the command line and returns the process exit status.
func Execute() int {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err != nil {
		logger.Debugw("Command failed", logger.FieldErrorKind, errors.Kind(err), logger.FieldError, err)
		PrintError(rootCmd.ErrOrStderr(), err)
	}
	logger.Cleanup()
	return errors.ExitCode(err)
}

// setup initializes logging and loads configuration before any command runs.
// Configuration errors surface here, before any file is touched.
func setup(cmd *cobra.Command, cfgFile string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	jsonLogs, _ := cmd.Flags().GetBool("log-json")
	if err := logger.Initialize(jsonLogs, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	if os.Getenv("NO_COLOR") != "" {
		pterm.DisableColor()
	}

	// Skip config loading for commands that don't need it
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return nil
	}

	config.Reset()
	v := config.GetViper()

	if cfgFile != "" {
		if err := config.MergeFile(v, cfgFile, config.SourceExplicit); err != nil {
			return err
		}
	}

	for _, f := range flagKeys {
		if err := config.BindFlag(v, f.key, cmd.Flags().Lookup(f.flag)); err != nil {
			return errors.MarkUsage(errors.Wrapf(err, "failed to bind --%s", f.flag))
		}
	}

	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Debugw("Loaded configuration",
		"log_level", logger.LevelName(verbosity),
		logger.FieldCharset, cfg.Generate.Charset,
		"config", cfgFile)

	cmd.SetContext(context.WithValue(cmd.Context(), sessionKey{}, &session{cfg: cfg, v: v}))
	return nil
}

// sessionFrom retrieves the loaded configuration, falling back to defaults.
func sessionFrom(ctx context.Context) *session {
	if s, ok := ctx.Value(sessionKey{}).(*session); ok {
		return s
	}
	return &session{cfg: config.Defaults(), v: config.GetViper()}
}

// usageArgs classifies argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return errors.MarkUsage(errors.WithHintf(err, "usage: %s", cmd.UseLine()))
		}
		return nil
	}
}

// PrintError writes err with its details and hints for the user.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	pterm.Fprintln(w, pterm.Error.Sprint(err.Error()))
	for _, detail := range errors.GetAllDetails(err) {
		pterm.Fprintln(w, pterm.Gray(detail))
	}
	for _, hint := range errors.GetAllHints(err) {
		pterm.Fprintln(w, pterm.Info.Sprint(hint))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
