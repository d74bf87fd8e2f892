package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/gladegen/config"
	"github.com/teranos/gladegen/errors"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize gladegen configuration",
		Long: `Display and manage gladegen configuration.

Configuration sources (later overrides earlier):
  1. [DEFAULT]     Built-in defaults
  2. [SYSTEM]      /etc/gladegen/config.toml
  3. [USER]        ~/.gladegen/config.toml
  4. [PROJECT]     ./gladegen.toml (searches up directories)
  5. [EXPLICIT]    --config FILE
  6. [ENV]         GLADEGEN_* environment variables
  7. [FLAG]        --charset, --copyright, --license, --threads

Examples:
  gladegen config show                # Show effective configuration
  gladegen config show --sources      # Show where each setting came from
  gladegen config init                # Write a starter ./gladegen.toml`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var sources bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd.Context())
			out := cmd.OutOrStdout()

			if !sources {
				data, err := config.Encode(s.cfg)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "# gladegen configuration\n%s", data)
				return nil
			}

			data := pterm.TableData{{"Key", "Value", "Source", "From"}}
			for _, setting := range config.Introspect(s.v) {
				valueStr := fmt.Sprintf("%v", setting.Value)
				// Truncate long values
				if len(valueStr) > 50 {
					valueStr = valueStr[:47] + "..."
				}
				data = append(data, []string{setting.Key, valueStr, string(setting.Source), setting.SourcePath})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Wrap(err, "failed to render table")
			}
			fmt.Fprintln(out, table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&sources, "sources", false, "Show which layer supplied each setting")
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter gladegen.toml in the current directory",
		Long: `Write a gladegen.toml holding the default settings to the current
directory. An existing file is only replaced with --force; the previous
versions are kept as gladegen.toml.back1 to .back3.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return errors.MarkIO(errors.Wrap(err, "failed to determine working directory"))
			}

			path, err := config.WriteStarter(dir, config.Defaults(), force)
			if err != nil {
				return err
			}
			pterm.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprintf("Wrote %s", path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing gladegen.toml")
	return cmd
}
