package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/gladegen/errors"
	"github.com/teranos/gladegen/glade"
)

func newInspectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <file.glade>",
		Short: "Show the classes and handlers a document would generate",
		Long: `Parse a Glade document and list, per top-level widget, the class,
instance name, signal handler stubs and creation functions that
'gladegen generate' would write. No files are written.

Examples:
  gladegen inspect ui/main_window.glade
  gladegen inspect -o yaml ui/main_window.glade`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := glade.ParseFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				data, err := yaml.Marshal(doc.Summary())
				if err != nil {
					return errors.Wrap(err, "failed to marshal summary to YAML")
				}
				_, err = out.Write(data)
				return err
			case "text":
				return renderSummary(out, doc)
			default:
				return errors.MarkUsage(errors.Newf("unsupported format: %s (supported: text, yaml)", format))
			}
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format: text, yaml")
	return cmd
}

func renderSummary(w io.Writer, doc *glade.Document) error {
	data := pterm.TableData{{"Widget", "Class", "Instance", "Callbacks", "Creation functions"}}
	for _, s := range doc.Summary() {
		data = append(data, []string{
			s.ID,
			s.Class,
			s.Instance,
			strings.Join(s.Callbacks, ", "),
			strings.Join(s.Creations, ", "),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(w, table)

	callbacks := doc.Count(glade.FragmentCallback)
	creations := doc.Count(glade.FragmentCreation)
	fmt.Fprintf(w, "%d %s, %d %s, %d creation %s\n",
		len(doc.Roots), plural(len(doc.Roots), "window"),
		callbacks, plural(callbacks, "callback"),
		creations, plural(creations, "function"))
	return nil
}
