package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-uimodel/pkg/inspector"
	"github.com/goliatone/go-uimodel/pkg/model"
)

func componentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List registered component types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tCATEGORY\tDESCRIPTION")
			for _, descriptor := range rt.Registry().List() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", descriptor.Key(), descriptor.Category, descriptor.Description)
			}
			return w.Flush()
		},
	}
}

// props <type>: the property sheet of the component's default model.
func propsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "props <type>",
		Short: "Show the properties a component type understands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptor, err := rt.Registry().Resolve(args[0])
			if err != nil {
				return err
			}
			node := descriptor.DefaultModel
			if node == nil {
				node = model.New(descriptor.Key())
			}
			sheet, err := inspector.Inspect(rt.Registry(), node)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", sheet.Label, sheet.Type)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, group := range sheet.Groups {
				fmt.Fprintf(w, "\n[%s]\n", group.Category)
				for _, prop := range group.Properties {
					fmt.Fprintf(w, "  %s\t%s\t%s\n", prop.Name, prop.Label, prop.Text)
				}
			}
			return w.Flush()
		},
	}
}
