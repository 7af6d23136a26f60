package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-uimodel/pkg/scaffold"
)

func scaffoldCmd() *cobra.Command {
	var (
		source    string
		operation string
		format    string
		dataOut   string
		submit    string
		list      bool
	)
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Build a default form from an OpenAPI operation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []scaffold.Option{
				scaffold.WithLogger(logger),
				scaffold.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}),
			}
			if submit != "" {
				opts = append(opts, scaffold.WithSubmitLabel(submit))
			}
			builder := scaffold.New(opts...)

			raw, err := builder.Load(cmd.Context(), source)
			if err != nil {
				return err
			}

			if list {
				ops, err := builder.Operations(cmd.Context(), raw)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "OPERATION\tMETHOD\tPATH\tFORM")
				for _, op := range ops {
					form := "-"
					if op.HasRequest {
						form = "yes"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", op.ID, op.Method, op.Path, form)
				}
				return w.Flush()
			}

			if operation == "" {
				return fmt.Errorf("--operation is required unless --list is set")
			}
			result, err := builder.Build(cmd.Context(), raw, operation)
			if err != nil {
				return err
			}
			if err := rt.Registry().Validate(result.UIModel); err != nil {
				return err
			}
			if dataOut != "" {
				data, err := json.MarshalIndent(result.DataModel, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(dataOut, append(data, '\n'), 0o644); err != nil {
					return err
				}
				logger.Info("data model written", "path", dataOut)
			}
			return printModel(cmd, result.UIModel, format)
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "OpenAPI document path or URL")
	cmd.Flags().StringVar(&operation, "operation", "", "operation id to scaffold")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or markup")
	cmd.Flags().StringVar(&dataOut, "data-out", "", "write the default data model to this file")
	cmd.Flags().StringVar(&submit, "submit-label", "", "label of the submit button")
	cmd.Flags().BoolVar(&list, "list", false, "list operations instead of building a form")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
