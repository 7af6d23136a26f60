package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-uimodel/pkg/markup"
	"github.com/goliatone/go-uimodel/pkg/model"
)

const (
	formatJSON   = "json"
	formatMarkup = "markup"
)

func parseCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse markup or a JSON/YAML model and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui, err := loadModel(cmd, args[0])
			if err != nil {
				return err
			}
			return printModel(cmd, ui, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or markup")
	return cmd
}

func loadModel(cmd *cobra.Command, path string) (*model.UIModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ui, err := rt.Load(cmd.Context(), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ui, nil
}

func printModel(cmd *cobra.Command, ui *model.UIModel, format string) error {
	var payload string
	switch format {
	case formatJSON:
		data, err := model.Encode(ui)
		if err != nil {
			return err
		}
		payload = string(data)
	case formatMarkup:
		doc, err := markup.Format(ui)
		if err != nil {
			return err
		}
		payload = doc
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), payload)
	return err
}
