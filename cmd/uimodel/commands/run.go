package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-uimodel/pkg/inspector"
)

// run: dispatch events in order, then print the data model.
func runCmd() *cobra.Command {
	var (
		flags  instanceFlags
		events []string
		params map[string]string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Instantiate a model, dispatch events and print the data model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			engine, err := flags.start(cmd, out)
			if err != nil {
				return err
			}
			defer engine.Teardown()

			values := make(map[string]any, len(params))
			for key, value := range params {
				values[key] = inspector.ParseValue(value)
			}
			for _, event := range events {
				task := engine.Dispatch(cmd.Context(), event, values)
				if _, err := task.Wait(); err != nil {
					return err
				}
				if !task.Handled() {
					logger.Warn("event has no handler", "event", event)
				}
			}

			data, err := json.MarshalIndent(engine.DataModel(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringArrayVar(&events, "event", nil, "event to dispatch; repeat for several, in order")
	cmd.Flags().StringToStringVar(&params, "param", nil, "parameter passed with every event")
	return cmd
}
