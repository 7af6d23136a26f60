package commands

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-uimodel/internal/prompt"
)

func playCmd() *cobra.Command {
	var flags instanceFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Edit bound values and fire events interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			engine, err := flags.start(cmd, out)
			if err != nil {
				return err
			}
			defer engine.Teardown()

			session := prompt.NewSession(prompt.NewSurveyDriver(out), engine)
			return session.Run(cmd.Context())
		},
	}
	flags.register(cmd)
	return cmd
}
