package commands

import (
	"github.com/spf13/cobra"

	"keyfob/internal/domain"
)

func setupCmd() *cobra.Command {
	var generate bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Bind the git identity and editor, optionally generating keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			op := domain.OpSetup
			if generate {
				op = domain.OpSetupGenerate
			}
			return dispatch(cmd.Context(), op)
		},
	}
	cmd.Flags().BoolVar(&generate, "generate", false, "generate missing ssh and gpg keys")
	return cmd
}
