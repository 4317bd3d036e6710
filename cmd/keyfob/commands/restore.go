package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"keyfob/internal/domain"
	"keyfob/internal/services/restore"
)

func restoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Import key material from a backup",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ssh",
			Short: "Restore the SSH pair from storage or a backup repository",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return dispatch(cmd.Context(), domain.OpRestoreSSH)
			},
		},
		&cobra.Command{
			Use:   "gpg",
			Short: "Restore the GPG key and bind it for signing",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return dispatch(cmd.Context(), domain.OpRestoreGPG)
			},
		},
		&cobra.Command{
			Use:   "remote",
			Short: "Restore both kinds straight from a backup repository",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return dispatch(cmd.Context(), domain.OpRestoreRemote)
			},
		},
	)
	return cmd
}

func runRestore(ctx context.Context, req restore.Request) error {
	res, err := appCtx.Restore.Run(ctx, req)
	if err != nil {
		return err
	}
	for _, kind := range req.Kinds {
		okColor.Fprintf(color.Output, "restored %s key %s\n", kind, res.Identifiers[kind])
	}
	return nil
}
