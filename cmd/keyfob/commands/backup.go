package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"keyfob/internal/domain"
	"keyfob/internal/validate"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export key material to the storage directory",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ssh",
			Short: "Export the SSH key pair",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return dispatch(cmd.Context(), domain.OpBackupSSH)
			},
		},
		&cobra.Command{
			Use:   "gpg",
			Short: "Export a GPG key with its ownertrust",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return dispatch(cmd.Context(), domain.OpBackupGPG)
			},
		},
	)
	return cmd
}

func backupSSH(ctx context.Context) error {
	pair, ok, err := appCtx.Keys.DiscoverSSH()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no ssh key pair found; run setup --generate first")
	}
	b, err := appCtx.Bundler.ExportSSH(pair, appCtx.Config.StorageDir)
	if err != nil {
		return err
	}
	okColor.Fprintf(color.Output, "exported %s pair to %s\n", pair.Identifier, b.Dir)
	return nil
}

func backupGPG(ctx context.Context) error {
	for {
		email, err := appCtx.Prompt.Ask("Email of the GPG key to export: ")
		if err != nil {
			return err
		}
		if err := validate.Email(email); err != nil {
			fmt.Println(err)
			continue
		}
		b, err := appCtx.Bundler.ExportGPG(ctx, email, appCtx.Config.StorageDir)
		if err != nil {
			return err
		}
		okColor.Fprintf(color.Output, "exported gpg bundle to %s\n", b.Dir)
		return nil
	}
}
