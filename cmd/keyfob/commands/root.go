package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"keyfob/internal/app"
	"keyfob/internal/config"
	"keyfob/internal/prompt"
	"keyfob/internal/run"
)

var (
	cfgPath string
	appCtx  *app.App

	okColor  = color.New(color.FgGreen)
	errColor = color.New(color.FgRed)
)

func Execute() error {
	if err := newRoot().Execute(); err != nil {
		errColor.Fprintln(color.Error, "keyfob:", err)
		return err
	}
	return nil
}

// newRoot assembles the command tree. The persistent pre-run loads the
// configuration, persists detected defaults on a first run, and builds the
// dependency graph every command shares.
func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "keyfob",
		Short: "SSH and GPG key lifecycle manager",
		Long: "keyfob sets up a git identity, generates SSH and GPG keys, and moves them\n" +
			"between hosts through a storage directory or a private backup repository.\n" +
			"Run without arguments for the interactive menu.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			path := cfgPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				// First run: write the detected defaults out for editing.
				if err := config.Save(path, cfg); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "could not write %s: %v\n", path, err)
				}
			}
			appCtx = app.New(cfg, run.Exec{}, prompt.NewTerminal(), os.Stdout)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return menu(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.config/keyfob/config.yaml)")

	root.AddCommand(setupCmd(), backupCmd(), restoreCmd())
	return root
}
