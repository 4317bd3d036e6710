package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"keyfob/internal/domain"
)

// menuOps fixes the numbering of the interactive menu.
var menuOps = []domain.Operation{
	domain.OpSetup,
	domain.OpSetupGenerate,
	domain.OpBackupSSH,
	domain.OpBackupGPG,
	domain.OpRestoreSSH,
	domain.OpRestoreGPG,
	domain.OpRestoreRemote,
}

// menu loops over the numbered operations until the operator quits. A failed
// operation ends the loop; the error surfaces as the process exit. Scripted
// use goes through the subcommands, so the menu insists on a terminal.
func menu(ctx context.Context) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return errors.New("stdin is not a terminal; use the subcommands (setup, backup, restore)")
	}
	for {
		fmt.Println()
		if line := sessionLine(appCtx.Binder.Bound()); line != "" {
			fmt.Println(line)
		}
		for i, op := range menuOps {
			fmt.Printf("  %d) %s\n", i+1, op)
		}
		fmt.Println("  q) quit")

		ans, err := appCtx.Prompt.Ask("> ")
		if err != nil {
			return err
		}
		if ans == "q" || ans == "quit" {
			return nil
		}
		n, err := strconv.Atoi(ans)
		if err != nil || n < 1 || n > len(menuOps) {
			fmt.Println("pick a number from the menu")
			continue
		}
		if err := dispatch(ctx, menuOps[n-1]); err != nil {
			return err
		}
	}
}

// sessionLine renders what the binder has applied so far, or "" before any
// binding happened.
func sessionLine(b domain.Binding) string {
	var parts []string
	if b.Identity.Name != "" {
		parts = append(parts, fmt.Sprintf("%s <%s>", b.Identity.Name, b.Identity.Email))
	}
	if b.SigningEnabled {
		parts = append(parts, "signing key "+b.SigningKeyID)
	}
	if b.Editor != "" {
		parts = append(parts, "editor "+b.Editor)
	}
	if len(parts) == 0 {
		return ""
	}
	return "bound this session: " + strings.Join(parts, ", ")
}
