package commands

import (
	"context"
	"fmt"

	"keyfob/internal/domain"
	"keyfob/internal/services/restore"
)

// dispatch routes one operation to its implementation. The interactive menu
// and the subcommands both resolve here, so behavior cannot drift between the
// two surfaces.
func dispatch(ctx context.Context, op domain.Operation) error {
	switch op {
	case domain.OpSetup:
		return appCtx.Setup.Run(ctx, false)
	case domain.OpSetupGenerate:
		return appCtx.Setup.Run(ctx, true)
	case domain.OpBackupSSH:
		return backupSSH(ctx)
	case domain.OpBackupGPG:
		return backupGPG(ctx)
	case domain.OpRestoreSSH:
		return runRestore(ctx, restore.Request{Kinds: []domain.Kind{domain.KindSSH}})
	case domain.OpRestoreGPG:
		return runRestore(ctx, restore.Request{Kinds: []domain.Kind{domain.KindGPG}})
	case domain.OpRestoreRemote:
		return runRestore(ctx, restore.Request{
			Kinds:      []domain.Kind{domain.KindSSH, domain.KindGPG},
			RemoteOnly: true,
		})
	}
	return fmt.Errorf("unknown operation %v", op)
}
