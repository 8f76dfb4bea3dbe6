package cli

import (
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/vetdao/governance-locks/internal/config"
)

// DumpLocksCmd dumps persisted lock documents for debugging
// Usage: ./governance-locks dump-locks --config config.yml [--owner <owner>] [--queued]
func DumpLocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-locks",
		Short: "Dump persisted locks and exit queue entries",
		Args:  cobra.ExactArgs(0),
		RunE:  dumpLocks,
	}

	cmd.Flags().String("owner", "", "Only dump locks of this owner")
	cmd.Flags().Bool("queued", false, "Dump exit queue entries instead of locks")

	return cmd
}

func dumpLocks(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	owner, err := cmd.Flags().GetString("owner")
	if err != nil {
		return err
	}
	queued, err := cmd.Flags().GetBool("queued")
	if err != nil {
		return err
	}

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}

	dbClient, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbClient.Close(ctx)

	dumper := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}

	if queued {
		entries, err := dbClient.FindAllExitQueueEntries(ctx)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if owner != "" && entry.Owner != owner {
				continue
			}
			dumper.Fdump(os.Stdout, entry)
		}
		return nil
	}

	locks, err := dbClient.FindAllLocks(ctx)
	if err != nil {
		return err
	}
	for _, lock := range locks {
		if owner != "" && lock.Owner != owner {
			continue
		}
		dumper.Fdump(os.Stdout, lock)
	}
	return nil
}
