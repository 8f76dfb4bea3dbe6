package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vetdao/governance-locks/internal/config"
	"github.com/vetdao/governance-locks/internal/db"
)

// QueueStatsCmd prints the overall stats last written by the stats poller
// Usage: ./governance-locks queue-stats --config config.yml
func QueueStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue-stats",
		Short: "Print the latest persisted exit queue and lock statistics",
		Args:  cobra.ExactArgs(0),
		RunE:  queueStats,
	}

	return cmd
}

func queueStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}

	dbClient, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbClient.Close(ctx)

	stats, err := dbClient.GetOverallStats(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			fmt.Println("No stats have been recorded yet")
			return nil
		}
		return err
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	fmt.Printf("Next exit date: %s\n", time.Unix(stats.NextExitDate, 0).UTC().Format(time.RFC3339))
	fmt.Printf("Last updated:   %s\n", time.Unix(stats.LastUpdated, 0).UTC().Format(time.RFC3339))
	return nil
}
