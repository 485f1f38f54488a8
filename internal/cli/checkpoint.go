package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repograph/pkg/config"
)

// checkpointCommand creates the crawl checkpoint management command.
func (c *CLI) checkpointCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage the crawl checkpoint",
	}

	cmd.AddCommand(c.checkpointPathCommand())
	cmd.AddCommand(c.checkpointShowCommand())
	cmd.AddCommand(c.checkpointClearCommand())

	return cmd
}

// checkpointPathCommand creates the "checkpoint path" subcommand.
func (c *CLI) checkpointPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the checkpoint is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, nil, false)
			if err != nil {
				return err
			}
			if cfg.Checkpoint.Backend == config.BackendRedis {
				fmt.Fprintln(cmd.OutOrStdout(), cfg.Checkpoint.RedisURL, redisKey(cfg))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Checkpoint.Path)
			return nil
		},
	}
}

// checkpointShowCommand creates the "checkpoint show" subcommand.
func (c *CLI) checkpointShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List checkpointed top-level directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, nil, false)
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeQuietly(store)

			cp, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			if cp.Len() == 0 {
				printInfo("Checkpoint is empty")
				return nil
			}
			for _, dir := range cp.Dirs() {
				printKeyValue(fmt.Sprintf("%d", len(cp.Get(dir))), dir)
			}
			printCounts(count{cp.Len(), "directories"}, count{len(cp.Locations()), "locations"})
			return nil
		},
	}
}

// checkpointClearCommand creates the "checkpoint clear" subcommand.
func (c *CLI) checkpointClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget crawl progress so the next crawl starts over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, nil, false)
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeQuietly(store)

			if err := store.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("clear checkpoint: %w", err)
			}
			printSuccess("Cleared checkpoint")
			return nil
		},
	}
}
