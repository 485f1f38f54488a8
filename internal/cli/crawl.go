package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repograph/pkg/config"
	"github.com/matzehuels/repograph/pkg/crawl"
)

// crawlCommand creates the crawl command, which discovers metadata
// locations and checkpoints them per top-level directory.
func (c *CLI) crawlCommand() *cobra.Command {
	var o overrides
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Discover maven-metadata.xml locations in the repository",
		Long: `Crawl lists the repository root and walks every top-level directory,
collecting the locations of metadata files. Progress is checkpointed after
each top-level directory; an interrupted crawl resumes where it stopped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, &o, true)
			if err != nil {
				return err
			}
			return c.runCrawl(cmd.Context(), cfg, &o)
		},
	}
	o.addRepositoryFlags(cmd)
	return cmd
}

func (c *CLI) runCrawl(ctx context.Context, cfg *config.Config, o *overrides) error {
	runner, closeStore, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	prog := newProgress(c.Logger)
	var res *crawl.Result
	err = c.track(ctx, "Crawling "+cfg.RootURL(), func() error {
		var err error
		res, err = runner.Crawl(ctx, c.options(cfg, o))
		return err
	})
	if err != nil {
		return err
	}

	printSuccess("Found %d metadata locations (%s)", len(res.Locations()), prog.elapsed())
	printCounts(
		count{res.TopLevel, "top-level"},
		count{res.Processed, "processed"},
		count{res.Skipped, "skipped"},
		count{len(res.Failed), "incomplete"},
	)
	for _, dir := range res.Failed {
		printWarning("Incomplete: %s", dir)
	}
	printNextStep("Resolve dependencies", appName+" resolve")
	return nil
}
