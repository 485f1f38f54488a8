package cli

import (
	"context"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repograph/pkg/config"
	"github.com/matzehuels/repograph/pkg/deps"
	"github.com/matzehuels/repograph/pkg/errors"
)

// resolveCommand creates the resolve command, which turns checkpointed
// metadata locations into dependency records.
func (c *CLI) resolveCommand() *cobra.Command {
	var o overrides
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the latest release of every crawled artifact",
		Long: `Resolve reads the metadata locations recorded by crawl, fetches each
artifact's latest release descriptor and writes its declared dependencies to
the records file. Records from a previous run are reused unless --no-resume
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, &o, true)
			if err != nil {
				return err
			}
			return c.runResolve(cmd.Context(), cfg, &o)
		},
	}
	o.addRepositoryFlags(cmd)
	o.addResolveFlags(cmd)
	return cmd
}

func (c *CLI) runResolve(ctx context.Context, cfg *config.Config, o *overrides) error {
	runner, closeStore, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cp, err := runner.Store.Load(ctx)
	if err != nil {
		return err
	}
	locations := cp.Locations()
	if len(locations) == 0 {
		return errors.New(errors.ErrCodeNotFound, "no metadata locations checkpointed; run %s crawl first", appName)
	}

	prog := newProgress(c.Logger)
	var res *deps.Result
	err = c.track(ctx, "Resolving artifacts", func() error {
		var err error
		res, err = runner.Resolve(ctx, locations, c.options(cfg, o))
		return err
	})
	if err != nil {
		return err
	}
	printResolveSummary(res, prog)
	printFile(cfg.Output.Records)
	printNextStep("Analyze the graph", appName+" analyze")
	return nil
}

func printResolveSummary(res *deps.Result, prog *progress) {
	printSuccess("Resolved %d artifacts (%s)", len(res.Records), prog.elapsed())
	printCounts(
		count{res.Attempted, "fetched"},
		count{res.Reused, "reused"},
		count{len(res.Failures), "failed"},
	)
	byCode := res.FailuresByCode()
	for _, code := range slices.Sorted(maps.Keys(byCode)) {
		printDetail("%s: %d", code, byCode[code])
	}
}
