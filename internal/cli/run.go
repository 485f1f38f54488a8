package cli

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repograph/pkg/config"
	"github.com/matzehuels/repograph/pkg/pipeline"
)

// runCommand creates the run command, which executes crawl, resolve and
// analyze in one go.
func (c *CLI) runCommand() *cobra.Command {
	var o overrides
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Crawl, resolve and analyze in one step",
		Example: `  repograph run --root https://repo1.maven.org/maven2/io/ktor/
  repograph run -q --workers 16 --format svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, &o, true)
			if err != nil {
				return err
			}
			return c.runAll(cmd.Context(), cfg, &o)
		},
	}
	o.addRepositoryFlags(cmd)
	o.addResolveFlags(cmd)
	o.addAnalyzeFlags(cmd)
	return cmd
}

func (c *CLI) runAll(ctx context.Context, cfg *config.Config, o *overrides) error {
	runner, closeStore, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := c.options(cfg, o)
	prog := newProgress(c.Logger)
	var res *pipeline.Result
	err = c.track(ctx, "Running "+cfg.RootURL(), func() error {
		var err error
		res, err = runner.Execute(ctx, opts)
		return err
	})
	if err != nil {
		return err
	}

	printKeyValue("Run", res.Report.RunID)
	printKeyValue("Locations", strconv.Itoa(len(res.Crawl.Locations())))
	printResolveSummary(res.Resolve, prog)
	printAnalysisSummary(res.Analysis, prog)
	for _, f := range res.Analysis.Files {
		printFile(f)
	}
	printFile(filepath.Join(opts.OutputDir, pipeline.ReportFile))
	printNextStep("Browse violations and cycles", appName+" report")
	return nil
}
