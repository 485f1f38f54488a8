package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repograph/pkg/config"
	"github.com/matzehuels/repograph/pkg/pipeline"
)

// analyzeCommand creates the analyze command, which builds the graph from
// a records file and writes the analysis outputs.
func (c *CLI) analyzeCommand() *cobra.Command {
	var o overrides
	cmd := &cobra.Command{
		Use:   "analyze [records-file]",
		Short: "Build the dependency graph and compute instability, violations and cycles",
		Long: `Analyze reads the records written by resolve (or the given file, CSV or
JSON) and writes the plain and annotated graphs, graph.json and report.json
to the output directory. The output directory is cleared first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, &o, false)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Output.Records = args[0]
			}
			return c.runAnalyze(cmd.Context(), cfg, &o)
		},
	}
	o.addAnalyzeFlags(cmd)
	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, cfg *config.Config, o *overrides) error {
	records, err := pipeline.LoadRecordSet(cfg.Output.Records)
	if err != nil {
		return err
	}

	opts := c.options(cfg, o)
	prog := newProgress(c.Logger)
	var a *pipeline.Analysis
	err = c.track(ctx, "Analyzing graph", func() error {
		var err error
		a, err = pipeline.Analyze(ctx, records, opts)
		return err
	})
	if err != nil {
		return err
	}

	rep := pipeline.BuildReport(cfg.RootURL(), nil, nil, a)
	if err := pipeline.WriteReport(opts, rep); err != nil {
		return err
	}
	printAnalysisSummary(a, prog)
	for _, f := range a.Files {
		printFile(f)
	}
	printFile(filepath.Join(opts.OutputDir, pipeline.ReportFile))
	printNextStep("Browse violations and cycles", appName+" report")
	return nil
}

func printAnalysisSummary(a *pipeline.Analysis, prog *progress) {
	printSuccess("Analyzed %d projects (%s)", a.Stats.Projects, prog.elapsed())
	printCounts(
		count{a.Stats.Dependencies, "dependencies"},
		count{len(a.Violations), "violations"},
		count{len(a.Cycles), "cycles"},
		count{a.Stats.Orphans, "orphans"},
	)
	if a.CyclesTruncated {
		printWarning("Cycle search stopped at %d cycles", len(a.Cycles))
	}
}
