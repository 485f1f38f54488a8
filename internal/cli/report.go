package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/repograph/pkg/io"
	"github.com/matzehuels/repograph/pkg/pipeline"
)

// reportCommand creates the report command, which browses the violations
// and cycles of a written report.
func (c *CLI) reportCommand() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "report [report.json]",
		Short: "Browse the violations and cycles of the last run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := c.loadConfig(cmd, nil, false)
				if err != nil {
					return err
				}
				path = filepath.Join(cfg.Output.Dir, pipeline.ReportFile)
			}

			rep, err := pkgio.ImportReport(path)
			if err != nil {
				return fmt.Errorf("read report: %w", err)
			}
			if plain {
				printReport(rep)
				return nil
			}
			_, err = tea.NewProgram(NewReportModel(rep), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print tables instead of the interactive browser")
	return cmd
}

// printReport writes the report summary and full tables to stdout.
func printReport(rep *pkgio.Report) {
	printKeyValue("Run", rep.RunID)
	printKeyValue("Created", rep.CreatedAt.Format("2006-01-02 15:04:05"))
	printKeyValue("Version", rep.ToolVersion)
	if rep.Crawl != nil {
		printKeyValue("Root", rep.Crawl.Root)
	}
	if rep.Stats != nil {
		printCounts(
			count{rep.Stats.Projects, "projects"},
			count{rep.Stats.Dependencies, "dependencies"},
			count{rep.Stats.Orphans, "orphans"},
		)
	}
	printNewline()

	printInfo("Violations (%d)", len(rep.Violations))
	if len(rep.Violations) > 0 {
		fmt.Fprintln(stdout, renderTable(violationHeaders, violationRows(rep.Violations), -1))
	}
	printInfo("Cycles (%d)", len(rep.Cycles))
	if len(rep.Cycles) > 0 {
		fmt.Fprintln(stdout, renderTable(cycleHeaders, cycleRows(rep.Cycles, 0), -1))
	}
	if rep.CyclesTruncated {
		printWarning("Cycle search stopped early; the list is incomplete")
	}
}
