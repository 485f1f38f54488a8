package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repograph/internal/cli"
	rgerrors "github.com/matzehuels/repograph/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A missing .env is fine; REPOGRAPH_* variables may come from the shell.
	_ = godotenv.Load()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to a process exit status: 130 for an interrupt,
// 2 for bad configuration or input, 1 otherwise.
func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return 130
	case rgerrors.Is(err, rgerrors.ErrCodeInvalidConfig), rgerrors.Is(err, rgerrors.ErrCodeInvalidInput):
		return 2
	default:
		return 1
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// --quiet is applied by the root's own hook and wins over --verbose.
	quietHook := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if quietHook != nil {
			return quietHook(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
