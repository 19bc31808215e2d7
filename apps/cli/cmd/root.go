package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abdul-hamid-achik/specrun/packages/core/discovery"
)

// cli holds the state shared by the commands of one invocation.
type cli struct {
	universe  *discovery.Universe
	version   string
	buildTime string

	verbose     int
	logger      *zap.Logger
	buildLogger func(verbose bool) (*zap.Logger, error)
}

func newCLI(u *discovery.Universe, version, buildTime string) *cli {
	if u == nil {
		u = discovery.NewUniverse()
	}
	return &cli{
		universe:    u,
		version:     version,
		buildTime:   buildTime,
		logger:      zap.NewNop(),
		buildLogger: productionLogger,
	}
}

func productionLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "specrun",
		Short: "Run behaviour specifications.",
		Long: `specrun discovers specifications registered in a universe of types and
runs each through its Before, On, When, Expect and Finally phases.

Run without member names to execute every registered specification.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := c.buildLogger(c.verbose > 0)
			if err != nil {
				return WrapExitError(ExitConfigError, "failed to initialize logger", err)
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}

	root.PersistentFlags().CountVarP(&c.verbose, "verbose", "v", "Verbose output with timing and debug logging (env: SPECRUN_VERBOSE)")

	root.AddCommand(newRunCmd(c))
	root.AddCommand(newListCmd(c))
	root.AddCommand(newVersionCmd(c))
	return root
}

// Execute runs the CLI against u and returns the process exit code.
func Execute(u *discovery.Universe, version, buildTime string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, newCLI(u, version, buildTime), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, c *cli, args []string, stdout, stderr io.Writer) int {
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	code := GetExitCode(err)
	if err != nil && code != ExitTestFailure {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}
