package cmd

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abdul-hamid-achik/specrun/packages/core/config"
	"github.com/abdul-hamid-achik/specrun/packages/core/discovery"
	"github.com/abdul-hamid-achik/specrun/packages/core/runner"
	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
	"github.com/abdul-hamid-achik/specrun/packages/output"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

type runFlags struct {
	output     string
	outputFile string
	name       string
	bail       bool
	noColor    bool
	configPath string
	nilPolicy  string
	watch      []string
}

func newRunCmd(c *cli) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [Type.Member ...]",
		Short: "Run specifications",
		Long: `Run the specifications produced by the named members, or by every
registered type when no member is named.

Examples:
  specrun run
  specrun run AccountSpecs.Withdrawing_too_much
  specrun run --name "*overdraft*" --bail
  specrun run -o junit --output-file report.xml
  specrun run --watch ./testdata`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCommand(cmd, flags, args)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return c.memberNames(), cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", getEnvString("SPECRUN_OUTPUT", ""), "Output format: console, json, junit, tap (env: SPECRUN_OUTPUT)")
	cmd.Flags().StringVar(&flags.outputFile, "output-file", getEnvString("SPECRUN_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: SPECRUN_OUTPUT_FILE)")
	cmd.Flags().StringVarP(&flags.name, "name", "n", getEnvString("SPECRUN_NAME", ""), "Run only specifications matching name pattern (env: SPECRUN_NAME)")
	cmd.Flags().BoolVar(&flags.bail, "bail", getEnvBool("SPECRUN_BAIL", false), "Stop on first failure (env: SPECRUN_BAIL)")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", getEnvBool("SPECRUN_NO_COLOR", false), "Disable colored output (env: SPECRUN_NO_COLOR)")
	cmd.Flags().StringVar(&flags.configPath, "config", getEnvString("SPECRUN_CONFIG", ""), "Path to config file (env: SPECRUN_CONFIG)")
	cmd.Flags().StringVar(&flags.nilPolicy, "nil-policy", getEnvString("SPECRUN_NIL_POLICY", ""), "What named members returning nil produce: drop, fail (env: SPECRUN_NIL_POLICY)")
	cmd.Flags().StringSliceVarP(&flags.watch, "watch", "w", nil, "Watch paths for changes and re-run specifications")

	return cmd
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// overrides turns the flags that were given, on the command line or through
// the environment, into a config that takes precedence over the file.
func (f *runFlags) overrides(cmd *cobra.Command, verbose int) *config.Config {
	o := &config.Config{
		Output:     f.output,
		OutputFile: f.outputFile,
		NameFilter: f.name,
		NilPolicy:  f.nilPolicy,
		Watch:      f.watch,
	}
	if cmd.Flags().Changed("bail") || os.Getenv("SPECRUN_BAIL") != "" {
		o.Bail = config.BoolPtr(f.bail)
	}
	if cmd.Flags().Changed("no-color") || os.Getenv("SPECRUN_NO_COLOR") != "" {
		o.NoColor = config.BoolPtr(f.noColor)
	}
	if verbose > 0 || getEnvBool("SPECRUN_VERBOSE", false) {
		o.Verbose = config.BoolPtr(true)
	}
	return o
}

// validate checks flag values before any config file is read, so a bad value
// on the command line is reported as a usage error.
func (f *runFlags) validate() error {
	return (&config.Config{Output: f.output, NilPolicy: f.nilPolicy}).Validate()
}

func (c *cli) loadConfig(cmd *cobra.Command, flags *runFlags) (*config.Config, error) {
	fileConfig, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	cfg := fileConfig.Merge(flags.overrides(cmd, c.verbose))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *cli) runCommand(cmd *cobra.Command, flags *runFlags, args []string) error {
	if err := flags.validate(); err != nil {
		return WrapExitError(ExitUsageError, "invalid flag", err)
	}

	cfg, err := c.loadConfig(cmd, flags)
	if err != nil {
		return WrapExitError(ExitConfigError, "invalid configuration", err)
	}

	policy, err := discovery.ParseNilPolicy(cfg.NilPolicy)
	if err != nil {
		return WrapExitError(ExitConfigError, "invalid nil policy", err)
	}

	members := args
	if len(members) == 0 {
		members = cfg.Members
	}

	s := &runPlan{
		cli:     c,
		cfg:     cfg,
		members: members,
		opts: []discovery.Option{
			discovery.WithLogger(c.logger),
			discovery.WithNilPolicy(policy),
		},
		stdout: cmd.OutOrStdout(),
	}

	batch, err := s.runOnce()
	if err != nil {
		return err
	}

	if len(cfg.Watch) == 0 {
		if !batch.Success() {
			return NewExitError(ExitTestFailure, fmt.Sprintf("%d of %d specifications failed", batch.Failed, len(batch.Results)))
		}
		return nil
	}

	watcher, err := newWatcher(cfg.Watch)
	if err != nil {
		return WrapExitError(ExitConfigError, "failed to watch paths", err)
	}
	defer watcher.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")
	return watchLoop(cmd.Context(), watcher, c.logger, func(event fsnotify.Event) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running specifications...\n\n", event.Name)
		if _, err := s.runOnce(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
	})
}

// runPlan runs the configured units, once or on every change in watch mode.
type runPlan struct {
	cli     *cli
	cfg     *config.Config
	members []string
	opts    []discovery.Option
	stdout  io.Writer
}

func (s *runPlan) units() iter.Seq[spec.Unit] {
	if len(s.members) == 0 {
		return discovery.ScanUniverse(s.cli.universe, s.opts...)
	}
	return discovery.ScanNamedMembers(s.cli.universe, s.members, s.opts...)
}

// runOnce builds a fresh formatter so accumulating formats start empty. The
// output file is truncated on every run, so it holds only the latest report.
func (s *runPlan) runOnce() (*runner.BatchResult, error) {
	out := s.stdout
	if s.cfg.OutputFile != "" {
		file, err := os.Create(s.cfg.OutputFile)
		if err != nil {
			return nil, WrapExitError(ExitConfigError, "cannot create output file", err)
		}
		defer file.Close()
		out = file
	}

	formatter, err := output.New(s.cfg.Output, out, s.cfg.GetVerbose(), s.cfg.GetNoColor())
	if err != nil {
		return nil, WrapExitError(ExitConfigError, "invalid output", err)
	}
	formatter.FormatHeader(s.cli.version)

	r := runner.NewRunner(&runner.Config{
		Verbose:    s.cfg.GetVerbose(),
		Bail:       s.cfg.GetBail(),
		NameFilter: s.cfg.NameFilter,
	}, runner.WithLogger(s.cli.logger))

	batch := r.RunAll(s.units())
	formatter.FormatBatch(batch)

	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(batch.Duration); err != nil {
			return nil, WrapExitError(ExitConfigError, "error writing output", err)
		}
	}
	return batch, nil
}

func newWatcher(paths []string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}
	return watcher, nil
}

// watchLoop calls rerun once per burst of changes, WatchDebounceDelay after
// the last event. It returns when ctx is done or the watcher is closed.
// Reruns happen on the calling goroutine.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, logger *zap.Logger, rerun func(fsnotify.Event)) error {
	var (
		debounce <-chan time.Time
		timer    *time.Timer
		last     fsnotify.Event
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("watched path changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			last = event
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(WatchDebounceDelay)
			debounce = timer.C

		case <-debounce:
			debounce = nil
			rerun(last)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// memberNames lists Type.Member for every discovered unit, for completion.
func (c *cli) memberNames() []string {
	seen := make(map[string]bool)
	var names []string
	for unit := range discovery.ScanUniverse(c.universe) {
		name := unit.Member().String()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
