// Package main is the CLI entry point for wingather.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dazzletools/wingather/internal/config"
	"github.com/dazzletools/wingather/internal/domain"
	"github.com/dazzletools/wingather/internal/infra"
	"github.com/dazzletools/wingather/internal/report"
	"github.com/dazzletools/wingather/internal/trust"
	"github.com/dazzletools/wingather/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.3.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wingather",
	Short: "Find and recover lost, hidden, and suspicious windows",
	Long: `wingather sweeps every top-level window in a single pass, flags the
ones that look like they are being kept out of sight (moved off-screen,
shrunk to nothing, cloaked, or masquerading as a system process), and
gathers them back onto the visible desktop.

Each flagged window carries a concern level:

  [!1] ALERT    Highest concern (e.g., off-screen + dialog)
  [!2] ALERT    High concern (e.g., off-screen)
  [!3] CONCERN  Moderate (e.g., shrunk window)
  [!4] NOTE     Low concern (e.g., dialog, partial off-screen)
  [!5] NOTE     Informational (e.g., cloaked on another desktop)

Well-known shell processes are signature-verified before their flags
are suppressed. Use --no-default-trust to bypass. User --trust patterns
are name-only.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGather,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	flagListOnly       bool
	flagDryRun         bool
	flagAll            bool
	flagShowHidden     bool
	flagUndo           bool
	flagIncludeVirtual bool
	flagJSON           bool
	flagMonitor        int
	flagFilter         string
	flagExclude        string
	flagExcludeProcs   []string
	flagExcludeFile    string
	flagTrust          []string
	flagTrustFile      string
	flagNoDefaultTrust bool
	flagVerbose        bool
	flagConfig         string

	versionJSON bool
)

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&flagListOnly, "list-only", "l", false, "List windows without moving anything")
	f.BoolVarP(&flagDryRun, "dry-run", "n", false, "Show what would be done without doing it")
	f.BoolVarP(&flagAll, "all", "a", false, "Act on every window, not just suspicious ones")
	f.BoolVar(&flagShowHidden, "show-hidden", false, "Reveal hidden windows (reversible with --undo)")
	f.BoolVarP(&flagUndo, "undo", "u", false, "Re-hide windows revealed by a previous --show-hidden run")
	f.BoolVar(&flagIncludeVirtual, "include-virtual", false, "Pull windows from other virtual desktops")
	f.BoolVar(&flagJSON, "json", false, "Output results as JSON")
	f.IntVarP(&flagMonitor, "monitor", "m", 0, "Target monitor index for gathered windows")
	f.StringVarP(&flagFilter, "filter", "f", "", "Only process windows matching this pattern (title or process)")
	f.StringVarP(&flagExclude, "exclude", "x", "", "Skip windows matching this pattern (title or process)")
	f.StringSliceVar(&flagExcludeProcs, "exclude-process", nil, "Skip windows owned by this process (repeatable)")
	f.StringVar(&flagExcludeFile, "exclude-file", "", "File of process exclusion patterns, one per line")
	f.StringSliceVar(&flagTrust, "trust", nil, "Trust windows owned by this process name (repeatable)")
	f.StringVar(&flagTrustFile, "trust-file", "", "File of trust patterns, one per line")
	f.BoolVar(&flagNoDefaultTrust, "no-default-trust", false, "Disable the built-in trusted-process list")
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose diagnostic logging")
	f.StringVar(&flagConfig, "config", "", "Config file path (default: platform config dir)")

	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(versionCmd)
}

func runGather(cmd *cobra.Command, args []string) error {
	opts, err := assembleOptions(cmd)
	if err != nil {
		return err
	}

	logger := createLogger(opts.Verbose)
	defer func() { _ = logger.Sync() }()

	backend, err := infra.DetectBackend()
	if err != nil {
		return fmt.Errorf("wingather needs a supported desktop platform: %w", err)
	}

	store := infra.NewFileUndoStore(Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	if flagUndo {
		return runUndo(ctx, backend, store, logger)
	}

	policy, err := trust.NewPolicy(opts.TrustPatterns, opts.NoDefaultTrust)
	if err != nil {
		return fmt.Errorf("load trust policy: %w", err)
	}
	verifier := trust.NewVerifier(policy,
		infra.NewCachedSignatureVerifier(backend.Signature), logger)

	gatherer := usecase.NewGatherer(
		backend.Enumerator,
		backend.Actuator,
		infra.NewProcessResolver(),
		verifier,
		store,
		logger,
	)

	if opts.ShowHidden && !opts.JSON {
		report.ShowHiddenBanner(os.Stdout, opts.ActOnAll())
	}

	rep, err := gatherer.Run(ctx, opts)
	if err != nil {
		return err
	}

	if opts.JSON {
		return report.JSON(os.Stdout, rep)
	}
	report.Table(os.Stdout, rep)
	return nil
}

func runUndo(ctx context.Context, backend *infra.Backend, store domain.UndoStore, logger *zap.Logger) error {
	res, err := usecase.NewUndoer(backend.Actuator, store, logger).Run(ctx)
	switch {
	case errors.Is(err, infra.ErrNoUndoState):
		fmt.Println("\n  No undo state found. Run with --show-hidden first.")
		return nil
	case err != nil:
		return err
	}
	fmt.Printf("\n  Undo complete: %d window(s) re-hidden, %d skipped.\n",
		res.Hidden, res.Skipped)
	return nil
}

// assembleOptions merges the config file into the flag values. Flags
// the user set explicitly always win; list-valued settings append.
func assembleOptions(cmd *cobra.Command) (domain.Options, error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return domain.Options{}, fmt.Errorf("load config %s: %w", path, err)
	}

	opts := domain.Options{
		ListOnly:       flagListOnly,
		DryRun:         flagDryRun,
		All:            flagAll,
		ShowHidden:     flagShowHidden,
		IncludeVirtual: flagIncludeVirtual,
		Monitor:        flagMonitor,
		Filter:         flagFilter,
		Exclude:        flagExclude,
		ExcludeProcs:   append(cfg.ExcludeProcesses, flagExcludeProcs...),
		TrustPatterns:  append(cfg.Trust, flagTrust...),
		NoDefaultTrust: flagNoDefaultTrust || cfg.NoDefaultTrust,
		JSON:           flagJSON,
		Verbose:        flagVerbose || cfg.Verbose,
	}
	if !cmd.Flags().Changed("monitor") {
		opts.Monitor = cfg.Monitor
	}

	if flagTrustFile != "" {
		patterns, err := config.ReadPatternFile(flagTrustFile)
		if err != nil {
			return domain.Options{}, fmt.Errorf("read trust file: %w", err)
		}
		opts.TrustPatterns = append(opts.TrustPatterns, patterns...)
	}
	if flagExcludeFile != "" {
		patterns, err := config.ReadPatternFile(flagExcludeFile)
		if err != nil {
			return domain.Options{}, fmt.Errorf("read exclude file: %w", err)
		}
		opts.ExcludeProcs = append(opts.ExcludeProcs, patterns...)
	}

	return opts, nil
}

// createLogger builds a stderr logger so diagnostics never mix into
// the table or JSON on stdout.
func createLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if verbose {
		dev, err := zap.NewDevelopment()
		if err == nil {
			return dev
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if versionJSON {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("wingather %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
