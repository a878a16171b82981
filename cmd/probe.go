package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"backend-probe/core/logger"
	"backend-probe/feature/probe"
	"backend-probe/feature/probe/console"

	"github.com/spf13/cobra"
)

var (
	tableFlag   string
	columnsFlag string
	rowFlags    []string
	skipWrite   bool
)

// errAllFailed makes the process exit non-zero when no stage got through.
var errAllFailed = errors.New("every probe stage failed")

// probeCmd represents the probe command
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Run every probe against the configured backend",
	Long: `Runs the auth check, the table check and the write round trip (when a table is
configured), then the storage check (when a bucket is configured). Stages run in order and
never stop each other; a missing table is reported but does not count as a failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProbes(cmd.Context(), func(ctx context.Context, svc *probe.Service, opts probe.RunOptions) probe.Report {
			opts.RoundTrip = !skipWrite
			return svc.Run(ctx, opts)
		})
	},
}

// probeAuthCmd represents the probe auth command
var probeAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Check the auth service and report the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProbes(cmd.Context(), func(ctx context.Context, svc *probe.Service, _ probe.RunOptions) probe.Report {
			return single(svc.ProbeAuth(ctx))
		})
	},
}

// probeTableCmd represents the probe table command
var probeTableCmd = &cobra.Command{
	Use:   "table",
	Short: "Select one row from a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProbes(cmd.Context(), func(ctx context.Context, svc *probe.Service, opts probe.RunOptions) probe.Report {
			return single(svc.ProbeTable(ctx, opts.Table, opts.Columns))
		})
	},
}

// probeRoundTripCmd represents the probe roundtrip command
var probeRoundTripCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Insert a sample row, read it back and delete it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProbes(cmd.Context(), func(ctx context.Context, svc *probe.Service, opts probe.RunOptions) probe.Report {
			return single(svc.ProbeRoundTrip(ctx, opts.Table, opts.Sample))
		})
	},
}

// probeStorageCmd represents the probe storage command
var probeStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check the storage bucket exists and can be listed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProbes(cmd.Context(), func(ctx context.Context, svc *probe.Service, _ probe.RunOptions) probe.Report {
			return single(svc.ProbeStorage(ctx))
		})
	},
}

type runner func(ctx context.Context, svc *probe.Service, opts probe.RunOptions) probe.Report

func runProbes(ctx context.Context, run runner) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return err
	}
	defer logg.Sync()

	sample, err := parseRow(rowFlags)
	if err != nil {
		return err
	}

	svc, cleanup, err := buildService(cfg, logg)
	defer cleanup()
	if err != nil {
		if cfgErr, ok := asConfigError(err); ok && !jsonFlag {
			console.ConfigError(os.Stderr, cfgErr)
		}
		return err
	}

	opts := probe.RunOptions{
		Table:   tableFlag,
		Columns: probe.SplitColumns(columnsFlag),
		Sample:  sample,
	}
	if opts.Table == "" {
		opts.Table = cfg.Probe.Table
	}

	report := run(ctx, svc, opts)

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		if !directFlag {
			console.Target(os.Stdout, cfg.Supabase.Credentials())
		}
		if err := console.Report(os.Stdout, report); err != nil {
			return err
		}
	}

	if report.AllFailed() {
		return errAllFailed
	}
	return nil
}

func single(r probe.Result) probe.Report {
	return probe.Report{Results: []probe.Result{r}}
}

func init() {
	probeCmd.PersistentFlags().StringVarP(&tableFlag, "table", "t", "", "Table to probe (defaults to PROBE_TABLE)")
	probeCmd.PersistentFlags().StringVarP(&columnsFlag, "columns", "c", "", "Comma separated columns to select")
	probeCmd.PersistentFlags().StringArrayVar(&rowFlags, "row", nil, "Sample row field as key=value (repeatable)")
	probeCmd.Flags().BoolVar(&skipWrite, "read-only", false, "Skip the write round trip")

	probeCmd.AddCommand(probeAuthCmd)
	probeCmd.AddCommand(probeTableCmd)
	probeCmd.AddCommand(probeRoundTripCmd)
	probeCmd.AddCommand(probeStorageCmd)
	RootCmd.AddCommand(probeCmd)
}
