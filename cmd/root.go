package cmd

import (
	"fmt"
	"os"

	"backend-probe/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "backend-probe",
	Short: "Backend connectivity and schema probe",
	Long: `backend-probe checks that a hosted database/auth backend is reachable with the
configured keys and that the tables an application relies on look the way it expects.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with ISO8601 timestamps, the same as interactive runs
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&roleFlag, "role", "", "API key role to use (anon, service_role); overrides SUPABASE_ROLE")
	RootCmd.PersistentFlags().BoolVar(&directFlag, "direct", false, "Probe over the direct database connection instead of the REST API")
	RootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print results as JSON")
}
