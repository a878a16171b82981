package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"backend-probe/core/backend"
	"backend-probe/core/database"
	"backend-probe/core/logger"
	"backend-probe/feature/probe"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema [table] [column...]",
	Short: "Compare a table's columns with the expected list",
	Long: `Reads the live column list of a table over the direct database connection and reports
expected columns that are missing. Expected columns come from the arguments, then --columns,
then PROBE_COLUMNS.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return err
		}
		defer logg.Sync()

		table := cfg.Probe.Table
		if tableFlag != "" {
			table = tableFlag
		}
		expected := cfg.Probe.ColumnList()
		if columnsFlag != "" {
			expected = probe.SplitColumns(columnsFlag)
		}
		if len(args) > 0 {
			table = args[0]
		}
		if len(args) > 1 {
			expected = args[1:]
		}
		if table == "" {
			return fmt.Errorf("no table given")
		}

		if !cfg.Database.Enabled() {
			return &backend.ConfigError{Key: "DATABASE_HOST", Reason: "not set (schema inspection needs a direct connection)"}
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close(db)

		report, err := database.CompareColumns(db, table, expected)
		if err != nil {
			return fmt.Errorf("failed to inspect %s: %w", table, err)
		}
		logg.Info("Schema inspected",
			zap.String("table", table),
			zap.Bool("exists", report.Exists),
			zap.Strings("missing", report.MissingColumns),
		)

		if jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printSchemaReport(report)
		}

		if !report.Matched() {
			return fmt.Errorf("schema of %s does not match", table)
		}
		return nil
	},
}

func printSchemaReport(r *database.TableReport) {
	if !r.Exists {
		pterm.Println(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprintf("✗ table %s does not exist", r.Table))
		return
	}

	if len(r.MissingColumns) == 0 {
		pterm.Println(pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprintf("✓ table %s has every expected column", r.Table))
	} else {
		pterm.Println(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprintf("✗ table %s is missing %d column(s)", r.Table, len(r.MissingColumns)))
		items := make([]pterm.BulletListItem, len(r.MissingColumns))
		for i, col := range r.MissingColumns {
			items[i] = pterm.BulletListItem{Level: 1, Text: col}
		}
		_ = pterm.DefaultBulletList.WithItems(items).Render()
	}

	if len(r.ExtraColumns) > 0 {
		pterm.Println(pterm.NewStyle(pterm.FgGray).Sprint("  other columns: " + strings.Join(r.ExtraColumns, ", ")))
	}
}

func init() {
	schemaCmd.Flags().StringVarP(&tableFlag, "table", "t", "", "Table to inspect (defaults to PROBE_TABLE)")
	schemaCmd.Flags().StringVarP(&columnsFlag, "columns", "c", "", "Comma separated expected columns")
	RootCmd.AddCommand(schemaCmd)
}
