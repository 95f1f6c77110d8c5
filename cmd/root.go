package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/close-import/internal/config"
	"github.com/sells-group/close-import/internal/report"
	"github.com/sells-group/close-import/pkg/closeio"
)

var cfg *config.Config

var (
	rootDryRun bool
	rootXLSX   string
)

const usageText = `Invalid arguments.
close-import API_KEY INPUT_FILE OUTPUT_FILE START_DATE END_DATE
dates should be in ISO format i.e.: 1971-02-27`

var rootCmd = &cobra.Command{
	Use:   "close-import API_KEY INPUT_FILE OUTPUT_FILE START_DATE END_DATE",
	Short: "Import contacts into Close and report leads by state",
	Long: `Reads a contact CSV, cleans and validates it, creates the missing leads and
contacts in Close, then writes a per-state report of the leads founded
between START_DATE and END_DATE (inclusive).

Existing leads and contacts are matched by name and never modified.

Examples:
  # Import and report
  close-import $CLOSE_API_KEY contacts.csv report.csv 1990-01-01 2010-12-31

  # Preview the import without writing to Close, with an XLSX copy
  close-import $CLOSE_API_KEY contacts.csv report.csv 1990-01-01 2010-12-31 --dry-run --xlsx report.xlsx`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		zap.ReplaceGlobals(zap.L().With(zap.String("run_id", uuid.NewString())))

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 5 {
			fmt.Fprintln(cmd.OutOrStdout(), usageText)
			return nil
		}

		window, err := report.ParseWindow(args[3], args[4])
		if err != nil {
			return err
		}

		client := closeio.NewClient(args[0],
			closeio.WithBaseURL(cfg.Close.BaseURL),
			closeio.WithPageSize(cfg.Close.PageSize),
			closeio.WithRateLimit(cfg.Close.RateLimit),
			closeio.WithHTTPClient(newHTTPClient(cfg.Close.TimeoutSecs)),
		)

		_, err = runPipeline(cmd.Context(), client, runOptions{
			InputPath:  args[1],
			OutputPath: args[2],
			XLSXPath:   rootXLSX,
			Window:     window,
			DryRun:     rootDryRun,
		})
		if err != nil {
			return eris.Wrap(err, "close-import")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.Flags().BoolVar(&rootDryRun, "dry-run", false, "read from Close and report, but create nothing")
	rootCmd.Flags().StringVar(&rootXLSX, "xlsx", "", "also write the report as an XLSX workbook to this path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.L().Error("run failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newHTTPClient(timeoutSecs int) *http.Client {
	return &http.Client{Timeout: time.Duration(timeoutSecs) * time.Second}
}
