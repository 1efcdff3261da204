package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/brainstein/loghound/internal/analyze"
	"github.com/brainstein/loghound/internal/config"
	"github.com/brainstein/loghound/internal/console"
	"github.com/brainstein/loghound/internal/logger"
	"github.com/brainstein/loghound/internal/report"
	"github.com/brainstein/loghound/internal/scanner"
	"github.com/brainstein/loghound/internal/taxonomy"
)

var (
	scanPath      string
	scanVerbose   string
	scanSearch    []string
	scanSince     string
	scanUntil     string
	scanReportDir string
	scanThreshold int
)

const timeFlagLayout = "2006-01-02 15:04:05"

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Analyze the local log corpus and write a report",
	Long: `Scan every log file under the configured base path, classify each line,
and write a timestamped report. The verbosity flag controls only what
scrolls by on the console; the report always contains the full analysis.

Examples:
  loghound scan
  loghound scan --verbose ALL --search renan3695
  loghound scan --since "2026-03-01 00:00:00" --until "2026-03-02 00:00:00"`,
	RunE: scanCommand,
}

func init() {
	scanCmd.Flags().StringVar(&scanPath, "path", "", "Base path to scan (overrides config)")
	scanCmd.Flags().StringVar(&scanVerbose, "verbose", "", "Console verbosity: ERROR, WARNING, or ALL (overrides config)")
	scanCmd.Flags().StringArrayVar(&scanSearch, "search", nil, "Search pattern, repeatable (overrides config)")
	scanCmd.Flags().StringVar(&scanSince, "since", "", `Only count events at or after this time ("2006-01-02 15:04:05")`)
	scanCmd.Flags().StringVar(&scanUntil, "until", "", `Only count events before this time ("2006-01-02 15:04:05")`)
	scanCmd.Flags().StringVar(&scanReportDir, "report-dir", "", "Report output directory (overrides config)")
	scanCmd.Flags().IntVar(&scanThreshold, "threshold", 0, "Suspicious-IP event threshold (overrides config)")
	rootCmd.AddCommand(scanCmd)
}

func scanCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyScanOverrides(cfg)

	level, err := cfg.Level()
	if err != nil {
		return err
	}

	log := logger.New(debug)
	out := console.New(os.Stdout, noColor)
	out.Banner(Version)

	overlay, err := taxonomy.LoadOverlay(cfg.CodesFile)
	if err != nil {
		return err
	}
	cat := taxonomy.New(overlay...)
	matcher := analyze.NewMatcher(cfg.Search)

	s := scanner.New(cfg, cat, matcher, level, out, log)
	if scanSince != "" || scanUntil != "" {
		since, until, err := parseTimeRange(scanSince, scanUntil)
		if err != nil {
			return err
		}
		s.SetTimeRange(since, until)
	}

	fmt.Printf("\nScanning %s...\n\n", cfg.BasePath)
	agg, err := s.Run(cmd.Context())
	if err != nil {
		return err
	}

	meta := report.Meta{
		GeneratedAt: time.Now(),
		BasePath:    cfg.BasePath,
		Patterns:    matcher.Patterns(),
		Threshold:   cfg.IPThreshold,
		TopLimit:    cfg.TopLimit,
	}
	path, err := report.Write(cfg.ReportDir, report.Assemble(agg, meta), meta.GeneratedAt)
	if err != nil {
		return err
	}

	out.Summary(agg, path)
	return nil
}

func applyScanOverrides(cfg *config.Config) {
	if scanPath != "" {
		cfg.BasePath = scanPath
	}
	if scanVerbose != "" {
		cfg.Verbose = scanVerbose
	}
	if len(scanSearch) > 0 {
		cfg.Search = scanSearch
	}
	if scanReportDir != "" {
		cfg.ReportDir = scanReportDir
	}
	if scanThreshold > 0 {
		cfg.IPThreshold = scanThreshold
	}
}

func parseTimeRange(sinceStr, untilStr string) (since, until time.Time, err error) {
	if sinceStr != "" {
		since, err = time.Parse(timeFlagLayout, sinceStr)
		if err != nil {
			return since, until, fmt.Errorf("invalid --since: %w", err)
		}
	}
	if untilStr != "" {
		until, err = time.Parse(timeFlagLayout, untilStr)
		if err != nil {
			return since, until, fmt.Errorf("invalid --until: %w", err)
		}
	}
	if !since.IsZero() && !until.IsZero() && until.Before(since) {
		return since, until, fmt.Errorf("--until is before --since")
	}
	return since, until, nil
}
