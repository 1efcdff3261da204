package cli

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	noColor bool
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "loghound",
	Short: "LogHound - EFT/SFTP transfer log analyzer",
	Long: `LogHound scans transfer-server log files (CL transfer records and EX/FTP
protocol logs), classifies every event against the EFT, FTP, and Winsock
code taxonomy, and produces a report with error/warning breakdowns,
per-IP activity, suspicious-IP detection, and top transferred files.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config YAML file (default: ~/.loghound/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func Execute() error {
	return rootCmd.Execute()
}
