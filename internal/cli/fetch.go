package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/brainstein/loghound/internal/config"
	"github.com/brainstein/loghound/internal/fetch"
	"github.com/brainstein/loghound/internal/logger"
)

var fetchYes bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Refresh the local log corpus from the transfer server",
	Long: `Delete local log files older than the retention window, then download
fresh CL and EX logs from the configured SFTP server. The password comes
from the config file, the LOGHOUND_SFTP_PASSWORD environment variable, or
an interactive prompt, in that order.`,
	RunE: fetchCommand,
}

func init() {
	fetchCmd.Flags().BoolVarP(&fetchYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(fetchCmd)
}

func fetchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.SFTP.Host == "" || cfg.SFTP.User == "" {
		return fmt.Errorf("sftp host and user must be configured for fetch")
	}

	if !fetchYes && !confirm(fmt.Sprintf("Download fresh logs from %s? This may take several minutes. (y/N): ", cfg.SFTP.Host)) {
		fmt.Println("Download cancelled. Using existing logs.")
		return nil
	}

	if cfg.SFTP.Password == "" {
		pw, err := promptPassword(fmt.Sprintf("Password for %s@%s: ", cfg.SFTP.User, cfg.SFTP.Host))
		if err != nil {
			return err
		}
		cfg.SFTP.Password = pw
	}

	log := logger.New(debug)

	deleted := fetch.Cleanup(cfg.BasePath, cfg.SFTP.Folders, cfg.Retention.Days, log)
	fmt.Printf("Cleanup complete: %d file(s) removed.\n", deleted)

	client, err := fetch.Dial(cfg.SFTP, log)
	if err != nil {
		return fmt.Errorf("failed to connect to transfer server: %w", err)
	}
	defer client.Close()

	stats, err := client.Refresh(cmd.Context(), cfg.BasePath, cfg.Retention.Days)
	if err != nil {
		return err
	}

	fmt.Printf("Download complete: %d of %d file(s) downloaded.\n", stats.Downloaded, stats.Considered)
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}
