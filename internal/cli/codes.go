package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brainstein/loghound/internal/config"
	"github.com/brainstein/loghound/internal/event"
	"github.com/brainstein/loghound/internal/taxonomy"
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List the built-in status code taxonomy",
	Long: `Print every status code LogHound knows about, the category it resolves
to, and its description. Custom rules from the codes overlay file are
included when present.`,
	RunE: codesCommand,
}

func init() {
	rootCmd.AddCommand(codesCmd)
}

func codesCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overlay, err := taxonomy.LoadOverlay(cfg.CodesFile)
	if err != nil {
		return err
	}
	cat := taxonomy.New(overlay...)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tCATEGORY\tDESCRIPTION")
	for _, code := range cat.Known() {
		category, desc := cat.Resolve(dialectFor(code), code)
		fmt.Fprintf(w, "%d\t%s\t%s\n", code, category, desc)
	}
	return w.Flush()
}

// dialectFor picks the dialect whose code space a bare number belongs to:
// Winsock owns 10000+, everything else reads as an EX/FTP reply code.
func dialectFor(code int) event.Dialect {
	if code >= 10000 {
		return event.DialectWinsock
	}
	return event.DialectEX
}
