package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridable at build time with -ldflags "-X ...cli.Version=".
var Version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the LogHound version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("loghound %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
