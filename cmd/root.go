package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the compaction tool
var rootCmd = &cobra.Command{
	Use:   "mailcompact",
	Short: "Compacts an email thread corpus into deduplicated transcripts",
	Long: `mailcompact turns a corpus of extracted email threads (JSON produced by the
upstream fetch/extraction stages) into two deduplicated transcripts:

  - a dense machine-oriented transcript with extracted attachment text inlined
  - a verbose human-oriented transcript, one block per message

Attachments are deduplicated by content fingerprint across the whole corpus
and exported once under a canonical filename. Disclaimers, quoted history and
operator-supplied boilerplate blocks are stripped from message bodies.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mailcompact version %s\n" .Version}}`)

	// If no subcommand is provided, run the compact command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "compact")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newCompactCmd())
	rootCmd.AddCommand(newVersionCmd())
}
