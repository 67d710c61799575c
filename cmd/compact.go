package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/alias"
	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/attach"
	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/config"
	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/corpus"
	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/logging"
	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/textfilter"
	"github.com/simplenotezy/email-timeline-and-llm-analysis/internal/transcript"
)

// Output filenames inside --out-dir.
const (
	llmTranscriptFile   = "transcript_llm.txt"
	humanTranscriptFile = "transcript_human.txt"
	timelineCSVFile     = "messages_timeline.csv"
)

type compactOptions struct {
	input          string
	outDir         string
	attachmentsDir string
	rulesFile      string
	aliasFile      string
	ignoreMsgFile  string
	ignoreAttFile  string
	ignoreBlkFile  string
	envFile        string
	verbose        bool
}

func newCompactCmd() *cobra.Command {
	var opts compactOptions

	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Generate deduplicated transcripts from a thread corpus",
		Long: `Read the corpus JSON produced by the upstream extraction stage and write
the machine-oriented transcript, the human-oriented transcript, the CSV
timeline and the deduplicated attachment directory.

The attachment directory is cleared and rebuilt on every run; the whole run
is idempotent for identical inputs and configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.envFile != "" {
				if err := godotenv.Load(opts.envFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", opts.envFile, err)
				}
			}
			applyEnvDefaults(cmd, &opts)
			return runCompact(&opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "output/case_timelines.json", "Path to the corpus JSON file")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "output", "Directory for generated transcripts")
	cmd.Flags().StringVar(&opts.attachmentsDir, "attachments-dir", "attachments", "Attachment export directory, relative to --out-dir")
	cmd.Flags().StringVar(&opts.rulesFile, "rules", "", "YAML rules file with skip/stop/header patterns (built-in defaults if omitted)")
	cmd.Flags().StringVar(&opts.aliasFile, "aliases", "", "Alias list file ('address: label' per line)")
	cmd.Flags().StringVar(&opts.ignoreMsgFile, "ignore-messages", "", "File with message IDs to ignore, one per line")
	cmd.Flags().StringVar(&opts.ignoreAttFile, "ignore-attachments", "", "File with attachment fingerprints to ignore, one per line")
	cmd.Flags().StringVar(&opts.ignoreBlkFile, "ignore-blocks", "", "File with text blocks to strip, separated by blank lines")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "Optional .env file providing MAILCOMPACT_* defaults")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")

	return cmd
}

// applyEnvDefaults lets MAILCOMPACT_* environment variables (possibly loaded
// from --env-file) provide values for flags the user did not set explicitly.
func applyEnvDefaults(cmd *cobra.Command, opts *compactOptions) {
	bindings := []struct {
		env    string
		flag   string
		target *string
	}{
		{"MAILCOMPACT_INPUT", "input", &opts.input},
		{"MAILCOMPACT_OUT_DIR", "out-dir", &opts.outDir},
		{"MAILCOMPACT_ATTACHMENTS_DIR", "attachments-dir", &opts.attachmentsDir},
		{"MAILCOMPACT_RULES", "rules", &opts.rulesFile},
		{"MAILCOMPACT_ALIASES", "aliases", &opts.aliasFile},
		{"MAILCOMPACT_IGNORE_MESSAGES", "ignore-messages", &opts.ignoreMsgFile},
		{"MAILCOMPACT_IGNORE_ATTACHMENTS", "ignore-attachments", &opts.ignoreAttFile},
		{"MAILCOMPACT_IGNORE_BLOCKS", "ignore-blocks", &opts.ignoreBlkFile},
	}
	for _, b := range bindings {
		if cmd.Flags().Changed(b.flag) {
			continue
		}
		if v := os.Getenv(b.env); v != "" {
			*b.target = v
		}
	}
}

func runCompact(opts *compactOptions) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	log := logging.NewSlogAdapter(logging.WithOperation(logger, "compact"))

	rules, err := config.LoadRules(opts.rulesFile)
	if err != nil {
		return err
	}
	aliases, err := config.LoadAliases(opts.aliasFile)
	if err != nil {
		return err
	}
	ignoredMessages, err := config.LoadSet(opts.ignoreMsgFile)
	if err != nil {
		return err
	}
	ignoredFingerprints, err := config.LoadSet(opts.ignoreAttFile)
	if err != nil {
		return err
	}
	blocks, err := config.LoadBlocks(opts.ignoreBlkFile)
	if err != nil {
		return err
	}

	filter, err := textfilter.New(rules, blocks)
	if err != nil {
		return err
	}

	threads, err := corpus.Load(opts.input)
	if err != nil {
		return err
	}
	log.Info("corpus loaded", "threads", len(threads))

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir %s: %w", opts.outDir, err)
	}

	canon := attach.NewCanonicalizer(filepath.Join(opts.outDir, opts.attachmentsDir), ignoredFingerprints, log)
	if err := canon.PrepareOutputDir(); err != nil {
		return err
	}

	builder := &transcript.Builder{
		Filter:          filter,
		Aliases:         alias.New(aliases),
		Attachments:     canon,
		IgnoredMessages: ignoredMessages,
		Log:             log,
	}
	out := builder.Run(threads)

	llmPath := filepath.Join(opts.outDir, llmTranscriptFile)
	if err := os.WriteFile(llmPath, []byte(out.LLM), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", llmPath, err)
	}
	humanPath := filepath.Join(opts.outDir, humanTranscriptFile)
	if err := os.WriteFile(humanPath, []byte(out.Human), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", humanPath, err)
	}
	csvPath := filepath.Join(opts.outDir, timelineCSVFile)
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", csvPath, err)
	}
	if err := out.WriteCSV(csvFile); err != nil {
		csvFile.Close()
		return err
	}
	if err := csvFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", csvPath, err)
	}

	attStats := canon.Stats()
	log.Info("transcripts generated",
		"threads", out.Stats.Threads,
		"messages", out.Stats.Messages,
		"ignored_messages", out.Stats.IgnoredMessages,
		"llm_entries", out.Stats.LLMEntries,
		"llm_size", humanize.Bytes(uint64(len(out.LLM))),
		"human_size", humanize.Bytes(uint64(len(out.Human))),
	)
	log.Info("attachments processed",
		"exported", attStats.Exported,
		"deduplicated", attStats.Duplicates,
		"skipped_missing", attStats.SkippedMissing,
		"skipped_ignored", attStats.SkippedIgnored,
		"skipped_junk", attStats.SkippedJunk,
		"bytes_written", humanize.Bytes(uint64(attStats.BytesWritten)),
	)
	return nil
}
