package cmd

import (
	"fmt"

	"codeshare/pkg/contextgen"
	"codeshare/pkg/logging"
	"codeshare/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile       string
	outputPath    string
	promptText    string
	maxChars      int
	selectedFile  string
	copyClipboard bool
	countTokens   bool
	workers       int
	noGitignore   bool
	debug         bool

	rootLogger *zap.Logger
)

// RootCmd is the base command: it generates a context document for the
// given path (default: current directory).
var RootCmd = &cobra.Command{
	Use:   "codeshare [path]",
	Short: "codeshare generates a shareable code-context document",
	Long: `codeshare walks a project directory (or a single file), filters it through
exclusion rules, and assembles one markdown document with the project
structure, size-bounded file contents, and your prompt, ready to paste
into an LLM chat.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

// Execute wires the logger into the command tree and runs it.
func Execute(logger *zap.Logger) error {
	rootLogger = logger
	return RootCmd.Execute()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if debug {
		if err := logging.Setup(true, "codeshare", version.Get().Version); err != nil {
			return fmt.Errorf("setting up debug logging: %w", err)
		}
		rootLogger = logging.Logger
	}

	cfg, err := contextgen.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if noGitignore {
		cfg.UseGitignore = false
	}

	rootPath := "."
	if len(args) == 1 {
		rootPath = args[0]
	}

	result, err := contextgen.Generate(contextgen.Request{
		RootPath:     rootPath,
		SelectedPath: selectedFile,
		Prompt:       promptText,
		MaxChars:     maxChars,
		Output:       outputPath,
		Clipboard:    copyClipboard,
		Tokens:       countTokens,
		Workers:      workers,
	}, cfg, rootLogger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s (%d files", result.OutputPath, result.FilesIncluded)
	if result.TruncatedFiles > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), ", %d truncated", result.TruncatedFiles)
	}
	if result.Tokens >= 0 {
		fmt.Fprintf(cmd.OutOrStdout(), ", ~%d tokens", result.Tokens)
	}
	fmt.Fprintln(cmd.OutOrStdout(), ")")
	for _, warning := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", warning)
	}
	return nil
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a codeshare.yaml settings file")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	RootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default from config, context.md)")
	RootCmd.Flags().StringVarP(&promptText, "prompt", "p", "", "Prompt text appended to the document")
	RootCmd.Flags().IntVar(&maxChars, "max-chars", 0, "Character limit per file (overrides config)")
	RootCmd.Flags().StringVar(&selectedFile, "file", "", "Extract content from only this file; path stays the project root")
	RootCmd.Flags().BoolVarP(&copyClipboard, "clipboard", "c", false, "Also copy the document to the clipboard")
	RootCmd.Flags().BoolVar(&countTokens, "tokens", false, "Include a token estimate in the statistics")
	RootCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent extraction workers (overrides config)")
	RootCmd.Flags().BoolVar(&noGitignore, "no-gitignore", false, "Ignore the project's .gitignore rules")
}
