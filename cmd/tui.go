package cmd

import (
	"codeshare/pkg/contextgen"
	"codeshare/pkg/tui"

	"github.com/spf13/cobra"
)

// tuiCmd launches the interactive terminal front-end.
var tuiCmd = &cobra.Command{
	Use:   "tui [path]",
	Short: "Browse a project interactively and generate context documents",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := contextgen.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		if noGitignore {
			cfg.UseGitignore = false
		}

		startPath := "."
		if len(args) == 1 {
			startPath = args[0]
		}
		return tui.Run(startPath, cfg, rootLogger)
	},
}

func init() {
	tuiCmd.Flags().BoolVar(&noGitignore, "no-gitignore", false, "Ignore the project's .gitignore rules")
	RootCmd.AddCommand(tuiCmd)
}
