package cli

import (
	"rosettasub/internal/logging"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rosettasub",
	Short: "Subtitle service for audio and video files",
	Long: `Rosettasub turns the speech in an audio or video file into a WebVTT
caption document and can translate existing caption documents into another
language using AI.

Run it as an HTTP backend with "rosettasub serve", or use the generate and
translate commands directly on local files.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "auto", "Source language short code, or auto to detect")
}
