package cli

import (
	"scriba/internal/logging"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scriba",
	Short: "Generate SRT subtitles from video and audio files",
	Long: `Scriba turns video and audio files into SRT subtitle files.

Audio is extracted with ffmpeg, split into chunks when it exceeds the
upload limit, and transcribed with the Whisper API.`,
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
		StringP("language", "l", "", "Language code (e.g., it, en, es)")
}
