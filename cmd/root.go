package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scoreconv",
	Short: "Score conversion tools",
	Long:  `Converts pixel-positioned JSON scores to MusicXML and back, with a tolerance-aware comparator.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
