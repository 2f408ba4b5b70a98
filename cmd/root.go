package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pianoscribe",
	Short: "Piano note recognizer",
	Long:  `Converts recorded piano note events (via MIDI files) into ABC notation.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
