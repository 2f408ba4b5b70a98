package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pianoscribe/pianoscribe/midifile"
	"github.com/pianoscribe/pianoscribe/pitch"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.mid>",
	Short: "Dumps the note events of a MIDI file",
	Long:  `Dumps the note events of a MIDI file`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inspect(args[0])
	},
}

func inspect(path string) {
	parsed, err := midifile.ReadFile(path)
	if err != nil {
		panic("Could not read " + path + " because: " + err.Error())
	}

	fmt.Printf("bpm: %v\n", midifile.DetectBPM(parsed))
	for _, e := range midifile.NoteEvents(parsed) {
		fmt.Printf("%8.3fs %8.3fs  %-4v vel=%v\n",
			e.StartTime, e.EndTime, pitch.Name(e.Pitch), e.Velocity)
	}
}
