package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pianoscribe/pianoscribe/abc"
	"github.com/pianoscribe/pianoscribe/midifile"
	"github.com/pianoscribe/pianoscribe/model"
	"github.com/pianoscribe/pianoscribe/quantize"
	"github.com/pianoscribe/pianoscribe/summary"
)

var convertOutput string
var convertTitle string
var convertReference string
var convertMidiOut string

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "path for the ABC output (default: <input stem>.abc)")
	convertCmd.Flags().StringVar(&convertTitle, "title", "", "title for the ABC header")
	convertCmd.Flags().StringVar(&convertReference, "reference", "", "reference score to quantize against (experimental)")
	convertCmd.Flags().StringVar(&convertMidiOut, "midi-out", "", "also write the normalized MIDI to this path")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <input.mid>",
	Short: "Converts a MIDI file to ABC notation",
	Long:  `Converts a MIDI file to ABC notation`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		convert(args[0])
	},
}

func convert(input string) {
	parsed, err := midifile.ReadFile(input)
	if err != nil {
		panic("Could not read " + input + " because: " + err.Error())
	}
	events := midifile.NoteEvents(parsed)
	bpm := midifile.DetectBPM(parsed)

	var strategy quantize.Strategy
	if convertReference != "" {
		strategy, err = quantize.NewReferenceGuided(convertReference)
		if err != nil {
			panic("Could not use reference because: " + err.Error())
		}
	}

	text, err := abc.Render(events, abc.Options{
		Title:    convertTitle,
		BPM:      bpm,
		Strategy: strategy,
	})
	if err != nil {
		panic("Could not render ABC because: " + err.Error())
	}

	output := convertOutput
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".abc"
	}
	if err := os.WriteFile(output, []byte(text), 0666); err != nil {
		panic("Could not write " + output + " because: " + err.Error())
	}
	fmt.Printf("ABC saved to: %v\n", output)

	if convertMidiOut != "" {
		if err := midifile.WriteFile(convertMidiOut, events, bpm); err != nil {
			panic("Could not write " + convertMidiOut + " because: " + err.Error())
		}
		fmt.Printf("MIDI saved to: %v\n", convertMidiOut)
	}

	printSummary(events)
}

func printSummary(events []model.NoteEvent) {
	s := summary.Build(events)
	line := strings.Repeat("=", 56)

	fmt.Println()
	fmt.Println(line)
	fmt.Println("  Piano Transcription Summary")
	fmt.Println(line)
	if s.NumNotes == 0 {
		fmt.Println("  WARNING: No notes found in the file.")
	} else {
		fmt.Printf("  Notes detected : %v\n", s.NumNotes)
		fmt.Printf("  Time span      : %vs - %vs (%vs)\n", s.TimeSpan[0], s.TimeSpan[1], s.DurationSeconds)
		fmt.Printf("  Pitch range    : %v - %v\n", s.PitchRange[0], s.PitchRange[1])
	}
	fmt.Println(line)
	fmt.Println()
}
