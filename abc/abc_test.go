package abc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pianoscribe/pianoscribe/model"
	"github.com/pianoscribe/pianoscribe/quantize"
)

func TestRenderEmptyInput(t *testing.T) {
	text, err := Render(nil, Options{})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("X:1\nT:Transcription\nM:4/4\nL:1/8\nQ:1/4=120\nK:C\nz8|]\n", text)
}

func TestRenderSingleMiddleC(t *testing.T) {
	events := []model.NoteEvent{
		{StartTime: 0, EndTime: 0.5, Pitch: 60, Velocity: 100},
	}

	text, err := Render(events, Options{BPM: 120})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("X:1\nT:Transcription\nM:4/4\nL:1/8\nQ:1/4=120\nK:C\nC2|]\n", text)
}

func TestRenderUsesTitleAndTempo(t *testing.T) {
	events := []model.NoteEvent{
		{StartTime: 0, EndTime: 1, Pitch: 69, Velocity: 80},
	}

	text, err := Render(events, Options{Title: "Moonlight", BPM: 90.4})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Contains(text, "T:Moonlight\n")
	assert.Contains(text, "Q:1/4=90\n")
}

func TestAdvanceEmitsBarlinePerMeasure(t *testing.T) {
	var state renderState
	var marks []string
	for i := 0; i < 2; i++ {
		marks = append(marks, state.advance(8)...)
	}

	assert := assert.New(t)
	assert.Equal([]string{"|", "|"}, marks)
	assert.Equal(2, state.measureCount)
	assert.Equal(0, state.beatInMeasure)
}

func TestAdvanceEmitsLineBreakEveryFourthMeasure(t *testing.T) {
	var state renderState
	var marks []string
	for i := 0; i < 4; i++ {
		marks = append(marks, state.advance(8)...)
	}

	assert := assert.New(t)
	assert.Equal([]string{"|", "|", "|", "|\n"}, marks)
}

func TestAdvanceSplitsOversizedToken(t *testing.T) {
	var state renderState
	marks := state.advance(17)

	assert := assert.New(t)
	assert.Equal([]string{"|", "|"}, marks)
	assert.Equal(1, state.beatInMeasure)
}

func TestChordTruncatesToShortestDuration(t *testing.T) {
	// one eighth and one half note start together; the chord renders
	// with the shorter length
	events := []model.NoteEvent{
		{StartTime: 0, EndTime: 0.25, Pitch: 60, Velocity: 100},
		{StartTime: 0, EndTime: 1.0, Pitch: 64, Velocity: 100},
	}

	text, err := Render(events, Options{BPM: 120})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Contains(text, "[CE]|]")
	assert.NotContains(text, "[CE]4")
}

func TestChordDeduplicatesAndSortsPitches(t *testing.T) {
	events := []model.NoteEvent{
		{StartTime: 0, EndTime: 0.5, Pitch: 67, Velocity: 100},
		{StartTime: 0, EndTime: 0.5, Pitch: 60, Velocity: 100},
		{StartTime: 0, EndTime: 0.5, Pitch: 60, Velocity: 90},
		{StartTime: 0, EndTime: 0.5, Pitch: 64, Velocity: 100},
	}

	text, err := Render(events, Options{BPM: 120})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Contains(text, "[CEG]2|]")
}

func TestRestSplitsAcrossBarline(t *testing.T) {
	// a note starting 10 grid units in needs a full-measure rest plus
	// a quarter rest, with the barline between them
	events := []model.NoteEvent{
		{StartTime: 2.5, EndTime: 3.0, Pitch: 60, Velocity: 100},
	}

	text, err := Render(events, Options{BPM: 120})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("X:1\nT:Transcription\nM:4/4\nL:1/8\nQ:1/4=120\nK:C\nz8| z2 C2|]\n", text)
}

func TestRenderBreaksLineAfterFourMeasures(t *testing.T) {
	var events []model.NoteEvent
	for i := 0; i < 16; i++ {
		events = append(events, model.NoteEvent{
			StartTime: float64(i) * 0.5,
			EndTime:   float64(i)*0.5 + 0.5,
			Pitch:     60,
			Velocity:  100,
		})
	}

	text, err := Render(events, Options{BPM: 120})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(
		"X:1\nT:Transcription\nM:4/4\nL:1/8\nQ:1/4=120\nK:C\n"+
			"C2 C2 C2 C2| C2 C2 C2 C2| C2 C2 C2 C2| C2 C2 C2 C2|\n",
		text)
}

func TestRenderPropagatesStrategyError(t *testing.T) {
	reference := filepath.Join(t.TempDir(), "reference.abc")
	if err := os.WriteFile(reference, []byte("X:1\nK:C\n"), 0666); err != nil {
		panic(err.Error())
	}
	strategy, err := quantize.NewReferenceGuided(reference)
	if err != nil {
		panic(err.Error())
	}

	events := []model.NoteEvent{
		{StartTime: 0, EndTime: 0.5, Pitch: 60, Velocity: 100},
	}
	text, err := Render(events, Options{BPM: 120, Strategy: strategy})

	assert := assert.New(t)
	assert.True(errors.Is(err, quantize.ErrNotImplemented))
	assert.Equal("", text)
}
