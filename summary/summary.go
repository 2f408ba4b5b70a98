package summary

import (
	"github.com/pianoscribe/pianoscribe/model"
	"github.com/pianoscribe/pianoscribe/pitch"
	"github.com/pianoscribe/pianoscribe/util"
)

// Build summarizes detected notes for API responses and CLI output.
func Build(events []model.NoteEvent) model.Summary {
	if len(events) == 0 {
		return model.Summary{
			PitchRange: []string{},
			TimeSpan:   []float64{},
		}
	}

	minStart := events[0].StartTime
	maxEnd := events[0].EndTime
	lowest := events[0].Pitch
	highest := events[0].Pitch
	for _, e := range events[1:] {
		minStart = util.Min(minStart, e.StartTime)
		maxEnd = util.Max(maxEnd, e.EndTime)
		lowest = util.Min(lowest, e.Pitch)
		highest = util.Max(highest, e.Pitch)
	}

	return model.Summary{
		NumNotes:        len(events),
		DurationSeconds: util.Round2(maxEnd - minStart),
		PitchRange:      []string{pitch.Name(lowest), pitch.Name(highest)},
		TimeSpan:        []float64{util.Round2(minStart), util.Round2(maxEnd)},
	}
}
