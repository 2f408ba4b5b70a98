package quantize

import (
	"fmt"
	"math"

	"github.com/pianoscribe/pianoscribe/constants"
	"github.com/pianoscribe/pianoscribe/model"
)

// GridUnit is the length of one eighth note in seconds at the given
// tempo.
func GridUnit(bpm float64) float64 {
	return 60 / bpm / 2
}

// Snap returns the standard length closest to value. The table is
// scanned in descending order with a strict comparison, so when two
// entries are equally close the larger one wins.
func Snap(value float64) int {
	best := constants.StandardLengths[0]
	bestDist := math.Abs(value - float64(best))
	for _, l := range constants.StandardLengths[1:] {
		d := math.Abs(value - float64(l))
		if d < bestDist {
			best = l
			bestDist = d
		}
	}
	return best
}

// DecomposeGap splits a gap into standard rest lengths, largest first.
// The table ends in 1 so every positive gap decomposes exactly.
func DecomposeGap(remaining int) []int {
	var res []int
	for remaining > 0 {
		chunk := 1
		for _, l := range constants.StandardLengths {
			if l <= remaining {
				chunk = l
				break
			}
		}
		res = append(res, chunk)
		remaining -= chunk
	}
	return res
}

// ValidateEvents rejects malformed input before it enters the
// pipeline: pitches beyond 127, negative times, ends before starts.
func ValidateEvents(events []model.NoteEvent) error {
	for i, e := range events {
		if e.Pitch > 127 {
			return fmt.Errorf("event %v: pitch %v out of range 0..127", i, e.Pitch)
		}
		if e.StartTime < 0 {
			return fmt.Errorf("event %v: negative start time %v", i, e.StartTime)
		}
		if e.EndTime < e.StartTime {
			return fmt.Errorf("event %v: end time %v before start time %v", i, e.EndTime, e.StartTime)
		}
	}
	return nil
}

// quantizeEvent snaps one event onto the grid. Seconds-to-units
// rounding is round-half-to-even, pinned by tests.
func quantizeEvent(e model.NoteEvent, grid float64) model.QuantizedEvent {
	onset := int(math.RoundToEven(e.StartTime / grid))
	if onset < 0 {
		onset = 0
	}
	duration := int(math.RoundToEven((e.EndTime - e.StartTime) / grid))
	if duration < 1 {
		duration = 1
	}
	return model.QuantizedEvent{
		Onset:    onset,
		Duration: Snap(float64(duration)),
		Pitch:    e.Pitch,
	}
}

// GroupByOnset buckets quantized events into chord groups.
func GroupByOnset(events []model.QuantizedEvent) model.ChordGroups {
	groups := make(model.ChordGroups)
	for _, e := range events {
		groups[e.Onset] = append(groups[e.Onset], e)
	}
	return groups
}
