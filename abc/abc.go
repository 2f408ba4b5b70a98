package abc

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pianoscribe/pianoscribe/constants"
	"github.com/pianoscribe/pianoscribe/model"
	"github.com/pianoscribe/pianoscribe/pitch"
	"github.com/pianoscribe/pianoscribe/quantize"
	"github.com/pianoscribe/pianoscribe/util"
)

const (
	barline    = "|"
	lineBreak  = "|\n"
	closing    = "|]"
	restLetter = "z"

	defaultTitle = "Transcription"
)

// Options control a single conversion. Zero values mean the default
// title, the default tempo, and the fixed-grid strategy.
type Options struct {
	Title    string
	BPM      float64
	Strategy quantize.Strategy
}

// renderState tracks the measure position while tokens are emitted.
// beatInMeasure stays below constants.BeatsPerMeasure after every
// advance; measureCount only grows.
type renderState struct {
	currentPosition int
	beatInMeasure   int
	measureCount    int
}

// advance consumes length grid units and returns the barline markers
// crossed, if any. Every MeasuresPerLine-th barline becomes a line
// break.
func (s *renderState) advance(length int) []string {
	s.beatInMeasure += length
	var marks []string
	for s.beatInMeasure >= constants.BeatsPerMeasure {
		s.beatInMeasure -= constants.BeatsPerMeasure
		s.measureCount++
		if s.measureCount%constants.MeasuresPerLine == 0 {
			marks = append(marks, lineBreak)
		} else {
			marks = append(marks, barline)
		}
	}
	return marks
}

// bodyWriter joins tokens with single spaces, except that barline
// markers attach directly to the previous token and nothing leads a
// fresh line.
type bodyWriter struct {
	b    strings.Builder
	last string
}

func (w *bodyWriter) write(token string) {
	switch token {
	case barline, lineBreak, closing:
		w.b.WriteString(token)
	default:
		if w.last != "" && w.last != lineBreak {
			w.b.WriteString(" ")
		}
		w.b.WriteString(token)
	}
	w.last = token
}

func (w *bodyWriter) String() string {
	return w.b.String()
}

func durationSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return strconv.Itoa(n)
}

// groupToken renders one chord group and returns its representative
// duration. When members disagree on length the shortest wins, so
// longer co-starting notes come out truncated. Known limitation.
func groupToken(group []model.QuantizedEvent) (int, string) {
	duration := group[0].Duration
	seen := make(map[uint8]bool)
	var pitches []uint8
	for _, e := range group {
		duration = util.Min(duration, e.Duration)
		if !seen[e.Pitch] {
			seen[e.Pitch] = true
			pitches = append(pitches, e.Pitch)
		}
	}
	sort.Slice(pitches, func(i, j int) bool {
		return pitches[i] < pitches[j]
	})

	if len(pitches) == 1 {
		return duration, pitch.Encode(pitches[0]) + durationSuffix(duration)
	}

	var b strings.Builder
	b.WriteString("[")
	for _, p := range pitches {
		b.WriteString(pitch.Encode(p))
	}
	b.WriteString("]")
	b.WriteString(durationSuffix(duration))
	return duration, b.String()
}

func header(title string, bpm float64) string {
	return fmt.Sprintf("X:1\nT:%v\nM:4/4\nL:1/8\nQ:1/4=%v\nK:C\n", title, int(math.Round(bpm)))
}

// Render converts note events to a complete ABC score. Empty input
// yields a one-measure-of-rest skeleton.
func Render(events []model.NoteEvent, opts Options) (string, error) {
	title := opts.Title
	if title == "" {
		title = defaultTitle
	}
	bpm := opts.BPM
	if bpm == 0 {
		bpm = constants.DefaultBPM
	}

	if len(events) == 0 {
		return header(title, bpm) + restLetter + strconv.Itoa(constants.BeatsPerMeasure) + closing + "\n", nil
	}

	strategy := opts.Strategy
	if strategy == nil {
		strategy = quantize.FixedGrid{BPM: bpm}
	}
	quantized, err := strategy.Quantize(events)
	if err != nil {
		return "", err
	}

	groups := quantize.GroupByOnset(quantized)
	onsets := util.GetKeys(groups)
	sort.Ints(onsets)

	var w bodyWriter
	var state renderState
	for _, onset := range onsets {
		if gap := onset - state.currentPosition; gap > 0 {
			for _, chunk := range quantize.DecomposeGap(gap) {
				w.write(restLetter + durationSuffix(chunk))
				for _, mark := range state.advance(chunk) {
					w.write(mark)
				}
			}
		}

		duration, token := groupToken(groups[onset])
		w.write(token)
		for _, mark := range state.advance(duration) {
			w.write(mark)
		}
		state.currentPosition = onset + duration
	}

	if w.last != barline && w.last != lineBreak {
		w.write(closing)
	}

	body := w.String()
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return header(title, bpm) + body, nil
}
