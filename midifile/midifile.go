package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/pianoscribe/pianoscribe/constants"
	"github.com/pianoscribe/pianoscribe/model"
)

const ticksPerQuarter = 960

func ReadFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF
	var err error

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)

	if err != nil {
		errText := fmt.Sprintf("Error reading midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))

	if err != nil {
		errText := fmt.Sprintf("Error parsing midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}

	return res, nil
}

// DetectBPM returns the tempo of the file's first tempo change, or
// the default when the file carries none.
func DetectBPM(s *smf.SMF) float64 {
	changes := s.TempoChanges()
	if len(changes) > 0 {
		return changes[0].BPM
	}
	return constants.DefaultBPM
}

type openNote struct {
	start    float64
	velocity uint8
}

// NoteEvents flattens every track's note on/off pairs into note
// events with times in seconds, sorted by (start, pitch). Unclosed
// notes are dropped.
func NoteEvents(s *smf.SMF) []model.NoteEvent {
	var events []model.NoteEvent

	for _, track := range s.Tracks {
		var absTicks int64
		pressed := make(map[uint8]openNote)
		for _, event := range track {
			absTicks += int64(event.Delta)
			secs := float64(s.TimeAt(absTicks)) / 1e6
			var channel uint8
			var key uint8
			var velocity uint8
			switch {
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				pressed[key] = openNote{start: secs, velocity: velocity}
			case event.Message.GetNoteEnd(&channel, &key):
				if open, ok := pressed[key]; ok {
					delete(pressed, key)
					events = append(events, model.NoteEvent{
						StartTime: open.start,
						EndTime:   secs,
						Pitch:     key,
						Velocity:  open.velocity,
					})
				}
			}
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].StartTime != events[j].StartTime {
			return events[i].StartTime < events[j].StartTime
		}
		return events[i].Pitch < events[j].Pitch
	})
	return events
}

type noteBoundary struct {
	tick     uint32
	isOff    bool
	key      uint8
	velocity uint8
}

// WriteFile renders note events back to a single-track SMF at a
// constant tempo.
func WriteFile(filepath string, events []model.NoteEvent, bpm float64) error {
	if bpm == 0 {
		bpm = constants.DefaultBPM
	}
	secsPerTick := 60 / bpm / ticksPerQuarter

	var bounds []noteBoundary
	for _, e := range events {
		velocity := e.Velocity
		if velocity == 0 {
			// a zero-velocity note on would read back as a note off
			velocity = 100
		}
		bounds = append(bounds, noteBoundary{
			tick:     uint32(math.Round(e.StartTime / secsPerTick)),
			key:      e.Pitch,
			velocity: velocity,
		})
		bounds = append(bounds, noteBoundary{
			tick:  uint32(math.Round(e.EndTime / secsPerTick)),
			isOff: true,
			key:   e.Pitch,
		})
	}

	// offs before ons at the same tick so repeated notes restart
	sort.Slice(bounds, func(i, j int) bool {
		if bounds[i].tick != bounds[j].tick {
			return bounds[i].tick < bounds[j].tick
		}
		return bounds[i].isOff && !bounds[j].isOff
	})

	out := smf.New()
	out.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaMeter(4, 4))
	track.Add(0, smf.MetaTempo(bpm))
	var lastTick uint32
	for _, b := range bounds {
		delta := b.tick - lastTick
		lastTick = b.tick
		if b.isOff {
			track.Add(delta, midi.NoteOff(0, b.key))
		} else {
			track.Add(delta, midi.NoteOn(0, b.key, b.velocity))
		}
	}
	track.Close(0)

	if err := out.Add(track); err != nil {
		return err
	}
	return out.WriteFile(filepath)
}
