package quantize

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pianoscribe/pianoscribe/constants"
	"github.com/pianoscribe/pianoscribe/model"
)

// ErrNotImplemented is returned by strategies that are declared but
// not built yet.
var ErrNotImplemented = errors.New("reference-guided quantization is not yet implemented")

// Strategy aligns raw note events onto a rhythmic grid.
type Strategy interface {
	Quantize(events []model.NoteEvent) ([]model.QuantizedEvent, error)
}

// FixedGrid snaps every event to a constant-tempo eighth-note grid.
// The zero value uses the default tempo.
type FixedGrid struct {
	BPM float64
}

func (f FixedGrid) Quantize(events []model.NoteEvent) ([]model.QuantizedEvent, error) {
	if err := ValidateEvents(events); err != nil {
		return nil, err
	}

	bpm := f.BPM
	if bpm == 0 {
		bpm = constants.DefaultBPM
	}
	grid := GridUnit(bpm)

	res := make([]model.QuantizedEvent, 0, len(events))
	for _, e := range events {
		res = append(res, quantizeEvent(e, grid))
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Onset != res[j].Onset {
			return res[i].Onset < res[j].Onset
		}
		return res[i].Pitch < res[j].Pitch
	})
	return res, nil
}

// ReferenceGuided would align events against the rhythmic grid of an
// external reference score. The reference must exist at construction
// time; quantization itself is an unbuilt extension point and always
// fails.
type ReferenceGuided struct {
	ReferencePath string
}

func NewReferenceGuided(referencePath string) (*ReferenceGuided, error) {
	if _, err := os.Stat(referencePath); err != nil {
		return nil, fmt.Errorf("reference score not found: %v", referencePath)
	}
	return &ReferenceGuided{ReferencePath: referencePath}, nil
}

func (r *ReferenceGuided) Quantize(events []model.NoteEvent) ([]model.QuantizedEvent, error) {
	return nil, ErrNotImplemented
}
