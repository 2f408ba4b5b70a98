package model

// NoteEvent is a single detected note with times in seconds.
type NoteEvent struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Pitch     uint8   `json:"pitch"`
	Velocity  uint8   `json:"velocity"`
}

// QuantizedEvent is a note snapped onto the eighth-note grid.
// Onset and Duration are counts of grid units.
type QuantizedEvent struct {
	Onset    int
	Duration int
	Pitch    uint8
}

// ChordGroups buckets quantized events by onset. Notes sharing an
// onset render as one chord token.
type ChordGroups = map[int][]QuantizedEvent
