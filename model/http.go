package model

type Summary struct {
	NumNotes        int       `json:"num_notes"`
	DurationSeconds float64   `json:"duration_seconds"`
	PitchRange      []string  `json:"pitch_range"`
	TimeSpan        []float64 `json:"time_span"`
}

type TranscribeResponse struct {
	JobId   string  `json:"job_id"`
	MidiUrl string  `json:"midi_url"`
	AbcUrl  string  `json:"abc_url"`
	Summary Summary `json:"summary"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
