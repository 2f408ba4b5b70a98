package model

// TrackMetadata is the optional stored metadata for an uploaded file.
type TrackMetadata struct {
	Title   string
	Artist  string
	Release string
	Year    uint
}
