package constants

import (
	"os"
	"time"
)

func GetDataDir() string {
	path := os.Getenv("DATA_PATH")
	if path != "" {
		return path
	}
	return "./data"
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8000"
}

// GetMetadataTable returns the DynamoDB table for track metadata,
// or "" when metadata lookups are disabled.
func GetMetadataTable() string {
	return os.Getenv("METADATA_TABLE")
}

func GetMetadataRegion() string {
	region := os.Getenv("METADATA_REGION")
	if region != "" {
		return region
	}
	return "us-east-1"
}

// GetMetadataEndpoint is only set for local DynamoDB instances.
func GetMetadataEndpoint() string {
	return os.Getenv("METADATA_ENDPOINT")
}

// DefaultBPM is assumed whenever a file carries no tempo information.
const DefaultBPM = 120

// One grid unit is an eighth note, so a 4/4 measure holds 8 of them
// and 4 measures share a rendered line.
const BeatsPerMeasure = 8
const MeasuresPerLine = 4

// StandardLengths are the renderable note/rest durations in grid
// units, descending. Snap and DecomposeGap scan it in this order.
var StandardLengths = [...]int{32, 24, 16, 12, 8, 6, 4, 3, 2, 1}

// MaxStaleAge is how long uploads and outputs stick around before
// cleanup removes them.
const MaxStaleAge = time.Hour
