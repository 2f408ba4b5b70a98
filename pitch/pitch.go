package pitch

import (
	"fmt"
	"strings"
)

// ABC spellings for the 12 pitch classes, sharps only since the score
// is always emitted in K:C.
var abcNames = [12]string{"C", "^C", "D", "^D", "E", "F", "^F", "G", "^G", "A", "^A", "B"}

var plainNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Encode maps a MIDI pitch (0-127) to its ABC token. Octave 4 is the
// bare uppercase letter; lower octaves add trailing commas, octave 5
// is lowercase and higher octaves add trailing apostrophes.
func Encode(p uint8) string {
	octave := int(p)/12 - 1
	name := abcNames[p%12]

	var b strings.Builder
	if octave <= 4 {
		b.WriteString(name)
		for i := 0; i < 4-octave; i++ {
			b.WriteByte(',')
		}
	} else {
		// lowercasing leaves a leading sharp marker untouched
		b.WriteString(strings.ToLower(name))
		for i := 0; i < octave-5; i++ {
			b.WriteByte('\'')
		}
	}
	return b.String()
}

// Name returns the human-readable note name, e.g. "C4" or "F#3".
func Name(p uint8) string {
	return fmt.Sprintf("%v%v", plainNames[p%12], int(p)/12-1)
}
