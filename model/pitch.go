package model

import (
	"fmt"
	"strconv"
	"strings"
)

var noteOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

var sharpNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NameToMidi converts a pitch name like "C4", "F#3", "B-2" or "Bb2" to a
// MIDI note number (C4 = 60). Both "b"/"-" flats and "#" sharps are
// accepted, with double accidentals.
func NameToMidi(name string) (int, error) {
	if len(name) < 2 {
		return 0, fmt.Errorf("pitch name too short: %q", name)
	}

	letter := name[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	semitone, ok := noteOffsets[letter]
	if !ok {
		return 0, fmt.Errorf("invalid pitch letter in %q", name)
	}

	idx := 1
	for idx < len(name) && (name[idx] == '#' || name[idx] == 'b' || name[idx] == '-') {
		if name[idx] == '#' {
			semitone++
		} else {
			semitone--
		}
		idx++
	}

	if idx >= len(name) {
		return 0, fmt.Errorf("missing octave in pitch name %q", name)
	}
	octave, err := strconv.Atoi(name[idx:])
	if err != nil {
		return 0, fmt.Errorf("invalid octave in pitch name %q", name)
	}

	midi := (octave+1)*12 + semitone
	if midi < 0 {
		midi = 0
	}
	if midi > 127 {
		midi = 127
	}
	return midi, nil
}

// MidiToName renders a MIDI number with sharp spelling ("C#4").
func MidiToName(midi int) string {
	octave := midi/12 - 1
	return sharpNames[midi%12] + strconv.Itoa(octave)
}

// SamePitch reports enharmonic equivalence: the names may differ (G#4 vs
// Ab4) as long as they denote the same MIDI number.
func SamePitch(name1, name2 string) bool {
	if strings.EqualFold(name1, name2) {
		return true
	}
	m1, err1 := NameToMidi(name1)
	m2, err2 := NameToMidi(name2)
	return err1 == nil && err2 == nil && m1 == m2
}
