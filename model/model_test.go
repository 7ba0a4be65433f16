package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameToMidi(t *testing.T) {
	assert := assert.New(t)
	cases := []struct {
		name string
		midi int
	}{
		{"C4", 60},
		{"A4", 69},
		{"F#3", 54},
		{"B-2", 46},
		{"Bb2", 46},
		{"G##4", 69},
		{"c4", 60},
	}
	for _, c := range cases {
		midi, err := NameToMidi(c.name)
		assert.NoError(err)
		assert.Equal(c.midi, midi, c.name)
	}
}

func TestNameToMidiRejectsGarbage(t *testing.T) {
	assert := assert.New(t)
	for _, name := range []string{"", "C", "H4", "C#", "Cx"} {
		_, err := NameToMidi(name)
		assert.Error(err, name)
	}
}

func TestMidiToNameUsesSharpSpelling(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("C4", MidiToName(60))
	assert.Equal("C#4", MidiToName(61))
	assert.Equal("A0", MidiToName(21))
}

func TestSamePitchIsEnharmonic(t *testing.T) {
	assert := assert.New(t)
	assert.True(SamePitch("G#4", "A-4"))
	assert.True(SamePitch("G#4", "Ab4"))
	assert.True(SamePitch("c4", "C4"))
	assert.False(SamePitch("G#4", "A4"))
}

func TestReadRejectsInvalidDocuments(t *testing.T) {
	assert := assert.New(t)

	_, err := Read(strings.NewReader("not json"))
	assert.Error(err)

	_, err = Read(strings.NewReader(`{"measures": []}`))
	assert.Error(err)

	// A pitched note without a name.
	doc := `{"measures": [{"number": 1, "notes": [
		{"pitchMidiNote": 60, "durationBeats": 1}
	]}]}`
	_, err = Read(strings.NewReader(doc))
	assert.Error(err)

	doc = `{"measures": [{"number": 1, "notes": [
		{"pitchName": "C4", "pitchMidiNote": 200, "durationBeats": 1}
	]}]}`
	_, err = Read(strings.NewReader(doc))
	assert.Error(err)
}

func TestReadRenumbersNonContiguousMeasures(t *testing.T) {
	assert := assert.New(t)
	doc := `{"measures": [{"number": 3, "notes": []}, {"number": 7, "notes": []}]}`
	s, err := Read(strings.NewReader(doc))
	assert.NoError(err)
	assert.Equal(1, s.Measures[0].Number)
	assert.Equal(2, s.Measures[1].Number)
}

func TestNoteRestAndMidi(t *testing.T) {
	assert := assert.New(t)
	rest := Note{DurationBeats: 1}
	assert.True(rest.IsRest())
	assert.Equal(0, rest.Midi())

	midi := 72
	note := Note{PitchName: "C5", PitchMidiNote: &midi, PositionBeats: 2, DurationBeats: 0.5}
	assert.False(note.IsRest())
	assert.Equal(72, note.Midi())
	assert.Equal(2.5, note.EndBeats())
}

func TestMetadataApplyFillsOnlyBlanks(t *testing.T) {
	assert := assert.New(t)
	s := &Score{Title: "Existing"}
	ScoreMetadata{Title: "Other", Composer: "Someone"}.Apply(s)
	assert.Equal("Existing", s.Title)
	assert.Equal("Someone", s.Composer)
}
