package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ismscore/scoreconv/builder"
	"github.com/ismscore/scoreconv/layout"
	"github.com/ismscore/scoreconv/model"
	"github.com/ismscore/scoreconv/musicxml"
)

func gridNote(name string, midi int, pos, beats float64, durType string, y float64) model.Note {
	m := midi
	return model.Note{
		PitchName:       name,
		PitchMidiNote:   &m,
		PositionBeats:   pos,
		DurationBeats:   beats,
		DurationSeconds: beats * 0.5, // 120 BPM
		DurationType:    durType,
		PositionSeconds: pos * 0.5,
		Y:               y,
	}
}

// Converts a two-staff score to MusicXML, extracts it back to JSON, and
// checks the extraction against the original.
func TestFullRoundTripPasses(t *testing.T) {
	assert := assert.New(t)
	start := "start"
	stop := "stop"

	m1 := model.Measure{Number: 1, Notes: []model.Note{
		gridNote("C4", 60, 0, 1, "quarter", -40),
		gridNote("E4", 64, 1, 1, "quarter", -40),
		gridNote("G4", 67, 2, 2, "half", -40),
		gridNote("C3", 48, 0, 4, "whole", -150),
	}}
	m1.Notes[2].TieType = &start

	m2 := model.Measure{Number: 2, StartPositionBeats: 4, StartPositionSeconds: 2, Notes: []model.Note{
		gridNote("G4", 67, 4, 4, "whole", -40),
		gridNote("C3", 48, 4, 2, "half", -150),
		gridNote("G3", 55, 6, 2, "half", -150),
	}}
	m2.Notes[0].TieType = &stop

	src := &model.Score{Tempo: 120, Measures: []model.Measure{m1, m2}}

	n, err := builder.Build(src, builder.Config{})
	assert.NoError(err)

	data, err := musicxml.Encode(n)
	assert.NoError(err)

	back, err := musicxml.Decode(data)
	assert.NoError(err)

	extracted := layout.MapScore(back)
	res := Scores(src, extracted, 0.01)
	assert.True(res.Pass(), "unexpected differences: %v", res.Diffs)
}

// A deliberate pitch change after extraction must surface as a FAIL.
func TestRoundTripDetectsInjectedPitchChange(t *testing.T) {
	assert := assert.New(t)
	src := &model.Score{Tempo: 120, Measures: []model.Measure{
		{Number: 1, Notes: []model.Note{
			gridNote("C4", 60, 0, 4, "whole", -40),
		}},
	}}

	n, err := builder.Build(src, builder.Config{})
	assert.NoError(err)
	data, err := musicxml.Encode(n)
	assert.NoError(err)
	back, err := musicxml.Decode(data)
	assert.NoError(err)
	extracted := layout.MapScore(back)

	tampered := 63
	extracted.Measures[0].Notes[0].PitchName = "E-4"
	extracted.Measures[0].Notes[0].PitchMidiNote = &tampered

	res := Scores(src, extracted, 0.01)
	assert.False(res.Pass())
	assert.Equal("pitch", res.Diffs[0].Field)
}
