package beam

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ismscore/scoreconv/duration"
	"github.com/ismscore/scoreconv/notation"
)

func eighth(midi int, offset float64) *notation.Element {
	return &notation.Element{
		Kind:     notation.KindNote,
		Duration: duration.Entry{Class: duration.ClassEighth},
		Offset:   offset,
		Pitches:  []notation.Pitch{{Midi: midi}},
	}
}

func sixteenth(midi int, offset float64) *notation.Element {
	return &notation.Element{
		Kind:     notation.KindNote,
		Duration: duration.Entry{Class: duration.Class16th},
		Offset:   offset,
		Pitches:  []notation.Pitch{{Midi: midi}},
	}
}

func chord(offset float64, midis ...int) *notation.Element {
	e := &notation.Element{
		Kind:     notation.KindChord,
		Duration: duration.Entry{Class: duration.ClassEighth},
		Offset:   offset,
	}
	for _, m := range midis {
		e.Pitches = append(e.Pitches, notation.Pitch{Midi: m})
	}
	return e
}

func rest(offset float64) *notation.Element {
	return &notation.Element{
		Kind:     notation.KindRest,
		Duration: duration.Entry{Class: duration.ClassEighth},
		Offset:   offset,
	}
}

func TestAscendingRunBeamsAcrossBeatBoundary(t *testing.T) {
	assert := assert.New(t)
	elems := []*notation.Element{
		eighth(60, 0), eighth(62, 0.5), eighth(64, 1.0), eighth(65, 1.5),
	}

	groups := Annotate(elems)
	assert.Len(groups, 1)
	assert.Equal(LabelMelodic, groups[0].Label)

	assert.Equal(notation.BeamStart, elems[0].Beams[0].Type)
	assert.Equal(notation.BeamContinue, elems[1].Beams[0].Type)
	assert.Equal(notation.BeamContinue, elems[2].Beams[0].Type)
	assert.Equal(notation.BeamStop, elems[3].Beams[0].Type)
}

func TestRepeatedPitchBreaksAtBeatBoundary(t *testing.T) {
	assert := assert.New(t)
	elems := []*notation.Element{
		eighth(60, 0), eighth(60, 0.5), eighth(60, 1.0), eighth(60, 1.5),
	}

	groups := Annotate(elems)
	assert.Len(groups, 2)
	assert.Equal(LabelDefault, groups[0].Label)
	assert.Equal(LabelDefault, groups[1].Label)

	assert.Equal(notation.BeamStart, elems[0].Beams[0].Type)
	assert.Equal(notation.BeamStop, elems[1].Beams[0].Type)
	assert.Equal(notation.BeamStart, elems[2].Beams[0].Type)
	assert.Equal(notation.BeamStop, elems[3].Beams[0].Type)
}

func TestRestsAndLongNotesBreakGroups(t *testing.T) {
	assert := assert.New(t)
	quarter := &notation.Element{
		Kind:     notation.KindNote,
		Duration: duration.Entry{Class: duration.ClassQuarter},
		Offset:   1.5,
		Pitches:  []notation.Pitch{{Midi: 64}},
	}
	elems := []*notation.Element{
		eighth(60, 0), rest(0.5), eighth(62, 1.0), quarter,
	}

	Annotate(elems)
	// Singletons get no beam markings.
	assert.Empty(elems[0].Beams)
	assert.Empty(elems[2].Beams)
	assert.Empty(quarter.Beams)
}

func TestMelodicContradictionSplitsGroup(t *testing.T) {
	assert := assert.New(t)
	elems := []*notation.Element{
		sixteenth(60, 0), sixteenth(64, 0.25), sixteenth(62, 0.5),
	}

	groups := Annotate(elems)
	assert.Len(groups, 2)
	assert.Len(groups[0].Elements, 2)
	assert.Len(groups[1].Elements, 1)
}

func TestSixteenthsCarryTwoBeamLevels(t *testing.T) {
	assert := assert.New(t)
	elems := []*notation.Element{
		sixteenth(60, 0), sixteenth(62, 0.25),
	}

	Annotate(elems)
	assert.Len(elems[0].Beams, 2)
	assert.Equal(1, elems[0].Beams[0].Level)
	assert.Equal(2, elems[0].Beams[1].Level)
	assert.Equal(notation.BeamStart, elems[0].Beams[1].Type)
	assert.Equal(notation.BeamStop, elems[1].Beams[1].Type)
}

func TestHarmonicLabelForRepeatedChordTop(t *testing.T) {
	assert := assert.New(t)
	elems := []*notation.Element{
		chord(0, 60, 67), chord(0.5, 64, 67),
	}

	groups := Annotate(elems)
	assert.Len(groups, 1)
	assert.Equal(LabelHarmonic, groups[0].Label)
}

func TestTiedChordPatternClosesAfterSecondElement(t *testing.T) {
	assert := assert.New(t)
	first := chord(0, 60, 64)
	second := chord(0.5, 60, 64)
	second.Pitches[0].Tie = notation.TieStart
	third := eighth(62, 1.0)
	fourth := eighth(64, 1.5)

	groups := Annotate([]*notation.Element{first, second, third, fourth})
	assert.Len(groups, 2)
	assert.Equal(LabelTiedChord, groups[0].Label)
	assert.Len(groups[0].Elements, 2)
}

func TestTiedLabelForNonMelodicTiedGroup(t *testing.T) {
	assert := assert.New(t)
	first := eighth(60, 0)
	first.Pitches[0].Tie = notation.TieStart
	second := eighth(60, 0.5)
	second.Pitches[0].Tie = notation.TieStop

	groups := Annotate([]*notation.Element{first, second})
	assert.Len(groups, 1)
	assert.Equal(LabelTied, groups[0].Label)
}

func TestWideLeapsAreNotMelodic(t *testing.T) {
	assert := assert.New(t)
	elems := []*notation.Element{
		eighth(40, 0), eighth(70, 0.5),
	}

	groups := Annotate(elems)
	assert.Len(groups, 1)
	assert.Equal(LabelDefault, groups[0].Label)
}
