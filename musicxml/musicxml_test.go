package musicxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ismscore/scoreconv/duration"
	"github.com/ismscore/scoreconv/notation"
	"github.com/ismscore/scoreconv/staff"
)

func sampleScore() *notation.Score {
	chord := &notation.Element{
		Kind:     notation.KindChord,
		Duration: duration.Entry{Class: duration.ClassHalf},
		Offset:   0,
		Pitches: []notation.Pitch{
			{Name: "C4", Midi: 60},
			{Name: "E4", Midi: 64},
		},
	}
	tied := &notation.Element{
		Kind:     notation.KindNote,
		Duration: duration.Entry{Class: duration.ClassHalf},
		Offset:   2,
		Pitches:  []notation.Pitch{{Name: "G4", Midi: 67, Tie: notation.TieStart}},
	}
	resolution := &notation.Element{
		Kind:     notation.KindNote,
		Duration: duration.Entry{Class: duration.ClassWhole},
		Offset:   0,
		Pitches:  []notation.Pitch{{Name: "G4", Midi: 67, Tie: notation.TieStop}},
	}
	bassRest := &notation.Element{
		Kind:     notation.KindRest,
		Duration: duration.Entry{Class: duration.ClassWhole},
		Offset:   0,
	}

	return &notation.Score{
		Title:    "Sample",
		Composer: "Somebody",
		Tempo:    90,
		Time:     notation.TimeSignature{Numerator: 4, Denominator: 4},
		Measures: []*notation.Measure{
			{Number: 1, Staves: map[staff.Staff][]*notation.Element{
				staff.Treble: {chord, tied},
				staff.Bass:   {bassRest},
			}},
			{Number: 2, Staves: map[staff.Staff][]*notation.Element{
				staff.Treble: {resolution},
				staff.Bass:   {bassRest},
			}},
		},
	}
}

func TestEncodeProducesScorePartwise(t *testing.T) {
	assert := assert.New(t)
	data, err := Encode(sampleScore())
	assert.NoError(err)

	doc := string(data)
	assert.True(strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(doc, "<score-partwise")
	assert.Contains(doc, `<part id="P1">`)
	assert.Contains(doc, `<part id="P2">`)
	assert.Contains(doc, "<work-title>Sample</work-title>")
	assert.Contains(doc, `<creator type="composer">Somebody</creator>`)
	assert.Contains(doc, "<divisions>480</divisions>")
	assert.Contains(doc, `<sound tempo="90">`)
	assert.Contains(doc, "<chord>")
	assert.Contains(doc, `<tie type="start">`)
	assert.Contains(doc, `<tied type="start">`)
}

func TestRoundTripPreservesStructure(t *testing.T) {
	assert := assert.New(t)
	src := sampleScore()
	data, err := Encode(src)
	assert.NoError(err)

	back, err := Decode(data)
	assert.NoError(err)

	assert.Equal("Sample", back.Title)
	assert.Equal("Somebody", back.Composer)
	assert.Equal(90, back.Tempo)
	assert.Equal(4, back.Time.Numerator)
	assert.Len(back.Measures, 2)

	treble := back.Measures[0].Elements(staff.Treble)
	assert.Len(treble, 2)
	assert.Equal(notation.KindChord, treble[0].Kind)
	assert.Len(treble[0].Pitches, 2)
	assert.Equal(60, treble[0].Pitches[0].Midi)
	assert.Equal(64, treble[0].Pitches[1].Midi)
	assert.Equal(duration.ClassHalf, treble[0].Duration.Class)
	assert.Equal(notation.TieStart, treble[1].Pitches[0].Tie)
	assert.Equal(2.0, treble[1].Offset)

	bass := back.Measures[0].Elements(staff.Bass)
	assert.Len(bass, 1)
	assert.Equal(notation.KindRest, bass[0].Kind)

	resolution := back.Measures[1].Elements(staff.Treble)[0]
	assert.Equal(notation.TieStop, resolution.Pitches[0].Tie)
}

func TestRoundTripPreservesTuplets(t *testing.T) {
	assert := assert.New(t)
	triplet := func(name string, midi int, offset float64) *notation.Element {
		return &notation.Element{
			Kind:     notation.KindNote,
			Duration: duration.Entry{Class: duration.ClassEighth},
			Offset:   offset,
			Tuplet:   &notation.Tuplet{Actual: 3, Normal: 2},
			Pitches:  []notation.Pitch{{Name: name, Midi: midi}},
		}
	}
	src := &notation.Score{
		Tempo: 120,
		Time:  notation.TimeSignature{Numerator: 4, Denominator: 4},
		Measures: []*notation.Measure{
			{Number: 1, Staves: map[staff.Staff][]*notation.Element{
				staff.Treble: {
					triplet("C4", 60, 0), triplet("D4", 62, 1.0/3), triplet("E4", 64, 2.0/3),
				},
			}},
		},
	}

	data, err := Encode(src)
	assert.NoError(err)
	back, err := Decode(data)
	assert.NoError(err)

	treble := back.Measures[0].Elements(staff.Treble)
	assert.Len(treble, 3)
	for _, e := range treble {
		assert.NotNil(e.Tuplet)
		assert.Equal(3, e.Tuplet.Actual)
		assert.Equal(2, e.Tuplet.Normal)
		assert.Equal(duration.ClassEighth, e.Duration.Class)
	}
	assert.InDelta(1.0/3, treble[1].Offset, 0.01)
}

func TestDecodeRejectsUnknownParts(t *testing.T) {
	doc := `<?xml version="1.0"?>
<score-partwise version="3.1">
  <part-list><score-part id="P9"><part-name>X</part-name></score-part></part-list>
  <part id="P9"><measure number="1"></measure></part>
</score-partwise>`
	_, err := Decode([]byte(doc))
	assert.Error(t, err)
}

func TestDecodeSkipsNotesWithoutRestOrPitch(t *testing.T) {
	assert := assert.New(t)
	doc := `<?xml version="1.0"?>
<score-partwise version="3.1">
  <part-list><score-part id="P1"><part-name>Treble</part-name></score-part></part-list>
  <part id="P1">
    <measure number="1">
      <note><duration>960</duration><type>half</type></note>
      <note>
        <pitch><step>C</step><octave>4</octave></pitch>
        <duration>480</duration><type>quarter</type>
      </note>
    </measure>
  </part>
</score-partwise>`

	back, err := Decode([]byte(doc))
	assert.NoError(err)

	treble := back.Measures[0].Elements(staff.Treble)
	assert.Len(treble, 1)
	assert.Equal(60, treble[0].Pitches[0].Midi)
	// The malformed slot still occupies its two beats.
	assert.Equal(2.0, treble[0].Offset)
}

func TestPitchSpelling(t *testing.T) {
	assert := assert.New(t)
	p := encodePitch("F#4")
	assert.Equal("F", p.Step)
	assert.Equal(1, p.Alter)
	assert.Equal(4, p.Octave)
	assert.Equal("F#4", decodePitchName(p))
	assert.Equal(66, pitchMidi(p))

	flat := encodePitch("B-2")
	assert.Equal(-1, flat.Alter)
	assert.Equal("B-2", decodePitchName(flat))
	assert.Equal(46, pitchMidi(flat))
}
