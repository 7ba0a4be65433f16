// Package notation defines the quantized notation model: the tree handed to
// the interchange writer and received back from the interchange reader.
package notation

import (
	"github.com/ismscore/scoreconv/duration"
	"github.com/ismscore/scoreconv/staff"
)

type TieType string

const (
	TieNone  TieType = ""
	TieStart TieType = "start"
	TieStop  TieType = "stop"
)

type BeamType string

const (
	BeamStart    BeamType = "begin"
	BeamContinue BeamType = "continue"
	BeamStop     BeamType = "end"
)

// Beam is one beam-level marking on an element. Eighth notes carry one
// level, 16ths two.
type Beam struct {
	Level int
	Type  BeamType
}

type Kind int

const (
	KindRest Kind = iota
	KindNote
	KindChord
)

// Pitch is one sounding pitch within a note or chord element.
type Pitch struct {
	Name       string
	Midi       int
	Tie        TieType
	Accidental string
	Cautionary bool
}

// Tuplet rescales an element's nominal duration by Normal/Actual.
type Tuplet struct {
	Actual int
	Normal int
}

// Element is a rest, note or chord placed at a beat offset within one
// staff's measure. Elements are value objects: constructed once by the
// builder and never mutated after handoff.
type Element struct {
	Kind     Kind
	Duration duration.Entry
	Offset   float64 // beats from measure start
	Pitches  []Pitch // empty for rests, 1 for notes, >1 for chords
	Tuplet   *Tuplet
	Beams    []Beam
}

// QuarterLength is the element's sounding length in beats, tuplet-adjusted.
func (e *Element) QuarterLength() float64 {
	ql := e.Duration.QuarterLength()
	if e.Tuplet != nil && e.Tuplet.Actual > 0 {
		ql = ql * float64(e.Tuplet.Normal) / float64(e.Tuplet.Actual)
	}
	return ql
}

// TopPitch returns the highest constituent pitch by MIDI number, or nil for
// rests.
func (e *Element) TopPitch() *Pitch {
	var top *Pitch
	for i := range e.Pitches {
		if top == nil || e.Pitches[i].Midi > top.Midi {
			top = &e.Pitches[i]
		}
	}
	return top
}

// HasTie reports whether any constituent pitch carries a tie marking.
func (e *Element) HasTie() bool {
	for _, p := range e.Pitches {
		if p.Tie != TieNone {
			return true
		}
	}
	return false
}

// Measure holds one measure's element sequence per staff.
type Measure struct {
	Number int
	Staves map[staff.Staff][]*Element
}

// Elements returns the element sequence for one staff.
func (m *Measure) Elements(s staff.Staff) []*Element {
	return m.Staves[s]
}

type TimeSignature struct {
	Numerator   int
	Denominator int
}

// BeatsPerMeasure converts the signature to quarter-length units.
func (ts TimeSignature) BeatsPerMeasure() float64 {
	return float64(ts.Numerator) * 4.0 / float64(ts.Denominator)
}

type Score struct {
	Title     string
	Composer  string
	Arranger  string
	Lyricist  string
	Tempo     int
	TempoText string
	Time      TimeSignature
	Measures  []*Measure
}
