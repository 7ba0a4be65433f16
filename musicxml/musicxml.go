// Package musicxml encodes and decodes the notation tree as score-partwise
// MusicXML 3.1 documents with two parts: P1 (treble) and P2 (bass).
package musicxml

import (
	"encoding/xml"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/ismscore/scoreconv/duration"
	"github.com/ismscore/scoreconv/notation"
	"github.com/ismscore/scoreconv/staff"
)

// Divisions is the duration unit per quarter note. 480 keeps every supported
// duration (64th through dotted whole, plus triplet lengths) integral.
const Divisions = 480

const header = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">
`

type scorePartwise struct {
	XMLName        xml.Name        `xml:"score-partwise"`
	Version        string          `xml:"version,attr"`
	Work           *work           `xml:"work,omitempty"`
	Identification *identification `xml:"identification,omitempty"`
	PartList       partList        `xml:"part-list"`
	Parts          []part          `xml:"part"`
}

type work struct {
	Title string `xml:"work-title"`
}

type identification struct {
	Creators []creator `xml:"creator"`
}

type creator struct {
	Type string `xml:"type,attr"`
	Name string `xml:",chardata"`
}

type partList struct {
	ScoreParts []scorePart `xml:"score-part"`
}

type scorePart struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

type part struct {
	ID       string        `xml:"id,attr"`
	Measures []partMeasure `xml:"measure"`
}

type partMeasure struct {
	Number     int         `xml:"number,attr"`
	Attributes *attributes `xml:"attributes,omitempty"`
	Directions []direction `xml:"direction,omitempty"`
	Notes      []xmlNote   `xml:"note"`
}

type attributes struct {
	Divisions int      `xml:"divisions,omitempty"`
	Time      *timeSig `xml:"time,omitempty"`
	Clef      *clef    `xml:"clef,omitempty"`
}

type timeSig struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

type clef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

type direction struct {
	Placement string         `xml:"placement,attr,omitempty"`
	Type      *directionType `xml:"direction-type,omitempty"`
	Sound     *sound         `xml:"sound,omitempty"`
}

type directionType struct {
	Words string `xml:"words,omitempty"`
}

type sound struct {
	Tempo float64 `xml:"tempo,attr,omitempty"`
}

type xmlNote struct {
	Rest       *struct{}  `xml:"rest,omitempty"`
	Chord      *struct{}  `xml:"chord,omitempty"`
	Pitch      *xmlPitch  `xml:"pitch,omitempty"`
	Duration   int        `xml:"duration"`
	Ties       []tie      `xml:"tie,omitempty"`
	Type       string     `xml:"type,omitempty"`
	Dots       []struct{} `xml:"dot,omitempty"`
	Accidental string     `xml:"accidental,omitempty"`
	TimeMod    *timeMod   `xml:"time-modification,omitempty"`
	Beams      []xmlBeam  `xml:"beam,omitempty"`
	Notations  *notations `xml:"notations,omitempty"`
}

type xmlPitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

type tie struct {
	Type string `xml:"type,attr"`
}

type timeMod struct {
	ActualNotes int `xml:"actual-notes"`
	NormalNotes int `xml:"normal-notes"`
}

type xmlBeam struct {
	Number int    `xml:"number,attr"`
	Value  string `xml:",chardata"`
}

type notations struct {
	Tieds []tied `xml:"tied,omitempty"`
}

type tied struct {
	Type string `xml:"type,attr"`
}

var partStaves = []struct {
	id    string
	name  string
	staff staff.Staff
	clef  clef
}{
	{"P1", "Treble", staff.Treble, clef{Sign: "G", Line: 2}},
	{"P2", "Bass", staff.Bass, clef{Sign: "F", Line: 4}},
}

// Encode serializes the notation score as a score-partwise document.
func Encode(n *notation.Score) ([]byte, error) {
	doc := scorePartwise{Version: "3.1"}
	if n.Title != "" {
		doc.Work = &work{Title: n.Title}
	}
	doc.Identification = encodeCreators(n)

	for _, ps := range partStaves {
		doc.PartList.ScoreParts = append(doc.PartList.ScoreParts, scorePart{ID: ps.id, Name: ps.name})
		doc.Parts = append(doc.Parts, encodePart(n, ps.id, ps.staff, ps.clef))
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal musicxml")
	}
	return append([]byte(header), append(body, '\n')...), nil
}

func encodeCreators(n *notation.Score) *identification {
	id := &identification{}
	for _, c := range []struct{ typ, name string }{
		{"composer", n.Composer},
		{"arranger", n.Arranger},
		{"lyricist", n.Lyricist},
	} {
		if c.name != "" {
			id.Creators = append(id.Creators, creator{Type: c.typ, Name: c.name})
		}
	}
	if len(id.Creators) == 0 {
		return nil
	}
	return id
}

func encodePart(n *notation.Score, id string, st staff.Staff, cl clef) part {
	p := part{ID: id}
	for i, m := range n.Measures {
		pm := partMeasure{Number: m.Number}
		if i == 0 {
			pm.Attributes = &attributes{
				Divisions: Divisions,
				Time:      &timeSig{Beats: n.Time.Numerator, BeatType: n.Time.Denominator},
				Clef:      &cl,
			}
			if id == "P1" {
				pm.Directions = append(pm.Directions, tempoDirection(n))
			}
		}
		for _, e := range m.Elements(st) {
			pm.Notes = append(pm.Notes, encodeElement(e)...)
		}
		p.Measures = append(p.Measures, pm)
	}
	return p
}

func tempoDirection(n *notation.Score) direction {
	d := direction{Placement: "above", Sound: &sound{Tempo: float64(n.Tempo)}}
	if n.TempoText != "" {
		d.Type = &directionType{Words: n.TempoText}
	}
	return d
}

func encodeElement(e *notation.Element) []xmlNote {
	dur := int(math.Round(e.QuarterLength() * Divisions))

	if e.Kind == notation.KindRest {
		return []xmlNote{{
			Rest:     &struct{}{},
			Duration: dur,
			Type:     e.Duration.Class.Name(),
			Dots:     make([]struct{}, e.Duration.Dots),
			TimeMod:  encodeTimeMod(e),
		}}
	}

	notes := make([]xmlNote, 0, len(e.Pitches))
	for i, p := range e.Pitches {
		xn := xmlNote{
			Pitch:      encodePitch(p.Name),
			Duration:   dur,
			Type:       e.Duration.Class.Name(),
			Dots:       make([]struct{}, e.Duration.Dots),
			Accidental: p.Accidental,
			TimeMod:    encodeTimeMod(e),
		}
		if i > 0 {
			xn.Chord = &struct{}{}
		} else {
			for _, b := range e.Beams {
				xn.Beams = append(xn.Beams, xmlBeam{Number: b.Level, Value: beamValue(b.Type)})
			}
		}
		switch p.Tie {
		case notation.TieStart:
			xn.Ties = []tie{{Type: "start"}}
			xn.Notations = &notations{Tieds: []tied{{Type: "start"}}}
		case notation.TieStop:
			xn.Ties = []tie{{Type: "stop"}}
			xn.Notations = &notations{Tieds: []tied{{Type: "stop"}}}
		}
		notes = append(notes, xn)
	}
	return notes
}

func encodeTimeMod(e *notation.Element) *timeMod {
	if e.Tuplet == nil {
		return nil
	}
	return &timeMod{ActualNotes: e.Tuplet.Actual, NormalNotes: e.Tuplet.Normal}
}

func beamValue(t notation.BeamType) string {
	switch t {
	case notation.BeamStart:
		return "begin"
	case notation.BeamContinue:
		return "continue"
	default:
		return "end"
	}
}

var stepSemitones = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

func encodePitch(name string) *xmlPitch {
	if name == "" {
		return nil
	}
	step := strings.ToUpper(name[:1])
	rest := name[1:]
	alter := 0
	for len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b' || rest[0] == '-') {
		if rest[0] == '#' {
			alter++
		} else {
			alter--
		}
		rest = rest[1:]
	}
	octave := 4
	fmt.Sscanf(rest, "%d", &octave)
	return &xmlPitch{Step: step, Alter: alter, Octave: octave}
}

func decodePitchName(p *xmlPitch) string {
	acc := ""
	switch {
	case p.Alter > 0:
		acc = strings.Repeat("#", p.Alter)
	case p.Alter < 0:
		acc = strings.Repeat("-", -p.Alter)
	}
	return fmt.Sprintf("%s%s%d", p.Step, acc, p.Octave)
}

func pitchMidi(p *xmlPitch) int {
	return (p.Octave+1)*12 + stepSemitones[p.Step] + p.Alter
}

// Decode parses a score-partwise document back into a notation score.
// Parts beyond P1/P2 are rejected; unknown part IDs fail the decode.
func Decode(data []byte) (*notation.Score, error) {
	var doc scorePartwise
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "unmarshal musicxml")
	}

	n := &notation.Score{
		Time:  notation.TimeSignature{Numerator: 4, Denominator: 4},
		Tempo: 120,
	}
	if doc.Work != nil {
		n.Title = doc.Work.Title
	}
	if doc.Identification != nil {
		for _, c := range doc.Identification.Creators {
			switch c.Type {
			case "composer":
				n.Composer = c.Name
			case "arranger":
				n.Arranger = c.Name
			case "lyricist":
				n.Lyricist = c.Name
			}
		}
	}

	for _, p := range doc.Parts {
		st, err := staffFor(p.ID)
		if err != nil {
			return nil, err
		}
		for i, pm := range p.Measures {
			for len(n.Measures) <= i {
				n.Measures = append(n.Measures, &notation.Measure{
					Number: len(n.Measures) + 1,
					Staves: map[staff.Staff][]*notation.Element{},
				})
			}
			decodeMeasure(n, n.Measures[i], pm, st)
		}
	}
	return n, nil
}

func staffFor(id string) (staff.Staff, error) {
	for _, ps := range partStaves {
		if ps.id == id {
			return ps.staff, nil
		}
	}
	return "", errors.Errorf("unsupported part id %q", id)
}

func decodeMeasure(n *notation.Score, m *notation.Measure, pm partMeasure, st staff.Staff) {
	if pm.Attributes != nil && pm.Attributes.Time != nil {
		n.Time = notation.TimeSignature{
			Numerator:   pm.Attributes.Time.Beats,
			Denominator: pm.Attributes.Time.BeatType,
		}
	}
	for _, d := range pm.Directions {
		if d.Sound != nil && d.Sound.Tempo > 0 {
			n.Tempo = int(d.Sound.Tempo)
		}
		if d.Type != nil && d.Type.Words != "" {
			n.TempoText = d.Type.Words
		}
	}

	cursor := 0.0
	for _, xn := range pm.Notes {
		ql := float64(xn.Duration) / Divisions
		if xn.Rest == nil && xn.Pitch == nil {
			// Malformed input degrades, never panics: the slot still
			// occupies its duration so later offsets stay aligned.
			log.Printf("warning: measure %d: note with neither rest nor pitch, skipping", m.Number)
			if xn.Chord == nil {
				cursor += ql
			}
			continue
		}
		if xn.Chord != nil {
			elems := m.Staves[st]
			if len(elems) > 0 {
				last := elems[len(elems)-1]
				last.Kind = notation.KindChord
				last.Pitches = append(last.Pitches, decodeNotePitch(xn))
			}
			continue
		}

		e := &notation.Element{Offset: cursor}
		e.Duration = decodeEntry(xn, ql)
		if xn.TimeMod != nil {
			e.Tuplet = &notation.Tuplet{Actual: xn.TimeMod.ActualNotes, Normal: xn.TimeMod.NormalNotes}
		}
		for _, b := range xn.Beams {
			e.Beams = append(e.Beams, notation.Beam{Level: b.Number, Type: decodeBeamType(b.Value)})
		}
		if xn.Rest != nil {
			e.Kind = notation.KindRest
		} else {
			e.Kind = notation.KindNote
			e.Pitches = []notation.Pitch{decodeNotePitch(xn)}
		}
		m.Staves[st] = append(m.Staves[st], e)
		cursor += ql
	}
}

func decodeEntry(xn xmlNote, ql float64) duration.Entry {
	if xn.Type != "" {
		return duration.FromType(xn.Type, len(xn.Dots))
	}
	// Some writers omit <type>. Fall back to quantizing the raw length.
	if xn.TimeMod != nil && xn.TimeMod.ActualNotes > 0 {
		ql = ql * float64(xn.TimeMod.ActualNotes) / float64(xn.TimeMod.NormalNotes)
	}
	return duration.Closest(ql)
}

func decodeNotePitch(xn xmlNote) notation.Pitch {
	p := notation.Pitch{
		Name:       decodePitchName(xn.Pitch),
		Midi:       pitchMidi(xn.Pitch),
		Accidental: xn.Accidental,
	}
	for _, t := range xn.Ties {
		switch t.Type {
		case "start":
			p.Tie = notation.TieStart
		case "stop":
			p.Tie = notation.TieStop
		}
	}
	return p
}

func decodeBeamType(v string) notation.BeamType {
	switch v {
	case "begin":
		return notation.BeamStart
	case "continue":
		return notation.BeamContinue
	default:
		return notation.BeamStop
	}
}
