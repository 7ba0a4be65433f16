// Package layout is the inverse of the builder: it synthesizes pixel
// coordinates and tempo-derived seconds for a notation score, producing the
// flat JSON representation used for round-trip testing.
package layout

import (
	"fmt"
	"sort"

	"github.com/ismscore/scoreconv/constants"
	"github.com/ismscore/scoreconv/duration"
	"github.com/ismscore/scoreconv/model"
	"github.com/ismscore/scoreconv/notation"
	"github.com/ismscore/scoreconv/staff"
	"github.com/ismscore/scoreconv/util"
)

// Engraving constants fitted against the source renderer's output. Like the
// staff calibration table, these are empirical, not physical.
const (
	BaseX         = 71.6765
	BeatSpacing   = 57.95
	ChordOffsetX  = 5.0
	NoteWidth     = 10.0
	NoteHeight    = 10.0
	MeasureHeight = 200.0
	MeasureY      = -150.0
	StaffDistance = 85.0
	LeftMargin    = 20.0
	RightMargin   = 40.0
	MinWidth      = 150.0
)

// MapScore synthesizes the JSON representation of a notation score. The
// per-measure horizontal cursor is local to this call.
func MapScore(n *notation.Score) *model.Score {
	tempo := n.Tempo
	if tempo <= 0 {
		tempo = constants.DefaultTempo
	}
	beatsPerMeasure := n.Time.BeatsPerMeasure()

	out := &model.Score{
		Tempo:     tempo,
		TempoText: n.TempoText,
		Title:     n.Title,
		Composer:  n.Composer,
		Arranger:  n.Arranger,
		Lyricist:  n.Lyricist,
	}

	measureX := BaseX
	for i, nm := range n.Measures {
		startBeats := float64(i) * beatsPerMeasure
		m := model.Measure{
			Number:               nm.Number,
			StartPositionBeats:   startBeats,
			StartPositionSeconds: secondsAt(startBeats, tempo),
			Height:               MeasureHeight,
			Y:                    MeasureY,
			StaffDistance:        StaffDistance,
			X:                    measureX,
		}

		for _, st := range []staff.Staff{staff.Treble, staff.Bass} {
			m.Notes = append(m.Notes, mapStaff(nm.Elements(st), st, startBeats, measureX, tempo)...)
		}
		// The measure's note list is horizontal order, not per-staff order:
		// both staves interleave by position.
		sort.SliceStable(m.Notes, func(i, j int) bool {
			if m.Notes[i].PositionBeats != m.Notes[j].PositionBeats {
				return m.Notes[i].PositionBeats < m.Notes[j].PositionBeats
			}
			return m.Notes[i].Y < m.Notes[j].Y
		})

		m.Width = measureWidth(m.Notes)
		measureX += m.Width
		out.Measures = append(out.Measures, m)
	}
	return out
}

func mapStaff(elems []*notation.Element, st staff.Staff, startBeats, measureX float64, tempo int) []model.Note {
	var notes []model.Note
	cursor := 0.0
	for _, e := range elems {
		ql := e.QuarterLength()
		if e.Kind == notation.KindRest {
			cursor += ql
			continue
		}

		posBeats := startBeats + cursor
		baseX := measureX + BeatSpacing*cursor
		entry := duration.Closest(ql)

		for ci, p := range e.Pitches {
			note := model.Note{
				PitchName:            p.Name,
				DurationBeats:        ql,
				DurationSeconds:      secondsAt(ql, tempo),
				DurationType:         entry.Class.Name(),
				Dots:                 entry.Dots,
				PositionBeats:        posBeats,
				PositionSeconds:      secondsAt(posBeats, tempo),
				X:                    baseX + float64(ci)*ChordOffsetX,
				Y:                    staff.YOf(p.Midi, st),
				Width:                NoteWidth,
				Height:               NoteHeight,
				Staff:                string(st),
				IsChord:              e.Kind == notation.KindChord,
				AccidentalCautionary: p.Cautionary,
			}
			midi := p.Midi
			note.PitchMidiNote = &midi
			if p.Tie != notation.TieNone {
				tie := string(p.Tie)
				note.TieType = &tie
			}
			if p.Accidental != "" {
				acc := p.Accidental
				note.Accidental = &acc
			}
			if e.Tuplet != nil {
				note.IsTuplet = true
				ratio := fmt.Sprintf("%d:%d", e.Tuplet.Actual, e.Tuplet.Normal)
				note.TupletRatio = &ratio
				// Nominal class, not the tuplet-scaled one.
				nominal := e.Duration
				note.DurationType = nominal.Class.Name()
				note.Dots = nominal.Dots
			}
			notes = append(notes, note)
		}
		cursor += ql
	}
	return notes
}

// measureWidth derives a measure's width from its content: the note span
// plus margins, scaled by density and long-note factors, floored at the
// minimum width.
func measureWidth(notes []model.Note) float64 {
	if len(notes) == 0 {
		return MinWidth
	}

	leftmost := notes[0].X
	rightmost := notes[0].X + notes[0].Width
	hasLong := false
	for _, n := range notes {
		if n.X < leftmost {
			leftmost = n.X
		}
		if n.X+n.Width > rightmost {
			rightmost = n.X + n.Width
		}
		if n.DurationBeats >= 2.0 {
			hasLong = true
		}
	}

	density := util.Clamp(float64(len(notes))/4.0, 1.0, 1.2)
	typeFactor := 1.0
	if hasLong {
		typeFactor = 1.1
	}

	width := (rightmost - leftmost + LeftMargin + RightMargin) * density * typeFactor
	if width < MinWidth {
		return MinWidth
	}
	return width
}

func secondsAt(beats float64, tempo int) float64 {
	return beats * 60.0 / float64(tempo)
}
