// Package builder turns the flat JSON note list into the quantized notation
// model: per-staff, per-measure sequences of rests, notes and chords that
// sum exactly to the time signature, with ties resolved and beams grouped.
package builder

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ismscore/scoreconv/beam"
	"github.com/ismscore/scoreconv/constants"
	"github.com/ismscore/scoreconv/duration"
	"github.com/ismscore/scoreconv/model"
	"github.com/ismscore/scoreconv/notation"
	"github.com/ismscore/scoreconv/staff"
)

// MeasureOverflowError is fatal for the score being converted: a staff's
// notes exceed the time-signature length beyond tolerance.
type MeasureOverflowError struct {
	Measure int
	Staff   staff.Staff
	Pitch   string
	Total   float64
	Limit   float64
}

func (e *MeasureOverflowError) Error() string {
	return fmt.Sprintf("measure %d overflows on %s staff at %s: %.3f beats exceeds %.3f",
		e.Measure, e.Staff, e.Pitch, e.Total, e.Limit)
}

type Config struct {
	Debug DebugContext
}

// Build converts a validated JSON score into a notation score. The tie
// tracker and all intermediate state are scoped to this call.
func Build(src *model.Score, cfg Config) (*notation.Score, error) {
	ts := inferTimeSignature(src)
	tempo := src.Tempo
	if tempo <= 0 {
		tempo = constants.DefaultTempo
	}

	out := &notation.Score{
		Title:     src.Title,
		Composer:  src.Composer,
		Arranger:  src.Arranger,
		Lyricist:  src.Lyricist,
		Tempo:     tempo,
		TempoText: src.TempoText,
		Time:      ts,
	}

	ties := NewTieTracker()
	for mi := range src.Measures {
		m := &src.Measures[mi]
		nm := &notation.Measure{
			Number: m.Number,
			Staves: make(map[staff.Staff][]*notation.Element, 2),
		}
		for _, st := range []staff.Staff{staff.Treble, staff.Bass} {
			elems, err := buildStaff(m, st, ts.BeatsPerMeasure(), ties, cfg.Debug)
			if err != nil {
				return nil, err
			}
			beam.Annotate(elems)
			nm.Staves[st] = elems
		}
		out.Measures = append(out.Measures, nm)
	}
	return out, nil
}

// cluster is a simultaneity: source notes sharing one tolerance-rounded
// position on one staff.
type cluster struct {
	rel   float64
	notes []*model.Note
}

func buildStaff(m *model.Measure, st staff.Staff, beatsPerMeasure float64, ties *TieTracker, dbg DebugContext) ([]*notation.Element, error) {
	notes := partition(m, st)
	if len(notes) == 0 {
		return wholeMeasureRest(beatsPerMeasure), nil
	}

	clusters := clusterNotes(notes, m)
	var elems []*notation.Element
	cursor := 0.0

	for _, cl := range clusters {
		if gap := cl.rel - cursor; gap > constants.PositionEpsilon {
			for _, entry := range duration.Decompose(gap) {
				elems = append(elems, &notation.Element{
					Kind:     notation.KindRest,
					Duration: entry,
					Offset:   cursor,
				})
				cursor += entry.QuarterLength()
			}
		}

		elem := buildElement(cl, st, ties)
		elem.Offset = cursor
		elems = append(elems, elem)
		cursor += elem.QuarterLength()

		if cursor > beatsPerMeasure+constants.Tolerance {
			return nil, &MeasureOverflowError{
				Measure: m.Number,
				Staff:   st,
				Pitch:   elementLabel(elem),
				Total:   cursor,
				Limit:   beatsPerMeasure,
			}
		}
	}

	if remaining := beatsPerMeasure - cursor; remaining > constants.PositionEpsilon {
		for _, entry := range duration.Decompose(remaining) {
			elems = append(elems, &notation.Element{
				Kind:     notation.KindRest,
				Duration: entry,
				Offset:   cursor,
			})
			cursor += entry.QuarterLength()
		}
	}

	if dbg.ShouldTrace(m.Number) {
		traceStaff(m.Number, st, elems)
	}
	return elems, nil
}

// partition selects this staff's notes by vertical coordinate and orders
// them by position, breaking simultaneity ties with the x coordinate.
func partition(m *model.Measure, st staff.Staff) []*model.Note {
	var notes []*model.Note
	for i := range m.Notes {
		n := &m.Notes[i]
		if staff.Of(n.Y) != st {
			continue
		}
		if n.PositionBeats-m.StartPositionBeats < -constants.Tolerance {
			log.Printf("warning: measure %d %s: note %s at beat %.3f precedes measure start %.3f, skipping",
				m.Number, st, n.PitchName, n.PositionBeats, m.StartPositionBeats)
			continue
		}
		notes = append(notes, n)
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].PositionBeats != notes[j].PositionBeats {
			return notes[i].PositionBeats < notes[j].PositionBeats
		}
		return notes[i].X < notes[j].X
	})
	return notes
}

func clusterNotes(notes []*model.Note, m *model.Measure) []cluster {
	var clusters []cluster
	for _, n := range notes {
		rel := n.PositionBeats - m.StartPositionBeats
		if rel < 0 {
			rel = 0
		}
		if len(clusters) > 0 {
			last := &clusters[len(clusters)-1]
			if math.Abs(rel-last.rel) < constants.PositionEpsilon {
				last.notes = append(last.notes, n)
				continue
			}
		}
		clusters = append(clusters, cluster{rel: rel, notes: []*model.Note{n}})
	}
	return clusters
}

func buildElement(cl cluster, st staff.Staff, ties *TieTracker) *notation.Element {
	first := cl.notes[0]
	elem := &notation.Element{
		Duration: resolveEntry(first),
		Tuplet:   parseTuplet(first),
	}

	pitched := make([]*model.Note, 0, len(cl.notes))
	for _, n := range cl.notes {
		if !n.IsRest() {
			pitched = append(pitched, n)
		}
	}

	switch len(pitched) {
	case 0:
		elem.Kind = notation.KindRest
		return elem
	case 1:
		elem.Kind = notation.KindNote
	default:
		elem.Kind = notation.KindChord
		sort.SliceStable(pitched, func(i, j int) bool {
			return pitched[i].Midi() < pitched[j].Midi()
		})
	}

	for _, n := range pitched {
		p := notation.Pitch{
			Name:       n.PitchName,
			Midi:       n.Midi(),
			Cautionary: n.AccidentalCautionary,
		}
		if n.Accidental != nil {
			p.Accidental = *n.Accidental
		}
		elem.Pitches = append(elem.Pitches, p)
	}
	for i, n := range pitched {
		applyTie(n, &elem.Pitches[i], st, ties)
	}
	return elem
}

func applyTie(n *model.Note, p *notation.Pitch, st staff.Staff, ties *TieTracker) {
	if n.TieType == nil {
		return
	}
	switch *n.TieType {
	case "start":
		ties.Start(p.Midi, st, p)
	case "stop":
		ties.Stop(p.Midi, st, p)
	}
}

// resolveEntry trusts a recognized declared type; otherwise quantizes the
// raw beat length.
func resolveEntry(n *model.Note) duration.Entry {
	if c, ok := duration.FromName(n.DurationType); ok {
		dots := n.Dots
		if dots < 0 {
			dots = 0
		}
		if dots > 2 {
			dots = 2
		}
		return duration.Entry{Class: c, Dots: dots}
	}
	if n.DurationType != "" {
		log.Printf("warning: unrecognized duration type %q on %s, quantizing %.3f beats", n.DurationType, n.PitchName, n.DurationBeats)
	}
	return duration.Closest(n.DurationBeats)
}

func parseTuplet(n *model.Note) *notation.Tuplet {
	if !n.IsTuplet || n.TupletRatio == nil {
		return nil
	}
	parts := strings.SplitN(*n.TupletRatio, ":", 2)
	if len(parts) != 2 {
		return nil
	}
	actual, err1 := strconv.Atoi(parts[0])
	normal, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || actual <= 0 || normal <= 0 {
		log.Printf("warning: unparseable tuplet ratio %q, ignoring", *n.TupletRatio)
		return nil
	}
	return &notation.Tuplet{Actual: actual, Normal: normal}
}

func wholeMeasureRest(beatsPerMeasure float64) []*notation.Element {
	var elems []*notation.Element
	cursor := 0.0
	for _, entry := range duration.Decompose(beatsPerMeasure) {
		elems = append(elems, &notation.Element{
			Kind:     notation.KindRest,
			Duration: entry,
			Offset:   cursor,
		})
		cursor += entry.QuarterLength()
	}
	return elems
}

// inferTimeSignature derives the numerator from the start-beat delta of the
// first two measures; the denominator is fixed at 4 in this corpus.
func inferTimeSignature(src *model.Score) notation.TimeSignature {
	ts := notation.TimeSignature{Numerator: 4, Denominator: 4}
	if len(src.Measures) >= 2 {
		delta := src.Measures[1].StartPositionBeats - src.Measures[0].StartPositionBeats
		num := int(math.Round(delta))
		if num >= 1 && num <= 12 {
			ts.Numerator = num
		}
	}
	return ts
}

func elementLabel(e *notation.Element) string {
	if len(e.Pitches) == 0 {
		return "rest"
	}
	names := make([]string, len(e.Pitches))
	for i, p := range e.Pitches {
		names[i] = p.Name
	}
	return strings.Join(names, "+")
}

func traceStaff(number int, st staff.Staff, elems []*notation.Element) {
	log.Printf("measure %d %s:", number, st)
	for _, e := range elems {
		dots := strings.Repeat(".", e.Duration.Dots)
		log.Printf("  %-12s %s%s at %.2f", elementLabel(e), e.Duration.Class.Name(), dots, e.Offset)
	}
}
