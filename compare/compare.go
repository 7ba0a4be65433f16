// Package compare implements the tolerance-aware structural diff between
// two JSON score representations. It is the round-trip test oracle and the
// pass/fail check consumed by batch tooling.
package compare

import (
	"fmt"
	"math"
	"sort"

	"github.com/ismscore/scoreconv/model"
)

// DefaultTolerance is the epsilon for position, beat and second comparisons.
const DefaultTolerance = 0.01

// Diff is one itemized difference between the two scores.
type Diff struct {
	Measure  int     `json:"measure"`
	Position float64 `json:"position"`
	Field    string  `json:"field"`
	Left     string  `json:"left"`
	Right    string  `json:"right"`
}

func (d Diff) String() string {
	loc := "score"
	if d.Measure > 0 {
		loc = fmt.Sprintf("measure %d @ %.2f", d.Measure, d.Position)
	}
	return fmt.Sprintf("%s: %s: %s vs %s", loc, d.Field, d.Left, d.Right)
}

// Result is the comparator verdict: PASS iff no difference was found.
type Result struct {
	Diffs []Diff `json:"diffs"`
}

func (r *Result) Pass() bool { return len(r.Diffs) == 0 }

func (r *Result) add(measure int, pos float64, field, left, right string) {
	r.Diffs = append(r.Diffs, Diff{Measure: measure, Position: pos, Field: field, Left: left, Right: right})
}

// Scores diffs two score documents with the given tolerance (0 means
// DefaultTolerance). Differences are results, not errors.
func Scores(a, b *model.Score, tolerance float64) *Result {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	res := &Result{}

	if a.Tempo != 0 && b.Tempo != 0 && math.Abs(float64(a.Tempo-b.Tempo)) > tolerance {
		res.add(0, 0, "tempo", fmt.Sprint(a.Tempo), fmt.Sprint(b.Tempo))
	}
	compareMetadata(res, a, b)
	if len(a.Measures) != len(b.Measures) {
		res.add(0, 0, "measureCount", fmt.Sprint(len(a.Measures)), fmt.Sprint(len(b.Measures)))
		return res
	}

	for i := range a.Measures {
		compareMeasure(res, &a.Measures[i], &b.Measures[i], tolerance)
	}
	return res
}

// compareMetadata flags header fields present on both sides but differing.
// A field blank on either side is not a difference: extraction does not
// always carry metadata through.
func compareMetadata(res *Result, a, b *model.Score) {
	fields := []struct{ name, left, right string }{
		{"title", a.Title, b.Title},
		{"composer", a.Composer, b.Composer},
		{"arranger", a.Arranger, b.Arranger},
		{"lyricist", a.Lyricist, b.Lyricist},
	}
	for _, f := range fields {
		if f.left != "" && f.right != "" && f.left != f.right {
			res.add(0, 0, f.name, f.left, f.right)
		}
	}
}

func compareMeasure(res *Result, m1, m2 *model.Measure, tol float64) {
	num := m1.Number
	if len(m1.Notes) != len(m2.Notes) {
		res.add(num, m1.StartPositionBeats, "noteCount", fmt.Sprint(len(m1.Notes)), fmt.Sprint(len(m2.Notes)))
	}

	buckets1 := groupByPosition(m1.Notes, tol)
	buckets2 := groupByPosition(m2.Notes, tol)

	positions := make(map[float64]bool)
	for pos := range buckets1 {
		positions[pos] = true
	}
	for pos := range buckets2 {
		positions[pos] = true
	}
	sorted := make([]float64, 0, len(positions))
	for pos := range positions {
		sorted = append(sorted, pos)
	}
	sort.Float64s(sorted)

	for _, pos := range sorted {
		notes1 := buckets1[pos]
		notes2 := buckets2[pos]
		if len(notes1) != len(notes2) {
			// Chord vs single note at the same position is reported as a
			// count mismatch, never partially compared.
			res.add(num, pos, "elementCount", fmt.Sprint(len(notes1)), fmt.Sprint(len(notes2)))
			continue
		}
		sortByPitch(notes1)
		sortByPitch(notes2)
		for i := range notes1 {
			compareNote(res, num, pos, notes1[i], notes2[i], tol)
		}
	}
}

func compareNote(res *Result, measure int, pos float64, n1, n2 *model.Note, tol float64) {
	if n1.IsRest() != n2.IsRest() {
		res.add(measure, pos, "kind", kindOf(n1), kindOf(n2))
		return
	}
	if !n1.IsRest() && !samePitch(n1, n2) {
		res.add(measure, pos, "pitch",
			fmt.Sprintf("%s (%d)", n1.PitchName, n1.Midi()),
			fmt.Sprintf("%s (%d)", n2.PitchName, n2.Midi()))
	}
	if n1.DurationType != n2.DurationType {
		res.add(measure, pos, "durationType", n1.DurationType, n2.DurationType)
	}
	if n1.Dots != n2.Dots {
		res.add(measure, pos, "dots", fmt.Sprint(n1.Dots), fmt.Sprint(n2.Dots))
	}
	if math.Abs(n1.DurationBeats-n2.DurationBeats) > tol {
		res.add(measure, pos, "durationBeats",
			fmt.Sprintf("%.3f", n1.DurationBeats), fmt.Sprintf("%.3f", n2.DurationBeats))
	}
	if math.Abs(n1.DurationSeconds-n2.DurationSeconds) > tol {
		res.add(measure, pos, "durationSeconds",
			fmt.Sprintf("%.3f", n1.DurationSeconds), fmt.Sprintf("%.3f", n2.DurationSeconds))
	}
	if tieOf(n1) != tieOf(n2) {
		res.add(measure, pos, "tie", tieOf(n1), tieOf(n2))
	}
	if n1.IsTuplet != n2.IsTuplet {
		res.add(measure, pos, "tuplet", fmt.Sprint(n1.IsTuplet), fmt.Sprint(n2.IsTuplet))
	}
}

// samePitch compares by enharmonic/MIDI equivalence, never string equality.
func samePitch(n1, n2 *model.Note) bool {
	if n1.PitchMidiNote != nil && n2.PitchMidiNote != nil {
		return *n1.PitchMidiNote == *n2.PitchMidiNote
	}
	return model.SamePitch(n1.PitchName, n2.PitchName)
}

func groupByPosition(notes []model.Note, tol float64) map[float64][]*model.Note {
	buckets := make(map[float64][]*model.Note)
	for i := range notes {
		n := &notes[i]
		pos := math.Round(n.PositionBeats/tol) * tol
		buckets[pos] = append(buckets[pos], n)
	}
	return buckets
}

func sortByPitch(notes []*model.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Midi() < notes[j].Midi()
	})
}

func kindOf(n *model.Note) string {
	if n.IsRest() {
		return "rest"
	}
	return "note"
}

func tieOf(n *model.Note) string {
	if n.TieType == nil {
		return "none"
	}
	return *n.TieType
}
