// Package staff maps between pitches, vertical pixel coordinates and staff
// assignment for a two-staff (treble/bass) system.
package staff

type Staff string

const (
	Treble Staff = "treble"
	Bass   Staff = "bass"
)

// SplitY is the fixed vertical threshold separating the staves: a note is
// treble iff its y coordinate is at or above this line.
const SplitY = -60.0

// Of assigns a staff from a vertical coordinate. Pure function.
func Of(y float64) Staff {
	if y >= SplitY {
		return Treble
	}
	return Bass
}

// calibration holds the empirical anchor and slopes for one staff. The
// asymmetric treble slopes reproduce observed engraving spacing; they are a
// fit, not a law, and are tested in isolation so they can be re-fitted.
type calibration struct {
	anchorMidi int
	anchorY    float64
	slopeAbove float64
	slopeBelow float64
}

var calibrations = map[Staff]calibration{
	Treble: {anchorMidi: 64, anchorY: -40.0, slopeAbove: 3.0, slopeBelow: 2.5},
	Bass:   {anchorMidi: 43, anchorY: -155.74, slopeAbove: 2.5, slopeBelow: 2.5},
}

// YOf synthesizes a vertical coordinate for a pitch on the given staff.
func YOf(midi int, s Staff) float64 {
	cal, ok := calibrations[s]
	if !ok {
		cal = calibrations[Treble]
	}
	semitones := float64(midi - cal.anchorMidi)
	if semitones > 0 {
		return cal.anchorY + semitones*cal.slopeAbove
	}
	return cal.anchorY + semitones*cal.slopeBelow
}
