// Package beam groups runs of short-duration elements into beam groups and
// classifies them with musical heuristics. Classification is advisory
// round-trip metadata, not semantics.
package beam

import (
	"math"

	"github.com/ismscore/scoreconv/duration"
	"github.com/ismscore/scoreconv/notation"
)

type Label string

const (
	LabelTiedChord Label = "tied_chord"
	LabelHarmonic  Label = "harmonic"
	LabelMelodic   Label = "melodic"
	LabelTied      Label = "tied"
	LabelDefault   Label = "default"
)

// Group is an ordered run of beamable elements on one staff.
type Group struct {
	Label    Label
	Elements []*notation.Element
}

// maxMelodicExcursion bounds a melodic group's total pitch span (2 octaves).
const maxMelodicExcursion = 24

// classifiers is the classification policy: an ordered (label, predicate)
// table evaluated in priority order, first match wins.
var classifiers = []struct {
	label Label
	match func(g []*notation.Element) bool
}{
	{LabelTiedChord, isTiedChordPattern},
	{LabelHarmonic, isHarmonic},
	{LabelMelodic, isMelodic},
	{LabelTied, anyTied},
	{LabelDefault, func([]*notation.Element) bool { return true }},
}

// Annotate partitions the candidates in one staff's measure into beam
// groups, stamps beam markings on every group of size two or more, and
// returns the groups for inspection.
func Annotate(elems []*notation.Element) []Group {
	var groups []Group
	var cur []*notation.Element

	flush := func() {
		if len(cur) > 0 {
			groups = append(groups, finish(cur))
			cur = nil
		}
	}

	for _, e := range elems {
		if !beamable(e) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			crossesBeat := int(math.Floor(e.Offset)) != int(math.Floor(prev.Offset))
			if crossesBeat && !continuesMelody(cur, e) {
				flush()
			} else if breaksMelody(cur, e) {
				flush()
			}
		}
		cur = append(cur, e)
		// A satisfied tied-chord pattern closes right after its second
		// element.
		if isTiedChordPattern(cur) {
			flush()
		}
	}
	flush()
	return groups
}

func finish(elems []*notation.Element) Group {
	g := Group{Elements: elems}
	for _, c := range classifiers {
		if c.match(elems) {
			g.Label = c.label
			break
		}
	}
	if len(elems) >= 2 {
		stamp(elems)
	}
	return g
}

// stamp marks first=start, interior=continue, last=stop. Sixteenth elements
// carry a secondary beam level in addition to the eighth-level beam.
func stamp(elems []*notation.Element) {
	for i, e := range elems {
		var bt notation.BeamType
		switch i {
		case 0:
			bt = notation.BeamStart
		case len(elems) - 1:
			bt = notation.BeamStop
		default:
			bt = notation.BeamContinue
		}
		e.Beams = []notation.Beam{{Level: 1, Type: bt}}
		if e.Duration.Class == duration.Class16th {
			e.Beams = append(e.Beams, notation.Beam{Level: 2, Type: bt})
		}
	}
}

func beamable(e *notation.Element) bool {
	if e.Kind == notation.KindRest {
		return false
	}
	return e.Duration.Class == duration.ClassEighth || e.Duration.Class == duration.Class16th
}

// melodyLine is the group's top pitch per element: the single pitch of a
// note, the topmost pitch of a chord.
func melodyLine(elems []*notation.Element) []int {
	line := make([]int, 0, len(elems))
	for _, e := range elems {
		if top := e.TopPitch(); top != nil {
			line = append(line, top.Midi)
		}
	}
	return line
}

// direction returns +1 or -1 for an established monotonic progression over
// at least two differing values, 0 otherwise.
func direction(line []int) int {
	dir := 0
	for i := 1; i < len(line); i++ {
		step := sign(line[i] - line[i-1])
		if step == 0 {
			continue
		}
		if dir == 0 {
			dir = step
		} else if step != dir {
			return 0
		}
	}
	return dir
}

// continuesMelody reports whether appending e keeps a melodic progression
// going: the step direction agrees with the group's, and the total
// excursion stays within two octaves.
func continuesMelody(cur []*notation.Element, e *notation.Element) bool {
	top := e.TopPitch()
	if top == nil {
		return false
	}
	line := melodyLine(cur)
	if len(line) == 0 {
		return false
	}
	step := sign(top.Midi - line[len(line)-1])
	if step == 0 {
		return false
	}
	dir := direction(line)
	if dir != 0 && step != dir {
		return false
	}
	return excursion(append(line, top.Midi)) <= maxMelodicExcursion
}

// breaksMelody reports whether appending e would contradict an established
// progression in the current group.
func breaksMelody(cur []*notation.Element, e *notation.Element) bool {
	line := melodyLine(cur)
	dir := direction(line)
	if dir == 0 || countDistinct(line) < 2 {
		return false
	}
	top := e.TopPitch()
	if top == nil {
		return false
	}
	step := sign(top.Midi - line[len(line)-1])
	return step != 0 && step != dir
}

func isTiedChordPattern(elems []*notation.Element) bool {
	if len(elems) != 2 {
		return false
	}
	for _, e := range elems {
		if e.Kind != notation.KindChord {
			return false
		}
	}
	if elems[0].Offset == elems[1].Offset {
		return false
	}
	return anyTied(elems)
}

func isHarmonic(elems []*notation.Element) bool {
	if len(elems) < 2 {
		return false
	}
	top := -1
	for _, e := range elems {
		if e.Kind != notation.KindChord {
			return false
		}
		p := e.TopPitch()
		if p == nil {
			return false
		}
		if top == -1 {
			top = p.Midi
		} else if p.Midi != top {
			return false
		}
	}
	return true
}

func isMelodic(elems []*notation.Element) bool {
	line := melodyLine(elems)
	if countDistinct(line) < 2 {
		return false
	}
	return direction(line) != 0 && excursion(line) <= maxMelodicExcursion
}

func anyTied(elems []*notation.Element) bool {
	for _, e := range elems {
		if e.HasTie() {
			return true
		}
	}
	return false
}

func excursion(line []int) int {
	if len(line) == 0 {
		return 0
	}
	lo, hi := line[0], line[0]
	for _, v := range line[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}

func countDistinct(line []int) int {
	seen := make(map[int]bool, len(line))
	for _, v := range line {
		seen[v] = true
	}
	return len(seen)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
