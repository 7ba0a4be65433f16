// Package duration maps arbitrary floating-point beat lengths onto the
// canonical notated duration vocabulary and back.
package duration

import (
	"log"

	"github.com/ismscore/scoreconv/constants"
)

// Class is a canonical duration bucket. Quarter-length is the unit of time:
// 1.0 equals one quarter note.
type Class int

const (
	Class64th Class = iota
	Class32nd
	Class16th
	ClassEighth
	ClassQuarter
	ClassHalf
	ClassWhole
)

var classNames = map[Class]string{
	Class64th:    "64th",
	Class32nd:    "32nd",
	Class16th:    "16th",
	ClassEighth:  "eighth",
	ClassQuarter: "quarter",
	ClassHalf:    "half",
	ClassWhole:   "whole",
}

var classLengths = map[Class]float64{
	Class64th:    0.0625,
	Class32nd:    0.125,
	Class16th:    0.25,
	ClassEighth:  0.5,
	ClassQuarter: 1.0,
	ClassHalf:    2.0,
	ClassWhole:   4.0,
}

// byLengthDesc fixes the iteration order for lookups: larger classes first,
// so equal-distance ties resolve to the longer duration.
var byLengthDesc = []Class{
	ClassWhole, ClassHalf, ClassQuarter, ClassEighth, Class16th, Class32nd, Class64th,
}

// dotFactors scales a base length by its dot count.
var dotFactors = []float64{1.0, 1.5, 1.75}

func (c Class) Name() string { return classNames[c] }

func (c Class) QuarterLength() float64 { return classLengths[c] }

// FromName resolves a duration type name; ok is false for unknown names.
func FromName(name string) (Class, bool) {
	for c, n := range classNames {
		if n == name {
			return c, true
		}
	}
	return ClassQuarter, false
}

// Entry is a concrete notated duration: a class plus a dot count.
type Entry struct {
	Class Class
	Dots  int
}

func (e Entry) QuarterLength() float64 {
	return e.Class.QuarterLength() * dotFactors[e.Dots]
}

// The 0.15-0.18 band absorbs accumulated floating error from tuplet-derived
// lengths; such values always meant a quarter note in the source material.
const (
	tupletErrorBandLow  = 0.15
	tupletErrorBandHigh = 0.18
)

// QuantizeTolerance is the slack applied when matching a length against the
// canonical table before falling back to pure nearest-match.
const QuantizeTolerance = 0.05

// Closest returns the canonical entry nearest to the given quarter-length.
// Iteration is descending by length, so ties go to the larger class. The
// function is pure and never fails: out-of-range input degrades to the
// nearest end of the vocabulary.
func Closest(quarterLength float64) Entry {
	if quarterLength >= tupletErrorBandLow && quarterLength <= tupletErrorBandHigh {
		return Entry{Class: ClassQuarter}
	}

	best := Entry{Class: ClassQuarter}
	bestDiff := -1.0
	for _, c := range byLengthDesc {
		for dots := 0; dots <= 2; dots++ {
			e := Entry{Class: c, Dots: dots}
			diff := abs(e.QuarterLength() - quarterLength)
			if bestDiff < 0 || diff < bestDiff {
				best = e
				bestDiff = diff
			}
			if diff <= constants.Tolerance {
				return e
			}
		}
	}
	if bestDiff > QuantizeTolerance {
		log.Printf("warning: quarter-length %.4f is far from any canonical duration, using %s", quarterLength, best.Class.Name())
	}
	return best
}

// Decompose splits a non-negative quarter-length into an ordered,
// largest-first sequence of canonical entries summing to the input within
// tolerance. An exact base-class match returns a single entry; dotted
// lengths split into their constituent parts (1.5 -> quarter + eighth),
// which is the form gap-filling rests want.
func Decompose(quarterLength float64) []Entry {
	for _, c := range byLengthDesc {
		if abs(c.QuarterLength()-quarterLength) <= constants.Tolerance {
			return []Entry{{Class: c}}
		}
	}

	var out []Entry
	remaining := quarterLength
	smallest := Class64th.QuarterLength()
	for remaining > constants.Tolerance {
		fitted := false
		for _, c := range byLengthDesc {
			if c.QuarterLength() <= remaining+constants.Tolerance {
				out = append(out, Entry{Class: c})
				remaining -= c.QuarterLength()
				fitted = true
				break
			}
		}
		if !fitted {
			// Degenerate sliver shorter than a 64th: emit the smallest
			// unit and stop, keeping the sum within one unit of input.
			out = append(out, Entry{Class: Class64th})
			remaining -= smallest
		}
	}
	return out
}

// FromType maps a parsed duration type name and dot count to a canonical
// entry. Unrecognized names fall back to a quarter note.
func FromType(typeName string, dots int) Entry {
	c, ok := FromName(typeName)
	if !ok {
		log.Printf("warning: unrecognized duration type %q, defaulting to quarter", typeName)
	}
	if dots < 0 {
		dots = 0
	}
	if dots > 2 {
		dots = 2
	}
	return Entry{Class: c, Dots: dots}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
