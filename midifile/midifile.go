// Package midifile renders a notation score as a standard MIDI file with
// one track per staff, for quick audible checks of a conversion.
package midifile

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/ismscore/scoreconv/notation"
	"github.com/ismscore/scoreconv/staff"
)

// TicksPerQuarter is the SMF resolution. 960 keeps 64th notes and triplet
// subdivisions on integer tick boundaries.
const TicksPerQuarter = 960

const defaultVelocity = 80

// Render builds a two-track SMF from the notation score. Track 0 carries the
// tempo and the treble staff, track 1 the bass staff.
func Render(n *notation.Score) (*smf.SMF, error) {
	if len(n.Measures) == 0 {
		return nil, errors.New("score has no measures")
	}

	res := smf.New()
	res.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	for i, st := range []staff.Staff{staff.Treble, staff.Bass} {
		var track smf.Track
		if i == 0 {
			track.Add(0, smf.MetaTempo(float64(n.Tempo)))
			track.Add(0, smf.MetaMeter(uint8(n.Time.Numerator), uint8(n.Time.Denominator)))
		}
		writeStaff(&track, n, st)
		track.Close(0)
		if err := res.Add(track); err != nil {
			return nil, errors.Wrapf(err, "add %s track", st)
		}
	}
	return res, nil
}

// WriteFile renders the score and writes it to path.
func WriteFile(n *notation.Score, path string) error {
	mf, err := Render(n)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	if _, err := mf.WriteTo(f); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// event is an absolute-tick note boundary, flattened before delta encoding.
type event struct {
	tick uint32
	on   bool
	key  uint8
}

func writeStaff(track *smf.Track, n *notation.Score, st staff.Staff) {
	beats := n.Time.BeatsPerMeasure()
	var events []event

	for i := range n.Measures {
		measureStart := float64(i) * beats
		for _, e := range n.Measures[i].Elements(st) {
			if e.Kind == notation.KindRest {
				continue
			}
			start := toTicks(measureStart + e.Offset)
			end := toTicks(measureStart + e.Offset + e.QuarterLength())
			for _, p := range e.Pitches {
				// Tie continuations extend the previous onset instead of
				// restriking the key.
				if p.Tie == notation.TieStop {
					extendNoteOff(events, p.Midi, start, end)
					continue
				}
				events = append(events, event{tick: start, on: true, key: uint8(p.Midi)})
				events = append(events, event{tick: end, on: false, key: uint8(p.Midi)})
			}
		}
	}

	sortEvents(events)

	var last uint32
	for _, ev := range events {
		delta := ev.tick - last
		last = ev.tick
		if ev.on {
			track.Add(delta, midi.NoteOn(0, ev.key, defaultVelocity))
		} else {
			track.Add(delta, midi.NoteOff(0, ev.key))
		}
	}
}

// extendNoteOff moves the pending note-off for key at tick start out to end.
func extendNoteOff(events []event, key int, start, end uint32) {
	for i := len(events) - 1; i >= 0; i-- {
		if !events[i].on && events[i].key == uint8(key) && events[i].tick == start {
			events[i].tick = end
			return
		}
	}
}

// sortEvents orders by tick, note-offs before note-ons at the same tick so a
// repeated pitch releases before it restrikes.
func sortEvents(events []event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].on && events[j].on
	})
}

func toTicks(quarterLengths float64) uint32 {
	return uint32(quarterLengths*TicksPerQuarter + 0.5)
}
