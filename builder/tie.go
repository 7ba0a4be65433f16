package builder

import (
	"log"

	"github.com/ismscore/scoreconv/notation"
	"github.com/ismscore/scoreconv/staff"
)

// tieKey identifies an open tie: same pitch, same staff.
type tieKey struct {
	midi int
	st   staff.Staff
}

// TieTracker is the cross-note tie state machine. Its lifetime is exactly
// one score build; it is owned by the builder and never shared.
type TieTracker struct {
	pending map[tieKey]*notation.Pitch
	dropped int
}

func NewTieTracker() *TieTracker {
	return &TieTracker{pending: make(map[tieKey]*notation.Pitch)}
}

// Start records an opening tie for the pitch. Starting a tie on an already
// open key overwrites the pending record (last-start-wins); the overwrite
// may mask a missing stop, so it is warned about rather than silent.
func (t *TieTracker) Start(midi int, st staff.Staff, p *notation.Pitch) {
	key := tieKey{midi: midi, st: st}
	if _, open := t.pending[key]; open {
		log.Printf("warning: tie start on already-open key (midi=%d staff=%s), overwriting pending start", midi, st)
	}
	p.Tie = notation.TieStart
	t.pending[key] = p
}

// Stop resolves an open tie for the pitch, linking the pending start to this
// pitch. A stop with no matching start is dropped without linkage.
func (t *TieTracker) Stop(midi int, st staff.Staff, p *notation.Pitch) bool {
	key := tieKey{midi: midi, st: st}
	if _, open := t.pending[key]; !open {
		t.dropped++
		return false
	}
	delete(t.pending, key)
	p.Tie = notation.TieStop
	return true
}

// Open reports whether a start is pending for the pitch.
func (t *TieTracker) Open(midi int, st staff.Staff) bool {
	_, open := t.pending[tieKey{midi: midi, st: st}]
	return open
}

// DroppedStops counts stop events that arrived with no open start.
func (t *TieTracker) DroppedStops() int {
	return t.dropped
}
