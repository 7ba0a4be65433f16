package model

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
)

// ValidationError reports malformed or missing required fields in an input
// document. It aborts the single-file conversion but is non-fatal to a batch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid score: field %q %s", e.Field, e.Reason)
}

// Load reads and validates a score JSON file.
func Load(path string) (*Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses and validates a score from r.
func Read(r io.Reader) (*Score, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var s Score
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &ValidationError{Field: "(document)", Reason: "is not valid JSON: " + err.Error()}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.Renumber()
	return &s, nil
}

// Validate checks the structural requirements the builder relies on.
func (s *Score) Validate() error {
	if len(s.Measures) == 0 {
		return &ValidationError{Field: "measures", Reason: "is missing or empty"}
	}
	for mi := range s.Measures {
		m := &s.Measures[mi]
		for ni := range m.Notes {
			n := &m.Notes[ni]
			if n.DurationBeats < 0 {
				return &ValidationError{
					Field:  fmt.Sprintf("measures[%d].notes[%d].durationBeats", mi, ni),
					Reason: "is negative",
				}
			}
			if !n.IsRest() && n.PitchName == "" {
				return &ValidationError{
					Field:  fmt.Sprintf("measures[%d].notes[%d].pitchName", mi, ni),
					Reason: "is missing for a pitched note",
				}
			}
			if n.PitchMidiNote != nil && (*n.PitchMidiNote < 0 || *n.PitchMidiNote > 127) {
				return &ValidationError{
					Field:  fmt.Sprintf("measures[%d].notes[%d].pitchMidiNote", mi, ni),
					Reason: "is outside 0..127",
				}
			}
		}
	}
	return nil
}

// Renumber rewrites measure numbers to be contiguous from 1. Non-contiguous
// source numbering is tolerated with a warning.
func (s *Score) Renumber() {
	contiguous := true
	for i := range s.Measures {
		if s.Measures[i].Number != i+1 {
			contiguous = false
		}
	}
	if contiguous {
		return
	}
	log.Printf("warning: measure numbering is non-contiguous, renumbering 1..%d", len(s.Measures))
	for i := range s.Measures {
		s.Measures[i].Number = i + 1
	}
}
