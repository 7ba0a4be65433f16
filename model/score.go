package model

// Score is the JSON interchange representation: a flat, pixel-positioned,
// continuous-time description of a two-staff piece.
type Score struct {
	Measures  []Measure `json:"measures"`
	Tempo     int       `json:"tempo"`
	TempoText string    `json:"tempoText"`
	Title     string    `json:"title,omitempty"`
	Composer  string    `json:"composer"`
	Arranger  string    `json:"arranger"`
	Lyricist  string    `json:"lyricist"`
}

type Measure struct {
	Number               int     `json:"number"`
	StartPositionBeats   float64 `json:"startPositionBeats"`
	StartPositionSeconds float64 `json:"startPositionSeconds"`
	Width                float64 `json:"width"`
	Height               float64 `json:"height"`
	X                    float64 `json:"x"`
	Y                    float64 `json:"y"`
	StaffDistance        float64 `json:"staffDistance"`
	Notes                []Note  `json:"notes"`
}

type Note struct {
	PitchName            string  `json:"pitchName"`
	PitchMidiNote        *int    `json:"pitchMidiNote"`
	DurationBeats        float64 `json:"durationBeats"`
	DurationSeconds      float64 `json:"durationSeconds"`
	DurationType         string  `json:"durationType"`
	PositionBeats        float64 `json:"positionBeats"`
	PositionSeconds      float64 `json:"positionSeconds"`
	X                    float64 `json:"x"`
	Y                    float64 `json:"y"`
	Width                float64 `json:"width"`
	Height               float64 `json:"height"`
	Dots                 int     `json:"dots"`
	Staff                string  `json:"staff"`
	TieType              *string `json:"tieType"`
	Accidental           *string `json:"accidental"`
	AccidentalCautionary bool    `json:"accidentalCautionary"`
	IsChord              bool    `json:"isChord"`
	IsTuplet             bool    `json:"isTuplet"`
	TupletRatio          *string `json:"tupletRatio"`
}

// IsRest reports whether the note encodes a rest (null MIDI number).
func (n *Note) IsRest() bool {
	return n.PitchMidiNote == nil
}

// Midi returns the MIDI number, or 0 for rests.
func (n *Note) Midi() int {
	if n.PitchMidiNote != nil {
		return *n.PitchMidiNote
	}
	return 0
}

// EndBeats is the position one past the note's sounding span.
func (n *Note) EndBeats() float64 {
	return n.PositionBeats + n.DurationBeats
}
