package model

// ScoreMetadata is the catalog record attached to a score file.
type ScoreMetadata struct {
	Title    string `json:"title"`
	Composer string `json:"composer"`
	Arranger string `json:"arranger"`
	Lyricist string `json:"lyricist"`
	Year     uint   `json:"year,omitempty"`
}

// Apply fills in score header fields that the document left blank.
func (md ScoreMetadata) Apply(s *Score) {
	if s.Title == "" {
		s.Title = md.Title
	}
	if s.Composer == "" {
		s.Composer = md.Composer
	}
	if s.Arranger == "" {
		s.Arranger = md.Arranger
	}
	if s.Lyricist == "" {
		s.Lyricist = md.Lyricist
	}
}
