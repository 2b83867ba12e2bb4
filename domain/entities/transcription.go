package entities

import "time"

// WordTiming locates a single recognized word within the audio.
type WordTiming struct {
	Word       string        `json:"word"`
	Start      time.Duration `json:"start"`
	End        time.Duration `json:"end"`
	Confidence float32       `json:"confidence"`
}

// Transcription is the outcome of recognizing a span of audio.
type Transcription struct {
	Text       string        `json:"text"`
	Confidence float32       `json:"confidence"`
	Words      []WordTiming  `json:"words,omitempty"`
	Duration   time.Duration `json:"duration"`
}
