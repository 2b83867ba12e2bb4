package repositories

import (
	"context"

	"github.com/nareswara/svara/domain/entities"
)

// VoiceConfig selects the voice used for synthesis.
type VoiceConfig struct {
	Voice      string
	Language   entities.Language
	SampleRate entities.SampleRate
}

// SynthesisEngine abstracts a text-to-speech backend. Synthesize returns raw
// single-channel PCM16 audio at the requested sample rate.
type SynthesisEngine interface {
	Synthesize(ctx context.Context, text string, voice VoiceConfig) ([]byte, error)
}
