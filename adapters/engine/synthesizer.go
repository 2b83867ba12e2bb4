package engine

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/nareswara/svara/domain/entities"
	"github.com/nareswara/svara/domain/repositories"
)

// msPerCharacter sizes the rendered audio proportionally to the text.
const msPerCharacter = 60

// StaticSynthesizer renders deterministic placeholder audio: a fixed-pitch
// tone whose length tracks the input text.
type StaticSynthesizer struct {
	logger *zap.Logger
}

var _ repositories.SynthesisEngine = (*StaticSynthesizer)(nil)

func NewStaticSynthesizer(logger *zap.Logger) *StaticSynthesizer {
	return &StaticSynthesizer{logger: logger}
}

func (e *StaticSynthesizer) Synthesize(ctx context.Context, text string, voice repositories.VoiceConfig) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("empty value for text")
	}

	rate := voice.SampleRate
	if rate == 0 {
		rate = entities.SampleRate16kHz
	}

	frames := int(rate) * len(text) * msPerCharacter / 1000
	audio := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		sample := int16(8000 * math.Sin(2*math.Pi*220*float64(i)/float64(rate)))
		binary.LittleEndian.PutUint16(audio[i*2:], uint16(sample))
	}

	e.logger.Debug("synthesized placeholder audio",
		zap.Int("characters", len(text)),
		zap.Int("sample_rate", int(rate)),
		zap.Int("bytes", len(audio)))
	return audio, nil
}
