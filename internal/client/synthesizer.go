package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nareswara/svara/adapters/rpc"
	"github.com/nareswara/svara/internal/audio"
)

// Synthesizer requests audio renderings from the synthesis service.
type Synthesizer struct {
	conn   connCloser
	client rpc.SynthesizerClient
	logger *zap.Logger
}

// NewSynthesizer connects a synthesizer client.
func NewSynthesizer(options Options) (*Synthesizer, error) {
	opts := options.withDefaults()
	conn, err := dial(opts)
	if err != nil {
		return nil, err
	}
	return &Synthesizer{
		conn:   conn,
		client: rpc.NewSynthesizerClient(conn),
		logger: opts.Logger,
	}, nil
}

// Close releases the underlying connection.
func (s *Synthesizer) Close() error {
	return s.conn.Close()
}

// Synthesize renders text into PCM16 audio.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, voice rpc.VoiceSelection) (*rpc.SynthesizeResponse, error) {
	response, err := s.client.SynthesizeSpeech(ctx, &rpc.SynthesizeRequest{Text: text, Voice: voice})
	if err != nil {
		return nil, err
	}
	s.logger.Info("synthesis complete",
		zap.Int("bytes", len(response.Audio)),
		zap.Int("sample_rate", response.SampleRateHz))
	return response, nil
}

// SynthesizeToFile renders text and writes the audio as a WAV file.
func (s *Synthesizer) SynthesizeToFile(ctx context.Context, text string, voice rpc.VoiceSelection, path string) error {
	response, err := s.Synthesize(ctx, text, voice)
	if err != nil {
		return err
	}
	if err := audio.WriteFile(path, response.SampleRateHz, response.Audio); err != nil {
		return fmt.Errorf("failed to save synthesized audio: %w", err)
	}
	s.logger.Info("synthesized audio saved", zap.String("path", path))
	return nil
}
