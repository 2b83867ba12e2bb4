package usecase

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nareswara/svara/adapters/rpc"
	"github.com/nareswara/svara/domain/entities"
	"github.com/nareswara/svara/domain/repositories"
)

// SynthesizerService implements the svara.v1.Synthesizer surface.
type SynthesizerService struct {
	engine repositories.SynthesisEngine
	logger *zap.Logger
}

var _ rpc.SynthesizerServer = (*SynthesizerService)(nil)

// NewSynthesizerService creates the synthesis service.
func NewSynthesizerService(engine repositories.SynthesisEngine, logger *zap.Logger) *SynthesizerService {
	return &SynthesizerService{engine: engine, logger: logger}
}

func (s *SynthesizerService) SynthesizeSpeech(ctx context.Context, req *rpc.SynthesizeRequest) (*rpc.SynthesizeResponse, error) {
	if req == nil || req.Text == "" {
		return nil, status.Error(codes.InvalidArgument, "empty value for text")
	}
	language, err := entities.ParseLanguage(req.Voice.Language)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	rate := entities.SampleRate16kHz
	if req.Voice.SampleRateHz != 0 {
		rate, err = entities.ParseSampleRate(req.Voice.SampleRateHz)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}

	s.logger.Info("received synthesis request",
		zap.String("language", language.String()),
		zap.String("voice", req.Voice.VoiceID),
		zap.Int("sample_rate", int(rate)),
		zap.Int("characters", len(req.Text)))

	audio, err := s.engine.Synthesize(ctx, req.Text, repositories.VoiceConfig{
		Voice:      req.Voice.VoiceID,
		Language:   language,
		SampleRate: rate,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &rpc.SynthesizeResponse{Audio: audio, SampleRateHz: int(rate)}, nil
}
