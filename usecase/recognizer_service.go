package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nareswara/svara/adapters/rpc"
	"github.com/nareswara/svara/domain/entities"
	"github.com/nareswara/svara/domain/repositories"
)

// RecognizerService implements the svara.v1.Recognizer surface on top of a
// recognition engine. One service instance serves a single language.
type RecognizerService struct {
	engine repositories.RecognitionEngine
	logger *zap.Logger
}

var _ rpc.RecognizerServer = (*RecognizerService)(nil)

// NewRecognizerService creates the recognition service.
func NewRecognizerService(engine repositories.RecognitionEngine, logger *zap.Logger) *RecognizerService {
	return &RecognizerService{engine: engine, logger: logger}
}

// Recognize handles a complete utterance in a single request.
func (s *RecognizerService) Recognize(ctx context.Context, req *rpc.RecognizeRequest) (*rpc.RecognizeResponse, error) {
	if req == nil || (req.Config == nil && len(req.Audio) == 0) {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	config, err := s.validateConfig(req.Config)
	if err != nil {
		return nil, err
	}
	if len(req.Audio) == 0 {
		return nil, status.Error(codes.InvalidArgument, "empty value for audio")
	}

	duration := entities.AudioDuration(req.Audio, config.Encoding, config.SampleRate)
	s.logger.Info("received request",
		zap.String("language", config.Language.String()),
		zap.Int("sample_rate", int(config.SampleRate)),
		zap.Bool("formatting", config.Formatting),
		zap.Int("length", len(req.Audio)),
		zap.Duration("duration", duration),
		zap.String("topic", config.Topic.String()))

	session, err := s.engine.NewSession(ctx, config)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	// Nobody consumes partial hypotheses on the unary path, so drain them to
	// keep sessions that publish with a blocking send moving.
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for range session.Results() {
		}
	}()
	if err := session.Write(ctx, req.Audio); err != nil {
		if _, closeErr := session.CloseAndWait(ctx); closeErr != nil {
			s.logger.Warn("failed to close recognition session", zap.Error(closeErr))
		}
		<-drained
		return nil, status.Error(codes.Internal, err.Error())
	}
	final, err := session.CloseAndWait(ctx)
	<-drained
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	s.logger.Info("recognition result", zap.String("transcript", final.Text))
	return buildRecognizeResponse(final, duration, duration), nil
}

// StreamingRecognize handles the bidirectional recognition stream. The first
// client message must carry the recognition config; every later message
// carries an audio chunk. Partial hypotheses are sent as they are produced
// and the final one is flagged is_final once the client closes its side.
func (s *RecognizerService) StreamingRecognize(stream rpc.Recognizer_StreamingRecognizeServer) error {
	ctx := stream.Context()

	var (
		config    repositories.SessionConfig
		session   repositories.RecognitionSession
		closed    bool
		total     time.Duration
		sawAudio  bool
		forwarder sync.WaitGroup
		sendErr   error
		sendMu    sync.Mutex
	)

	// Any exit after the session opened must flush it, otherwise the engine
	// session stays open and the forwarder blocks on its results channel.
	defer func() {
		if session == nil || closed {
			return
		}
		if _, err := session.CloseAndWait(ctx); err != nil {
			s.logger.Warn("failed to close recognition session", zap.Error(err))
		}
		forwarder.Wait()
	}()

	for {
		req, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if req.Config == nil && len(req.Audio) == 0 {
			if session == nil {
				return status.Error(codes.InvalidArgument, "empty request")
			}
			return status.Error(codes.InvalidArgument, "empty value for audio")
		}

		// One message may carry both fields; the config applies before the
		// audio it travels with.
		if req.Config != nil {
			if session != nil {
				return status.Error(codes.InvalidArgument, "recognition config was already received")
			}
			config, err = s.validateConfig(req.Config)
			if err != nil {
				return err
			}
			s.logger.Info("received streaming request",
				zap.String("language", config.Language.String()),
				zap.Int("sample_rate", int(config.SampleRate)),
				zap.Bool("formatting", config.Formatting),
				zap.String("topic", config.Topic.String()))

			session, err = s.engine.NewSession(ctx, config)
			if err != nil {
				return status.Error(codes.InvalidArgument, err.Error())
			}

			forwarder.Add(1)
			go func(results <-chan entities.Transcription) {
				defer forwarder.Done()
				for partial := range results {
					response := buildStreamingResponse(partial, partial.Duration, false)
					sendMu.Lock()
					if sendErr == nil {
						sendErr = stream.Send(response)
					}
					sendMu.Unlock()
				}
			}(session.Results())
		}

		if len(req.Audio) > 0 {
			if session == nil {
				return status.Error(codes.InvalidArgument, "recognition config was never received")
			}
			chunkDuration := entities.AudioDuration(req.Audio, config.Encoding, config.SampleRate)
			total += chunkDuration
			s.logger.Info("received partial audio",
				zap.Int("length", len(req.Audio)),
				zap.Duration("duration", chunkDuration))
			if err := session.Write(ctx, req.Audio); err != nil {
				return status.Error(codes.Internal, err.Error())
			}
			sawAudio = true
		}
	}

	if session == nil {
		return status.Error(codes.InvalidArgument, "recognition config was never received")
	}
	if !sawAudio {
		return status.Error(codes.InvalidArgument, "audio was never received")
	}

	final, err := session.CloseAndWait(ctx)
	closed = true
	forwarder.Wait()
	if err != nil {
		return status.Error(codes.Internal, err.Error())
	}
	if sendErr != nil {
		return sendErr
	}

	s.logger.Info("recognition result", zap.String("transcript", final.Text))
	final.Duration = total
	return stream.Send(buildStreamingResponse(final, total, true))
}

func (s *RecognizerService) validateConfig(config *rpc.RecognitionConfig) (repositories.SessionConfig, error) {
	if config == nil {
		return repositories.SessionConfig{}, status.Error(codes.InvalidArgument, "recognition config was never received")
	}
	language, err := entities.ParseLanguage(config.Parameters.Language)
	if err != nil {
		return repositories.SessionConfig{}, status.Error(codes.InvalidArgument, err.Error())
	}
	if language != s.engine.Language() {
		return repositories.SessionConfig{}, status.Errorf(codes.InvalidArgument,
			"invalid language '%s', only '%s' is supported", language, s.engine.Language())
	}
	rate, err := entities.ParseSampleRate(config.Parameters.SampleRateHz)
	if err != nil {
		return repositories.SessionConfig{}, status.Error(codes.InvalidArgument, err.Error())
	}
	encoding, err := entities.ParseAudioEncoding(config.Parameters.AudioEncoding)
	if err != nil {
		return repositories.SessionConfig{}, status.Error(codes.InvalidArgument, err.Error())
	}
	topic, err := entities.ParseTopic(config.Resource.Topic)
	if err != nil {
		return repositories.SessionConfig{}, status.Error(codes.InvalidArgument, err.Error())
	}
	return repositories.SessionConfig{
		Language:    language,
		SampleRate:  rate,
		Encoding:    encoding,
		Topic:       topic,
		Formatting:  config.Parameters.EnableFormatting,
		Diarization: config.Parameters.EnableDiarization,
	}, nil
}

func buildRecognizeResponse(t entities.Transcription, duration, endTime time.Duration) *rpc.RecognizeResponse {
	return &rpc.RecognizeResponse{
		Alternatives: []rpc.RecognitionAlternative{buildAlternative(t)},
		EndTime:      rpc.NewDuration(endTime),
		Duration:     rpc.NewDuration(duration),
	}
}

func buildStreamingResponse(t entities.Transcription, endTime time.Duration, isFinal bool) *rpc.StreamingRecognizeResponse {
	return &rpc.StreamingRecognizeResponse{
		Results: rpc.StreamingRecognitionResult{
			Alternatives: []rpc.RecognitionAlternative{buildAlternative(t)},
			EndTime:      rpc.NewDuration(endTime),
			Duration:     rpc.NewDuration(t.Duration),
			IsFinal:      isFinal,
		},
	}
}

func buildAlternative(t entities.Transcription) rpc.RecognitionAlternative {
	words := make([]rpc.WordInfo, 0, len(t.Words))
	for _, word := range t.Words {
		words = append(words, rpc.WordInfo{
			Word:       word.Word,
			StartTime:  rpc.NewDuration(word.Start),
			EndTime:    rpc.NewDuration(word.End),
			Confidence: word.Confidence,
		})
	}
	return rpc.RecognitionAlternative{
		Transcript: t.Text,
		Confidence: t.Confidence,
		Words:      words,
	}
}
