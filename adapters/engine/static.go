// Package engine provides a deterministic speech engine used by local
// deployments and the end-to-end harness. It stands in for the production
// model runtime, which lives behind the same interfaces.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nareswara/svara/domain/entities"
	"github.com/nareswara/svara/domain/repositories"
)

var defaultMessages = map[entities.Language]string{
	entities.LanguageEnUS: "hello i am up and running received a message from you",
	entities.LanguageEs:   "hola estoy levantado y en marcha y he recibido un mensaje tuyo",
	entities.LanguagePtBR: "ola estou de pe recebi uma mensagem sua",
}

// wordSpan is the synthetic spacing between fabricated word timings.
const wordSpan = 300 * time.Millisecond

// Static is a RecognitionEngine that always recognizes the same sentence
// for its configured language.
type Static struct {
	language entities.Language
	logger   *zap.Logger
}

var _ repositories.RecognitionEngine = (*Static)(nil)

// NewStatic creates a deterministic engine for the given language.
func NewStatic(language entities.Language, logger *zap.Logger) *Static {
	return &Static{language: language, logger: logger}
}

func (e *Static) Language() entities.Language {
	return e.language
}

func (e *Static) NewSession(ctx context.Context, config repositories.SessionConfig) (repositories.RecognitionSession, error) {
	if config.Language != e.language {
		return nil, fmt.Errorf("invalid language '%s', only '%s' is supported", config.Language, e.language)
	}
	e.logger.Debug("starting recognition session",
		zap.String("language", config.Language.String()),
		zap.Int("sample_rate", int(config.SampleRate)),
		zap.String("topic", config.Topic.String()))
	return &staticSession{
		message: defaultMessages[e.language],
		config:  config,
		results: make(chan entities.Transcription, 16),
	}, nil
}

type staticSession struct {
	message string
	config  repositories.SessionConfig

	mu       sync.Mutex
	closed   bool
	consumed time.Duration
	results  chan entities.Transcription
}

// Write accounts the chunk's duration and emits one partial hypothesis.
func (s *staticSession) Write(ctx context.Context, chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("session already closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.consumed += entities.AudioDuration(chunk, s.config.Encoding, s.config.SampleRate)
	partial := s.transcription()
	select {
	case s.results <- partial:
	default:
		// partial dropped when the consumer lags, the final carries everything
	}
	return nil
}

func (s *staticSession) Results() <-chan entities.Transcription {
	return s.results
}

func (s *staticSession) CloseAndWait(ctx context.Context) (entities.Transcription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return entities.Transcription{}, fmt.Errorf("session already closed")
	}
	s.closed = true
	close(s.results)
	return s.transcription(), nil
}

func (s *staticSession) transcription() entities.Transcription {
	text := s.message
	words := strings.Fields(text)
	timings := make([]entities.WordTiming, 0, len(words))
	for i, word := range words {
		start := time.Duration(i) * wordSpan
		timings = append(timings, entities.WordTiming{
			Word:       word,
			Start:      start,
			End:        start + wordSpan*5/6,
			Confidence: 1.0,
		})
	}
	return entities.Transcription{
		Text:       text,
		Confidence: 1.0,
		Words:      timings,
		Duration:   s.consumed,
	}
}
