package repositories

import (
	"context"

	"github.com/nareswara/svara/domain/entities"
)

// SessionConfig carries the recognition parameters agreed at stream start.
type SessionConfig struct {
	Language    entities.Language
	SampleRate  entities.SampleRate
	Encoding    entities.AudioEncoding
	Topic       entities.Topic
	Formatting  bool
	Diarization bool
}

// RecognitionEngine abstracts a speech recognition backend.
type RecognitionEngine interface {
	// Language reports the single language the engine was loaded for.
	Language() entities.Language
	// NewSession starts a streaming recognition session.
	NewSession(ctx context.Context, config SessionConfig) (RecognitionSession, error)
}

// RecognitionSession is a single streaming recognition exchange. Write feeds
// audio, partial hypotheses arrive on Results, and CloseAndWait flushes the
// engine and returns the final hypothesis. Results is closed once the final
// hypothesis is ready. Callers that ignore partials still drain Results, so
// a session may publish with a blocking send.
type RecognitionSession interface {
	Write(ctx context.Context, chunk []byte) error
	Results() <-chan entities.Transcription
	CloseAndWait(ctx context.Context) (entities.Transcription, error)
}
