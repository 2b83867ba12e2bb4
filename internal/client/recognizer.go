package client

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/nareswara/svara/adapters/rpc"
	"github.com/nareswara/svara/internal/audio"
)

// ErrStreamInactive reports that the server stopped responding before the
// final hypothesis arrived.
var ErrStreamInactive = errors.New("recognition stream closed after inactivity timeout")

// Recognizer streams audio to the recognition service and drains the
// responses until the final hypothesis.
type Recognizer struct {
	conn              connCloser
	client            rpc.RecognizerClient
	logger            *zap.Logger
	inactivityTimeout time.Duration
	chunkSize         int
}

type connCloser interface {
	Close() error
}

// NewRecognizer connects a recognizer client.
func NewRecognizer(options Options) (*Recognizer, error) {
	opts := options.withDefaults()
	conn, err := dial(opts)
	if err != nil {
		return nil, err
	}
	return &Recognizer{
		conn:              conn,
		client:            rpc.NewRecognizerClient(conn),
		logger:            opts.Logger,
		inactivityTimeout: opts.InactivityTimeout,
		chunkSize:         opts.ChunkSize,
	}, nil
}

// Close releases the underlying connection.
func (r *Recognizer) Close() error {
	return r.conn.Close()
}

// Result is the outcome of one recognition exchange.
type Result struct {
	Transcript    string
	Confidence    float32
	Partials      []string
	AudioDuration time.Duration
}

// Recognize sends the whole audio over one stream and waits for the final
// hypothesis. Partial hypotheses received along the way are collected into
// the result.
func (r *Recognizer) Recognize(ctx context.Context, pcm []byte, config rpc.RecognitionConfig) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := r.client.StreamingRecognize(ctx)
	if err != nil {
		return nil, err
	}

	resultChan := make(chan *Result, 1)
	errChan := make(chan error, 1)
	activity := make(chan struct{}, 1)
	go r.drainResponses(stream, resultChan, errChan, activity)

	// A failed send means the stream is already dead; the receiver surfaces
	// the server's actual error.
	if err := stream.Send(&rpc.StreamingRecognizeRequest{Config: &config}); err == nil {
		for _, chunk := range audio.Chunks(pcm, r.chunkSize) {
			if err := stream.Send(&rpc.StreamingRecognizeRequest{Audio: chunk}); err != nil {
				break
			}
		}
		if err := stream.CloseSend(); err != nil {
			return nil, err
		}
	}

	timer := time.NewTimer(r.inactivityTimeout)
	defer timer.Stop()
	for {
		select {
		case <-activity:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(r.inactivityTimeout)
		case result := <-resultChan:
			return result, nil
		case err := <-errChan:
			return nil, err
		case <-timer.C:
			r.logger.Warn("no server activity, closing recognition stream",
				zap.Duration("timeout", r.inactivityTimeout))
			cancel()
			return nil, ErrStreamInactive
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (r *Recognizer) drainResponses(stream rpc.Recognizer_StreamingRecognizeClient, resultChan chan<- *Result, errChan chan<- error, activity chan<- struct{}) {
	result := &Result{}
	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			resultChan <- result
			return
		}
		if err != nil {
			errChan <- err
			return
		}

		select {
		case activity <- struct{}{}:
		default:
		}

		if len(response.Results.Alternatives) == 0 {
			continue
		}
		best := response.Results.Alternatives[0]
		if response.Results.IsFinal {
			result.Transcript = best.Transcript
			result.Confidence = best.Confidence
			result.AudioDuration = response.Results.Duration.AsDuration()
			r.logger.Info("final hypothesis",
				zap.String("transcript", best.Transcript),
				zap.Float32("confidence", best.Confidence))
		} else {
			result.Partials = append(result.Partials, best.Transcript)
			r.logger.Info("partial hypothesis", zap.String("transcript", best.Transcript))
		}
	}
}
