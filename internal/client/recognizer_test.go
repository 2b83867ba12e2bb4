package client

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/nareswara/svara/adapters/engine"
	"github.com/nareswara/svara/adapters/rpc"
	"github.com/nareswara/svara/domain/entities"
	"github.com/nareswara/svara/internal/auth"
	"github.com/nareswara/svara/usecase"
)

const englishMessage = "hello i am up and running received a message from you"

var signingSecret = []byte("e2e-signing-key")

type staticTokenSource string

func (s staticTokenSource) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

func startServer(t *testing.T, register func(*grpc.Server)) *bufconn.Listener {
	t.Helper()
	listener := bufconn.Listen(1024 * 1024)
	server := grpc.NewServer(
		grpc.UnaryInterceptor(auth.UnaryServerInterceptor(signingSecret, zap.NewNop())),
		grpc.StreamInterceptor(auth.StreamServerInterceptor(signingSecret, zap.NewNop())),
	)
	register(server)
	go server.Serve(listener)
	t.Cleanup(server.Stop)
	return listener
}

func bufconnOptions(t *testing.T, listener *bufconn.Listener, source TokenSource) Options {
	t.Helper()
	return Options{
		Host:        "passthrough:///bufnet",
		TokenSource: source,
		Logger:      zap.NewNop(),
		DialOptions: []grpc.DialOption{
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return listener.DialContext(ctx)
			}),
		},
	}
}

func issueToken(t *testing.T) string {
	t.Helper()
	token, _, err := auth.GenerateAccessToken("e2e-client", signingSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}
	return token
}

func validConfig() rpc.RecognitionConfig {
	return rpc.RecognitionConfig{
		Parameters: rpc.RecognitionParameters{
			Language:     "en-US",
			SampleRateHz: 16000,
		},
	}
}

func TestRecognizeEndToEnd(t *testing.T) {
	listener := startServer(t, func(server *grpc.Server) {
		service := usecase.NewRecognizerService(engine.NewStatic(entities.LanguageEnUS, zap.NewNop()), zap.NewNop())
		rpc.RegisterRecognizerServer(server, service)
	})

	recognizer, err := NewRecognizer(bufconnOptions(t, listener, staticTokenSource(issueToken(t))))
	if err != nil {
		t.Fatalf("NewRecognizer returned error: %v", err)
	}
	defer recognizer.Close()

	result, err := recognizer.Recognize(context.Background(), make([]byte, 32000), validConfig())
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if result.Transcript != englishMessage {
		t.Errorf("Expected transcript %q, got %q", englishMessage, result.Transcript)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Expected confidence 1.0, got %f", result.Confidence)
	}
	if result.AudioDuration != time.Second {
		t.Errorf("Expected 1s of audio, got %v", result.AudioDuration)
	}
}

func TestRecognizeChunked(t *testing.T) {
	listener := startServer(t, func(server *grpc.Server) {
		service := usecase.NewRecognizerService(engine.NewStatic(entities.LanguageEnUS, zap.NewNop()), zap.NewNop())
		rpc.RegisterRecognizerServer(server, service)
	})

	options := bufconnOptions(t, listener, staticTokenSource(issueToken(t)))
	options.ChunkSize = 4000
	recognizer, err := NewRecognizer(options)
	if err != nil {
		t.Fatalf("NewRecognizer returned error: %v", err)
	}
	defer recognizer.Close()

	result, err := recognizer.Recognize(context.Background(), make([]byte, 32000), validConfig())
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if result.Transcript != englishMessage {
		t.Errorf("Expected transcript %q, got %q", englishMessage, result.Transcript)
	}
	if len(result.Partials) == 0 {
		t.Error("Expected partial hypotheses for chunked audio")
	}
}

func TestRecognizeServerValidationError(t *testing.T) {
	listener := startServer(t, func(server *grpc.Server) {
		service := usecase.NewRecognizerService(engine.NewStatic(entities.LanguageEnUS, zap.NewNop()), zap.NewNop())
		rpc.RegisterRecognizerServer(server, service)
	})

	recognizer, err := NewRecognizer(bufconnOptions(t, listener, staticTokenSource(issueToken(t))))
	if err != nil {
		t.Fatalf("NewRecognizer returned error: %v", err)
	}
	defer recognizer.Close()

	config := validConfig()
	config.Parameters.SampleRateHz = 44100
	_, err = recognizer.Recognize(context.Background(), make([]byte, 3200), config)
	if err == nil {
		t.Fatal("Expected a validation error")
	}
	st := status.Convert(err)
	if st.Code() != codes.InvalidArgument {
		t.Errorf("Expected InvalidArgument, got %s", st.Code())
	}
	if st.Message() != "invalid value '44100' for sample_rate_hz parameter" {
		t.Errorf("Unexpected message %q", st.Message())
	}
}

func TestRecognizeRejectsInvalidToken(t *testing.T) {
	listener := startServer(t, func(server *grpc.Server) {
		service := usecase.NewRecognizerService(engine.NewStatic(entities.LanguageEnUS, zap.NewNop()), zap.NewNop())
		rpc.RegisterRecognizerServer(server, service)
	})

	recognizer, err := NewRecognizer(bufconnOptions(t, listener, staticTokenSource("not-a-token")))
	if err != nil {
		t.Fatalf("NewRecognizer returned error: %v", err)
	}
	defer recognizer.Close()

	_, err = recognizer.Recognize(context.Background(), make([]byte, 3200), validConfig())
	if err == nil {
		t.Fatal("Expected an authentication error")
	}
	if status.Convert(err).Code() != codes.Unauthenticated {
		t.Errorf("Expected Unauthenticated, got %s", status.Convert(err).Code())
	}
}

// silentRecognizer accepts the stream but never answers.
type silentRecognizer struct{}

func (silentRecognizer) Recognize(ctx context.Context, req *rpc.RecognizeRequest) (*rpc.RecognizeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "unary recognition not served")
}

func (silentRecognizer) StreamingRecognize(stream rpc.Recognizer_StreamingRecognizeServer) error {
	<-stream.Context().Done()
	return stream.Context().Err()
}

func TestRecognizeInactivityTimeout(t *testing.T) {
	listener := startServer(t, func(server *grpc.Server) {
		rpc.RegisterRecognizerServer(server, silentRecognizer{})
	})

	options := bufconnOptions(t, listener, staticTokenSource(issueToken(t)))
	options.InactivityTimeout = 100 * time.Millisecond
	recognizer, err := NewRecognizer(options)
	if err != nil {
		t.Fatalf("NewRecognizer returned error: %v", err)
	}
	defer recognizer.Close()

	_, err = recognizer.Recognize(context.Background(), make([]byte, 3200), validConfig())
	if !errors.Is(err, ErrStreamInactive) {
		t.Errorf("Expected ErrStreamInactive, got %v", err)
	}
}

func TestSynthesizeEndToEnd(t *testing.T) {
	listener := startServer(t, func(server *grpc.Server) {
		service := usecase.NewSynthesizerService(engine.NewStaticSynthesizer(zap.NewNop()), zap.NewNop())
		rpc.RegisterSynthesizerServer(server, service)
	})

	synthesizer, err := NewSynthesizer(bufconnOptions(t, listener, staticTokenSource(issueToken(t))))
	if err != nil {
		t.Fatalf("NewSynthesizer returned error: %v", err)
	}
	defer synthesizer.Close()

	response, err := synthesizer.Synthesize(context.Background(), "hello there", rpc.VoiceSelection{
		Language:     "en-US",
		SampleRateHz: 8000,
	})
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if len(response.Audio) == 0 {
		t.Error("Expected audio bytes")
	}
	if response.SampleRateHz != 8000 {
		t.Errorf("Expected 8000 Hz, got %d", response.SampleRateHz)
	}
}
