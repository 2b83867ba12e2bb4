package engine

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nareswara/svara/domain/entities"
	"github.com/nareswara/svara/domain/repositories"
)

func sessionConfig(language entities.Language) repositories.SessionConfig {
	return repositories.SessionConfig{
		Language:   language,
		SampleRate: entities.SampleRate16kHz,
		Encoding:   entities.EncodingPCM16,
		Topic:      entities.TopicGeneric,
	}
}

func TestStaticRecognizesCannedMessage(t *testing.T) {
	tests := []struct {
		language entities.Language
		want     string
	}{
		{entities.LanguageEnUS, "hello i am up and running received a message from you"},
		{entities.LanguageEs, "hola estoy levantado y en marcha y he recibido un mensaje tuyo"},
		{entities.LanguagePtBR, "ola estou de pe recebi uma mensagem sua"},
	}

	for _, tt := range tests {
		eng := NewStatic(tt.language, zap.NewNop())
		session, err := eng.NewSession(context.Background(), sessionConfig(tt.language))
		if err != nil {
			t.Fatalf("NewSession(%s) returned error: %v", tt.language, err)
		}
		if err := session.Write(context.Background(), make([]byte, 3200)); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
		final, err := session.CloseAndWait(context.Background())
		if err != nil {
			t.Fatalf("CloseAndWait returned error: %v", err)
		}
		if final.Text != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, final.Text)
		}
		if final.Confidence != 1.0 {
			t.Errorf("Expected confidence 1.0, got %f", final.Confidence)
		}
		if len(final.Words) == 0 {
			t.Error("Expected fabricated word timings")
		}
	}
}

func TestStaticRejectsWrongLanguage(t *testing.T) {
	eng := NewStatic(entities.LanguageEs, zap.NewNop())
	_, err := eng.NewSession(context.Background(), sessionConfig(entities.LanguageEnUS))
	if err == nil {
		t.Fatal("Expected error for mismatched language")
	}
	want := "invalid language 'en-US', only 'es' is supported"
	if err.Error() != want {
		t.Errorf("Expected error %q, got %q", want, err.Error())
	}
}

func TestStaticAccountsDuration(t *testing.T) {
	eng := NewStatic(entities.LanguageEnUS, zap.NewNop())
	session, err := eng.NewSession(context.Background(), sessionConfig(entities.LanguageEnUS))
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}

	// 32000 bytes of PCM16 at 16 kHz is one second
	if err := session.Write(context.Background(), make([]byte, 32000)); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := session.Write(context.Background(), make([]byte, 16000)); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	final, err := session.CloseAndWait(context.Background())
	if err != nil {
		t.Fatalf("CloseAndWait returned error: %v", err)
	}
	if final.Duration != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s of audio, got %v", final.Duration)
	}
}

func TestStaticSessionClosedTwice(t *testing.T) {
	eng := NewStatic(entities.LanguageEnUS, zap.NewNop())
	session, _ := eng.NewSession(context.Background(), sessionConfig(entities.LanguageEnUS))
	if _, err := session.CloseAndWait(context.Background()); err != nil {
		t.Fatalf("first CloseAndWait returned error: %v", err)
	}
	if _, err := session.CloseAndWait(context.Background()); err == nil {
		t.Error("second CloseAndWait should fail")
	}
	if err := session.Write(context.Background(), []byte{0, 0}); err == nil {
		t.Error("Write after close should fail")
	}
}

func TestStaticSynthesizer(t *testing.T) {
	eng := NewStaticSynthesizer(zap.NewNop())

	audio, err := eng.Synthesize(context.Background(), "hello", repositories.VoiceConfig{
		Language:   entities.LanguageEnUS,
		SampleRate: entities.SampleRate8kHz,
	})
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if len(audio) == 0 || len(audio)%2 != 0 {
		t.Errorf("Expected non-empty PCM16 audio, got %d bytes", len(audio))
	}

	longer, err := eng.Synthesize(context.Background(), "hello hello hello", repositories.VoiceConfig{
		Language:   entities.LanguageEnUS,
		SampleRate: entities.SampleRate8kHz,
	})
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if len(longer) <= len(audio) {
		t.Error("longer text should render longer audio")
	}

	if _, err := eng.Synthesize(context.Background(), "", repositories.VoiceConfig{}); err == nil {
		t.Error("empty text should fail")
	}
}
