package rpc

import (
	"time"

	"google.golang.org/protobuf/types/known/durationpb"
)

// Duration mirrors the protobuf Duration wire shape (seconds + nanos).
type Duration struct {
	Seconds int64 `json:"seconds,omitempty"`
	Nanos   int32 `json:"nanos,omitempty"`
}

// NewDuration converts a time.Duration into its wire form.
func NewDuration(d time.Duration) Duration {
	pb := durationpb.New(d)
	return Duration{Seconds: pb.GetSeconds(), Nanos: pb.GetNanos()}
}

// AsDuration converts the wire form back into a time.Duration.
func (d Duration) AsDuration() time.Duration {
	pb := durationpb.Duration{Seconds: d.Seconds, Nanos: d.Nanos}
	return pb.AsDuration()
}

// RecognitionParameters describe the audio being sent.
type RecognitionParameters struct {
	Language          string `json:"language"`
	SampleRateHz      int    `json:"sample_rate_hz"`
	AudioEncoding     int32  `json:"audio_encoding"`
	EnableFormatting  bool   `json:"enable_formatting,omitempty"`
	EnableDiarization bool   `json:"enable_diarization,omitempty"`
}

// RecognitionResource selects the model resource used for decoding.
type RecognitionResource struct {
	Topic int32 `json:"topic"`
}

// RecognitionConfig is the first message of every recognition exchange.
type RecognitionConfig struct {
	Parameters RecognitionParameters `json:"parameters"`
	Resource   RecognitionResource   `json:"resource"`
	Version    string                `json:"asr_version,omitempty"`
	Label      string                `json:"label,omitempty"`
}

// RecognizeRequest carries a complete utterance for unary recognition.
type RecognizeRequest struct {
	Config *RecognitionConfig `json:"config,omitempty"`
	Audio  []byte             `json:"audio,omitempty"`
}

// StreamingRecognizeRequest carries either a config or an audio chunk,
// never both. The config must arrive first.
type StreamingRecognizeRequest struct {
	Config *RecognitionConfig `json:"config,omitempty"`
	Audio  []byte             `json:"audio,omitempty"`
}

// WordInfo locates one recognized word within the audio.
type WordInfo struct {
	Word       string   `json:"word"`
	StartTime  Duration `json:"start_time"`
	EndTime    Duration `json:"end_time"`
	Confidence float32  `json:"confidence"`
}

// RecognitionAlternative is one hypothesis for a span of audio.
type RecognitionAlternative struct {
	Transcript string     `json:"transcript"`
	Confidence float32    `json:"confidence"`
	Words      []WordInfo `json:"words,omitempty"`
}

// RecognizeResponse answers a unary recognition request.
type RecognizeResponse struct {
	Alternatives []RecognitionAlternative `json:"alternatives"`
	EndTime      Duration                 `json:"end_time"`
	Duration     Duration                 `json:"duration"`
}

// StreamingRecognitionResult is one (possibly partial) streaming hypothesis.
type StreamingRecognitionResult struct {
	Alternatives []RecognitionAlternative `json:"alternatives"`
	EndTime      Duration                 `json:"end_time"`
	Duration     Duration                 `json:"duration"`
	IsFinal      bool                     `json:"is_final"`
}

// StreamingRecognizeResponse wraps a streaming result.
type StreamingRecognizeResponse struct {
	Results StreamingRecognitionResult `json:"results"`
}

// VoiceSelection picks the synthesis voice.
type VoiceSelection struct {
	VoiceID      string `json:"voice_id,omitempty"`
	Language     string `json:"language"`
	SampleRateHz int    `json:"sample_rate_hz"`
}

// SynthesizeRequest asks for audio rendering of a text.
type SynthesizeRequest struct {
	Text  string         `json:"text"`
	Voice VoiceSelection `json:"voice"`
}

// SynthesizeResponse returns raw PCM16 audio.
type SynthesizeResponse struct {
	Audio        []byte `json:"audio"`
	SampleRateHz int    `json:"sample_rate_hz"`
}
