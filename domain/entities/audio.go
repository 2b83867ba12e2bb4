package entities

import (
	"fmt"
	"time"
)

// SampleRate is an audio sampling frequency in Hz.
type SampleRate int

const (
	SampleRate8kHz  SampleRate = 8000
	SampleRate16kHz SampleRate = 16000
)

// SampleRates lists every supported sampling frequency.
func SampleRates() []SampleRate {
	return []SampleRate{SampleRate8kHz, SampleRate16kHz}
}

// ParseSampleRate validates a sampling frequency value.
func ParseSampleRate(hz int) (SampleRate, error) {
	for _, rate := range SampleRates() {
		if int(rate) == hz {
			return rate, nil
		}
	}
	return 0, fmt.Errorf("invalid value '%d' for sample_rate_hz parameter", hz)
}

// AudioEncoding identifies the binary layout of audio samples.
type AudioEncoding int32

// PCM16 is signed 16-bit little-endian PCM, the only supported encoding.
const EncodingPCM16 AudioEncoding = 0

// ParseAudioEncoding validates a wire-level encoding value.
func ParseAudioEncoding(value int32) (AudioEncoding, error) {
	if value != int32(EncodingPCM16) {
		return 0, fmt.Errorf("invalid value '%d' for audio_encoding parameter", value)
	}
	return EncodingPCM16, nil
}

// SampleSizeBytes returns the storage size of one sample.
func (e AudioEncoding) SampleSizeBytes() int {
	return 2
}

// AudioDuration computes the playback duration of raw single-channel audio.
func AudioDuration(audio []byte, encoding AudioEncoding, rate SampleRate) time.Duration {
	if len(audio) == 0 || rate == 0 {
		return 0
	}
	frames := len(audio) / encoding.SampleSizeBytes()
	return time.Duration(frames) * time.Second / time.Duration(rate)
}
