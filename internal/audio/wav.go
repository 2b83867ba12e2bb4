// Package audio reads and writes the PCM16 WAV files the clients exchange
// with the speech services.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	riffHeaderSize = 44
	formatPCM      = 1
)

// WAV is a decoded single-channel PCM16 audio file.
type WAV struct {
	SampleRate    int
	BitsPerSample int
	Channels      int
	Data          []byte
}

// ReadFile decodes a WAV file from disk.
func ReadFile(path string) (*WAV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a RIFF/WAVE stream. Only uncompressed single-channel
// 16-bit PCM is accepted.
func Decode(r io.Reader) (*WAV, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(raw) < 12 || !bytes.Equal(raw[0:4], []byte("RIFF")) || !bytes.Equal(raw[8:12], []byte("WAVE")) {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	wav := &WAV{}
	sawFormat := false
	offset := 12
	for offset+8 <= len(raw) {
		chunkID := string(raw[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(raw[offset+4 : offset+8]))
		body := raw[offset+8:]
		if chunkSize > len(body) {
			return nil, fmt.Errorf("truncated %s chunk", chunkID)
		}
		body = body[:chunkSize]

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("malformed fmt chunk")
			}
			if format := binary.LittleEndian.Uint16(body[0:2]); format != formatPCM {
				return nil, fmt.Errorf("unsupported audio format %d, only PCM is supported", format)
			}
			wav.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			wav.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			wav.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			sawFormat = true
		case "data":
			wav.Data = body
		}

		// chunks are word aligned
		offset += 8 + chunkSize + chunkSize%2
	}

	if !sawFormat {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if wav.Data == nil {
		return nil, fmt.Errorf("missing data chunk")
	}
	if wav.Channels != 1 {
		return nil, fmt.Errorf("unsupported channel count %d, only mono is supported", wav.Channels)
	}
	if wav.BitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported sample width %d bits, only 16-bit PCM is supported", wav.BitsPerSample)
	}
	return wav, nil
}

// WriteFile writes single-channel PCM16 audio as a canonical WAV file.
func WriteFile(path string, sampleRate int, pcm []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	defer f.Close()
	return Encode(f, sampleRate, pcm)
}

// Encode writes single-channel PCM16 audio as a canonical WAV stream.
func Encode(w io.Writer, sampleRate int, pcm []byte) error {
	header := make([]byte, riffHeaderSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*2)) // byte rate
	binary.LittleEndian.PutUint16(header[32:34], 2)                    // block align
	binary.LittleEndian.PutUint16(header[34:36], 16)                   // bits per sample
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}
