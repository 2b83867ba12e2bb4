// Package metrics computes the recognition quality figures the regression
// harness compares between runs: transcript accuracy against a reference
// and out-of-vocabulary rate.
package metrics

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
)

// Report is the metrics file written by a client run and consumed by the
// regression comparator.
type Report struct {
	Label        string  `json:"label"`
	Transcript   string  `json:"transcript"`
	Accuracy     float64 `json:"accuracy"`
	OOVRate      float64 `json:"oov_rate"`
	AudioSeconds float64 `json:"audio_seconds"`
}

// Accuracy scores a hypothesis against a reference as 1 - WER, floored at
// zero. Case and surrounding whitespace do not count as errors.
func Accuracy(reference, hypothesis string) float64 {
	ref := tokens(reference)
	hyp := tokens(hypothesis)
	if len(ref) == 0 {
		if len(hyp) == 0 {
			return 1
		}
		return 0
	}
	wer := float64(editDistance(ref, hyp)) / float64(len(ref))
	return math.Max(0, 1-wer)
}

// OOVRate reports the fraction of transcript words missing from the
// vocabulary. An empty transcript has no out-of-vocabulary words.
func OOVRate(transcript string, vocabulary map[string]struct{}) float64 {
	words := tokens(transcript)
	if len(words) == 0 {
		return 0
	}
	missing := 0
	for _, word := range words {
		if _, ok := vocabulary[word]; !ok {
			missing++
		}
	}
	return float64(missing) / float64(len(words))
}

// Vocabulary builds a lookup set from whitespace-separated entries.
func Vocabulary(entries []string) map[string]struct{} {
	vocabulary := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		for _, word := range tokens(entry) {
			vocabulary[word] = struct{}{}
		}
	}
	return vocabulary
}

// Deviation is one metric that fell outside the allowed tolerance.
type Deviation struct {
	Field    string
	Obtained float64
	Expected float64
}

func (d Deviation) String() string {
	return fmt.Sprintf("%s: obtained %.4f, expected %.4f", d.Field, d.Obtained, d.Expected)
}

// Compare checks the obtained report against the expected fixture. Every
// numeric field must be within tolerance; the label must match exactly.
func Compare(obtained, expected Report, tolerance float64) []Deviation {
	var deviations []Deviation
	fields := []struct {
		name               string
		obtained, expected float64
	}{
		{"accuracy", obtained.Accuracy, expected.Accuracy},
		{"oov_rate", obtained.OOVRate, expected.OOVRate},
		{"audio_seconds", obtained.AudioSeconds, expected.AudioSeconds},
	}
	for _, field := range fields {
		if math.Abs(field.obtained-field.expected) > tolerance {
			deviations = append(deviations, Deviation{field.name, field.obtained, field.expected})
		}
	}
	return deviations
}

// ReadFile loads a metrics report from disk.
func ReadFile(path string) (Report, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read metrics file: %w", err)
	}
	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return Report{}, fmt.Errorf("failed to parse metrics file %s: %w", path, err)
	}
	return report, nil
}

// WriteFile stores a metrics report as indented JSON.
func WriteFile(path string, report Report) error {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

func tokens(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

func editDistance(a, b []string) int {
	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := range previous {
		previous[j] = j
	}
	for i := 1; i <= len(a); i++ {
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current[j] = min(previous[j]+1, min(current[j-1]+1, previous[j-1]+cost))
		}
		previous, current = current, previous
	}
	return previous[len(b)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
