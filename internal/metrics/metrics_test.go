package metrics

import (
	"math"
	"path/filepath"
	"testing"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		hypothesis string
		want       float64
	}{
		{"identical", "hello world", "hello world", 1.0},
		{"case insensitive", "Hello World", "hello world", 1.0},
		{"one substitution", "hello big world", "hello small world", 2.0 / 3.0},
		{"one deletion", "hello big world", "hello world", 2.0 / 3.0},
		{"one insertion", "hello world", "hello big world", 0.5},
		{"all wrong", "hello world", "goodbye moon", 0.0},
		{"both empty", "", "", 1.0},
		{"empty hypothesis", "hello world", "", 0.0},
		{"empty reference", "", "hello", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Accuracy(tt.reference, tt.hypothesis)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Accuracy(%q, %q) = %f, want %f", tt.reference, tt.hypothesis, got, tt.want)
			}
		})
	}
}

func TestAccuracyFloorsAtZero(t *testing.T) {
	// more errors than reference words must not go negative
	if got := Accuracy("hi", "a b c d e f"); got != 0 {
		t.Errorf("Accuracy should floor at 0, got %f", got)
	}
}

func TestOOVRate(t *testing.T) {
	vocabulary := Vocabulary([]string{"hello world again"})

	if got := OOVRate("hello world", vocabulary); got != 0 {
		t.Errorf("Expected 0 OOV, got %f", got)
	}
	if got := OOVRate("hello martian", vocabulary); got != 0.5 {
		t.Errorf("Expected 0.5 OOV, got %f", got)
	}
	if got := OOVRate("", vocabulary); got != 0 {
		t.Errorf("Empty transcript should have 0 OOV, got %f", got)
	}
}

func TestCompareWithinTolerance(t *testing.T) {
	obtained := Report{Label: "run-1", Accuracy: 0.9501, OOVRate: 0.02, AudioSeconds: 12.5}
	expected := Report{Label: "run-1", Accuracy: 0.9506, OOVRate: 0.02, AudioSeconds: 12.5}

	if deviations := Compare(obtained, expected, 0.001); len(deviations) != 0 {
		t.Errorf("Expected no deviations, got %v", deviations)
	}
}

func TestCompareOutOfTolerance(t *testing.T) {
	obtained := Report{Accuracy: 0.90, OOVRate: 0.10, AudioSeconds: 12.5}
	expected := Report{Accuracy: 0.95, OOVRate: 0.02, AudioSeconds: 12.5}

	deviations := Compare(obtained, expected, 0.001)
	if len(deviations) != 2 {
		t.Fatalf("Expected 2 deviations, got %d: %v", len(deviations), deviations)
	}
	if deviations[0].Field != "accuracy" || deviations[1].Field != "oov_rate" {
		t.Errorf("Unexpected deviation fields: %v", deviations)
	}
}

func TestReportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	report := Report{
		Label:        "regression-7",
		Transcript:   "hello world",
		Accuracy:     0.97,
		OOVRate:      0.01,
		AudioSeconds: 4.25,
	}

	if err := WriteFile(path, report); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	loaded, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if loaded != report {
		t.Errorf("Round trip mismatch: got %+v, want %+v", loaded, report)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("missing file should error")
	}
}
