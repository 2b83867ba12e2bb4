package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nareswara/svara/internal/metrics"
)

func main() {
	obtainedPath := flag.String("obtained", "", "metrics report produced by this run")
	expectedPath := flag.String("expected", "", "expected metrics fixture")
	tolerance := flag.Float64("tolerance", 0.001, "maximum allowed deviation per metric")
	flag.Parse()

	if *obtainedPath == "" || *expectedPath == "" {
		fmt.Fprintln(os.Stderr, "both --obtained and --expected are required")
		os.Exit(2)
	}

	obtained, err := metrics.ReadFile(*obtainedPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	expected, err := metrics.ReadFile(*expectedPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	deviations := metrics.Compare(obtained, expected, *tolerance)
	if len(deviations) == 0 {
		fmt.Printf("%s: metrics within tolerance %g\n", obtained.Label, *tolerance)
		return
	}

	fmt.Fprintf(os.Stderr, "%s: metrics out of tolerance %g\n", obtained.Label, *tolerance)
	for _, deviation := range deviations {
		fmt.Fprintln(os.Stderr, deviation)
	}
	os.Exit(1)
}
