package main

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/deepnoodle-ai/bfvm"
	"github.com/fatih/color"
)

// BenchResult holds lexer benchmark statistics.
type BenchResult struct {
	Iterations    int     `json:"iterations"`
	Warmup        int     `json:"warmup"`
	Optimized     bool    `json:"optimized"`
	SourceBytes   int     `json:"source_bytes"`
	Tokens        int     `json:"tokens"`
	TotalNs       int64   `json:"total_ns"`
	TotalDuration string  `json:"total_duration"`
	OpsPerSec     float64 `json:"ops_per_sec"`
	MinNs         int64   `json:"min_ns"`
	MaxNs         int64   `json:"max_ns"`
	AvgNs         int64   `json:"avg_ns"`
	MedianNs      int64   `json:"median_ns"`
	P95Ns         int64   `json:"p95_ns"`
	P99Ns         int64   `json:"p99_ns"`
}

// benchLexer times lexing (and folding, when optimize is set) only. Nothing
// is executed.
func (a *app) benchLexer(code string, optimize bool, format string) error {
	iterations := a.v.GetInt("iterations")
	if iterations <= 0 {
		iterations = 1000
	}
	warmup := a.v.GetInt("warmup")
	if warmup < 0 {
		warmup = 100
	}

	var tokens int
	for i := 0; i < warmup; i++ {
		tokens = len(bfvm.Lex(code, optimize))
	}
	runtime.GC()

	durations := make([]time.Duration, iterations)
	var total time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		tokens = len(bfvm.Lex(code, optimize))
		elapsed := time.Since(start)
		durations[i] = elapsed
		total += elapsed
	}
	sortDurations(durations)

	result := BenchResult{
		Iterations:    iterations,
		Warmup:        warmup,
		Optimized:     optimize,
		SourceBytes:   len(code),
		Tokens:        tokens,
		TotalNs:       total.Nanoseconds(),
		TotalDuration: total.Round(time.Microsecond).String(),
		MinNs:         durations[0].Nanoseconds(),
		MaxNs:         durations[iterations-1].Nanoseconds(),
		AvgNs:         (total / time.Duration(iterations)).Nanoseconds(),
		MedianNs:      durations[iterations/2].Nanoseconds(),
		P95Ns:         durations[int(float64(iterations)*0.95)].Nanoseconds(),
		P99Ns:         durations[int(float64(iterations)*0.99)].Nanoseconds(),
	}
	if total > 0 {
		result.OpsPerSec = float64(iterations) / total.Seconds()
	}
	a.logger.Debug().Int("iterations", iterations).Int64("total_ns", result.TotalNs).Msg("lexer benchmark finished")

	if format == "json" {
		return a.writeJSON(result)
	}
	a.printBench(result)
	return nil
}

func (a *app) printBench(r BenchResult) {
	title := color.New(color.FgYellow, color.Bold).SprintFunc()
	label := color.New(color.FgMagenta).SprintFunc()
	value := color.New(color.FgGreen).SprintFunc()
	ns := func(n int64) string {
		return time.Duration(n).Round(time.Microsecond / 10).String()
	}

	fmt.Fprintln(a.stdout, title("Lexer Benchmark"))
	fmt.Fprintln(a.stdout, strings.Repeat("-", 40))
	rows := []struct {
		name  string
		value string
	}{
		{"Iterations:", fmt.Sprintf("%d", r.Iterations)},
		{"Warmup:", fmt.Sprintf("%d", r.Warmup)},
		{"Optimized:", fmt.Sprintf("%t", r.Optimized)},
		{"Source:", fmt.Sprintf("%d bytes, %d tokens", r.SourceBytes, r.Tokens)},
		{"Total time:", r.TotalDuration},
		{"Ops/sec:", fmt.Sprintf("%.2f", r.OpsPerSec)},
		{"Min:", ns(r.MinNs)},
		{"Max:", ns(r.MaxNs)},
		{"Avg:", ns(r.AvgNs)},
		{"Median:", ns(r.MedianNs)},
		{"p95:", ns(r.P95Ns)},
		{"p99:", ns(r.P99Ns)},
	}
	for _, row := range rows {
		fmt.Fprintf(a.stdout, "%s %s\n", label(fmt.Sprintf("%-12s", row.name)), value(row.value))
	}
}

func sortDurations(durations []time.Duration) {
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
}
