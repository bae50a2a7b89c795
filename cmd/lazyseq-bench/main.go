// lazyseq-bench runs a configurable synthetic workload against a
// lazyseq cursor and reports throughput and cache statistics.
//
// Usage:
//
//	lazyseq-bench --cursors 4 --producer-len 1000000 --heap-block-capacity 4096
//	lazyseq-bench --scenario scenarios.jsonc --out report.json
//
// Scenario files may be relaxed JSON (.json/.jsonc, parsed leniently -
// comments and trailing commas are tolerated) or YAML (.yaml/.yml). CLI
// flags always override values loaded from a scenario file.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/tbrandt/lazyseq/lazyseq"
)

// scenario describes one benchmark run. Zero values mean "use the
// built-in default" so a scenario file only needs to specify what it
// wants to override.
type scenario struct {
	ProducerLen        int `json:"producer_len" yaml:"producer_len"`
	Cursors            int `json:"cursors" yaml:"cursors"`
	HeapBlockCapacity  int `json:"heap_block_capacity" yaml:"heap_block_capacity"`
	UserBufferCapacity int `json:"user_buffer_capacity" yaml:"user_buffer_capacity"`
	Iterations         int `json:"iterations" yaml:"iterations"`
}

func defaultScenario() scenario {
	return scenario{
		ProducerLen:       1_000_000,
		Cursors:           1,
		HeapBlockCapacity: 4096,
		Iterations:        1_000_000,
	}
}

func loadScenarioFile(path string) (scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return scenario{}, fmt.Errorf("reading scenario file: %w", err)
	}

	var s scenario

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return scenario{}, fmt.Errorf("parsing yaml scenario: %w", err)
		}
	default:
		standard, err := hujson.Standardize(raw)
		if err != nil {
			return scenario{}, fmt.Errorf("parsing jsonc scenario: %w", err)
		}

		if err := json.Unmarshal(standard, &s); err != nil {
			return scenario{}, fmt.Errorf("parsing scenario json: %w", err)
		}
	}

	return s, nil
}

// report is the benchmark result, written to --out if given.
type report struct {
	Scenario   scenario      `json:"scenario"`
	DurationMS float64       `json:"duration_ms"`
	OpsPerSec  float64       `json:"ops_per_sec"`
	Stats      lazyseq.Stats `json:"stats"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	def := defaultScenario()

	scenarioPath := flag.String("scenario", "", "path to a scenario file (.jsonc or .yaml)")
	producerLen := flag.Int("producer-len", 0, "number of elements the synthetic producer yields")
	cursors := flag.Int("cursors", 0, "number of cursors to run concurrently (interleaved, single-threaded)")
	heapBlockCapacity := flag.Int("heap-block-capacity", 0, "heap block capacity hint")
	userBufferCapacity := flag.Int("user-buffer-capacity", 0, "if >0, seed the cache with one user buffer of this capacity")
	iterations := flag.Int("iterations", 0, "total operations to execute across all cursors")
	out := flag.String("out", "", "path to atomically write a JSON report")

	flag.Parse()

	s := def

	if *scenarioPath != "" {
		loaded, err := loadScenarioFile(*scenarioPath)
		if err != nil {
			return err
		}

		s = mergeScenario(s, loaded)
	}

	s = mergeScenario(s, scenario{
		ProducerLen:        *producerLen,
		Cursors:            *cursors,
		HeapBlockCapacity:  *heapBlockCapacity,
		UserBufferCapacity: *userBufferCapacity,
		Iterations:         *iterations,
	})

	rep := runScenario(s)

	printReport(rep)

	if *out != "" {
		if err := writeReportAtomic(*out, rep); err != nil {
			return err
		}
	}

	return nil
}

// mergeScenario returns base with every non-zero field in override
// applied on top, the same config-layering shape as the rest of this
// codebase's CLI tools (defaults, then file, then flags).
func mergeScenario(base, override scenario) scenario {
	if override.ProducerLen != 0 {
		base.ProducerLen = override.ProducerLen
	}

	if override.Cursors != 0 {
		base.Cursors = override.Cursors
	}

	if override.HeapBlockCapacity != 0 {
		base.HeapBlockCapacity = override.HeapBlockCapacity
	}

	if override.UserBufferCapacity != 0 {
		base.UserBufferCapacity = override.UserBufferCapacity
	}

	if override.Iterations != 0 {
		base.Iterations = override.Iterations
	}

	return base
}

func runScenario(s scenario) report {
	producer := lazyseq.NewSliceProducer(makeInts(s.ProducerLen))

	var root *lazyseq.Cursor[int]
	if s.UserBufferCapacity > 0 {
		buf := make([]int, 0, s.UserBufferCapacity)
		root = lazyseq.CachedWithBuffers[int](producer, [][]int{buf})
	} else {
		root = lazyseq.Cached[int](producer, lazyseq.WithHeapBlockCapacity(s.HeapBlockCapacity))
	}

	cursors := make([]*lazyseq.Cursor[int], s.Cursors)
	cursors[0] = root

	for i := 1; i < s.Cursors; i++ {
		cursors[i] = root.Save()
	}

	start := time.Now()

	for i := 0; i < s.Iterations; i++ {
		c := cursors[i%len(cursors)]

		if c.Empty() {
			continue
		}

		c.Front()
		c.PopFront()
	}

	elapsed := time.Since(start)

	stats := root.Stats()

	for _, c := range cursors {
		c.Close()
	}

	return report{
		Scenario:   s,
		DurationMS: float64(elapsed.Microseconds()) / 1000,
		OpsPerSec:  float64(s.Iterations) / elapsed.Seconds(),
		Stats:      stats,
	}
}

func makeInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

func printReport(r report) {
	fmt.Printf("producer_len=%d cursors=%d heap_block_capacity=%d iterations=%d\n",
		r.Scenario.ProducerLen, r.Scenario.Cursors, r.Scenario.HeapBlockCapacity, r.Scenario.Iterations)
	fmt.Printf("duration_ms=%.2f ops_per_sec=%.0f\n", r.DurationMS, r.OpsPerSec)
	fmt.Printf("heap_allocations=%d leading_drop_runs=%d dropped_elements=%d compaction_runs=%d removed_blocks=%d\n",
		r.Stats.HeapAllocations, r.Stats.LeadingDropRuns, r.Stats.DroppedElements,
		r.Stats.CompactionRuns, r.Stats.RemovedBlocks)
}

// writeReportAtomic writes the report as JSON, atomically, so a report
// file is never observed half-written by a concurrent reader.
func writeReportAtomic(path string, r report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}
