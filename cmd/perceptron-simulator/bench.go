package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/ahmedtd/feedforward/toolbox"
	"github.com/google/subcommands"
	"github.com/klauspost/cpuid/v2"
)

type BenchCommand struct {
	inputSize  int
	outputSize int
	iterations int
	rounds     int
}

var _ subcommands.Command = (*BenchCommand)(nil)

func (*BenchCommand) Name() string {
	return "bench"
}

func (*BenchCommand) Synopsis() string {
	return "Time forward evaluation and both training rules"
}

func (*BenchCommand) Usage() string {
	return ``
}

func (c *BenchCommand) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.inputSize, "input-size", 784, "Layer input size")
	f.IntVar(&c.outputSize, "output-size", 256, "Layer output size")
	f.IntVar(&c.iterations, "iterations", 1000, "Calls per operation per round")
	f.IntVar(&c.rounds, "rounds", 5, "Number of timing rounds")
}

func (c *BenchCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *BenchCommand) executeErr(ctx context.Context) error {
	if c.inputSize <= 0 || c.outputSize <= 0 {
		return fmt.Errorf("layer sizes must be positive, got %dx%d", c.inputSize, c.outputSize)
	}
	if c.iterations <= 0 {
		return fmt.Errorf("--iterations must be positive, got %d", c.iterations)
	}

	log.Printf("cpu=%q cores=%d features=%s", cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuFeatures())

	var timings benchTimings
	for round := 0; round < c.rounds; round++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("while running round %d: %w", round, err)
		}

		runBenchRound(c.inputSize, c.outputSize, c.iterations, int64(round), &timings)

		n := float64(c.iterations)
		log.Printf("round %d per-call compute=%.1fus perceptron=%.1fus backprop=%.1fus",
			round,
			float64(timings.Compute.Microseconds())/n,
			float64(timings.Perceptron.Microseconds())/n,
			float64(timings.Backprop.Microseconds())/n,
		)
		timings.Reset()
	}
	return nil
}

type benchTimings struct {
	Compute    time.Duration
	Perceptron time.Duration
	Backprop   time.Duration
}

func (t *benchTimings) Reset() {
	t.Compute = 0 * time.Second
	t.Perceptron = 0 * time.Second
	t.Backprop = 0 * time.Second
}

// runBenchRound adds the time taken by iterations calls of each operation to
// timings.
func runBenchRound(inputSize, outputSize, iterations int, seed int64, timings *benchTimings) {
	r := rand.New(rand.NewSource(seed))
	lay := toolbox.MakeDenseFrom(toolbox.Sigmoid[float32](), inputSize, outputSize, func() float32 {
		return float32(r.NormFloat64()) * 0.1
	})

	x := make([]float32, inputSize)
	for i := range x {
		x[i] = r.Float32()
	}
	y := make([]float32, outputSize)
	for j := range y {
		y[j] = r.Float32()
	}

	computeStart := time.Now()
	for s := 0; s < iterations; s++ {
		_ = lay.Compute(x)
	}
	timings.Compute += time.Since(computeStart)

	perceptron := toolbox.PerceptronRule[float32]{Rate: 1e-4}
	perceptronStart := time.Now()
	for s := 0; s < iterations; s++ {
		lay.SupervisedTrain(perceptron, x, y)
	}
	timings.Perceptron += time.Since(perceptronStart)

	descent := toolbox.GradientDescent[float32]{Rate: 1e-4}
	backpropStart := time.Now()
	for s := 0; s < iterations; s++ {
		_ = lay.BackpropTrain(descent, x, y)
	}
	timings.Backprop += time.Since(backpropStart)
}

func cpuFeatures() string {
	wanted := []struct {
		name string
		id   cpuid.FeatureID
	}{
		{"sse4.2", cpuid.SSE42},
		{"avx", cpuid.AVX},
		{"avx2", cpuid.AVX2},
		{"fma3", cpuid.FMA3},
		{"avx512f", cpuid.AVX512F},
		{"asimd", cpuid.ASIMD},
	}

	var have []string
	for _, f := range wanted {
		if cpuid.CPU.Supports(f.id) {
			have = append(have, f.name)
		}
	}
	if len(have) == 0 {
		return "none"
	}
	return strings.Join(have, ",")
}
