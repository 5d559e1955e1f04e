package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ahmedtd/feedforward/toolbox"
	"github.com/stretchr/testify/require"
)

func TestGenerateDatasetIsReproducible(t *testing.T) {
	a := generateDataset(100, 12345)
	b := generateDataset(100, 12345)
	require.Equal(t, a, b)
	require.Equal(t, 2, a.inputSize())
	require.Equal(t, 1, a.outputSize())

	for k := range a.xs {
		want := 0.0
		if a.xs[k][1] > a.xs[k][0] {
			want = 1.0
		}
		require.Equal(t, want, a.ys[k][0], "sample %d", k)
	}
}

func TestWithBiasInput(t *testing.T) {
	d := &dataset{
		xs: [][]float64{{1, 2}, {3, 4}},
		ys: [][]float64{{0}, {1}},
	}
	got := d.withBiasInput()

	require.Equal(t, [][]float64{{1, 2, 1}, {3, 4, 1}}, got.xs)
	require.Equal(t, d.ys, got.ys)
	require.Equal(t, [][]float64{{1, 2}, {3, 4}}, d.xs, "original modified")
}

func TestTrainLearnsSeparableData(t *testing.T) {
	testCases := []struct {
		rule       string
		activation string
		rate       float64
	}{
		{"perceptron", "identity", 0.01},
		{"gradient-descent", "identity", 0.01},
		{"gradient-descent", "sigmoid", 0.5},
	}

	for _, tc := range testCases {
		t.Run(tc.rule+"/"+tc.activation, func(t *testing.T) {
			act, ok := toolbox.ActivationByName[float64](tc.activation)
			require.True(t, ok)

			var history []epochStats
			cfg := trainConfig{
				rule:       tc.rule,
				activation: act,
				rate:       tc.rate,
				epochs:     30,
				seed:       12345,
				biasInput:  true,
				onEpoch: func(epoch int, stats epochStats) {
					history = append(history, stats)
				},
			}

			lay, err := train(context.Background(), cfg, generateDataset(1000, 12345))
			require.NoError(t, err)
			require.Equal(t, 3, lay.InputSize())
			require.Equal(t, 1, lay.OutputSize())
			require.Len(t, history, 30)

			last := history[len(history)-1]
			require.Less(t, last.MispredictionPct, 15.0)
			require.Less(t, last.Loss, history[0].Loss+1e-9)
			if tc.rule == "gradient-descent" {
				require.Greater(t, last.UpstreamErrorNorm, 0.0)
			} else {
				require.Zero(t, last.UpstreamErrorNorm)
			}
		})
	}
}

func TestTrainRejectsUnknownRule(t *testing.T) {
	cfg := trainConfig{
		rule:       "adam",
		activation: toolbox.Identity[float64](),
		epochs:     1,
	}
	_, err := train(context.Background(), cfg, generateDataset(10, 1))
	require.ErrorContains(t, err, "unknown rule")
}

func TestTrainRejectsEmptyDataset(t *testing.T) {
	cfg := trainConfig{
		rule:       "perceptron",
		activation: toolbox.Identity[float64](),
		epochs:     1,
	}
	_, err := train(context.Background(), cfg, &dataset{})
	require.Error(t, err)
}

func TestTrainStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := trainConfig{
		rule:       "perceptron",
		activation: toolbox.Identity[float64](),
		rate:       0.01,
		epochs:     5,
	}
	_, err := train(ctx, cfg, generateDataset(10, 1))
	require.ErrorIs(t, err, context.Canceled)
}

func TestSaveAndLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.npz")
	want := generateDataset(25, 7)

	require.NoError(t, saveDataset(path, want))

	got, err := loadDataset(path)
	require.NoError(t, err)
	require.Equal(t, want.xs, got.xs)
	require.Equal(t, want.ys, got.ys)
}

func TestPredictedClass(t *testing.T) {
	require.Equal(t, -1, predictedClass(nil))
	require.Equal(t, 1, predictedClass([]float64{0.7}))
	require.Equal(t, 0, predictedClass([]float64{0.5}))
	require.Equal(t, 2, predictedClass([]float64{0.1, 0.2, 0.9, 0.3}))
}

func TestRunBenchRound(t *testing.T) {
	var timings benchTimings
	runBenchRound(64, 32, 50, 1, &timings)
	runBenchRound(64, 32, 50, 2, &timings)

	require.Greater(t, int64(timings.Compute), int64(0))
	require.Greater(t, int64(timings.Perceptron), int64(0))
	require.Greater(t, int64(timings.Backprop), int64(0))

	timings.Reset()
	require.Zero(t, timings)
}

func TestBenchRejectsBadFlags(t *testing.T) {
	testCases := []struct {
		desc string
		cmd  BenchCommand
		want string
	}{
		{"zero iterations", BenchCommand{inputSize: 4, outputSize: 4, iterations: 0, rounds: 1}, "--iterations"},
		{"negative iterations", BenchCommand{inputSize: 4, outputSize: 4, iterations: -3, rounds: 1}, "--iterations"},
		{"zero size", BenchCommand{inputSize: 0, outputSize: 4, iterations: 1, rounds: 1}, "layer sizes"},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.cmd.executeErr(context.Background())
			require.ErrorContains(t, err, tc.want)
		})
	}
}
