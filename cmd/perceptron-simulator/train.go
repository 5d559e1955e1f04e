package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/ahmedtd/feedforward/toolbox"
	"github.com/google/subcommands"
	"gonum.org/v1/gonum/floats"
)

type TrainCommand struct {
	dataFile string
	samples  int

	rule       string
	activation string
	rate       float64
	epochs     int
	seed       int64
	biasInput  bool
}

var _ subcommands.Command = (*TrainCommand)(nil)

func (*TrainCommand) Name() string {
	return "train"
}

func (*TrainCommand) Synopsis() string {
	return "Train a single dense layer"
}

func (*TrainCommand) Usage() string {
	return ``
}

func (c *TrainCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dataFile, "data-file", "", "Path to an npz data set (x.npy, y.npy).  If empty, a data set is generated")
	f.IntVar(&c.samples, "samples", 1000, "Number of samples to generate when --data-file is empty")

	f.StringVar(&c.rule, "rule", "perceptron", "Training rule: perceptron or gradient-descent")
	f.StringVar(&c.activation, "activation", "identity", "Activation function: identity, sigmoid, relu or tanh")
	f.Float64Var(&c.rate, "rate", 0.01, "Learning rate")
	f.IntVar(&c.epochs, "epochs", 20, "Number of passes over the data set")
	f.Int64Var(&c.seed, "seed", 12345, "Random seed for initialization and shuffling")
	f.BoolVar(&c.biasInput, "bias-input", true, "Append a constant 1 input so the layer can learn an offset")
}

func (c *TrainCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *TrainCommand) executeErr(ctx context.Context) error {
	var d *dataset
	if c.dataFile != "" {
		var err error
		d, err = loadDataset(c.dataFile)
		if err != nil {
			return fmt.Errorf("while loading data set: %w", err)
		}
	} else {
		d = generateDataset(c.samples, c.seed)
	}
	log.Printf("Data set has %d samples, %d inputs, %d outputs", len(d.xs), d.inputSize(), d.outputSize())

	act, ok := toolbox.ActivationByName[float64](c.activation)
	if !ok {
		return fmt.Errorf("unknown activation %q", c.activation)
	}

	cfg := trainConfig{
		rule:       c.rule,
		activation: act,
		rate:       c.rate,
		epochs:     c.epochs,
		seed:       c.seed,
		biasInput:  c.biasInput,
	}
	lay, err := train(ctx, cfg, d)
	if err != nil {
		return err
	}

	log.Printf("learned model W=%v B=%v", lay.W, lay.B)
	return nil
}

type trainConfig struct {
	rule       string
	activation toolbox.Activation[float64]
	rate       float64
	epochs     int
	seed       int64
	biasInput  bool

	// Called after every epoch, if set.
	onEpoch func(epoch int, stats epochStats)
}

type epochStats struct {
	Loss             float64
	MispredictionPct float64

	// Mean L2 norm of the upstream error returned by BackpropTrain.  Zero for
	// the perceptron rule.
	UpstreamErrorNorm float64
}

// train builds a layer sized for d and trains it for cfg.epochs passes,
// presenting the samples in a different order every pass.
func train(ctx context.Context, cfg trainConfig, d *dataset) (*toolbox.Dense[float64], error) {
	if len(d.xs) == 0 {
		return nil, fmt.Errorf("empty data set")
	}
	if cfg.biasInput {
		d = d.withBiasInput()
	}

	r := rand.New(rand.NewSource(cfg.seed))
	lay := toolbox.MakeDenseFrom(cfg.activation, d.inputSize(), d.outputSize(), func() float64 {
		return r.NormFloat64() * 0.1
	})

	var (
		perceptron = toolbox.PerceptronRule[float64]{Rate: cfg.rate}
		descent    = toolbox.GradientDescent[float64]{Rate: cfg.rate}
	)
	if cfg.rule != "perceptron" && cfg.rule != "gradient-descent" {
		return nil, fmt.Errorf("unknown rule %q", cfg.rule)
	}

	order := make([]int, len(d.xs))
	for k := range order {
		order[k] = k
	}

	for epoch := 0; epoch < cfg.epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("while training epoch %d: %w", epoch, err)
		}

		var upstreamNorm float64
		for _, k := range order {
			switch cfg.rule {
			case "perceptron":
				lay.SupervisedTrain(perceptron, d.xs[k], d.ys[k])
			case "gradient-descent":
				e := lay.BackpropTrain(descent, d.xs[k], d.ys[k])
				upstreamNorm += floats.Norm(e, 2) / float64(len(order))
			}
		}

		// Shuffle so we present the samples in a different order in the next epoch.
		r.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		stats := epochStats{
			Loss:              toolbox.MeanSquaredErrorOver[float64](lay, d.xs, d.ys),
			MispredictionPct:  mispredictionPct(lay, d),
			UpstreamErrorNorm: upstreamNorm,
		}
		log.Printf("epoch %d loss=%f mispredicted-pct=%.1f upstream-error-norm=%f",
			epoch,
			stats.Loss,
			stats.MispredictionPct,
			stats.UpstreamErrorNorm,
		)
		if cfg.onEpoch != nil {
			cfg.onEpoch(epoch, stats)
		}
	}

	return lay, nil
}

// mispredictionPct scores lay as a classifier.  With a single output the
// prediction is output > 0.5; otherwise it is the index of the largest output.
func mispredictionPct(lay toolbox.Computer[float64], d *dataset) float64 {
	wrong := 0
	for k := range d.xs {
		if predictedClass(lay.Compute(d.xs[k])) != predictedClass(d.ys[k]) {
			wrong++
		}
	}
	return float64(wrong) / float64(len(d.xs)) * 100
}

func predictedClass(v []float64) int {
	switch len(v) {
	case 0:
		return -1
	case 1:
		if v[0] > 0.5 {
			return 1
		}
		return 0
	default:
		return floats.MaxIdx(v)
	}
}
