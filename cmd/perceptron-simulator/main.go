// Command perceptron-simulator trains a single dense layer on a small data set
// with either the perceptron rule or gradient descent.
//
// To train on a generated data set: `go run ./cmd/perceptron-simulator train --rule=perceptron`
//
// To train on your own data: `go run ./cmd/perceptron-simulator train --data-file=data.npz`
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&TrainCommand{}, "")
	subcommands.Register(&GenerateCommand{}, "")
	subcommands.Register(&BenchCommand{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

type GenerateCommand struct {
	outputFile string
	samples    int
	seed       int64
}

var _ subcommands.Command = (*GenerateCommand)(nil)

func (*GenerateCommand) Name() string {
	return "generate"
}

func (*GenerateCommand) Synopsis() string {
	return "Write a generated data set in the format accepted by train --data-file"
}

func (*GenerateCommand) Usage() string {
	return ``
}

func (c *GenerateCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "output-file", "simulator.npz", "Path to write the data set to (npz with x.npy and y.npy)")
	f.IntVar(&c.samples, "samples", 1000, "Number of samples to generate")
	f.Int64Var(&c.seed, "seed", 12345, "Random seed")
}

func (c *GenerateCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *GenerateCommand) executeErr(ctx context.Context) error {
	if c.samples <= 0 {
		return fmt.Errorf("--samples must be positive, got %d", c.samples)
	}

	d := generateDataset(c.samples, c.seed)
	if err := saveDataset(c.outputFile, d); err != nil {
		return fmt.Errorf("while saving data set: %w", err)
	}

	log.Printf("Wrote %d samples to %s", c.samples, c.outputFile)
	return nil
}
