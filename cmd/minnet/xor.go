package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/google/subcommands"

	"github.com/born-ml/minnet/nn"
	"github.com/born-ml/minnet/serialization"
)

type XORCommand struct {
	epochs       int
	learningRate float64
	batch        bool
	seed         int64

	fromCheckpointFile string
	saveFile           string
}

var _ subcommands.Command = (*XORCommand)(nil)

func (*XORCommand) Name() string {
	return "xor"
}

func (*XORCommand) Synopsis() string {
	return "Train a dense network on XOR"
}

func (*XORCommand) Usage() string {
	return `xor [flags]:
  Train a [2, 3, 1] sigmoid network on the XOR truth table.
`
}

func (c *XORCommand) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.epochs, "epochs", 5000, "Number of passes over the truth table")
	f.Float64Var(&c.learningRate, "lr", 0.5, "Learning rate")
	f.BoolVar(&c.batch, "batch", false, "Apply deltas once per epoch instead of once per sample")
	f.Int64Var(&c.seed, "seed", 1, "Seed for weight initialization")
	f.StringVar(&c.fromCheckpointFile, "from-checkpoint", "", "Path to initial weights (.npz) to load for training")
	f.StringVar(&c.saveFile, "save", "", "Path to save trained weights (.npz)")
}

func (c *XORCommand) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *XORCommand) executeErr(ctx context.Context) error {
	model, err := nn.NewDense([]int{2, 3, 1}, nn.DenseConfig{
		LearningRate: c.learningRate,
		Rand:         rand.New(rand.NewSource(c.seed)),
	})
	if err != nil {
		return fmt.Errorf("while creating model: %w", err)
	}
	if c.fromCheckpointFile != "" {
		if err := serialization.Load(c.fromCheckpointFile, model); err != nil {
			return fmt.Errorf("while loading checkpoint: %w", err)
		}
		log.Printf("Loaded weights from %s", c.fromCheckpointFile)
	}

	inputs, expecteds := truthTable(func(a, b bool) bool { return a != b })

	for epoch := 0; epoch < c.epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var cost float64
		if c.batch {
			cost, err = nn.BatchTrain(model, inputs, expecteds)
			if err != nil {
				return fmt.Errorf("while training epoch %d: %w", epoch, err)
			}
		} else {
			for i := range inputs {
				sample, err := nn.Train(model, inputs[i], expecteds[i], true)
				if err != nil {
					return fmt.Errorf("while training epoch %d: %w", epoch, err)
				}
				cost += sample / float64(len(inputs))
			}
		}

		if epoch%(c.epochs/10+1) == 0 {
			log.Printf("epoch=%d cost=%.4f", epoch, cost)
		}
	}

	loss, err := nn.Evaluate(model, inputs, expecteds, nn.SquaredError)
	if err != nil {
		return fmt.Errorf("while evaluating: %w", err)
	}
	log.Printf("final loss=%.6f", loss)

	for i, in := range inputs {
		out, err := model.Feedforward(in)
		if err != nil {
			return fmt.Errorf("while predicting: %w", err)
		}
		fmt.Printf("%v xor %v = %.3f (want %v)\n", in.Data()[0], in.Data()[1], out.Data()[0], expecteds[i].Data()[0])
	}

	if c.saveFile != "" {
		if err := serialization.Save(c.saveFile, model); err != nil {
			return fmt.Errorf("while saving weights: %w", err)
		}
		log.Printf("Saved weights to %s", c.saveFile)
	}
	return nil
}
