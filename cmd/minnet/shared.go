package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/google/subcommands"

	"github.com/born-ml/minnet/nn"
	"github.com/born-ml/minnet/tensor"
)

type SharedCommand struct {
	epochs       int
	learningRate float64
	seed         int64
}

var _ subcommands.Command = (*SharedCommand)(nil)

func (*SharedCommand) Name() string {
	return "shared"
}

func (*SharedCommand) Synopsis() string {
	return "Train AND and OR heads on one shared model"
}

func (*SharedCommand) Usage() string {
	return `shared [flags]:
  Train two receivers (AND, OR) that share a [2, 4] dense emitter.
`
}

func (c *SharedCommand) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.epochs, "epochs", 2000, "Number of passes over the truth tables")
	f.Float64Var(&c.learningRate, "lr", 0.5, "Learning rate")
	f.Int64Var(&c.seed, "seed", 1, "Seed for weight initialization")
}

func (c *SharedCommand) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *SharedCommand) executeErr(ctx context.Context) error {
	rng := rand.New(rand.NewSource(c.seed))
	config := nn.DenseConfig{LearningRate: c.learningRate, Rand: rng}

	base, err := nn.NewDense([]int{2, 4}, config)
	if err != nil {
		return fmt.Errorf("while creating shared model: %w", err)
	}
	emitter := nn.NewEmitter(base)

	heads := []struct {
		name string
		op   func(a, b bool) bool
	}{
		{"and", func(a, b bool) bool { return a && b }},
		{"or", func(a, b bool) bool { return a || b }},
	}
	receivers := make([]*nn.Receiver, len(heads))
	expecteds := make([][]*tensor.Tensor, len(heads))
	var inputs []*tensor.Tensor
	for i, h := range heads {
		head, err := nn.NewDense([]int{4, 1}, config)
		if err != nil {
			return fmt.Errorf("while creating %s head: %w", h.name, err)
		}
		if receivers[i], err = nn.NewReceiver(head, emitter); err != nil {
			return fmt.Errorf("while attaching %s head: %w", h.name, err)
		}
		inputs, expecteds[i] = truthTable(h.op)
	}

	for epoch := 0; epoch < c.epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		costs := make([]float64, len(heads))
		for j, in := range inputs {
			for i, h := range heads {
				sample, err := nn.Train(receivers[i], in, expecteds[i][j], true)
				if err != nil {
					return fmt.Errorf("while training %s: %w", h.name, err)
				}
				costs[i] += sample / float64(len(inputs))
			}
			// One shared commit per round.
			emitter.ApplyDeltas()
		}
		if epoch%(c.epochs/10+1) == 0 {
			log.Printf("epoch=%d and=%.4f or=%.4f", epoch, costs[0], costs[1])
		}
	}

	for _, in := range inputs {
		if _, err := emitter.Feedforward(in); err != nil {
			return fmt.Errorf("while predicting: %w", err)
		}
		fmt.Printf("%v %v: and=%.3f or=%.3f\n", in.Data()[0], in.Data()[1],
			receivers[0].LastResult().Data()[0], receivers[1].LastResult().Data()[0])
	}
	return nil
}
