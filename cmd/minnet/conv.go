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

const stripeSide = 5

type ConvCommand struct {
	epochs       int
	learningRate float64
	kernels      int
	samples      int
	seed         int64
	trainBias    bool
}

var _ subcommands.Command = (*ConvCommand)(nil)

func (*ConvCommand) Name() string {
	return "conv"
}

func (*ConvCommand) Synopsis() string {
	return "Train a convolutional classifier on synthetic stripes"
}

func (*ConvCommand) Usage() string {
	return `conv [flags]:
  Train Conv2D -> Flatten -> Dense to tell horizontal from vertical stripes.
`
}

func (c *ConvCommand) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.epochs, "epochs", 200, "Number of passes over the training set")
	f.Float64Var(&c.learningRate, "lr", 0.5, "Learning rate")
	f.IntVar(&c.kernels, "kernels", 2, "Number of convolution kernels")
	f.IntVar(&c.samples, "samples", 40, "Number of training images")
	f.Int64Var(&c.seed, "seed", 1, "Seed for initialization and data")
	f.BoolVar(&c.trainBias, "train-bias", false, "Also train the kernel biases")
}

func (c *ConvCommand) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *ConvCommand) executeErr(ctx context.Context) error {
	rng := rand.New(rand.NewSource(c.seed))

	conv, err := nn.NewConv2D(nn.Conv2DConfig{
		NumKernels:   c.kernels,
		KernelRadius: 1,
		LearningRate: c.learningRate,
		Rand:         rng,
		TrainBias:    c.trainBias,
	})
	if err != nil {
		return fmt.Errorf("while creating conv layer: %w", err)
	}
	flatten, err := nn.NewFlatten(tensor.Shape{c.kernels, stripeSide, stripeSide})
	if err != nil {
		return fmt.Errorf("while creating flatten layer: %w", err)
	}
	dense, err := nn.NewDense([]int{c.kernels * stripeSide * stripeSide, 8, 1}, nn.DenseConfig{
		LearningRate: c.learningRate,
		Rand:         rng,
	})
	if err != nil {
		return fmt.Errorf("while creating dense layer: %w", err)
	}
	model, err := nn.NewComposite(conv, flatten, dense)
	if err != nil {
		return fmt.Errorf("while assembling model: %w", err)
	}

	xTrain, yTrain := stripes(rng, c.samples, stripeSide)
	xTest, yTest := stripes(rng, c.samples/2+1, stripeSide)
	log.Printf("Generated %d training and %d test images", len(xTrain), len(xTest))

	for epoch := 0; epoch < c.epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		cost := 0.0
		for i := range xTrain {
			sample, err := nn.Train(model, xTrain[i], yTrain[i], true)
			if err != nil {
				return fmt.Errorf("while training epoch %d: %w", epoch, err)
			}
			cost += sample / float64(len(xTrain))
		}
		if epoch%(c.epochs/10+1) == 0 {
			log.Printf("epoch=%d cost=%.4f", epoch, cost)
		}
	}

	correct := 0
	for i := range xTest {
		out, err := model.Feedforward(xTest[i])
		if err != nil {
			return fmt.Errorf("while predicting: %w", err)
		}
		if (out.Data()[0] > 0.5) == (yTest[i].Data()[0] > 0.5) {
			correct++
		}
	}
	fmt.Printf("test accuracy: %d/%d\n", correct, len(xTest))
	return nil
}

// stripes generates n single-channel side×side images, each holding one
// full-length line at a random position. Horizontal lines are labelled 1 and
// vertical lines 0.
func stripes(rng *rand.Rand, n, side int) (images, labels []*tensor.Tensor) {
	for i := 0; i < n; i++ {
		data := make([]float64, side*side)
		at := rng.Intn(side)
		horizontal := i%2 == 0
		for j := 0; j < side; j++ {
			if horizontal {
				data[at*side+j] = 1
			} else {
				data[j*side+at] = 1
			}
		}
		images = append(images, tensor.MustNew(tensor.Shape{1, side, side}, data))
		labels = append(labels, column(bit(horizontal)))
	}
	return images, labels
}
