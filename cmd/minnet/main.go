// Command minnet trains small demonstration networks.
//
// To train XOR: `go run ./cmd/minnet xor --epochs=2000 --save=xor.npz`
//
// To train the stripe classifier: `go run ./cmd/minnet conv`
//
// To train AND and OR jointly on a shared model: `go run ./cmd/minnet shared`
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/born-ml/minnet/tensor"
)

const version = "v0.1.0"

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&XORCommand{}, "")
	subcommands.Register(&ConvCommand{}, "")
	subcommands.Register(&SharedCommand{}, "")
	subcommands.Register(&VersionCommand{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

type VersionCommand struct{}

var _ subcommands.Command = (*VersionCommand)(nil)

func (*VersionCommand) Name() string {
	return "version"
}

func (*VersionCommand) Synopsis() string {
	return "Print the version"
}

func (*VersionCommand) Usage() string {
	return ``
}

func (*VersionCommand) SetFlags(*flag.FlagSet) {}

func (*VersionCommand) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Printf("minnet %s\n", version)
	return subcommands.ExitSuccess
}

func column(values ...float64) *tensor.Tensor {
	return tensor.MustMatrix(len(values), 1, values).Tensor
}

// truthTable returns the four two-bit inputs and the outputs of op on them.
func truthTable(op func(a, b bool) bool) (inputs, expecteds []*tensor.Tensor) {
	for _, a := range []bool{false, true} {
		for _, b := range []bool{false, true} {
			inputs = append(inputs, column(bit(a), bit(b)))
			expecteds = append(expecteds, column(bit(op(a, b))))
		}
	}
	return inputs, expecteds
}

func bit(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
