package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/mips5sim/asm"
	"github.com/sarchlab/mips5sim/insts"
	"github.com/sarchlab/mips5sim/output"
	"github.com/sarchlab/mips5sim/timing/core"
)

var (
	flagTrace    bool
	flagMemWords uint32
	flagHaltCap  uint64
	flagBinary   bool
)

var runCmd = &cobra.Command{
	Use:   "run [program]",
	Short: "Assemble and run a program, printing its final register and memory state",
	Long: `run reads an assembly-text program (one instruction per line) from the
given file, or from stdin if no file is given, and simulates it to
completion. Pass --binary to read one raw machine word per line instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args)
		if err != nil {
			return err
		}

		program, err := parseSource(src)
		if err != nil {
			return err
		}
		if len(program) == 0 {
			return fmt.Errorf("mips5sim: no valid instructions found")
		}

		sim := buildSimulator(program)

		if err := sim.Run(); err != nil {
			return err
		}

		output.PrintFinalState(cmd.OutOrStdout(), sim.Registers(), sim.Memory(dumpWords), sim.Cycles())
		return nil
	},
}

// dumpWords is the fixed size of the final memory dump: the first 256
// bytes of data memory, regardless of how large --mem-words configured
// the simulator's actual capacity.
const dumpWords = 64

func init() {
	runCmd.Flags().BoolVar(&flagTrace, "trace", false, "log one line per cycle via logrus")
	runCmd.Flags().Uint32Var(&flagMemWords, "mem-words", 1024, "data memory capacity, in 32-bit words")
	runCmd.Flags().Uint64Var(&flagHaltCap, "halt-cap", 0, "abort after this many cycles if the program never halts (0 = unbounded)")
	runCmd.Flags().BoolVar(&flagBinary, "binary", false, "read one raw machine word per line instead of assembly text")
	rootCmd.AddCommand(runCmd)
}

func readSource(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("mips5sim: reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("mips5sim: could not open %s: %w", args[0], err)
	}
	return string(data), nil
}

func parseSource(src string) ([]insts.Instruction, error) {
	if flagBinary {
		return asm.ParseWords(src)
	}
	return asm.Parse(src)
}

func buildSimulator(program []insts.Instruction) *core.Simulator {
	if flagTrace {
		logrus.SetLevel(logrus.InfoLevel)
	}
	if flagHaltCap > 0 {
		return core.New(program, flagMemWords, flagTrace, core.SafetyCap(flagHaltCap))
	}
	return core.New(program, flagMemWords, flagTrace)
}
