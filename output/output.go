// Package output renders a finished run's register file and data memory
// into the human-readable dump printed by the command-line front end.
package output

import (
	"fmt"
	"io"
	"strings"
)

// regNames is the MIPS ABI register-name table, used purely for display.
var regNames = [32]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

// PrintFinalRegisters renders all 32 registers, four per row, with their
// ABI name, decimal value, and zero-padded hex value.
func PrintFinalRegisters(w io.Writer, regs [32]int32) {
	printHeader(w, "FINAL REGISTER FILE")
	for row := 0; row < 32; row += 4 {
		fmt.Fprintf(w, "%-8s%-8s%-12s%-12s\n", "Reg", "Name", "Decimal", "Hex")
		for i := row; i < row+4; i++ {
			fmt.Fprintf(w, "%-8s%-8s%-12d0x%08x\n",
				fmt.Sprintf("$%d", i), regNames[i], regs[i], uint32(regs[i]))
		}
		fmt.Fprintln(w)
	}
	printSeparator(w)
}

// PrintFinalMemory renders every word of the given memory snapshot, four
// words per row, each row labeled with its starting byte address.
func PrintFinalMemory(w io.Writer, mem []int32) {
	printHeader(w, "FINAL MEMORY CONTENTS")
	fmt.Fprintf(w, "Memory (showing %d words, address 0x00000000 - 0x%08x):\n", len(mem), len(mem)*4-4)
	for row := 0; row < len(mem); row += 4 {
		fmt.Fprintf(w, "0x%08x: ", row*4)
		for i := row; i < row+4 && i < len(mem); i++ {
			fmt.Fprintf(w, "%08x ", uint32(mem[i]))
		}
		fmt.Fprintln(w)
	}
	printSeparator(w)
}

// PrintFinalState renders both the register file and memory contents,
// followed by the total cycle count.
func PrintFinalState(w io.Writer, regs [32]int32, mem []int32, cycles uint64) {
	PrintFinalRegisters(w, regs)
	fmt.Fprintln(w)
	PrintFinalMemory(w, mem)
	fmt.Fprintf(w, "\nTotal cycles: %d\n", cycles)
}

func printHeader(w io.Writer, title string) {
	printSeparator(w)
	fmt.Fprintf(w, " %s\n", title)
	printSeparator(w)
}

func printSeparator(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
}
