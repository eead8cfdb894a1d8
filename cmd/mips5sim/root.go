package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mips5sim",
	Short: "A cycle-accurate simulator for a five-stage in-order MIPS-like pipeline",
	Long: `mips5sim assembles and runs programs for a five-stage in-order integer
pipeline: fetch, decode, execute, memory, write-back, with data-hazard
forwarding, load-use stalling, and branch/jump flush logic.`,
}
