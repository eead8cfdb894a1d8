// Package asm turns assembly-text programs (and raw machine words) into
// the decoded insts.Instruction records the pipeline executes.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/mips5sim/insts"
)

// ParseError reports a line the parser could not turn into an instruction.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("asm: line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads an assembly-text program, one instruction per line. Blank
// lines and lines whose first non-space character is '#' are skipped.
// Register operands accept an optional leading '$'.
func Parse(src string) ([]insts.Instruction, error) {
	var program []insts.Instruction
	for i, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inst, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: line, Err: err}
		}
		program = append(program, inst)
	}
	return program, nil
}

func parseLine(line string) (insts.Instruction, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) == 0 {
		return insts.NOP(), nil
	}

	mnemonic := strings.ToUpper(fields[0])
	operands := fields[1:]

	switch mnemonic {
	case "ADD", "SUB", "AND", "OR", "SLT", "MUL":
		rd, rs, rt, err := parseRRR(operands)
		if err != nil {
			return insts.Instruction{}, err
		}
		return insts.Instruction{Op: rtypeOp(mnemonic), Rd: rd, Rs: rs, Rt: rt}, nil

	case "SLL", "SRL":
		rd, rt, shamt, err := parseShift(operands)
		if err != nil {
			return insts.Instruction{}, err
		}
		return insts.Instruction{Op: shiftOp(mnemonic), Rd: rd, Rt: rt, Shamt: shamt}, nil

	case "ADDI":
		rt, rs, imm, err := parseRRI(operands)
		if err != nil {
			return insts.Instruction{}, err
		}
		return insts.Instruction{Op: insts.OpADDI, Rt: rt, Rs: rs, Imm: imm}, nil

	case "LW", "SW":
		rt, imm, rs, err := parseMem(operands)
		if err != nil {
			return insts.Instruction{}, err
		}
		op := insts.OpLW
		if mnemonic == "SW" {
			op = insts.OpSW
		}
		return insts.Instruction{Op: op, Rt: rt, Rs: rs, Imm: imm}, nil

	case "BEQ", "BNE":
		rs, rt, imm, err := parseRRI(operands)
		if err != nil {
			return insts.Instruction{}, err
		}
		op := insts.OpBEQ
		if mnemonic == "BNE" {
			op = insts.OpBNE
		}
		return insts.Instruction{Op: op, Rs: rs, Rt: rt, Imm: imm}, nil

	case "J":
		if len(operands) != 1 {
			return insts.Instruction{}, fmt.Errorf("J expects one word-address operand")
		}
		addr, err := strconv.ParseUint(operands[0], 10, 32)
		if err != nil {
			return insts.Instruction{}, fmt.Errorf("invalid jump target %q: %w", operands[0], err)
		}
		return insts.Instruction{Op: insts.OpJ, Addr: uint32(addr)}, nil

	case "HALT":
		return insts.Instruction{Op: insts.OpHALT}, nil

	case "NOP":
		return insts.NOP(), nil

	default:
		return insts.Instruction{}, fmt.Errorf("unknown mnemonic %q", mnemonic)
	}
}

func rtypeOp(mnemonic string) insts.Op {
	switch mnemonic {
	case "ADD":
		return insts.OpADD
	case "SUB":
		return insts.OpSUB
	case "AND":
		return insts.OpAND
	case "OR":
		return insts.OpOR
	case "SLT":
		return insts.OpSLT
	case "MUL":
		return insts.OpMUL
	default:
		return insts.OpInvalid
	}
}

func shiftOp(mnemonic string) insts.Op {
	if mnemonic == "SLL" {
		return insts.OpSLL
	}
	return insts.OpSRL
}

// parseRRR parses "rd, rs, rt" for R-type arithmetic.
func parseRRR(operands []string) (rd, rs, rt uint8, err error) {
	if len(operands) != 3 {
		return 0, 0, 0, fmt.Errorf("expected 3 register operands, got %d", len(operands))
	}
	if rd, err = parseReg(operands[0]); err != nil {
		return
	}
	if rs, err = parseReg(operands[1]); err != nil {
		return
	}
	rt, err = parseReg(operands[2])
	return
}

// parseShift parses "rd, rt, shamt".
func parseShift(operands []string) (rd, rt uint8, shamt uint8, err error) {
	if len(operands) != 3 {
		return 0, 0, 0, fmt.Errorf("expected rd, rt, shamt, got %d operands", len(operands))
	}
	if rd, err = parseReg(operands[0]); err != nil {
		return
	}
	if rt, err = parseReg(operands[1]); err != nil {
		return
	}
	n, perr := strconv.ParseUint(operands[2], 10, 8)
	if perr != nil {
		return rd, rt, 0, fmt.Errorf("invalid shift amount %q: %w", operands[2], perr)
	}
	return rd, rt, uint8(n), nil
}

// parseRRI parses "ra, rb, imm" — used by ADDI (rt, rs, imm) and the branch
// opcodes (rs, rt, imm).
func parseRRI(operands []string) (a, b uint8, imm int16, err error) {
	if len(operands) != 3 {
		return 0, 0, 0, fmt.Errorf("expected 2 registers and an immediate, got %d operands", len(operands))
	}
	if a, err = parseReg(operands[0]); err != nil {
		return
	}
	if b, err = parseReg(operands[1]); err != nil {
		return
	}
	n, perr := strconv.ParseInt(operands[2], 10, 16)
	if perr != nil {
		return a, b, 0, fmt.Errorf("invalid immediate %q: %w", operands[2], perr)
	}
	return a, b, int16(n), nil
}

// parseMem parses "rt, imm(rs)" for LW/SW.
func parseMem(operands []string) (rt uint8, imm int16, rs uint8, err error) {
	if len(operands) != 2 {
		return 0, 0, 0, fmt.Errorf("expected \"rt, imm(rs)\", got %d operands", len(operands))
	}
	if rt, err = parseReg(operands[0]); err != nil {
		return
	}
	open := strings.IndexByte(operands[1], '(')
	shut := strings.IndexByte(operands[1], ')')
	if open < 0 || shut < open {
		return rt, 0, 0, fmt.Errorf("invalid offset(base) operand %q", operands[1])
	}
	n, perr := strconv.ParseInt(operands[1][:open], 10, 16)
	if perr != nil {
		return rt, 0, 0, fmt.Errorf("invalid offset %q: %w", operands[1][:open], perr)
	}
	rs, err = parseReg(operands[1][open+1 : shut])
	return rt, int16(n), rs, err
}

// abiRegNames maps the standard MIPS ABI register names to their numeric
// index, mirroring the table output.PrintFinalRegisters renders.
var abiRegNames = map[string]uint8{
	"zero": 0, "at": 1, "v0": 2, "v1": 3,
	"a0": 4, "a1": 5, "a2": 6, "a3": 7,
	"t0": 8, "t1": 9, "t2": 10, "t3": 11, "t4": 12, "t5": 13, "t6": 14, "t7": 15,
	"s0": 16, "s1": 17, "s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23,
	"t8": 24, "t9": 25, "k0": 26, "k1": 27, "gp": 28, "sp": 29, "fp": 30, "ra": 31,
}

// parseReg accepts either a numeric register (with an optional leading '$',
// 0-31) or a standard MIPS ABI register name such as "$zero" or "$sp".
func parseReg(tok string) (uint8, error) {
	tok = strings.TrimPrefix(tok, "$")
	if n, ok := abiRegNames[strings.ToLower(tok)]; ok {
		return n, nil
	}
	n, err := strconv.ParseUint(tok, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid register %q: %w", tok, err)
	}
	if n > 31 {
		return 0, fmt.Errorf("register $%d out of range 0-31", n)
	}
	return uint8(n), nil
}
