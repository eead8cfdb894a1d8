package asm

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/mips5sim/insts"
)

// DecodeError reports a raw machine word this package cannot decode into
// one of the closed opcode set's instructions.
type DecodeError struct {
	Word   uint32
	Opcode uint8
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("asm: word 0x%08x: unrecognized opcode field %#x", e.Word, e.Opcode)
}

// opcode field values (bits 31-26) for the subset of the MIPS encoding this
// simulator understands. R-type instructions all share opcode 0 and are
// distinguished by the funct field (bits 5-0); everything else is
// identified directly by its opcode.
const (
	opcodeRType = 0x00
	opcodeADDI  = 0x08
	opcodeLW    = 0x23
	opcodeSW    = 0x2B
	opcodeBEQ   = 0x04
	opcodeBNE   = 0x05
	opcodeJ     = 0x02
	opcodeHALT  = 0x3F

	functADD = 0x20
	functSUB = 0x22
	functAND = 0x24
	functOR  = 0x25
	functSLT = 0x2A
	functMUL = 0x18
	functSLL = 0x00
	functSRL = 0x02
)

// DecodeWord decodes one raw 32-bit machine word into an Instruction.
func DecodeWord(word uint32) (insts.Instruction, error) {
	opcode := uint8((word >> 26) & 0x3F)

	switch opcode {
	case opcodeRType:
		return decodeRType(word)
	case opcodeADDI:
		rs, rt, imm := splitITypeFields(word)
		return insts.Instruction{Op: insts.OpADDI, Rs: rs, Rt: rt, Imm: imm}, nil
	case opcodeLW:
		rs, rt, imm := splitITypeFields(word)
		return insts.Instruction{Op: insts.OpLW, Rs: rs, Rt: rt, Imm: imm}, nil
	case opcodeSW:
		rs, rt, imm := splitITypeFields(word)
		return insts.Instruction{Op: insts.OpSW, Rs: rs, Rt: rt, Imm: imm}, nil
	case opcodeBEQ:
		rs, rt, imm := splitITypeFields(word)
		return insts.Instruction{Op: insts.OpBEQ, Rs: rs, Rt: rt, Imm: imm}, nil
	case opcodeBNE:
		rs, rt, imm := splitITypeFields(word)
		return insts.Instruction{Op: insts.OpBNE, Rs: rs, Rt: rt, Imm: imm}, nil
	case opcodeJ:
		return insts.Instruction{Op: insts.OpJ, Addr: word & 0x03FFFFFF}, nil
	case opcodeHALT:
		return insts.Instruction{Op: insts.OpHALT}, nil
	default:
		return insts.Instruction{}, &DecodeError{Word: word, Opcode: opcode}
	}
}

func decodeRType(word uint32) (insts.Instruction, error) {
	rs := uint8((word >> 21) & 0x1F)
	rt := uint8((word >> 16) & 0x1F)
	rd := uint8((word >> 11) & 0x1F)
	shamt := uint8((word >> 6) & 0x1F)
	funct := uint8(word & 0x3F)

	switch funct {
	case functADD:
		return insts.Instruction{Op: insts.OpADD, Rd: rd, Rs: rs, Rt: rt}, nil
	case functSUB:
		return insts.Instruction{Op: insts.OpSUB, Rd: rd, Rs: rs, Rt: rt}, nil
	case functAND:
		return insts.Instruction{Op: insts.OpAND, Rd: rd, Rs: rs, Rt: rt}, nil
	case functOR:
		return insts.Instruction{Op: insts.OpOR, Rd: rd, Rs: rs, Rt: rt}, nil
	case functSLT:
		return insts.Instruction{Op: insts.OpSLT, Rd: rd, Rs: rs, Rt: rt}, nil
	case functMUL:
		return insts.Instruction{Op: insts.OpMUL, Rd: rd, Rs: rs, Rt: rt}, nil
	case functSLL:
		return insts.Instruction{Op: insts.OpSLL, Rd: rd, Rt: rt, Shamt: shamt}, nil
	case functSRL:
		return insts.Instruction{Op: insts.OpSRL, Rd: rd, Rt: rt, Shamt: shamt}, nil
	default:
		return insts.Instruction{}, &DecodeError{Word: word, Opcode: opcodeRType}
	}
}

func splitITypeFields(word uint32) (rs, rt uint8, imm int16) {
	rs = uint8((word >> 21) & 0x1F)
	rt = uint8((word >> 16) & 0x1F)
	imm = int16(word & 0xFFFF)
	return
}

// ParseWords reads one 32-bit word per line (as produced by an assembler's
// .bin/.hex dump) and decodes each into an Instruction. Each line is read
// as hexadecimal, with or without a leading "0x"; a line of decimal digits
// is therefore read as hex, and decimal is tried only for a line that is
// not a valid 32-bit hex number. Blank lines and lines starting with '#'
// are skipped.
func ParseWords(src string) ([]insts.Instruction, error) {
	var program []insts.Instruction
	scanner := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, err := strconv.ParseUint(strings.TrimPrefix(line, "0x"), 16, 32)
		if err != nil {
			word, err = strconv.ParseUint(line, 10, 32)
		}
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		inst, err := DecodeWord(uint32(word))
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		program = append(program, inst)
	}
	return program, scanner.Err()
}
