// Package dis supports analysis of emitted JVM bytecode by disassembling
// it. This works with the opcodes defined in the `op` package and annotates
// operands that reference the constant pool of the `classfile` package.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/brome-lang/jvm/classfile"
	"github.com/brome-lang/jvm/op"
)

// Instruction represents a single bytecode instruction and its operands.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Operands   []byte
	Annotation string
}

// Disassemble returns a parsed representation of the given method body.
// Operands that index the constant pool are annotated with the rendered
// pool entry; pool may be nil, in which case annotations are omitted.
func Disassemble(code *classfile.Code, pool *classfile.Pool) ([]Instruction, error) {
	buf := code.Bytes()
	var instructions []Instruction
	var offset int
	for offset < len(buf) {
		opcode := op.Code(buf[offset])
		info := op.GetInfo(opcode)
		if info.Name == "" {
			return nil, fmt.Errorf("unknown opcode 0x%02x at offset %d", buf[offset], offset)
		}
		if offset+1+info.OperandWidth > len(buf) {
			return nil, fmt.Errorf("truncated %s instruction at offset %d", info.Name, offset)
		}
		var operands []byte
		if info.OperandWidth > 0 {
			operands = buf[offset+1 : offset+1+info.OperandWidth]
		}
		var annotation string
		if pool != nil {
			annotation = annotate(pool, opcode, operands)
		}
		instructions = append(instructions, Instruction{
			Offset:     offset,
			Name:       info.Name,
			Opcode:     opcode,
			Operands:   operands,
			Annotation: annotation,
		})
		offset += 1 + info.OperandWidth
	}
	return instructions, nil
}

// annotate renders the pool entry referenced by an instruction's operands.
func annotate(pool *classfile.Pool, opcode op.Code, operands []byte) string {
	switch opcode {
	case op.Ldc:
		return pool.Describe(uint16(operands[0]))
	case op.LdcW, op.Ldc2W,
		op.Getstatic, op.Putstatic, op.Getfield, op.Putfield,
		op.Invokevirtual, op.Invokespecial, op.Invokestatic,
		op.Invokeinterface, op.Invokedynamic,
		op.New, op.Anewarray, op.Checkcast, op.Instanceof:
		return pool.Describe(index16(operands))
	}
	return ""
}

var infoColor = color.New(color.FgCyan)

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) {
	tw := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tOPCODE\tOPERANDS\tINFO")
	for _, instr := range instructions {
		info := ""
		if instr.Annotation != "" {
			info = infoColor.Sprint(instr.Annotation)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			instr.Offset, instr.Name, formatOperands(instr), info)
	}
	tw.Flush()
}

// formatOperands decodes an instruction's inline operand bytes the way a
// reader expects to see them: pool indexes as #n, immediates as signed
// values, anything else as raw bytes.
func formatOperands(instr Instruction) string {
	switch instr.Opcode {
	case op.Ldc:
		return fmt.Sprintf("#%d", instr.Operands[0])
	case op.LdcW, op.Ldc2W,
		op.Getstatic, op.Putstatic, op.Getfield, op.Putfield,
		op.Invokevirtual, op.Invokespecial, op.Invokestatic,
		op.Invokedynamic,
		op.New, op.Anewarray, op.Checkcast, op.Instanceof:
		return fmt.Sprintf("#%d", index16(instr.Operands))
	case op.Invokeinterface:
		return fmt.Sprintf("#%d, %d", index16(instr.Operands), instr.Operands[2])
	case op.Bipush:
		return strconv.Itoa(int(int8(instr.Operands[0])))
	case op.Sipush:
		return strconv.Itoa(int(int16(index16(instr.Operands))))
	}
	parts := make([]string, len(instr.Operands))
	for i, b := range instr.Operands {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ", ")
}

func index16(operands []byte) uint16 {
	return uint16(operands[0])<<8 | uint16(operands[1])
}
