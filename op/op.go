// Package op defines the JVM instruction opcodes emitted by the code
// generator, along with per-opcode metadata used by the disassembler.
package op

// Code is a single-byte JVM opcode.
type Code uint8

const (
	// Constants
	Nop        Code = 0x00
	AconstNull Code = 0x01
	IconstM1   Code = 0x02
	Iconst0    Code = 0x03
	Iconst1    Code = 0x04
	Iconst2    Code = 0x05
	Iconst3    Code = 0x06
	Iconst4    Code = 0x07
	Iconst5    Code = 0x08
	Lconst0    Code = 0x09
	Lconst1    Code = 0x0a
	Fconst0    Code = 0x0b
	Fconst1    Code = 0x0c
	Fconst2    Code = 0x0d
	Dconst0    Code = 0x0e
	Dconst1    Code = 0x0f
	Bipush     Code = 0x10
	Sipush     Code = 0x11
	Ldc        Code = 0x12
	LdcW       Code = 0x13
	Ldc2W      Code = 0x14

	// Loads
	Iload  Code = 0x15
	Lload  Code = 0x16
	Fload  Code = 0x17
	Dload  Code = 0x18
	Aload  Code = 0x19
	Iload0 Code = 0x1a
	Iload1 Code = 0x1b
	Iload2 Code = 0x1c
	Iload3 Code = 0x1d
	Lload0 Code = 0x1e
	Lload1 Code = 0x1f
	Lload2 Code = 0x20
	Lload3 Code = 0x21
	Fload0 Code = 0x22
	Fload1 Code = 0x23
	Fload2 Code = 0x24
	Fload3 Code = 0x25
	Dload0 Code = 0x26
	Dload1 Code = 0x27
	Dload2 Code = 0x28
	Dload3 Code = 0x29
	Aload0 Code = 0x2a
	Aload1 Code = 0x2b
	Aload2 Code = 0x2c
	Aload3 Code = 0x2d

	// Stores
	Istore  Code = 0x36
	Lstore  Code = 0x37
	Fstore  Code = 0x38
	Dstore  Code = 0x39
	Astore  Code = 0x3a
	Istore0 Code = 0x3b
	Istore1 Code = 0x3c
	Istore2 Code = 0x3d
	Istore3 Code = 0x3e
	Lstore0 Code = 0x3f
	Lstore1 Code = 0x40
	Lstore2 Code = 0x41
	Lstore3 Code = 0x42
	Fstore0 Code = 0x43
	Fstore1 Code = 0x44
	Fstore2 Code = 0x45
	Fstore3 Code = 0x46
	Dstore0 Code = 0x47
	Dstore1 Code = 0x48
	Dstore2 Code = 0x49
	Dstore3 Code = 0x4a
	Astore0 Code = 0x4b
	Astore1 Code = 0x4c
	Astore2 Code = 0x4d
	Astore3 Code = 0x4e

	// Stack
	Pop   Code = 0x57
	Pop2  Code = 0x58
	Dup   Code = 0x59
	DupX1 Code = 0x5a
	DupX2 Code = 0x5b
	Dup2  Code = 0x5c
	Swap  Code = 0x5f

	// Arithmetic
	Iadd Code = 0x60
	Ladd Code = 0x61
	Fadd Code = 0x62
	Dadd Code = 0x63
	Isub Code = 0x64
	Lsub Code = 0x65
	Fsub Code = 0x66
	Dsub Code = 0x67
	Imul Code = 0x68
	Lmul Code = 0x69
	Fmul Code = 0x6a
	Dmul Code = 0x6b
	Idiv Code = 0x6c
	Ldiv Code = 0x6d
	Fdiv Code = 0x6e
	Ddiv Code = 0x6f
	Irem Code = 0x70
	Lrem Code = 0x71
	Frem Code = 0x72
	Drem Code = 0x73
	Ineg Code = 0x74
	Lneg Code = 0x75
	Fneg Code = 0x76
	Dneg Code = 0x77

	// Conversions
	I2l Code = 0x85
	I2f Code = 0x86
	I2d Code = 0x87
	L2i Code = 0x88
	L2f Code = 0x89
	L2d Code = 0x8a
	F2i Code = 0x8b
	F2l Code = 0x8c
	F2d Code = 0x8d
	D2i Code = 0x8e
	D2l Code = 0x8f
	D2f Code = 0x90
	I2b Code = 0x91
	I2c Code = 0x92
	I2s Code = 0x93

	// Returns
	Ireturn Code = 0xac
	Lreturn Code = 0xad
	Freturn Code = 0xae
	Dreturn Code = 0xaf
	Areturn Code = 0xb0
	Return  Code = 0xb1

	// Field access
	Getstatic Code = 0xb2
	Putstatic Code = 0xb3
	Getfield  Code = 0xb4
	Putfield  Code = 0xb5

	// Invocation
	Invokevirtual   Code = 0xb6
	Invokespecial   Code = 0xb7
	Invokestatic    Code = 0xb8
	Invokeinterface Code = 0xb9
	Invokedynamic   Code = 0xba

	// Objects and arrays
	New         Code = 0xbb
	Newarray    Code = 0xbc
	Anewarray   Code = 0xbd
	Arraylength Code = 0xbe
	Athrow      Code = 0xbf
	Checkcast   Code = 0xc0
	Instanceof  Code = 0xc1
)

// Info contains information about an opcode. OperandWidth is the number of
// operand bytes that follow the opcode byte in the instruction stream.
type Info struct {
	Code         Code
	Name         string
	OperandWidth int
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op    Code
		name  string
		width int
	}
	ops := []opInfo{
		{Nop, "nop", 0},
		{AconstNull, "aconst_null", 0},
		{IconstM1, "iconst_m1", 0},
		{Iconst0, "iconst_0", 0},
		{Iconst1, "iconst_1", 0},
		{Iconst2, "iconst_2", 0},
		{Iconst3, "iconst_3", 0},
		{Iconst4, "iconst_4", 0},
		{Iconst5, "iconst_5", 0},
		{Lconst0, "lconst_0", 0},
		{Lconst1, "lconst_1", 0},
		{Fconst0, "fconst_0", 0},
		{Fconst1, "fconst_1", 0},
		{Fconst2, "fconst_2", 0},
		{Dconst0, "dconst_0", 0},
		{Dconst1, "dconst_1", 0},
		{Bipush, "bipush", 1},
		{Sipush, "sipush", 2},
		{Ldc, "ldc", 1},
		{LdcW, "ldc_w", 2},
		{Ldc2W, "ldc2_w", 2},
		{Iload, "iload", 1},
		{Lload, "lload", 1},
		{Fload, "fload", 1},
		{Dload, "dload", 1},
		{Aload, "aload", 1},
		{Iload0, "iload_0", 0},
		{Iload1, "iload_1", 0},
		{Iload2, "iload_2", 0},
		{Iload3, "iload_3", 0},
		{Lload0, "lload_0", 0},
		{Lload1, "lload_1", 0},
		{Lload2, "lload_2", 0},
		{Lload3, "lload_3", 0},
		{Fload0, "fload_0", 0},
		{Fload1, "fload_1", 0},
		{Fload2, "fload_2", 0},
		{Fload3, "fload_3", 0},
		{Dload0, "dload_0", 0},
		{Dload1, "dload_1", 0},
		{Dload2, "dload_2", 0},
		{Dload3, "dload_3", 0},
		{Aload0, "aload_0", 0},
		{Aload1, "aload_1", 0},
		{Aload2, "aload_2", 0},
		{Aload3, "aload_3", 0},
		{Istore, "istore", 1},
		{Lstore, "lstore", 1},
		{Fstore, "fstore", 1},
		{Dstore, "dstore", 1},
		{Astore, "astore", 1},
		{Istore0, "istore_0", 0},
		{Istore1, "istore_1", 0},
		{Istore2, "istore_2", 0},
		{Istore3, "istore_3", 0},
		{Lstore0, "lstore_0", 0},
		{Lstore1, "lstore_1", 0},
		{Lstore2, "lstore_2", 0},
		{Lstore3, "lstore_3", 0},
		{Fstore0, "fstore_0", 0},
		{Fstore1, "fstore_1", 0},
		{Fstore2, "fstore_2", 0},
		{Fstore3, "fstore_3", 0},
		{Dstore0, "dstore_0", 0},
		{Dstore1, "dstore_1", 0},
		{Dstore2, "dstore_2", 0},
		{Dstore3, "dstore_3", 0},
		{Astore0, "astore_0", 0},
		{Astore1, "astore_1", 0},
		{Astore2, "astore_2", 0},
		{Astore3, "astore_3", 0},
		{Pop, "pop", 0},
		{Pop2, "pop2", 0},
		{Dup, "dup", 0},
		{DupX1, "dup_x1", 0},
		{DupX2, "dup_x2", 0},
		{Dup2, "dup2", 0},
		{Swap, "swap", 0},
		{Iadd, "iadd", 0},
		{Ladd, "ladd", 0},
		{Fadd, "fadd", 0},
		{Dadd, "dadd", 0},
		{Isub, "isub", 0},
		{Lsub, "lsub", 0},
		{Fsub, "fsub", 0},
		{Dsub, "dsub", 0},
		{Imul, "imul", 0},
		{Lmul, "lmul", 0},
		{Fmul, "fmul", 0},
		{Dmul, "dmul", 0},
		{Idiv, "idiv", 0},
		{Ldiv, "ldiv", 0},
		{Fdiv, "fdiv", 0},
		{Ddiv, "ddiv", 0},
		{Irem, "irem", 0},
		{Lrem, "lrem", 0},
		{Frem, "frem", 0},
		{Drem, "drem", 0},
		{Ineg, "ineg", 0},
		{Lneg, "lneg", 0},
		{Fneg, "fneg", 0},
		{Dneg, "dneg", 0},
		{I2l, "i2l", 0},
		{I2f, "i2f", 0},
		{I2d, "i2d", 0},
		{L2i, "l2i", 0},
		{L2f, "l2f", 0},
		{L2d, "l2d", 0},
		{F2i, "f2i", 0},
		{F2l, "f2l", 0},
		{F2d, "f2d", 0},
		{D2i, "d2i", 0},
		{D2l, "d2l", 0},
		{D2f, "d2f", 0},
		{I2b, "i2b", 0},
		{I2c, "i2c", 0},
		{I2s, "i2s", 0},
		{Ireturn, "ireturn", 0},
		{Lreturn, "lreturn", 0},
		{Freturn, "freturn", 0},
		{Dreturn, "dreturn", 0},
		{Areturn, "areturn", 0},
		{Return, "return", 0},
		{Getstatic, "getstatic", 2},
		{Putstatic, "putstatic", 2},
		{Getfield, "getfield", 2},
		{Putfield, "putfield", 2},
		{Invokevirtual, "invokevirtual", 2},
		{Invokespecial, "invokespecial", 2},
		{Invokestatic, "invokestatic", 2},
		{Invokeinterface, "invokeinterface", 4},
		{Invokedynamic, "invokedynamic", 4},
		{New, "new", 2},
		{Newarray, "newarray", 1},
		{Anewarray, "anewarray", 2},
		{Arraylength, "arraylength", 0},
		{Athrow, "athrow", 0},
		{Checkcast, "checkcast", 2},
		{Instanceof, "instanceof", 2},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandWidth: o.width,
		}
	}
}

// GetInfo returns information about the given opcode. The Name field is
// empty for byte values that do not correspond to a defined opcode.
func GetInfo(op Code) Info {
	return infos[op]
}
