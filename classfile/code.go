package classfile

import (
	"github.com/brome-lang/jvm/op"
)

// Code is an append-only instruction sink for one method body. It tracks
// the operand stack depth and the local variable count so the Code
// attribute's max_stack and max_locals can be written without a separate
// verification pass. The caller reports stack effects through Push and Pop
// as it emits instructions.
type Code struct {
	buf       []byte
	stack     int
	maxStack  int
	maxLocals int
}

// NewCode returns an empty code sink with room reserved for the given
// number of local variable slots. Method entry parameters, including the
// receiver, occupy locals from slot zero.
func NewCode(locals int) *Code {
	return &Code{maxLocals: locals}
}

// Emit appends an instruction with no operands.
func (c *Code) Emit(opcode op.Code) {
	c.buf = append(c.buf, byte(opcode))
}

// EmitU8 appends an instruction with a one-byte operand.
func (c *Code) EmitU8(opcode op.Code, operand uint8) {
	c.buf = append(c.buf, byte(opcode), operand)
}

// EmitU16 appends an instruction with a two-byte operand.
func (c *Code) EmitU16(opcode op.Code, operand uint16) {
	c.buf = append(c.buf, byte(opcode), byte(operand>>8), byte(operand))
}

// EmitInvokeDynamic appends an invokedynamic instruction. The format
// requires two zero bytes after the pool index.
func (c *Code) EmitInvokeDynamic(index uint16) {
	c.buf = append(c.buf, byte(op.Invokedynamic), byte(index>>8), byte(index), 0, 0)
}

// EmitInvokeInterface appends an invokeinterface instruction. Count is the
// number of argument slots including the receiver; the trailing byte is
// always zero.
func (c *Code) EmitInvokeInterface(index uint16, count uint8) {
	c.buf = append(c.buf, byte(op.Invokeinterface), byte(index>>8), byte(index), count, 0)
}

// Push records that the last emitted instruction pushed the given number
// of operand stack slots.
func (c *Code) Push(slots int) {
	c.stack += slots
	if c.stack > c.maxStack {
		c.maxStack = c.stack
	}
}

// Pop records that the last emitted instruction popped the given number of
// operand stack slots.
func (c *Code) Pop(slots int) {
	c.stack -= slots
}

// ReserveLocal grows the local variable area to cover a slot range ending
// at the given slot count.
func (c *Code) ReserveLocal(slots int) {
	if slots > c.maxLocals {
		c.maxLocals = slots
	}
}

// Len returns the number of code bytes emitted so far.
func (c *Code) Len() int {
	return len(c.buf)
}

// StackDepth returns the current operand stack depth in slots.
func (c *Code) StackDepth() int {
	return c.stack
}

// MaxStack returns the high-water operand stack depth in slots.
func (c *Code) MaxStack() int {
	return c.maxStack
}

// MaxLocals returns the size of the local variable area in slots.
func (c *Code) MaxLocals() int {
	return c.maxLocals
}

// Bytes returns a copy of the emitted code.
func (c *Code) Bytes() []byte {
	out := make([]byte, len(c.buf))
	copy(out, c.buf)
	return out
}
