package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brome-lang/jvm/sig"
)

// IntConst is an integer constant of type int, short, or byte. The value is
// stored at 32 bits regardless of the declared type.
type IntConst struct {
	Value int32
	Of    sig.Type // sig.Int, sig.Short, or sig.Byte
}

func (x *IntConst) irNode() {}

func (x *IntConst) Type() sig.Type { return x.Of }
func (x *IntConst) String() string { return strconv.FormatInt(int64(x.Value), 10) }

// LongConst is a 64-bit integer constant.
type LongConst struct {
	Value int64
}

func (x *LongConst) irNode() {}

func (x *LongConst) Type() sig.Type { return sig.Long }
func (x *LongConst) String() string { return strconv.FormatInt(x.Value, 10) + "l" }

// FloatConst is a 32-bit floating point constant.
type FloatConst struct {
	Value float32
}

func (x *FloatConst) irNode() {}

func (x *FloatConst) Type() sig.Type { return sig.Float }
func (x *FloatConst) String() string {
	return strconv.FormatFloat(float64(x.Value), 'g', -1, 32) + "f"
}

// DoubleConst is a 64-bit floating point constant.
type DoubleConst struct {
	Value float64
}

func (x *DoubleConst) irNode() {}

func (x *DoubleConst) Type() sig.Type { return sig.Double }
func (x *DoubleConst) String() string {
	return strconv.FormatFloat(x.Value, 'g', -1, 64)
}

// StringConst is a string constant.
type StringConst struct {
	Value string
}

func (x *StringConst) irNode() {}

func (x *StringConst) Type() sig.Type { return sig.Object("java/lang/String") }
func (x *StringConst) String() string { return strconv.Quote(x.Value) }

// BoolConst is a boolean constant.
type BoolConst struct {
	Value bool
}

func (x *BoolConst) irNode() {}

func (x *BoolConst) Type() sig.Type { return sig.Boolean }
func (x *BoolConst) String() string { return strconv.FormatBool(x.Value) }

// CharConst is a character constant.
type CharConst struct {
	Value rune
}

func (x *CharConst) irNode() {}

func (x *CharConst) Type() sig.Type { return sig.Char }
func (x *CharConst) String() string { return strconv.QuoteRune(x.Value) }

// NullConst is a null constant of the given reference type.
type NullConst struct {
	Of sig.Type
}

func (x *NullConst) irNode() {}

func (x *NullConst) Type() sig.Type { return x.Of }
func (x *NullConst) String() string { return "null" }

// Local reads a local variable slot. Slot numbering follows the JVM frame
// layout, so long and double locals occupy two slots.
type Local struct {
	Slot int
	Of   sig.Type
}

func (x *Local) irNode() {}

func (x *Local) Type() sig.Type { return x.Of }
func (x *Local) String() string { return fmt.Sprintf("local%d", x.Slot) }

// BinOp is a binary arithmetic operator.
type BinOp uint8

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Rem
)

// String returns the operator symbol, e.g. "+" for Add.
func (op BinOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Rem:
		return "%"
	default:
		return "?"
	}
}

// Binary applies an arithmetic operator to two operands of the same
// numeric type.
type Binary struct {
	Op    BinOp
	Left  Node
	Right Node
}

func (x *Binary) irNode() {}

func (x *Binary) Type() sig.Type { return x.Left.Type() }
func (x *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", x.Left, x.Op, x.Right)
}

// funcLabel renders a function as "owner.name", dropping the owner when
// the function has none.
func funcLabel(f *Function) string {
	if f.Owner == "" {
		return f.JVMName()
	}
	return f.Owner + "." + f.JVMName()
}

// Call invokes a function. Receiver is nil for static targets. Arguments
// appear in the callee's parameter order.
type Call struct {
	Callee   *Function
	Receiver Node
	Args     []Node
}

func (x *Call) irNode() {}

func (x *Call) Type() sig.Type { return x.Callee.Return }

func (x *Call) String() string {
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, a.String())
	}
	target := funcLabel(x.Callee)
	if x.Receiver != nil {
		target = x.Receiver.String() + "." + x.Callee.Name
	}
	return target + "(" + strings.Join(args, ", ") + ")"
}

// FuncRef is a raw reference to a function, resolved at lowering time into
// a method handle constant.
type FuncRef struct {
	Target *Function
}

func (x *FuncRef) irNode() {}

func (x *FuncRef) Type() sig.Type { return sig.Object("java/lang/invoke/MethodHandle") }
func (x *FuncRef) String() string { return "::" + funcLabel(x.Target) }

// MethodTypeOf resolves to a method type constant for the target's erased
// descriptor.
type MethodTypeOf struct {
	Target *Function
}

func (x *MethodTypeOf) irNode() {}

func (x *MethodTypeOf) Type() sig.Type { return sig.Object("java/lang/invoke/MethodType") }
func (x *MethodTypeOf) String() string { return "methodtype(" + funcLabel(x.Target) + ")" }

// GetStaticField reads a static field declared elsewhere, such as
// java/lang/System.out.
type GetStaticField struct {
	Owner string // internal name of the declaring class
	Name  string
	Of    sig.Type
}

func (x *GetStaticField) irNode() {}

func (x *GetStaticField) Type() sig.Type { return x.Of }
func (x *GetStaticField) String() string { return x.Owner + "." + x.Name }

// Return ends the enclosing function, yielding Value. Value is nil for a
// void return.
type Return struct {
	Value Node
}

func (x *Return) irNode() {}

func (x *Return) Type() sig.Type { return sig.Void }

func (x *Return) String() string {
	if x.Value == nil {
		return "return"
	}
	return "return " + x.Value.String()
}
