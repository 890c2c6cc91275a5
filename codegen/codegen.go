// Package codegen lowers typed IR into JVM method bodies.
//
// # Lowering Model
//
// A Generator compiles one function body at a time into a classfile.Code.
// Expressions are evaluated left to right and leave their values on the
// operand stack; exprAs coerces the value on top of the stack when the
// expression's type and the required type differ. Constants and symbolic
// references are written through a Resolver, which the class file under
// construction implements, so the resolver and builder logic can be tested
// without assembling a whole class.
//
// # Dynamic Call Sites
//
// Calls to the invokedynamic intrinsic take a dedicated path: the raw call
// is validated into an ir.DynamicCall up front, the bootstrap arguments
// are resolved to constants, the call arguments are pushed in parameter
// order, and a single invokedynamic instruction is emitted. Any shape the
// front end never produces is an InternalError and emits nothing.
package codegen

import (
	"errors"
	"math"

	"github.com/rs/zerolog"

	"github.com/brome-lang/jvm/classfile"
	"github.com/brome-lang/jvm/constant"
	"github.com/brome-lang/jvm/ir"
	"github.com/brome-lang/jvm/op"
	"github.com/brome-lang/jvm/sig"
)

// Resolver is the constant pool surface the generator writes through. A
// *classfile.ClassFile satisfies it.
type Resolver interface {
	// Constant interns a resolved constant and returns its pool index.
	Constant(v constant.Value) (uint16, error)

	// Class interns a class reference for the given internal name.
	Class(name string) (uint16, error)

	// Fieldref interns a field reference.
	Fieldref(owner, name, desc string) (uint16, error)

	// Methodref interns a method or interface method reference.
	Methodref(owner, name, desc string, ownerIsInterface bool) (uint16, error)

	// BootstrapMethodEntry registers a bootstrap method with its resolved
	// arguments and returns its index in the bootstrap method table.
	BootstrapMethodEntry(handle constant.Handle, args []constant.Value) (uint16, error)

	// InvokeDynamic interns an invokedynamic constant tying a bootstrap
	// table entry to a call site name and descriptor.
	InvokeDynamic(bootstrap uint16, name, desc string) (uint16, error)
}

var _ Resolver = (*classfile.ClassFile)(nil)

// Generator lowers function bodies for one class.
type Generator struct {
	res    Resolver
	logger zerolog.Logger

	// Generation state for the function currently being lowered.
	fn   *ir.Function
	code *classfile.Code
}

// Config holds code generator settings.
type Config struct {
	// Resolver receives the constant pool and bootstrap table writes for
	// the class under generation. Required.
	Resolver Resolver

	// Logger traces lowering at debug level. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// New creates and returns a new Generator.
func New(cfg *Config) (*Generator, error) {
	if cfg == nil || cfg.Resolver == nil {
		return nil, errors.New("codegen: a resolver is required")
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Generator{res: cfg.Resolver, logger: logger}, nil
}

// GenerateBody compiles fn's body into a method body writer ready to be
// attached to the class file. A void function whose body does not end with
// an explicit return gets one appended; for any other return type a
// missing final return is an error.
func (g *Generator) GenerateBody(fn *ir.Function) (*classfile.Code, error) {
	g.fn = fn
	g.code = classfile.NewCode(frameSlots(fn))
	defer func() {
		g.fn = nil
		g.code = nil
	}()

	g.logger.Debug().
		Str("function", functionLabel(fn)).
		Str("descriptor", fn.Descriptor()).
		Int("statements", len(fn.Body)).
		Msg("generating method body")

	returned := false
	for _, node := range fn.Body {
		if err := g.stmt(node); err != nil {
			return nil, err
		}
		_, returned = node.(*ir.Return)
	}
	if !returned {
		if !fn.Return.IsVoid() {
			return nil, g.internal(nil, "function body does not end with a return")
		}
		g.code.Emit(op.Return)
	}
	return g.code, nil
}

// DefaultInit generates a default constructor body: invoke the superclass
// constructor on this, then return.
func (g *Generator) DefaultInit(superName string) (*classfile.Code, error) {
	ref, err := g.res.Methodref(superName, "<init>", "()V", false)
	if err != nil {
		return nil, err
	}
	code := classfile.NewCode(1)
	code.Emit(op.Aload0)
	code.Push(1)
	code.EmitU16(op.Invokespecial, ref)
	code.Pop(1)
	code.Emit(op.Return)
	return code, nil
}

func (g *Generator) stmt(node ir.Node) error {
	if ret, ok := node.(*ir.Return); ok {
		return g.ret(ret)
	}
	t, err := g.expr(node)
	if err != nil {
		return err
	}
	// discard the unused value of an expression statement
	switch t.Slots() {
	case 1:
		g.code.Emit(op.Pop)
		g.code.Pop(1)
	case 2:
		g.code.Emit(op.Pop2)
		g.code.Pop(2)
	}
	return nil
}

// expr evaluates an expression node, emitting instructions that leave its
// value on the operand stack, and returns the type of that value.
func (g *Generator) expr(node ir.Node) (sig.Type, error) {
	switch n := node.(type) {
	case *ir.IntConst:
		if err := g.pushInt(n, n.Value); err != nil {
			return sig.Type{}, err
		}
		return n.Of, nil
	case *ir.BoolConst:
		v := int32(0)
		if n.Value {
			v = 1
		}
		if err := g.pushInt(n, v); err != nil {
			return sig.Type{}, err
		}
		return sig.Boolean, nil
	case *ir.CharConst:
		if err := g.pushInt(n, int32(n.Value)); err != nil {
			return sig.Type{}, err
		}
		return sig.Char, nil
	case *ir.LongConst:
		if err := g.pushLong(n, n.Value); err != nil {
			return sig.Type{}, err
		}
		return sig.Long, nil
	case *ir.FloatConst:
		if err := g.pushFloat(n, n.Value); err != nil {
			return sig.Type{}, err
		}
		return sig.Float, nil
	case *ir.DoubleConst:
		if err := g.pushDouble(n, n.Value); err != nil {
			return sig.Type{}, err
		}
		return sig.Double, nil
	case *ir.StringConst:
		if err := g.ldc(n, constant.String(n.Value)); err != nil {
			return sig.Type{}, err
		}
		return n.Type(), nil
	case *ir.NullConst:
		g.code.Emit(op.AconstNull)
		g.code.Push(1)
		return n.Of, nil
	case *ir.Local:
		return g.local(n)
	case *ir.Binary:
		return g.binary(n)
	case *ir.Call:
		return g.call(n)
	case *ir.FuncRef:
		if err := g.ldc(n, methodHandle(n.Target)); err != nil {
			return sig.Type{}, err
		}
		return n.Type(), nil
	case *ir.MethodTypeOf:
		if err := g.ldc(n, methodTypeOf(n.Target)); err != nil {
			return sig.Type{}, err
		}
		return n.Type(), nil
	case *ir.GetStaticField:
		return g.getStatic(n)
	}
	return sig.Type{}, g.internal(node, "cannot generate code for %T", node)
}

// exprAs evaluates node and coerces its value to want.
func (g *Generator) exprAs(node ir.Node, want sig.Type) error {
	got, err := g.expr(node)
	if err != nil {
		return err
	}
	return g.coerce(node, got, want)
}

// call lowers a function invocation. Calls to the invokedynamic intrinsic
// take the dedicated path. The method type intrinsic is only meaningful as
// a bootstrap argument, so meeting one here is a front end bug.
func (g *Generator) call(n *ir.Call) (sig.Type, error) {
	callee := n.Callee
	if callee == nil {
		return sig.Type{}, g.internal(n, "call without a callee")
	}
	switch callee.Intrinsic {
	case ir.IntrinsicInvokeDynamic:
		return g.lowerInvokeDynamic(n)
	case ir.IntrinsicMethodType:
		return sig.Type{}, g.internal(n, "method type intrinsic used outside a bootstrap argument")
	}
	if len(n.Args) != len(callee.Params) {
		return sig.Type{}, g.internal(n, "call to %s takes %d arguments, got %d",
			functionLabel(callee), len(callee.Params), len(n.Args))
	}

	receiverSlots := 0
	if callee.Static {
		if n.Receiver != nil {
			return sig.Type{}, g.internal(n, "static call to %s has a receiver", functionLabel(callee))
		}
	} else {
		if n.Receiver == nil {
			return sig.Type{}, g.internal(n, "call to %s is missing a receiver", functionLabel(callee))
		}
		if _, err := g.expr(n.Receiver); err != nil {
			return sig.Type{}, err
		}
		receiverSlots = 1
	}
	for i, arg := range n.Args {
		if err := g.exprAs(arg, callee.Params[i]); err != nil {
			return sig.Type{}, err
		}
	}

	ref, err := g.res.Methodref(callee.Owner, callee.JVMName(), callee.Descriptor(), callee.InInterface)
	if err != nil {
		return sig.Type{}, err
	}
	m := callee.Signature()
	switch {
	case callee.Static:
		g.code.EmitU16(op.Invokestatic, ref)
	case callee.InInterface:
		g.code.EmitInvokeInterface(ref, uint8(1+m.ArgSlots()))
	default:
		g.code.EmitU16(op.Invokevirtual, ref)
	}
	g.code.Pop(receiverSlots + m.ArgSlots())
	g.code.Push(callee.Return.Slots())
	return callee.Return, nil
}

func (g *Generator) getStatic(n *ir.GetStaticField) (sig.Type, error) {
	ref, err := g.res.Fieldref(n.Owner, n.Name, n.Of.Descriptor())
	if err != nil {
		return sig.Type{}, err
	}
	g.code.EmitU16(op.Getstatic, ref)
	g.code.Push(n.Of.Slots())
	return n.Of, nil
}

func (g *Generator) local(n *ir.Local) (sig.Type, error) {
	var base, quick op.Code
	switch {
	case intFamily(n.Of):
		base, quick = op.Iload, op.Iload0
	case n.Of.Kind == sig.LongKind:
		base, quick = op.Lload, op.Lload0
	case n.Of.Kind == sig.FloatKind:
		base, quick = op.Fload, op.Fload0
	case n.Of.Kind == sig.DoubleKind:
		base, quick = op.Dload, op.Dload0
	case n.Of.IsReference():
		base, quick = op.Aload, op.Aload0
	default:
		return sig.Type{}, g.internal(n, "cannot load a local of type %s", n.Of)
	}
	if n.Slot < 0 || n.Slot > 0xff {
		return sig.Type{}, g.internal(n, "local slot %d out of range", n.Slot)
	}
	if n.Slot <= 3 {
		g.code.Emit(quick + op.Code(n.Slot))
	} else {
		g.code.EmitU8(base, uint8(n.Slot))
	}
	g.code.ReserveLocal(n.Slot + n.Of.Slots())
	g.code.Push(n.Of.Slots())
	return n.Of, nil
}

func (g *Generator) binary(n *ir.Binary) (sig.Type, error) {
	t := n.Left.Type()
	opcode, ok := arithmeticOp(n.Op, t)
	if !ok {
		return sig.Type{}, g.internal(n, "no %s instruction for operands of type %s", n.Op, t)
	}
	if err := g.exprAs(n.Left, t); err != nil {
		return sig.Type{}, err
	}
	if err := g.exprAs(n.Right, t); err != nil {
		return sig.Type{}, err
	}
	g.code.Emit(opcode)
	g.code.Pop(t.Slots())
	return t, nil
}

func (g *Generator) ret(n *ir.Return) error {
	want := g.fn.Return
	if n.Value == nil {
		if !want.IsVoid() {
			return g.internal(n, "return without a value in a function returning %s", want)
		}
		g.code.Emit(op.Return)
		return nil
	}
	if want.IsVoid() {
		return g.internal(n, "return with a value in a void function")
	}
	if err := g.exprAs(n.Value, want); err != nil {
		return err
	}
	var opcode op.Code
	switch {
	case intFamily(want):
		opcode = op.Ireturn
	case want.Kind == sig.LongKind:
		opcode = op.Lreturn
	case want.Kind == sig.FloatKind:
		opcode = op.Freturn
	case want.Kind == sig.DoubleKind:
		opcode = op.Dreturn
	case want.IsReference():
		opcode = op.Areturn
	default:
		return g.internal(n, "cannot return a value of type %s", want)
	}
	g.code.Emit(opcode)
	g.code.Pop(want.Slots())
	return nil
}

// pushInt loads an int family constant using the shortest encoding.
func (g *Generator) pushInt(node ir.Node, v int32) error {
	switch {
	case v >= -1 && v <= 5:
		g.code.Emit(op.Code(int(op.Iconst0) + int(v)))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		g.code.EmitU8(op.Bipush, uint8(int8(v)))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		g.code.EmitU16(op.Sipush, uint16(int16(v)))
	default:
		return g.ldc(node, constant.Int32(v))
	}
	g.code.Push(1)
	return nil
}

func (g *Generator) pushLong(node ir.Node, v int64) error {
	switch v {
	case 0:
		g.code.Emit(op.Lconst0)
	case 1:
		g.code.Emit(op.Lconst1)
	default:
		return g.ldc(node, constant.Int64(v))
	}
	g.code.Push(2)
	return nil
}

func (g *Generator) pushFloat(node ir.Node, v float32) error {
	switch {
	case math.Float32bits(v) == 0:
		g.code.Emit(op.Fconst0)
	case v == 1:
		g.code.Emit(op.Fconst1)
	case v == 2:
		g.code.Emit(op.Fconst2)
	default:
		return g.ldc(node, constant.Float32(v))
	}
	g.code.Push(1)
	return nil
}

func (g *Generator) pushDouble(node ir.Node, v float64) error {
	switch {
	case math.Float64bits(v) == 0:
		g.code.Emit(op.Dconst0)
	case v == 1:
		g.code.Emit(op.Dconst1)
	default:
		return g.ldc(node, constant.Float64(v))
	}
	g.code.Push(2)
	return nil
}

// ldc loads a pool constant, choosing ldc2_w for the two slot kinds and
// the narrow ldc form whenever the index fits in a byte.
func (g *Generator) ldc(node ir.Node, v constant.Value) error {
	index, err := g.res.Constant(v)
	if err != nil {
		return err
	}
	switch v.(type) {
	case constant.Int64, constant.Float64:
		g.code.EmitU16(op.Ldc2W, index)
		g.code.Push(2)
	default:
		if index <= 0xff {
			g.code.EmitU8(op.Ldc, uint8(index))
		} else {
			g.code.EmitU16(op.LdcW, index)
		}
		g.code.Push(1)
	}
	return nil
}

// coerce adjusts the value on top of the operand stack from one type to
// another: a no-op within the int family, a conversion instruction for
// primitive widening, boxing through valueOf, and checkcast between
// reference types. Anything else is a shape the front end never produces.
func (g *Generator) coerce(node ir.Node, from, to sig.Type) error {
	if from.Equal(to) {
		return nil
	}
	if intFamily(from) && intFamily(to) {
		return nil
	}
	var opcode op.Code
	switch {
	case intFamily(from) && to.Kind == sig.LongKind:
		opcode = op.I2l
	case intFamily(from) && to.Kind == sig.FloatKind:
		opcode = op.I2f
	case intFamily(from) && to.Kind == sig.DoubleKind:
		opcode = op.I2d
	case from.Kind == sig.LongKind && to.Kind == sig.FloatKind:
		opcode = op.L2f
	case from.Kind == sig.LongKind && to.Kind == sig.DoubleKind:
		opcode = op.L2d
	case from.Kind == sig.FloatKind && to.Kind == sig.DoubleKind:
		opcode = op.F2d
	default:
		return g.coerceReference(node, from, to)
	}
	g.code.Emit(opcode)
	g.code.Pop(from.Slots())
	g.code.Push(to.Slots())
	return nil
}

func (g *Generator) coerceReference(node ir.Node, from, to sig.Type) error {
	if !from.IsReference() && to.IsReference() {
		box, ok := boxes[from.Kind]
		if !ok {
			return g.internal(node, "cannot box a value of type %s", from)
		}
		if to.Name != box.owner && !isJavaLangObject(to) {
			return g.internal(node, "cannot coerce %s to %s", from, to)
		}
		ref, err := g.res.Methodref(box.owner, "valueOf", box.desc, false)
		if err != nil {
			return err
		}
		g.code.EmitU16(op.Invokestatic, ref)
		g.code.Pop(from.Slots())
		g.code.Push(1)
		return nil
	}
	if from.IsReference() && to.IsReference() {
		if isJavaLangObject(to) {
			return nil
		}
		index, err := g.res.Class(to.Internal())
		if err != nil {
			return err
		}
		g.code.EmitU16(op.Checkcast, index)
		return nil
	}
	return g.internal(node, "cannot coerce %s to %s", from, to)
}

// boxes maps each primitive kind to its wrapper class and the descriptor
// of the wrapper's valueOf method.
var boxes = map[sig.Kind]struct {
	owner string
	desc  string
}{
	sig.BooleanKind: {"java/lang/Boolean", "(Z)Ljava/lang/Boolean;"},
	sig.ByteKind:    {"java/lang/Byte", "(B)Ljava/lang/Byte;"},
	sig.CharKind:    {"java/lang/Character", "(C)Ljava/lang/Character;"},
	sig.ShortKind:   {"java/lang/Short", "(S)Ljava/lang/Short;"},
	sig.IntKind:     {"java/lang/Integer", "(I)Ljava/lang/Integer;"},
	sig.LongKind:    {"java/lang/Long", "(J)Ljava/lang/Long;"},
	sig.FloatKind:   {"java/lang/Float", "(F)Ljava/lang/Float;"},
	sig.DoubleKind:  {"java/lang/Double", "(D)Ljava/lang/Double;"},
}

// intFamily reports whether a type occupies an int slot on the operand
// stack. The verifier does not distinguish these, so coercions within the
// family are no-ops.
func intFamily(t sig.Type) bool {
	switch t.Kind {
	case sig.BooleanKind, sig.ByteKind, sig.ShortKind, sig.CharKind, sig.IntKind:
		return true
	}
	return false
}

func isJavaLangObject(t sig.Type) bool {
	return t.Kind == sig.ObjectKind && t.Name == "java/lang/Object"
}

// arithmeticOp selects the instruction for an operator applied to operands
// of type t. The int column covers the whole int family, which shares
// opcodes. The long, float, and double forms sit at fixed offsets from the
// int form.
func arithmeticOp(o ir.BinOp, t sig.Type) (op.Code, bool) {
	var base op.Code
	switch o {
	case ir.Add:
		base = op.Iadd
	case ir.Sub:
		base = op.Isub
	case ir.Mul:
		base = op.Imul
	case ir.Div:
		base = op.Idiv
	case ir.Rem:
		base = op.Irem
	default:
		return 0, false
	}
	switch {
	case intFamily(t):
		return base, true
	case t.Kind == sig.LongKind:
		return base + 1, true
	case t.Kind == sig.FloatKind:
		return base + 2, true
	case t.Kind == sig.DoubleKind:
		return base + 3, true
	}
	return 0, false
}

// frameSlots returns the number of local slots the parameters occupy at
// method entry, including the receiver slot of a non-static function.
func frameSlots(fn *ir.Function) int {
	n := 0
	if !fn.Static {
		n = 1
	}
	return n + fn.Signature().ArgSlots()
}

// functionLabel names a function for diagnostics.
func functionLabel(f *ir.Function) string {
	if f == nil {
		return ""
	}
	if f.Owner == "" {
		return f.Name
	}
	return f.Owner + "." + f.Name
}

// internal builds an InternalError in the context of the function being
// generated.
func (g *Generator) internal(node ir.Node, format string, args ...any) error {
	err := internalf(node, format, args...)
	err.Function = functionLabel(g.fn)
	return err
}

// inFunction stamps the current function onto an internal error raised
// without that context.
func (g *Generator) inFunction(err error) error {
	var ie *InternalError
	if errors.As(err, &ie) && ie.Function == "" {
		ie.Function = functionLabel(g.fn)
	}
	return err
}
