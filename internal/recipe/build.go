package recipe

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"

	"github.com/brome-lang/jvm/ir"
	"github.com/brome-lang/jvm/sig"
)

// builder turns a decoded recipe into IR, accumulating every validation
// problem instead of stopping at the first.
type builder struct {
	errs *multierror.Error
}

func (b *builder) errorf(path, format string, args ...any) {
	b.errs = multierror.Append(b.errs, fmt.Errorf("%s: %s", path, fmt.Sprintf(format, args...)))
}

func (b *builder) class(rec *Recipe) *ir.Class {
	if rec.Class == "" {
		b.errorf("class", "a class name is required")
	}
	class := &ir.Class{
		Name:       rec.Class,
		Super:      rec.Super,
		Interface:  rec.Interface,
		SourceFile: rec.SourceFile,
	}
	for i := range rec.Functions {
		path := fmt.Sprintf("functions[%d]", i)
		class.Functions = append(class.Functions, b.function(path, &rec.Functions[i], rec))
	}
	return class
}

func (b *builder) function(path string, fn *Function, rec *Recipe) *ir.Function {
	if fn.Name == "" {
		b.errorf(path, "a function name is required")
	}
	m := b.method(path+".descriptor", fn.Descriptor)
	out := &ir.Function{
		Name:        fn.Name,
		LinkName:    fn.LinkName,
		Owner:       rec.Class,
		Static:      fn.Static,
		InInterface: rec.Interface,
		Params:      m.Params,
		Return:      m.Return,
	}
	for i := range fn.Body {
		out.Body = append(out.Body, b.node(fmt.Sprintf("%s.body[%d]", path, i), &fn.Body[i]))
	}
	return out
}

// kinds lists the node kind fields set on n, in declaration order, for the
// exactly-one check and its error message.
func kinds(n *Node) []string {
	var set []string
	add := func(name string, ok bool) {
		if ok {
			set = append(set, name)
		}
	}
	add("int", n.Int != nil)
	add("long", n.Long != nil)
	add("float", n.Float != nil)
	add("double", n.Double != nil)
	add("string", n.String != nil)
	add("bool", n.Bool != nil)
	add("char", n.Char != nil)
	add("null_of", n.NullOf != nil)
	add("local", n.Local != nil)
	add("binary", n.Binary != nil)
	add("call", n.Call != nil)
	add("dynamic_call", n.DynamicCall != nil)
	add("get_static", n.GetStatic != nil)
	add("handle", n.Handle != nil)
	add("method_type", n.MethodType != nil)
	add("return", n.Return != nil)
	return set
}

func (b *builder) node(path string, n *Node) ir.Node {
	set := kinds(n)
	if len(set) == 0 {
		b.errorf(path, "a node must set one of int, long, float, double, string, "+
			"bool, char, null_of, local, binary, call, dynamic_call, get_static, "+
			"handle, method_type, return")
		return nil
	}
	if len(set) > 1 {
		b.errorf(path, "a node sets both %s and %s", set[0], set[1])
		return nil
	}
	if n.Type != "" && n.Int == nil && n.Local == nil {
		b.errorf(path, "type qualifies only int and local nodes")
	}
	switch {
	case n.Int != nil:
		t := sig.Int
		if n.Type != "" {
			t = b.fieldType(path+".type", n.Type)
			switch t.Kind {
			case sig.IntKind, sig.ByteKind, sig.ShortKind:
			default:
				b.errorf(path, "int nodes take type I, B, or S, not %q", n.Type)
			}
		}
		return &ir.IntConst{Value: *n.Int, Of: t}
	case n.Long != nil:
		return &ir.LongConst{Value: *n.Long}
	case n.Float != nil:
		return &ir.FloatConst{Value: *n.Float}
	case n.Double != nil:
		return &ir.DoubleConst{Value: *n.Double}
	case n.String != nil:
		return &ir.StringConst{Value: *n.String}
	case n.Bool != nil:
		return &ir.BoolConst{Value: *n.Bool}
	case n.Char != nil:
		if utf8.RuneCountInString(*n.Char) != 1 {
			b.errorf(path, "char nodes take exactly one character, got %q", *n.Char)
			return nil
		}
		r, _ := utf8.DecodeRuneInString(*n.Char)
		return &ir.CharConst{Value: r}
	case n.NullOf != nil:
		t, err := sig.ParseType(*n.NullOf)
		if err != nil {
			b.errorf(path+".null_of", "%s", err)
			return nil
		}
		if !t.IsReference() {
			b.errorf(path, "null_of takes a reference type, not %q", *n.NullOf)
			return nil
		}
		return &ir.NullConst{Of: t}
	case n.Local != nil:
		if *n.Local < 0 {
			b.errorf(path, "local slot %d is negative", *n.Local)
		}
		if n.Type == "" {
			b.errorf(path, "local nodes need a type")
			return nil
		}
		return &ir.Local{Slot: *n.Local, Of: b.fieldType(path+".type", n.Type)}
	case n.Binary != nil:
		return b.binary(path+".binary", n.Binary)
	case n.Call != nil:
		return b.call(path+".call", n.Call)
	case n.DynamicCall != nil:
		return b.dynamicCall(path+".dynamic_call", n.DynamicCall)
	case n.GetStatic != nil:
		return b.getStatic(path+".get_static", n.GetStatic)
	case n.Handle != nil:
		return &ir.FuncRef{Target: b.funcRef(path+".handle", n.Handle)}
	case n.MethodType != nil:
		return &ir.MethodTypeOf{Target: b.funcRef(path+".method_type", n.MethodType)}
	case n.Return != nil:
		ret := &ir.Return{}
		if n.Return.Value != nil {
			ret.Value = b.node(path+".return.value", n.Return.Value)
		}
		return ret
	}
	return nil
}

var binaryOps = map[string]ir.BinOp{
	"add": ir.Add,
	"sub": ir.Sub,
	"mul": ir.Mul,
	"div": ir.Div,
	"rem": ir.Rem,
}

func (b *builder) binary(path string, n *Binary) ir.Node {
	op, ok := binaryOps[n.Op]
	if !ok {
		b.errorf(path, "unknown operator %q; use add, sub, mul, div, or rem", n.Op)
	}
	out := &ir.Binary{Op: op}
	if n.Left == nil {
		b.errorf(path, "a left operand is required")
	} else {
		out.Left = b.node(path+".left", n.Left)
	}
	if n.Right == nil {
		b.errorf(path, "a right operand is required")
	} else {
		out.Right = b.node(path+".right", n.Right)
	}
	return out
}

func (b *builder) call(path string, n *Call) ir.Node {
	out := &ir.Call{}
	if n.Function == nil {
		b.errorf(path, "a function is required")
	} else {
		out.Callee = b.funcRef(path+".function", n.Function)
		if n.Function.Static && n.Receiver != nil {
			b.errorf(path, "a static call takes no receiver")
		}
		if !n.Function.Static && n.Receiver == nil {
			b.errorf(path, "a receiver is required")
		}
		if len(n.Args) != len(out.Callee.Params) {
			b.errorf(path, "%s takes %d arguments, got %d",
				n.Function.Name, len(out.Callee.Params), len(n.Args))
		}
	}
	if n.Receiver != nil {
		out.Receiver = b.node(path+".receiver", n.Receiver)
	}
	for i := range n.Args {
		out.Args = append(out.Args, b.node(fmt.Sprintf("%s.args[%d]", path, i), &n.Args[i]))
	}
	return out
}

func (b *builder) dynamicCall(path string, n *DynamicCall) ir.Node {
	if n.Name == "" {
		b.errorf(path, "a call site name is required")
	}
	m := b.method(path+".descriptor", n.Descriptor)
	var tag int32
	var owner, name, desc string
	if n.Bootstrap == nil {
		b.errorf(path, "a bootstrap method is required")
	} else {
		tag = b.handleTag(path+".bootstrap.tag", n.Bootstrap.Tag)
		owner, name, desc = n.Bootstrap.Owner, n.Bootstrap.Name, n.Bootstrap.Descriptor
		if owner == "" {
			b.errorf(path+".bootstrap", "an owner is required")
		}
		if name == "" {
			b.errorf(path+".bootstrap", "a name is required")
		}
		if desc == "" {
			b.errorf(path+".bootstrap", "a descriptor is required")
		}
	}
	if len(n.Args) != len(m.Params) {
		b.errorf(path, "%s takes %d arguments, got %d", n.Name, len(m.Params), len(n.Args))
	}
	target := ir.DynamicTarget(n.Name, m)
	inner := &ir.Call{Callee: target}
	for i := range n.Args {
		inner.Args = append(inner.Args, b.node(fmt.Sprintf("%s.args[%d]", path, i), &n.Args[i]))
	}
	var bootstrapArgs []ir.Node
	for i := range n.BootstrapArgs {
		bootstrapArgs = append(bootstrapArgs,
			b.node(fmt.Sprintf("%s.bootstrap_args[%d]", path, i), &n.BootstrapArgs[i]))
	}
	return ir.InvokeDynamic(inner, tag, owner, name, desc, bootstrapArgs...)
}

// handleTags maps reference kind names to their JVM tag values.
var handleTags = map[string]int32{
	"getfield":         1,
	"getstatic":        2,
	"putfield":         3,
	"putstatic":        4,
	"invokevirtual":    5,
	"invokestatic":     6,
	"invokespecial":    7,
	"newinvokespecial": 8,
	"invokeinterface":  9,
}

func (b *builder) handleTag(path, tag string) int32 {
	if v, ok := handleTags[tag]; ok {
		return v
	}
	if v, err := strconv.ParseInt(tag, 10, 32); err == nil && v >= 0 && v <= 0xff {
		return int32(v)
	}
	b.errorf(path, "unknown bootstrap handle tag %q", tag)
	return 0
}

func (b *builder) getStatic(path string, n *Field) ir.Node {
	if n.Owner == "" {
		b.errorf(path, "an owner is required")
	}
	if n.Name == "" {
		b.errorf(path, "a field name is required")
	}
	return &ir.GetStaticField{
		Owner: n.Owner,
		Name:  n.Name,
		Of:    b.fieldType(path+".type", n.Type),
	}
}

func (b *builder) funcRef(path string, ref *FunctionRef) *ir.Function {
	if ref.Owner == "" {
		b.errorf(path, "an owner is required")
	}
	if ref.Name == "" {
		b.errorf(path, "a function name is required")
	}
	m := b.method(path+".descriptor", ref.Descriptor)
	return &ir.Function{
		Name:        ref.Name,
		LinkName:    ref.LinkName,
		Owner:       ref.Owner,
		Static:      ref.Static,
		InInterface: ref.InInterface,
		Params:      m.Params,
		Return:      m.Return,
	}
}

func (b *builder) fieldType(path, desc string) sig.Type {
	if desc == "" {
		b.errorf(path, "a type descriptor is required")
		return sig.Type{}
	}
	t, err := sig.ParseType(desc)
	if err != nil {
		b.errorf(path, "%s", err)
		return sig.Type{}
	}
	if t.IsVoid() {
		b.errorf(path, "void is not a value type")
		return sig.Type{}
	}
	return t
}

func (b *builder) method(path, desc string) sig.Method {
	if desc == "" {
		b.errorf(path, "a method descriptor is required")
		return sig.Method{}
	}
	m, err := sig.ParseMethod(desc)
	if err != nil {
		b.errorf(path, "%s", err)
		return sig.Method{}
	}
	return m
}
