package codegen

import (
	"github.com/brome-lang/jvm/constant"
	"github.com/brome-lang/jvm/ir"
	"github.com/brome-lang/jvm/sig"
)

// resolveBootstrapArgs resolves a sequence of bootstrap arguments in order.
// Resolution has no side effects, so a failure partway through leaves
// nothing to undo.
func resolveBootstrapArgs(nodes []ir.Node) ([]constant.Value, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]constant.Value, len(nodes))
	for i, node := range nodes {
		v, err := resolveBootstrapArg(node)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// resolveBootstrapArg maps one bootstrap argument to the constant recorded
// in the class file's bootstrap method table. Bootstrap arguments must be
// statically known, so the accepted shapes are a closed set: numeric and
// string literals, function references, and method type queries. Byte and
// short constants widen to int because the constant pool has no narrower
// integer kind. Everything else, booleans and chars included, is a shape
// the front end never produces here.
func resolveBootstrapArg(node ir.Node) (constant.Value, error) {
	switch n := node.(type) {
	case *ir.IntConst:
		switch n.Of.Kind {
		case sig.IntKind, sig.ShortKind, sig.ByteKind:
			return constant.Int32(n.Value), nil
		}
		return nil, internalf(node, "int constant of type %s cannot be a bootstrap argument", n.Of)
	case *ir.LongConst:
		return constant.Int64(n.Value), nil
	case *ir.FloatConst:
		return constant.Float32(n.Value), nil
	case *ir.DoubleConst:
		return constant.Float64(n.Value), nil
	case *ir.StringConst:
		return constant.String(n.Value), nil
	case *ir.FuncRef:
		return methodHandle(n.Target), nil
	case *ir.MethodTypeOf:
		return methodTypeOf(n.Target), nil
	case *ir.Call:
		if n.Callee != nil && n.Callee.Intrinsic == ir.IntrinsicMethodType {
			return resolveMethodTypeCall(n)
		}
	}
	return nil, internalf(node, "cannot use %T as a bootstrap argument", node)
}

// resolveMethodTypeCall handles the raw carrier form of a method type
// query: a call to the method type intrinsic whose single argument
// references the function being described.
func resolveMethodTypeCall(call *ir.Call) (constant.Value, error) {
	if len(call.Args) != 1 {
		return nil, internalf(call, "method type intrinsic takes 1 argument, got %d", len(call.Args))
	}
	ref, ok := call.Args[0].(*ir.FuncRef)
	if !ok {
		return nil, internalf(call, "method type intrinsic argument: want a function reference, got %T", call.Args[0])
	}
	return methodTypeOf(ref.Target), nil
}

// methodHandle derives the method handle constant for a function
// reference. A receiverless function dispatches invokestatic, a function
// with a receiver dispatches invokevirtual; no other dispatch kind appears
// in bootstrap arguments. The interface flag follows the owner, since the
// class file encodes interface dispatch handles differently even under the
// same kind.
func methodHandle(f *ir.Function) constant.Handle {
	kind := constant.InvokeVirtual
	if f.Static {
		kind = constant.InvokeStatic
	}
	return constant.Handle{
		Kind:        kind,
		Owner:       f.Owner,
		Name:        f.JVMName(),
		Descriptor:  f.Descriptor(),
		IsInterface: f.InInterface,
	}
}

// methodTypeOf derives the method type constant for a function reference.
// The descriptor is the function's own declared one, taken verbatim: no
// substitution happens at the reference site, so a generic function always
// describes its erased signature.
func methodTypeOf(f *ir.Function) constant.MethodType {
	return constant.MethodType{Descriptor: f.Descriptor()}
}
