package codegen

import (
	"github.com/brome-lang/jvm/ir"
	"github.com/brome-lang/jvm/sig"
)

// lowerInvokeDynamic lowers a call to the invokedynamic intrinsic into a
// single invokedynamic instruction carrying the call site name, the
// dynamic descriptor, the bootstrap method handle, and the resolved
// bootstrap arguments.
//
// The raw call is validated into its typed form first, and the bootstrap
// arguments are resolved before the first instruction is emitted.
// Resolution is free of side effects, so a node that fails any shape check
// leaves the instruction stream untouched.
func (g *Generator) lowerInvokeDynamic(call *ir.Call) (sig.Type, error) {
	dyn, err := ir.NewDynamicCall(call)
	if err != nil {
		return sig.Type{}, g.internal(call, "%s", err)
	}
	target := dyn.Target
	if len(dyn.Args) != len(target.Params) {
		return sig.Type{}, g.internal(call, "call site %s takes %d arguments, got %d",
			target.JVMName(), len(target.Params), len(dyn.Args))
	}
	resolved, err := resolveBootstrapArgs(dyn.BootstrapArgs)
	if err != nil {
		return sig.Type{}, g.inFunction(err)
	}

	g.logger.Debug().
		Str("name", target.JVMName()).
		Str("descriptor", target.Descriptor()).
		Str("bootstrap", dyn.Bootstrap.String()).
		Int("bootstrapArgs", len(resolved)).
		Msg("lowering dynamic call site")

	// Arguments are pushed in the call site's parameter order. Their side
	// effects are observable in that order.
	for i, arg := range dyn.Args {
		if err := g.exprAs(arg, target.Params[i]); err != nil {
			return sig.Type{}, err
		}
	}

	bsm, err := g.res.BootstrapMethodEntry(dyn.Bootstrap, resolved)
	if err != nil {
		return sig.Type{}, err
	}
	index, err := g.res.InvokeDynamic(bsm, target.JVMName(), target.Descriptor())
	if err != nil {
		return sig.Type{}, err
	}
	g.code.EmitInvokeDynamic(index)

	g.code.Pop(target.Signature().ArgSlots())
	g.code.Push(target.Return.Slots())
	return target.Return, nil
}
