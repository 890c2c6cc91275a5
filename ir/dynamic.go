package ir

import (
	"fmt"

	"github.com/brome-lang/jvm/constant"
	"github.com/brome-lang/jvm/sig"
)

// DynamicCall is the validated form of a call to the invokedynamic
// intrinsic. The code generator builds it once, up front, and lowers from
// the validated form only.
type DynamicCall struct {
	// Target is the synthetic callee carrying the call site name and the
	// dynamic descriptor. Its origin is DynamicCallTarget.
	Target *Function

	// Args are the call site arguments, in Target's parameter order.
	Args []Node

	// Bootstrap is the bootstrap method handle.
	Bootstrap constant.Handle

	// BootstrapArgs are the static bootstrap arguments, not yet resolved
	// to constants.
	BootstrapArgs []Node
}

// NewDynamicCall validates the shape of a call to the invokedynamic
// intrinsic and returns its validated form. The intrinsic call carries:
//
//	Args[0]  a call to the dynamic call target, holding the call site
//	         name, the dynamic descriptor, and the call site arguments
//	Args[1]  int constant: bootstrap method handle tag
//	Args[2]  string constant: bootstrap method owner, as an internal name
//	Args[3]  string constant: bootstrap method name
//	Args[4]  string constant: bootstrap method descriptor
//	Args[5:] bootstrap method arguments
func NewDynamicCall(call *Call) (*DynamicCall, error) {
	if call.Callee == nil || call.Callee.Intrinsic != IntrinsicInvokeDynamic {
		return nil, fmt.Errorf("not a call to the invokedynamic intrinsic")
	}
	if call.Receiver != nil {
		return nil, fmt.Errorf("dynamic call has a receiver")
	}
	if len(call.Args) < 5 {
		return nil, fmt.Errorf("dynamic call takes at least 5 arguments, got %d", len(call.Args))
	}

	inner, ok := call.Args[0].(*Call)
	if !ok {
		return nil, fmt.Errorf("dynamic call argument 0: want a call to the dynamic call target, got %T", call.Args[0])
	}
	if inner.Callee == nil {
		return nil, fmt.Errorf("dynamic call argument 0: call without a callee")
	}
	if inner.Callee.Origin != DynamicCallTarget {
		return nil, fmt.Errorf("dynamic call target has origin %s, want %s", inner.Callee.Origin, DynamicCallTarget)
	}
	if inner.Receiver != nil {
		return nil, fmt.Errorf("dynamic call target call has a receiver")
	}

	tag, ok := call.Args[1].(*IntConst)
	if !ok {
		return nil, fmt.Errorf("dynamic call argument 1: want an int constant for the bootstrap handle tag, got %T", call.Args[1])
	}
	if tag.Value < 0 || tag.Value > 255 {
		return nil, fmt.Errorf("bootstrap handle tag %d out of byte range", tag.Value)
	}

	strs := make([]string, 3)
	for i, field := range []string{"owner", "name", "descriptor"} {
		s, ok := call.Args[2+i].(*StringConst)
		if !ok {
			return nil, fmt.Errorf("dynamic call argument %d: want a string constant for the bootstrap method %s, got %T",
				2+i, field, call.Args[2+i])
		}
		strs[i] = s.Value
	}

	return &DynamicCall{
		Target: inner.Callee,
		Args:   inner.Args,
		Bootstrap: constant.Handle{
			Kind:       constant.HandleKind(tag.Value),
			Owner:      strs[0],
			Name:       strs[1],
			Descriptor: strs[2],
		},
		BootstrapArgs: call.Args[5:],
	}, nil
}

// DynamicTarget builds the synthetic callee for an invokedynamic call
// site. Its name becomes the call site name and its signature becomes the
// dynamic descriptor.
func DynamicTarget(name string, m sig.Method) *Function {
	return &Function{
		Name:   name,
		Static: true,
		Params: m.Params,
		Return: m.Return,
		Origin: DynamicCallTarget,
	}
}

// MethodTypeCall builds a call to the method type intrinsic in its raw
// carrier shape. The call resolves at lowering time to a method type
// constant for target's descriptor and produces no instructions.
func MethodTypeCall(target *Function) *Call {
	callee := &Function{
		Name:      "<methodtype>",
		Static:    true,
		Return:    sig.Object("java/lang/invoke/MethodType"),
		Intrinsic: IntrinsicMethodType,
	}
	return &Call{Callee: callee, Args: []Node{&FuncRef{Target: target}}}
}

// InvokeDynamic builds a call to the invokedynamic intrinsic in the raw
// carrier shape that NewDynamicCall validates. The target must be a call
// to a function built with DynamicTarget.
func InvokeDynamic(target *Call, tag int32, owner, name, desc string, bootstrapArgs ...Node) *Call {
	callee := &Function{
		Name:      "<invokedynamic>",
		Static:    true,
		Return:    target.Callee.Return,
		Intrinsic: IntrinsicInvokeDynamic,
	}
	args := []Node{
		target,
		&IntConst{Value: tag, Of: sig.Int},
		&StringConst{Value: owner},
		&StringConst{Value: name},
		&StringConst{Value: desc},
	}
	args = append(args, bootstrapArgs...)
	return &Call{Callee: callee, Args: args}
}
