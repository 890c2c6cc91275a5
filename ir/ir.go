// Package ir defines the typed intermediate representation consumed by the
// code generator. Nodes carry JVM-level types so lowering never needs to
// re-derive them.
package ir

import (
	"github.com/brome-lang/jvm/sig"
)

// Node represents an expression or statement in a function body. Every node
// knows the JVM-level type of the value it produces; statements produce void.
type Node interface {
	// Type returns the JVM-level type of the value the node evaluates to.
	Type() sig.Type

	// String returns a compact single-line rendering of the node.
	String() string

	irNode()
}

// Origin records how a function came to exist.
type Origin uint8

const (
	// DefaultOrigin marks an ordinary declared or referenced function.
	DefaultOrigin Origin = iota

	// DynamicCallTarget marks the synthetic callee that carries the name,
	// descriptor, and arguments of an invokedynamic call site.
	DynamicCallTarget
)

// String returns the origin name.
func (o Origin) String() string {
	switch o {
	case DefaultOrigin:
		return "default"
	case DynamicCallTarget:
		return "dynamic_call_target"
	default:
		return "unknown"
	}
}

// Intrinsic identifies functions whose calls lower to something other than
// a plain invocation.
type Intrinsic uint8

const (
	// IntrinsicNone marks a function with ordinary call lowering.
	IntrinsicNone Intrinsic = iota

	// IntrinsicInvokeDynamic marks the function whose calls lower to an
	// invokedynamic instruction.
	IntrinsicInvokeDynamic

	// IntrinsicMethodType marks the function whose calls resolve to a
	// method type constant instead of producing any instructions.
	IntrinsicMethodType
)

// Function describes a method: either one declared in the class being
// generated (Body non-nil) or one referenced from elsewhere (Body nil).
// Params never include the dispatch receiver; a non-static function has an
// implicit receiver of its owner type.
type Function struct {
	Name        string     // source-level name
	LinkName    string     // JVM-level name, when it differs from Name
	Owner       string     // internal name of the declaring class
	Static      bool       // true when the function has no dispatch receiver
	InInterface bool       // true when the owner is an interface
	Params      []sig.Type // parameter types, in declaration order
	Return      sig.Type
	Origin      Origin
	Intrinsic   Intrinsic
	Body        []Node // nil for functions declared elsewhere
}

// JVMName returns the name written into the class file, which is LinkName
// when set and Name otherwise.
func (f *Function) JVMName() string {
	if f.LinkName != "" {
		return f.LinkName
	}
	return f.Name
}

// Signature returns the erased method signature.
func (f *Function) Signature() sig.Method {
	return sig.Method{Params: f.Params, Return: f.Return}
}

// Descriptor returns the erased method descriptor, e.g. "(I)V". The
// receiver of a non-static function is not part of the descriptor.
func (f *Function) Descriptor() string {
	return f.Signature().Descriptor()
}

// Class describes a class to generate.
type Class struct {
	Name       string // internal name, e.g. "com/example/Main"
	Super      string // internal name of the superclass; defaults to java/lang/Object
	Interface  bool
	SourceFile string // value for the SourceFile attribute; optional
	Functions  []*Function
}

// SuperName returns the superclass internal name, defaulting to
// java/lang/Object.
func (c *Class) SuperName() string {
	if c.Super == "" {
		return "java/lang/Object"
	}
	return c.Super
}
