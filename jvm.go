// Package jvm generates Java class files from the backend IR.
//
// The package wires the pieces together: it builds a class file skeleton,
// runs the code generator over every function body, and serializes the
// result. Dynamic call sites in the IR lower to invokedynamic instructions
// with their bootstrap methods collected into the class's BootstrapMethods
// attribute.
package jvm

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brome-lang/jvm/classfile"
	"github.com/brome-lang/jvm/codegen"
	"github.com/brome-lang/jvm/dis"
	"github.com/brome-lang/jvm/ir"
)

// Option configures class file generation.
type Option func(*options)

type options struct {
	logger *zerolog.Logger
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithLogger sets the logger used to trace generation. By default nothing
// is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// Generate compiles the class into its serialized class file bytes.
//
// A default `<init>` constructor calling the superclass constructor is
// synthesized for non-interface classes. Functions without a body become
// abstract methods.
func Generate(class *ir.Class, opts ...Option) ([]byte, error) {
	o := collectOptions(opts...)
	cf, g, err := assemble(class, o)
	if err != nil {
		return nil, err
	}
	if !class.Interface {
		init, err := g.DefaultInit(class.SuperName())
		if err != nil {
			return nil, err
		}
		if err := cf.AddMethod(classfile.AccPublic, "<init>", "()V", init); err != nil {
			return nil, err
		}
	}
	for _, fn := range class.Functions {
		var code *classfile.Code
		if fn.Body != nil {
			code, err = g.GenerateBody(fn)
			if err != nil {
				return nil, err
			}
		}
		if err := cf.AddMethod(methodAccess(fn), fn.JVMName(), fn.Descriptor(), code); err != nil {
			return nil, err
		}
	}
	return cf.Bytes()
}

// DisassembleFunction generates the body of the named function and returns
// its decoded instruction listing, annotated against the constant pool the
// generation produced.
func DisassembleFunction(class *ir.Class, name string, opts ...Option) ([]dis.Instruction, error) {
	o := collectOptions(opts...)
	cf, g, err := assemble(class, o)
	if err != nil {
		return nil, err
	}
	for _, fn := range class.Functions {
		if fn.Name != name && fn.JVMName() != name {
			continue
		}
		if fn.Body == nil {
			return nil, fmt.Errorf("function %s has no body", name)
		}
		code, err := g.GenerateBody(fn)
		if err != nil {
			return nil, err
		}
		return dis.Disassemble(code, cf.Pool())
	}
	return nil, fmt.Errorf("no function named %q in class %s", name, class.Name)
}

func assemble(class *ir.Class, o *options) (*classfile.ClassFile, *codegen.Generator, error) {
	if class == nil {
		return nil, nil, fmt.Errorf("a class is required")
	}
	if class.Name == "" {
		return nil, nil, fmt.Errorf("a class name is required")
	}
	cf, err := classfile.New(classfile.Params{
		Name:       class.Name,
		Super:      class.Super,
		Interface:  class.Interface,
		SourceFile: class.SourceFile,
	})
	if err != nil {
		return nil, nil, err
	}
	g, err := codegen.New(&codegen.Config{Resolver: cf, Logger: o.logger})
	if err != nil {
		return nil, nil, err
	}
	return cf, g, nil
}

func methodAccess(fn *ir.Function) uint16 {
	access := uint16(classfile.AccPublic)
	if fn.Static {
		access |= classfile.AccStatic
	}
	if fn.Body == nil {
		access |= classfile.AccAbstract
	}
	return access
}
