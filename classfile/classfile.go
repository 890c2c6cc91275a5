// Package classfile builds JVM class files: it interns constants into the
// constant pool, collects method bodies and the bootstrap methods table,
// and serializes the result in the binary class file format.
package classfile

import (
	"fmt"

	"github.com/brome-lang/jvm/constant"
)

// Class file header values.
const (
	Magic        = 0xCAFEBABE
	MajorVersion = 52 // Java 8
	MinorVersion = 0
)

// Access flags for classes and methods.
const (
	AccPublic    = 0x0001
	AccPrivate   = 0x0002
	AccProtected = 0x0004
	AccStatic    = 0x0008
	AccFinal     = 0x0010
	AccSuper     = 0x0020
	AccInterface = 0x0200
	AccAbstract  = 0x0400
	AccSynthetic = 0x1000
)

// maxCodeBytes is the format's limit on the code array of a single method.
const maxCodeBytes = 0xFFFF

// BootstrapMethod is one entry of the BootstrapMethods attribute: a method
// handle pool index plus the pool indices of its static arguments.
type BootstrapMethod struct {
	MethodRef uint16
	Args      []uint16
}

type method struct {
	access uint16
	name   uint16
	desc   uint16
	code   *Code
}

// Params configures a new class file.
type Params struct {
	Name       string // internal name, e.g. "com/example/Main"
	Super      string // internal name of the superclass; defaults to java/lang/Object
	Interface  bool
	SourceFile string // optional SourceFile attribute value
}

// ClassFile accumulates one class under construction. It is not safe for
// concurrent use.
type ClassFile struct {
	name       string
	pool       *Pool
	access     uint16
	thisClass  uint16
	superClass uint16
	sourceFile uint16 // Utf8 index of the source file name; 0 when absent
	methods    []method
	bootstrap  []BootstrapMethod
	bootSeen   map[string]uint16
}

// New returns an empty class file for the given class.
func New(params Params) (*ClassFile, error) {
	pool := NewPool()
	thisClass, err := pool.Class(params.Name)
	if err != nil {
		return nil, err
	}
	super := params.Super
	if super == "" {
		super = "java/lang/Object"
	}
	superClass, err := pool.Class(super)
	if err != nil {
		return nil, err
	}
	access := uint16(AccPublic | AccSuper)
	if params.Interface {
		access = AccPublic | AccInterface | AccAbstract
	}
	cf := &ClassFile{
		name:       params.Name,
		pool:       pool,
		access:     access,
		thisClass:  thisClass,
		superClass: superClass,
		bootSeen:   make(map[string]uint16),
	}
	if params.SourceFile != "" {
		if _, err := pool.Utf8("SourceFile"); err != nil {
			return nil, err
		}
		cf.sourceFile, err = pool.Utf8(params.SourceFile)
		if err != nil {
			return nil, err
		}
	}
	return cf, nil
}

// Name returns the internal name of the class.
func (cf *ClassFile) Name() string {
	return cf.name
}

// Pool returns the class file's constant pool.
func (cf *ClassFile) Pool() *Pool {
	return cf.pool
}

// AddMethod adds a method. A nil code means the method has no Code
// attribute, as for abstract methods.
func (cf *ClassFile) AddMethod(access uint16, name, desc string, code *Code) error {
	if len(cf.methods) >= 0xFFFF {
		return fmt.Errorf("too many methods")
	}
	if code != nil && code.Len() > maxCodeBytes {
		return fmt.Errorf("method %s%s: code length %d exceeds %d bytes", name, desc, code.Len(), maxCodeBytes)
	}
	nameIdx, err := cf.pool.Utf8(name)
	if err != nil {
		return err
	}
	descIdx, err := cf.pool.Utf8(desc)
	if err != nil {
		return err
	}
	if code != nil {
		if _, err := cf.pool.Utf8("Code"); err != nil {
			return err
		}
	}
	cf.methods = append(cf.methods, method{
		access: access,
		name:   nameIdx,
		desc:   descIdx,
		code:   code,
	})
	return nil
}

// MethodCount returns the number of methods added so far.
func (cf *ClassFile) MethodCount() int {
	return len(cf.methods)
}

// Constant interns a resolved constant value and returns its pool index.
func (cf *ClassFile) Constant(v constant.Value) (uint16, error) {
	return cf.pool.Constant(v)
}

// Class interns a class reference for the given internal name.
func (cf *ClassFile) Class(name string) (uint16, error) {
	return cf.pool.Class(name)
}

// Fieldref interns a field reference.
func (cf *ClassFile) Fieldref(owner, name, desc string) (uint16, error) {
	return cf.pool.Fieldref(owner, name, desc)
}

// Methodref interns a method reference, as an InterfaceMethodref when the
// owner is an interface.
func (cf *ClassFile) Methodref(owner, name, desc string, ownerIsInterface bool) (uint16, error) {
	return cf.pool.Methodref(owner, name, desc, ownerIsInterface)
}

// BootstrapMethodEntry interns a bootstrap method (handle plus static
// arguments) into the BootstrapMethods table and returns its table index.
// Identical entries are deduplicated.
func (cf *ClassFile) BootstrapMethodEntry(handle constant.Handle, args []constant.Value) (uint16, error) {
	ref, err := cf.pool.MethodHandle(handle)
	if err != nil {
		return 0, err
	}
	argIdx := make([]uint16, len(args))
	for i, a := range args {
		idx, err := cf.pool.Constant(a)
		if err != nil {
			return 0, err
		}
		argIdx[i] = idx
	}
	key := fmt.Sprintf("%d:%v", ref, argIdx)
	if idx, ok := cf.bootSeen[key]; ok {
		return idx, nil
	}
	if len(cf.bootstrap) >= 0xFFFF {
		return 0, fmt.Errorf("bootstrap methods table overflow")
	}
	idx := uint16(len(cf.bootstrap))
	cf.bootstrap = append(cf.bootstrap, BootstrapMethod{MethodRef: ref, Args: argIdx})
	cf.bootSeen[key] = idx
	return idx, nil
}

// InvokeDynamic interns a CONSTANT_InvokeDynamic_info entry referencing
// the given bootstrap table index and returns its pool index.
func (cf *ClassFile) InvokeDynamic(bootstrap uint16, name, desc string) (uint16, error) {
	return cf.pool.InvokeDynamic(bootstrap, name, desc)
}

// BootstrapMethods returns a copy of the bootstrap methods table.
func (cf *ClassFile) BootstrapMethods() []BootstrapMethod {
	out := make([]BootstrapMethod, len(cf.bootstrap))
	for i, m := range cf.bootstrap {
		args := make([]uint16, len(m.Args))
		copy(args, m.Args)
		out[i] = BootstrapMethod{MethodRef: m.MethodRef, Args: args}
	}
	return out
}

// Bytes serializes the class file.
func (cf *ClassFile) Bytes() ([]byte, error) {
	var bootstrapAttr uint16
	if len(cf.bootstrap) > 0 {
		var err error
		bootstrapAttr, err = cf.pool.Utf8("BootstrapMethods")
		if err != nil {
			return nil, err
		}
	}

	w := &writer{}
	w.u32(Magic)
	w.u16(MinorVersion)
	w.u16(MajorVersion)
	cf.pool.write(w)
	w.u16(cf.access)
	w.u16(cf.thisClass)
	w.u16(cf.superClass)
	w.u16(0) // interfaces_count
	w.u16(0) // fields_count

	w.u16(uint16(len(cf.methods)))
	for _, m := range cf.methods {
		w.u16(m.access)
		w.u16(m.name)
		w.u16(m.desc)
		if m.code == nil {
			w.u16(0) // attributes_count
			continue
		}
		w.u16(1) // attributes_count
		codeName, err := cf.pool.Utf8("Code")
		if err != nil {
			return nil, err
		}
		body := m.code.Bytes()
		w.u16(codeName)
		w.u32(uint32(2 + 2 + 4 + len(body) + 2 + 2))
		w.u16(uint16(m.code.MaxStack()))
		w.u16(uint16(m.code.MaxLocals()))
		w.u32(uint32(len(body)))
		w.bytes(body)
		w.u16(0) // exception_table_length
		w.u16(0) // attributes_count
	}

	attrCount := 0
	if cf.sourceFile != 0 {
		attrCount++
	}
	if len(cf.bootstrap) > 0 {
		attrCount++
	}
	w.u16(uint16(attrCount))
	if cf.sourceFile != 0 {
		nameIdx, err := cf.pool.Utf8("SourceFile")
		if err != nil {
			return nil, err
		}
		w.u16(nameIdx)
		w.u32(2)
		w.u16(cf.sourceFile)
	}
	if len(cf.bootstrap) > 0 {
		size := 2
		for _, m := range cf.bootstrap {
			size += 2 + 2 + 2*len(m.Args)
		}
		w.u16(bootstrapAttr)
		w.u32(uint32(size))
		w.u16(uint16(len(cf.bootstrap)))
		for _, m := range cf.bootstrap {
			w.u16(m.MethodRef)
			w.u16(uint16(len(m.Args)))
			for _, a := range m.Args {
				w.u16(a)
			}
		}
	}
	return w.buf, nil
}
