// Package constant defines the low-level constant values that a class file
// constant pool can hold and that an invokedynamic instruction can carry as
// bootstrap method arguments.
package constant

import (
	"fmt"
	"strconv"
)

// Value is a constant in its final, pool-ready form. The set of
// implementations is closed: Int32, Int64, Float32, Float64, String,
// MethodType, and Handle.
type Value interface {
	// String returns a human friendly rendering, as shown in disassembly.
	String() string

	constValue()
}

// Int32 is a 32-bit integer constant. Byte, short, char, and boolean
// values are stored in this form after widening.
type Int32 int32

func (Int32) constValue() {}

func (v Int32) String() string { return strconv.FormatInt(int64(v), 10) }

// Int64 is a 64-bit integer constant. It occupies two constant pool slots.
type Int64 int64

func (Int64) constValue() {}

func (v Int64) String() string { return strconv.FormatInt(int64(v), 10) + "l" }

// Float32 is a 32-bit floating point constant.
type Float32 float32

func (Float32) constValue() {}

func (v Float32) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32) + "f"
}

// Float64 is a 64-bit floating point constant. It occupies two constant
// pool slots.
type Float64 float64

func (Float64) constValue() {}

func (v Float64) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64) + "d"
}

// String is a string constant, stored as a CONSTANT_String_info entry.
type String string

func (String) constValue() {}

func (v String) String() string { return strconv.Quote(string(v)) }

// MethodType is a method type constant. The descriptor is carried verbatim
// and surfaces at run time as a java.lang.invoke.MethodType.
type MethodType struct {
	Descriptor string
}

func (MethodType) constValue() {}

func (v MethodType) String() string { return v.Descriptor }

// HandleKind is the reference kind of a method handle constant. The values
// are fixed by the class file format.
type HandleKind uint8

const (
	GetField         HandleKind = 1
	GetStatic        HandleKind = 2
	PutField         HandleKind = 3
	PutStatic        HandleKind = 4
	InvokeVirtual    HandleKind = 5
	InvokeStatic     HandleKind = 6
	InvokeSpecial    HandleKind = 7
	NewInvokeSpecial HandleKind = 8
	InvokeInterface  HandleKind = 9
)

// Valid reports whether the kind is one of the nine defined reference kinds.
func (k HandleKind) Valid() bool {
	return k >= GetField && k <= InvokeInterface
}

// IsField reports whether the kind references a field rather than a method.
func (k HandleKind) IsField() bool {
	return k >= GetField && k <= PutStatic
}

// String returns the JVMS reference kind name, e.g. "REF_invokeStatic".
func (k HandleKind) String() string {
	switch k {
	case GetField:
		return "REF_getField"
	case GetStatic:
		return "REF_getStatic"
	case PutField:
		return "REF_putField"
	case PutStatic:
		return "REF_putStatic"
	case InvokeVirtual:
		return "REF_invokeVirtual"
	case InvokeStatic:
		return "REF_invokeStatic"
	case InvokeSpecial:
		return "REF_invokeSpecial"
	case NewInvokeSpecial:
		return "REF_newInvokeSpecial"
	case InvokeInterface:
		return "REF_invokeInterface"
	default:
		return fmt.Sprintf("REF_unknown(%d)", uint8(k))
	}
}

// Handle is a method handle constant: a direct reference to a method or
// field, surfaced at run time as a java.lang.invoke.MethodHandle.
// IsInterface records whether the owner is an interface, which determines
// whether the handle points at a Methodref or an InterfaceMethodref entry.
type Handle struct {
	Kind        HandleKind
	Owner       string // internal name of the owning class or interface
	Name        string
	Descriptor  string
	IsInterface bool
}

func (Handle) constValue() {}

func (v Handle) String() string {
	s := fmt.Sprintf("%s %s.%s:%s", v.Kind, v.Owner, v.Name, v.Descriptor)
	if v.IsInterface {
		s += " itf"
	}
	return s
}
